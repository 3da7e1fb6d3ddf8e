package kafka

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleRecordedEvent is emitted after a sale has been committed
type SaleRecordedEvent struct {
	EventID        string          `json:"event_id"`
	EventType      string          `json:"event_type"`
	OwnerID        uuid.UUID       `json:"owner_id"`
	SaleID         uuid.UUID       `json:"sale_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	ProductName    string          `json:"product_name"`
	ProductType    string          `json:"product_type"`
	Variant        string          `json:"variant"`
	Quantity       int             `json:"quantity"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	Profit         decimal.Decimal `json:"profit"`
	RemainingStock int             `json:"remaining_stock"`
	VariantStock   int             `json:"variant_stock"`
	Timestamp      time.Time       `json:"timestamp"`
}

// Event types
const (
	EventTypeSaleRecorded = "sale.recorded"
)

// Kafka topics
const (
	TopicSaleRecorded = "sale-recorded"
)
