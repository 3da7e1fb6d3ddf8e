package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSaleRecorded(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	t.Cleanup(func() { _ = producer.Close() })

	productID := uuid.New()
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event SaleRecordedEvent
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		if event.EventType != EventTypeSaleRecorded || event.EventID == "" {
			return errors.New("event metadata not set")
		}
		if event.ProductID != productID || event.Quantity != 2 {
			return errors.New("event payload mismatch")
		}
		return nil
	})

	pub := NewPublisherWithProducer(producer, nil)
	err := pub.PublishSaleRecorded(context.Background(), SaleRecordedEvent{
		ProductID: productID,
		Quantity:  2,
		SalePrice: decimal.NewFromInt(2400),
	})
	require.NoError(t, err)
}

func TestPublishSaleRecorded_SendFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	t.Cleanup(func() { _ = producer.Close() })
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := NewPublisherWithProducer(producer, nil)
	err := pub.PublishSaleRecorded(context.Background(), SaleRecordedEvent{ProductID: uuid.New(), Quantity: 1})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
}

func message(eventType string, payload interface{}) *sarama.ConsumerMessage {
	raw, _ := json.Marshal(payload)
	return &sarama.ConsumerMessage{
		Topic: TopicSaleRecorded,
		Value: raw,
		Headers: []*sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(eventType)},
			{Key: []byte("event_id"), Value: []byte("evt-1")},
		},
	}
}

func TestConsumerDispatch(t *testing.T) {
	c := newConsumer(nil, "pos-test", []string{TopicSaleRecorded})

	var got SaleRecordedEvent
	c.RegisterHandler(EventTypeSaleRecorded, func(ctx context.Context, event SaleRecordedEvent) error {
		got = event
		return nil
	})

	want := SaleRecordedEvent{EventID: "evt-1", ProductName: "Ladies Handbag", Variant: "Single Item", Quantity: 1, RemainingStock: 1}
	require.NoError(t, c.handleMessage(context.Background(), message(EventTypeSaleRecorded, want)))
	assert.Equal(t, "Ladies Handbag", got.ProductName)
	assert.Equal(t, 1, got.RemainingStock)
}

func TestConsumerDispatch_Errors(t *testing.T) {
	c := newConsumer(nil, "pos-test", []string{TopicSaleRecorded})
	boom := errors.New("boom")
	c.RegisterHandler(EventTypeSaleRecorded, func(ctx context.Context, event SaleRecordedEvent) error {
		return boom
	})

	err := c.handleMessage(context.Background(), message("product.deleted", map[string]string{}))
	assert.ErrorIs(t, err, ErrNoHandler)

	bad := message(EventTypeSaleRecorded, nil)
	bad.Value = []byte("{not json")
	assert.Error(t, c.handleMessage(context.Background(), bad))

	err = c.handleMessage(context.Background(), message(EventTypeSaleRecorded, SaleRecordedEvent{Quantity: 1}))
	assert.ErrorIs(t, err, boom)
}

// failingGroup is a consumer group whose sessions always fail, as with an unreachable broker
type failingGroup struct {
	mu    sync.Mutex
	calls []time.Time
	errs  chan error
	once  sync.Once
}

func newFailingGroup() *failingGroup {
	return &failingGroup{errs: make(chan error)}
}

func (g *failingGroup) Consume(ctx context.Context, topics []string, handler sarama.ConsumerGroupHandler) error {
	g.mu.Lock()
	g.calls = append(g.calls, time.Now())
	g.mu.Unlock()
	return sarama.ErrOutOfBrokers
}

func (g *failingGroup) Calls() []time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]time.Time(nil), g.calls...)
}

func (g *failingGroup) Errors() <-chan error { return g.errs }

func (g *failingGroup) Close() error {
	g.once.Do(func() { close(g.errs) })
	return nil
}

func (g *failingGroup) Pause(map[string][]int32)  {}
func (g *failingGroup) Resume(map[string][]int32) {}
func (g *failingGroup) PauseAll()                 {}
func (g *failingGroup) ResumeAll()                {}

func TestConsumerBacksOffAfterSessionError(t *testing.T) {
	group := newFailingGroup()
	c := newConsumer(group, "pos-test", []string{TopicSaleRecorded})
	c.retryBackoff = 50 * time.Millisecond
	t.Cleanup(func() { c.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, c.Start(ctx))

	require.Eventually(t, func() bool { return len(group.Calls()) >= 3 }, 2*time.Second, 5*time.Millisecond)

	calls := group.Calls()
	for i := 1; i < len(calls); i++ {
		assert.GreaterOrEqual(t, calls[i].Sub(calls[i-1]), c.retryBackoff)
	}

	cancel()
	time.Sleep(3 * c.retryBackoff)
	stopped := len(group.Calls())
	time.Sleep(3 * c.retryBackoff)
	assert.Equal(t, stopped, len(group.Calls()))
}

func TestConsumerStopsWaitingOnCancel(t *testing.T) {
	group := newFailingGroup()
	c := newConsumer(group, "pos-test", []string{TopicSaleRecorded})
	c.retryBackoff = time.Hour
	t.Cleanup(func() { c.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, c.Start(ctx))
	require.Eventually(t, func() bool { return len(group.Calls()) == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, group.Calls(), 1)
}
