package repository

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/retail-pos/internal/inventory/domain"
)

const tracerName = "inventory-repository"

// ProductRepositoryWithTracing wraps a product repository with spans
type ProductRepositoryWithTracing struct {
	next   domain.ProductRepository
	tracer trace.Tracer
}

// NewProductRepositoryWithTracing creates a new repository with tracing
func NewProductRepositoryWithTracing(next domain.ProductRepository, tp trace.TracerProvider) *ProductRepositoryWithTracing {
	return &ProductRepositoryWithTracing{next: next, tracer: tp.Tracer(tracerName)}
}

// Create with tracing
func (r *ProductRepositoryWithTracing) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "repository.CreateProduct",
		trace.WithAttributes(
			attribute.String("owner.id", product.OwnerID.String()),
			attribute.String("product.type", string(product.ProductType)),
			attribute.String("product.category", product.Category),
			attribute.Int("product.total_stock", product.TotalStock),
		),
	)
	defer span.End()

	if err := r.next.Create(ctx, product); err != nil {
		recordError(span, err)
		return err
	}

	span.SetAttributes(attribute.String("product.id", product.ID.String()))
	return nil
}

// FindByID with tracing
func (r *ProductRepositoryWithTracing) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "repository.FindProductByID",
		trace.WithAttributes(
			attribute.String("owner.id", ownerID.String()),
			attribute.String("product.id", id.String()),
		),
	)
	defer span.End()

	product, err := r.next.FindByID(ctx, ownerID, id)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("product.total_stock", product.TotalStock))
	return product, nil
}

// FindAll with tracing
func (r *ProductRepositoryWithTracing) FindAll(ctx context.Context, ownerID uuid.UUID) ([]domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "repository.FindAllProducts",
		trace.WithAttributes(attribute.String("owner.id", ownerID.String())),
	)
	defer span.End()

	products, err := r.next.FindAll(ctx, ownerID)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}

// Update with tracing
func (r *ProductRepositoryWithTracing) Update(ctx context.Context, product *domain.Product, columns ...string) error {
	ctx, span := r.tracer.Start(ctx, "repository.UpdateProduct",
		trace.WithAttributes(
			attribute.String("owner.id", product.OwnerID.String()),
			attribute.String("product.id", product.ID.String()),
			attribute.StringSlice("update.columns", columns),
		),
	)
	defer span.End()

	if err := r.next.Update(ctx, product, columns...); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

// Delete with tracing
func (r *ProductRepositoryWithTracing) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	ctx, span := r.tracer.Start(ctx, "repository.DeleteProduct",
		trace.WithAttributes(
			attribute.String("owner.id", ownerID.String()),
			attribute.String("product.id", id.String()),
		),
	)
	defer span.End()

	if err := r.next.Delete(ctx, ownerID, id); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

// SaleRepositoryWithTracing wraps a sale repository with spans
type SaleRepositoryWithTracing struct {
	next   domain.SaleRepository
	tracer trace.Tracer
}

// NewSaleRepositoryWithTracing creates a new sale repository with tracing
func NewSaleRepositoryWithTracing(next domain.SaleRepository, tp trace.TracerProvider) *SaleRepositoryWithTracing {
	return &SaleRepositoryWithTracing{next: next, tracer: tp.Tracer(tracerName)}
}

// FindAll with tracing
func (r *SaleRepositoryWithTracing) FindAll(ctx context.Context, ownerID uuid.UUID) ([]domain.Sale, error) {
	ctx, span := r.tracer.Start(ctx, "repository.FindAllSales",
		trace.WithAttributes(attribute.String("owner.id", ownerID.String())),
	)
	defer span.End()

	sales, err := r.next.FindAll(ctx, ownerID)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(sales)))
	return sales, nil
}

// RecordSale with tracing
func (r *SaleRepositoryWithTracing) RecordSale(ctx context.Context, ownerID, productID uuid.UUID, apply domain.SaleApplier) (*domain.Product, *domain.Sale, error) {
	ctx, span := r.tracer.Start(ctx, "repository.RecordSale",
		trace.WithAttributes(
			attribute.String("owner.id", ownerID.String()),
			attribute.String("product.id", productID.String()),
		),
	)
	defer span.End()

	product, sale, err := r.next.RecordSale(ctx, ownerID, productID, apply)
	if err != nil {
		recordError(span, err)
		return nil, nil, err
	}

	span.SetAttributes(
		attribute.String("sale.id", sale.ID.String()),
		attribute.String("sale.variant", sale.Variant),
		attribute.Int("sale.quantity", sale.Quantity),
		attribute.Int("product.total_stock", product.TotalStock),
	)
	return product, sale, nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
