package service

import (
	"context"
	"log/slog"

	"github.com/iyhunko/product-catalog/internal/metrics"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
)

// EventPublisher delivers product lifecycle events to a message broker.
type EventPublisher interface {
	PublishProductEvent(ctx context.Context, event model.ProductEvent) error
}

type ProductService struct {
	repo      repository.Repository
	publisher EventPublisher
}

// NewProductService wires the service. A nil publisher disables events.
func NewProductService(repo repository.Repository, publisher EventPublisher) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
	}
}

func (ps *ProductService) CreateProduct(ctx context.Context, fields model.ProductFields) (*model.Product, error) {
	product, err := model.NewProductFromFields(fields)
	if err != nil {
		return nil, err
	}

	created, err := ps.repo.Create(ctx, product)
	if err != nil {
		return nil, err
	}

	metrics.ProductsCreated.Inc()
	ps.publish(ctx, model.ProductCreated, created)

	return created, nil
}

func (ps *ProductService) ListProducts(ctx context.Context) ([]*model.Product, error) {
	return ps.repo.List(ctx)
}

func (ps *ProductService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	return ps.repo.FindByID(ctx, id)
}

// UpdateProduct replaces every editable field of the product. The body is
// validated before the lookup.
func (ps *ProductService) UpdateProduct(ctx context.Context, id string, fields model.ProductFields) (*model.Product, error) {
	replacement, err := model.NewProductFromFields(fields)
	if err != nil {
		return nil, err
	}

	product, err := ps.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Replace(replacement)
	product.Touch()

	updated, err := ps.repo.Update(ctx, product)
	if err != nil {
		return nil, err
	}

	metrics.ProductsUpdated.Inc()
	ps.publish(ctx, model.ProductUpdated, updated)

	return updated, nil
}

// DeleteProduct removes the product and returns it as it was stored.
func (ps *ProductService) DeleteProduct(ctx context.Context, id string) (*model.Product, error) {
	deleted, err := ps.repo.DeleteByID(ctx, id)
	if err != nil {
		return nil, err
	}

	metrics.ProductsDeleted.Inc()
	ps.publish(ctx, model.ProductDeleted, deleted)

	return deleted, nil
}

// publish never fails the request; a broken broker only costs the notification.
func (ps *ProductService) publish(ctx context.Context, action model.ProductAction, product *model.Product) {
	if ps.publisher == nil {
		return
	}
	if err := ps.publisher.PublishProductEvent(ctx, model.NewProductEvent(action, product)); err != nil {
		metrics.ProductEventsPublishFailed.Inc()
		slog.Error("failed to publish product event",
			slog.Any("err", err),
			slog.String("action", string(action)),
			slog.String("product_id", product.ID),
		)
	}
}
