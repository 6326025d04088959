package repository

import (
	"context"
	"errors"

	"github.com/iyhunko/product-catalog/internal/model"
)

var (
	// ErrNotFound is returned when no product has the requested ID.
	ErrNotFound = errors.New("product not found")

	// ErrInvalidID is returned when an ID is not well-formed for the store's identity format.
	ErrInvalidID = errors.New("invalid product id")
)

// Repository defines the storage operations for products.
// Implementations assign IDs and creation timestamps on Create.
type Repository interface {
	Create(ctx context.Context, product *model.Product) (*model.Product, error)
	// List returns every product, most recently created first.
	List(ctx context.Context) ([]*model.Product, error)
	FindByID(ctx context.Context, id string) (*model.Product, error)
	// Update replaces the stored document with the same ID.
	Update(ctx context.Context, product *model.Product) (*model.Product, error)
	// DeleteByID removes the product and returns it as it was before removal.
	DeleteByID(ctx context.Context, id string) (*model.Product, error)
}
