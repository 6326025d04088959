package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
)

// ProductRepository is an in-memory store implementing repository.Repository.
// Stored products are copies; callers never share memory with the store.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]model.Product
}

// NewProductRepository creates an empty in-memory product store.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: map[uuid.UUID]model.Product{},
	}
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", repository.ErrInvalidID, id)
	}
	return parsed, nil
}

// Create stores a copy of the product under a fresh time-ordered UUID.
func (r *ProductRepository) Create(_ context.Context, product *model.Product) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate product id: %w", err)
	}
	product.InitMeta(id.String())
	r.products[id] = *product

	stored := *product
	return &stored, nil
}

// List returns all products ordered by creation time, newest first.
// Version 7 UUIDs grow monotonically, so ties on CreatedAt fall back to the ID.
func (r *ProductRepository) List(_ context.Context) ([]*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]*model.Product, 0, len(r.products))
	for _, p := range r.products {
		product := p
		products = append(products, &product)
	}

	sort.Slice(products, func(i, j int) bool {
		if products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].ID > products[j].ID
		}
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})

	return products, nil
}

// FindByID retrieves a single product by ID.
func (r *ProductRepository) FindByID(_ context.Context, id string) (*model.Product, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &product, nil
}

// Update replaces the product with the same ID.
func (r *ProductRepository) Update(_ context.Context, product *model.Product) (*model.Product, error) {
	key, err := parseID(product.ID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[key]; !ok {
		return nil, repository.ErrNotFound
	}
	r.products[key] = *product

	stored := *product
	return &stored, nil
}

// DeleteByID removes a product by ID and returns the removed record.
func (r *ProductRepository) DeleteByID(_ context.Context, id string) (*model.Product, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.products, key)
	return &product, nil
}
