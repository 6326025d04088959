package model

import (
	"errors"
	"strings"
	"time"
)

// DefaultCategory is assigned to products created or updated without a category.
const DefaultCategory = "General"

// MaxStock is the largest stock value every store can hold.
const MaxStock = 1<<31 - 1

// Product represents a catalog entry with its properties and metadata.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Price       float64   `json:"price" validate:"gte=0"`
	Stock       int       `json:"stock" validate:"gte=0,lte=2147483647"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductFields holds the client-supplied values for creating or replacing a product.
// Price and Stock are pointers so that an omitted value can be told apart from zero.
type ProductFields struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Category    string   `json:"category"`
}

// now returns the current time in the precision every store can hold.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// InitMeta initializes the product metadata including ID and timestamps.
func (p *Product) InitMeta(id string) {
	p.ID = id
	ts := now()
	p.CreatedAt = ts
	p.UpdatedAt = ts
}

// Touch refreshes UpdatedAt. The new value is always strictly after the previous one.
func (p *Product) Touch() {
	ts := now()
	if !ts.After(p.UpdatedAt) {
		ts = p.UpdatedAt.Add(time.Millisecond)
	}
	p.UpdatedAt = ts
}

// NewProductFromFields normalizes the given fields and builds a validated product
// without identity or timestamps.
func NewProductFromFields(fields ProductFields) (*Product, error) {
	product := &Product{
		Name:        strings.TrimSpace(fields.Name),
		Description: strings.TrimSpace(fields.Description),
		Category:    strings.TrimSpace(fields.Category),
	}
	if product.Category == "" {
		product.Category = DefaultCategory
	}
	if fields.Stock != nil {
		product.Stock = *fields.Stock
	}

	if fields.Price != nil {
		product.Price = *fields.Price
	}

	verr := &ValidationError{}
	if err := product.Validate(); err != nil {
		if !errors.As(err, &verr) {
			return nil, err
		}
	}
	if fields.Price == nil {
		verr.Add("price", "price is required")
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return product, nil
}

// Replace overwrites the user-editable fields of p with those of other.
// Identity and CreatedAt are kept.
func (p *Product) Replace(other *Product) {
	p.Name = other.Name
	p.Description = other.Description
	p.Price = other.Price
	p.Stock = other.Stock
	p.Category = other.Category
}
