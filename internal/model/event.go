package model

import "time"

// ProductAction names a product lifecycle transition.
type ProductAction string

const (
	// ProductCreated is emitted after a product has been stored.
	ProductCreated ProductAction = "created"
	// ProductUpdated is emitted after a product has been replaced.
	ProductUpdated ProductAction = "updated"
	// ProductDeleted is emitted after a product has been removed.
	ProductDeleted ProductAction = "deleted"
)

// Valid reports whether a is one of the known actions.
func (a ProductAction) Valid() bool {
	switch a {
	case ProductCreated, ProductUpdated, ProductDeleted:
		return true
	}
	return false
}

// ProductEvent is the message published to the event bus after a successful mutation.
type ProductEvent struct {
	Action     ProductAction `json:"action"`
	ProductID  string        `json:"product_id"`
	Name       string        `json:"name"`
	Price      float64       `json:"price"`
	Stock      int           `json:"stock"`
	Category   string        `json:"category"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// NewProductEvent builds an event describing the given product.
func NewProductEvent(action ProductAction, p *Product) ProductEvent {
	return ProductEvent{
		Action:     action,
		ProductID:  p.ID,
		Name:       p.Name,
		Price:      p.Price,
		Stock:      p.Stock,
		Category:   p.Category,
		OccurredAt: time.Now().UTC(),
	}
}
