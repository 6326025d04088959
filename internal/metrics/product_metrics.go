package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProductsCreated is a Prometheus counter for tracking the total number of products created.
	ProductsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_created_total",
		Help: "The total number of products created",
	})

	// ProductsUpdated is a Prometheus counter for tracking the total number of products updated.
	ProductsUpdated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_updated_total",
		Help: "The total number of products updated",
	})

	// ProductsDeleted is a Prometheus counter for tracking the total number of products deleted.
	ProductsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_deleted_total",
		Help: "The total number of products deleted",
	})

	// ProductEventsPublishFailed counts lifecycle events that could not be handed to the broker.
	ProductEventsPublishFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "product_events_publish_failed_total",
		Help: "The total number of product events that failed to publish",
	})
)
