package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iyhunko/product-catalog/internal/config"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/streadway/amqp"
)

// Channel is the subset of *amqp.Channel the publisher needs.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends product events to a durable queue through the default exchange.
type Publisher struct {
	conn    *amqp.Connection
	channel Channel
	queue   string
}

// NewPublisher wraps an already opened channel. The queue must exist.
func NewPublisher(channel Channel, queue string) *Publisher {
	return &Publisher{channel: channel, queue: queue}
}

// Dial connects to the broker, opens a channel and declares the event queue.
func Dial(conf config.RabbitMQConfig) (*Publisher, error) {
	conn, err := amqp.Dial(conf.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// durable, not auto-deleted, not exclusive
	if _, err := ch.QueueDeclare(conf.Queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", conf.Queue, err)
	}
	slog.Info("RabbitMQ connection done", slog.String("queue", conf.Queue))

	p := NewPublisher(ch, conf.Queue)
	p.conn = conn
	return p, nil
}

// PublishProductEvent publishes the event as a persistent JSON message.
func (p *Publisher) PublishProductEvent(ctx context.Context, event model.ProductEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = p.channel.Publish("", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Type:         string(event.Action),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message to RabbitMQ: %w", err)
	}

	return nil
}

// Close releases the channel and, when owned, the connection.
func (p *Publisher) Close() error {
	var errs []error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}
