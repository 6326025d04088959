package sqs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/iyhunko/product-catalog/internal/model"
)

// ConsumerAPI defines the interface for SQS operations used by Consumer.
type ConsumerAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// EventHandler reacts to a decoded product event. A returned error leaves the message on the queue.
type EventHandler func(ctx context.Context, event model.ProductEvent) error

// Consumer drains product events from an SQS queue.
type Consumer struct {
	client   ConsumerAPI
	queueURL string
	handle   EventHandler
}

// NewConsumer creates a Consumer that logs every event it receives.
func NewConsumer(client ConsumerAPI, queueURL string) *Consumer {
	return &Consumer{
		client:   client,
		queueURL: queueURL,
		handle:   LogEvent,
	}
}

func (c *Consumer) withHandler(h EventHandler) *Consumer {
	c.handle = h
	return c
}

// LogEvent writes the event to the default logger.
func LogEvent(_ context.Context, event model.ProductEvent) error {
	slog.Info("received product event",
		slog.String("action", string(event.Action)),
		slog.String("product_id", event.ProductID),
		slog.String("name", event.Name),
		slog.Float64("price", event.Price),
		slog.Int("stock", event.Stock),
		slog.String("category", event.Category),
		slog.Time("occurred_at", event.OccurredAt),
	)
	return nil
}

// Start polls the queue until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	slog.Info("starting SQS consumer", slog.String("queueURL", c.queueURL))

	for {
		select {
		case <-ctx.Done():
			slog.Info("stopping SQS consumer")
			return ctx.Err()
		default:
			if err := c.receiveMessages(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("error receiving messages", slog.Any("err", err))
			}
		}
	}
}

func (c *Consumer) receiveMessages(ctx context.Context) error {
	result, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(c.queueURL),
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     20,
	})
	if err != nil {
		return fmt.Errorf("failed to receive messages: %w", err)
	}

	for _, message := range result.Messages {
		if err := c.processMessage(ctx, message); err != nil {
			slog.Error("error processing message", slog.Any("err", err))
			continue
		}

		if err := c.deleteMessage(ctx, message); err != nil {
			slog.Error("error deleting message", slog.Any("err", err))
		}
	}

	return nil
}

func (c *Consumer) processMessage(ctx context.Context, message types.Message) error {
	if message.Body == nil {
		return errors.New("message body is nil")
	}

	var event model.ProductEvent
	if err := json.Unmarshal([]byte(*message.Body), &event); err != nil {
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}
	if !event.Action.Valid() {
		return fmt.Errorf("unknown product action %q", event.Action)
	}

	return c.handle(ctx, event)
}

func (c *Consumer) deleteMessage(ctx context.Context, message types.Message) error {
	_, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.queueURL),
		ReceiptHandle: message.ReceiptHandle,
	})
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}
