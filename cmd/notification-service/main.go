package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iyhunko/product-catalog/internal/config"
	"github.com/iyhunko/product-catalog/internal/logger"
	sqspkg "github.com/iyhunko/product-catalog/internal/sqs"
)

func main() {
	conf, err := config.LoadNotifierFromEnv()
	handleErr("loading config", err)

	logger.InitJSONLogger(conf.DebugMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sqsClient, err := sqspkg.NewClient(ctx, conf.AWS)
	handleErr("creating SQS client", err)

	consumer := sqspkg.NewConsumer(sqsClient, conf.AWS.SQSQueueURL)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("consumer stopped", slog.Any("err", err))
		}
	}()

	slog.Info("notification service started, listening for product events")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	slog.Info("shutting down gracefully")
	cancel()
	<-done
}

func handleErr(msg string, err error) {
	if err != nil {
		log.Fatalf("error while %s: %v", msg, err)
	}
}
