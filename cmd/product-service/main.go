package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-catalog/internal/config"
	httpAPI "github.com/iyhunko/product-catalog/internal/http"
	"github.com/iyhunko/product-catalog/internal/http/controller"
	"github.com/iyhunko/product-catalog/internal/logger"
	"github.com/iyhunko/product-catalog/internal/metrics"
	"github.com/iyhunko/product-catalog/internal/rabbitmq"
	"github.com/iyhunko/product-catalog/internal/repository"
	"github.com/iyhunko/product-catalog/internal/repository/memory"
	mongorepo "github.com/iyhunko/product-catalog/internal/repository/mongo"
	"github.com/iyhunko/product-catalog/internal/repository/sql"
	"github.com/iyhunko/product-catalog/internal/service"
	sqspkg "github.com/iyhunko/product-catalog/internal/sqs"
)

const shutdownTimeout = 10 * time.Second

func main() {
	conf, err := config.LoadFromEnv()
	handleErr("loading config", err)

	logger.InitJSONLogger(conf.DebugMode)
	if !conf.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	closers := []func(context.Context) error{}

	productRepository, closeStore, err := openStore(ctx, conf)
	handleErr("starting product store", err)
	closers = append(closers, closeStore)

	publisher, closePublisher, err := openPublisher(ctx, conf)
	handleErr("starting event publisher", err)
	closers = append(closers, closePublisher)

	productService := service.NewProductService(productRepository, publisher)
	productCtr := controller.NewProductController(productService)

	httpServer := &http.Server{
		Addr:              ":" + conf.HTTPServer.Port,
		Handler:           httpAPI.NewServer(productCtr),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("HTTP server starting", slog.String("port", conf.HTTPServer.Port), slog.String("store", conf.StoreDriver))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			handleErr("listening to HTTP requests", err)
		}
	}()

	metricsServer := metrics.StartMetricsServer(conf)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	slog.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown failed", slog.Any("err", err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("metrics server shutdown failed", slog.Any("err", err))
	}
	for _, closeFn := range closers {
		if err := closeFn(shutdownCtx); err != nil {
			slog.Error("failed to release resource", slog.Any("err", err))
		}
	}
}

func openStore(ctx context.Context, conf *config.Config) (repository.Repository, func(context.Context) error, error) {
	switch conf.StoreDriver {
	case config.StorePostgres:
		db, err := sql.StartDB(ctx, conf.Database)
		if err != nil {
			return nil, nil, err
		}
		return sql.NewProductRepository(db), func(context.Context) error { return db.Close() }, nil
	case config.StoreMemory:
		slog.Warn("using in-memory product store, data is lost on restart")
		return memory.NewProductRepository(), func(context.Context) error { return nil }, nil
	default:
		client, coll, err := mongorepo.StartDB(ctx, conf.Mongo)
		if err != nil {
			return nil, nil, err
		}
		return mongorepo.NewProductRepository(coll), client.Disconnect, nil
	}
}

func openPublisher(ctx context.Context, conf *config.Config) (service.EventPublisher, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	switch conf.EventBroker {
	case config.BrokerSQS:
		client, err := sqspkg.NewClient(ctx, conf.AWS)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("publishing product events to SQS", slog.String("queue", conf.AWS.SQSQueueURL))
		return sqspkg.NewPublisher(client, conf.AWS.SQSQueueURL), noop, nil
	case config.BrokerRabbitMQ:
		publisher, err := rabbitmq.Dial(conf.RabbitMQ)
		if err != nil {
			return nil, nil, err
		}
		return publisher, func(context.Context) error { return publisher.Close() }, nil
	default:
		slog.Info("product event publishing disabled")
		return nil, noop, nil
	}
}

func handleErr(msg string, err error) {
	if err != nil {
		log.Fatalf("error while %s: %v", msg, err)
	}
}
