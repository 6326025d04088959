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
	"github.com/iyhunko/product-catalog/internal/client"
	"github.com/iyhunko/product-catalog/internal/config"
	"github.com/iyhunko/product-catalog/internal/http/middleware"
	"github.com/iyhunko/product-catalog/internal/logger"
	"github.com/iyhunko/product-catalog/internal/web"
)

func main() {
	conf, err := config.LoadWebFromEnv()
	handleErr("loading config", err)

	logger.InitJSONLogger(conf.DebugMode)
	if !conf.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctr := web.NewController(client.New(conf.CatalogAPIURL, nil))

	engine := gin.New()
	engine.Use(middleware.Recovery(), middleware.RequestID(), middleware.Logger())
	web.NewHandler(ctr).Register(engine)

	server := &http.Server{
		Addr:              ":" + conf.WebServer.Port,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("catalog web starting", slog.String("port", conf.WebServer.Port), slog.String("api", conf.CatalogAPIURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			handleErr("listening to HTTP requests", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	slog.Info("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("web server shutdown failed", slog.Any("err", err))
	}
}

func handleErr(msg string, err error) {
	if err != nil {
		log.Fatalf("error while %s: %v", msg, err)
	}
}
