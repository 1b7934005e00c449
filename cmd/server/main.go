package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"glossary-manager/internal/config"
	"glossary-manager/internal/templating"
	"glossary-manager/internal/terms"
)

func main() {
	cfg, err := config.Load(config.New())
	if err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger(os.Stdout)

	app, err := newApplication(terms.NewService(cfg.StoragePath), logger)
	if err != nil {
		logger.Error("Failed to initialize server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           app.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", "error", err)
		}
	}()

	logger.Info("Starting glossary server", "address", cfg.ServerAddr, "storage", cfg.StoragePath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

// application holds the dependencies of the read-only glossary server.
type application struct {
	logger  *slog.Logger
	storage terms.Storage
	engine  *templating.Engine
}

func newApplication(storage terms.Storage, logger *slog.Logger) (*application, error) {
	engine, err := templating.NewEngine(storage)
	if err != nil {
		return nil, err
	}
	return &application{logger: logger, storage: storage, engine: engine}, nil
}
