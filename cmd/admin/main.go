package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"glossary-manager/internal/config"
	"glossary-manager/internal/metrics"
	"glossary-manager/internal/model"
	"glossary-manager/internal/templating"
	"glossary-manager/internal/terms"
	"glossary-manager/internal/watch"
	"glossary-manager/pkg/fsutils"
)

const shutdownTimeout = 10 * time.Second

// adminApplication holds the application-wide dependencies for the admin server.
type adminApplication struct {
	logger   *slog.Logger
	cfg      *config.Config
	storage  terms.Storage
	engine   *templating.Engine
	registry *prometheus.Registry

	// held is the last successfully loaded list of terms, in storage order.
	// It is what the storage gets recreated from when the file turns bad.
	heldMu sync.RWMutex
	held   []model.Term
}

func main() {
	if err := run(context.Background(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "admin server: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logOut io.Writer) error {
	cfg, err := config.Load(config.New())
	if err != nil {
		return err
	}
	logger := cfg.NewLogger(logOut)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app, err := newAdminApplication(cfg, logger, reg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.AdminAddr,
		Handler:           app.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting admin server", "address", cfg.AdminAddr, "storage", cfg.StoragePath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("admin server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down admin server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.WatchEnabled {
		g.Go(func() error {
			return app.watchStorage(gctx)
		})
	}

	return g.Wait()
}

// newAdminApplication wires the instrumented term service, the page engine
// and the held terms snapshot.
func newAdminApplication(cfg *config.Config, logger *slog.Logger, reg *prometheus.Registry) (*adminApplication, error) {
	cols, err := metrics.NewCollectors(reg)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	storage := metrics.Instrument(terms.NewService(cfg.StoragePath), cols)

	engine, err := templating.NewEngine(storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create template engine: %w", err)
	}

	app := &adminApplication{
		logger:   logger,
		cfg:      cfg,
		storage:  storage,
		engine:   engine,
		registry: reg,
		held:     []model.Term{},
	}

	if !fsutils.FileExists(cfg.StoragePath) {
		logger.Warn("Terms file not found, it can be recreated from the dashboard", "path", cfg.StoragePath)
	}
	app.refreshHeld()

	return app, nil
}

// refreshHeld reloads the storage and replaces the held snapshot on success.
// A failed load keeps the previous snapshot.
func (app *adminApplication) refreshHeld() {
	list, err := app.storage.LoadTerms()
	if err != nil {
		app.logger.Warn("Keeping previous terms snapshot", "error", err, "held", len(app.heldTerms()))
		return
	}

	app.heldMu.Lock()
	app.held = list
	app.heldMu.Unlock()
	app.logger.Debug("Terms snapshot refreshed", "terms", len(list))
}

// heldTerms returns a copy of the held snapshot.
func (app *adminApplication) heldTerms() []model.Term {
	app.heldMu.RLock()
	defer app.heldMu.RUnlock()
	return slices.Clone(app.held)
}

// watchStorage refreshes the held snapshot whenever the terms file changes on
// disk. A watcher that cannot start is logged and does not stop the server.
func (app *adminApplication) watchStorage(ctx context.Context) error {
	w, err := watch.NewFileWatcher(app.cfg.StoragePath, app.cfg.WatchDebounce, app.logger)
	if err != nil {
		app.logger.Error("Failed to create storage watcher", "error", err)
		return nil
	}
	if err := w.Start(ctx); err != nil {
		app.logger.Error("Failed to start storage watcher", "error", err)
		w.Stop()
		return nil
	}
	defer w.Stop()

	for ev := range w.Events() {
		app.logger.Info("Terms file changed", "path", ev.Path, "op", ev.Op)
		if ev.Op == watch.OpRemove {
			continue
		}
		app.refreshHeld()
	}
	return nil
}
