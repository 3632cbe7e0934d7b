// Package internal provides the main application initialization and runtime logic.
package internal

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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/weavehq/weave/internal/api"
	"github.com/weavehq/weave/internal/artifacts"
	"github.com/weavehq/weave/internal/delivery"
	"github.com/weavehq/weave/internal/index"
	"github.com/weavehq/weave/internal/mcpserver"
	"github.com/weavehq/weave/internal/pipeline"
	"github.com/weavehq/weave/internal/sse"
	"github.com/weavehq/weave/internal/storage"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("posts_path", cfg.Posts.Path),
		slog.String("artifacts_path", cfg.Artifacts.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure posts and artifacts directories exist.
	if err := os.MkdirAll(cfg.Posts.Path, 0o755); err != nil {
		return fmt.Errorf("create posts dir: %w", err)
	}
	if err := os.MkdirAll(cfg.Artifacts.Path, 0o755); err != nil {
		return fmt.Errorf("create artifacts dir: %w", err)
	}

	// Initialize storage.
	store, err := storage.NewFS(cfg.Posts.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	artifactStore, err := artifacts.NewFS(cfg.Artifacts.Path)
	if err != nil {
		return fmt.Errorf("init artifact store: %w", err)
	}

	// Initialize SQLite index.
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	pipe := pipeline.NewService(store, artifactStore, db, cfg.ResolvedStyles(), logger)

	// Run initial sync.
	results, err := pipe.Sync(ctx, app.force)
	if err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	// Push freshly processed posts to the delivery endpoint, if configured.
	if cfg.Delivery.Enabled {
		client := delivery.NewClient(delivery.Config{
			Enabled: cfg.Delivery.Enabled,
			URL:     cfg.Delivery.URL,
			Method:  cfg.Delivery.Method,
			Token:   cfg.Delivery.Token,
			Headers: cfg.Delivery.Headers,
			Timeout: cfg.Delivery.Timeout(),
		}, logger)
		sent := client.DeliverAll(ctx, results)
		logger.Info("initial delivery complete", slog.Int("sent", sent))
	}

	// MCP mode: serve tools over stdio instead of HTTP.
	if app.mcp {
		logger.Info("Starting MCP server on stdio")
		return mcpserver.New(store, db, artifactStore, pipe).ServeStdio()
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	// Build API service and router.
	svc := api.NewService(pipe, db, artifactStore)
	apiRouter := api.NewRouter(svc, store, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start file watcher with SSE callback.
	g.Go(func() error {
		return pipeline.Watch(gCtx, pipe, cfg.Posts.Path, logger, func(kind, slug string) {
			broker.PublishPostEvent(kind, slug)
		})
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
