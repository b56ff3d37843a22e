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
	mcpserverpkg "github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/mcpserver"
	"github.com/starford/ansuz/internal/sse"
	"github.com/starford/ansuz/internal/vault"
	"github.com/starford/ansuz/internal/watch"
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

	// Structured JSON logger on stderr; with the stdio transport, stdout
	// belongs to the protocol session.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("transport", cfg.MCP.Transport),
		slog.String("notes_path", cfg.Notes.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize the note vault; the root directory is created if absent.
	store, err := vault.New(cfg.Notes.Path, logger)
	if err != nil {
		return fmt.Errorf("init vault: %w", err)
	}

	// Build the MCP server; registers tools, resources and the initial
	// resource sync.
	srv := mcpserver.New(store, logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	switch cfg.MCP.Transport {
	case TransportHTTP:
		broker := sse.NewBroker()
		defer broker.Close()

		// Watcher keeps the resource list and the SSE stream in step with
		// notes edited outside the MCP session.
		g.Go(func() error {
			return watch.Watch(gCtx, store.Root(), logger, func(kind, path string) {
				if syncErr := srv.SyncResources(); syncErr != nil {
					logger.Warn("resource sync failed", slog.String("error", syncErr.Error()))
				}
				broker.PublishNoteEvent(kind, path)
			})
		})

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.RealIP)
		r.Use(middleware.Recoverer)

		// Health check endpoints.
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

		// Note change events.
		r.Get("/api/events", broker.ServeHTTP)

		// The MCP session itself.
		r.Handle("/mcp", mcpserverpkg.NewStreamableHTTPServer(srv.MCP()))

		httpServer := &http.Server{
			Addr:    cfg.App.HTTP.Address(),
			Handler: r,
		}

		g.Go(func() error {
			logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HTTP server error: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			<-gCtx.Done()
			logger.Info("Shutting down server...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
			}
			return nil
		})

	default: // TransportStdio
		g.Go(func() error {
			return watch.Watch(gCtx, store.Root(), logger, func(kind, path string) {
				if syncErr := srv.SyncResources(); syncErr != nil {
					logger.Warn("resource sync failed", slog.String("error", syncErr.Error()))
				}
			})
		})

		g.Go(func() error {
			logger.Info("Serving MCP on stdio")
			err := srv.ServeStdio(gCtx)
			// The session ended (EOF or cancellation); unwind the group.
			stop()
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("stdio server error: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
