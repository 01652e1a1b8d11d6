// Command students-api serves the Student REST API.
//
// Startup sequence of the default (serve) command:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Open the configured storage backend
//  4. Preload the demo students
//  5. Register all HTTP routes and start the server
//  6. Block until SIGINT/SIGTERM, then shut down gracefully
//
// Running the server:
//
//	go run ./cmd/students-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/students-api
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

	"github.com/spf13/cobra"

	"github.com/campusdev/student-registry/internal/config"
	"github.com/campusdev/student-registry/internal/http/handlers/student"
	"github.com/campusdev/student-registry/internal/http/middleware"
	"github.com/campusdev/student-registry/internal/logger"
	"github.com/campusdev/student-registry/internal/seed"
	"github.com/campusdev/student-registry/internal/storage"
	"github.com/campusdev/student-registry/internal/storage/backend"
)

// Set via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	serve := func(cmd *cobra.Command, _ []string) error {
		return runServe(cmd.Context(), config.MustLoad(configPath))
	}

	root := &cobra.Command{
		Use:          "students-api",
		Short:        "Student records REST API",
		Version:      version,
		SilenceUsage: true,
		RunE:         serve,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to the configuration YAML file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server (default command)",
			RunE:  serve,
		},
		newExportCmd(&configPath),
	)

	return root
}

func runServe(ctx context.Context, cfg *config.Config) error {
	log := logger.New(cfg.Env, os.Stdout)
	slog.SetDefault(log)

	log.Info("starting students-api",
		slog.String("env", cfg.Env),
		slog.String("version", version),
	)

	store, err := backend.Open(ctx, cfg)
	if err != nil {
		log.Error("failed to initialise storage", logger.Err(err))
		return err
	}
	defer store.Close()

	log.Info("storage initialised", slog.String("driver", cfg.Storage.Driver))

	if !cfg.DisableSeed {
		if _, err := seed.Load(ctx, store, log); err != nil {
			log.Error("failed to seed storage", logger.Err(err))
			return err
		}
	}

	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      newHandler(store, log),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	select {
	case err := <-serverErr:
		log.Error("server encountered an error", logger.Err(err))
		return err
	case <-done:
	}

	log.Info("shutdown signal received, stopping server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown server gracefully", logger.Err(err))
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}

// newHandler builds the router with the student routes behind the shared
// middleware.
func newHandler(store storage.Storage, log *slog.Logger) http.Handler {
	router := http.NewServeMux()
	student.RegisterRoutes(router, store)

	return middleware.Chain(router,
		middleware.RequestID,
		middleware.Logger(log),
		middleware.Recoverer(log),
	)
}
