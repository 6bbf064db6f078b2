// cmd/main.go is the application entry point.
// It wires together all layers and serves or prints the activities page.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/Shivanand-hulikatti/activities-frontend/internal/backend"
	"github.com/Shivanand-hulikatti/activities-frontend/internal/config"
	"github.com/Shivanand-hulikatti/activities-frontend/internal/handler"
	"github.com/Shivanand-hulikatti/activities-frontend/internal/metrics"
	"github.com/Shivanand-hulikatti/activities-frontend/internal/service"
	"github.com/Shivanand-hulikatti/activities-frontend/web"
)

var (
	port       string
	backendURL string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "activities",
	Short: "Activities directory and signup frontend",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = port
		}
		if cmd.Flags().Changed("backend") {
			cfg.BackendURL = backendURL
		}
		logger, err = newLogger(cfg.LogLevel, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the directory once and serve the live page",
	RunE:  runServe,
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Load the directory once and print the rendered page",
	RunE:  runRender,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&port, "port", "", "listen port (overrides ACTIVITIES_PORT)")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "backend base URL (overrides ACTIVITIES_BACKEND_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd, renderCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

// newApp builds the live document and its components.
func newApp(m *metrics.Metrics) (*service.App, error) {
	doc, err := web.NewDocument()
	if err != nil {
		return nil, err
	}
	client := backend.NewClient(cfg.BackendURL, &http.Client{Timeout: cfg.BackendTimeout})
	deps := service.Deps{
		Fetcher:    client,
		Backend:    client,
		Logger:     logger,
		HideDelay:  cfg.MessageHideDelay,
		SessionTTL: cfg.SessionTTL,
	}
	if m != nil {
		deps.Stats = m
	}
	return service.New(doc, deps)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	app, err := newApp(m)
	if err != nil {
		return err
	}
	defer app.Close()

	// A failed load leaves the failure message on the page; keep serving.
	if err := app.Start(ctx); err != nil {
		logger.Warn("initial load failed", zap.Error(err))
	}

	rc := handler.RouterConfig{Metrics: m.Handler()}
	if cfg.CSRFKey != "" {
		rc.CSRFKey = []byte(cfg.CSRFKey)
	}
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler.NewRouter(app, logger, rc),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("backend", cfg.BackendURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	app, err := newApp(nil)
	if err != nil {
		return err
	}
	defer app.Close()

	loadErr := app.Start(cmd.Context())
	snap, err := app.Snapshot("")
	if err != nil {
		return err
	}
	if err := snap.Render(cmd.OutOrStdout()); err != nil {
		return err
	}
	return loadErr
}
