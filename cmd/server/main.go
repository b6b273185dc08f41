package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vjloable/fredelicacies-pos-sub004/internal/api"
	"github.com/vjloable/fredelicacies-pos-sub004/internal/compose"
	"github.com/vjloable/fredelicacies-pos-sub004/internal/config"
	"github.com/vjloable/fredelicacies-pos-sub004/internal/logging"
	"github.com/vjloable/fredelicacies-pos-sub004/internal/logo"
	"github.com/vjloable/fredelicacies-pos-sub004/internal/preview"
	"github.com/vjloable/fredelicacies-pos-sub004/internal/raster"
	"github.com/vjloable/fredelicacies-pos-sub004/internal/transport"
)

// Version is set during build via ldflags
var Version = "dev"

// Application wires the configuration, logger, printer transport and
// HTTP server together for the lifetime of the process.
type Application struct {
	config  *config.Config
	logger  *zap.Logger
	server  *http.Server
	printer transport.Transport
}

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config file (optional)")
	flag.Parse()

	app, err := NewApplication(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	app.Start()
}

// NewApplication loads configuration and builds the full service stack.
func NewApplication(configPath string) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Starting receipt print service",
		zap.String("version", Version),
		zap.String("printer_transport", cfg.Printer.Transport),
	)

	printer, err := transport.Open(cfg.Printer)
	if err != nil {
		return nil, fmt.Errorf("failed to open printer transport: %w", err)
	}
	if printer == nil {
		logger.Warn("No printer transport configured, running in render-only mode")
	}

	logos := &logo.HTTPSource{}
	encoder := raster.NewEncoder(cfg.RasterOptions())

	srv := api.NewServer(api.Deps{
		Composer: compose.New(logos, encoder, logger),
		Barcodes: cfg.BarcodeOptions(),
		Previews: preview.New(logos, encoder),
		Printer:  printer,
		Origins:  cfg.Server.AllowedOrigins,
		Logger:   logger,
	})

	return &Application{
		config: cfg,
		logger: logger,
		server: &http.Server{
			Addr:         cfg.GetServerAddr(),
			Handler:      srv.Handler(),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
		printer: printer,
	}, nil
}

// Start runs the HTTP server and blocks until a shutdown signal arrives.
func (app *Application) Start() {
	go func() {
		app.logger.Info("HTTP server listening", zap.String("address", app.server.Addr))
		if err := app.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until SIGINT or SIGTERM, then shuts down.
func (app *Application) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	app.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	app.shutdown()
}

// shutdown drains in-flight requests, then closes the printer transport.
func (app *Application) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		app.logger.Info("HTTP server stopped")
	}

	if app.printer != nil {
		if err := app.printer.Close(); err != nil {
			app.logger.Error("Printer transport close error", zap.Error(err))
		} else {
			app.logger.Info("Printer transport closed")
		}
	}

	app.logger.Info("Shutdown complete")
	_ = logging.Close(app.logger)
}
