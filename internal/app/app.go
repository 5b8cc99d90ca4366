package app

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
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"anspulse/internal/brand"
	"anspulse/internal/config"
	"anspulse/internal/dataset"
	apierrors "anspulse/internal/errors"
	"anspulse/internal/exporter"
	"anspulse/internal/infrastructure"
	"anspulse/internal/middleware"
	"anspulse/internal/services"
	"anspulse/internal/storage"
	handlers "anspulse/internal/transport/http"
	"anspulse/pkg/contracts"
)

// Application is the dependency container for the server process.
type Application struct {
	Config        *config.Config
	Logger        *slog.Logger
	Router        *chi.Mux
	Server        *http.Server
	Reader        *storage.Reader
	DataService   *services.DataService
	HealthService *services.HealthService
}

// New builds a fully wired application: configuration, logger, storage
// reader, brand classifier, consolidation pipeline, services, handlers
// and the HTTP server.
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig builds the application from an already loaded
// configuration. Tests use it to inject temp paths.
func NewWithConfig(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("version", contracts.Version),
		slog.String("database", cfg.DatabasePath()),
		slog.String("cutoff_period", cfg.Analytics.CutoffPeriod))

	reader, err := storage.Open(cfg.DatabasePath(), logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	exceptions := brand.LoadExceptionSet(context.Background(), cfg.BrandExceptionPath(), logger)
	classifier := brand.NewClassifier(exceptions)

	consolidator := dataset.NewConsolidator(reader, cfg.Analytics.CutoffPeriod, logger)
	dataService := services.NewDataService(consolidator, classifier, logger)
	healthService := services.NewHealthService(reader, dataService, logger)

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		Reader:        reader,
		DataService:   dataService,
		HealthService: healthService,
	}
	app.setupRouter()
	app.createServer()
	return app, nil
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(a.Logger))
	r.Use(middleware.Metrics)
	r.Use(middleware.Recoverer(a.Logger))
	r.Use(middleware.CORS(a.Config.Security))
	r.Use(middleware.RateLimit(a.Config.Security.RateLimit))

	errorHandler := apierrors.NewErrorHandler(a.Logger)
	dataHandler := handlers.NewDataHandler(a.DataService, a.Logger, errorHandler)
	exportHandler := handlers.NewExportHandler(
		a.DataService,
		exporter.NewCSVExporter(a.Logger),
		exporter.NewXLSXExporter(a.Logger),
		a.Logger,
		errorHandler,
	)
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)

	r.Mount("/api", dataHandler.Routes())
	r.Mount("/api/export", exportHandler.Routes())
	r.Get("/api/version", healthHandler.Version)
	r.Get("/healthz", healthHandler.Liveness)
	r.Get("/readyz", healthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	a.Router = r
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Run starts the HTTP server and blocks until SIGINT or SIGTERM, then
// shuts down gracefully within the configured timeout.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.StartupCheck()

	// Warm the dataset cache so the first request does not pay the
	// consolidation cost.
	go func() {
		warmCtx := infrastructure.EnsureTraceID(context.Background())
		rows := a.DataService.MasterDataset(warmCtx)
		a.Logger.InfoContext(warmCtx, "dataset cache warmed", slog.Int("rows", len(rows)))
	}()

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.Logger.Info("shutdown signal received")
	return a.Shutdown()
}

// Shutdown stops the HTTP server and releases storage resources.
func (a *Application) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	var firstErr error
	if err := a.Server.Shutdown(ctx); err != nil {
		firstErr = fmt.Errorf("server shutdown: %w", err)
	}
	if err := a.Reader.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close storage: %w", err)
	}

	infrastructure.CloseLogFile()

	if firstErr != nil {
		return firstErr
	}
	a.Logger.Info("shutdown complete")
	return nil
}

// warmupTimeout bounds the startup health probe.
const warmupTimeout = 5 * time.Second

// StartupCheck pings storage once at boot and logs the outcome. Boot
// continues either way; the reader fails open on a broken database.
func (a *Application) StartupCheck() {
	ctx, cancel := context.WithTimeout(context.Background(), warmupTimeout)
	defer cancel()

	if err := a.Reader.Ping(ctx); err != nil {
		a.Logger.Warn("database unreachable at startup, serving degraded",
			slog.String("error", err.Error()))
		return
	}
	a.Logger.Info("database reachable")
}
