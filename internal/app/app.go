package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"bondmatch/internal/config"
	apperrors "bondmatch/internal/errors"
	"bondmatch/internal/files"
	"bondmatch/internal/infrastructure"
	"bondmatch/internal/matching"
	customMiddleware "bondmatch/internal/middleware"
	"bondmatch/internal/services"
	handlers "bondmatch/internal/transport/http"
	"bondmatch/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Services      *ServiceContainer
	ErrorHandler  *apperrors.ErrorHandler
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Bond   *services.BondService
	Health *services.HealthService
	Files  *files.Manager
}

// NewApplication loads configuration from configPath (or the default
// locations), initializes the process logger and builds the application.
// A non-empty logLevel overrides the configured level.
func NewApplication(configPath, logLevel string) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return New(cfg, logger)
}

// New wires the application from an already loaded configuration
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version))

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)

	otelProviders, err := infrastructure.InitializeOTel(&infrastructure.OTelConfig{
		ServiceName:    infrastructure.ServiceName,
		ServiceVersion: contracts.Version,
		Environment:    cfg.Telemetry.Environment,
		TraceExporter:  cfg.Telemetry.TraceExporter,
		MetricExporter: cfg.Telemetry.MetricExporter,
		SampleRatio:    cfg.Telemetry.SampleRatio,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		ErrorHandler:  apperrors.NewErrorHandler(logger, false),
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	if err := app.setupRouter(); err != nil {
		return nil, fmt.Errorf("failed to setup router: %w", err)
	}
	app.createServer()
	app.loadStartupDataset(context.Background())

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	searchMetrics, err := infrastructure.CreateSearchMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create search metrics: %w", err)
	}

	var classifier *matching.RegionClassifier
	if m := a.Config.Matching; len(m.HighTierRegions) > 0 || len(m.LowTierRegions) > 0 {
		classifier = matching.NewRegionClassifier(m.HighTierRegions, m.LowTierRegions)
		a.Logger.Info("Using configured region tiers",
			slog.Int("high", len(m.HighTierRegions)),
			slog.Int("low", len(m.LowTierRegions)))
	}

	bond := services.NewBondService(services.BondServiceOptions{
		Classifier:        classifier,
		RecentTradingDays: a.Config.Dataset.RecentTradingDays,
		MaxUploadBytes:    a.Config.Dataset.MaxUploadBytes,
		Metrics:           searchMetrics,
		Tracer:            a.OTelProviders.Tracer,
		Logger:            a.Logger,
	})

	a.Services = &ServiceContainer{
		Bond:   bond,
		Health: services.NewHealthService(bond, a.Logger),
		Files:  files.NewManager(a.Paths, a.Logger),
	}
	return nil
}

// setupRouter configures the HTTP router with all routes.
// Order: RequestID → RealIP → OTel → Logger → Recoverer → headers → CORS → rate limit → Timeout
func (a *Application) setupRouter() error {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders)
	if err != nil {
		return err
	}
	r.Use(otelMiddleware.Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.ErrorHandler))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(a.getCORSConfig()))
	}
	if rl := a.Config.Security.RateLimit; rl.Enabled {
		r.Use(customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, a.Logger).Handler)
	}

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))
		a.setupAPIRoutes(r)
	})

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
	return nil
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		healthHandler := handlers.NewHealthHandler(a.Services.Health)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		bondHandler := handlers.NewBondHandler(
			a.Services.Bond,
			a.Services.Files,
			a.Config.Dataset.MaxUploadBytes,
			a.Logger,
			a.ErrorHandler,
		)
		r.Mount("/bonds", bondHandler.Routes())
	})
}

// getCORSConfig returns the CORS configuration for the configured origins
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	cfg := customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
			"Content-Disposition",
			"X-Match-Level",
		},
		MaxAge: 300,
		Logger: a.Logger,
	}
	a.Logger.Info("CORS configured", slog.Any("allowed_origins", cfg.AllowedOrigins))
	return cfg
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Server.Addr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// loadStartupDataset loads the configured default file, or the newest
// dataset in the data directory. The server still starts without one;
// readiness stays false until a dataset is uploaded.
func (a *Application) loadStartupDataset(ctx context.Context) {
	path := a.Paths.ResolveFile(a.Config.Dataset.DefaultFile)
	if path == "" {
		latest, ok, err := files.NewDiscovery(a.Paths.BaseDir).LatestDatasetFile(a.Paths.DataDir)
		if err != nil {
			a.Logger.WarnContext(ctx, "Dataset discovery failed", slog.String("error", err.Error()))
			return
		}
		if !ok {
			a.Logger.WarnContext(ctx, "No dataset found at startup",
				slog.String("data_dir", a.Paths.DataDir),
				slog.String("action", "upload a dataset via POST /api/bonds/dataset"))
			return
		}
		path = latest.Path
	}

	summary, err := a.Services.Bond.LoadDataset(ctx, path)
	if err != nil {
		a.Logger.WarnContext(ctx, "Startup dataset not loaded",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return
	}
	a.Logger.InfoContext(ctx, "Startup dataset loaded",
		slog.String("path", path),
		slog.Int("records", summary.Records))

	if err := a.Services.Files.PruneUploads(config.DefaultRetainedUploads, path); err != nil {
		a.Logger.WarnContext(ctx, "Failed to prune old uploads", slog.String("error", err.Error()))
	}
}

// Serve runs the HTTP server on ln until ctx is cancelled, then shuts
// down gracefully.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(gctx, "Server listening",
			slog.String("address", ln.Addr().String()),
			slog.Bool("dataset_loaded", a.Services.Bond.Loaded()))
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.WithoutCancel(gctx))
	})

	return g.Wait()
}

// Run listens on the configured address and serves until SIGINT or SIGTERM
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}
