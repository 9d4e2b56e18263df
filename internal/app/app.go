// Package app owns the process-wide service state: one database pool, one
// bootstrapper and the services built on them.
package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/dimitrije/keyforge-api/internal/config"
	"github.com/dimitrije/keyforge-api/internal/database"
	"github.com/dimitrije/keyforge-api/internal/handlers"
	"github.com/dimitrije/keyforge-api/internal/metrics"
	"github.com/dimitrije/keyforge-api/internal/middleware"
	"github.com/dimitrije/keyforge-api/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

type App struct {
	Config       *config.Config
	Logger       zerolog.Logger
	DB           *database.DB
	Bootstrapper *database.Bootstrapper
	Registry     *prometheus.Registry
	Metrics      *metrics.Metrics

	Permissions  *services.PermissionService
	Applications *services.ApplicationService
	Keys         *services.KeyService
	Binding      *services.BindingService
	Supports     *services.SupportService

	closeOnce sync.Once
}

// New connects to the database, bootstraps the schema and wires services.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	db, err := database.New(ctx, database.Config{
		URL:            cfg.DatabaseURL,
		MaxConns:       cfg.Database.MaxConns,
		MinConns:       cfg.Database.MinConns,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		IdleTimeout:    cfg.Database.IdleTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}

	a, err := NewWithDB(ctx, cfg, logger, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

// NewWithDB wires services around an already open database.
func NewWithDB(ctx context.Context, cfg *config.Config, logger zerolog.Logger, db *database.DB) (*App, error) {
	boot := database.NewBootstrapper(db, cfg.SuperAdminID, logger)
	if err := boot.Ensure(ctx); err != nil {
		return nil, fmt.Errorf("bootstrap database: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.NewMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	gen := services.NewGenerator()
	perms := services.NewPermissionService(db, cfg.SuperAdminID)

	return &App{
		Config:       cfg,
		Logger:       logger,
		DB:           db,
		Bootstrapper: boot,
		Registry:     reg,
		Metrics:      m,
		Permissions:  perms,
		Applications: services.NewApplicationService(db, perms, gen, cfg.ApplicationQuota),
		Keys:         services.NewKeyService(db, perms, gen),
		Binding:      services.NewBindingService(db),
		Supports:     services.NewSupportService(db, perms),
	}, nil
}

// Close releases the database pool. Safe to call more than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.DB.Close()
	})
}

func (a *App) Router() http.Handler {
	actionHandler := handlers.NewActionHandler(handlers.ActionServices{
		Applications: a.Applications,
		Keys:         a.Keys,
		Binding:      a.Binding,
		Supports:     a.Supports,
		Permissions:  a.Permissions,
	}, a.Metrics, a.Logger, a.Config.RequestTimeout)
	healthHandler := handlers.NewHealthHandler(a.DB)

	router := drift.New()

	if a.Config.IsProduction() {
		router.SetMode(drift.ReleaseMode)
	} else {
		router.SetMode(drift.DebugMode)
	}

	router.Use(driftmw.Recovery())
	router.Use(driftmw.CORSWithConfig(driftmw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		MaxAge:       86400,
	}))
	router.Use(middleware.Preflight())
	router.Use(middleware.RequestLogger(a.Logger))
	router.Use(driftmw.BodyParser())

	api := router.Group("/api/v1")
	api.Get("/action", actionHandler.Handle)
	api.Post("/action", actionHandler.Handle)
	api.Get("/health", healthHandler.Health)

	metricsHandler := a.Metrics.Handler()
	router.Get("/metrics", func(c *drift.Context) {
		metricsHandler.ServeHTTP(c.Response, c.Request)
	})

	return router
}
