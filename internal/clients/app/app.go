package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/clientdesk/internal/clients/http"
	"github.com/aussiebroadwan/clientdesk/internal/clients/metrics"
	"github.com/aussiebroadwan/clientdesk/internal/clients/service"
	"github.com/aussiebroadwan/clientdesk/internal/clients/store"
	"github.com/aussiebroadwan/clientdesk/internal/clients/store/drivers/postgres"
	"github.com/aussiebroadwan/clientdesk/internal/clients/store/drivers/sqlite"
	"github.com/aussiebroadwan/clientdesk/pkg/cryptox"
	"github.com/aussiebroadwan/clientdesk/pkg/httpx"
	"github.com/aussiebroadwan/clientdesk/pkg/jwtx"
	"github.com/aussiebroadwan/clientdesk/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// BuildVersion is overridden at build time with -ldflags "-X ...".
var BuildVersion = "v1.0.0"

// Application wires the client service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	registry *prometheus.Registry

	tokenService  *service.TokenService
	userService   *service.UserService
	clientService *service.ClientService

	server *http.Server
	router *httpapi.Router
}

func newLogger(cfg Config, out io.Writer) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "clientdesk",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Output:  out,
	})
}

// New opens and migrates the database, seeds the bootstrap admin when the
// user table is empty and builds the HTTP server.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Application, error) {
	app := &Application{cfg: cfg, logger: logger}

	if err := cryptox.LoadPepper(cfg.PepperFile); err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	db, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	app.db = db

	if err := app.initServices(); err != nil {
		_ = db.Close()
		return nil, err
	}

	created, err := app.userService.EnsureBootstrapAdmin(ctx, cfg.BootstrapAdminUsername, cfg.BootstrapAdminPassword)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bootstrap admin: %w", err)
	}
	if created {
		logger.Info("bootstrap admin created", "username", cfg.BootstrapAdminUsername)
	}

	app.initHTTP()
	return app, nil
}

// OpenStore connects to the configured database and applies migrations.
func OpenStore(ctx context.Context, cfg Config, logger *slog.Logger) (store.Store, error) {
	var (
		db  store.Store
		err error
	)
	switch cfg.Driver() {
	case DriverPostgres:
		db, err = postgres.NewStore(ctx, cfg.PostgresDSN())
	default:
		db, err = sqlite.NewStore(cfg.DatabaseFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}

	logger.Info("database migrations applied successfully", "driver", cfg.Driver())
	return db, nil
}

func (app *Application) initServices() error {
	hs, err := jwtx.NewHS256(app.cfg.SecretKey, app.cfg.JWTIssuer)
	if err != nil {
		return fmt.Errorf("failed to initialize token signer: %w", err)
	}
	hs = hs.WithLeeway(app.cfg.JWTLeeway)

	app.tokenService = &service.TokenService{
		Store:      app.db,
		Signer:     hs,
		Verifier:   hs,
		Issuer:     app.cfg.JWTIssuer,
		AccessTTL:  app.cfg.AccessTokenLifetime,
		RefreshTTL: app.cfg.RefreshTokenLifetime,
	}
	app.userService = &service.UserService{Store: app.db}
	app.clientService = &service.ClientService{Store: app.db}
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.tokenService.Verifier, app.db, httpapi.Options{
		Debug:        app.cfg.Debug,
		AllowedHosts: app.cfg.AllowedHosts,
		CORSAllowAll: app.cfg.CORSAllowAll(),
		CORSOrigins:  app.cfg.CORSAllowedOrigins,
		RateLimits:   app.cfg.RateLimits,
		Pagination: httpapi.Pagination{
			DefaultLimit: int64(app.cfg.PageSize),
			MaxLimit:     int64(app.cfg.MaxPageSize),
		},
		BuildVersion: BuildVersion,
	}, app.logger)

	router.ClientService = app.clientService
	router.TokenService = app.tokenService
	router.UserService = app.userService

	if app.cfg.MetricsEnabled {
		app.registry = prometheus.NewRegistry()
		app.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		router.Metrics = metrics.NewCollector(app.registry)
		router.Gatherer = app.registry
	}

	router.ApplyRoutes()
	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// Handler exposes the fully wired HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run serves HTTP until ctx is cancelled or SIGINT/SIGTERM arrives, then
// shuts down gracefully.
func (app *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.logger.Info("client service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"debug", app.cfg.Debug,
		"rate_limits", rateLimitSummary(app.cfg.RateLimits),
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		_ = app.db.Close()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		app.logger.Info("shutdown signal received")
		return app.Shutdown()
	}
}

func (app *Application) Shutdown() error {
	app.logger.Info("shutting down client service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("client service stopped")
	return nil
}

func rateLimitSummary(l httpx.RateLimits) map[string]string {
	format := func(c httpx.RateLimitConfig) string {
		return fmt.Sprintf("%d/%s burst %d", c.Requests, c.Window(), c.Burst)
	}
	return map[string]string{
		"strict":   format(l.Strict),
		"moderate": format(l.Moderate),
		"lenient":  format(l.Lenient),
		"public":   format(l.Public),
	}
}
