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

	"github.com/aussiebroadwan/useraccount/internal/authz/cache"
	httpapi "github.com/aussiebroadwan/useraccount/internal/authz/http"
	"github.com/aussiebroadwan/useraccount/internal/authz/idp"
	"github.com/aussiebroadwan/useraccount/internal/authz/service"
	"github.com/aussiebroadwan/useraccount/internal/authz/store"
	"github.com/aussiebroadwan/useraccount/internal/authz/store/drivers/postgres"
	"github.com/aussiebroadwan/useraccount/internal/authz/store/drivers/sqlite"
	"github.com/aussiebroadwan/useraccount/pkg/jwtx"
	"github.com/aussiebroadwan/useraccount/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the authorization service with all its dependencies
type Application struct {
	cfg      Config
	settings AuthSettings
	logger   *slog.Logger

	db    store.Store
	cache cache.Cache

	Validator      *service.TokenValidator
	Ledger         *service.TokenLedger
	Authorizer     *service.Authorizer
	refreshService *service.RefreshService
	sessionService *service.SessionService
	housekeeping   *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app, err := NewCore(cfg)
	if err != nil {
		return nil, err
	}

	provider := idp.NewOAuth2Provider(idp.OAuth2Config{
		ClientID:     app.clientID(),
		ClientSecret: cfg.IdPClientSecret,
		TokenURL:     cfg.IdPTokenURL,
		RevokeURL:    cfg.IdPRevokeURL,
		Timeout:      cfg.IdPTimeout,
	})
	app.refreshService = &service.RefreshService{
		Validator: app.Validator,
		Ledger:    app.Ledger,
		Provider:  provider,
		MaxAge:    cfg.RefreshMaxAge,
	}
	app.sessionService = &service.SessionService{
		Authorizer: app.Authorizer,
		Ledger:     app.Ledger,
		Provider:   provider,
	}
	app.housekeeping = service.NewHousekeepingService(
		app.Ledger,
		app.logger,
		cfg.HousekeepingInterval,
		cfg.RetentionHours,
	)

	app.initHTTP()
	return app, nil
}

// NewCore opens storage and the cache and builds the token services, without
// the identity provider or the HTTP server. The admin CLI runs on this.
func NewCore(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "authz-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	settings, err := LoadAuthSettings(cfg)
	if err != nil {
		return nil, err
	}
	app.settings = settings
	if settings.Client == nil {
		app.logger.Warn("client app settings missing, every token will be rejected")
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	app.initCache()
	app.initServices()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeeping.Start()

	app.logger.Info("authz service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down authz service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeeping.Stop()

	if err := app.Close(); err != nil {
		return err
	}

	app.logger.Info("authz service stopped")
	return nil
}

// Close releases the cache and the database.
func (app *Application) Close() error {
	if err := app.cache.Close(); err != nil {
		app.logger.Error("error closing cache", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}
	return nil
}

// Store exposes the database for administrative commands.
func (app *Application) Store() store.Store { return app.db }

func (app *Application) clientID() string {
	if app.settings.Client == nil {
		return ""
	}
	return app.settings.Client.ClientID
}

// initDatabase opens the configured driver and applies migrations
func (app *Application) initDatabase() error {
	var (
		db  store.Store
		err error
	)

	switch app.cfg.DatabaseDriver {
	case DriverPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db, err = postgres.NewStore(ctx, app.cfg.DatabaseURL)
	default:
		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
		db, err = sqlite.NewStore(dsn)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

func (app *Application) initCache() {
	switch app.cfg.CacheDriver {
	case CacheRedis:
		app.cache = cache.NewRedis(cache.RedisConfig{
			Addr:     app.cfg.RedisAddr,
			Password: app.cfg.RedisPassword,
			DB:       app.cfg.RedisDB,
			Prefix:   app.cfg.CachePrefix,
		})
	default:
		app.cache = cache.NewMemory(uint64(max(app.cfg.CacheCapacity, 0)))
	}
	app.logger.Info("cache initialized", "driver", app.cfg.CacheDriver)
}

func (app *Application) initServices() {
	app.Validator = service.NewTokenValidator(service.ValidatorConfig{
		Keys:       app.settings.Keys,
		Client:     app.settings.Client,
		Region:     app.cfg.Region,
		IssuerHost: app.cfg.IssuerHost,
		Options:    jwtx.VerifyOptions{Leeway: app.cfg.ClockSkew},
	}, app.logger)
	app.Ledger = &service.TokenLedger{Store: app.db, Cache: app.cache}
	app.Authorizer = &service.Authorizer{
		Validator: app.Validator,
		Ledger:    app.Ledger,
		Rights:    &service.RightsCache{Store: app.db, Cache: app.cache},
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.settings.Keys, app.db, app.cache, BuildVersion, app.logger)

	router.Authorizer = app.Authorizer
	router.Ledger = app.Ledger
	router.RefreshService = app.refreshService
	router.SessionService = app.sessionService
	router.RetentionHours = app.cfg.RetentionHours
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
