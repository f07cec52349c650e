// Package app wires configuration, storage, services and HTTP routing into a
// runnable back-office server.
package app

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authhttp "github.com/essivi/backoffice/internal/auth/http"
	authservice "github.com/essivi/backoffice/internal/auth/service"
	logihttp "github.com/essivi/backoffice/internal/logistics/http"
	logiservice "github.com/essivi/backoffice/internal/logistics/service"
	"github.com/essivi/backoffice/internal/notify"
	"github.com/essivi/backoffice/internal/store"
	"github.com/essivi/backoffice/internal/store/drivers/sqlite"
	"github.com/essivi/backoffice/pkg/jwtx"
	"github.com/essivi/backoffice/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the back-office server with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db        store.Store
	keys      *jwtx.EdDSAKeyPair
	mailer    notify.Notifier
	logistics *logiservice.LogisticsService
	auth      *authservice.AuthService
	sweeper   *authservice.HousekeepingService

	server *http.Server
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "essivi-backoffice",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keys, err := initSigningKeys(cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.keys = keys

	app.initNotifier()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.sweeper.Start()

	app.logger.Info("back office starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
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

// Shutdown drains in-flight requests, stops housekeeping and closes the
// database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down back office...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.sweeper.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("back office stopped")
	return nil
}

func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initSigningKeys loads the Ed25519 seed from configuration, or generates an
// ephemeral key when none is set. An ephemeral key invalidates outstanding
// access tokens on restart; refresh tokens survive because they live in the
// sessions table.
func initSigningKeys(cfg Config, logger *slog.Logger) (*jwtx.EdDSAKeyPair, error) {
	if cfg.SigningKey == "" {
		logger.Warn("no signing key configured, generating an ephemeral one")
		return jwtx.GenerateEdDSAKeyPair(cfg.Issuer)
	}

	seed, err := base64.StdEncoding.DecodeString(cfg.SigningKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode signing key: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("signing key must be a %d-byte ed25519 seed", ed25519.SeedSize)
	}

	return jwtx.NewEdDSAKeyPair(ed25519.NewKeyFromSeed(seed), cfg.Issuer)
}

func (app *Application) initNotifier() {
	if app.cfg.SMTPHost == "" {
		app.logger.Warn("no SMTP relay configured, mail goes to the log")
		app.mailer = notify.NewLogNotifier(app.logger)
		return
	}

	app.mailer = notify.NewSMTPNotifier(notify.SMTPConfig{
		Host:        app.cfg.SMTPHost,
		Port:        app.cfg.SMTPPort,
		Username:    app.cfg.SMTPUser,
		Password:    app.cfg.SMTPPass,
		From:        app.cfg.SMTPFrom,
		FrontendURL: app.cfg.FrontendURL,
	})
}

func (app *Application) initServices() {
	app.auth = &authservice.AuthService{
		Store:    app.db,
		Signer:   app.keys,
		Notifier: app.mailer,

		Issuer:     app.cfg.Issuer,
		AccessTTL:  app.cfg.AccessTTL,
		RefreshTTL: app.cfg.RefreshTTL,

		RequireVerifiedLogin: app.cfg.RequireVerifiedLogin,
		RotateRefreshTokens:  app.cfg.RotateRefreshTokens,
	}

	app.logistics = &logiservice.LogisticsService{Store: app.db}

	app.sweeper = authservice.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) initHTTP() {
	authRouter := authhttp.NewRouter(app.keys, BuildVersion, app.db, app.auth, app.logger)
	authRouter.ApplyRoutes()

	logiRouter := logihttp.NewRouter(app.keys, app.logistics, app.logger)
	logiRouter.ApplyRoutes()

	mux := http.NewServeMux()
	mux.Handle("/v1/logistics/", logiRouter)
	mux.Handle("/", authRouter)

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
