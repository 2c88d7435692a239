package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"

	"github.com/gcbaptista/findmyjob/api"
	"github.com/gcbaptista/findmyjob/config"
	"github.com/gcbaptista/findmyjob/internal/analytics"
	"github.com/gcbaptista/findmyjob/internal/auth"
	"github.com/gcbaptista/findmyjob/internal/engine"
	"github.com/gcbaptista/findmyjob/internal/search"
	"github.com/gcbaptista/findmyjob/services"
	"github.com/gcbaptista/findmyjob/store"
)

const shutdownTimeout = 10 * time.Second

func serveCommand(c *cli.Context) error {
	cfg, err := loadServeConfig(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.Default()

	jobStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	searcher, err := search.NewService(cfg.Search, search.WithLogger(logger))
	if err != nil {
		jobStore.Close()
		return fmt.Errorf("create search service: %w", err)
	}
	defer searcher.Close()

	activity := analytics.NewService(
		analytics.WithDataFile(filepath.Join(cfg.DataDir, analytics.SnapshotFile)),
		analytics.WithLogger(logger),
	)
	scheduler, err := analytics.NewScheduler(activity, cfg.AnalyticsFlushSpec, cfg.AnalyticsRetention)
	if err != nil {
		jobStore.Close()
		return err
	}
	scheduler.Start()

	authService, err := auth.NewService(
		auth.WithTokenTTL(cfg.TokenTTL),
		auth.WithDataFile(filepath.Join(cfg.DataDir, auth.AccountsFile)),
		auth.WithLogger(logger),
	)
	if err != nil {
		jobStore.Close()
		return err
	}
	if cfg.AdminUsername != "" {
		email := cfg.AdminEmail
		if email == "" {
			email = cfg.AdminUsername + "@localhost"
		}
		if err := authService.EnsureAdmin(cfg.AdminUsername, email, cfg.AdminPassword); err != nil {
			jobStore.Close()
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	eng, err := engine.New(jobStore, searcher, engine.WithSearchRecorder(activity), engine.WithLogger(logger))
	if err != nil {
		jobStore.Close()
		return err
	}
	defer func() {
		if err := eng.Close(); err != nil {
			logger.Error("closing job store failed", "error", err)
		}
	}()

	if cfg.SlogLevel() > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	if err := api.SetupRoutes(router, api.Dependencies{
		Board:            eng,
		Activity:         activity,
		Reports:          activity,
		Auth:             authService,
		CORSOrigins:      cfg.CORSOrigins,
		OpenRegistration: cfg.OpenRegistration,
		Logger:           logger,
	}); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "port", cfg.Port, "store", cfg.StoreBackend, "data_dir", cfg.DataDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-serveErr:
		if err != nil {
			scheduler.Stop(context.Background())
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.Error("analytics shutdown failed", "error", err)
	}
	logger.Info("stopped")
	return nil
}

// loadServeConfig reads the environment (including the env file), applies flag
// overrides and validates. The logger is reinstalled at the resulting level since
// the env file is only read here.
func loadServeConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Read(c.String("env-file"))
	if err != nil {
		return nil, err
	}
	applyServeFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	installLogger(level)
	return cfg, nil
}

// applyServeFlags lets explicitly set flags override the environment
func applyServeFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("log-level") {
		cfg.LogLevel = strings.ToLower(c.String("log-level"))
	}
	if c.IsSet("port") {
		cfg.Port = c.String("port")
	}
	if c.IsSet("data-dir") {
		cfg.DataDir = c.String("data-dir")
	}
	if c.IsSet("store") {
		cfg.StoreBackend = c.String("store")
	}
	if c.IsSet("database-url") {
		cfg.DatabaseURL = c.String("database-url")
	}
}

func openStore(ctx context.Context, cfg *config.Config) (services.JobStore, error) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		return pg, nil
	default:
		bs, err := store.OpenBadgerStore(filepath.Join(cfg.DataDir, "jobs"), false)
		if err != nil {
			return nil, err
		}
		return bs, nil
	}
}
