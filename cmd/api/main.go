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
	"syscall"
	"time"

	"steamsync-api/internal/cache"
	"steamsync-api/internal/config"
	"steamsync-api/internal/handler"
	"steamsync-api/internal/metrics"
	"steamsync-api/internal/middleware"
	"steamsync-api/internal/repository"
	"steamsync-api/internal/router"
	"steamsync-api/internal/service"
	"steamsync-api/internal/steam"
	"steamsync-api/internal/token"
	"steamsync-api/pkg/pagination"
	"steamsync-api/pkg/password"
)

func main() {
	// Missing JWT_SECRET or STEAM_API_KEY panics here.
	cfg := config.MustLoad()

	logger := newLogger(cfg)
	slog.SetDefault(logger)
	logger.Info("starting", "app", cfg.App.Name, "version", cfg.App.Version, "env", cfg.App.Environment)

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.App.Debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.App.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	dialect, err := cfg.Database.Dialect()
	if err != nil {
		return err
	}
	if dialect == repository.DialectSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := repository.Open(ctx, repository.Config{
		Type:            string(dialect),
		DSN:             cfg.Database.DSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	var (
		gameCache   cache.Cache
		cachePinger handler.Pinger
	)
	switch cfg.Cache.Type {
	case "redis":
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:      cfg.Cache.RedisAddress(),
			Password:  cfg.Cache.RedisPassword,
			DB:        cfg.Cache.RedisDB,
			KeyPrefix: cfg.Cache.RedisPrefix,
		})
		if err != nil {
			return err
		}
		gameCache, cachePinger = rc, rc
		logger.Info("redis cache ready", "addr", cfg.Cache.RedisAddress())
	default:
		gameCache = cache.NewMemoryCache(time.Minute)
	}
	defer gameCache.Close()

	m := metrics.New()

	steamClient := steam.NewClient(steam.Config{
		APIKey:       cfg.Steam.APIKey,
		APIBaseURL:   cfg.Steam.APIBaseURL,
		StoreBaseURL: cfg.Steam.StoreBaseURL,
		CommunityURL: cfg.Steam.CommunityURL,
		Timeout:      cfg.Steam.Timeout,
		GameCacheTTL: cfg.Steam.GameCacheTTL,
	},
		steam.WithCache(gameCache),
		steam.WithMetrics(m),
		steam.WithLogger(logger),
	)

	codec, err := token.NewCodec(cfg.Auth.JWTSecret)
	if err != nil {
		return err
	}

	users := repository.NewIdentityRepository(db)
	games := repository.NewGameRepository(db)
	inventories := repository.NewInventoryRepository(db)
	admins := repository.NewAdminRepository(db)

	opts := []service.Option{service.WithLogger(logger), service.WithMetrics(m)}
	gameSvc := service.NewGameService(games, games, users, steamClient, opts...)
	identitySvc := service.NewIdentityService(users, gameSvc, steamClient, opts...)
	inventorySvc := service.NewInventoryService(users, inventories, steamClient, opts...)
	authSvc := service.NewAuthService(users, admins, codec, password.Default(), opts...)

	if err := authSvc.EnsureBootstrapAdmin(ctx, cfg.Auth.BootstrapAdminUsername, cfg.Auth.BootstrapAdminPassword); err != nil {
		return err
	}

	planner := pagination.New(cfg.Pagination.DefaultLimit, cfg.Pagination.MinLimit, cfg.Pagination.MaxLimit)

	r := router.New(router.Config{
		Handler:          handler.New(cfg.App.Name, cfg.App.Version, db, cachePinger),
		AuthHandler:      handler.NewAuthHandler(authSvc, logger),
		UserHandler:      handler.NewUserHandler(identitySvc, gameSvc, inventorySvc, planner, logger),
		GameHandler:      handler.NewGameHandler(gameSvc, logger),
		InventoryHandler: handler.NewInventoryHandler(inventorySvc, logger),
		AdminHandler:     handler.NewAdminHandler(authSvc, db, cfg.Cache.Type, logger),
		AuthMiddleware:   middleware.NewAuthMiddleware(codec),
		Metrics:          m.Handler(),
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		Logger:           logger,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := identitySvc.Drain(shutdownCtx); err != nil {
		logger.Warn("enrichment still running at shutdown", "error", err)
	}
	return nil
}
