package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/pelada/internal/api"
	"github.com/mcoot/pelada/internal/config"
	"github.com/mcoot/pelada/internal/factory"
	"github.com/mcoot/pelada/internal/services/auth"
	"github.com/mcoot/pelada/internal/services/balancer"
	pgstorage "github.com/mcoot/pelada/internal/storage/postgres"
	redisstorage "github.com/mcoot/pelada/internal/storage/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	if cfg.Dev {
		logger.Warn("running in development mode")
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create application factory
	app, err := factory.New(ctx, factoryConfig(cfg, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer app.Close()

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		Metrics:        app.Metrics,
		AuthService:    app.AuthService,
		RosterService:  app.RosterService,
		ProfileService: app.ProfileService,
		MatchService:   app.MatchService,
		Feed:           app.Feed,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)

	if err := server.Listen(); err != nil {
		logger.Error("failed to bind", slog.String("error", err.Error()))
		app.Close()
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.StorageType),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			app.Close()
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		// Disconnect stream clients first so Shutdown does not wait on them
		app.Feed.Close()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			app.Close()
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

// factoryConfig maps server settings onto the application factory
func factoryConfig(cfg *config.Config, logger *slog.Logger) factory.Config {
	authCfg := auth.DefaultConfig()
	authCfg.JWTSecret = cfg.JWTSecret
	authCfg.SessionDuration = cfg.SessionDuration

	out := factory.Config{
		AuthConfig:     authCfg,
		BalancerConfig: balancer.Config{MinPlayersPerTeam: cfg.MinPlayersPerTeam},
		Logger:         logger,
		StorageType:    cfg.StorageType,
		DisableMetrics: !cfg.MetricsEnabled,
	}

	switch cfg.StorageType {
	case factory.StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		out.RedisConfig = &redisCfg
	case factory.StorageTypePostgres:
		pgCfg := pgstorage.DefaultConfig()
		pgCfg.DSN = cfg.DatabaseURL
		pgCfg.MaxConns = cfg.DBMaxConns
		pgCfg.MinConns = cfg.DBMinConns
		out.PostgresConfig = &pgCfg
	}

	return out
}
