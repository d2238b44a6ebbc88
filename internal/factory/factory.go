package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/pelada/internal/dependencies/clock"
	"github.com/mcoot/pelada/internal/dependencies/random"
	"github.com/mcoot/pelada/internal/metrics"
	"github.com/mcoot/pelada/internal/services/auth"
	"github.com/mcoot/pelada/internal/services/balancer"
	"github.com/mcoot/pelada/internal/services/match"
	"github.com/mcoot/pelada/internal/services/profile"
	"github.com/mcoot/pelada/internal/services/roster"
	"github.com/mcoot/pelada/internal/sse"
	"github.com/mcoot/pelada/internal/storage"
	"github.com/mcoot/pelada/internal/storage/memory"
	pgstorage "github.com/mcoot/pelada/internal/storage/postgres"
	redisstorage "github.com/mcoot/pelada/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock         clock.Clock
	RandomFactory random.Factory

	// Services
	Balancer       *balancer.Balancer
	RosterService  *roster.Service
	ProfileService *profile.Service
	MatchService   *match.Service
	AuthService    *auth.Service
	Feed           *sse.Feed
	Metrics        *metrics.Recorder

	closers []func()
}

// Close releases the feed and any storage connections
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service.
	// JWTSecret is required; zero durations fall back to auth.DefaultConfig()
	AuthConfig auth.Config
	// BalancerConfig holds the balancing policy (optional)
	// If zero value, defaults to balancer.DefaultConfig()
	BalancerConfig balancer.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "postgres")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresConfig holds database settings (required if StorageType is "postgres")
	PostgresConfig *pgstorage.Config
	// DisableMetrics skips creating the Prometheus recorder
	DisableMetrics bool
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, closeStore, err := newStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	authCfg := cfg.AuthConfig
	defaults := auth.DefaultConfig()
	if authCfg.SessionDuration == 0 {
		authCfg.SessionDuration = defaults.SessionDuration
	}
	if authCfg.BcryptCost == 0 {
		authCfg.BcryptCost = defaults.BcryptCost
	}

	balancerCfg := cfg.BalancerConfig
	if balancerCfg.MinPlayersPerTeam == 0 {
		balancerCfg = balancer.DefaultConfig()
	}

	var recorder *metrics.Recorder
	if !cfg.DisableMetrics {
		recorder = metrics.NewRecorder()
	}

	app, err := newWithDependencies(store, clock.New(), random.EntropyFactory(), authCfg, balancerCfg, recorder, logger)
	if err != nil {
		closeStore()
		return nil, err
	}
	app.closers = append([]func(){closeStore}, app.closers...)
	return app, nil
}

// newStorage opens the configured backend and returns a function releasing it
func newStorage(ctx context.Context, cfg Config, logger *slog.Logger) (storage.Storage, func(), error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), func() {}, nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, nil, err
		}
		return redisStore, func() {
			if err := redisStore.Close(); err != nil {
				logger.Warn("failed to close redis", slog.String("error", err.Error()))
			}
		}, nil
	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		pgStore, err := pgstorage.New(ctx, *cfg.PostgresConfig, logger)
		if err != nil {
			return nil, nil, err
		}
		return pgStore, pgStore.Close, nil
	default:
		return nil, nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'postgres'")
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	newRandom random.Factory,
	authCfg auth.Config,
	balancerCfg balancer.Config,
	recorder *metrics.Recorder,
	logger *slog.Logger,
) (*App, error) {
	authService, err := auth.New(store, clk, authCfg, logger)
	if err != nil {
		return nil, err
	}

	feed := sse.NewFeed(logger)
	teamBalancer := balancer.New(balancerCfg, newRandom)
	rosterService := roster.New(store, clk, feed, logger)
	profileService := profile.New(store, rosterService, clk, logger)
	matchService := match.New(rosterService, teamBalancer, clk, recorder, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		RandomFactory:  newRandom,
		Balancer:       teamBalancer,
		RosterService:  rosterService,
		ProfileService: profileService,
		MatchService:   matchService,
		AuthService:    authService,
		Feed:           feed,
		Metrics:        recorder,
		closers:        []func(){feed.Close},
	}, nil
}
