package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/lexc24/tictactoe/internal/dependencies/clock"
	"github.com/lexc24/tictactoe/internal/dependencies/random"
	"github.com/lexc24/tictactoe/internal/services/queue"
	"github.com/lexc24/tictactoe/internal/storage"
	"github.com/lexc24/tictactoe/internal/storage/memory"
	redisstorage "github.com/lexc24/tictactoe/internal/storage/redis"
	"github.com/lexc24/tictactoe/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	Registry storage.Registry

	Clock  clock.Clock
	Random random.Random

	Hub         *ws.Hub
	Broadcaster *ws.Broadcaster
	Coordinator *queue.Coordinator
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the registry backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// QueueConfig holds coordinator settings. Zero value means defaults.
	QueueConfig queue.Config
}

// New creates a new application with all dependencies wired.
// The hub's Run loop is started; call App.Close on shutdown.
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var registry storage.Registry
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		registry = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisRegistry, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		registry = redisRegistry
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	queueCfg := cfg.QueueConfig
	if queueCfg.Policy == "" {
		queueCfg = queue.DefaultConfig()
	}

	return newWithDependencies(registry, clock.New(), random.New(), queueCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(registry storage.Registry, clk clock.Clock, rnd random.Random, queueCfg queue.Config, logger *slog.Logger) *App {
	hub := ws.NewHub(logger)
	go hub.Run()

	broadcaster := ws.NewBroadcaster(hub, logger)
	coordinator := queue.NewCoordinator(registry, clk, broadcaster, queueCfg, logger)

	return &App{
		Registry:    registry,
		Clock:       clk,
		Random:      rnd,
		Hub:         hub,
		Broadcaster: broadcaster,
		Coordinator: coordinator,
	}
}

// Close releases the application's background resources
func (a *App) Close() error {
	a.Hub.Close()
	if closer, ok := a.Registry.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
