package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/ludosur/parchis-server/internal/dependencies/clock"
	"github.com/ludosur/parchis-server/internal/dependencies/random"
	"github.com/ludosur/parchis-server/internal/scheduler"
	"github.com/ludosur/parchis-server/internal/services/auth"
	"github.com/ludosur/parchis-server/internal/services/game"
	"github.com/ludosur/parchis-server/internal/services/room"
	"github.com/ludosur/parchis-server/internal/services/settlement"
	"github.com/ludosur/parchis-server/internal/sse"
	"github.com/ludosur/parchis-server/internal/storage"
	"github.com/ludosur/parchis-server/internal/storage/memory"
	redisstorage "github.com/ludosur/parchis-server/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Shared infrastructure
	Scheduler  *scheduler.Scheduler
	Locks      *game.Locks
	HubManager *sse.HubManager

	// Services
	AuthService       *auth.Service
	SettlementService *settlement.Service
	GameController    *game.Controller
	RoomController    *room.Controller
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// SettlementConfig holds payout configuration (optional)
	// If nil, defaults to settlement.DefaultConfig()
	SettlementConfig *settlement.Config
	// GameConfig holds game controller configuration (optional)
	// If nil, defaults to game.DefaultConfig()
	GameConfig *game.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default configs if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}
	settlementCfg := settlement.DefaultConfig()
	if cfg.SettlementConfig != nil {
		settlementCfg = *cfg.SettlementConfig
	}
	gameCfg := game.DefaultConfig()
	if cfg.GameConfig != nil {
		gameCfg = *cfg.GameConfig
	}

	return newWithDependencies(store, clk, rnd, authCfg, settlementCfg, gameCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	authCfg auth.Config,
	settlementCfg settlement.Config,
	gameCfg game.Config,
	logger *slog.Logger,
) *App {
	sched := scheduler.New(logger)
	locks := game.NewLocks()
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)

	authService := auth.New(store, clk, authCfg)
	settlementService := settlement.New(authService, store, logger, settlementCfg)
	gameController := game.NewController(store, settlementService, sched, locks, broadcaster, clk, rnd, logger, gameCfg)
	roomController := room.NewController(store, gameController, settlementService, authService, sched, locks, broadcaster, clk, rnd, logger)

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		Scheduler:         sched,
		Locks:             locks,
		HubManager:        hubManager,
		AuthService:       authService,
		SettlementService: settlementService,
		GameController:    gameController,
		RoomController:    roomController,
	}
}

// Close releases background resources held by the app
func (a *App) Close() {
	a.Scheduler.Close()
}
