package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/ollieshotz/shotz/internal/api/sse"
	"github.com/ollieshotz/shotz/internal/config"
	"github.com/ollieshotz/shotz/internal/dependencies/clock"
	"github.com/ollieshotz/shotz/internal/dependencies/random"
	"github.com/ollieshotz/shotz/internal/model"
	"github.com/ollieshotz/shotz/internal/queue"
	"github.com/ollieshotz/shotz/internal/services/auth"
	"github.com/ollieshotz/shotz/internal/services/export"
	"github.com/ollieshotz/shotz/internal/services/game"
	"github.com/ollieshotz/shotz/internal/services/offline"
	"github.com/ollieshotz/shotz/internal/services/profile"
	"github.com/ollieshotz/shotz/internal/services/session"
	"github.com/ollieshotz/shotz/internal/store"
	"github.com/ollieshotz/shotz/internal/store/memory"
	redisstore "github.com/ollieshotz/shotz/internal/store/redis"
)

// Backend type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"

	QueueTypeMemory = "memory"
	QueueTypeSqlite = "sqlite"
)

// App contains all wired application components
type App struct {
	Store store.Store
	Queue queue.Queue

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService    *auth.Service
	ProfileService *profile.Service
	GameService    *game.Service
	ExportService  *export.Service
	Reconciler     *offline.Reconciler
	Monitor        *offline.Monitor
	SSEManager     *sse.Manager
}

// New creates a new application with all dependencies wired
func New(cfg config.Config) (*App, error) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewWithLogger(cfg, logger)
}

// NewWithLogger creates a new application using the given logger
func NewWithLogger(cfg config.Config, logger *slog.Logger) (*App, error) {
	clk := clock.New()
	rnd := random.New()

	st, err := buildStore(cfg, clk, rnd)
	if err != nil {
		return nil, err
	}

	q, err := buildQueue(cfg, clk, rnd)
	if err != nil {
		return nil, err
	}

	return newWithDependencies(cfg, st, q, clk, rnd, logger), nil
}

func buildStore(cfg config.Config, clk clock.Clock, rnd random.Random) (store.Store, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(clk, rnd), nil
	case StorageTypeRedis:
		redisCfg := redisstore.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		return redisstore.New(redisCfg, clk, rnd)
	default:
		return nil, errors.New("invalid SHOTZ_STORAGE: must be 'memory' or 'redis'")
	}
}

func buildQueue(cfg config.Config, clk clock.Clock, rnd random.Random) (queue.Queue, error) {
	queueType := cfg.QueueType
	if queueType == "" {
		queueType = QueueTypeMemory
	}

	switch queueType {
	case QueueTypeMemory:
		return queue.NewMemory(clk, rnd), nil
	case QueueTypeSqlite:
		return queue.NewSqlite(cfg.QueuePath, clk, rnd)
	default:
		return nil, errors.New("invalid SHOTZ_QUEUE: must be 'memory' or 'sqlite'")
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(cfg config.Config, st store.Store, q queue.Queue, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	attemptLimit := cfg.PinAttemptLimit
	if attemptLimit == 0 {
		attemptLimit = 5
	}
	attemptWindow := cfg.PinAttemptWindow
	if attemptWindow == 0 {
		attemptWindow = time.Minute
	}
	attempts := auth.NewMemoryAttemptStore(clk, attemptLimit, attemptWindow)

	syncUser := cfg.SyncUser
	if syncUser == "" {
		syncUser = "offline-sync"
	}

	authService := auth.New(st, clk, attempts, logger)
	profileService := profile.New(st, clk, rnd, logger)
	gameService := game.New(st, clk, rnd, logger)
	exportService := export.New(clk)
	reconciler := offline.NewReconciler(st, q, model.UserID(syncUser), logger)
	monitor := offline.NewMonitor(true)
	sseManager := sse.NewManager(st, logger)

	return &App{
		Store:          st,
		Queue:          q,
		Clock:          clk,
		Random:         rnd,
		AuthService:    authService,
		ProfileService: profileService,
		GameService:    gameService,
		ExportService:  exportService,
		Reconciler:     reconciler,
		Monitor:        monitor,
		SSEManager:     sseManager,
	}
}

// NewLiveSession creates a live recording controller for one game on behalf
// of the given user. The caller owns its lifecycle and must Close it.
func (a *App) NewLiveSession(user model.UserID, logger *slog.Logger) *session.Controller {
	return session.NewController(a.Store, a.Clock, a.Random, user, logger)
}

// Close releases the app's store, queue, and stream resources
func (a *App) Close() error {
	a.SSEManager.Close()

	var errs []error
	if closer, ok := a.Store.(interface{ Close() error }); ok {
		errs = append(errs, closer.Close())
	}
	errs = append(errs, a.Queue.Close())
	return errors.Join(errs...)
}
