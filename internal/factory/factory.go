package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/triviaduel/internal/dependencies/clock"
	"github.com/mcoot/triviaduel/internal/dependencies/random"
	"github.com/mcoot/triviaduel/internal/quiz"
	"github.com/mcoot/triviaduel/internal/session"
	"github.com/mcoot/triviaduel/internal/storage"
	"github.com/mcoot/triviaduel/internal/storage/memory"
	redisstorage "github.com/mcoot/triviaduel/internal/storage/redis"
	"github.com/mcoot/triviaduel/internal/ws"
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

	// Services
	QuizService *quiz.Service
	Hub         *ws.Hub
	Coordinator *session.Coordinator
}

// Config holds configuration for the application factory
type Config struct {
	// QuestionsPath is the path to a question bank JSON file (optional)
	// If empty, the built-in question bank is used
	QuestionsPath string
	// SessionConfig holds coordinator settings (optional)
	SessionConfig session.Config
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
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

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

	clk := clock.New()
	rnd := random.New()

	app := newWithDependencies(store, clk, rnd, cfg.SessionConfig, logger)

	if cfg.QuestionsPath != "" {
		if err := app.QuizService.LoadFromFile(cfg.QuestionsPath); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, sessionCfg session.Config, logger *slog.Logger) *App {
	quizService := quiz.New()
	hub := ws.NewHub(logger)
	coordinator := session.NewCoordinator(store, quizService, hub, clk, rnd, sessionCfg, logger)

	return &App{
		Storage:     store,
		Clock:       clk,
		Random:      rnd,
		QuizService: quizService,
		Hub:         hub,
		Coordinator: coordinator,
	}
}
