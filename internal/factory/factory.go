package factory

import (
	"io"
	"log/slog"

	"github.com/quizbuzz/quizbuzz/internal/dependencies/clock"
	"github.com/quizbuzz/quizbuzz/internal/dependencies/random"
	"github.com/quizbuzz/quizbuzz/internal/joincode"
	"github.com/quizbuzz/quizbuzz/internal/services/credentials"
	"github.com/quizbuzz/quizbuzz/internal/services/game"
	"github.com/quizbuzz/quizbuzz/internal/services/session"
	"github.com/quizbuzz/quizbuzz/internal/ws"
)

// App contains all wired application components
type App struct {
	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Hasher     *credentials.Hasher
	Generator  *joincode.Generator
	Store      *session.Store
	Controller *game.Controller

	// Transport
	Rooms   *ws.Rooms
	Gateway *ws.Gateway
}

// Config holds configuration for the application factory
type Config struct {
	// GameConfig holds the rule bounds (optional; zero values take defaults)
	GameConfig game.Config
	// StoreConfig holds session registry settings (optional)
	StoreConfig session.Config
	// AllowedOrigin restricts websocket upgrades (optional; empty allows any)
	AllowedOrigin string
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
}

// New creates a new application with all dependencies wired
func New(cfg Config) *App {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	clk := clock.New()
	rnd := random.New()
	hasher := credentials.New()

	return newWithDependencies(clk, rnd, hasher, cfg, logger)
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(clk clock.Clock, rnd random.Random, hasher *credentials.Hasher, cfg Config, logger *slog.Logger) *App {
	generator := joincode.NewGenerator(rnd)
	store := session.New(generator, hasher, clk, cfg.StoreConfig, logger)
	controller := game.NewController(store, hasher, clk, cfg.GameConfig, logger)
	rooms := ws.NewRooms(logger)
	gateway := ws.NewGateway(controller, rooms, cfg.AllowedOrigin, logger)

	return &App{
		Clock:      clk,
		Random:     rnd,
		Hasher:     hasher,
		Generator:  generator,
		Store:      store,
		Controller: controller,
		Rooms:      rooms,
		Gateway:    gateway,
	}
}

// Start launches background work (the session sweeper). Call Close to stop it.
func (a *App) Start() {
	a.Store.StartSweeper()
}

// Close stops background work
func (a *App) Close() {
	a.Store.Close()
}
