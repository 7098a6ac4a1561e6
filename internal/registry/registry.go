// Package registry holds the game factories. Games register themselves in
// init() so the platform can list and create them by ID.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mathblocks/internal/core"
)

// Game is implemented by every mathblocks game. Games hold pure logic;
// the platform maps keys to actions, drives ticks and renders.
type Game interface {
	// ID returns a unique identifier (e.g. "carryover"), used by the CLI
	// and score storage.
	ID() string

	// Title returns a display name.
	Title() string

	// Reset starts or restarts the game.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state into a pre-cleared screen.
	Render(dst *core.Screen)

	// State returns score and status flags.
	State() core.GameState
}

// Recordable is implemented by games that report finished problems.
type Recordable interface {
	SetResultSink(sink core.ResultSink)
}

// SessionAware is implemented by games that tag results with a session ID.
type SessionAware interface {
	SetSessionID(id string)
}

// LoggerAware is implemented by games that log gameplay events.
type LoggerAware interface {
	SetLogger(logger *log.Logger)
}

// GameInfo describes a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a new game instance.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a game factory. It panics on a duplicate ID.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns all registered games sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{ID: id, Title: titles[id]})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Create instantiates a game by ID.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(), nil
}

// CreateWithSink instantiates a game and attaches logger, sink and
// sessionID when the game supports them. Zero values are skipped.
func CreateWithSink(id string, logger *log.Logger, sink core.ResultSink, sessionID string) (Game, error) {
	g, err := Create(id)
	if err != nil {
		return nil, err
	}
	if l, ok := g.(LoggerAware); ok && logger != nil {
		l.SetLogger(logger)
	}
	if r, ok := g.(Recordable); ok && sink != nil {
		r.SetResultSink(sink)
	}
	if s, ok := g.(SessionAware); ok && sessionID != "" {
		s.SetSessionID(sessionID)
	}
	return g, nil
}

// Exists reports whether a game with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
