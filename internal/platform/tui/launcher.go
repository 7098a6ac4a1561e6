package tui

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mathblocks/internal/config"
	"github.com/vovakirdan/mathblocks/internal/core"
	"github.com/vovakirdan/mathblocks/internal/games/skipcount"
	"github.com/vovakirdan/mathblocks/internal/games/tutor"
	"github.com/vovakirdan/mathblocks/internal/logging"
	"github.com/vovakirdan/mathblocks/internal/problems"
	"github.com/vovakirdan/mathblocks/internal/registry"
	"github.com/vovakirdan/mathblocks/internal/storage"
)

// Launcher creates configured games. It is shared by the local CLI and
// SSH sessions so both attach the same result sink and options.
type Launcher struct {
	Store        *storage.Store // may be nil
	Logger       *log.Logger
	ConfigPath   string // custom game config YAML
	ProblemsPath string // custom problems.yaml
	Preset       config.DifficultyPreset
}

func (l Launcher) logger() *log.Logger {
	if l.Logger == nil {
		return logging.Discard()
	}
	return l.Logger
}

func (l Launcher) sink() core.ResultSink {
	if l.Store == nil {
		return nil
	}
	return l.Store.Sink(l.logger())
}

// Create builds game id with default options for a player session.
func (l Launcher) Create(id, sessionID string) (registry.Game, error) {
	g, err := registry.CreateWithSink(id, l.logger(), l.sink(), sessionID)
	if err != nil {
		return nil, err
	}

	switch g := g.(type) {
	case *tutor.Game:
		g.Configure(tutor.Options{ConfigPath: l.ConfigPath, ProblemsPath: l.ProblemsPath})
	case *skipcount.Game:
		g.Configure(skipcount.Options{ConfigPath: l.ConfigPath, Preset: l.Preset})
	}
	return g, nil
}

// Tutor builds a carry-over game for a menu selection.
func (l Launcher) Tutor(sel TutorSelection, sessionID string) (registry.Game, error) {
	id := tutor.IDRound
	if sel.Practice {
		id = tutor.IDPractice
	}
	g, err := l.Create(id, sessionID)
	if err != nil {
		return nil, err
	}
	tg, ok := g.(*tutor.Game)
	if !ok {
		return nil, fmt.Errorf("tui: game %q is not a carry-over game", id)
	}
	tg.Configure(tutor.Options{
		Category:     sel.Category,
		Custom:       sel.Custom,
		ConfigPath:   l.ConfigPath,
		ProblemsPath: l.ProblemsPath,
	})
	return tg, nil
}

// SkipCount builds a skip-counting game for a menu selection.
func (l Launcher) SkipCount(sel SkipCountSelection, sessionID string) (registry.Game, error) {
	id := skipcount.IDCampaign
	if sel.Endless {
		id = skipcount.IDEndless
	}
	g, err := l.Create(id, sessionID)
	if err != nil {
		return nil, err
	}
	sg, ok := g.(*skipcount.Game)
	if !ok {
		return nil, fmt.Errorf("tui: game %q is not a skip-counting game", id)
	}
	sg.Configure(skipcount.Options{
		ConfigPath: l.ConfigPath,
		Preset:     l.Preset,
		StartLevel: sel.Level,
	})
	return sg, nil
}

// Categories returns the problem categories offered in the tutor menu.
func (l Launcher) Categories() []problems.Category {
	set, err := problems.Load(l.ProblemsPath)
	if err != nil {
		l.logger().Warn("using default problem set", "err", err)
		if set, err = problems.Default(); err != nil {
			return nil
		}
	}
	return set.Categories
}

// SkipValues returns the skip-counting levels.
func (l Launcher) SkipValues() []int {
	cfg, err := config.LoadSkipCount(l.ConfigPath)
	if err != nil {
		l.logger().Warn("using default skip-count config", "err", err)
		cfg = config.DefaultSkipCountConfig()
	}
	return cfg.Play.SkipValues
}
