package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mathblocks/internal/core"
	"github.com/vovakirdan/mathblocks/internal/games/skipcount"
	"github.com/vovakirdan/mathblocks/internal/games/tutor"
	"github.com/vovakirdan/mathblocks/internal/registry"
)

type sessionScreen int

const (
	sessionMenu sessionScreen = iota
	sessionTutorMenu
	sessionSkipMenu
	sessionScores
	sessionHistory
	sessionGame
)

// SessionModel drives a full session inside one Bubble Tea program:
// menu, game selectors, scoreboard, history and games. Sub-models that
// finish with tea.Quit hand control back here instead of ending the program.
type SessionModel struct {
	launcher  Launcher
	config    core.RuntimeConfig
	sessionID string
	logger    *log.Logger

	screen    sessionScreen
	menu      MenuModel
	tutorMenu TutorMenuModel
	skipMenu  SkipCountMenuModel
	scores    ScoreboardModel
	history   HistoryModel
	game      *GameModel
	quitting  bool
}

// NewSessionModel creates a session for one player.
func NewSessionModel(launcher Launcher, cfg core.RuntimeConfig, sessionID string) SessionModel {
	return SessionModel{
		launcher:  launcher,
		config:    cfg,
		sessionID: sessionID,
		logger:    launcher.logger().With("session", sessionID),
		menu:      NewMenuModel(cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update dispatches msg to the active screen.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case sessionTutorMenu:
		return m.updateTutorMenu(msg)
	case sessionSkipMenu:
		return m.updateSkipMenu(msg)
	case sessionScores:
		return m.updateScores(msg)
	case sessionHistory:
		return m.updateHistory(msg)
	case sessionGame:
		return m.updateGame(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.screen = sessionMenu
	m.game = nil
	m.menu = NewMenuModel(m.config)
	return m, m.menu.Init()
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if mm, ok := next.(MenuModel); ok {
		m.menu = mm
	}

	switch {
	case m.menu.IsQuitting():
		return m.quit()
	case m.menu.Next() == ScreenScoreboard:
		m.screen = sessionScores
		m.scores = NewScoreboardModel(m.launcher.Store, m.config.ScreenW, m.config.ScreenH)
		return m, nil
	case m.menu.Next() == ScreenHistory:
		m.screen = sessionHistory
		m.history = NewHistoryModel(m.launcher.Store, m.config.ScreenW, m.config.ScreenH)
		return m, nil
	case m.menu.Selected() != nil:
		switch id := m.menu.Selected().GameID; id {
		case tutor.IDRound:
			m.screen = sessionTutorMenu
			m.tutorMenu = NewTutorMenuModel(m.launcher.Categories(), m.config.ScreenW, m.config.ScreenH)
			return m, nil
		case skipcount.IDCampaign:
			m.screen = sessionSkipMenu
			m.skipMenu = NewSkipCountMenuModel(m.launcher.SkipValues(), m.config.ScreenW, m.config.ScreenH)
			return m, nil
		default:
			g, err := m.launcher.Create(id, m.sessionID)
			return m.startGame(g, err)
		}
	}
	return m, cmd
}

func (m SessionModel) updateTutorMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.tutorMenu.Update(msg)
	if tm, ok := next.(TutorMenuModel); ok {
		m.tutorMenu = tm
	}

	switch {
	case m.tutorMenu.IsQuitting():
		return m.quit()
	case m.tutorMenu.WantsBack():
		return m.toMenu()
	case m.tutorMenu.Selected() != nil:
		g, err := m.launcher.Tutor(*m.tutorMenu.Selected(), m.sessionID)
		return m.startGame(g, err)
	}
	return m, cmd
}

func (m SessionModel) updateSkipMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.skipMenu.Update(msg)
	if sm, ok := next.(SkipCountMenuModel); ok {
		m.skipMenu = sm
	}

	switch {
	case m.skipMenu.IsQuitting():
		return m.quit()
	case m.skipMenu.WantsBack():
		return m.toMenu()
	case m.skipMenu.Selected() != nil:
		g, err := m.launcher.SkipCount(*m.skipMenu.Selected(), m.sessionID)
		return m.startGame(g, err)
	}
	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	if sm, ok := next.(ScoreboardModel); ok {
		m.scores = sm
	}

	switch {
	case m.scores.IsQuitting():
		return m.quit()
	case m.scores.IsGoingBack():
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.history.Update(msg)
	if hm, ok := next.(HistoryModel); ok {
		m.history = hm
	}

	switch {
	case m.history.IsQuitting():
		return m.quit()
	case m.history.IsGoingBack():
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) startGame(g registry.Game, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.logger.Error("cannot start game", "err", err)
		return m.toMenu()
	}
	m.logger.Info("game started", "game", g.ID())

	gm := NewGameModel(g, m.launcher.Store, m.config, m.logger)
	m.game = &gm
	m.screen = sessionGame
	return m, m.game.Init()
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if gm, ok := next.(GameModel); ok {
		m.game = &gm
	}

	switch {
	case m.game.IsQuitting():
		return m.quit()
	case m.game.BackToMenu():
		m.logger.Info("game left", "game", m.game.game.ID(), "score", m.game.State().Score)
		return m.toMenu()
	}
	return m, cmd
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case sessionTutorMenu:
		return m.tutorMenu.View()
	case sessionSkipMenu:
		return m.skipMenu.View()
	case sessionScores:
		return m.scores.View()
	case sessionHistory:
		return m.history.View()
	case sessionGame:
		if m.game != nil {
			return m.game.View()
		}
	}
	return m.menu.View()
}

// RunSession starts a local session with the full menu flow.
func RunSession(launcher Launcher, cfg core.RuntimeConfig, sessionID string) error {
	p := tea.NewProgram(NewSessionModel(launcher, cfg, sessionID), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
