package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/mathblocks/internal/core"
)

// SkipCountSelection holds the choice made in the skip-counting menu.
type SkipCountSelection struct {
	Endless bool
	Level   int // 0 starts at the first level, otherwise 1-based
}

// SkipCountMenuModel lets users choose campaign, endless or a start level.
type SkipCountMenuModel struct {
	skipValues    []int
	cursor        int
	levelCursor   int
	inLevelSelect bool
	width         int
	height        int
	keyMapper     *KeyMapper
	selection     SkipCountSelection
	choosing      bool
	quitting      bool
	back          bool
}

// NewSkipCountMenuModel creates the selector. skipValues are the levels.
func NewSkipCountMenuModel(skipValues []int, width, height int) SkipCountMenuModel {
	return SkipCountMenuModel{
		skipValues: skipValues,
		width:      width,
		height:     height,
		keyMapper:  NewKeyMapper(),
		choosing:   true,
	}
}

// Init initializes the model.
func (m SkipCountMenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m SkipCountMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		action := m.keyMapper.MapKeyToMenuAction(msg)
		if m.inLevelSelect {
			return m.handleLevelSelectKey(action)
		}
		return m.handleModeSelectKey(action)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m SkipCountMenuModel) handleModeSelectKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < 2 {
			m.cursor++
		}
	case MenuActionSelect:
		switch m.cursor {
		case 0, 1:
			m.choosing = false
			m.selection = SkipCountSelection{Endless: m.cursor == 1}
			return m, tea.Quit
		case 2:
			m.inLevelSelect = true
			m.levelCursor = 0
		}
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}
	return m, nil
}

func (m SkipCountMenuModel) handleLevelSelectKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.levelCursor > 0 {
			m.levelCursor--
		}
	case MenuActionDown:
		if m.levelCursor < len(m.skipValues)-1 {
			m.levelCursor++
		}
	case MenuActionSelect:
		m.choosing = false
		m.selection = SkipCountSelection{Level: m.levelCursor + 1}
		return m, tea.Quit
	case MenuActionBack:
		m.inLevelSelect = false
	}
	return m, nil
}

// View renders the selector.
func (m SkipCountMenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")

	if m.inLevelSelect {
		b.WriteString(centerText("SELECT LEVEL", m.width))
		b.WriteString("\n\n")
		for i, skip := range m.skipValues {
			cursor := "  "
			if i == m.levelCursor {
				cursor = "> "
			}
			b.WriteString(centerText(fmt.Sprintf("%s%2d. Count by %ds", cursor, i+1, skip), m.width))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(centerText("S K I P   C O U N T I N G", m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText("Select game mode:", m.width))
		b.WriteString("\n\n")

		modes := []string{
			fmt.Sprintf("Campaign (%d levels)", len(m.skipValues)),
			"Endless Mode",
			"Select Level...",
		}
		for i, mode := range modes {
			cursor := "  "
			if i == m.cursor {
				cursor = "> "
			}
			b.WriteString(centerText(cursor+mode, m.width))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))
	return b.String()
}

// Selected returns the selection, or nil while still choosing.
func (m SkipCountMenuModel) Selected() *SkipCountSelection {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// IsQuitting reports whether the user quit.
func (m SkipCountMenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack reports whether the user backed out.
func (m SkipCountMenuModel) WantsBack() bool {
	return m.back
}

// RunSkipCountSelector shows the skip-counting selector. A nil selection
// means the user backed out or quit.
func RunSkipCountSelector(cfg core.RuntimeConfig, skipValues []int) (*SkipCountSelection, error) {
	p := tea.NewProgram(NewSkipCountMenuModel(skipValues, cfg.ScreenW, cfg.ScreenH), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := final.(SkipCountMenuModel)
	if !ok || m.IsQuitting() || m.WantsBack() {
		return nil, nil
	}
	return m.Selected(), nil
}
