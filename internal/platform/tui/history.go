package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/mathblocks/internal/core"
	"github.com/vovakirdan/mathblocks/internal/storage"
)

const maxHistory = 200

// HistoryKeyMap defines the session history bindings.
type HistoryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp implements help.KeyMap.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Back, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultHistoryKeyMap returns the default bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "down")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "show steps")),
		Back:   key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// HistoryModel lists stored carry-over sessions and the steps of one.
type HistoryModel struct {
	store     *storage.Store
	sessions  []storage.TutorSession
	loadErr   error
	table     table.Model
	help      help.Model
	keys      HistoryKeyMap
	detail    *storage.TutorSession
	steps     []core.ProblemStep
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewHistoryModel creates the history view. store may be nil.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	m := HistoryModel{
		store:  store,
		help:   help.New(),
		keys:   DefaultHistoryKeyMap(),
		width:  width,
		height: height,
	}
	if store != nil {
		m.sessions, m.loadErr = store.RecentSessions(maxHistory)
	}
	m.table = m.createTable()
	return m
}

func (m HistoryModel) createTable() table.Model {
	rows := make([]table.Row, len(m.sessions))
	for i, s := range m.sessions {
		result := strconv.Itoa(s.Answer)
		if s.Aborted {
			result = "stopped"
		}
		rows[i] = table.Row{
			s.EndedAt.Local().Format("Jan 02 15:04"),
			fmt.Sprintf("%d + %d", s.Num1, s.Num2),
			result,
			strconv.Itoa(s.Mistakes),
			strconv.Itoa(s.Score),
			s.Category,
		}
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Date", Width: 13},
			{Title: "Problem", Width: 19},
			{Title: "Answer", Width: 9},
			{Title: "Mistakes", Width: 8},
			{Title: "Points", Width: 6},
			{Title: "Category", Width: 11},
		}),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)
	t.SetStyles(tableStyles())
	return t
}

// Init initializes the model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			if m.detail != nil {
				m.detail = nil
				m.steps = nil
				return m, nil
			}
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Select):
			m.openSelected()
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		cursor := m.table.Cursor()
		m.table = m.createTable()
		m.table.SetCursor(cursor)
		m.help.Width = msg.Width
		return m, nil
	}

	if m.detail != nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *HistoryModel) openSelected() {
	i := m.table.Cursor()
	if m.store == nil || i < 0 || i >= len(m.sessions) {
		return
	}
	steps, err := m.store.SessionSteps(m.sessions[i].ID)
	if err != nil {
		m.loadErr = err
		return
	}
	m.detail = &m.sessions[i]
	m.steps = steps
}

// View renders the list or the selected session.
func (m HistoryModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(centerText("CARRY-OVER HISTORY", m.width)))
	b.WriteString("\n\n")

	switch {
	case m.detail != nil:
		b.WriteString(boxStyle.Render(m.renderDetail()))
	case len(m.sessions) == 0:
		msg := "No problems solved yet.\nPlay Carry-Over Blocks to start your history!"
		if m.loadErr != nil {
			msg = "Cannot load history: " + m.loadErr.Error()
		}
		b.WriteString(boxStyle.Render(mutedStyle.Italic(true).Padding(2, 4).Render(msg)))
	default:
		b.WriteString(boxStyle.Render(m.table.View()))
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m HistoryModel) renderDetail() string {
	s := m.detail
	var b strings.Builder
	fmt.Fprintf(&b, "%d + %d = %d\n", s.Num1, s.Num2, s.Answer)
	fmt.Fprintf(&b, "%s  |  %d mistake(s)  |  %d points  |  %s\n\n",
		s.EndedAt.Local().Format("Jan 02 15:04"), s.Mistakes, s.Score, s.Duration().Round(time.Second))
	for _, step := range m.steps {
		b.WriteString(step.Explanation)
		if step.Attempts > 1 {
			fmt.Fprintf(&b, "  (%d tries)", step.Attempts)
		}
		b.WriteString("\n")
	}
	if s.Aborted {
		b.WriteString(mutedStyle.Render("Stopped before the end."))
	}
	return b.String()
}

// IsGoingBack reports whether the user asked to return to the menu.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting reports whether the user quit.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}

// RunHistory shows the session history. goBack is true when the user
// returned to the menu rather than quitting.
func RunHistory(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewHistoryModel(store, width, height), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(HistoryModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
