package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mathblocks/internal/carryover"
	"github.com/vovakirdan/mathblocks/internal/core"
	"github.com/vovakirdan/mathblocks/internal/problems"
)

// TutorSelection is what the learner picked before a carry-over game.
type TutorSelection struct {
	Practice bool
	Category string             // empty uses the configured default
	Custom   *carryover.Problem // played first when set
}

type tutorScreen int

const (
	tutorScreenMode tutorScreen = iota
	tutorScreenCategory
	tutorScreenCustom
)

var tutorModes = []string{
	"Round",
	"Practice (no end)",
	"Choose category...",
	"Type your own problem...",
}

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

// TutorMenuModel lets the learner choose a mode, a category or a custom
// problem for the carry-over game.
type TutorMenuModel struct {
	categories []problems.Category
	screen     tutorScreen
	cursor     int
	catCursor  int
	input      textinput.Model
	inputErr   string
	width      int
	height     int
	keyMapper  *KeyMapper
	selection  TutorSelection
	choosing   bool
	quitting   bool
	back       bool
}

// NewTutorMenuModel creates the selector over categories.
func NewTutorMenuModel(categories []problems.Category, width, height int) TutorMenuModel {
	ti := textinput.New()
	ti.Placeholder = "47 + 18"
	ti.CharLimit = 17
	ti.Width = 20

	return TutorMenuModel{
		categories: categories,
		input:      ti,
		width:      width,
		height:     height,
		keyMapper:  NewKeyMapper(),
		choosing:   true,
	}
}

// Init initializes the model.
func (m TutorMenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m TutorMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.screen == tutorScreenCustom {
			return m.handleCustomKey(msg)
		}
		action := m.keyMapper.MapKeyToMenuAction(msg)
		if m.screen == tutorScreenCategory {
			return m.handleCategoryKey(action)
		}
		return m.handleModeKey(action)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m TutorMenuModel) handleModeKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(tutorModes)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		switch m.cursor {
		case 0, 1:
			return m.choose(TutorSelection{Practice: m.cursor == 1})
		case 2:
			m.screen = tutorScreenCategory
			m.catCursor = 0
		case 3:
			m.screen = tutorScreenCustom
			m.inputErr = ""
			m.input.SetValue("")
			return m, m.input.Focus()
		}
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}
	return m, nil
}

func (m TutorMenuModel) handleCategoryKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.catCursor > 0 {
			m.catCursor--
		}
	case MenuActionDown:
		if m.catCursor < len(m.categories)-1 {
			m.catCursor++
		}
	case MenuActionSelect:
		if len(m.categories) > 0 {
			return m.choose(TutorSelection{Category: m.categories[m.catCursor].Name})
		}
	case MenuActionBack:
		m.screen = tutorScreenMode
	}
	return m, nil
}

func (m TutorMenuModel) handleCustomKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.input.Blur()
		m.screen = tutorScreenMode
		return m, nil
	case "enter":
		p, err := ParseProblem(m.input.Value())
		if err != nil {
			m.inputErr = err.Error()
			return m, nil
		}
		return m.choose(TutorSelection{Practice: true, Custom: &p})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m TutorMenuModel) choose(sel TutorSelection) (tea.Model, tea.Cmd) {
	m.selection = sel
	m.choosing = false
	return m, tea.Quit
}

// View renders the selector.
func (m TutorMenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText("C A R R Y - O V E R   B L O C K S", m.width))
	b.WriteString("\n\n")

	switch m.screen {
	case tutorScreenCategory:
		b.WriteString(centerText("Choose a category:", m.width))
		b.WriteString("\n\n")
		for i, c := range m.categories {
			cursor := "  "
			if i == m.catCursor {
				cursor = "> "
			}
			b.WriteString(centerText(fmt.Sprintf("%s%-12s %s", cursor, c.Title, c.Description), m.width))
			b.WriteString("\n")
		}
	case tutorScreenCustom:
		b.WriteString(centerText("Type two numbers to add:", m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText(m.input.View(), m.width))
		b.WriteString("\n")
		if m.inputErr != "" {
			b.WriteString("\n")
			b.WriteString(centerText(errorStyle.Render(m.inputErr), m.width))
			b.WriteString("\n")
		}
	default:
		b.WriteString(centerText("Select game mode:", m.width))
		b.WriteString("\n\n")
		for i, mode := range tutorModes {
			cursor := "  "
			if i == m.cursor {
				cursor = "> "
			}
			b.WriteString(centerText(cursor+mode, m.width))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Ctrl+C: Quit", m.width))
	return b.String()
}

// Selected returns the selection, or nil while still choosing.
func (m TutorMenuModel) Selected() *TutorSelection {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// IsQuitting reports whether the user quit.
func (m TutorMenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack reports whether the user backed out.
func (m TutorMenuModel) WantsBack() bool {
	return m.back
}

// ParseProblem reads "47 18", "47+18" or "47 + 18" into a validated problem.
func ParseProblem(s string) (carryover.Problem, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '+' || r == ' ' || r == '\t'
	})
	if len(fields) != 2 {
		return carryover.Problem{}, errors.New("enter two numbers, like 47 + 18")
	}

	nums := make([]int, 2)
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return carryover.Problem{}, fmt.Errorf("%q is not a whole number", f)
		}
		nums[i] = n
	}
	return problems.Custom(nums[0], nums[1])
}

// RunTutorSelector shows the carry-over selector. A nil selection means
// the user backed out or quit.
func RunTutorSelector(cfg core.RuntimeConfig, categories []problems.Category) (*TutorSelection, error) {
	p := tea.NewProgram(NewTutorMenuModel(categories, cfg.ScreenW, cfg.ScreenH), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := final.(TutorMenuModel)
	if !ok || m.IsQuitting() || m.WantsBack() {
		return nil, nil
	}
	return m.Selected(), nil
}
