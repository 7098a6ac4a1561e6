package tutor

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"

	"github.com/vovakirdan/mathblocks/internal/carryover"
	"github.com/vovakirdan/mathblocks/internal/core"
)

// Screen layout rows.
const (
	hudY        = 0
	headerY     = 2
	blocksTop   = 3
	blocksRows  = 9
	digitsY     = blocksTop + blocksRows
	markerY     = digitsY + 1
	promptY     = markerY + 1
	statusY     = promptY + 2
	historyY    = statusY + 2
	boardX      = 1
	columnWidth = 8

	minWidth  = 64
	minHeight = 20
)

// Render draws the board, prompt, paper trace and history.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	g.renderHUD(dst)

	if g.engine == nil {
		return
	}
	if dst.Width() < minWidth || dst.Height() < minHeight {
		g.renderOverlay(dst, "Window too small", fmt.Sprintf("Need %dx%d", minWidth, minHeight))
		return
	}

	table := g.engine.Table()
	traceX := boardX + len(table)*columnWidth + 2

	g.renderColumns(dst, table)
	if g.showTrace {
		g.renderTrace(dst, traceX)
	}
	g.renderPrompt(dst)
	if g.showHistory {
		g.renderHistory(dst)
	}
	g.renderHelp(dst)

	switch {
	case g.roundOver:
		g.renderOverlay(dst, "Round complete!", fmt.Sprintf("Score: %d  Press R to play again", g.score))
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

func (g *Game) renderHUD(dst *core.Screen) {
	progress := fmt.Sprintf("Problem %d", g.problemNum)
	if g.mode == ModeRound && g.cfg.Round.Problems > 0 {
		progress = fmt.Sprintf("Problem %d/%d", g.problemNum, g.cfg.Round.Problems)
	}
	hud := fmt.Sprintf(" %s | %s | Score: %d | Mistakes: %d | %s",
		g.Title(), progress, g.score, g.mistakes, g.category)
	dst.DrawText(0, hudY, hud)
	dst.DrawHLine(0, hudY+1, dst.Width(), '─')
}

func (g *Game) blockRune() rune {
	r, _ := utf8.DecodeRuneInString(g.cfg.Display.BlockRune)
	if r == utf8.RuneError {
		return '■'
	}
	return r
}

// renderColumns draws one column per place, highest place on the left.
// Each column stacks the first number's blocks beside the second's.
func (g *Game) renderColumns(dst *core.Screen, table carryover.PlaceTable) {
	live := g.engine.Live()
	step, active := g.engine.CurrentStep()
	cursor := g.engine.Cursor()
	block := g.blockRune()

	for _, place := range table {
		x0 := boardX + (len(table)-1-place.Index)*columnWidth

		headerColor := core.ColorHint
		switch {
		case active && place.Index == step.PlaceIndex:
			headerColor = core.ColorCarry
		case place.Index < cursor:
			headerColor = core.ColorGood
		}
		value := strconv.Itoa(place.Value)
		dst.DrawTextColor(x0+(columnWidth-len(value))/2, headerY, value, headerColor)

		d1 := carryover.Digit(live.Num1, place.Index)
		d2 := carryover.Digit(live.Num2, place.Index)
		bottom := blocksTop + blocksRows - 1
		for k := range d1 {
			dst.SetColor(x0+2, bottom-k, block, core.ColorFirst)
		}
		for k := range d2 {
			dst.SetColor(x0+5, bottom-k, block, core.ColorSecond)
		}

		dst.DrawTextColor(x0+2, digitsY, strconv.Itoa(d1), core.ColorFirst)
		dst.DrawTextColor(x0+5, digitsY, strconv.Itoa(d2), core.ColorSecond)

		if active && place.Index == step.PlaceIndex {
			dst.DrawTextColor(x0+2, markerY, "^^^^", core.ColorCarry)
			if step.Interaction == carryover.Regroup {
				arrow := '→'
				if step.Target == carryover.OperandNum1 {
					arrow = '←'
				}
				dst.SetColor(x0+3, digitsY, arrow, core.ColorCarry)
				dst.SetColor(x0+4, digitsY, arrow, core.ColorCarry)
			}
		}
	}
}

// renderTrace draws the column addition revealed so far plus a legend.
func (g *Game) renderTrace(dst *core.Screen, x int) {
	dst.DrawTextColor(x, headerY, "On paper", core.ColorHint)
	if g.sync == nil {
		return
	}

	colors := []core.Color{core.ColorCarry, core.ColorFirst, core.ColorSecond, core.ColorHint, core.ColorGood}
	for i, line := range g.sync.Lines() {
		dst.DrawTextColor(x, blocksTop+i, line, colors[i%len(colors)])
	}

	block := string(g.blockRune())
	dst.DrawTextColor(x, blocksTop+6, block+" first number", core.ColorFirst)
	dst.DrawTextColor(x, blocksTop+7, block+" second number", core.ColorSecond)

	if cur, ok := g.sync.Current(); ok {
		dst.DrawTextColor(x, digitsY, truncate(cur.Operation(), dst.Width()-x-1), core.ColorHint)
	}
}

func (g *Game) renderPrompt(dst *core.Screen) {
	width := dst.Width() - 2
	if step, ok := g.engine.CurrentStep(); ok && !g.problemDone {
		lines := strings.Split(ansi.Wordwrap(carryover.Prompt(step), width, ""), "\n")
		for i := 0; i < len(lines) && i < 2; i++ {
			dst.DrawText(1, promptY+i, lines[i])
		}
	}
	if g.status != "" {
		dst.DrawTextColor(1, statusY, truncate(g.status, width), g.statusColor)
	}
}

// renderHistory lists explanations of completed steps, newest last.
func (g *Game) renderHistory(dst *core.Screen) {
	history := g.engine.History()
	rows := dst.Height() - 1 - historyY
	if rows <= 0 || len(history) == 0 {
		return
	}
	if len(history) > rows {
		history = history[len(history)-rows:]
	}
	for i, rec := range history {
		dst.DrawTextColor(1, historyY+i, truncate(carryover.Explain(rec), dst.Width()-2), core.ColorHint)
	}
}

func (g *Game) renderHelp(dst *core.Screen) {
	help := "0-9 type sum  space move block  enter next  t paper  h history  p pause  esc menu"
	dst.DrawTextColor(1, dst.Height()-1, truncate(help, dst.Width()-2), core.ColorGray)
}

// renderOverlay draws a centered two-line message box.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	boxW := max(utf8.RuneCountInString(line1), utf8.RuneCountInString(line2)) + 4
	boxH := 5
	box := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box)
	dst.DrawTextCentered(box.Y+1, line1)
	dst.DrawTextCentered(box.Y+3, line2)
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
