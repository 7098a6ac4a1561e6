package skipcount

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/vovakirdan/mathblocks/internal/core"
)

// Render draws the board, runner and tokens.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	g.renderHUD(dst)

	if g.tooSmall {
		g.renderOverlay(dst, "Window too small", "Resize to continue")
		return
	}

	frame := core.NewRect(g.mapOffsetX, g.mapOffsetY, g.board.W+2, g.board.H+2)
	dst.DrawBoxColor(frame, core.ColorGray)

	ox, oy := g.mapOffsetX+1, g.mapOffsetY+1
	for _, t := range g.tokens {
		dst.DrawTextColor(ox+t.Pos.X, oy+t.Pos.Y, strconv.Itoa(t.Value), core.ColorBrightWhite)
	}
	dst.SetColor(ox+g.runner.X, oy+g.runner.Y, '@', core.ColorCarry)

	trail := g.trail()
	if g.flash != "" {
		trail += "   " + g.flash
	}
	dst.DrawTextColor(1, frame.Bottom(), trail, g.flashColor)

	switch {
	case g.levelCleared:
		g.renderOverlay(dst, fmt.Sprintf("Level %d cleared!", g.levelIndex+1), fmt.Sprintf("You counted by %ds", g.Skip()))
	case g.won:
		g.renderOverlay(dst, "You Win!", fmt.Sprintf("Final Score: %d", g.score))
	case g.gameOver:
		g.renderOverlay(dst, "Game Over", "Press R to restart")
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

// trail lists the multiples collected so far in this level.
func (g *Game) trail() string {
	skip := g.Skip()
	parts := make([]string, 0, g.captured)
	for v := skip; v <= g.current; v += skip {
		parts = append(parts, strconv.Itoa(v))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("Count by %ds: start at %d", skip, skip)
	}
	return "Counted: " + strings.Join(parts, ", ")
}

func (g *Game) renderHUD(dst *core.Screen) {
	var hud string
	if g.mode == ModeEndless {
		hud = fmt.Sprintf(" %s | Score: %d | By %ds | Next: %d | Misses: %d/%d",
			g.Title(), g.score, g.Skip(), g.Target(), g.wrongHits, g.cfg.Play.MaxWrongHits)
	} else {
		hud = fmt.Sprintf(" %s | Score: %d | Level %d/%d: by %ds | Next: %d | Misses: %d/%d",
			g.Title(), g.score, g.levelIndex+1, g.LevelCount(), g.Skip(), g.Target(), g.wrongHits, g.cfg.Play.MaxWrongHits)
	}
	dst.DrawText(0, 0, hud)
	dst.DrawHLine(0, 1, dst.Width(), '─')
}

func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	boxW := max(utf8.RuneCountInString(line1), utf8.RuneCountInString(line2)) + 4
	boxH := 5
	box := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box)
	dst.DrawTextCentered(box.Y+1, line1)
	dst.DrawTextCentered(box.Y+3, line2)
}
