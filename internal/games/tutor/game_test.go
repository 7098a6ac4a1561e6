package tutor

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/mathblocks/internal/carryover"
	"github.com/vovakirdan/mathblocks/internal/core"
	"github.com/vovakirdan/mathblocks/internal/registry"
)

func press(g *Game, actions ...core.Action) core.StepResult {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return g.Step(in)
}

// solve answers every remaining step of the current problem correctly.
func solve(t *testing.T, g *Game) {
	t.Helper()
	for range 100 {
		step, ok := g.engine.CurrentStep()
		if !ok || g.problemDone {
			return
		}
		if step.Interaction == carryover.DigitEntry {
			press(g, core.DigitAction(step.Sum))
		} else {
			press(g, core.ActionMove)
		}
	}
	t.Fatal("problem did not finish")
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tutor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func newCustomGame(t *testing.T, mode Mode, n1, n2 int) *Game {
	t.Helper()
	t.Setenv("MATHBLOCKS_HOME", t.TempDir())

	g := newGame(mode)
	g.Configure(Options{Custom: &carryover.Problem{Num1: n1, Num2: n2}})
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 1})
	return g
}

func TestRegisteredGames(t *testing.T) {
	for id, title := range map[string]string{
		IDRound:    "Carry-Over Blocks",
		IDPractice: "Carry-Over Blocks (Practice)",
	} {
		g, err := registry.Create(id)
		require.NoError(t, err)
		assert.Equal(t, id, g.ID())
		assert.Equal(t, title, g.Title())
		assert.Implements(t, (*registry.Recordable)(nil), g)
		assert.Implements(t, (*registry.SessionAware)(nil), g)
		assert.Implements(t, (*registry.LoggerAware)(nil), g)
	}
}

func TestSolveReportsResult(t *testing.T) {
	g := newCustomGame(t, ModeRound, 47, 18)

	var results []core.ProblemResult
	g.SetResultSink(core.ResultSinkFunc(func(r core.ProblemResult) { results = append(results, r) }))
	g.SetSessionID("session-1")

	snap := g.Snapshot()
	assert.Equal(t, carryover.Problem{Num1: 47, Num2: 18}, snap.Problem)
	assert.Equal(t, carryover.Regroup, snap.Interaction)
	assert.Equal(t, "Ones", snap.Place)

	// Ones: 7 + 8 needs two moves from the first number.
	press(g, core.ActionMove)
	assert.Contains(t, g.Snapshot().Status, "1 more block")
	press(g, core.ActionMove)

	snap = g.Snapshot()
	assert.Equal(t, "Tens", snap.Place)
	assert.Equal(t, carryover.DigitEntry, snap.Interaction)
	assert.Equal(t, 1, snap.Revealed)

	press(g, core.ActionDigit6)

	snap = g.Snapshot()
	assert.Equal(t, PhaseSolved, snap.Phase)
	assert.Equal(t, 100, snap.Score)
	assert.Contains(t, snap.Status, "47 + 18 = 65")

	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, "session-1", r.SessionID)
	assert.Equal(t, IDRound, r.GameID)
	assert.Equal(t, 65, r.Answer)
	assert.Zero(t, r.Mistakes)
	assert.False(t, r.Aborted)
	require.Len(t, r.Steps, 2)
	assert.Equal(t, core.ProblemStep{
		PlaceIndex:  0,
		PlaceLabel:  "Ones",
		Interaction: "regroup",
		Digit1:      7,
		Digit2:      8,
		ResultDigit: 5,
		Carried:     1,
		Moves:       2,
		Explanation: "Ones: 7 + 8 = 15. Ten ones became 1 ten, leaving 5 in the ones place.",
	}, r.Steps[0])
	assert.Equal(t, "Tens: 4 + 2 = 6.", r.Steps[1].Explanation)
}

func TestWrongDigitIsAMistake(t *testing.T) {
	g := newCustomGame(t, ModeRound, 12, 23)

	press(g, core.ActionDigit4)
	snap := g.Snapshot()
	assert.Equal(t, 1, snap.Mistakes)
	assert.Equal(t, "Ones", snap.Place)
	assert.Contains(t, snap.Status, "is not 4")

	solve(t, g)
	assert.Equal(t, 90, g.State().Score)
}

func TestWrongInteractionIsAMistake(t *testing.T) {
	g := newCustomGame(t, ModeRound, 47, 18)

	press(g, core.ActionDigit5)
	snap := g.Snapshot()
	assert.Equal(t, 1, snap.Mistakes)
	assert.Contains(t, snap.Status, "Space")
	assert.Equal(t, carryover.Numbers{Num1: 47, Num2: 18}, snap.Live)

	press(g, core.ActionMove)
	press(g, core.ActionMove)
	press(g, core.ActionMove) // Tens wants a digit
	snap = g.Snapshot()
	assert.Equal(t, 2, snap.Mistakes)
	assert.Contains(t, snap.Status, "Type the sum")
}

func TestScoreHasAFloor(t *testing.T) {
	g := newCustomGame(t, ModeRound, 1, 2)
	for range 20 {
		press(g, core.ActionDigit9)
	}
	solve(t, g)
	assert.Equal(t, g.cfg.Scoring.MinPerProblem, g.State().Score)
}

func TestRoundEndsAfterConfiguredProblems(t *testing.T) {
	t.Setenv("MATHBLOCKS_HOME", t.TempDir())
	g := New()
	g.Configure(Options{ConfigPath: writeConfig(t, "round:\n  problems: 2\n  category: example\n")})
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 7})

	assert.Equal(t, carryover.Problem{Num1: 996, Num2: 114}, g.Snapshot().Problem)

	solve(t, g)
	assert.False(t, g.State().GameOver)

	// Enter is ignored until the problem is solved, then starts the next.
	press(g, core.ActionConfirm)
	assert.Equal(t, 2, g.Snapshot().ProblemNum)
	press(g, core.ActionConfirm)
	assert.Equal(t, 2, g.Snapshot().ProblemNum)

	solve(t, g)
	state := g.State()
	assert.True(t, state.GameOver)
	assert.Equal(t, 200, state.Score)
	assert.Equal(t, PhaseRoundOver, g.Snapshot().Phase)

	press(g, core.ActionRestart)
	assert.False(t, g.State().GameOver)
	assert.Zero(t, g.State().Score)
	assert.Equal(t, 1, g.Snapshot().ProblemNum)
}

func TestPracticeNeverEnds(t *testing.T) {
	t.Setenv("MATHBLOCKS_HOME", t.TempDir())
	g := NewPractice()
	g.Configure(Options{Category: "ones-only", ConfigPath: writeConfig(t, "round:\n  problems: 1\n")})
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 3})

	for i := range 4 {
		solve(t, g)
		assert.False(t, g.State().GameOver, "problem %d", i+1)
		press(g, core.ActionConfirm)
	}
	assert.Equal(t, 4, g.Snapshot().Solved)
	assert.Equal(t, "ones-only", g.Snapshot().Category)
}

func TestUnknownCategoryFallsBack(t *testing.T) {
	t.Setenv("MATHBLOCKS_HOME", t.TempDir())
	g := New()
	g.Configure(Options{Category: "fractions"})
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 3})

	assert.Equal(t, "random", g.Snapshot().Category)
	assert.Equal(t, PhaseSolving, g.Snapshot().Phase)
}

func TestTogglesAndPause(t *testing.T) {
	g := newCustomGame(t, ModeRound, 12, 23)
	assert.True(t, g.Snapshot().ShowTrace)
	assert.True(t, g.Snapshot().ShowHistory)

	press(g, core.ActionToggleTrace)
	press(g, core.ActionToggleHistory)
	assert.False(t, g.Snapshot().ShowTrace)
	assert.False(t, g.Snapshot().ShowHistory)

	press(g, core.ActionPause)
	press(g, core.ActionDigit5)
	snap := g.Snapshot()
	assert.Equal(t, PhasePaused, snap.Phase)
	assert.Equal(t, "Ones", snap.Place, "input is ignored while paused")

	press(g, core.ActionPause)
	press(g, core.ActionDigit5)
	assert.Equal(t, "Tens", g.Snapshot().Place)
}

func TestRenderBoard(t *testing.T) {
	g := newCustomGame(t, ModeRound, 47, 18)
	press(g, core.ActionMove)

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()

	assert.Contains(t, screen.Row(0), "Carry-Over Blocks | Problem 1/5")
	assert.Contains(t, out, "On paper")
	assert.Contains(t, out, "Ones: 6 + 9 is 10 or more.")
	assert.Contains(t, out, "+ 1 8")
	assert.Contains(t, out, "9 in the Ones column")

	// Ones is the rightmost of two columns; the second number has 9 blocks.
	onesX := boardX + columnWidth
	for k := range 9 {
		cell := screen.GetCell(onesX+5, blocksTop+blocksRows-1-k)
		assert.Equal(t, '■', cell.Rune)
		assert.Equal(t, core.ColorSecond, cell.Color)
	}
	assert.Equal(t, core.ColorCarry, screen.GetCell(onesX+3, digitsY).Color)
}

func TestRenderHistoryAndTooSmall(t *testing.T) {
	g := newCustomGame(t, ModeRound, 47, 18)
	solve(t, g)

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	assert.Contains(t, screen.Row(historyY), "Ones: 7 + 8 = 15.")
	assert.Contains(t, screen.Row(historyY+1), "Tens: 4 + 2 = 6.")
	assert.Contains(t, screen.String(), "  6 5")

	small := core.NewScreen(40, 10)
	g.Render(small)
	assert.Contains(t, small.String(), "Window too small")
}

func TestLogsProblemLifecycle(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)

	t.Setenv("MATHBLOCKS_HOME", t.TempDir())
	g := New()
	g.SetLogger(logger)
	g.Configure(Options{Custom: &carryover.Problem{Num1: 12, Num2: 23}})
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 1})
	solve(t, g)

	out := buf.String()
	for _, msg := range []string{"problem started", "step completed", "problem solved"} {
		assert.True(t, strings.Contains(out, msg), "missing %q in log", msg)
	}
}
