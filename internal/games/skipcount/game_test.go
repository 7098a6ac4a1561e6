package skipcount

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/mathblocks/internal/config"
	"github.com/vovakirdan/mathblocks/internal/core"
	"github.com/vovakirdan/mathblocks/internal/registry"
)

func newTestGame(t *testing.T, mode Mode, yaml string) *Game {
	t.Helper()
	t.Setenv("MATHBLOCKS_HOME", t.TempDir())

	g := New()
	if mode == ModeEndless {
		g = NewEndless()
	}
	if yaml != "" {
		path := filepath.Join(t.TempDir(), "skipcount.yaml")
		if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
			t.Fatal(err)
		}
		g.Configure(Options{ConfigPath: path})
	}
	g.Reset(core.RuntimeConfig{Seed: 12345, ScreenW: 80, ScreenH: 24})
	return g
}

// stepOnto places the runner left of token i and advances one move.
func stepOnto(g *Game, i int) {
	tok := g.tokens[i]
	g.runner = core.Point{X: (tok.Pos.X - 1 + g.board.W) % g.board.W, Y: tok.Pos.Y}
	g.direction = DirRight
	g.nextDir = DirRight
	g.moveTicker = g.moveEveryTicks - 1
	g.Step(core.NewInputFrame())
}

func findToken(g *Game, correct bool) int {
	for i, tok := range g.tokens {
		if tok.Correct == correct {
			return i
		}
	}
	return -1
}

func TestDeterminism(t *testing.T) {
	g1 := newTestGame(t, ModeCampaign, "")
	g2 := newTestGame(t, ModeCampaign, "")

	input := core.NewInputFrame()
	for i := range 300 {
		input.Clear()
		switch i {
		case 20:
			input.Set(core.ActionDown)
		case 90:
			input.Set(core.ActionLeft)
		case 200:
			input.Set(core.ActionUp)
		}
		g1.Step(input)
		g2.Step(input)
	}

	s1, s2 := g1.Snapshot(), g2.Snapshot()
	if s1.Tick != s2.Tick || s1.Score != s2.Score || s1.RunnerX != s2.RunnerX || s1.RunnerY != s2.RunnerY {
		t.Errorf("snapshots differ: %+v vs %+v", s1, s2)
	}
	if len(s1.Tokens) != len(s2.Tokens) {
		t.Fatalf("token count differs: %d vs %d", len(s1.Tokens), len(s2.Tokens))
	}
	for i := range s1.Tokens {
		if s1.Tokens[i] != s2.Tokens[i] {
			t.Errorf("token %d differs: %+v vs %+v", i, s1.Tokens[i], s2.Tokens[i])
		}
	}
}

func TestDecoyValues(t *testing.T) {
	g := newTestGame(t, ModeCampaign, "play:\n  skip_values: [2, 5]\n")

	got := g.decoyValues(4)
	want := []int{3, 5}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("decoyValues(4) for skip 2 = %v, want %v", got, want)
	}

	g.levelIndex = 1
	g.current = 10
	got = g.decoyValues(3)
	want = []int{16, 17, 18}
	for i := range want {
		if i >= len(got) || got[i] != want[i] {
			t.Fatalf("decoyValues(3) for skip 5 = %v, want %v", got, want)
		}
	}
	for _, v := range got {
		if v%5 == 0 {
			t.Errorf("decoy %d is a multiple of 5", v)
		}
	}
}

func TestTokensPlacement(t *testing.T) {
	g := newTestGame(t, ModeCampaign, "")

	for range 50 {
		g.spawnTokens()
		if findToken(g, true) < 0 {
			t.Fatal("target token missing")
		}
		for i, a := range g.tokens {
			if a.Pos.X < 0 || a.Pos.X+a.Width() > g.board.W || a.Pos.Y < 0 || a.Pos.Y >= g.board.H {
				t.Errorf("token %+v out of bounds", a)
			}
			if core.Manhattan(a.Pos, g.runner) < 3 {
				t.Errorf("token %+v spawned next to the runner at %v", a, g.runner)
			}
			for _, b := range g.tokens[i+1:] {
				if a.Pos.Y == b.Pos.Y && a.Pos.X <= b.Pos.X+b.Width() && b.Pos.X <= a.Pos.X+a.Width() {
					t.Errorf("tokens %+v and %+v touch", a, b)
				}
			}
		}
	}
}

func TestCorrectCapture(t *testing.T) {
	g := newTestGame(t, ModeCampaign, "")

	if g.Target() != 2 {
		t.Fatalf("first target = %d, want 2", g.Target())
	}
	stepOnto(g, findToken(g, true))

	snap := g.Snapshot()
	if snap.Score != 10 || snap.Captured != 1 || snap.Target != 4 {
		t.Errorf("after capture score=%d captured=%d target=%d, want 10, 1, 4", snap.Score, snap.Captured, snap.Target)
	}
	if g.tokens[findToken(g, true)].Value != 4 {
		t.Error("new target token should show 4")
	}
}

func TestWrongCapturesEndGame(t *testing.T) {
	g := newTestGame(t, ModeCampaign, "")

	for i := 1; i <= 3; i++ {
		decoy := findToken(g, false)
		if decoy < 0 {
			t.Fatal("no decoy on board")
		}
		stepOnto(g, decoy)
		if g.wrongHits != i {
			t.Fatalf("wrongHits = %d, want %d", g.wrongHits, i)
		}
	}

	if !g.State().GameOver || g.Snapshot().State != StateGameOver {
		t.Error("game should be over after max wrong hits")
	}

	restart := core.NewInputFrame()
	restart.Set(core.ActionRestart)
	g.Step(restart)
	if g.State().GameOver || g.wrongHits != 0 {
		t.Error("restart should start a fresh game")
	}
}

func TestLevelProgression(t *testing.T) {
	g := newTestGame(t, ModeCampaign, "play:\n  skip_values: [2, 3]\n  targets_per_level: 2\n")

	stepOnto(g, findToken(g, true))
	stepOnto(g, findToken(g, true))
	if g.Snapshot().State != StateLevelCleared {
		t.Fatalf("state = %s, want level cleared", g.Snapshot().State)
	}

	for range levelClearTicks {
		g.Step(core.NewInputFrame())
	}
	snap := g.Snapshot()
	if snap.Level != 2 || snap.Skip != 3 || snap.Target != 3 || snap.Captured != 0 {
		t.Errorf("level 2 snapshot = %+v", snap)
	}

	stepOnto(g, findToken(g, true))
	stepOnto(g, findToken(g, true))
	for range levelClearTicks {
		g.Step(core.NewInputFrame())
	}
	if g.Snapshot().State != StateWin || !g.State().GameOver {
		t.Errorf("campaign should be won, state = %s", g.Snapshot().State)
	}
	if g.State().Score != 40 {
		t.Errorf("score = %d, want 40", g.State().Score)
	}
}

func TestEndlessCyclesSkipValues(t *testing.T) {
	g := newTestGame(t, ModeEndless, "play:\n  skip_values: [2, 3]\n  targets_per_level: 1\n  move_every_ticks: 8\ndifficulty:\n  enabled: false\n")

	before := g.moveEveryTicks
	for _, skip := range []int{3, 2} {
		stepOnto(g, findToken(g, true))
		if g.Skip() != skip {
			t.Fatalf("skip = %d, want %d", g.Skip(), skip)
		}
		if g.Snapshot().State != StatePlaying {
			t.Fatalf("endless should never pause for a banner")
		}
	}
	if g.moveEveryTicks != before-1 {
		t.Errorf("moveEveryTicks after a full cycle = %d, want %d", g.moveEveryTicks, before-1)
	}
}

func TestRunnerWraps(t *testing.T) {
	g := newTestGame(t, ModeCampaign, "")
	g.tokens = nil
	g.runner = core.Point{X: 0, Y: 0}
	g.nextDir = DirLeft
	g.moveTicker = g.moveEveryTicks - 1
	g.Step(core.NewInputFrame())

	if g.runner != (core.Point{X: g.board.W - 1, Y: 0}) {
		t.Errorf("runner = %v, want wrapped to right edge", g.runner)
	}

	in := core.NewInputFrame()
	in.Set(core.ActionUp)
	g.moveTicker = g.moveEveryTicks - 1
	g.Step(in)
	if g.runner.Y != g.board.H-1 || g.direction != DirUp {
		t.Errorf("runner = %v dir %v, want wrapped to bottom moving up", g.runner, g.direction)
	}
}

func TestOptions(t *testing.T) {
	t.Setenv("MATHBLOCKS_HOME", t.TempDir())

	g := New()
	g.Configure(Options{StartLevel: 3, Preset: config.DifficultyEasy})
	g.Reset(core.RuntimeConfig{Seed: 1, ScreenW: 80, ScreenH: 24})

	if g.Skip() != 4 {
		t.Errorf("start level 3 skip = %d, want 4", g.Skip())
	}
	if g.cfg.Play.MaxWrongHits != 5 {
		t.Errorf("easy preset MaxWrongHits = %d, want 5", g.cfg.Play.MaxWrongHits)
	}
}

func TestWindowTooSmall(t *testing.T) {
	t.Setenv("MATHBLOCKS_HOME", t.TempDir())
	g := New()
	g.Reset(core.RuntimeConfig{Seed: 1, ScreenW: 30, ScreenH: 10})

	if g.Snapshot().State != StatePausedSmall {
		t.Errorf("state = %s, want %s", g.Snapshot().State, StatePausedSmall)
	}
	before := g.Snapshot()
	g.Step(core.NewInputFrame())
	if g.Snapshot().RunnerX != before.RunnerX {
		t.Error("runner should not move when the window is too small")
	}

	screen := core.NewScreen(30, 10)
	g.Render(screen)
	if got := screen.String(); !strings.Contains(got, "Window too small") {
		t.Errorf("render = %q", got)
	}
}

func TestRender(t *testing.T) {
	g := newTestGame(t, ModeCampaign, "")
	stepOnto(g, findToken(g, true))

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()

	for _, want := range []string{"Skip Counting | Score: 10", "Next: 4", "Counted: 2", "2!"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}

	ox, oy := g.mapOffsetX+1, g.mapOffsetY+1
	if c := screen.GetCell(ox+g.runner.X, oy+g.runner.Y); c.Rune != '@' || c.Color != core.ColorCarry {
		t.Errorf("runner cell = %+v", c)
	}
}

func TestGameIDs(t *testing.T) {
	for id, title := range map[string]string{IDCampaign: "Skip Counting", IDEndless: "Skip Counting (Endless)"} {
		g, err := registry.Create(id)
		if err != nil {
			t.Fatalf("Create(%q) failed: %v", id, err)
		}
		if g.ID() != id || g.Title() != title {
			t.Errorf("Create(%q) = %s / %s", id, g.ID(), g.Title())
		}
	}
}

func TestResizeKeepsProgress(t *testing.T) {
	g := newTestGame(t, ModeCampaign, "")
	stepOnto(g, findToken(g, true))

	g.Resize(100, 30)
	if g.Snapshot().Score != 10 || g.Target() != 4 {
		t.Errorf("resize lost progress: %+v", g.Snapshot())
	}
	if g.mapOffsetX != (100-42)/2 {
		t.Errorf("mapOffsetX = %d, want %d", g.mapOffsetX, (100-42)/2)
	}

	g.Resize(30, 10)
	if g.Snapshot().State != StatePausedSmall {
		t.Fatalf("state = %s, want %s", g.Snapshot().State, StatePausedSmall)
	}
	g.Resize(80, 24)
	if g.Snapshot().State != StatePlaying {
		t.Errorf("state after growing = %s, want playing", g.Snapshot().State)
	}
}
