package tutor

import "github.com/vovakirdan/mathblocks/internal/carryover"

// Phase is the coarse state of the game.
type Phase string

const (
	PhaseSolving   Phase = "solving"
	PhaseSolved    Phase = "solved"
	PhaseAborted   Phase = "aborted"
	PhaseRoundOver Phase = "round_over"
	PhasePaused    Phase = "paused"
)

// Snapshot captures the game state for tests and debugging.
type Snapshot struct {
	Tick        uint64
	Mode        string
	Category    string
	Problem     carryover.Problem
	ProblemNum  int
	Solved      int
	Score       int
	Mistakes    int
	Live        carryover.Numbers
	Cursor      int
	Steps       int
	Interaction carryover.Interaction // empty once solved
	Place       string
	Revealed    int
	ShowTrace   bool
	ShowHistory bool
	Status      string
	Phase       Phase
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	phase := PhaseSolving
	switch {
	case g.roundOver:
		phase = PhaseRoundOver
	case g.paused:
		phase = PhasePaused
	case g.problemError != nil:
		phase = PhaseAborted
	case g.problemDone:
		phase = PhaseSolved
	}

	snap := Snapshot{
		Tick:        g.tick,
		Mode:        string(g.mode),
		Category:    g.category,
		ProblemNum:  g.problemNum,
		Solved:      g.solved,
		Score:       g.score,
		Mistakes:    g.mistakes,
		ShowTrace:   g.showTrace,
		ShowHistory: g.showHistory,
		Status:      g.status,
		Phase:       phase,
	}
	if g.engine == nil {
		return snap
	}

	snap.Problem = g.engine.Problem()
	snap.Live = g.engine.Live()
	snap.Cursor = g.engine.Cursor()
	snap.Steps = len(g.engine.Table())
	if step, ok := g.engine.CurrentStep(); ok {
		snap.Interaction = step.Interaction
		snap.Place = step.PlaceLabel
	}
	if g.sync != nil {
		snap.Revealed = len(g.sync.Revealed())
	}
	return snap
}
