package skipcount

// GameStateType is the coarse state of the game.
type GameStateType string

const (
	StatePlaying      GameStateType = "playing"
	StateLevelCleared GameStateType = "level_cleared"
	StateGameOver     GameStateType = "game_over"
	StateWin          GameStateType = "win"
	StatePausedSmall  GameStateType = "paused_small_window"
)

// Snapshot captures the game state for determinism tests.
type Snapshot struct {
	Tick           uint64
	Level          int // 1-based
	Mode           string
	Skip           int
	Target         int
	Score          int
	Captured       int
	WrongHits      int
	RunnerX        int
	RunnerY        int
	Dir            Direction
	Tokens         []Token
	MoveEveryTicks int
	State          GameStateType
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.won:
		state = StateWin
	case g.gameOver:
		state = StateGameOver
	case g.levelCleared:
		state = StateLevelCleared
	}

	return Snapshot{
		Tick:           g.tick,
		Level:          g.levelIndex + 1,
		Mode:           string(g.mode),
		Skip:           g.Skip(),
		Target:         g.Target(),
		Score:          g.score,
		Captured:       g.captured,
		WrongHits:      g.wrongHits,
		RunnerX:        g.runner.X,
		RunnerY:        g.runner.Y,
		Dir:            g.direction,
		Tokens:         append([]Token(nil), g.tokens...),
		MoveEveryTicks: g.moveEveryTicks,
		State:          state,
	}
}
