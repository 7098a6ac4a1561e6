// Package tutor is the carry-over blocks game: the learner adds two numbers
// place by place, typing digit sums and moving blocks to make ten while a
// paper-style column addition fills in beside the board.
package tutor

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mathblocks/internal/carryover"
	"github.com/vovakirdan/mathblocks/internal/config"
	"github.com/vovakirdan/mathblocks/internal/core"
	"github.com/vovakirdan/mathblocks/internal/logging"
	"github.com/vovakirdan/mathblocks/internal/metrics"
	"github.com/vovakirdan/mathblocks/internal/papertrace"
	"github.com/vovakirdan/mathblocks/internal/problems"
	"github.com/vovakirdan/mathblocks/internal/registry"
)

// Mode selects between a scored round and endless practice.
type Mode string

const (
	ModeRound    Mode = "round"
	ModePractice Mode = "practice"
)

// Game IDs.
const (
	IDRound    = "carryover"
	IDPractice = "carryover_practice"
)

// Options customise a game before Reset.
type Options struct {
	Category     string             // problem category; empty uses the config default
	Custom       *carryover.Problem // played first when set
	ConfigPath   string             // custom tutor.yaml
	ProblemsPath string             // custom problems.yaml
}

// Game implements registry.Game for the carry-over tutor.
type Game struct {
	mode   Mode
	opts   Options
	cfg    config.TutorConfig
	gen    *problems.Generator
	engine *carryover.Engine
	sync   *papertrace.Synchronizer

	logger    *log.Logger
	sink      core.ResultSink
	sessionID string
	now       func() time.Time

	tick     uint64
	score    int
	solved   int
	category string

	// Current problem.
	problemNum   int // 1-based
	mistakes     int
	startedAt    time.Time
	problemDone  bool
	problemError error

	roundOver   bool
	paused      bool
	showTrace   bool
	showHistory bool

	status      string
	statusColor core.Color

	screenW int
	screenH int
}

func init() {
	registry.Register(IDRound, func() registry.Game {
		return New()
	})
	registry.Register(IDPractice, func() registry.Game {
		return NewPractice()
	})
}

// New creates a scored round game.
func New() *Game {
	return newGame(ModeRound)
}

// NewPractice creates an endless practice game.
func NewPractice() *Game {
	return newGame(ModePractice)
}

func newGame(mode Mode) *Game {
	return &Game{
		mode:   mode,
		cfg:    config.DefaultTutorConfig(),
		logger: logging.Discard(),
		now:    time.Now,
	}
}

// Configure sets options applied on the next Reset.
func (g *Game) Configure(opts Options) {
	g.opts = opts
}

// SetLogger implements registry.LoggerAware.
func (g *Game) SetLogger(logger *log.Logger) {
	g.logger = logger
}

// SetResultSink implements registry.Recordable.
func (g *Game) SetResultSink(sink core.ResultSink) {
	g.sink = sink
}

// SetSessionID implements registry.SessionAware.
func (g *Game) SetSessionID(id string) {
	g.sessionID = id
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModePractice {
		return IDPractice
	}
	return IDRound
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModePractice {
		return "Carry-Over Blocks (Practice)"
	}
	return "Carry-Over Blocks"
}

// Reset loads configuration and starts the first problem.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.tick = 0
	g.score = 0
	g.solved = 0
	g.problemNum = 0
	g.roundOver = false
	g.paused = false

	tcfg, err := config.LoadTutor(g.opts.ConfigPath)
	if err != nil {
		g.logger.Warn("using default tutor config", "err", err)
		tcfg = config.DefaultTutorConfig()
	}
	g.cfg = tcfg
	g.showTrace = tcfg.Display.ShowTrace
	g.showHistory = tcfg.Display.ShowHistory

	set, err := problems.Load(g.opts.ProblemsPath)
	if err != nil {
		g.logger.Warn("using default problem set", "err", err)
		set, err = problems.Default()
		if err != nil {
			g.logger.Error("embedded problem set is invalid", "err", err)
		}
	}
	g.gen = problems.NewGenerator(set, cfg.Seed)

	g.category = g.opts.Category
	if g.category == "" {
		g.category = tcfg.Round.Category
	}
	if _, err := g.gen.Category(g.category); err != nil {
		g.logger.Warn("unknown category, using random", "category", g.category)
		g.category = problems.CategoryRandom
	}

	if g.engine == nil {
		g.engine = &carryover.Engine{}
		g.engine.Subscribe(g.onAdvance)
	}

	metrics.GamesStarted.WithLabelValues(g.ID()).Inc()

	first := g.opts.Custom
	g.nextProblem(first)
}

// nextProblem starts p, or the generator's next pick when p is nil.
func (g *Game) nextProblem(p *carryover.Problem) {
	var prob carryover.Problem
	if p != nil {
		prob = *p
	} else {
		next, err := g.gen.Next(g.category)
		if err != nil {
			g.logger.Error("cannot pick problem", "category", g.category, "err", err)
			next = carryover.Problem{Num1: 47, Num2: 18}
		}
		prob = next
	}

	if err := g.start(prob); err != nil {
		g.logger.Error("cannot start problem", "problem", prob, "err", err)
		g.problemError = err
		g.setStatus(fmt.Sprintf("Cannot start %d + %d: %v", prob.Num1, prob.Num2, err), core.ColorBad)
		g.problemDone = true
	}
}

func (g *Game) start(p carryover.Problem) error {
	if err := g.engine.Reset(p.Num1, p.Num2); err != nil {
		return err
	}
	syncer, err := papertrace.NewSynchronizer(p, g.engine.Table())
	if err != nil {
		return err
	}

	g.sync = syncer
	g.problemNum++
	g.mistakes = 0
	g.problemDone = false
	g.problemError = nil
	g.startedAt = g.now()
	g.setStatus("", core.ColorDefault)

	g.logger.Info("problem started", "num1", p.Num1, "num2", p.Num2, "category", g.category, "session", g.sessionID)
	return nil
}

// onAdvance is subscribed to the engine and runs after each completed step.
func (g *Game) onAdvance(adv carryover.Advance) {
	rec := adv.Completed
	metrics.StepsTotal.WithLabelValues(string(rec.Interaction)).Inc()

	if err := g.sync.Observe(adv); err != nil {
		g.logger.Error("paper trace disagrees with step", "place", rec.PlaceLabel, "err", err)
	}

	g.logger.Debug("step completed",
		"place", rec.PlaceLabel,
		"interaction", rec.Interaction,
		"digit", rec.ResultDigit,
		"moves", rec.Moves,
		"attempts", rec.Attempts,
	)

	if adv.Complete {
		g.finishProblem(adv.Answer)
	}
}

func (g *Game) finishProblem(answer int) {
	p := g.engine.Problem()
	points := max(g.cfg.Scoring.MinPerProblem, g.cfg.Scoring.PerProblem-g.mistakes*g.cfg.Scoring.MistakePenalty)
	g.score += points
	g.solved++
	g.problemDone = true

	metrics.ProblemsTotal.WithLabelValues(g.category).Inc()
	g.logger.Info("problem solved", "num1", p.Num1, "num2", p.Num2, "answer", answer, "mistakes", g.mistakes, "points", points)

	g.report(answer, points, false)

	if g.mode == ModeRound && g.cfg.Round.Problems > 0 && g.solved >= g.cfg.Round.Problems {
		g.roundOver = true
		g.setStatus(fmt.Sprintf("%d + %d = %d! Round complete.", p.Num1, p.Num2, answer), core.ColorGood)
		return
	}
	g.setStatus(fmt.Sprintf("%d + %d = %d! +%d points. Press Enter for the next problem.", p.Num1, p.Num2, answer, points), core.ColorGood)
}

func (g *Game) abortProblem(err error) {
	p := g.engine.Problem()
	g.problemDone = true
	g.problemError = err
	metrics.AbortsTotal.Inc()
	g.logger.Error("problem aborted", "num1", p.Num1, "num2", p.Num2, "err", err)
	g.report(0, 0, true)
	g.setStatus("This problem cannot be finished. Press Enter for another.", core.ColorBad)
}

// report sends the current problem to the result sink.
func (g *Game) report(answer, points int, aborted bool) {
	if g.sink == nil {
		return
	}
	p := g.engine.Problem()
	history := g.engine.History()

	steps := make([]core.ProblemStep, 0, len(history))
	for _, rec := range history {
		steps = append(steps, core.ProblemStep{
			PlaceIndex:  rec.PlaceIndex,
			PlaceLabel:  rec.PlaceLabel,
			Interaction: string(rec.Interaction),
			Digit1:      carryover.Digit(rec.Before.Num1, rec.PlaceIndex),
			Digit2:      carryover.Digit(rec.Before.Num2, rec.PlaceIndex),
			ResultDigit: rec.ResultDigit,
			Carried:     rec.CarriedAmount,
			Moves:       rec.Moves,
			Attempts:    rec.Attempts,
			Explanation: carryover.Explain(rec),
		})
	}

	g.sink.RecordProblem(core.ProblemResult{
		SessionID: g.sessionID,
		GameID:    g.ID(),
		Category:  g.category,
		Num1:      p.Num1,
		Num2:      p.Num2,
		Answer:    answer,
		Mistakes:  g.mistakes,
		Score:     points,
		Aborted:   aborted,
		StartedAt: g.startedAt,
		EndedAt:   g.now(),
		Steps:     steps,
	})
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if in.Has(core.ActionRestart) && g.roundOver {
		g.Reset(core.RuntimeConfig{ScreenW: g.screenW, ScreenH: g.screenH, Seed: int64(g.tick)})
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if in.Has(core.ActionToggleTrace) {
		g.showTrace = !g.showTrace
	}
	if in.Has(core.ActionToggleHistory) {
		g.showHistory = !g.showHistory
	}

	if g.paused || g.roundOver {
		return core.StepResult{State: g.State()}
	}

	if g.problemDone {
		if in.Has(core.ActionConfirm) {
			g.nextProblem(nil)
		}
		return core.StepResult{State: g.State()}
	}

	if d, ok := in.Digit(); ok {
		g.submitDigit(d)
	} else if in.Has(core.ActionMove) {
		g.submitMove()
	}

	return core.StepResult{State: g.State()}
}

func (g *Game) submitDigit(d int) {
	step, ok := g.engine.CurrentStep()
	if !ok {
		return
	}
	err := g.engine.SubmitDigitEntry(d)
	if err == nil {
		if !g.problemDone {
			g.setStatus(fmt.Sprintf("Yes! %d + %d = %d.", step.Digit1, step.Digit2, step.Sum), core.ColorGood)
		}
		return
	}
	g.handleError(step, err)
}

func (g *Game) submitMove() {
	step, ok := g.engine.CurrentStep()
	if !ok {
		return
	}
	// The board shows the live state, so the learner sees the target count.
	out, err := g.engine.SubmitRegroupAction(step.TargetCount())
	if err == nil {
		if !g.problemDone {
			g.setStatus(fmt.Sprintf("Ten %ss make 1 %s! It moved to the %s place.",
				carryover.UnitFor(step.PlaceIndex), carryover.UnitFor(step.PlaceIndex+1), out.NewCarryPlaceLabel), core.ColorGood)
		}
		return
	}
	g.handleError(step, err)
}

func (g *Game) handleError(step carryover.Step, err error) {
	var invalid *carryover.InvalidEntryError
	var incomplete *carryover.IncompleteRegroupError
	var mismatch *carryover.CountMismatchError

	switch {
	case errors.As(err, &incomplete):
		noun := "blocks"
		if incomplete.Remaining() == 1 {
			noun = "block"
		}
		g.setStatus(fmt.Sprintf("%d in the %s column. %d more %s to make ten.",
			incomplete.CurrentCount, step.PlaceLabel, incomplete.Remaining(), noun), core.ColorHint)
	case errors.As(err, &invalid):
		g.mistake("invalid_entry")
		g.setStatus(fmt.Sprintf("Not quite: %d + %d is not %d. Try again.", step.Digit1, step.Digit2, invalid.Actual), core.ColorBad)
	case errors.As(err, &mismatch):
		g.mistake("count_mismatch")
		g.setStatus(fmt.Sprintf("Count again: there are %d blocks, not %d.", mismatch.Expected, mismatch.Observed), core.ColorBad)
	case errors.Is(err, carryover.ErrWrongInteraction):
		g.mistake("wrong_interaction")
		if step.Interaction == carryover.Regroup {
			g.setStatus("That makes 10 or more. Press Space to move blocks.", core.ColorBad)
		} else {
			g.setStatus("No regrouping needed here. Type the sum.", core.ColorBad)
		}
	case errors.Is(err, carryover.ErrPlaceLabelOverflow), errors.Is(err, carryover.ErrAborted):
		g.abortProblem(err)
	default:
		g.logger.Warn("unexpected engine error", "place", step.PlaceLabel, "err", err)
	}
}

func (g *Game) mistake(kind string) {
	g.mistakes++
	metrics.MistakesTotal.WithLabelValues(kind).Inc()
}

func (g *Game) setStatus(msg string, c core.Color) {
	g.status = msg
	g.statusColor = c
}

// Resize records the terminal size; the board is laid out on every Render.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.roundOver,
		Paused:   g.paused,
	}
}
