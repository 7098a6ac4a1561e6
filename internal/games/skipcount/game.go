// Package skipcount is a grid chase where the runner collects the next
// multiple of a skip value while avoiding nearby decoy numbers.
package skipcount

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mathblocks/internal/config"
	"github.com/vovakirdan/mathblocks/internal/core"
	"github.com/vovakirdan/mathblocks/internal/logging"
	"github.com/vovakirdan/mathblocks/internal/metrics"
	"github.com/vovakirdan/mathblocks/internal/registry"
)

// Direction is the runner's heading.
type Direction int

const (
	DirRight Direction = iota
	DirDown
	DirLeft
	DirUp
)

var dirDelta = map[Direction]core.Point{
	DirRight: {X: 1},
	DirDown:  {Y: 1},
	DirLeft:  {X: -1},
	DirUp:    {Y: -1},
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// Mode is the game mode.
type Mode string

const (
	ModeCampaign Mode = "campaign"
	ModeEndless  Mode = "endless"
)

// Game IDs.
const (
	IDCampaign = "skipcount"
	IDEndless  = "skipcount_endless"
)

// levelClearTicks is how long the level-cleared banner stays up.
const levelClearTicks = 90

// maxDecoyOffset bounds decoy values to current+skip+1 .. current+skip+4.
const maxDecoyOffset = 4

// Options customise a game before Reset.
type Options struct {
	ConfigPath string
	Preset     config.DifficultyPreset
	StartLevel int // 1-based; 0 starts at the first skip value
}

// Token is a number on the board.
type Token struct {
	Pos     core.Point
	Value   int
	Correct bool
}

// Width returns how many cells the token's digits occupy.
func (t Token) Width() int {
	return len(strconv.Itoa(t.Value))
}

// covers reports whether p lies on the token's digits.
func (t Token) covers(p core.Point) bool {
	return p.Y == t.Pos.Y && p.X >= t.Pos.X && p.X < t.Pos.X+t.Width()
}

// Game implements registry.Game for skip counting.
type Game struct {
	mode   Mode
	opts   Options
	cfg    config.SkipCountConfig
	diff   *config.DifficultyManager
	rng    *rand.Rand
	logger *log.Logger

	tick       uint64
	score      int
	levelIndex int
	captured   int // correct captures in this level
	wrongHits  int
	current    int // last correct value; the next target is current+skip

	moveEveryTicks int
	moveTicker     int

	runner    core.Point
	direction Direction
	nextDir   Direction
	tokens    []Token
	board     core.Rect

	hudHeight  int
	mapOffsetX int
	mapOffsetY int
	screenW    int
	screenH    int

	gameOver     bool
	levelCleared bool
	won          bool
	paused       bool
	tooSmall     bool
	clearTicks   int
	flash        string
	flashColor   core.Color
}

func init() {
	registry.Register(IDCampaign, func() registry.Game {
		return New()
	})
	registry.Register(IDEndless, func() registry.Game {
		return NewEndless()
	})
}

// New creates a campaign game: one level per configured skip value.
func New() *Game {
	return &Game{mode: ModeCampaign, logger: logging.Discard()}
}

// NewEndless creates a game that cycles skip values and keeps speeding up.
func NewEndless() *Game {
	return &Game{mode: ModeEndless, logger: logging.Discard()}
}

// Configure sets options applied on the next Reset.
func (g *Game) Configure(opts Options) {
	g.opts = opts
}

// SetLogger implements registry.LoggerAware.
func (g *Game) SetLogger(logger *log.Logger) {
	g.logger = logger
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return IDEndless
	}
	return IDCampaign
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "Skip Counting (Endless)"
	}
	return "Skip Counting"
}

// Reset loads configuration and starts the first level.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	scfg, err := config.LoadSkipCount(g.opts.ConfigPath)
	if err != nil {
		g.logger.Warn("using default skip-count config", "err", err)
		scfg = config.DefaultSkipCountConfig()
	}
	if g.opts.Preset != "" {
		config.ApplySkipCountPreset(&scfg, g.opts.Preset)
	}
	if len(scfg.Play.SkipValues) == 0 {
		scfg.Play.SkipValues = config.DefaultSkipCountConfig().Play.SkipValues
	}
	g.cfg = scfg
	g.diff = config.NewDifficultyManager(scfg.Difficulty)

	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.tick = 0
	g.score = 0
	g.wrongHits = 0
	g.gameOver = false
	g.won = false
	g.paused = false
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.hudHeight = 2

	g.levelIndex = 0
	if g.mode == ModeCampaign && g.opts.StartLevel > 0 && g.opts.StartLevel <= g.LevelCount() {
		g.levelIndex = g.opts.StartLevel - 1
	}

	metrics.GamesStarted.WithLabelValues(g.ID()).Inc()
	g.loadLevel()
}

// LevelCount returns the number of campaign levels.
func (g *Game) LevelCount() int {
	return len(g.cfg.Play.SkipValues)
}

// Skip returns the skip value of the current level.
func (g *Game) Skip() int {
	values := g.cfg.Play.SkipValues
	return values[g.levelIndex%len(values)]
}

// Target returns the value the runner must collect next.
func (g *Game) Target() int {
	return g.current + g.Skip()
}

func (g *Game) loadLevel() {
	g.captured = 0
	g.current = 0
	g.levelCleared = false
	g.clearTicks = 0
	g.moveTicker = 0
	g.updateSpeed()

	w, h := g.cfg.Board.Width, g.cfg.Board.Height
	g.board = core.NewRect(0, 0, w, h)
	if !g.layout() {
		return
	}

	g.runner = core.Point{X: w / 4, Y: h / 2}
	g.direction = DirRight
	g.nextDir = DirRight
	g.spawnTokens()

	g.logger.Debug("level loaded", "level", g.levelIndex+1, "skip", g.Skip())
}

// layout centers the board on screen and reports whether it fits.
func (g *Game) layout() bool {
	requiredW := g.board.W + 2
	requiredH := g.board.H + 3 + g.hudHeight // frame plus the trail line
	g.tooSmall = g.screenW < requiredW || g.screenH < requiredH
	if g.tooSmall {
		return false
	}
	g.mapOffsetX = (g.screenW - requiredW) / 2
	g.mapOffsetY = g.hudHeight
	return true
}

// Resize re-centers the board for a new terminal size. A level that never
// fit is started over once it does.
func (g *Game) Resize(w, h int) {
	wasSmall := g.tooSmall
	g.screenW = w
	g.screenH = h
	if g.layout() && wasSmall {
		g.loadLevel()
	}
}

// updateSpeed recomputes the move interval from the difficulty manager.
// Endless mode also speeds up by one tick per completed cycle.
func (g *Game) updateSpeed() {
	base := g.cfg.Play.MoveEveryTicks
	if g.mode == ModeEndless {
		base -= g.levelIndex / g.LevelCount()
	}
	g.moveEveryTicks = g.diff.MoveInterval(max(1, base), g.score, int(g.tick))
}

// decoyValues returns up to n values near the target that are not multiples
// of the skip value.
func (g *Game) decoyValues(n int) []int {
	skip := g.Skip()
	var out []int
	for i := 1; i <= maxDecoyOffset && len(out) < n; i++ {
		v := g.current + skip + i
		if v%skip != 0 {
			out = append(out, v)
		}
	}
	return out
}

// spawnTokens places the target and the decoys on free cells.
func (g *Game) spawnTokens() {
	g.tokens = g.tokens[:0]
	n := g.diff.Decoys(g.cfg.Play.Decoys, g.score, int(g.tick))

	values := append([]int{g.Target()}, g.decoyValues(n)...)
	for i, v := range values {
		pos, ok := g.freeSpot(len(strconv.Itoa(v)))
		if !ok {
			g.logger.Warn("no room for token", "value", v)
			continue
		}
		g.tokens = append(g.tokens, Token{Pos: pos, Value: v, Correct: i == 0})
	}
}

// freeSpot picks a random position for a token of width w that keeps a gap
// from other tokens and is not right next to the runner.
func (g *Game) freeSpot(w int) (core.Point, bool) {
	var spots []core.Point
	for y := 0; y < g.board.H; y++ {
		for x := 0; x+w <= g.board.W; x++ {
			p := core.Point{X: x, Y: y}
			if g.spotClear(p, w) {
				spots = append(spots, p)
			}
		}
	}
	if len(spots) == 0 {
		return core.Point{}, false
	}
	return spots[g.rng.Intn(len(spots))], true
}

func (g *Game) spotClear(p core.Point, w int) bool {
	for i := range w {
		if core.Manhattan(p.Add(core.Point{X: i}), g.runner) < 3 {
			return false
		}
	}
	for _, t := range g.tokens {
		if p.Y < t.Pos.Y-1 || p.Y > t.Pos.Y+1 {
			continue
		}
		if p.X+w >= t.Pos.X && p.X <= t.Pos.X+t.Width() {
			return false
		}
	}
	return true
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if in.Has(core.ActionRestart) && (g.gameOver || g.won) {
		g.Reset(core.RuntimeConfig{
			Seed:    g.rng.Int63(),
			ScreenW: g.screenW,
			ScreenH: g.screenH,
		})
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}

	if g.gameOver || g.won || g.paused || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if g.levelCleared {
		g.clearTicks++
		if g.clearTicks >= levelClearTicks {
			g.advanceLevel()
		}
		return core.StepResult{State: g.State()}
	}

	g.processInput(in)

	g.moveTicker++
	if g.moveTicker >= g.moveEveryTicks {
		g.moveTicker = 0
		g.moveRunner()
	}

	return core.StepResult{State: g.State()}
}

func (g *Game) processInput(in core.InputFrame) {
	switch {
	case in.Has(core.ActionUp):
		g.nextDir = DirUp
	case in.Has(core.ActionDown):
		g.nextDir = DirDown
	case in.Has(core.ActionLeft):
		g.nextDir = DirLeft
	case in.Has(core.ActionRight):
		g.nextDir = DirRight
	}
}

// moveRunner advances one cell, wrapping at the board edges.
func (g *Game) moveRunner() {
	g.direction = g.nextDir
	next := g.runner.Add(dirDelta[g.direction])
	next.X = (next.X + g.board.W) % g.board.W
	next.Y = (next.Y + g.board.H) % g.board.H
	g.runner = next

	for i, t := range g.tokens {
		if t.covers(next) {
			g.capture(i)
			return
		}
	}
}

func (g *Game) capture(i int) {
	t := g.tokens[i]
	if t.Correct {
		metrics.CapturesTotal.WithLabelValues("correct").Inc()
		g.score += g.cfg.Play.PointsPerCapture
		g.captured++
		g.current = t.Value
		g.flash = fmt.Sprintf("%d!", t.Value)
		g.flashColor = core.ColorGood
		g.logger.Debug("captured", "value", t.Value, "score", g.score)
		g.updateSpeed()
		g.checkLevelCompletion()
		if !g.levelCleared {
			g.spawnTokens()
		}
		return
	}

	metrics.CapturesTotal.WithLabelValues("wrong").Inc()
	g.wrongHits++
	g.flash = fmt.Sprintf("%d is not next, count by %ds", t.Value, g.Skip())
	g.flashColor = core.ColorBad
	g.logger.Debug("wrong capture", "value", t.Value, "target", g.Target(), "wrong", g.wrongHits)

	if g.wrongHits >= g.cfg.Play.MaxWrongHits {
		g.gameOver = true
		g.logger.Info("skip-count game over", "score", g.score, "level", g.levelIndex+1)
		return
	}

	// Move the decoy elsewhere so the runner is not stuck on it.
	g.tokens = append(g.tokens[:i], g.tokens[i+1:]...)
	if pos, ok := g.freeSpot(t.Width()); ok {
		t.Pos = pos
		g.tokens = append(g.tokens, t)
	}
}

func (g *Game) checkLevelCompletion() {
	if g.captured < g.cfg.Play.TargetsPerLevel {
		return
	}
	if g.mode == ModeEndless {
		g.levelIndex++
		g.loadLevel()
		return
	}
	g.levelCleared = true
	g.clearTicks = 0
	g.tokens = g.tokens[:0]
}

func (g *Game) advanceLevel() {
	g.levelIndex++
	if g.mode == ModeCampaign && g.levelIndex >= g.LevelCount() {
		g.won = true
		g.logger.Info("skip-count campaign won", "score", g.score)
		return
	}
	g.loadLevel()
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.gameOver || g.won,
		Paused:   g.paused,
	}
}
