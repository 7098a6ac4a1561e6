package config

// DifficultyManager scales the skip-counting runner's pace and the number of
// decoys as the player scores.
type DifficultyManager struct {
	cfg DifficultyConfig
}

// NewDifficultyManager creates a manager; InitialLevel is clamped to [0, 1].
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	cfg.InitialLevel = min(max(cfg.InitialLevel, 0), 1)
	return &DifficultyManager{cfg: cfg}
}

// SetEnabled turns progression on or off. Disabled managers stay at the
// initial level.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// Level returns the difficulty in [0, 1]. It rises from the initial level to 1
// as the score ("score" progression) or tick count ("time") reaches MaxAt.
func (d *DifficultyManager) Level(score, ticks int) float64 {
	start := d.cfg.InitialLevel
	if !d.cfg.Enabled {
		return start
	}

	var reached int
	switch d.cfg.Progression.Type {
	case "score":
		reached = score
	case "time":
		reached = ticks
	default:
		return start
	}

	progress := float64(reached) / float64(max(d.cfg.Progression.MaxAt, 1))
	progress = min(max(progress, 0), 1)
	return start + progress*(1-start)
}

// MoveInterval returns the ticks between runner moves: baseTicks at level 0,
// shrinking to baseTicks/(1+SpeedMultiplier) at level 1, and never below 1.
func (d *DifficultyManager) MoveInterval(baseTicks, score, ticks int) int {
	speed := 1 + d.Level(score, ticks)*d.cfg.Scaling.SpeedMultiplier
	if speed <= 0 {
		return max(baseTicks, 1)
	}
	return max(int(float64(baseTicks)/speed), 1)
}

// Decoys returns how many wrong numbers share the board at the current level.
func (d *DifficultyManager) Decoys(base, score, ticks int) int {
	return base + int(d.Level(score, ticks)*float64(d.cfg.Scaling.DecoyBonus))
}
