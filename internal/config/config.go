// Package config provides YAML-based game configuration loading, environment
// overrides, and difficulty management for mathblocks.
package config

// TutorConfig contains all configuration for the carry-over tutor.
type TutorConfig struct {
	Round   TutorRound   `yaml:"round"`
	Scoring TutorScoring `yaml:"scoring"`
	Display TutorDisplay `yaml:"display"`
}

// TutorRound defines how problems are picked for a round.
type TutorRound struct {
	Problems int    `yaml:"problems"` // Problems per round, 0 = endless
	Category string `yaml:"category"` // Default problem category
}

// TutorScoring defines points awarded per solved problem.
type TutorScoring struct {
	PerProblem     int `yaml:"per_problem"`
	MistakePenalty int `yaml:"mistake_penalty"`
	MinPerProblem  int `yaml:"min_per_problem"`
}

// TutorDisplay defines which panels are visible at start.
type TutorDisplay struct {
	ShowTrace   bool   `yaml:"show_trace"`
	ShowHistory bool   `yaml:"show_history"`
	BlockRune   string `yaml:"block_rune"`
}

// SkipCountConfig contains all configuration for the skip-counting game.
type SkipCountConfig struct {
	Board      SkipCountBoard   `yaml:"board"`
	Play       SkipCountPlay    `yaml:"play"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// SkipCountBoard defines the arena size.
type SkipCountBoard struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// SkipCountPlay defines gameplay parameters.
type SkipCountPlay struct {
	SkipValues       []int `yaml:"skip_values"`        // One level per value
	TargetsPerLevel  int   `yaml:"targets_per_level"`  // Captures needed to clear a level
	Decoys           int   `yaml:"decoys"`             // Decoys on the board at once
	MaxWrongHits     int   `yaml:"max_wrong_hits"`     // Wrong hits before game over
	MoveEveryTicks   int   `yaml:"move_every_ticks"`   // Ticks between runner moves
	PointsPerCapture int   `yaml:"points_per_capture"` // Score per correct capture
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Multiplier added to speed at max difficulty
	DecoyBonus      int     `yaml:"decoy_bonus"`      // Extra decoys at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}
