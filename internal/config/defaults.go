package config

import (
	_ "embed"
)

//go:embed defaults/tutor.yaml
var defaultTutorYAML []byte

//go:embed defaults/skipcount.yaml
var defaultSkipCountYAML []byte

// DefaultTutorConfig returns the default carry-over tutor configuration.
func DefaultTutorConfig() TutorConfig {
	return TutorConfig{
		Round: TutorRound{
			Problems: 5,
			Category: "random",
		},
		Scoring: TutorScoring{
			PerProblem:     100,
			MistakePenalty: 10,
			MinPerProblem:  10,
		},
		Display: TutorDisplay{
			ShowTrace:   true,
			ShowHistory: true,
			BlockRune:   "■",
		},
	}
}

// DefaultSkipCountConfig returns the default skip-counting configuration.
func DefaultSkipCountConfig() SkipCountConfig {
	return SkipCountConfig{
		Board: SkipCountBoard{
			Width:  40,
			Height: 14,
		},
		Play: SkipCountPlay{
			SkipValues:       []int{2, 3, 4, 5, 6, 7, 8, 9, 10},
			TargetsPerLevel:  10,
			Decoys:           3,
			MaxWrongHits:     3,
			MoveEveryTicks:   8,
			PointsPerCapture: 10,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 500,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 1.0,
				DecoyBonus:      1,
			},
		},
	}
}
