package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/mathblocks/internal/config"
	"github.com/vovakirdan/mathblocks/internal/core"
	"github.com/vovakirdan/mathblocks/internal/games/skipcount"
	"github.com/vovakirdan/mathblocks/internal/games/tutor"
	"github.com/vovakirdan/mathblocks/internal/platform/tui"
	"github.com/vovakirdan/mathblocks/internal/registry"
	"github.com/vovakirdan/mathblocks/internal/storage"
)

var (
	flagConfig     string
	flagProblems   string
	flagDifficulty string
	flagCategory   string
	flagProblem    string
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing the specified game.

Carry-over controls:
  0-9        - Type the digit for the current column
  Space      - Move one block toward the column that reaches ten
  Enter      - Next problem
  T / H      - Toggle paper trace / step history
  P/Esc      - Pause, Esc again leaves
  Q/Ctrl+C   - Quit

Skip counting difficulty options:
  easy   - Slow runner, more wrong hits allowed
  normal - Default settings
  hard   - Fast runner, more decoys
  fixed  - No speed progression

Examples:
  mathblocks play carryover
  mathblocks play carryover --category both-carry
  mathblocks play carryover --problem "47+18"
  mathblocks play carryover --problems ./my-problems.yaml
  mathblocks play skipcount --difficulty easy
  mathblocks play skipcount --config ./my-skipcount.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagProblems, "problems", "", "Path to custom problems YAML (carryover)")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed (skipcount)")
	playCmd.Flags().StringVar(&flagCategory, "category", "", "Problem category (carryover)")
	playCmd.Flags().StringVar(&flagProblem, "problem", "", `Custom problem such as "47+18" (carryover)`)
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := args[0]
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown game %q, run 'mathblocks list' to see available games", gameID)
	}

	cfg := runtimeConfig()
	playLogger, closeLog := tuiLogger()
	defer closeLog()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", flagDBPath, "err", err)
		store = nil
	} else {
		defer store.Close()
	}

	launcher := tui.Launcher{
		Store:        store,
		Logger:       playLogger,
		ConfigPath:   flagConfig,
		ProblemsPath: flagProblems,
		Preset:       config.DifficultyPreset(flagDifficulty),
	}
	sessionID := uuid.NewString()

	var game registry.Game
	switch gameID {
	case tutor.IDRound, tutor.IDPractice:
		sel, err := tutorSelection(cfg, launcher, gameID)
		if err != nil || sel == nil {
			return err
		}
		game, err = launcher.Tutor(*sel, sessionID)
		if err != nil {
			return err
		}

	case skipcount.IDCampaign:
		sel, err := tui.RunSkipCountSelector(cfg, launcher.SkipValues())
		if err != nil || sel == nil {
			return err
		}
		game, err = launcher.SkipCount(*sel, sessionID)
		if err != nil {
			return err
		}

	default:
		game, err = launcher.Create(gameID, sessionID)
		if err != nil {
			return err
		}
	}

	return tui.Run(game, store, cfg, playLogger)
}

// tutorSelection builds the selection from flags, or asks with the selector
// when neither --problem nor --category is given.
func tutorSelection(cfg core.RuntimeConfig, launcher tui.Launcher, gameID string) (*tui.TutorSelection, error) {
	practice := gameID == tutor.IDPractice

	if flagProblem != "" {
		p, err := tui.ParseProblem(flagProblem)
		if err != nil {
			return nil, err
		}
		return &tui.TutorSelection{Practice: true, Custom: &p}, nil
	}
	if flagCategory != "" || practice {
		return &tui.TutorSelection{Practice: practice, Category: flagCategory}, nil
	}
	return tui.RunTutorSelector(cfg, launcher.Categories())
}
