package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/mathblocks/internal/platform/tui"
	"github.com/vovakirdan/mathblocks/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a game picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a game.
After leaving a game, you return to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter        - Select game
  Tab          - High scores
  V            - Carry-over history
  Q            - Quit

Examples:
  mathblocks menu
  mathblocks menu --fps 30
  mathblocks menu --db ./scores.db`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	menuLogger, closeLog := tuiLogger()
	defer closeLog()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", flagDBPath, "err", err)
		store = nil
	} else {
		defer store.Close()
	}

	launcher := tui.Launcher{Store: store, Logger: menuLogger}
	return tui.RunSession(launcher, runtimeConfig(), uuid.NewString())
}
