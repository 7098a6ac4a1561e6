package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mathblocks/internal/platform/tui"
	"github.com/vovakirdan/mathblocks/internal/storage"
)

var (
	flagSessionsLimit  int
	flagSessionID      string
	flagSessionsBrowse bool
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Show stored carry-over problems",
	Long: `List recently finished carry-over problems, or show the steps of one.

Examples:
  mathblocks sessions
  mathblocks sessions --limit 50
  mathblocks sessions --id 2f6c0a3e-...
  mathblocks sessions --browse`,
	Args: cobra.NoArgs,
	RunE: runSessions,
}

func init() {
	sessionsCmd.Flags().IntVar(&flagSessionsLimit, "limit", 20, "Number of problems to list")
	sessionsCmd.Flags().StringVar(&flagSessionID, "id", "", "Show the steps of one stored problem")
	sessionsCmd.Flags().BoolVar(&flagSessionsBrowse, "browse", false, "Open the interactive history")
}

func runSessions(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("open scores database: %w", err)
	}
	defer store.Close()

	switch {
	case flagSessionsBrowse:
		cfg := runtimeConfig()
		_, err := tui.RunHistory(store, cfg.ScreenW, cfg.ScreenH)
		return err
	case flagSessionID != "":
		return showSession(store, flagSessionID)
	}

	sessions, err := store.RecentSessions(flagSessionsLimit)
	if err != nil {
		return fmt.Errorf("retrieve sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Println("No problems solved yet.")
		fmt.Println()
		fmt.Println("Play 'mathblocks play carryover' to start your history!")
		return nil
	}

	fmt.Printf("  %-36s  %-16s  %-15s  %-7s  %-8s  %s\n", "ID", "Date", "Problem", "Answer", "Mistakes", "Points")
	for _, s := range sessions {
		answer := fmt.Sprint(s.Answer)
		if s.Aborted {
			answer = "stopped"
		}
		fmt.Printf("  %-36s  %-16s  %-15s  %-7s  %-8d  %d\n",
			s.ID, s.EndedAt.Local().Format("2006-01-02 15:04"), fmt.Sprintf("%d + %d", s.Num1, s.Num2),
			answer, s.Mistakes, s.Score)
	}
	return nil
}

func showSession(store *storage.Store, id string) error {
	s, err := store.Session(id)
	if err != nil {
		return err
	}
	steps, err := store.SessionSteps(id)
	if err != nil {
		return err
	}

	fmt.Printf("%d + %d = %d\n", s.Num1, s.Num2, s.Answer)
	fmt.Printf("%s  |  %s  |  %d mistake(s)  |  %d points  |  %s\n\n",
		s.GameID, s.Category, s.Mistakes, s.Score, s.Duration().Round(time.Second))
	for _, step := range steps {
		fmt.Print("  ", step.Explanation)
		if step.Attempts > 1 {
			fmt.Printf("  (%d tries)", step.Attempts)
		}
		fmt.Println()
	}
	if s.Aborted {
		fmt.Println("  Stopped before the end.")
	}
	return nil
}
