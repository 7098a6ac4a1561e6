// mathblocks teaches column addition with carrying in the terminal.
//
// Usage:
//
//	mathblocks list              - List available games
//	mathblocks play <game>       - Play a game
//	mathblocks menu              - Start menu to pick games interactively
//	mathblocks serve             - Start SSH server for remote play
//	mathblocks scores <game>     - Show high scores for a game
//	mathblocks sessions          - Show stored carry-over problems
//	mathblocks solve <a> <b>     - Print a worked solution
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible problems
//	--db <path>     - Set database path (default: ~/.mathblocks/scores.db)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/mathblocks/internal/config"
	"github.com/vovakirdan/mathblocks/internal/core"
	"github.com/vovakirdan/mathblocks/internal/logging"

	// Import games to register them
	_ "github.com/vovakirdan/mathblocks/internal/games/skipcount"
	_ "github.com/vovakirdan/mathblocks/internal/games/tutor"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string

	env    config.Env
	logger *log.Logger
)

func main() {
	var err error
	env, err = config.LoadEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger = logging.New("mathblocks", env.LogLevel)

	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", env.DBPath, "Path to scores database")
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", env.SSHAddr, "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagMetricsAddr, "metrics", env.MetricsAddr, "Prometheus listen address (empty disables)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mathblocks",
	Short: "Math Blocks - learn carrying with blocks in your terminal",
	Long: `Math Blocks turns column addition into moving blocks. When a column
reaches ten, the learner moves blocks until ten make one in the next place,
while a paper-style trace of the sum fills in alongside.

Available commands:
  list      - Show all available games
  play      - Play a specific game directly
  menu      - Interactive game picker menu
  serve     - Start SSH server for remote play
  scores    - View high scores
  sessions  - Review stored carry-over problems
  solve     - Print a worked solution for a sum

Examples:
  mathblocks list
  mathblocks play carryover
  mathblocks play carryover --problem "47+18"
  mathblocks menu
  mathblocks serve --ssh :2222
  mathblocks solve 47 18`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(solveCmd)
}

// runtimeConfig sizes the local terminal for a TUI run.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// tuiLogger returns a logger writing to <home>/mathblocks.log, since stderr
// is hidden behind the alternate screen. The caller closes the file.
func tuiLogger() (*log.Logger, func()) {
	home, err := config.HomeDir()
	if err == nil {
		err = os.MkdirAll(home, 0o755)
	}
	if err != nil {
		logger.Warn("logging disabled during play", "err", err)
		return logging.Discard(), func() {}
	}

	f, err := os.OpenFile(filepath.Join(home, "mathblocks.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		logger.Warn("logging disabled during play", "err", err)
		return logging.Discard(), func() {}
	}
	return logging.NewWithWriter(f, "mathblocks", env.LogLevel), func() { f.Close() }
}
