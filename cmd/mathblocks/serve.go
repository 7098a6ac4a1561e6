package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mathblocks/internal/metrics"
	"github.com/vovakirdan/mathblocks/internal/platform/tui"
	"github.com/vovakirdan/mathblocks/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagMetricsAddr string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that allows learners to connect and play.

Each SSH connection gets its own session with a game picker menu.
Scores and carry-over history are stored per server.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.mathblocks/host_key

Examples:
  mathblocks serve                           # Listen on :23234
  mathblocks serve --ssh :2222               # Listen on port 2222
  mathblocks serve --metrics :9090           # Also expose Prometheus metrics
  mathblocks serve --host-key ./my_host_key  # Use specific host key

Learners can connect with:
  ssh localhost -p 23234`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("open scores database: %w", err)
	}
	defer store.Close()

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.TickRate = flagFPS

	server, err := tui.NewSSHServer(cfg, tui.Launcher{Store: store, Logger: logger})
	if err != nil {
		return err
	}

	if flagMetricsAddr != "" {
		go func() {
			logger.Info("serving metrics", "address", flagMetricsAddr)
			if err := metrics.Serve(ctx, flagMetricsAddr); err != nil {
				logger.Error("metrics server stopped", "err", err)
			}
		}()
	}

	logger.Info("connect with: ssh localhost -p <port>", "address", server.Addr())
	return server.ListenAndServe(ctx)
}
