package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Env holds process-level settings read from the environment.
type Env struct {
	Home        string `env:"MATHBLOCKS_HOME"         envDefault:"~/.mathblocks"`
	DBPath      string `env:"MATHBLOCKS_DB"`
	LogLevel    string `env:"MATHBLOCKS_LOG_LEVEL"    envDefault:"info"`
	SSHAddr     string `env:"MATHBLOCKS_SSH_ADDR"     envDefault:":23234"`
	MetricsAddr string `env:"MATHBLOCKS_METRICS_ADDR"`
}

// LoadEnv parses Env from the environment.
func LoadEnv() (Env, error) {
	var cfg Env
	if err := env.Parse(&cfg); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.Home, "scores.db")
	}
	return cfg, nil
}

// HomeDir returns the expanded mathblocks home directory.
func HomeDir() (string, error) {
	cfg, err := LoadEnv()
	if err != nil {
		return "", err
	}
	return ExpandHome(cfg.Home)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
