package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ReadLayered returns the raw YAML for the named config file.
// Search order: customPath -> <home>/configs/<name> -> ./configs/<name> -> embedded.
// Only a missing or unreadable custom path is an error; the other layers
// fall through silently.
func ReadLayered(name, customPath string, embedded []byte) ([]byte, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		return data, nil
	}

	if userCfgPath := userConfigPath(name); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			return data, nil
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", name)); err == nil {
		return data, nil
	}

	return embedded, nil
}

// loadYAML reads the named config through ReadLayered and decodes it into out.
// Broken user or local files fall back to the embedded default.
func loadYAML(name, customPath string, embedded []byte, out any) error {
	data, err := ReadLayered(name, customPath, embedded)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		if customPath != "" {
			return fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return yaml.Unmarshal(embedded, out)
	}
	return nil
}

// LoadTutor loads carry-over tutor configuration.
func LoadTutor(customPath string) (TutorConfig, error) {
	cfg := DefaultTutorConfig()
	if err := loadYAML("tutor.yaml", customPath, defaultTutorYAML, &cfg); err != nil {
		return DefaultTutorConfig(), err
	}
	return cfg, nil
}

// LoadSkipCount loads skip-counting configuration.
func LoadSkipCount(customPath string) (SkipCountConfig, error) {
	cfg := DefaultSkipCountConfig()
	if err := loadYAML("skipcount.yaml", customPath, defaultSkipCountYAML, &cfg); err != nil {
		return DefaultSkipCountConfig(), err
	}
	if len(cfg.Play.SkipValues) == 0 {
		cfg.Play.SkipValues = DefaultSkipCountConfig().Play.SkipValues
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := HomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "configs", filename)
}

// ApplySkipCountPreset modifies the config based on a difficulty preset.
func ApplySkipCountPreset(cfg *SkipCountConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	switch preset {
	case DifficultyEasy:
		cfg.Play.MaxWrongHits = 5
		cfg.Play.Decoys = 2
	case DifficultyHard:
		cfg.Play.MaxWrongHits = 1
		cfg.Play.Decoys = 4
	}
}
