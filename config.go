// config.go — optional CLI configuration (kent.yaml).
package kentscript

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config tunes the CLI. All fields are optional in the file; zero values are
// replaced with defaults.
type Config struct {
	Workers     int    `yaml:"workers"`      // task pool size
	HistoryFile string `yaml:"history_file"` // REPL history, relative to $HOME
	Color       bool   `yaml:"color"`        // ANSI colors in the REPL
}

// DefaultConfig returns the settings used when no kent.yaml exists.
func DefaultConfig() Config {
	return Config{
		Workers:     defaultPoolWorkers,
		HistoryFile: ".kentscript_history",
		Color:       true,
	}
}

// LoadConfig reads a kent.yaml. A missing file yields the defaults; a
// malformed one is an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultPoolWorkers
	}
	if cfg.HistoryFile == "" {
		cfg.HistoryFile = ".kentscript_history"
	}
	return cfg, nil
}
