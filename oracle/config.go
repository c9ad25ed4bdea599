package oracle

import (
	"fmt"
	"io/ioutil"

	yaml "gopkg.in/yaml.v2"
)

// Config is the on-disk configuration for an oracle instance, loaded
// from a YAML file the way limes' Configuration is (sapcc-limes
// pkg/limes/config.go).
type Config struct {
	Log       LogConfig     `yaml:"log"`
	Metrics   MetricsConfig `yaml:"metrics"`
	MaxLayers int           `yaml:"max_layers"`
}

// LogConfig controls the rotating log file and default level.
type LogConfig struct {
	File        string `yaml:"file"`
	Level       string `yaml:"level"`
	MaxFileKB   int    `yaml:"max_file_kb"`
	MaxLogFiles int    `yaml:"max_log_files"`
}

// MetricsConfig controls the Prometheus exposition endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:       "info",
			MaxFileKB:   10 * 1024,
			MaxLogFiles: 3,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Listen:  "127.0.0.1:9090",
		},
		MaxLayers: 4096,
	}
}

// LoadConfig reads and parses a YAML configuration file, filling in
// defaults for anything the file leaves unset.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
