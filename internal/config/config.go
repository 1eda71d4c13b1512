// Package config provides configuration loading for the search client.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pdrpinto/searchclient"
)

var (
	ErrConfigNotFound    = errors.New("configuration file not found")
	ErrUnsupportedFormat = errors.New("unsupported configuration format")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// Config holds every setting of a client run.
type Config struct {
	// Strategy is one of bfs, dfs, astar, wastar or greedy.
	Strategy string `yaml:"strategy"`
	// Weight is the weighted A* weight.
	Weight int `yaml:"weight"`
	// MaxMemoryMB is the soft memory bound; exceeding it ends the search.
	MaxMemoryMB float64 `yaml:"max_memory_mb"`
	// StatusInterval is the number of iterations between status reports.
	StatusInterval int `yaml:"status_interval"`
	// Seed seeds the expansion shuffle.
	Seed int64 `yaml:"seed"`
	Log  Log   `yaml:"log"`
}

// Log configures logging.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a configuration with sensible defaults.
func Default() Config {
	return Config{
		Strategy:       string(searchclient.StrategyBFS),
		Weight:         searchclient.DefaultWeight,
		MaxMemoryMB:    2048,
		StatusInterval: searchclient.DefaultStatusInterval,
		Seed:           searchclient.DefaultSeed,
		Log: Log{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadFile reads a YAML configuration on top of the defaults.
func LoadFile(path string) (Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return Config{}, fmt.Errorf("failed to access config file: %w", err)
	}
	if info.IsDir() {
		return Config{}, fmt.Errorf("%w: %s is a directory", ErrUnsupportedFormat, path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load decodes YAML from r on top of the defaults. Environment references
// of the form ${VAR} and ${VAR:-default} are expanded first.
func Load(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expandEnv(string(data))), &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}

func expandEnv(input string) string {
	return os.Expand(input, func(ref string) string {
		name, fallback, hasDefault := strings.Cut(ref, ":-")
		if value, ok := os.LookupEnv(name); ok && value != "" {
			return value
		}
		if hasDefault {
			return fallback
		}
		return ""
	})
}

// Environment variables read by ApplyEnv.
const (
	EnvStrategy  = "SEARCHCLIENT_STRATEGY"
	EnvWeight    = "SEARCHCLIENT_WEIGHT"
	EnvMaxMemory = "SEARCHCLIENT_MAX_MEMORY"
	EnvLogLevel  = "SEARCHCLIENT_LOG_LEVEL"
)

// ApplyEnv overrides fields from SEARCHCLIENT_* environment variables.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvStrategy); ok && v != "" {
		c.Strategy = v
	}
	if v, ok := os.LookupEnv(EnvWeight); ok && v != "" {
		weight, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, EnvWeight, v, err)
		}
		c.Weight = weight
	}
	if v, ok := os.LookupEnv(EnvMaxMemory); ok && v != "" {
		mb, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, EnvMaxMemory, v, err)
		}
		c.MaxMemoryMB = mb
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	switch searchclient.Strategy(c.Strategy) {
	case searchclient.StrategyBFS, searchclient.StrategyDFS, searchclient.StrategyAStar,
		searchclient.StrategyWeightedAStar, searchclient.StrategyGreedy:
	default:
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, c.Strategy)
	}
	if c.Weight < 1 {
		return fmt.Errorf("%w: weight must be at least 1, got %d", ErrInvalidConfig, c.Weight)
	}
	if c.MaxMemoryMB <= 0 {
		return fmt.Errorf("%w: max memory must be positive, got %g", ErrInvalidConfig, c.MaxMemoryMB)
	}
	if c.StatusInterval <= 0 {
		return fmt.Errorf("%w: status interval must be positive, got %d", ErrInvalidConfig, c.StatusInterval)
	}
	return nil
}
