package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ExperimentType selects the iteration shape of a generated trace.
type ExperimentType string

const (
	OneCore  ExperimentType = "one_core"
	ManyCore ExperimentType = "many_core"
)

// ParseExperimentType maps a user-supplied name to an ExperimentType.
// Only "one_core" selects OneCore; every other string is ManyCore.
func ParseExperimentType(s string) ExperimentType {
	if s == string(OneCore) {
		return OneCore
	}
	return ManyCore
}

// Config holds a complete experiment description.
type Config struct {
	// Experiment shape
	Type        string `yaml:"type"`
	CoreCount   int    `yaml:"core_count"`
	ScaleFactor int    `yaml:"scale_factor"`
	Trials      int    `yaml:"trials"`

	// Seed fixes the random stream. Nil means a fresh wall-clock seed.
	Seed *uint64 `yaml:"seed,omitempty"`

	// Output path; empty writes to stdout
	Output string `yaml:"output,omitempty"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Type:        string(OneCore),
		CoreCount:   1,
		ScaleFactor: 1000,
		Trials:      100,

		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// FromEnv returns the default configuration with environment overrides applied.
func FromEnv() *Config {
	cfg := DefaultConfig()
	cfg.applyEnvOverrides()
	return cfg
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			return FromEnv(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Environment variables consulted by applyEnvOverrides.
const (
	EnvSeed     = "FAKEDATA_SEED"
	EnvOutput   = "FAKEDATA_OUTPUT"
	EnvLogLevel = "FAKEDATA_LOG_LEVEL"
)

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvSeed); v != "" {
		// Unparseable seeds are ignored
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Seed = &seed
		}
	}
	if path := os.Getenv(EnvOutput); path != "" {
		c.Output = path
	}
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		c.Logging.Level = lvl
	}
}

// Experiment returns the parsed experiment type.
func (c *Config) Experiment() ExperimentType {
	return ParseExperimentType(c.Type)
}

// SetSeed fixes the random seed.
func (c *Config) SetSeed(seed uint64) {
	c.Seed = &seed
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Trials < 1 {
		return fmt.Errorf("trials must be >= 1, got %d", c.Trials)
	}
	if c.CoreCount < 1 {
		return fmt.Errorf("core_count must be >= 1, got %d", c.CoreCount)
	}
	if c.ScaleFactor < 1 {
		return fmt.Errorf("scale_factor must be >= 1, got %d", c.ScaleFactor)
	}
	return c.Logging.Validate()
}
