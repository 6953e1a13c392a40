package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvSeed, "")
	t.Setenv(EnvOutput, "")
	t.Setenv(EnvLogLevel, "")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Type != "one_core" {
		t.Errorf("expected Type=one_core, got %s", cfg.Type)
	}
	if cfg.CoreCount != 1 {
		t.Errorf("expected CoreCount=1, got %d", cfg.CoreCount)
	}
	if cfg.ScaleFactor != 1000 {
		t.Errorf("expected ScaleFactor=1000, got %d", cfg.ScaleFactor)
	}
	if cfg.Trials != 100 {
		t.Errorf("expected Trials=100, got %d", cfg.Trials)
	}
	if cfg.Seed != nil {
		t.Errorf("expected no seed, got %d", *cfg.Seed)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "experiment.yaml")

	cfg := DefaultConfig()
	cfg.Type = "many_core"
	cfg.CoreCount = 8
	cfg.Trials = 3
	cfg.SetSeed(1234)

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Experiment() != ManyCore {
		t.Errorf("expected many_core, got %s", loaded.Type)
	}
	if loaded.CoreCount != 8 {
		t.Errorf("expected CoreCount=8, got %d", loaded.CoreCount)
	}
	if loaded.Trials != 3 {
		t.Errorf("expected Trials=3, got %d", loaded.Trials)
	}
	if loaded.Seed == nil || *loaded.Seed != 1234 {
		t.Errorf("expected Seed=1234, got %v", loaded.Seed)
	}
	// Untouched fields keep their defaults
	if loaded.ScaleFactor != 1000 {
		t.Errorf("expected ScaleFactor=1000, got %d", loaded.ScaleFactor)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Trials != 100 {
		t.Errorf("expected default trials, got %d", cfg.Trials)
	}
}

func TestLoad_PartialFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("trials: 7\nlogging:\n  level: debug\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Trials != 7 {
		t.Errorf("expected Trials=7, got %d", cfg.Trials)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected level=debug, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("expected default format, got %s", cfg.Logging.Format)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("trials: [not, an, int"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	} else if !strings.Contains(err.Error(), "failed to parse config") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseExperimentType(t *testing.T) {
	cases := map[string]ExperimentType{
		"one_core":  OneCore,
		"many_core": ManyCore,
		"":          ManyCore,
		"ONE_CORE":  ManyCore,
		"whatever":  ManyCore,
	}
	for in, want := range cases {
		if got := ParseExperimentType(in); got != want {
			t.Errorf("ParseExperimentType(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero trials", func(c *Config) { c.Trials = 0 }, "trials"},
		{"negative cores", func(c *Config) { c.CoreCount = -2 }, "core_count"},
		{"zero scale", func(c *Config) { c.ScaleFactor = 0 }, "scale_factor"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "log level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}
