package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config invalid: %v", err)
	}

	if cfg.BinarizeThreshold != 128 || cfg.MarkingThreshold != 180 || cfg.DifferenceThreshold != 30 ||
		cfg.MinBlobArea != 50 || cfg.MinRotationDegrees != 2 {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "omr.yaml")
	data := []byte("markingThreshold: 170\nworkers: 4\ndebugImageFormat: jpeg\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MarkingThreshold != 170 || cfg.Workers != 4 || cfg.DebugImageFormat != FormatJPEG {
		t.Errorf("Overrides not applied: %+v", cfg)
	}
	if cfg.DifferenceThreshold != 30 || cfg.JPEGQuality != 85 {
		t.Errorf("Defaults lost: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"marking threshold", func(c *Config) { c.MarkingThreshold = 0 }},
		{"difference threshold", func(c *Config) { c.DifferenceThreshold = -5 }},
		{"blob area", func(c *Config) { c.MinBlobArea = 0 }},
		{"rotation", func(c *Config) { c.MinRotationDegrees = -1 }},
		{"zone width", func(c *Config) { c.MarkerZoneWidth = 1.5 }},
		{"zone height", func(c *Config) { c.MarkerZoneHeight = 0 }},
		{"workers", func(c *Config) { c.Workers = -2 }},
		{"format", func(c *Config) { c.DebugImageFormat = "gif" }},
		{"jpeg quality", func(c *Config) {
			c.DebugImageFormat = FormatJPEG
			c.JPEGQuality = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("workers: [oops"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}
