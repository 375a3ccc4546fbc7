package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

// Debug image formats
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatNone = "none"
)

type Config struct {
	BinarizeThreshold   uint8   `yaml:"binarizeThreshold"`   // pixels <= threshold are foreground
	MarkingThreshold    float64 `yaml:"markingThreshold"`    // darkest bubble must be below this
	DifferenceThreshold float64 `yaml:"differenceThreshold"` // required gap to the second darkest
	MinBlobArea         int     `yaml:"minBlobArea"`         // pixels
	MinRotationDegrees  float64 `yaml:"minRotationDegrees"`  // smaller angles are not corrected
	MarkerZoneWidth     float64 `yaml:"markerZoneWidth"`     // fraction of image width
	MarkerZoneHeight    float64 `yaml:"markerZoneHeight"`    // fraction of image height
	Aligner             string  `yaml:"aligner"`
	Workers             int     `yaml:"workers"` // 0 sizes the pool from the host
	DebugImageFormat    string  `yaml:"debugImageFormat"`
	JPEGQuality         int     `yaml:"jpegQuality"`
}

// Default returns the thresholds the recognizer was tuned with.
func Default() Config {
	return Config{
		BinarizeThreshold:   128,
		MarkingThreshold:    180,
		DifferenceThreshold: 30,
		MinBlobArea:         50,
		MinRotationDegrees:  2,
		MarkerZoneWidth:     0.10,
		MarkerZoneHeight:    0.20,
		Aligner:             "markers",
		Workers:             0,
		DebugImageFormat:    FormatPNG,
		JPEGQuality:         85,
	}
}

// Load reads a YAML file on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.MarkingThreshold <= 0 || c.MarkingThreshold > 255:
		return fmt.Errorf("%w: markingThreshold %v out of range (0,255]", ErrInvalidConfig, c.MarkingThreshold)
	case c.DifferenceThreshold < 0 || c.DifferenceThreshold > 255:
		return fmt.Errorf("%w: differenceThreshold %v out of range [0,255]", ErrInvalidConfig, c.DifferenceThreshold)
	case c.MinBlobArea <= 0:
		return fmt.Errorf("%w: minBlobArea must be positive", ErrInvalidConfig)
	case c.MinRotationDegrees < 0:
		return fmt.Errorf("%w: minRotationDegrees must not be negative", ErrInvalidConfig)
	case c.MarkerZoneWidth <= 0 || c.MarkerZoneWidth > 1:
		return fmt.Errorf("%w: markerZoneWidth %v out of range (0,1]", ErrInvalidConfig, c.MarkerZoneWidth)
	case c.MarkerZoneHeight <= 0 || c.MarkerZoneHeight > 1:
		return fmt.Errorf("%w: markerZoneHeight %v out of range (0,1]", ErrInvalidConfig, c.MarkerZoneHeight)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}

	switch c.DebugImageFormat {
	case FormatPNG, FormatNone, "":
	case FormatJPEG:
		if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
			return fmt.Errorf("%w: jpegQuality %d out of range [1,100]", ErrInvalidConfig, c.JPEGQuality)
		}
	default:
		return fmt.Errorf("%w: unknown debug image format %q", ErrInvalidConfig, c.DebugImageFormat)
	}

	return nil
}
