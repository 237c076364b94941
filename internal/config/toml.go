// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/kakite/internal/grade"
	"github.com/verte-zerg/kakite/internal/stroke"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Grading  GradingConfig  `toml:"grading"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Level      *string  `toml:"level"`
	Count      *int     `toml:"count"`
	CanvasSize *float64 `toml:"canvas-size"`
	Trace      *bool    `toml:"trace"`
	FocusWeak  *bool    `toml:"focus-weak"`
	WeakTop    *int     `toml:"weak-top"`
	WeakFactor *float64 `toml:"weak-factor"`
	WeakWindow *int     `toml:"weak-window"`
}

// GradingConfig maps grading thresholds.
type GradingConfig struct {
	SampleCount    *int     `toml:"sample-count"`
	PassRatio      *float64 `toml:"pass-ratio"`
	MinSegment     *float64 `toml:"min-segment"`
	BendDegrees    *float64 `toml:"bend-degrees"`
	CurveDeviation *float64 `toml:"curve-deviation"`
}

// Options overlays the configured thresholds on base.
func (g GradingConfig) Options(base grade.Options) grade.Options {
	if g.SampleCount != nil && *g.SampleCount >= 2 {
		base.SampleCount = *g.SampleCount
	}
	if g.PassRatio != nil && *g.PassRatio >= 0 && *g.PassRatio <= 1 {
		base.PassRatio = *g.PassRatio
	}
	if g.CurveDeviation != nil && *g.CurveDeviation > 0 {
		base.CurveDeviation = *g.CurveDeviation
	}
	return base
}

// StrokeOptions overlays the configured reference thresholds on base.
func (g GradingConfig) StrokeOptions(base stroke.Options) stroke.Options {
	if g.MinSegment != nil && *g.MinSegment >= 0 {
		base.MinSegment = *g.MinSegment
	}
	if g.BendDegrees != nil && *g.BendDegrees > 0 {
		base.BendDegrees = *g.BendDegrees
	}
	return base
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
