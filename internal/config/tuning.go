// Package config loads the tuning parameters for the comparison pipeline.
// Fields are pointer-typed so a partial JSON file only overrides what it
// names; the Get* accessors supply the documented defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TuningConfig is the root tuning schema. The same JSON shape is served
// back by the /api/config endpoint.
type TuningConfig struct {
	// Sampling params
	SamplingIntervalMS *int     `json:"sampling_interval_ms,omitempty"`
	FrameIntervalMS    *int     `json:"frame_interval_ms,omitempty"`
	MinLandmarkScore   *float64 `json:"min_landmark_score,omitempty"`

	// Smoothing params
	Smoother   *string  `json:"smoother,omitempty"` // "ema" or "window"
	EMAAlpha   *float64 `json:"ema_alpha,omitempty"`
	WindowSize *int     `json:"window_size,omitempty"`

	// Cycle detection params
	Prominence       *float64 `json:"prominence,omitempty"`
	MinGapSec        *float64 `json:"min_gap_sec,omitempty"`
	ProminenceWindow *int     `json:"prominence_window,omitempty"`

	// Phase normalization params
	PhasePoints *int `json:"phase_points,omitempty"`
}

// LoadTuningConfig loads a TuningConfig from a JSON file. Fields omitted
// from the file keep their defaults, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &TuningConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *TuningConfig) Validate() error {
	if c.MinLandmarkScore != nil {
		if *c.MinLandmarkScore < 0 || *c.MinLandmarkScore > 1 {
			return fmt.Errorf("min_landmark_score must be between 0 and 1, got %f", *c.MinLandmarkScore)
		}
	}
	if c.EMAAlpha != nil {
		if *c.EMAAlpha <= 0 || *c.EMAAlpha > 1 {
			return fmt.Errorf("ema_alpha must be in (0,1], got %f", *c.EMAAlpha)
		}
	}
	if c.Smoother != nil {
		switch *c.Smoother {
		case "ema", "window":
		default:
			return fmt.Errorf("smoother must be 'ema' or 'window', got %q", *c.Smoother)
		}
	}
	if c.WindowSize != nil && *c.WindowSize <= 0 {
		return fmt.Errorf("window_size must be positive, got %d", *c.WindowSize)
	}
	if c.SamplingIntervalMS != nil && *c.SamplingIntervalMS <= 0 {
		return fmt.Errorf("sampling_interval_ms must be positive, got %d", *c.SamplingIntervalMS)
	}
	if c.FrameIntervalMS != nil && *c.FrameIntervalMS <= 0 {
		return fmt.Errorf("frame_interval_ms must be positive, got %d", *c.FrameIntervalMS)
	}
	if c.Prominence != nil && *c.Prominence <= 0 {
		return fmt.Errorf("prominence must be positive, got %f", *c.Prominence)
	}
	if c.MinGapSec != nil && *c.MinGapSec <= 0 {
		return fmt.Errorf("min_gap_sec must be positive, got %f", *c.MinGapSec)
	}
	if c.PhasePoints != nil && *c.PhasePoints < 2 {
		return fmt.Errorf("phase_points must be at least 2, got %d", *c.PhasePoints)
	}
	return nil
}

// GetSamplingInterval returns the recorder sampling interval.
func (c *TuningConfig) GetSamplingInterval() time.Duration {
	if c.SamplingIntervalMS == nil {
		return 100 * time.Millisecond
	}
	return time.Duration(*c.SamplingIntervalMS) * time.Millisecond
}

// GetFrameInterval returns the frame-loop scheduling interval.
func (c *TuningConfig) GetFrameInterval() time.Duration {
	if c.FrameIntervalMS == nil {
		return 33 * time.Millisecond
	}
	return time.Duration(*c.FrameIntervalMS) * time.Millisecond
}

// GetMinLandmarkScore returns the per-landmark confidence threshold.
func (c *TuningConfig) GetMinLandmarkScore() float64 {
	if c.MinLandmarkScore == nil {
		return 0.3
	}
	return *c.MinLandmarkScore
}

// GetSmoother returns the smoothing policy name.
func (c *TuningConfig) GetSmoother() string {
	if c.Smoother == nil {
		return "ema"
	}
	return *c.Smoother
}

// GetEMAAlpha returns the EMA decay coefficient.
func (c *TuningConfig) GetEMAAlpha() float64 {
	if c.EMAAlpha == nil {
		return 0.3
	}
	return *c.EMAAlpha
}

// GetWindowSize returns the moving-average window length.
func (c *TuningConfig) GetWindowSize() int {
	if c.WindowSize == nil {
		return 5
	}
	return *c.WindowSize
}

// GetProminence returns the cycle-boundary prominence threshold in degrees.
func (c *TuningConfig) GetProminence() float64 {
	if c.Prominence == nil {
		return 6.0
	}
	return *c.Prominence
}

// GetMinGapSec returns the minimum time between cycle boundaries.
func (c *TuningConfig) GetMinGapSec() float64 {
	if c.MinGapSec == nil {
		return 0.30
	}
	return *c.MinGapSec
}

// GetProminenceWindow returns the prominence neighbourhood half-width.
func (c *TuningConfig) GetProminenceWindow() int {
	if c.ProminenceWindow == nil {
		return 10
	}
	return *c.ProminenceWindow
}

// GetPhasePoints returns the phase grid size.
func (c *TuningConfig) GetPhasePoints() int {
	if c.PhasePoints == nil {
		return 100
	}
	return *c.PhasePoints
}
