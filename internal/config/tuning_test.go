package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := &TuningConfig{}

	if got := cfg.GetSamplingInterval(); got != 100*time.Millisecond {
		t.Errorf("GetSamplingInterval() = %v, want 100ms", got)
	}
	if got := cfg.GetFrameInterval(); got != 33*time.Millisecond {
		t.Errorf("GetFrameInterval() = %v, want 33ms", got)
	}
	if got := cfg.GetMinLandmarkScore(); got != 0.3 {
		t.Errorf("GetMinLandmarkScore() = %v, want 0.3", got)
	}
	if got := cfg.GetSmoother(); got != "ema" {
		t.Errorf("GetSmoother() = %q, want ema", got)
	}
	if got := cfg.GetEMAAlpha(); got != 0.3 {
		t.Errorf("GetEMAAlpha() = %v, want 0.3", got)
	}
	if got := cfg.GetWindowSize(); got != 5 {
		t.Errorf("GetWindowSize() = %d, want 5", got)
	}
	if got := cfg.GetProminence(); got != 6.0 {
		t.Errorf("GetProminence() = %v, want 6.0", got)
	}
	if got := cfg.GetMinGapSec(); got != 0.30 {
		t.Errorf("GetMinGapSec() = %v, want 0.30", got)
	}
	if got := cfg.GetProminenceWindow(); got != 10 {
		t.Errorf("GetProminenceWindow() = %d, want 10", got)
	}
	if got := cfg.GetPhasePoints(); got != 100 {
		t.Errorf("GetPhasePoints() = %d, want 100", got)
	}
}

func TestLoadPartialConfig(t *testing.T) {
	path := writeConfig(t, "tuning.json", `{"prominence": 8.5, "smoother": "window"}`)

	cfg, err := LoadTuningConfig(path)
	if err != nil {
		t.Fatalf("LoadTuningConfig: %v", err)
	}

	if got := cfg.GetProminence(); got != 8.5 {
		t.Errorf("GetProminence() = %v, want 8.5", got)
	}
	if got := cfg.GetSmoother(); got != "window" {
		t.Errorf("GetSmoother() = %q, want window", got)
	}
	// Omitted fields keep defaults.
	if got := cfg.GetMinGapSec(); got != 0.30 {
		t.Errorf("GetMinGapSec() = %v, want default 0.30", got)
	}
}

func TestLoadRejectsNonJSONExtension(t *testing.T) {
	path := writeConfig(t, "tuning.yaml", `{}`)
	if _, err := LoadTuningConfig(path); err == nil {
		t.Error("expected error for non-.json extension")
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := LoadTuningConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := writeConfig(t, "tuning.json", `{"prominence": `)
	if _, err := LoadTuningConfig(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestValidate(t *testing.T) {
	fptr := func(v float64) *float64 { return &v }
	iptr := func(v int) *int { return &v }
	sptr := func(v string) *string { return &v }

	testCases := []struct {
		name    string
		cfg     TuningConfig
		wantErr bool
	}{
		{"empty_is_valid", TuningConfig{}, false},
		{"valid_full", TuningConfig{
			SamplingIntervalMS: iptr(50),
			FrameIntervalMS:    iptr(16),
			MinLandmarkScore:   fptr(0.5),
			Smoother:           sptr("window"),
			EMAAlpha:           fptr(0.2),
			WindowSize:         iptr(7),
			Prominence:         fptr(4),
			MinGapSec:          fptr(0.25),
			PhasePoints:        iptr(200),
		}, false},
		{"score_above_one", TuningConfig{MinLandmarkScore: fptr(1.5)}, true},
		{"score_negative", TuningConfig{MinLandmarkScore: fptr(-0.1)}, true},
		{"alpha_zero", TuningConfig{EMAAlpha: fptr(0)}, true},
		{"alpha_above_one", TuningConfig{EMAAlpha: fptr(1.1)}, true},
		{"unknown_smoother", TuningConfig{Smoother: sptr("median")}, true},
		{"window_size_zero", TuningConfig{WindowSize: iptr(0)}, true},
		{"sampling_interval_zero", TuningConfig{SamplingIntervalMS: iptr(0)}, true},
		{"frame_interval_negative", TuningConfig{FrameIntervalMS: iptr(-1)}, true},
		{"prominence_zero", TuningConfig{Prominence: fptr(0)}, true},
		{"min_gap_negative", TuningConfig{MinGapSec: fptr(-0.1)}, true},
		{"phase_points_one", TuningConfig{PhasePoints: iptr(1)}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, "tuning.json", `{"ema_alpha": 2.0}`)
	if _, err := LoadTuningConfig(path); err == nil {
		t.Error("expected error for out-of-range ema_alpha")
	}
}
