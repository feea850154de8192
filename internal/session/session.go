// Package session owns the live capture state: the pose sources, the
// per-role per-channel smoother instances, the recorders and the saved
// series. There are no ambient globals; a session is constructed on start
// and torn down on stop.
package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/formsight/formsight/internal/angles"
	"github.com/formsight/formsight/internal/config"
	"github.com/formsight/formsight/internal/filter"
	"github.com/formsight/formsight/internal/pose"
	"github.com/formsight/formsight/internal/series"
	"github.com/formsight/formsight/internal/timeutil"
)

// Config carries the pipeline parameters a session needs per frame.
type Config struct {
	SampleInterval time.Duration
	FrameInterval  time.Duration
	MinScore       float64
	SmootherKind   filter.Kind
	WindowSize     int
	EMAAlpha       float64
}

// FromTuning builds a session Config from the loaded tuning file.
func FromTuning(t *config.TuningConfig) Config {
	return Config{
		SampleInterval: t.GetSamplingInterval(),
		FrameInterval:  t.GetFrameInterval(),
		MinScore:       t.GetMinLandmarkScore(),
		SmootherKind:   filter.Kind(t.GetSmoother()),
		WindowSize:     t.GetWindowSize(),
		EMAAlpha:       t.GetEMAAlpha(),
	}
}

// Session drives the frame loop for up to two pose sources and exposes
// recording control to the API layer.
type Session struct {
	id        string
	cfg       Config
	clock     timeutil.Clock
	extractor *angles.Extractor

	mu        sync.Mutex
	sources   map[series.Role]pose.Source
	smoothers map[series.Role]map[angles.Channel]filter.Smoother
	recorders map[series.Role]*series.Recorder
	saved     map[series.Role]*series.Series
}

// New constructs a session over the given pose sources. Sources may cover
// one or both roles.
func New(cfg Config, clock timeutil.Clock, sources map[series.Role]pose.Source) *Session {
	s := &Session{
		id:        uuid.NewString(),
		cfg:       cfg,
		clock:     clock,
		extractor: angles.NewExtractor(cfg.MinScore),
		sources:   sources,
		smoothers: make(map[series.Role]map[angles.Channel]filter.Smoother),
		recorders: make(map[series.Role]*series.Recorder),
		saved:     make(map[series.Role]*series.Series),
	}
	for _, role := range series.Roles() {
		perChannel := make(map[angles.Channel]filter.Smoother, len(angles.All()))
		for _, ch := range angles.All() {
			perChannel[ch] = filter.New(cfg.SmootherKind, cfg.WindowSize, cfg.EMAAlpha)
		}
		s.smoothers[role] = perChannel
		s.recorders[role] = series.NewRecorder(clock, cfg.SampleInterval)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Run executes the frame loop until the context is cancelled. One step runs
// per tick; a slow step delays, never queues, the next one, so frames are
// dropped rather than buffered. Cancellation is deterministic: no step is
// in flight once Run returns.
func (s *Session) Run(ctx context.Context) error {
	ticker := s.clock.NewTicker(s.cfg.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
			s.Step(ctx)
		}
	}
}

// Step runs one inference and processing pass for every source. The per-
// source inference calls run concurrently and a failure in one never blocks
// the other's bookkeeping.
func (s *Session) Step(ctx context.Context) {
	s.mu.Lock()
	sources := make(map[series.Role]pose.Source, len(s.sources))
	for role, src := range s.sources {
		if src != nil {
			sources[role] = src
		}
	}
	s.mu.Unlock()

	type outcome struct {
		role  series.Role
		frame *pose.Frame
		err   error
	}
	results := make(chan outcome, len(sources))

	var wg sync.WaitGroup
	for role, src := range sources {
		wg.Add(1)
		go func(role series.Role, src pose.Source) {
			defer wg.Done()
			frame, err := src.Estimate(ctx)
			results <- outcome{role: role, frame: frame, err: err}
		}(role, src)
	}
	wg.Wait()
	close(results)

	for out := range results {
		if out.err != nil {
			// Transient per-frame failure: skip this frame and carry on.
			log.Printf("pose estimate failed for %s: %v", out.role, out.err)
			continue
		}
		s.processFrame(out.role, out.frame)
	}
}

func (s *Session) processFrame(role series.Role, frame *pose.Frame) {
	raw := s.extractor.Extract(frame)

	s.mu.Lock()
	defer s.mu.Unlock()

	smoothed := make(map[angles.Channel]*float64, len(raw))
	for _, ch := range angles.All() {
		smoothed[ch] = s.smoothers[role][ch].Push(raw[ch])
	}
	s.recorders[role].Offer(smoothed)
}

// StartRecording begins a fresh recording for the role, discarding any
// in-progress buffer.
func (s *Session) StartRecording(role series.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorders[role].Start()
}

// StopRecording stops sampling for the role, preserving the buffer.
func (s *Session) StopRecording(role series.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorders[role].Stop()
}

// Recording reports whether the role is currently recording.
func (s *Session) Recording(role series.Role) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recorders[role].Active()
}

// Save freezes the role's recording buffer into an immutable series and
// stores it, replacing any prior save for that role.
func (s *Session) Save(role series.Role) (*series.Series, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.recorders[role].Snapshot(role)
	if err != nil {
		return nil, fmt.Errorf("nothing recorded for %s: %w", role, err)
	}
	s.saved[role] = saved
	return saved, nil
}

// Import stores an externally loaded series (the file-upload path) under
// its role.
func (s *Session) Import(ser *series.Series) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[ser.Role] = ser
}

// Saved returns the saved series for the role, if any.
func (s *Session) Saved(role series.Role) (*series.Series, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ser, ok := s.saved[role]
	return ser, ok
}

// Close releases the pose sources. Safe to call once the frame loop has
// stopped.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for role, src := range s.sources {
		if src == nil {
			continue
		}
		if err := src.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close %s source: %w", role, err)
		}
	}
	return firstErr
}
