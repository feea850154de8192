package pose

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// ReplaySource replays pre-recorded pose frames from fixture data, one frame
// per Estimate call. Fixtures are newline-delimited JSON, one Frame per line.
// When Loop is set the source wraps around instead of reporting exhaustion.
type ReplaySource struct {
	mu     sync.Mutex
	frames []*Frame
	next   int
	loop   bool
	closed bool
}

// NewReplaySource parses newline-delimited JSON frames from data.
func NewReplaySource(data []byte, loop bool) (*ReplaySource, error) {
	var frames []*Frame
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var f Frame
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("fixture line %d: %w", line, err)
		}
		frames = append(frames, &f)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan fixtures: %w", err)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames in fixture data")
	}
	return &ReplaySource{frames: frames, loop: loop}, nil
}

// Estimate returns the next recorded frame.
func (r *ReplaySource) Estimate(ctx context.Context) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, fmt.Errorf("replay source closed")
	}
	if r.next >= len(r.frames) {
		if !r.loop {
			return nil, fmt.Errorf("replay exhausted after %d frames", len(r.frames))
		}
		r.next = 0
	}
	f := r.frames[r.next]
	r.next++
	return f, nil
}

// Close marks the source closed; subsequent Estimate calls fail.
func (r *ReplaySource) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}
