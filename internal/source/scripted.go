package source

import (
	"fmt"
	"io"
	"sync"

	"github.com/ayusman/repcoach/internal/pose"
)

// ScriptedSource plays back a pre-built frame sequence for tests and demos.
type ScriptedSource struct {
	frames     []pose.Frame
	timestamps []int64
	index      int
	loop       bool
	mu         sync.Mutex
}

// NewScriptedSource creates a source over the given frames and timestamps.
// The two slices must have equal length.
func NewScriptedSource(frames []pose.Frame, timestamps []int64, loop bool) (*ScriptedSource, error) {
	if len(frames) != len(timestamps) {
		return nil, fmt.Errorf("frames and timestamps must align: %d vs %d", len(frames), len(timestamps))
	}
	return &ScriptedSource{frames: frames, timestamps: timestamps, loop: loop}, nil
}

// Next returns the next scripted frame, or io.EOF once exhausted.
func (s *ScriptedSource) Next() (*pose.Frame, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.frames) == 0 {
		return nil, 0, io.EOF
	}

	if s.index >= len(s.frames) {
		if !s.loop {
			return nil, 0, io.EOF
		}
		s.index = 0
	}

	// Copy the frame so callers can't mutate the script.
	frame := s.frames[s.index]
	ts := s.timestamps[s.index]
	s.index++

	return &frame, ts, nil
}

// Reset restarts playback from the beginning.
func (s *ScriptedSource) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = 0
}

// Close is a no-op for scripted sources.
func (s *ScriptedSource) Close() error {
	return nil
}
