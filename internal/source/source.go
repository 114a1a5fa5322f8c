// Package source supplies landmark frame streams to the tracking pipeline.
package source

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ayusman/repcoach/internal/pose"
)

// Source yields landmark frames with externally supplied monotonic
// timestamps. Next returns io.EOF when the stream is exhausted.
type Source interface {
	Next() (*pose.Frame, int64, error)
	Close() error
}

// record is one line of a recorded frame log.
type record struct {
	TimestampMs int64           `json:"t"`
	Points      []pose.Landmark `json:"points"`
}

// ReplaySource plays back a recorded frame log: one JSON object per line,
// each carrying a timestamp and 33 landmarks. Replaying a log through the
// engine reproduces the original session event-for-event.
type ReplaySource struct {
	scanner *bufio.Scanner
	closer  io.Closer
	line    int
}

// NewReplaySource creates a replay source reading from r.
func NewReplaySource(r io.Reader) *ReplaySource {
	return &ReplaySource{scanner: bufio.NewScanner(r)}
}

// OpenReplay opens a recorded frame log file for playback.
func OpenReplay(path string) (*ReplaySource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open frame log: %w", err)
	}
	s := NewReplaySource(f)
	s.closer = f
	return s, nil
}

// Next reads the next recorded frame.
func (s *ReplaySource) Next() (*pose.Frame, int64, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return nil, 0, err
		}
		return nil, 0, io.EOF
	}
	s.line++

	var rec record
	if err := json.Unmarshal(s.scanner.Bytes(), &rec); err != nil {
		return nil, 0, fmt.Errorf("frame log line %d: %w", s.line, err)
	}
	if len(rec.Points) != pose.NumLandmarks {
		return nil, 0, fmt.Errorf("frame log line %d: expected %d landmarks, got %d", s.line, pose.NumLandmarks, len(rec.Points))
	}

	frame := &pose.Frame{}
	copy(frame.Points[:], rec.Points)
	return frame, rec.TimestampMs, nil
}

// Close releases the underlying file, if any.
func (s *ReplaySource) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// WriteRecord appends one frame to a log in the replay format. Hosts use it
// to capture live streams for later analysis.
func WriteRecord(w io.Writer, f *pose.Frame, timestampMs int64) error {
	data, err := json.Marshal(record{TimestampMs: timestampMs, Points: f.Points[:]})
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n"))
	return err
}
