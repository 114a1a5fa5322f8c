// Package rep detects exercise repetitions from a per-frame joint angle
// stream using a phase state machine with hysteresis.
package rep

import (
	"fmt"
	"math"
)

// Phase represents the tracker's position within a repetition cycle.
type Phase string

const (
	// PhaseNeutral is the initial state before the user reaches the
	// start position.
	PhaseNeutral Phase = "neutral"
	// PhaseReady means the user is holding the start position.
	PhaseReady Phase = "ready"
	// PhaseContracting means the angle is moving from start toward peak.
	PhaseContracting Phase = "contracting"
	// PhasePeak means the angle is inside the peak tolerance band.
	PhasePeak Phase = "peak"
	// PhaseReturning means the angle is moving from peak back to start.
	PhaseReturning Phase = "returning"
)

// DefaultMinInterRepMs guards against double-counting a rep from sensor
// jitter near the start band.
const DefaultMinInterRepMs = 800

// PhaseSpec describes the angular movement of one exercise.
type PhaseSpec struct {
	StartAngle     float64 `json:"start_angle" toml:"start_angle"`
	StartTolerance float64 `json:"start_tolerance" toml:"start_tolerance"`
	PeakAngle      float64 `json:"peak_angle" toml:"peak_angle"`
	PeakTolerance  float64 `json:"peak_tolerance" toml:"peak_tolerance"`
	Bilateral      bool    `json:"bilateral" toml:"bilateral"`
	MinInterRepMs  int64   `json:"min_inter_rep_ms" toml:"min_inter_rep_ms"`
}

// Validate checks the spec is usable; the contraction direction is derived
// from the sign of PeakAngle - StartAngle, so the two must differ.
func (s PhaseSpec) Validate() error {
	if s.StartAngle == s.PeakAngle {
		return fmt.Errorf("start angle and peak angle must differ (both %.1f)", s.StartAngle)
	}
	if s.StartTolerance <= 0 || s.PeakTolerance <= 0 {
		return fmt.Errorf("tolerances must be positive")
	}
	return nil
}

// direction returns +1 when contraction increases the angle, -1 otherwise.
func (s PhaseSpec) direction() float64 {
	if s.PeakAngle > s.StartAngle {
		return 1
	}
	return -1
}

// Event reports the outcome of one tracker update.
type Event struct {
	RepCompleted bool
	RepCount     int
	RepTimeMs    int64
	PeakAngle    float64
	HasPeak      bool
}

// Tracker is the per-exercise phase state machine. It is owned by a single
// session and must only be updated from one logical thread of control.
type Tracker struct {
	spec PhaseSpec

	phase     Phase
	lastAngle float64
	hasLast   bool
	peakSeen  float64
	hasPeak   bool

	phaseEnteredMs int64
	repStartedMs   int64
	lastRepMs      int64
	repCount       int
}

// NewTracker creates a tracker in the Neutral phase. The spec should already
// be validated; MinInterRepMs falls back to the default when unset.
func NewTracker(spec PhaseSpec) *Tracker {
	if spec.MinInterRepMs <= 0 {
		spec.MinInterRepMs = DefaultMinInterRepMs
	}
	t := &Tracker{spec: spec}
	t.Reset()
	return t
}

// Reset returns the tracker to the Neutral phase, clearing all movement
// state. Rep count restarts at zero; used when the exercise switches.
func (t *Tracker) Reset() {
	t.phase = PhaseNeutral
	t.hasLast = false
	t.hasPeak = false
	t.phaseEnteredMs = 0
	t.repStartedMs = 0
	t.lastRepMs = math.MinInt64 / 2
	t.repCount = 0
}

// Phase returns the current phase.
func (t *Tracker) Phase() Phase {
	return t.phase
}

// RepCount returns the number of completed repetitions since the last reset.
func (t *Tracker) RepCount() int {
	return t.repCount
}

func (t *Tracker) nearStart(a float64) bool {
	return math.Abs(a-t.spec.StartAngle) <= t.spec.StartTolerance
}

func (t *Tracker) nearPeak(a float64) bool {
	return math.Abs(a-t.spec.PeakAngle) <= t.spec.PeakTolerance
}

// movingTowardPeak reports whether the angle moved in the contraction
// direction since the previous resolved frame.
func (t *Tracker) movingTowardPeak(a float64) bool {
	return t.hasLast && (a-t.lastAngle)*t.spec.direction() > 0
}

func (t *Tracker) enter(phase Phase, nowMs int64) {
	t.phase = phase
	t.phaseEnteredMs = nowMs
}

// Update advances the state machine with one resolved angle. Frames whose
// angle did not resolve must simply not be passed in: an occluded frame holds
// the machine in place rather than aborting an in-progress rep.
func (t *Tracker) Update(angle float64, nowMs int64) Event {
	event := Event{RepCount: t.repCount}

	switch t.phase {
	case PhaseNeutral:
		if t.nearStart(angle) {
			t.enter(PhaseReady, nowMs)
		}

	case PhaseReady:
		if !t.nearStart(angle) && t.movingTowardPeak(angle) {
			t.repStartedMs = nowMs
			t.enter(PhaseContracting, nowMs)
		}

	case PhaseContracting:
		if t.nearPeak(angle) {
			t.peakSeen = angle
			t.hasPeak = true
			t.enter(PhasePeak, nowMs)
		} else if t.nearStart(angle) {
			// Never reached the peak band: abort, no rep.
			t.enter(PhaseReady, nowMs)
		}

	case PhasePeak:
		if t.hasPeak && (angle-t.peakSeen)*t.spec.direction() > 0 {
			// Track the deepest angle reached within the band.
			t.peakSeen = angle
		}
		if t.hasLast && (angle-t.lastAngle)*t.spec.direction() < 0 {
			t.enter(PhaseReturning, nowMs)
		}

	case PhaseReturning:
		if t.nearPeak(angle) {
			t.enter(PhasePeak, nowMs)
		} else if t.nearStart(angle) && nowMs-t.lastRepMs > t.spec.MinInterRepMs {
			t.repCount++
			t.lastRepMs = nowMs
			event.RepCompleted = true
			event.RepCount = t.repCount
			event.RepTimeMs = nowMs - t.repStartedMs
			event.PeakAngle = t.peakSeen
			event.HasPeak = t.hasPeak
			t.hasPeak = false
			t.enter(PhaseReady, nowMs)
		}
	}

	t.lastAngle = angle
	t.hasLast = true
	return event
}
