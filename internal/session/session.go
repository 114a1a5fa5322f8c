// Package session owns the per-session tracking state and turns landmark
// frames into form feedback, rep events and adjustment recommendations.
package session

import (
	"github.com/ayusman/repcoach/internal/adapt"
	"github.com/ayusman/repcoach/internal/exercise"
	"github.com/ayusman/repcoach/internal/form"
	"github.com/ayusman/repcoach/internal/perf"
	"github.com/ayusman/repcoach/internal/pose"
	"github.com/ayusman/repcoach/internal/rep"
)

// FormQuality classifies a frame's overall form score for the host UI.
type FormQuality string

const (
	QualityGood            FormQuality = "good"
	QualityNeedsCorrection FormQuality = "needs_correction"
	QualityPoor            FormQuality = "poor"
)

// Quality thresholds over the average form score.
const (
	goodScoreMin       = 0.8
	correctionScoreMin = 0.5
)

func classify(score float64) FormQuality {
	switch {
	case score >= goodScoreMin:
		return QualityGood
	case score >= correctionScoreMin:
		return QualityNeedsCorrection
	default:
		return QualityPoor
	}
}

// FrameOutcome is the per-frame result the host interprets; the engine
// returns values instead of firing callbacks so it stays embeddable in any
// host (UI, CLI, batch replay).
type FrameOutcome struct {
	ExerciseID  string      `json:"exercise_id"`
	TimestampMs int64       `json:"timestamp_ms"`
	Quality     FormQuality `json:"quality"`
	FormScore   float64     `json:"form_score"`
	Message     string      `json:"message,omitempty"`
	Angle       float64     `json:"angle,omitempty"`
	HasAngle    bool        `json:"has_angle"`
	// Phase is empty when the exercise has no angle tracking and rep
	// detection is unavailable.
	Phase        rep.Phase `json:"phase,omitempty"`
	RepCompleted bool      `json:"rep_completed"`
	RepCount     int       `json:"rep_count"`

	// Set only when RepCompleted is true.
	Sample         *perf.Sample          `json:"sample,omitempty"`
	Recommendation *adapt.Recommendation `json:"recommendation,omitempty"`
}

// State is the engine for one workout session. It is mutated only by
// ProcessFrame and the explicit exercise-switch calls, and must be driven
// from a single logical thread of control; a host with a parallel frame
// pipeline has to serialize calls itself.
type State struct {
	cfg     *exercise.Config
	tracker *rep.Tracker
	agg     *perf.Aggregator

	repTarget   int
	started     bool
	startedMs   int64
	lastMs      int64
	skipped     int
	adjustments int
}

// New creates session state for the given starting exercise.
func New(cfg *exercise.Config) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &State{agg: perf.NewAggregator()}
	s.apply(cfg)
	return s, nil
}

func (s *State) apply(cfg *exercise.Config) {
	s.cfg = cfg
	s.repTarget = cfg.RepTarget
	if at, ok := cfg.Angle(); ok {
		s.tracker = rep.NewTracker(at.Phase)
	} else {
		// No angle tracking: degrade to form checking only. The host
		// falls back to manual rep entry.
		s.tracker = nil
	}
}

// Exercise returns the active exercise config.
func (s *State) Exercise() *exercise.Config {
	return s.cfg
}

// RepCount returns completed reps for the active exercise.
func (s *State) RepCount() int {
	if s.tracker == nil {
		return 0
	}
	return s.tracker.RepCount()
}

// RepTarget returns the current rep target for the active exercise.
func (s *State) RepTarget() int {
	return s.repTarget
}

// SwitchExercise resets the tracker and the exercise-scoped rolling window
// for a new exercise. The session-scoped history is retained. The switch is
// synchronous; there is no in-flight work to cancel.
func (s *State) SwitchExercise(cfg *exercise.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.apply(cfg)
	s.agg.ResetExercise()
	return nil
}

// SkipExercise records that the user skipped the active exercise.
func (s *State) SkipExercise() {
	s.skipped++
}

// ProcessFrame consumes one landmark frame with its monotonic timestamp and
// returns everything the host needs to render or narrate. It is synchronous,
// never blocks, and is deterministic for a given (frame, timestamp) sequence.
func (s *State) ProcessFrame(f *pose.Frame, tsMs int64) FrameOutcome {
	if !s.started {
		s.started = true
		s.startedMs = tsMs
	}
	s.lastMs = tsMs

	checks := form.RunChecks(f, s.cfg.Rules)
	out := FrameOutcome{
		ExerciseID:  s.cfg.ID,
		TimestampMs: tsMs,
		Quality:     classify(checks.Score),
		FormScore:   checks.Score,
	}
	if !checks.Worst.Pass {
		out.Message = checks.Worst.Message
	}

	at, ok := s.cfg.Angle()
	if !ok || s.tracker == nil {
		return out
	}

	out.Phase = s.tracker.Phase()
	out.RepCount = s.tracker.RepCount()

	var secondary *pose.JointTriple
	if at.Phase.Bilateral {
		secondary = at.Secondary
	}
	angle, resolved := pose.ResolveBilateralAngle(f, at.Primary, secondary, s.cfg.MinConfidence)
	if !resolved {
		// Occlusion holds the state machine in place; a brief dropout
		// must not lose an in-progress rep.
		return out
	}
	out.Angle = angle
	out.HasAngle = true

	ev := s.tracker.Update(angle, tsMs)
	out.Phase = s.tracker.Phase()
	out.RepCount = s.tracker.RepCount()
	if !ev.RepCompleted {
		return out
	}

	sample := perf.Sample{
		RepTimeS:  float64(ev.RepTimeMs) / 1000,
		FormScore: checks.Score,
		ROMRatio:  1,
	}
	if ev.HasPeak {
		sample.AngleAchieved = ev.PeakAngle
		sample.HasAngle = true
		sample.ROMRatio = adapt.ROMRatio(ev.PeakAngle, at.Phase.PeakAngle)
	}
	s.agg.Record(sample)

	rec := adapt.Recommend(adapt.Stats{
		ROMRatio:  s.agg.RollingROM(),
		FormScore: s.agg.RollingFormScore(),
		Declining: s.agg.IsDeclining(),
		Improving: s.agg.IsImproving(),
	}, s.repTarget)
	if rec.Adjusts() {
		s.adjustments++
	}

	out.RepCompleted = true
	out.Sample = &sample
	out.Recommendation = &rec
	return out
}

// Summary aggregates the whole session from the session-scoped history.
func (s *State) Summary() perf.SessionSummary {
	var durationS float64
	if s.started {
		durationS = float64(s.lastMs-s.startedMs) / 1000
	}
	return s.agg.Summary(durationS, s.skipped, s.adjustments)
}
