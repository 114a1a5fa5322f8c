// Package perf accumulates per-repetition metrics into rolling windows and
// session-level summaries.
package perf

// Window sizes for moving averages. Histories themselves are kept in full;
// the windows only bound how far back an average looks.
const (
	ExerciseWindow = 5
	SessionWindow  = 20
)

// Decline/improvement detection constants.
const (
	declineMinSamples = 6
	declineDropRatio  = 0.15
	improveMinSamples = 4
	improveGainFactor = 1.1
)

// Sample captures one completed repetition. Samples are never mutated after
// being recorded.
type Sample struct {
	RepTimeS      float64 `json:"rep_time_s"`
	AngleAchieved float64 `json:"angle_achieved"`
	HasAngle      bool    `json:"has_angle"`
	ROMRatio      float64 `json:"rom_ratio"`
	FormScore     float64 `json:"form_score"`
}

// SessionSummary aggregates a whole session for the host to render or
// persist once the user finishes.
type SessionSummary struct {
	DurationS        float64 `json:"duration_s"`
	TotalReps        int     `json:"total_reps"`
	SkippedExercises int     `json:"skipped_exercises"`
	AvgFormQuality   float64 `json:"avg_form_quality"`
	AvgROM           float64 `json:"avg_rom"`
	AdjustmentsMade  int     `json:"adjustments_made"`
}

// Aggregator holds the exercise-scoped and session-scoped repetition
// histories. The exercise history resets when the active exercise changes;
// the session history spans the whole workout.
type Aggregator struct {
	exercise []Sample
	session  []Sample
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Record appends a completed-rep sample to both histories.
func (a *Aggregator) Record(s Sample) {
	a.exercise = append(a.exercise, s)
	a.session = append(a.session, s)
}

// ResetExercise clears the exercise-scoped history on an exercise switch.
// The session history is retained for the final summary.
func (a *Aggregator) ResetExercise() {
	a.exercise = nil
}

// TotalReps returns the number of samples recorded across the session.
func (a *Aggregator) TotalReps() int {
	return len(a.session)
}

// tail returns the last n samples, or fewer if the history is shorter.
func tail(samples []Sample, n int) []Sample {
	if len(samples) > n {
		return samples[len(samples)-n:]
	}
	return samples
}

// mean averages f over the given samples. An empty history yields the
// neutral 1.0 so that "no data yet" never looks like "struggling."
func mean(samples []Sample, f func(Sample) float64) float64 {
	if len(samples) == 0 {
		return 1.0
	}
	var sum float64
	for _, s := range samples {
		sum += f(s)
	}
	return sum / float64(len(samples))
}

// RollingFormScore is the mean form score over the exercise window.
func (a *Aggregator) RollingFormScore() float64 {
	return mean(tail(a.exercise, ExerciseWindow), func(s Sample) float64 { return s.FormScore })
}

// RollingROM is the mean range-of-motion ratio over the exercise window.
func (a *Aggregator) RollingROM() float64 {
	return mean(tail(a.exercise, ExerciseWindow), func(s Sample) float64 { return s.ROMRatio })
}

// RollingRepTime is the mean rep duration in seconds over the exercise
// window; 0.0 when no reps exist yet.
func (a *Aggregator) RollingRepTime() float64 {
	window := tail(a.exercise, ExerciseWindow)
	if len(window) == 0 {
		return 0
	}
	return mean(window, func(s Sample) float64 { return s.RepTimeS })
}

// SessionFormScore is the mean form score over the session window.
func (a *Aggregator) SessionFormScore() float64 {
	return mean(tail(a.session, SessionWindow), func(s Sample) float64 { return s.FormScore })
}

// halvesMeans splits scores into first and second halves (integer floor
// split) and returns each half's mean.
func halvesMeans(scores []float64) (first, second float64) {
	half := len(scores) / 2
	var sumFirst, sumSecond float64
	for i, v := range scores {
		if i < half {
			sumFirst += v
		} else {
			sumSecond += v
		}
	}
	return sumFirst / float64(half), sumSecond / float64(len(scores)-half)
}

func (a *Aggregator) exerciseFormScores() []float64 {
	scores := make([]float64, len(a.exercise))
	for i, s := range a.exercise {
		scores[i] = s.FormScore
	}
	return scores
}

// IsDeclining reports whether form quality dropped by more than 15% between
// the first and second half of the exercise history. Requires at least 6
// samples; fatigue cannot be inferred from less.
func (a *Aggregator) IsDeclining() bool {
	scores := a.exerciseFormScores()
	if len(scores) < declineMinSamples {
		return false
	}
	first, second := halvesMeans(scores)
	if first <= 0 {
		return false
	}
	return (first-second)/first > declineDropRatio
}

// IsImproving reports whether form quality in the second half of the
// exercise history exceeds the first half by more than 10%.
func (a *Aggregator) IsImproving() bool {
	scores := a.exerciseFormScores()
	if len(scores) < improveMinSamples {
		return false
	}
	first, second := halvesMeans(scores)
	return second > first*improveGainFactor
}

// Summary builds the end-of-session summary from the full session log.
// Duration, skipped-exercise and adjustment counts are supplied by the
// session, which owns that bookkeeping.
func (a *Aggregator) Summary(durationS float64, skippedExercises, adjustmentsMade int) SessionSummary {
	summary := SessionSummary{
		DurationS:        durationS,
		TotalReps:        len(a.session),
		SkippedExercises: skippedExercises,
		AdjustmentsMade:  adjustmentsMade,
	}
	if len(a.session) > 0 {
		summary.AvgFormQuality = mean(a.session, func(s Sample) float64 { return s.FormScore })
		summary.AvgROM = mean(a.session, func(s Sample) float64 { return s.ROMRatio })
	}
	return summary
}
