package perf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func recordScores(a *Aggregator, scores ...float64) {
	for _, s := range scores {
		a.Record(Sample{FormScore: s, ROMRatio: 1, RepTimeS: 2})
	}
}

func TestAggregator_EmptyHistoryIsNeutral(t *testing.T) {
	a := NewAggregator()

	assert.Equal(t, 1.0, a.RollingFormScore(), "no data must never look like struggling")
	assert.Equal(t, 1.0, a.RollingROM())
	assert.Equal(t, 0.0, a.RollingRepTime())
	assert.Zero(t, a.TotalReps())
}

func TestAggregator_RollingWindowLastFive(t *testing.T) {
	a := NewAggregator()
	// Six old poor reps followed by five perfect ones: only the window
	// counts toward the rolling average.
	recordScores(a, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2)
	recordScores(a, 1, 1, 1, 1, 1)

	assert.Equal(t, 1.0, a.RollingFormScore())
	assert.Equal(t, 11, a.TotalReps())
}

func TestAggregator_IsDeclining(t *testing.T) {
	a := NewAggregator()
	recordScores(a, 0.9, 0.9, 0.9, 0.5, 0.4, 0.3)

	assert.True(t, a.IsDeclining())
	assert.False(t, a.IsImproving())
}

func TestAggregator_IsDeclining_RequiresSixSamples(t *testing.T) {
	a := NewAggregator()
	recordScores(a, 0.9, 0.9, 0.3, 0.2, 0.2)

	assert.False(t, a.IsDeclining(), "five samples are not enough to call fatigue")
}

func TestAggregator_IsDeclining_SmallDropIgnored(t *testing.T) {
	a := NewAggregator()
	// Relative drop of 10%, under the 15% threshold.
	recordScores(a, 0.9, 0.9, 0.9, 0.81, 0.81, 0.81)

	assert.False(t, a.IsDeclining())
}

func TestAggregator_IsImproving(t *testing.T) {
	a := NewAggregator()
	recordScores(a, 0.5, 0.5, 0.8, 0.9)

	assert.True(t, a.IsImproving())
	assert.False(t, a.IsDeclining())
}

func TestAggregator_IsImproving_RequiresFourSamples(t *testing.T) {
	a := NewAggregator()
	recordScores(a, 0.5, 0.9)

	assert.False(t, a.IsImproving())
}

func TestAggregator_ResetExerciseKeepsSession(t *testing.T) {
	a := NewAggregator()
	recordScores(a, 0.9, 0.8, 0.7)

	a.ResetExercise()

	assert.Equal(t, 1.0, a.RollingFormScore(), "exercise window resets to neutral")
	assert.Equal(t, 3, a.TotalReps(), "session log survives an exercise switch")
}

func TestAggregator_Summary(t *testing.T) {
	a := NewAggregator()
	a.Record(Sample{FormScore: 0.8, ROMRatio: 0.9, RepTimeS: 2})
	a.Record(Sample{FormScore: 0.6, ROMRatio: 1.1, RepTimeS: 3})

	summary := a.Summary(120, 1, 2)

	assert.Equal(t, 120.0, summary.DurationS)
	assert.Equal(t, 2, summary.TotalReps)
	assert.Equal(t, 1, summary.SkippedExercises)
	assert.Equal(t, 2, summary.AdjustmentsMade)
	assert.InDelta(t, 0.7, summary.AvgFormQuality, 1e-9)
	assert.InDelta(t, 1.0, summary.AvgROM, 1e-9)
}

func TestAggregator_EmptySummary(t *testing.T) {
	a := NewAggregator()
	summary := a.Summary(0, 0, 0)

	assert.Zero(t, summary.TotalReps)
	assert.Zero(t, summary.AvgFormQuality)
	assert.Zero(t, summary.AvgROM)
}
