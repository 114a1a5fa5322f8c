// Package adapt turns rolling performance statistics into difficulty
// adjustment recommendations.
package adapt

import "math"

// Trend classifies recent performance.
type Trend string

const (
	TrendStruggling Trend = "struggling"
	TrendImproving  Trend = "improving"
	TrendSteady     Trend = "steady"
	TrendExcelling  Trend = "excelling"
	TrendFatigued   Trend = "fatigued"
)

// CueKind identifies an advisory cue for the narration collaborator.
type CueKind string

const (
	CueFormFocus     CueKind = "form_focus"
	CueEncouragement CueKind = "encouragement"
	CueRest          CueKind = "rest"
)

// Decision thresholds. These values are tuned for behavioral parity and must
// not be re-derived.
const (
	strugglingROMBelow   = 0.7
	strugglingFormBelow  = 0.5
	excellingROMAbove    = 1.1
	excellingFormAbove   = 0.8
	mildFormBelow        = 0.8
	struggleAngleFactor  = 0.85
	struggleRepFactor    = 0.75
	excelAngleFactor     = 1.10
	excelRepFactor       = 1.20
	fatigueRepFactor     = 0.75
	fatigueRestSeconds   = 20
	minRepTarget         = 3
	maxRepTarget         = 20
)

// Stats is the engine's input, computed from the aggregator at the moment
// the last rep completed.
type Stats struct {
	ROMRatio  float64
	FormScore float64
	Declining bool
	Improving bool
}

// Recommendation is the engine's structured output. It is recomputed from
// scratch on every completed rep, never accumulated.
type Recommendation struct {
	AngleModifier float64 `json:"angle_modifier"`
	RepModifier   float64 `json:"rep_modifier"`
	SuggestedReps int     `json:"suggested_reps"`
	SuggestRest   bool    `json:"suggest_rest"`
	RestSeconds   int     `json:"rest_seconds"`
	Trend         Trend   `json:"trend"`
	Cue           CueKind `json:"cue,omitempty"`
}

// Adjusts reports whether the recommendation changes targets or asks for
// rest, as opposed to being purely informational.
func (r Recommendation) Adjusts() bool {
	return r.AngleModifier != 1 || r.RepModifier != 1 || r.SuggestRest
}

// ROMRatio computes achieved/target range of motion. A zero target yields
// the neutral 1.0 rather than dividing by zero.
func ROMRatio(achieved, target float64) float64 {
	if target == 0 {
		return 1.0
	}
	return achieved / target
}

func scaleReps(current int, factor float64) int {
	scaled := int(math.Round(float64(current) * factor))
	if scaled < minRepTarget {
		return minRepTarget
	}
	if scaled > maxRepTarget {
		return maxRepTarget
	}
	return scaled
}

// Recommend maps the current rolling statistics to an adjustment. The
// branches are priority-ordered; the first match wins.
func Recommend(s Stats, currentRepTarget int) Recommendation {
	rec := Recommendation{
		AngleModifier: 1,
		RepModifier:   1,
		SuggestedReps: currentRepTarget,
		Trend:         TrendSteady,
	}

	switch {
	case s.ROMRatio < strugglingROMBelow || s.FormScore < strugglingFormBelow:
		rec.AngleModifier = struggleAngleFactor
		rec.RepModifier = struggleRepFactor
		rec.SuggestedReps = scaleReps(currentRepTarget, struggleRepFactor)
		rec.Trend = TrendStruggling
		rec.Cue = CueFormFocus

	case s.ROMRatio > excellingROMAbove && s.FormScore > excellingFormAbove:
		rec.AngleModifier = excelAngleFactor
		rec.RepModifier = excelRepFactor
		rec.SuggestedReps = scaleReps(currentRepTarget, excelRepFactor)
		rec.Trend = TrendExcelling

	case s.Declining:
		rec.SuggestRest = true
		rec.RestSeconds = fatigueRestSeconds
		rec.RepModifier = fatigueRepFactor
		rec.SuggestedReps = scaleReps(currentRepTarget, fatigueRepFactor)
		rec.Trend = TrendFatigued
		rec.Cue = CueRest

	case s.FormScore < mildFormBelow:
		// Form is slipping but not enough to change targets; advisory
		// cue only.
		rec.Cue = CueFormFocus

	case s.Improving:
		rec.Trend = TrendImproving
		rec.Cue = CueEncouragement
	}

	return rec
}
