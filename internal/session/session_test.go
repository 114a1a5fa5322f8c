package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/repcoach/internal/adapt"
	"github.com/ayusman/repcoach/internal/exercise"
	"github.com/ayusman/repcoach/internal/form"
	"github.com/ayusman/repcoach/internal/pose"
	"github.com/ayusman/repcoach/internal/rep"
	"github.com/ayusman/repcoach/testdata"
)

var kneeTriple = pose.JointTriple{Point1: pose.LeftHip, Vertex: pose.LeftKnee, Point3: pose.LeftAnkle}

// curlStyleConfig tracks a single-sided 160-to-60 degree movement with no
// form rules, so form stays neutral unless a test adds rules.
func curlStyleConfig(rules []form.Rule) *exercise.Config {
	return &exercise.Config{
		ID:            "test-curl",
		Name:          "Test Curl",
		MinConfidence: 0.6,
		RepTarget:     10,
		Rules:         rules,
		Tracking: exercise.AngleTracking{
			Primary: kneeTriple,
			Phase: rep.PhaseSpec{
				StartAngle:     160,
				StartTolerance: 20,
				PeakAngle:      60,
				PeakTolerance:  25,
				MinInterRepMs:  800,
			},
		},
	}
}

// run feeds one frame per angle at a fixed step and returns all outcomes.
func run(s *State, angles []float64, confidence float64, startMs, stepMs int64) []FrameOutcome {
	outcomes := make([]FrameOutcome, 0, len(angles))
	now := startMs
	for _, a := range angles {
		frame := testdata.FrameWithJointAngle(kneeTriple, a, confidence)
		outcomes = append(outcomes, s.ProcessFrame(&frame, now))
		now += stepMs
	}
	return outcomes
}

func TestProcessFrame_SingleRepScenario(t *testing.T) {
	s, err := New(curlStyleConfig(nil))
	require.NoError(t, err)

	outcomes := run(s, []float64{160, 160, 90, 60, 60, 90, 160}, 0.95, 0, 200)

	wantPhases := []rep.Phase{
		rep.PhaseReady, rep.PhaseReady, rep.PhaseContracting,
		rep.PhasePeak, rep.PhasePeak, rep.PhaseReturning, rep.PhaseReady,
	}
	for i, out := range outcomes {
		assert.Equalf(t, wantPhases[i], out.Phase, "frame %d phase", i)
		assert.True(t, out.HasAngle, "all frames carry full confidence")
		assert.Equal(t, QualityGood, out.Quality, "no rules means neutral form")
	}

	final := outcomes[len(outcomes)-1]
	require.True(t, final.RepCompleted)
	assert.Equal(t, 1, final.RepCount)
	require.NotNil(t, final.Sample)
	assert.InDelta(t, 60, final.Sample.AngleAchieved, 1e-6)
	assert.InDelta(t, 1.0, final.Sample.ROMRatio, 1e-6)
	require.NotNil(t, final.Recommendation)
	assert.Equal(t, adapt.TrendSteady, final.Recommendation.Trend)
	assert.Equal(t, 1, s.RepCount())
}

func TestProcessFrame_OcclusionResilience(t *testing.T) {
	s, err := New(curlStyleConfig(nil))
	require.NoError(t, err)

	now := int64(0)
	step := int64(200)
	feedOne := func(angle, confidence float64) FrameOutcome {
		frame := testdata.FrameWithJointAngle(kneeTriple, angle, confidence)
		out := s.ProcessFrame(&frame, now)
		now += step
		return out
	}

	feedOne(160, 0.95)
	feedOne(90, 0.95)
	feedOne(60, 0.95) // peak reached

	// Two occluded frames mid-cycle: the machine must hold in place.
	for i := 0; i < 2; i++ {
		out := feedOne(0, 0.2)
		assert.False(t, out.HasAngle)
		assert.Equal(t, rep.PhasePeak, out.Phase, "occlusion must not advance or reset the machine")
	}

	feedOne(90, 0.95)
	final := feedOne(160, 0.95)

	require.True(t, final.RepCompleted, "the in-progress rep survives occlusion")
	assert.Equal(t, 1, final.RepCount)
}

func TestProcessFrame_Deterministic(t *testing.T) {
	angles := []float64{160, 120, 80, 60, 75, 120, 160, 160, 100, 60, 95, 160}

	s1, err := New(curlStyleConfig(nil))
	require.NoError(t, err)
	s2, err := New(curlStyleConfig(nil))
	require.NoError(t, err)

	first := run(s1, angles, 0.95, 0, 250)
	second := run(s2, angles, 0.95, 0, 250)

	require.Equal(t, first, second, "identical frame sequences must yield identical outcomes")
}

func TestProcessFrame_NoTrackingDegradesToFormOnly(t *testing.T) {
	cfg := &exercise.Config{
		ID:            "plank",
		Name:          "Plank",
		MinConfidence: 0.5,
		RepTarget:     1,
		Rules:         []form.Rule{{Check: form.CheckSpineAlignment}},
		Tracking:      exercise.TimerTracking{Seconds: 30},
	}
	s, err := New(cfg)
	require.NoError(t, err)

	frame := testdata.StandingFrame()
	out := s.ProcessFrame(&frame, 0)

	assert.Empty(t, out.Phase, "no phase without angle tracking")
	assert.False(t, out.RepCompleted)
	assert.False(t, out.HasAngle)
	assert.Equal(t, QualityGood, out.Quality, "form checks still run")
	assert.Zero(t, s.RepCount())
}

// driveRep completes one full movement cycle whose frames carry a controlled
// shoulder height difference, pinning the form score recorded for the rep.
func driveRep(t *testing.T, s *State, startMs int64, shoulderDelta float64) FrameOutcome {
	t.Helper()

	now := startMs
	var last FrameOutcome
	for _, a := range []float64{160, 100, 60, 100, 160} {
		frame := testdata.FrameWithJointAngle(kneeTriple, a, 0.95)
		frame.Points[pose.LeftShoulder] = pose.Landmark{X: 0.4, Y: 0.25, Confidence: 0.95}
		frame.Points[pose.RightShoulder] = pose.Landmark{X: 0.6, Y: 0.25 + shoulderDelta, Confidence: 0.95}
		last = s.ProcessFrame(&frame, now)
		now += 200
	}
	require.True(t, last.RepCompleted, "cycle must complete a rep")
	return last
}

func TestProcessFrame_FatigueDetection(t *testing.T) {
	cfg := curlStyleConfig([]form.Rule{{Check: form.CheckShoulderLevel}})
	s, err := New(cfg)
	require.NoError(t, err)

	// Shoulder deltas chosen so the recorded form scores decline:
	// score = 1 - delta/0.15 -> 0.9, 0.9, 0.9, 0.5, 0.4, 0.3.
	deltas := []float64{0.015, 0.015, 0.015, 0.075, 0.09, 0.105}

	var last FrameOutcome
	start := int64(0)
	for _, d := range deltas {
		last = driveRep(t, s, start, d)
		start += 1200
	}

	require.NotNil(t, last.Recommendation)
	assert.Equal(t, adapt.TrendFatigued, last.Recommendation.Trend)
	assert.True(t, last.Recommendation.SuggestRest)
	assert.Equal(t, 20, last.Recommendation.RestSeconds)
	assert.Equal(t, QualityPoor, last.Quality)
	assert.NotEmpty(t, last.Message)
}

func TestSwitchExerciseAndSummary(t *testing.T) {
	s, err := New(curlStyleConfig(nil))
	require.NoError(t, err)

	run(s, []float64{160, 100, 60, 100, 160}, 0.95, 0, 300)
	require.Equal(t, 1, s.RepCount())

	// Switch resets the tracker but keeps the session history.
	next := curlStyleConfig(nil)
	next.ID = "test-raise"
	require.NoError(t, s.SwitchExercise(next))
	assert.Zero(t, s.RepCount())

	run(s, []float64{160, 100, 60, 100, 160}, 0.95, 2000, 300)
	s.SkipExercise()

	summary := s.Summary()
	assert.Equal(t, 2, summary.TotalReps)
	assert.Equal(t, 1, summary.SkippedExercises)
	assert.InDelta(t, 3.2, summary.DurationS, 1e-9, "duration spans first to last frame")
	assert.InDelta(t, 1.0, summary.AvgROM, 1e-6)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := curlStyleConfig(nil)
	at := cfg.Tracking.(exercise.AngleTracking)
	at.Phase.PeakAngle = at.Phase.StartAngle
	cfg.Tracking = at

	_, err := New(cfg)
	require.Error(t, err)
}
