package app

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ayusman/repcoach/internal/session"
	"github.com/ayusman/repcoach/internal/store"
)

// runPipeline is the frame processing loop. It reads frames until the source
// drains or stop is closed, feeding each frame through the engine.
func (a *App) runPipeline(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case <-stop:
			return
		default:
		}

		frame, ts, err := a.config.Source.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				a.log.WithError(err).Error("Frame source failed")
			}
			return
		}

		a.mu.Lock()
		outcome := a.state.ProcessFrame(frame, ts)
		a.mu.Unlock()

		if outcome.RepCompleted {
			a.recordRep(outcome)
		}
		if outcome.Recommendation != nil && outcome.Recommendation.Adjusts() {
			a.log.WithFields(logrus.Fields{
				"exercise":       outcome.ExerciseID,
				"trend":          outcome.Recommendation.Trend,
				"suggested_reps": outcome.Recommendation.SuggestedReps,
				"rest":           outcome.Recommendation.SuggestRest,
			}).Info("Difficulty adjusted")
		}

		if a.onOutcome != nil {
			a.onOutcome(outcome)
		}
	}
}

// recordRep persists one completed repetition and logs it.
func (a *App) recordRep(outcome session.FrameOutcome) {
	a.log.WithFields(logrus.Fields{
		"exercise": outcome.ExerciseID,
		"rep":      outcome.RepCount,
		"form":     outcome.FormScore,
	}).Info("Repetition completed")

	if a.config.Store == nil || outcome.Sample == nil {
		return
	}

	rep := &store.Rep{
		SessionID:     a.SessionID(),
		ExerciseID:    outcome.ExerciseID,
		RepIndex:      outcome.RepCount,
		RepTimeS:      outcome.Sample.RepTimeS,
		AngleAchieved: outcome.Sample.AngleAchieved,
		HasAngle:      outcome.Sample.HasAngle,
		ROMRatio:      outcome.Sample.ROMRatio,
		FormScore:     outcome.Sample.FormScore,
		CompletedAtMs: outcome.TimestampMs,
	}
	if outcome.Recommendation != nil {
		rep.Trend = string(outcome.Recommendation.Trend)
	}

	if err := a.config.Store.Reps().Create(rep); err != nil {
		a.log.WithError(err).Error("Failed to persist rep")
	}
}
