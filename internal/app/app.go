// Package app wires the frame source, session engine, store and event
// consumers into the tracking pipeline.
package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ayusman/repcoach/internal/exercise"
	"github.com/ayusman/repcoach/internal/perf"
	"github.com/ayusman/repcoach/internal/session"
	"github.com/ayusman/repcoach/internal/source"
	"github.com/ayusman/repcoach/internal/store"
)

// Config holds configuration options for the application.
type Config struct {
	Store      *store.Store
	Catalog    *exercise.Catalog
	ExerciseID string
	Source     source.Source
	Logger     *logrus.Logger
}

// App drives frames from the source through the session engine, persists
// completed reps and forwards every outcome to registered consumers. The
// engine itself is single-writer; all access to it is serialized through
// the app mutex.
type App struct {
	config Config
	log    *logrus.Logger

	mu         sync.Mutex
	state      *session.State
	sessionID  string
	stopCh     chan struct{}
	doneCh     chan struct{}
	finishOnce *sync.Once

	onOutcome func(session.FrameOutcome)
}

// New creates a new App instance with the given configuration.
func New(config Config) (*App, error) {
	if config.Catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if config.Source == nil {
		return nil, fmt.Errorf("frame source is required")
	}

	cfg, ok := config.Catalog.Get(config.ExerciseID)
	if !ok {
		return nil, fmt.Errorf("unknown exercise %q", config.ExerciseID)
	}

	state, err := session.New(cfg)
	if err != nil {
		return nil, err
	}

	log := config.Logger
	if log == nil {
		log = logrus.New()
	}

	return &App{
		config: config,
		log:    log,
		state:  state,
	}, nil
}

// OnOutcome registers a consumer invoked for every processed frame. Must be
// called before Start.
func (a *App) OnOutcome(fn func(session.FrameOutcome)) {
	a.onOutcome = fn
}

// SessionID returns the persisted session id, empty until Start.
func (a *App) SessionID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessionID
}

// Start begins the tracking pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	a.sessionID = uuid.New().String()
	a.finishOnce = &sync.Once{}

	if a.config.Store != nil {
		err := a.config.Store.Sessions().Create(&store.Session{
			ID:          a.sessionID,
			ExerciseID:  a.state.Exercise().ID,
			StartedAtMs: time.Now().UnixMilli(),
		})
		if err != nil {
			return fmt.Errorf("failed to create session record: %w", err)
		}
	}

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	a.log.WithFields(logrus.Fields{
		"session":  a.sessionID,
		"exercise": a.state.Exercise().ID,
	}).Info("Tracking pipeline started")
	return nil
}

// Stop halts the pipeline, persists the session summary and releases the
// frame source.
func (a *App) Stop() {
	a.mu.Lock()
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}
	done := a.doneCh
	a.mu.Unlock()

	if done != nil {
		<-done
	}

	a.finish()

	if err := a.config.Source.Close(); err != nil {
		a.log.WithError(err).Warn("Error closing frame source")
	}
	a.log.Info("Tracking pipeline stopped")
}

// Wait blocks until the pipeline drains its source, as in replay mode, or
// is stopped. The session summary is persisted before Wait returns.
func (a *App) Wait() {
	a.mu.Lock()
	done := a.doneCh
	a.mu.Unlock()
	if done != nil {
		<-done
	}
	a.finish()
}

// SwitchExercise resets the engine onto a different exercise mid-session.
func (a *App) SwitchExercise(id string) error {
	cfg, ok := a.config.Catalog.Get(id)
	if !ok {
		return fmt.Errorf("unknown exercise %q", id)
	}

	a.mu.Lock()
	err := a.state.SwitchExercise(cfg)
	a.mu.Unlock()
	if err != nil {
		return err
	}

	a.log.WithField("exercise", id).Info("Switched exercise")
	return nil
}

// SkipExercise marks the active exercise as skipped and switches to the
// given one.
func (a *App) SkipExercise(nextID string) error {
	a.mu.Lock()
	a.state.SkipExercise()
	a.mu.Unlock()
	return a.SwitchExercise(nextID)
}

// Summary returns the session summary as of the last processed frame.
func (a *App) Summary() perf.SessionSummary {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.Summary()
}

// finish persists the final summary exactly once per started session.
func (a *App) finish() {
	a.mu.Lock()
	once := a.finishOnce
	a.mu.Unlock()
	if once == nil {
		return
	}

	once.Do(func() {
		a.mu.Lock()
		summary := a.state.Summary()
		id := a.sessionID
		a.mu.Unlock()

		if a.config.Store != nil {
			if err := a.config.Store.Sessions().Finish(id, time.Now().UnixMilli(), summary); err != nil {
				a.log.WithError(err).Error("Failed to persist session summary")
			}
		}

		a.log.WithFields(logrus.Fields{
			"session":     id,
			"total_reps":  summary.TotalReps,
			"avg_form":    summary.AvgFormQuality,
			"avg_rom":     summary.AvgROM,
			"adjustments": summary.AdjustmentsMade,
		}).Info("Session finished")
	})
}
