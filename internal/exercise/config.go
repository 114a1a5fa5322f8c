// Package exercise defines per-exercise tracking configuration consumed by
// the session engine.
package exercise

import (
	"fmt"

	"github.com/ayusman/repcoach/internal/form"
	"github.com/ayusman/repcoach/internal/pose"
	"github.com/ayusman/repcoach/internal/rep"
)

// Kind tags the tracking strategy of an exercise.
type Kind string

const (
	// KindAngle tracks repetitions through a joint angle cycle.
	KindAngle Kind = "angle"
	// KindRotation tracks body rotation around a pivot landmark.
	KindRotation Kind = "rotation"
	// KindTimer tracks a timed hold (e.g. plank).
	KindTimer Kind = "timer"
	// KindManual leaves rep counting to the user.
	KindManual Kind = "manual"
)

// Tracking is a closed sum over the supported tracking strategies.
// Unsupported combinations fail at construction, not at runtime lookup.
type Tracking interface {
	Kind() Kind
	sealed()
}

// AngleTracking drives the rep phase state machine from a joint angle.
type AngleTracking struct {
	Primary   pose.JointTriple
	Secondary *pose.JointTriple
	Phase     rep.PhaseSpec
}

func (AngleTracking) Kind() Kind { return KindAngle }
func (AngleTracking) sealed()    {}

// RotationTracking measures rotation of a reference landmark around a pivot.
// Rep detection is not derived from rotation; sessions degrade to
// form-checking only.
type RotationTracking struct {
	Pivot         int
	Reference     int
	TargetDegrees float64
}

func (RotationTracking) Kind() Kind { return KindRotation }
func (RotationTracking) sealed()    {}

// TimerTracking describes a timed hold.
type TimerTracking struct {
	Seconds int
}

func (TimerTracking) Kind() Kind { return KindTimer }
func (TimerTracking) sealed()    {}

// ManualTracking means the host collects rep counts from the user.
type ManualTracking struct{}

func (ManualTracking) Kind() Kind { return KindManual }
func (ManualTracking) sealed()    {}

// Config is the immutable per-exercise tracking configuration. The engine
// consumes it and never mutates it.
type Config struct {
	ID            string
	Name          string
	MinConfidence float64
	RepTarget     int
	Rules         []form.Rule
	Tracking      Tracking
}

// Angle returns the angle tracking strategy if this exercise has one.
func (c *Config) Angle() (AngleTracking, bool) {
	at, ok := c.Tracking.(AngleTracking)
	return at, ok
}

// Validate checks the config is internally consistent.
func (c *Config) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("exercise id is required")
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("exercise %q: min confidence %.2f outside [0,1]", c.ID, c.MinConfidence)
	}
	for _, rule := range c.Rules {
		if _, ok := form.CheckByName(rule.Check); !ok {
			return fmt.Errorf("exercise %q: unknown form check %q", c.ID, rule.Check)
		}
	}

	switch tr := c.Tracking.(type) {
	case AngleTracking:
		if !tr.Primary.Valid() {
			return fmt.Errorf("exercise %q: invalid primary joint triple", c.ID)
		}
		if tr.Secondary != nil && !tr.Secondary.Valid() {
			return fmt.Errorf("exercise %q: invalid secondary joint triple", c.ID)
		}
		if tr.Phase.Bilateral && tr.Secondary == nil {
			return fmt.Errorf("exercise %q: bilateral tracking requires a secondary joint triple", c.ID)
		}
		if err := tr.Phase.Validate(); err != nil {
			return fmt.Errorf("exercise %q: %w", c.ID, err)
		}
	case RotationTracking:
		for _, idx := range []int{tr.Pivot, tr.Reference} {
			if idx < 0 || idx >= pose.NumLandmarks {
				return fmt.Errorf("exercise %q: rotation landmark index %d out of range", c.ID, idx)
			}
		}
	case TimerTracking:
		if tr.Seconds <= 0 {
			return fmt.Errorf("exercise %q: timer duration must be positive", c.ID)
		}
	case ManualTracking:
	case nil:
		return fmt.Errorf("exercise %q: tracking configuration is required", c.ID)
	}

	return nil
}
