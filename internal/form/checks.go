// Package form provides posture quality checks evaluated against body
// landmark frames.
package form

import (
	"math"

	"github.com/ayusman/repcoach/internal/pose"
)

// Check thresholds. Positional tolerances are in normalized image units,
// angular tolerances in degrees. The falloff constant makes a check's score
// reach zero at three tolerance widths past the limit; these values are tuned
// and must not be re-derived.
const (
	visibilityFloor = 0.5

	shoulderLevelTolerance    = 0.05
	elbowStraightToleranceDeg = 20.0
	elbowBentTargetDeg        = 90.0
	elbowBentToleranceDeg     = 25.0
	spineAlignmentTolerance   = 0.06
	kneeOverAnkleTolerance    = 0.08
	headNeutralTolerance      = 0.06
	symmetryToleranceDeg      = 15.0

	falloffWidths = 3.0
)

// Check names referenced by exercise form rules.
const (
	CheckShoulderLevel  = "shoulder_level"
	CheckElbowStraight  = "elbow_straight"
	CheckElbowBent      = "elbow_bent"
	CheckSpineAlignment = "spine_alignment"
	CheckKneeOverAnkle  = "knee_over_ankle"
	CheckHeadNeutral    = "head_neutral"
	CheckSideSymmetry   = "side_symmetry"
)

// falloffScore maps a deviation to a quality score with a linear falloff
// that reaches 0 at falloffWidths tolerance widths.
func falloffScore(deviation, tolerance float64) float64 {
	return math.Max(0, 1-deviation/(tolerance*falloffWidths))
}

// graded builds a CheckResult from a measured deviation against a tolerance.
func graded(name string, deviation, tolerance float64, failMessage string) CheckResult {
	pass := deviation <= tolerance
	result := CheckResult{
		Name:     name,
		Pass:     pass,
		Severity: SeverityInfo,
		Score:    falloffScore(deviation, tolerance),
	}
	if !pass {
		result.Severity = SeverityWarning
		result.Message = failMessage
	}
	return result
}

// neutral is returned when a check's required landmarks are not visible.
// Absence of data must never manufacture a negative signal.
func neutral(name string) CheckResult {
	return CheckResult{Name: name, Pass: true, Severity: SeverityInfo, Score: 1}
}

func visible(f *pose.Frame, indices ...int) bool {
	for _, idx := range indices {
		if !f.Visible(idx, visibilityFloor) {
			return false
		}
	}
	return true
}

// ShoulderLevel verifies both shoulders sit at the same height.
func ShoulderLevel(f *pose.Frame) CheckResult {
	if !visible(f, pose.LeftShoulder, pose.RightShoulder) {
		return neutral(CheckShoulderLevel)
	}
	deviation := math.Abs(f.Points[pose.LeftShoulder].Y - f.Points[pose.RightShoulder].Y)
	return graded(CheckShoulderLevel, deviation, shoulderLevelTolerance, "Keep your shoulders level")
}

// sideElbowAngle resolves the elbow angle for one arm, if fully visible.
func sideElbowAngle(f *pose.Frame, shoulder, elbow, wrist int) (float64, bool) {
	return pose.ResolveAngle(f, pose.JointTriple{Point1: shoulder, Vertex: elbow, Point3: wrist}, visibilityFloor)
}

// ElbowStraight verifies the arms are extended, using the worse of the two
// sides when both are visible.
func ElbowStraight(f *pose.Frame) CheckResult {
	deviation, found := 0.0, false
	if a, ok := sideElbowAngle(f, pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist); ok {
		deviation, found = math.Abs(180-a), true
	}
	if a, ok := sideElbowAngle(f, pose.RightShoulder, pose.RightElbow, pose.RightWrist); ok {
		if d := math.Abs(180 - a); !found || d > deviation {
			deviation = d
		}
		found = true
	}
	if !found {
		return neutral(CheckElbowStraight)
	}
	return graded(CheckElbowStraight, deviation, elbowStraightToleranceDeg, "Straighten your arms")
}

// ElbowBent verifies the arms hold a right-angle bend.
func ElbowBent(f *pose.Frame) CheckResult {
	deviation, found := 0.0, false
	if a, ok := sideElbowAngle(f, pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist); ok {
		deviation, found = math.Abs(elbowBentTargetDeg-a), true
	}
	if a, ok := sideElbowAngle(f, pose.RightShoulder, pose.RightElbow, pose.RightWrist); ok {
		if d := math.Abs(elbowBentTargetDeg - a); !found || d > deviation {
			deviation = d
		}
		found = true
	}
	if !found {
		return neutral(CheckElbowBent)
	}
	return graded(CheckElbowBent, deviation, elbowBentToleranceDeg, "Keep your elbows at a right angle")
}

// SpineAlignment verifies the shoulder midpoint stays stacked over the hip
// midpoint.
func SpineAlignment(f *pose.Frame) CheckResult {
	if !visible(f, pose.LeftShoulder, pose.RightShoulder, pose.LeftHip, pose.RightHip) {
		return neutral(CheckSpineAlignment)
	}
	shoulderMidX := (f.Points[pose.LeftShoulder].X + f.Points[pose.RightShoulder].X) / 2
	hipMidX := (f.Points[pose.LeftHip].X + f.Points[pose.RightHip].X) / 2
	deviation := math.Abs(shoulderMidX - hipMidX)
	return graded(CheckSpineAlignment, deviation, spineAlignmentTolerance, "Keep your back straight")
}

// KneeOverAnkle verifies the knees track vertically over the ankles, using
// the worse of the two sides when both are visible.
func KneeOverAnkle(f *pose.Frame) CheckResult {
	deviation, found := 0.0, false
	if visible(f, pose.LeftKnee, pose.LeftAnkle) {
		deviation, found = math.Abs(f.Points[pose.LeftKnee].X-f.Points[pose.LeftAnkle].X), true
	}
	if visible(f, pose.RightKnee, pose.RightAnkle) {
		if d := math.Abs(f.Points[pose.RightKnee].X - f.Points[pose.RightAnkle].X); !found || d > deviation {
			deviation = d
		}
		found = true
	}
	if !found {
		return neutral(CheckKneeOverAnkle)
	}
	return graded(CheckKneeOverAnkle, deviation, kneeOverAnkleTolerance, "Keep your knees over your ankles")
}

// HeadNeutral verifies the head is centered between the shoulders.
func HeadNeutral(f *pose.Frame) CheckResult {
	if !visible(f, pose.Nose, pose.LeftShoulder, pose.RightShoulder) {
		return neutral(CheckHeadNeutral)
	}
	shoulderMidX := (f.Points[pose.LeftShoulder].X + f.Points[pose.RightShoulder].X) / 2
	deviation := math.Abs(f.Points[pose.Nose].X - shoulderMidX)
	return graded(CheckHeadNeutral, deviation, headNeutralTolerance, "Keep your head neutral")
}

// SideSymmetry compares left and right elbow angles for symmetric movement.
func SideSymmetry(f *pose.Frame) CheckResult {
	left, okL := sideElbowAngle(f, pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist)
	right, okR := sideElbowAngle(f, pose.RightShoulder, pose.RightElbow, pose.RightWrist)
	if !okL || !okR {
		return neutral(CheckSideSymmetry)
	}
	deviation := math.Abs(left - right)
	return graded(CheckSideSymmetry, deviation, symmetryToleranceDeg, "Move both sides together")
}
