// Package testdata provides synthetic pose frames for tests.
package testdata

import (
	"math"

	"github.com/ayusman/repcoach/internal/pose"
)

// StandingFrame returns a front-facing, well-aligned standing pose with all
// landmarks at 0.95 confidence. Coordinates are normalized image space with
// y increasing downward.
func StandingFrame() pose.Frame {
	set := func(f *pose.Frame, idx int, x, y float64) {
		f.Points[idx] = pose.Landmark{X: x, Y: y, Confidence: 0.95}
	}

	var f pose.Frame

	// Head
	set(&f, pose.Nose, 0.50, 0.12)
	set(&f, pose.LeftEyeInner, 0.52, 0.10)
	set(&f, pose.LeftEye, 0.53, 0.10)
	set(&f, pose.LeftEyeOuter, 0.54, 0.10)
	set(&f, pose.RightEyeInner, 0.48, 0.10)
	set(&f, pose.RightEye, 0.47, 0.10)
	set(&f, pose.RightEyeOuter, 0.46, 0.10)
	set(&f, pose.LeftEar, 0.56, 0.11)
	set(&f, pose.RightEar, 0.44, 0.11)
	set(&f, pose.MouthLeft, 0.52, 0.15)
	set(&f, pose.MouthRight, 0.48, 0.15)

	// Arms hanging straight down, slightly out from the torso.
	set(&f, pose.LeftShoulder, 0.62, 0.25)
	set(&f, pose.RightShoulder, 0.38, 0.25)
	set(&f, pose.LeftElbow, 0.63, 0.38)
	set(&f, pose.RightElbow, 0.37, 0.38)
	set(&f, pose.LeftWrist, 0.64, 0.51)
	set(&f, pose.RightWrist, 0.36, 0.51)
	set(&f, pose.LeftPinky, 0.65, 0.54)
	set(&f, pose.RightPinky, 0.35, 0.54)
	set(&f, pose.LeftIndex, 0.64, 0.55)
	set(&f, pose.RightIndex, 0.36, 0.55)
	set(&f, pose.LeftThumb, 0.63, 0.54)
	set(&f, pose.RightThumb, 0.37, 0.54)

	// Torso and legs, knees tracking over ankles.
	set(&f, pose.LeftHip, 0.57, 0.52)
	set(&f, pose.RightHip, 0.43, 0.52)
	set(&f, pose.LeftKnee, 0.57, 0.70)
	set(&f, pose.RightKnee, 0.43, 0.70)
	set(&f, pose.LeftAnkle, 0.57, 0.88)
	set(&f, pose.RightAnkle, 0.43, 0.88)
	set(&f, pose.LeftHeel, 0.57, 0.90)
	set(&f, pose.RightHeel, 0.43, 0.90)
	set(&f, pose.LeftFootIndex, 0.59, 0.92)
	set(&f, pose.RightFootIndex, 0.41, 0.92)

	return f
}

// FrameWithJointAngle builds a frame where the given joint triple measures
// exactly angleDeg. Only the three triple landmarks carry the supplied
// confidence; every other landmark is left at zero confidence so unrelated
// checks see an occluded body.
func FrameWithJointAngle(triple pose.JointTriple, angleDeg, confidence float64) pose.Frame {
	var f pose.Frame

	vertex := pose.Landmark{X: 0.5, Y: 0.5, Confidence: confidence}
	rad := angleDeg * math.Pi / 180

	f.Points[triple.Vertex] = vertex
	f.Points[triple.Point1] = pose.Landmark{X: vertex.X + 0.2, Y: vertex.Y, Confidence: confidence}
	f.Points[triple.Point3] = pose.Landmark{
		X:          vertex.X + 0.2*math.Cos(rad),
		Y:          vertex.Y + 0.2*math.Sin(rad),
		Confidence: confidence,
	}

	return f
}
