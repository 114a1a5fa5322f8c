// Package pose provides body landmark types and joint angle geometry for
// exercise tracking.
package pose

// Body landmark indices following the MediaPipe pose convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose           = 0
	LeftEyeInner   = 1
	LeftEye        = 2
	LeftEyeOuter   = 3
	RightEyeInner  = 4
	RightEye       = 5
	RightEyeOuter  = 6
	LeftEar        = 7
	RightEar       = 8
	MouthLeft      = 9
	MouthRight     = 10
	LeftShoulder   = 11
	RightShoulder  = 12
	LeftElbow      = 13
	RightElbow     = 14
	LeftWrist      = 15
	RightWrist     = 16
	LeftPinky      = 17
	RightPinky     = 18
	LeftIndex      = 19
	RightIndex     = 20
	LeftThumb      = 21
	RightThumb     = 22
	LeftHip        = 23
	RightHip       = 24
	LeftKnee       = 25
	RightKnee      = 26
	LeftAnkle      = 27
	RightAnkle     = 28
	LeftHeel       = 29
	RightHeel      = 30
	LeftFootIndex  = 31
	RightFootIndex = 32
	NumLandmarks   = 33
)

// Landmark represents a single tracked body keypoint in normalized image
// coordinates (0-1) with a visibility/confidence score (0-1).
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// Frame represents one complete set of 33 body landmarks at one point in time.
type Frame struct {
	Points [NumLandmarks]Landmark `json:"points"`
}

// JointTriple identifies three landmark indices defining an angle at Vertex.
type JointTriple struct {
	Point1 int `json:"point1" toml:"point1"`
	Vertex int `json:"vertex" toml:"vertex"`
	Point3 int `json:"point3" toml:"point3"`
}

// Valid reports whether all three indices address a landmark in a frame.
func (t JointTriple) Valid() bool {
	for _, idx := range []int{t.Point1, t.Vertex, t.Point3} {
		if idx < 0 || idx >= NumLandmarks {
			return false
		}
	}
	return true
}

// Visible reports whether the landmark at idx meets the confidence threshold.
func (f *Frame) Visible(idx int, minConfidence float64) bool {
	if f == nil || idx < 0 || idx >= NumLandmarks {
		return false
	}
	return f.Points[idx].Confidence >= minConfidence
}
