package pose

import (
	"math"
	"testing"
)

// lm builds a landmark at the given position with full confidence.
func lm(x, y float64) Landmark {
	return Landmark{X: x, Y: y, Confidence: 1.0}
}

// lmAt places a landmark at distance r from vertex in the direction of
// angleDeg (standard math convention, degrees).
func lmAt(vertex Landmark, angleDeg, r float64) Landmark {
	rad := angleDeg * math.Pi / 180
	return lm(vertex.X+r*math.Cos(rad), vertex.Y+r*math.Sin(rad))
}

func TestAngleBetween_StraightLine(t *testing.T) {
	p1 := lm(0.0, 0.5)
	vertex := lm(0.5, 0.5)
	p3 := lm(1.0, 0.5)

	angle := AngleBetween(p1, vertex, p3)
	if math.Abs(angle-180) > 1e-9 {
		t.Errorf("expected 180 degrees for collinear points, got %f", angle)
	}
}

func TestAngleBetween_RightAngle(t *testing.T) {
	p1 := lm(0.0, 0.5)
	vertex := lm(0.5, 0.5)
	p3 := lm(0.5, 1.0)

	angle := AngleBetween(p1, vertex, p3)
	if math.Abs(angle-90) > 1e-9 {
		t.Errorf("expected 90 degrees, got %f", angle)
	}
}

func TestAngleBetween_ReflectsIntoRange(t *testing.T) {
	// Raw atan2 difference here is 340 degrees; the result must be
	// reflected back into [0, 180].
	vertex := lm(0.5, 0.5)
	p1 := lmAt(vertex, 170, 0.3)
	p3 := lmAt(vertex, -170, 0.3)

	angle := AngleBetween(p1, vertex, p3)
	if math.Abs(angle-20) > 1e-6 {
		t.Errorf("expected reflected angle 20 degrees, got %f", angle)
	}
}

func TestAngleBetween_AlwaysInRange(t *testing.T) {
	vertex := lm(0.5, 0.5)
	for deg1 := -180.0; deg1 <= 180; deg1 += 15 {
		for deg3 := -180.0; deg3 <= 180; deg3 += 15 {
			angle := AngleBetween(lmAt(vertex, deg1, 0.2), vertex, lmAt(vertex, deg3, 0.2))
			if angle < 0 || angle > 180 {
				t.Fatalf("angle %f out of [0,180] for directions %f/%f", angle, deg1, deg3)
			}
		}
	}
}

func TestResolveAngle_ConfidenceGating(t *testing.T) {
	triple := JointTriple{Point1: LeftShoulder, Vertex: LeftElbow, Point3: LeftWrist}

	frame := &Frame{}
	frame.Points[LeftShoulder] = lm(0.4, 0.2)
	frame.Points[LeftElbow] = lm(0.4, 0.4)
	frame.Points[LeftWrist] = lm(0.4, 0.6)

	if _, ok := ResolveAngle(frame, triple, 0.6); !ok {
		t.Fatal("expected angle to resolve with full confidence")
	}

	// Drop one landmark below the threshold.
	frame.Points[LeftWrist].Confidence = 0.3
	if _, ok := ResolveAngle(frame, triple, 0.6); ok {
		t.Error("expected unresolved angle when a landmark is below min confidence")
	}
}

func TestResolveAngle_InvalidTriple(t *testing.T) {
	frame := &Frame{}
	if _, ok := ResolveAngle(frame, JointTriple{Point1: -1, Vertex: 0, Point3: 1}, 0.5); ok {
		t.Error("expected unresolved angle for out-of-range index")
	}
	if _, ok := ResolveAngle(nil, JointTriple{Point1: 0, Vertex: 1, Point3: 2}, 0.5); ok {
		t.Error("expected unresolved angle for nil frame")
	}
}

func TestResolveBilateralAngle(t *testing.T) {
	left := JointTriple{Point1: LeftShoulder, Vertex: LeftElbow, Point3: LeftWrist}
	right := JointTriple{Point1: RightShoulder, Vertex: RightElbow, Point3: RightWrist}

	frame := &Frame{}
	// Left arm straight (180 degrees).
	frame.Points[LeftShoulder] = lm(0.4, 0.2)
	frame.Points[LeftElbow] = lm(0.4, 0.4)
	frame.Points[LeftWrist] = lm(0.4, 0.6)
	// Right arm bent at 90 degrees.
	frame.Points[RightShoulder] = lm(0.6, 0.2)
	frame.Points[RightElbow] = lm(0.6, 0.4)
	frame.Points[RightWrist] = lm(0.8, 0.4)

	angle, ok := ResolveBilateralAngle(frame, left, &right, 0.6)
	if !ok {
		t.Fatal("expected bilateral angle to resolve")
	}
	if math.Abs(angle-135) > 1e-6 {
		t.Errorf("expected mean of 180 and 90 = 135, got %f", angle)
	}

	// Occlude the right side; the left angle alone should be returned.
	frame.Points[RightElbow].Confidence = 0.1
	angle, ok = ResolveBilateralAngle(frame, left, &right, 0.6)
	if !ok {
		t.Fatal("expected angle to resolve from the visible side")
	}
	if math.Abs(angle-180) > 1e-6 {
		t.Errorf("expected left-only angle 180, got %f", angle)
	}

	// Occlude both sides.
	frame.Points[LeftElbow].Confidence = 0.1
	if _, ok := ResolveBilateralAngle(frame, left, &right, 0.6); ok {
		t.Error("expected unresolved angle with both sides occluded")
	}

	// No secondary configured: primary result passes through.
	frame.Points[LeftElbow].Confidence = 1.0
	angle, ok = ResolveBilateralAngle(frame, left, nil, 0.6)
	if !ok || math.Abs(angle-180) > 1e-6 {
		t.Errorf("expected primary-only angle 180, got %f (ok=%v)", angle, ok)
	}
}
