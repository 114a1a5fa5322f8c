package pose

import "math"

// AngleBetween calculates the angle in degrees formed at vertex by the
// segments vertex->p1 and vertex->p3. The result is always in [0, 180].
func AngleBetween(p1, vertex, p3 Landmark) float64 {
	rad := math.Atan2(p3.Y-vertex.Y, p3.X-vertex.X) - math.Atan2(p1.Y-vertex.Y, p1.X-vertex.X)
	deg := math.Abs(rad * 180 / math.Pi)
	if deg > 180 {
		deg = 360 - deg
	}
	return deg
}

// ResolveAngle computes the joint angle for the given triple. The second
// return value is false when any of the three landmarks is missing or falls
// below the confidence threshold; occlusion is a normal condition, not an
// error.
func ResolveAngle(f *Frame, triple JointTriple, minConfidence float64) (float64, bool) {
	if f == nil || !triple.Valid() {
		return 0, false
	}
	if !f.Visible(triple.Point1, minConfidence) ||
		!f.Visible(triple.Vertex, minConfidence) ||
		!f.Visible(triple.Point3, minConfidence) {
		return 0, false
	}
	return AngleBetween(f.Points[triple.Point1], f.Points[triple.Vertex], f.Points[triple.Point3]), true
}

// ResolveBilateralAngle resolves the primary and, when provided, the secondary
// joint angle and averages them. If only one side resolves, that side's angle
// is returned alone; availability wins over bilateral strictness so that users
// with an asymmetric range of motion still get tracked.
func ResolveBilateralAngle(f *Frame, primary JointTriple, secondary *JointTriple, minConfidence float64) (float64, bool) {
	a1, ok1 := ResolveAngle(f, primary, minConfidence)

	if secondary == nil {
		return a1, ok1
	}

	a2, ok2 := ResolveAngle(f, *secondary, minConfidence)
	switch {
	case ok1 && ok2:
		return (a1 + a2) / 2, true
	case ok1:
		return a1, true
	case ok2:
		return a2, true
	default:
		return 0, false
	}
}
