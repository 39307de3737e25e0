package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

var (
	Up   = cp.Vector{X: 0, Y: 1}
	Down = cp.Vector{X: 0, Y: -1}
	Zero = cp.Vector{}
)

// NearZero reports whether v has a length below Epsilon.
func NearZero(v cp.Vector) bool {
	return v.LengthSq() < Epsilon*Epsilon
}

// SignedAngle returns the angle in degrees that rotates from to onto to,
// positive counter-clockwise, in (-180, 180].
func SignedAngle(from, to cp.Vector) float64 {
	deg := Rad2Deg(math.Atan2(from.Cross(to), from.Dot(to)))
	// Atan2 gives -180 for opposite vectors when the cross product is -0.
	if deg <= -180+Epsilon {
		return 180
	}
	return deg
}

// AngleBetween returns the unsigned angle between a and b in degrees.
func AngleBetween(a, b cp.Vector) float64 {
	return math.Abs(SignedAngle(a, b))
}

// SafeProject projects v onto dir, returning zero when dir is degenerate.
// cp.Vector.Project divides by dir·dir.
func SafeProject(v, dir cp.Vector) cp.Vector {
	if NearZero(dir) {
		return Zero
	}
	return v.Project(dir)
}

// Rotated returns v rotated counter-clockwise by deg degrees.
func Rotated(v cp.Vector, deg float64) cp.Vector {
	return cp.ForAngle(Deg2Rad(deg)).Rotate(v)
}
