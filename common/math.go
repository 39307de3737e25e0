package common

import "math"

// Epsilon is the tolerance used for every floating comparison in the
// movement core.
const Epsilon = 1e-5

const (
	BaseWidth  = 1280
	BaseHeight = 720
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// NearlyEqual reports whether a and b differ by less than Epsilon.
func NearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

func Clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180
}

func Rad2Deg(rad float64) float64 {
	return rad * 180 / math.Pi
}
