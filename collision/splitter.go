package collision

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic2d/common"
)

// Alignment classifies a displacement against the surface it hit.
type Alignment int

const (
	// NoSplit means nothing was hit and the displacement is untouched.
	NoSplit Alignment = iota
	// Opposed is a near head-on impact, no slide.
	Opposed
	// NonOpposed is a grazing impact that leaves a slide along the surface.
	NonOpposed
	// Aligned means the displacement already moves away from or along the
	// surface. It only comes from degenerate geometry.
	Aligned
)

func (a Alignment) String() string {
	switch a {
	case NoSplit:
		return "no_split"
	case Opposed:
		return "opposed"
	case NonOpposed:
		return "non_opposed"
	case Aligned:
		return "aligned"
	default:
		return "unknown"
	}
}

const (
	minReflectionAngle = 90.0
	maxReflectionAngle = 180.0 - 45.0
)

// SplitPair is a displacement divided at the point of impact.
type SplitPair struct {
	First     cp.Vector
	Second    cp.Vector
	Alignment Alignment
}

// Split divides original at the contact described by ev. First is the part
// executable before impact; Second is the slide along the surface and is
// only non-zero for NonOpposed contacts.
func Split(original cp.Vector, ev Event) SplitPair {
	if !ev.Occurred() {
		return SplitPair{First: original, Alignment: NoSplit}
	}

	pair := SplitPair{First: original.Mult(ev.Fraction)}

	theta := common.SignedAngle(original, ev.Normal)
	abs := math.Abs(theta)
	switch {
	case abs <= minReflectionAngle+common.Epsilon:
		pair.Alignment = Aligned
	case abs < maxReflectionAngle-common.Epsilon:
		pair.Alignment = NonOpposed
		tangent := ev.Normal.ReversePerp()
		if theta < 0 {
			tangent = tangent.Neg()
		}
		pair.Second = common.SafeProject(original.Mult(1-ev.Fraction), tangent)
	default:
		pair.Alignment = Opposed
	}
	return pair
}
