package collision

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic2d/common"
)

// Layer is a bitmask classification of geometry. Only LayerSolid takes part
// in movement collision; everything else is transparent to the detector.
type Layer uint

const (
	LayerSolid Layer = 1 << iota
	LayerWater
	LayerDecor
)

// Event is the nearest contact found along a sweep. A zero-value Event is not
// meaningful; use NoCollision for the "nothing hit" result.
type Event struct {
	Normal   cp.Vector
	Fraction float64
}

// NoCollision returns the event reported when a sweep hits nothing.
func NoCollision() Event {
	return Event{Normal: common.Up, Fraction: 1}
}

// Occurred reports whether the sweep stopped short of its full displacement.
func (e Event) Occurred() bool {
	return e.Fraction < 1-common.Epsilon
}

// Clamped returns a copy with Fraction limited to [0,1].
func (e Event) Clamped() Event {
	e.Fraction = common.Clamp01(e.Fraction)
	return e
}

// Box is an axis-aligned collider given by its center and half-extents.
type Box struct {
	Center  cp.Vector
	Extents cp.Vector
}

func NewBox(center, size cp.Vector) Box {
	return Box{Center: center, Extents: size.Mult(0.5)}
}

// Hit is a single ray intersection.
type Hit struct {
	Distance float64
	Normal   cp.Vector
}

// RayCaster answers read-only ray queries against a geometry classification.
type RayCaster interface {
	Cast(origin, dir cp.Vector, maxDist float64, layer Layer) (Hit, bool)
}
