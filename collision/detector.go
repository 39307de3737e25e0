package collision

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic2d/common"
)

const (
	// SkinWidth is how far the box is shrunk on every side before casting, so
	// a box resting against a surface does not report contact with it.
	SkinWidth = 0.1
	// RaysPerSide is the number of parallel rays cast from each leading edge.
	RaysPerSide = 4
	// AxisTolerance is the smallest displacement component that is swept.
	AxisTolerance = 1e-4
)

// Detector sweeps a box through solid geometry using parallel rays.
type Detector struct {
	caster RayCaster
	layer  Layer
}

// NewDetector returns a detector that only sees LayerSolid geometry.
func NewDetector(caster RayCaster) *Detector {
	return &Detector{caster: caster, layer: LayerSolid}
}

type sweepHit struct {
	distance  float64
	normal    cp.Vector
	projected float64
}

// Sweep returns the nearest contact of box moving by displacement, or
// NoCollision. The returned Fraction is not clamped: rays starting slightly
// inside geometry produce values below zero.
func (d *Detector) Sweep(box Box, displacement cp.Vector) Event {
	if d == nil || d.caster == nil {
		return NoCollision()
	}

	skinned := cp.Vector{
		X: math.Max(box.Extents.X-SkinWidth, 0),
		Y: math.Max(box.Extents.Y-SkinWidth, 0),
	}

	best := sweepHit{distance: math.Inf(1)}
	found := false

	if math.Abs(displacement.X) > AxisTolerance {
		sign := math.Copysign(1, displacement.X)
		dir := cp.Vector{X: sign}
		spacing := 2 * skinned.Y / (RaysPerSide - 1)
		other := cp.Vector{Y: displacement.Y}
		for i := 0; i < RaysPerSide; i++ {
			offset := cp.Vector{X: skinned.X * sign, Y: skinned.Y - float64(i)*spacing}
			if h, ok := d.castAxis(box.Center.Add(offset), dir, math.Abs(displacement.X), other); ok && h.distance < best.distance {
				best = h
				found = true
			}
		}
	}

	if math.Abs(displacement.Y) > AxisTolerance {
		sign := math.Copysign(1, displacement.Y)
		dir := cp.Vector{Y: sign}
		spacing := 2 * skinned.X / (RaysPerSide - 1)
		other := cp.Vector{X: displacement.X}
		for i := 0; i < RaysPerSide; i++ {
			offset := cp.Vector{X: skinned.X - float64(i)*spacing, Y: skinned.Y * sign}
			if h, ok := d.castAxis(box.Center.Add(offset), dir, math.Abs(displacement.Y), other); ok && h.distance < best.distance {
				best = h
				found = true
			}
		}
	}

	if !found {
		return NoCollision()
	}

	normal := best.normal
	if common.NearZero(normal) {
		normal = common.Up
	}
	return Event{
		Normal:   normal,
		Fraction: (best.distance - SkinWidth) / best.projected,
	}
}

// castAxis casts one ray along an axis. A hit only counts if the same ray,
// moved by the other axis's share of the displacement, also hits.
func (d *Detector) castAxis(origin, dir cp.Vector, projected float64, other cp.Vector) (sweepHit, bool) {
	length := projected + SkinWidth
	hit, ok := d.caster.Cast(origin, dir, length, d.layer)
	if !ok {
		return sweepHit{}, false
	}
	if !common.NearZero(other) {
		if _, ok := d.caster.Cast(origin.Add(other), dir, length, d.layer); !ok {
			return sweepHit{}, false
		}
	}
	return sweepHit{distance: hit.Distance, normal: hit.Normal, projected: projected}, true
}
