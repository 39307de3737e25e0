package collision

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic2d/common"
)

type rect struct {
	min, max cp.Vector
	layer    Layer
}

// rectCaster is a minimal slab-test caster over axis-aligned rectangles.
type rectCaster struct {
	rects []rect
	casts int
}

func (c *rectCaster) Cast(origin, dir cp.Vector, maxDist float64, layer Layer) (Hit, bool) {
	c.casts++
	best := Hit{Distance: math.Inf(1)}
	found := false
	for _, r := range c.rects {
		if r.layer&layer == 0 {
			continue
		}
		tmin, tmax := 0.0, maxDist
		normal := cp.Vector{}
		ok := true
		for axis := 0; axis < 2; axis++ {
			o, d, lo, hi := origin.X, dir.X, r.min.X, r.max.X
			n := cp.Vector{X: -1}
			if axis == 1 {
				o, d, lo, hi = origin.Y, dir.Y, r.min.Y, r.max.Y
				n = cp.Vector{Y: -1}
			}
			if d == 0 {
				if o < lo || o > hi {
					ok = false
				}
				continue
			}
			t1, t2 := (lo-o)/d, (hi-o)/d
			entry := n
			if t1 > t2 {
				t1, t2 = t2, t1
				entry = n.Neg()
			}
			if t1 > tmin {
				tmin = t1
				normal = entry
			}
			tmax = math.Min(tmax, t2)
		}
		if !ok || tmax < tmin || common.NearZero(normal) {
			continue
		}
		if tmin < best.Distance {
			best = Hit{Distance: tmin, Normal: normal}
			found = true
		}
	}
	return best, found
}

func TestSweepNoGeometry(t *testing.T) {
	d := NewDetector(&rectCaster{})
	ev := d.Sweep(NewBox(common.Zero, cp.Vector{X: 2, Y: 3}), cp.Vector{X: 1, Y: -1})
	if ev.Occurred() {
		t.Fatalf("expected no collision, got %+v", ev)
	}
	if ev.Normal != common.Up || ev.Fraction != 1 {
		t.Fatalf("expected default event, got %+v", ev)
	}
}

func TestSweepFraction(t *testing.T) {
	box := NewBox(common.Zero, cp.Vector{X: 2, Y: 3})
	floor := rect{min: cp.Vector{X: -100, Y: -3.5}, max: cp.Vector{X: 100, Y: -2.5}, layer: LayerSolid}
	wall := rect{min: cp.Vector{X: 2, Y: -50}, max: cp.Vector{X: 3, Y: 50}, layer: LayerSolid}
	water := rect{min: cp.Vector{X: -100, Y: -3.5}, max: cp.Vector{X: 100, Y: -2.5}, layer: LayerWater}

	cases := []struct {
		name         string
		rects        []rect
		displacement cp.Vector
		wantHit      bool
		wantFraction float64
		wantNormal   cp.Vector
	}{
		{"floor_half_way", []rect{floor}, cp.Vector{Y: -2}, true, 0.5, common.Up},
		{"floor_out_of_reach", []rect{floor}, cp.Vector{Y: -0.5}, false, 1, common.Up},
		{"wall_quarter", []rect{wall}, cp.Vector{X: 4}, true, 0.25, cp.Vector{X: -1}},
		{"moving_away_from_wall", []rect{wall}, cp.Vector{X: -4}, false, 1, common.Up},
		{"water_is_transparent", []rect{water}, cp.Vector{Y: -2}, false, 1, common.Up},
		{"nearest_of_both_axes", []rect{floor, wall}, cp.Vector{X: 4, Y: -4}, true, 0.25, cp.Vector{X: -1}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := NewDetector(&rectCaster{rects: c.rects})
			ev := d.Sweep(box, c.displacement)
			if ev.Occurred() != c.wantHit {
				t.Fatalf("occurred = %v, want %v (%+v)", ev.Occurred(), c.wantHit, ev)
			}
			if math.Abs(ev.Fraction-c.wantFraction) > 1e-9 {
				t.Fatalf("fraction = %f, want %f", ev.Fraction, c.wantFraction)
			}
			if ev.Normal.Distance(c.wantNormal) > 1e-9 {
				t.Fatalf("normal = %v, want %v", ev.Normal, c.wantNormal)
			}
		})
	}
}

func TestSweepSkipsTinyAxis(t *testing.T) {
	caster := &rectCaster{}
	d := NewDetector(caster)
	d.Sweep(NewBox(common.Zero, cp.Vector{X: 1, Y: 1}), cp.Vector{X: 1, Y: AxisTolerance / 2})
	if caster.casts != RaysPerSide {
		t.Fatalf("expected %d casts for a single axis, got %d", RaysPerSide, caster.casts)
	}
}

func TestSweepDiagonalCorrection(t *testing.T) {
	box := NewBox(common.Zero, cp.Vector{X: 2, Y: 2})
	// The ledge is only under the rightmost ray; falling diagonally to the
	// left carries that ray past the ledge before contact.
	ledge := rect{min: cp.Vector{X: 0.5, Y: -3}, max: cp.Vector{X: 4, Y: -1.5}, layer: LayerSolid}
	d := NewDetector(&rectCaster{rects: []rect{ledge}})

	if ev := d.Sweep(box, cp.Vector{Y: -1}); !ev.Occurred() {
		t.Fatalf("straight fall should land on the ledge")
	}
	if ev := d.Sweep(box, cp.Vector{X: -1, Y: -1}); ev.Occurred() {
		t.Fatalf("diagonal fall away from the ledge should not collide, got %+v", ev)
	}
}

func TestEventClamped(t *testing.T) {
	for _, c := range []struct{ in, want float64 }{{-0.3, 0}, {0.4, 0.4}, {1.2, 1}} {
		ev := Event{Normal: common.Up, Fraction: c.in}.Clamped()
		if ev.Fraction != c.want {
			t.Fatalf("Clamped(%f) = %f, want %f", c.in, ev.Fraction, c.want)
		}
	}
}
