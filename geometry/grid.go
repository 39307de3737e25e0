package geometry

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic2d/collision"
	"github.com/milk9111/kinematic2d/common"
	"github.com/solarlune/resolv"
)

const (
	TagSolid = "solid"
	TagWater = "water"
	TagDecor = "decor"
)

// gridScale converts world units into resolv space units.
const gridScale = 16

// Grid is axis-aligned tile geometry in a resolv spatial hash. The hash
// cells are the broad phase for ray queries; each candidate tile is then
// tested with a slab intersection.
type Grid struct {
	space  *resolv.Space
	origin cp.Vector
}

// NewGrid covers the world rectangle bounds with cells of cellSize world
// units. Geometry outside bounds is never found by Cast.
func NewGrid(bounds cp.BB, cellSize float64) *Grid {
	cell := int(math.Max(1, math.Round(cellSize*gridScale)))
	w := int(math.Ceil((bounds.R - bounds.L) * gridScale))
	h := int(math.Ceil((bounds.T - bounds.B) * gridScale))
	return &Grid{
		space:  resolv.NewSpace(w, h, cell, cell),
		origin: cp.Vector{X: bounds.L, Y: bounds.B},
	}
}

// AddRect adds an axis-aligned tile covering bb.
func (g *Grid) AddRect(bb cp.BB, layer collision.Layer) *resolv.Object {
	x, y := g.toGrid(cp.Vector{X: bb.L, Y: bb.B})
	obj := resolv.NewObject(x, y, (bb.R-bb.L)*gridScale, (bb.T-bb.B)*gridScale, layerTags(layer)...)
	obj.SetShape(resolv.NewRectangle(0, 0, obj.W, obj.H))
	obj.Data = bb
	g.space.Add(obj)
	return obj
}

func (g *Grid) Remove(obj *resolv.Object) {
	if obj == nil {
		return
	}
	g.space.Remove(obj)
}

func (g *Grid) toGrid(v cp.Vector) (float64, float64) {
	return (v.X - g.origin.X) * gridScale, (v.Y - g.origin.Y) * gridScale
}

// Cast returns the nearest tile of the given layer along the ray. It only
// reads the spatial hash.
func (g *Grid) Cast(origin, dir cp.Vector, maxDist float64, layer collision.Layer) (collision.Hit, bool) {
	tags := layerTags(layer)
	if maxDist <= 0 || common.NearZero(dir) || len(tags) == 0 {
		return collision.Hit{}, false
	}
	dir = dir.Normalize()
	delta := dir.Mult(maxDist)
	end := origin.Add(delta)

	best := collision.Hit{Distance: math.Inf(1)}
	found := false
	for _, obj := range g.candidates(origin, end, tags) {
		bb, ok := obj.Data.(cp.BB)
		if !ok {
			continue
		}
		t, normal, ok := segmentBBHit(origin, delta, bb)
		if !ok {
			continue
		}
		if d := t * maxDist; d < best.Distance {
			if common.NearZero(normal) {
				normal = dir.Neg()
			}
			best = collision.Hit{Distance: d, Normal: normal}
			found = true
		}
	}
	return best, found
}

// candidates collects the tagged objects in every cell touched by the
// bounding box of a..b. The box is padded by one grid unit so a segment
// ending on a cell edge still sees the tiles on the far side.
func (g *Grid) candidates(a, b cp.Vector, tags []string) []*resolv.Object {
	minX, minY := g.toGrid(cp.Vector{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)})
	maxX, maxY := g.toGrid(cp.Vector{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)})
	cx0, cy0 := g.space.WorldToSpace(minX-1, minY-1)
	cx1, cy1 := g.space.WorldToSpace(maxX+1, maxY+1)

	seen := make(map[*resolv.Object]bool)
	var out []*resolv.Object
	for cy := cy0; cy <= cy1; cy++ {
		for cx := cx0; cx <= cx1; cx++ {
			cell := g.space.Cell(cx, cy)
			if cell == nil {
				continue
			}
			for _, obj := range cell.Objects {
				if seen[obj] || !obj.HasTags(tags...) {
					continue
				}
				seen[obj] = true
				out = append(out, obj)
			}
		}
	}
	return out
}

// segmentBBHit intersects the segment origin..origin+delta with bb and
// returns the entry parameter in [0,1] and the normal of the entered face.
// A segment starting inside bb hits at 0 with a zero normal.
func segmentBBHit(origin, delta cp.Vector, bb cp.BB) (float64, cp.Vector, bool) {
	tmin, tmax := 0.0, 1.0
	var normal cp.Vector

	slab := func(o, d, lo, hi float64, axis cp.Vector) bool {
		if d == 0 {
			return o >= lo && o <= hi
		}
		inv := 1.0 / d
		t1 := (lo - o) * inv
		t2 := (hi - o) * inv
		face := axis.Neg()
		if t1 > t2 {
			t1, t2 = t2, t1
			face = axis
		}
		if t1 > tmin {
			tmin = t1
			normal = face
		}
		tmax = math.Min(tmax, t2)
		return tmax >= tmin
	}

	if !slab(origin.X, delta.X, bb.L, bb.R, cp.Vector{X: 1}) {
		return 0, cp.Vector{}, false
	}
	if !slab(origin.Y, delta.Y, bb.B, bb.T, cp.Vector{Y: 1}) {
		return 0, cp.Vector{}, false
	}
	return tmin, normal, true
}

func layerTags(layer collision.Layer) []string {
	var tags []string
	if layer&collision.LayerSolid != 0 {
		tags = append(tags, TagSolid)
	}
	if layer&collision.LayerWater != 0 {
		tags = append(tags, TagWater)
	}
	if layer&collision.LayerDecor != 0 {
		tags = append(tags, TagDecor)
	}
	return tags
}
