package geometry

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic2d/collision"
	"github.com/milk9111/kinematic2d/common"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeOther
)

// Space is static level geometry held in a chipmunk space. Geometry
// classifications map onto shape filter categories, so ray queries only see
// the layers they ask for.
type Space struct {
	space *cp.Space
}

func NewSpace() *Space {
	return &Space{space: cp.NewSpace()}
}

// AddBox adds a box of the given size centered at center, rotated
// counter-clockwise by degrees around its center.
func (s *Space) AddBox(center, size cp.Vector, degrees float64, layer collision.Layer) *cp.Shape {
	hw, hh := size.X/2, size.Y/2
	verts := []cp.Vector{
		{X: -hw, Y: -hh},
		{X: hw, Y: -hh},
		{X: hw, Y: hh},
		{X: -hw, Y: hh},
	}
	transform := cp.NewTransformRigid(center, common.Deg2Rad(degrees))
	shape := cp.NewPolyShape(s.space.StaticBody, len(verts), verts, transform, 0)
	return s.add(shape, layer)
}

// AddRect adds an axis-aligned box from its bounds.
func (s *Space) AddRect(bb cp.BB, layer collision.Layer) *cp.Shape {
	return s.add(cp.NewBox2(s.space.StaticBody, bb, 0), layer)
}

func (s *Space) AddSegment(a, b cp.Vector, radius float64, layer collision.Layer) *cp.Shape {
	return s.add(cp.NewSegment(s.space.StaticBody, a, b, radius), layer)
}

func (s *Space) add(shape *cp.Shape, layer collision.Layer) *cp.Shape {
	shape.SetFriction(0.8)
	s.applyLayer(shape, layer)
	s.space.AddShape(shape)
	return shape
}

// SetLayer reclassifies a shape already in the space.
func (s *Space) SetLayer(shape *cp.Shape, layer collision.Layer) {
	if shape == nil {
		return
	}
	s.applyLayer(shape, layer)
}

func (s *Space) applyLayer(shape *cp.Shape, layer collision.Layer) {
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(layer), cp.ALL_CATEGORIES))
	if layer&collision.LayerSolid != 0 {
		shape.SetCollisionType(collisionTypeSolid)
	} else {
		shape.SetCollisionType(collisionTypeOther)
	}
}

func (s *Space) Remove(shape *cp.Shape) {
	if shape == nil || shape.Space() != s.space {
		return
	}
	s.space.RemoveShape(shape)
}

// ShapeCount returns the number of shapes in the space.
func (s *Space) ShapeCount() int {
	n := 0
	s.space.EachShape(func(*cp.Shape) { n++ })
	return n
}

// Chipmunk exposes the underlying space for debug drawing.
func (s *Space) Chipmunk() *cp.Space {
	return s.space
}

// Cast returns the first shape of the given layer along the ray.
func (s *Space) Cast(origin, dir cp.Vector, maxDist float64, layer collision.Layer) (collision.Hit, bool) {
	if maxDist <= 0 || common.NearZero(dir) {
		return collision.Hit{}, false
	}
	dir = dir.Normalize()
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(layer))
	info := s.space.SegmentQueryFirst(origin, origin.Add(dir.Mult(maxDist)), 0, filter)
	if info.Shape == nil {
		return collision.Hit{}, false
	}

	if info.Alpha <= 0 {
		// The ray starts inside or on the shape. Chipmunk's normal then points
		// at the nearest edge, which may be a side face, so report a head-on
		// contact instead.
		return collision.Hit{Distance: 0, Normal: dir.Neg()}, true
	}
	normal := info.Normal
	if common.NearZero(normal) {
		normal = dir.Neg()
	}
	return collision.Hit{Distance: info.Alpha * maxDist, Normal: normal.Normalize()}, true
}
