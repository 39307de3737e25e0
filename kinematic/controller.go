// Package kinematic moves an axis-aligned box through solid geometry with a
// fixed-step integrator. Gravity, jumps and walking come from a
// movement.Profile; contacts come from a collision.Detector.
package kinematic

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic2d/collision"
	"github.com/milk9111/kinematic2d/common"
	"github.com/milk9111/kinematic2d/movement"
)

const (
	// FixedStep is the integration step in seconds.
	FixedStep = 0.01

	// maxSlideRetries bounds how often a slide residual is re-swept before
	// the leftover is applied as is.
	maxSlideRetries = 3

	// groundAngle is the widest angle from up a contact normal may have and
	// still count as ground.
	groundAngle = 45.0
)

type contactKind int

const (
	contactOther contactKind = iota
	contactGround
	contactCeiling
)

// Controller is the movement state of one body. Velocity, WalkForce and
// JumpForce may be set freely between Simulate calls.
type Controller struct {
	Position cp.Vector
	Velocity cp.Vector
	// WalkForce is nominally in [-1, 1]; the sign picks the direction.
	WalkForce float64
	// JumpForce is zero or positive.
	JumpForce float64

	size              cp.Vector
	profile           movement.Profile
	detector          *collision.Detector
	lastContactNormal cp.Vector
	accumulator       float64
}

// New places a box of the given size centered at position. The caster is only
// queried for solid geometry.
func New(position, size cp.Vector, profile movement.Profile, caster collision.RayCaster) *Controller {
	return &Controller{
		Position: position,
		size:     size,
		profile:  profile,
		detector: collision.NewDetector(caster),
	}
}

// LastContactNormal is the most upward contact normal seen during the last
// fixed step, or zero when the body touched nothing.
func (c *Controller) LastContactNormal() cp.Vector {
	return c.lastContactNormal
}

// Grounded reports whether the last step ended standing on something.
func (c *Controller) Grounded() bool {
	n := c.lastContactNormal
	return !common.NearZero(n) && common.AngleBetween(n, common.Up) < groundAngle
}

func (c *Controller) Size() cp.Vector {
	return c.size
}

func (c *Controller) Box() collision.Box {
	return collision.NewBox(c.Position, c.size)
}

func (c *Controller) Profile() movement.Profile {
	return c.profile
}

// SetProfile swaps the movement policy, keeping position and velocity.
func (c *Controller) SetProfile(p movement.Profile) {
	if p != nil {
		c.profile = p
	}
}

// Simulate advances the body by elapsed seconds in FixedStep increments.
// Time that does not fill a whole step carries over to the next call. A step
// may run up to Epsilon early; the borrowed time stays in the accumulator as
// a negative remainder.
func (c *Controller) Simulate(elapsed float64) {
	if c.profile == nil || !(elapsed > 0) || math.IsInf(elapsed, 1) {
		return
	}
	c.accumulator += elapsed
	for c.accumulator >= FixedStep-common.Epsilon {
		c.accumulator -= FixedStep
		c.step(FixedStep)
	}
}

func (c *Controller) step(dt float64) {
	walk := c.profile.WalkVelocity(c.lastContactNormal, c.WalkForce)

	c.Velocity = c.Velocity.Add(c.profile.Gravity(c.Velocity, c.JumpForce).Mult(dt))

	if jump := c.profile.JumpVelocity(c.lastContactNormal, c.JumpForce); !common.NearZero(jump) {
		c.Velocity = cp.Vector{X: c.Velocity.X + jump.X, Y: jump.Y}
	}

	c.lastContactNormal = common.Zero
	c.profile.Advance(dt)

	c.applyDisplacement(c.Velocity.Mult(dt), false)
	if !common.NearZero(walk) {
		c.applyDisplacement(walk.Mult(dt), true)
	}
}

// applyDisplacement moves the body as far as the geometry allows and slides
// the rest along the surface it hit. The physical pass (isInput false) also
// removes the velocity driving into the contact.
func (c *Controller) applyDisplacement(displacement cp.Vector, isInput bool) {
	remaining := displacement
	for attempt := 0; ; attempt++ {
		if attempt > maxSlideRetries {
			c.Position = c.Position.Add(remaining)
			return
		}

		ev := c.detector.Sweep(c.Box(), remaining).Clamped()
		split := collision.Split(remaining, ev)

		if !ev.Occurred() {
			c.Position = c.Position.Add(split.First)
			if isInput && attempt == 0 {
				c.clampToSlopes(displacement)
			}
			return
		}

		// A slide re-swept along the surface it came from reads as moving
		// parallel to that surface.
		if attempt > 0 && split.Alignment == collision.Aligned {
			c.Position = c.Position.Add(remaining)
			return
		}

		c.Position = c.Position.Add(split.First)
		c.recordContact(ev.Normal)

		switch classify(ev.Normal, split.Alignment) {
		case contactGround, contactCeiling:
			if !isInput {
				c.Velocity = common.Zero
			}
			return
		default:
			if !isInput {
				c.Velocity = common.SafeProject(c.Velocity, split.Second)
			}
			if common.NearZero(split.Second) {
				return
			}
			remaining = split.Second
		}
	}
}

// clampToSlopes pulls a walking body down onto ground just below it so it
// follows descending slopes instead of hopping off them.
func (c *Controller) clampToSlopes(displacement cp.Vector) {
	if c.Velocity.Y > 0 {
		return
	}
	probe := cp.Vector{Y: -c.profile.SlopeClampDistance()}
	if common.NearZero(probe) {
		return
	}
	ev := c.detector.Sweep(c.Box(), probe).Clamped()
	if !ev.Occurred() {
		return
	}
	if common.AngleBetween(displacement, ev.Normal) < 90 {
		c.Position = c.Position.Add(probe.Mult(ev.Fraction))
	}
}

// recordContact keeps the most upward normal of the step. Any contact
// replaces an empty one so walls register too.
func (c *Controller) recordContact(normal cp.Vector) {
	if common.NearZero(c.lastContactNormal) || normal.Y > c.lastContactNormal.Y {
		c.lastContactNormal = normal
	}
}

func classify(normal cp.Vector, alignment collision.Alignment) contactKind {
	opposed := alignment == collision.Opposed || alignment == collision.Aligned
	switch {
	case opposed && common.AngleBetween(normal, common.Up) < groundAngle:
		return contactGround
	case normal.Y < -common.Epsilon:
		return contactCeiling
	default:
		return contactOther
	}
}
