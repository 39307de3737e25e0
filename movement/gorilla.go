package movement

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic2d/common"
)

type GorillaConfig struct {
	Tuning    Tuning
	WalkSpeed float64
	// FallMultiplier scales gravity once the body stops rising.
	FallMultiplier float64
	// LowJumpMultiplier scales gravity while rising with jump released.
	LowJumpMultiplier float64
	// JumpCooldown gates consecutive wall jumps.
	JumpCooldown float64
	// WalkLockout is how long walking is suppressed after a wall jump. Walk
	// control ramps back in linearly over that time.
	WalkLockout float64
}

// Gorilla is the refined profile: asymmetric gravity, wall jumps pushing off
// the contact normal, and a walk lockout after each wall jump.
type Gorilla struct {
	cfg          GorillaConfig
	jumpCooldown float64
	walkCooldown float64
}

func NewGorilla(cfg GorillaConfig) *Gorilla {
	if cfg.FallMultiplier <= 0 {
		cfg.FallMultiplier = 1
	}
	if cfg.LowJumpMultiplier <= 0 {
		cfg.LowJumpMultiplier = 1
	}
	return &Gorilla{cfg: cfg}
}

func (g *Gorilla) WalkVelocity(_ cp.Vector, walkForce float64) cp.Vector {
	scale := 1.0
	if g.cfg.WalkLockout > common.Epsilon {
		scale = common.Clamp01(1 - g.walkCooldown/g.cfg.WalkLockout)
	}
	return cp.Vector{X: walkForce * g.cfg.WalkSpeed * scale}
}

func (g *Gorilla) JumpVelocity(lastContactNormal cp.Vector, jumpForce float64) cp.Vector {
	if jumpForce <= 0 || common.NearZero(lastContactNormal) {
		return common.Zero
	}
	power := g.cfg.Tuning.JumpPower
	if upFacing(lastContactNormal) {
		g.jumpCooldown = 0
		return cp.Vector{Y: power}
	}
	if g.jumpCooldown > common.Epsilon {
		return common.Zero
	}
	g.jumpCooldown = g.cfg.JumpCooldown
	g.walkCooldown = g.cfg.WalkLockout
	return lastContactNormal.Normalize().Add(common.Up).Normalize().Mult(power)
}

func (g *Gorilla) Gravity(velocity cp.Vector, jumpForce float64) cp.Vector {
	base := g.cfg.Tuning.Gravity
	switch {
	case velocity.Y <= 0:
		base *= g.cfg.FallMultiplier
	case jumpForce <= 0:
		base *= g.cfg.LowJumpMultiplier
	}
	return cp.Vector{Y: -base}
}

func (g *Gorilla) SlopeClampDistance() float64 {
	return g.cfg.Tuning.slopeClamp()
}

func (g *Gorilla) Advance(dt float64) {
	g.jumpCooldown = math.Max(0, g.jumpCooldown-dt)
	g.walkCooldown = math.Max(0, g.walkCooldown-dt)
}
