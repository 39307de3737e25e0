package movement

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic2d/common"
)

const (
	humanApexHeight = 6.05
	humanTimeToApex = 0.55
	humanWalkSpeed  = 15
)

// Human is the simple profile: constant gravity, vertical jumps off
// up-facing ground only.
type Human struct {
	tuning    Tuning
	walkSpeed float64
}

func NewHuman(tuning Tuning, walkSpeed float64) *Human {
	return &Human{tuning: tuning, walkSpeed: walkSpeed}
}

// DefaultHuman reaches 6.05 units in 0.55s: gravity 40, jump 22, walk 15.
func DefaultHuman() *Human {
	return NewHuman(NewTuning(humanApexHeight, humanTimeToApex), humanWalkSpeed)
}

func (h *Human) WalkVelocity(_ cp.Vector, walkForce float64) cp.Vector {
	return cp.Vector{X: walkForce * h.walkSpeed}
}

func (h *Human) JumpVelocity(lastContactNormal cp.Vector, jumpForce float64) cp.Vector {
	if jumpForce > 0 && upFacing(lastContactNormal) {
		return cp.Vector{Y: h.tuning.JumpPower}
	}
	return common.Zero
}

func (h *Human) Gravity(cp.Vector, float64) cp.Vector {
	return cp.Vector{Y: -h.tuning.Gravity}
}

func (h *Human) SlopeClampDistance() float64 {
	return h.tuning.slopeClamp()
}

func (h *Human) Advance(float64) {}
