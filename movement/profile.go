// Package movement holds the movement profiles that decide how a body
// walks, jumps and falls. Profiles never touch geometry; the kinematic
// controller feeds them the last contact normal and the player's input.
package movement

import (
	"errors"
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic2d/common"
	"github.com/milk9111/kinematic2d/prefabs"
)

// slopeClampRatio is the share of resting gravity probed below a grounded
// body to keep it glued to descending slopes.
const slopeClampRatio = 1.0 / 200

var ErrUnknownArchetype = errors.New("movement: unknown archetype")

// Profile is a swappable movement policy. Implementations keep their own
// cooldown state and are not safe for sharing between controllers.
type Profile interface {
	// WalkVelocity is a per-step displacement rate, not an acceleration.
	WalkVelocity(lastContactNormal cp.Vector, walkForce float64) cp.Vector
	// JumpVelocity is an impulse; the zero vector means no jump.
	JumpVelocity(lastContactNormal cp.Vector, jumpForce float64) cp.Vector
	Gravity(velocity cp.Vector, jumpForce float64) cp.Vector
	SlopeClampDistance() float64
	// Advance decays cooldowns by dt, never below zero.
	Advance(dt float64)
}

// Tuning derives jump power and gravity from a target apex height and the
// time taken to reach it.
type Tuning struct {
	Gravity   float64
	JumpPower float64
}

func NewTuning(apexHeight, timeToApex float64) Tuning {
	if timeToApex <= common.Epsilon {
		return Tuning{}
	}
	return Tuning{
		Gravity:   2 * apexHeight / (timeToApex * timeToApex),
		JumpPower: 2 * apexHeight / timeToApex,
	}
}

func (t Tuning) slopeClamp() float64 {
	return math.Abs(t.Gravity) * slopeClampRatio
}

// upFacing reports whether a contact normal counts as standing ground for
// jumping purposes.
func upFacing(normal cp.Vector) bool {
	return normal.Y > math.Abs(normal.X)
}

// New builds a fresh profile for the archetype. Every call returns
// independent state.
func New(spec *prefabs.ArchetypeSpec) (Profile, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: nil spec", ErrUnknownArchetype)
	}
	tuning := NewTuning(spec.ApexHeight, spec.TimeToApex)
	switch spec.Kind {
	case prefabs.KindHuman:
		return NewHuman(tuning, spec.WalkSpeed), nil
	case prefabs.KindGorilla:
		return NewGorilla(GorillaConfig{
			Tuning:            tuning,
			WalkSpeed:         spec.WalkSpeed,
			FallMultiplier:    spec.FallMultiplier,
			LowJumpMultiplier: spec.LowJumpMultiplier,
			JumpCooldown:      spec.JumpCooldown,
			WalkLockout:       spec.WalkLockout,
		}), nil
	case prefabs.KindScripted:
		src, err := prefabs.LoadScript(spec.Script)
		if err != nil {
			return nil, fmt.Errorf("movement: load script %s: %w", spec.Script, err)
		}
		return NewScripted(spec.Script, src)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownArchetype, spec.Kind)
	}
}
