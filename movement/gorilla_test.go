package movement

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
)

func testGorilla() *Gorilla {
	return NewGorilla(GorillaConfig{
		Tuning:            Tuning{Gravity: 40, JumpPower: 20},
		WalkSpeed:         10,
		FallMultiplier:    2,
		LowJumpMultiplier: 3,
		JumpCooldown:      0.5,
		WalkLockout:       0.4,
	})
}

func TestGorillaJumpVelocity(t *testing.T) {
	power := 20.0
	cases := []struct {
		name   string
		normal cp.Vector
		want   cp.Vector
	}{
		{"up", cp.Vector{Y: 1}, cp.Vector{Y: power}},
		{"zero_normal", cp.Vector{}, cp.Vector{}},
		{"wall", cp.Vector{X: 1}, cp.Vector{X: 1, Y: 1}.Normalize().Mult(power)},
		{"steep_slope", cp.Vector{X: 2, Y: 1}.Normalize(), cp.Vector{X: 2, Y: 1}.Normalize().Add(cp.Vector{Y: 1}).Normalize().Mult(power)},
		{"shallow_left", cp.Vector{X: -1, Y: 5}.Normalize(), cp.Vector{Y: power}},
		{"shallow_right", cp.Vector{X: 1, Y: 2}.Normalize(), cp.Vector{Y: power}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g := testGorilla()
			if got := g.JumpVelocity(c.normal, 1); !vecNear(got, c.want) {
				t.Fatalf("jump = %v, want %v", got, c.want)
			}
		})
	}
}

func TestGorillaJumpNeedsInput(t *testing.T) {
	g := testGorilla()
	if got := g.JumpVelocity(cp.Vector{Y: 1}, 0); got.Length() != 0 {
		t.Fatalf("jump without input = %v", got)
	}
}

func TestGorillaWallJumpCooldown(t *testing.T) {
	g := testGorilla()
	wall := cp.Vector{X: -1}

	if g.JumpVelocity(wall, 1).Length() == 0 {
		t.Fatalf("first wall jump should fire")
	}
	if got := g.JumpVelocity(wall, 1); got.Length() != 0 {
		t.Fatalf("second wall jump during cooldown = %v", got)
	}

	g.Advance(0.3)
	if got := g.JumpVelocity(wall, 1); got.Length() != 0 {
		t.Fatalf("wall jump before cooldown elapsed = %v", got)
	}
	g.Advance(0.2)
	if g.JumpVelocity(wall, 1).Length() == 0 {
		t.Fatalf("wall jump should fire once the cooldown elapsed")
	}
}

func TestGorillaGroundJumpResetsCooldown(t *testing.T) {
	g := testGorilla()
	g.JumpVelocity(cp.Vector{X: 1}, 1)
	g.JumpVelocity(cp.Vector{Y: 1}, 1)
	if g.JumpVelocity(cp.Vector{X: 1}, 1).Length() == 0 {
		t.Fatalf("landing jump should clear the wall jump cooldown")
	}
}

func TestGorillaWalkLockout(t *testing.T) {
	g := testGorilla()
	if got := g.WalkVelocity(cp.Vector{Y: 1}, 1); math.Abs(got.X-10) > tolerance {
		t.Fatalf("walk = %v, want 10", got)
	}

	g.JumpVelocity(cp.Vector{X: 1}, 1)
	if got := g.WalkVelocity(cp.Vector{}, 1); math.Abs(got.X) > tolerance {
		t.Fatalf("walk right after a wall jump = %v, want 0", got)
	}

	g.Advance(0.1)
	if got := g.WalkVelocity(cp.Vector{}, 1); math.Abs(got.X-2.5) > tolerance {
		t.Fatalf("walk after a quarter of the lockout = %v, want 2.5", got)
	}

	g.Advance(10)
	if got := g.WalkVelocity(cp.Vector{}, -1); math.Abs(got.X+10) > tolerance {
		t.Fatalf("walk after the lockout = %v, want -10", got)
	}
}

func TestGorillaGravity(t *testing.T) {
	g := testGorilla()
	cases := []struct {
		name     string
		velocity cp.Vector
		jump     float64
		want     float64
	}{
		{"falling", cp.Vector{Y: -3}, 1, -80},
		{"resting", cp.Vector{}, 0, -80},
		{"rising_held", cp.Vector{Y: 5}, 1, -40},
		{"rising_released", cp.Vector{Y: 5}, 0, -120},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := g.Gravity(c.velocity, c.jump); math.Abs(got.Y-c.want) > tolerance || got.X != 0 {
				t.Fatalf("gravity = %v, want (0, %f)", got, c.want)
			}
		})
	}
}

func TestGorillaAdvanceClampsAtZero(t *testing.T) {
	g := testGorilla()
	g.JumpVelocity(cp.Vector{X: 1}, 1)
	g.Advance(5)
	if g.jumpCooldown != 0 || g.walkCooldown != 0 {
		t.Fatalf("cooldowns = %f, %f; want 0", g.jumpCooldown, g.walkCooldown)
	}
}
