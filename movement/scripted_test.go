package movement

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic2d/prefabs"
)

const humanScript = `
math := import("math")

walk := func(state, nx, ny, force) {
	return [force * 15, 0]
}

jump := func(state, nx, ny, force) {
	if force > 0 && ny > math.abs(nx) {
		return [0, 22]
	}
	return [0, 0]
}

gravity := func(state, vx, vy, force) {
	return [0, -40]
}

advance := func(state, dt) {
	state.elapsed = (is_undefined(state.elapsed) ? 0.0 : state.elapsed) + dt
}
`

func TestScriptedMatchesHuman(t *testing.T) {
	s, err := NewScripted("human_test", []byte(humanScript))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	h := DefaultHuman()

	normals := []cp.Vector{{Y: 1}, {X: 1}, {X: -1, Y: 5}, {}, {X: 1, Y: 0.5}}
	for _, n := range normals {
		for _, f := range []float64{0, 1, -1} {
			if got, want := s.WalkVelocity(n, f), h.WalkVelocity(n, f); !vecNear(got, want) {
				t.Fatalf("walk(%v, %f) = %v, want %v", n, f, got, want)
			}
			if got, want := s.JumpVelocity(n, f), h.JumpVelocity(n, f); !vecNear(got, want) {
				t.Fatalf("jump(%v, %f) = %v, want %v", n, f, got, want)
			}
		}
	}
	if got, want := s.Gravity(cp.Vector{Y: 3}, 1), h.Gravity(cp.Vector{Y: 3}, 1); !vecNear(got, want) {
		t.Fatalf("gravity = %v, want %v", got, want)
	}
	if got, want := s.SlopeClampDistance(), h.SlopeClampDistance(); math.Abs(got-want) > tolerance {
		t.Fatalf("slope clamp = %f, want %f", got, want)
	}
}

func TestScriptedKeepsState(t *testing.T) {
	s, err := NewScripted("human_test", []byte(humanScript))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	s.Advance(0.25)
	s.Advance(0.5)
	got, ok := s.state.Value["elapsed"]
	if !ok {
		t.Fatalf("advance did not write state")
	}
	if v := got.String(); v != "0.75" {
		t.Fatalf("elapsed = %s, want 0.75", v)
	}
}

func TestScriptedCompileError(t *testing.T) {
	if _, err := NewScripted("broken", []byte(`walk := func(`)); err == nil {
		t.Fatalf("expected a compile error")
	}
	// advance and friends are required.
	if _, err := NewScripted("partial", []byte(`walk := func(s, x, y, f) { return [0, 0] }`)); err == nil {
		t.Fatalf("expected an unresolved reference error")
	}
}

func TestScriptedRuntimeErrorYieldsZero(t *testing.T) {
	src := humanScript + `
walk = func(state, nx, ny, force) {
	return "fast"
}
`
	s, err := NewScripted("bad_walk", []byte(src))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if got := s.WalkVelocity(cp.Vector{Y: 1}, 1); got.Length() != 0 {
		t.Fatalf("walk = %v, want zero", got)
	}
	if !s.failed {
		t.Fatalf("error should be reported")
	}
	if got := s.Gravity(cp.Vector{}, 0); !vecNear(got, cp.Vector{Y: -40}) {
		t.Fatalf("other calls should keep working, gravity = %v", got)
	}
}

func TestGliderScript(t *testing.T) {
	spec, err := prefabs.LoadArchetype("glider")
	if err != nil {
		t.Fatalf("load glider: %v", err)
	}
	p, err := New(spec)
	if err != nil {
		t.Fatalf("build glider: %v", err)
	}

	ground := cp.Vector{Y: 1}
	if got := p.JumpVelocity(ground, 1); !vecNear(got, cp.Vector{Y: 16}) {
		t.Fatalf("jump = %v, want (0, 16)", got)
	}
	if got := p.JumpVelocity(ground, 1); got.Length() != 0 {
		t.Fatalf("jump during cooldown = %v", got)
	}
	p.Advance(0.3)
	if got := p.JumpVelocity(ground, 1); got.Length() == 0 {
		t.Fatalf("jump after cooldown should fire")
	}

	if got := p.Gravity(cp.Vector{Y: -10}, 1); got.Y <= 0 {
		t.Fatalf("holding jump while falling fast should glide, gravity = %v", got)
	}
	if got := p.Gravity(cp.Vector{Y: -10}, 0); !vecNear(got, cp.Vector{Y: -32}) {
		t.Fatalf("gravity = %v, want (0, -32)", got)
	}
	if got := p.WalkVelocity(cp.Vector{}, 1); !vecNear(got, cp.Vector{X: 7.2}) {
		t.Fatalf("air walk = %v, want (7.2, 0)", got)
	}
	if d := p.SlopeClampDistance(); math.Abs(d-0.16) > tolerance {
		t.Fatalf("slope clamp = %f, want 0.16", d)
	}
}
