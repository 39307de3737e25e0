package movement

import (
	"errors"
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic2d/prefabs"
)

const tolerance = 1e-4

func vecNear(a, b cp.Vector) bool {
	return a.Distance(b) < tolerance
}

func TestTuning(t *testing.T) {
	tu := NewTuning(6.05, 0.55)
	if math.Abs(tu.Gravity-40) > tolerance {
		t.Fatalf("gravity = %f, want 40", tu.Gravity)
	}
	if math.Abs(tu.JumpPower-22) > tolerance {
		t.Fatalf("jump power = %f, want 22", tu.JumpPower)
	}

	// Rising at JumpPower under Gravity peaks at the requested apex.
	apex := tu.JumpPower * tu.JumpPower / (2 * tu.Gravity)
	if math.Abs(apex-6.05) > tolerance {
		t.Fatalf("apex = %f, want 6.05", apex)
	}

	if got := NewTuning(1, 0); got != (Tuning{}) {
		t.Fatalf("zero time to apex should give zero tuning, got %+v", got)
	}
}

func TestHuman(t *testing.T) {
	h := DefaultHuman()

	if g := h.Gravity(cp.Vector{Y: 10}, 1); !vecNear(g, cp.Vector{Y: -40}) {
		t.Fatalf("gravity = %v", g)
	}
	if d := h.SlopeClampDistance(); math.Abs(d-0.2) > tolerance {
		t.Fatalf("slope clamp = %f, want 0.2", d)
	}
	if w := h.WalkVelocity(cp.Vector{}, -0.5); !vecNear(w, cp.Vector{X: -7.5}) {
		t.Fatalf("walk = %v", w)
	}

	cases := []struct {
		name   string
		normal cp.Vector
		force  float64
		want   cp.Vector
	}{
		{"ground", cp.Vector{Y: 1}, 1, cp.Vector{Y: 22}},
		{"shallow_slope", cp.Vector{X: -1, Y: 5}.Normalize(), 1, cp.Vector{Y: 22}},
		{"no_input", cp.Vector{Y: 1}, 0, cp.Vector{}},
		{"wall", cp.Vector{X: 1}, 1, cp.Vector{}},
		{"steep_slope", cp.Vector{X: 1, Y: 0.5}.Normalize(), 1, cp.Vector{}},
		{"airborne", cp.Vector{}, 1, cp.Vector{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := h.JumpVelocity(c.normal, c.force); !vecNear(got, c.want) {
				t.Fatalf("jump = %v, want %v", got, c.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	cases := []struct {
		name    string
		spec    *prefabs.ArchetypeSpec
		wantErr error
	}{
		{"human", &prefabs.ArchetypeSpec{Kind: prefabs.KindHuman, ApexHeight: 6.05, TimeToApex: 0.55, WalkSpeed: 15}, nil},
		{"gorilla", &prefabs.ArchetypeSpec{Kind: prefabs.KindGorilla, ApexHeight: 5, TimeToApex: 0.5}, nil},
		{"scripted", &prefabs.ArchetypeSpec{Kind: prefabs.KindScripted, Script: "glider.tengo"}, nil},
		{"unknown", &prefabs.ArchetypeSpec{Kind: "dragon"}, ErrUnknownArchetype},
		{"nil", nil, ErrUnknownArchetype},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, err := New(c.spec)
			if c.wantErr != nil {
				if !errors.Is(err, c.wantErr) {
					t.Fatalf("err = %v, want %v", err, c.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p == nil {
				t.Fatalf("expected a profile")
			}
		})
	}
}

func TestNewReturnsIndependentState(t *testing.T) {
	spec := &prefabs.ArchetypeSpec{Kind: prefabs.KindGorilla, ApexHeight: 5, TimeToApex: 0.5, JumpCooldown: 1}
	a, _ := New(spec)
	b, _ := New(spec)

	wall := cp.Vector{X: 1}
	if a.JumpVelocity(wall, 1).Length() == 0 {
		t.Fatalf("first wall jump should fire")
	}
	if b.JumpVelocity(wall, 1).Length() == 0 {
		t.Fatalf("cooldown leaked between profiles")
	}
}
