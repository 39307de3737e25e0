package movement

import (
	"fmt"
	"log"
	"math"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic2d/common"
)

// A movement script defines walk, jump, gravity and advance functions. Each
// receives the persistent state map first and returns an [x, y] pair, except
// advance which returns nothing. An optional clamp_ratio global overrides the
// slope clamp share of resting gravity.
const scriptDispatch = `
__out := [0.0, 0.0]
if __call == "walk" {
	__out = walk(__state, __x, __y, __force)
} else if __call == "jump" {
	__out = jump(__state, __x, __y, __force)
} else if __call == "gravity" {
	__out = gravity(__state, __x, __y, __force)
} else if __call == "advance" {
	advance(__state, __dt)
}
`

// Scripted runs a tengo script as its movement policy. Script errors are
// logged once and the failing call yields zero.
type Scripted struct {
	name       string
	compiled   *tengo.Compiled
	state      *tengo.Map
	slopeClamp float64
	failed     bool
}

func NewScripted(name string, src []byte) (*Scripted, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + scriptDispatch))
	_ = script.Add("__call", "")
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__x", 0.0)
	_ = script.Add("__y", 0.0)
	_ = script.Add("__force", 0.0)
	_ = script.Add("__dt", 0.0)

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("movement: compile %s: %w", name, err)
	}

	s := &Scripted{
		name:     name,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}

	rest, err := s.call("gravity", common.Zero, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("movement: run %s: %w", name, err)
	}
	ratio := slopeClampRatio
	if compiled.IsDefined("clamp_ratio") {
		if v, ok := tengo.ToFloat64(compiled.Get("clamp_ratio").Object()); ok {
			ratio = v
		}
	}
	s.slopeClamp = rest.Length() * ratio
	return s, nil
}

func (s *Scripted) WalkVelocity(lastContactNormal cp.Vector, walkForce float64) cp.Vector {
	return s.eval("walk", lastContactNormal, walkForce)
}

func (s *Scripted) JumpVelocity(lastContactNormal cp.Vector, jumpForce float64) cp.Vector {
	return s.eval("jump", lastContactNormal, jumpForce)
}

func (s *Scripted) Gravity(velocity cp.Vector, jumpForce float64) cp.Vector {
	return s.eval("gravity", velocity, jumpForce)
}

func (s *Scripted) SlopeClampDistance() float64 {
	return s.slopeClamp
}

func (s *Scripted) Advance(dt float64) {
	if _, err := s.call("advance", common.Zero, 0, dt); err != nil {
		s.report("advance", err)
	}
}

func (s *Scripted) eval(fn string, in cp.Vector, force float64) cp.Vector {
	out, err := s.call(fn, in, force, 0)
	if err != nil {
		s.report(fn, err)
		return common.Zero
	}
	return out
}

func (s *Scripted) report(fn string, err error) {
	if s.failed {
		return
	}
	s.failed = true
	log.Printf("scripted: %s %s: %v", s.name, fn, err)
}

func (s *Scripted) call(fn string, in cp.Vector, force, dt float64) (cp.Vector, error) {
	if err := s.compiled.Set("__call", fn); err != nil {
		return common.Zero, err
	}
	if err := s.compiled.Set("__state", s.state); err != nil {
		return common.Zero, err
	}
	if err := s.compiled.Set("__x", in.X); err != nil {
		return common.Zero, err
	}
	if err := s.compiled.Set("__y", in.Y); err != nil {
		return common.Zero, err
	}
	if err := s.compiled.Set("__force", force); err != nil {
		return common.Zero, err
	}
	if err := s.compiled.Set("__dt", dt); err != nil {
		return common.Zero, err
	}
	if err := s.compiled.Run(); err != nil {
		return common.Zero, err
	}
	return pairFromObject(s.compiled.Get("__out").Object())
}

func pairFromObject(obj tengo.Object) (cp.Vector, error) {
	arr, ok := obj.(*tengo.Array)
	if !ok || len(arr.Value) != 2 {
		return common.Zero, fmt.Errorf("expected an [x, y] pair, got %s", obj.TypeName())
	}
	x, okX := tengo.ToFloat64(arr.Value[0])
	y, okY := tengo.ToFloat64(arr.Value[1])
	if !okX || !okY || math.IsNaN(x) || math.IsNaN(y) {
		return common.Zero, fmt.Errorf("non-numeric pair %s", arr.String())
	}
	return cp.Vector{X: x, Y: y}, nil
}
