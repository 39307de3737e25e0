package main

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestRunLandsOnSandboxFloor(t *testing.T) {
	for _, grid := range []bool{false, true} {
		samples, err := run(options{Level: "sandbox.json", Seconds: 3, FPS: 60, Every: 30, Grid: grid})
		if err != nil {
			t.Fatalf("grid=%v: %v", grid, err)
		}
		if len(samples) != 6 {
			t.Fatalf("grid=%v: got %d samples, want 6", grid, len(samples))
		}
		last := samples[len(samples)-1]
		if !last.Grounded {
			t.Fatalf("grid=%v: body should have landed, got %+v", grid, last)
		}
		if math.Abs(last.Velocity[1]) > 1e-9 {
			t.Fatalf("grid=%v: resting body still moving %v", grid, last.Velocity)
		}
		if last.Position[1] >= 15.5 {
			t.Fatalf("grid=%v: body did not fall, y = %f", grid, last.Position[1])
		}
	}
}

func TestRunErrors(t *testing.T) {
	if _, err := run(options{Level: "sandbox.json", FPS: 0}); err == nil {
		t.Fatalf("expected an error for zero fps")
	}
	if _, err := run(options{Level: "missing.json", FPS: 60}); err == nil {
		t.Fatalf("expected an error for a missing level")
	}
	if _, err := run(options{Level: "sandbox.json", Archetype: "nobody", FPS: 60}); err == nil {
		t.Fatalf("expected an error for an unknown archetype")
	}
}

func TestWrite(t *testing.T) {
	samples := []Sample{{Time: 0.5, Position: [2]float64{1, 2}, Grounded: true}}

	var text bytes.Buffer
	if err := write(&text, samples, false); err != nil {
		t.Fatalf("write text: %v", err)
	}
	if !strings.Contains(text.String(), "grounded true") {
		t.Fatalf("unexpected text output %q", text.String())
	}

	var out bytes.Buffer
	if err := write(&out, samples, true); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	var back []Sample
	if err := yaml.Unmarshal(out.Bytes(), &back); err != nil {
		t.Fatalf("yaml output does not parse: %v", err)
	}
	if len(back) != 1 || back[0].Position != samples[0].Position {
		t.Fatalf("got %+v", back)
	}
}
