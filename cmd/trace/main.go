// Command trace runs one body through a level without a window and prints
// where it went. It is handy for checking tuning changes from a shell.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic2d/collision"
	"github.com/milk9111/kinematic2d/geometry"
	"github.com/milk9111/kinematic2d/levels"
	"github.com/milk9111/kinematic2d/prefabs"
	"github.com/milk9111/kinematic2d/world"
	"gopkg.in/yaml.v3"
)

type options struct {
	Level     string
	Archetype string
	Seconds   float64
	FPS       float64
	Walk      float64
	Jump      float64
	JumpFor   float64
	Every     int
	Grid      bool
	YAML      bool
}

// Sample is one recorded frame.
type Sample struct {
	Time     float64    `yaml:"t"`
	Position [2]float64 `yaml:"position,flow"`
	Velocity [2]float64 `yaml:"velocity,flow"`
	Normal   [2]float64 `yaml:"normal,flow"`
	Grounded bool       `yaml:"grounded"`
}

func main() {
	var opts options
	flag.StringVar(&opts.Level, "level", "sandbox.json", "level file; embedded levels are used when it is not on disk")
	flag.StringVar(&opts.Archetype, "archetype", "", "body archetype; defaults to the level spawn")
	flag.Float64Var(&opts.Seconds, "seconds", 2, "simulated time")
	flag.Float64Var(&opts.FPS, "fps", 60, "frames per simulated second")
	flag.Float64Var(&opts.Walk, "walk", 0, "walk force in [-1, 1]")
	flag.Float64Var(&opts.Jump, "jump", 0, "jump force held from the start")
	flag.Float64Var(&opts.JumpFor, "jump-for", 0.2, "seconds the jump force is held")
	flag.IntVar(&opts.Every, "every", 6, "print every nth frame")
	flag.BoolVar(&opts.Grid, "grid", false, "collide against the tile grid instead of the chipmunk space")
	flag.BoolVar(&opts.YAML, "yaml", false, "print samples as yaml")
	flag.StringVar(&prefabs.Dir, "prefabs", prefabs.Dir, "directory with archetype overrides")
	flag.Parse()

	samples, err := run(opts)
	if err != nil {
		log.Fatal(err)
	}
	if err := write(os.Stdout, samples, opts.YAML); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) ([]Sample, error) {
	if opts.FPS <= 0 {
		return nil, fmt.Errorf("trace: fps must be positive")
	}
	if opts.Every < 1 {
		opts.Every = 1
	}

	lvl, err := levels.Load(opts.Level)
	if err != nil {
		return nil, err
	}

	var caster collision.RayCaster
	if opts.Grid {
		g := lvl.NewGrid()
		levels.Build(lvl, levels.ForGrid(g))
		caster = g
	} else {
		s := geometry.NewSpace()
		levels.Build(lvl, levels.ForSpace(s))
		caster = s
	}

	spawn := levels.Spawn{Archetype: prefabs.KindHuman, Position: lvl.Bounds().Center()}
	if spawns := lvl.Spawns(prefabs.KindHuman); len(spawns) > 0 {
		spawn = spawns[0]
	}
	if opts.Archetype != "" {
		spawn.Archetype = opts.Archetype
	}

	w := world.New(caster)
	e, err := w.Spawn(spawn.Archetype, spawn.Position)
	if err != nil {
		return nil, err
	}

	dt := 1 / opts.FPS
	frames := int(opts.Seconds*opts.FPS + 0.5)
	samples := make([]Sample, 0, frames/opts.Every+1)
	for i := 1; i <= frames; i++ {
		elapsed := float64(i) * dt
		jump := 0.0
		if elapsed <= opts.JumpFor {
			jump = opts.Jump
		}
		w.SetInput(e, opts.Walk, jump)
		w.Update(dt)

		if i%opts.Every != 0 && i != frames {
			continue
		}
		body, _ := w.Body(e)
		c := body.Controller
		samples = append(samples, Sample{
			Time:     elapsed,
			Position: pair(c.Position),
			Velocity: pair(c.Velocity),
			Normal:   pair(c.LastContactNormal()),
			Grounded: c.Grounded(),
		})
	}
	return samples, nil
}

func pair(v cp.Vector) [2]float64 {
	return [2]float64{v.X, v.Y}
}

func write(out io.Writer, samples []Sample, asYAML bool) error {
	if asYAML {
		enc := yaml.NewEncoder(out)
		defer enc.Close()
		return enc.Encode(samples)
	}
	for _, s := range samples {
		if _, err := fmt.Fprintf(out, "%6.3f  pos %8.3f %8.3f  vel %8.3f %8.3f  normal %5.2f %5.2f  grounded %v\n",
			s.Time, s.Position[0], s.Position[1], s.Velocity[0], s.Velocity[1], s.Normal[0], s.Normal[1], s.Grounded); err != nil {
			return err
		}
	}
	return nil
}
