package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	debug := flag.Bool("debug", false, "draw collision geometry and controller state")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelName := flag.String("level", "sandbox.json", "level file; embedded levels are used when it is not on disk")
	archetype := flag.String("archetype", "", "player archetype; defaults to the level spawn")
	grid := flag.Bool("grid", false, "collide against the tile grid instead of the chipmunk space")
	watch := flag.Bool("watch", false, "reload archetypes when files under prefabs/ change")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("kinematic2d")
	ebiten.SetTPS(tickRate)

	game, err := NewGame(Options{
		Level:     *levelName,
		Archetype: *archetype,
		Debug:     *debug,
		Grid:      *grid,
		Watch:     *watch,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
