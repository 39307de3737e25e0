package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic2d/assets"
	"github.com/milk9111/kinematic2d/collision"
	"github.com/milk9111/kinematic2d/common"
	"github.com/milk9111/kinematic2d/geometry"
	"github.com/milk9111/kinematic2d/levels"
	"github.com/milk9111/kinematic2d/prefabs"
	"github.com/milk9111/kinematic2d/world"
	"github.com/yohamta/donburi"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = common.BaseWidth
	baseHeight = common.BaseHeight

	pixelsPerUnit = 20
	tickRate      = 60
)

// Options are the sandbox command line settings.
type Options struct {
	Level     string
	Archetype string
	Debug     bool
	Grid      bool
	Watch     bool
}

type tile struct {
	bb    cp.BB
	color color.Color
}

type Game struct {
	frames int

	input  *Input
	camera *Camera
	ui     *ebitenui.UI
	paused bool
	debug  bool

	level   *levels.Level
	space   *geometry.Space
	world   *world.World
	player  donburi.Entity
	spawn   levels.Spawn
	tiles   []tile
	watcher *prefabs.Watcher

	sounds      map[string]*audio.Player
	wasGrounded bool

	pixel *ebiten.Image
}

func NewGame(opts Options) (*Game, error) {
	lvl, err := levels.Load(opts.Level)
	if err != nil {
		return nil, err
	}

	g := &Game{
		input: NewInput(),
		debug: opts.Debug,
		level: lvl,
		pixel: ebiten.NewImage(1, 1),
	}
	g.pixel.Fill(color.White)

	var caster collision.RayCaster
	if opts.Grid {
		grid := lvl.NewGrid()
		levels.Build(lvl, levels.ForGrid(grid))
		caster = grid
	} else {
		g.space = geometry.NewSpace()
		levels.Build(lvl, levels.ForSpace(g.space))
		caster = g.space
	}
	g.world = world.New(caster)
	g.tiles = levelTiles(lvl)

	spawns := lvl.Spawns(prefabs.KindHuman)
	if len(spawns) == 0 {
		bb := lvl.Bounds()
		spawns = []levels.Spawn{{Archetype: prefabs.KindHuman, Position: cp.Vector{X: bb.Center().X, Y: bb.T - 4}}}
	}
	g.spawn = spawns[0]
	if opts.Archetype != "" {
		g.spawn.Archetype = opts.Archetype
	}
	if g.player, err = g.world.Spawn(g.spawn.Archetype, g.spawn.Position); err != nil {
		return nil, err
	}
	// Extra spawns stand idle next to the player.
	for _, s := range spawns[1:] {
		if _, err := g.world.Spawn(s.Archetype, s.Position); err != nil {
			log.Printf("game: %v", err)
		}
	}

	g.camera = NewCamera(g.spawn.Position)
	g.ui = NewPauseUI(g)
	g.sounds = loadSounds("jump.wav", "land.wav")

	if opts.Watch {
		w, err := prefabs.NewWatcher(prefabs.Dir, prefabs.Dir+"/scripts")
		if err != nil {
			log.Printf("game: watch %s: %v", prefabs.Dir, err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func loadSounds(names ...string) map[string]*audio.Player {
	sounds := make(map[string]*audio.Player, len(names))
	for _, name := range names {
		p, err := assets.LoadAudioPlayer(name)
		if err != nil {
			log.Printf("game: sound %s: %v", name, err)
			continue
		}
		sounds[name] = p
	}
	return sounds
}

func (g *Game) playSound(name string) {
	p := g.sounds[name]
	if p == nil || p.IsPlaying() {
		return
	}
	p.Rewind()
	p.Play()
}

// levelTiles collects every colored tile for drawing.
func levelTiles(lvl *levels.Level) []tile {
	var tiles []tile
	for i, layer := range lvl.Layers {
		meta := lvl.LayerMeta[i]
		if meta.Color == "" {
			continue
		}
		c, err := prefabs.ParseColor(meta.Color)
		if err != nil {
			log.Printf("game: layer %d: %v", i, err)
			continue
		}
		for idx, v := range layer {
			if v == 0 {
				continue
			}
			tiles = append(tiles, tile{bb: lvl.TileBB(idx%lvl.Width, idx/lvl.Width, 1, 1), color: c})
		}
	}
	return tiles
}

func (g *Game) Update() error {
	g.frames++
	g.input.Update()
	g.pollWatcher()

	if g.input.PausePressed {
		g.paused = !g.paused
	}
	if g.paused {
		g.ui.Update()
		return nil
	}
	if g.input.DebugPressed {
		g.debug = !g.debug
	}
	if g.input.ResetPressed {
		g.Reset()
	}

	walk, jump := g.input.Forces()
	g.world.SetInput(g.player, walk, jump)
	g.world.Update(1.0 / tickRate)

	body, ok := g.world.Body(g.player)
	if !ok {
		return nil
	}
	c := body.Controller
	grounded := c.Grounded()
	if g.input.JumpPressed && c.Velocity.Y > 0 && !grounded {
		g.playSound("jump.wav")
	}
	if grounded && !g.wasGrounded {
		g.playSound("land.wav")
	}
	g.wasGrounded = grounded
	g.camera.Update(c.Position, 1.0/tickRate)
	return nil
}

// Reset puts the player back on its spawn point.
func (g *Game) Reset() {
	archetype := g.spawn.Archetype
	if body, ok := g.world.Body(g.player); ok {
		archetype = body.Archetype
	}
	g.world.Despawn(g.player)
	e, err := g.world.Spawn(archetype, g.spawn.Position)
	if err != nil {
		log.Printf("game: reset: %v", err)
		return
	}
	g.player = e
	g.wasGrounded = false
	g.camera.Snap(g.spawn.Position)
}

// SwapPlayer changes the archetype of the player body.
func (g *Game) SwapPlayer(archetype string) {
	if err := g.world.Swap(g.player, archetype); err != nil {
		log.Printf("game: %v", err)
	}
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(path)
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("game: watch: %v", err)
			}
			return
		default:
			return
		}
	}
}

func (g *Game) reload(path string) {
	name := prefabs.ArchetypeName(path)
	archetypes := []string{name}
	if prefabs.IsScriptFile(path) {
		archetypes = archetypes[:0]
		seen := make(map[string]bool)
		g.world.Each(func(_ donburi.Entity, body *world.BodyData) {
			if seen[body.Archetype] || body.Spec == nil {
				return
			}
			if prefabs.ArchetypeName(body.Spec.Script) == name {
				seen[body.Archetype] = true
				archetypes = append(archetypes, body.Archetype)
			}
		})
	}
	for _, a := range archetypes {
		if _, err := g.world.Reload(a); err != nil {
			log.Printf("game: %v", err)
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	for _, t := range g.tiles {
		g.fillRect(screen, t.bb.Center(), cp.Vector{X: t.bb.R - t.bb.L, Y: t.bb.T - t.bb.B}, 0, t.color)
	}
	for _, s := range g.level.Slopes {
		g.fillRect(screen, cp.Vector{X: s.X, Y: s.Y}, cp.Vector{X: s.W, Y: s.H}, s.Angle, colornames.Slategray)
	}

	g.world.Each(func(_ donburi.Entity, body *world.BodyData) {
		var c color.Color = colornames.White
		if body.Spec != nil && body.Spec.Color.Color != nil {
			c = body.Spec.Color.Color
		}
		g.fillRect(screen, body.Controller.Position, body.Controller.Size(), 0, c)
	})

	if g.debug {
		drawSpaceDebug(screen, g.space, g.camera)
		g.drawDebugText(screen)
	}

	if g.paused {
		g.ui.Draw(screen)
	}
}

// fillRect draws a box centered at center, rotated counter-clockwise by
// degrees.
func (g *Game) fillRect(screen *ebiten.Image, center, size cp.Vector, degrees float64, c color.Color) {
	x, y := g.camera.WorldToScreen(center)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-0.5, -0.5)
	op.GeoM.Scale(size.X*pixelsPerUnit, size.Y*pixelsPerUnit)
	op.GeoM.Rotate(-common.Deg2Rad(degrees))
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	screen.DrawImage(g.pixel, op)
}

func (g *Game) drawDebugText(screen *ebiten.Image) {
	msg := fmt.Sprintf("Frames: %d    FPS: %.2f    Bodies: %d", g.frames, ebiten.ActualFPS(), g.world.Len())
	if body, ok := g.world.Body(g.player); ok {
		c := body.Controller
		n := c.LastContactNormal()
		msg += fmt.Sprintf("\n%s  pos (%.2f, %.2f)  vel (%.2f, %.2f)  normal (%.2f, %.2f)  grounded %v",
			body.Archetype, c.Position.X, c.Position.Y, c.Velocity.X, c.Velocity.Y, n.X, n.Y, c.Grounded())
	}
	ebitenutil.DebugPrint(screen, msg)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// Close stops the file watcher.
func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}
