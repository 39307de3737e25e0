package levels

import (
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic2d/collision"
	"github.com/milk9111/kinematic2d/geometry"
)

// boundsThickness is the width of the walls fencing the level in.
const boundsThickness = 1.0

// Builder receives the static geometry of a level.
type Builder interface {
	AddRect(bb cp.BB, layer collision.Layer)
	// AddSlope reports false when the backend cannot hold rotated boxes.
	AddSlope(center, size cp.Vector, degrees float64, layer collision.Layer) bool
}

type spaceBuilder struct{ space *geometry.Space }

// ForSpace builds into a chipmunk space.
func ForSpace(s *geometry.Space) Builder {
	return spaceBuilder{space: s}
}

func (b spaceBuilder) AddRect(bb cp.BB, layer collision.Layer) {
	b.space.AddRect(bb, layer)
}

func (b spaceBuilder) AddSlope(center, size cp.Vector, degrees float64, layer collision.Layer) bool {
	b.space.AddBox(center, size, degrees, layer)
	return true
}

type gridBuilder struct{ grid *geometry.Grid }

// ForGrid builds into a tile grid. Slopes are skipped.
func ForGrid(g *geometry.Grid) Builder {
	return gridBuilder{grid: g}
}

func (b gridBuilder) AddRect(bb cp.BB, layer collision.Layer) {
	b.grid.AddRect(bb, layer)
}

func (gridBuilder) AddSlope(cp.Vector, cp.Vector, float64, collision.Layer) bool {
	return false
}

// NewGrid returns a grid covering the level and its bounding walls.
func (l *Level) NewGrid() *geometry.Grid {
	bb := l.Bounds()
	bb = cp.BB{L: bb.L - boundsThickness, B: bb.B - boundsThickness, R: bb.R + boundsThickness, T: bb.T + boundsThickness}
	return geometry.NewGrid(bb, 4)
}

// Stats counts what Build added.
type Stats struct {
	Rects         int
	Slopes        int
	SkippedSlopes int
}

// Build adds the level's physics layers, slopes and bounding walls. Runs of
// contiguous tiles are merged into as few rectangles as possible.
func Build(l *Level, b Builder) Stats {
	var stats Stats
	if l == nil || b == nil {
		return stats
	}

	for i, layer := range l.Layers {
		if i >= len(l.LayerMeta) || !l.LayerMeta[i].Physics || len(layer) != l.Width*l.Height {
			continue
		}
		kind, err := ParseLayer(l.LayerMeta[i].Layer)
		if err != nil {
			continue
		}
		for _, bb := range l.mergeTiles(layer) {
			b.AddRect(bb, kind)
			stats.Rects++
		}
	}

	for _, s := range l.Slopes {
		kind, err := ParseLayer(s.Layer)
		if err != nil {
			continue
		}
		if b.AddSlope(cp.Vector{X: s.X, Y: s.Y}, cp.Vector{X: s.W, Y: s.H}, s.Angle, kind) {
			stats.Slopes++
		} else {
			stats.SkippedSlopes++
		}
	}

	w, h := float64(l.Width), float64(l.Height)
	t := boundsThickness
	// floor, roof, left, right
	walls := []cp.BB{
		{L: -t, B: -t, R: w + t, T: 0},
		{L: -t, B: h, R: w + t, T: h + t},
		{L: -t, B: 0, R: 0, T: h},
		{L: w, B: 0, R: w + t, T: h},
	}
	for _, bb := range walls {
		b.AddRect(bb, collision.LayerSolid)
		stats.Rects++
	}

	log.Printf("levels: built %d shapes (%d slopes, %d skipped)", stats.Rects+stats.Slopes, stats.Slopes, stats.SkippedSlopes)
	return stats
}

// mergeTiles greedily grows each unvisited tile into the widest run on its
// row, then extends that run down while every tile below is also set.
func (l *Level) mergeTiles(layer []int) []cp.BB {
	var out []cp.BB
	processed := make([]bool, l.Width*l.Height)
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			idx := y*l.Width + x
			if processed[idx] {
				continue
			}
			if layer[idx] == 0 {
				processed[idx] = true
				continue
			}

			w := 1
			for x+w < l.Width {
				idx2 := y*l.Width + (x + w)
				if processed[idx2] || layer[idx2] == 0 {
					break
				}
				w++
			}

			h := 1
		heightLoop:
			for y+h < l.Height {
				for xi := x; xi < x+w; xi++ {
					idx2 := (y+h)*l.Width + xi
					if processed[idx2] || layer[idx2] == 0 {
						break heightLoop
					}
				}
				h++
			}

			out = append(out, l.TileBB(x, y, w, h))

			for yy := y; yy < y+h; yy++ {
				for xx := x; xx < x+w; xx++ {
					processed[yy*l.Width+xx] = true
				}
			}
		}
	}
	return out
}
