package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic2d/collision"
)

//go:embed *.json
var LevelsFS embed.FS

var ErrInvalidLevel = errors.New("levels: invalid level")

// Level is a tile map stored as JSON. Tile coordinates have row 0 at the
// top; world coordinates have y pointing up with one unit per tile.
type Level struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	// Layers are flat row-major arrays of Width*Height tiles; zero is empty.
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	Slopes    []Slope     `json:"slopes,omitempty"`
	Entities  []Entity    `json:"entities,omitempty"`
}

type LayerMeta struct {
	Physics bool `json:"physics"`
	// Layer is "solid", "water" or "decor". Empty means solid.
	Layer string `json:"layer,omitempty"`
	Color string `json:"color,omitempty"`
}

// Slope is a rotated box in world units.
type Slope struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
	Angle float64 `json:"angle"`
	Layer string  `json:"layer,omitempty"`
}

type Entity struct {
	Type  string                 `json:"type"`
	X     int                    `json:"x"`
	Y     int                    `json:"y"`
	Props map[string]interface{} `json:"props,omitempty"`
}

// Spawn is a spawn entity resolved to world units.
type Spawn struct {
	Archetype string
	Position  cp.Vector
}

// LoadLevelFromFS reads an embedded level.
func LoadLevelFromFS(name string) (*Level, error) {
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", name, err)
	}
	return parse(name, data)
}

// Load reads a level from disk, falling back to the embedded copy of the
// same name.
func Load(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LoadLevelFromFS(path)
		}
		return nil, fmt.Errorf("levels: read %s: %w", path, err)
	}
	return parse(path, data)
}

func parse(name string, data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("levels: unmarshal %s: %w", name, err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("levels: %s: %w", name, err)
	}
	return &lvl, nil
}

// Validate checks dimensions and layer names, and pads LayerMeta so every
// layer has an entry. Layers without metadata have no physics.
func (l *Level) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidLevel, l.Width, l.Height)
	}
	for i, layer := range l.Layers {
		if len(layer) != l.Width*l.Height {
			return fmt.Errorf("%w: layer %d has %d tiles, want %d", ErrInvalidLevel, i, len(layer), l.Width*l.Height)
		}
	}
	for len(l.LayerMeta) < len(l.Layers) {
		l.LayerMeta = append(l.LayerMeta, LayerMeta{})
	}
	for i, meta := range l.LayerMeta {
		if _, err := ParseLayer(meta.Layer); err != nil {
			return fmt.Errorf("%w: layer_meta %d: %v", ErrInvalidLevel, i, err)
		}
	}
	for i, s := range l.Slopes {
		if s.W <= 0 || s.H <= 0 {
			return fmt.Errorf("%w: slope %d has size %gx%g", ErrInvalidLevel, i, s.W, s.H)
		}
		if _, err := ParseLayer(s.Layer); err != nil {
			return fmt.Errorf("%w: slope %d: %v", ErrInvalidLevel, i, err)
		}
	}
	return nil
}

// ParseLayer maps a layer name to its collision classification.
func ParseLayer(name string) (collision.Layer, error) {
	switch name {
	case "", "solid":
		return collision.LayerSolid, nil
	case "water":
		return collision.LayerWater, nil
	case "decor":
		return collision.LayerDecor, nil
	default:
		return 0, fmt.Errorf("unknown layer %q", name)
	}
}

// Bounds is the level rectangle in world units.
func (l *Level) Bounds() cp.BB {
	return cp.BB{L: 0, B: 0, R: float64(l.Width), T: float64(l.Height)}
}

// TileBB returns the world rectangle covering tiles [x, x+w) x [row, row+h).
func (l *Level) TileBB(x, row, w, h int) cp.BB {
	return cp.BB{
		L: float64(x),
		B: float64(l.Height - row - h),
		R: float64(x + w),
		T: float64(l.Height - row),
	}
}

// Spawns lists the spawn entities. A spawn sits at the center of its tile;
// the archetype prop picks the body type and defaults to fallback.
func (l *Level) Spawns(fallback string) []Spawn {
	var out []Spawn
	for _, e := range l.Entities {
		if e.Type != "spawn" {
			continue
		}
		name := fallback
		if v, ok := e.Props["archetype"].(string); ok && v != "" {
			name = v
		}
		bb := l.TileBB(e.X, e.Y, 1, 1)
		out = append(out, Spawn{Archetype: name, Position: bb.Center()})
	}
	return out
}
