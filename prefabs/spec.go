package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Archetype kinds understood by the movement package.
const (
	KindHuman    = "human"
	KindGorilla  = "gorilla"
	KindScripted = "scripted"
)

var ErrInvalidSpec = errors.New("prefabs: invalid spec")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// ArchetypeSpec tunes one movement archetype. Jump power and gravity are not
// listed directly; they follow from the apex height and time to apex.
type ArchetypeSpec struct {
	Name              string       `yaml:"name"`
	Kind              string       `yaml:"kind"`
	ApexHeight        float64      `yaml:"apex_height"`
	TimeToApex        float64      `yaml:"time_to_apex"`
	WalkSpeed         float64      `yaml:"walk_speed"`
	FallMultiplier    float64      `yaml:"fall_multiplier"`
	LowJumpMultiplier float64      `yaml:"low_jump_multiplier"`
	JumpCooldown      float64      `yaml:"jump_cooldown"`
	WalkLockout       float64      `yaml:"walk_lockout"`
	Script            string       `yaml:"script"`
	Collider          ColliderSpec `yaml:"collider"`
	Color             YAMLColor    `yaml:"color"`
}

// LoadArchetype loads <name>.yaml, preferring a copy on disk.
func LoadArchetype(name string) (*ArchetypeSpec, error) {
	filename := name
	if !isSpecFile(filename) {
		filename += ".yaml"
	}
	spec, err := LoadSpec[ArchetypeSpec](filename)
	if err != nil {
		return nil, err
	}
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(filename, ".yaml")
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return &spec, nil
}

// Validate checks the fields every kind depends on.
func (s *ArchetypeSpec) Validate() error {
	if s == nil {
		return ErrInvalidSpec
	}
	switch s.Kind {
	case KindHuman, KindGorilla:
		if s.ApexHeight <= 0 || s.TimeToApex <= 0 {
			return fmt.Errorf("%w: apex_height and time_to_apex must be positive", ErrInvalidSpec)
		}
	case KindScripted:
		if strings.TrimSpace(s.Script) == "" {
			return fmt.Errorf("%w: scripted archetype needs a script", ErrInvalidSpec)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidSpec, s.Kind)
	}
	if s.Collider.Width <= 0 || s.Collider.Height <= 0 {
		return fmt.Errorf("%w: collider must have a positive size", ErrInvalidSpec)
	}
	return nil
}

type ColliderSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	parsed, err := ParseColor(value.Value)
	if err != nil {
		return err
	}
	c.Color = parsed
	return nil
}

// ParseColor reads "#rrggbb" or "#rrggbbaa"; the leading # is optional.
func ParseColor(hex string) (color.NRGBA, error) {
	s := strings.TrimPrefix(hex, "#")

	if len(s) != 6 && len(s) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color format: %s", hex)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return color.NRGBA{}, err
	}
	g, err := parse(2)
	if err != nil {
		return color.NRGBA{}, err
	}
	b, err := parse(4)
	if err != nil {
		return color.NRGBA{}, err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return color.NRGBA{}, err
		}
	}

	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}
