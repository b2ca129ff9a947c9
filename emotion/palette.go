package emotion

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Direction tags the force pattern applied to particles for an emotion.
type Direction uint8

const (
	SteadyFlow Direction = iota
	RadiantSpiral
	SlowFall
	VolatileBurst
	ImplodingVortex
	Shockwave
	RepelSwirls

	numDirections
)

var directionNames = [numDirections]string{
	SteadyFlow:      "steady-flow",
	RadiantSpiral:   "radiant-spiral",
	SlowFall:        "slow-fall",
	VolatileBurst:   "volatile-burst",
	ImplodingVortex: "imploding-vortex",
	Shockwave:       "shockwave",
	RepelSwirls:     "repel-swirls",
}

func (d Direction) String() string {
	if d >= numDirections {
		return directionNames[SteadyFlow]
	}
	return directionNames[d]
}

// ParseDirection maps a direction tag name.
func ParseDirection(s string) (Direction, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d, name := range directionNames {
		if name == s {
			return Direction(d), nil
		}
	}
	return SteadyFlow, fmt.Errorf("unknown direction %q", s)
}

// RGB is a color with float channels in [0, 255].
type RGB struct {
	R, G, B float32
}

// Lerp moves c toward target by t.
func (c RGB) Lerp(target RGB, t float32) RGB {
	return RGB{
		R: c.R + (target.R-c.R)*t,
		G: c.G + (target.G-c.G)*t,
		B: c.B + (target.B-c.B)*t,
	}
}

// Clamp limits every channel to [0, 255].
func (c RGB) Clamp() RGB {
	return RGB{R: clampChannel(c.R), G: clampChannel(c.G), B: clampChannel(c.B)}
}

// Bytes returns the clamped channels as bytes.
func (c RGB) Bytes() (r, g, b uint8) {
	c = c.Clamp()
	return uint8(c.R + 0.5), uint8(c.G + 0.5), uint8(c.B + 0.5)
}

func clampChannel(v float32) float32 {
	if v != v || v < 0 { // NaN or negative
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// ParseHexColor parses "#rrggbb" or "#rgb".
func ParseHexColor(s string) (RGB, error) {
	c, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return RGB{}, fmt.Errorf("parsing color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: float32(r), G: float32(g), B: float32(b)}, nil
}

// PaletteEntry describes how one emotion looks and moves.
type PaletteEntry struct {
	Primary   RGB
	Secondary RGB
	Glow      RGB
	Direction Direction
	Speed     float32
}

// Palette maps every emotion to its entry.
type Palette [numEmotions]PaletteEntry

// DefaultPalette returns the built-in palette.
func DefaultPalette() Palette {
	return Palette{
		Joy: {
			Primary:   RGB{255, 223, 0},
			Secondary: RGB{255, 191, 0},
			Glow:      RGB{255, 239, 153},
			Direction: RadiantSpiral,
			Speed:     1.4,
		},
		Sadness: {
			Primary:   RGB{70, 130, 180},
			Secondary: RGB{100, 149, 237},
			Glow:      RGB{176, 196, 222},
			Direction: SlowFall,
			Speed:     0.6,
		},
		Anger: {
			Primary:   RGB{255, 69, 0},
			Secondary: RGB{220, 20, 60},
			Glow:      RGB{255, 99, 71},
			Direction: VolatileBurst,
			Speed:     2.0,
		},
		Fear: {
			Primary:   RGB{128, 0, 128},
			Secondary: RGB{75, 0, 130},
			Glow:      RGB{186, 85, 211},
			Direction: ImplodingVortex,
			Speed:     1.2,
		},
		Surprise: {
			Primary:   RGB{255, 182, 193},
			Secondary: RGB{255, 105, 180},
			Glow:      RGB{255, 192, 203},
			Direction: Shockwave,
			Speed:     1.8,
		},
		Disgust: {
			Primary:   RGB{128, 128, 0},
			Secondary: RGB{85, 107, 47},
			Glow:      RGB{154, 205, 50},
			Direction: RepelSwirls,
			Speed:     0.9,
		},
		Neutral: {
			Primary:   RGB{150, 150, 150},
			Secondary: RGB{128, 128, 128},
			Glow:      RGB{192, 192, 192},
			Direction: SteadyFlow,
			Speed:     1.0,
		},
	}
}

// Lookup returns the entry for e, or the neutral entry for unknown values.
func (p *Palette) Lookup(e Emotion) PaletteEntry {
	if !e.Valid() {
		return p[Neutral]
	}
	return p[e]
}

// Override is a textual palette override as found in configuration.
type Override struct {
	Primary   string
	Secondary string
	Glow      string
	Direction string
	Speed     float32
}

// WithOverrides returns a copy of p with the given overrides applied.
// Keys are emotion names; empty override fields keep the existing value.
func (p Palette) WithOverrides(overrides map[string]Override) (Palette, error) {
	for name, o := range overrides {
		e := ParseEmotion(name)
		if e.String() != strings.ToLower(strings.TrimSpace(name)) {
			return p, fmt.Errorf("palette: unknown emotion %q", name)
		}
		entry := p[e]

		var err error
		if o.Primary != "" {
			if entry.Primary, err = ParseHexColor(o.Primary); err != nil {
				return p, fmt.Errorf("palette %s primary: %w", name, err)
			}
		}
		if o.Secondary != "" {
			if entry.Secondary, err = ParseHexColor(o.Secondary); err != nil {
				return p, fmt.Errorf("palette %s secondary: %w", name, err)
			}
		}
		if o.Glow != "" {
			if entry.Glow, err = ParseHexColor(o.Glow); err != nil {
				return p, fmt.Errorf("palette %s glow: %w", name, err)
			}
		}
		if o.Direction != "" {
			if entry.Direction, err = ParseDirection(o.Direction); err != nil {
				return p, fmt.Errorf("palette %s: %w", name, err)
			}
		}
		if o.Speed > 0 {
			entry.Speed = o.Speed
		}
		p[e] = entry
	}
	return p, nil
}
