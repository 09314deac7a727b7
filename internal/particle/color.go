package particle

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Color is a straight-alpha color with a fractional alpha, matching the
// rgba() notation the field is styled in.
type Color struct {
	R, G, B uint8
	A       float64
}

func RGBA(r, g, b uint8, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// ParseHex parses "#rrggbb" into an opaque Color.
func ParseHex(hex string) (Color, error) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 6 {
		return Color{}, fmt.Errorf("parsing color %q: want 6 hex digits", hex)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("parsing color %q: %w", hex, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 1}, nil
}

func mustHex(hex string) Color {
	c, err := ParseHex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// NRGBA quantizes c for image/color consumers.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(clamp01(c.A) * 255))}
}

func lerpColor(a, b Color, t float64) Color {
	t = clamp01(t)
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return Color{
		R: mix(a.R, b.R),
		G: mix(a.G, b.G),
		B: mix(a.B, b.B),
		A: a.A + (b.A-a.A)*t,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
