package colors

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// Color4 is a linear RGBA color with float64 components in [0,1].
type Color4 struct {
	R, G, B, A float64
}

func New(r, g, b, a float64) Color4 {
	return Color4{R: r, G: g, B: b, A: a}
}

func (c Color4) RGBA() (r, g, b, a uint32) {
	rf := Clamp01(c.R)
	gf := Clamp01(c.G)
	bf := Clamp01(c.B)
	af := Clamp01(c.A)

	// Convert to pre-multiplied 16-bit values
	return uint32(rf * af * 65535),
		uint32(gf * af * 65535),
		uint32(bf * af * 65535),
		uint32(af * 65535)
}

func From8BitRgb(r, g, b, a byte) Color4 {
	return Color4{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
		A: float64(a) / 255.0,
	}
}

// FromHex parses "#rrggbb" or "rrggbb" into an opaque color.
func FromHex(s string) (Color4, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color4{}, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color4{}, fmt.Errorf("color %q: %w", s, err)
	}
	return From8BitRgb(byte(v>>16), byte(v>>8), byte(v), 255), nil
}

// MustHex is FromHex for package-level palettes.
func MustHex(s string) Color4 {
	c, err := FromHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex returns the color as "#rrggbb", ignoring alpha. Channels are
// rounded so FromHex(c.Hex()) is exact.
func (c Color4) Hex() string {
	round := func(x float64) uint8 { return uint8(math.Round(255 * Clamp01(x))) }
	return fmt.Sprintf("#%02x%02x%02x", round(c.R), round(c.G), round(c.B))
}

func (c Color4) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

func (c *Color4) UnmarshalText(text []byte) error {
	parsed, err := FromHex(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func Transparent() Color4 {
	return Color4{}
}

func White() Color4 {
	return Color4{R: 1, G: 1, B: 1, A: 1}
}

func Black() Color4 {
	return Color4{R: 0, G: 0, B: 0, A: 1}
}

// Add returns c + o (component-wise).
func (c Color4) Add(o Color4) Color4 {
	return Color4{c.R + o.R, c.G + o.G, c.B + o.B, c.A + o.A}
}

// Scale returns c * s (scalar).
func (c Color4) Scale(s float64) Color4 {
	return Color4{c.R * s, c.G * s, c.B * s, c.A * s}
}

func (c Color4) WithAlpha(a float64) Color4 {
	return Color4{
		R: c.R,
		G: c.G,
		B: c.B,
		A: a,
	}
}

// Mix returns lerp(c, o, t) = c*(1-t) + o*t.
func (c Color4) Mix(o Color4, t float64) Color4 {
	return Color4{
		R: c.R*(1-t) + o.R*t,
		G: c.G*(1-t) + o.G*t,
		B: c.B*(1-t) + o.B*t,
		A: c.A*(1-t) + o.A*t,
	}
}

// Clamp01 clamps each component into [0,1].
func (c Color4) Clamp01() Color4 {
	return Color4{
		R: Clamp01(c.R),
		G: Clamp01(c.G),
		B: Clamp01(c.B),
		A: Clamp01(c.A),
	}
}

// ToNRGBA returns the color as 8-bit non-premultiplied channels,
// truncating toward zero.
func (c Color4) ToNRGBA() color.NRGBA {
	return color.NRGBA{
		to8bit(c.R),
		to8bit(c.G),
		to8bit(c.B),
		to8bit(c.A),
	}
}

// Clamp bounds x into [lo, hi].
func Clamp[T constraints.Float | constraints.Integer](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func Clamp01[T constraints.Float](x T) T {
	return Clamp(x, 0, 1)
}

// Gamma encodes a linear intensity in [0,1] with exponent 1/gamma.
func Gamma(x, gamma float64) float64 {
	if gamma <= 0 {
		return x
	}
	return math.Pow(Clamp01(x), 1.0/gamma)
}

func to8bit(x float64) uint8 {
	return uint8(255.0 * Clamp01(x))
}

// IEC 61966-2-1 sRGB <-> linear
func SrgbToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

func LinearToSrgb(c float64) float64 {
	if c <= 0.0031308 {
		return 12.92 * c
	}
	return 1.055*math.Pow(c, 1.0/2.4) - 0.055
}
