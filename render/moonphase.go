package render

import (
	"image"
	"math"

	"github.com/echoflaresat/skydome/colors"
)

// Phase holds the shading parameters of the moon badge.
type Phase struct {
	Size          int     // output edge length in pixels
	Supersample   int     // n×n samples per pixel
	EdgeSoftness  float64 // half-width of the terminator band in n·l
	Ambient       float64 // floor applied to the unlit side
	LimbDarkening float64 // attenuation at the limb, scaled by (1 - nz)
	Gamma         float64
}

var (
	litColor      = colors.MustHex("#f2eedf")
	darkColorDay  = colors.MustHex("#59606e")
	darkColorNite = colors.MustHex("#1b1e26")
)

func DefaultPhase() Phase {
	return Phase{
		Size:          128,
		Supersample:   1,
		EdgeSoftness:  0.06,
		Ambient:       0.06,
		LimbDarkening: 0.25,
		Gamma:         2.2,
	}
}

func (p Phase) radius() float64 {
	return float64(p.Size)/2 - 2
}

// LightDir returns the light direction in the sphere frame for a phase
// fraction in [0,1). The viewer looks down -Z at the +Z hemisphere, so 0
// lights the far side and 0.5 the near side.
func LightDir(phase float64) (x, y, z float64) {
	a := 2 * math.Pi * phase
	return math.Sin(a), 0, -math.Cos(a)
}

// Intensity returns the final shaded intensity in [0,1] at disk offset
// (nx, ny), both in units of the disk radius with +ny up. ok is false
// outside the disk.
func (p Phase) Intensity(phase, nx, ny float64) (v float64, ok bool) {
	d2 := nx*nx + ny*ny
	if d2 > 1 {
		return 0, false
	}
	nz := math.Sqrt(math.Max(0, 1-d2))
	lx, ly, lz := LightDir(phase)
	ndl := nx*lx + ny*ly + nz*lz

	t := 1.0
	if e := p.EdgeSoftness; e > 0 {
		t = colors.Clamp01((ndl + e) / (2 * e))
	} else if ndl < 0 {
		t = 0
	}

	lit := p.Ambient + (1-p.Ambient)*t
	lit *= 1 - p.LimbDarkening*(1-nz)
	return colors.Gamma(lit, p.Gamma), true
}

// Shade returns the badge color at disk offset (nx, ny). Pixels off the
// disk are fully transparent.
func (p Phase) Shade(phase, nx, ny float64, dark bool) colors.Color4 {
	v, ok := p.Intensity(phase, nx, ny)
	if !ok {
		return colors.Transparent()
	}
	base := darkColorDay
	if dark {
		base = darkColorNite
	}
	return base.Mix(litColor, v)
}

// RenderPhase shades the moon disk for a phase fraction into a square
// image of p.Size pixels. Only the phase drives the terminator.
func RenderPhase(p Phase, phase float64, dark bool) *image.NRGBA {
	size := p.Size
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	if size <= 0 {
		return img
	}

	offsets := GenerateSupersamplingOffsets(max(p.Supersample, 1))
	n := float64(len(offsets))
	c := float64(size) / 2
	r := p.radius()
	if r <= 0 {
		return img
	}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			// Accumulate premultiplied so uncovered samples only lower alpha.
			accum := colors.Color4{}
			for _, off := range offsets {
				nx := (float64(x) + 0.5 + off[0] - c) / r
				ny := -(float64(y) + 0.5 + off[1] - c) / r
				s := p.Shade(phase, nx, ny, dark)
				accum = accum.Add(s.Scale(s.A).WithAlpha(s.A))
			}
			if accum.A == 0 {
				continue
			}
			px := accum.Scale(1 / accum.A).WithAlpha(accum.A / n)
			img.SetNRGBA(x, y, px.ToNRGBA())
		}
	}
	return img
}

// GenerateSupersamplingOffsets returns n×n offsets in [-0.5, +0.5] for
// supersampling, as pairs (dx, dy) with pixel-center spacing.
func GenerateSupersamplingOffsets(n int) [][2]float64 {
	if n <= 0 {
		return nil
	}
	step := 1.0 / float64(n)
	out := make([][2]float64, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			dx := (float64(i)+0.5)*step - 0.5
			dy := (float64(j)+0.5)*step - 0.5
			out = append(out, [2]float64{dx, dy})
		}
	}
	return out
}
