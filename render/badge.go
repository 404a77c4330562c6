package render

import (
	"image"

	"github.com/echoflaresat/skydome/ephem"
)

// Badge is the moon-phase indicator: the shaded disk plus its readouts.
type Badge struct {
	Image    *image.NRGBA `json:"-"`
	Fraction float64      `json:"fraction"`
	Phase    float64      `json:"phase"`
	Name     string       `json:"name"`
	Dark     bool         `json:"dark"`
}

// NewBadge shades illum.Phase. The illuminated fraction is carried as a
// readout only.
func NewBadge(p Phase, illum ephem.Illumination, dark bool) Badge {
	return Badge{
		Image:    RenderPhase(p, illum.Phase, dark),
		Fraction: illum.Fraction,
		Phase:    illum.Phase,
		Name:     ephem.PhaseName(illum.Phase),
		Dark:     dark,
	}
}

// Percent is the illuminated fraction rounded to a whole percent.
func (b Badge) Percent() int {
	return int(b.Fraction*100 + 0.5)
}
