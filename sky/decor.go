package sky

import (
	"math"

	"github.com/echoflaresat/skydome/colors"
	"github.com/echoflaresat/skydome/vectors"
)

const (
	ringSegments = 128
	tickStepDeg  = 15
	labelScale   = 1.08
)

// Tick is a radial mark on the horizon plane.
type Tick struct {
	From  vectors.Vec3 `json:"from"`
	To    vectors.Vec3 `json:"to"`
	Major bool         `json:"major"`
}

// Label is a compass direction placed just outside the ring.
type Label struct {
	Text     string       `json:"text"`
	Position vectors.Vec3 `json:"position"`
	Major    bool         `json:"major"`
}

// Decorations is the fixed horizon geometry around the trajectories. It
// depends only on the sphere radius and the light/dark flag.
type Decorations struct {
	Radius        float64      `json:"radius"`
	HorizonRadius float64      `json:"horizonRadius"`
	Ring          Polyline     `json:"ring"`
	Ticks         []Tick       `json:"ticks"`
	Labels        []Label      `json:"labels"`
	Zenith        vectors.Vec3 `json:"zenith"`
	Theme         colors.Theme `json:"theme"`
}

var compass = []struct {
	text  string
	deg   float64
	major bool
}{
	{"N", 0, true}, {"NE", 45, false}, {"E", 90, true}, {"SE", 135, false},
	{"S", 180, true}, {"SW", 225, false}, {"W", 270, true}, {"NW", 315, false},
}

func BuildDecorations(r float64, dark bool) Decorations {
	d := Decorations{
		Radius:        r,
		HorizonRadius: r,
		Ring:          make(Polyline, 0, ringSegments+1),
		Zenith:        vectors.Vec3{Y: r},
		Theme:         colors.ThemeFor(dark),
	}

	// Closed loop: the last point repeats the first.
	for i := 0; i <= ringSegments; i++ {
		az := 2 * math.Pi * float64(i%ringSegments) / ringSegments
		d.Ring = append(d.Ring, ProjectAngles(az, 0, r))
	}

	for deg := 0; deg < 360; deg += tickStepDeg {
		major := deg%90 == 0
		inner := 0.94
		if major {
			inner = 0.88
		}
		az := float64(deg) * math.Pi / 180
		d.Ticks = append(d.Ticks, Tick{
			From:  ProjectAngles(az, 0, r*inner),
			To:    ProjectAngles(az, 0, r),
			Major: major,
		})
	}

	for _, c := range compass {
		d.Labels = append(d.Labels, Label{
			Text:     c.text,
			Position: ProjectAngles(c.deg*math.Pi/180, 0, r*labelScale),
			Major:    c.major,
		})
	}
	return d
}
