package scene

import (
	"fmt"
	"math"
	"time"

	"github.com/echoflaresat/skydome/sky"
	"github.com/echoflaresat/skydome/trajectory"
	"github.com/echoflaresat/skydome/vectors"
)

// TargetKind says what the pointer is over.
type TargetKind int

const (
	PointTarget TargetKind = iota // a trajectory sample point
	DomeTarget                    // empty sky on the sphere
)

// Target is the result of a hover hit test.
type Target struct {
	Kind   TargetKind
	Slot   int
	City   City
	Body   trajectory.Body
	Index  int // emitted point index in the body's PointSet
	Sample trajectory.Sample
	Zone   *time.Location

	// Azimuth and Altitude locate a DomeTarget, compass radians.
	Azimuth  float64
	Altitude float64
}

// Hit resolves the view ray to the nearest trajectory point within
// threshold. When no point is close enough, a ray that meets the sphere
// yields a DomeTarget.
func (s *Scene) Hit(origin, dir vectors.Vec3, threshold float64) (Target, bool) {
	dir = dir.Normalize()
	best, bestT, found := Target{}, math.Inf(1), false
	for li := range s.Layers {
		l := &s.Layers[li]
		for _, b := range []trajectory.Body{trajectory.Sun, trajectory.Moon} {
			bl := l.Body(b)
			i, ok := sky.Pick(origin, dir, bl.Points.Points, threshold)
			if !ok {
				continue
			}
			t := bl.Points.Points[i].Sub(origin).Dot(dir)
			if t >= bestT {
				continue
			}
			sample, ok := bl.Points.Sample(bl.Trajectory, i)
			if !ok {
				continue
			}
			best = Target{
				Kind:   PointTarget,
				Slot:   l.Slot,
				City:   l.City,
				Body:   b,
				Index:  i,
				Sample: sample,
				Zone:   l.Events.Location,
			}
			bestT, found = t, true
		}
	}
	if found {
		return best, true
	}

	t := sky.IntersectSphere(origin, dir, s.Options.Radius)
	if t <= 0 {
		return Target{}, false
	}
	az, alt := sky.Horizontal(origin.Add(dir.Scale(t)))
	return Target{Kind: DomeTarget, Azimuth: az, Altitude: alt}, true
}

// Mode is the interaction state.
type Mode int

const (
	Idle Mode = iota
	Hovering
	Displaying
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Hovering:
		return "hovering"
	case Displaying:
		return "displaying"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// State is the pointer interaction state. Displaying pins the panel of one
// city; the hover target is still tracked underneath it.
type State struct {
	Mode     Mode
	Target   Target
	HasHover bool
	Slot     int
	Panel    Panel
}

// Move applies a pointer move that hit target (ok) or nothing.
func (s State) Move(target Target, ok bool) State {
	s.Target, s.HasHover = target, ok
	if !ok {
		s.Target = Target{}
	}
	if s.Mode == Displaying {
		return s
	}
	if ok {
		s.Mode = Hovering
	} else {
		s.Mode = Idle
	}
	return s
}

// Click pins the panel of the hovered point's city. Clicking anything
// else dismisses.
func (s State) Click(sc *Scene) State {
	if !s.HasHover || s.Target.Kind != PointTarget {
		return s.Dismiss()
	}
	l, ok := sc.Layer(s.Target.Slot)
	if !ok {
		return s.Dismiss()
	}
	s.Mode = Displaying
	s.Slot = l.Slot
	s.Panel = l.Panel
	return s
}

// Dismiss drops a pinned panel, falling back to the hover state.
func (s State) Dismiss() State {
	s.Panel = Panel{}
	s.Slot = 0
	if s.HasHover {
		s.Mode = Hovering
	} else {
		s.Mode = Idle
	}
	return s
}

// View describes what to paint for a State.
type View struct {
	Tooltip []string `json:"tooltip,omitempty"`
	Panel   *Panel   `json:"panel,omitempty"`

	// Highlight marks the hovered point, if any.
	Highlight *Highlight `json:"highlight,omitempty"`
}

type Highlight struct {
	Slot  int             `json:"slot"`
	Body  trajectory.Body `json:"body"`
	Index int             `json:"index"`
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

func bodyName(b trajectory.Body) string {
	if b == trajectory.Moon {
		return "Moon"
	}
	return "Sun"
}

func tooltip(t Target) []string {
	if t.Kind == DomeTarget {
		return []string{fmt.Sprintf("Az %.1f°  Alt %.1f°", degrees(t.Azimuth), degrees(t.Altitude))}
	}
	loc := t.Zone
	if loc == nil {
		loc = time.UTC
	}
	lines := []string{
		fmt.Sprintf("%s: %s", t.City.Label, bodyName(t.Body)),
		t.Sample.Instant.In(loc).Format("15:04 MST"),
		fmt.Sprintf("Az %.1f°  Alt %.1f°", degrees(t.Sample.Azimuth), degrees(t.Sample.Altitude)),
	}
	if t.Sample.HasIllumination {
		lines = append(lines, fmt.Sprintf("Illumination %.0f%%", t.Sample.Illumination*100))
	}
	return lines
}

// Render is a pure function of the state.
func Render(s State) View {
	var v View
	if s.HasHover {
		v.Tooltip = tooltip(s.Target)
		if s.Target.Kind == PointTarget {
			v.Highlight = &Highlight{Slot: s.Target.Slot, Body: s.Target.Body, Index: s.Target.Index}
		}
	}
	if s.Mode == Displaying {
		p := s.Panel
		v.Panel = &p
	}
	return v
}
