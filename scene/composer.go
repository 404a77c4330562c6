package scene

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/echoflaresat/skydome/colors"
	"github.com/echoflaresat/skydome/ephem"
	"github.com/echoflaresat/skydome/render"
	"github.com/echoflaresat/skydome/sky"
	"github.com/echoflaresat/skydome/trajectory"
	"github.com/echoflaresat/skydome/tz"
)

// Options are the inputs of one render cycle besides the cities. The step
// is encoded as stepMinutes.
type Options struct {
	Date                trajectory.Date `json:"date"`
	Step                time.Duration   `json:"-"`
	IncludeBelowHorizon bool            `json:"includeBelowHorizon"`
	Radius              float64         `json:"radius"`
	PointSize           float64         `json:"pointSize"`
	Dark                bool            `json:"dark"`
}

func (o Options) MarshalJSON() ([]byte, error) {
	type plain Options
	return json.Marshal(struct {
		plain
		StepMinutes float64 `json:"stepMinutes"`
	}{plain(o), o.Step.Minutes()})
}

func (o *Options) UnmarshalJSON(data []byte) error {
	type plain Options
	aux := struct {
		*plain
		StepMinutes float64 `json:"stepMinutes"`
	}{plain: (*plain)(o)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	o.Step = trajectory.MinutesDuration(aux.StepMinutes)
	return nil
}

func DefaultOptions(date trajectory.Date) Options {
	return Options{
		Date:      date,
		Step:      10 * time.Minute,
		Radius:    1,
		PointSize: 0.035,
	}
}

// BodyLayer is the drawable geometry of one body's trajectory.
type BodyLayer struct {
	Trajectory trajectory.Trajectory `json:"trajectory"`
	Segments   []sky.Polyline        `json:"segments"`
	Points     sky.PointSet          `json:"points"`
}

// Layer is everything drawn for one city slot.
type Layer struct {
	Slot   int               `json:"slot"`
	City   City              `json:"city"`
	Color  colors.Color4     `json:"color"`
	Sun    BodyLayer         `json:"sun"`
	Moon   BodyLayer         `json:"moon"`
	Panel  Panel             `json:"panel"`
	Events trajectory.Events `json:"-"`
}

// Body returns the layer for b.
func (l *Layer) Body(b trajectory.Body) *BodyLayer {
	if b == trajectory.Moon {
		return &l.Moon
	}
	return &l.Sun
}

// Skipped records a city that could not be rendered.
type Skipped struct {
	Slot   int    `json:"slot"`
	City   City   `json:"city"`
	Reason string `json:"reason"`
}

// Scene is the complete output of one render cycle.
type Scene struct {
	Options     Options         `json:"options"`
	Layers      []Layer         `json:"layers"`
	Skipped     []Skipped       `json:"skipped"`
	Decorations sky.Decorations `json:"decorations"`
	Badge       render.Badge    `json:"badge"`
	Camera      Orbit           `json:"camera"`
}

// Composer rebuilds a Scene from scratch on every call.
type Composer struct {
	source trajectory.Source
	engine ephem.Engine
	phase  render.Phase
	log    *zap.Logger
}

func NewComposer(source trajectory.Source, engine ephem.Engine, phase render.Phase, log *zap.Logger) *Composer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Composer{source: source, engine: engine, phase: phase, log: log}
}

func (c *Composer) bodyLayer(traj trajectory.Trajectory, opts Options) BodyLayer {
	return BodyLayer{
		Trajectory: traj,
		Segments:   sky.BuildSegments(traj, opts.Radius, opts.IncludeBelowHorizon),
		Points:     sky.BuildPoints(traj, opts.Radius, opts.IncludeBelowHorizon, opts.PointSize),
	}
}

func (c *Composer) layer(p Placed, opts Options) (Layer, error) {
	req := trajectory.Request{Lat: p.City.Lat, Lon: p.City.Lon, Date: opts.Date, Step: opts.Step}
	sun, err := c.source.Sun(req)
	if err != nil {
		return Layer{}, err
	}
	moon, err := c.source.Moon(req)
	if err != nil {
		return Layer{}, err
	}
	ev, err := c.source.Events(req)
	if err != nil {
		return Layer{}, err
	}
	return Layer{
		Slot:   p.Index,
		City:   p.City,
		Color:  p.Color,
		Sun:    c.bodyLayer(sun, opts),
		Moon:   c.bodyLayer(moon, opts),
		Panel:  NewPanel(p.City, opts.Date, ev),
		Events: ev,
	}, nil
}

// Build computes every occupied slot's layers. Cities whose location
// cannot be resolved are listed in Scene.Skipped instead of drawn; any
// other failure aborts the build.
func (c *Composer) Build(ctx context.Context, slots *Slots, opts Options) (*Scene, error) {
	placed := slots.Cities()
	layers := make([]*Layer, len(placed))
	reasons := make([]error, len(placed))

	g, ctx := errgroup.WithContext(ctx)
	for i, p := range placed {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			l, err := c.layer(p, opts)
			switch {
			case errors.Is(err, tz.ErrInvalidLocation):
				reasons[i] = err
				return nil
			case err != nil:
				return fmt.Errorf("city %q: %w", p.City.Label, err)
			}
			layers[i] = &l
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sc := &Scene{
		Options:     opts,
		Layers:      make([]Layer, 0, len(placed)),
		Skipped:     []Skipped{},
		Decorations: sky.BuildDecorations(opts.Radius, opts.Dark),
		Camera:      DefaultOrbit(opts.Radius),
	}
	for i, p := range placed {
		if reasons[i] != nil {
			c.log.Warn("skipped city",
				zap.Int("slot", p.Index),
				zap.String("city", p.City.Label),
				zap.Error(reasons[i]))
			sc.Skipped = append(sc.Skipped, Skipped{Slot: p.Index, City: p.City, Reason: reasons[i].Error()})
			continue
		}
		sc.Layers = append(sc.Layers, *layers[i])
	}

	sc.Badge = render.NewBadge(c.phase, c.badgeIllumination(sc, opts), opts.Dark)

	c.log.Info("scene built",
		zap.Stringer("date", opts.Date),
		zap.Int("cities", len(sc.Layers)),
		zap.Int("skipped", len(sc.Skipped)),
		zap.Duration("step", opts.Step))
	return sc, nil
}

// badgeIllumination is taken at local noon of the first rendered city, or
// at UTC noon when nothing rendered.
func (c *Composer) badgeIllumination(sc *Scene, opts Options) ephem.Illumination {
	if len(sc.Layers) > 0 {
		return sc.Layers[0].Events.Illumination
	}
	return c.engine.MoonIllumination(opts.Date.In(time.UTC).Add(12 * time.Hour))
}

// Layer returns the layer drawn in slot, if any.
func (s *Scene) Layer(slot int) (*Layer, bool) {
	for i := range s.Layers {
		if s.Layers[i].Slot == slot {
			return &s.Layers[i], true
		}
	}
	return nil, false
}
