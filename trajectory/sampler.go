package trajectory

import (
	"fmt"
	"time"

	"github.com/echoflaresat/skydome/ephem"
	"github.com/echoflaresat/skydome/tz"
)

// Day is the local day window [Start, End) of a city.
type Day struct {
	Start    time.Time
	End      time.Time
	Location *time.Location
}

// Request selects one city-day trajectory.
type Request struct {
	Lat, Lon float64
	Date     Date
	Step     time.Duration
}

// Events are the rise/set events of a city-day in the city's zone.
type Events struct {
	Location     *time.Location
	Sun          ephem.SunTimes
	Moon         ephem.MoonTimes
	Illumination ephem.Illumination
}

// Source produces trajectories. Sampler is the base implementation; Logged
// and Cached decorate it.
type Source interface {
	Sun(req Request) (Trajectory, error)
	Moon(req Request) (Trajectory, error)
	Events(req Request) (Events, error)
}

// Sampler turns engine output into north-referenced trajectories.
type Sampler struct {
	engine ephem.Engine
	zones  tz.Resolver
}

func NewSampler(engine ephem.Engine, zones tz.Resolver) *Sampler {
	return &Sampler{engine: engine, zones: zones}
}

// Window resolves the city zone and returns local midnight to local
// midnight plus 24h. Resolution failures wrap tz.ErrInvalidLocation.
func (s *Sampler) Window(lat, lon float64, date Date) (Day, error) {
	loc, err := tz.Location(s.zones, lat, lon)
	if err != nil {
		return Day{}, fmt.Errorf("resolve zone: %w", err)
	}
	start := date.In(loc)
	return Day{Start: start, End: start.Add(24 * time.Hour), Location: loc}, nil
}

// instants lists start, start+step, ... strictly before end. A non-positive
// step yields no instants.
func instants(day Day, step time.Duration) []time.Time {
	if step <= 0 {
		return nil
	}
	out := make([]time.Time, 0, int(day.End.Sub(day.Start)/step)+1)
	for t := day.Start; t.Before(day.End); t = t.Add(step) {
		out = append(out, t)
	}
	return out
}

func (s *Sampler) Sun(req Request) (Trajectory, error) {
	day, err := s.Window(req.Lat, req.Lon, req.Date)
	if err != nil {
		return Trajectory{}, err
	}
	ts := instants(day, req.Step)
	out := Trajectory{Body: Sun, Step: req.Step, Samples: make([]Sample, 0, len(ts))}
	for _, t := range ts {
		p := s.engine.SunPosition(t, req.Lat, req.Lon)
		out.Samples = append(out.Samples, Sample{
			Instant:  t,
			Azimuth:  FromSouthAzimuth(p.Azimuth),
			Altitude: p.Altitude,
		})
	}
	return out, nil
}

func (s *Sampler) Moon(req Request) (Trajectory, error) {
	day, err := s.Window(req.Lat, req.Lon, req.Date)
	if err != nil {
		return Trajectory{}, err
	}
	ts := instants(day, req.Step)
	out := Trajectory{Body: Moon, Step: req.Step, Samples: make([]Sample, 0, len(ts))}
	for _, t := range ts {
		p := s.engine.MoonPosition(t, req.Lat, req.Lon)
		il := s.engine.MoonIllumination(t)
		out.Samples = append(out.Samples, Sample{
			Instant:         t,
			Azimuth:         FromSouthAzimuth(p.Azimuth),
			Altitude:        p.Altitude,
			Illumination:    il.Fraction,
			HasIllumination: true,
		})
	}
	return out, nil
}

// Events returns the day's sun and moon events and the lunar illumination
// at local noon.
func (s *Sampler) Events(req Request) (Events, error) {
	day, err := s.Window(req.Lat, req.Lon, req.Date)
	if err != nil {
		return Events{}, err
	}
	return Events{
		Location:     day.Location,
		Sun:          s.engine.SunTimes(day.Start, req.Lat, req.Lon),
		Moon:         s.engine.MoonTimes(day.Start, req.Lat, req.Lon),
		Illumination: s.engine.MoonIllumination(day.Start.Add(12 * time.Hour)),
	}, nil
}
