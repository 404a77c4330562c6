package ephem

import (
	"time"

	"github.com/sixdouglas/suncalc"
)

// SunCalc is the default engine, backed by the suncalc port.
type SunCalc struct{}

func (SunCalc) SunPosition(t time.Time, lat, lon float64) Position {
	p := suncalc.GetPosition(t, lat, lon)
	return Position{Azimuth: p.Azimuth, Altitude: p.Altitude}
}

func (SunCalc) MoonPosition(t time.Time, lat, lon float64) Position {
	p := suncalc.GetMoonPosition(t, lat, lon)
	return Position{Azimuth: p.Azimuth, Altitude: p.Altitude}
}

func (SunCalc) MoonIllumination(t time.Time) Illumination {
	m := suncalc.GetMoonIllumination(t)
	return Illumination{Fraction: m.Fraction, Phase: m.Phase, Angle: m.Angle}
}

func (e SunCalc) SunTimes(t time.Time, lat, lon float64) SunTimes {
	return sunTimes(t, lat, lon, func(at time.Time) float64 {
		return e.SunPosition(at, lat, lon).Altitude
	})
}

func (e SunCalc) MoonTimes(t time.Time, lat, lon float64) MoonTimes {
	return scanMoonTimes(t, func(at time.Time) float64 {
		return e.MoonPosition(at, lat, lon).Altitude
	})
}
