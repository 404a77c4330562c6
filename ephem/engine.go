// Package ephem is the boundary to the astronomical engines that supply raw
// sun and moon positions, lunar illumination and rise/set instants.
//
// Positions follow the engine convention: azimuth in radians measured from
// south, positive toward west; altitude in radians above the horizon.
package ephem

import (
	"fmt"
	"strings"
	"time"
)

// Position is a horizontal coordinate as reported by an Engine.
type Position struct {
	Azimuth  float64 // radians, 0 = south, positive westward
	Altitude float64 // radians
}

// Illumination describes the lit portion of the lunar disk.
type Illumination struct {
	Fraction float64 // illuminated fraction [0,1]
	Phase    float64 // [0,1): 0 = new, 0.25 = first quarter, 0.5 = full
	Angle    float64 // midpoint angle of the bright limb, radians
}

// Waxing reports whether the moon is between new and full.
func (i Illumination) Waxing() bool {
	return i.Phase < 0.5
}

// SunTimes holds the day's solar events. Instants are zero when the event
// does not happen.
type SunTimes struct {
	Sunrise    time.Time
	Sunset     time.Time
	SolarNoon  time.Time
	AlwaysUp   bool
	AlwaysDown bool
}

// DayLength is the time between sunrise and sunset, or 24h/0 for polar day/night.
func (s SunTimes) DayLength() time.Duration {
	switch {
	case s.AlwaysUp:
		return 24 * time.Hour
	case s.AlwaysDown:
		return 0
	case s.Sunrise.IsZero() || s.Sunset.IsZero():
		return 0
	}
	d := s.Sunset.Sub(s.Sunrise)
	if d < 0 {
		d += 24 * time.Hour
	}
	return d
}

// MoonTimes holds moonrise and moonset within a 24 hour window. Instants
// are zero when the event does not happen in the window.
type MoonTimes struct {
	Rise       time.Time
	Set        time.Time
	AlwaysUp   bool
	AlwaysDown bool
}

// Engine computes sun and moon ephemerides. All instants are absolute;
// lat/lon are in degrees, north and east positive.
type Engine interface {
	SunPosition(t time.Time, lat, lon float64) Position
	MoonPosition(t time.Time, lat, lon float64) Position
	MoonIllumination(t time.Time) Illumination
	SunTimes(t time.Time, lat, lon float64) SunTimes
	MoonTimes(t time.Time, lat, lon float64) MoonTimes
}

// ByName returns the engine registered under name ("suncalc" or "meeus").
func ByName(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "suncalc":
		return SunCalc{}, nil
	case "meeus":
		return Meeus{}, nil
	default:
		return nil, fmt.Errorf("unknown ephemeris engine %q", name)
	}
}

// PhaseName returns the conventional 8-phase name for a phase fraction.
func PhaseName(phase float64) string {
	p := phase - float64(int(phase))
	if p < 0 {
		p++
	}
	switch {
	case p < 0.0339 || p >= 0.9661:
		return "New Moon"
	case p < 0.2161:
		return "Waxing Crescent"
	case p < 0.2839:
		return "First Quarter"
	case p < 0.4661:
		return "Waxing Gibbous"
	case p < 0.5339:
		return "Full Moon"
	case p < 0.7161:
		return "Waning Gibbous"
	case p < 0.7839:
		return "Last Quarter"
	default:
		return "Waning Crescent"
	}
}
