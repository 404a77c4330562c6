// Package trajectory samples sun and moon horizontal coordinates over one
// local calendar day.
package trajectory

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

// Body identifies the tracked celestial body.
type Body string

const (
	Sun  Body = "sun"
	Moon Body = "moon"
)

// Sample is one instant's observation. Azimuth is in [0, 2π) measured
// clockwise from true north; altitude is in [-π/2, π/2].
type Sample struct {
	Instant  time.Time `json:"instant"`
	Azimuth  float64   `json:"azimuth"`
	Altitude float64   `json:"altitude"`

	// Illumination is the lit fraction of the lunar disk. It is only
	// meaningful when HasIllumination is set (moon samples).
	Illumination    float64
	HasIllumination bool
}

// sampleJSON is the wire form of Sample. Illumination is present exactly
// for moon samples, including a new moon's 0.
type sampleJSON struct {
	Instant      time.Time `json:"instant"`
	Azimuth      float64   `json:"azimuth"`
	Altitude     float64   `json:"altitude"`
	Illumination *float64  `json:"illumination,omitempty"`
}

func (s Sample) MarshalJSON() ([]byte, error) {
	w := sampleJSON{Instant: s.Instant, Azimuth: s.Azimuth, Altitude: s.Altitude}
	if s.HasIllumination {
		illum := s.Illumination
		w.Illumination = &illum
	}
	return json.Marshal(w)
}

func (s *Sample) UnmarshalJSON(data []byte) error {
	var w sampleJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = Sample{Instant: w.Instant, Azimuth: w.Azimuth, Altitude: w.Altitude}
	if w.Illumination != nil {
		s.Illumination = *w.Illumination
		s.HasIllumination = true
	}
	return nil
}

// AboveHorizon reports whether the sample is at or above the horizon.
func (s Sample) AboveHorizon() bool {
	return s.Altitude >= 0
}

// Trajectory is the time-ordered samples of one body for one city and day.
// On the wire the step is given in minutes, like the scene query.
type Trajectory struct {
	Body    Body          `json:"body"`
	Step    time.Duration `json:"-"`
	Samples []Sample      `json:"samples"`
}

func (t Trajectory) MarshalJSON() ([]byte, error) {
	type plain Trajectory
	return json.Marshal(struct {
		plain
		StepMinutes float64 `json:"stepMinutes"`
	}{plain(t), t.Step.Minutes()})
}

func (t *Trajectory) UnmarshalJSON(data []byte) error {
	type plain Trajectory
	aux := struct {
		*plain
		StepMinutes float64 `json:"stepMinutes"`
	}{plain: (*plain)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t.Step = MinutesDuration(aux.StepMinutes)
	return nil
}

// MinutesDuration converts a possibly fractional minute count to a
// duration, rounded to the nearest second.
func MinutesDuration(m float64) time.Duration {
	return time.Duration(math.Round(m*60)) * time.Second
}

func (t Trajectory) Len() int {
	return len(t.Samples)
}

const fullTurn = 2 * math.Pi

func normalize(a float64) float64 {
	a = math.Mod(a, fullTurn)
	if a < 0 {
		a += fullTurn
	}
	// Mod can round a tiny negative up to exactly 2π.
	if a >= fullTurn {
		a = 0
	}
	return a
}

// FromSouthAzimuth converts an engine azimuth (0 = south, west positive)
// to a compass azimuth (0 = north, east positive) in [0, 2π).
func FromSouthAzimuth(az float64) float64 {
	return normalize(az + math.Pi)
}

// ToSouthAzimuth is the inverse of FromSouthAzimuth, returning [0, 2π).
func ToSouthAzimuth(az float64) float64 {
	return normalize(az - math.Pi)
}

// ErrInvalidDate is returned for malformed calendar dates.
var ErrInvalidDate = errors.New("invalid date")

// Date is a calendar day without a zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const dateLayout = "2006-01-02"

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// In returns local midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
