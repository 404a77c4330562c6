package ephem

import (
	"math"
	"time"

	"github.com/nathan-osman/go-sunrise"
)

const rad = math.Pi / 180

// moonHorizon is the altitude of the moon's centre when its upper limb
// touches the horizon.
const moonHorizon = 0.133 * rad

func hoursLater(t time.Time, h float64) time.Time {
	return t.Add(time.Duration(h * float64(time.Hour)))
}

// scanMoonTimes finds moonrise and moonset in the 24 hours following start
// by fitting a parabola through altitudes sampled every two hours.
func scanMoonTimes(start time.Time, altitude func(time.Time) float64) MoonTimes {
	h0 := altitude(start) - moonHorizon
	var rise, set, ye float64
	var hasRise, hasSet bool

	for i := 1.0; i <= 24; i += 2 {
		h1 := altitude(hoursLater(start, i)) - moonHorizon
		h2 := altitude(hoursLater(start, i+1)) - moonHorizon

		a := (h0+h2)/2 - h1
		b := (h2 - h0) / 2
		xe := -b / (2 * a)
		ye = (a*xe+b)*xe + h1
		d := b*b - 4*a*h1
		roots := 0
		var x1, x2 float64

		if d >= 0 {
			dx := math.Sqrt(d) / (math.Abs(a) * 2)
			x1 = xe - dx
			x2 = xe + dx
			if math.Abs(x1) <= 1 {
				roots++
			}
			if math.Abs(x2) <= 1 {
				roots++
			}
			if x1 < -1 {
				x1 = x2
			}
		}

		switch roots {
		case 1:
			if h0 < 0 {
				rise = i + x1
				hasRise = true
			} else {
				set = i + x1
				hasSet = true
			}
		case 2:
			if ye < 0 {
				rise = i + x2
				set = i + x1
			} else {
				rise = i + x1
				set = i + x2
			}
			hasRise, hasSet = true, true
		}

		if hasRise && hasSet {
			break
		}
		h0 = h2
	}

	var mt MoonTimes
	if hasRise {
		mt.Rise = hoursLater(start, rise)
	}
	if hasSet {
		mt.Set = hoursLater(start, set)
	}
	if !hasRise && !hasSet {
		// A flat altitude curve leaves ye undefined; fall back to the last sample.
		if ye > 0 || (math.IsNaN(ye) && h0 > 0) {
			mt.AlwaysUp = true
		} else {
			mt.AlwaysDown = true
		}
	}
	return mt
}

// sunTimes uses go-sunrise for the crossings on the calendar date of t (in
// t's location) and falls back to the noon altitude for polar day/night.
func sunTimes(t time.Time, lat, lon float64, altitude func(time.Time) float64) SunTimes {
	y, m, d := t.Date()
	rise, set := sunrise.SunriseSunset(lat, lon, y, m, d)
	if rise.IsZero() || set.IsZero() {
		noon := time.Date(y, m, d, 12, 0, 0, 0, t.Location())
		if altitude(noon) > 0 {
			return SunTimes{AlwaysUp: true}
		}
		return SunTimes{AlwaysDown: true}
	}
	return SunTimes{
		Sunrise:   rise,
		Sunset:    set,
		SolarNoon: rise.Add(set.Sub(rise) / 2),
	}
}
