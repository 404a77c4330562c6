package ephem

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"
)

// Meeus computes positions with the algorithms from Meeus, "Astronomical
// Algorithms". It is slower than SunCalc but more precise for the moon.
// ΔT is ignored; JD is used in place of JDE.
type Meeus struct{}

func (Meeus) SunPosition(t time.Time, lat, lon float64) Position {
	jd := julian.TimeToJD(t.UTC())
	ra, dec := solar.ApparentEquatorial(jd)
	return horizontal(jd, lat, lon, ra.Angle(), dec)
}

func (Meeus) MoonPosition(t time.Time, lat, lon float64) Position {
	jd := julian.TimeToJD(t.UTC())
	ra, dec, _ := moonEquatorial(jd)
	p := horizontal(jd, lat, lon, unit.Angle(ra), unit.Angle(dec))
	p.Altitude += refraction(p.Altitude)
	return p
}

func (Meeus) MoonIllumination(t time.Time) Illumination {
	jd := julian.TimeToJD(t.UTC())

	λ, β, _ := moonposition.Position(jd)
	λ0 := solar.ApparentLongitude(base.J2000Century(jd))

	// Elongation along the ecliptic drives the phase; the full elongation
	// ψ gives the illuminated fraction (Sun treated as infinitely distant).
	elong := math.Mod(λ.Rad()-λ0.Rad(), 2*math.Pi)
	if elong < 0 {
		elong += 2 * math.Pi
	}
	cosψ := β.Cos() * math.Cos(λ.Rad()-λ0.Rad())

	sra, sdec := solar.ApparentEquatorial(jd)
	mra, mdec, _ := moonEquatorial(jd)
	dra := sra.Rad() - mra
	angle := math.Atan2(sdec.Cos()*math.Sin(dra),
		sdec.Sin()*math.Cos(mdec)-sdec.Cos()*math.Sin(mdec)*math.Cos(dra))

	return Illumination{
		Fraction: (1 - cosψ) / 2,
		Phase:    elong / (2 * math.Pi),
		Angle:    angle,
	}
}

func (e Meeus) SunTimes(t time.Time, lat, lon float64) SunTimes {
	return sunTimes(t, lat, lon, func(at time.Time) float64 {
		return e.SunPosition(at, lat, lon).Altitude
	})
}

func (e Meeus) MoonTimes(t time.Time, lat, lon float64) MoonTimes {
	return scanMoonTimes(t, func(at time.Time) float64 {
		return e.MoonPosition(at, lat, lon).Altitude
	})
}

// moonEquatorial returns the geocentric right ascension and declination of
// the moon in radians, and its distance in km.
func moonEquatorial(jd float64) (ra, dec, dist float64) {
	λ, β, Δ := moonposition.Position(jd)
	ε := nutation.MeanObliquity(jd)
	sε, cε := ε.Sin(), ε.Cos()
	sλ, cλ := λ.Sin(), λ.Cos()
	ra = math.Atan2(sλ*cε-math.Tan(β.Rad())*sε, cλ)
	dec = math.Asin(β.Sin()*cε + β.Cos()*sε*sλ)
	return ra, dec, Δ
}

// horizontal converts RA/Dec to engine-convention azimuth and altitude for
// an observer at lat/lon degrees.
func horizontal(jd, lat, lon float64, ra, dec unit.Angle) Position {
	θ0 := sidereal.Apparent(jd).Angle()
	H := θ0 + unit.AngleFromDeg(lon) - ra
	φ := unit.AngleFromDeg(lat)
	return Position{
		Azimuth:  math.Atan2(H.Sin(), H.Cos()*φ.Sin()-math.Tan(dec.Rad())*φ.Cos()),
		Altitude: math.Asin(φ.Sin()*dec.Sin() + φ.Cos()*dec.Cos()*H.Cos()),
	}
}

// refraction is the Sæmundsson-style correction suncalc applies to the moon.
func refraction(h float64) float64 {
	if h < 0 {
		h = 0
	}
	return 0.0002967 / math.Tan(h+0.00312536/(h+0.08901179))
}
