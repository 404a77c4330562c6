package ephem

import (
	"math"
	"testing"
	"time"
)

func TestByName(t *testing.T) {
	for _, name := range []string{"", "suncalc", "SunCalc", "meeus"} {
		if _, err := ByName(name); err != nil {
			t.Errorf("ByName(%q) error: %v", name, err)
		}
	}
	if _, err := ByName("jpl"); err == nil {
		t.Error("ByName(jpl) should fail")
	}
}

func TestPhaseName(t *testing.T) {
	tests := []struct {
		phase float64
		want  string
	}{
		{0, "New Moon"},
		{0.99, "New Moon"},
		{0.1, "Waxing Crescent"},
		{0.25, "First Quarter"},
		{0.4, "Waxing Gibbous"},
		{0.5, "Full Moon"},
		{0.6, "Waning Gibbous"},
		{0.75, "Last Quarter"},
		{0.9, "Waning Crescent"},
		{1.25, "First Quarter"},
	}
	for _, tt := range tests {
		if got := PhaseName(tt.phase); got != tt.want {
			t.Errorf("PhaseName(%v) = %q, want %q", tt.phase, got, tt.want)
		}
	}
}

func TestSunNearSouthAtLocalNoon(t *testing.T) {
	// Greenwich, equinox: the sun transits close to 12:07 UTC at ~38.5° altitude.
	noon := time.Date(2024, 3, 20, 12, 7, 0, 0, time.UTC)
	for name, e := range map[string]Engine{"suncalc": SunCalc{}, "meeus": Meeus{}} {
		t.Run(name, func(t *testing.T) {
			p := e.SunPosition(noon, 51.48, 0)
			if math.Abs(p.Azimuth) > 2*rad {
				t.Errorf("azimuth = %.2f°, want ~0 (south)", p.Azimuth/rad)
			}
			if alt := p.Altitude / rad; alt < 37 || alt > 40 {
				t.Errorf("altitude = %.2f°, want ~38.5°", alt)
			}
		})
	}
}

func TestEnginesAgree(t *testing.T) {
	at := time.Date(2024, 8, 8, 21, 30, 0, 0, time.UTC)
	lat, lon := 35.68, 139.69
	sc, me := SunCalc{}, Meeus{}

	diff := func(a, b float64) float64 {
		d := math.Mod(math.Abs(a-b), 2*math.Pi)
		return math.Min(d, 2*math.Pi-d)
	}

	s1, s2 := sc.SunPosition(at, lat, lon), me.SunPosition(at, lat, lon)
	if diff(s1.Azimuth, s2.Azimuth) > 0.5*rad || math.Abs(s1.Altitude-s2.Altitude) > 0.5*rad {
		t.Errorf("sun positions disagree: %+v vs %+v", s1, s2)
	}
	// suncalc's lunar theory is coarse; allow 1.5°.
	m1, m2 := sc.MoonPosition(at, lat, lon), me.MoonPosition(at, lat, lon)
	if diff(m1.Azimuth, m2.Azimuth) > 1.5*rad || math.Abs(m1.Altitude-m2.Altitude) > 1.5*rad {
		t.Errorf("moon positions disagree: %+v vs %+v", m1, m2)
	}
	i1, i2 := sc.MoonIllumination(at), me.MoonIllumination(at)
	if math.Abs(i1.Fraction-i2.Fraction) > 0.03 {
		t.Errorf("illuminated fraction disagrees: %v vs %v", i1.Fraction, i2.Fraction)
	}
	if math.Abs(i1.Phase-i2.Phase) > 0.02 {
		t.Errorf("phase disagrees: %v vs %v", i1.Phase, i2.Phase)
	}
}

func TestFullMoonIllumination(t *testing.T) {
	// Full moon 2024-04-23 23:49 UTC.
	at := time.Date(2024, 4, 23, 23, 49, 0, 0, time.UTC)
	for name, e := range map[string]Engine{"suncalc": SunCalc{}, "meeus": Meeus{}} {
		t.Run(name, func(t *testing.T) {
			il := e.MoonIllumination(at)
			if il.Fraction < 0.98 {
				t.Errorf("fraction = %v, want ~1", il.Fraction)
			}
			if math.Abs(il.Phase-0.5) > 0.02 {
				t.Errorf("phase = %v, want ~0.5", il.Phase)
			}
		})
	}
}

func TestScanMoonTimes(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	// Crosses the horizon offset at 06:30 (rising) and 18:30 (setting).
	wave := func(at time.Time) float64 {
		h := at.Sub(start).Hours()
		return moonHorizon + 0.5*math.Sin((h-6.5)/24*2*math.Pi)
	}
	mt := scanMoonTimes(start, wave)
	if mt.AlwaysUp || mt.AlwaysDown {
		t.Fatalf("unexpected always flags: %+v", mt)
	}
	if d := mt.Rise.Sub(start.Add(6*time.Hour + 30*time.Minute)); d.Abs() > 10*time.Minute {
		t.Errorf("rise = %v, want ~06:30", mt.Rise)
	}
	if d := mt.Set.Sub(start.Add(18*time.Hour + 30*time.Minute)); d.Abs() > 10*time.Minute {
		t.Errorf("set = %v, want ~18:30", mt.Set)
	}

	up := scanMoonTimes(start, func(time.Time) float64 { return 0.3 })
	if !up.AlwaysUp || !up.Rise.IsZero() || !up.Set.IsZero() {
		t.Errorf("constant positive altitude: %+v", up)
	}
	down := scanMoonTimes(start, func(time.Time) float64 { return -0.3 })
	if !down.AlwaysDown {
		t.Errorf("constant negative altitude: %+v", down)
	}
}

func TestSunTimesPolar(t *testing.T) {
	tromso := 69.65
	summer := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)
	st := SunCalc{}.SunTimes(summer, tromso, 18.96)
	if !st.AlwaysUp || st.DayLength() != 24*time.Hour {
		t.Errorf("midsummer at Tromsø: %+v", st)
	}
	winter := time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC)
	st = SunCalc{}.SunTimes(winter, tromso, 18.96)
	if !st.AlwaysDown || st.DayLength() != 0 {
		t.Errorf("midwinter at Tromsø: %+v", st)
	}
}

func TestSunTimesOrdinaryDay(t *testing.T) {
	day := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	st := Meeus{}.SunTimes(day, 0, 0)
	if st.AlwaysUp || st.AlwaysDown {
		t.Fatalf("equator should have sunrise and sunset: %+v", st)
	}
	if l := st.DayLength(); l < 11*time.Hour+50*time.Minute || l > 12*time.Hour+20*time.Minute {
		t.Errorf("equinox day length at equator = %v", l)
	}
	if !st.Sunrise.Before(st.SolarNoon) || !st.SolarNoon.Before(st.Sunset) {
		t.Errorf("events out of order: %+v", st)
	}
}
