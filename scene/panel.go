package scene

import (
	"fmt"
	"time"

	"github.com/echoflaresat/skydome/ephem"
	"github.com/echoflaresat/skydome/trajectory"
)

// Row is one label/value line of a rise/set panel.
type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Panel is the rise/set summary of one city-day, with times in the
// city's zone.
type Panel struct {
	City string `json:"city"`
	Zone string `json:"zone"`
	Date string `json:"date"`
	Rows []Row  `json:"rows"`
}

const clockLayout = "15:04"

func clock(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "--:--"
	}
	return t.In(loc).Format(clockLayout)
}

func sunRows(st ephem.SunTimes, loc *time.Location) []Row {
	switch {
	case st.AlwaysUp:
		return []Row{{"Sunrise", "polar day"}, {"Sunset", "polar day"}, {"Day length", "24h 00m"}}
	case st.AlwaysDown:
		return []Row{{"Sunrise", "polar night"}, {"Sunset", "polar night"}, {"Day length", "0h 00m"}}
	}
	return []Row{
		{"Sunrise", clock(st.Sunrise, loc)},
		{"Sunset", clock(st.Sunset, loc)},
		{"Day length", hm(st.DayLength())},
	}
}

func moonRows(mt ephem.MoonTimes, loc *time.Location) []Row {
	switch {
	case mt.AlwaysUp:
		return []Row{{"Moonrise", "always up"}, {"Moonset", "always up"}}
	case mt.AlwaysDown:
		return []Row{{"Moonrise", "always down"}, {"Moonset", "always down"}}
	}
	return []Row{
		{"Moonrise", clock(mt.Rise, loc)},
		{"Moonset", clock(mt.Set, loc)},
	}
}

func hm(d time.Duration) string {
	d = d.Round(time.Minute)
	return fmt.Sprintf("%dh %02dm", int(d.Hours()), int(d.Minutes())%60)
}

// NewPanel renders the day's events for display.
func NewPanel(city City, date trajectory.Date, ev trajectory.Events) Panel {
	loc := ev.Location
	if loc == nil {
		loc = time.UTC
	}
	rows := sunRows(ev.Sun, loc)
	rows = append(rows, moonRows(ev.Moon, loc)...)
	rows = append(rows,
		Row{"Moon phase", ephem.PhaseName(ev.Illumination.Phase)},
		Row{"Illumination", fmt.Sprintf("%.0f%%", ev.Illumination.Fraction*100)},
	)
	return Panel{City: city.Label, Zone: loc.String(), Date: date.String(), Rows: rows}
}
