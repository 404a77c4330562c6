// Package scene composes the per-city sky layers, the moon badge and the
// interaction state that a 3D front end draws.
package scene

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/echoflaresat/skydome/colors"
)

// MaxCities is the number of display slots.
const MaxCities = len(colors.CityPalette)

var (
	ErrSlotRange = errors.New("slot index out of range")
	ErrSlotsFull = errors.New("all city slots are taken")
)

// City is a named location in degrees, north and east positive.
type City struct {
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

// ParseCity reads "lat,lon" or "lat,lon,label".
func ParseCity(s string) (City, error) {
	parts := strings.SplitN(s, ",", 3)
	if len(parts) < 2 {
		return City{}, fmt.Errorf("city %q: want lat,lon[,label]", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return City{}, fmt.Errorf("city %q: latitude: %w", s, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return City{}, fmt.Errorf("city %q: longitude: %w", s, err)
	}
	c := City{Lat: lat, Lon: lon}
	if len(parts) == 3 {
		c.Label = strings.TrimSpace(parts[2])
	}
	if c.Label == "" {
		c.Label = fmt.Sprintf("%.3f, %.3f", lat, lon)
	}
	return c, nil
}

// Slots are the fixed city display positions. Slot i always draws with
// colors.CityPalette[i].
type Slots struct {
	cities [MaxCities]*City
}

// Placed is an occupied slot.
type Placed struct {
	Index int
	City  City
	Color colors.Color4
}

func (s *Slots) Place(i int, c City) error {
	if i < 0 || i >= MaxCities {
		return fmt.Errorf("place %d: %w", i, ErrSlotRange)
	}
	s.cities[i] = &c
	return nil
}

// Add puts c into the first free slot.
func (s *Slots) Add(c City) (int, error) {
	for i := range s.cities {
		if s.cities[i] == nil {
			s.cities[i] = &c
			return i, nil
		}
	}
	return -1, ErrSlotsFull
}

func (s *Slots) Remove(i int) error {
	if i < 0 || i >= MaxCities {
		return fmt.Errorf("remove %d: %w", i, ErrSlotRange)
	}
	s.cities[i] = nil
	return nil
}

// Cities lists the occupied slots in slot order.
func (s *Slots) Cities() []Placed {
	var out []Placed
	for i, c := range s.cities {
		if c != nil {
			out = append(out, Placed{Index: i, City: *c, Color: colors.CityPalette[i]})
		}
	}
	return out
}

func (s *Slots) Len() int {
	return len(s.Cities())
}
