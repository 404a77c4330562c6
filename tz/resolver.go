// Package tz resolves geographic coordinates to IANA time zones.
package tz

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"
	_ "time/tzdata" // zone database for hosts without /usr/share/zoneinfo

	"github.com/ringsaturn/tzf"
)

// ErrInvalidLocation is returned when coordinates cannot be resolved to a
// zone. Callers must not substitute a default zone.
var ErrInvalidLocation = errors.New("invalid location")

// Resolver maps lat/lon degrees to an IANA zone name.
type Resolver interface {
	Resolve(lat, lon float64) (string, error)
}

// Location resolves lat/lon and loads the zone.
func Location(r Resolver, lat, lon float64) (*time.Location, error) {
	name, err := r.Resolve(lat, lon)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: zone %q: %v", ErrInvalidLocation, name, err)
	}
	return loc, nil
}

func checkRange(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return fmt.Errorf("%w: lat=%v lon=%v out of range", ErrInvalidLocation, lat, lon)
	}
	return nil
}

// Finder resolves zones from tzf's polygon data. The polygon set is loaded
// lazily on first use and shared afterwards.
type Finder struct {
	once   sync.Once
	finder tzf.F
	err    error
}

func NewFinder() *Finder {
	return &Finder{}
}

func (f *Finder) load() error {
	f.once.Do(func() {
		f.finder, f.err = tzf.NewDefaultFinder()
	})
	return f.err
}

func (f *Finder) Resolve(lat, lon float64) (string, error) {
	if err := checkRange(lat, lon); err != nil {
		return "", err
	}
	if err := f.load(); err != nil {
		return "", fmt.Errorf("load zone polygons: %w", err)
	}
	name := f.finder.GetTimezoneName(lon, lat)
	if name == "" {
		return "", fmt.Errorf("%w: no zone at lat=%v lon=%v", ErrInvalidLocation, lat, lon)
	}
	return name, nil
}

// Static resolves every in-range coordinate to one zone. It is meant for
// tests and for pinning output to a known zone.
type Static string

func (s Static) Resolve(lat, lon float64) (string, error) {
	if err := checkRange(lat, lon); err != nil {
		return "", err
	}
	return string(s), nil
}
