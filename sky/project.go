// Package sky turns trajectories into geometry on the celestial sphere:
// projected points, horizon-split polylines, pickable point sets and the
// fixed horizon decorations.
//
// Axes: X east, Y up, Z north.
package sky

import (
	"math"

	"github.com/echoflaresat/skydome/trajectory"
	"github.com/echoflaresat/skydome/vectors"
)

// Polyline is an ordered run of projected points.
type Polyline []vectors.Vec3

// Project places a sample on the sphere of radius r.
func Project(s trajectory.Sample, r float64) vectors.Vec3 {
	return ProjectAngles(s.Azimuth, s.Altitude, r)
}

// ProjectAngles places compass azimuth az and altitude alt (radians) on
// the sphere of radius r.
func ProjectAngles(az, alt, r float64) vectors.Vec3 {
	h := r * math.Cos(alt)
	return vectors.Vec3{
		X: h * math.Sin(az),
		Y: r * math.Sin(alt),
		Z: h * math.Cos(az),
	}
}

// visible is the horizon policy shared by the curve and point builders.
// Altitude exactly zero is on the horizon and always visible.
func visible(s trajectory.Sample, includeBelowHorizon bool) bool {
	return includeBelowHorizon || s.Altitude >= 0
}
