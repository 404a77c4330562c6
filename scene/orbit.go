package scene

import (
	"math"

	"github.com/echoflaresat/skydome/colors"
	"github.com/echoflaresat/skydome/vectors"
)

// Orbit is a camera circling the sphere center. Yaw is measured from
// north toward east, pitch above the horizon plane, both in degrees.
type Orbit struct {
	Radius   float64 `json:"radius"`
	Distance float64 `json:"distance"`
	YawDeg   float64 `json:"yaw"`
	PitchDeg float64 `json:"pitch"`
	FOVDeg   float64 `json:"fov"`
}

const (
	minPitchDeg = -10
	maxPitchDeg = 89
	minZoom     = 1.2
	maxZoom     = 8
)

// DefaultOrbit frames a sphere of radius r from the north-east, above the
// horizon.
func DefaultOrbit(r float64) Orbit {
	return Orbit{
		Radius:   r,
		Distance: 2.6 * r,
		YawDeg:   35,
		PitchDeg: 25,
		FOVDeg:   50,
	}
}

// Rotate turns the camera by the given yaw and pitch deltas. Pitch is
// clamped short of the poles.
func (o Orbit) Rotate(dYawDeg, dPitchDeg float64) Orbit {
	o.YawDeg = math.Mod(o.YawDeg+dYawDeg, 360)
	if o.YawDeg < 0 {
		o.YawDeg += 360
	}
	o.PitchDeg = colors.Clamp(o.PitchDeg+dPitchDeg, minPitchDeg, maxPitchDeg)
	return o
}

// Zoom scales the camera distance by factor, kept between 1.2R and 8R.
func (o Orbit) Zoom(factor float64) Orbit {
	if factor <= 0 {
		return o
	}
	o.Distance = colors.Clamp(o.Distance*factor, minZoom*o.Radius, maxZoom*o.Radius)
	return o
}

// tiltCamera rotates forward/up around the Right axis by tiltDeg.
func tiltCamera(fwd, right, up vectors.Vec3, tiltDeg float64) (vectors.Vec3, vectors.Vec3, vectors.Vec3) {
	theta := tiltDeg * math.Pi / 180.0
	return fwd.Rotate(right, theta).Normalize(), right, up.Rotate(right, theta).Normalize()
}

// yawCamera rotates the basis around the global up axis by yawDeg.
func yawCamera(fwd, right, up vectors.Vec3, yawDeg float64) (vectors.Vec3, vectors.Vec3, vectors.Vec3) {
	theta := yawDeg * math.Pi / 180.0
	axis := vectors.Vec3{Y: 1}
	return fwd.Rotate(axis, theta).Normalize(), right.Rotate(axis, theta).Normalize(), up.Rotate(axis, theta).Normalize()
}

// Basis returns the camera position and its forward/right/up axes.
func (o Orbit) Basis() (pos, fwd, right, up vectors.Vec3) {
	// Start on the +Z (north) axis looking at the center, then pitch up and
	// swing around.
	fwd = vectors.Vec3{Z: -1}
	right = vectors.Vec3{X: -1}
	up = vectors.Vec3{Y: 1}

	fwd, right, up = tiltCamera(fwd, right, up, o.PitchDeg)
	fwd, right, up = yawCamera(fwd, right, up, o.YawDeg)
	pos = fwd.Scale(-o.Distance)
	return pos, fwd, right, up
}

// Ray returns the origin and normalized direction of the view ray through
// pixel (px, py) of a width×height viewport. Pixel coordinates can be
// fractional.
func (o Orbit) Ray(px, py float64, width, height int) (origin, dir vectors.Vec3) {
	pos, fwd, right, up := o.Basis()
	w := float64(width)
	h := float64(height)
	tanHalf := math.Tan(o.FOVDeg * math.Pi / 360.0)
	aspect := w / h

	// NDC in [-1, +1] (centered), flip Y to make +up in screen space.
	xNDC := (px - (w-1)/2.0) / ((w - 1) / 2.0)
	yNDC := -((py - (h-1)/2.0) / ((h - 1) / 2.0))

	dir = right.Scale(xNDC * tanHalf * aspect).
		Add(up.Scale(yNDC * tanHalf)).
		Add(fwd)
	return pos, dir.Normalize()
}
