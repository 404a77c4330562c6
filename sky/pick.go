package sky

import (
	"math"

	"github.com/echoflaresat/skydome/vectors"
)

// Pick returns the index of the point hit by the ray origin + t*dir, t > 0.
// A point is hit when it lies within threshold of the ray; among hits the
// one nearest the origin wins, then the lowest index.
func Pick(origin, dir vectors.Vec3, points []vectors.Vec3, threshold float64) (int, bool) {
	dir = dir.Normalize()
	best, bestT := -1, math.Inf(1)
	for i, p := range points {
		rel := p.Sub(origin)
		t := rel.Dot(dir)
		if t <= 0 {
			continue
		}
		closest := dir.Scale(t)
		if vectors.Distance(rel, closest) > threshold {
			continue
		}
		if t < bestT {
			best, bestT = i, t
		}
	}
	return best, best >= 0
}

// IntersectSphere returns the nearest positive t where origin + t*dir
// meets the sphere of radius r centred at the origin, or -1 on a miss.
// dir must be normalized.
func IntersectSphere(origin, dir vectors.Vec3, r float64) float64 {
	b := 2.0 * origin.Dot(dir)
	c := origin.Dot(origin) - r*r

	discriminant := b*b - 4.0*c
	if discriminant < 0 {
		return -1.0
	}

	sqrtDisc := math.Sqrt(discriminant)
	t1 := (-b - sqrtDisc) / 2.0
	t2 := (-b + sqrtDisc) / 2.0

	switch {
	case t1 > 0:
		return t1
	case t2 > 0:
		return t2
	}
	return -1.0
}

// Horizontal returns the compass azimuth and altitude of a point on or
// around the sphere, the inverse of ProjectAngles.
func Horizontal(p vectors.Vec3) (az, alt float64) {
	az = math.Atan2(p.X, p.Z)
	if az < 0 {
		az += 2 * math.Pi
	}
	return az, math.Atan2(p.Y, math.Hypot(p.X, p.Z))
}
