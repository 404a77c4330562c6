package sky

import (
	"github.com/echoflaresat/skydome/trajectory"
	"github.com/echoflaresat/skydome/vectors"
)

// PointSet is a point cloud built from one trajectory. Points, Sizes and
// IndexMap are parallel; IndexMap[i] is the index in the source trajectory
// of the sample that produced Points[i], and is strictly increasing.
type PointSet struct {
	Points   []vectors.Vec3 `json:"points"`
	Sizes    []float64      `json:"sizes"`
	IndexMap []int          `json:"indexMap"`
}

func (p PointSet) Len() int {
	return len(p.Points)
}

// Sample resolves emitted point i back to its source sample.
func (p PointSet) Sample(traj trajectory.Trajectory, i int) (trajectory.Sample, bool) {
	if i < 0 || i >= len(p.IndexMap) {
		return trajectory.Sample{}, false
	}
	j := p.IndexMap[i]
	if j < 0 || j >= len(traj.Samples) {
		return trajectory.Sample{}, false
	}
	return traj.Samples[j], true
}

// PointSize scales baseSize by lunar illumination: 0.6x when dark, 1.4x
// when full. Samples without illumination (the sun) keep baseSize.
func PointSize(s trajectory.Sample, baseSize float64) float64 {
	if !s.HasIllumination {
		return baseSize
	}
	return baseSize * (0.6 + 0.8*s.Illumination)
}

// BuildPoints projects the visible samples of traj, recording for each
// emitted point its size and its source index.
func BuildPoints(traj trajectory.Trajectory, r float64, includeBelowHorizon bool, baseSize float64) PointSet {
	ps := PointSet{
		Points:   make([]vectors.Vec3, 0, len(traj.Samples)),
		Sizes:    make([]float64, 0, len(traj.Samples)),
		IndexMap: make([]int, 0, len(traj.Samples)),
	}
	for i, s := range traj.Samples {
		if !visible(s, includeBelowHorizon) {
			continue
		}
		ps.Points = append(ps.Points, Project(s, r))
		ps.Sizes = append(ps.Sizes, PointSize(s, baseSize))
		ps.IndexMap = append(ps.IndexMap, i)
	}
	return ps
}
