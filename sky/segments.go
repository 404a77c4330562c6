package sky

import "github.com/echoflaresat/skydome/trajectory"

// BuildSegments splits a trajectory into maximal runs of visible samples.
// With includeBelowHorizon set every sample is visible and the result is a
// single polyline (when the trajectory has at least two samples). Runs
// shorter than two points cannot be drawn and are dropped.
func BuildSegments(traj trajectory.Trajectory, r float64, includeBelowHorizon bool) []Polyline {
	var segments []Polyline
	var run Polyline

	flush := func() {
		if len(run) >= 2 {
			segments = append(segments, run)
		}
		run = nil
	}

	for _, s := range traj.Samples {
		if !visible(s, includeBelowHorizon) {
			flush()
			continue
		}
		run = append(run, Project(s, r))
	}
	flush()

	return segments
}
