package section

import "chaoslab/internal/dynamo"

// Crossing is the interpolated state at the moment a trajectory pierces
// a plane in the admitted direction.
type Crossing struct {
	Time  float64
	State dynamo.State
}

// ExtractCrossings scans consecutive sample pairs of traj for sign
// changes of the plane coordinate against the threshold and linearly
// interpolates the exact crossing point. Taking the nearer sample
// instead would bias the section image, so interpolation is not
// optional here.
//
// A sample landing exactly on the plane counts once, attributed to the
// direction implied by the next sample's sign. Output is ordered by
// trajectory time and fully deterministic.
func ExtractCrossings(traj dynamo.Trajectory, plane Plane) ([]Crossing, error) {
	if traj.Len() == 0 {
		return nil, nil
	}
	if err := plane.Validate(len(traj.States[0])); err != nil {
		return nil, err
	}

	var out []Crossing
	for i := 0; i+1 < traj.Len(); i++ {
		d0 := traj.States[i][plane.Coord] - plane.Threshold
		d1 := traj.States[i+1][plane.Coord] - plane.Threshold

		up := d0 <= 0 && d1 > 0
		down := d0 >= 0 && d1 < 0

		admitted := false
		switch plane.Direction {
		case Positive:
			admitted = up
		case Negative:
			admitted = down
		case Either:
			admitted = up || down
		}
		if !admitted {
			continue
		}

		// d1 != d0 whenever up or down holds, so alpha is well-defined.
		alpha := -d0 / (d1 - d0)

		a, b := traj.States[i], traj.States[i+1]
		state := make(dynamo.State, len(a))
		for j := range a {
			state[j] = a[j] + alpha*(b[j]-a[j])
		}
		state[plane.Coord] = plane.Threshold

		out = append(out, Crossing{
			Time:  traj.Times[i] + alpha*(traj.Times[i+1]-traj.Times[i]),
			State: state,
		})
	}

	return out, nil
}

// Values projects crossings down to a single state coordinate.
func Values(crossings []Crossing, coord int) []float64 {
	out := make([]float64, 0, len(crossings))
	for _, c := range crossings {
		if coord < len(c.State) {
			out = append(out, c.State[coord])
		}
	}
	return out
}
