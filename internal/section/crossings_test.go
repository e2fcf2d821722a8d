package section_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"chaoslab/internal/dynamo"
	"chaoslab/internal/section"
)

func makeTrajectory(times []float64, states ...dynamo.State) dynamo.Trajectory {
	return dynamo.Trajectory{Times: times, States: states}
}

var _ = Describe("ExtractCrossings", func() {
	Describe("direction filtering", func() {
		// One upward and one downward crossing of y = 0.
		traj := makeTrajectory(
			[]float64{0, 1, 2},
			dynamo.State{10, -1, 0},
			dynamo.State{20, 1, 0},
			dynamo.State{30, -1, 0},
		)

		It("admits only upward transitions for Positive", func() {
			crossings, err := section.ExtractCrossings(traj, section.Plane{Coord: 1, Direction: section.Positive})
			Expect(err).NotTo(HaveOccurred())
			Expect(crossings).To(HaveLen(1))
			Expect(crossings[0].Time).To(BeNumerically("~", 0.5, 1e-12))
		})

		It("admits only downward transitions for Negative", func() {
			crossings, err := section.ExtractCrossings(traj, section.Plane{Coord: 1, Direction: section.Negative})
			Expect(err).NotTo(HaveOccurred())
			Expect(crossings).To(HaveLen(1))
			Expect(crossings[0].Time).To(BeNumerically("~", 1.5, 1e-12))
		})

		It("admits both in time order for Either", func() {
			crossings, err := section.ExtractCrossings(traj, section.Plane{Coord: 1, Direction: section.Either})
			Expect(err).NotTo(HaveOccurred())
			Expect(crossings).To(HaveLen(2))
			Expect(crossings[0].Time).To(BeNumerically("<", crossings[1].Time))
		})
	})

	Describe("interpolation", func() {
		It("recovers an analytically known crossing", func() {
			// Straight line x(t) = t - 0.35, y(t) = 2t: crosses x = 0
			// at t = 0.35 with y = 0.7.
			var times []float64
			var states []dynamo.State
			for i := 0; i <= 10; i++ {
				t := float64(i) * 0.1
				times = append(times, t)
				states = append(states, dynamo.State{t - 0.35, 2 * t, 1})
			}
			traj := dynamo.Trajectory{Times: times, States: states}

			crossings, err := section.ExtractCrossings(traj, section.Plane{Coord: 0, Direction: section.Positive})
			Expect(err).NotTo(HaveOccurred())
			Expect(crossings).To(HaveLen(1))

			c := crossings[0]
			Expect(c.Time).To(BeNumerically("~", 0.35, 1e-6))
			Expect(c.State[0]).To(BeNumerically("~", 0.0, 1e-6))
			Expect(c.State[1]).To(BeNumerically("~", 0.7, 1e-6))
			Expect(c.State[2]).To(BeNumerically("~", 1.0, 1e-12))
		})

		It("pins the plane coordinate exactly to the threshold", func() {
			traj := makeTrajectory(
				[]float64{0, 1},
				dynamo.State{-0.3, 0, 0},
				dynamo.State{0.7, 0, 0},
			)
			crossings, err := section.ExtractCrossings(traj, section.Plane{Coord: 0, Direction: section.Positive})
			Expect(err).NotTo(HaveOccurred())
			Expect(crossings).To(HaveLen(1))
			Expect(crossings[0].State[0]).To(Equal(0.0))
		})
	})

	Describe("samples landing exactly on the plane", func() {
		It("counts once, attributed by the next sample", func() {
			traj := makeTrajectory(
				[]float64{0, 1, 2},
				dynamo.State{-1, 0, 0},
				dynamo.State{0, 0, 0},
				dynamo.State{1, 0, 0},
			)
			crossings, err := section.ExtractCrossings(traj, section.Plane{Coord: 0, Direction: section.Positive})
			Expect(err).NotTo(HaveOccurred())
			Expect(crossings).To(HaveLen(1))
			Expect(crossings[0].Time).To(Equal(1.0))

			// The same trajectory holds no downward crossing.
			down, err := section.ExtractCrossings(traj, section.Plane{Coord: 0, Direction: section.Negative})
			Expect(err).NotTo(HaveOccurred())
			Expect(down).To(BeEmpty())
		})
	})

	Describe("edge inputs", func() {
		It("returns nothing for an empty trajectory", func() {
			crossings, err := section.ExtractCrossings(dynamo.Trajectory{}, section.Plane{Coord: 0})
			Expect(err).NotTo(HaveOccurred())
			Expect(crossings).To(BeEmpty())
		})

		It("rejects an out-of-range plane coordinate", func() {
			traj := makeTrajectory([]float64{0}, dynamo.State{1, 2, 3})
			_, err := section.ExtractCrossings(traj, section.Plane{Coord: 5})
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		})

		It("rejects a non-finite threshold", func() {
			traj := makeTrajectory([]float64{0}, dynamo.State{1, 2, 3})
			_, err := section.ExtractCrossings(traj, section.Plane{Coord: 0, Threshold: math.NaN()})
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		})
	})

	It("is deterministic", func() {
		traj := makeTrajectory(
			[]float64{0, 1, 2, 3, 4},
			dynamo.State{-1, 0, 0},
			dynamo.State{2, 0, 0},
			dynamo.State{-0.5, 0, 0},
			dynamo.State{0.25, 0, 0},
			dynamo.State{-3, 0, 0},
		)
		plane := section.Plane{Coord: 0, Direction: section.Either}

		a, err := section.ExtractCrossings(traj, plane)
		Expect(err).NotTo(HaveOccurred())
		b, err := section.ExtractCrossings(traj, plane)
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
	})
})
