package section_test

import (
	"context"
	"math"
	"sort"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"chaoslab/internal/dynamo"
	"chaoslab/internal/integrators"
	"chaoslab/internal/section"
	"chaoslab/internal/sim"
	"chaoslab/internal/systems"
)

func newEngine() *section.Engine {
	return section.NewEngine(sim.NewSolver(integrators.NewRK45()), dynamo.DefaultOptions())
}

// clusters counts distinct values after sorting, merging values closer
// than tol into one.
func clusters(values []float64, tol float64) int {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i]-sorted[i-1] > tol {
			n++
		}
	}
	return n
}

var _ = Describe("Engine.Sample", func() {
	ctx := context.Background()

	It("returns exactly one crossing per period of a periodic orbit", func() {
		engine := newEngine()
		plane := section.Plane{Coord: 0, Threshold: 0, Direction: section.Positive}

		// x(t) = cos t crosses zero upward once per 2π.
		one, err := engine.Sample(ctx, &circle{}, dynamo.State{1, 0, 0}, plane, 0, 2*math.Pi)
		Expect(err).NotTo(HaveOccurred())
		Expect(one).To(HaveLen(1))

		two, err := engine.Sample(ctx, &circle{}, dynamo.State{1, 0, 0}, plane, 0, 4*math.Pi)
		Expect(err).NotTo(HaveOccurred())
		Expect(two).To(HaveLen(2))

		// Repeated periods revisit the same section point. The section
		// coordinate sits at an extremum there, so interpolation between
		// samples is second-order accurate at best.
		Expect(two[1].State[1]).To(BeNumerically("~", two[0].State[1], 1e-4))
		Expect(one[0].State[1]).To(BeNumerically("~", two[0].State[1], 1e-4))
	})

	It("lands on analytically known crossing coordinates", func() {
		engine := newEngine()
		plane := section.Plane{Coord: 0, Threshold: 0, Direction: section.Positive}

		// Upward zero crossing of cos t happens at y = -1 exactly.
		crossings, err := engine.Sample(ctx, &circle{}, dynamo.State{1, 0, 0}, plane, 0, 2*math.Pi)
		Expect(err).NotTo(HaveOccurred())
		Expect(crossings).To(HaveLen(1))
		Expect(crossings[0].Time).To(BeNumerically("~", 3*math.Pi/2, 1e-6))
		Expect(crossings[0].State[1]).To(BeNumerically("~", -1.0, 1e-4))
	})

	It("shows that transient elimination matters", func() {
		engine := newEngine()
		plane := section.Plane{Coord: 0, Threshold: 0, Direction: section.Positive}
		far := dynamo.State{3, 0, 1}

		raw, err := engine.Sample(ctx, &stuartLandau{}, far, plane, 0, 30)
		Expect(err).NotTo(HaveOccurred())
		settled, err := engine.Sample(ctx, &stuartLandau{}, far, plane, 100, 30)
		Expect(err).NotTo(HaveOccurred())

		// On the unit limit cycle every upward crossing has y = -1.
		for _, c := range settled {
			Expect(c.State[1]).To(BeNumerically("~", -1.0, 1e-3))
		}

		// Without discarding the transient, early crossings still
		// carry the approach from radius 3.
		Expect(raw).NotTo(BeEmpty())
		worst := 0.0
		for _, c := range raw {
			if d := math.Abs(c.State[1] + 1.0); d > worst {
				worst = d
			}
		}
		Expect(worst).To(BeNumerically(">", 1e-2))
	})

	It("returns an empty crossing list for a quiescent regime", func() {
		engine := newEngine()

		// All coordinates decay to the origin, far below the plane.
		plane := section.Plane{Coord: 2, Threshold: 5, Direction: section.Positive}
		crossings, err := engine.Sample(ctx, &stuartLandau{}, dynamo.State{0.1, 0.1, 0.1}, plane, 10, 20)
		Expect(err).NotTo(HaveOccurred())
		Expect(crossings).To(BeEmpty())
	})

	It("rejects invalid sampling configuration", func() {
		engine := newEngine()
		plane := section.Plane{Coord: 0, Threshold: 0, Direction: section.Positive}

		_, err := engine.Sample(ctx, &circle{}, dynamo.State{1, 0, 0}, plane, -1, 10)
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))

		_, err = engine.Sample(ctx, &circle{}, dynamo.State{1, 0, 0}, plane, 0, 0)
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))

		_, err = engine.Sample(ctx, &circle{}, dynamo.State{1, 0, 0}, section.Plane{Coord: 7}, 0, 10)
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
	})

	It("propagates divergence when called outside a sweep", func() {
		engine := newEngine()
		plane := section.Plane{Coord: 0, Threshold: 0, Direction: section.Positive}

		_, err := engine.Sample(ctx, &rotBlowup{k: 1}, dynamo.State{1, 0, 0}, plane, 5, 10)
		Expect(err).To(MatchError(dynamo.ErrDiverged))
	})
})

var _ = Describe("Engine.MultiSample", func() {
	It("converges independent starts onto one section structure", func() {
		engine := newEngine()
		plane := section.Plane{Coord: 0, Threshold: 0, Direction: section.Positive}
		starts := []dynamo.State{{2, 0, 0}, {0.2, 0.1, 0}}

		sections, err := engine.MultiSample(context.Background(), &stuartLandau{}, starts, plane, 100, 20)
		Expect(err).NotTo(HaveOccurred())
		Expect(sections).To(HaveLen(2))
		for _, crossings := range sections {
			Expect(crossings).NotTo(BeEmpty())
			for _, c := range crossings {
				Expect(c.State[1]).To(BeNumerically("~", -1.0, 1e-3))
			}
		}
	})
})

var _ = Describe("Engine.Bifurcation", func() {
	ctx := context.Background()

	It("tolerates divergence at individual parameter values", func() {
		engine := newEngine()

		diagram, err := engine.Bifurcation(ctx, section.Sweep{
			NewSystem:   func() dynamo.System { return &rotBlowup{k: 0.001} },
			ParamName:   "k",
			Values:      []float64{0.001, 0.002, 1.0, 0.003},
			Initial:     dynamo.State{1, 0, 0},
			Plane:       section.Plane{Coord: 0, Threshold: 0, Direction: section.Positive},
			Transient:   2,
			Sample:      10,
			ReportCoord: -1,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(diagram.Points).To(HaveLen(4))
		Expect(diagram.ReportCoord).To(Equal(2))

		Expect(diagram.Points[2].Diverged).To(BeTrue())
		Expect(diagram.Points[2].Values).To(BeEmpty())
		Expect(diagram.Diverged()).To(Equal([]float64{1.0}))

		for _, i := range []int{0, 1, 3} {
			Expect(diagram.Points[i].Diverged).To(BeFalse())
			Expect(diagram.Points[i].Values).NotTo(BeEmpty())
		}
	})

	It("is deterministic under parallel execution", func() {
		run := func() *section.Diagram {
			engine := newEngine()
			d, err := engine.Bifurcation(ctx, section.Sweep{
				NewSystem:   func() dynamo.System { return &rotBlowup{k: 0.001} },
				ParamName:   "k",
				Values:      []float64{0.001, 0.002, 0.003, 0.004, 0.005, 0.006},
				Initial:     dynamo.State{1, 0, 0},
				Plane:       section.Plane{Coord: 0, Threshold: 0, Direction: section.Positive},
				Transient:   2,
				Sample:      10,
				ReportCoord: -1,
				Workers:     4,
			})
			Expect(err).NotTo(HaveOccurred())
			return d
		}

		Expect(run()).To(Equal(run()))
	})

	It("shares a fixed-step stepper safely across workers", func() {
		// Every worker drives the same RK4 instance, so this sweep is
		// the run that trips the race detector if a stepper ever grows
		// receiver-held scratch state.
		run := func(workers int) *section.Diagram {
			engine := section.NewEngine(sim.NewSolver(integrators.NewRK4()), dynamo.DefaultOptions())
			d, err := engine.Bifurcation(ctx, section.Sweep{
				NewSystem:   func() dynamo.System { return &rotBlowup{k: 0.001} },
				ParamName:   "k",
				Values:      []float64{0.001, 0.002, 0.003, 0.004, 0.005, 0.006, 0.007, 0.008},
				Initial:     dynamo.State{1, 0, 0},
				Plane:       section.Plane{Coord: 0, Threshold: 0, Direction: section.Positive},
				Transient:   2,
				Sample:      10,
				ReportCoord: -1,
				Workers:     workers,
			})
			Expect(err).NotTo(HaveOccurred())
			return d
		}

		parallel := run(4)
		Expect(parallel.Diverged()).To(BeEmpty())
		for _, p := range parallel.Points {
			Expect(p.Values).NotTo(BeEmpty())
		}
		Expect(parallel).To(Equal(run(1)))
	})

	It("rejects sweeps over systems without parameters", func() {
		engine := newEngine()
		_, err := engine.Bifurcation(ctx, section.Sweep{
			NewSystem: func() dynamo.System { return &circle{} },
			ParamName: "k",
			Values:    []float64{1, 2},
			Initial:   dynamo.State{1, 0, 0},
			Plane:     section.Plane{Coord: 0, Threshold: 0, Direction: section.Positive},
			Transient: 1,
			Sample:    5,
		})
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
	})

	It("rejects unknown sweep parameters", func() {
		engine := newEngine()
		_, err := engine.Bifurcation(ctx, section.Sweep{
			NewSystem: func() dynamo.System { return &rotBlowup{} },
			ParamName: "gamma",
			Values:    []float64{1, 2},
			Initial:   dynamo.State{1, 0, 0},
			Plane:     section.Plane{Coord: 0, Threshold: 0, Direction: section.Positive},
			Transient: 1,
			Sample:    5,
		})
		Expect(err).To(MatchError(dynamo.ErrUnknownParam))
	})

	It("produces an empty diagram for an empty value list", func() {
		engine := newEngine()
		diagram, err := engine.Bifurcation(ctx, section.Sweep{
			NewSystem: func() dynamo.System { return &rotBlowup{} },
			ParamName: "k",
			Initial:   dynamo.State{1, 0, 0},
			Plane:     section.Plane{Coord: 0, Threshold: 0, Direction: section.Positive},
			Transient: 1,
			Sample:    5,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(diagram.Points).To(BeEmpty())
		Expect(diagram.Pairs()).To(BeEmpty())
	})

	It("traces the Rössler period-doubling route to chaos", Label("slow"), func() {
		engine := newEngine()
		reg := systems.NewRegistry()

		diagram, err := engine.Bifurcation(ctx, section.Sweep{
			NewSystem: func() dynamo.System {
				sys, _ := reg.New("rossler")
				return sys
			},
			ParamName:   "c",
			Values:      []float64{2.0, 2.5, 3.0, 3.5, 4.0, 4.5, 5.0, 5.7},
			Initial:     dynamo.State{1, 1, 1},
			Plane:       section.Plane{Coord: 1, Threshold: 0, Direction: section.Positive},
			Transient:   300,
			Sample:      150,
			ReportCoord: 0,
			Workers:     4,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(diagram.Diverged()).To(BeEmpty())

		counts := make(map[float64]int)
		for _, p := range diagram.Points {
			Expect(p.Values).NotTo(BeEmpty())
			counts[p.Param] = clusters(p.Values, 0.1)
		}

		// Period-1 before the cascade, a dense set deep in chaos. The
		// count need not grow monotonically (periodic windows exist),
		// but the trend must hold.
		Expect(counts[2.0]).To(BeNumerically("<=", 2))
		Expect(counts[5.7]).To(BeNumerically(">=", 8))
		Expect(counts[5.7]).To(BeNumerically(">", counts[2.0]))
		Expect(counts[4.0]).To(BeNumerically(">=", counts[2.0]))
	})
})
