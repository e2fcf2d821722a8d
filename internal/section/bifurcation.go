package section

import (
	"context"
	"errors"
	"fmt"

	"chaoslab/internal/dynamo"
)

// Sweep describes a bifurcation computation: one Sample run per value
// of the swept parameter, all other settings held fixed.
type Sweep struct {
	// NewSystem must return a fresh instance on every call; sweep
	// workers never share one.
	NewSystem func() dynamo.System
	ParamName string
	Values    []float64

	Initial   dynamo.State
	Plane     Plane
	Transient float64
	Sample    float64

	// ReportCoord is the state index recorded per crossing. Negative
	// selects a default: a coordinate other than the plane coordinate.
	ReportCoord int

	// Workers bounds sweep parallelism; <= 0 uses GOMAXPROCS.
	Workers int
}

// Point holds the admitted crossing values for one swept parameter
// value. Diverged marks values whose integration escaped; they
// contribute no entries but stay visible in the diagram.
type Point struct {
	Param    float64
	Values   []float64
	Diverged bool
}

// Diagram is the aggregate of a full sweep, in input value order.
type Diagram struct {
	ParamName   string
	ReportCoord int
	Points      []Point
}

// Diverged lists the parameter values whose integration failed.
func (d *Diagram) Diverged() []float64 {
	var out []float64
	for _, p := range d.Points {
		if p.Diverged {
			out = append(out, p.Param)
		}
	}
	return out
}

// Pairs flattens the diagram into (parameter, value) records for
// plotting or CSV export.
func (d *Diagram) Pairs() [][2]float64 {
	var out [][2]float64
	for _, p := range d.Points {
		for _, v := range p.Values {
			out = append(out, [2]float64{p.Param, v})
		}
	}
	return out
}

func (sw Sweep) reportCoord() int {
	if sw.ReportCoord >= 0 {
		return sw.ReportCoord
	}
	// Prefer z unless the plane cuts on z, then fall back to x.
	if sw.Plane.Coord != 2 {
		return 2
	}
	return 0
}

func (sw Sweep) validate() error {
	if sw.NewSystem == nil {
		return fmt.Errorf("sweep needs a system factory: %w", dynamo.ErrInvalidConfig)
	}
	probe := sw.NewSystem()
	if probe == nil {
		return fmt.Errorf("system factory returned nil: %w", dynamo.ErrInvalidConfig)
	}
	if err := sw.Plane.Validate(probe.Dim()); err != nil {
		return err
	}
	if !sw.Initial.IsValid() || len(sw.Initial) != probe.Dim() {
		return fmt.Errorf("bad sweep initial state: %w", dynamo.ErrInvalidConfig)
	}
	if sw.reportCoord() >= probe.Dim() {
		return fmt.Errorf("report coordinate %d out of range: %w", sw.ReportCoord, dynamo.ErrInvalidConfig)
	}
	if len(sw.Values) > 0 {
		tunable, ok := probe.(dynamo.Configurable)
		if !ok {
			return fmt.Errorf("system is not configurable: %w", dynamo.ErrInvalidConfig)
		}
		if err := tunable.SetParam(sw.ParamName, sw.Values[0]); err != nil {
			return err
		}
	}
	return nil
}

// Bifurcation runs Sample once per swept value and aggregates the
// reported crossing coordinate into a Diagram. Values are independent,
// so the sweep fans out across workers; each worker owns a disjoint
// slice of the result, merged without locking.
//
// A divergence at one value marks that point and the sweep continues;
// only configuration errors and context cancellation abort the whole
// run.
func (e *Engine) Bifurcation(ctx context.Context, sw Sweep) (*Diagram, error) {
	if err := sw.validate(); err != nil {
		return nil, err
	}

	coord := sw.reportCoord()
	points := make([]Point, len(sw.Values))
	errs := make([]error, len(sw.Values))

	dynamo.ParallelFor(len(sw.Values), sw.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			p := sw.Values[i]
			points[i] = Point{Param: p}

			sys := sw.NewSystem()
			if tunable, ok := sys.(dynamo.Configurable); ok {
				if err := tunable.SetParam(sw.ParamName, p); err != nil {
					errs[i] = err
					continue
				}
			}

			crossings, err := e.Sample(ctx, sys, sw.Initial, sw.Plane, sw.Transient, sw.Sample)
			switch {
			case err == nil:
				points[i].Values = Values(crossings, coord)
			case errors.Is(err, dynamo.ErrDiverged):
				points[i].Diverged = true
			default:
				errs[i] = err
			}
		}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return &Diagram{ParamName: sw.ParamName, ReportCoord: coord, Points: points}, nil
}
