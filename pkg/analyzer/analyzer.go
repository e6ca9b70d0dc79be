// Package analyzer computes summary metrics over a solved core.Solution:
// total cost, average response time, and deadline-miss rates, overall and
// broken down per app.
package analyzer

import (
	"errors"
	"fmt"

	"github.com/asi-uniovi/edarop-go/pkg/core"
	"github.com/asi-uniovi/edarop-go/pkg/units"
	"gonum.org/v1/gonum/floats"
)

// ErrNotFeasible is returned by every metric when the solution's status
// does not carry a usable allocation.
var ErrNotFeasible = errors.New("solution is not feasible")

// Analyzer computes metrics over a single Solution.
type Analyzer struct {
	Solution *core.Solution
}

// New returns an Analyzer for sol.
func New(sol *core.Solution) *Analyzer {
	return &Analyzer{Solution: sol}
}

func (an *Analyzer) checkFeasible() error {
	if !an.Solution.SolvingStats.Status.IsFeasible() {
		return fmt.Errorf("%w: status is %s", ErrNotFeasible, an.Solution.SolvingStats.Status)
	}
	return nil
}

// Cost returns the total cost of every VM rented across the whole
// allocation, at the price of the slot's time unit.
func (an *Analyzer) Cost() (units.Currency, error) {
	if err := an.checkFeasible(); err != nil {
		return units.Currency{}, err
	}
	p := an.Solution.Problem
	tsUnit, err := units.NewTime(1, p.TimeSlotUnit())
	if err != nil {
		return units.Currency{}, err
	}

	total := units.MustCurrency(0, units.USD)
	for _, slot := range an.Solution.Alloc.Slots {
		for key, count := range slot.ICs {
			total = total.Add(key.IC.Price.Mul(tsUnit).Scale(float64(count)))
		}
	}
	return total, nil
}

// AvgRespTime returns the request-weighted mean response time across every
// routed request in the allocation. It returns zero if no requests were
// routed at all.
func (an *Analyzer) AvgRespTime() (units.Time, error) {
	if err := an.checkFeasible(); err != nil {
		return units.Time{}, err
	}
	sys := an.Solution.Problem.System

	var respTimes, weights []float64
	for _, slot := range an.Solution.Alloc.Slots {
		for key, count := range slot.Reqs {
			if count == 0 {
				continue
			}
			rt, ok := sys.RespTime(key.App, key.Src, key.IC)
			if !ok {
				continue
			}
			respTimes = append(respTimes, rt.Seconds())
			weights = append(weights, float64(count))
		}
	}
	if len(respTimes) == 0 {
		return units.MustTime(0, units.Seconds), nil
	}

	totalWeight := floats.Sum(weights)
	weighted := make([]float64, len(respTimes))
	copy(weighted, respTimes)
	floats.Mul(weighted, weights)
	return units.MustTime(floats.Sum(weighted)/totalWeight, units.Seconds), nil
}

// TotalReqsPerApp sums, for every app, every request actually routed across
// the whole allocation.
func (an *Analyzer) TotalReqsPerApp() (map[core.App]int64, error) {
	if err := an.checkFeasible(); err != nil {
		return nil, err
	}
	totals := make(map[core.App]int64)
	for _, slot := range an.Solution.Alloc.Slots {
		for key, count := range slot.Reqs {
			totals[key.App] += count
		}
	}
	return totals, nil
}

// MissedReqsPerApp sums, for every app, every request in the Problem's
// workloads that was not routed in the solution (the demand shortfall
// between what was asked for and what got allocated).
func (an *Analyzer) MissedReqsPerApp() (map[core.App]int64, error) {
	if err := an.checkFeasible(); err != nil {
		return nil, err
	}
	p := an.Solution.Problem

	demanded := make(map[core.App]int64)
	for key, wl := range p.Workloads {
		for _, v := range wl.Values {
			demanded[key.App] += v
		}
	}

	routed, err := an.TotalReqsPerApp()
	if err != nil {
		return nil, err
	}

	missed := make(map[core.App]int64)
	for app, total := range demanded {
		if diff := total - routed[app]; diff > 0 {
			missed[app] = diff
		}
	}
	return missed, nil
}

// DeadlineMissRate returns the fraction of every routed request whose
// response time exceeds its app's MaxRespTime.
func (an *Analyzer) DeadlineMissRate() (float64, error) {
	if err := an.checkFeasible(); err != nil {
		return 0, err
	}
	sys := an.Solution.Problem.System

	var total, missed int64
	for _, slot := range an.Solution.Alloc.Slots {
		for key, count := range slot.Reqs {
			total += count
			rt, ok := sys.RespTime(key.App, key.Src, key.IC)
			if !ok || key.App.MaxRespTime.Less(rt) {
				missed += count
			}
		}
	}
	if total == 0 {
		return 0, nil
	}
	return float64(missed) / float64(total), nil
}

// MissRatePerApp returns, for every app with at least one routed request,
// the fraction of its routed requests that missed their deadline. Apps with
// no missed requests are reported as 0.0 rather than omitted.
func (an *Analyzer) MissRatePerApp() (map[core.App]float64, error) {
	if err := an.checkFeasible(); err != nil {
		return nil, err
	}
	sys := an.Solution.Problem.System

	total := make(map[core.App]int64)
	missed := make(map[core.App]int64)
	for _, slot := range an.Solution.Alloc.Slots {
		for key, count := range slot.Reqs {
			total[key.App] += count
			rt, ok := sys.RespTime(key.App, key.Src, key.IC)
			if !ok || key.App.MaxRespTime.Less(rt) {
				missed[key.App] += count
			}
		}
	}

	rates := make(map[core.App]float64, len(total))
	for app, t := range total {
		if t == 0 {
			rates[app] = 0.0
			continue
		}
		rates[app] = float64(missed[app]) / float64(t)
	}
	return rates, nil
}
