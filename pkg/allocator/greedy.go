package allocator

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/asi-uniovi/edarop-go/internal/logger"
	"github.com/asi-uniovi/edarop-go/pkg/core"
	"github.com/asi-uniovi/edarop-go/pkg/solver"
	"github.com/asi-uniovi/edarop-go/pkg/units"
)

// Greedy picks, for every (app, source region, time slot), the
// cheapest-per-request instance class able to serve the app from the
// region, breaking ties by response time and then by absolute price. It
// does not filter candidates by the app's deadline: a route is chosen
// whenever performance and latency data exist for it, even if the
// resulting response time exceeds MaxRespTime, and such routes are simply
// counted as deadline misses by the analyzer. It never calls a MILP
// backend, so it runs in time linear in the number of (app, region,
// instance class) triples. ErrNoViableInstance means no performance or
// latency data exists at all for the (app, region) pair, not that every
// candidate missed the deadline.
type Greedy struct{}

var _ Allocator = (*Greedy)(nil)

// NewGreedy returns a Greedy allocator.
func NewGreedy() *Greedy { return &Greedy{} }

func (a *Greedy) Solve(ctx context.Context, p *core.Problem, cfg *solver.Config) (*core.Solution, error) {
	logger.Log.Infow("starting greedy solve", "slots", p.WorkloadLen())

	start := time.Now()
	slots := make([]core.TimeSlotAllocation, p.WorkloadLen())

	for k := 0; k < p.WorkloadLen(); k++ {
		ics := make(map[core.ICKey]int64)
		reqs := make(map[core.ReqKey]int64)

		for key, wl := range p.Workloads {
			demand := wl.Values[k]
			if demand == 0 {
				continue
			}

			ic, err := chooseInstance(p.System, key.App, key.Region)
			if err != nil {
				return nil, err
			}

			perf := p.System.Perfs[core.PerfKey{App: key.App, IC: ic}]
			one, err := perf.Rate.To(p.TimeSlotUnit())
			if err != nil {
				return nil, err
			}
			if one <= 0 {
				return nil, fmt.Errorf("%w: %s has zero throughput for %s", ErrNoViableInstance, ic.Name, key.App.Name)
			}
			vms := int64(math.Ceil(float64(demand) / one))

			ics[core.ICKey{App: key.App, IC: ic}] += vms
			reqs[core.ReqKey{App: key.App, Src: key.Region, IC: ic}] += demand
		}

		slots[k] = core.NewTimeSlotAllocation(ics, reqs)
	}

	logger.Log.Infow("greedy solve finished", "status", core.StatusOptimal)
	return &core.Solution{
		Problem: p,
		Alloc:   core.Allocation{Slots: slots},
		SolvingStats: core.SolvingStats{
			CreationTime: time.Since(start),
			Status:       core.StatusOptimal,
		},
	}, nil
}

// chooseInstance implements the smallest-fastest-cheapest selection: narrow
// to the cheapest-per-request instance classes able to serve app from
// region at all (performance and latency data present, regardless of
// app.MaxRespTime), break ties by response time, then by absolute price.
func chooseInstance(sys *core.System, app core.App, region core.Region) (core.InstanceClass, error) {
	type candidate struct {
		ic          core.InstanceClass
		pricePerReq float64
		respTime    float64
	}

	var candidates []candidate
	for _, ic := range sys.ICs {
		perf, ok := sys.Perfs[core.PerfKey{App: app, IC: ic}]
		if !ok {
			continue
		}
		rt, ok := sys.RespTime(app, region, ic)
		if !ok {
			continue
		}
		pricePerSecond, _ := ic.Price.To(units.Seconds)
		reqsPerSecond, _ := perf.Rate.To(units.Seconds)
		if reqsPerSecond <= 0 {
			continue
		}
		candidates = append(candidates, candidate{ic: ic, pricePerReq: pricePerSecond / reqsPerSecond, respTime: rt.Seconds()})
	}
	if len(candidates) == 0 {
		return core.InstanceClass{}, fmt.Errorf("%w: no instance class has performance and latency data for %s from %s", ErrNoViableInstance, app.Name, region.Name)
	}

	minPrice := candidates[0].pricePerReq
	for _, c := range candidates[1:] {
		if c.pricePerReq < minPrice {
			minPrice = c.pricePerReq
		}
	}
	var cheapest []candidate
	for _, c := range candidates {
		if almostEqual(c.pricePerReq, minPrice) {
			cheapest = append(cheapest, c)
		}
	}

	minResp := cheapest[0].respTime
	for _, c := range cheapest[1:] {
		if c.respTime < minResp {
			minResp = c.respTime
		}
	}
	var fastest []candidate
	for _, c := range cheapest {
		if almostEqual(c.respTime, minResp) {
			fastest = append(fastest, c)
		}
	}

	best := fastest[0]
	for _, c := range fastest[1:] {
		if c.ic.Price.Less(best.ic.Price) {
			best = c
		}
	}
	return best.ic, nil
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
