package milp

import (
	"fmt"

	"github.com/asi-uniovi/edarop-go/internal/logger"
	"github.com/asi-uniovi/edarop-go/pkg/core"
	"github.com/asi-uniovi/edarop-go/pkg/units"
)

// XVarInfo describes one X_aik variable: the VM count for app a of instance
// class i at time slot k.
type XVarInfo struct {
	App       core.App
	IC        core.InstanceClass
	TimeSlot  int
	PricePerTS float64
	PerfPerTS  float64
}

// YVarInfo describes one Y_aeik variable: the request count for app a from
// region e served by instance class i at time slot k.
type YVarInfo struct {
	App      core.App
	Region   core.Region
	IC       core.InstanceClass
	TimeSlot int
}

// Builder constructs the X/Y/Z variable families and shared constraints for
// the edge-routing MILP, and precomputes the adjacency indices the
// per-strategy allocators need to assemble objectives without rescanning
// every variable on every lookup.
type Builder struct {
	Problem *core.Problem
	Model   *Model

	XInfo map[int]XVarInfo
	YInfo map[int]YVarInfo
	ZID   map[int]int // Y var ID -> Z var ID, for allocators that need routing indicators

	// Adjacency indices, keyed by composite struct keys built once up front.
	xByAppSlot   map[appSlotKey][]int
	yByAppICSlot map[appICSlotKey][]int
	yByAppSlot   map[appSlotKey][]int
	yByAppRegionSlot map[appRegionSlotKey][]int
}

type appSlotKey struct {
	app  core.App
	slot int
}

type appICSlotKey struct {
	app  core.App
	ic   core.InstanceClass
	slot int
}

type appRegionSlotKey struct {
	app    core.App
	region core.Region
	slot   int
}

// NewBuilder creates the shared X/Y variables and throughput constraints for
// problem p, in the time-slot unit the problem's workloads are expressed in.
func NewBuilder(p *core.Problem) (*Builder, error) {
	b := &Builder{
		Problem:          p,
		Model:            NewModel(),
		XInfo:            make(map[int]XVarInfo),
		YInfo:            make(map[int]YVarInfo),
		ZID:              make(map[int]int),
		xByAppSlot:       make(map[appSlotKey][]int),
		yByAppICSlot:     make(map[appICSlotKey][]int),
		yByAppSlot:       make(map[appSlotKey][]int),
		yByAppRegionSlot: make(map[appRegionSlotKey][]int),
	}

	if err := b.createVarsX(); err != nil {
		return nil, err
	}
	b.createVarsY()
	b.createThroughputConstraints()

	logger.Log.Debugw("built milp model",
		"vars", b.Model.NumVars(),
		"constraints", len(b.Model.Constraints),
		"slots", p.WorkloadLen(),
	)

	return b, nil
}

func tsUnitSeconds(p *core.Problem) (float64, error) {
	one, err := units.NewTime(1, p.TimeSlotUnit())
	if err != nil {
		return 0, err
	}
	return one.Seconds(), nil
}

func (b *Builder) createVarsX() error {
	p := b.Problem
	tsSeconds, err := tsUnitSeconds(p)
	if err != nil {
		return fmt.Errorf("resolving time slot unit: %w", err)
	}

	for _, a := range p.System.Apps {
		for _, i := range p.System.ICs {
			perf, ok := p.System.Perfs[core.PerfKey{App: a, IC: i}]
			if !ok {
				continue
			}
			pricePerSecond, _ := i.Price.To(units.Seconds)
			pricePerTS := pricePerSecond * tsSeconds
			perfPerTS := perf.Rate.RequestsIn(units.MustTime(tsSeconds, units.Seconds)).Count()

			for k := 0; k < p.WorkloadLen(); k++ {
				name := aikName(a, i, k)
				id := b.Model.AddVar(name, Integer, 0)
				b.XInfo[id] = XVarInfo{App: a, IC: i, TimeSlot: k, PricePerTS: pricePerTS, PerfPerTS: perfPerTS}
				b.xByAppSlot[appSlotKey{a, k}] = append(b.xByAppSlot[appSlotKey{a, k}], id)
			}
		}
	}
	return nil
}

func (b *Builder) createVarsY() {
	p := b.Problem
	for _, a := range p.System.Apps {
		for _, e := range p.Regions() {
			for _, i := range p.System.ICs {
				if !canSendRequests(p, e, i.Region) {
					continue
				}
				for k := 0; k < p.WorkloadLen(); k++ {
					name := aeikName(a, e, i, k)
					id := b.Model.AddVar(name, Integer, 0)
					b.YInfo[id] = YVarInfo{App: a, Region: e, IC: i, TimeSlot: k}

					b.yByAppICSlot[appICSlotKey{a, i, k}] = append(b.yByAppICSlot[appICSlotKey{a, i, k}], id)
					b.yByAppSlot[appSlotKey{a, k}] = append(b.yByAppSlot[appSlotKey{a, k}], id)
					b.yByAppRegionSlot[appRegionSlotKey{a, e, k}] = append(b.yByAppRegionSlot[appRegionSlotKey{a, e, k}], id)
				}
			}
		}
	}
}

func canSendRequests(p *core.Problem, src, dst core.Region) bool {
	_, ok := p.System.Latencies[core.LatencyKey{Src: src, Dst: dst}]
	return ok
}

func aikName(a core.App, i core.InstanceClass, k int) string {
	return fmt.Sprintf("X_%s_%s_%d", a.Name, i.Name, k)
}

func aeikName(a core.App, e core.Region, i core.InstanceClass, k int) string {
	return fmt.Sprintf("Y_%s_%s_%s_%d", a.Name, e.Name, i.Name, k)
}

// createThroughputConstraints adds the four shared constraint families every
// allocator strategy needs regardless of objective: per-app and per-ic
// capacity, and per-region and all-region demand satisfaction.
func (b *Builder) createThroughputConstraints() {
	p := b.Problem

	for _, a := range p.System.Apps {
		for k := 0; k < p.WorkloadLen(); k++ {
			lak := p.WorkloadForAppAtSlot(a, k)
			var terms []Term
			for _, id := range b.xByAppSlot[appSlotKey{a, k}] {
				terms = append(terms, Term{VarID: id, Coef: b.XInfo[id].PerfPerTS})
			}
			b.Model.AddConstraint(
				fmt.Sprintf("throughput_app_%s_%d", a.Name, k),
				terms, GE, float64(lak),
			)
		}
	}

	for _, a := range p.System.Apps {
		for _, i := range p.System.ICs {
			if _, ok := p.System.Perfs[core.PerfKey{App: a, IC: i}]; !ok {
				continue
			}
			for k := 0; k < p.WorkloadLen(); k++ {
				xID, ok := b.Model.VarID(aikName(a, i, k))
				if !ok {
					continue
				}
				terms := []Term{{VarID: xID, Coef: -b.XInfo[xID].PerfPerTS}}
				for _, yID := range b.yByAppICSlot[appICSlotKey{a, i, k}] {
					terms = append(terms, Term{VarID: yID, Coef: 1})
				}
				b.Model.AddConstraint(
					fmt.Sprintf("throughput_ic_%s_%s_%d", a.Name, i.Name, k),
					terms, LE, 0,
				)
			}
		}
	}

	for _, a := range p.System.Apps {
		for k := 0; k < p.WorkloadLen(); k++ {
			lak := p.WorkloadForAppAtSlot(a, k)
			var terms []Term
			for _, id := range b.yByAppSlot[appSlotKey{a, k}] {
				terms = append(terms, Term{VarID: id, Coef: 1})
			}
			b.Model.AddConstraint(
				fmt.Sprintf("throughput_all_regions_%s_%d", a.Name, k),
				terms, EQ, float64(lak),
			)
		}
	}

	for _, a := range p.System.Apps {
		for _, e := range p.Regions() {
			for k := 0; k < p.WorkloadLen(); k++ {
				wl, ok := p.Workloads[core.WorkloadKey{App: a, Region: e}]
				if !ok {
					continue
				}
				ids := b.yByAppRegionSlot[appRegionSlotKey{a, e, k}]
				if len(ids) == 0 {
					continue
				}
				var terms []Term
				for _, id := range ids {
					terms = append(terms, Term{VarID: id, Coef: 1})
				}
				b.Model.AddConstraint(
					fmt.Sprintf("throughput_region_%s_%s_%d", a.Name, e.Name, k),
					terms, EQ, float64(wl.Values[k]),
				)
			}
		}
	}
}

// AddRoutingIndicators creates the binary Z_aeik variables and the big-M
// linkage Y_aeik <= M * Z_aeik, used by allocators that need to know whether
// a route is active at all (independent of how many requests flow over it).
// It also adds the per-route deadline constraint Z_aeik * resp_time_aei <=
// max_resp_time_a for every route whose latency is known.
func (b *Builder) AddRoutingIndicators() {
	const bigM = 1_000_000_000
	for yID, info := range b.YInfo {
		zID := b.Model.AddVar("Z_"+b.Model.Vars[yID].Name[2:], Binary, 0)
		b.Model.Vars[zID].HasUpBound = true
		b.Model.Vars[zID].UpBound = 1
		b.ZID[yID] = zID

		b.Model.AddConstraint(
			fmt.Sprintf("route_active_%d", yID),
			[]Term{{VarID: yID, Coef: 1}, {VarID: zID, Coef: -bigM}},
			LE, 0,
		)

		latency, ok := b.Problem.System.Latencies[core.LatencyKey{Src: info.Region, Dst: info.IC.Region}]
		if !ok {
			continue
		}
		perf := b.Problem.System.Perfs[core.PerfKey{App: info.App, IC: info.IC}]
		respTime := latency.Value.Add(perf.SLO)
		maxRespTime := info.App.MaxRespTime

		b.Model.AddConstraint(
			fmt.Sprintf("deadline_%d", yID),
			[]Term{{VarID: zID, Coef: respTime.Seconds()}},
			LE, maxRespTime.Seconds(),
		)
	}

	logger.Log.Debugw("added routing indicators",
		"vars", b.Model.NumVars(),
		"constraints", len(b.Model.Constraints),
	)
}

// CostTerms returns the objective terms for total cost: sum of X_aik *
// price_per_ts over every X variable.
func (b *Builder) CostTerms() []Term {
	terms := make([]Term, 0, len(b.XInfo))
	for id, info := range b.XInfo {
		terms = append(terms, Term{VarID: id, Coef: info.PricePerTS})
	}
	return terms
}

// ResponseTimeTerms returns the objective terms for total response-time
// (in seconds, request-weighted): sum of Y_aeik * resp_time_aei over every Y
// variable whose route resolves a response time. The caller divides the
// resulting objective value by total request count to get the average.
func (b *Builder) ResponseTimeTerms() []Term {
	terms := make([]Term, 0, len(b.YInfo))
	for id, info := range b.YInfo {
		rt, ok := b.Problem.System.RespTime(info.App, info.Region, info.IC)
		if !ok {
			continue
		}
		terms = append(terms, Term{VarID: id, Coef: rt.Seconds()})
	}
	return terms
}

// AddCostCapConstraint adds sum(X_aik * price_per_ts) <= maxCost, used by
// allocators whose problem carries a cost bound.
func (b *Builder) AddCostCapConstraint(maxCost units.Currency) {
	b.Model.AddConstraint("cost_cap", b.CostTerms(), LE, maxCost.USD())
}

// AddAvgRespTimeCapConstraint adds sum(Y_aeik * resp_time_aei) <= maxAvg *
// totalReqs, the linear form of "average response time <= maxAvg" that
// avoids dividing the constraint row by totalReqs.
func (b *Builder) AddAvgRespTimeCapConstraint(maxAvg units.Time, totalReqs int64) {
	b.Model.AddConstraint(
		"avg_resp_time_cap",
		b.ResponseTimeTerms(),
		LE, maxAvg.Seconds()*float64(totalReqs),
	)
}
