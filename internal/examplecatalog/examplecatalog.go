// Package examplecatalog builds the canonical example problems used by the
// test suite and by the CLI's demo commands: a minimal single-region system
// and the four-region, two-app, eight-instance-class system the allocator
// test scenarios are built around.
package examplecatalog

import (
	"github.com/asi-uniovi/edarop-go/pkg/core"
	"github.com/asi-uniovi/edarop-go/pkg/units"
)

// SingleRegion returns a one-app, one-region, one-instance-class Problem,
// small enough to hand-verify an allocator's output against.
func SingleRegion() (*core.Problem, error) {
	region := core.Region{Name: "Ireland"}
	app := core.App{Name: "a0", MaxRespTime: units.MustTime(0.2, units.Seconds)}
	ic := core.InstanceClass{Name: "m5.xlarge", Price: units.MustCurrencyPerTime(0.214, units.Hours), Region: region}

	sys, err := core.NewSystem(
		[]core.App{app},
		[]core.InstanceClass{ic},
		map[core.PerfKey]core.Performance{
			{App: app, IC: ic}: {Rate: units.MustRequestsPerTime(2000, units.Hours), SLO: units.MustTime(0.1, units.Seconds)},
		},
		map[core.LatencyKey]core.Latency{
			{Src: region, Dst: region}: {Value: units.MustTime(0.05, units.Seconds)},
		},
	)
	if err != nil {
		return nil, err
	}

	return core.NewProblem(sys, map[core.WorkloadKey]core.Workload{
		{App: app, Region: region}: {Values: []int64{1000, 1500, 1800}, TimeUnit: units.Hours},
	})
}

// FourRegionTwoApp returns the two cloud region (Ireland, Hong Kong), two
// edge region (Dublin, Madrid), eight instance class, two app system used
// throughout the allocator test scenarios. maxRespTimeA0 parameterizes
// app a0's deadline, the single axis the scenarios vary to move between a
// generously feasible and an infeasible regime.
func FourRegionTwoApp(maxRespTimeA0 units.Time) (*core.Problem, error) {
	ireland := core.Region{Name: "Ireland"}
	hongKong := core.Region{Name: "Hong Kong"}
	dublin := core.Region{Name: "Dublin"}
	madrid := core.Region{Name: "Madrid"}

	latencies := map[core.LatencyKey]core.Latency{
		{Src: dublin, Dst: ireland}:  {Value: units.MustTime(0.05, units.Seconds)},
		{Src: dublin, Dst: hongKong}: {Value: units.MustTime(0.2, units.Seconds)},
		{Src: dublin, Dst: dublin}:   {Value: units.MustTime(0.04, units.Seconds)},
		{Src: madrid, Dst: ireland}:  {Value: units.MustTime(0.07, units.Seconds)},
		{Src: madrid, Dst: hongKong}: {Value: units.MustTime(0.21, units.Seconds)},
		{Src: madrid, Dst: madrid}:   {Value: units.MustTime(0.045, units.Seconds)},
	}

	icM5XlargeIreland := core.InstanceClass{Name: "m5.xlarge_ireland", Price: units.MustCurrencyPerTime(0.214, units.Hours), Region: ireland}
	icM52xlargeIreland := core.InstanceClass{Name: "m5.2xlarge_ireland", Price: units.MustCurrencyPerTime(0.428, units.Hours), Region: ireland}
	icM5XlargeHongKong := core.InstanceClass{Name: "m5.xlarge_hong_kong", Price: units.MustCurrencyPerTime(0.264, units.Hours), Region: hongKong}
	icM52xlargeHongKong := core.InstanceClass{Name: "m5.2xlarge_hong_kong", Price: units.MustCurrencyPerTime(0.528, units.Hours), Region: hongKong}
	icC3MediumMadrid := core.InstanceClass{Name: "c3.medium_madrid", Price: units.MustCurrencyPerTime(1.65, units.Hours), Region: madrid}
	icC3MediumDublin := core.InstanceClass{Name: "c3.medium_dublin", Price: units.MustCurrencyPerTime(1.65, units.Hours), Region: dublin}
	icM3LargeMadrid := core.InstanceClass{Name: "m3.large_madrid", Price: units.MustCurrencyPerTime(3.4, units.Hours), Region: madrid}
	icM3LargeDublin := core.InstanceClass{Name: "m3.large_dublin", Price: units.MustCurrencyPerTime(3.4, units.Hours), Region: dublin}

	ics := []core.InstanceClass{
		icM5XlargeIreland, icM52xlargeIreland,
		icM5XlargeHongKong, icM52xlargeHongKong,
		icC3MediumMadrid, icC3MediumDublin,
		icM3LargeMadrid, icM3LargeDublin,
	}

	appA0 := core.App{Name: "a0", MaxRespTime: maxRespTimeA0}
	appA1 := core.App{Name: "a1", MaxRespTime: units.MustTime(0.325, units.Seconds)}

	type perfEntry struct {
		app          core.App
		ic           core.InstanceClass
		ratePerHour  float64
		sloSeconds   float64
	}
	perfEntries := []perfEntry{
		{appA0, icM5XlargeIreland, 2000, 0.1},
		{appA0, icM52xlargeIreland, 4000, 0.1},
		{appA0, icM5XlargeHongKong, 2000, 0.1},
		{appA0, icM52xlargeHongKong, 4000, 0.1},
		{appA0, icC3MediumMadrid, 16000, 0.1},
		{appA0, icC3MediumDublin, 16000, 0.1},
		{appA0, icM3LargeMadrid, 32000, 0.1},
		{appA0, icM3LargeDublin, 32000, 0.1},
		{appA1, icM5XlargeIreland, 9000, 0.12},
		{appA1, icM52xlargeIreland, 12000, 0.12},
		{appA1, icM5XlargeHongKong, 9000, 0.12},
		{appA1, icM52xlargeHongKong, 12000, 0.12},
		{appA1, icC3MediumMadrid, 24000, 0.12},
		{appA1, icC3MediumDublin, 24000, 0.12},
		{appA1, icM3LargeMadrid, 48000, 0.12},
		{appA1, icM3LargeDublin, 48000, 0.12},
	}

	perfs := make(map[core.PerfKey]core.Performance, len(perfEntries))
	for _, e := range perfEntries {
		perfs[core.PerfKey{App: e.app, IC: e.ic}] = core.Performance{
			Rate: units.MustRequestsPerTime(e.ratePerHour, units.Hours),
			SLO:  units.MustTime(e.sloSeconds, units.Seconds),
		}
	}

	sys, err := core.NewSystem([]core.App{appA0, appA1}, ics, perfs, latencies)
	if err != nil {
		return nil, err
	}

	workloads := map[core.WorkloadKey]core.Workload{
		{App: appA0, Region: dublin}: {Values: []int64{5000, 10000, 13123, 0, 16000, 15000}, TimeUnit: units.Hours},
		{App: appA0, Region: madrid}: {Values: []int64{6000, 4000, 4000, 0, 15000, 0}, TimeUnit: units.Hours},
		{App: appA1, Region: dublin}: {Values: []int64{4000, 600, 600, 0, 10854, 0}, TimeUnit: units.Hours},
		{App: appA1, Region: madrid}: {Values: []int64{3000, 900, 900, 0, 1002, 0}, TimeUnit: units.Hours},
	}

	return core.NewProblem(sys, workloads)
}
