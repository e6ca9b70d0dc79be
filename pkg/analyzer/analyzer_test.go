package analyzer

import (
	"errors"
	"testing"

	"github.com/asi-uniovi/edarop-go/pkg/core"
	"github.com/asi-uniovi/edarop-go/pkg/units"
)

func buildSolution(t *testing.T, status core.Status) (*core.Solution, core.App, core.Region, core.InstanceClass) {
	t.Helper()
	region := core.Region{Name: "Ireland"}
	app := core.App{Name: "a0", MaxRespTime: units.MustTime(0.2, units.Seconds)}
	ic := core.InstanceClass{Name: "m5.xlarge", Price: units.MustCurrencyPerTime(0.1, units.Hours), Region: region}

	sys, err := core.NewSystem(
		[]core.App{app},
		[]core.InstanceClass{ic},
		map[core.PerfKey]core.Performance{{App: app, IC: ic}: {Rate: units.MustRequestsPerTime(100, units.Hours), SLO: units.MustTime(0.15, units.Seconds)}},
		map[core.LatencyKey]core.Latency{{Src: region, Dst: region}: {Value: units.MustTime(0.05, units.Seconds)}},
	)
	if err != nil {
		t.Fatal(err)
	}

	p, err := core.NewProblem(sys, map[core.WorkloadKey]core.Workload{
		{App: app, Region: region}: {Values: []int64{100, 200}, TimeUnit: units.Hours},
	})
	if err != nil {
		t.Fatal(err)
	}

	sol := &core.Solution{
		Problem: p,
		Alloc: core.Allocation{Slots: []core.TimeSlotAllocation{
			core.NewTimeSlotAllocation(
				map[core.ICKey]int64{{App: app, IC: ic}: 1},
				map[core.ReqKey]int64{{App: app, Src: region, IC: ic}: 100},
			),
			core.NewTimeSlotAllocation(
				map[core.ICKey]int64{{App: app, IC: ic}: 2},
				map[core.ReqKey]int64{{App: app, Src: region, IC: ic}: 150},
			),
		}},
		SolvingStats: core.SolvingStats{Status: status},
	}
	return sol, app, region, ic
}

func TestCostSumsVMsAtSlotPrice(t *testing.T) {
	sol, _, _, _ := buildSolution(t, core.StatusOptimal)
	cost, err := New(sol).Cost()
	if err != nil {
		t.Fatal(err)
	}
	// slot price = 0.1 usd/h * 1h = 0.1 usd; VMs rented = 1 + 2 = 3
	want := units.MustCurrency(0.3, units.USD)
	if !cost.Equal(want) {
		t.Errorf("got %v, want %v", cost, want)
	}
}

func TestCostRejectsInfeasibleSolution(t *testing.T) {
	sol, _, _, _ := buildSolution(t, core.StatusInfeasible)
	_, err := New(sol).Cost()
	if !errors.Is(err, ErrNotFeasible) {
		t.Fatalf("got %v, want ErrNotFeasible", err)
	}
}

func TestAvgRespTimeIsRequestWeighted(t *testing.T) {
	sol, _, _, _ := buildSolution(t, core.StatusOptimal)
	avg, err := New(sol).AvgRespTime()
	if err != nil {
		t.Fatal(err)
	}
	// resp time is latency(0.05) + slo(0.15) = 0.2s for every request,
	// regardless of weighting, so the weighted mean is exactly 0.2s.
	want := units.MustTime(0.2, units.Seconds)
	if !avg.Equal(want) {
		t.Errorf("got %v, want %v", avg, want)
	}
}

func TestAvgRespTimeZeroWhenNoRequestsRouted(t *testing.T) {
	sol, app, region, ic := buildSolution(t, core.StatusOptimal)
	sol.Alloc.Slots[0] = core.NewTimeSlotAllocation(map[core.ICKey]int64{{App: app, IC: ic}: 1}, nil)
	sol.Alloc.Slots[1] = core.NewTimeSlotAllocation(map[core.ICKey]int64{{App: app, IC: ic}: 2}, nil)
	_ = region

	avg, err := New(sol).AvgRespTime()
	if err != nil {
		t.Fatal(err)
	}
	if !avg.Equal(units.MustTime(0, units.Seconds)) {
		t.Errorf("got %v, want 0s", avg)
	}
}

func TestMissedReqsPerAppCountsShortfall(t *testing.T) {
	sol, app, _, _ := buildSolution(t, core.StatusOptimal)
	// demanded 100+200=300, routed 100+150=250 -> missed 50
	missed, err := New(sol).MissedReqsPerApp()
	if err != nil {
		t.Fatal(err)
	}
	if got := missed[app]; got != 50 {
		t.Errorf("got %d missed, want 50", got)
	}
}

func TestMissRatePerAppIsZeroWhenEveryRouteMeetsDeadline(t *testing.T) {
	sol, app, _, _ := buildSolution(t, core.StatusOptimal)
	rates, err := New(sol).MissRatePerApp()
	if err != nil {
		t.Fatal(err)
	}
	if got := rates[app]; got != 0.0 {
		t.Errorf("got %v, want 0.0", got)
	}
}
