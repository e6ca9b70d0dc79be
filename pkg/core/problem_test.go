package core

import (
	"errors"
	"testing"

	"github.com/asi-uniovi/edarop-go/pkg/units"
)

func newSingleRegionSystem(t *testing.T) (*System, App, Region, InstanceClass) {
	t.Helper()
	region := Region{Name: "Ireland"}
	app := App{Name: "a0", MaxRespTime: units.MustTime(0.2, units.Seconds)}
	ic := InstanceClass{Name: "m5.xlarge", Price: units.MustCurrencyPerTime(0.1, units.Hours), Region: region}

	sys, err := NewSystem(
		[]App{app},
		[]InstanceClass{ic},
		map[PerfKey]Performance{{App: app, IC: ic}: {Rate: units.MustRequestsPerTime(5, units.Hours), SLO: units.MustTime(0.15, units.Seconds)}},
		map[LatencyKey]Latency{{Src: region, Dst: region}: {Value: units.MustTime(0.05, units.Seconds)}},
	)
	if err != nil {
		t.Fatal(err)
	}
	return sys, app, region, ic
}

func TestNewProblemRejectsEmptyWorkloads(t *testing.T) {
	sys, _, _, _ := newSingleRegionSystem(t)
	_, err := NewProblem(sys, map[WorkloadKey]Workload{})
	if !errors.Is(err, ErrInconsistentWorkloads) {
		t.Fatalf("got %v, want ErrInconsistentWorkloads", err)
	}
}

func TestNewProblemRejectsAllZeroWorkload(t *testing.T) {
	sys, app, region, _ := newSingleRegionSystem(t)
	_, err := NewProblem(sys, map[WorkloadKey]Workload{
		{App: app, Region: region}: {Values: []int64{0, 0}, TimeUnit: units.Hours},
	})
	if !errors.Is(err, ErrEmptyWorkload) {
		t.Fatalf("got %v, want ErrEmptyWorkload", err)
	}
}

func TestNewProblemRejectsMismatchedUnits(t *testing.T) {
	sys, app, region, _ := newSingleRegionSystem(t)
	other := Region{Name: "Madrid"}
	_, err := NewProblem(sys, map[WorkloadKey]Workload{
		{App: app, Region: region}: {Values: []int64{10, 20}, TimeUnit: units.Hours},
		{App: app, Region: other}:  {Values: []int64{10, 20}, TimeUnit: units.Seconds},
	})
	if !errors.Is(err, ErrInconsistentWorkloads) {
		t.Fatalf("got %v, want ErrInconsistentWorkloads", err)
	}
}

func TestNewProblemRejectsMismatchedLength(t *testing.T) {
	sys, app, region, _ := newSingleRegionSystem(t)
	other := Region{Name: "Madrid"}
	_, err := NewProblem(sys, map[WorkloadKey]Workload{
		{App: app, Region: region}: {Values: []int64{10, 20}, TimeUnit: units.Hours},
		{App: app, Region: other}:  {Values: []int64{10, 20, 30}, TimeUnit: units.Hours},
	})
	if !errors.Is(err, ErrInconsistentWorkloads) {
		t.Fatalf("got %v, want ErrInconsistentWorkloads", err)
	}
}

func TestProblemRegionsFirstSeenOrder(t *testing.T) {
	sys, app, icRegion, _ := newSingleRegionSystem(t)
	edgeRegion := Region{Name: "Dublin"}

	p, err := NewProblem(sys, map[WorkloadKey]Workload{
		{App: app, Region: edgeRegion}: {Values: []int64{10, 20}, TimeUnit: units.Hours},
	})
	if err != nil {
		t.Fatal(err)
	}

	regions := p.Regions()
	if len(regions) != 2 || regions[0] != icRegion || regions[1] != edgeRegion {
		t.Fatalf("got %v, want [%v %v]", regions, icRegion, edgeRegion)
	}
}

// TestProblemRegionsWorkloadOnlyOrderIsStable guards against computeRegions
// deriving the order of workload-only regions (regions that never appear as
// an instance-class region) from bare map iteration, which Go does not
// guarantee to be stable across calls over the same map. With two such
// regions, a flaky ordering would make this test fail intermittently if the
// implementation regressed to ranging over Workloads directly.
func TestProblemRegionsWorkloadOnlyOrderIsStable(t *testing.T) {
	sys, app, icRegion, _ := newSingleRegionSystem(t)
	dublin := Region{Name: "Dublin"}
	madrid := Region{Name: "Madrid"}

	workloads := map[WorkloadKey]Workload{
		{App: app, Region: dublin}: {Values: []int64{10, 20}, TimeUnit: units.Hours},
		{App: app, Region: madrid}: {Values: []int64{5, 0}, TimeUnit: units.Hours},
	}

	var first []Region
	for i := 0; i < 20; i++ {
		p, err := NewProblem(sys, workloads)
		if err != nil {
			t.Fatal(err)
		}
		regions := p.Regions()
		if i == 0 {
			first = regions
			continue
		}
		if len(regions) != len(first) {
			t.Fatalf("run %d: got %v, want %v", i, regions, first)
		}
		for j := range regions {
			if regions[j] != first[j] {
				t.Fatalf("run %d: region order is unstable: got %v, want %v", i, regions, first)
			}
		}
	}

	if len(first) != 3 || first[0] != icRegion || first[1] != dublin || first[2] != madrid {
		t.Fatalf("got %v, want [%v Dublin Madrid] (workload-only regions sorted by name)", first, icRegion)
	}
}

func TestProblemWorkloadForAppAtSlotSumsRegions(t *testing.T) {
	sys, app, region, _ := newSingleRegionSystem(t)
	other := Region{Name: "Madrid"}

	p, err := NewProblem(sys, map[WorkloadKey]Workload{
		{App: app, Region: region}: {Values: []int64{10, 20}, TimeUnit: units.Hours},
		{App: app, Region: other}:  {Values: []int64{5, 0}, TimeUnit: units.Hours},
	})
	if err != nil {
		t.Fatal(err)
	}

	if got := p.WorkloadForAppAtSlot(app, 0); got != 15 {
		t.Errorf("slot 0: got %d, want 15", got)
	}
	if got := p.WorkloadForAppAtSlot(app, 1); got != 20 {
		t.Errorf("slot 1: got %d, want 20", got)
	}
}

func TestWithDerivedMaxCostDoesNotMutateOriginal(t *testing.T) {
	sys, app, region, _ := newSingleRegionSystem(t)
	p, err := NewProblem(sys, map[WorkloadKey]Workload{
		{App: app, Region: region}: {Values: []int64{10}, TimeUnit: units.Hours},
	})
	if err != nil {
		t.Fatal(err)
	}

	derived := p.WithDerivedMaxCost(units.MustCurrency(1.5, units.USD))
	if p.MaxCost != nil {
		t.Fatal("original problem should be unaffected")
	}
	if derived.MaxCost == nil || !derived.MaxCost.Equal(units.MustCurrency(1.5, units.USD)) {
		t.Fatalf("got %v, want 1.5 usd", derived.MaxCost)
	}
}
