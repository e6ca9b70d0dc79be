package core

import (
	"errors"
	"testing"

	"github.com/asi-uniovi/edarop-go/pkg/units"
)

func TestNewSystemDuplicateAppName(t *testing.T) {
	a1 := App{Name: "a0", MaxRespTime: units.MustTime(1, units.Seconds)}
	a2 := App{Name: "a0", MaxRespTime: units.MustTime(2, units.Seconds)}

	_, err := NewSystem([]App{a1, a2}, nil, nil, nil)
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("got %v, want ErrDuplicateName", err)
	}
}

func TestNewSystemDuplicateICName(t *testing.T) {
	region := Region{Name: "Ireland"}
	ic1 := InstanceClass{Name: "m5.xlarge", Price: units.MustCurrencyPerTime(0.1, units.Hours), Region: region}
	ic2 := InstanceClass{Name: "m5.xlarge", Price: units.MustCurrencyPerTime(0.2, units.Hours), Region: region}

	_, err := NewSystem(nil, []InstanceClass{ic1, ic2}, nil, nil)
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("got %v, want ErrDuplicateName", err)
	}
}

func TestSystemRespTime(t *testing.T) {
	region := Region{Name: "Ireland"}
	app := App{Name: "a0", MaxRespTime: units.MustTime(0.2, units.Seconds)}
	ic := InstanceClass{Name: "m5.xlarge", Price: units.MustCurrencyPerTime(0.1, units.Hours), Region: region}

	sys, err := NewSystem(
		[]App{app},
		[]InstanceClass{ic},
		map[PerfKey]Performance{
			{App: app, IC: ic}: {Rate: units.MustRequestsPerTime(5, units.Hours), SLO: units.MustTime(0.15, units.Seconds)},
		},
		map[LatencyKey]Latency{
			{Src: region, Dst: region}: {Value: units.MustTime(0.05, units.Seconds)},
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	rt, ok := sys.RespTime(app, region, ic)
	if !ok {
		t.Fatal("expected RespTime to resolve")
	}
	if !rt.Equal(units.MustTime(0.2, units.Seconds)) {
		t.Errorf("got %v, want 0.2s", rt)
	}
}

func TestSystemRespTimeMissingLatency(t *testing.T) {
	region := Region{Name: "Ireland"}
	other := Region{Name: "Madrid"}
	app := App{Name: "a0", MaxRespTime: units.MustTime(0.2, units.Seconds)}
	ic := InstanceClass{Name: "m5.xlarge", Price: units.MustCurrencyPerTime(0.1, units.Hours), Region: region}

	sys, err := NewSystem(
		[]App{app},
		[]InstanceClass{ic},
		map[PerfKey]Performance{{App: app, IC: ic}: {Rate: units.MustRequestsPerTime(5, units.Hours), SLO: units.MustTime(0.15, units.Seconds)}},
		nil,
	)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := sys.RespTime(app, other, ic); ok {
		t.Fatal("expected RespTime to fail without latency data")
	}
}
