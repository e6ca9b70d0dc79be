package serialize

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asi-uniovi/edarop-go/pkg/core"
	"github.com/asi-uniovi/edarop-go/pkg/units"
)

func testProblem(t *testing.T) *core.Problem {
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
	require.NoError(t, err)

	p, err := core.NewProblem(sys, map[core.WorkloadKey]core.Workload{
		{App: app, Region: region}: {Values: []int64{100, 200}, TimeUnit: units.Hours},
	}, core.WithMaxCost(units.MustCurrency(5, units.USD)))
	require.NoError(t, err)
	return p
}

func TestProblemRoundTripPreservesDerivedFields(t *testing.T) {
	p := testProblem(t)

	var buf bytes.Buffer
	require.NoError(t, EncodeProblem(&buf, p))

	got, err := DecodeProblem(&buf)
	require.NoError(t, err)

	assert.Equal(t, p.WorkloadLen(), got.WorkloadLen())
	assert.Equal(t, p.TimeSlotUnit(), got.TimeSlotUnit())
	assert.Equal(t, len(p.Regions()), len(got.Regions()))
	require.NotNil(t, got.MaxCost)
	assert.True(t, got.MaxCost.Equal(*p.MaxCost))
}

func TestProblemRoundTripPreservesUnitMagnitudes(t *testing.T) {
	p := testProblem(t)

	var buf bytes.Buffer
	require.NoError(t, EncodeProblem(&buf, p))
	got, err := DecodeProblem(&buf)
	require.NoError(t, err)

	app := p.System.Apps[0]
	ic := p.System.ICs[0]
	assert.True(t, got.System.Apps[0].MaxRespTime.Equal(app.MaxRespTime))
	assert.True(t, got.System.ICs[0].Price.Equal(ic.Price))
}

func TestDecodeProblemRejectsUnknownVersion(t *testing.T) {
	_, err := DecodeProblem(bytes.NewReader([]byte{0xFF, 0x00}))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestSolutionRoundTrip(t *testing.T) {
	p := testProblem(t)
	app := p.System.Apps[0]
	ic := p.System.ICs[0]
	region := p.System.ICs[0].Region

	sol := &core.Solution{
		Problem: p,
		Alloc: core.Allocation{Slots: []core.TimeSlotAllocation{
			core.NewTimeSlotAllocation(
				map[core.ICKey]int64{{App: app, IC: ic}: 2},
				map[core.ReqKey]int64{{App: app, Src: region, IC: ic}: 100},
			),
		}},
		SolvingStats: core.SolvingStats{Status: core.StatusOptimal},
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeSolution(&buf, sol))
	got, err := DecodeSolution(&buf)
	require.NoError(t, err)

	assert.Equal(t, core.StatusOptimal, got.SolvingStats.Status)
	assert.Equal(t, int64(2), got.Alloc.Slots[0].ICs[core.ICKey{App: app, IC: ic}])
}
