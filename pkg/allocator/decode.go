package allocator

import (
	"time"

	"github.com/asi-uniovi/edarop-go/pkg/core"
	"github.com/asi-uniovi/edarop-go/pkg/milp"
	"github.com/asi-uniovi/edarop-go/pkg/solver"
)

// decodeSolution reads a solved model's variable values back into a
// core.Solution, one TimeSlotAllocation per planning-horizon slot.
func decodeSolution(p *core.Problem, b *milp.Builder, result solver.Result, creationTime time.Duration) (*core.Solution, error) {
	slots := make([]core.TimeSlotAllocation, p.WorkloadLen())
	for k := 0; k < p.WorkloadLen(); k++ {
		ics := make(map[core.ICKey]int64)
		reqs := make(map[core.ReqKey]int64)
		slots[k] = core.NewTimeSlotAllocation(ics, reqs)
	}

	if result.Status.IsFeasible() {
		for id, info := range b.XInfo {
			v, err := solver.RoundVarValue(result.VarValues[id])
			if err != nil {
				return nil, err
			}
			if v == 0 {
				continue
			}
			slots[info.TimeSlot].ICs[core.ICKey{App: info.App, IC: info.IC}] = v
		}
		for id, info := range b.YInfo {
			v, err := solver.RoundVarValue(result.VarValues[id])
			if err != nil {
				return nil, err
			}
			if v == 0 {
				continue
			}
			slots[info.TimeSlot].Reqs[core.ReqKey{App: info.App, Src: info.Region, IC: info.IC}] = v
		}
	}

	var lowerBound *float64
	if result.LowerBound != nil {
		lb := *result.LowerBound
		lowerBound = &lb
	}

	return &core.Solution{
		Problem: p,
		Alloc:   core.Allocation{Slots: slots},
		SolvingStats: core.SolvingStats{
			LowerBound:   lowerBound,
			CreationTime: creationTime,
			SolvingTime:  result.SolvingTime,
			Status:       result.Status,
		},
	}, nil
}
