package allocator

import (
	"context"

	"github.com/asi-uniovi/edarop-go/pkg/core"
	"github.com/asi-uniovi/edarop-go/pkg/solver"
	"github.com/asi-uniovi/edarop-go/pkg/units"
)

// CostResponse is the two-stage Cost-then-Response strategy: it first
// solves Cost to find the minimum possible cost c*, then solves Response on
// a derived Problem capped at c*, so the second stage picks the
// lowest-average-response-time allocation among every allocation that
// already achieves the best cost.
type CostResponse struct {
	Cost     *Cost
	Response *Response
}

var _ Allocator = (*CostResponse)(nil)

// NewCostResponse returns a CostResponse allocator backed by the given
// solver.Backend for both stages.
func NewCostResponse(backend solver.Backend) *CostResponse {
	return &CostResponse{Cost: NewCost(backend), Response: NewResponse(backend)}
}

func (a *CostResponse) Solve(ctx context.Context, p *core.Problem, cfg *solver.Config) (*core.Solution, error) {
	firstStage, costStar, err := a.Cost.solve(ctx, p, cfg)
	if err != nil {
		return nil, err
	}

	// A small upward slack absorbs floating-point noise in the first
	// stage's reported objective, so the second stage's cost-cap
	// constraint does not reject the very allocation that produced it.
	derived := p.WithDerivedMaxCost(units.MustCurrency(costStar+1e-6, units.USD))
	sol, _, err := a.Response.solve(ctx, derived, cfg)
	if err != nil {
		return nil, err
	}
	sol.Problem = p
	// Combined stats are the sum of both creation and solving times;
	// every other field comes from the second (Response) run.
	sol.SolvingStats.CreationTime += firstStage.SolvingStats.CreationTime
	sol.SolvingStats.SolvingTime += firstStage.SolvingStats.SolvingTime
	return sol, nil
}
