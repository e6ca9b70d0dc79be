package allocator

import (
	"context"

	"github.com/asi-uniovi/edarop-go/pkg/core"
	"github.com/asi-uniovi/edarop-go/pkg/solver"
	"github.com/asi-uniovi/edarop-go/pkg/units"
)

// ResponseCost is the two-stage Response-then-Cost strategy: it first
// solves Response (which itself requires Problem.MaxCost) to find the
// minimum possible average response time r*, then solves Cost on a derived
// Problem capped at r*, so the second stage picks the cheapest allocation
// among every allocation that already achieves the best average response
// time.
type ResponseCost struct {
	Response *Response
	Cost     *Cost
}

var _ Allocator = (*ResponseCost)(nil)

// NewResponseCost returns a ResponseCost allocator backed by the given
// solver.Backend for both stages.
func NewResponseCost(backend solver.Backend) *ResponseCost {
	return &ResponseCost{Response: NewResponse(backend), Cost: NewCost(backend)}
}

func (a *ResponseCost) Solve(ctx context.Context, p *core.Problem, cfg *solver.Config) (*core.Solution, error) {
	firstStage, respStar, err := a.Response.solve(ctx, p, cfg)
	if err != nil {
		return nil, err
	}

	derived := p.WithDerivedMaxAvgRespTime(units.MustTime(respStar+1e-9, units.Seconds))
	sol, _, err := a.Cost.solve(ctx, derived, cfg)
	if err != nil {
		return nil, err
	}
	sol.Problem = p
	// Combined stats are the sum of both creation and solving times;
	// every other field comes from the second (Cost) run.
	sol.SolvingStats.CreationTime += firstStage.SolvingStats.CreationTime
	sol.SolvingStats.SolvingTime += firstStage.SolvingStats.SolvingTime
	return sol, nil
}
