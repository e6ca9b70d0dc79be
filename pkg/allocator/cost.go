package allocator

import (
	"context"
	"time"

	"github.com/asi-uniovi/edarop-go/internal/logger"
	"github.com/asi-uniovi/edarop-go/pkg/core"
	"github.com/asi-uniovi/edarop-go/pkg/milp"
	"github.com/asi-uniovi/edarop-go/pkg/solver"
)

// Cost minimizes total VM rental cost, subject to every request meeting its
// app's response-time deadline.
type Cost struct {
	Backend solver.Backend
}

var _ Allocator = (*Cost)(nil)

// NewCost returns a Cost allocator backed by the given solver.Backend.
func NewCost(backend solver.Backend) *Cost {
	return &Cost{Backend: backend}
}

func (a *Cost) Solve(ctx context.Context, p *core.Problem, cfg *solver.Config) (*core.Solution, error) {
	sol, _, err := a.solve(ctx, p, cfg)
	return sol, err
}

// solve additionally returns the solved objective value (total cost, in
// USD), which Cost-then-Response uses to derive the second-stage cost cap
// without re-deriving it from the decoded allocation.
func (a *Cost) solve(ctx context.Context, p *core.Problem, cfg *solver.Config) (*core.Solution, float64, error) {
	if cfg == nil {
		cfg = &solver.Config{}
	}

	logger.Log.Infow("starting cost solve", "slots", p.WorkloadLen())

	start := time.Now()
	b, err := milp.NewBuilder(p)
	if err != nil {
		return nil, 0, err
	}
	b.AddRoutingIndicators()
	if p.MaxAvgRespTime != nil {
		b.AddAvgRespTimeCapConstraint(*p.MaxAvgRespTime, p.TotalRequests())
	}
	b.Model.SetObjective(b.CostTerms(), 0)
	creationTime := time.Since(start)

	result, err := a.Backend.Solve(b.Model, *cfg)
	if err != nil {
		return nil, 0, err
	}

	sol, err := decodeSolution(p, b, result, creationTime)
	if err != nil {
		return nil, 0, err
	}
	logger.Log.Infow("cost solve finished", "status", result.Status, "objective", result.Objective)
	return sol, result.Objective, nil
}
