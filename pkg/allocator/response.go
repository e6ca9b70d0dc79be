package allocator

import (
	"context"
	"fmt"
	"time"

	"github.com/asi-uniovi/edarop-go/internal/logger"
	"github.com/asi-uniovi/edarop-go/pkg/core"
	"github.com/asi-uniovi/edarop-go/pkg/milp"
	"github.com/asi-uniovi/edarop-go/pkg/solver"
)

// Response minimizes the average response time across all requests,
// subject to a total cost cap. Unlike Cost, it does not enforce a hard
// per-request deadline: minimizing the average naturally favors low-latency
// routes, but a Problem with a generous cost cap may still route some
// requests over a slower path than their app's MaxRespTime would allow.
type Response struct {
	Backend solver.Backend
}

var _ Allocator = (*Response)(nil)

// NewResponse returns a Response allocator backed by the given solver.Backend.
func NewResponse(backend solver.Backend) *Response {
	return &Response{Backend: backend}
}

func (a *Response) Solve(ctx context.Context, p *core.Problem, cfg *solver.Config) (*core.Solution, error) {
	sol, _, err := a.solve(ctx, p, cfg)
	return sol, err
}

// solve additionally returns the solved objective value (average response
// time, in seconds), which Response-then-Cost uses to derive the
// second-stage response-time cap.
func (a *Response) solve(ctx context.Context, p *core.Problem, cfg *solver.Config) (*core.Solution, float64, error) {
	if p.MaxCost == nil {
		return nil, 0, fmt.Errorf("%w: response allocator requires Problem.MaxCost", ErrMissingBound)
	}
	if cfg == nil {
		cfg = &solver.Config{}
	}

	logger.Log.Infow("starting response solve", "slots", p.WorkloadLen())

	start := time.Now()
	b, err := milp.NewBuilder(p)
	if err != nil {
		return nil, 0, err
	}
	b.AddCostCapConstraint(*p.MaxCost)

	totalReqs := float64(p.TotalRequests())
	terms := b.ResponseTimeTerms()
	for i := range terms {
		terms[i].Coef /= totalReqs
	}
	b.Model.SetObjective(terms, 0)
	creationTime := time.Since(start)

	result, err := a.Backend.Solve(b.Model, *cfg)
	if err != nil {
		return nil, 0, err
	}

	sol, err := decodeSolution(p, b, result, creationTime)
	if err != nil {
		return nil, 0, err
	}
	logger.Log.Infow("response solve finished", "status", result.Status, "objective", result.Objective)
	return sol, result.Objective, nil
}
