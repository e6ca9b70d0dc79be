// Package allocator implements the five routing/VM-sizing strategies: Cost,
// Response, Cost-then-Response, Response-then-Cost, and a greedy heuristic
// that does not call a MILP backend at all.
package allocator

import (
	"context"
	"errors"

	"github.com/asi-uniovi/edarop-go/pkg/core"
	"github.com/asi-uniovi/edarop-go/pkg/solver"
)

// ErrMissingBound is returned by strategies that require a bound the
// Problem does not carry: Response needs MaxCost, and the second stage of
// Cost-then-Response/Response-then-Cost derive their own bound internally
// and so never hit this, but a caller invoking Response, or
// Response-then-Cost (whose first stage is Response), on a Problem with no
// MaxCost will.
var ErrMissingBound = errors.New("missing required bound")

// ErrNoViableInstance is returned by Greedy when no instance class can serve
// an app from a source region: none has both a Performance entry for the app
// and latency data from the region to its own region.
var ErrNoViableInstance = errors.New("no viable instance class")

// Allocator solves a Problem and returns a Solution.
type Allocator interface {
	Solve(ctx context.Context, p *core.Problem, cfg *solver.Config) (*core.Solution, error)
}
