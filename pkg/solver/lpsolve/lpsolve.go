// Package lpsolve adapts github.com/draffensperger/golp, a cgo binding over
// the lp_solve MILP solver, to the solver.Backend contract.
package lpsolve

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/asi-uniovi/edarop-go/pkg/core"
	"github.com/asi-uniovi/edarop-go/pkg/milp"
	"github.com/asi-uniovi/edarop-go/pkg/solver"
	golp "github.com/draffensperger/golp"
)

// Backend solves a milp.Model with lp_solve.
type Backend struct{}

// NewBackend returns an lp_solve-backed solver.Backend.
func NewBackend() *Backend { return &Backend{} }

var _ solver.Backend = (*Backend)(nil)

// Solve builds an lp_solve problem from m column by column, applies cfg's
// tuning knobs, solves, and decodes the result back into solver.Result.
func (b *Backend) Solve(m *milp.Model, cfg solver.Config) (solver.Result, error) {
	lp := golp.NewLP(0, m.NumVars())

	for col, v := range m.Vars {
		lp.SetColName(col, v.Name)
		switch v.Kind {
		case milp.Binary:
			lp.SetInt(col, true)
			lp.SetBounds(col, 0, 1)
		case milp.Integer:
			lp.SetInt(col, true)
			lp.SetBounds(col, v.LowBound, upperBoundOf(v))
		default:
			lp.SetBounds(col, v.LowBound, upperBoundOf(v))
		}
	}

	for _, c := range m.Constraints {
		row := make([]float64, m.NumVars())
		for _, t := range c.Terms {
			row[t.VarID] += t.Coef
		}
		lp.AddConstraint(row, relationToConstrType(c.Relation), c.RHS)
	}

	objRow := make([]float64, m.NumVars())
	for _, t := range m.Objective.Terms {
		objRow[t.VarID] += t.Coef
	}
	lp.SetObjFn(objRow)
	lp.SetMinimize()

	if cfg.TimeLimit > 0 {
		lp.SetTimeout(cfg.TimeLimit.Seconds())
	}
	if cfg.MIPGap > 0 {
		lp.SetMipGap(false, cfg.MIPGap)
	}
	// lp_solve's open-source build has no per-solve thread-count knob the
	// way a commercial solver does; Threads is accepted by Config but has
	// no effect on this backend, per Config's "backends that do not
	// support a given knob silently ignore it" contract.
	_ = cfg.Threads

	if cfg.Msg {
		lp.SetVerboseLevel(golp.DETAILED)
		if cfg.LogPath != "" {
			lp.SetOutputFile(cfg.LogPath)
		}
	} else {
		lp.SetVerboseLevel(golp.NEUTRAL)
	}

	start := time.Now()
	solType := lp.Solve()
	elapsed := time.Since(start)

	status, err := statusFromSolutionType(solType)
	if err != nil {
		return solver.Result{}, err
	}

	values := lp.Variables()
	objective := lp.Objective() + m.Objective.Offset

	var lowerBound *float64
	switch {
	case status == core.StatusOptimal:
		lb := objective
		lowerBound = &lb
	case cfg.Msg && cfg.LogPath != "":
		// lp_solve does not expose a programmatic lower bound accessor
		// for SUBOPTIMAL/INTEGER_FEASIBLE solutions in golp; the bound it
		// printed to its verbose log is the only place it survives, so it
		// is parsed back out of the log file this same call just wrote.
		if lb, ok := parseLowerBoundFromLog(cfg.LogPath); ok {
			lowerBound = &lb
		}
	}

	return solver.Result{
		Status:      status,
		Objective:   objective,
		VarValues:   values,
		LowerBound:  lowerBound,
		SolvingTime: elapsed,
	}, nil
}

// parseLowerBoundFromLog scans an lp_solve verbose log for a line of the
// form "Lower bound: <value>", lp_solve's own wording for the best proven
// bound on a branch-and-bound run that did not close the gap to optimality.
func parseLowerBoundFromLog(path string) (float64, bool) {
	f, err := os.Open(path)
	if err != nil {
		return 0, false
	}
	defer f.Close()

	var lowerBound float64
	found := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		rest, ok := strings.CutPrefix(strings.TrimSpace(scanner.Text()), "Lower bound:")
		if !ok {
			continue
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(rest), 64); err == nil {
			lowerBound = v
			found = true
		}
	}
	return lowerBound, found
}

func upperBoundOf(v milp.Var) float64 {
	if v.HasUpBound {
		return v.UpBound
	}
	return math.Inf(1)
}

func relationToConstrType(r milp.Relation) golp.ConstrType {
	switch r {
	case milp.LE:
		return golp.LE
	case milp.GE:
		return golp.GE
	default:
		return golp.EQ
	}
}

func statusFromSolutionType(s golp.SolutionType) (core.Status, error) {
	switch s {
	case golp.OPTIMAL, golp.SUBOPTIMAL:
		if s == golp.SUBOPTIMAL {
			return core.StatusIntegerFeasible, nil
		}
		return core.StatusOptimal, nil
	case golp.INFEASIBLE:
		return core.StatusInfeasible, nil
	case golp.UNBOUNDED:
		return core.StatusInfeasible, nil
	case golp.DEGENERATE, golp.NUMFAILURE:
		return core.StatusSolverError, fmt.Errorf("%w: lp_solve reported solution type %d", solver.ErrSolverError, s)
	default:
		return core.StatusUnknown, nil
	}
}
