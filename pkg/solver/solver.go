// Package solver defines the backend-agnostic contract allocators use to
// hand a milp.Model to a concrete MILP solver and get variable values back.
package solver

import (
	"errors"
	"fmt"
	"time"

	"github.com/asi-uniovi/edarop-go/pkg/core"
	"github.com/asi-uniovi/edarop-go/pkg/milp"
)

// ErrSolverError is returned when the backend itself fails (a crash, an
// unsupported model feature, a license or resource problem), as opposed to
// the model simply being infeasible.
var ErrSolverError = errors.New("solver error")

// ErrInvalidSolverValue is returned when a backend reports a variable value
// that is negative beyond the zero-rounding epsilon, which should not
// happen for any variable in this model (every one has a zero lower bound).
var ErrInvalidSolverValue = errors.New("invalid solver value")

// zeroEpsilon absorbs the small negative noise MILP backends commonly
// report for variables that are mathematically zero.
const zeroEpsilon = 1e-7

// Config carries backend tuning knobs. Backends that do not support a given
// knob silently ignore it.
type Config struct {
	TimeLimit time.Duration
	MIPGap    float64
	Threads   int
	Msg       bool
	LogPath   string
}

// Result is a solved model: status, the objective value, and every
// variable's value indexed by milp.Var.ID.
type Result struct {
	Status      core.Status
	Objective   float64
	VarValues   []float64
	LowerBound  *float64
	SolvingTime time.Duration
}

// Backend solves a milp.Model and reports variable values back by ID.
type Backend interface {
	Solve(m *milp.Model, cfg Config) (Result, error)
}

// RoundVarValue cleans up a raw backend value for a variable known to have
// a zero lower bound: negligible negative noise collapses to zero, anything
// further negative is reported as ErrInvalidSolverValue.
func RoundVarValue(raw float64) (int64, error) {
	if raw < -zeroEpsilon {
		return 0, fmt.Errorf("%w: %g", ErrInvalidSolverValue, raw)
	}
	if raw < 0 {
		raw = 0
	}
	return int64(raw + 0.5), nil
}
