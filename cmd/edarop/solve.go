package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/asi-uniovi/edarop-go/internal/examplecatalog"
	"github.com/asi-uniovi/edarop-go/internal/logger"
	"github.com/asi-uniovi/edarop-go/pkg/allocator"
	"github.com/asi-uniovi/edarop-go/pkg/core"
	"github.com/asi-uniovi/edarop-go/pkg/serialize"
	"github.com/asi-uniovi/edarop-go/pkg/solver"
	"github.com/asi-uniovi/edarop-go/pkg/solver/lpsolve"
	"github.com/asi-uniovi/edarop-go/pkg/units"
)

var (
	solveMode      string
	solveScenario  string
	solveOut       string
	solveTimeLimit time.Duration
	solveMaxCostA0 float64
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a problem with a given allocator strategy",
	RunE:  runSolve,
}

func init() {
	solveCmd.Flags().StringVar(&solveMode, "mode", "cost", "allocator strategy: cost, resp, cost-resp, resp-cost, greedy")
	solveCmd.Flags().StringVar(&solveScenario, "scenario", "single-region", "built-in scenario: single-region, four-region-two-app")
	solveCmd.Flags().StringVar(&solveOut, "out", "", "write the encoded solution to this path instead of stdout")
	solveCmd.Flags().DurationVar(&solveTimeLimit, "time-limit", 0, "solver time limit (0 means no limit)")
	solveCmd.Flags().Float64Var(&solveMaxCostA0, "max-cost", 100, "cost cap in USD, used by resp and resp-cost")
}

func runSolve(cmd *cobra.Command, args []string) error {
	p, err := buildScenario(solveScenario)
	if err != nil {
		return fmt.Errorf("building scenario: %w", err)
	}
	if solveMode == "resp" || solveMode == "resp-cost" {
		p = p.WithDerivedMaxCost(units.MustCurrency(solveMaxCostA0, units.USD))
	}

	a, err := buildAllocator(solveMode)
	if err != nil {
		return err
	}

	cfg := &solver.Config{TimeLimit: solveTimeLimit}
	logger.Log.Infow("solving", "mode", solveMode, "scenario", solveScenario)

	sol, err := a.Solve(context.Background(), p, cfg)
	if err != nil {
		return fmt.Errorf("solving: %w", err)
	}
	logger.Log.Infow("solved", "status", sol.SolvingStats.Status.String(), "solving_time", sol.SolvingStats.SolvingTime)

	if solveOut == "" {
		return serialize.EncodeSolution(os.Stdout, sol)
	}
	f, err := os.Create(solveOut)
	if err != nil {
		return err
	}
	defer f.Close()
	return serialize.EncodeSolution(f, sol)
}

func buildScenario(name string) (*core.Problem, error) {
	switch name {
	case "single-region":
		return examplecatalog.SingleRegion()
	case "four-region-two-app":
		return examplecatalog.FourRegionTwoApp(units.MustTime(0.2, units.Seconds))
	default:
		return nil, fmt.Errorf("unknown scenario %q", name)
	}
}

func buildAllocator(mode string) (allocator.Allocator, error) {
	backend := lpsolve.NewBackend()
	switch mode {
	case "cost":
		return allocator.NewCost(backend), nil
	case "resp":
		return allocator.NewResponse(backend), nil
	case "cost-resp":
		return allocator.NewCostResponse(backend), nil
	case "resp-cost":
		return allocator.NewResponseCost(backend), nil
	case "greedy":
		return allocator.NewGreedy(), nil
	default:
		return nil, fmt.Errorf("unknown allocator mode %q", mode)
	}
}
