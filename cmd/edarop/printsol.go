package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asi-uniovi/edarop-go/pkg/analyzer"
	"github.com/asi-uniovi/edarop-go/pkg/render"
	"github.com/asi-uniovi/edarop-go/pkg/serialize"
)

var (
	printSolIn      string
	printSolSummary bool
)

var printSolCmd = &cobra.Command{
	Use:   "print-sol",
	Short: "Print a solution previously saved by solve --out",
	RunE:  runPrintSol,
}

func init() {
	printSolCmd.Flags().StringVar(&printSolIn, "in", "", "path to a solution file (defaults to stdin)")
	printSolCmd.Flags().BoolVar(&printSolSummary, "summary", false, "print only the one-line cost/response-time/miss-rate summary")
}

func runPrintSol(cmd *cobra.Command, args []string) error {
	r := os.Stdin
	if printSolIn != "" {
		f, err := os.Open(printSolIn)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	sol, err := serialize.DecodeSolution(r)
	if err != nil {
		return fmt.Errorf("decoding solution: %w", err)
	}

	if !printSolSummary {
		return render.PrintSolution(os.Stdout, sol)
	}

	an := analyzer.New(sol)
	cost, err := an.Cost()
	if err != nil {
		return fmt.Errorf("computing cost: %w", err)
	}
	avgRespTime, err := an.AvgRespTime()
	if err != nil {
		return fmt.Errorf("computing average response time: %w", err)
	}
	missRate, err := an.DeadlineMissRate()
	if err != nil {
		return fmt.Errorf("computing deadline miss rate: %w", err)
	}
	return render.PrintSummary(os.Stdout, render.Summary{
		Status:          sol.SolvingStats.Status,
		Cost:            cost,
		AvgRespTime:     avgRespTime,
		DeadlineMissPct: missRate,
	})
}
