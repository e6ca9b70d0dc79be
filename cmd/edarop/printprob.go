package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asi-uniovi/edarop-go/pkg/render"
	"github.com/asi-uniovi/edarop-go/pkg/serialize"
)

var printProbIn string

var printProbCmd = &cobra.Command{
	Use:   "print-prob",
	Short: "Print the problem embedded in a solution previously saved by solve --out",
	RunE:  runPrintProb,
}

func init() {
	printProbCmd.Flags().StringVar(&printProbIn, "in", "", "path to a solution file (defaults to stdin)")
}

func runPrintProb(cmd *cobra.Command, args []string) error {
	r := os.Stdin
	if printProbIn != "" {
		f, err := os.Open(printProbIn)
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
	return render.PrintProblem(os.Stdout, sol.Problem)
}
