// Package main implements the edarop command-line tool: solve a problem
// with one of the five allocator strategies, and print problems and
// solutions saved from a previous run.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "edarop",
	Short: "Cost- and response-time-aware request routing for edge/cloud apps",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(printProbCmd)
	rootCmd.AddCommand(printSolCmd)
}
