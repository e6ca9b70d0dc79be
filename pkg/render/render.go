// Package render prints Problems and Solutions as aligned text tables, the
// terminal-output analogue of the rich-based tables the implementation this
// package is ported from prints from its CLI.
package render

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/asi-uniovi/edarop-go/pkg/core"
	"github.com/asi-uniovi/edarop-go/pkg/units"
)

func newWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// PrintProblem writes a human-readable summary of p's instance classes,
// apps, and inter-region latencies.
func PrintProblem(w io.Writer, p *core.Problem) error {
	if err := printInstanceClasses(w, p.System); err != nil {
		return err
	}
	if err := printApps(w, p.System); err != nil {
		return err
	}
	return printLatencies(w, p.System)
}

func printInstanceClasses(w io.Writer, sys *core.System) error {
	tw := newWriter(w)
	fmt.Fprintln(tw, "Instance classes")
	fmt.Fprintln(tw, "NAME\tREGION\tPRICE")
	ics := append([]core.InstanceClass(nil), sys.ICs...)
	sort.Slice(ics, func(i, j int) bool { return ics[i].Name < ics[j].Name })
	for _, ic := range ics {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", ic.Name, ic.Region.Name, ic.Price)
	}
	fmt.Fprintln(tw)
	return tw.Flush()
}

func printApps(w io.Writer, sys *core.System) error {
	tw := newWriter(w)
	fmt.Fprintln(tw, "Apps")
	fmt.Fprintln(tw, "NAME\tMAX RESP TIME")
	apps := append([]core.App(nil), sys.Apps...)
	sort.Slice(apps, func(i, j int) bool { return apps[i].Name < apps[j].Name })
	for _, a := range apps {
		fmt.Fprintf(tw, "%s\t%s\n", a.Name, a.MaxRespTime)
	}
	fmt.Fprintln(tw)
	return tw.Flush()
}

func printLatencies(w io.Writer, sys *core.System) error {
	tw := newWriter(w)
	fmt.Fprintln(tw, "Latencies")
	fmt.Fprintln(tw, "SOURCE\tDESTINATION\tLATENCY")
	keys := make([]core.LatencyKey, 0, len(sys.Latencies))
	for k := range sys.Latencies {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Src.Name != keys[j].Src.Name {
			return keys[i].Src.Name < keys[j].Src.Name
		}
		return keys[i].Dst.Name < keys[j].Dst.Name
	})
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", k.Src.Name, k.Dst.Name, sys.Latencies[k].Value)
	}
	return tw.Flush()
}

// PrintSolution writes a per-app, per-time-slot breakdown of sol's
// allocation: how many VMs of each instance class were rented, and how
// many requests were routed from each source region.
func PrintSolution(w io.Writer, sol *core.Solution) error {
	tw := newWriter(w)
	fmt.Fprintf(tw, "Status: %s\n", sol.SolvingStats.Status)
	fmt.Fprintf(tw, "Creation time: %s\tSolving time: %s\n", sol.SolvingStats.CreationTime, sol.SolvingStats.SolvingTime)
	if sol.SolvingStats.LowerBound != nil {
		fmt.Fprintf(tw, "Lower bound: %g\n", *sol.SolvingStats.LowerBound)
	}
	fmt.Fprintln(tw)
	if err := tw.Flush(); err != nil {
		return err
	}
	if !sol.SolvingStats.Status.IsFeasible() {
		return nil
	}

	for _, app := range sol.Problem.System.Apps {
		if err := printAppTable(w, sol, app); err != nil {
			return err
		}
	}
	return nil
}

func printAppTable(w io.Writer, sol *core.Solution, app core.App) error {
	tw := newWriter(w)
	fmt.Fprintf(tw, "App %s\n", app.Name)
	fmt.Fprintln(tw, "SLOT\tINSTANCE CLASS\tVMS\tSOURCE\tREQUESTS")

	for k, slot := range sol.Alloc.Slots {
		icKeys := make([]core.ICKey, 0)
		for key := range slot.ICs {
			if key.App == app {
				icKeys = append(icKeys, key)
			}
		}
		sort.Slice(icKeys, func(i, j int) bool { return icKeys[i].IC.Name < icKeys[j].IC.Name })

		for _, key := range icKeys {
			fmt.Fprintf(tw, "%d\t%s\t%d\t\t\n", k, key.IC.Name, slot.ICs[key])
		}

		reqKeys := make([]core.ReqKey, 0)
		for key := range slot.Reqs {
			if key.App == app {
				reqKeys = append(reqKeys, key)
			}
		}
		sort.Slice(reqKeys, func(i, j int) bool {
			if reqKeys[i].Src.Name != reqKeys[j].Src.Name {
				return reqKeys[i].Src.Name < reqKeys[j].Src.Name
			}
			return reqKeys[i].IC.Name < reqKeys[j].IC.Name
		})
		for _, key := range reqKeys {
			fmt.Fprintf(tw, "%d\t\t\t%s -> %s\t%d\n", k, key.Src.Name, key.IC.Name, slot.Reqs[key])
		}
	}
	fmt.Fprintln(tw)
	return tw.Flush()
}

// Summary is a one-line overview of a solution's key metrics, meant to be
// composed from pkg/analyzer results.
type Summary struct {
	Status          core.Status
	Cost            units.Currency
	AvgRespTime     units.Time
	DeadlineMissPct float64
}

// PrintSummary writes a compact single-table overview.
func PrintSummary(w io.Writer, s Summary) error {
	tw := newWriter(w)
	fmt.Fprintln(tw, "STATUS\tCOST\tAVG RESP TIME\tDEADLINE MISS RATE")
	fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f%%\n", s.Status, s.Cost, s.AvgRespTime, s.DeadlineMissPct*100)
	return tw.Flush()
}
