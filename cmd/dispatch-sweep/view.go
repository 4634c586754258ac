package main

import (
	"fmt"
	"io"

	"hydrosched/dispatchjob"
)

// sweepRow is one sample point from the sweep: the swept value and the
// resulting solve outcome.
type sweepRow struct {
	Value     float64
	Status    string
	Objective float64
	Message   string
}

// printSweep renders rows as a simple tab-separated table, the sweep's
// "view" half.
func printSweep(w io.Writer, rows []sweepRow) {
	fmt.Fprintln(w, "value\tstatus\tobjective\tmessage")
	for _, r := range rows {
		if r.Status != dispatchjob.StatusComplete {
			fmt.Fprintf(w, "%v\t%s\t-\t%s\n", r.Value, r.Status, r.Message)
			continue
		}
		fmt.Fprintf(w, "%v\t%s\t%v\t\n", r.Value, r.Status, r.Objective)
	}
}
