package solverapi

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"hydrosched/varset"
)

// WriteLP emits m in CPLEX LP format, the de facto interchange format most
// open-source MILP solvers (CBC, GLPK, SCIP) accept on the command line. No
// example in the teacher lineage emits LP format directly, so this mirrors
// the teacher's own text-templating habit (scen.Scenario.GenCyclusInfile)
// rather than any corpus library: a fixed sequence of fmt.Fprintf calls over
// a buffered writer.
func WriteLP(w io.Writer, m *Model, sense string) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "\\ hydrosched dispatch model\n")
	if sense == "" {
		sense = "Minimize"
	}
	fmt.Fprintf(bw, "%s\n obj: %s\n", sense, lpExpr(m.Obj, m.VarNames))

	fmt.Fprintf(bw, "Subject To\n")
	for _, row := range m.Rows {
		fmt.Fprintf(bw, " %s: %s %s %v\n", row.Name, lpExpr(row.Coeffs, m.VarNames), senseOp(row.Sense), row.RHS)
	}

	fmt.Fprintf(bw, "Bounds\n")
	var bins []string
	for i, name := range m.VarNames {
		if m.VarKinds[i] == varset.Binary {
			bins = append(bins, name)
			continue
		}
		lo, up := m.Lower[i], m.Upper[i]
		if lo == 0 && up >= 1e12 {
			continue // default lower bound 0, unbounded above: omit
		}
		fmt.Fprintf(bw, " %v <= %s <= %v\n", lo, name, up)
	}

	if len(bins) > 0 {
		fmt.Fprintf(bw, "Binaries\n")
		for _, name := range bins {
			fmt.Fprintf(bw, " %s\n", name)
		}
	}

	fmt.Fprintf(bw, "End\n")
	return bw.Flush()
}

func senseOp(s Sense) string {
	switch s {
	case LE:
		return "<="
	case GE:
		return ">="
	default:
		return "="
	}
}

func lpExpr(coeffs map[int]float64, names []string) string {
	if len(coeffs) == 0 {
		return "0"
	}
	idxs := make([]int, 0, len(coeffs))
	for idx := range coeffs {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)

	expr := ""
	for _, idx := range idxs {
		coef := coeffs[idx]
		if coef == 0 {
			continue
		}
		expr += fmt.Sprintf("%+v %s ", coef, names[idx])
	}
	if expr == "" {
		return "0"
	}
	return expr
}
