package solverapi

import (
	"fmt"

	"hydrosched/varset"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// dualEpsilon is the RHS perturbation used to estimate shadow prices by
// finite difference; small enough not to flip the LP's optimal basis for a
// well-scaled power-balance row, large enough to stay above simplex's
// internal tolerance.
const dualEpsilon = 1e-3

// ExtractDuals recovers shadow prices on every retained row (the
// submarket-balance family, whose dual is the spot price) via a two-stage
// solve: every binary/integer variable from a completed MILP solve is
// fixed at its solution value, the resulting linear program is solved with
// gonum's simplex, and each retained row's dual is estimated by perturbing
// its RHS and re-solving, reading off the resulting change in the optimum.
//
// Callers should only invoke this after Optimize has returned an Optimal or
// Feasible result; primal must align with m.VarNames.
func ExtractDuals(m *Model, primal []float64) (map[string]float64, error) {
	if len(m.retained) == 0 {
		return map[string]float64{}, nil
	}

	lower, upper := fixedBoundsFromPrimal(m, primal)

	base := rowRHS(m)
	_, obj0, err := solveFixedLP(m, lower, upper, base)
	if err != nil {
		return nil, fmt.Errorf("solverapi: baseline relaxation solve failed: %w", err)
	}

	duals := make(map[string]float64, len(m.retained))
	for name, rowIdx := range m.retained {
		perturbed := append([]float64(nil), base...)
		perturbed[rowIdx] += dualEpsilon
		_, obj1, err := solveFixedLP(m, lower, upper, perturbed)
		if err != nil {
			// an infeasible perturbation just means this row is non-binding
			// in that direction; report a zero shadow price rather than
			// aborting the whole extraction.
			duals[name] = 0
			continue
		}
		duals[name] = (obj1 - obj0) / dualEpsilon
	}
	return duals, nil
}

// SolveFixedIntegers solves m's LP relaxation with every binary variable
// fixed at the value given in primal, returning the resulting solution and
// its objective value. This is the same "fix the integers, resolve the LP"
// step ExtractDuals runs for its baseline point, exposed standalone so a
// known dispatch assignment (e.g. a documented scenario's expected answer)
// can be checked against the assembled model's constraints and objective
// without needing an external MILP solver.
func SolveFixedIntegers(m *Model, primal []float64) ([]float64, float64, error) {
	lower, upper := fixedBoundsFromPrimal(m, primal)
	return solveFixedLP(m, lower, upper, rowRHS(m))
}

// fixedBoundsFromPrimal pins every binary variable's lower and upper bound
// to its value in primal, leaving continuous variables' bounds untouched.
func fixedBoundsFromPrimal(m *Model, primal []float64) (lower, upper []float64) {
	lower = append([]float64(nil), m.Lower...)
	upper = append([]float64(nil), m.Upper...)
	for i, k := range m.VarKinds {
		if k == varset.Binary {
			lower[i] = primal[i]
			upper[i] = primal[i]
		}
	}
	return lower, upper
}

func rowRHS(m *Model) []float64 {
	rhs := make([]float64, len(m.Rows))
	for i, r := range m.Rows {
		rhs[i] = r.RHS
	}
	return rhs
}

// solveFixedLP solves m's relaxation with bounds fixed as given in lower,
// upper and row right-hand-sides overridden by rhs, returning the optimal
// point and objective value.
//
// lp.Simplex requires x >= 0 natively, but several families (ic_flow, in
// particular) have a negative lower bound. Every variable is shifted by its
// lower bound before solving (y = x - shift, shift = min(lower[i], 0)) so
// y >= 0 always holds, and un-shifted back into x afterward.
func solveFixedLP(m *Model, lower, upper, rhs []float64) ([]float64, float64, error) {
	n := len(m.VarNames)
	shift := make([]float64, n)
	for i, lo := range lower {
		if lo < 0 {
			shift[i] = lo
		}
	}

	var rows [][]float64
	var b []float64
	addRow := func(coeffs map[int]float64, sense Sense, r float64) {
		row := make([]float64, n)
		adj := r
		for idx, coef := range coeffs {
			row[idx] = coef
			adj -= coef * shift[idx]
		}
		switch sense {
		case LE:
			rows = append(rows, row)
			b = append(b, adj)
		case GE:
			neg := make([]float64, n)
			for i, v := range row {
				neg[i] = -v
			}
			rows = append(rows, neg)
			b = append(b, -adj)
		case EQ:
			rows = append(rows, row)
			b = append(b, adj)
			neg := make([]float64, n)
			for i, v := range row {
				neg[i] = -v
			}
			rows = append(rows, neg)
			b = append(b, -adj)
		}
	}
	for i, row := range m.Rows {
		addRow(row.Coeffs, row.Sense, rhs[i])
	}
	for i := 0; i < n; i++ {
		if upper[i] < 1e11 {
			addRow(map[int]float64{i: 1}, LE, upper[i])
		}
		if lower[i] > 0 {
			addRow(map[int]float64{i: 1}, GE, lower[i])
		}
	}

	// lp.Simplex solves min c'x s.t. A*x = b, x >= 0; every <= / >= row
	// above is lifted to an equality by an appended slack column so the
	// whole system matches that contract, the same trick the teacher's
	// optim package uses to bridge bounded search into an unconstrained
	// solver's native shape.
	nSlack := len(rows)
	a := mat.NewDense(len(rows), n+nSlack, nil)
	for r, row := range rows {
		for c, v := range row {
			a.Set(r, c, v)
		}
		a.Set(r, n+r, 1)
	}
	obj := m.ObjVec()
	c := make([]float64, n+nSlack)
	copy(c, obj)

	_, x, err := lp.Simplex(c, a, b, 0, nil)
	if err != nil {
		return nil, 0, err
	}

	primal := make([]float64, n)
	var objVal float64
	for i := 0; i < n; i++ {
		primal[i] = x[i] + shift[i]
		objVal += obj[i] * primal[i]
	}
	return primal, objVal, nil
}
