// Package solverapi represents an assembled MILP in a solver-agnostic form
// and drives an external solver process against it, generalizing the
// teacher's flattening of a scenario into index-addressed variable/bound
// vectors (scen.Scenario.NVars/LowerBounds/UpperBounds) into a reusable
// sparse row/column structure built on gonum.org/v1/gonum/mat.
package solverapi

import (
	"hydrosched/varset"

	"gonum.org/v1/gonum/mat"
)

// Sense is the relational operator of a constraint row.
type Sense int

const (
	LE Sense = iota
	GE
	EQ
)

// Row is one linear constraint: sum(Coeffs[i]*x[i]) <Sense> RHS.
type Row struct {
	Name   string
	Coeffs map[int]float64
	Sense  Sense
	RHS    float64
	Retain bool // kept for post-solve dual extraction (submarket balance rows)
}

// Model is the flat variable list plus sparse constraint rows plus linear
// objective assembled by the constraint builders and objective builder. It
// carries no solver-specific state; SolverAdapter implementations translate
// it into whatever format their backend expects.
type Model struct {
	VarNames []string
	VarKinds []varset.Kind
	Lower    []float64
	Upper    []float64
	Rows     []Row
	Obj      map[int]float64

	// retained indexes names -> row index, populated for rows created with
	// Retain=true, so the extractor can find duals by name without a linear
	// scan.
	retained map[string]int
}

// NewModel seeds a Model from a VariableSet's flat bound/name/kind vectors.
func NewModel(vs *varset.VariableSet) *Model {
	return &Model{
		VarNames: vs.VarNames(),
		VarKinds: vs.VarKinds(),
		Lower:    vs.LowerBounds(),
		Upper:    vs.UpperBounds(),
		Obj:      map[int]float64{},
		retained: map[string]int{},
	}
}

// NVars returns the number of decision variables.
func (m *Model) NVars() int { return len(m.VarNames) }

// NRows returns the number of constraint rows emitted so far.
func (m *Model) NRows() int { return len(m.Rows) }

// AddRow appends a constraint row and returns its index. If retain is true,
// the row is also indexed by name for later dual lookup.
func (m *Model) AddRow(name string, coeffs map[int]float64, sense Sense, rhs float64, retain bool) int {
	idx := len(m.Rows)
	m.Rows = append(m.Rows, Row{Name: name, Coeffs: coeffs, Sense: sense, RHS: rhs, Retain: retain})
	if retain {
		m.retained[name] = idx
	}
	return idx
}

// AddObjTerm accumulates coef onto the objective coefficient of varIdx,
// allowing multiple cost components (fuel, startup, water value, penalties)
// to contribute to the same variable's coefficient.
func (m *Model) AddObjTerm(varIdx int, coef float64) {
	m.Obj[varIdx] += coef
}

// RetainedRow looks up a row previously added with retain=true by name.
func (m *Model) RetainedRow(name string) (int, bool) {
	idx, ok := m.retained[name]
	return idx, ok
}

// RetainedNames returns every retained row name, for iterating duals after
// a solve.
func (m *Model) RetainedNames() []string {
	names := make([]string, 0, len(m.retained))
	for name := range m.retained {
		names = append(names, name)
	}
	return names
}

// Dense materializes the sparse row coefficients as a dense gonum matrix.
// Neither solve path calls it: the LP-relaxation solve in relax.go builds
// its own standard-form matrix with slack columns, and the external MILP
// adapter writes rows directly to an LP file without densifying them.
func (m *Model) Dense() *mat.Dense {
	d := mat.NewDense(len(m.Rows), len(m.VarNames), nil)
	for r, row := range m.Rows {
		for col, coef := range row.Coeffs {
			d.Set(r, col, coef)
		}
	}
	return d
}

// ObjVec returns the objective coefficient vector as a dense slice.
func (m *Model) ObjVec() []float64 {
	c := make([]float64, len(m.VarNames))
	for idx, coef := range m.Obj {
		c[idx] = coef
	}
	return c
}
