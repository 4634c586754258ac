package solverapi

import (
	"testing"

	"hydrosched/varset"
)

func TestExtractDualsNoRetainedRows(t *testing.T) {
	m := &Model{
		VarNames: []string{"g[t1,1]"},
		VarKinds: []varset.Kind{varset.Continuous},
		Lower:    []float64{0},
		Upper:    []float64{100},
		Obj:      map[int]float64{0: 1},
		retained: map[string]int{},
	}
	duals, err := ExtractDuals(m, []float64{10})
	if err != nil {
		t.Fatalf("ExtractDuals: %v", err)
	}
	if len(duals) != 0 {
		t.Errorf("ExtractDuals with no retained rows = %v, want empty", duals)
	}
}

func TestRowRHSMatchesModelRows(t *testing.T) {
	m := &Model{
		Rows: []Row{
			{Name: "a", RHS: 5},
			{Name: "b", RHS: -3},
		},
	}
	got := rowRHS(m)
	want := []float64{5, -3}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rowRHS()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestExtractDualsOnBalanceRow(t *testing.T) {
	// min 2*g s.t. g == 10 (the retained "balance" row), 0 <= g <= 100.
	// The shadow price on an equality demand row equals the marginal cost
	// of the single generator serving it, i.e. 2.
	m := &Model{
		VarNames: []string{"g[t1,1]"},
		VarKinds: []varset.Kind{varset.Continuous},
		Lower:    []float64{0},
		Upper:    []float64{100},
		Obj:      map[int]float64{0: 2},
		Rows: []Row{
			{Name: "balance", Coeffs: map[int]float64{0: 1}, Sense: EQ, RHS: 10, Retain: true},
		},
		retained: map[string]int{"balance": 0},
	}
	duals, err := ExtractDuals(m, []float64{10})
	if err != nil {
		t.Fatalf("ExtractDuals: %v", err)
	}
	got, ok := duals["balance"]
	if !ok {
		t.Fatal("expected a dual value for retained row \"balance\"")
	}
	if diff := got - 2; diff > 0.05 || diff < -0.05 {
		t.Errorf("duals[balance] = %v, want approx 2", got)
	}
}
