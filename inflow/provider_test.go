package inflow

import "testing"

func TestTableHourlyM3S(t *testing.T) {
	tbl := NewTable(map[string][]float64{
		"h1": {100, 110, 120},
	})
	v, ok := tbl.HourlyM3S("h1", 2)
	if !ok || v != 110 {
		t.Errorf("HourlyM3S(h1,2) = (%v,%v), want (110,true)", v, ok)
	}
	if _, ok := tbl.HourlyM3S("h1", 0); ok {
		t.Error("HourlyM3S(h1,0) should miss")
	}
	if _, ok := tbl.HourlyM3S("h1", 10); ok {
		t.Error("HourlyM3S(h1,10) should miss, series has only 3 entries")
	}
	if _, ok := tbl.HourlyM3S("unknown", 1); ok {
		t.Error("HourlyM3S(unknown,1) should miss")
	}
}

func TestLookupDefaultsOnMiss(t *testing.T) {
	tbl := NewTable(map[string][]float64{"h1": {50}})
	if got := Lookup(tbl, "h1", 1); got != 50 {
		t.Errorf("Lookup(h1,1) = %v, want 50", got)
	}
	if got := Lookup(tbl, "h1", 5); got != 0 {
		t.Errorf("Lookup(h1,5) = %v, want 0 on miss", got)
	}
	if got := Lookup(nil, "h1", 1); got != 0 {
		t.Errorf("Lookup(nil,...) = %v, want 0", got)
	}
}

func TestTableCopiesInput(t *testing.T) {
	series := []float64{1, 2, 3}
	tbl := NewTable(map[string][]float64{"h1": series})
	series[0] = 999
	v, _ := tbl.HourlyM3S("h1", 1)
	if v != 1 {
		t.Errorf("Table should copy its input series; got %v after external mutation, want 1", v)
	}
}
