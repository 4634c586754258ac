package extract

import (
	"testing"

	"hydrosched/solverapi"
	"hydrosched/system"
	"hydrosched/varset"
)

func buildTestSystem(t *testing.T) *system.System {
	t.Helper()
	sm, err := system.NewSubmarket("sm1", "Southeast", "SE", "BR")
	if err != nil {
		t.Fatal(err)
	}
	th, err := system.NewThermalPlant(system.ThermalPlant{
		Id: "t1", BusId: "bus1", SubmarketId: "SE", FuelType: system.FuelNaturalGas,
		CapacityMW: 100, MinGenMW: 10, MaxGenMW: 100,
		RampUpMWMin: 5, RampDownMWMin: 5, FuelCostRsMWh: 200,
	})
	if err != nil {
		t.Fatal(err)
	}
	ld, err := system.NewLoad("l1", "SE", "", 50, []float64{1, 1})
	if err != nil {
		t.Fatal(err)
	}
	sys, err := system.Build(system.Entities{
		HorizonPeriods: 2, PeriodDurationHours: 1,
		Submarkets: []system.Submarket{sm}, Thermals: []system.ThermalPlant{th},
		Loads: []system.Load{ld},
	})
	if err != nil {
		t.Fatalf("system.Build: %v", err)
	}
	return sys
}

func TestBuildExtractsThermalSchedule(t *testing.T) {
	sys := buildTestSystem(t)
	vs := varset.Create(sys, varset.DefaultEnabled())
	m := solverapi.NewModel(vs)

	primal := make([]float64, m.NVars())
	gIdx, ok := vs.IndexOf(varset.GThermal, "t1", 1)
	if !ok {
		t.Fatal("expected g[t1,1] indexed")
	}
	primal[gIdx] = 42

	res := solverapi.SolverResult{Status: solverapi.Optimal, ObjectiveValue: 100, Primal: primal}
	out := Build(res, sys, vs)

	sched, ok := out.Generation[varset.GThermal]
	if !ok {
		t.Fatal("expected a GThermal schedule in the result")
	}
	if got := sched[Key{EntityId: "t1", Period: 1}]; got != 42 {
		t.Errorf("g[t1,1] = %v, want 42", got)
	}
}

func TestBuildExtractsSubmarketPrice(t *testing.T) {
	sys := buildTestSystem(t)
	vs := varset.Create(sys, varset.DefaultEnabled())

	duals := map[string]float64{"market_balance[SE,1]": 185.5}
	res := solverapi.SolverResult{
		Status: solverapi.Optimal,
		Primal: make([]float64, vs.NVars()),
		Duals:  duals,
	}
	out := Build(res, sys, vs)

	price, ok := out.PriceRsMWh[Key{EntityId: "SE", Period: 1}]
	if !ok {
		t.Fatal("expected a price entry for SE at t=1")
	}
	if price != 185.5 {
		t.Errorf("price = %v, want 185.5", price)
	}
}

func TestBuildSkipsUnmaterializedFamilies(t *testing.T) {
	sys := buildTestSystem(t)
	vs := varset.Create(sys, varset.Enabled{Thermal: true, Deficit: true})
	res := solverapi.SolverResult{Status: solverapi.Optimal, Primal: make([]float64, vs.NVars())}
	out := Build(res, sys, vs)

	if _, ok := out.Generation[varset.GHydro]; ok {
		t.Error("GHydro should not appear when Hydro is disabled")
	}
	if _, ok := out.Generation[varset.GThermal]; !ok {
		t.Error("GThermal should appear when Thermal is enabled")
	}
}

func TestBuildCarriesStatusAndObjective(t *testing.T) {
	sys := buildTestSystem(t)
	vs := varset.Create(sys, varset.DefaultEnabled())
	res := solverapi.SolverResult{Status: solverapi.Infeasible, ObjectiveValue: 0, Primal: make([]float64, vs.NVars())}
	out := Build(res, sys, vs)

	if out.Status != solverapi.Infeasible {
		t.Errorf("Status = %v, want Infeasible", out.Status)
	}
}
