// Package objective assembles the production-cost objective: fuel,
// startup, shutdown, water value, and penalty terms accumulated onto a
// solverapi.Model, generalizing the teacher's component-accumulation style
// in objective.Calc2 (summed PV-discounted facility costs, normalized to a
// single scalar) into per-term coefficient bookkeeping over MILP columns.
package objective

import (
	"hydrosched/solverapi"
	"hydrosched/system"
	"hydrosched/varset"
)

// PenaltyConfig holds the configurable penalty coefficients; defaults are
// set high enough to dominate normal operation so the solver only accepts
// curtailment or deficit when physically unavoidable.
type PenaltyConfig struct {
	// CurtailRsMWh penalizes renewable curtailment. Zero disables the term.
	CurtailRsMWh float64
	// DeficitRsMWh penalizes unserved load. Strongly recommended nonzero.
	DeficitRsMWh float64
}

// DefaultPenalties mirrors the defaults named in the objective formula: no
// curtailment penalty (curtailment is otherwise free if allowed) and a
// deficit penalty large enough to dominate every normal dispatch cost.
func DefaultPenalties() PenaltyConfig {
	return PenaltyConfig{CurtailRsMWh: 0, DeficitRsMWh: 10000}
}

// CostBreakdown totals each cost component's contribution, recorded by the
// builder for later accounting/reporting (not used by the solve itself).
type CostBreakdown struct {
	Fuel       float64
	Startup    float64
	Shutdown   float64
	WaterValue float64
	Curtail    float64
	Deficit    float64
}

// Build accumulates every cost component onto m's objective and returns the
// per-component coefficient totals (the sum of coefficients added, not an
// evaluated cost — evaluation happens once a solve returns a primal point).
func Build(m *solverapi.Model, sys *system.System, vs *varset.VariableSet, pen PenaltyConfig) CostBreakdown {
	var bd CostBreakdown
	horizon := vs.Horizon()

	if vs.HasFamily(varset.GThermal) {
		for _, id := range sys.ThermalIds() {
			p, _ := sys.Thermal(id)
			for t := 1; t <= horizon; t++ {
				g, ok := vs.IndexOf(varset.GThermal, id, t)
				if !ok {
					continue
				}
				cost := p.FuelCostAt(t)
				m.AddObjTerm(g, cost)
				bd.Fuel += cost
			}
		}
	}
	if vs.HasFamily(varset.VStartup) {
		for _, id := range sys.ThermalIds() {
			p, _ := sys.Thermal(id)
			for t := 1; t <= horizon; t++ {
				v, ok := vs.IndexOf(varset.VStartup, id, t)
				if !ok {
					continue
				}
				m.AddObjTerm(v, p.StartupCostRs)
				bd.Startup += p.StartupCostRs
			}
		}
	}
	if vs.HasFamily(varset.WShutdown) {
		for _, id := range sys.ThermalIds() {
			p, _ := sys.Thermal(id)
			for t := 1; t <= horizon; t++ {
				w, ok := vs.IndexOf(varset.WShutdown, id, t)
				if !ok {
					continue
				}
				m.AddObjTerm(w, p.ShutdownCostRs)
				bd.Shutdown += p.ShutdownCostRs
			}
		}
	}
	if vs.HasFamily(varset.SStorage) {
		for _, id := range sys.HydroIds() {
			h, _ := sys.Hydro(id)
			for t := 1; t <= horizon; t++ {
				s, ok := vs.IndexOf(varset.SStorage, id, t)
				if !ok {
					continue
				}
				m.AddObjTerm(s, h.WaterValueRsHm3)
				bd.WaterValue += h.WaterValueRsHm3
			}
		}
	}
	if pen.CurtailRsMWh > 0 && vs.HasFamily(varset.Curtail) {
		for _, id := range sys.RenewableIds() {
			for t := 1; t <= horizon; t++ {
				c, ok := vs.IndexOf(varset.Curtail, id, t)
				if !ok {
					continue
				}
				m.AddObjTerm(c, pen.CurtailRsMWh)
				bd.Curtail += pen.CurtailRsMWh
			}
		}
	}
	if pen.DeficitRsMWh > 0 && vs.HasFamily(varset.Deficit) {
		for _, code := range sys.SubmarketIds() {
			sm, _ := sys.Submarket(code)
			for t := 1; t <= horizon; t++ {
				d, ok := vs.IndexOf(varset.Deficit, sm.Code, t)
				if !ok {
					continue
				}
				m.AddObjTerm(d, pen.DeficitRsMWh)
				bd.Deficit += pen.DeficitRsMWh
			}
		}
	}

	return bd
}
