package constr

import (
	"hydrosched/solverapi"
	"hydrosched/system"
	"hydrosched/varset"
)

// BuildMarket emits the submarket energy balance equality whose dual is the
// spot price (the PLD): generation plus imports minus exports minus pumping
// load minus demand, plus a deficit slack, equals zero. Every row is
// retained for post-solve dual extraction.
func BuildMarket(m *solverapi.Model, sys *system.System, vs *varset.VariableSet, cfg Config) BuildResult {
	smIds := sys.SubmarketIds()
	if len(smIds) == 0 {
		return ok("market", 0)
	}

	horizon := vs.Horizon()
	n := 0
	var warnings []string

	for _, smId := range smIds {
		sm, _ := sys.Submarket(smId)
		code := sm.Code

		thermals := sys.ThermalsBySubmarket(code)
		hydros := sys.HydrosBySubmarket(code)
		renewables := sys.RenewablesBySubmarket(code)
		loads := sys.LoadsBySubmarket(code)
		fromLinks := sys.InterconnectionsFrom(code)
		toLinks := sys.InterconnectionsTo(code)

		for t := 1; t <= horizon; t++ {
			coeffs := map[int]float64{}

			for _, p := range thermals {
				if idx, ok := vs.IndexOf(varset.GThermal, p.Id, t); ok {
					coeffs[idx] += 1
				}
			}
			for _, h := range hydros {
				if idx, ok := vs.IndexOf(varset.GHydro, h.Id, t); ok {
					coeffs[idx] += 1
				}
				if h.Kind == system.PumpedStorage {
					if idx, ok := vs.IndexOf(varset.Pump, h.Id, t); ok {
						coeffs[idx] -= 1
					}
				}
			}
			for _, r := range renewables {
				if idx, ok := vs.IndexOf(varset.GRenew, r.Id, t); ok {
					coeffs[idx] += 1
				}
			}

			if idx, ok := vs.IndexOf(varset.Deficit, code, t); ok {
				coeffs[idx] += 1
			}

			for _, ic := range toLinks {
				if idx, ok := vs.IndexOf(varset.ICFlow, ic.Id, t); ok {
					coeffs[idx] += 1
				}
			}
			for _, ic := range fromLinks {
				if idx, ok := vs.IndexOf(varset.ICFlow, ic.Id, t); ok {
					coeffs[idx] -= 1 - ic.LossFrac()
				}
			}

			demand := 0.0
			for _, l := range loads {
				demand += l.DemandAt(t)
			}

			name := rowName("market_balance", code, t)
			m.AddRow(name, coeffs, solverapi.EQ, demand, true)
			n++
		}
	}

	return ok("market", n, warnings...)
}
