package constr

import (
	"hydrosched/solverapi"
	"hydrosched/system"
	"hydrosched/varset"
)

// BuildHydroProduction emits the linear hydro production function
// gh[j,t] = rho_j * q[j,t], with rho_j = max_generation_MW / max_outflow_m3s.
// Generation and outflow bounds are already carried by the variable set;
// this builder only ties the two families together.
func BuildHydroProduction(m *solverapi.Model, sys *system.System, vs *varset.VariableSet, cfg Config) BuildResult {
	ids := sys.HydroIds()
	if len(ids) == 0 {
		return ok("hydro_production", 0)
	}
	if !vs.HasFamily(varset.GHydro) || !vs.HasFamily(varset.QOutflow) {
		return fail("hydro_production", "GHydro/QOutflow variable family not materialized")
	}

	horizon := vs.Horizon()
	n := 0
	for _, id := range ids {
		h, _ := sys.Hydro(id)
		rho := h.ProductivityMWPerM3S()
		for t := 1; t <= horizon; t++ {
			gh, _ := vs.IndexOf(varset.GHydro, id, t)
			q, _ := vs.IndexOf(varset.QOutflow, id, t)
			m.AddRow(rowName("hydro_production", id, t), map[int]float64{gh: 1, q: -rho}, solverapi.EQ, 0, false)
			n++
		}
	}
	return ok("hydro_production", n)
}
