package constr

import (
	"hydrosched/solverapi"
	"hydrosched/system"
	"hydrosched/varset"
)

// BuildRenewable emits the renewable generation envelope: an equality
// splitting forecast between generation and curtailment when curtailment
// is allowed, or an inequality cap with curtailment pinned to 0 otherwise.
func BuildRenewable(m *solverapi.Model, sys *system.System, vs *varset.VariableSet, cfg Config) BuildResult {
	ids := sys.RenewableIds()
	if len(ids) == 0 || !cfg.IncludeRenewables {
		return ok("renewable", 0)
	}
	if !vs.HasFamily(varset.GRenew) {
		return fail("renewable", "GRenew variable family not materialized")
	}

	horizon := vs.Horizon()
	n := 0
	for _, id := range ids {
		r, _ := sys.Renewable(id)
		for t := 1; t <= horizon; t++ {
			gr, _ := vs.IndexOf(varset.GRenew, id, t)
			curtail, curtailOK := vs.IndexOf(varset.Curtail, id, t)
			forecast := r.ForecastAt(t)

			if r.CurtailmentAllowed && curtailOK {
				m.AddRow(rowName("renewable_envelope", id, t), map[int]float64{gr: 1, curtail: 1}, solverapi.EQ, forecast, false)
			} else {
				m.AddRow(rowName("renewable_envelope", id, t), map[int]float64{gr: 1}, solverapi.LE, forecast, false)
				if curtailOK {
					m.AddRow(rowName("renewable_no_curtail", id, t), map[int]float64{curtail: 1}, solverapi.EQ, 0, false)
					n++
				}
			}
			n++
		}
	}
	return ok("renewable", n)
}
