package constr

import (
	"hydrosched/solverapi"
	"hydrosched/system"
	"hydrosched/varset"
)

// BuildInterconnection is a no-op beyond validating the family exists: the
// box bound [-capacity_MW, +capacity_MW] on ic_flow is already set when the
// variable set is created, so there is no separate row to emit. It is kept
// as its own builder to match the family breakdown the driver reports.
//
// When cfg.IncludeInterconnections is false, interconnections are excluded
// by design (§6 ConstraintConfig's market.include_interconnections) and the
// ICFlow family is expected to be absent; only a family missing despite
// being requested is a builder failure.
func BuildInterconnection(m *solverapi.Model, sys *system.System, vs *varset.VariableSet, cfg Config) BuildResult {
	if len(sys.InterconnectionIds()) == 0 || !cfg.IncludeInterconnections {
		return ok("interconnect", 0)
	}
	if !vs.HasFamily(varset.ICFlow) {
		return fail("interconnect", "ICFlow variable family not materialized")
	}
	return ok("interconnect", 0)
}
