// Package constr builds the MILP constraint rows of a dispatch model from a
// validated system, a materialized VariableSet, and supporting config
// (cascade topology, inflow data). Each builder function here mirrors the
// teacher's per-period constraint-family construction pattern, generalized
// to emit solverapi.Model rows instead of building a schedule.
package constr

import (
	"hydrosched/cascade"
	"hydrosched/inflow"
	"hydrosched/solverapi"
	"hydrosched/system"
	"hydrosched/varset"
)

// BuildResult reports what one builder did. success is false only when the
// builder could not proceed at all (e.g. a required variable family is
// absent); warnings cover recoverable oddities (missing inflow data) that
// do not block the solve.
type BuildResult struct {
	Kind         string
	NConstraints int
	NAuxVars     int
	Warnings     []string
	Success      bool
}

func ok(kind string, n int, warnings ...string) BuildResult {
	return BuildResult{Kind: kind, NConstraints: n, Warnings: warnings, Success: true}
}

func fail(kind, reason string) BuildResult {
	return BuildResult{Kind: kind, Success: false, Warnings: []string{reason}}
}

// Config bundles every builder's inputs beyond (model, sys, vars): the
// pieces that come from outside the core entity model, plus the §6
// ConstraintConfig toggles that decide which optional families and
// behaviors are active for this instance.
type Config struct {
	Cascade *cascade.Topology
	Inflow  inflow.Provider

	EnableRamping    bool
	IncludeSpill     bool
	IncludeMinUpDown bool

	IncludeDeficit          bool
	IncludeInterconnections bool
	IncludeRenewables       bool

	// InitialCommitment overrides ThermalPlant.InitialCommitment per plant
	// id for this instance, per §6's thermal.initial_commitment map; a
	// plant id absent from the map falls back to its entity field.
	InitialCommitment map[string]bool
}

// DefaultConfig enables ramping, spillage, min-up/down enforcement, and
// every optional variable family — the common case for a day-ahead instance
// with a full hydro fleet and no deliberately-excluded market segments.
func DefaultConfig() Config {
	return Config{
		EnableRamping:           true,
		IncludeSpill:            true,
		IncludeMinUpDown:        true,
		IncludeDeficit:          true,
		IncludeInterconnections: true,
		IncludeRenewables:       true,
	}
}

// EnabledFamilies derives the VariableSet materialization flags implied by
// cfg's market-level toggles. Thermal and hydro families have no
// ConstraintConfig toggle (§6) and are always materialized.
func (c Config) EnabledFamilies() varset.Enabled {
	return varset.Enabled{
		Thermal:      true,
		Hydro:        true,
		Renewable:    c.IncludeRenewables,
		Interconnect: c.IncludeInterconnections,
		Deficit:      c.IncludeDeficit,
	}
}

// BuildAll runs every constraint builder against m in a fixed, documented
// order and returns their combined results. Order is advisory: builders
// depend only on the shared VariableSet, never on each other's rows.
func BuildAll(m *solverapi.Model, sys *system.System, vs *varset.VariableSet, cfg Config) []BuildResult {
	return []BuildResult{
		BuildThermal(m, sys, vs, cfg),
		BuildHydroBalance(m, sys, vs, cfg),
		BuildHydroProduction(m, sys, vs, cfg),
		BuildRenewable(m, sys, vs, cfg),
		BuildInterconnection(m, sys, vs, cfg),
		BuildMarket(m, sys, vs, cfg),
	}
}

// AnyFailed reports whether the driver must reject the instance: any
// builder returning success=false.
func AnyFailed(results []BuildResult) bool {
	for _, r := range results {
		if !r.Success {
			return true
		}
	}
	return false
}
