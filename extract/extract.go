// Package extract pulls a solved model's flat primal/dual vectors back into
// entity-addressed results, generalizing the teacher's typed-row-scan-into-
// map pattern (objective.Calc2 scanning a query.InvAt result into a
// nuclide->quantity map) into a family-addressed schedule and a
// submarket-addressed price series.
package extract

import (
	"strconv"

	"hydrosched/solverapi"
	"hydrosched/system"
	"hydrosched/varset"
)

// Key addresses one (entity, period) value in a Schedule.
type Key struct {
	EntityId string
	Period   int
}

// Schedule maps a variable family's values by (entity_id, period).
type Schedule map[Key]float64

// Result is the full post-solve extraction: one Schedule per materialized
// family, plus the submarket spot price series recovered from the retained
// market-balance row duals.
type Result struct {
	Status     solverapi.Status
	ObjValue   float64
	Generation map[varset.Family]Schedule
	// PriceRsMWh is the submarket spot price (the PLD), keyed by submarket
	// code and period, recovered from the dual on that submarket's balance
	// row at that period.
	PriceRsMWh map[Key]float64
	Warnings   []string
}

// families lists every family extract knows how to scan back out of a
// solved model's primal vector. Order doesn't matter; each is independently
// optional in the result (HasFamily gates materialization).
var families = []varset.Family{
	varset.GThermal, varset.UCommit, varset.VStartup, varset.WShutdown,
	varset.GHydro, varset.QOutflow, varset.SStorage, varset.Spill, varset.Pump,
	varset.GRenew, varset.Curtail, varset.ICFlow, varset.Deficit,
}

// Build scans a completed solve's primal and dual vectors into a Result.
// res.Primal must align with vs (the same VariableSet that built m).
func Build(res solverapi.SolverResult, sys *system.System, vs *varset.VariableSet) Result {
	out := Result{
		Status:     res.Status,
		ObjValue:   res.ObjectiveValue,
		Generation: map[varset.Family]Schedule{},
		PriceRsMWh: map[Key]float64{},
		Warnings:   append([]string(nil), res.Warnings...),
	}

	horizon := vs.Horizon()
	for _, fam := range families {
		if !vs.HasFamily(fam) {
			continue
		}
		sched := Schedule{}
		for _, id := range entityIdsFor(sys, fam) {
			for t := 1; t <= horizon; t++ {
				idx, ok := vs.IndexOf(fam, id, t)
				if !ok {
					continue
				}
				if idx >= len(res.Primal) {
					continue
				}
				sched[Key{EntityId: id, Period: t}] = res.Primal[idx]
			}
		}
		out.Generation[fam] = sched
	}

	for _, smId := range sys.SubmarketIds() {
		sm, ok := sys.Submarket(smId)
		if !ok {
			continue
		}
		for t := 1; t <= horizon; t++ {
			name := "market_balance[" + sm.Code + "," + strconv.Itoa(t) + "]"
			if dual, ok := res.Duals[name]; ok {
				out.PriceRsMWh[Key{EntityId: sm.Code, Period: t}] = dual
			}
		}
	}

	return out
}

// entityIdsFor returns the entity ids that back fam, matching the id
// collections varset.Create indexed it over so a lookup never misses a
// materialized family's own members.
func entityIdsFor(sys *system.System, fam varset.Family) []string {
	switch fam {
	case varset.GThermal, varset.UCommit, varset.VStartup, varset.WShutdown:
		return sys.ThermalIds()
	case varset.GHydro, varset.QOutflow, varset.SStorage, varset.Spill, varset.Pump:
		return sys.HydroIds()
	case varset.GRenew, varset.Curtail:
		return sys.RenewableIds()
	case varset.ICFlow:
		return sys.InterconnectionIds()
	case varset.Deficit:
		return submarketCodes(sys)
	}
	return nil
}

func submarketCodes(sys *system.System) []string {
	ids := sys.SubmarketIds()
	codes := make([]string, 0, len(ids))
	for _, id := range ids {
		sm, _ := sys.Submarket(id)
		codes = append(codes, sm.Code)
	}
	return codes
}
