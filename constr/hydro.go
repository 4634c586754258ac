package constr

import (
	"fmt"

	"hydrosched/inflow"
	"hydrosched/solverapi"
	"hydrosched/system"
	"hydrosched/varset"
)

// alphaHm3PerM3SHour converts a flow rate in m3/s sustained for one hour
// into a volume in hm3: 1 m3/s * 3600 s = 3600 m3 = 0.0036 hm3.
const alphaHm3PerM3SHour = 0.0036

// BuildHydroBalance emits the water-balance recursion for every hydro
// plant: storage continuity for Reservoir/PumpedStorage plants (with
// cascade inflow contributions from upstream release), the inflow envelope
// for RunOfRiver plants, and the spill-pinning rows when spill is disabled.
// Storage bounds are carried by the variable set, not emitted here. Every
// missing inflow entry defaults to 0 and is reported as a warning.
func BuildHydroBalance(m *solverapi.Model, sys *system.System, vs *varset.VariableSet, cfg Config) BuildResult {
	ids := sys.HydroIds()
	if len(ids) == 0 {
		return ok("hydro_balance", 0)
	}
	if !vs.HasFamily(varset.QOutflow) {
		return fail("hydro_balance", "QOutflow variable family not materialized")
	}

	alpha := alphaHm3PerM3SHour * sys.PeriodDurationHours
	horizon := vs.Horizon()
	n := 0
	var warnings []string
	inflowAt := func(id string, t int) float64 {
		if cfg.Inflow == nil {
			warnings = append(warnings, fmt.Sprintf("no inflow provider: plant %q period %d defaulted to 0", id, t))
		} else if _, found := cfg.Inflow.HourlyM3S(id, t); !found {
			warnings = append(warnings, fmt.Sprintf("missing inflow for plant %q period %d, defaulted to 0", id, t))
		}
		return inflow.Lookup(cfg.Inflow, id, t)
	}

	for _, id := range ids {
		h, _ := sys.Hydro(id)

		if h.Kind == system.RunOfRiver {
			for t := 1; t <= horizon; t++ {
				q, _ := vs.IndexOf(varset.QOutflow, id, t)
				inflowM3S := inflowAt(id, t)
				m.AddRow(rowName("hydro_ror_inflow", id, t), map[int]float64{q: 1}, solverapi.LE, inflowM3S, false)
				n++
			}
			continue
		}

		for t := 1; t <= horizon; t++ {
			s, _ := vs.IndexOf(varset.SStorage, id, t)
			q, _ := vs.IndexOf(varset.QOutflow, id, t)
			spill, spillOK := vs.IndexOf(varset.Spill, id, t)

			if t == 1 {
				m.AddRow(rowName("hydro_storage_init", id, t), map[int]float64{s: 1}, solverapi.EQ, h.InitialVolumeHm3, false)
				n++
				continue
			}

			sPrev, _ := vs.IndexOf(varset.SStorage, id, t-1)
			coeffs := map[int]float64{s: 1, sPrev: -1, q: alpha}
			if spillOK {
				coeffs[spill] += alpha
			}

			if cfg.Cascade != nil {
				for _, link := range cfg.Cascade.Upstream(id) {
					srcT := t - link.DelayPeriods
					if srcT < 1 {
						continue
					}
					if uq, ok := vs.IndexOf(varset.QOutflow, link.Upstream, srcT); ok {
						coeffs[uq] -= alpha
					}
					if us, ok := vs.IndexOf(varset.Spill, link.Upstream, srcT); ok {
						coeffs[us] -= alpha
					}
				}
			}

			inflowM3S := inflowAt(id, t)
			rhs := alpha * inflowM3S

			if h.Kind == system.PumpedStorage {
				if pump, ok := vs.IndexOf(varset.Pump, id, t); ok {
					eta := h.PumpEfficiency
					if eta == 0 {
						eta = system.DefaultPumpEfficiency
					}
					coeffs[pump] -= eta * alpha
				}
			}

			m.AddRow(rowName("hydro_balance", id, t), coeffs, solverapi.EQ, rhs, false)
			n++

			if spillOK && !cfg.IncludeSpill {
				m.AddRow(rowName("hydro_spill_pinned", id, t), map[int]float64{spill: 1}, solverapi.EQ, 0, false)
				n++
			}
		}
	}

	return ok("hydro_balance", n, warnings...)
}
