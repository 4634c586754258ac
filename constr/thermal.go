package constr

import (
	"fmt"

	"hydrosched/solverapi"
	"hydrosched/system"
	"hydrosched/varset"
)

// BuildThermal emits the unit commitment families for every thermal plant:
// capacity-with-commitment, ramping, commitment-state logic, minimum
// up/down time, and must-run pinning.
func BuildThermal(m *solverapi.Model, sys *system.System, vs *varset.VariableSet, cfg Config) BuildResult {
	ids := sys.ThermalIds()
	if len(ids) == 0 {
		return ok("thermal", 0)
	}
	if !vs.HasFamily(varset.GThermal) || !vs.HasFamily(varset.UCommit) {
		return fail("thermal", "GThermal/UCommit variable family not materialized")
	}

	n := 0
	var warnings []string
	horizon := vs.Horizon()

	for _, id := range ids {
		p, _ := sys.Thermal(id)

		for t := 1; t <= horizon; t++ {
			g, _ := vs.IndexOf(varset.GThermal, id, t)
			u, _ := vs.IndexOf(varset.UCommit, id, t)

			// 1. capacity with commitment.
			m.AddRow(rowName("thermal_cap_lo", id, t), map[int]float64{g: 1, u: -p.MinGenMW}, solverapi.GE, 0, false)
			m.AddRow(rowName("thermal_cap_hi", id, t), map[int]float64{g: 1, u: -p.MaxGenMW}, solverapi.LE, 0, false)
			n += 2

			// 2. ramping, t > 1.
			if cfg.EnableRamping && t > 1 {
				gPrev, _ := vs.IndexOf(varset.GThermal, id, t-1)
				rampUp := p.RampUpMWMin * 60
				rampDown := p.RampDownMWMin * 60
				m.AddRow(rowName("thermal_ramp_up", id, t), map[int]float64{g: 1, gPrev: -1}, solverapi.LE, rampUp, false)
				m.AddRow(rowName("thermal_ramp_down", id, t), map[int]float64{gPrev: 1, g: -1}, solverapi.LE, rampDown, false)
				n += 2
			}

			// 3. commitment state logic.
			v, _ := vs.IndexOf(varset.VStartup, id, t)
			w, _ := vs.IndexOf(varset.WShutdown, id, t)
			if t == 1 {
				init := 0.0
				if override, ok := cfg.InitialCommitment[id]; ok {
					if override {
						init = 1
					}
				} else if p.InitialCommitment {
					init = 1
				}
				m.AddRow(rowName("thermal_state", id, t), map[int]float64{u: 1, v: -1, w: 1}, solverapi.EQ, init, false)
			} else {
				uPrev, _ := vs.IndexOf(varset.UCommit, id, t-1)
				m.AddRow(rowName("thermal_state", id, t), map[int]float64{u: 1, uPrev: -1, v: -1, w: 1}, solverapi.EQ, 0, false)
			}
			m.AddRow(rowName("thermal_startup_shutdown_excl", id, t), map[int]float64{v: 1, w: 1}, solverapi.LE, 1, false)
			n += 2

			// 6. must-run pinning.
			if p.MustRun {
				m.AddRow(rowName("thermal_must_run", id, t), map[int]float64{u: 1}, solverapi.EQ, 1, false)
				n++
			}
		}

		// 4. minimum up time.
		if cfg.IncludeMinUpDown && p.MinUpHours > 0 {
			for t := p.MinUpHours; t <= horizon; t++ {
				coeffs := map[int]float64{}
				for tau := t - p.MinUpHours + 1; tau <= t; tau++ {
					idx, ok := vs.IndexOf(varset.UCommit, id, tau)
					if ok {
						coeffs[idx] += 1
					}
				}
				v, _ := vs.IndexOf(varset.VStartup, id, t)
				coeffs[v] -= float64(p.MinUpHours)
				m.AddRow(rowName("thermal_min_up", id, t), coeffs, solverapi.GE, 0, false)
				n++
			}
		}

		// 5. minimum down time.
		if cfg.IncludeMinUpDown && p.MinDownHours > 0 {
			for t := p.MinDownHours; t <= horizon; t++ {
				coeffs := map[int]float64{}
				for tau := t - p.MinDownHours + 1; tau <= t; tau++ {
					idx, ok := vs.IndexOf(varset.UCommit, id, tau)
					if ok {
						coeffs[idx] -= 1
					}
				}
				w, _ := vs.IndexOf(varset.WShutdown, id, t)
				coeffs[w] -= float64(p.MinDownHours)
				// sum(1 - u[tau]) >= D*w[t]  <=>  D - sum(u[tau]) - D*w[t] >= 0
				m.AddRow(rowName("thermal_min_down", id, t), coeffs, solverapi.GE, -float64(p.MinDownHours), false)
				n++
			}
		}
	}

	return ok("thermal", n, warnings...)
}

func rowName(kind, id string, t int) string {
	return fmt.Sprintf("%s[%s,%d]", kind, id, t)
}
