// Package varset allocates and indexes every decision variable needed by
// the constraint builders and objective, mirroring the teacher's flat
// index-addressed variable vectors (scen.Scenario.NVars/LowerBounds/
// UpperBounds) generalized to one index map per variable family.
package varset

import (
	"sort"
	"strconv"

	"hydrosched/system"

	"gonum.org/v1/gonum/mat"
)

// Family identifies one of the variable families.
type Family int

const (
	GThermal  Family = iota // g[i,t]
	UCommit                 // u[i,t], binary
	VStartup                // v[i,t], binary
	WShutdown               // w[i,t], binary
	GHydro                  // gh[j,t]
	QOutflow                // q[j,t]
	SStorage                // s[j,t]
	Spill                   // spill[j,t]
	Pump                    // pump[j,t], pumped-storage only
	GRenew                  // gr[k,t]
	Curtail                 // curtail[k,t]
	ICFlow                  // ic_flow[l,t]
	Deficit                 // deficit[m,t]
)

func (f Family) String() string {
	switch f {
	case GThermal:
		return "g"
	case UCommit:
		return "u"
	case VStartup:
		return "v"
	case WShutdown:
		return "w"
	case GHydro:
		return "gh"
	case QOutflow:
		return "q"
	case SStorage:
		return "s"
	case Spill:
		return "spill"
	case Pump:
		return "pump"
	case GRenew:
		return "gr"
	case Curtail:
		return "curtail"
	case ICFlow:
		return "ic_flow"
	case Deficit:
		return "deficit"
	}
	return "unknown"
}

// Kind reports whether a family is continuous or binary, used by solverapi
// to set variable domains.
type Kind int

const (
	Continuous Kind = iota
	Binary
)

func (f Family) Kind() Kind {
	switch f {
	case UCommit, VStartup, WShutdown:
		return Binary
	}
	return Continuous
}

// familyIndex maps one family's (entity_id, t) pairs to a global variable
// index, built in sorted-id order for reproducible variable numbering.
type familyIndex struct {
	ids    []string // sorted entity ids backing this family, fixed at creation
	base   map[string]int
	nPer   int // horizon_periods
	offset int // starting global index for this family
}

func newFamilyIndex(ids []string, nPer, offset int) familyIndex {
	base := make(map[string]int, len(ids))
	for i, id := range ids {
		base[id] = i
	}
	return familyIndex{ids: ids, base: base, nPer: nPer, offset: offset}
}

func (fi familyIndex) indexOf(id string, t int) (int, bool) {
	i, ok := fi.base[id]
	if !ok || t < 1 || t > fi.nPer {
		return 0, false
	}
	return fi.offset + i*fi.nPer + (t - 1), true
}

func (fi familyIndex) size() int { return len(fi.ids) * fi.nPer }

// VariableSet is the frozen collection of every materialized family's index
// map, plus the flat lower/upper bound vectors for the whole model. Only
// families with a non-empty backing entity collection are materialized
// Only families whose owning entity collection is non-empty are materialized.
type VariableSet struct {
	horizon int
	indices map[Family]familyIndex
	lower   []float64
	upper   []float64
	names   []string
	kinds   []Kind
	nVars   int
}

// Enabled lists which optional families to materialize; Pump is only ever
// populated for PumpedStorage plants regardless of this flag, since the
// family is meaningless without them.
type Enabled struct {
	Thermal      bool
	Hydro        bool
	Renewable    bool
	Interconnect bool
	Deficit      bool
}

// DefaultEnabled enables every family; callers building a reduced model
// (e.g. a renewable-only sensitivity run) pass a narrower Enabled value.
func DefaultEnabled() Enabled {
	return Enabled{Thermal: true, Hydro: true, Renewable: true, Interconnect: true, Deficit: true}
}

// Create allocates and indexes every decision variable named by sys and en,
// Create is deterministic for a given sys and en. The returned VariableSet is immutable: constraint builders hold
// only a read reference.
func Create(sys *system.System, en Enabled) *VariableSet {
	n := sys.HorizonPeriods
	vs := &VariableSet{horizon: n, indices: map[Family]familyIndex{}}

	addFamily := func(fam Family, ids []string, bounds func(id string) (lo, hi float64)) {
		if len(ids) == 0 {
			return
		}
		fi := newFamilyIndex(ids, n, vs.nVars)
		vs.indices[fam] = fi
		for _, id := range ids {
			lo, hi := bounds(id)
			for t := 1; t <= n; t++ {
				vs.lower = append(vs.lower, lo)
				vs.upper = append(vs.upper, hi)
				vs.names = append(vs.names, fam.String()+"["+id+","+strconv.Itoa(t)+"]")
				vs.kinds = append(vs.kinds, fam.Kind())
			}
		}
		vs.nVars += fi.size()
	}

	if en.Thermal {
		ids := sys.ThermalIds()
		addFamily(GThermal, ids, func(id string) (float64, float64) {
			return 0, mustThermal(sys, id).CapacityMW
		})
		addFamily(UCommit, ids, zero01)
		addFamily(VStartup, ids, zero01)
		addFamily(WShutdown, ids, zero01)
	}

	if en.Hydro {
		hydroIds := sys.HydroIds()
		addFamily(GHydro, hydroIds, func(id string) (float64, float64) {
			h := mustHydro(sys, id)
			return h.MinGenMW, h.MaxGenMW
		})
		addFamily(QOutflow, hydroIds, func(id string) (float64, float64) {
			h := mustHydro(sys, id)
			return h.MinOutflowM3S, h.MaxOutflowM3S
		})
		addFamily(SStorage, runOfRiverExcluded(sys, hydroIds), func(id string) (float64, float64) {
			h := mustHydro(sys, id)
			return h.MinVolumeHm3, h.MaxVolumeHm3
		})
		addFamily(Spill, hydroIds, func(string) (float64, float64) { return 0, posInf })

		var pumpIds []string
		for _, id := range hydroIds {
			if mustHydro(sys, id).Kind == system.PumpedStorage {
				pumpIds = append(pumpIds, id)
			}
		}
		addFamily(Pump, pumpIds, func(string) (float64, float64) { return 0, posInf })
	}

	if en.Renewable {
		renIds := sys.RenewableIds()
		addFamily(GRenew, renIds, func(id string) (float64, float64) {
			r := mustRenewable(sys, id)
			return r.MinGenMW, r.MaxGenMW
		})
		addFamily(Curtail, renIds, func(string) (float64, float64) { return 0, posInf })
	}

	if en.Interconnect {
		addFamily(ICFlow, sys.InterconnectionIds(), func(id string) (float64, float64) {
			ic := mustInterconnection(sys, id)
			return -ic.CapacityMW, ic.CapacityMW
		})
	}

	if en.Deficit {
		addFamily(Deficit, submarketCodes(sys), func(string) (float64, float64) { return 0, posInf })
	}

	return vs
}

const posInf = 1e12 // effectively unbounded above; solverapi maps this to +inf for its backend

func mustThermal(sys *system.System, id string) system.ThermalPlant {
	p, _ := sys.Thermal(id)
	return p
}

func mustHydro(sys *system.System, id string) system.HydroPlant {
	p, _ := sys.Hydro(id)
	return p
}

func mustRenewable(sys *system.System, id string) system.RenewablePlant {
	p, _ := sys.Renewable(id)
	return p
}

func mustInterconnection(sys *system.System, id string) system.Interconnection {
	p, _ := sys.Interconnection(id)
	return p
}

// submarketCodes returns every submarket's Code field, sorted, so the
// Deficit family (and the market-balance rows that index into it) is keyed
// the same way plants resolve their submarket membership: by code, not id.
func submarketCodes(sys *system.System) []string {
	ids := sys.SubmarketIds()
	codes := make([]string, 0, len(ids))
	for _, id := range ids {
		sm, _ := sys.Submarket(id)
		codes = append(codes, sm.Code)
	}
	sort.Strings(codes)
	return codes
}

func runOfRiverExcluded(sys *system.System, ids []string) []string {
	var out []string
	for _, id := range ids {
		if mustHydro(sys, id).Kind != system.RunOfRiver {
			out = append(out, id)
		}
	}
	return out
}

func zero01(string) (float64, float64) { return 0, 1 }

// IndexOf returns the global variable index for (fam, entityId, t), per
// IndexOf. ok is false if the family was not materialized,
// the entity is unknown to that family, or t is out of [1,horizon].
func (vs *VariableSet) IndexOf(fam Family, entityId string, t int) (int, bool) {
	fi, ok := vs.indices[fam]
	if !ok {
		return 0, false
	}
	return fi.indexOf(entityId, t)
}

// HasFamily reports whether fam was materialized (its owning entity
// collection was non-empty).
func (vs *VariableSet) HasFamily(fam Family) bool {
	_, ok := vs.indices[fam]
	return ok
}

// NVars returns the total number of decision variables across all
// materialized families.
func (vs *VariableSet) NVars() int { return vs.nVars }

// Horizon returns the number of periods each family is indexed over.
func (vs *VariableSet) Horizon() int { return vs.horizon }

// LowerBounds returns the flat per-variable lower bound vector.
func (vs *VariableSet) LowerBounds() []float64 { return append([]float64(nil), vs.lower...) }

// UpperBounds returns the flat per-variable upper bound vector.
func (vs *VariableSet) UpperBounds() []float64 { return append([]float64(nil), vs.upper...) }

// VarNames returns the flat per-variable display name vector, used for LP
// file emission and debugging.
func (vs *VariableSet) VarNames() []string { return append([]string(nil), vs.names...) }

// VarKinds returns the flat per-variable domain vector (continuous/binary).
func (vs *VariableSet) VarKinds() []Kind { return append([]Kind(nil), vs.kinds...) }

// LowerBoundsVec returns LowerBounds as a gonum vector. The LP-relaxation
// solve in package solverapi reads the plain slices (Model.Lower/Upper)
// rather than these vectors.
func (vs *VariableSet) LowerBoundsVec() *mat.VecDense {
	return mat.NewVecDense(len(vs.lower), vs.LowerBounds())
}

// UpperBoundsVec returns UpperBounds as a gonum vector.
func (vs *VariableSet) UpperBoundsVec() *mat.VecDense {
	return mat.NewVecDense(len(vs.upper), vs.UpperBounds())
}
