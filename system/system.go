package system

import (
	"sort"
	"time"
)

// System is an immutable, validated aggregate of all physical entities for
// one optimization horizon. It is constructed once via Build and never
// mutated afterward; constraint builders and the variable manager hold only
// read references into it.
type System struct {
	BaseDate            time.Time
	HorizonPeriods      int
	PeriodDurationHours float64

	submarkets       map[string]Submarket
	buses            map[string]Bus
	lines            map[string]Line
	interconnections map[string]Interconnection
	thermals         map[string]ThermalPlant
	hydros           map[string]HydroPlant
	renewables       map[string]RenewablePlant
	loads            map[string]Load

	// sorted id caches, computed once at Build time for reproducible
	// iteration order: callers get a stable, sorted-by-id ordering.
	submarketIds       []string
	busIds             []string
	lineIds            []string
	interconnectionIds []string
	thermalIds         []string
	hydroIds           []string
	renewableIds       []string
	loadIds            []string

	codeToSubmarket map[string]string // Submarket.Code -> Submarket.Id
}

// Entities is the input bag passed to Build. Any of the slices may be nil.
type Entities struct {
	BaseDate            time.Time
	HorizonPeriods      int
	PeriodDurationHours float64

	Submarkets       []Submarket
	Buses            []Bus
	Lines            []Line
	Interconnections []Interconnection
	Thermals         []ThermalPlant
	Hydros           []HydroPlant
	Renewables       []RenewablePlant
	Loads            []Load
}

// Build validates all cross-entity invariants and returns an
// immutable System, or an InvalidSystem error. No partially-validated
// System is ever returned.
func Build(e Entities) (*System, error) {
	if e.HorizonPeriods <= 0 {
		return nil, invalidSystem("horizon_periods must be > 0, got %d", e.HorizonPeriods)
	}
	if e.PeriodDurationHours <= 0 {
		return nil, invalidSystem("period_duration_hours must be > 0, got %v", e.PeriodDurationHours)
	}

	s := &System{
		BaseDate:            e.BaseDate,
		HorizonPeriods:      e.HorizonPeriods,
		PeriodDurationHours: e.PeriodDurationHours,
		submarkets:          map[string]Submarket{},
		buses:               map[string]Bus{},
		lines:               map[string]Line{},
		interconnections:    map[string]Interconnection{},
		thermals:            map[string]ThermalPlant{},
		hydros:              map[string]HydroPlant{},
		renewables:          map[string]RenewablePlant{},
		loads:               map[string]Load{},
		codeToSubmarket:     map[string]string{},
	}

	// 6. unique ids per kind, and unique submarket codes.
	for _, sm := range e.Submarkets {
		if _, dup := s.submarkets[sm.Id]; dup {
			return nil, invalidSystem("duplicate submarket id %q", sm.Id)
		}
		if other, dup := s.codeToSubmarket[sm.Code]; dup {
			return nil, invalidSystem("duplicate submarket code %q (ids %q and %q)", sm.Code, other, sm.Id)
		}
		s.submarkets[sm.Id] = sm
		s.codeToSubmarket[sm.Code] = sm.Id
	}
	for _, b := range e.Buses {
		if _, dup := s.buses[b.Id]; dup {
			return nil, invalidSystem("duplicate bus id %q", b.Id)
		}
		s.buses[b.Id] = b
	}
	for _, l := range e.Lines {
		if _, dup := s.lines[l.Id]; dup {
			return nil, invalidSystem("duplicate line id %q", l.Id)
		}
		s.lines[l.Id] = l
	}
	for _, ic := range e.Interconnections {
		if _, dup := s.interconnections[ic.Id]; dup {
			return nil, invalidSystem("duplicate interconnection id %q", ic.Id)
		}
		s.interconnections[ic.Id] = ic
	}
	for _, t := range e.Thermals {
		if _, dup := s.thermals[t.Id]; dup {
			return nil, invalidSystem("duplicate thermal plant id %q", t.Id)
		}
		s.thermals[t.Id] = t
	}
	for _, h := range e.Hydros {
		if _, dup := s.hydros[h.Id]; dup {
			return nil, invalidSystem("duplicate hydro plant id %q", h.Id)
		}
		s.hydros[h.Id] = h
	}
	for _, r := range e.Renewables {
		if _, dup := s.renewables[r.Id]; dup {
			return nil, invalidSystem("duplicate renewable plant id %q", r.Id)
		}
		s.renewables[r.Id] = r
	}
	for _, l := range e.Loads {
		if _, dup := s.loads[l.Id]; dup {
			return nil, invalidSystem("duplicate load id %q", l.Id)
		}
		// missing load profile defaults to flat ones, a documented
		// no-repair exception.
		if l.LoadProfile == nil {
			l.LoadProfile = flatOnes(e.HorizonPeriods)
		}
		s.loads[l.Id] = l
	}

	// 1. bus references (only enforced when a network is present).
	haveBuses := len(s.buses) > 0
	if haveBuses {
		for _, t := range s.thermals {
			if _, ok := s.buses[t.BusId]; !ok {
				return nil, invalidSystem("thermal plant %q references unknown bus %q", t.Id, t.BusId)
			}
		}
		for _, h := range s.hydros {
			if _, ok := s.buses[h.BusId]; !ok {
				return nil, invalidSystem("hydro plant %q references unknown bus %q", h.Id, h.BusId)
			}
		}
		for _, r := range s.renewables {
			if _, ok := s.buses[r.BusId]; !ok {
				return nil, invalidSystem("renewable plant %q references unknown bus %q", r.Id, r.BusId)
			}
		}
		for _, l := range s.loads {
			if l.BusId != "" {
				if _, ok := s.buses[l.BusId]; !ok {
					return nil, invalidSystem("load %q references unknown bus %q", l.Id, l.BusId)
				}
			}
		}
		for _, ln := range s.lines {
			if _, ok := s.buses[ln.FromBusId]; !ok {
				return nil, invalidSystem("line %q references unknown from-bus %q", ln.Id, ln.FromBusId)
			}
			if _, ok := s.buses[ln.ToBusId]; !ok {
				return nil, invalidSystem("line %q references unknown to-bus %q", ln.Id, ln.ToBusId)
			}
		}
	}

	// 2. submarket references: a plant's SubmarketId resolves
	// against Submarket.Code (the short zone code, e.g. "SE"), not
	// Submarket.Id.
	checkSubmarket := func(kind, id, smCode string) error {
		if _, ok := s.codeToSubmarket[smCode]; !ok {
			return invalidSystem("%s %q references unknown submarket code %q", kind, id, smCode)
		}
		return nil
	}
	for _, t := range s.thermals {
		if err := checkSubmarket("thermal plant", t.Id, t.SubmarketId); err != nil {
			return nil, err
		}
	}
	for _, h := range s.hydros {
		if err := checkSubmarket("hydro plant", h.Id, h.SubmarketId); err != nil {
			return nil, err
		}
	}
	for _, r := range s.renewables {
		if err := checkSubmarket("renewable plant", r.Id, r.SubmarketId); err != nil {
			return nil, err
		}
	}
	for _, l := range s.loads {
		if err := checkSubmarket("load", l.Id, l.SubmarketId); err != nil {
			return nil, err
		}
	}
	for _, ic := range s.interconnections {
		if err := checkSubmarket("interconnection", ic.Id, ic.FromSubmarket); err != nil {
			return nil, err
		}
		if err := checkSubmarket("interconnection", ic.Id, ic.ToSubmarket); err != nil {
			return nil, err
		}
	}

	// 3 & 4. downstream references resolve, and the cascade graph is acyclic.
	for _, h := range s.hydros {
		if h.HasDownstream {
			if _, ok := s.hydros[h.DownstreamPlantId]; !ok {
				return nil, invalidSystem("hydro plant %q references unknown downstream plant %q", h.Id, h.DownstreamPlantId)
			}
		}
	}
	if err := checkAcyclic(s.hydros); err != nil {
		return nil, err
	}

	// 5. forecast/profile lengths (enforced again here since Entities may
	// have been assembled by a caller who bypassed the constructors).
	for _, r := range s.renewables {
		if len(r.CapacityForecastMW) < e.HorizonPeriods {
			return nil, invalidSystem("renewable plant %q has capacity_forecast_MW shorter than horizon_periods", r.Id)
		}
	}
	for _, l := range s.loads {
		if len(l.LoadProfile) < e.HorizonPeriods {
			return nil, invalidSystem("load %q has load_profile shorter than horizon_periods", l.Id)
		}
	}
	for _, t := range s.thermals {
		if t.FuelCostSeries != nil && len(t.FuelCostSeries) < e.HorizonPeriods {
			return nil, invalidSystem("thermal plant %q has fuel_cost_series shorter than horizon_periods", t.Id)
		}
	}

	s.submarketIds = sortedKeys(s.submarkets)
	s.busIds = sortedKeys(s.buses)
	s.lineIds = sortedKeys(s.lines)
	s.interconnectionIds = sortedKeys(s.interconnections)
	s.thermalIds = sortedKeys(s.thermals)
	s.hydroIds = sortedKeys(s.hydros)
	s.renewableIds = sortedKeys(s.renewables)
	s.loadIds = sortedKeys(s.loads)

	return s, nil
}

func flatOnes(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}

func sortedKeys[V any](m map[string]V) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

// checkAcyclic walks the downstream pointers of every hydro plant and
// rejects cycles using a three-color DFS.
func checkAcyclic(hydros map[string]HydroPlant) error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(hydros))

	var visit func(id string) error
	visit = func(id string) error {
		switch color[id] {
		case gray:
			return invalidSystem("cascade graph has a cycle involving hydro plant %q", id)
		case black:
			return nil
		}
		color[id] = gray
		h := hydros[id]
		if h.HasDownstream {
			if err := visit(h.DownstreamPlantId); err != nil {
				return err
			}
		}
		color[id] = black
		return nil
	}

	ids := sortedKeys(hydros)
	for _, id := range ids {
		if color[id] == white {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// --- read-only accessors ---

func (s *System) Submarket(id string) (Submarket, bool)       { v, ok := s.submarkets[id]; return v, ok }
func (s *System) Bus(id string) (Bus, bool)                   { v, ok := s.buses[id]; return v, ok }
func (s *System) Line(id string) (Line, bool)                 { v, ok := s.lines[id]; return v, ok }
func (s *System) Interconnection(id string) (Interconnection, bool) {
	v, ok := s.interconnections[id]
	return v, ok
}
func (s *System) Thermal(id string) (ThermalPlant, bool)     { v, ok := s.thermals[id]; return v, ok }
func (s *System) Hydro(id string) (HydroPlant, bool)         { v, ok := s.hydros[id]; return v, ok }
func (s *System) Renewable(id string) (RenewablePlant, bool) { v, ok := s.renewables[id]; return v, ok }
func (s *System) Load(id string) (Load, bool)                { v, ok := s.loads[id]; return v, ok }

// SubmarketByCode looks up a submarket by its unique Code field.
func (s *System) SubmarketByCode(code string) (Submarket, bool) {
	id, ok := s.codeToSubmarket[code]
	if !ok {
		return Submarket{}, false
	}
	return s.submarkets[id], true
}

// SubmarketIds returns all submarket ids in sorted order.
func (s *System) SubmarketIds() []string { return append([]string(nil), s.submarketIds...) }

// ThermalIds returns all thermal plant ids in sorted order.
func (s *System) ThermalIds() []string { return append([]string(nil), s.thermalIds...) }

// HydroIds returns all hydro plant ids in sorted order.
func (s *System) HydroIds() []string { return append([]string(nil), s.hydroIds...) }

// RenewableIds returns all renewable plant ids in sorted order.
func (s *System) RenewableIds() []string { return append([]string(nil), s.renewableIds...) }

// LoadIds returns all load ids in sorted order.
func (s *System) LoadIds() []string { return append([]string(nil), s.loadIds...) }

// InterconnectionIds returns all interconnection ids in sorted order.
func (s *System) InterconnectionIds() []string {
	return append([]string(nil), s.interconnectionIds...)
}

// ThermalsBySubmarket returns thermal plants whose SubmarketId resolves to
// smCode, in sorted-id order.
func (s *System) ThermalsBySubmarket(smCode string) []ThermalPlant {
	var out []ThermalPlant
	for _, id := range s.thermalIds {
		if t := s.thermals[id]; t.SubmarketId == smCode {
			out = append(out, t)
		}
	}
	return out
}

// HydrosBySubmarket returns hydro plants whose SubmarketId resolves to
// smCode, in sorted-id order.
func (s *System) HydrosBySubmarket(smCode string) []HydroPlant {
	var out []HydroPlant
	for _, id := range s.hydroIds {
		if h := s.hydros[id]; h.SubmarketId == smCode {
			out = append(out, h)
		}
	}
	return out
}

// RenewablesBySubmarket returns renewable plants whose SubmarketId matches
// smCode, in sorted-id order.
func (s *System) RenewablesBySubmarket(smCode string) []RenewablePlant {
	var out []RenewablePlant
	for _, id := range s.renewableIds {
		if r := s.renewables[id]; r.SubmarketId == smCode {
			out = append(out, r)
		}
	}
	return out
}

// LoadsBySubmarket returns loads whose SubmarketId resolves to smCode, in
// sorted-id order.
func (s *System) LoadsBySubmarket(smCode string) []Load {
	var out []Load
	for _, id := range s.loadIds {
		if l := s.loads[id]; l.SubmarketId == smCode {
			out = append(out, l)
		}
	}
	return out
}

// InterconnectionsFrom returns interconnections whose FromSubmarket matches
// smCode, in sorted-id order.
func (s *System) InterconnectionsFrom(smCode string) []Interconnection {
	var out []Interconnection
	for _, id := range s.interconnectionIds {
		if ic := s.interconnections[id]; ic.FromSubmarket == smCode {
			out = append(out, ic)
		}
	}
	return out
}

// InterconnectionsTo returns interconnections whose ToSubmarket matches
// smCode, in sorted-id order.
func (s *System) InterconnectionsTo(smCode string) []Interconnection {
	var out []Interconnection
	for _, id := range s.interconnectionIds {
		if ic := s.interconnections[id]; ic.ToSubmarket == smCode {
			out = append(out, ic)
		}
	}
	return out
}
