package system

// FuelType enumerates recognized thermal fuels.
type FuelType string

const (
	FuelNaturalGas FuelType = "NATURAL_GAS"
	FuelCoal       FuelType = "COAL"
	FuelOil        FuelType = "FUEL_OIL"
	FuelDiesel     FuelType = "DIESEL"
	FuelNuclear    FuelType = "NUCLEAR"
	FuelBiomass    FuelType = "BIOMASS"
	FuelBiogas     FuelType = "BIOGAS"
	FuelOther      FuelType = "OTHER"
)

func validFuelType(f FuelType) bool {
	switch f {
	case FuelNaturalGas, FuelCoal, FuelOil, FuelDiesel, FuelNuclear, FuelBiomass, FuelBiogas, FuelOther:
		return true
	}
	return false
}

// ThermalKind discriminates the ThermalPlant variant.
type ThermalKind int

const (
	Conventional ThermalKind = iota
	CombinedCycle
)

// ThermalPlant is a tagged-variant thermal generating unit. Both variants
// share the same field set, and the constraint builders and objective treat
// them identically; Kind is carried on the entity but no builder reads it.
type ThermalPlant struct {
	Id           string
	Name         string
	Kind         ThermalKind
	BusId        string
	SubmarketId  string // resolves to a Submarket.Code, not a Submarket.Id
	FuelType     FuelType
	CapacityMW   float64
	MinGenMW     float64
	MaxGenMW     float64
	RampUpMWMin  float64
	RampDownMWMin float64
	MinUpHours   int
	MinDownHours int
	FuelCostRsMWh float64
	// FuelCostSeries optionally overrides FuelCostRsMWh per period; if
	// non-nil it must have length >= System.HorizonPeriods.
	FuelCostSeries []float64
	StartupCostRs  float64
	ShutdownCostRs float64
	MustRun        bool
	// InitialCommitment is the unit's on/off state just before period 1,
	// used by the commitment-state-logic constraint in place of u[i,0].
	InitialCommitment bool
}

// NewThermalPlant validates and constructs a ThermalPlant.
func NewThermalPlant(p ThermalPlant) (ThermalPlant, error) {
	if p.Id == "" {
		return ThermalPlant{}, invalid("ThermalPlant", "Id", p.Id, "non-empty")
	}
	if p.BusId == "" {
		return ThermalPlant{}, invalid("ThermalPlant", "BusId", p.BusId, "non-empty")
	}
	if p.SubmarketId == "" {
		return ThermalPlant{}, invalid("ThermalPlant", "SubmarketId", p.SubmarketId, "non-empty")
	}
	if !validFuelType(p.FuelType) {
		return ThermalPlant{}, invalid("ThermalPlant", "FuelType", p.FuelType, "recognized fuel type")
	}
	if p.MinGenMW < 0 || p.MinGenMW > p.MaxGenMW || p.MaxGenMW > p.CapacityMW {
		return ThermalPlant{}, invalid("ThermalPlant", "MinGenMW/MaxGenMW/CapacityMW", p, "0 <= min <= max <= capacity")
	}
	if p.FuelCostRsMWh < 0 || p.StartupCostRs < 0 || p.ShutdownCostRs < 0 {
		return ThermalPlant{}, invalid("ThermalPlant", "costs", p, ">= 0")
	}
	if p.RampUpMWMin <= 0 || p.RampDownMWMin <= 0 {
		return ThermalPlant{}, invalid("ThermalPlant", "RampUpMWMin/RampDownMWMin", p, "> 0")
	}
	if p.MinUpHours < 0 || p.MinDownHours < 0 {
		return ThermalPlant{}, invalid("ThermalPlant", "MinUpHours/MinDownHours", p, ">= 0")
	}
	return p, nil
}

// FuelCostAt returns the effective fuel cost for period t (1-indexed),
// preferring FuelCostSeries when present.
func (p ThermalPlant) FuelCostAt(t int) float64 {
	if p.FuelCostSeries != nil && t >= 1 && t <= len(p.FuelCostSeries) {
		return p.FuelCostSeries[t-1]
	}
	return p.FuelCostRsMWh
}
