package system

// HydroKind discriminates the HydroPlant variant.
type HydroKind int

const (
	Reservoir HydroKind = iota
	RunOfRiver
	PumpedStorage
)

// DefaultPumpEfficiency is used for PumpedStorage plants that don't specify
// PumpEfficiency explicitly (round-trip pumping efficiency).
const DefaultPumpEfficiency = 0.8

// HydroPlant is a tagged-variant hydro generating unit.
type HydroPlant struct {
	Id           string
	Name         string
	Kind         HydroKind
	BusId        string
	SubmarketId  string // resolves to a Submarket.Code, not a Submarket.Id
	MaxVolumeHm3 float64
	MinVolumeHm3 float64
	InitialVolumeHm3 float64
	MaxOutflowM3S float64
	MinOutflowM3S float64
	MaxGenMW     float64
	MinGenMW     float64
	Efficiency   float64
	WaterValueRsHm3 float64
	// DownstreamPlantId and WaterTravelTimeH are either both set (non-empty
	// id, travel time >= 0) or both absent.
	DownstreamPlantId string
	WaterTravelTimeH  float64
	HasDownstream     bool
	// PumpEfficiency applies only to PumpedStorage plants; defaults to
	// DefaultPumpEfficiency when zero.
	PumpEfficiency float64
}

// NewHydroPlant validates and constructs a HydroPlant.
func NewHydroPlant(p HydroPlant) (HydroPlant, error) {
	if p.Id == "" {
		return HydroPlant{}, invalid("HydroPlant", "Id", p.Id, "non-empty")
	}
	if p.BusId == "" {
		return HydroPlant{}, invalid("HydroPlant", "BusId", p.BusId, "non-empty")
	}
	if p.SubmarketId == "" {
		return HydroPlant{}, invalid("HydroPlant", "SubmarketId", p.SubmarketId, "non-empty")
	}
	if p.HasDownstream != (p.DownstreamPlantId != "") {
		return HydroPlant{}, invalid("HydroPlant", "DownstreamPlantId/WaterTravelTimeH", p, "both set or both absent")
	}
	if p.HasDownstream && p.WaterTravelTimeH < 0 {
		return HydroPlant{}, invalid("HydroPlant", "WaterTravelTimeH", p.WaterTravelTimeH, ">= 0")
	}
	if p.Kind != RunOfRiver {
		if !(p.MinVolumeHm3 <= p.InitialVolumeHm3 && p.InitialVolumeHm3 <= p.MaxVolumeHm3) {
			return HydroPlant{}, invalid("HydroPlant", "MinVolumeHm3/InitialVolumeHm3/MaxVolumeHm3", p, "min <= initial <= max")
		}
	}
	if p.MinOutflowM3S < 0 || p.MinOutflowM3S > p.MaxOutflowM3S {
		return HydroPlant{}, invalid("HydroPlant", "MinOutflowM3S/MaxOutflowM3S", p, "0 <= min <= max")
	}
	if p.Efficiency <= 0 || p.Efficiency > 1 {
		return HydroPlant{}, invalid("HydroPlant", "Efficiency", p.Efficiency, "in (0,1]")
	}
	if p.MinGenMW < 0 || p.MinGenMW > p.MaxGenMW {
		return HydroPlant{}, invalid("HydroPlant", "MinGenMW/MaxGenMW", p, "0 <= min <= max")
	}
	if p.Kind == PumpedStorage {
		if p.PumpEfficiency == 0 {
			p.PumpEfficiency = DefaultPumpEfficiency
		} else if p.PumpEfficiency <= 0 || p.PumpEfficiency > 1 {
			return HydroPlant{}, invalid("HydroPlant", "PumpEfficiency", p.PumpEfficiency, "in (0,1]")
		}
	}
	return p, nil
}

// ProductivityMWPerM3S is the linear hydro production coefficient ρ =
// MaxGenMW / MaxOutflowM3S used by the production-function constraint.
func (p HydroPlant) ProductivityMWPerM3S() float64 {
	if p.MaxOutflowM3S == 0 {
		return 0
	}
	return p.MaxGenMW / p.MaxOutflowM3S
}
