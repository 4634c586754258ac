package system

import "strconv"

// RenewableKind discriminates the RenewablePlant variant.
type RenewableKind int

const (
	Wind RenewableKind = iota
	Solar
)

// RenewablePlant is a tagged-variant variable-generation unit.
type RenewablePlant struct {
	Id                 string
	Name               string
	Kind               RenewableKind
	BusId              string
	SubmarketId        string // resolves to a Submarket.Code, not a Submarket.Id
	InstalledCapacityMW float64
	// CapacityForecastMW is hourly, 1-indexed by period via index t-1; must
	// have length >= System.HorizonPeriods, each entry in
	// [0, InstalledCapacityMW].
	CapacityForecastMW []float64
	CurtailmentAllowed bool
	MinGenMW           float64
	MaxGenMW           float64
	RampUpMWMin        float64
	RampDownMWMin      float64
	MustRun            bool
}

// NewRenewablePlant validates and constructs a RenewablePlant. Forecast
// length is checked against horizonPeriods (passed by System.Build, which
// is the only place horizon length is known at construction time).
func NewRenewablePlant(p RenewablePlant, horizonPeriods int) (RenewablePlant, error) {
	if p.Id == "" {
		return RenewablePlant{}, invalid("RenewablePlant", "Id", p.Id, "non-empty")
	}
	if p.BusId == "" {
		return RenewablePlant{}, invalid("RenewablePlant", "BusId", p.BusId, "non-empty")
	}
	if p.SubmarketId == "" {
		return RenewablePlant{}, invalid("RenewablePlant", "SubmarketId", p.SubmarketId, "non-empty")
	}
	if p.InstalledCapacityMW < 0 {
		return RenewablePlant{}, invalid("RenewablePlant", "InstalledCapacityMW", p.InstalledCapacityMW, ">= 0")
	}
	if len(p.CapacityForecastMW) < horizonPeriods {
		return RenewablePlant{}, invalid("RenewablePlant", "CapacityForecastMW", len(p.CapacityForecastMW), "length >= horizon_periods")
	}
	for i, v := range p.CapacityForecastMW {
		if v < 0 || v > p.InstalledCapacityMW {
			return RenewablePlant{}, invalid("RenewablePlant", "CapacityForecastMW", v, "in [0, installed_capacity] at index "+strconv.Itoa(i))
		}
	}
	if p.MinGenMW < 0 || p.MinGenMW > p.MaxGenMW {
		return RenewablePlant{}, invalid("RenewablePlant", "MinGenMW/MaxGenMW", p, "0 <= min <= max")
	}
	return p, nil
}

// ForecastAt returns the capacity forecast for period t (1-indexed), or 0 if
// out of range.
func (p RenewablePlant) ForecastAt(t int) float64 {
	if t < 1 || t > len(p.CapacityForecastMW) {
		return 0
	}
	return p.CapacityForecastMW[t-1]
}
