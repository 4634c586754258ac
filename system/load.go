package system

// Load is a demand block. Effective demand at period t is
// BaseMW * LoadProfile[t-1].
type Load struct {
	Id          string
	SubmarketId string // resolves to a Submarket.Code, not a Submarket.Id
	BusId       string // optional
	BaseMW      float64
	// LoadProfile is multiplicative, non-negative, length >=
	// System.HorizonPeriods. A missing profile defaults to flat ones
	// (System.Build fills this in, it is not an error at construction).
	LoadProfile []float64
}

// NewLoad validates and constructs a Load. If profile is nil, it is left
// nil here; System.Build fills in a flat profile of ones sized to the
// horizon. This is a documented exception to the no-repair rule used elsewhere.
func NewLoad(id, submarketId, busId string, baseMW float64, profile []float64) (Load, error) {
	if id == "" {
		return Load{}, invalid("Load", "Id", id, "non-empty")
	}
	if submarketId == "" {
		return Load{}, invalid("Load", "SubmarketId", submarketId, "non-empty")
	}
	if baseMW < 0 {
		return Load{}, invalid("Load", "BaseMW", baseMW, ">= 0")
	}
	for _, v := range profile {
		if v < 0 {
			return Load{}, invalid("Load", "LoadProfile", v, "non-negative")
		}
	}
	return Load{Id: id, SubmarketId: submarketId, BusId: busId, BaseMW: baseMW, LoadProfile: profile}, nil
}

// DemandAt returns the effective demand at period t (1-indexed), or 0 if out
// of range.
func (l Load) DemandAt(t int) float64 {
	if t < 1 || t > len(l.LoadProfile) {
		return 0
	}
	return l.BaseMW * l.LoadProfile[t-1]
}
