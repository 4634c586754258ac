package system

// Interconnection is a submarket-to-submarket transfer capacity.
type Interconnection struct {
	Id            string
	FromSubmarket string // resolves to a Submarket.Code, not a Submarket.Id
	ToSubmarket   string // resolves to a Submarket.Code, not a Submarket.Id
	CapacityMW    float64
	LossPercent   float64 // [0,100)
}

// NewInterconnection validates and constructs an Interconnection.
func NewInterconnection(id, from, to string, capacityMW, lossPercent float64) (Interconnection, error) {
	if id == "" {
		return Interconnection{}, invalid("Interconnection", "Id", id, "non-empty")
	}
	if from == "" || to == "" {
		return Interconnection{}, invalid("Interconnection", "FromSubmarket/ToSubmarket", from+"/"+to, "non-empty")
	}
	if capacityMW < 0 {
		return Interconnection{}, invalid("Interconnection", "CapacityMW", capacityMW, ">= 0")
	}
	if lossPercent < 0 || lossPercent >= 100 {
		return Interconnection{}, invalid("Interconnection", "LossPercent", lossPercent, "in [0,100)")
	}
	return Interconnection{
		Id:            id,
		FromSubmarket: from,
		ToSubmarket:   to,
		CapacityMW:    capacityMW,
		LossPercent:   lossPercent,
	}, nil
}

// LossFrac returns the fractional loss applied at the sending submarket's
// balance: the constraint builder debits the sender by (1-LossFrac())*flow
// while the receiver is credited the full flow. Not double-counted.
func (ic Interconnection) LossFrac() float64 { return ic.LossPercent / 100 }
