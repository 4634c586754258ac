package system

import "fmt"

// Bus is an electrical node used only by the optional network wrapper; the
// core dispatch constraints never reference it directly.
type Bus struct {
	Id           string
	Name         string
	VoltageKV    float64
	BaseKV       float64
	IsReference  bool
	AreaId       string
	ZoneId       string
}

// NewBus validates and constructs a Bus.
func NewBus(id, name string, voltageKV, baseKV float64, isReference bool, areaId, zoneId string) (Bus, error) {
	if id == "" {
		return Bus{}, invalid("Bus", "Id", id, "non-empty")
	}
	if voltageKV < 0 {
		return Bus{}, invalid("Bus", "VoltageKV", voltageKV, ">= 0")
	}
	if baseKV <= 0 {
		return Bus{}, invalid("Bus", "BaseKV", baseKV, "> 0")
	}
	return Bus{
		Id:          id,
		Name:        name,
		VoltageKV:   voltageKV,
		BaseKV:      baseKV,
		IsReference: isReference,
		AreaId:      areaId,
		ZoneId:      zoneId,
	}, nil
}

// Line is an AC/DC transmission element at bus level; not used by the core
// dispatch directly, only by the optional DC-equivalent network wrapper.
type Line struct {
	Id         string
	FromBusId  string
	ToBusId    string
	MaxFlowMW  float64
	MinFlowMW  float64
	ResistPU   float64
	ReactPU    float64
	IsDC       bool
}

// NewLine validates and constructs a Line.
func NewLine(id, fromBus, toBus string, minFlowMW, maxFlowMW, resistPU, reactPU float64, isDC bool) (Line, error) {
	if id == "" {
		return Line{}, invalid("Line", "Id", id, "non-empty")
	}
	if fromBus == "" || toBus == "" {
		return Line{}, invalid("Line", "FromBusId/ToBusId", fmt.Sprintf("%s/%s", fromBus, toBus), "non-empty")
	}
	if minFlowMW > maxFlowMW {
		return Line{}, invalid("Line", "MinFlowMW", minFlowMW, "<= MaxFlowMW")
	}
	return Line{
		Id:        id,
		FromBusId: fromBus,
		ToBusId:   toBus,
		MinFlowMW: minFlowMW,
		MaxFlowMW: maxFlowMW,
		ResistPU:  resistPU,
		ReactPU:   reactPU,
		IsDC:      isDC,
	}, nil
}
