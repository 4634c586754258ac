package varset

import (
	"testing"

	"hydrosched/system"
)

func testSystem(t *testing.T) *system.System {
	t.Helper()
	sm, err := system.NewSubmarket("sm1", "Southeast", "sm1", "BR")
	if err != nil {
		t.Fatalf("NewSubmarket: %v", err)
	}
	th, err := system.NewThermalPlant(system.ThermalPlant{
		Id: "t1", BusId: "bus1", SubmarketId: "sm1", FuelType: system.FuelNaturalGas,
		CapacityMW: 100, MinGenMW: 10, MaxGenMW: 100,
		RampUpMWMin: 5, RampDownMWMin: 5, FuelCostRsMWh: 200,
	})
	if err != nil {
		t.Fatalf("NewThermalPlant: %v", err)
	}
	hy, err := system.NewHydroPlant(system.HydroPlant{
		Id: "h1", BusId: "bus1", SubmarketId: "sm1", Kind: system.Reservoir,
		MaxVolumeHm3: 1000, MinVolumeHm3: 100, InitialVolumeHm3: 500,
		MaxOutflowM3S: 500, MaxGenMW: 200, Efficiency: 0.9,
	})
	if err != nil {
		t.Fatalf("NewHydroPlant: %v", err)
	}
	ror, err := system.NewHydroPlant(system.HydroPlant{
		Id: "h2", BusId: "bus1", SubmarketId: "sm1", Kind: system.RunOfRiver,
		MaxOutflowM3S: 300, MaxGenMW: 80, Efficiency: 0.9,
	})
	if err != nil {
		t.Fatalf("NewHydroPlant(run-of-river): %v", err)
	}

	sys, err := system.Build(system.Entities{
		HorizonPeriods:      4,
		PeriodDurationHours: 1,
		Submarkets:          []system.Submarket{sm},
		Thermals:            []system.ThermalPlant{th},
		Hydros:              []system.HydroPlant{hy, ror},
	})
	if err != nil {
		t.Fatalf("system.Build: %v", err)
	}
	return sys
}

func TestCreateIndexesEveryPeriod(t *testing.T) {
	sys := testSystem(t)
	vs := Create(sys, DefaultEnabled())

	for t1 := 1; t1 <= sys.HorizonPeriods; t1++ {
		if _, ok := vs.IndexOf(GThermal, "t1", t1); !ok {
			t.Errorf("IndexOf(GThermal, t1, %d) not found", t1)
		}
	}
	if _, ok := vs.IndexOf(GThermal, "t1", 0); ok {
		t.Error("IndexOf(GThermal, t1, 0) should be out of range")
	}
	if _, ok := vs.IndexOf(GThermal, "t1", 5); ok {
		t.Error("IndexOf(GThermal, t1, 5) should be out of range for horizon=4")
	}
}

func TestBoundVectorsMatchNVars(t *testing.T) {
	sys := testSystem(t)
	vs := Create(sys, DefaultEnabled())

	if vs.NVars() != len(vs.LowerBounds()) || vs.NVars() != len(vs.UpperBounds()) || vs.NVars() != len(vs.VarNames()) {
		t.Fatalf("NVars=%d inconsistent with bound/name vector lengths %d/%d/%d",
			vs.NVars(), len(vs.LowerBounds()), len(vs.UpperBounds()), len(vs.VarNames()))
	}
	lo, hi := vs.LowerBoundsVec(), vs.UpperBoundsVec()
	if lo.Len() != vs.NVars() || hi.Len() != vs.NVars() {
		t.Errorf("LowerBoundsVec/UpperBoundsVec length mismatch with NVars=%d", vs.NVars())
	}
}

func TestRunOfRiverHasNoStorageVariable(t *testing.T) {
	sys := testSystem(t)
	vs := Create(sys, DefaultEnabled())

	if _, ok := vs.IndexOf(SStorage, "h2", 1); ok {
		t.Error("run-of-river plant h2 should not have an SStorage variable")
	}
	if _, ok := vs.IndexOf(SStorage, "h1", 1); !ok {
		t.Error("reservoir plant h1 should have an SStorage variable")
	}
}

func TestPumpFamilyOnlyForPumpedStorage(t *testing.T) {
	sys := testSystem(t)
	vs := Create(sys, DefaultEnabled())
	if vs.HasFamily(Pump) {
		t.Error("Pump family should not materialize when no plant is PumpedStorage")
	}
}

func TestDisabledFamilyNotMaterialized(t *testing.T) {
	sys := testSystem(t)
	vs := Create(sys, Enabled{Hydro: true})
	if vs.HasFamily(GThermal) {
		t.Error("GThermal should not materialize when Thermal is disabled")
	}
	if !vs.HasFamily(GHydro) {
		t.Error("GHydro should materialize when Hydro is enabled")
	}
}

func TestBinaryVsContinuousKind(t *testing.T) {
	if GThermal.Kind() != Continuous {
		t.Error("GThermal should be Continuous")
	}
	if UCommit.Kind() != Binary {
		t.Error("UCommit should be Binary")
	}
}

func TestEmptySystemMaterializesNoFamilies(t *testing.T) {
	sys, err := system.Build(system.Entities{
		HorizonPeriods:      1,
		PeriodDurationHours: 1,
	})
	if err != nil {
		t.Fatalf("system.Build: %v", err)
	}
	vs := Create(sys, DefaultEnabled())
	if vs.NVars() != 0 {
		t.Errorf("NVars() = %d, want 0 for an entity-free system", vs.NVars())
	}
}
