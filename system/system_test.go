package system

import (
	"strings"
	"testing"
	"time"
)

func mustSubmarket(t *testing.T, id, name, code, country string) Submarket {
	t.Helper()
	sm, err := NewSubmarket(id, name, code, country)
	if err != nil {
		t.Fatalf("NewSubmarket(%q): %v", id, err)
	}
	return sm
}

func mustThermal(t *testing.T, p ThermalPlant) ThermalPlant {
	t.Helper()
	tp, err := NewThermalPlant(p)
	if err != nil {
		t.Fatalf("NewThermalPlant(%q): %v", p.Id, err)
	}
	return tp
}

func mustHydro(t *testing.T, p HydroPlant) HydroPlant {
	t.Helper()
	hp, err := NewHydroPlant(p)
	if err != nil {
		t.Fatalf("NewHydroPlant(%q): %v", p.Id, err)
	}
	return hp
}

func baseThermal(id, smId string) ThermalPlant {
	return ThermalPlant{
		Id: id, BusId: "bus1", SubmarketId: smId, FuelType: FuelNaturalGas,
		CapacityMW: 100, MinGenMW: 10, MaxGenMW: 100,
		RampUpMWMin: 5, RampDownMWMin: 5, FuelCostRsMWh: 200,
	}
}

func baseHydro(id, smId string) HydroPlant {
	return HydroPlant{
		Id: id, BusId: "bus1", SubmarketId: smId, Kind: Reservoir,
		MaxVolumeHm3: 1000, MinVolumeHm3: 100, InitialVolumeHm3: 500,
		MaxOutflowM3S: 500, MinOutflowM3S: 0, MaxGenMW: 200, MinGenMW: 0,
		Efficiency: 0.9,
	}
}

func TestBuildValid(t *testing.T) {
	sm := mustSubmarket(t, "sm1", "Southeast", "sm1", "BR")
	th := mustThermal(t, baseThermal("t1", "sm1"))
	hy := mustHydro(t, baseHydro("h1", "sm1"))
	ld, err := NewLoad("l1", "sm1", "", 100, []float64{1, 1, 1})
	if err != nil {
		t.Fatalf("NewLoad: %v", err)
	}

	sys, err := Build(Entities{
		BaseDate:            time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC),
		HorizonPeriods:      3,
		PeriodDurationHours: 1,
		Submarkets:          []Submarket{sm},
		Thermals:            []ThermalPlant{th},
		Hydros:              []HydroPlant{hy},
		Loads:               []Load{ld},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got, want := sys.ThermalIds(), []string{"t1"}; len(got) != 1 || got[0] != want[0] {
		t.Errorf("ThermalIds() = %v, want %v", got, want)
	}
	if _, ok := sys.Load("l1"); !ok {
		t.Errorf("Load(l1) not found")
	}
}

func TestBuildDefaultsMissingLoadProfile(t *testing.T) {
	sm := mustSubmarket(t, "sm1", "Southeast", "sm1", "BR")
	ld, err := NewLoad("l1", "sm1", "", 50, nil)
	if err != nil {
		t.Fatalf("NewLoad: %v", err)
	}

	sys, err := Build(Entities{
		HorizonPeriods:      4,
		PeriodDurationHours: 1,
		Submarkets:          []Submarket{sm},
		Loads:               []Load{ld},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got, _ := sys.Load("l1")
	if len(got.LoadProfile) != 4 {
		t.Fatalf("LoadProfile length = %d, want 4", len(got.LoadProfile))
	}
	for i, v := range got.LoadProfile {
		if v != 1 {
			t.Errorf("LoadProfile[%d] = %v, want 1", i, v)
		}
	}
	if d := got.DemandAt(2); d != 50 {
		t.Errorf("DemandAt(2) = %v, want 50", d)
	}
}

func TestBuildRejectsUnknownSubmarket(t *testing.T) {
	th := mustThermal(t, baseThermal("t1", "nonexistent"))
	_, err := Build(Entities{
		HorizonPeriods:      1,
		PeriodDurationHours: 1,
		Thermals:            []ThermalPlant{th},
	})
	if err == nil {
		t.Fatal("Build: expected error for unknown submarket reference")
	}
	if !strings.Contains(err.Error(), "unknown submarket") {
		t.Errorf("Build error = %v, want mention of unknown submarket", err)
	}
}

func TestBuildRejectsUnknownBus(t *testing.T) {
	sm := mustSubmarket(t, "sm1", "Southeast", "sm1", "BR")
	bus, err := NewBus("bus1", "Bus 1", 500, 500, true, "", "")
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	th := mustThermal(t, baseThermal("t1", "sm1"))
	th.BusId = "busX"

	_, err = Build(Entities{
		HorizonPeriods:      1,
		PeriodDurationHours: 1,
		Submarkets:          []Submarket{sm},
		Buses:               []Bus{bus},
		Thermals:            []ThermalPlant{th},
	})
	if err == nil {
		t.Fatal("Build: expected error for unknown bus reference")
	}
}

func TestBuildRejectsDuplicateIds(t *testing.T) {
	sm := mustSubmarket(t, "sm1", "Southeast", "sm1", "BR")
	th1 := mustThermal(t, baseThermal("t1", "sm1"))
	th2 := mustThermal(t, baseThermal("t1", "sm1"))

	_, err := Build(Entities{
		HorizonPeriods:      1,
		PeriodDurationHours: 1,
		Submarkets:          []Submarket{sm},
		Thermals:            []ThermalPlant{th1, th2},
	})
	if err == nil {
		t.Fatal("Build: expected error for duplicate thermal id")
	}
}

func TestBuildRejectsDuplicateSubmarketCode(t *testing.T) {
	sm1 := mustSubmarket(t, "sm1", "Southeast", "SE", "BR") // duplicate code on purpose
	sm2 := mustSubmarket(t, "sm2", "Southeast Dup", "SE", "BR")

	_, err := Build(Entities{
		HorizonPeriods:      1,
		PeriodDurationHours: 1,
		Submarkets:          []Submarket{sm1, sm2},
	})
	if err == nil {
		t.Fatal("Build: expected error for duplicate submarket code")
	}
}

func TestBuildRejectsDownstreamCycle(t *testing.T) {
	sm := mustSubmarket(t, "sm1", "Southeast", "sm1", "BR")
	h1 := baseHydro("h1", "sm1")
	h1.HasDownstream = true
	h1.DownstreamPlantId = "h2"
	h1.WaterTravelTimeH = 2
	h1 = mustHydro(t, h1)

	h2 := baseHydro("h2", "sm1")
	h2.HasDownstream = true
	h2.DownstreamPlantId = "h1"
	h2.WaterTravelTimeH = 3
	h2 = mustHydro(t, h2)

	_, err := Build(Entities{
		HorizonPeriods:      1,
		PeriodDurationHours: 1,
		Submarkets:          []Submarket{sm},
		Hydros:              []HydroPlant{h1, h2},
	})
	if err == nil {
		t.Fatal("Build: expected error for cascade cycle")
	}
	if !strings.Contains(err.Error(), "cycle") {
		t.Errorf("Build error = %v, want mention of cycle", err)
	}
}

func TestBuildRejectsUnknownDownstream(t *testing.T) {
	sm := mustSubmarket(t, "sm1", "Southeast", "sm1", "BR")
	h1 := baseHydro("h1", "sm1")
	h1.HasDownstream = true
	h1.DownstreamPlantId = "hX"
	h1.WaterTravelTimeH = 1
	h1 = mustHydro(t, h1)

	_, err := Build(Entities{
		HorizonPeriods:      1,
		PeriodDurationHours: 1,
		Submarkets:          []Submarket{sm},
		Hydros:              []HydroPlant{h1},
	})
	if err == nil {
		t.Fatal("Build: expected error for unknown downstream plant")
	}
}

func TestBuildRejectsShortForecast(t *testing.T) {
	sm := mustSubmarket(t, "sm1", "Southeast", "sm1", "BR")
	rp, err := NewRenewablePlant(RenewablePlant{
		Id: "r1", BusId: "bus1", SubmarketId: "sm1", Kind: Wind,
		InstalledCapacityMW: 50, CapacityForecastMW: []float64{10, 20, 30},
		MaxGenMW: 50,
	}, 3)
	if err != nil {
		t.Fatalf("NewRenewablePlant: %v", err)
	}

	_, err = Build(Entities{
		HorizonPeriods:      5,
		PeriodDurationHours: 1,
		Submarkets:          []Submarket{sm},
		Renewables:          []RenewablePlant{rp},
	})
	if err == nil {
		t.Fatal("Build: expected error for forecast shorter than horizon")
	}
}

func TestBuildRejectsBadHorizon(t *testing.T) {
	if _, err := Build(Entities{HorizonPeriods: 0, PeriodDurationHours: 1}); err == nil {
		t.Fatal("Build: expected error for zero horizon_periods")
	}
	if _, err := Build(Entities{HorizonPeriods: 1, PeriodDurationHours: 0}); err == nil {
		t.Fatal("Build: expected error for zero period_duration_hours")
	}
}

func TestSystemFilteredAccessors(t *testing.T) {
	sm1 := mustSubmarket(t, "sm1", "Southeast", "sm1", "BR")
	sm2 := mustSubmarket(t, "sm2", "South", "sm2", "BR")
	t1 := mustThermal(t, baseThermal("t1", "sm1"))
	t2 := mustThermal(t, baseThermal("t2", "sm2"))

	sys, err := Build(Entities{
		HorizonPeriods:      1,
		PeriodDurationHours: 1,
		Submarkets:          []Submarket{sm1, sm2},
		Thermals:            []ThermalPlant{t1, t2},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got := sys.ThermalsBySubmarket("sm1")
	if len(got) != 1 || got[0].Id != "t1" {
		t.Errorf("ThermalsBySubmarket(sm1) = %v, want [t1]", got)
	}
}
