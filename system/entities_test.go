package system

import "testing"

func TestNewThermalPlant(t *testing.T) {
	cases := []struct {
		name    string
		p       ThermalPlant
		wantErr bool
	}{
		{"valid", baseThermal("t1", "sm1"), false},
		{"missing bus", func() ThermalPlant { p := baseThermal("t1", "sm1"); p.BusId = ""; return p }(), true},
		{"bad fuel", func() ThermalPlant { p := baseThermal("t1", "sm1"); p.FuelType = "MAGIC"; return p }(), true},
		{"min over max", func() ThermalPlant { p := baseThermal("t1", "sm1"); p.MinGenMW = 200; return p }(), true},
		{"max over capacity", func() ThermalPlant { p := baseThermal("t1", "sm1"); p.MaxGenMW = 1000; return p }(), true},
		{"negative cost", func() ThermalPlant { p := baseThermal("t1", "sm1"); p.FuelCostRsMWh = -1; return p }(), true},
		{"zero ramp", func() ThermalPlant { p := baseThermal("t1", "sm1"); p.RampUpMWMin = 0; return p }(), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewThermalPlant(c.p)
			if (err != nil) != c.wantErr {
				t.Errorf("NewThermalPlant() err = %v, wantErr %v", err, c.wantErr)
			}
		})
	}
}

func TestThermalFuelCostAt(t *testing.T) {
	p := baseThermal("t1", "sm1")
	p.FuelCostRsMWh = 100
	p.FuelCostSeries = []float64{110, 120, 130}
	if got := p.FuelCostAt(2); got != 120 {
		t.Errorf("FuelCostAt(2) = %v, want 120", got)
	}
	if got := p.FuelCostAt(10); got != 100 {
		t.Errorf("FuelCostAt(10) (out of range) = %v, want fallback 100", got)
	}
}

func TestNewHydroPlant(t *testing.T) {
	cases := []struct {
		name    string
		p       HydroPlant
		wantErr bool
	}{
		{"valid", baseHydro("h1", "sm1"), false},
		{"bad volume order", func() HydroPlant { p := baseHydro("h1", "sm1"); p.InitialVolumeHm3 = 5000; return p }(), true},
		{"downstream without time", func() HydroPlant {
			p := baseHydro("h1", "sm1")
			p.HasDownstream = true
			p.DownstreamPlantId = ""
			return p
		}(), true},
		{"bad efficiency", func() HydroPlant { p := baseHydro("h1", "sm1"); p.Efficiency = 0; return p }(), true},
		{"run of river skips volume check", func() HydroPlant {
			p := baseHydro("h1", "sm1")
			p.Kind = RunOfRiver
			p.InitialVolumeHm3 = 99999
			return p
		}(), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewHydroPlant(c.p)
			if (err != nil) != c.wantErr {
				t.Errorf("NewHydroPlant() err = %v, wantErr %v", err, c.wantErr)
			}
		})
	}
}

func TestHydroPumpedStorageDefaultEfficiency(t *testing.T) {
	p := baseHydro("h1", "sm1")
	p.Kind = PumpedStorage
	p.PumpEfficiency = 0
	got, err := NewHydroPlant(p)
	if err != nil {
		t.Fatalf("NewHydroPlant: %v", err)
	}
	if got.PumpEfficiency != DefaultPumpEfficiency {
		t.Errorf("PumpEfficiency = %v, want default %v", got.PumpEfficiency, DefaultPumpEfficiency)
	}
}

func TestHydroProductivity(t *testing.T) {
	p := baseHydro("h1", "sm1")
	p.MaxGenMW = 200
	p.MaxOutflowM3S = 400
	if got := p.ProductivityMWPerM3S(); got != 0.5 {
		t.Errorf("ProductivityMWPerM3S() = %v, want 0.5", got)
	}
	p.MaxOutflowM3S = 0
	if got := p.ProductivityMWPerM3S(); got != 0 {
		t.Errorf("ProductivityMWPerM3S() with zero outflow = %v, want 0", got)
	}
}

func TestNewRenewablePlant(t *testing.T) {
	valid := RenewablePlant{
		Id: "r1", BusId: "bus1", SubmarketId: "sm1", Kind: Solar,
		InstalledCapacityMW: 100, CapacityForecastMW: []float64{10, 20, 30},
		MaxGenMW: 100,
	}
	if _, err := NewRenewablePlant(valid, 3); err != nil {
		t.Errorf("NewRenewablePlant(valid) err = %v, want nil", err)
	}
	if _, err := NewRenewablePlant(valid, 5); err == nil {
		t.Error("NewRenewablePlant(short forecast) err = nil, want error")
	}
	over := valid
	over.CapacityForecastMW = []float64{10, 200, 30}
	if _, err := NewRenewablePlant(over, 3); err == nil {
		t.Error("NewRenewablePlant(forecast exceeding installed capacity) err = nil, want error")
	}
}

func TestRenewableForecastAt(t *testing.T) {
	p, err := NewRenewablePlant(RenewablePlant{
		Id: "r1", BusId: "bus1", SubmarketId: "sm1", Kind: Wind,
		InstalledCapacityMW: 50, CapacityForecastMW: []float64{5, 15, 25},
		MaxGenMW: 50,
	}, 3)
	if err != nil {
		t.Fatalf("NewRenewablePlant: %v", err)
	}
	if got := p.ForecastAt(2); got != 15 {
		t.Errorf("ForecastAt(2) = %v, want 15", got)
	}
	if got := p.ForecastAt(0); got != 0 {
		t.Errorf("ForecastAt(0) = %v, want 0", got)
	}
}

func TestNewLoad(t *testing.T) {
	if _, err := NewLoad("", "sm1", "", 10, nil); err == nil {
		t.Error("NewLoad(empty id) err = nil, want error")
	}
	if _, err := NewLoad("l1", "sm1", "", -1, nil); err == nil {
		t.Error("NewLoad(negative baseMW) err = nil, want error")
	}
	if _, err := NewLoad("l1", "sm1", "", 10, []float64{1, -1}); err == nil {
		t.Error("NewLoad(negative profile entry) err = nil, want error")
	}
}

func TestNewInterconnection(t *testing.T) {
	if _, err := NewInterconnection("ic1", "sm1", "sm2", 100, 2); err != nil {
		t.Errorf("NewInterconnection(valid) err = %v, want nil", err)
	}
	if _, err := NewInterconnection("ic1", "sm1", "sm2", -1, 2); err == nil {
		t.Error("NewInterconnection(negative capacity) err = nil, want error")
	}
	if _, err := NewInterconnection("ic1", "sm1", "sm2", 100, 100); err == nil {
		t.Error("NewInterconnection(loss >= 100) err = nil, want error")
	}
	ic, _ := NewInterconnection("ic1", "sm1", "sm2", 100, 10)
	if got := ic.LossFrac(); got != 0.1 {
		t.Errorf("LossFrac() = %v, want 0.1", got)
	}
}

func TestNewBusAndLine(t *testing.T) {
	bus, err := NewBus("b1", "Bus 1", 500, 500, true, "a1", "z1")
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	if _, err := NewLine("ln1", bus.Id, "b2", 0, 100, 0.01, 0.1, false); err != nil {
		t.Errorf("NewLine(valid) err = %v, want nil", err)
	}
	if _, err := NewLine("ln1", bus.Id, "b2", 100, 0, 0.01, 0.1, false); err == nil {
		t.Error("NewLine(min > max) err = nil, want error")
	}
}
