// Package inflow supplies exogenous natural inflow data to the hydro water
// balance builder. It is treated as a pluggable capability rather than a
// System field, following the teacher's treatment of the external cyclus
// process boundary (scen.Scenario.GenCyclusInfile/Run) as a capability the
// caller wires in rather than data embedded in the scenario itself.
package inflow

import "log"

// Provider supplies the natural inflow at a hydro plant for a given period,
// in m3/s. Out-of-range or unknown (plant_id, t) pairs must return 0 with a
// warning logged by the caller, never a fabricated value.
type Provider interface {
	HourlyM3S(plantId string, t int) (float64, bool)
}

// Table is a simple in-memory Provider backed by a plantId -> per-period
// slice map, the natural representation for inflow series parsed from an
// external source (out of scope here; the core only consumes the
// interface).
type Table struct {
	series map[string][]float64
}

// NewTable builds a Table from a plantId -> hourly m3/s series map. Series
// are 1-indexed by period via index t-1, same convention as
// RenewablePlant.CapacityForecastMW and Load.LoadProfile.
func NewTable(series map[string][]float64) *Table {
	cp := make(map[string][]float64, len(series))
	for id, s := range series {
		cp[id] = append([]float64(nil), s...)
	}
	return &Table{series: cp}
}

// HourlyM3S implements Provider.
func (t *Table) HourlyM3S(plantId string, period int) (float64, bool) {
	s, ok := t.series[plantId]
	if !ok || period < 1 || period > len(s) {
		return 0, false
	}
	return s[period-1], true
}

// Lookup wraps a Provider with the miss-defaults-to-zero-plus-warning policy
// the hydro balance builder calls this instead of
// the raw Provider so every miss is logged exactly once per call site, the
// way the teacher logs recoverable scenario-build anomalies via the
// standard library log package rather than silently defaulting.
func Lookup(p Provider, plantId string, t int) float64 {
	if p == nil {
		log.Printf("inflow: no provider configured, defaulting plant %q period %d to 0", plantId, t)
		return 0
	}
	v, ok := p.HourlyM3S(plantId, t)
	if !ok {
		log.Printf("inflow: missing data for plant %q period %d, defaulting to 0", plantId, t)
		return 0
	}
	return v
}
