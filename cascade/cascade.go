// Package cascade derives the upstream water-routing topology between hydro
// plants from their downstream pointers.
package cascade

import (
	"math"
	"sort"

	"hydrosched/system"
)

// Link is one upstream contribution to a downstream plant: water released
// (turbined plus spilled) at Upstream during period t-DelayPeriods arrives at
// the downstream plant during period t.
type Link struct {
	Upstream     string
	DelayPeriods int
}

// Topology is the derived cascade graph: for each hydro plant id, the set of
// upstream plants whose release contributes to its inflow, with the travel
// delay expressed in whole periods.
type Topology struct {
	upstream map[string][]Link
	ids      []string
}

// Build derives the cascade topology for sys's hydro plants. System.Build
// already rejects unresolved downstream ids and cycles, so this never
// fails; it exists as a separate build step because the constraint builder
// needs delay expressed in whole periods, not hours, and computing
// that conversion once up front keeps the per-period water-balance loop
// arithmetic-free.
func Build(sys *system.System, periodDurationHours float64) *Topology {
	ids := sys.HydroIds()
	t := &Topology{
		upstream: make(map[string][]Link, len(ids)),
		ids:      append([]string(nil), ids...),
	}
	for _, id := range ids {
		t.upstream[id] = nil
	}
	for _, id := range ids {
		h, _ := sys.Hydro(id)
		if !h.HasDownstream {
			continue
		}
		delay := roundToPeriods(h.WaterTravelTimeH, periodDurationHours)
		t.upstream[h.DownstreamPlantId] = append(t.upstream[h.DownstreamPlantId], Link{
			Upstream:     id,
			DelayPeriods: delay,
		})
	}
	for _, id := range ids {
		links := t.upstream[id]
		sort.Slice(links, func(i, j int) bool { return links[i].Upstream < links[j].Upstream })
	}
	return t
}

// roundToPeriods rounds a travel time in hours to the nearest integer
// multiple of the period duration, expressed as a period count.
func roundToPeriods(travelTimeH, periodDurationHours float64) int {
	if periodDurationHours <= 0 {
		return 0
	}
	return int(math.Round(travelTimeH / periodDurationHours))
}

// Upstream returns the upstream contributions to plantId, in sorted-id
// order. Empty for plants with no upstream neighbors.
func (t *Topology) Upstream(plantId string) []Link {
	return append([]Link(nil), t.upstream[plantId]...)
}

// HasUpstream reports whether plantId receives water from any upstream
// plant.
func (t *Topology) HasUpstream(plantId string) bool {
	return len(t.upstream[plantId]) > 0
}
