// Package stellar holds per-star context: luminosity-derived habitable-zone
// bounds, the frost line, and classification of orbital distances into zones.
package stellar

import "math"

// Zone classifies an orbital distance relative to the habitable zone.
type Zone string

const (
	InnerZone     Zone = "inner_zone"
	HabitableZone Zone = "habitable_zone"
	OuterZone     Zone = "outer_zone"
)

// ZoneModel selects the habitable-zone coefficient pair.
type ZoneModel string

const (
	// Conservative uses 0.95·√L / 1.37·√L. This is the default.
	Conservative ZoneModel = "conservative"
	// Optimistic uses 0.75·√L / 1.77·√L.
	Optimistic ZoneModel = "optimistic"
)

// Bounds is a habitable zone in AU.
type Bounds struct {
	InnerAU float64 `json:"inner_au"`
	OuterAU float64 `json:"outer_au"`
}

// frostLineCoefficient scales √L to the water-ice condensation distance.
const frostLineCoefficient = 4.85

// HabitableBounds returns the conservative habitable zone for a luminosity in
// solar units.
func HabitableBounds(luminosity float64) Bounds {
	return HabitableBoundsFor(Conservative, luminosity)
}

// HabitableBoundsFor returns the habitable zone under the given model. Unknown
// models fall back to Conservative.
func HabitableBoundsFor(model ZoneModel, luminosity float64) Bounds {
	root := math.Sqrt(luminosity)
	if model == Optimistic {
		return Bounds{InnerAU: 0.75 * root, OuterAU: 1.77 * root}
	}
	return Bounds{InnerAU: 0.95 * root, OuterAU: 1.37 * root}
}

// FrostLine returns the frost-line distance in AU.
func FrostLine(luminosity float64) float64 {
	return frostLineCoefficient * math.Sqrt(luminosity)
}

// ClassifyZone places distanceAU relative to hz. Both bounds are inclusive.
func ClassifyZone(distanceAU float64, hz Bounds) Zone {
	switch {
	case distanceAU < hz.InnerAU:
		return InnerZone
	case distanceAU <= hz.OuterAU:
		return HabitableZone
	default:
		return OuterZone
	}
}

// ValidZoneModel reports whether m names a known model.
func ValidZoneModel(m ZoneModel) bool {
	return m == Conservative || m == Optimistic
}
