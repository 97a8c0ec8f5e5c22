package physics

import (
	"maps"
	"slices"
)

// NormalizePercent rescales the non-negative values of m in place so they sum
// to 100, rounding each to the given decimal places. Negative entries are
// zeroed first. An all-zero map is left unchanged.
func NormalizePercent(m map[string]float64, places int) {
	for k, v := range m {
		if v < 0 {
			m[k] = 0
		}
	}
	total := Sum(m)
	if total <= 0 {
		return
	}
	for k, v := range m {
		m[k] = Round(v/total*100, places)
	}
}

// Sum adds the map's values in key order, so equal maps give bit-identical
// totals.
func Sum(m map[string]float64) float64 {
	total := 0.0
	for _, k := range slices.Sorted(maps.Keys(m)) {
		total += m[k]
	}
	return total
}
