package terrain

import (
	"slices"

	"github.com/talgya/planetforge/internal/physics"
)

const (
	// AverageOceanDepth converts a water volume into a flooded area.
	AverageOceanDepth = 3700.0 // m

	// CoastBand is how far above sea level unguided cells may be lowered to
	// reach the target flooded area.
	CoastBand = 50.0 // m
)

// Calibration reports the outcome of a bathtub calibration. SeaLevel is in the
// input's elevation units, before the grid was shifted to put it at 0.
type Calibration struct {
	SeaLevel        float64 `json:"sea_level"`
	TargetFraction  float64 `json:"target_water_fraction"`
	FloodedFraction float64 `json:"flooded_fraction"`
	GuideCells      int     `json:"guide_cells"`
	Lowered         int     `json:"lowered_cells"`
}

// FloodedFraction returns the surface share a water mass covers at the
// average ocean depth.
func FloodedFraction(waterMass, radius float64) float64 {
	area := physics.SphereArea(radius)
	if area <= 0 {
		return 0
	}
	volume := waterMass / physics.WaterDensity
	return physics.Clamp(volume/AverageOceanDepth/area, 0, 1)
}

// Calibrate fixes the sea level of elev in place so the flooded share of
// cells matches what targetMass of water covers on a body of the given
// radius. Guide cells (guide may be nil) always end up at least 1 m under
// water. The grid is shifted so the resulting sea level is 0.
func Calibrate(elev [][]float64, guide [][]bool, targetMass, radius float64) Calibration {
	cal := Calibration{TargetFraction: FloodedFraction(targetMass, radius)}

	var sorted []float64
	for _, row := range elev {
		sorted = append(sorted, row...)
	}
	n := len(sorted)
	if n == 0 {
		return cal
	}
	slices.Sort(sorted)

	k := int(cal.TargetFraction*float64(n) + 0.5)
	var sea float64
	switch {
	case k <= 0:
		sea = sorted[0]
	case k >= n:
		sea = sorted[n-1] + 1
	default:
		sea = sorted[k]
	}
	cal.SeaLevel = sea

	isGuide := func(x, y int) bool {
		return y < len(guide) && x < len(guide[y]) && guide[y][x]
	}

	flooded := 0
	for y, row := range elev {
		for x := range row {
			if isGuide(x, y) {
				cal.GuideCells++
				if row[x] > sea-1 {
					row[x] = sea - 1
				}
			}
			if row[x] < sea {
				flooded++
			}
		}
	}

	if deficit := k - flooded; deficit > 0 {
		type cell struct {
			x, y int
			e    float64
		}
		var band []cell
		for y, row := range elev {
			for x, e := range row {
				if !isGuide(x, y) && e >= sea && e < sea+CoastBand {
					band = append(band, cell{x, y, e})
				}
			}
		}
		slices.SortStableFunc(band, func(a, b cell) int {
			switch {
			case a.e < b.e:
				return -1
			case a.e > b.e:
				return 1
			}
			return 0
		})
		for _, c := range band[:min(deficit, len(band))] {
			elev[c.y][c.x] = sea - 1
			flooded++
			cal.Lowered++
		}
	}

	for _, row := range elev {
		for x := range row {
			row[x] -= sea
		}
	}
	cal.FloodedFraction = float64(flooded) / float64(n)
	return cal
}
