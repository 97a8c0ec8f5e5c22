package terrain

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/planetforge/internal/body"
	"github.com/talgya/planetforge/internal/physics"
)

// Analysis holds the physical heuristics that shape algorithmic terrain.
type Analysis struct {
	Complexity     float64 `json:"terrain_complexity"` // 0.1–1
	BiomeDensity   float64 `json:"biome_density"`      // 0–0.8
	ElevationScale float64 `json:"elevation_scale"`    // 0.5–2
	Volcanic       bool    `json:"volcanic"`
	WaterCoverage  float64 `json:"water_coverage"` // percent
}

// Analyze derives the terrain heuristics for a request.
func Analyze(req *Request) Analysis {
	b := req.Body
	radiusKm := b.Radius / 1000
	pressure := req.Atmosphere.Pressure
	temp := req.Atmosphere.Temperature

	a := Analysis{
		Volcanic:      req.Geosphere.Activity > volcanicActivity,
		WaterCoverage: waterCoverage(req),
	}

	c := 0.5
	switch {
	case radiusKm > 10000:
		c += 0.3
	case radiusKm < 5000:
		c -= 0.2
	}
	if a.Volcanic {
		c += 0.2
	}
	if pressure > 1 {
		c += 0.1
	}
	a.Complexity = physics.Clamp(c, 0.1, 1)

	d := 0.0
	switch {
	case temp >= physics.FreezingPoint && temp <= physics.BoilingPoint:
		d += 0.4
	case temp >= 200 && temp <= 400:
		d += 0.2
	}
	d += a.WaterCoverage / 100 * 0.3
	if pressure >= 0.1 && pressure <= 10 {
		d += 0.2
	}
	if b.MagneticField {
		d += 0.1
	}
	a.BiomeDensity = physics.Clamp(d, 0, 0.8)

	a.ElevationScale = elevationScale(b)
	return a
}

// elevationScale grows with size and shrinks with density.
func elevationScale(b body.Profile) float64 {
	radiusKm := b.Radius / 1000
	density := b.Density() / 1000 // g/cm³
	if radiusKm <= 1 || density <= 0 {
		return 0.5
	}
	return physics.Clamp(math.Log10(radiusKm)*(6/density), 0.5, 2)
}

// waterCoverage is the percent of the surface under oceans, lakes or ice.
func waterCoverage(req *Request) float64 {
	bs := req.Hydrosphere.Bodies
	total := 0.0
	if bs.Oceans != nil {
		total += bs.Oceans.Coverage
	}
	if bs.Lakes != nil {
		total += bs.Lakes.Coverage
	}
	if bs.IceCaps != nil {
		total += bs.IceCaps.Coverage
	}
	return physics.Clamp(total, 0, 100)
}

// octaveNoise samples fractal noise in three dimensions, normalised to [0,1].
func octaveNoise(noise opensimplex.Noise, x, y, z float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval3(x*frequency, y*frequency, z*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// spherePoint maps a grid cell centre onto the unit sphere.
func spherePoint(x, y, w, h int) (px, py, pz float64) {
	lat := Latitude(y, h) * math.Pi / 180
	lon := Longitude(x, w) * math.Pi / 180
	return math.Cos(lat) * math.Cos(lon), math.Cos(lat) * math.Sin(lon), math.Sin(lat)
}
