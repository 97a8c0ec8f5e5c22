package terrain

import (
	"math/rand"

	"github.com/talgya/planetforge/internal/physics"
	"github.com/talgya/planetforge/internal/rng"
)

// Marker types.
const (
	MarkerLandingSite  = "landing_site"
	MarkerResourceRich = "resource_rich"
	MarkerGeothermal   = "geothermal"
	MarkerWaterAccess  = "water_access"
)

var markerTypes = []string{MarkerLandingSite, MarkerResourceRich, MarkerGeothermal, MarkerWaterAccess}

const (
	markersPerType   = 3
	baseQuality      = 0.5
	landingMaxElev   = 200.0 // m
	geothermalMinEl  = 500.0 // m
	tectonicActivity = 50.0
	volcanicResource = "sulfur"
)

// Resource chance and kind per biome.
var biomeResources = map[Biome]struct {
	chance float64
	kind   string
}{
	Rocky:      {0.15, "metal_ore"},
	Alpine:     {0.15, "metal_ore"},
	Desert:     {0.15, "rare_earth"},
	Tundra:     {0.15, "hydrocarbons"},
	Arctic:     {0.15, "water_ice"},
	Grasslands: {0.10, "organic"},
	Plains:     {0.10, "organic"},
	Swamp:      {0.08, "hydrocarbons"},
	Forest:     {0.05, "timber"},
	Boreal:     {0.05, "timber"},
	Jungle:     {0.05, "organic"},
}

// decorate adds the resource and marker overlays and fills in the
// descriptor's summary fields.
func decorate(g *Grid, req *Request, r *rand.Rand) {
	activity := req.Geosphere.Activity
	volcanic := activity > volcanicActivity

	if g.Resources == nil {
		g.Resources = makeGrid[string](g.Width, g.Height)
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			// One draw per cell keeps the sequence independent of the map.
			roll := r.Float64()
			// Source-map resources, including those offshore, are kept.
			if !g.Land(x, y) || g.Resources[y][x] != "" {
				continue
			}
			res, ok := biomeResources[g.Biomes[y][x]]
			if !ok {
				continue
			}
			chance := res.chance + activity/100*0.1
			if roll >= chance {
				continue
			}
			kind := res.kind
			if volcanic && g.Elevation[y][x] > geothermalMinEl && roll < chance/4 {
				kind = volcanicResource
			}
			g.Resources[y][x] = kind
		}
	}

	g.Markers = placeMarkers(g, r, activity)

	g.Descriptor.Width, g.Descriptor.Height = g.Width, g.Height
	g.Descriptor.BiomeCounts = make(map[Biome]int)
	g.Descriptor.ResourceCounts = make(map[string]int)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if b := g.Biomes[y][x]; b != "" {
				g.Descriptor.BiomeCounts[b]++
			}
			if res := g.Resources[y][x]; res != "" {
				g.Descriptor.ResourceCounts[res]++
			}
		}
	}
	g.Descriptor.Quality = Quality(len(g.Descriptor.ResourceCounts), len(g.Markers))
}

// Quality scores a grid by the variety of its overlays.
func Quality(resourceTypes, markers int) float64 {
	q := baseQuality +
		min(float64(resourceTypes)*0.05, 0.2) +
		min(float64(markers)*0.02, 0.2)
	return physics.Round(q, 2)
}

func placeMarkers(g *Grid, r *rand.Rand, activity float64) []Marker {
	candidates := make(map[string][]Marker, len(markerTypes))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if !g.Land(x, y) {
				continue
			}
			e := g.Elevation[y][x]
			coastal := g.nearWater(x, y)
			add := func(t string) {
				candidates[t] = append(candidates[t], Marker{X: x, Y: y, Type: t})
			}
			if e < landingMaxElev && !coastal {
				add(MarkerLandingSite)
			}
			if g.Resources[y][x] != "" {
				add(MarkerResourceRich)
			}
			if activity > tectonicActivity && e > geothermalMinEl {
				add(MarkerGeothermal)
			}
			if coastal {
				add(MarkerWaterAccess)
			}
		}
	}

	var out []Marker
	for _, t := range markerTypes {
		pool := candidates[t]
		for i := 0; i < markersPerType && len(pool) > 0; i++ {
			j := r.Intn(len(pool))
			m := pool[j]
			m.Value = rng.IntRange(r, 1, 10)
			out = append(out, m)
			pool[j] = pool[len(pool)-1]
			pool = pool[:len(pool)-1]
		}
	}
	return out
}

// nearWater reports whether any 4-neighbour of a cell is under water.
// Columns wrap around the antimeridian.
func (g *Grid) nearWater(x, y int) bool {
	for _, d := range [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		nx := (x + d[0] + g.Width) % g.Width
		ny := y + d[1]
		if ny < 0 || ny >= g.Height {
			continue
		}
		if g.Elevation[ny][nx] < 0 {
			return true
		}
	}
	return false
}
