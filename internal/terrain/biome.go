package terrain

import (
	"math"

	"github.com/talgya/planetforge/internal/refmap"
)

// Biome is the climate class of a land cell.
type Biome string

const (
	Arctic     Biome = refmap.Arctic
	Tundra     Biome = refmap.Tundra
	Boreal     Biome = refmap.Boreal
	Forest     Biome = refmap.Forest
	Grasslands Biome = refmap.Grasslands
	Plains     Biome = refmap.Plains
	Desert     Biome = refmap.Desert
	Jungle     Biome = refmap.Jungle
	Swamp      Biome = refmap.Swamp
	Rocky      Biome = refmap.Rocky
	Alpine     Biome = "alpine"
)

// PolarLatitude is the latitude beyond which every land cell is Arctic.
const PolarLatitude = 66.0

// Latitude bands.
const (
	tropicLatitude    = 23.5
	subtropicLatitude = 35.0
	temperateLatitude = 55.0
	subpolarLatitude  = PolarLatitude
	glacierElevation  = 4500.0
	tundraElevation   = 3000.0
	alpineElevation   = 2000.0
	highlandElevation = 1000.0
)

// Classify picks a biome from latitude and elevation alone.
func Classify(lat, elevM float64) Biome {
	if math.Abs(lat) > PolarLatitude {
		return Arctic
	}
	switch {
	case elevM > glacierElevation:
		return Arctic
	case elevM > tundraElevation:
		return Tundra
	case elevM > alpineElevation:
		return Alpine
	}
	b := ClimateBiome(lat)
	if elevM > highlandElevation {
		switch b {
		case Jungle:
			return Forest
		case Forest:
			return Boreal
		case Desert:
			return Rocky
		}
	}
	return b
}

// ClimateBiome is the lowland biome of a latitude band.
func ClimateBiome(lat float64) Biome {
	a := math.Abs(lat)
	switch {
	case a > subpolarLatitude:
		return Arctic
	case a > temperateLatitude:
		return Boreal
	case a > subtropicLatitude:
		return Forest
	case a > tropicLatitude:
		return Desert
	default:
		return Jungle
	}
}

// Normalize turns a source-map terrain tag into a biome for a land cell at
// lat. Relief tags become the latitude's climate biome. ok is false for water
// and unknown tags, which leaves the cell to Classify.
func Normalize(tag string, lat float64) (b Biome, ok bool) {
	if math.Abs(lat) > PolarLatitude {
		return Arctic, true
	}
	switch tag {
	case refmap.Hills, refmap.Mountains:
		return ClimateBiome(lat), true
	case refmap.Arctic, refmap.Tundra, refmap.Boreal, refmap.Forest, refmap.Grasslands,
		refmap.Plains, refmap.Desert, refmap.Jungle, refmap.Swamp, refmap.Rocky:
		return Biome(tag), true
	}
	return "", false
}

// biomeSampler looks up the source-map tag for a target cell. Regional maps
// win inside their windows; otherwise the full-body map is sampled by
// proportional nearest-neighbour.
type biomeSampler struct {
	base    *refmap.Map
	regions []refmap.Region
}

func (s biomeSampler) tag(x, y, w, h int) string {
	lat, lon := Latitude(y, h), Longitude(x, w)
	for _, r := range s.regions {
		if !r.Map.HasTerrain() || !r.Window.Contains(lat, lon) {
			continue
		}
		return windowTag(r, lat, lon)
	}
	if !s.base.HasTerrain() {
		return ""
	}
	rh, rw := len(s.base.Terrain), len(s.base.Terrain[0])
	return s.base.Terrain[sourceIndex(y, h, rh)][sourceIndex(x, w, rw)]
}

func windowTag(r refmap.Region, lat, lon float64) string {
	m, win := r.Map, r.Window
	rh, rw := len(m.Terrain), len(m.Terrain[0])
	fx, fy := 0.0, 0.0
	if span := win.LonMax - win.LonMin; span > 0 {
		fx = (lon - win.LonMin) / span
	}
	if span := win.LatMax - win.LatMin; span > 0 {
		fy = (win.LatMax - lat) / span
	}
	x := min(int(fx*float64(rw)), rw-1)
	y := min(int(fy*float64(rh)), rh-1)
	return m.Terrain[max(y, 0)][max(x, 0)]
}

// assignBiomes fills g.Biomes for every land cell. Underwater cells are left
// empty.
func assignBiomes(g *Grid, s biomeSampler) {
	for y := 0; y < g.Height; y++ {
		lat := Latitude(y, g.Height)
		for x := 0; x < g.Width; x++ {
			e := g.Elevation[y][x]
			if e < 0 {
				g.Biomes[y][x] = ""
				continue
			}
			if b, ok := Normalize(s.tag(x, y, g.Width, g.Height), lat); ok {
				g.Biomes[y][x] = b
				continue
			}
			g.Biomes[y][x] = Classify(lat, e)
		}
	}
}
