package terrain

import (
	"context"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/planetforge/internal/physics"
	"github.com/talgya/planetforge/internal/refmap"
	"github.com/talgya/planetforge/internal/rng"
)

// GroundTruth downsamples an authoritative elevation raster and classifies
// biomes from whichever hand-authored map is available.
type GroundTruth struct{}

func (GroundTruth) Source() Source { return SourceGroundTruth }

func (GroundTruth) Attempt(_ context.Context, req *Request) (*Grid, bool) {
	raster := req.Sources.Raster
	if !raster.HasElevation() {
		return nil, false
	}

	g := newGrid(req.Width, req.Height)
	g.Elevation = AreaAverage(maskNoData(raster), req.Width, req.Height)

	base := req.Sources.Reference
	if !base.HasTerrain() {
		base = req.Sources.Pattern
	}
	assignBiomes(g, biomeSampler{base: base, regions: req.Sources.Regions})
	g.Descriptor.Files = sourceFiles(raster, base, req.Sources.Regions)
	return g, true
}

// maskNoData replaces the raster's declared no-data value with NaN so it is
// dropped by AreaAverage along with out-of-range sentinels.
func maskNoData(m *refmap.Map) [][]float64 {
	if m.NoData == nil {
		return m.Elevation
	}
	nd := *m.NoData
	out := makeGrid[float64](m.Width, m.Height)
	for y, row := range m.Elevation {
		for x, v := range row {
			if v == nd {
				v = math.NaN()
			}
			out[y][x] = v
		}
	}
	return out
}

// AdjustedReference uses a hand-authored map's elevation and coastline,
// re-levelled against the body's water budget.
type AdjustedReference struct{}

func (AdjustedReference) Source() Source { return SourceAdjustedReference }

func (AdjustedReference) Attempt(_ context.Context, req *Request) (*Grid, bool) {
	ref := req.Sources.Reference
	if !ref.HasElevation() || len(ref.Water) == 0 {
		return nil, false
	}
	a := Analyze(req)
	g := calibrated(req, toMetres(ref.Elevation, a.ElevationScale), ref.Water)
	g.Descriptor.Analysis = &a

	assignBiomes(g, biomeSampler{base: ref, regions: req.Sources.Regions})
	if len(ref.Resources) > 0 {
		g.Resources = Nearest(ref.Resources, req.Width, req.Height)
	}
	g.Descriptor.Files = sourceFiles(ref, nil, req.Sources.Regions)
	return g, true
}

// PatternReference builds elevation from a land/water pattern's terrain
// types, then calibrates it like AdjustedReference.
type PatternReference struct{}

func (PatternReference) Source() Source { return SourcePatternReference }

// Representative normalised elevation per terrain tag.
var elevationHints = map[string]float64{
	refmap.Ocean:      0.10,
	refmap.Lake:       0.10,
	refmap.DeepSea:    0.05,
	refmap.Swamp:      0.30,
	refmap.Jungle:     0.40,
	refmap.Grasslands: 0.45,
	refmap.Plains:     0.45,
	refmap.Desert:     0.50,
	refmap.Forest:     0.55,
	refmap.Tundra:     0.65,
	refmap.Boreal:     0.70,
	refmap.Arctic:     0.75,
	refmap.Rocky:      0.80,
	refmap.Hills:      0.80,
	refmap.Mountains:  0.80,
}

const (
	defaultHint     = 0.45
	hintJitter      = 0.2
	smoothingPasses = 3
	smoothingKeep   = 0.6
)

func (PatternReference) Attempt(_ context.Context, req *Request) (*Grid, bool) {
	pat := req.Sources.Pattern
	if !pat.HasTerrain() {
		return nil, false
	}
	water := pat.Water
	if len(water) == 0 {
		water = makeGrid[bool](pat.Width, pat.Height)
		for y, row := range pat.Terrain {
			for x, tag := range row {
				water[y][x] = refmap.IsWaterTag(tag)
			}
		}
	}

	a := Analyze(req)
	base := patternElevation(pat, rng.Derive(req.Seed, "terrain:pattern"))
	g := calibrated(req, toMetres(base, a.ElevationScale), water)
	g.Descriptor.Analysis = &a

	assignBiomes(g, biomeSampler{base: pat, regions: req.Sources.Regions})
	g.Descriptor.Files = sourceFiles(pat, nil, req.Sources.Regions)
	return g, true
}

// patternElevation turns terrain tags into a smoothed normalised elevation
// field. Noise perturbs each cell within ±hintJitter of its tag's hint.
func patternElevation(pat *refmap.Map, seed int64) [][]float64 {
	noise := opensimplex.NewNormalized(seed)
	out := makeGrid[float64](pat.Width, pat.Height)
	for y, row := range pat.Terrain {
		for x, tag := range row {
			hint, ok := elevationHints[tag]
			if !ok {
				hint = defaultHint
			}
			px, py, pz := spherePoint(x, y, pat.Width, pat.Height)
			n := octaveNoise(noise, px, py, pz, 4, 3, 0.5)
			out[y][x] = physics.Clamp(hint+(n-0.5)*2*hintJitter, 0, 1)
		}
	}
	for i := 0; i < smoothingPasses; i++ {
		out = refmap.Smooth(out, smoothingKeep)
	}
	return out
}

// reliefPerUnit is the metres spanned by one unit of normalised elevation at
// elevation scale 1.
const reliefPerUnit = 10000.0

// toMetres converts a normalised [0,1] field, centred on 0.5, to metres.
func toMetres(src [][]float64, elevationScale float64) [][]float64 {
	out := make([][]float64, len(src))
	for y, row := range src {
		out[y] = make([]float64, len(row))
		for x, v := range row {
			out[y][x] = (v - 0.5) * reliefPerUnit * elevationScale
		}
	}
	return out
}

// calibrated resamples a metre field and its water mask to the target size
// and runs the bathtub calibration against the body's total water mass.
func calibrated(req *Request, elevM [][]float64, water [][]bool) *Grid {
	g := newGrid(req.Width, req.Height)
	g.Elevation = AreaAverage(elevM, req.Width, req.Height)
	guide := Nearest(water, req.Width, req.Height)
	cal := Calibrate(g.Elevation, guide, req.Hydrosphere.TotalMass, req.Body.Radius)
	g.Descriptor.Calibration = &cal
	req.logger().Debug("sea level calibrated",
		"target_fraction", cal.TargetFraction,
		"flooded_fraction", cal.FloodedFraction,
		"guide_cells", cal.GuideCells,
		"lowered", cal.Lowered,
	)
	return g
}

// Algorithmic generates terrain from physical heuristics alone. It never
// declines.
type Algorithmic struct{}

func (Algorithmic) Source() Source { return SourceAlgorithmic }

func (a Algorithmic) Attempt(_ context.Context, req *Request) (*Grid, bool) {
	return a.generate(req), true
}

const (
	maxBiomeDensity  = 0.8
	baseOctaves      = 3
	basePersistence  = 0.5
	coldBarrenK      = 200.0
	hotBarrenK       = 330.0
	volcanicActivity = 60.0
)

func (Algorithmic) generate(req *Request) *Grid {
	an := Analyze(req)
	r := rng.For(req.Seed, "terrain:algorithmic")
	elevNoise := opensimplex.NewNormalized(r.Int63())
	lifeNoise := opensimplex.NewNormalized(r.Int63())

	octaves := baseOctaves + int(an.Complexity*4+0.5)
	frequency := 1 + an.Complexity*2
	relief := reliefPerUnit * an.ElevationScale

	w, h := req.Width, req.Height
	g := newGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px, py, pz := spherePoint(x, y, w, h)
			v := octaveNoise(elevNoise, px, py, pz, octaves, frequency, basePersistence)
			g.Elevation[y][x] = (v - 0.5) * relief
		}
	}

	// Frozen water stays on the surface as ice, so only liquid water floods.
	liquid := req.Hydrosphere.LiquidVolume() * physics.WaterDensity
	cal := Calibrate(g.Elevation, nil, liquid, req.Body.Radius)
	g.Descriptor.Calibration = &cal
	g.Descriptor.Analysis = &an

	barren := barrenBiome(req.Atmosphere.Temperature)
	for y := 0; y < h; y++ {
		lat := Latitude(y, h)
		for x := 0; x < w; x++ {
			e := g.Elevation[y][x]
			if e < 0 {
				continue
			}
			px, py, pz := spherePoint(x, y, w, h)
			if octaveNoise(lifeNoise, px, py, pz, 3, 4, 0.5) < an.BiomeDensity/maxBiomeDensity {
				g.Biomes[y][x] = Classify(lat, e)
			} else {
				g.Biomes[y][x] = barren
			}
		}
	}
	return g
}

// barrenBiome is the biome of lifeless ground at a surface temperature.
func barrenBiome(tempK float64) Biome {
	switch {
	case tempK < coldBarrenK:
		return Arctic
	case tempK > hotBarrenK:
		return Desert
	default:
		return Rocky
	}
}

func sourceFiles(primary, secondary *refmap.Map, regions []refmap.Region) []string {
	var out []string
	for _, m := range []*refmap.Map{primary, secondary} {
		if m != nil && m.Path != "" {
			out = append(out, m.Path)
		}
	}
	for _, r := range regions {
		if r.Map != nil && r.Map.Path != "" {
			out = append(out, r.Map.Path)
		}
	}
	return out
}
