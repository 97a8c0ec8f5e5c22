package refmap

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const sampleASC = `ncols 4
nrows 2
xllcorner -180
yllcorner -90
cellsize 90
NODATA_value -9999
1 2 3 4
-100 -9999 8848 0
`

const sampleWBS = `BeginMap
	grid width=3
	grid height=2
EndMap
BeginPlot
	x=0,y=0
	TerrainType=TERRAIN_GRASS
	PlotType=1
EndPlot
BeginPlot
	x=1,y=0
	FeatureType=FEATURE_FOREST, FeatureVariety=0
	TerrainType=TERRAIN_TUNDRA
	PlotType=1
	BonusType=BONUS_IRON
EndPlot
BeginPlot
	x=2,y=0
	TerrainType=TERRAIN_COAST
	PlotType=3
EndPlot
BeginPlot
	x=0,y=1
	TerrainType=TERRAIN_OCEAN
	PlotType=3
	BonusType=BONUS_FISH
EndPlot
BeginPlot
	x=1,y=1
	TerrainType=TERRAIN_DESERT
	PlotType=2
EndPlot
`

const sampleSAV = `[game]
name="test"
[map]
t0000="  aa"
t0001=":gh+"
t0002="mpxd"
[player0]
t0003="zzzz"
`

func TestParseElevation(t *testing.T) {
	m, err := ParseElevation(strings.NewReader(sampleASC))
	require.NoError(t, err)
	require.Equal(t, KindRaster, m.Kind)
	require.Equal(t, 4, m.Width)
	require.Equal(t, 2, m.Height)
	require.NotNil(t, m.NoData)
	require.Equal(t, -9999.0, *m.NoData)
	require.Equal(t, []float64{-100, -9999, 8848, 0}, m.Elevation[1])
}

func TestParseElevationMalformed(t *testing.T) {
	tests := map[string]string{
		"no header":      "1 2 3",
		"short body":     "ncols 2\nnrows 2\n1 2 3",
		"bad value":      "ncols 1\nnrows 1\nabc",
		"bad dimension":  "ncols x\nnrows 1\n1",
		"zero dimension": "ncols 0\nnrows 1\n",
		"huge dimension": "ncols 200000\nnrows 2\n1",
		"huge area":      "ncols 90000\nnrows 90000\n1",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseElevation(strings.NewReader(src))
			require.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestReadElevationMissing(t *testing.T) {
	_, err := ReadElevation(filepath.Join(t.TempDir(), "nope.asc"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestParseCiv4(t *testing.T) {
	m, err := ParseCiv4(strings.NewReader(sampleWBS))
	require.NoError(t, err)
	require.Equal(t, 3, m.Width)
	require.Equal(t, 2, m.Height)

	require.Equal(t, []string{Grasslands, Boreal, Ocean}, m.Terrain[0])
	// (1,1) is desert hills; (2,1) had no plot and gets the default.
	require.Equal(t, []string{DeepSea, Rocky, Rocky}, m.Terrain[1])

	require.Equal(t, []bool{false, false, true}, m.Water[0])
	require.Equal(t, []bool{true, false, false}, m.Water[1])
	require.Equal(t, "metal_ore", m.Resources[0][1])
	require.Equal(t, "organic", m.Resources[1][0])

	// Land stays above water after smoothing.
	require.Greater(t, m.Elevation[0][0], m.Elevation[0][2])
	require.Greater(t, m.Elevation[1][1], m.Elevation[1][0])
	for _, row := range m.Elevation {
		for _, v := range row {
			require.GreaterOrEqual(t, v, 0.0)
			require.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestCiv4Elevation(t *testing.T) {
	tests := []struct {
		name string
		plot civ4Plot
		want float64
	}{
		{"flat grass", civ4Plot{plotType: plotFlat, terrain: "TERRAIN_GRASS"}, 0.65},
		{"flat snow", civ4Plot{plotType: plotFlat, terrain: "TERRAIN_SNOW"}, 0.95},
		{"coast plains", civ4Plot{plotType: plotCoast, terrain: "TERRAIN_PLAINS"}, 0.50},
		{"ocean", civ4Plot{plotType: plotWater, terrain: "TERRAIN_OCEAN"}, 0.35},
		{"sea ice", civ4Plot{plotType: plotWater, terrain: "TERRAIN_UNKNOWN", feature: "FEATURE_ICE"}, 0.20},
		{"glacier", civ4Plot{plotType: plotHills, terrain: "TERRAIN_GRASS", feature: "FEATURE_ICE"}, 0.90},
		{"clamped", civ4Plot{plotType: plotHills, terrain: "TERRAIN_SNOW", feature: "FEATURE_FALLOUT"}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, civ4Elevation(tt.plot), 1e-9)
		})
	}
}

func TestParseCiv4Malformed(t *testing.T) {
	_, err := ParseCiv4(strings.NewReader("BeginPlot\nx=0,y=0\n"))
	require.ErrorIs(t, err, ErrMalformed)

	_, err = ParseCiv4(strings.NewReader("BeginMap\ngrid width=2\ngrid height=2\nEndMap\n"))
	require.ErrorIs(t, err, ErrMalformed)

	_, err = ParseCiv4(strings.NewReader("BeginMap\ngrid width=200000\ngrid height=2\nEndMap\n"))
	require.ErrorIs(t, err, ErrMalformed)
}

func TestParseFreeciv(t *testing.T) {
	m, err := ParseFreeciv(strings.NewReader(sampleSAV))
	require.NoError(t, err)
	require.Equal(t, 4, m.Width)
	require.Equal(t, 3, m.Height)

	require.Equal(t, []string{Ocean, Ocean, Arctic, Arctic}, m.Terrain[0])
	require.Equal(t, []string{DeepSea, Grasslands, Hills, Lake}, m.Terrain[1])
	require.Equal(t, []string{Mountains, Plains, Plains, Desert}, m.Terrain[2])
	require.Equal(t, []bool{true, false, false, true}, m.Water[1])
	require.False(t, m.HasElevation())
}

func TestParseFreecivMalformed(t *testing.T) {
	_, err := ParseFreeciv(strings.NewReader("[map]\n"))
	require.ErrorIs(t, err, ErrMalformed)

	_, err = ParseFreeciv(strings.NewReader("[map]\nt0000=\"ab\"\nt0001=\"abc\"\n"))
	require.ErrorIs(t, err, ErrMalformed)

	_, err = ParseFreeciv(strings.NewReader("[map]\nt0000=\"ab\"\nt0002=\"ab\"\n"))
	require.ErrorIs(t, err, ErrMalformed)

	_, err = ParseFreeciv(strings.NewReader("[map]\nt0001=\"ab\"\n"))
	require.ErrorIs(t, err, ErrMalformed)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRegistrySources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "earth", "elevation.asc"), sampleASC)
	writeFile(t, filepath.Join(dir, "earth", "reference.wbs"), sampleWBS)
	writeFile(t, filepath.Join(dir, "earth", "pattern.sav"), sampleSAV)
	writeFile(t, filepath.Join(dir, "earth", "europe.sav"), sampleSAV)
	writeFile(t, filepath.Join(dir, "earth", "regions.json"),
		`[{"name":"europe","file":"europe.sav","window":{"lat_min":35,"lat_max":70,"lon_min":-10,"lon_max":40}},
		  {"name":"missing","file":"gone.sav","window":{}}]`)
	writeFile(t, filepath.Join(dir, "mars", "pattern.sav"), "[map]\n")

	reg := NewRegistry(dir, nil)
	s := reg.Sources(context.Background(), "Earth")
	require.NotNil(t, s.Raster)
	require.NotNil(t, s.Reference)
	require.NotNil(t, s.Pattern)
	require.Len(t, s.Regions, 1)
	require.Equal(t, "europe", s.Regions[0].Name)
	require.True(t, s.Regions[0].Window.Contains(50, 10))
	require.False(t, s.Regions[0].Window.Contains(10, 10))

	// A malformed pattern map degrades to absent.
	mars := reg.Sources(context.Background(), "Mars")
	require.True(t, mars.Empty())

	require.True(t, reg.Sources(context.Background(), "Pluto").Empty())
}

func TestFileAdapterNotFound(t *testing.T) {
	_, err := RasterAdapter(t.TempDir()).Load(context.Background(), "venus")
	require.ErrorIs(t, err, ErrNotFound)
}

type countingAdapter struct {
	calls int
	err   error
}

func (a *countingAdapter) Load(context.Context, string) (*Map, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return &Map{Kind: KindFreeciv, Width: 1, Height: 1}, nil
}

func TestCachedAdapter(t *testing.T) {
	inner := &countingAdapter{}
	ca := CachedAdapter{Name: "freeciv", Adapter: inner, Cache: NewMemoryCache()}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		m, err := ca.Load(ctx, "Earth")
		require.NoError(t, err)
		require.Equal(t, 1, m.Width)
	}
	require.Equal(t, 1, inner.calls)

	failing := &countingAdapter{err: ErrNotFound}
	ca = CachedAdapter{Name: "raster", Adapter: failing, Cache: NewMemoryCache()}
	for i := 0; i < 2; i++ {
		_, err := ca.Load(ctx, "Earth")
		require.True(t, errors.Is(err, ErrNotFound))
	}
	require.Equal(t, 2, failing.calls)
}

func TestRedisCacheDegradesWhenUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewRedisCache(client, time.Minute)
	defer c.Close()

	ctx := context.Background()
	c.Set(ctx, "earth", &Map{Width: 1})
	_, ok := c.Get(ctx, "earth")
	require.False(t, ok)
}
