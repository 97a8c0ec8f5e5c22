// Package terrain builds a body's elevation and biome grid. Generation tries a
// priority-ordered list of strategies, from ground-truth rasters down to a
// purely algorithmic fallback, and then decorates the winning grid with
// resource and marker overlays.
package terrain

import "github.com/talgya/planetforge/internal/physics"

// Source records which strategy produced a grid.
type Source string

const (
	SourceGroundTruth       Source = "ground_truth_raster"
	SourceAdjustedReference Source = "adjusted_reference_map"
	SourcePatternReference  Source = "pattern_reference_map"
	SourceAlgorithmic       Source = "algorithmic"
)

// Marker is a strategic point of interest on the grid.
type Marker struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Type  string `json:"type"`
	Value int    `json:"value"`
}

// Descriptor records provenance and summary statistics of a grid.
type Descriptor struct {
	Source         Source         `json:"source"`
	Width          int            `json:"width"`
	Height         int            `json:"height"`
	Files          []string       `json:"files,omitempty"`
	Calibration    *Calibration   `json:"calibration,omitempty"`
	Analysis       *Analysis      `json:"analysis,omitempty"`
	BiomeCounts    map[Biome]int  `json:"biome_counts"`
	ResourceCounts map[string]int `json:"resource_counts"`
	Quality        float64        `json:"quality_score"`
}

// Grid is the terrain of one body. Elevation is in metres with sea level at 0.
// Biomes is empty ("") for every underwater cell.
type Grid struct {
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Elevation  [][]float64 `json:"elevation"`
	Biomes     [][]Biome   `json:"biomes"`
	Resources  [][]string  `json:"resources,omitempty"`
	Markers    []Marker    `json:"strategic_markers,omitempty"`
	Descriptor Descriptor  `json:"descriptor"`
}

func newGrid(w, h int) *Grid {
	g := &Grid{
		Width:     w,
		Height:    h,
		Elevation: makeGrid[float64](w, h),
		Biomes:    makeGrid[Biome](w, h),
	}
	return g
}

func makeGrid[T any](w, h int) [][]T {
	out := make([][]T, h)
	for y := range out {
		out[y] = make([]T, w)
	}
	return out
}

// Land reports whether cell (x, y) is at or above sea level.
func (g *Grid) Land(x, y int) bool { return g.Elevation[y][x] >= 0 }

// WaterFraction returns the share of cells below sea level.
func (g *Grid) WaterFraction() float64 {
	n, wet := 0, 0
	for y := range g.Elevation {
		for _, e := range g.Elevation[y] {
			n++
			if e < 0 {
				wet++
			}
		}
	}
	if n == 0 {
		return 0
	}
	return float64(wet) / float64(n)
}

// Latitude of row y in degrees, +90 at the top row.
func Latitude(y, height int) float64 {
	return 90 - (float64(y)+0.5)*180/float64(height)
}

// Longitude of column x in degrees, -180 at the left edge.
func Longitude(x, width int) float64 {
	return -180 + (float64(x)+0.5)*360/float64(width)
}

// Grid sizing relative to a reference body.
const (
	ReferenceDiameter = physics.EarthDiameter
	ReferenceWidth    = 180
	ReferenceHeight   = 90

	MinWidth  = 90
	MinHeight = 45
	MaxWidth  = 720
	MaxHeight = 360
)

// RawDimensions scales the reference grid by diameter before clamping.
func RawDimensions(diameterM float64) (w, h float64) {
	scale := diameterM / ReferenceDiameter
	return ReferenceWidth * scale, ReferenceHeight * scale
}

// Dimensions returns the clamped grid size for a body of the given diameter.
func Dimensions(diameterM float64) (w, h int) {
	rw, rh := RawDimensions(diameterM)
	w = physics.Clamp(int(rw+0.5), MinWidth, MaxWidth)
	h = physics.Clamp(int(rh+0.5), MinHeight, MaxHeight)
	return w, h
}
