// Package refmap loads external terrain sources for a body: ground-truth
// elevation rasters and hand-authored strategy-game maps. Every format is
// parsed into the same Map shape.
package refmap

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the body has no source of the requested kind.
	ErrNotFound = errors.New("reference map not found")
	// ErrMalformed means a source exists but could not be parsed.
	ErrMalformed = errors.New("malformed reference map")
)

// Size limits for declared grid dimensions. MaxCells admits a 1-arc-minute
// global raster.
const (
	MaxDimension = 100_000
	MaxCells     = 1 << 28
)

// checkDimensions rejects grids that are empty or too large to allocate.
func checkDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("grid dimensions %dx%d: %w", width, height, ErrMalformed)
	}
	if width > MaxDimension || height > MaxDimension || width*height > MaxCells {
		return fmt.Errorf("grid dimensions %dx%d exceed limit: %w", width, height, ErrMalformed)
	}
	return nil
}

// Kind identifies the source format of a Map.
type Kind string

const (
	KindRaster  Kind = "esri_ascii_grid"
	KindCiv4    Kind = "civ4_worldbuilder"
	KindFreeciv Kind = "freeciv_scenario"
)

// Terrain tags produced by the map parsers.
const (
	Arctic     = "arctic"
	Boreal     = "boreal"
	DeepSea    = "deep_sea"
	Desert     = "desert"
	Forest     = "forest"
	Grasslands = "grasslands"
	Hills      = "hills"
	Jungle     = "jungle"
	Lake       = "lake"
	Mountains  = "mountains"
	Ocean      = "ocean"
	Plains     = "plains"
	Rocky      = "rocky"
	Swamp      = "swamp"
	Tundra     = "tundra"
)

// Map is a parsed source grid. Rows run north to south. Absent layers are nil.
//
// Elevation is in metres for rasters and normalised to [0,1] for Civ4 maps.
// Water is the map's own land/water classification.
type Map struct {
	Kind      Kind        `json:"kind"`
	Path      string      `json:"path,omitempty"`
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	Elevation [][]float64 `json:"elevation,omitempty"`
	NoData    *float64    `json:"nodata,omitempty"`
	Terrain   [][]string  `json:"terrain,omitempty"`
	Water     [][]bool    `json:"water,omitempty"`
	Resources [][]string  `json:"resources,omitempty"`
}

// HasElevation reports whether the map carries an elevation layer.
func (m *Map) HasElevation() bool { return m != nil && len(m.Elevation) > 0 }

// HasTerrain reports whether the map carries a terrain-tag layer.
func (m *Map) HasTerrain() bool { return m != nil && len(m.Terrain) > 0 }

// IsWaterTag reports whether a terrain tag denotes open water.
func IsWaterTag(tag string) bool {
	return tag == Ocean || tag == DeepSea || tag == Lake
}

// Window is a lat/lon box in degrees. Latitudes run -90..90, longitudes
// -180..180.
type Window struct {
	LatMin float64 `json:"lat_min"`
	LatMax float64 `json:"lat_max"`
	LonMin float64 `json:"lon_min"`
	LonMax float64 `json:"lon_max"`
}

// Contains reports whether (lat, lon) lies inside the window, edges included.
func (w Window) Contains(lat, lon float64) bool {
	return lat >= w.LatMin && lat <= w.LatMax && lon >= w.LonMin && lon <= w.LonMax
}

// Region is a higher-detail map covering part of a body.
type Region struct {
	Name   string `json:"name"`
	Window Window `json:"window"`
	Map    *Map   `json:"map"`
}
