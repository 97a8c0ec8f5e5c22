package refmap

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/talgya/planetforge/internal/physics"
)

// Civ4 WorldBuilder save files describe a map as a BeginMap header followed
// by one BeginPlot block per tile.

// PlotType values. 3 is water, not peaks.
const (
	plotFlat  = 0
	plotCoast = 1
	plotHills = 2
	plotWater = 3
)

var civ4Terrain = map[string]string{
	"TERRAIN_GRASS":  Grasslands,
	"TERRAIN_PLAINS": Plains,
	"TERRAIN_DESERT": Desert,
	"TERRAIN_TUNDRA": Tundra,
	"TERRAIN_SNOW":   Arctic,
	"TERRAIN_COAST":  Ocean,
	"TERRAIN_OCEAN":  DeepSea,
}

var civ4Features = map[string]string{
	"FEATURE_FOREST":  Forest,
	"FEATURE_JUNGLE":  Jungle,
	"FEATURE_ICE":     Arctic,
	"FEATURE_FALLOUT": Rocky,
	"FEATURE_OASIS":   Swamp,
}

var civ4Bonus = map[string]string{
	"BONUS_IRON":     "metal_ore",
	"BONUS_ALUMINUM": "metal_ore",
	"BONUS_COPPER":   "metal_ore",
	"BONUS_COAL":     "carbon",
	"BONUS_OIL":      "hydrocarbons",
	"BONUS_SILVER":   "precious_metal",
	"BONUS_GOLD":     "precious_metal",
	"BONUS_URANIUM":  "radioactive",
	"BONUS_MARBLE":   "construction",
	"BONUS_STONE":    "construction",
	"BONUS_SALT":     "chemical",
	"BONUS_HORSE":    "organic",
	"BONUS_COW":      "organic",
	"BONUS_CORN":     "organic",
	"BONUS_WHALE":    "organic",
	"BONUS_PIG":      "organic",
	"BONUS_FISH":     "organic",
	"BONUS_CLAM":     "organic",
	"BONUS_CRAB":     "organic",
	"BONUS_RICE":     "organic",
	"BONUS_WHEAT":    "organic",
	"BONUS_DYE":      "organic",
	"BONUS_FUR":      "organic",
	"BONUS_IVORY":    "organic",
	"BONUS_SILK":     "organic",
	"BONUS_SPICE":    "organic",
	"BONUS_SUGAR":    "organic",
	"BONUS_TEA":      "organic",
	"BONUS_TOBACCO":  "organic",
	"BONUS_WINE":     "organic",
	"BONUS_INCENSE":  "organic",
}

var (
	civ4Width  = regexp.MustCompile(`grid width=(\d+)`)
	civ4Height = regexp.MustCompile(`grid height=(\d+)`)
	civ4Coords = regexp.MustCompile(`^x=(\d+),\s*y=(\d+)`)
)

type civ4Plot struct {
	x, y     int
	hasXY    bool
	plotType int
	terrain  string
	feature  string
	bonus    string
}

// ParseCiv4 parses a Civ4 WorldBuilder save into terrain tags, a normalised
// elevation field, a water mask and a resource overlay.
func ParseCiv4(r io.Reader) (*Map, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var (
		width, height int
		inMap         bool
		plots         []civ4Plot
		cur           *civ4Plot
	)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "BeginMap":
			inMap = true
		case line == "EndMap":
			inMap = false
		case line == "BeginPlot":
			if cur != nil {
				plots = append(plots, *cur)
			}
			cur = &civ4Plot{plotType: -1}
		case line == "EndPlot":
			if cur != nil {
				plots = append(plots, *cur)
				cur = nil
			}
		case inMap && strings.Contains(line, "grid width="):
			width = atoiMatch(civ4Width, line)
		case inMap && strings.Contains(line, "grid height="):
			height = atoiMatch(civ4Height, line)
		case cur != nil:
			parsePlotLine(line, cur)
		}
	}
	if cur != nil {
		plots = append(plots, *cur)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read civ4 map: %w", err)
	}
	if err := checkDimensions(width, height); err != nil {
		return nil, fmt.Errorf("civ4 map: %w", err)
	}

	m := &Map{
		Kind:      KindCiv4,
		Width:     width,
		Height:    height,
		Terrain:   make([][]string, height),
		Water:     make([][]bool, height),
		Resources: make([][]string, height),
		Elevation: make([][]float64, height),
	}
	for y := 0; y < height; y++ {
		m.Terrain[y] = make([]string, width)
		m.Water[y] = make([]bool, width)
		m.Resources[y] = make([]string, width)
		m.Elevation[y] = make([]float64, width)
		for x := range m.Elevation[y] {
			m.Elevation[y][x] = 0.5
		}
	}

	seen := 0
	for _, p := range plots {
		if !p.hasXY || p.x < 0 || p.y < 0 || p.x >= width || p.y >= height {
			continue
		}
		seen++
		m.Terrain[p.y][p.x] = civ4TerrainTag(p)
		m.Water[p.y][p.x] = p.plotType == plotWater
		m.Elevation[p.y][p.x] = civ4Elevation(p)
		if p.bonus != "" {
			if res, ok := civ4Bonus[p.bonus]; ok {
				m.Resources[p.y][p.x] = res
			} else {
				m.Resources[p.y][p.x] = "unknown"
			}
		}
	}
	if seen == 0 {
		return nil, fmt.Errorf("civ4 map has no plots: %w", ErrMalformed)
	}

	for y := range m.Terrain {
		for x, tag := range m.Terrain[y] {
			if tag == "" {
				m.Terrain[y][x] = Rocky
			}
		}
	}
	m.Elevation = Smooth(m.Elevation, 0.7)
	return m, nil
}

func atoiMatch(re *regexp.Regexp, line string) int {
	sm := re.FindStringSubmatch(line)
	if sm == nil {
		return 0
	}
	n, _ := strconv.Atoi(sm[1])
	return n
}

// firstField returns the text after prefix up to the first comma.
func firstField(line, prefix string) string {
	v := strings.TrimPrefix(line, prefix)
	if i := strings.IndexByte(v, ','); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}

func parsePlotLine(line string, p *civ4Plot) {
	switch {
	case strings.HasPrefix(line, "x="):
		if sm := civ4Coords.FindStringSubmatch(line); sm != nil {
			p.x, _ = strconv.Atoi(sm[1])
			p.y, _ = strconv.Atoi(sm[2])
			p.hasXY = true
		}
	case strings.HasPrefix(line, "PlotType="):
		if n, err := strconv.Atoi(firstField(line, "PlotType=")); err == nil {
			p.plotType = n
		}
	case strings.HasPrefix(line, "TerrainType="):
		p.terrain = firstField(line, "TerrainType=")
	case strings.HasPrefix(line, "FeatureType="):
		p.feature = firstField(line, "FeatureType=")
	case strings.HasPrefix(line, "BonusType="):
		p.bonus = firstField(line, "BonusType=")
	}
}

func civ4TerrainTag(p civ4Plot) string {
	if p.plotType == plotWater {
		iced := strings.Contains(p.feature, "ICE")
		switch {
		case iced && (p.terrain == "TERRAIN_OCEAN" || p.terrain == "TERRAIN_COAST"):
			return Arctic
		case p.terrain == "TERRAIN_OCEAN":
			return DeepSea
		default:
			return Ocean
		}
	}

	if tag, ok := civ4Features[p.feature]; ok {
		if tag == Forest && (p.terrain == "TERRAIN_TUNDRA" || p.plotType == plotHills) {
			return Boreal
		}
		return tag
	}

	base, ok := civ4Terrain[p.terrain]
	if !ok {
		return Rocky
	}
	if p.plotType != plotHills {
		return base
	}
	switch base {
	case Grasslands, Plains, Tundra:
		return Boreal
	case Desert, Arctic:
		return Rocky
	default:
		return base
	}
}

// civ4Elevation maps plot, terrain and feature to a normalised elevation.
func civ4Elevation(p civ4Plot) float64 {
	var e float64
	switch p.plotType {
	case plotFlat:
		e = 0.65
	case plotCoast:
		e = 0.55
	case plotHills:
		e = 0.80
	case plotWater:
		switch p.terrain {
		case "TERRAIN_OCEAN":
			e = 0.35
		case "TERRAIN_COAST":
			e = 0.45
		default:
			e = 0.15
		}
	default:
		e = 0.50
	}

	if p.plotType != plotWater {
		switch p.terrain {
		case "TERRAIN_SNOW":
			e += 0.30
		case "TERRAIN_TUNDRA":
			e += 0.15
		case "TERRAIN_DESERT":
			e += 0.10
		case "TERRAIN_PLAINS":
			e -= 0.05
		}
	}

	switch p.feature {
	case "FEATURE_FOREST":
		e += 0.05
	case "FEATURE_JUNGLE":
		e += 0.03
	case "FEATURE_FALLOUT":
		e += 0.10
	case "FEATURE_FLOOD_PLAINS":
		e -= 0.10
	case "FEATURE_OASIS":
		e -= 0.05
	case "FEATURE_ICE":
		if e < 0.3 {
			e = 0.20
		} else {
			e = max(e, 0.90)
		}
	}

	waterTerrain := p.terrain == "TERRAIN_OCEAN" || p.terrain == "TERRAIN_COAST"
	if !waterTerrain && p.plotType != plotWater {
		e = max(e, 0.50)
	}
	return physics.Clamp(e, 0, 1)
}

// Smooth blends each cell with the mean of its 8-neighbourhood,
// keeping weight of the original value. Cells with fewer than 3 neighbours
// are left alone.
func Smooth(grid [][]float64, keep float64) [][]float64 {
	h := len(grid)
	if h == 0 {
		return grid
	}
	w := len(grid[0])
	out := make([][]float64, h)
	for y := 0; y < h; y++ {
		out[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			sum, n := 0.0, 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					ny, nx := y+dy, x+dx
					if ny < 0 || ny >= h || nx < 0 || nx >= w {
						continue
					}
					sum += grid[ny][nx]
					n++
				}
			}
			if n < 3 {
				out[y][x] = grid[y][x]
				continue
			}
			out[y][x] = grid[y][x]*keep + sum/float64(n)*(1-keep)
		}
	}
	return out
}
