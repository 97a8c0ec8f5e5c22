package terrain

import "math"

// Elevations outside ±MaxPlausibleElevation metres are no-data sentinels.
const MaxPlausibleElevation = 50000.0

func plausible(v float64) bool {
	return !math.IsNaN(v) && math.Abs(v) <= MaxPlausibleElevation
}

// AreaAverage resamples a continuous field to w×h. Each target cell is the
// overlap-weighted mean of the source cells it covers, ignoring sentinels.
// Cells that cover only sentinels are filled from their neighbours.
func AreaAverage(src [][]float64, w, h int) [][]float64 {
	sh := len(src)
	if sh == 0 || w <= 0 || h <= 0 {
		return makeGrid[float64](w, h)
	}
	sw := len(src[0])
	fx := float64(sw) / float64(w)
	fy := float64(sh) / float64(h)

	out := makeGrid[float64](w, h)
	for ty := 0; ty < h; ty++ {
		y0, y1 := float64(ty)*fy, float64(ty+1)*fy
		for tx := 0; tx < w; tx++ {
			x0, x1 := float64(tx)*fx, float64(tx+1)*fx
			sum, weight := 0.0, 0.0
			for sy := int(y0); sy < sh && float64(sy) < y1; sy++ {
				wy := math.Min(y1, float64(sy+1)) - math.Max(y0, float64(sy))
				if wy <= 0 {
					continue
				}
				for sx := int(x0); sx < sw && float64(sx) < x1; sx++ {
					wx := math.Min(x1, float64(sx+1)) - math.Max(x0, float64(sx))
					v := src[sy][sx]
					if wx <= 0 || !plausible(v) {
						continue
					}
					sum += v * wx * wy
					weight += wx * wy
				}
			}
			if weight == 0 {
				out[ty][tx] = math.NaN()
				continue
			}
			out[ty][tx] = sum / weight
		}
	}
	fillGaps(out)
	return out
}

// fillGaps replaces NaN cells with the mean of their valid neighbours,
// growing inward pass by pass. A grid with no valid cells becomes zero.
func fillGaps(g [][]float64) {
	h := len(g)
	if h == 0 {
		return
	}
	w := len(g[0])
	for pass := 0; pass < w+h; pass++ {
		type fix struct {
			x, y int
			v    float64
		}
		var fixes []fix
		missing := 0
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if !math.IsNaN(g[y][x]) {
					continue
				}
				missing++
				sum, n := 0.0, 0
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						ny, nx := y+dy, x+dx
						if ny < 0 || ny >= h || nx < 0 || nx >= w || math.IsNaN(g[ny][nx]) {
							continue
						}
						sum += g[ny][nx]
						n++
					}
				}
				if n > 0 {
					fixes = append(fixes, fix{x, y, sum / float64(n)})
				}
			}
		}
		if missing == 0 {
			return
		}
		if len(fixes) == 0 {
			break
		}
		for _, f := range fixes {
			g[f.y][f.x] = f.v
		}
	}
	for y := range g {
		for x := range g[y] {
			if math.IsNaN(g[y][x]) {
				g[y][x] = 0
			}
		}
	}
}

// Nearest resamples a categorical grid to w×h by proportional
// nearest-neighbour lookup. Categories are never blended.
func Nearest[T any](src [][]T, w, h int) [][]T {
	out := makeGrid[T](w, h)
	sh := len(src)
	if sh == 0 {
		return out
	}
	sw := len(src[0])
	for ty := 0; ty < h; ty++ {
		sy := sourceIndex(ty, h, sh)
		for tx := 0; tx < w; tx++ {
			out[ty][tx] = src[sy][sourceIndex(tx, w, sw)]
		}
	}
	return out
}

// sourceIndex maps the centre of target cell t (of n) into a source axis of
// length m.
func sourceIndex(t, n, m int) int {
	i := int((float64(t) + 0.5) * float64(m) / float64(n))
	if i >= m {
		i = m - 1
	}
	return i
}
