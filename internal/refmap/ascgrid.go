package refmap

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadElevation reads an ESRI ASCII grid raster. No-data cells keep their
// sentinel value; consumers filter them.
func ReadElevation(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("open raster: %w", err)
	}
	defer f.Close()

	m, err := ParseElevation(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Path = path
	return m, nil
}

// ParseElevation parses ESRI ASCII grid content: a header of ncols, nrows,
// xllcorner|xllcenter, yllcorner|yllcenter, cellsize and optional
// NODATA_value, followed by nrows rows of ncols values.
func ParseElevation(r io.Reader) (*Map, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	sc.Split(bufio.ScanWords)

	m := &Map{Kind: KindRaster}
	var pending string
	for sc.Scan() {
		tok := sc.Text()
		key := strings.ToLower(tok)
		switch key {
		case "ncols", "nrows", "xllcorner", "xllcenter", "yllcorner", "yllcenter", "cellsize", "nodata_value":
		default:
			pending = tok
		}
		if pending != "" {
			break
		}
		if !sc.Scan() {
			return nil, fmt.Errorf("header %s has no value: %w", tok, ErrMalformed)
		}
		val := sc.Text()
		switch key {
		case "ncols":
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, fmt.Errorf("ncols %q: %w", val, ErrMalformed)
			}
			m.Width = n
		case "nrows":
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, fmt.Errorf("nrows %q: %w", val, ErrMalformed)
			}
			m.Height = n
		case "nodata_value":
			v, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return nil, fmt.Errorf("NODATA_value %q: %w", val, ErrMalformed)
			}
			m.NoData = &v
		default:
			if _, err := strconv.ParseFloat(val, 64); err != nil {
				return nil, fmt.Errorf("%s %q: %w", tok, val, ErrMalformed)
			}
		}
	}
	if err := checkDimensions(m.Width, m.Height); err != nil {
		return nil, err
	}

	m.Elevation = make([][]float64, m.Height)
	for y := range m.Elevation {
		m.Elevation[y] = make([]float64, m.Width)
	}

	count := 0
	total := m.Width * m.Height
	next := func(tok string) error {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return fmt.Errorf("cell %d value %q: %w", count, tok, ErrMalformed)
		}
		m.Elevation[count/m.Width][count%m.Width] = v
		count++
		return nil
	}
	if pending != "" {
		if err := next(pending); err != nil {
			return nil, err
		}
	}
	for count < total && sc.Scan() {
		if err := next(sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read raster: %w", err)
	}
	if count < total {
		return nil, fmt.Errorf("expected %d cells, got %d: %w", total, count, ErrMalformed)
	}
	return m, nil
}
