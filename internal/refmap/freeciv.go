package refmap

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var freecivRow = regexp.MustCompile(`^t(\d{4})\s*=\s*"(.*)"\s*$`)

var freecivChars = map[rune]string{
	'a': Arctic,
	'd': Desert,
	'f': Forest,
	'g': Grasslands,
	'h': Hills,
	'j': Jungle,
	'm': Mountains,
	'p': Plains,
	's': Swamp,
	't': Tundra,
	'+': Lake,
	':': DeepSea,
	' ': Ocean,
}

// ParseFreeciv reads the terrain rows of a FreeCiv scenario (.sav). Only the
// [map] section's tNNNN="..." rows are used; unknown characters become plains.
func ParseFreeciv(r io.Reader) (*Map, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	rows := map[int]string{}
	inMap := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			inMap = line == "[map]"
			continue
		}
		if !inMap {
			continue
		}
		sm := freecivRow.FindStringSubmatch(line)
		if sm == nil {
			continue
		}
		idx, _ := strconv.Atoi(sm[1])
		rows[idx] = sm[2]
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read freeciv map: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("freeciv map has no terrain rows: %w", ErrMalformed)
	}

	idx := make([]int, 0, len(rows))
	for i := range rows {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	width := len([]rune(rows[idx[0]]))
	if width == 0 {
		return nil, fmt.Errorf("freeciv map has empty rows: %w", ErrMalformed)
	}

	m := &Map{
		Kind:    KindFreeciv,
		Width:   width,
		Height:  len(idx),
		Terrain: make([][]string, len(idx)),
		Water:   make([][]bool, len(idx)),
	}
	for y, i := range idx {
		if i != y {
			return nil, fmt.Errorf("row t%04d missing: %w", y, ErrMalformed)
		}
		runes := []rune(rows[i])
		if len(runes) != width {
			return nil, fmt.Errorf("row t%04d has %d cells, want %d: %w", i, len(runes), width, ErrMalformed)
		}
		m.Terrain[y] = make([]string, width)
		m.Water[y] = make([]bool, width)
		for x, c := range runes {
			tag, ok := freecivChars[c]
			if !ok {
				tag = Plains
			}
			m.Terrain[y][x] = tag
			m.Water[y][x] = IsWaterTag(tag)
		}
	}
	return m, nil
}
