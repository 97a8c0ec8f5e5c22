// Package materials is the material property lookup used by the synthesizers to
// resolve molar masses and reactivity for gas species and crust minerals.
package materials

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Material describes one chemical species or mineral.
type Material struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Formula    string  `json:"chemical_formula"`
	Category   string  `json:"category"`             // gas, liquid, mineral, metal
	MolarMass  float64 `json:"molar_mass,omitempty"` // g/mol, 0 when unknown
	Reactivity string  `json:"reactivity,omitempty"`
}

// Lookup resolves a material by name, id or chemical formula. Unknown species
// report false; implementations never block.
type Lookup interface {
	FindMaterial(nameOrFormula string) (Material, bool)
}

// Catalog is an immutable in-memory Lookup.
type Catalog struct {
	byKey map[string]Material
	keys  []string
}

// NewCatalog indexes materials by lower-cased id, name and formula.
func NewCatalog(items []Material) *Catalog {
	c := &Catalog{byKey: make(map[string]Material, len(items)*3)}
	for _, m := range items {
		for _, k := range []string{m.ID, m.Name, m.Formula} {
			k = strings.ToLower(strings.TrimSpace(k))
			if k == "" {
				continue
			}
			if _, dup := c.byKey[k]; dup {
				continue
			}
			c.byKey[k] = m
			c.keys = append(c.keys, k)
		}
	}
	sort.Strings(c.keys)
	return c
}

// FindMaterial implements Lookup. Matching is case-insensitive.
func (c *Catalog) FindMaterial(nameOrFormula string) (Material, bool) {
	m, ok := c.byKey[strings.ToLower(strings.TrimSpace(nameOrFormula))]
	return m, ok
}

// Len returns the number of distinct lookup keys.
func (c *Catalog) Len() int { return len(c.keys) }

// Suggest returns up to n known keys closest to name by edit distance, for
// diagnostics when a lookup misses.
func (c *Catalog) Suggest(name string, n int) []string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || n <= 0 {
		return nil
	}
	type scored struct {
		key  string
		dist int
	}
	limit := suggestLimit(len(name))
	var hits []scored
	for _, k := range c.keys {
		d := levenshtein.ComputeDistance(name, k)
		if d > limit {
			continue
		}
		hits = append(hits, scored{k, d})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].dist == hits[j].dist {
			return hits[i].key < hits[j].key
		}
		return hits[i].dist < hits[j].dist
	})
	if len(hits) > n {
		hits = hits[:n]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.key
	}
	return out
}

func suggestLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// LoadCatalog reads a JSON array of materials and merges it over the default
// catalogue; file entries win on key collisions.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read materials: %w", err)
	}
	var items []Material
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse materials %s: %w", path, err)
	}
	return NewCatalog(append(items, defaults...)), nil
}

// DefaultCatalog returns the built-in catalogue of common planetary species.
func DefaultCatalog() *Catalog {
	return NewCatalog(defaults)
}
