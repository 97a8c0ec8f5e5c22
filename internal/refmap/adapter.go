package refmap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Adapter loads one kind of source for a body. A missing source returns an
// error wrapping ErrNotFound; an unreadable one wraps ErrMalformed.
type Adapter interface {
	Load(ctx context.Context, bodyKey string) (*Map, error)
}

// Parser turns file content into a Map.
type Parser func(io.Reader) (*Map, error)

// FileAdapter finds <Dir>/<bodyKey>/<name> for the first matching name and
// parses it.
type FileAdapter struct {
	Dir   string
	Names []string // file names or glob patterns, tried in order
	Parse Parser
}

// Load implements Adapter.
func (a FileAdapter) Load(ctx context.Context, bodyKey string) (*Map, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := a.find(bodyKey)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	m, err := a.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Path = path
	return m, nil
}

func (a FileAdapter) find(bodyKey string) (string, error) {
	dir := filepath.Join(a.Dir, BodyKey(bodyKey))
	for _, name := range a.Names {
		matches, err := filepath.Glob(filepath.Join(dir, name))
		if err != nil {
			return "", fmt.Errorf("glob %s: %w", name, err)
		}
		for _, p := range matches {
			if st, err := os.Stat(p); err == nil && !st.IsDir() {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("%s in %s: %w", strings.Join(a.Names, "|"), dir, ErrNotFound)
}

// BodyKey normalises a body name to its directory name.
func BodyKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// RasterAdapter reads ground-truth ESRI ASCII grids.
func RasterAdapter(dir string) FileAdapter {
	return FileAdapter{Dir: dir, Names: []string{"elevation.asc", "*.asc"}, Parse: ParseElevation}
}

// Civ4Adapter reads Civ4 WorldBuilder saves.
func Civ4Adapter(dir string) FileAdapter {
	return FileAdapter{Dir: dir, Names: []string{"reference.wbs", "*.wbs", "*.CivBeyondSwordWBSave", "*.Civ4WorldBuilderSave"}, Parse: ParseCiv4}
}

// FreecivAdapter reads FreeCiv scenario saves.
func FreecivAdapter(dir string) FileAdapter {
	return FileAdapter{Dir: dir, Names: []string{"pattern.sav", "*.sav"}, Parse: ParseFreeciv}
}

// regionFile is one entry of a body's regions.json.
type regionFile struct {
	Name   string `json:"name"`
	File   string `json:"file"`
	Window Window `json:"window"`
}

// Sources are every external input found for one body.
type Sources struct {
	Raster    *Map     // ground-truth elevation
	Reference *Map     // hand-authored map with elevation and land shape
	Pattern   *Map     // hand-authored land/water pattern without elevation
	Regions   []Region // higher-detail maps with their windows
}

// Empty reports whether nothing was found.
func (s Sources) Empty() bool {
	return s.Raster == nil && s.Reference == nil && s.Pattern == nil && len(s.Regions) == 0
}

// Registry resolves all sources for a body from a maps directory laid out as
// <dir>/<body>/{elevation.asc, reference.wbs, pattern.sav, regions.json}.
type Registry struct {
	Dir       string
	Raster    Adapter
	Reference Adapter
	Pattern   Adapter
	Logger    *slog.Logger
}

// NewRegistry wires the file adapters for dir. A non-nil cache wraps each.
func NewRegistry(dir string, cache Cache) *Registry {
	wrap := func(name string, a Adapter) Adapter {
		if cache == nil {
			return a
		}
		return CachedAdapter{Name: name, Adapter: a, Cache: cache}
	}
	return &Registry{
		Dir:       dir,
		Raster:    wrap("raster", RasterAdapter(dir)),
		Reference: wrap("civ4", Civ4Adapter(dir)),
		Pattern:   wrap("freeciv", FreecivAdapter(dir)),
	}
}

// Sources loads everything available for bodyKey. Missing and malformed
// sources are logged and left nil; they never fail the call.
func (r *Registry) Sources(ctx context.Context, bodyKey string) Sources {
	log := r.logger().With("component", "refmap", "body", bodyKey)
	var s Sources
	s.Raster = r.load(ctx, log, "raster", r.Raster, bodyKey)
	s.Reference = r.load(ctx, log, "reference", r.Reference, bodyKey)
	s.Pattern = r.load(ctx, log, "pattern", r.Pattern, bodyKey)
	s.Regions = r.regions(log, bodyKey)
	return s
}

func (r *Registry) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func (r *Registry) load(ctx context.Context, log *slog.Logger, kind string, a Adapter, bodyKey string) *Map {
	if a == nil {
		return nil
	}
	m, err := a.Load(ctx, bodyKey)
	switch {
	case err == nil:
		log.Info("reference map loaded", "kind", kind, "path", m.Path, "width", m.Width, "height", m.Height)
		return m
	case errors.Is(err, ErrNotFound):
		log.Debug("no reference map", "kind", kind)
	default:
		log.Warn("reference map unusable", "kind", kind, "error", err)
	}
	return nil
}

// regions reads regions.json. Each listed map is parsed by extension.
func (r *Registry) regions(log *slog.Logger, bodyKey string) []Region {
	path := filepath.Join(r.Dir, BodyKey(bodyKey), "regions.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("regions unreadable", "path", path, "error", err)
		}
		return nil
	}
	var entries []regionFile
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Warn("regions malformed", "path", path, "error", err)
		return nil
	}

	var out []Region
	for _, e := range entries {
		m, err := parseFile(filepath.Join(filepath.Dir(path), e.File))
		if err != nil {
			log.Warn("regional map unusable", "region", e.Name, "error", err)
			continue
		}
		if !m.HasTerrain() {
			log.Warn("regional map has no terrain", "region", e.Name)
			continue
		}
		out = append(out, Region{Name: e.Name, Window: e.Window, Map: m})
	}
	return out
}

// parseFile picks a parser from the file extension.
func parseFile(path string) (*Map, error) {
	var parse Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sav":
		parse = ParseFreeciv
	case ".wbs", ".civbeyondswordwbsave", ".civ4worldbuildersave":
		parse = ParseCiv4
	case ".asc":
		return ReadElevation(path)
	default:
		return nil, fmt.Errorf("%s: unknown map format: %w", path, ErrMalformed)
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	m, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Path = path
	return m, nil
}
