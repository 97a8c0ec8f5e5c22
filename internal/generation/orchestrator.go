package generation

import (
	"context"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/talgya/planetforge/internal/atmosphere"
	"github.com/talgya/planetforge/internal/body"
	"github.com/talgya/planetforge/internal/composition"
	"github.com/talgya/planetforge/internal/geosphere"
	"github.com/talgya/planetforge/internal/hydrosphere"
	"github.com/talgya/planetforge/internal/materials"
	"github.com/talgya/planetforge/internal/physics"
	"github.com/talgya/planetforge/internal/refmap"
	"github.com/talgya/planetforge/internal/rng"
	"github.com/talgya/planetforge/internal/stellar"
	"github.com/talgya/planetforge/internal/terrain"
)

// StarResult is a resolved star.
type StarResult struct {
	ID      string          `json:"id"`
	Star    stellar.Star    `json:"star"`
	Context stellar.Context `json:"context"`
}

// BodyResult holds every derived state of one body.
type BodyResult struct {
	ID          string              `json:"id"`
	Identifier  string              `json:"identifier"`
	ParentID    string              `json:"parent_id,omitempty"`
	StarID      string              `json:"star_id"`
	Seed        int64               `json:"seed"`
	Profile     body.Profile        `json:"profile"`
	Zone        stellar.Zone        `json:"zone"`
	Composition composition.Profile `json:"composition"`
	Geosphere   geosphere.State     `json:"geosphere"`
	Atmosphere  atmosphere.State    `json:"atmosphere"`
	Hydrosphere hydrosphere.State   `json:"hydrosphere"`
	Terrain     *terrain.Grid       `json:"terrain"`
}

// Diagnostic explains why a body was not generated.
type Diagnostic struct {
	Body   string `json:"body"`
	Reason string `json:"reason"`
}

// System is the generated output for one seed. Bodies keep seed-file order
// within each pass: primaries first, then satellites.
type System struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Seed    int64         `json:"seed"`
	Stars   []StarResult  `json:"stars"`
	Bodies  []*BodyResult `json:"bodies"`
	Skipped []Diagnostic  `json:"skipped,omitempty"`
}

// Body returns the generated body with the given identifier.
func (s *System) Body(identifier string) (*BodyResult, bool) {
	for _, b := range s.Bodies {
		if b.Identifier == identifier {
			return b, true
		}
	}
	return nil, false
}

// Orchestrator generates star systems. Registry may be nil, in which case
// every body falls back to algorithmic terrain.
type Orchestrator struct {
	Registry  *refmap.Registry
	Materials materials.Lookup
	Workers   int
	ZoneModel stellar.ZoneModel
	Logger    *slog.Logger
}

// EntityID derives a stable ID for an entity of a named system.
func EntityID(system, kind, identifier string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(system+"/"+kind+"/"+identifier)).String()
}

// Generate builds every body of seed. Missing parents and stars are recorded
// in System.Skipped. The only error is a cancelled context.
func (o Orchestrator) Generate(ctx context.Context, seed SystemSeed) (*System, error) {
	log := o.logger().With("component", "orchestrator", "system", seed.Name)
	o.Materials = o.materials()
	if seed.Seed == 0 {
		seed.Seed = rng.RandomSeed()
		log.Info("random system seed drawn", "seed", seed.Seed)
	}

	sys := &System{
		ID:   EntityID(seed.Name, "system", seed.Name),
		Name: seed.Name,
		Seed: seed.Seed,
	}

	// Pass 1: stars.
	stars := make(map[string]StarResult, len(seed.Stars))
	starsByID := make(map[string]StarResult, len(seed.Stars))
	for _, st := range seed.Stars {
		st = stellar.FromMass(st)
		res := StarResult{
			ID:      EntityID(seed.Name, "star", st.Name),
			Star:    st,
			Context: stellar.NewContext(st, o.zoneModel()),
		}
		sys.Stars = append(sys.Stars, res)
		stars[st.Name] = res
		starsByID[res.ID] = res
		log.Info("star resolved",
			"star", st.Name,
			"spectral", res.Context.Spectral,
			"luminosity", res.Context.Luminosity,
			"habitable_inner_au", res.Context.Habitable.InnerAU,
			"habitable_outer_au", res.Context.Habitable.OuterAU,
		)
	}
	hostFor := func(b BodySeed) (StarResult, bool) {
		if b.Star == "" {
			if len(sys.Stars) == 0 {
				return StarResult{}, false
			}
			return sys.Stars[0], true
		}
		st, ok := stars[b.Star]
		return st, ok
	}

	var primaries, satellites []BodySeed
	seen := make(map[string]bool, len(seed.Bodies))
	for _, b := range seed.Bodies {
		if seen[b.ID()] {
			sys.skip(log, b.ID(), "duplicate identifier")
			continue
		}
		seen[b.ID()] = true
		if b.Satellite() {
			satellites = append(satellites, b)
		} else {
			primaries = append(primaries, b)
		}
	}

	// Pass 2: bodies orbiting a star.
	jobs := make([]job, 0, len(primaries))
	for _, b := range primaries {
		host, ok := hostFor(b)
		if !ok {
			sys.skip(log, b.ID(), "host star "+b.Star+" not found")
			continue
		}
		jobs = append(jobs, job{seed: b, host: host})
	}
	done, err := o.run(ctx, seed, jobs)
	if err != nil {
		return sys, err
	}
	sys.Bodies = append(sys.Bodies, done...)

	// Pass 3: satellites, which inherit the parent's distance and star.
	jobs = jobs[:0]
	for _, b := range satellites {
		parent, ok := sys.Body(b.Parent)
		if !ok {
			sys.skip(log, b.ID(), "parent "+b.Parent+" not found")
			continue
		}
		host := starsByID[parent.StarID]
		b.DistanceAU = parent.Profile.DistanceAU
		jobs = append(jobs, job{seed: b, host: host, parentID: parent.ID})
	}
	done, err = o.run(ctx, seed, jobs)
	if err != nil {
		return sys, err
	}
	sys.Bodies = append(sys.Bodies, done...)

	log.Info("system generated",
		"bodies", len(sys.Bodies),
		"skipped", len(sys.Skipped),
		"seed", sys.Seed,
	)
	return sys, nil
}

func (s *System) skip(log *slog.Logger, id, reason string) {
	log.Warn("body skipped", "body", id, "reason", reason)
	s.Skipped = append(s.Skipped, Diagnostic{Body: id, Reason: reason})
}

type job struct {
	seed     BodySeed
	host     StarResult
	parentID string
}

// run generates one pass. Bodies within a pass share no state, so they run
// concurrently, bounded by Workers.
func (o Orchestrator) run(ctx context.Context, seed SystemSeed, jobs []job) ([]*BodyResult, error) {
	out := make([]*BodyResult, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers())
	for i, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := o.GenerateBody(ctx, seed, j.host, j.seed)
			res.ParentID = j.parentID
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// GenerateBody runs the per-body pipeline: zone, composition, geosphere,
// atmosphere, hydrosphere, terrain. Each stage draws from its own stream
// derived from the system seed and the body identifier.
func (o Orchestrator) GenerateBody(ctx context.Context, seed SystemSeed, host StarResult, bs BodySeed) *BodyResult {
	p := bs.Profile
	id := bs.ID()
	if p.Name == "" {
		p.Name = id
	}
	bodySeed := rng.Derive(seed.Seed, id)
	log := o.logger().With("system", seed.Name)

	res := &BodyResult{
		ID:         EntityID(seed.Name, "body", id),
		Identifier: id,
		StarID:     host.ID,
		Seed:       bodySeed,
		Profile:    p,
	}

	star := host.Context
	res.Zone = star.Zone(p.DistanceAU)
	res.Composition = composition.Estimate(p.EarthMasses(), res.Zone, p.Type)
	teq := physics.EquilibriumTemperature(star.Flux(p.DistanceAU), p.Albedo)

	res.Geosphere = geosphere.Synthesizer{Logger: log}.Generate(
		rng.For(bodySeed, "geosphere"), p, res.Composition, teq)

	res.Atmosphere = atmosphere.Synthesizer{Materials: o.materials(), Logger: log}.Generate(
		rng.For(bodySeed, "atmosphere"), atmosphere.Input{
			Body:        p,
			Composition: res.Composition,
			Luminosity:  star.Luminosity,
			Activity:    res.Geosphere.Activity,
		})

	res.Hydrosphere = hydrosphere.Synthesizer{Logger: log}.Generate(
		rng.For(bodySeed, "hydrosphere"), p, res.Composition, res.Atmosphere)

	var sources refmap.Sources
	if o.Registry != nil {
		sources = o.Registry.Sources(ctx, bs.mapKey())
	}
	res.Terrain = terrain.Synthesizer{Logger: log}.Generate(ctx, terrain.Request{
		Body:        p,
		Atmosphere:  res.Atmosphere,
		Hydrosphere: res.Hydrosphere,
		Geosphere:   res.Geosphere,
		Sources:     sources,
		Seed:        rng.Derive(bodySeed, "terrain"),
	})

	log.Info("body generated",
		"body", p.Name,
		"zone", res.Zone,
		"kind", res.Composition.Kind,
		"mass", humanize.SIWithDigits(p.Mass, 3, "kg"),
		"temperature", res.Atmosphere.Temperature,
		"pressure", res.Atmosphere.Pressure,
		"water", humanize.SIWithDigits(res.Hydrosphere.TotalMass, 3, "kg"),
		"terrain", res.Terrain.Descriptor.Source,
	)
	return res
}

func (o Orchestrator) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Orchestrator) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return 1
}

func (o Orchestrator) zoneModel() stellar.ZoneModel {
	if o.ZoneModel != "" {
		return o.ZoneModel
	}
	return stellar.Conservative
}

func (o Orchestrator) materials() materials.Lookup {
	if o.Materials != nil {
		return o.Materials
	}
	return materials.DefaultCatalog()
}
