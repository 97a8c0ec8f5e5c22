package terrain

import (
	"context"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/talgya/planetforge/internal/atmosphere"
	"github.com/talgya/planetforge/internal/body"
	"github.com/talgya/planetforge/internal/geosphere"
	"github.com/talgya/planetforge/internal/hydrosphere"
	"github.com/talgya/planetforge/internal/refmap"
	"github.com/talgya/planetforge/internal/rng"
)

// Request carries everything a strategy may read. Width and Height are
// filled in by the Synthesizer from the body's diameter.
type Request struct {
	Body        body.Profile
	Atmosphere  atmosphere.State
	Hydrosphere hydrosphere.State
	Geosphere   geosphere.State
	Sources     refmap.Sources
	Seed        int64

	Width  int
	Height int
	Logger *slog.Logger
}

func (req *Request) logger() *slog.Logger {
	if req.Logger != nil {
		return req.Logger
	}
	return slog.Default()
}

// Strategy is one way of producing terrain. Attempt returns false when the
// strategy's inputs are unavailable; the next strategy is then tried.
type Strategy interface {
	Source() Source
	Attempt(ctx context.Context, req *Request) (*Grid, bool)
}

// DefaultStrategies is the priority order used by a zero Synthesizer.
func DefaultStrategies() []Strategy {
	return []Strategy{
		GroundTruth{},
		AdjustedReference{},
		PatternReference{},
		Algorithmic{},
	}
}

// Synthesizer runs strategies in order until one succeeds.
type Synthesizer struct {
	Strategies []Strategy
	Logger     *slog.Logger
}

// Generate produces the terrain grid for req. The algorithmic strategy
// always succeeds, so a grid is always returned when it is in the list.
func (s Synthesizer) Generate(ctx context.Context, req Request) *Grid {
	log := s.logger().With("component", "terrain", "body", req.Body.Name)
	req.Logger = log
	req.Width, req.Height = Dimensions(req.Body.Diameter())

	strategies := s.Strategies
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}

	for _, st := range strategies {
		if ctx.Err() != nil {
			log.Warn("terrain generation cancelled", "error", ctx.Err())
			break
		}
		g, ok := st.Attempt(ctx, &req)
		if !ok {
			log.Debug("terrain strategy skipped", "source", st.Source())
			continue
		}
		g.Descriptor.Source = st.Source()
		decorate(g, &req, rng.For(req.Seed, "terrain:overlay"))
		log.Info("terrain generated",
			"source", g.Descriptor.Source,
			"width", g.Width,
			"height", g.Height,
			"cells", humanize.Comma(int64(g.Width*g.Height)),
			"water_fraction", g.WaterFraction(),
			"quality", g.Descriptor.Quality,
		)
		return g
	}

	// Only reachable with a custom strategy list or a cancelled context.
	g := Algorithmic{}.generate(&req)
	g.Descriptor.Source = SourceAlgorithmic
	decorate(g, &req, rng.For(req.Seed, "terrain:overlay"))
	return g
}

func (s Synthesizer) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
