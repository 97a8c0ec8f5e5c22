// Command planetforge generates every body of a star-system seed file and
// stores the result.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/planetforge/internal/config"
	"github.com/talgya/planetforge/internal/generation"
	"github.com/talgya/planetforge/internal/logger"
	"github.com/talgya/planetforge/internal/materials"
	"github.com/talgya/planetforge/internal/persistence"
	"github.com/talgya/planetforge/internal/refmap"
	"github.com/talgya/planetforge/internal/stellar"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	systemFile := flag.String("system", cfg.Generation.SystemFile, "star-system seed file (JSON)")
	mapsDir := flag.String("maps", cfg.Generation.MapsDir, "reference-map directory")
	seed := flag.Int64("seed", cfg.Generation.Seed, "system seed used when the seed file has none (0 = random)")
	workers := flag.Int("workers", cfg.Generation.Workers, "bodies generated concurrently")
	zoneModel := flag.String("zone-model", string(cfg.Generation.ZoneModel), "habitable-zone model: conservative or optimistic")
	dsn := flag.String("db", cfg.Database.DSN, "database DSN")
	flag.Parse()

	cfg.Generation.SystemFile = *systemFile
	cfg.Generation.MapsDir = *mapsDir
	cfg.Generation.Seed = *seed
	cfg.Generation.Workers = *workers
	cfg.Generation.ZoneModel = stellar.ZoneModel(*zoneModel)
	cfg.Database.DSN = *dsn
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid flags", "error", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Seed ─────────────────────────────────────────────────────────
	systemSeed, err := generation.LoadSeed(cfg.Generation.SystemFile)
	if err != nil {
		slog.Error("failed to load seed file", "error", err)
		os.Exit(1)
	}
	if systemSeed.Seed == 0 {
		systemSeed.Seed = cfg.Generation.Seed
	}

	// ── Reference maps ───────────────────────────────────────────────
	var cache refmap.Cache = refmap.NewMemoryCache()
	if cfg.Redis.Enabled {
		rc, err := refmap.ConnectRedis(refmap.RedisOptions{
			URL:      cfg.Redis.URL,
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		})
		if err != nil {
			slog.Warn("redis unavailable, using in-process map cache", "error", err)
		} else {
			defer rc.Close()
			cache = rc
		}
	}
	registry := refmap.NewRegistry(cfg.Generation.MapsDir, cache)

	// ── Materials ────────────────────────────────────────────────────
	var catalog materials.Lookup = materials.DefaultCatalog()
	if cfg.Generation.MaterialsFile != "" {
		c, err := materials.LoadCatalog(cfg.Generation.MaterialsFile)
		if err != nil {
			slog.Warn("materials file unusable, using built-in catalogue", "path", cfg.Generation.MaterialsFile, "error", err)
		} else {
			catalog = c
		}
	}

	// ── Generate ─────────────────────────────────────────────────────
	start := time.Now()
	orch := generation.Orchestrator{
		Registry:  registry,
		Materials: catalog,
		Workers:   cfg.Generation.Workers,
		ZoneModel: cfg.Generation.ZoneModel,
	}
	sys, err := orch.Generate(ctx, systemSeed)
	if err != nil {
		slog.Error("generation interrupted", "error", err)
		os.Exit(1)
	}

	// ── Persist ──────────────────────────────────────────────────────
	db, err := persistence.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.SaveSystem(sys); err != nil {
		slog.Error("failed to save system", "error", err)
		os.Exit(1)
	}

	cells := 0
	for _, b := range sys.Bodies {
		slog.Info("body",
			"name", b.Profile.Name,
			"zone", b.Zone,
			"temperature", b.Atmosphere.Temperature,
			"terrain", b.Terrain.Descriptor.Source,
			"quality", b.Terrain.Descriptor.Quality,
		)
		cells += b.Terrain.Width * b.Terrain.Height
	}
	slog.Info("system saved",
		"system", sys.Name,
		"id", sys.ID,
		"seed", sys.Seed,
		"bodies", len(sys.Bodies),
		"skipped", len(sys.Skipped),
		"cells", humanize.Comma(int64(cells)),
		"elapsed", time.Since(start).Round(time.Millisecond),
		"db", cfg.Database.Driver,
	)
}
