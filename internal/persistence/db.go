// Package persistence stores generated star systems. SQLite is the default
// backend; PostgreSQL is supported through the same schema.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/talgya/planetforge/internal/generation"
	"github.com/talgya/planetforge/internal/terrain"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DB wraps a database connection for generated systems.
type DB struct {
	conn *sqlx.DB
}

// Open connects with driver and dsn and creates the schema. For SQLite the
// dsn is a file path.
func Open(driver, dsn string) (*DB, error) {
	logger := slog.With("component", "database", "operation", "connect")

	switch driver {
	case DriverSQLite:
		if !strings.Contains(dsn, "?") {
			dsn += "?_journal_mode=WAL&_busy_timeout=5000"
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("database ready", "driver", driver)
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS systems (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			seed BIGINT NOT NULL,
			generated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS stars (
			id TEXT PRIMARY KEY,
			system_id TEXT NOT NULL,
			name TEXT NOT NULL,
			mass DOUBLE PRECISION NOT NULL,
			luminosity DOUBLE PRECISION NOT NULL,
			temperature DOUBLE PRECISION NOT NULL,
			radius DOUBLE PRECISION NOT NULL,
			spectral TEXT NOT NULL,
			context_json TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS bodies (
			id TEXT PRIMARY KEY,
			system_id TEXT NOT NULL,
			star_id TEXT NOT NULL,
			parent_id TEXT,
			identifier TEXT NOT NULL,
			name TEXT NOT NULL,
			body_type TEXT NOT NULL,
			mass DOUBLE PRECISION NOT NULL,
			radius DOUBLE PRECISION NOT NULL,
			distance_au DOUBLE PRECISION NOT NULL,
			albedo DOUBLE PRECISION NOT NULL,
			zone TEXT NOT NULL,
			seed BIGINT NOT NULL,
			composition_json TEXT NOT NULL,
			geosphere_json TEXT NOT NULL,
			atmosphere_json TEXT NOT NULL,
			hydrosphere_json TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS terrain_grids (
			body_id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			quality DOUBLE PRECISION NOT NULL,
			grid_json TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS skipped_bodies (
			system_id TEXT NOT NULL,
			body TEXT NOT NULL,
			reason TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS generation_meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bodies_system ON bodies(system_id)`,
		`CREATE INDEX IF NOT EXISTS idx_stars_system ON stars(system_id)`,
	}
	for _, s := range statements {
		if _, err := db.conn.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func jsonText(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// SaveSystem writes a generated system in one transaction. Saving the same
// system again replaces its rows.
func (db *DB) SaveSystem(sys *generation.System) error {
	slog.Info("saving system", "system", sys.Name, "stars", len(sys.Stars), "bodies", len(sys.Bodies))

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(tx.Rebind(`INSERT INTO systems (id, name, seed, generated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, seed = excluded.seed,
			generated_at = excluded.generated_at`),
		sys.ID, sys.Name, sys.Seed, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert system %s: %w", sys.Name, err)
	}

	if err := saveStars(tx, sys); err != nil {
		return err
	}
	if err := saveBodies(tx, sys); err != nil {
		return err
	}

	if _, err := tx.Exec(tx.Rebind("DELETE FROM skipped_bodies WHERE system_id = ?"), sys.ID); err != nil {
		return err
	}
	for _, d := range sys.Skipped {
		_, err := tx.Exec(tx.Rebind("INSERT INTO skipped_bodies (system_id, body, reason) VALUES (?, ?, ?)"),
			sys.ID, d.Body, d.Reason)
		if err != nil {
			return fmt.Errorf("insert skipped %s: %w", d.Body, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	if err := db.SaveMeta("last_system", sys.ID); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	slog.Info("system saved", "system", sys.Name)
	return nil
}

func saveStars(tx *sqlx.Tx, sys *generation.System) error {
	stmt, err := tx.Preparex(tx.Rebind(`INSERT INTO stars
		(id, system_id, name, mass, luminosity, temperature, radius, spectral, context_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET system_id = excluded.system_id, name = excluded.name,
			mass = excluded.mass, luminosity = excluded.luminosity,
			temperature = excluded.temperature, radius = excluded.radius,
			spectral = excluded.spectral, context_json = excluded.context_json`))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range sys.Stars {
		ctxJSON, err := jsonText(s.Context)
		if err != nil {
			return fmt.Errorf("encode star %s: %w", s.Star.Name, err)
		}
		_, err = stmt.Exec(
			s.ID, sys.ID, s.Star.Name, s.Context.Mass, s.Context.Luminosity,
			s.Context.Temperature, s.Context.Radius, s.Context.Spectral, ctxJSON,
		)
		if err != nil {
			return fmt.Errorf("insert star %s: %w", s.Star.Name, err)
		}
	}
	return nil
}

func saveBodies(tx *sqlx.Tx, sys *generation.System) error {
	bodyStmt, err := tx.Preparex(tx.Rebind(`INSERT INTO bodies
		(id, system_id, star_id, parent_id, identifier, name, body_type, mass, radius,
		 distance_au, albedo, zone, seed,
		 composition_json, geosphere_json, atmosphere_json, hydrosphere_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET system_id = excluded.system_id,
			star_id = excluded.star_id, parent_id = excluded.parent_id,
			identifier = excluded.identifier, name = excluded.name,
			body_type = excluded.body_type, mass = excluded.mass, radius = excluded.radius,
			distance_au = excluded.distance_au, albedo = excluded.albedo,
			zone = excluded.zone, seed = excluded.seed,
			composition_json = excluded.composition_json,
			geosphere_json = excluded.geosphere_json,
			atmosphere_json = excluded.atmosphere_json,
			hydrosphere_json = excluded.hydrosphere_json`))
	if err != nil {
		return err
	}
	defer bodyStmt.Close()

	gridStmt, err := tx.Preparex(tx.Rebind(`INSERT INTO terrain_grids
		(body_id, source, width, height, quality, grid_json)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (body_id) DO UPDATE SET source = excluded.source,
			width = excluded.width, height = excluded.height,
			quality = excluded.quality, grid_json = excluded.grid_json`))
	if err != nil {
		return err
	}
	defer gridStmt.Close()

	for _, b := range sys.Bodies {
		var encoded [4]string
		for i, v := range []any{b.Composition, b.Geosphere, b.Atmosphere, b.Hydrosphere} {
			if encoded[i], err = jsonText(v); err != nil {
				return fmt.Errorf("encode body %s: %w", b.Identifier, err)
			}
		}

		var parent *string
		if b.ParentID != "" {
			parent = &b.ParentID
		}
		p := b.Profile
		_, err = bodyStmt.Exec(
			b.ID, sys.ID, b.StarID, parent, b.Identifier, p.Name, string(p.Type),
			p.Mass, p.Radius, p.DistanceAU, p.Albedo, string(b.Zone), b.Seed,
			encoded[0], encoded[1], encoded[2], encoded[3],
		)
		if err != nil {
			return fmt.Errorf("insert body %s: %w", b.Identifier, err)
		}

		if b.Terrain == nil {
			continue
		}
		gridJSON, err := jsonText(b.Terrain)
		if err != nil {
			return fmt.Errorf("encode terrain %s: %w", b.Identifier, err)
		}
		d := b.Terrain.Descriptor
		if _, err := gridStmt.Exec(b.ID, string(d.Source), d.Width, d.Height, d.Quality, gridJSON); err != nil {
			return fmt.Errorf("insert terrain %s: %w", b.Identifier, err)
		}
	}
	return nil
}

// SaveMeta stores a key-value pair in generation metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(db.conn.Rebind(
		`INSERT INTO generation_meta (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`),
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, db.conn.Rebind("SELECT value FROM generation_meta WHERE key = ?"), key)
	return value, err
}

// BodyRow is the stored summary of one body.
type BodyRow struct {
	ID         string  `db:"id"`
	SystemID   string  `db:"system_id"`
	StarID     string  `db:"star_id"`
	ParentID   *string `db:"parent_id"`
	Identifier string  `db:"identifier"`
	Name       string  `db:"name"`
	Type       string  `db:"body_type"`
	Mass       float64 `db:"mass"`
	Radius     float64 `db:"radius"`
	DistanceAU float64 `db:"distance_au"`
	Zone       string  `db:"zone"`
	Seed       int64   `db:"seed"`
	Atmosphere string  `db:"atmosphere_json"`
}

// Bodies lists the bodies of a system by name.
func (db *DB) Bodies(systemID string) ([]BodyRow, error) {
	var rows []BodyRow
	err := db.conn.Select(&rows, db.conn.Rebind(`SELECT id, system_id, star_id, parent_id,
		identifier, name, body_type, mass, radius, distance_au, zone, seed, atmosphere_json
		FROM bodies WHERE system_id = ? ORDER BY name`), systemID)
	return rows, err
}

// Terrain loads the stored grid of a body.
func (db *DB) Terrain(bodyID string) (*terrain.Grid, error) {
	var data string
	err := db.conn.Get(&data, db.conn.Rebind("SELECT grid_json FROM terrain_grids WHERE body_id = ?"), bodyID)
	if err != nil {
		return nil, fmt.Errorf("load terrain %s: %w", bodyID, err)
	}
	var g terrain.Grid
	if err := json.Unmarshal([]byte(data), &g); err != nil {
		return nil, fmt.Errorf("decode terrain %s: %w", bodyID, err)
	}
	return &g, nil
}

// Skipped returns the diagnostics recorded for a system.
func (db *DB) Skipped(systemID string) ([]generation.Diagnostic, error) {
	var out []generation.Diagnostic
	err := db.conn.Select(&out, db.conn.Rebind(
		"SELECT body, reason FROM skipped_bodies WHERE system_id = ? ORDER BY body"), systemID)
	return out, err
}
