package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/planetforge/internal/body"
	"github.com/talgya/planetforge/internal/generation"
	"github.com/talgya/planetforge/internal/stellar"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "planetforge.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func smallSystem(t *testing.T) *generation.System {
	t.Helper()
	seed := generation.SystemSeed{
		Name:  "Tiny",
		Seed:  5,
		Stars: []stellar.Star{{Name: "Dim", Mass: 0.5}},
		Bodies: []generation.BodySeed{
			{Profile: body.Profile{Name: "Pebble", Mass: 7.35e22, Radius: 1.737e6, DistanceAU: 0.3, Albedo: 0.1}},
			{Profile: body.Profile{Name: "Grit", Mass: 1e20, Radius: 2e5, Albedo: 0.1}, Parent: "Pebble"},
			{Profile: body.Profile{Name: "Lost", Mass: 1e20, Radius: 2e5}, Parent: "Nowhere"},
		},
	}
	sys, err := generation.Orchestrator{Workers: 2}.Generate(context.Background(), seed)
	require.NoError(t, err)
	return sys
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("mysql", "x")
	require.ErrorContains(t, err, "unsupported")
}

func TestSaveSystemRoundTrip(t *testing.T) {
	db := openTestDB(t)
	sys := smallSystem(t)

	require.NoError(t, db.SaveSystem(sys))
	// Saving again replaces rather than duplicates.
	require.NoError(t, db.SaveSystem(sys))

	rows, err := db.Bodies(sys.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Grit", rows[0].Name)
	require.NotNil(t, rows[0].ParentID)
	require.Equal(t, "Pebble", rows[1].Name)
	require.Nil(t, rows[1].ParentID)
	require.Equal(t, *rows[0].ParentID, rows[1].ID)
	require.Contains(t, rows[1].Atmosphere, "composition")

	pebble, ok := sys.Body("Pebble")
	require.True(t, ok)
	g, err := db.Terrain(pebble.ID)
	require.NoError(t, err)
	require.Equal(t, pebble.Terrain.Width, g.Width)
	require.Equal(t, pebble.Terrain.Descriptor.Source, g.Descriptor.Source)
	require.Equal(t, pebble.Terrain.Biomes, g.Biomes)

	skipped, err := db.Skipped(sys.ID)
	require.NoError(t, err)
	require.Equal(t, []generation.Diagnostic{{Body: "Lost", Reason: "parent Nowhere not found"}}, skipped)

	last, err := db.GetMeta("last_system")
	require.NoError(t, err)
	require.Equal(t, sys.ID, last)
}

func TestTerrainMissing(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Terrain("nope")
	require.Error(t, err)
}

func TestMeta(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.SaveMeta("k", "v1"))
	require.NoError(t, db.SaveMeta("k", "v2"))
	v, err := db.GetMeta("k")
	require.NoError(t, err)
	require.Equal(t, "v2", v)
}
