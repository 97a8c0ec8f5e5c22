package generation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/planetforge/internal/body"
	"github.com/talgya/planetforge/internal/physics"
	"github.com/talgya/planetforge/internal/stellar"
	"github.com/talgya/planetforge/internal/terrain"
)

func solSeed() SystemSeed {
	return SystemSeed{
		Name:  "Sol",
		Seed:  1234,
		Stars: []stellar.Star{{Name: "Sun", Mass: 1}},
		Bodies: []BodySeed{
			{Profile: body.Profile{Name: "Earth", Mass: physics.EarthMass, Radius: physics.EarthRadius, DistanceAU: 1, Albedo: 0.3, MagneticField: true}},
			{Profile: body.Profile{Name: "Mars", Mass: 6.42e23, Radius: 3.39e6, DistanceAU: 1.52, Albedo: 0.25}},
			{Profile: body.Profile{Name: "Luna", Mass: 7.35e22, Radius: 1.737e6, Albedo: 0.12, Type: body.TypeMoon}, Parent: "Earth"},
			{Profile: body.Profile{Name: "Ghost", Mass: 1e20, Radius: 1e5}, Parent: "Vulcan"},
			{Profile: body.Profile{Name: "Stray", Mass: 1e22, Radius: 1e6, DistanceAU: 3}, Star: "Nemesis"},
		},
	}
}

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sol.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"name": "Sol",
		"seed": 42,
		"stars": [{"name": "Sun", "mass": 1}],
		"celestial_bodies": [
			{"name": "Earth", "mass": 5.972e24, "radius": 6.371e6, "distance_au": 1, "albedo": 0.3},
			{"name": "Luna", "identifier": "moon-1", "parent_identifier": "Earth", "mass": 7.35e22, "radius": 1.737e6}
		]
	}`), 0o644))

	s, err := LoadSeed(path)
	require.NoError(t, err)
	require.Equal(t, "Sol", s.Name)
	require.Equal(t, int64(42), s.Seed)
	require.Len(t, s.Bodies, 2)
	require.Equal(t, 5.972e24, s.Bodies[0].Mass)
	require.Equal(t, "moon-1", s.Bodies[1].ID())
	require.True(t, s.Bodies[1].Satellite())
	require.False(t, s.Bodies[0].Satellite())
}

func TestLoadSeedErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadSeed(filepath.Join(dir, "missing.json"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"name":`), 0o644))
	_, err = LoadSeed(bad)
	require.Error(t, err)

	nostar := filepath.Join(dir, "nostar.json")
	require.NoError(t, os.WriteFile(nostar, []byte(`{"name":"X","stars":[]}`), 0o644))
	_, err = LoadSeed(nostar)
	require.ErrorContains(t, err, "star")
}

func TestGenerateSystem(t *testing.T) {
	sys, err := Orchestrator{Workers: 4}.Generate(context.Background(), solSeed())
	require.NoError(t, err)

	require.Len(t, sys.Stars, 1)
	require.InDelta(t, 1.0, sys.Stars[0].Context.Luminosity, 1e-9)

	require.Len(t, sys.Bodies, 3)
	require.Equal(t, "Earth", sys.Bodies[0].Identifier)
	require.Equal(t, "Mars", sys.Bodies[1].Identifier)
	require.Equal(t, "Luna", sys.Bodies[2].Identifier)

	require.Len(t, sys.Skipped, 2)
	skipped := []string{sys.Skipped[0].Body, sys.Skipped[1].Body}
	require.ElementsMatch(t, []string{"Ghost", "Stray"}, skipped)

	earth, ok := sys.Body("Earth")
	require.True(t, ok)
	require.Equal(t, stellar.HabitableZone, earth.Zone)
	require.NotNil(t, earth.Hydrosphere.Bodies.Oceans)
	require.InDelta(t, 288, earth.Atmosphere.Temperature, 30)
	require.Equal(t, terrain.SourceAlgorithmic, earth.Terrain.Descriptor.Source)
	require.Equal(t, sys.Stars[0].ID, earth.StarID)

	luna, ok := sys.Body("Luna")
	require.True(t, ok)
	require.Equal(t, earth.ID, luna.ParentID)
	require.Equal(t, 1.0, luna.Profile.DistanceAU)
	require.NotNil(t, luna.Terrain)
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Orchestrator{Workers: 3}.Generate(context.Background(), solSeed())
	require.NoError(t, err)
	b, err := Orchestrator{Workers: 1}.Generate(context.Background(), solSeed())
	require.NoError(t, err)

	require.Equal(t, a.ID, b.ID)
	require.Len(t, b.Bodies, len(a.Bodies))
	for i := range a.Bodies {
		require.Equal(t, a.Bodies[i].ID, b.Bodies[i].ID)
		require.Equal(t, a.Bodies[i].Composition, b.Bodies[i].Composition)
		require.Equal(t, a.Bodies[i].Geosphere, b.Bodies[i].Geosphere)
		require.Equal(t, a.Bodies[i].Atmosphere, b.Bodies[i].Atmosphere)
		require.Equal(t, a.Bodies[i].Hydrosphere, b.Bodies[i].Hydrosphere)
		require.Equal(t, a.Bodies[i].Terrain.Elevation, b.Bodies[i].Terrain.Elevation)
	}
}

func TestGenerateColdOuterBody(t *testing.T) {
	seed := SystemSeed{
		Name:  "Cold",
		Seed:  9,
		Stars: []stellar.Star{{Name: "Sun", Mass: 1, Luminosity: 1}},
		Bodies: []BodySeed{
			{Profile: body.Profile{Name: "Frost", Mass: 8 * physics.EarthMass, Radius: 2 * physics.EarthRadius, DistanceAU: 6, Albedo: 0.3}},
		},
	}
	sys, err := Orchestrator{}.Generate(context.Background(), seed)
	require.NoError(t, err)
	require.Len(t, sys.Bodies, 1)

	b := sys.Bodies[0]
	require.Equal(t, stellar.OuterZone, b.Zone)
	require.Nil(t, b.Hydrosphere.Bodies.Oceans)
	require.Greater(t, b.Hydrosphere.IceMass(), 0.0)
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Orchestrator{}.Generate(ctx, solSeed())
	require.ErrorIs(t, err, context.Canceled)
}

func TestEntityIDStable(t *testing.T) {
	require.Equal(t, EntityID("Sol", "body", "Earth"), EntityID("Sol", "body", "Earth"))
	require.NotEqual(t, EntityID("Sol", "body", "Earth"), EntityID("Sol", "star", "Earth"))
}
