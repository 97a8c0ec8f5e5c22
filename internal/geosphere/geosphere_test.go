package geosphere

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/planetforge/internal/body"
	"github.com/talgya/planetforge/internal/composition"
	"github.com/talgya/planetforge/internal/physics"
	"github.com/talgya/planetforge/internal/rng"
	"github.com/talgya/planetforge/internal/stellar"
)

var earth = body.Profile{Name: "Earth", Mass: physics.EarthMass, Radius: physics.EarthRadius, DistanceAU: 1, Albedo: 0.3}

func TestEarthGeosphere(t *testing.T) {
	comp := composition.Estimate(1, stellar.HabitableZone, body.TypeNone)
	st := Synthesizer{}.Generate(rng.New(1), earth, comp, 255)

	require.InDelta(t, 5500, st.InternalTemperature, 1)
	require.InDelta(t, 360, st.InternalPressure, 1)
	require.InDelta(t, 60, st.Activity, 6.01)
	require.True(t, st.Tectonic)

	total := st.Core.Mass + st.Mantle.Mass + st.Crust.Mass
	require.InDelta(t, earth.Mass, total, earth.Mass*1e-9)
	require.InDelta(t, 0.30, st.Core.Mass/earth.Mass, 0.05)
	require.Less(t, st.Crust.Mass, st.Core.Mass)

	for _, l := range []Layer{st.Core, st.Mantle, st.Crust} {
		require.InDelta(t, 100, physics.Sum(l.Composition), 1e-3)
	}
	require.Contains(t, st.Crust.Composition, "H2O")
	require.Contains(t, st.Core.Composition, "Fe")
}

func TestSmallBodyIsInactive(t *testing.T) {
	mars := body.Profile{Name: "Mars", Mass: 6.42e23, Radius: 3.39e6, DistanceAU: 1.52, Albedo: 0.25}
	comp := composition.Estimate(mars.EarthMasses(), stellar.OuterZone, body.TypeNone)
	st := Synthesizer{}.Generate(rng.New(3), mars, comp, 210)

	require.Less(t, st.Activity, 40.0)
	require.False(t, st.Tectonic)
	require.NotContains(t, st.Crust.Composition, "S")
}

func TestGenerateDeterministic(t *testing.T) {
	comp := composition.Estimate(1, stellar.HabitableZone, body.TypeNone)
	a := Synthesizer{}.Generate(rng.New(77), earth, comp, 255)
	b := Synthesizer{}.Generate(rng.New(77), earth, comp, 255)
	require.Equal(t, a, b)
}

func TestVolcanicTraces(t *testing.T) {
	// A hot, massive rocky body sits well above the volcanic threshold.
	superEarth := body.Profile{Name: "Hot", Mass: 4 * physics.EarthMass, Radius: 1.4 * physics.EarthRadius}
	comp := composition.Estimate(4, stellar.InnerZone, body.TypeNone)
	st := Synthesizer{}.Generate(rng.New(5), superEarth, comp, 500)

	require.Greater(t, st.Activity, volcanicThreshold)
	require.Contains(t, st.Crust.Composition, "S")
	require.Contains(t, st.Crust.Composition, "SO2")
}

func TestCoreFractionClamped(t *testing.T) {
	// Very low density gives the minimum core radius.
	puff := body.Profile{Name: "Puff", Mass: 0.01 * physics.EarthMass, Radius: physics.EarthRadius}
	comp := composition.Estimate(0.01, stellar.OuterZone, body.TypeNone)
	st := Synthesizer{}.Generate(rng.New(9), puff, comp, 60)
	require.Equal(t, 0.15, st.Core.RadiusFraction)
	require.Contains(t, st.Crust.Composition, "CH4")
}
