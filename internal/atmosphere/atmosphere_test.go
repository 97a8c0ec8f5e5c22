package atmosphere

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/planetforge/internal/body"
	"github.com/talgya/planetforge/internal/composition"
	"github.com/talgya/planetforge/internal/materials"
	"github.com/talgya/planetforge/internal/physics"
	"github.com/talgya/planetforge/internal/rng"
	"github.com/talgya/planetforge/internal/stellar"
)

func earthInput() Input {
	return Input{
		Body:        body.Profile{Name: "Earth", Mass: physics.EarthMass, Radius: physics.EarthRadius, DistanceAU: 1, Albedo: 0.3},
		Composition: composition.Estimate(1, stellar.HabitableZone, body.TypeNone),
		Luminosity:  1,
		Activity:    60,
	}
}

func percentSum(s State) float64 {
	total := 0.0
	for _, g := range s.Gases {
		total += g.Percentage
	}
	return total
}

func TestEarthAnalogConverges(t *testing.T) {
	st := Synthesizer{}.Generate(rng.New(1), earthInput())

	require.InDelta(t, 288, st.Temperature, 30)
	require.InDelta(t, 255, st.EquilibriumTemperature, 2)
	require.InDelta(t, 100, percentSum(st), 1e-3)
	require.Less(t, st.Iterations, maxIterations)
	require.GreaterOrEqual(t, st.GreenhouseFactor, 1.0)
	require.LessOrEqual(t, st.GreenhouseFactor, 2.0)

	for _, species := range []string{"N2", "CO2", "Ar"} {
		require.Contains(t, st.Gases, species)
		require.Positive(t, st.Gases[species].MolarMass)
	}
	require.InDelta(t, 0.03, st.Dust, 1e-9)
	require.InDelta(t, 0.115, st.Pressure, 0.01)
}

func TestPercentagesAlwaysSumTo100(t *testing.T) {
	in := earthInput()
	for seed := int64(0); seed < 50; seed++ {
		in.Activity = float64(seed * 2)
		st := Synthesizer{}.Generate(rng.New(seed), in)
		require.InDelta(t, 100, percentSum(st), 1e-3, "seed %d", seed)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Synthesizer{}.Generate(rng.New(2024), earthInput())
	b := Synthesizer{}.Generate(rng.New(2024), earthInput())
	require.Equal(t, a, b)
}

func TestColdMassiveBodyGetsLightGases(t *testing.T) {
	in := Input{
		Body:        body.Profile{Name: "Cold", Mass: 8 * physics.EarthMass, Radius: 2 * physics.EarthRadius, DistanceAU: 6, Albedo: 0.3},
		Composition: composition.Estimate(8, stellar.OuterZone, body.TypeNone),
		Luminosity:  1,
	}
	st := Synthesizer{}.Generate(rng.New(8), in)

	for _, species := range []string{"CH4", "H2", "He"} {
		require.Contains(t, st.Gases, species)
	}
	require.NotContains(t, st.Gases, "H2O")
	require.Equal(t, minTemperature, st.Temperature)
	require.InDelta(t, 100, percentSum(st), 1e-3)
}

func TestHotBodyGetsSulfurGases(t *testing.T) {
	in := earthInput()
	in.Body.DistanceAU = 0.5
	in.Composition = composition.Estimate(1, stellar.InnerZone, body.TypeNone)
	in.Activity = 80

	st := Synthesizer{}.Generate(rng.New(4), in)
	require.Contains(t, st.Gases, "SO2")
	require.Contains(t, st.Gases, "H2S")
	// Low volatile tier never seeds water in the base mix, but volcanism does.
	require.Contains(t, st.Gases, "H2O")
}

func TestMissingMolarMassIsRetained(t *testing.T) {
	// A catalogue without argon: the species stays in the table.
	lookup := materials.NewCatalog([]materials.Material{
		{ID: "nitrogen", Formula: "N2", MolarMass: 28.0134},
		{ID: "carbon_dioxide", Formula: "CO2", MolarMass: 44.0095},
	})
	st := Synthesizer{Materials: lookup}.Generate(rng.New(1), earthInput())

	require.Contains(t, st.Gases, "Ar")
	require.Zero(t, st.Gases["Ar"].MolarMass)
	require.InDelta(t, 100, percentSum(st), 1e-3)
}

func TestGreenhouseFactorIgnoresUnresolvedSpecies(t *testing.T) {
	gases := map[string]Gas{
		"CO2": {Percentage: 50},
		"N2":  {Percentage: 50, MolarMass: 28},
	}
	require.Equal(t, 1.0, GreenhouseFactor(gases, 300))

	gases["CO2"] = Gas{Percentage: 50, MolarMass: 44}
	require.InDelta(t, 1.05, GreenhouseFactor(gases, 300), 1e-9)
}

func TestGreenhouseFactorClamped(t *testing.T) {
	gases := map[string]Gas{"H2O": {Percentage: 100, MolarMass: 18}}
	require.Equal(t, 1.0, GreenhouseFactor(gases, 150))
	require.InDelta(t, 1.5, GreenhouseFactor(gases, 400), 1e-9)
}

func TestMagneticFieldBlocksEscape(t *testing.T) {
	small := body.Profile{Name: "Tiny", Mass: 1e21, Radius: 5e5}
	require.Greater(t, EscapeProbability(small, 300, 2.016), 0.1)

	gases := map[string]Gas{"H2": {Percentage: 10, MolarMass: 2.016}}
	escape(gases, small, 300)
	require.Less(t, gases["H2"].Percentage, 10.0)

	small.MagneticField = true
	gases = map[string]Gas{"H2": {Percentage: 10, MolarMass: 2.016}}
	escape(gases, small, 300)
	require.Equal(t, 10.0, gases["H2"].Percentage)
}
