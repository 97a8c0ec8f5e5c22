// Geosphere synthesis: layered interior, internal heat and pressure, and the
// geological-activity score consumed by the atmosphere and terrain stages.
package geosphere

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/dustin/go-humanize"

	"github.com/talgya/planetforge/internal/body"
	"github.com/talgya/planetforge/internal/composition"
	"github.com/talgya/planetforge/internal/physics"
	"github.com/talgya/planetforge/internal/rng"
)

// Layer is one shell of the interior.
type Layer struct {
	Composition    map[string]float64 `json:"composition"` // species -> percent
	Mass           float64            `json:"mass"`        // kg
	RadiusFraction float64            `json:"radius_fraction"`
}

// State is the generated geosphere.
type State struct {
	Crust               Layer   `json:"crust"`
	Mantle              Layer   `json:"mantle"`
	Core                Layer   `json:"core"`
	InternalTemperature float64 `json:"internal_temperature"` // K
	InternalPressure    float64 `json:"internal_pressure"`    // GPa, at the core
	Activity            float64 `json:"geological_activity"`  // 0–100
	Tectonic            bool    `json:"tectonic_activity"`
}

const (
	earthCoreTemperature = 5500.0 // K
	earthCorePressure    = 360.0  // GPa
	earthCoreFraction    = 0.546  // core radius / planet radius

	tectonicThreshold = 50.0
	volcanicThreshold = 60.0
)

// Relative densities used to split mass between shells of known volume.
const (
	coreWeight   = 2.2
	mantleWeight = 1.0
	crustWeight  = 0.6
)

// Synthesizer generates geospheres. The zero value logs to slog.Default().
type Synthesizer struct {
	Logger *slog.Logger
}

// Generate builds the geosphere of b. equilibriumK is the body's
// Stefan–Boltzmann temperature and selects the crust volatile regime.
func (s Synthesizer) Generate(r *rand.Rand, b body.Profile, comp composition.Profile, equilibriumK float64) State {
	log := s.logger().With("component", "geosphere", "body", b.Name)

	m := b.EarthMasses()
	rr := b.EarthRadii()

	st := State{
		InternalTemperature: InternalTemperature(m),
		InternalPressure:    earthCorePressure * m * m / math.Pow(rr, 4),
	}
	st.Activity = activity(r, m, rr, st.InternalTemperature)
	st.Tectonic = st.Activity > tectonicThreshold

	coreFrac := physics.Clamp(earthCoreFraction*b.Density()/physics.EarthDensity, 0.15, 0.85)
	crustThick := physics.Clamp(0.01*(1.5-st.Activity/100), 0.003, 0.02)

	coreVol := coreFrac * coreFrac * coreFrac
	crustVol := 1 - math.Pow(1-crustThick, 3)
	mantleVol := 1 - coreVol - crustVol

	wCore, wMantle, wCrust := coreVol*coreWeight, mantleVol*mantleWeight, crustVol*crustWeight
	total := wCore + wMantle + wCrust

	st.Core = Layer{
		Composition:    layerComposition(r, coreTemplate(comp.Core)),
		Mass:           b.Mass * wCore / total,
		RadiusFraction: coreFrac,
	}
	st.Mantle = Layer{
		Composition:    layerComposition(r, mantleTemplate(comp.Mantle)),
		Mass:           b.Mass * wMantle / total,
		RadiusFraction: 1 - crustThick,
	}
	st.Crust = Layer{
		Composition:    crustComposition(r, comp, equilibriumK, st.Activity),
		Mass:           b.Mass * wCrust / total,
		RadiusFraction: 1,
	}

	log.Debug("geosphere generated",
		"activity", physics.Round(st.Activity, 1),
		"tectonic", st.Tectonic,
		"core_mass_kg", humanize.SIWithDigits(st.Core.Mass, 3, "kg"),
		"internal_temp_k", math.Round(st.InternalTemperature),
	)
	return st
}

func (s Synthesizer) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// InternalTemperature scales the core temperature with mass in Earth masses.
func InternalTemperature(massEarths float64) float64 {
	return 1000 + (earthCoreTemperature-1000)*math.Pow(massEarths, 0.4)
}

// activity is ~60 for Earth, lower for small cool bodies, with ±10% noise.
func activity(r *rand.Rand, m, rr, internalK float64) float64 {
	if m <= 0 || rr <= 0 {
		return 0
	}
	base := 60 * (internalK / earthCoreTemperature) * math.Pow(m, 0.25) / math.Sqrt(rr)
	return physics.Clamp(base*(1+rng.Range(r, -0.1, 0.1)), 0, 100)
}

type part struct {
	species string
	pct     float64
}

func coreTemplate(m composition.Material) []part {
	switch m {
	case composition.IronNickel:
		return []part{{"Fe", 85}, {"Ni", 10}, {"S", 5}}
	case composition.Rock:
		return []part{{"SiO2", 40}, {"MgO", 30}, {"FeO", 20}, {"Fe", 10}}
	default:
		return []part{{"Fe", 50}, {"SiO2", 50}}
	}
}

func mantleTemplate(m composition.Material) []part {
	switch m {
	case composition.Silicate:
		return []part{{"Mg2SiO4", 55}, {"SiO2", 25}, {"FeO", 10}, {"CaO", 5}, {"Al2O3", 5}}
	case composition.Ice:
		return []part{{"H2O", 70}, {"SiO2", 20}, {"NH3", 10}}
	case composition.WaterAmmoniaIce:
		return []part{{"H2O", 65}, {"NH3", 20}, {"CH4", 15}}
	case composition.MetallicHydrogen:
		return []part{{"H2", 90}, {"He", 10}}
	default:
		return []part{{"SiO2", 60}, {"MgO", 40}}
	}
}

func crustTemplate(m composition.Material) []part {
	switch m {
	case composition.Rock, composition.RockWithWater:
		return []part{{"SiO2", 60}, {"Al2O3", 16}, {"FeO", 9}, {"CaO", 8}, {"MgO", 7}}
	case composition.Ice:
		return []part{{"H2O", 85}, {"SiO2", 15}}
	case composition.Gaseous:
		return []part{{"H2", 85}, {"He", 15}}
	default:
		return []part{{"SiO2", 70}, {"FeO", 30}}
	}
}

// layerComposition applies ±5% relative noise to a template and normalizes.
// Templates are ordered slices so draws are reproducible.
func layerComposition(r *rand.Rand, tmpl []part) map[string]float64 {
	out := make(map[string]float64, len(tmpl))
	for _, p := range tmpl {
		out[p.species] += p.pct * (1 + rng.Range(r, -0.05, 0.05))
	}
	physics.NormalizePercent(out, 4)
	return out
}

func tierScale(t composition.VolatileTier) float64 {
	switch t {
	case composition.TierLow:
		return 0.25
	case composition.TierHigh:
		return 2
	case composition.TierVeryHigh:
		return 3
	default:
		return 1
	}
}

// crustVolatiles returns the volatile additions for a temperature regime.
func crustVolatiles(equilibriumK float64) []part {
	switch {
	case equilibriumK < 150:
		return []part{{"H2O", 5}, {"CO2", 2}, {"CH4", 1.5}}
	case equilibriumK < physics.FreezingPoint:
		return []part{{"H2O", 3}, {"CO2", 1}, {"CH4", 0.3}}
	case equilibriumK < physics.BoilingPoint:
		return []part{{"H2O", 1.5}, {"CO2", 0.5}}
	default:
		return []part{{"CO2", 0.5}, {"SO2", 0.3}}
	}
}

func crustComposition(r *rand.Rand, comp composition.Profile, equilibriumK, activity float64) map[string]float64 {
	out := make(map[string]float64)
	for _, p := range crustTemplate(comp.Surface) {
		out[p.species] += p.pct * (1 + rng.Range(r, -0.05, 0.05))
	}

	scale := tierScale(comp.Volatile)
	for _, v := range crustVolatiles(equilibriumK) {
		out[v.species] += v.pct * scale * rng.Range(r, 0.8, 1.2)
	}

	if activity > volcanicThreshold {
		out["S"] += rng.Range(r, 0.1, 0.5)
		out["SO2"] += rng.Range(r, 0.05, 0.3)
	}

	physics.NormalizePercent(out, 4)
	return out
}
