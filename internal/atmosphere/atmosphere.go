// Package atmosphere synthesizes a body's initial gas envelope: species mix,
// volcanic outgassing, mass and pressure, greenhouse-adjusted surface
// temperature and light-gas escape.
package atmosphere

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/dustin/go-humanize"

	"github.com/talgya/planetforge/internal/body"
	"github.com/talgya/planetforge/internal/composition"
	"github.com/talgya/planetforge/internal/materials"
	"github.com/talgya/planetforge/internal/physics"
	"github.com/talgya/planetforge/internal/rng"
)

// Gas is one species in the mix. MolarMass is g/mol and zero when the
// material lookup had no entry.
type Gas struct {
	Percentage float64 `json:"percentage"`
	MolarMass  float64 `json:"molar_mass,omitempty"`
}

// State is the generated atmosphere.
type State struct {
	Gases                  map[string]Gas `json:"composition"`
	Mass                   float64        `json:"total_atmospheric_mass"` // kg
	Pressure               float64        `json:"pressure"`               // bar
	Temperature            float64        `json:"temperature"`            // K, greenhouse adjusted
	EquilibriumTemperature float64        `json:"equilibrium_temperature"`
	GreenhouseFactor       float64        `json:"greenhouse_factor"`
	Dust                   float64        `json:"dust_concentration,omitempty"`
	Iterations             int            `json:"-"`
}

// Percent returns the percentage of species, or 0.
func (s State) Percent(species string) float64 {
	return s.Gases[species].Percentage
}

// WaterVaporMass returns the mass of atmospheric H2O in kg.
func (s State) WaterVaporMass() float64 {
	return s.Percent("H2O") / 100 * s.Mass
}

// Input carries everything the synthesizer reads.
type Input struct {
	Body        body.Profile
	Composition composition.Profile
	Luminosity  float64 // solar units
	Activity    float64 // geological activity, 0–100
}

const (
	maxIterations = 100
	tolerance     = 1e-3

	minTemperature = 150.0
	maxTemperature = 350.0

	// Water's greenhouse weight ramps from zero at 200 K to full at boiling.
	vaporOnsetK = 200.0

	dustPerActivity = 0.0005
)

// Ordered so the floating-point sum is reproducible.
var greenhouseWeights = []struct {
	species string
	weight  float64
}{
	{"CO2", 0.1},
	{"H2O", 0.5},
	{"CH4", 0.3},
	{"N2O", 0.2},
}

// Synthesizer generates atmospheres. A nil Materials uses the default catalogue.
type Synthesizer struct {
	Materials materials.Lookup
	Logger    *slog.Logger
}

// Generate runs the full atmosphere pipeline for in.
func (s Synthesizer) Generate(r *rand.Rand, in Input) State {
	log := s.logger().With("component", "atmosphere", "body", in.Body.Name)
	b := in.Body

	teq := physics.EquilibriumTemperature(physics.StellarFlux(in.Luminosity, b.DistanceAU), b.Albedo)

	pct := initialMix(r, b.EarthMasses(), teq, in.Composition.Volatile)
	addVolcanic(r, pct, in.Activity, teq)
	physics.NormalizePercent(pct, 4)

	gases := s.resolve(log, pct)

	mass := b.Mass * retention(in.Composition.Volatile)
	st := State{
		Gases:                  gases,
		Mass:                   mass,
		Pressure:               physics.Round(mass*b.SurfaceGravity()/b.SurfaceArea()/physics.PascalsPerBar, 4),
		EquilibriumTemperature: teq,
		Dust:                   physics.Round(in.Activity*dustPerActivity, 4),
	}

	st.Temperature, st.GreenhouseFactor, st.Iterations = converge(teq, gases)
	st.Temperature = physics.Round(st.Temperature, 2)

	escape(st.Gases, b, st.Temperature)
	normalize(st.Gases)

	log.Debug("atmosphere generated",
		"mass", humanize.SIWithDigits(st.Mass, 3, "kg"),
		"pressure_bar", st.Pressure,
		"temperature_k", st.Temperature,
		"iterations", st.Iterations,
		"species", len(st.Gases),
	)
	return st
}

func (s Synthesizer) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s Synthesizer) lookup() materials.Lookup {
	if s.Materials != nil {
		return s.Materials
	}
	return materials.DefaultCatalog()
}

// initialMix draws the base species. Draw order is fixed so a seed always
// yields the same mix.
func initialMix(r *rand.Rand, massEarths, temp float64, tier composition.VolatileTier) map[string]float64 {
	pct := map[string]float64{
		"N2": rng.Range(r, 10, 70),
	}
	pct["CO2"] = rng.Range(r, 5, 50)
	pct["Ar"] = rng.Range(r, 0.1, 5)

	if temp > physics.FreezingPoint && tier != composition.TierLow {
		pct["H2O"] = rng.Range(r, 0.1, 10)
	}

	rich := tier == composition.TierHigh || tier == composition.TierVeryHigh
	switch {
	case massEarths > 5 && temp < 200 && rich:
		pct["CH4"] = rng.Range(r, 1, 20)
		pct["H2"] = rng.Range(r, 0.1, 5)
		pct["He"] = rng.Range(r, 0.01, 1)
	case massEarths > 1 && temp < 250 && tier == composition.TierHigh:
		pct["CH4"] = rng.Range(r, 0.1, 5)
	}
	return pct
}

// addVolcanic adds outgassed species scaled by activity/100.
func addVolcanic(r *rand.Rand, pct map[string]float64, activity, temp float64) {
	scale := activity / 100
	if scale <= 0 {
		return
	}
	pct["CO2"] += rng.Range(r, 0.1, 5) * scale
	if temp > 300 {
		pct["SO2"] += rng.Range(r, 0.01, 1) * scale
	}
	if temp > 350 {
		pct["H2S"] += rng.Range(r, 0.001, 0.1) * scale
	}
	pct["N2"] += rng.Range(r, 0.05, 2) * scale
	if temp > 273 {
		pct["H2O"] += rng.Range(r, 0.1, 3) * scale
	}
}

// suggester is implemented by lookups that can propose near-miss names.
type suggester interface {
	Suggest(name string, n int) []string
}

// resolve attaches molar masses. Species without one stay in the table but
// are skipped by greenhouse and escape math.
func (s Synthesizer) resolve(log *slog.Logger, pct map[string]float64) map[string]Gas {
	lookup := s.lookup()
	gases := make(map[string]Gas, len(pct))
	for species, p := range pct {
		g := Gas{Percentage: p}
		if m, ok := lookup.FindMaterial(species); ok && m.MolarMass > 0 {
			g.MolarMass = m.MolarMass
		} else {
			attrs := []any{"species", species}
			if sg, ok := lookup.(suggester); ok {
				if hints := sg.Suggest(species, 3); len(hints) > 0 {
					attrs = append(attrs, "did_you_mean", hints)
				}
			}
			log.Warn("molar mass not found", attrs...)
		}
		gases[species] = g
	}
	return gases
}

func retention(tier composition.VolatileTier) float64 {
	switch tier {
	case composition.TierLow:
		return 1e-8
	case composition.TierHigh:
		return 1e-6
	case composition.TierVeryHigh:
		return 1e-5
	default:
		return 1e-7
	}
}

// GreenhouseFactor returns 1 plus the weighted fractions of the greenhouse
// species, clamped to [1, 2]. Water's weight is scaled by how much of it is
// plausibly vapor at temp.
func GreenhouseFactor(gases map[string]Gas, temp float64) float64 {
	f := 1.0
	for _, gw := range greenhouseWeights {
		g, ok := gases[gw.species]
		if !ok || g.MolarMass <= 0 {
			continue
		}
		frac := g.Percentage / 100
		if gw.species == "H2O" {
			frac *= physics.Clamp((temp-vaporOnsetK)/(physics.BoilingPoint-vaporOnsetK), 0, 1)
		}
		f += gw.weight * frac
	}
	return physics.Clamp(f, 1, 2)
}

// converge iterates T = Teq·(1+g(T))^0.25 to a fixed point.
func converge(teq float64, gases map[string]Gas) (temp, factor float64, iterations int) {
	temp = teq
	for iterations = 1; iterations <= maxIterations; iterations++ {
		factor = GreenhouseFactor(gases, temp)
		next := teq * math.Pow(1+factor, 0.25)
		done := math.Abs(next-temp) < tolerance
		temp = next
		if done {
			break
		}
	}
	if iterations > maxIterations {
		iterations = maxIterations
	}
	return physics.Clamp(temp, minTemperature, maxTemperature), factor, iterations
}

// escape attenuates H2 and He on bodies without a magnetic field.
func escape(gases map[string]Gas, b body.Profile, temp float64) {
	if b.MagneticField {
		return
	}
	for species, g := range gases {
		if g.MolarMass <= 0 || (species != "H2" && species != "He") {
			continue
		}
		p := EscapeProbability(b, temp, g.MolarMass)
		switch {
		case species == "H2" && p > 0.1:
			g.Percentage = math.Max(g.Percentage*(1-0.05*p), 0)
		case species == "He" && p > 0.2:
			g.Percentage = math.Max(g.Percentage*(1-0.02*p), 0)
		}
		gases[species] = g
	}
}

// EscapeProbability exposes the escape term for one species.
func EscapeProbability(b body.Profile, temp, molarMass float64) float64 {
	if molarMass <= 0 {
		return 0
	}
	vTh := math.Sqrt(3 * physics.GasConstant * temp / (molarMass / 1000))
	return math.Exp(-b.EscapeVelocity() / vTh)
}

func normalize(gases map[string]Gas) {
	pct := make(map[string]float64, len(gases))
	for k, g := range gases {
		pct[k] = g.Percentage
	}
	physics.NormalizePercent(pct, 4)
	for k, g := range gases {
		g.Percentage = pct[k]
		gases[k] = g
	}
}
