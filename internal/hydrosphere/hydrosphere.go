// Package hydrosphere derives a body's water inventory from its mass, volatile
// tier and the generated atmosphere: named water bodies, bulk composition and
// the liquid/solid/vapor phase split.
package hydrosphere

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/dustin/go-humanize"

	"github.com/talgya/planetforge/internal/atmosphere"
	"github.com/talgya/planetforge/internal/body"
	"github.com/talgya/planetforge/internal/composition"
	"github.com/talgya/planetforge/internal/physics"
	"github.com/talgya/planetforge/internal/rng"
)

// WaterBody is one class of surface or subsurface water. Unused fields are zero.
type WaterBody struct {
	Volume      float64 `json:"volume"`                 // m³
	Coverage    float64 `json:"coverage,omitempty"`     // percent of surface
	Temperature float64 `json:"temperature,omitempty"`  // K
	Salinity    float64 `json:"salinity,omitempty"`     // percent, or ppt when fresh
	Thickness   float64 `json:"thickness,omitempty"`    // m, ice caps
	Length      float64 `json:"total_length,omitempty"` // m, rivers
	DepthRange  string  `json:"depth_range,omitempty"`  // groundwater
}

// Bodies holds the named water bodies; nil means absent.
type Bodies struct {
	Oceans      *WaterBody `json:"oceans,omitempty"`
	Lakes       *WaterBody `json:"lakes,omitempty"`
	Rivers      *WaterBody `json:"rivers,omitempty"`
	IceCaps     *WaterBody `json:"ice_caps,omitempty"`
	Groundwater *WaterBody `json:"groundwater,omitempty"`
}

// Phases is the phase-state distribution in percent. The three values are
// clamped individually and need not sum to 100.
type Phases struct {
	Liquid float64 `json:"liquid"`
	Solid  float64 `json:"solid"`
	Vapor  float64 `json:"vapor"`
}

// State is the generated hydrosphere. A zero TotalMass means the body is dry
// and every other field is empty.
type State struct {
	Bodies       Bodies             `json:"liquid_bodies"`
	Composition  map[string]float64 `json:"composition,omitempty"`
	Phases       Phases             `json:"state_distribution"`
	TotalMass    float64            `json:"total_hydrosphere_mass"` // kg
	BoilingPoint float64            `json:"boiling_point"`          // K
}

// Empty reports whether the body has no hydrosphere.
func (s State) Empty() bool { return s.TotalMass <= 0 }

// LiquidVolume sums oceans, lakes and rivers in m³.
func (s State) LiquidVolume() float64 {
	total := 0.0
	for _, wb := range []*WaterBody{s.Bodies.Oceans, s.Bodies.Lakes, s.Bodies.Rivers} {
		if wb != nil {
			total += wb.Volume
		}
	}
	return total
}

// IceMass returns the ice-cap mass in kg.
func (s State) IceMass() float64 {
	if s.Bodies.IceCaps == nil {
		return 0
	}
	return s.Bodies.IceCaps.Volume * physics.WaterDensity
}

const (
	maxWaterFraction   = 0.1
	maxOceanVolume     = 1e18 // m³
	minLakeVolume      = 1e9  // m³
	minRiverVolume     = 1e9  // m³
	minGroundwaterMass = 1e15 // kg
	riverChance        = 0.3
)

// Fraction of the mass-scaled water estimate each tier keeps.
func volatileMultiplier(t composition.VolatileTier) float64 {
	switch t {
	case composition.TierLow:
		return 0.05
	case composition.TierHigh:
		return 1.0
	case composition.TierVeryHigh:
		return 2.0
	default:
		return 0.25
	}
}

// InitialWaterMass is the primordial water estimate in kg. The tier-scaled
// fraction never exceeds maxWaterFraction of the body's mass.
func InitialWaterMass(b body.Profile, tier composition.VolatileTier) float64 {
	frac := math.Min(0.001*b.EarthMasses()*volatileMultiplier(tier), maxWaterFraction)
	return b.Mass * frac
}

// BoilingPoint returns water's boiling point in K at pressureBar, anchored at
// 373.15 K at 1 bar. Near-vacuum pressures return the 1 bar value.
func BoilingPoint(pressureBar float64) float64 {
	if pressureBar <= 0.01 {
		return physics.BoilingPoint
	}
	return physics.BoilingPoint + 28*math.Log(pressureBar)
}

// Synthesizer generates hydrospheres. The zero value logs to slog.Default().
type Synthesizer struct {
	Logger *slog.Logger
}

func (s Synthesizer) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Generate builds the hydrosphere of b. Draws from r happen in a fixed order.
func (s Synthesizer) Generate(r *rand.Rand, b body.Profile, comp composition.Profile, atm atmosphere.State) State {
	log := s.logger().With("component", "hydrosphere", "body", b.Name)

	total := InitialWaterMass(b, comp.Volatile) + atm.WaterVaporMass()
	if total <= 0 {
		log.Debug("body is dry")
		return State{}
	}

	temp := atm.Temperature
	bp := BoilingPoint(atm.Pressure)
	st := State{
		TotalMass:    total,
		BoilingPoint: bp,
	}
	st.Bodies = waterBodies(r, b, temp, bp, total)
	st.Composition = waterComposition(r)
	st.Phases = phases(temp, bp, st.volume(), atm.Percent("H2O"))

	log.Debug("hydrosphere generated",
		"mass", humanize.SIWithDigits(total, 3, "kg"),
		"oceans", st.Bodies.Oceans != nil,
		"ice_caps", st.Bodies.IceCaps != nil,
		"liquid", st.Phases.Liquid,
		"solid", st.Phases.Solid,
		"vapor", st.Phases.Vapor,
	)
	return st
}

func (s State) volume() float64 {
	total := s.LiquidVolume()
	for _, wb := range []*WaterBody{s.Bodies.IceCaps, s.Bodies.Groundwater} {
		if wb != nil {
			total += wb.Volume
		}
	}
	return total
}

// waterTemperature cools larger bodies more below the surface temperature.
func waterTemperature(surfaceK, volumeFactor float64) float64 {
	return surfaceK - 5 - math.Log(100*volumeFactor+1)
}

func salinity(r *rand.Rand, freshwaterBias float64) float64 {
	if rng.Chance(r, freshwaterBias) {
		return rng.Range(r, 0.001, 0.05)
	}
	return rng.Range(r, 1, 4)
}

func waterBodies(r *rand.Rand, b body.Profile, temp, bp, total float64) Bodies {
	var out Bodies
	area := b.SurfaceArea()
	depth := total / (area * physics.WaterDensity)

	switch {
	case temp > physics.FreezingPoint && temp < bp:
		cov := rng.Range(r, 0.1, 0.9)
		out.Oceans = &WaterBody{
			Volume:      physics.Clamp(cov*area*depth*0.7, 0, maxOceanVolume),
			Salinity:    salinity(r, 0.1),
			Coverage:    cov * 100,
			Temperature: waterTemperature(temp, 0.7),
		}

		lakeCov := (1 - cov) * rng.Range(r, 0.01, 0.1)
		lakeVol := lakeCov * area * depth * rng.Range(r, 0.01, 0.1)
		lakeSal := salinity(r, 0.7)
		if lakeVol > minLakeVolume {
			out.Lakes = &WaterBody{
				Volume:      lakeVol,
				Salinity:    lakeSal,
				Coverage:    lakeCov * 100,
				Temperature: waterTemperature(temp, 0.2),
			}
		}
	case temp <= physics.FreezingPoint:
		cov := rng.Range(r, 0.1, 0.7)
		thickness := depth * cov * rng.Range(r, 0.01, 0.5)
		out.IceCaps = &WaterBody{
			Volume:      cov * area * thickness,
			Coverage:    cov * 100,
			Thickness:   thickness,
			Temperature: waterTemperature(temp, 0.9),
		}

		gwMass := total * 0.05
		maxDepth := rng.IntRange(r, 1, 5)
		if gwMass > minGroundwaterMass {
			out.Groundwater = &WaterBody{
				Volume:     gwMass / physics.WaterDensity,
				DepthRange: fmt.Sprintf("0-%dkm", maxDepth),
			}
		}
	}

	if temp > physics.FreezingPoint && rng.Chance(r, riverChance) {
		length := b.Radius * rng.Range(r, 0.001, 0.01)
		width := rng.Range(r, 1e3, 1e6)
		vol := length * width * width
		if vol > minRiverVolume {
			out.Rivers = &WaterBody{
				Volume:      vol,
				Length:      length,
				Temperature: waterTemperature(temp, 0.05),
			}
		}
	}
	return out
}

func waterComposition(r *rand.Rand) map[string]float64 {
	c := map[string]float64{
		"H2O": 97 + rng.Range(r, -2, 2),
	}
	c["dissolved_salts"] = physics.Clamp(3+rng.Range(r, -1, 1), 0.1, 5)
	physics.NormalizePercent(c, 4)
	return c
}

// phases splits water by state. Values are not renormalized.
func phases(temp, bp, volume, atmWaterPct float64) Phases {
	var p Phases
	if volume > 0 {
		switch {
		case temp < physics.FreezingPoint:
			p.Solid = 100
		case temp == physics.FreezingPoint:
			p.Solid = 50
		}
		if temp >= physics.FreezingPoint && temp <= bp {
			p.Liquid = 70
		}
		switch {
		case temp < physics.FreezingPoint || temp < bp:
		case temp > bp:
			p.Vapor = 100
		default:
			p.Vapor = 30
		}
	}
	p.Vapor = math.Max(p.Vapor+atmWaterPct*0.1, 0)

	return Phases{
		Liquid: physics.Round(physics.Clamp(p.Liquid, 0, 100), 1),
		Solid:  physics.Round(physics.Clamp(p.Solid, 0, 100), 1),
		Vapor:  physics.Round(physics.Clamp(p.Vapor, 0, 100), 1),
	}
}
