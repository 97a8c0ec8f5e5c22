package stellar

import (
	"math"

	"github.com/talgya/planetforge/internal/physics"
)

// Star holds the seed parameters of a star. Zero fields are estimated from
// mass by FromMass.
type Star struct {
	Name        string  `json:"name"`
	Mass        float64 `json:"mass"`        // Solar masses
	Luminosity  float64 `json:"luminosity"`  // Solar units
	Temperature float64 `json:"temperature"` // Kelvin
	Radius      float64 `json:"radius"`      // m
	Type        string  `json:"type"`        // Spectral category, e.g. "G2V"
}

// Context is the immutable per-star record computed once before any body.
type Context struct {
	Name        string  `json:"name"`
	Luminosity  float64 `json:"luminosity"`
	Mass        float64 `json:"mass"`
	Temperature float64 `json:"temperature"`
	Radius      float64 `json:"radius"`
	Spectral    string  `json:"spectral"`
	Habitable   Bounds  `json:"habitable_zone"`
	FrostLineAU float64 `json:"frost_line_au"`
}

// FromMass fills in radius, luminosity and temperature using main-sequence
// approximations. Fields already set are kept.
func FromMass(s Star) Star {
	m := s.Mass
	if m <= 0 {
		m = 1
	}
	if s.Radius == 0 {
		if m >= 1 {
			s.Radius = physics.SolarRadius * math.Pow(m, 0.8)
		} else {
			s.Radius = physics.SolarRadius * math.Pow(m, 0.57)
		}
	}
	if s.Luminosity == 0 {
		s.Luminosity = math.Pow(m, 3.5)
	}
	if s.Temperature == 0 {
		s.Temperature = temperatureForMass(m)
	}
	if s.Type == "" {
		s.Type = SpectralClass(s.Temperature)
	}
	if s.Mass == 0 {
		s.Mass = m
	}
	return s
}

func temperatureForMass(m float64) float64 {
	switch {
	case m < 0.5:
		return 3000 + (m-0.1)*3000
	case m < 1.0:
		return 4000 + (m-0.5)*1556
	case m < 2.0:
		return physics.SolarTemperature + (m-1.0)*2000
	default:
		return 7778 + (m-2.0)*5000
	}
}

// SpectralClass returns the Harvard class letter for an effective temperature.
func SpectralClass(temperature float64) string {
	switch {
	case temperature >= 30000:
		return "O"
	case temperature >= 10000:
		return "B"
	case temperature >= 7500:
		return "A"
	case temperature >= 6000:
		return "F"
	case temperature >= 5200:
		return "G"
	case temperature >= 3700:
		return "K"
	default:
		return "M"
	}
}

// NewContext derives the zone geometry for a star.
func NewContext(s Star, model ZoneModel) Context {
	s = FromMass(s)
	return Context{
		Name:        s.Name,
		Luminosity:  s.Luminosity,
		Mass:        s.Mass,
		Temperature: s.Temperature,
		Radius:      s.Radius,
		Spectral:    s.Type,
		Habitable:   HabitableBoundsFor(model, s.Luminosity),
		FrostLineAU: FrostLine(s.Luminosity),
	}
}

// Zone classifies distanceAU around this star.
func (c Context) Zone(distanceAU float64) Zone {
	return ClassifyZone(distanceAU, c.Habitable)
}

// Flux returns the stellar flux (W/m²) at distanceAU.
func (c Context) Flux(distanceAU float64) float64 {
	return physics.StellarFlux(c.Luminosity, distanceAU)
}

// BeyondFrostLine reports whether distanceAU lies past the frost line.
func (c Context) BeyondFrostLine(distanceAU float64) bool {
	return distanceAU >= c.FrostLineAU
}
