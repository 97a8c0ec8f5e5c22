// Package physics provides the physical constants and reference-body values
// shared by every synthesizer. Values are SI unless the name says otherwise.
package physics

import "math"

// Fundamental constants.
const (
	// G is the gravitational constant (m³ kg⁻¹ s⁻²).
	G = 6.67430e-11

	// StefanBoltzmann is σ (W m⁻² K⁻⁴).
	StefanBoltzmann = 5.670374419e-8

	// GasConstant is the ideal gas constant R (J mol⁻¹ K⁻¹).
	GasConstant = 8.314462618
)

// Reference bodies. Earth and Sol anchor every relative quantity.
const (
	EarthMass        = 5.972e24 // kg
	EarthRadius      = 6.371e6  // m
	EarthDiameter    = 1.2742e7 // m
	EarthDensity     = 5514.0   // kg/m³
	EarthGravity     = 9.80665  // m/s²
	SolarLuminosity  = 3.828e26 // W
	SolarMass        = 1.989e30 // kg
	SolarRadius      = 6.96e8   // m
	SolarTemperature = 5778.0   // K
	AU               = 1.496e11 // m
)

// Water.
const (
	// FreezingPoint of water at 1 bar (K).
	FreezingPoint = 273.15

	// BoilingPoint of water at 1 bar (K).
	BoilingPoint = 373.15

	// WaterDensity (kg/m³).
	WaterDensity = 1000.0
)

// PascalsPerBar converts pressure units.
const PascalsPerBar = 1e5

// StellarFlux returns the radiative flux (W/m²) received at distanceAU from a
// star of the given luminosity in solar units.
func StellarFlux(luminositySol, distanceAU float64) float64 {
	d := distanceAU * AU
	return luminositySol * SolarLuminosity / (4 * math.Pi * d * d)
}

// EquilibriumTemperature is the Stefan–Boltzmann balance temperature (K) of a
// fast-rotating body with the given albedo under the given flux.
func EquilibriumTemperature(flux, albedo float64) float64 {
	return math.Pow((1-albedo)*flux/(4*StefanBoltzmann), 0.25)
}

// SphereArea returns 4πr².
func SphereArea(radius float64) float64 {
	return 4 * math.Pi * radius * radius
}

// SphereVolume returns 4/3 πr³.
func SphereVolume(radius float64) float64 {
	return 4.0 / 3.0 * math.Pi * radius * radius * radius
}
