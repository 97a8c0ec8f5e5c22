// Package body defines the physical seed profile of a planet, moon or minor
// body and the surface quantities derived from it.
package body

import (
	"math"

	"github.com/talgya/planetforge/internal/physics"
)

// Type is an explicit body classification supplied by the seed file.
type Type string

const (
	TypeNone        Type = ""
	TypeTerrestrial Type = "terrestrial"
	TypeGasGiant    Type = "gas_giant"
	TypeIceGiant    Type = "ice_giant"
	TypeDwarfPlanet Type = "dwarf_planet"
	TypeMoon        Type = "moon"
	TypeAsteroid    Type = "asteroid"
)

// Profile is the physical input for one body. Surface temperature is derived,
// not supplied.
type Profile struct {
	Name          string  `json:"name"`
	Mass          float64 `json:"mass"`        // kg
	Radius        float64 `json:"radius"`      // m
	DistanceAU    float64 `json:"distance_au"` // from the host star
	Albedo        float64 `json:"albedo"`
	Type          Type    `json:"type,omitempty"`
	MagneticField bool    `json:"magnetic_field,omitempty"`
}

// Density returns the bulk density in kg/m³.
func (p Profile) Density() float64 {
	return p.Mass / physics.SphereVolume(p.Radius)
}

// SurfaceGravity returns g in m/s².
func (p Profile) SurfaceGravity() float64 {
	return physics.G * p.Mass / (p.Radius * p.Radius)
}

// SurfaceArea returns the surface area in m².
func (p Profile) SurfaceArea() float64 {
	return physics.SphereArea(p.Radius)
}

// EscapeVelocity returns sqrt(2GM/r) in m/s.
func (p Profile) EscapeVelocity() float64 {
	return math.Sqrt(2 * physics.G * p.Mass / p.Radius)
}

func (p Profile) EarthMasses() float64 { return p.Mass / physics.EarthMass }
func (p Profile) EarthRadii() float64  { return p.Radius / physics.EarthRadius }

// Diameter returns the diameter in m.
func (p Profile) Diameter() float64 { return 2 * p.Radius }
