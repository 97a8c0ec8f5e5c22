// Package composition estimates a body's bulk material archetypes and volatile
// tier from its mass and orbital zone.
package composition

import (
	"github.com/talgya/planetforge/internal/body"
	"github.com/talgya/planetforge/internal/stellar"
)

// Material is a coarse archetype tag for one layer.
type Material string

const (
	IronNickel       Material = "iron_nickel"
	Silicate         Material = "silicate"
	Rock             Material = "rock"
	RockWithWater    Material = "rock_with_water"
	Ice              Material = "ice"
	WaterAmmoniaIce  Material = "water_ammonia_ice"
	MetallicHydrogen Material = "metallic_hydrogen"
	Gaseous          Material = "gaseous"
	Unknown          Material = "unknown"
)

// VolatileTier buckets how much gas and ice a body retains.
type VolatileTier string

const (
	TierLow      VolatileTier = "low"
	TierMedium   VolatileTier = "medium"
	TierHigh     VolatileTier = "high"
	TierVeryHigh VolatileTier = "very_high"
)

// Kind names the profile branch that produced a Profile.
type Kind string

const (
	KindGasGiant Kind = "gas_giant"
	KindIceGiant Kind = "ice_giant"
	KindRocky    Kind = "rocky"
	KindMixed    Kind = "mixed"
	KindIcy      Kind = "icy"
	KindUnknown  Kind = "unknown"
)

// Profile is the read-only composition handed to the sphere synthesizers.
type Profile struct {
	Kind     Kind         `json:"kind"`
	Core     Material     `json:"core"`
	Mantle   Material     `json:"mantle"`
	Surface  Material     `json:"surface"`
	Volatile VolatileTier `json:"volatile_content"`
}

const (
	gasGiantMinEarths = 50.0
	iceGiantMinEarths = 10.0
)

// Estimate picks a profile for a body of massEarths Earth masses in zone.
// An explicit override for a giant type wins over the mass heuristics.
func Estimate(massEarths float64, zone stellar.Zone, override body.Type) Profile {
	switch {
	case override == body.TypeGasGiant || massEarths > gasGiantMinEarths:
		return Profile{Kind: KindGasGiant, Core: Rock, Mantle: MetallicHydrogen, Surface: Gaseous, Volatile: TierVeryHigh}
	case override == body.TypeIceGiant || (massEarths > iceGiantMinEarths && zone == stellar.OuterZone):
		return Profile{Kind: KindIceGiant, Core: Rock, Mantle: WaterAmmoniaIce, Surface: Gaseous, Volatile: TierVeryHigh}
	}

	switch zone {
	case stellar.InnerZone:
		return Profile{Kind: KindRocky, Core: IronNickel, Mantle: Silicate, Surface: Rock, Volatile: TierLow}
	case stellar.HabitableZone:
		return Profile{Kind: KindMixed, Core: IronNickel, Mantle: Silicate, Surface: RockWithWater, Volatile: TierMedium}
	case stellar.OuterZone:
		return Profile{Kind: KindIcy, Core: Rock, Mantle: Ice, Surface: Ice, Volatile: TierHigh}
	default:
		return Profile{Kind: KindUnknown, Core: Unknown, Mantle: Unknown, Surface: Unknown, Volatile: TierMedium}
	}
}

// Giant reports whether the profile describes a gas or ice giant.
func (p Profile) Giant() bool {
	return p.Kind == KindGasGiant || p.Kind == KindIceGiant
}
