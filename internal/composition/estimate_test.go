package composition

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/planetforge/internal/body"
	"github.com/talgya/planetforge/internal/stellar"
)

func TestEstimate(t *testing.T) {
	tests := []struct {
		name     string
		mass     float64
		zone     stellar.Zone
		override body.Type
		kind     Kind
		tier     VolatileTier
	}{
		{"massive body is a gas giant anywhere", 318, stellar.InnerZone, body.TypeNone, KindGasGiant, TierVeryHigh},
		{"explicit gas giant", 5, stellar.HabitableZone, body.TypeGasGiant, KindGasGiant, TierVeryHigh},
		{"outer mid-mass is an ice giant", 17, stellar.OuterZone, body.TypeNone, KindIceGiant, TierVeryHigh},
		{"mid-mass in habitable zone is not an ice giant", 17, stellar.HabitableZone, body.TypeNone, KindMixed, TierMedium},
		{"explicit ice giant", 3, stellar.InnerZone, body.TypeIceGiant, KindIceGiant, TierVeryHigh},
		{"inner rocky", 0.4, stellar.InnerZone, body.TypeNone, KindRocky, TierLow},
		{"habitable mixed", 1, stellar.HabitableZone, body.TypeNone, KindMixed, TierMedium},
		{"cold super-earth is icy", 8, stellar.OuterZone, body.TypeNone, KindIcy, TierHigh},
		{"boundary mass 50 is not a gas giant", 50, stellar.OuterZone, body.TypeNone, KindIceGiant, TierVeryHigh},
		{"unknown zone never defaults to rocky", 1, stellar.Zone("nowhere"), body.TypeNone, KindUnknown, TierMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Estimate(tt.mass, tt.zone, tt.override)
			require.Equal(t, tt.kind, p.Kind)
			require.Equal(t, tt.tier, p.Volatile)
		})
	}
}

func TestIcyProfileMaterials(t *testing.T) {
	p := Estimate(8, stellar.OuterZone, body.TypeNone)
	require.Equal(t, Rock, p.Core)
	require.Equal(t, Ice, p.Mantle)
	require.Equal(t, Ice, p.Surface)
	require.False(t, p.Giant())

	require.Equal(t, Estimate(8, stellar.OuterZone, body.TypeNone), p)
}
