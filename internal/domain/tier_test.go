package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func defaultSchedule(t *testing.T) TierSchedule {
	t.Helper()

	s, err := NewTierSchedule([]TierThreshold{
		{MinPoints: 0, Tier: "Bronze"},
		{MinPoints: 2000, Tier: "Silver"},
		{MinPoints: 5000, Tier: "Gold"},
		{MinPoints: 12000, Tier: "Platinum"},
	})
	require.NoError(t, err)

	return s
}

func TestNewTierSchedule(t *testing.T) {
	t.Run("rejects an empty schedule", func(t *testing.T) {
		_, err := NewTierSchedule(nil)
		require.ErrorIs(t, err, ErrEmptyTierSchedule)
	})

	t.Run("sorts thresholds and anchors the base at zero", func(t *testing.T) {
		s, err := NewTierSchedule([]TierThreshold{
			{MinPoints: 5000, Tier: "Gold"},
			{MinPoints: 100, Tier: "Bronze"},
			{MinPoints: 2000, Tier: "Silver"},
		})
		require.NoError(t, err)

		got := s.Thresholds()
		require.Equal(t, []TierThreshold{
			{MinPoints: 0, Tier: "Bronze"},
			{MinPoints: 2000, Tier: "Silver"},
			{MinPoints: 5000, Tier: "Gold"},
		}, got)
	})

	t.Run("does not alias the caller's slice", func(t *testing.T) {
		in := []TierThreshold{{MinPoints: 10, Tier: "Bronze"}}
		s, err := NewTierSchedule(in)
		require.NoError(t, err)

		in[0].Tier = "Mutated"
		require.Equal(t, "Bronze", s.TierFor(0))
	})
}

func TestTierSchedule_TierFor(t *testing.T) {
	s := defaultSchedule(t)

	tests := []struct {
		name     string
		lifetime int64
		want     string
	}{
		{"zero points is the base tier", 0, "Bronze"},
		{"just below a boundary", 1999, "Bronze"},
		{"exactly on a boundary", 2000, "Silver"},
		{"between boundaries", 4999, "Silver"},
		{"top tier boundary", 12000, "Platinum"},
		{"far above the top tier", 1_000_000, "Platinum"},
		{"negative input maps to the base tier", -50, "Bronze"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, s.TierFor(tt.lifetime))
		})
	}
}

func TestTierSchedule_TierForIsMonotonic(t *testing.T) {
	s := defaultSchedule(t)

	rank := map[string]int{"Bronze": 0, "Silver": 1, "Gold": 2, "Platinum": 3}

	prev := s.TierFor(0)
	for points := int64(1); points <= 15000; points += 7 {
		cur := s.TierFor(points)
		require.GreaterOrEqual(t, rank[cur], rank[prev],
			"tier must never drop as lifetime points grow (at %d points)", points)
		prev = cur
	}
}

func TestPointRule_PointsFor(t *testing.T) {
	rule := PointRule{ActionType: ActionConsumption, PointsPerUnit: 1, UnitSize: 10, Unit: "EUR_cents"}

	tests := []struct {
		name   string
		amount int64
		want   int64
	}{
		{"rounds down to the nearest full unit", 55, 5},
		{"exact multiple", 50, 5},
		{"below one unit awards nothing", 9, 0},
		{"zero amount", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, rule.PointsFor(tt.amount))
		})
	}

	t.Run("zero unit size awards nothing", func(t *testing.T) {
		broken := PointRule{PointsPerUnit: 3, UnitSize: 0}
		require.Equal(t, int64(0), broken.PointsFor(100))
	})
}
