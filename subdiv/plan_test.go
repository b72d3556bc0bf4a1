package subdiv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlanRoundsAlternatesFromTo(t *testing.T) {
	steps := planRounds(4)
	require.Len(t, steps, 8, "4 rounds -> 2N == 8 ping-pongs")
	for i, s := range steps {
		if i%2 == 0 {
			require.Equal(t, Step{From: 0, To: 1, ForceEmit: s.ForceEmit}, s)
		} else {
			require.Equal(t, Step{From: 1, To: 0, ForceEmit: s.ForceEmit}, s)
		}
	}
}

func TestPlanRoundsForceEmitsOnlyFinalRound(t *testing.T) {
	steps := planRounds(3)
	for _, s := range steps[:4] {
		require.False(t, s.ForceEmit)
	}
	for _, s := range steps[4:] {
		require.True(t, s.ForceEmit)
	}
}

func TestPlanSingleRoundIsAllForceEmit(t *testing.T) {
	steps := planRounds(1)
	require.Len(t, steps, 2)
	require.True(t, steps[0].ForceEmit)
	require.True(t, steps[1].ForceEmit)
}

func TestPlanRoundsPanicsBelowOne(t *testing.T) {
	require.Panics(t, func() { planRounds(0) })
}
