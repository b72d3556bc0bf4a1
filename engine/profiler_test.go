package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProfilerAccumulatesScopeDuration(t *testing.T) {
	t0 := time.Unix(0, 0)
	restore := nowFunc
	defer func() { nowFunc = restore }()

	cur := t0
	nowFunc = func() time.Time { return cur }

	p := NewProfiler()
	p.BeginScope("subdivide")
	cur = cur.Add(5 * time.Millisecond)
	p.EndScope("subdivide")

	require.Equal(t, 5*time.Millisecond, p.Scopes["subdivide"])
	require.Equal(t, []string{"subdivide"}, p.Order)
}

func TestProfilerEndScopeWithoutBeginIsNoOp(t *testing.T) {
	p := NewProfiler()
	p.EndScope("never-started")
	require.Empty(t, p.Scopes)
}

func TestProfilerResetClearsEverything(t *testing.T) {
	p := NewProfiler()
	p.BeginScope("a")
	p.EndScope("a")
	p.SetCount("a", 10)
	p.Reset()
	require.Empty(t, p.Scopes)
	require.Empty(t, p.Counts)
	require.Empty(t, p.Order)
}

func TestProfilerGetStatsStringIncludesCounts(t *testing.T) {
	p := NewProfiler()
	p.BeginScope("render")
	p.EndScope("render")
	p.SetCount("render", 42)
	require.Contains(t, p.GetStatsString(), "render:")
	require.Contains(t, p.GetStatsString(), "(42)")
}
