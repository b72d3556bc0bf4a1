package patch_test

import (
	"testing"

	"github.com/gekko3d/tessera/patch"
	"github.com/stretchr/testify/require"
)

func TestRootCoversUnitSquare(t *testing.T) {
	r := patch.Decode(patch.Root)
	require.Equal(t, patch.Rect{UMin: 0, UMax: 1, VMin: 0, VMax: 1}, r)
}

func TestEncodeDecodeBijection(t *testing.T) {
	cases := []patch.Rect{
		{UMin: 0, UMax: 1, VMin: 0, VMax: 1},
		{UMin: 0, UMax: 0.5, VMin: 0.5, VMax: 1},
		{UMin: 0.25, UMax: 0.5, VMin: 0, VMax: 0.25},
		{UMin: 0.875, UMax: 1, VMin: 0, VMax: 0.125},
	}
	for _, c := range cases {
		p := patch.Encode(c.UMin, c.UMax, c.VMin, c.VMax)
		got := patch.Decode(p)
		require.InDelta(t, c.UMin, got.UMin, 1e-6)
		require.InDelta(t, c.UMax, got.UMax, 1e-6)
		require.InDelta(t, c.VMin, got.VMin, 1e-6)
		require.InDelta(t, c.VMax, got.VMax, 1e-6)
	}
}

func TestSplitUPartitionsDisjointly(t *testing.T) {
	left, right := patch.SplitU(patch.Root)
	lr := patch.Decode(left)
	rr := patch.Decode(right)

	require.Equal(t, lr.UMax, rr.UMin, "halves must share exactly the boundary")
	require.Less(t, lr.UMin, lr.UMax)
	require.Less(t, rr.UMin, rr.UMax)

	// union covers the parent's U interval exactly
	parent := patch.Decode(patch.Root)
	require.Equal(t, parent.UMin, lr.UMin)
	require.Equal(t, parent.UMax, rr.UMax)

	// V axis is untouched by SplitU
	require.Equal(t, parent.VMin, lr.VMin)
	require.Equal(t, parent.VMax, lr.VMax)
	require.Equal(t, lr.VMin, rr.VMin)
	require.Equal(t, lr.VMax, rr.VMax)
}

func TestSplitVPartitionsDisjointly(t *testing.T) {
	left, right := patch.SplitV(patch.Root)
	lr := patch.Decode(left)
	rr := patch.Decode(right)

	require.Equal(t, lr.VMax, rr.VMin)
	require.Equal(t, lr.UMin, rr.UMin)
	require.Equal(t, lr.UMax, rr.UMax)
}

func TestSplitQuadProducesFourDisjointChildren(t *testing.T) {
	ll, lr, rl, rr := patch.SplitQuad(patch.Root)

	rects := []patch.Rect{patch.Decode(ll), patch.Decode(lr), patch.Decode(rl), patch.Decode(rr)}
	for _, r := range rects {
		require.Equal(t, float32(0.5), r.UMax-r.UMin)
		require.Equal(t, float32(0.5), r.VMax-r.VMin)
	}

	// the four corners together tile exactly [0,1]x[0,1]
	require.Equal(t, float32(0), rects[0].UMin)
	require.Equal(t, float32(0), rects[0].VMin)
	require.Equal(t, float32(1), rects[3].UMax)
	require.Equal(t, float32(1), rects[3].VMax)
}

func TestDeepSplitStillBijects(t *testing.T) {
	p := patch.Root
	for i := 0; i < 10; i++ {
		p, _ = patch.SplitU(p)
		p, _ = patch.SplitV(p)
	}
	r := patch.Decode(p)
	got := patch.Encode(r.UMin, r.UMax, r.VMin, r.VMax)
	require.Equal(t, p, got)
}

func TestSplitAtMaxDepthPanics(t *testing.T) {
	p := patch.Patch{U: 1 << patch.MaxDepth, V: 1}
	require.Panics(t, func() { patch.SplitU(p) })
}
