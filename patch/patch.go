// Package patch implements the bit-tree codec for (u,v) parameter-space
// rectangles: each axis is packed into a single uint32 using a leading-1-bit
// binary fraction address, the same style of hand-rolled bit math the
// teacher uses for its brick occupancy masks.
package patch

import "math/bits"

// MaxDepth is the deepest a single axis word can go before the leading bit
// would fall off the top of a uint32.
const MaxDepth = 31

// Patch is a GPU-queue element: two word-packed axis addresses. The zero
// value is not a valid patch (Root must be used as the starting point).
type Patch struct {
	U uint32
	V uint32
}

// Root is the patch spanning the full (0,1)x(0,1) parameter domain.
var Root = Patch{U: 1, V: 1}

// Rect is the decoded (u,v) rectangle a Patch addresses.
type Rect struct {
	UMin, UMax float32
	VMin, VMax float32
}

// DepthU reports how many splits produced the U axis of p.
func DepthU(u uint32) int { return bits.Len32(u) - 1 }

// DepthV reports how many splits produced the V axis of p.
func DepthV(v uint32) int { return bits.Len32(v) - 1 }

// Encode packs an axis-aligned rectangle into a Patch. The rectangle must be
// representable exactly as a dyadic interval on each axis (as produced by
// repeated halving from Root); callers outside tests should only ever pass
// rectangles obtained from Decode or from Split.
func Encode(uMin, uMax, vMin, vMax float32) Patch {
	return Patch{
		U: encodeAxis(uMin, uMax),
		V: encodeAxis(vMin, vMax),
	}
}

func encodeAxis(min, max float32) uint32 {
	span := float64(max) - float64(min)
	if span <= 0 {
		panic("patch: degenerate axis interval")
	}
	depth := 0
	for s := span; s < 0.999999999; s *= 2 {
		depth++
	}
	if depth > MaxDepth {
		panic("patch: interval too small to represent")
	}
	scale := uint32(1) << uint(depth)
	k := uint32(float64(min)*float64(scale) + 0.5)
	return (uint32(1) << uint(depth)) | k
}

// Decode inverts Encode/Split: it returns the rectangle a Patch addresses.
func Decode(p Patch) Rect {
	uMin, uMax := decodeAxis(p.U)
	vMin, vMax := decodeAxis(p.V)
	return Rect{UMin: uMin, UMax: uMax, VMin: vMin, VMax: vMax}
}

func decodeAxis(word uint32) (min, max float32) {
	depth := bits.Len32(word) - 1
	leading := uint32(1) << uint(depth)
	k := word - leading
	scale := float32(1) / float32(leading)
	min = float32(k) * scale
	max = float32(k+1) * scale
	return
}

// SplitU appends a 0 (left) or 1 (right) bit below the leading bit of the U
// axis, halving the U interval while leaving V untouched.
func SplitU(p Patch) (left, right Patch) {
	if DepthU(p.U) >= MaxDepth {
		panic("patch: U axis already at max depth")
	}
	left = Patch{U: p.U << 1, V: p.V}
	right = Patch{U: (p.U << 1) | 1, V: p.V}
	return
}

// SplitV appends a 0 (left) or 1 (right) bit below the leading bit of the V
// axis, halving the V interval while leaving U untouched.
func SplitV(p Patch) (left, right Patch) {
	if DepthV(p.V) >= MaxDepth {
		panic("patch: V axis already at max depth")
	}
	left = Patch{U: p.U, V: p.V << 1}
	right = Patch{U: p.U, V: (p.V << 1) | 1}
	return
}

// SplitQuad splits both axes at once, producing the four children a
// quad-patch subdivision step emits.
func SplitQuad(p Patch) (ll, lr, rl, rr Patch) {
	uLeft, uRight := SplitU(p)
	ll, lr = SplitV(uLeft)
	rl, rr = SplitV(uRight)
	return
}
