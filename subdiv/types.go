// Package subdiv drives the GPU-resident patch-subdivision queues (C3/C4),
// one per model: seeding the root patch, ping-ponging Subdivide dispatches
// across rounds, force-emitting the survivors on the final round, and
// publishing bucket lengths into the indirect draw-args buffer. Grounded on
// manager_hiz.go's SetupHiZ/DispatchHiZ mip-chain dispatch pattern and
// manager.go's DispatchShadowPass.
package subdiv

import "github.com/go-gl/mathgl/mgl32"

// DispatchIndirectArgs matches subdivide.wgsl's DispatchIndirectArgs: x is
// atomically bumped by the shader to the next round's workgroup count, y/z
// stay at 1.
type DispatchIndirectArgs struct {
	X, Y, Z uint32
}

// QueueHeader matches subdivide.wgsl's PatchQueue header fields, without the
// trailing patches array gpubuf.NewStorageWithRuntimeArray appends after it.
type QueueHeader struct {
	Length, Capacity, Pad0, Pad1 uint32
}

// DrawIndexedIndirectArgs mirrors wgpu's DrawIndexedIndirect argument
// layout. BaseVertex is always 0 here: each bucket density has its own
// vertex buffer, so there is never a shared-buffer offset to apply.
type DrawIndexedIndirectArgs struct {
	IndexCount    uint32
	InstanceCount uint32
	FirstIndex    uint32
	BaseVertex    int32
	FirstInstance uint32
}

// ModelUniforms matches subdivide.wgsl and render.wgsl's ModelUniforms
// struct: the per-model MVP and subdivision threshold, shared between the
// compute and render passes so both read the same binding.
type ModelUniforms struct {
	MVP             mgl32.Mat4
	ThresholdFactor float32
	ForceRender     uint32
	Pad0, Pad1      uint32
}
