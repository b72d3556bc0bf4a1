package subdiv

import (
	"github.com/gekko3d/tessera/gpubuf"

	"github.com/cogentcore/webgpu/wgpu"
)

// patchElementSize is sizeof(patch.Patch): two packed uint32 words.
const patchElementSize = 8

// PatchQueue is a GPU-resident queue of patch.Patch elements: a header the
// shader atomically bumps (length) and a fixed capacity past which appends
// are silently discarded, per spec.md §4.3's overflow rule.
type PatchQueue struct {
	buf      *gpubuf.Buffer
	capacity uint32
}

// NewPatchQueue allocates a queue sized for exactly capacity patches.
func NewPatchQueue(device *wgpu.Device, label string, capacity uint32) *PatchQueue {
	header := QueueHeader{Capacity: capacity}
	return &PatchQueue{
		buf:      gpubuf.NewStorageWithRuntimeArray(device, label, header, patchElementSize, int(capacity)),
		capacity: capacity,
	}
}

// Buffer exposes the underlying GPU buffer for binding.
func (q *PatchQueue) Buffer() *gpubuf.Buffer { return q.buf }

// Capacity reports the queue's fixed element capacity.
func (q *PatchQueue) Capacity() uint32 { return q.capacity }

// Release frees the queue's GPU buffer.
func (q *PatchQueue) Release() { q.buf.Release() }
