package render

import (
	"fmt"

	"github.com/gekko3d/tessera/gpubuf"
	"github.com/gekko3d/tessera/shadersrc"
	"github.com/gekko3d/tessera/subdiv"

	"github.com/cogentcore/webgpu/wgpu"
)

// ModelBindings holds one model's render-side state: the material uniform
// buffer and one bind group per bucket density (binding 2 is the only thing
// that differs between them, the bucket queue C6 reads instances from).
type ModelBindings struct {
	material *gpubuf.Buffer
	groups   [5]*wgpu.BindGroup
}

// NewModelBindings builds a model's five render bind groups against
// pipelines' fixed bind-group-1 layout (identical across every compiled
// shader, since only sampleObject/getColor vary). modelUniform is the same
// buffer subdiv.Driver writes every frame; buckets are that driver's five
// bucket queues, read-only here.
func NewModelBindings(device *wgpu.Device, label string, pipelines *shadersrc.ShaderPipelines, modelUniform *gpubuf.Buffer, buckets [5]*subdiv.PatchQueue) *ModelBindings {
	mb := &ModelBindings{material: gpubuf.NewUniform(device, label+".material", MaterialUniforms{})}

	layout := pipelines.RenderGroup1Layout
	for i, bucket := range buckets {
		mb.groups[i] = gpubuf.CreateBindGroup(device, &wgpu.BindGroupDescriptor{
			Label:  fmt.Sprintf("%s.render_group1.%d", label, i),
			Layout: layout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: modelUniform.Raw(), Size: modelUniform.Size()},
				{Binding: 1, Buffer: mb.material.Raw(), Size: mb.material.Size()},
				{Binding: 2, Buffer: bucket.Buffer().Raw(), Size: bucket.Buffer().Size()},
			},
		})
	}
	return mb
}

// WriteMaterial overwrites the material uniform buffer.
func (mb *ModelBindings) WriteMaterial(device *wgpu.Device, mat MaterialUniforms) {
	mb.material.Write(device, mat)
}

// Group returns the bind group for bucket index i (0=density 2 .. 4=density 32).
func (mb *ModelBindings) Group(bucketIndex int) *wgpu.BindGroup { return mb.groups[bucketIndex] }

// Release frees the material uniform buffer.
func (mb *ModelBindings) Release() { mb.material.Release() }
