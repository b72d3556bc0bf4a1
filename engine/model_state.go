package engine

import (
	"github.com/gekko3d/tessera/bucketmesh"
	"github.com/gekko3d/tessera/model"
	"github.com/gekko3d/tessera/reactive"
	"github.com/gekko3d/tessera/render"
	"github.com/gekko3d/tessera/subdiv"

	"github.com/cogentcore/webgpu/wgpu"
)

// modelState is what reactive.ForEach builds once per model ID and keeps
// alive across frames as long as the ID persists; its Owner cleanup frees
// the subdiv driver's and render bindings' GPU buffers when the ID is
// dropped from the model list.
type modelState struct {
	transform *reactive.Signal[model.Transform]
	material  *reactive.Signal[model.Material]
	shaderID  *reactive.Signal[string]

	driver         *subdiv.Driver
	bindings       *render.ModelBindings
	materialEffect *reactive.RenderEffect
}

// buildModelState is the reactive.ForEach builder: allocates one model's
// subdiv/render GPU state and registers its cleanup on owner.
func buildModelState(device *wgpu.Device, copier *subdiv.DrawCopier, meshes bucketmesh.Set, registry *shaderRegistry, config RendererConfig) func(owner *reactive.Owner, id string, info model.Info) *modelState {
	return func(owner *reactive.Owner, id string, info model.Info) *modelState {
		var indexCounts [5]uint32
		for i, m := range meshes {
			indexCounts[i] = m.IndexCount
		}

		// shadersrc.Compiler hands every pipeline it builds the same
		// explicit group-1/group-2 wgpu.BindGroupLayout objects (see
		// shadersrc.ShaderPipelines's doc comment), so the bind groups
		// built below stay valid against whatever pipeline shaderID
		// resolves to on a later frame: the render loop re-resolves
		// shaderID's current pipeline every frame instead of rebuilding
		// anything here, satisfying spec.md §4.8's "downstream consumers
		// rebind automatically" without re-running this builder.
		pipelines := registry.slot(info.ShaderID).Peek()

		driver := subdiv.NewDriver(device, "model:"+id, pipelines, copier, indexCounts, config.MaxPatchCount, config.SubdivisionRounds, config.Strict, config.logger())
		var buckets [5]*subdiv.PatchQueue
		for i := range buckets {
			buckets[i] = driver.BucketQueue(i)
		}
		bindings := render.NewModelBindings(device, "model:"+id, pipelines, driver.ModelUniformBuffer(), buckets)

		owner.OnCleanup(func() {
			driver.Release()
			bindings.Release()
		})

		material := reactive.NewSignal(info.Material)
		materialEffect := reactive.NewRenderEffect(func() {
			bindings.WriteMaterial(device, render.MaterialUniformsFromModel(material.Get()))
		})

		return &modelState{
			transform:      reactive.NewSignal(info.Transform),
			material:       material,
			shaderID:       reactive.NewSignal(info.ShaderID),
			driver:         driver,
			bindings:       bindings,
			materialEffect: materialEffect,
		}
	}
}
