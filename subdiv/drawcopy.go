package subdiv

import (
	_ "embed"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed templates/drawcopy.wgsl
var drawCopySource string

// DrawCopier compiles and runs the C4 publish pass: one fixed pipeline,
// shared by every model, since the pass never touches user shader code.
type DrawCopier struct {
	device   *wgpu.Device
	pipeline *wgpu.ComputePipeline
	layout   *wgpu.BindGroupLayout
}

// NewDrawCopier compiles the publish_main pipeline once.
func NewDrawCopier(device *wgpu.Device) *DrawCopier {
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "drawcopy",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: drawCopySource},
	})
	if err != nil {
		panic(fmt.Errorf("subdiv: compile drawcopy shader: %w", err))
	}
	defer module.Release()

	pipeline, err := device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:   "drawcopy",
		Compute: wgpu.ProgrammableStageDescriptor{Module: module, EntryPoint: "publish_main"},
	})
	if err != nil {
		panic(fmt.Errorf("subdiv: create drawcopy pipeline: %w", err))
	}

	return &DrawCopier{device: device, pipeline: pipeline, layout: pipeline.GetBindGroupLayout(0)}
}

// Layout exposes the publish pass's bind group layout so a Driver can build
// its bind group once at construction time.
func (c *DrawCopier) Layout() *wgpu.BindGroupLayout { return c.layout }

// Publish runs the single-workgroup publish pass against bindGroup (five
// bucket headers, read-only, plus the model's draw-args buffer).
func (c *DrawCopier) Publish(encoder *wgpu.CommandEncoder, bindGroup *wgpu.BindGroup) {
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(c.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(1, 1, 1)
	pass.End()
}
