package render

import (
	"github.com/gekko3d/tessera/bucketmesh"
	"github.com/gekko3d/tessera/gpubuf"
	"github.com/gekko3d/tessera/shadersrc"

	"github.com/cogentcore/webgpu/wgpu"
)

// drawArgsStride is sizeof(subdiv.DrawIndexedIndirectArgs): 5 uint32-sized
// fields (one of them signed), 20 bytes.
const drawArgsStride = 20

// Logger is the narrow diagnostic sink Draw needs for its Strict-gated
// draw failures; engine.Logger satisfies it.
type Logger interface {
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// Target bundles one model's inputs for a single render pass: its compiled
// pipeline, its five render bind groups, and the indirect draw-args buffer
// its subdiv.Driver publishes instance counts into.
type Target struct {
	Pipelines *shadersrc.ShaderPipelines
	Bindings  *ModelBindings
	DrawArgs  *gpubuf.Buffer
}

// Draw issues C6 for one model within an already-open render pass: bind the
// model's pipeline once, then for each bucket density in fixed 2->4->8->16->32
// order, bind its vertex/index buffers and the model+material+bucket bind
// group, and draw_indexed_indirect at that bucket's slot in DrawArgs.
//
// sceneBindGroup is bind group 0, shared across every model and bucket in
// the frame. Reverse-Z depth test/write is baked into Pipelines.Render by
// shadersrc.Compiler, not set here.
//
// strict gates a failed draw_indexed_indirect call: panic when true, log via
// logger.Errorf and skip that bucket's draw otherwise.
func Draw(pass *wgpu.RenderPassEncoder, sceneBindGroup *wgpu.BindGroup, target Target, meshes bucketmesh.Set, strict bool, logger Logger) {
	if logger == nil {
		logger = nopLogger{}
	}
	pass.SetPipeline(target.Pipelines.Render)
	pass.SetBindGroup(0, sceneBindGroup, nil)

	for i, mesh := range meshes {
		pass.SetBindGroup(1, target.Bindings.Group(i), nil)
		pass.SetVertexBuffer(0, mesh.VertexBuf, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(mesh.IndexBuf, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
		if err := pass.DrawIndexedIndirect(target.DrawArgs.Raw(), uint64(i*drawArgsStride)); err != nil {
			if strict {
				panic(err)
			}
			logger.Errorf("render: draw_indexed_indirect bucket %d: %v", i, err)
			continue
		}
	}
}
