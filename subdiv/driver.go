package subdiv

import (
	"fmt"

	"github.com/gekko3d/tessera/gpubuf"
	"github.com/gekko3d/tessera/patch"
	"github.com/gekko3d/tessera/shadersrc"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// queueHeaderSize is sizeof(QueueHeader): the offset at which a queue's
// first patch element lives.
const queueHeaderSize = 16

// Logger is the narrow diagnostic sink Driver needs for its Strict-gated
// dispatch failures; engine.Logger satisfies it.
type Logger interface {
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// Driver owns one model's GPU-resident subdivision state: the per-model
// uniform buffer, the ping-pong patch-queue pair, the five fixed-density
// bucket queues, and the indirect draw-args buffer C4 publishes into.
// Grounded on voxelrt/rt/app/app.go's per-model Update()/Render() loop and
// manager_hiz.go's swappable-bind-group-per-dispatch idiom.
type Driver struct {
	device *wgpu.Device
	rounds int
	strict bool
	logger Logger

	uniform  *gpubuf.Buffer
	buckets  [5]*PatchQueue
	pingPong [2]*PatchQueue
	dispatch [2]*gpubuf.Buffer
	drawArgs *gpubuf.Buffer

	group1     *wgpu.BindGroup
	group2     [2]*wgpu.BindGroup // group2[i]: pingPong[i] is "from", the other is "to"
	publishGrp *wgpu.BindGroup

	zeroU32           *gpubuf.Buffer
	resetDispatchZero *gpubuf.Buffer
	resetDispatchSeed *gpubuf.Buffer
}

// NewDriver allocates one model's subdivision state. indexCounts gives the
// five bucket meshes' fixed index counts (2,4,8,16,32 order) so the
// draw-args buffer's index_count fields are correct from the first frame;
// instance_count starts at 0 and is filled in by the first Run.
func NewDriver(device *wgpu.Device, label string, pipelines *shadersrc.ShaderPipelines, copier *DrawCopier, indexCounts [5]uint32, queueCapacity uint32, rounds int, strict bool, logger Logger) *Driver {
	if logger == nil {
		logger = nopLogger{}
	}
	d := &Driver{device: device, rounds: rounds, strict: strict, logger: logger}

	d.uniform = gpubuf.NewUniform(device, label+".model_uniforms", ModelUniforms{})

	suffixes := [5]string{"bucket2", "bucket4", "bucket8", "bucket16", "bucket32"}
	for i, suffix := range suffixes {
		d.buckets[i] = NewPatchQueue(device, label+"."+suffix, queueCapacity)
	}

	d.pingPong[0] = NewPatchQueue(device, label+".pingpong0", queueCapacity)
	d.pingPong[1] = NewPatchQueue(device, label+".pingpong1", queueCapacity)
	d.dispatch[0] = gpubuf.NewStorage(device, label+".dispatch0", DispatchIndirectArgs{Y: 1, Z: 1})
	d.dispatch[1] = gpubuf.NewStorage(device, label+".dispatch1", DispatchIndirectArgs{Y: 1, Z: 1})

	var initialArgs [5]DrawIndexedIndirectArgs
	for i, count := range indexCounts {
		initialArgs[i] = DrawIndexedIndirectArgs{IndexCount: count}
	}
	d.drawArgs = gpubuf.NewStorage(device, label+".draw_args", initialArgs)

	d.zeroU32 = gpubuf.NewStorage(device, label+".zero_u32", uint32(0))
	d.resetDispatchZero = gpubuf.NewStorage(device, label+".reset_dispatch_zero", DispatchIndirectArgs{Y: 1, Z: 1})
	d.resetDispatchSeed = gpubuf.NewStorage(device, label+".reset_dispatch_seed", DispatchIndirectArgs{X: 1, Y: 1, Z: 1})

	d.group1 = gpubuf.CreateBindGroup(device, &wgpu.BindGroupDescriptor{
		Label:  label + ".group1",
		Layout: pipelines.SubdivGroup1Layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: d.uniform.Raw(), Size: d.uniform.Size()},
			{Binding: 1, Buffer: d.buckets[0].Buffer().Raw(), Size: d.buckets[0].Buffer().Size()},
			{Binding: 2, Buffer: d.buckets[1].Buffer().Raw(), Size: d.buckets[1].Buffer().Size()},
			{Binding: 3, Buffer: d.buckets[2].Buffer().Raw(), Size: d.buckets[2].Buffer().Size()},
			{Binding: 4, Buffer: d.buckets[3].Buffer().Raw(), Size: d.buckets[3].Buffer().Size()},
			{Binding: 5, Buffer: d.buckets[4].Buffer().Raw(), Size: d.buckets[4].Buffer().Size()},
		},
	})

	for i := 0; i < 2; i++ {
		from, to := i, 1-i
		d.group2[i] = gpubuf.CreateBindGroup(device, &wgpu.BindGroupDescriptor{
			Label:  fmt.Sprintf("%s.group2.%d", label, i),
			Layout: pipelines.SubdivGroup2Layout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: d.pingPong[from].Buffer().Raw(), Size: d.pingPong[from].Buffer().Size()},
				{Binding: 1, Buffer: d.pingPong[to].Buffer().Raw(), Size: d.pingPong[to].Buffer().Size()},
				{Binding: 2, Buffer: d.dispatch[to].Raw(), Size: d.dispatch[to].Size()},
			},
		})
	}

	d.publishGrp = gpubuf.CreateBindGroup(device, &wgpu.BindGroupDescriptor{
		Label:  label + ".publish",
		Layout: copier.Layout(),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: d.buckets[0].Buffer().Raw(), Size: d.buckets[0].Buffer().Size()},
			{Binding: 1, Buffer: d.buckets[1].Buffer().Raw(), Size: d.buckets[1].Buffer().Size()},
			{Binding: 2, Buffer: d.buckets[2].Buffer().Raw(), Size: d.buckets[2].Buffer().Size()},
			{Binding: 3, Buffer: d.buckets[3].Buffer().Raw(), Size: d.buckets[3].Buffer().Size()},
			{Binding: 4, Buffer: d.buckets[4].Buffer().Raw(), Size: d.buckets[4].Buffer().Size()},
			{Binding: 5, Buffer: d.drawArgs.Raw(), Size: d.drawArgs.Size()},
		},
	})

	return d
}

// ModelUniformBuffer exposes the per-model uniform buffer for the render
// pass's bind group (it shares this binding with C3).
func (d *Driver) ModelUniformBuffer() *gpubuf.Buffer { return d.uniform }

// BucketQueue returns the queue for bucket index i (0=density 2 .. 4=density 32).
func (d *Driver) BucketQueue(i int) *PatchQueue { return d.buckets[i] }

// DrawArgs exposes the indirect draw-args buffer C6 issues draw_indexed_indirect from.
func (d *Driver) DrawArgs() *gpubuf.Buffer { return d.drawArgs }

// Run executes one frame of the C5 state machine: write input uniforms,
// seed the root patch, ping-pong Subdivide across rounds (force-emitting on
// the final round), and publish bucket lengths via C4. The caller has
// already opened encoder and (if profiling) a "Render" scope around the
// whole per-model sequence.
func (d *Driver) Run(encoder *wgpu.CommandEncoder, sceneBindGroup *wgpu.BindGroup, mvp mgl32.Mat4, thresholdFactor float32, pipelines *shadersrc.ShaderPipelines, copier *DrawCopier) {
	d.uniform.Write(d.device, ModelUniforms{MVP: mvp, ThresholdFactor: thresholdFactor})

	// Seeding (step 3): root patch into pingPong[0], its dispatch args {1,1,1}.
	d.pingPong[0].Buffer().WriteAt(d.device, 0, uint32(1))
	d.pingPong[0].Buffer().WriteAt(d.device, queueHeaderSize, patch.Root)
	gpubuf.CopyAll(encoder, d.zeroU32, d.pingPong[1].Buffer())
	gpubuf.CopyAll(encoder, d.resetDispatchSeed, d.dispatch[0])

	// Step 4: zero all five bucket queue headers.
	for _, b := range d.buckets {
		gpubuf.CopyAll(encoder, d.zeroU32, b.Buffer())
	}

	for _, step := range planRounds(d.rounds) {
		gpubuf.CopyAll(encoder, d.zeroU32, d.pingPong[step.To].Buffer())
		gpubuf.CopyAll(encoder, d.resetDispatchZero, d.dispatch[step.To])

		pipeline := pipelines.Subdivide
		if step.ForceEmit {
			pipeline = pipelines.ForceEmit
		}

		pass := encoder.BeginComputePass(nil)
		pass.SetPipeline(pipeline)
		pass.SetBindGroup(0, sceneBindGroup, nil)
		pass.SetBindGroup(1, d.group1, nil)
		pass.SetBindGroup(2, d.group2[step.From], nil)
		if err := pass.DispatchWorkgroupsIndirect(d.dispatch[step.From].Raw(), 0); err != nil {
			if d.strict {
				panic(fmt.Errorf("subdiv: indirect dispatch: %w", err))
			}
			d.logger.Errorf("subdiv: indirect dispatch: %v", err)
			pass.End()
			continue
		}
		pass.End()
	}

	// Step 6: publish instance_count values for C6.
	copier.Publish(encoder, d.publishGrp)
}

// Release frees every GPU buffer the driver owns.
func (d *Driver) Release() {
	d.uniform.Release()
	for _, b := range d.buckets {
		b.Release()
	}
	d.pingPong[0].Release()
	d.pingPong[1].Release()
	d.dispatch[0].Release()
	d.dispatch[1].Release()
	d.drawArgs.Release()
	d.zeroU32.Release()
	d.resetDispatchZero.Release()
	d.resetDispatchSeed.Release()
}
