package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gekko3d/tessera/bucketmesh"
	"github.com/gekko3d/tessera/gpuinit"
	"github.com/gekko3d/tessera/model"
	"github.com/gekko3d/tessera/reactive"
	"github.com/gekko3d/tessera/render"
	"github.com/gekko3d/tessera/sceneuniform"
	"github.com/gekko3d/tessera/shadersrc"
	"github.com/gekko3d/tessera/subdiv"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// depthFormat is fixed: every compiled shader's render pipeline uses the
// same Reverse-Z depth attachment (spec.md §4.6).
const depthFormat = wgpu.TextureFormatDepth32Float

// FrameInput is everything render() needs that isn't already tracked by a
// signal: the current model list, camera, mouse, and ambient term. Camera
// controllers and input polling are an external collaborator (spec.md §1),
// so Engine never reads them itself.
type FrameInput struct {
	Models  []model.Info
	Camera  sceneuniform.CameraState
	Mouse   sceneuniform.MouseState
	Ambient mgl32.Vec4
	Lights  []sceneuniform.PointLight
}

// ErrOutOfMemory is returned fatally from Render: the caller should tear the
// renderer down, it cannot recover within the frame.
var ErrOutOfMemory = errors.New("engine: surface out of memory")

// Engine is the C9 frame scheduler: it owns the scene uniforms, the
// reactive model graph, and the depth buffer, and drives resize/render/
// force_wait. Grounded on voxelrt/rt/app/app.go's Init/Resize/Render and
// profiler.go's per-frame scope bookkeeping.
type Engine struct {
	target *gpuinit.Target
	config RendererConfig
	logger Logger

	clock   *sceneuniform.Clock
	scene   *sceneuniform.Uniforms
	sceneBG *wgpu.BindGroup

	compiler *shadersrc.Compiler
	shaders  *shaderRegistry
	copier   *subdiv.DrawCopier
	meshes   bucketmesh.Set

	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView

	owner    *reactive.Owner
	forEach  *reactive.ForEach[string, model.Info, *modelState]
	prevInfo []model.Info

	resizeSignal    *reactive.Signal[[2]uint32]
	forceWait       *reactive.Signal[bool]
	profilingSignal *reactive.Signal[bool]
	profiler        *Profiler
}

// New brings up the scene-uniform/compiler/bucket-mesh machinery around an
// already-opened gpuinit.Target and compiles only the shared "missing"
// fallback shader; call CompileShader per model shader before the first
// Render.
func New(target *gpuinit.Target, config RendererConfig) *Engine {
	logger := config.logger()
	target.Strict = config.Strict
	target.Logger = logger
	vertexLayout := bucketmesh.VertexBufferLayout
	compiler := shadersrc.NewCompiler(target.Device, target.ColorFormat, depthFormat, vertexLayout, logger, config.Strict)

	e := &Engine{
		target:          target,
		config:          config,
		logger:          logger,
		clock:           sceneuniform.NewClock(startTimeFunc()),
		scene:           sceneuniform.NewUniforms(target.Device),
		compiler:        compiler,
		shaders:         newShaderRegistry(compiler),
		copier:          subdiv.NewDrawCopier(target.Device),
		meshes:          bucketmesh.Build(target.Device),
		owner:           reactive.NewRootOwner(),
		resizeSignal:    reactive.NewSignal([2]uint32{target.Width, target.Height}),
		forceWait:       reactive.NewSignal(false),
		profilingSignal: reactive.NewSignal(config.EnableProfiling),
		profiler:        NewProfiler(),
	}
	e.forEach = reactive.NewForEach[string, model.Info, *modelState](e.owner)

	// Bind group 0 is the same wgpu.BindGroupLayout object on every
	// pipeline this compiler ever builds (shadersrc.Compiler threads it
	// into an explicit PipelineLayoutDescriptor instead of relying on
	// per-pipeline "auto" layout inference), so it's built once here and
	// reused for every model's compute dispatch and draw call regardless
	// of which shader they're currently using.
	e.sceneBG = e.scene.BindGroup(target.Device, compiler.Missing().SceneLayout)
	e.rebuildDepthTexture()

	return e
}

// CompileShader splices userCode and updates shaderID's pipeline slot.
// Already-built models referencing shaderID pick up the new pipeline on
// their very next Render call (no rebuild of their bind groups).
func (e *Engine) CompileShader(shaderID, userCode string) []shadersrc.Diagnostic {
	return e.shaders.Compile(shaderID, userCode)
}

// Resize writes the resize signal; the next Render call reconfigures the
// surface (or headless target) and rebuilds the depth texture exactly once,
// even if Resize is called many times between two Render calls (the burst
// collapses onto the signal's latest value).
func (e *Engine) Resize(width, height uint32) {
	if width == 0 || height == 0 {
		return
	}
	e.resizeSignal.Set([2]uint32{width, height})
}

// ForceWait requests a device-wide poll after the next frame, for
// microbenchmarks that need GPU work to have actually completed before
// measuring.
func (e *Engine) ForceWait() {
	e.forceWait.Set(true)
}

// SetProfiling toggles whether Render times its per-model subdivision work
// under the profiler's "Render" scope; the render pass itself is not timed.
// Toggling mid-frame only takes effect on the next Render.
func (e *Engine) SetProfiling(on bool) {
	e.profilingSignal.Set(on)
}

// Stats returns the most recently completed frame's profiler report; empty
// if profiling is off.
func (e *Engine) Stats() string {
	return e.profiler.GetStatsString()
}

func (e *Engine) applyResize() {
	size := e.resizeSignal.Get()
	if size[0] == e.target.Width && size[1] == e.target.Height {
		return
	}
	e.target.Resize(size[0], size[1])
	e.rebuildDepthTexture()
}

// rebuildDepthTexture's CreateTexture/CreateView failures are gated by
// RendererConfig.Strict: panic in the default strict mode, log via
// e.logger.Errorf and leave the depth attachment unset otherwise, per
// spec.md §7's "programmer error" row.
func (e *Engine) rebuildDepthTexture() {
	if e.depthView != nil {
		e.depthView.Release()
		e.depthView = nil
	}
	if e.depthTexture != nil {
		e.depthTexture.Release()
		e.depthTexture = nil
	}
	tex, err := e.target.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "depth",
		Size:          wgpu.Extent3D{Width: e.target.Width, Height: e.target.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		if e.config.Strict {
			panic(fmt.Errorf("engine: create depth texture: %w", err))
		}
		e.logger.Errorf("engine: create depth texture: %v", err)
		return
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		if e.config.Strict {
			panic(fmt.Errorf("engine: create depth view: %w", err))
		}
		e.logger.Errorf("engine: create depth view: %v", err)
		return
	}
	e.depthTexture = tex
	e.depthView = view
}

// Render executes one frame: reconcile the model list, write scene
// uniforms, run every model's subdivision driver inside one command
// encoder, then one render pass drawing every model, and present. On
// Surface Lost/Outdated the swapchain is rebuilt and the same error is
// returned unchanged so the caller re-issues this frame next tick (no
// buffers are touched, so the retry is lossless); OutOfMemory is fatal.
func (e *Engine) Render(input FrameInput) error {
	e.applyResize()

	e.clock.Tick(frameTimeFunc())
	states := e.forEach.Run(toKeyed(input.Models), buildModelState(e.target.Device, e.copier, e.meshes, e.shaders, e.config))
	e.prevInfo = input.Models

	profiling := e.profilingSignal.Get()
	e.profiler.Reset()

	var colorView *wgpu.TextureView
	if e.target.Headless {
		colorView = e.target.HeadlessView
	} else {
		tex, err := e.target.Surface.GetCurrentTexture()
		if err != nil {
			return e.handleSurfaceError(err)
		}
		defer tex.Release()
		view, err := tex.CreateView(nil)
		if err != nil {
			return fmt.Errorf("engine: create surface view: %w", err)
		}
		defer view.Release()
		colorView = view
	}

	e.scene.Write(e.target.Device, sceneuniform.Build(e.clock, e.target.Width, e.target.Height, input.Mouse, input.Camera, input.Ambient, input.Lights))

	encoder, err := e.target.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("engine: create command encoder: %w", err)
	}

	if profiling {
		e.profiler.BeginScope("Render")
	}
	for _, info := range input.Models {
		ms := states[info.ID]
		if ms == nil {
			continue
		}
		ms.transform.Set(info.Transform)
		ms.material.Set(info.Material)
		ms.shaderID.Set(info.ShaderID)
		ms.materialEffect.Run()

		pipelines := e.shaders.slot(ms.shaderID.Peek()).Get()
		mvp := projectionViewModel(input.Camera, ms.transform.Peek())
		ms.driver.Run(encoder, e.sceneBG, mvp, e.config.ThresholdFactor, pipelines, e.copier)
	}
	if profiling {
		e.profiler.EndScope("Render")
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "main",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       colorView,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{0, 0, 0, 1},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View: e.depthView,
			// Reverse-Z: the far plane is 0.0, so clearing to 0.0 and
			// comparing Greater means "nothing drawn yet" always loses.
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 0.0,
		},
	})
	for _, info := range input.Models {
		ms := states[info.ID]
		if ms == nil {
			continue
		}
		pipelines := e.shaders.slot(ms.shaderID.Peek()).Get()
		render.Draw(pass, e.sceneBG, render.Target{Pipelines: pipelines, Bindings: ms.bindings, DrawArgs: ms.driver.DrawArgs()}, e.meshes, e.config.Strict, e.logger)
	}
	if err := pass.End(); err != nil {
		return fmt.Errorf("engine: end render pass: %w", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("engine: finish command buffer: %w", err)
	}
	e.target.Queue.Submit(cmd)

	if !e.target.Headless {
		e.target.Surface.Present()
	}

	if e.forceWait.Get() {
		e.target.Device.Poll(true, nil)
		e.forceWait.Set(false)
	} else {
		e.target.Device.Poll(false, nil)
	}

	return nil
}

// handleSurfaceError implements spec.md §4.9's Lost/Outdated/OutOfMemory
// split, grounded on application.rs's render-error match arm. The Go
// binding surfaces GetCurrentTexture failures as a plain error (app.go's
// Render just does `if err != nil`), so Lost/Outdated/OutOfMemory are
// told apart by matching the status word wgpu embeds in the error text
// rather than a typed status enum.
func (e *Engine) handleSurfaceError(err error) error {
	switch classifySurfaceError(err) {
	case surfaceErrorRecoverable:
		e.logger.Warnf("engine: surface %v, reconfiguring", err)
		e.target.Resize(e.target.Width, e.target.Height)
		return err
	case surfaceErrorOutOfMemory:
		e.logger.Errorf("engine: surface out of memory")
		return ErrOutOfMemory
	default:
		e.logger.Warnf("engine: unexpected surface error: %v", err)
		return err
	}
}

type surfaceErrorClass int

const (
	surfaceErrorUnknown surfaceErrorClass = iota
	surfaceErrorRecoverable
	surfaceErrorOutOfMemory
)

// classifySurfaceError is the pure message-matching half of
// handleSurfaceError, split out so the mapping is testable without a
// device.
func classifySurfaceError(err error) surfaceErrorClass {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "lost"), strings.Contains(msg, "outdated"):
		return surfaceErrorRecoverable
	case strings.Contains(msg, "out of memory"), strings.Contains(msg, "outofmemory"):
		return surfaceErrorOutOfMemory
	default:
		return surfaceErrorUnknown
	}
}

func toKeyed(infos []model.Info) []reactive.Keyed[string, model.Info] {
	keyed := make([]reactive.Keyed[string, model.Info], len(infos))
	for i, info := range infos {
		keyed[i] = reactive.Keyed[string, model.Info]{Key: info.ID, Value: info}
	}
	return keyed
}

func projectionViewModel(camera sceneuniform.CameraState, t model.Transform) mgl32.Mat4 {
	return camera.Projection.Mul4(camera.View).Mul4(t.Matrix())
}

// startTimeFunc/frameTimeFunc are seams so tests can drive the clock
// deterministically; production always calls time.Now.
var startTimeFunc = time.Now
var frameTimeFunc = time.Now
