// Package shadersrc splices user parametric WGSL into the fixed subdivide
// and render templates, compiles both pipelines, and caches the result
// behind a fresh identity token per compilation (not by source string), so
// that recompiling the same source still invalidates anything keyed on
// pipeline identity. Grounded on the teacher's shaders.go go:embed
// catalogue and asset_procedural.go's plain text assembly.
package shadersrc

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
)

// Logger is the narrow subset of the renderer's logging interface this
// package needs for diagnostic reporting; any logger satisfying it (the
// engine's included) works without an import cycle.
type Logger interface {
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// ShaderPipelines bundles everything one compiled shader produces: the
// render pipeline and the two subdivision compute pipelines, plus a fresh
// identity token. Two ShaderPipelines are "the same shader" only if
// Identity matches; source-string equality is deliberately not the
// comparison spec.md §4.7 asks for.
//
// SceneLayout/RenderGroup1Layout/SubdivGroup1Layout/SubdivGroup2Layout are
// the same four wgpu.BindGroupLayout objects on every ShaderPipelines a
// given Compiler ever produces (the Compiler builds them once and threads
// them into every pipeline's explicit wgpu.PipelineLayoutDescriptor). A bind
// group built against one of them is valid with Render, Subdivide, and
// ForceEmit from this shader and from every other shader this Compiler
// compiles, satisfying spec.md §4.8's "downstream consumers rebind
// automatically" guarantee: callers never need a fresh bind group just
// because a model's shader slot was recompiled.
type ShaderPipelines struct {
	Identity        uuid.UUID
	Label           string
	Render          *wgpu.RenderPipeline
	Subdivide       *wgpu.ComputePipeline
	ForceEmit       *wgpu.ComputePipeline
	Diagnostics     []Diagnostic
	vertexBufLayout wgpu.VertexBufferLayout

	SceneLayout        *wgpu.BindGroupLayout
	RenderGroup1Layout  *wgpu.BindGroupLayout
	SubdivGroup1Layout  *wgpu.BindGroupLayout
	SubdivGroup2Layout  *wgpu.BindGroupLayout
}

// Compiler builds ShaderPipelines from user WGSL against a fixed set of
// render targets and vertex layout, memoizing a single shared "missing"
// fallback.
//
// Every pipeline this Compiler creates is given an explicit
// wgpu.PipelineLayoutDescriptor built from the four bind-group-layout
// objects constructed once here, rather than WebGPU's per-pipeline "auto"
// layout inference: two pipelines with textually identical WGSL bindings
// would otherwise get distinct, non-interchangeable BindGroupLayout
// objects, which breaks every caller (subdiv.Driver, render.NewModelBindings,
// engine.Engine) that builds one bind group and reuses it across Subdivide/
// ForceEmit or across a shader swap. Grounded on voxelrt/rt/app/app.go's
// lightBGL0/lightBGL1/lightBGL2 + CreatePipelineLayout pattern, the
// teacher's own idiom for any pipeline whose bind groups must outlive or be
// shared across more than one pipeline object.
type Compiler struct {
	device       *wgpu.Device
	colorFormat  wgpu.TextureFormat
	depthFormat  wgpu.TextureFormat
	vertexLayout wgpu.VertexBufferLayout
	logger       Logger
	strict       bool

	sceneLayout       *wgpu.BindGroupLayout
	renderGroup1Layout *wgpu.BindGroupLayout
	subdivGroup1Layout *wgpu.BindGroupLayout
	subdivGroup2Layout *wgpu.BindGroupLayout

	renderPipelineLayout *wgpu.PipelineLayout
	subdivPipelineLayout *wgpu.PipelineLayout

	missing *ShaderPipelines
}

// NewCompiler constructs a Compiler. vertexLayout must match the bucket
// mesh vertex struct (bucketmesh.VertexBufferLayout: float32x2 position at
// location 0, float32x2 uv at location 1). strict gates the fallback shader's own compile failure:
// panic when true, log via logger.Errorf and hand back a degenerate
// pipeline set otherwise.
func NewCompiler(device *wgpu.Device, colorFormat, depthFormat wgpu.TextureFormat, vertexLayout wgpu.VertexBufferLayout, logger Logger, strict bool) *Compiler {
	if logger == nil {
		logger = nopLogger{}
	}
	c := &Compiler{device: device, colorFormat: colorFormat, depthFormat: depthFormat, vertexLayout: vertexLayout, logger: logger, strict: strict}
	c.buildSharedLayouts()
	return c
}

// buildSharedLayouts creates the four bind-group layouts and the two
// pipeline layouts every compiled shader's pipelines are built against, so
// bind groups are genuinely interchangeable across Render/Subdivide/
// ForceEmit and across every shader this Compiler ever compiles.
func (c *Compiler) buildSharedLayouts() {
	bufferEntry := func(binding uint32, visibility wgpu.ShaderStage, typ wgpu.BufferBindingType) wgpu.BindGroupLayoutEntry {
		return wgpu.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: visibility,
			Buffer:     wgpu.BufferBindingLayout{Type: typ},
		}
	}

	computeStage := wgpu.ShaderStageCompute
	renderStage := wgpu.ShaderStageVertex | wgpu.ShaderStageFragment

	c.sceneLayout = c.mustCreateBindGroupLayout("scene", []wgpu.BindGroupLayoutEntry{
		bufferEntry(0, renderStage|computeStage, wgpu.BufferBindingTypeUniform),
	})

	c.renderGroup1Layout = c.mustCreateBindGroupLayout("render.group1", []wgpu.BindGroupLayoutEntry{
		bufferEntry(0, wgpu.ShaderStageVertex, wgpu.BufferBindingTypeUniform),
		bufferEntry(1, wgpu.ShaderStageFragment, wgpu.BufferBindingTypeUniform),
		bufferEntry(2, wgpu.ShaderStageVertex, wgpu.BufferBindingTypeReadOnlyStorage),
	})

	c.subdivGroup1Layout = c.mustCreateBindGroupLayout("subdiv.group1", []wgpu.BindGroupLayoutEntry{
		bufferEntry(0, computeStage, wgpu.BufferBindingTypeUniform),
		bufferEntry(1, computeStage, wgpu.BufferBindingTypeStorage),
		bufferEntry(2, computeStage, wgpu.BufferBindingTypeStorage),
		bufferEntry(3, computeStage, wgpu.BufferBindingTypeStorage),
		bufferEntry(4, computeStage, wgpu.BufferBindingTypeStorage),
		bufferEntry(5, computeStage, wgpu.BufferBindingTypeStorage),
	})

	c.subdivGroup2Layout = c.mustCreateBindGroupLayout("subdiv.group2", []wgpu.BindGroupLayoutEntry{
		bufferEntry(0, computeStage, wgpu.BufferBindingTypeStorage),
		bufferEntry(1, computeStage, wgpu.BufferBindingTypeStorage),
		bufferEntry(2, computeStage, wgpu.BufferBindingTypeStorage),
	})

	renderLayout, err := c.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "render",
		BindGroupLayouts: []*wgpu.BindGroupLayout{c.sceneLayout, c.renderGroup1Layout},
	})
	if err != nil {
		panic(fmt.Errorf("shadersrc: create render pipeline layout: %w", err))
	}
	c.renderPipelineLayout = renderLayout

	subdivLayout, err := c.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "subdivide",
		BindGroupLayouts: []*wgpu.BindGroupLayout{c.sceneLayout, c.subdivGroup1Layout, c.subdivGroup2Layout},
	})
	if err != nil {
		panic(fmt.Errorf("shadersrc: create subdivide pipeline layout: %w", err))
	}
	c.subdivPipelineLayout = subdivLayout
}

func (c *Compiler) mustCreateBindGroupLayout(label string, entries []wgpu.BindGroupLayoutEntry) *wgpu.BindGroupLayout {
	layout, err := c.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   label,
		Entries: entries,
	})
	if err != nil {
		panic(fmt.Errorf("shadersrc: create bind group layout %q: %w", label, err))
	}
	return layout
}

// Missing returns the shared magenta-checker fallback pipeline set,
// compiling it exactly once.
func (c *Compiler) Missing() *ShaderPipelines {
	if c.missing == nil {
		sp, diags := c.Compile("missing", fallbackUserCode)
		if len(diags) > 0 {
			// the fallback is authored by us; any diagnostic here is a bug
			// in the templates, not a user error.
			c.logger.Errorf("shadersrc: fallback shader has diagnostics: %v", diags)
		}
		c.missing = sp
	}
	return c.missing
}

// Compile splices userCode into both templates and builds the render and
// compute pipelines. On failure, the returned ShaderPipelines is the shared
// Missing() fallback (never nil) and the diagnostics describe why.
func (c *Compiler) Compile(label, userCode string) (*ShaderPipelines, []Diagnostic) {
	renderSrc, err := Splice(RenderTemplate, userCode)
	if err != nil {
		return c.substituteMissing(label, err)
	}
	computeSrc, err := Splice(SubdivideTemplate, userCode)
	if err != nil {
		return c.substituteMissing(label, err)
	}

	renderModule, err := c.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label + ".render",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: renderSrc},
	})
	if err != nil {
		return c.substituteMissing(label, err)
	}
	defer renderModule.Release()

	computeModule, err := c.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label + ".subdivide",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: computeSrc},
	})
	if err != nil {
		return c.substituteMissing(label, err)
	}
	defer computeModule.Release()

	renderPipeline, err := c.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label + ".render",
		Layout: c.renderPipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     renderModule,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{c.vertexLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     renderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{Format: c.colorFormat, Blend: nil, WriteMask: wgpu.ColorWriteMaskAll},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            c.depthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionGreater,
		},
		Multisample: wgpu.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
	})
	if err != nil {
		return c.substituteMissing(label, err)
	}

	subdividePipeline, err := c.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:   label + ".subdivide",
		Layout:  c.subdivPipelineLayout,
		Compute: wgpu.ProgrammableStageDescriptor{Module: computeModule, EntryPoint: "subdivide_main"},
	})
	if err != nil {
		return c.substituteMissing(label, err)
	}

	forceEmitPipeline, err := c.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:   label + ".force_emit",
		Layout:  c.subdivPipelineLayout,
		Compute: wgpu.ProgrammableStageDescriptor{Module: computeModule, EntryPoint: "force_emit_main"},
	})
	if err != nil {
		return c.substituteMissing(label, err)
	}

	return &ShaderPipelines{
		Identity:           uuid.New(),
		Label:              label,
		Render:             renderPipeline,
		Subdivide:          subdividePipeline,
		ForceEmit:          forceEmitPipeline,
		vertexBufLayout:    c.vertexLayout,
		SceneLayout:        c.sceneLayout,
		RenderGroup1Layout: c.renderGroup1Layout,
		SubdivGroup1Layout: c.subdivGroup1Layout,
		SubdivGroup2Layout: c.subdivGroup2Layout,
	}, nil
}

func (c *Compiler) substituteMissing(label string, cause error) (*ShaderPipelines, []Diagnostic) {
	diag := []Diagnostic{{
		Severity:   "error",
		Message:    fmt.Sprintf("shader %q failed to compile: %v", label, cause),
		ModulePath: label,
	}}
	c.logger.Warnf("shadersrc: substituting missing shader for %q: %v", label, cause)
	if label == "missing" {
		// the fallback itself must never recurse into substituteMissing.
		if c.strict {
			panic(fmt.Errorf("shadersrc: fallback shader failed to compile: %w", cause))
		}
		c.logger.Errorf("shadersrc: fallback shader failed to compile: %v", cause)
		return &ShaderPipelines{
			Identity:           uuid.New(),
			Label:              label,
			Diagnostics:        diag,
			SceneLayout:        c.sceneLayout,
			RenderGroup1Layout: c.renderGroup1Layout,
			SubdivGroup1Layout: c.subdivGroup1Layout,
			SubdivGroup2Layout: c.subdivGroup2Layout,
		}, diag
	}
	return c.Missing(), diag
}
