// Package gpuinit brings up the adapter, device, and either a windowed
// swapchain surface or a headless render target. This mirrors the
// teacher's createWindowState/createGpuState pair and app.go's Init(), but
// adds the headless fallback spec.md §6 requires and that the teacher
// never needed (it is always windowed).
package gpuinit

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Logger is the narrow diagnostic sink Target needs for its Strict-gated
// allocation failures; engine.Logger satisfies it.
type Logger interface {
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// Target is the device/surface pair the renderer draws into, windowed or
// headless.
type Target struct {
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue

	Headless bool

	// Windowed path.
	Surface       *wgpu.Surface
	SurfaceConfig *wgpu.SurfaceConfiguration

	// Headless path: a sRGB render target standing in for the swapchain.
	HeadlessTexture *wgpu.Texture
	HeadlessView    *wgpu.TextureView

	ColorFormat wgpu.TextureFormat
	Width       uint32
	Height      uint32

	// Strict gates headless-target allocation failures: panic when true
	// (the default until a caller overrides it, e.g. engine.New threading
	// through RendererConfig.Strict), log via Logger.Errorf and leave the
	// previous target in place otherwise.
	Strict bool
	Logger Logger
}

// OpenWindowed creates a device bound to a GLFW window's surface. Call from
// the thread that created the window; callers must have already called
// runtime.LockOSThread() and glfw.Init() (cmd/tessera-demo does both).
func OpenWindowed(window *glfw.Window, width, height uint32) (*Target, error) {
	runtime.LockOSThread()

	instance := wgpu.CreateInstance(nil)
	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("gpuinit: request adapter: %w", err)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "tessera device"})
	if err != nil {
		return nil, fmt.Errorf("gpuinit: request device: %w", err)
	}

	caps := surface.GetCapabilities(adapter)
	format := srgbVariant(caps.Formats[0])
	config := &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       width,
		Height:      height,
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, device, config)

	return &Target{
		Instance:      instance,
		Adapter:       adapter,
		Device:        device,
		Queue:         device.GetQueue(),
		Surface:       surface,
		SurfaceConfig: config,
		ColorFormat:   format,
		Width:         width,
		Height:        height,
		Strict:        true,
	}, nil
}

// OpenHeadless creates a device with no surface, backed by an off-screen
// sRGB color target the caller can read back after Render.
func OpenHeadless(width, height uint32) (*Target, error) {
	instance := wgpu.CreateInstance(nil)

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("gpuinit: request adapter: %w", err)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "tessera headless device"})
	if err != nil {
		return nil, fmt.Errorf("gpuinit: request device: %w", err)
	}

	t := &Target{
		Instance:    instance,
		Adapter:     adapter,
		Device:      device,
		Queue:       device.GetQueue(),
		Headless:    true,
		ColorFormat: wgpu.TextureFormatRGBA8UnormSrgb,
		Width:       width,
		Height:      height,
		Strict:      true,
	}
	t.allocateHeadlessTarget()
	return t, nil
}

func (t *Target) allocateHeadlessTarget() {
	tex, err := t.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "headless target",
		Size:          wgpu.Extent3D{Width: t.Width, Height: t.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        t.ColorFormat,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopySrc,
	})
	if err != nil {
		t.fail("headless target: %v", err)
		return
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		t.fail("headless target view: %v", err)
		return
	}
	if t.HeadlessView != nil {
		t.HeadlessView.Release()
	}
	if t.HeadlessTexture != nil {
		t.HeadlessTexture.Release()
	}
	t.HeadlessTexture = tex
	t.HeadlessView = view
}

// fail panics when Strict is set, matching the teacher's panic-on-CreateX-
// error style; otherwise it logs via Logger.Errorf and returns, leaving
// whatever texture/view the target already had (possibly none, on the very
// first allocation).
func (t *Target) fail(format string, args ...any) {
	err := fmt.Errorf("gpuinit: "+format, args...)
	if t.Strict {
		panic(err)
	}
	t.logger().Errorf("%v", err)
}

func (t *Target) logger() Logger {
	if t.Logger == nil {
		return nopLogger{}
	}
	return t.Logger
}

// Resize reconfigures the windowed surface or reallocates the headless
// target. Callers are expected to debounce (engine does this via its resize
// signal) so that a burst of resizes only reaches here once.
func (t *Target) Resize(width, height uint32) {
	if width == 0 || height == 0 {
		return
	}
	t.Width, t.Height = width, height
	if t.Headless {
		t.allocateHeadlessTarget()
		return
	}
	t.SurfaceConfig.Width = width
	t.SurfaceConfig.Height = height
	t.Surface.Configure(t.Adapter, t.Device, t.SurfaceConfig)
}

// srgbVariant maps a swapchain-native format onto its sRGB view variant, as
// spec.md §6 requires regardless of what the adapter natively prefers.
func srgbVariant(format wgpu.TextureFormat) wgpu.TextureFormat {
	switch format {
	case wgpu.TextureFormatBGRA8Unorm:
		return wgpu.TextureFormatBGRA8UnormSrgb
	case wgpu.TextureFormatRGBA8Unorm:
		return wgpu.TextureFormatRGBA8UnormSrgb
	default:
		return format
	}
}
