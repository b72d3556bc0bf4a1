// Package sceneuniform owns the one set of per-frame scene uniforms (time,
// screen, mouse, camera, lights) and the clock that drives the time block.
// The byte layout mirrors manager.go's UpdateCamera/UpdateLights: plain
// structs of mgl32 types, encoded little-endian field by field.
package sceneuniform

import (
	"time"

	"github.com/gekko3d/tessera/gpubuf"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxLights bounds the point-light array's fixed GPU-side capacity.
const MaxLights = 64

// PointLight is one entry of the uniform point-light array.
type PointLight struct {
	PositionRange mgl32.Vec4 // xyz position, w range
	ColorIntensity mgl32.Vec4 // rgb color, w intensity
}

// Block is the full scene-uniforms byte layout, written once per frame
// before any model work, per spec.md §5's "scene uniforms are written by
// C9 before any model work" ordering rule.
type Block struct {
	TimeElapsedDeltaFrame mgl32.Vec4 // x elapsed, y delta, z frame#, w pad
	ScreenWH              mgl32.Vec4 // x width, y height, z invWidth, w invHeight
	MousePosButtons       mgl32.Vec4 // x,y pos, z buttons, w pad

	View       mgl32.Mat4
	Projection mgl32.Mat4
	CameraPos  mgl32.Vec4 // xyz world position, w pad

	Ambient   mgl32.Vec4
	NumLights uint32
	_pad0     [3]uint32
	Lights    [MaxLights]PointLight
}

// Clock tracks elapsed/delta time and frame count, mirroring the teacher's
// Time resource and timeSystem (dt clamped to a 10fps floor so a hitch or
// cold start can't blow up anything derived from it).
type Clock struct {
	start      time.Time
	last       time.Time
	Elapsed    float32
	Delta      float32
	FrameCount uint64
}

// NewClock starts a Clock at "now".
func NewClock(now time.Time) *Clock {
	return &Clock{start: now, last: now}
}

// Tick advances the clock to "now", clamping delta to a 10fps floor.
func (c *Clock) Tick(now time.Time) {
	dt := float32(now.Sub(c.last).Seconds())
	if dt > 0.1 {
		dt = 0.1
	}
	c.Delta = dt
	c.Elapsed = float32(now.Sub(c.start).Seconds())
	c.last = now
	c.FrameCount++
}

// MouseState is the latest external mouse sample, fed in by the caller
// (camera controllers etc. are an external collaborator per spec.md §1).
type MouseState struct {
	X, Y    float32
	Buttons uint32
}

// CameraState is the caller-supplied view/projection/world-position, per
// spec.md §1 treating camera controllers as external.
type CameraState struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	WorldPos   mgl32.Vec3
}

// Build assembles one frame's Block from the clock, screen size, mouse,
// camera and lights.
func Build(clock *Clock, width, height uint32, mouse MouseState, camera CameraState, ambient mgl32.Vec4, lights []PointLight) Block {
	var b Block
	b.TimeElapsedDeltaFrame = mgl32.Vec4{clock.Elapsed, clock.Delta, float32(clock.FrameCount), 0}
	b.ScreenWH = mgl32.Vec4{float32(width), float32(height), 1 / float32(width), 1 / float32(height)}
	b.MousePosButtons = mgl32.Vec4{mouse.X, mouse.Y, float32(mouse.Buttons), 0}
	b.View = camera.View
	b.Projection = camera.Projection
	b.CameraPos = mgl32.Vec4{camera.WorldPos[0], camera.WorldPos[1], camera.WorldPos[2], 0}
	b.Ambient = ambient
	n := len(lights)
	if n > MaxLights {
		n = MaxLights
	}
	b.NumLights = uint32(n)
	copy(b.Lights[:n], lights[:n])
	return b
}

// Uniforms owns the singleton GPU-resident scene uniform buffer.
type Uniforms struct {
	buf *gpubuf.Buffer
}

// NewUniforms allocates the scene uniform buffer, zero-initialized.
func NewUniforms(device *wgpu.Device) *Uniforms {
	return &Uniforms{buf: gpubuf.NewUniform(device, "scene uniforms", Block{})}
}

// Buffer exposes the underlying GPU buffer for bind group 0.
func (u *Uniforms) Buffer() *gpubuf.Buffer { return u.buf }

// Write overwrites the scene uniform buffer with a new Block.
func (u *Uniforms) Write(device *wgpu.Device, b Block) {
	u.buf.Write(device, b)
}

// BindGroup builds bind group 0 against layout, which is identical across
// every compiled shader (the scene uniforms are the one thing every
// template shares), so this is built once at startup and reused by every
// model's render and subdivide passes.
func (u *Uniforms) BindGroup(device *wgpu.Device, layout *wgpu.BindGroupLayout) *wgpu.BindGroup {
	return gpubuf.CreateBindGroup(device, &wgpu.BindGroupDescriptor{
		Label:  "scene.group0",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: u.buf.Raw(), Size: u.buf.Size()},
		},
	})
}
