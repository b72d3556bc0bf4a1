// Command tessera-demo opens a window and drives the tessellation engine
// with a single sphere model as a minimal end-to-end proof. It owns no camera controller or input
// system beyond what resizes the window and quits, per spec.md §1.
package main

import (
	"flag"
	"fmt"
	"runtime"

	"github.com/gekko3d/tessera/engine"
	"github.com/gekko3d/tessera/gpuinit"
	"github.com/gekko3d/tessera/model"
	"github.com/gekko3d/tessera/sceneuniform"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

func init() {
	runtime.LockOSThread()
}

const defaultShader = `
fn sampleObject(uv: vec2<f32>) -> ObjectSample {
    let r = 1.0;
    let theta = uv.x * 3.14159265;
    let phi = uv.y * 2.0 * 3.14159265;
    let n = vec3<f32>(
        sin(theta) * cos(phi),
        cos(theta),
        sin(theta) * sin(phi),
    );
    var out: ObjectSample;
    out.position = r * n;
    out.normal = n;
    return out;
}

fn getColor(uv: vec2<f32>) -> vec3<f32> {
    return vec3<f32>(uv, 0.5);
}
`

func main() {
	debug := flag.Bool("debug", false, "enable verbose renderer logging")
	flag.Parse()

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(1280, 720, "tessera", nil, nil)
	if err != nil {
		panic(err)
	}
	defer window.Destroy()

	target, err := gpuinit.OpenWindowed(window, 1280, 720)
	if err != nil {
		panic(err)
	}

	config := engine.DefaultConfig()
	logger := engine.NewDefaultLogger("tessera")
	logger.SetDebug(*debug)
	config.Logger = logger
	eng := engine.New(target, config)

	if diags := eng.CompileShader("sphere", defaultShader); len(diags) > 0 {
		for _, d := range diags {
			fmt.Printf("shader diagnostic: %s\n", d.Message)
		}
	}

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		eng.Resize(uint32(width), uint32(height))
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	models := []model.Info{
		{
			ID:        "sphere-0",
			Transform: model.IdentityTransform(),
			Material: model.Material{
				Color:     mgl32.Vec4{0.8, 0.8, 0.9, 1},
				Roughness: 0.5,
			},
			ShaderID: "sphere",
		},
	}

	for !window.ShouldClose() {
		glfw.PollEvents()
		fbw, fbh := window.GetFramebufferSize()
		camera := sceneCamera(uint32(fbw), uint32(fbh))

		err := eng.Render(engine.FrameInput{
			Models:  models,
			Camera:  camera,
			Ambient: mgl32.Vec4{0.05, 0.05, 0.05, 1},
		})
		if err != nil {
			if err == engine.ErrOutOfMemory {
				panic(err)
			}
			// Lost/Outdated: the swapchain has been rebuilt; the same
			// frame is retried on the next iteration.
		}
	}
}

func sceneCamera(width, height uint32) sceneuniform.CameraState {
	eye := mgl32.Vec3{0, 1.5, 4}
	aspect := float32(width) / float32(height)
	return sceneuniform.CameraState{
		View:       mgl32.LookAtV(eye, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}),
		Projection: mgl32.Perspective(mgl32.DegToRad(60), aspect, 0.1, 1000.0),
		WorldPos:   eye,
	}
}
