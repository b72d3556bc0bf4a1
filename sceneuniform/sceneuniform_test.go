package sceneuniform

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func TestClockTickAccumulatesElapsedAndFrameCount(t *testing.T) {
	start := time.Unix(0, 0)
	c := NewClock(start)
	c.Tick(start.Add(16 * time.Millisecond))
	require.InDelta(t, 0.016, float64(c.Elapsed), 1e-6)
	require.InDelta(t, 0.016, float64(c.Delta), 1e-6)
	require.Equal(t, uint64(1), c.FrameCount)

	c.Tick(start.Add(32 * time.Millisecond))
	require.InDelta(t, 0.032, float64(c.Elapsed), 1e-6)
	require.Equal(t, uint64(2), c.FrameCount)
}

func TestClockTickClampsDeltaToTenFpsFloor(t *testing.T) {
	start := time.Unix(0, 0)
	c := NewClock(start)
	c.Tick(start.Add(2 * time.Second))
	require.InDelta(t, 0.1, float64(c.Delta), 1e-6)
}

func TestBuildFillsNumLightsAndClampsAtMax(t *testing.T) {
	clock := NewClock(time.Unix(0, 0))
	clock.Tick(time.Unix(0, 0).Add(time.Second))

	lights := make([]PointLight, MaxLights+10)
	for i := range lights {
		lights[i] = PointLight{PositionRange: mgl32.Vec4{float32(i), 0, 0, 1}}
	}

	b := Build(clock, 1920, 1080, MouseState{X: 1, Y: 2, Buttons: 3}, CameraState{
		View:       mgl32.Ident4(),
		Projection: mgl32.Ident4(),
		WorldPos:   mgl32.Vec3{1, 2, 3},
	}, mgl32.Vec4{0.1, 0.1, 0.1, 1}, lights)

	require.Equal(t, uint32(MaxLights), b.NumLights)
	require.Equal(t, float32(0), b.Lights[0].PositionRange[0])
	require.Equal(t, float32(1920), b.ScreenWH[0])
	require.Equal(t, float32(1080), b.ScreenWH[1])
	require.Equal(t, float32(1), b.MousePosButtons[0])
	require.Equal(t, float32(3), b.MousePosButtons[2])
	require.Equal(t, mgl32.Vec4{1, 2, 3, 0}, b.CameraPos)
}

func TestBuildWithFewerLightsThanMax(t *testing.T) {
	clock := NewClock(time.Unix(0, 0))
	b := Build(clock, 100, 100, MouseState{}, CameraState{View: mgl32.Ident4(), Projection: mgl32.Ident4()}, mgl32.Vec4{}, []PointLight{{PositionRange: mgl32.Vec4{1, 1, 1, 1}}})
	require.Equal(t, uint32(1), b.NumLights)
	require.Equal(t, mgl32.Vec4{1, 1, 1, 1}, b.Lights[0].PositionRange)
	require.Equal(t, mgl32.Vec4{}, b.Lights[1].PositionRange)
}
