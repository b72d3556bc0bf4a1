package engine

import (
	"testing"

	"github.com/gekko3d/tessera/model"
	"github.com/gekko3d/tessera/sceneuniform"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func TestToKeyedPreservesOrderAndKeysByID(t *testing.T) {
	infos := []model.Info{
		{ID: "a", ShaderID: "s1"},
		{ID: "b", ShaderID: "s2"},
	}
	keyed := toKeyed(infos)
	require.Len(t, keyed, 2)
	require.Equal(t, "a", keyed[0].Key)
	require.Equal(t, "b", keyed[1].Key)
	require.Equal(t, infos[0], keyed[0].Value)
}

func TestToKeyedEmptyListProducesEmptySlice(t *testing.T) {
	keyed := toKeyed(nil)
	require.Empty(t, keyed)
}

func TestProjectionViewModelComposesInOrder(t *testing.T) {
	camera := sceneuniform.CameraState{
		View:       mgl32.Ident4(),
		Projection: mgl32.Ident4(),
	}
	transform := model.IdentityTransform()
	transform.Translation = mgl32.Vec3{1, 2, 3}

	got := projectionViewModel(camera, transform)
	want := transform.Matrix()
	require.Equal(t, want, got)
}

func TestClassifySurfaceErrorRecoversLostAndOutdated(t *testing.T) {
	require.Equal(t, surfaceErrorRecoverable, classifySurfaceError(errorString("surface lost")))
	require.Equal(t, surfaceErrorRecoverable, classifySurfaceError(errorString("Surface Outdated")))
}

func TestClassifySurfaceErrorTreatsOutOfMemoryAsFatal(t *testing.T) {
	require.Equal(t, surfaceErrorOutOfMemory, classifySurfaceError(errorString("device out of memory")))
}

func TestClassifySurfaceErrorDefaultsToUnknown(t *testing.T) {
	require.Equal(t, surfaceErrorUnknown, classifySurfaceError(errorString("adapter request timed out")))
}

type errorString string

func (e errorString) Error() string { return string(e) }
