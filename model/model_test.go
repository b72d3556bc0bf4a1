package model_test

import (
	"testing"

	"github.com/gekko3d/tessera/model"
	"github.com/stretchr/testify/require"
)

func baseInfo(id string) model.Info {
	return model.Info{
		ID:            id,
		Transform:     model.IdentityTransform(),
		Material:      model.Material{Roughness: 0.5, Metallic: 0.0},
		ShaderID:      "shader-a",
		InstanceCount: 1,
	}
}

func TestComputeDiffAddsRemovesUpdates(t *testing.T) {
	prev := []model.Info{baseInfo("a"), baseInfo("b")}

	updatedA := baseInfo("a")
	updatedA.ShaderID = "shader-b"

	next := []model.Info{updatedA, baseInfo("c")}

	d := model.Compute(prev, next)
	require.Len(t, d.Added, 1)
	require.Equal(t, "c", d.Added[0].ID)
	require.Len(t, d.Updated, 1)
	require.Equal(t, "a", d.Updated[0].ID)
	require.ElementsMatch(t, []string{"b"}, d.Removed)
}

func TestComputeDiffNoOpWhenUnchanged(t *testing.T) {
	prev := []model.Info{baseInfo("a")}
	next := []model.Info{baseInfo("a")}

	d := model.Compute(prev, next)
	require.Empty(t, d.Added)
	require.Empty(t, d.Updated)
	require.Empty(t, d.Removed)
}

func TestEqualIgnoresNothingButID(t *testing.T) {
	a := baseInfo("x")
	b := baseInfo("x")
	b.Transform.Translation[0] = 1
	require.False(t, a.Equal(b))
}

func TestZeroModelsDiffIsEmpty(t *testing.T) {
	d := model.Compute(nil, nil)
	require.Empty(t, d.Added)
	require.Empty(t, d.Updated)
	require.Empty(t, d.Removed)
}
