package render

import (
	"testing"

	"github.com/gekko3d/tessera/gpubuf"
	"github.com/gekko3d/tessera/model"
	"github.com/gekko3d/tessera/subdiv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func TestMaterialUniformsFromModelSetsHasTextureFlag(t *testing.T) {
	withTexture := model.Material{Color: mgl32.Vec4{1, 0, 0, 1}, TextureID: "tex-a"}
	require.Equal(t, uint32(1), MaterialUniformsFromModel(withTexture).HasTexture)

	without := model.Material{Color: mgl32.Vec4{0, 1, 0, 1}}
	require.Equal(t, uint32(0), MaterialUniformsFromModel(without).HasTexture)
}

func TestMaterialUniformsFromModelPreservesShadingFields(t *testing.T) {
	mat := model.Material{
		Color: mgl32.Vec4{0.1, 0.2, 0.3, 1}, Emissive: mgl32.Vec4{0, 0, 0, 0},
		Roughness: 0.5, Metallic: 0.8,
	}
	got := MaterialUniformsFromModel(mat)
	require.Equal(t, mat.Color, got.Color)
	require.Equal(t, mat.Roughness, got.Roughness)
	require.Equal(t, mat.Metallic, got.Metallic)
}

func TestDrawArgsStrideMatchesEncodedSize(t *testing.T) {
	require.Len(t, gpubuf.Encode(subdiv.DrawIndexedIndirectArgs{}), drawArgsStride)
}
