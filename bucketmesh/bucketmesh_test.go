package bucketmesh

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildGridVertexAndIndexCounts(t *testing.T) {
	for _, density := range Densities {
		side := gridSide(density)
		verts, indices := buildGrid(density)
		require.Len(t, verts, int((side+1)*(side+1)))
		require.Len(t, indices, int(side*side*6))
	}
}

func TestBuildGridCoversUnitSquareCorners(t *testing.T) {
	verts, _ := buildGrid(8)
	var sawOrigin, sawFar bool
	for _, v := range verts {
		if v.Position == [2]float32{0, 0} {
			sawOrigin = true
		}
		if v.Position == [2]float32{1, 1} {
			sawFar = true
		}
		require.Equal(t, v.Position, v.UV)
	}
	require.True(t, sawOrigin)
	require.True(t, sawFar)
}

func TestDensitiesAreFixedDrawOrder(t *testing.T) {
	require.Equal(t, [5]uint32{2, 4, 8, 16, 32}, Densities)
}
