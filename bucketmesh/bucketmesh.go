// Package bucketmesh builds the five immutable per-bucket quad meshes
// (densities 2, 4, 8, 16, 32), each a pre-tessellated unit quad with
// (d/2)*(d/2) sub-quads. Grounded on mod_client.go's createBuffers and the
// struct-tag vertex layout idiom in gpu_operations.go's
// createVertexBufferLayout.
package bucketmesh

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Densities are the five fixed tessellation buckets, in the fixed draw
// order spec.md §4.6 requires (2 -> 4 -> 8 -> 16 -> 32).
var Densities = [5]uint32{2, 4, 8, 16, 32}

// Vertex is the bucket mesh's per-vertex layout: local position and local
// uv inside the unit patch. For a flat tessellated quad the two coincide,
// but both are carried as spec.md §3 names them as separate attributes.
type Vertex struct {
	Position [2]float32 `gekko:"layout" format:"float2" location:"0"`
	UV       [2]float32 `gekko:"layout" format:"float2" location:"1"`
}

// VertexBufferLayout describes Vertex for pipeline creation; shadersrc's
// Compiler is built against this exact layout.
var VertexBufferLayout = wgpu.VertexBufferLayout{
	ArrayStride: 16,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{ShaderLocation: 0, Offset: 0, Format: wgpu.VertexFormatFloat32x2},
		{ShaderLocation: 1, Offset: 8, Format: wgpu.VertexFormatFloat32x2},
	},
}

// Mesh is one density's immutable GPU-resident geometry.
type Mesh struct {
	Density     uint32
	VertexBuf   *wgpu.Buffer
	IndexBuf    *wgpu.Buffer
	IndexCount  uint32
}

// Set holds all five bucket meshes, indexed the same way Densities is.
type Set [5]*Mesh

// Build constructs the five bucket meshes once. Called at renderer startup;
// the result is a singleton shared by every model, per spec.md §3's
// ownership rules.
func Build(device *wgpu.Device) Set {
	var set Set
	for i, d := range Densities {
		set[i] = buildOne(device, d)
	}
	return set
}

// Release frees all five meshes' device buffers.
func (s Set) Release() {
	for _, m := range s {
		if m == nil {
			continue
		}
		m.VertexBuf.Release()
		m.IndexBuf.Release()
	}
}

// gridSide reports how many sub-quads make up one side of density's mesh.
func gridSide(density uint32) uint32 {
	side := density / 2
	if side == 0 {
		side = 1
	}
	return side
}

// buildGrid produces the vertex/index arrays for a (d/2)x(d/2) sub-quad
// unit-square grid. Pure and device-free so it can be tested directly.
func buildGrid(density uint32) ([]Vertex, []uint16) {
	side := gridSide(density)

	verts := make([]Vertex, 0, (side+1)*(side+1))
	for j := uint32(0); j <= side; j++ {
		for i := uint32(0); i <= side; i++ {
			u := float32(i) / float32(side)
			v := float32(j) / float32(side)
			verts = append(verts, Vertex{Position: [2]float32{u, v}, UV: [2]float32{u, v}})
		}
	}

	indices := make([]uint16, 0, side*side*6)
	stride := side + 1
	for j := uint32(0); j < side; j++ {
		for i := uint32(0); i < side; i++ {
			tl := uint16(j*stride + i)
			tr := uint16(j*stride + i + 1)
			bl := uint16((j+1)*stride + i)
			br := uint16((j+1)*stride + i + 1)
			indices = append(indices, tl, bl, tr, tr, bl, br)
		}
	}
	return verts, indices
}

func buildOne(device *wgpu.Device, density uint32) *Mesh {
	verts, indices := buildGrid(density)

	vertexBuf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    fmt.Sprintf("bucket mesh %d vertices", density),
		Contents: wgpu.ToBytes(verts),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		panic(fmt.Errorf("bucketmesh: vertex buffer for density %d: %w", density, err))
	}
	indexBuf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    fmt.Sprintf("bucket mesh %d indices", density),
		Contents: wgpu.ToBytes(indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		panic(fmt.Errorf("bucketmesh: index buffer for density %d: %w", density, err))
	}

	return &Mesh{
		Density:    density,
		VertexBuf:  vertexBuf,
		IndexBuf:   indexBuf,
		IndexCount: uint32(len(indices)),
	}
}
