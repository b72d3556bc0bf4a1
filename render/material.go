// Package render drives the C6 render pass: one pipeline bind per model,
// then one draw_indexed_indirect per bucket density in fixed 2->4->8->16->32
// order. Grounded on voxelrt/rt/app/app.go's Render() and mod_client.go's
// rendering().
package render

import (
	"github.com/gekko3d/tessera/model"

	"github.com/go-gl/mathgl/mgl32"
)

// MaterialUniforms matches render.wgsl's MaterialUniforms: the per-model
// shading input independent of geometry.
type MaterialUniforms struct {
	Color, Emissive     mgl32.Vec4
	Roughness, Metallic float32
	HasTexture, Pad0    uint32
}

// MaterialUniformsFromModel converts a model.Material into its GPU-layout
// form. Defined here (not in package model) so model stays free of any GPU
// dependency.
func MaterialUniformsFromModel(m model.Material) MaterialUniforms {
	var hasTexture uint32
	if m.TextureID != "" {
		hasTexture = 1
	}
	return MaterialUniforms{
		Color: m.Color, Emissive: m.Emissive,
		Roughness: m.Roughness, Metallic: m.Metallic,
		HasTexture: hasTexture,
	}
}
