// Package model defines the caller-facing model descriptor ABI and the
// diff against the previous frame's list, grounded on the teacher's
// version-counter dirty-check idiom (mod_client.go's WgpuMesh/WgpuMaterial
// version fields) and its core/scene.go object bookkeeping.
package model

import "github.com/go-gl/mathgl/mgl32"

// Transform is translation/rotation/scale, matching the teacher's
// TransformComponent shape.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// IdentityTransform returns the transform at the origin with no rotation
// and unit scale.
func IdentityTransform() Transform {
	return Transform{
		Translation: mgl32.Vec3{0, 0, 0},
		Rotation:    mgl32.QuatIdent(),
		Scale:       mgl32.Vec3{1, 1, 1},
	}
}

// Matrix builds the model matrix translation * rotation * scale.
func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Translation[0], t.Translation[1], t.Translation[2]).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

// Material is the per-model shading input; TextureID is empty when the
// model has no texture bound.
type Material struct {
	Color     mgl32.Vec4
	Emissive  mgl32.Vec4
	Roughness float32
	Metallic  float32
	TextureID string
}

// Info is the caller-facing model descriptor: the authoritative per-frame
// state for one model, keyed by a caller-stable ID. Two Infos with the
// same ID may differ in any other field, which implies a field-level
// update rather than a reallocation.
type Info struct {
	ID            string
	Transform     Transform
	Material      Material
	ShaderID      string
	InstanceCount uint32
}

// Equal reports value equality across every field the render/subdivision
// pipeline cares about (excluding ID, which is the identity key itself).
func (a Info) Equal(b Info) bool {
	return a.Transform == b.Transform &&
		a.Material == b.Material &&
		a.ShaderID == b.ShaderID &&
		a.InstanceCount == b.InstanceCount
}

// Diff is the authoritative-set comparison spec.md §6's model update ABI
// requires: IDs absent from the new list are removed, new IDs are added,
// and IDs present in both but field-unequal are updated. Equal entries are
// omitted from Updated so no downstream signal fires for them.
type Diff struct {
	Added   []Info
	Updated []Info
	Removed []string
}

// Compute builds the Diff of moving from prev to next.
func Compute(prev, next []Info) Diff {
	prevByID := make(map[string]Info, len(prev))
	for _, m := range prev {
		prevByID[m.ID] = m
	}
	nextByID := make(map[string]struct{}, len(next))

	var d Diff
	for _, m := range next {
		nextByID[m.ID] = struct{}{}
		old, existed := prevByID[m.ID]
		if !existed {
			d.Added = append(d.Added, m)
			continue
		}
		if !old.Equal(m) {
			d.Updated = append(d.Updated, m)
		}
	}
	for _, m := range prev {
		if _, stillPresent := nextByID[m.ID]; !stillPresent {
			d.Removed = append(d.Removed, m.ID)
		}
	}
	return d
}
