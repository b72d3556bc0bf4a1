package shadersrc

import _ "embed"

// Fixed template text, embedded exactly like the teacher's shaders.go
// go:embed catalogue. Templates carry the marker pairs the splicer locates.
var (
	//go:embed templates/subdivide.wgsl
	SubdivideTemplate string

	//go:embed templates/render.wgsl
	RenderTemplate string
)

const (
	markerSampleObjectStart = "//// START sampleObject"
	markerSampleObjectEnd   = "//// END sampleObject"
	markerGetColorStart     = "//// START getColor"
	markerGetColorEnd       = "//// END getColor"
)

// fallbackUserCode is the "missing" placeholder's parametric code: a flat
// plane colored in a magenta/black checker, so a failed compile is visibly
// distinguishable on screen rather than silently absent.
const fallbackUserCode = `
fn sampleObject(uv: vec2<f32>) -> ObjectSample {
    var out: ObjectSample;
    out.position = vec3<f32>(uv.x - 0.5, uv.y - 0.5, 0.0);
    out.normal = vec3<f32>(0.0, 0.0, 1.0);
    return out;
}

fn getColor(uv: vec2<f32>) -> vec3<f32> {
    let cell = vec2<i32>(floor(uv * 8.0));
    if ((cell.x + cell.y) % 2 == 0) {
        return vec3<f32>(1.0, 0.0, 1.0);
    }
    return vec3<f32>(0.0, 0.0, 0.0);
}
`
