package shadersrc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testTemplate = `before
//// START sampleObject
fn sampleObject(uv: vec2<f32>) -> ObjectSample {
    var out: ObjectSample;
    return out;
}
//// END sampleObject
after`

func TestSpliceReplacesMarkedBlockWithUserFunction(t *testing.T) {
	userCode := `
fn sampleObject(uv: vec2<f32>) -> ObjectSample {
    var out: ObjectSample;
    out.position = vec3<f32>(sin(uv.x), cos(uv.y), 0.0);
    return out;
}
`
	out, err := splice(testTemplate, markerSampleObjectStart, markerSampleObjectEnd, userCode, "sampleObject")
	require.NoError(t, err)
	require.Contains(t, out, "sin(uv.x)")
	require.NotContains(t, out, markerSampleObjectStart)
	require.True(t, strings.HasPrefix(out, "before\n"))
	require.True(t, strings.HasSuffix(out, "after"))
}

func TestSpliceLeavesTemplateUntouchedWhenUserCodeLacksFunction(t *testing.T) {
	out, err := splice(testTemplate, markerSampleObjectStart, markerSampleObjectEnd, "fn other() {}", "sampleObject")
	require.NoError(t, err)
	require.Equal(t, testTemplate, out)
}

func TestSpliceLeavesTemplateUntouchedWhenMarkerAbsent(t *testing.T) {
	// subdivide.wgsl has no getColor marker pair; splicing getColor against
	// it must be a no-op, not an error.
	out, err := splice(testTemplate, markerGetColorStart, markerGetColorEnd, "fn getColor(uv: vec2<f32>) -> vec3<f32> { return vec3<f32>(1.0); }", "getColor")
	require.NoError(t, err)
	require.Equal(t, testTemplate, out)
}

func TestExtractFunctionBalancesNestedBraces(t *testing.T) {
	src := `
fn sampleObject(uv: vec2<f32>) -> ObjectSample {
    var out: ObjectSample;
    if (uv.x > 0.5) {
        out.position = vec3<f32>(1.0);
    } else {
        out.position = vec3<f32>(0.0);
    }
    return out;
}
`
	body, ok := extractFunction(src, "sampleObject")
	require.True(t, ok)
	require.True(t, strings.HasPrefix(body, "fn sampleObject("))
	require.True(t, strings.HasSuffix(body, "}"))
	require.Equal(t, 1, strings.Count(body, "fn sampleObject("))
}

func TestSpliceRealTemplatesRoundTrip(t *testing.T) {
	userCode := `
fn sampleObject(uv: vec2<f32>) -> ObjectSample {
    var out: ObjectSample;
    out.position = vec3<f32>(uv.x, uv.y, sin(uv.x * 6.28));
    out.normal = vec3<f32>(0.0, 0.0, 1.0);
    return out;
}

fn getColor(uv: vec2<f32>) -> vec3<f32> {
    return vec3<f32>(uv, 0.5);
}
`
	renderOut, err := Splice(RenderTemplate, userCode)
	require.NoError(t, err)
	require.Contains(t, renderOut, "sin(uv.x * 6.28)")
	require.Contains(t, renderOut, "return vec3<f32>(uv, 0.5);")

	computeOut, err := Splice(SubdivideTemplate, userCode)
	require.NoError(t, err)
	require.Contains(t, computeOut, "sin(uv.x * 6.28)")
	require.NotContains(t, computeOut, "return vec3<f32>(uv, 0.5);", "subdivide template has no getColor splice point")
}
