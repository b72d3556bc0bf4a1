package shadersrc

import (
	"fmt"
	"strings"
)

// Diagnostic reports a shader-compile problem with a stable location range,
// per the external shader-source contract.
type Diagnostic struct {
	Severity        string
	Message         string
	ModulePath      string
	ByteOffsetStart int
	ByteOffsetEnd   int
}

// splice replaces the marker-delimited default body in template with the
// user's definition of fnName, found by locating "fn <fnName>(" in userCode
// and balancing braces from there. Splicing is purely textual: no grammar,
// just substring search and rebuild, per spec.md §4.7/§9.
func splice(template, markerStart, markerEnd, userCode, fnName string) (string, error) {
	body, ok := extractFunction(userCode, fnName)
	if !ok {
		return template, nil
	}

	startIdx := strings.Index(template, markerStart)
	if startIdx == -1 {
		// This template has no splice point for fnName (e.g. the subdivide
		// template has no getColor marker pair): nothing to substitute.
		return template, nil
	}
	endMarkerIdx := strings.Index(template[startIdx:], markerEnd)
	if endMarkerIdx == -1 {
		return "", fmt.Errorf("shadersrc: template missing marker %q", markerEnd)
	}
	endIdx := startIdx + endMarkerIdx + len(markerEnd)

	var b strings.Builder
	b.WriteString(template[:startIdx])
	b.WriteString(body)
	b.WriteString(template[endIdx:])
	return b.String(), nil
}

// extractFunction finds "fn <name>(" in src and returns the full function
// text (signature through matching closing brace), by counting braces.
func extractFunction(src, name string) (string, bool) {
	needle := "fn " + name + "("
	start := strings.Index(src, needle)
	if start == -1 {
		return "", false
	}
	openBrace := strings.IndexByte(src[start:], '{')
	if openBrace == -1 {
		return "", false
	}
	openBrace += start

	depth := 0
	for i := openBrace; i < len(src); i++ {
		switch src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return src[start : i+1], true
			}
		}
	}
	return "", false
}

// Splice substitutes the user's sampleObject (required) and getColor
// (optional) functions into template, returning the ready-to-compile WGSL
// text. If userCode defines getColor, the template's default getColor is
// replaced too; otherwise the template keeps its own default.
func Splice(template, userCode string) (string, error) {
	out, err := splice(template, markerSampleObjectStart, markerSampleObjectEnd, userCode, "sampleObject")
	if err != nil {
		return "", err
	}
	out, err = splice(out, markerGetColorStart, markerGetColorEnd, userCode, "getColor")
	if err != nil {
		return "", err
	}
	return out, nil
}
