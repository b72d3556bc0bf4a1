package engine

import (
	"github.com/gekko3d/tessera/reactive"
	"github.com/gekko3d/tessera/shadersrc"
)

// shaderRegistry is the "shaders" signal collection spec.md §4.8 describes:
// one Signal per shader ID, so a per-model memo can observe exactly the
// slot it depends on without waking up when an unrelated shader recompiles.
type shaderRegistry struct {
	compiler *shadersrc.Compiler
	slots    map[string]*reactive.Signal[*shadersrc.ShaderPipelines]
}

func newShaderRegistry(compiler *shadersrc.Compiler) *shaderRegistry {
	return &shaderRegistry{compiler: compiler, slots: make(map[string]*reactive.Signal[*shadersrc.ShaderPipelines])}
}

// slot returns (creating if absent) the signal for shaderID, seeded with the
// shared "missing" fallback until a real compile succeeds.
func (r *shaderRegistry) slot(shaderID string) *reactive.Signal[*shadersrc.ShaderPipelines] {
	s, ok := r.slots[shaderID]
	if !ok {
		s = reactive.NewSignal(r.compiler.Missing())
		r.slots[shaderID] = s
	}
	return s
}

// Compile splices userCode, compiles both pipelines, and updates shaderID's
// signal. A failed compile still updates the signal (to the shared Missing()
// pipelines) so every model referencing shaderID rebinds to the fallback
// rather than keeps drawing a stale pipeline.
func (r *shaderRegistry) Compile(shaderID, userCode string) []shadersrc.Diagnostic {
	pipelines, diags := r.compiler.Compile(shaderID, userCode)
	r.slot(shaderID).Set(pipelines)
	return diags
}
