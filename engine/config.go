package engine

// RendererConfig is the renderer's construction-time options struct, the
// config-ambient concern the teacher expresses as a *Module options struct
// (mod_client.go's ClientModule{WindowWidth, WindowHeight, WindowTitle}).
// There is no CLI/env layer at this layer, per spec.md §6.
type RendererConfig struct {
	MaxPatchCount     uint32
	SubdivisionRounds int
	ThresholdFactor   float32
	EnableProfiling   bool

	Headless       bool
	HeadlessWidth  uint32
	HeadlessHeight uint32

	// Strict gates spec.md §7's "programmer error" row: panic in debug
	// (Strict == true), log via Logger.Errorf and continue in release.
	Strict bool

	Logger Logger
}

// DefaultConfig returns sane defaults: 4 subdivision rounds (2N=8 ping-pongs,
// spec.md §4.5's "sufficient to reach ~16x16-pixel patches on a 4K frame"),
// a generous patch-queue capacity, and profiling off.
func DefaultConfig() RendererConfig {
	return RendererConfig{
		MaxPatchCount:     1 << 16,
		SubdivisionRounds: 4,
		ThresholdFactor:   1.0,
		EnableProfiling:   false,
		HeadlessWidth:     1920,
		HeadlessHeight:    1080,
		Strict:            true,
		Logger:            NewNopLogger(),
	}
}

func (c RendererConfig) logger() Logger {
	if c.Logger == nil {
		return NewNopLogger()
	}
	return c.Logger
}
