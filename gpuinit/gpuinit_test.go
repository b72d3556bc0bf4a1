package gpuinit

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/require"
)

func TestSrgbVariantMapsKnownFormats(t *testing.T) {
	require.Equal(t, wgpu.TextureFormatBGRA8UnormSrgb, srgbVariant(wgpu.TextureFormatBGRA8Unorm))
	require.Equal(t, wgpu.TextureFormatRGBA8UnormSrgb, srgbVariant(wgpu.TextureFormatRGBA8Unorm))
}

func TestSrgbVariantPassesThroughUnknownFormats(t *testing.T) {
	require.Equal(t, wgpu.TextureFormatRGBA8UnormSrgb, srgbVariant(wgpu.TextureFormatRGBA8UnormSrgb))
	require.Equal(t, wgpu.TextureFormatDepth32Float, srgbVariant(wgpu.TextureFormatDepth32Float))
}

func TestResizeIgnoresZeroDimensions(t *testing.T) {
	target := &Target{Width: 800, Height: 600, Headless: true}
	target.Resize(0, 600)
	require.Equal(t, uint32(800), target.Width)
	target.Resize(800, 0)
	require.Equal(t, uint32(600), target.Height)
}
