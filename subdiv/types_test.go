package subdiv

import (
	"testing"

	"github.com/gekko3d/tessera/gpubuf"
	"github.com/stretchr/testify/require"
)

func TestDispatchIndirectArgsIs12Bytes(t *testing.T) {
	b := gpubuf.Encode(DispatchIndirectArgs{X: 1, Y: 2, Z: 3})
	require.Len(t, b, 12)
	require.Equal(t, []byte{1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0}, b)
}

func TestDrawIndexedIndirectArgsIs20Bytes(t *testing.T) {
	b := gpubuf.Encode(DrawIndexedIndirectArgs{
		IndexCount: 6, InstanceCount: 0, FirstIndex: 0, BaseVertex: -1, FirstInstance: 0,
	})
	require.Len(t, b, 20)
	// BaseVertex is a signed i32; -1 encodes as 0xFFFFFFFF little-endian.
	require.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, b[12:16])
}

func TestQueueHeaderIs16Bytes(t *testing.T) {
	b := gpubuf.Encode(QueueHeader{Length: 0, Capacity: 1024})
	require.Len(t, b, 16)
}
