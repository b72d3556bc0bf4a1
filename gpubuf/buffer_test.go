package gpubuf_test

import (
	"testing"

	"github.com/gekko3d/tessera/gpubuf"
	"github.com/stretchr/testify/require"
)

type dispatchArgs struct {
	X, Y, Z uint32
}

type drawIndexedArgs struct {
	IndexCount    uint32
	InstanceCount uint32
	FirstIndex    uint32
	BaseVertex    int32
	FirstInstance uint32
}

func TestEncodeDispatchIndirectArgsIs12Bytes(t *testing.T) {
	b := gpubuf.Encode(dispatchArgs{X: 1, Y: 2, Z: 3})
	require.Len(t, b, 12)
	require.Equal(t, []byte{1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0}, b)
}

func TestEncodeDrawIndexedIndirectArgsIs20Bytes(t *testing.T) {
	b := gpubuf.Encode(drawIndexedArgs{
		IndexCount:    6,
		InstanceCount: 0,
		FirstIndex:    0,
		BaseVertex:    0,
		FirstInstance: 0,
	})
	require.Len(t, b, 20)
}

func TestEncodeNestedStruct(t *testing.T) {
	type header struct {
		Length   uint32
		Capacity uint32
	}
	type queue struct {
		Header  header
		Patches [2]uint32
	}
	b := gpubuf.Encode(queue{Header: header{Length: 1, Capacity: 100000}, Patches: [2]uint32{7, 9}})
	require.Len(t, b, 16)
}
