// Package gpubuf wraps wgpu buffers with a compile-time-known layout: a
// uniform variant, a storage variant, and a storage-with-runtime-array
// variant sized for a fixed header plus a trailing element count. Growth
// follows the teacher's geometric-growth ensureBuffer idiom: buffers only
// ever grow, to the larger of the requested size and 1.5x their current
// size, and existing content survives a resize via a device-side copy.
package gpubuf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"reflect"

	"github.com/cogentcore/webgpu/wgpu"
)

// CopyBufferAlignment is wgpu's minimum buffer-size/copy-offset alignment.
const CopyBufferAlignment = 4

// growthFactor mirrors manager.go's ensureBuffer: grow to at least 1.5x the
// current size rather than to the exact requested size, so repeated small
// growths amortize.
const growthFactor = 1.5

// Kind distinguishes a uniform buffer from a storage buffer; both carry the
// same growth/write machinery but different wgpu usage flags.
type Kind int

const (
	KindUniform Kind = iota
	KindStorage
)

// Buffer is a typed, growable GPU buffer. The zero value is not usable;
// construct with NewUniform, NewStorage, or NewStorageWithRuntimeArray.
type Buffer struct {
	label string
	kind  Kind
	raw   *wgpu.Buffer
	size  uint64 // current allocation size in bytes
	usage wgpu.BufferUsage
}

// Raw exposes the underlying wgpu buffer for binding into a bind group.
func (b *Buffer) Raw() *wgpu.Buffer { return b.raw }

// Size reports the buffer's current allocation in bytes.
func (b *Buffer) Size() uint64 { return b.size }

// Release frees the underlying device buffer. Safe to call on a nil Buffer.
func (b *Buffer) Release() {
	if b == nil || b.raw == nil {
		return
	}
	b.raw.Release()
	b.raw = nil
}

// NewUniform allocates a uniform buffer sized and initialized from value.
func NewUniform(device *wgpu.Device, label string, value any) *Buffer {
	return newInitialized(device, label, KindUniform, wgpu.BufferUsageUniform, value)
}

// NewStorage allocates a storage buffer sized and initialized from value.
func NewStorage(device *wgpu.Device, label string, value any) *Buffer {
	return newInitialized(device, label, KindStorage, wgpu.BufferUsageStorage, value)
}

func newInitialized(device *wgpu.Device, label string, kind Kind, usage wgpu.BufferUsage, value any) *Buffer {
	data := Encode(value)
	usage = usage | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc
	raw, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: data,
		Usage:    usage,
	})
	if err != nil {
		panic(fmt.Errorf("gpubuf: create buffer %q: %w", label, err))
	}
	return &Buffer{label: label, kind: kind, raw: raw, size: alignUp(uint64(len(data))), usage: usage}
}

// NewStorageWithRuntimeArray allocates a storage buffer sized for a fixed
// header (e.g. {length, capacity}) followed by runtimeCount trailing
// elements of elementSize bytes, padded up to at least one copy-buffer
// alignment unit. The encoded header is written at offset 0; the element
// area starts zeroed and callers fill it separately (e.g. via WriteAt).
func NewStorageWithRuntimeArray(device *wgpu.Device, label string, header any, elementSize int, runtimeCount int) *Buffer {
	headerBytes := Encode(header)
	total := uint64(len(headerBytes)) + uint64(elementSize)*uint64(runtimeCount)
	size := alignUp(total)
	if size < CopyBufferAlignment {
		size = CopyBufferAlignment
	}
	usage := wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc
	raw, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             size,
		Usage:            usage,
		MappedAtCreation: false,
	})
	if err != nil {
		panic(fmt.Errorf("gpubuf: create runtime-array buffer %q: %w", label, err))
	}
	b := &Buffer{label: label, kind: KindStorage, raw: raw, size: size, usage: usage}
	if len(headerBytes) > 0 {
		device.GetQueue().WriteBuffer(raw, 0, headerBytes)
	}
	return b
}

// Write overwrites the buffer's full contents with value's encoding. If
// value's encoded size exceeds the buffer's current allocation, Write grows
// the buffer geometrically (content is not preserved across a growing
// write, matching "full overwrite" semantics from the operation contract).
func (b *Buffer) Write(device *wgpu.Device, value any) {
	data := Encode(value)
	b.ensure(device, uint64(len(data)), nil)
	device.GetQueue().WriteBuffer(b.raw, 0, data)
}

// WriteAt overwrites a sub-range of the buffer without touching the rest;
// used for per-bucket or per-element updates (e.g. one queue header).
func (b *Buffer) WriteAt(device *wgpu.Device, offset uint64, value any) {
	data := Encode(value)
	if offset+uint64(len(data)) > b.size {
		panic(fmt.Errorf("gpubuf: WriteAt out of range on %q", b.label))
	}
	device.GetQueue().WriteBuffer(b.raw, offset, data)
}

// ensure grows b to at least neededSize bytes, geometrically, always
// copying the old content into the new buffer on the device: on preserve
// when it is non-nil, otherwise on an encoder ensure creates and submits
// itself. It reports whether the buffer was reallocated.
func (b *Buffer) ensure(device *wgpu.Device, neededSize uint64, preserve *wgpu.CommandEncoder) bool {
	neededSize = alignUp(neededSize)
	if b.raw != nil && b.size >= neededSize {
		return false
	}

	newSize := neededSize
	if b.raw != nil {
		grown := uint64(float64(b.size) * growthFactor)
		if grown > newSize {
			newSize = grown
		}
	}

	newBuf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            b.label,
		Size:             newSize,
		Usage:            b.usage,
		MappedAtCreation: false,
	})
	if err != nil {
		panic(fmt.Errorf("gpubuf: grow buffer %q: %w", b.label, err))
	}

	if b.raw != nil {
		enc := preserve
		owned := false
		if enc == nil {
			e, err := device.CreateCommandEncoder(nil)
			if err != nil {
				panic(fmt.Errorf("gpubuf: grow-copy encoder for %q: %w", b.label, err))
			}
			enc = e
			owned = true
		}
		enc.CopyBufferToBuffer(b.raw, 0, newBuf, 0, b.size)
		if owned {
			cmd, err := enc.Finish(nil)
			if err != nil {
				panic(fmt.Errorf("gpubuf: grow-copy finish for %q: %w", b.label, err))
			}
			device.GetQueue().Submit(cmd)
		}
		b.raw.Release()
	}

	b.raw = newBuf
	b.size = newSize
	return true
}

// CreateBindGroup wraps device.CreateBindGroup, panicking on error to match
// the teacher's panic-on-CreateX-error style (gpu_operations.go's
// createBindGroups): a failed bind group here is a programmer error in
// layout/entry matching, not a recoverable runtime condition.
func CreateBindGroup(device *wgpu.Device, desc *wgpu.BindGroupDescriptor) *wgpu.BindGroup {
	bg, err := device.CreateBindGroup(desc)
	if err != nil {
		panic(fmt.Errorf("gpubuf: create bind group %q: %w", desc.Label, err))
	}
	return bg
}

// CopyAll copies min(src.Size(), dst.Size()) bytes from src to dst on the
// given encoder. dst must be at least as large as src; violating that is a
// programmer error.
func CopyAll(encoder *wgpu.CommandEncoder, src, dst *Buffer) {
	if dst.size < src.size {
		panic(fmt.Errorf("gpubuf: CopyAll dst %q (%d bytes) smaller than src %q (%d bytes)", dst.label, dst.size, src.label, src.size))
	}
	n := src.size
	if dst.size < n {
		n = dst.size
	}
	encoder.CopyBufferToBuffer(src.raw, 0, dst.raw, 0, n)
}

func alignUp(n uint64) uint64 {
	rem := n % CopyBufferAlignment
	if rem == 0 {
		return n
	}
	return n + (CopyBufferAlignment - rem)
}

// Encode packs value into little-endian GPU-layout bytes by walking its
// fields with reflection, the same way the teacher's readUniformsBytes
// does for uniform components. Supported kinds: structs (recursively),
// fixed-size slices/arrays of supported kinds, and little-endian-safe
// scalar types.
func Encode(value any) []byte {
	buf := new(bytes.Buffer)
	encodeValue(reflect.ValueOf(value), buf)
	return buf.Bytes()
}

func encodeValue(v reflect.Value, buf *bytes.Buffer) {
	switch v.Kind() {
	case reflect.Ptr:
		encodeValue(v.Elem(), buf)
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			encodeValue(v.Index(i), buf)
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			encodeValue(v.Field(i), buf)
		}
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Float32, reflect.Float64:
		if err := binary.Write(buf, binary.LittleEndian, v.Interface()); err != nil {
			panic(fmt.Errorf("gpubuf: encode scalar: %w", err))
		}
	default:
		panic(fmt.Errorf("gpubuf: unsupported type for GPU encoding: %v", v.Type()))
	}
}
