package bind_group_provider

import (
	"errors"
	"fmt"
)

// ErrBufferReleased is returned when writing to a buffer after Release.
var ErrBufferReleased = errors.New("bind_group_provider: buffer released")

// ErrWriteOutOfRange is returned when a write does not fit inside the buffer.
var ErrWriteOutOfRange = errors.New("bind_group_provider: write out of range")

// Buffer is a device buffer handle owned by a BindGroupProvider.
// Release is idempotent.
type Buffer interface {
	// Label returns the debug label the buffer was created with.
	Label() string

	// Size returns the allocated size in bytes.
	Size() uint64

	// Write uploads data at the given byte offset.
	//
	// Parameters:
	//   - offset: byte offset into the buffer
	//   - data: bytes to upload
	//
	// Returns:
	//   - error: ErrBufferReleased, ErrWriteOutOfRange or a device error
	Write(offset uint64, data []byte) error

	// Release frees the device memory. Subsequent calls are no-ops.
	Release()
}

// HostBuffer is a Buffer backed by host memory, readable by CPU tracers.
type HostBuffer interface {
	Buffer

	// Bytes returns the buffer contents. The slice is owned by the buffer and is
	// nil after Release.
	Bytes() []byte
}

// BufferAllocator creates device buffers for a BindGroupProvider.
type BufferAllocator interface {
	// CreateBuffer allocates a buffer of size bytes.
	//
	// Parameters:
	//   - label: debug label
	//   - size: size in bytes, always > 0
	//
	// Returns:
	//   - Buffer: the new buffer
	//   - error: allocation error
	CreateBuffer(label string, size uint64) (Buffer, error)
}

type hostBuffer struct {
	label string
	data  []byte
}

var _ HostBuffer = &hostBuffer{}

func (b *hostBuffer) Label() string {
	return b.label
}

func (b *hostBuffer) Size() uint64 {
	return uint64(len(b.data))
}

func (b *hostBuffer) Bytes() []byte {
	return b.data
}

func (b *hostBuffer) Write(offset uint64, data []byte) error {
	if b.data == nil {
		return ErrBufferReleased
	}
	if offset+uint64(len(data)) > uint64(len(b.data)) {
		return fmt.Errorf("%w: %s offset %d len %d size %d", ErrWriteOutOfRange, b.label, offset, len(data), len(b.data))
	}
	copy(b.data[offset:], data)
	return nil
}

func (b *hostBuffer) Release() {
	b.data = nil
}

type hostBufferAllocator struct{}

// NewHostBufferAllocator returns an allocator whose buffers live in host memory.
// Used by the software backend.
//
// Returns:
//   - BufferAllocator: the host allocator
func NewHostBufferAllocator() BufferAllocator {
	return hostBufferAllocator{}
}

func (hostBufferAllocator) CreateBuffer(label string, size uint64) (Buffer, error) {
	return &hostBuffer{label: label, data: make([]byte, size)}, nil
}
