package bind_group_provider

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// WGPUBuffer is a Buffer backed by a wgpu storage buffer.
type WGPUBuffer interface {
	Buffer

	// Raw returns the underlying wgpu buffer for bind group creation, or nil after Release.
	Raw() *wgpu.Buffer
}

type wgpuBuffer struct {
	label string
	size  uint64
	queue *wgpu.Queue
	buf   *wgpu.Buffer
}

var _ WGPUBuffer = &wgpuBuffer{}

func (b *wgpuBuffer) Label() string {
	return b.label
}

func (b *wgpuBuffer) Size() uint64 {
	return b.size
}

func (b *wgpuBuffer) Raw() *wgpu.Buffer {
	return b.buf
}

func (b *wgpuBuffer) Write(offset uint64, data []byte) error {
	if b.buf == nil {
		return ErrBufferReleased
	}
	if offset+uint64(len(data)) > b.size {
		return fmt.Errorf("%w: %s offset %d len %d size %d", ErrWriteOutOfRange, b.label, offset, len(data), b.size)
	}
	if len(data) == 0 {
		return nil
	}
	b.queue.WriteBuffer(b.buf, offset, data)
	return nil
}

func (b *wgpuBuffer) Release() {
	if b.buf != nil {
		b.buf.Release()
		b.buf = nil
	}
}

type wgpuBufferAllocator struct {
	device *wgpu.Device
	queue  *wgpu.Queue
	usage  wgpu.BufferUsage
}

// NewWGPUBufferAllocator returns an allocator creating read-only storage buffers on device.
//
// Parameters:
//   - device: the wgpu device
//   - queue: the queue used for uploads
//
// Returns:
//   - BufferAllocator: the wgpu allocator
func NewWGPUBufferAllocator(device *wgpu.Device, queue *wgpu.Queue) BufferAllocator {
	return &wgpuBufferAllocator{
		device: device,
		queue:  queue,
		usage:  wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	}
}

func (a *wgpuBufferAllocator) CreateBuffer(label string, size uint64) (Buffer, error) {
	// storage bindings require 4-byte aligned sizes
	size = (size + 3) &^ 3
	buf, err := a.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             size,
		Usage:            a.usage,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, err
	}
	return &wgpuBuffer{label: label, size: size, queue: a.queue, buf: buf}, nil
}
