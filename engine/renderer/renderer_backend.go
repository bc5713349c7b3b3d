package renderer

import (
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/bind_group_provider"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/compiler"
)

// RendererBackendType identifies the tracer backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeSoftware selects the CPU backend with host-memory buffers and images.
	BackendTypeSoftware RendererBackendType = iota

	// BackendTypeWGPU selects the WebGPU compute backend.
	BackendTypeWGPU
)

// String returns the backend name.
func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeSoftware:
		return "software"
	case BackendTypeWGPU:
		return "wgpu"
	default:
		return "unknown"
	}
}

// Surface is a 2D RGBA32F image a backend can trace into, sample from and copy between.
// Release is idempotent.
type Surface interface {
	// Width returns the surface width in pixels.
	Width() int

	// Height returns the surface height in pixels.
	Height() int

	// Release frees the surface. Subsequent calls are no-ops.
	Release()
}

// RendererBackend executes the tracer contract: a trace pass producing one noisy sample per
// pixel and a blend pass folding a sample into the running mean.
type RendererBackend interface {
	// Type returns the backend type.
	Type() RendererBackendType

	// Allocator returns the allocator scene buffers are created with.
	//
	// Returns:
	//   - bind_group_provider.BufferAllocator: the backend's buffer allocator
	Allocator() bind_group_provider.BufferAllocator

	// CreateSurface allocates a random-write RGBA32F surface.
	//
	// Parameters:
	//   - label: debug label
	//   - width, height: size in pixels, both > 0
	//
	// Returns:
	//   - Surface: the new surface
	//   - error: allocation error
	CreateSurface(label string, width, height int) (Surface, error)

	// Copy copies src into dst. Both must belong to this backend and have the same size.
	//
	// Parameters:
	//   - dst: destination surface
	//   - src: source surface
	//
	// Returns:
	//   - error: ErrForeignSurface, ErrSizeMismatch or a device error
	Copy(dst, src Surface) error

	// Trace renders one sample of the compiled scene into dst (mode 0).
	//
	// Parameters:
	//   - dst: destination surface
	//   - bindings: the compiled scene buffers
	//   - params: per-frame parameters
	//
	// Returns:
	//   - error: ErrForeignSurface or a device error
	Trace(dst Surface, bindings compiler.SceneBindings, params FrameParams) error

	// Blend writes history*(1-w) + current*w into dst with w = 1/(frameCount+1) (mode 1).
	//
	// Parameters:
	//   - dst: destination surface
	//   - current: the newest sample
	//   - history: the running mean of frameCount earlier samples
	//   - frameCount: number of samples already in history
	//
	// Returns:
	//   - error: ErrForeignSurface, ErrSizeMismatch or a device error
	Blend(dst, current, history Surface, frameCount int) error

	// Release frees every device resource owned by the backend. Safe to call more than once.
	Release()
}

// blendWeight is the weight of the newest sample when frameCount samples are already accumulated.
func blendWeight(frameCount int) float32 {
	return 1 / (float32(frameCount) + 1)
}
