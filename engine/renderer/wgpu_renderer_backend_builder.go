package renderer

import "github.com/A-Imbert/Ray-Tracer/engine/renderer/shader"

// WGPURendererBackendOption is a functional option applied to the wgpu backend during
// construction via NewWGPURendererBackend.
type WGPURendererBackendOption func(*wgpuRendererBackendImpl)

// WithForceFallbackAdapter requests the software fallback adapter, for hosts without a GPU.
//
// Parameters:
//   - force: true to force the fallback adapter
//
// Returns:
//   - WGPURendererBackendOption: a function that applies the adapter option to the backend
func WithForceFallbackAdapter(force bool) WGPURendererBackendOption {
	return func(b *wgpuRendererBackendImpl) {
		b.forceFallbackAdapter = force
	}
}

// WithShader replaces the built-in tracer kernel. The shader must declare the trace and
// blend entry points and the bind group 0 layout the backend binds.
//
// Parameters:
//   - s: the tracer shader
//
// Returns:
//   - WGPURendererBackendOption: a function that applies the shader option to the backend
func WithShader(s shader.Shader) WGPURendererBackendOption {
	return func(b *wgpuRendererBackendImpl) {
		b.shader = s
	}
}
