package renderer

import (
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/compiler"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/extractor"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithSettings sets the initial ray tracing settings.
//
// Parameters:
//   - s: the settings, sanitized on construction
//
// Returns:
//   - RendererBuilderOption: a function that applies the settings option to a renderer
func WithSettings(s Settings) RendererBuilderOption {
	return func(r *renderer) {
		r.settings = s
	}
}

// WithWorkers sets the number of workers the geometry extractor fans out over.
// Values below 1 use one worker per spare CPU. Ignored when WithCompiler is given.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - RendererBuilderOption: a function that applies the workers option to a renderer
func WithWorkers(n int) RendererBuilderOption {
	return func(r *renderer) {
		r.workers = n
	}
}

// WithSpherePolicy sets how non-uniform object scale is applied to sphere radii.
// Ignored when WithCompiler is given.
//
// Parameters:
//   - p: the sphere scale policy
//
// Returns:
//   - RendererBuilderOption: a function that applies the sphere policy option to a renderer
func WithSpherePolicy(p extractor.SpherePolicy) RendererBuilderOption {
	return func(r *renderer) {
		r.spherePolicy = p
	}
}

// WithCompiler replaces the default scene compiler. The compiler's buffers must come from
// an allocator compatible with the backend.
//
// Parameters:
//   - c: the compiler, owned by the renderer from here on
//
// Returns:
//   - RendererBuilderOption: a function that applies the compiler option to a renderer
func WithCompiler(c compiler.Compiler) RendererBuilderOption {
	return func(r *renderer) {
		r.compiler = c
	}
}
