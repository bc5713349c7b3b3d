package compiler

import (
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/bind_group_provider"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/extractor"
)

// CompilerBuilderOption is a functional option for configuring a Compiler.
type CompilerBuilderOption func(*compiler)

// WithProvider sets the BindGroupProvider that owns the scene buffers.
//
// Parameters:
//   - p: the provider, typically backed by the renderer backend's allocator
//
// Returns:
//   - CompilerBuilderOption: option function to apply
func WithProvider(p bind_group_provider.BindGroupProvider) CompilerBuilderOption {
	return func(c *compiler) {
		c.provider = p
	}
}

// WithExtractor sets the extractor used by CompileObjects.
//
// Parameters:
//   - e: the extractor
//
// Returns:
//   - CompilerBuilderOption: option function to apply
func WithExtractor(e extractor.Extractor) CompilerBuilderOption {
	return func(c *compiler) {
		c.extractor = e
	}
}
