package pipeline

// PipelineBuilderOption is a functional option for configuring a Pipeline.
type PipelineBuilderOption func(*pipeline)

// WithEntryPoint sets the compute entry point. Defaults to the pipeline key.
//
// Parameters:
//   - entryPoint: the @compute function name
//
// Returns:
//   - PipelineBuilderOption: a function that sets the entry point
func WithEntryPoint(entryPoint string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.entryPoint = entryPoint
	}
}
