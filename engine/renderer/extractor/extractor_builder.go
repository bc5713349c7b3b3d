package extractor

// ExtractorBuilderOption is a functional option for configuring an Extractor.
type ExtractorBuilderOption func(*extractor)

// WithWorkers sets the number of workers used for the fill pass. 1 keeps the pass
// serial, values below 1 select runtime.NumCPU()-1. Parallel output is identical to
// serial output.
//
// Parameters:
//   - n: the number of workers
//
// Returns:
//   - ExtractorBuilderOption: option function to apply
func WithWorkers(n int) ExtractorBuilderOption {
	return func(e *extractor) {
		e.workers = n
	}
}

// WithSpherePolicy sets how object scale maps onto sphere radius.
//
// Parameters:
//   - policy: the sphere scale policy
//
// Returns:
//   - ExtractorBuilderOption: option function to apply
func WithSpherePolicy(policy SpherePolicy) ExtractorBuilderOption {
	return func(e *extractor) {
		e.spherePolicy = policy
	}
}
