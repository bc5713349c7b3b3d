package tracer

// TracerBuilderOption is a functional option for configuring a Tracer.
type TracerBuilderOption func(*tracer)

// WithWorkers sets how many rows are traced concurrently.
// 1 traces serially; values below 1 use one worker per CPU.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - TracerBuilderOption: functional option to set the worker count
func WithWorkers(n int) TracerBuilderOption {
	return func(t *tracer) {
		t.workers = n
	}
}
