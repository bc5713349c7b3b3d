package profiler

import "time"

// ProfilerBuilderOption is a functional option for configuring a Profiler via NewProfiler.
type ProfilerBuilderOption func(*Profiler)

// WithInterval sets how often stats are logged.
//
// Parameters:
//   - d: the reporting interval
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the interval option to a profiler
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.updateInterval = d
	}
}

// WithClock replaces the wall clock, mainly for tests.
//
// Parameters:
//   - now: returns the current time
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the clock option to a profiler
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// WithMemStats enables or disables runtime memory sampling. Enabled by default.
//
// Parameters:
//   - enabled: whether each window reads runtime.MemStats
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the option to a profiler
func WithMemStats(enabled bool) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.readMem = enabled
	}
}
