package engine

import (
	"time"

	"github.com/A-Imbert/Ray-Tracer/engine/profiler"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler.
//
// Parameters:
//   - p: the profiler to tick after each frame
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithTickRate sets the simulated tick rate in ticks per second.
// Every frame advances the scene by 1/fps seconds.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.tickDelta = float32(1 / fps)
	}
}

// WithPaused starts the engine with scene ticking stopped.
//
// Parameters:
//   - paused: true to start paused
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPaused(paused bool) EngineBuilderOption {
	return func(e *engine) {
		e.paused = paused
	}
}

// WithRenderFrameLimit caps the frame rate in frames per second. Values <= 0 leave it uncapped.
//
// Parameters:
//   - fps: maximum frames per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLim = 0
			return
		}
		e.renderFrameLim = time.Duration(float64(time.Second) / fps)
	}
}

// WithFrameCallback sets the per-frame callback. See Engine.SetFrameCallback.
//
// Parameters:
//   - callback: the callback run after each frame
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFrameCallback(callback func(frame int, target renderer.Surface) error) EngineBuilderOption {
	return func(e *engine) {
		e.frameCallback = callback
	}
}
