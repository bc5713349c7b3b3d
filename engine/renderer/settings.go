package renderer

import "fmt"

// Settings is the host-facing ray tracing configuration.
type Settings struct {
	// Enabled turns ray tracing on. When false Render copies the source surface through.
	Enabled bool
	// Progressive accumulates samples across frames into a running mean. When false
	// every frame is traced straight into the destination.
	Progressive bool
	// MaxBounceCount is the number of bounces after the primary hit.
	MaxBounceCount int
	// RaysPerPixel is the number of samples traced per pixel per frame.
	RaysPerPixel int
	// DivergeStrength jitters ray origins on the lens, in pixels.
	DivergeStrength float32
}

// DefaultSettings returns ray tracing enabled in progressive mode with 4 bounces and
// 1 ray per pixel.
//
// Returns:
//   - Settings: the default settings
func DefaultSettings() Settings {
	return Settings{
		Enabled:        true,
		Progressive:    true,
		MaxBounceCount: 4,
		RaysPerPixel:   1,
	}
}

// Sanitized clamps the numeric fields to usable ranges: bounces >= 0, rays >= 1,
// diverge strength >= 0.
//
// Returns:
//   - Settings: the clamped copy
func (s Settings) Sanitized() Settings {
	s.MaxBounceCount = max(s.MaxBounceCount, 0)
	s.RaysPerPixel = max(s.RaysPerPixel, 1)
	s.DivergeStrength = max(s.DivergeStrength, 0)
	return s
}

// sameSamples reports whether frames traced under s and o can share one accumulation history.
func (s Settings) sameSamples(o Settings) bool {
	return s.Progressive == o.Progressive &&
		s.MaxBounceCount == o.MaxBounceCount &&
		s.RaysPerPixel == o.RaysPerPixel &&
		s.DivergeStrength == o.DivergeStrength
}

// String returns a one-line description for logs.
func (s Settings) String() string {
	return fmt.Sprintf("enabled=%t progressive=%t bounces=%d rays=%d diverge=%.2f",
		s.Enabled, s.Progressive, s.MaxBounceCount, s.RaysPerPixel, s.DivergeStrength)
}
