package material

import (
	"fmt"
)

// Material describes the surface response of a ray traced object.
// It is a plain value: every record that references a material receives its own copy.
type Material struct {
	// Colour is the base RGBA albedo.
	Colour [4]float32
	// EmissionColour is the RGB colour of emitted light.
	EmissionColour [3]float32
	// EmissionStrength scales EmissionColour. Never negative, unbounded above.
	EmissionStrength float32
	// Smoothness blends diffuse (0) and specular (1) bounces. Kept in [0, 1].
	Smoothness float32
}

// NewMaterial creates a Material from the provided options.
// Defaults to an opaque white, non-emissive, fully diffuse surface.
//
// Parameters:
//   - options: functional options applied in order
//
// Returns:
//   - Material: the configured material, with ranges clamped
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := Material{
		Colour: [4]float32{1, 1, 1, 1},
	}
	for _, opt := range options {
		opt(&m)
	}
	return m.Clamped()
}

// Clamped returns a copy of m with smoothness in [0, 1] and a non-negative emission strength.
//
// Returns:
//   - Material: the clamped copy
func (m Material) Clamped() Material {
	m.Smoothness = min(max(m.Smoothness, 0), 1)
	m.EmissionStrength = max(m.EmissionStrength, 0)
	return m
}

// Emissive reports whether the material emits any light.
//
// Returns:
//   - bool: true when strength and at least one emission channel are positive
func (m Material) Emissive() bool {
	return m.EmissionStrength > 0 && (m.EmissionColour[0] > 0 || m.EmissionColour[1] > 0 || m.EmissionColour[2] > 0)
}

// GPU converts the material to its packed GPU layout.
//
// Returns:
//   - GPUMaterial: the GPU record
func (m Material) GPU() GPUMaterial {
	return GPUMaterial{
		Colour:           m.Colour,
		EmissionColour:   m.EmissionColour,
		EmissionStrength: m.EmissionStrength,
		Smoothness:       m.Smoothness,
	}
}

func (m Material) String() string {
	return fmt.Sprintf("colour=%v emission=%v*%.2f smoothness=%.2f", m.Colour, m.EmissionColour, m.EmissionStrength, m.Smoothness)
}
