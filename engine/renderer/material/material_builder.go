package material

// MaterialBuilderOption is a function that configures a Material during construction.
type MaterialBuilderOption func(*Material)

// WithColour sets the base RGBA colour of the material.
//
// Parameters:
//   - r, g, b, a: colour components
//
// Returns:
//   - MaterialBuilderOption: a function that applies the colour option to a material
func WithColour(r, g, b, a float32) MaterialBuilderOption {
	return func(m *Material) {
		m.Colour = [4]float32{r, g, b, a}
	}
}

// WithEmission sets the emitted light colour and its strength.
//
// Parameters:
//   - r, g, b: emission colour components
//   - strength: emission multiplier, clamped to be non-negative
//
// Returns:
//   - MaterialBuilderOption: a function that applies the emission option to a material
func WithEmission(r, g, b, strength float32) MaterialBuilderOption {
	return func(m *Material) {
		m.EmissionColour = [3]float32{r, g, b}
		m.EmissionStrength = strength
	}
}

// WithSmoothness sets the smoothness of the material, clamped to [0, 1].
//
// Parameters:
//   - smoothness: 0 for fully diffuse, 1 for a perfect mirror
//
// Returns:
//   - MaterialBuilderOption: a function that applies the smoothness option to a material
func WithSmoothness(smoothness float32) MaterialBuilderOption {
	return func(m *Material) {
		m.Smoothness = smoothness
	}
}
