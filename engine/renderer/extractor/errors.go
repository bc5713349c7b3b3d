package extractor

import "errors"

var (
	// ErrMissingMesh is returned when an object registered as a mesh renderable carries no mesh.
	ErrMissingMesh = errors.New("extractor: mesh renderable has no mesh")
	// ErrMalformedMesh is returned when a mesh fails validation.
	ErrMalformedMesh = errors.New("extractor: malformed mesh")
	// ErrNonUniformSphereScale is returned under SphereScaleUniform when a sphere's axes are scaled differently.
	ErrNonUniformSphereScale = errors.New("extractor: sphere scale is not uniform")
)
