package model

import (
	"github.com/A-Imbert/Ray-Tracer/common"
	"github.com/go-gl/mathgl/mgl32"
)

// ModelBuilderOption is a function that configures a model instance during construction.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the model.
//
// Parameters:
//   - name: the identifier for the model
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithVertices sets the local-space vertex positions.
//
// Parameters:
//   - vertices: the vertex positions
//
// Returns:
//   - ModelBuilderOption: a function that applies the vertices option to a model
func WithVertices(vertices []mgl32.Vec3) ModelBuilderOption {
	return func(m *model) {
		m.vertices = vertices
	}
}

// WithNormals sets the local-space vertex normals.
//
// Parameters:
//   - normals: the vertex normals, one per vertex
//
// Returns:
//   - ModelBuilderOption: a function that applies the normals option to a model
func WithNormals(normals []mgl32.Vec3) ModelBuilderOption {
	return func(m *model) {
		m.normals = normals
	}
}

// WithIndices sets the flat triangle index list.
//
// Parameters:
//   - indices: triangle indices, three per triangle
//
// Returns:
//   - ModelBuilderOption: a function that applies the indices option to a model
func WithIndices(indices []uint32) ModelBuilderOption {
	return func(m *model) {
		m.indices = indices
	}
}

// WithBounds overrides the local-space bounding box instead of deriving it from the vertices.
//
// Parameters:
//   - bounds: the local bounds
//
// Returns:
//   - ModelBuilderOption: a function that applies the bounds option to a model
func WithBounds(bounds common.LocalBounds) ModelBuilderOption {
	return func(m *model) {
		m.bounds = &bounds
	}
}
