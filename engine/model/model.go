package model

import (
	"errors"
	"fmt"

	"github.com/A-Imbert/Ray-Tracer/common"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrIndexCount is returned when a mesh's index count is not a multiple of three.
	ErrIndexCount = errors.New("model: index count is not a multiple of 3")
	// ErrIndexRange is returned when an index references a vertex that does not exist.
	ErrIndexRange = errors.New("model: index out of range")
	// ErrNormalCount is returned when the normal array does not match the vertex array.
	ErrNormalCount = errors.New("model: normal count does not match vertex count")
)

// model is the implementation of the Model interface.
type model struct {
	name     string
	vertices []mgl32.Vec3
	normals  []mgl32.Vec3
	indices  []uint32
	bounds   *common.LocalBounds
}

// Model defines the interface for a local-space triangle mesh.
// A Model is shared between any number of objects; each object supplies its own transform.
// The arrays returned are read-only views and must not be mutated by callers.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Vertices retrieves the local-space vertex positions.
	//
	// Returns:
	//   - []mgl32.Vec3: the vertex positions
	Vertices() []mgl32.Vec3

	// Normals retrieves the local-space vertex normals, parallel to Vertices.
	//
	// Returns:
	//   - []mgl32.Vec3: the vertex normals
	Normals() []mgl32.Vec3

	// Indices retrieves the flat triangle index list, consumed in groups of three.
	//
	// Returns:
	//   - []uint32: the triangle indices
	Indices() []uint32

	// TriangleCount returns len(Indices()) / 3.
	//
	// Returns:
	//   - int: the number of triangles
	TriangleCount() int

	// Bounds retrieves the local-space bounding box. If none was supplied at construction
	// it is computed from the vertices.
	//
	// Returns:
	//   - common.LocalBounds: center and extents in local space
	Bounds() common.LocalBounds

	// Validate checks that the index list forms whole triangles over existing vertices
	// and that every vertex has a normal.
	//
	// Returns:
	//   - error: ErrIndexCount, ErrIndexRange or ErrNormalCount wrapped with details, or nil
	Validate() error
}

// Compile-time check that model implements Model
var _ Model = &model{}

// NewModel creates a new Model with the provided options.
//
// Parameters:
//   - options: functional options to configure the model
//
// Returns:
//   - Model: the newly created model
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}
	if m.bounds == nil {
		b := common.BoundsFromPoints(m.vertices)
		m.bounds = &b
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Vertices() []mgl32.Vec3 {
	return m.vertices
}

func (m *model) Normals() []mgl32.Vec3 {
	return m.normals
}

func (m *model) Indices() []uint32 {
	return m.indices
}

func (m *model) TriangleCount() int {
	return len(m.indices) / 3
}

func (m *model) Bounds() common.LocalBounds {
	return *m.bounds
}

func (m *model) Validate() error {
	if len(m.indices)%3 != 0 {
		return fmt.Errorf("%w: %q has %d indices", ErrIndexCount, m.name, len(m.indices))
	}
	if len(m.normals) != len(m.vertices) {
		return fmt.Errorf("%w: %q has %d normals for %d vertices", ErrNormalCount, m.name, len(m.normals), len(m.vertices))
	}
	for i, idx := range m.indices {
		if int(idx) >= len(m.vertices) {
			return fmt.Errorf("%w: %q index %d references vertex %d of %d", ErrIndexRange, m.name, i, idx, len(m.vertices))
		}
	}
	return nil
}
