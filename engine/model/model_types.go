package model

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// NewQuad creates a unit quad in the XZ plane centered at the origin, facing +Y.
// It contains 2 triangles.
//
// Returns:
//   - Model: the quad model
func NewQuad() Model {
	return NewModel(
		WithName("quad"),
		WithVertices([]mgl32.Vec3{
			{-0.5, 0, -0.5}, {0.5, 0, -0.5}, {0.5, 0, 0.5}, {-0.5, 0, 0.5},
		}),
		WithNormals([]mgl32.Vec3{
			{0, 1, 0}, {0, 1, 0}, {0, 1, 0}, {0, 1, 0},
		}),
		WithIndices([]uint32{0, 2, 1, 0, 3, 2}),
	)
}

// NewCube creates a unit cube centered at the origin with flat per-face normals.
// It contains 12 triangles.
//
// Returns:
//   - Model: the cube model
func NewCube() Model {
	faces := []struct {
		normal, u, v mgl32.Vec3
	}{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	}

	vertices := make([]mgl32.Vec3, 0, 24)
	normals := make([]mgl32.Vec3, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		base := uint32(len(vertices))
		c := f.normal.Mul(0.5)
		u, v := f.u.Mul(0.5), f.v.Mul(0.5)
		vertices = append(vertices,
			c.Sub(u).Sub(v),
			c.Add(u).Sub(v),
			c.Add(u).Add(v),
			c.Sub(u).Add(v),
		)
		normals = append(normals, f.normal, f.normal, f.normal, f.normal)
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	return NewModel(
		WithName("cube"),
		WithVertices(vertices),
		WithNormals(normals),
		WithIndices(indices),
	)
}

// NewUVSphere creates a triangulated unit-diameter sphere with smooth normals.
// It contains 2*segments*(rings-1) triangles.
//
// Parameters:
//   - segments: longitudinal subdivisions (minimum 3)
//   - rings: latitudinal subdivisions (minimum 2)
//
// Returns:
//   - Model: the sphere model
func NewUVSphere(segments, rings int) Model {
	segments = max(segments, 3)
	rings = max(rings, 2)

	vertices := make([]mgl32.Vec3, 0, (segments+1)*(rings+1))
	normals := make([]mgl32.Vec3, 0, cap(vertices))
	for r := 0; r <= rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		for s := 0; s <= segments; s++ {
			theta := 2 * math.Pi * float64(s) / float64(segments)
			n := mgl32.Vec3{
				float32(math.Sin(phi) * math.Cos(theta)),
				float32(math.Cos(phi)),
				float32(math.Sin(phi) * math.Sin(theta)),
			}
			vertices = append(vertices, n.Mul(0.5))
			normals = append(normals, n)
		}
	}

	indices := make([]uint32, 0, 6*segments*(rings-1))
	stride := uint32(segments + 1)
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a := uint32(r)*stride + uint32(s)
			b := a + stride
			if r != 0 {
				indices = append(indices, a, a+1, b)
			}
			if r != rings-1 {
				indices = append(indices, a+1, b+1, b)
			}
		}
	}

	return NewModel(
		WithName("uv_sphere"),
		WithVertices(vertices),
		WithNormals(normals),
		WithIndices(indices),
	)
}
