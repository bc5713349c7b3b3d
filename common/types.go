// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// LocalBounds is an axis-aligned box in an object's local space, expressed as a center and half-size.
type LocalBounds struct {
	// Center is the midpoint of the box.
	Center mgl32.Vec3
	// Extents is the half-size of the box along each axis.
	Extents mgl32.Vec3
}

// Corners returns the 8 corners of the box (center ± extents on each axis).
//
// Returns:
//   - [8]mgl32.Vec3: the corners in local space
func (b LocalBounds) Corners() [8]mgl32.Vec3 {
	c, e := b.Center, b.Extents
	return [8]mgl32.Vec3{
		c.Add(mgl32.Vec3{-e[0], -e[1], -e[2]}),
		c.Add(mgl32.Vec3{+e[0], -e[1], -e[2]}),
		c.Add(mgl32.Vec3{-e[0], +e[1], -e[2]}),
		c.Add(mgl32.Vec3{+e[0], +e[1], -e[2]}),
		c.Add(mgl32.Vec3{-e[0], -e[1], +e[2]}),
		c.Add(mgl32.Vec3{+e[0], -e[1], +e[2]}),
		c.Add(mgl32.Vec3{-e[0], +e[1], +e[2]}),
		c.Add(mgl32.Vec3{+e[0], +e[1], +e[2]}),
	}
}

// AABB is an axis-aligned bounding box described by its min and max corners.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// EmptyAABB returns an inverted box that any Expand call will replace.
//
// Returns:
//   - AABB: a box with Min = +Inf and Max = -Inf
func EmptyAABB() AABB {
	inf := float32(math.Inf(1))
	return AABB{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// Expand grows the box to include p.
//
// Parameters:
//   - p: the point to include
func (b *AABB) Expand(p mgl32.Vec3) {
	for i := range 3 {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
}

// Contains reports whether p lies inside the box, allowing eps of slack on every face.
//
// Parameters:
//   - p: the point to test
//   - eps: tolerance applied on every axis
//
// Returns:
//   - bool: true if p is inside the expanded box
func (b AABB) Contains(p mgl32.Vec3, eps float32) bool {
	for i := range 3 {
		if p[i] < b.Min[i]-eps || p[i] > b.Max[i]+eps {
			return false
		}
	}
	return true
}

// BoundsFromPoints computes the local-space box enclosing every point.
//
// Parameters:
//   - points: the points to enclose
//
// Returns:
//   - LocalBounds: center/extents box, zero-valued if points is empty
func BoundsFromPoints(points []mgl32.Vec3) LocalBounds {
	if len(points) == 0 {
		return LocalBounds{}
	}
	box := EmptyAABB()
	for _, p := range points {
		box.Expand(p)
	}
	return LocalBounds{
		Center:  box.Min.Add(box.Max).Mul(0.5),
		Extents: box.Max.Sub(box.Min).Mul(0.5),
	}
}
