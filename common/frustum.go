package common

import (
	"github.com/chewxy/math32"
)

// FrustumFootprint is the rectangular extent of the camera's view at the near clip plane.
// The tracer maps each pixel onto this rectangle to build primary ray directions.
type FrustumFootprint struct {
	Width  float32
	Height float32
	Near   float32
}

// NewFrustumFootprint computes the near-plane footprint for a perspective camera.
// Height = 2 * near * tan(fov/2) and Width = aspect * Height.
//
// Parameters:
//   - fovDegrees: vertical field of view in degrees
//   - aspect: width / height of the output
//   - near: near clip plane distance
//
// Returns:
//   - FrustumFootprint: the footprint at the near plane
func NewFrustumFootprint(fovDegrees, aspect, near float32) FrustumFootprint {
	h := 2 * near * math32.Tan(fovDegrees*math32.Pi/180/2)
	return FrustumFootprint{
		Width:  aspect * h,
		Height: h,
		Near:   near,
	}
}
