package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// BuildModelMatrix constructs a local-to-world matrix from position, Euler rotation, and scale.
// The rotation order is Y * X * Z (yaw-pitch-roll) and the result is T * R * S, column-major.
//
// Parameters:
//   - pos: translation in world space
//   - rot: rotation angles in radians around each axis
//   - scale: scale factors along each axis
//
// Returns:
//   - mgl32.Mat4: the composed local-to-world matrix
func BuildModelMatrix(pos, rot, scale mgl32.Vec3) mgl32.Mat4 {
	r := mgl32.HomogRotate3DY(rot.Y()).
		Mul4(mgl32.HomogRotate3DX(rot.X())).
		Mul4(mgl32.HomogRotate3DZ(rot.Z()))
	return mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).
		Mul4(r).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// TransformPoint applies the full affine transform m to point p.
//
// Parameters:
//   - m: the affine transform
//   - p: the point to transform
//
// Returns:
//   - mgl32.Vec3: the transformed point
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// TransformDirection applies only the linear part of m to direction d.
// The result is not renormalized.
//
// Parameters:
//   - m: the affine transform
//   - d: the direction to transform
//
// Returns:
//   - mgl32.Vec3: the transformed direction
func TransformDirection(m mgl32.Mat4, d mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(d.Vec4(0)).Vec3()
}

// AxisScale returns the length of each basis column of m, i.e. the absolute
// scale applied along the local X, Y and Z axes.
//
// Parameters:
//   - m: the affine transform
//
// Returns:
//   - mgl32.Vec3: per-axis scale magnitudes
func AxisScale(m mgl32.Mat4) mgl32.Vec3 {
	return mgl32.Vec3{
		m.Col(0).Vec3().Len(),
		m.Col(1).Vec3().Len(),
		m.Col(2).Vec3().Len(),
	}
}

// LookAtLocalToWorld builds the camera-to-world matrix for a camera at eye looking at center.
// The camera looks down its local -Z axis with +Y up, matching mgl32.LookAtV.
//
// Parameters:
//   - eye: camera position in world space
//   - center: target point the camera looks at
//   - up: up vector (typically 0,1,0)
//
// Returns:
//   - mgl32.Mat4: the local-to-world matrix, or identity if the view is degenerate
func LookAtLocalToWorld(eye, center, up mgl32.Vec3) mgl32.Mat4 {
	view := mgl32.LookAtV(eye, center, up)
	if math.Abs(float64(view.Det())) < 1e-12 {
		return mgl32.Ident4()
	}
	return view.Inv()
}
