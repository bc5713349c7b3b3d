package game_object

import (
	"github.com/A-Imbert/Ray-Tracer/engine/model"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithEnabled sets whether the GameObject is included when the scene is compiled.
//
// Parameters:
//   - enabled: true to include the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithModel sets the Model for this GameObject and marks it as a mesh renderable.
//
// Parameters:
//   - m: the Model to associate
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Model
func WithModel(m model.Model) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.mdl = m
		obj.shape = ShapeMesh
	}
}

// WithSphere marks the GameObject as an analytic sphere with the given local radius.
//
// Parameters:
//   - radius: the local-space radius
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the sphere shape
func WithSphere(radius float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.radius = radius
		obj.shape = ShapeSphere
	}
}

// WithMaterial sets the surface material of the GameObject.
//
// Parameters:
//   - m: the material, clamped to valid ranges
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the material
func WithMaterial(m material.Material) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.mat = m.Clamped()
	}
}

// WithPosition sets the world position of the GameObject.
//
// Parameters:
//   - x: the x position
//   - y: the y position
//   - z: the z position
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the position
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = mgl32.Vec3{x, y, z}
	}
}

// WithScale sets the per-axis scale of the GameObject.
//
// Parameters:
//   - sx: the x scale factor
//   - sy: the y scale factor
//   - sz: the z scale factor
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the scale
func WithScale(sx, sy, sz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.scale = mgl32.Vec3{sx, sy, sz}
	}
}

// WithRotation sets the Euler rotation of the GameObject in radians.
//
// Parameters:
//   - rx: the x rotation angle
//   - ry: the y rotation angle
//   - rz: the z rotation angle
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation
func WithRotation(rx, ry, rz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotation = mgl32.Vec3{rx, ry, rz}
	}
}

// WithRotationSpeed sets the angular velocity applied on each Advance call.
//
// Parameters:
//   - rx: the x rotation speed
//   - ry: the y rotation speed
//   - rz: the z rotation speed
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation speed
func WithRotationSpeed(rx, ry, rz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotationSpeed = mgl32.Vec3{rx, ry, rz}
	}
}
