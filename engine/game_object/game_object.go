package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/A-Imbert/Ray-Tracer/common"
	"github.com/A-Imbert/Ray-Tracer/engine/model"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// Shape selects how an object is represented in the compiled scene.
type Shape int

const (
	// ShapeMesh objects contribute triangles from their Model and one object record.
	ShapeMesh Shape = iota
	// ShapeSphere objects contribute one analytic sphere record built from Radius.
	ShapeSphere
)

func (s Shape) String() string {
	switch s {
	case ShapeMesh:
		return "mesh"
	case ShapeSphere:
		return "sphere"
	default:
		return "unknown"
	}
}

type gameObject struct {
	mu *sync.Mutex

	id      uint64
	enabled atomic.Bool
	version atomic.Uint64

	shape  Shape
	mdl    model.Model
	radius float32
	mat    material.Material

	position      mgl32.Vec3
	rotation      mgl32.Vec3
	rotationSpeed mgl32.Vec3
	scale         mgl32.Vec3
}

// GameObject defines the interface for a ray traced scene entity.
// Every mutation that affects the compiled scene bumps Version, which the scene
// registry aggregates to detect when geometry must be recompiled.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// Enabled returns whether this object is included when the scene is compiled.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether the object is included when the scene is compiled.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Version returns a counter that increases on every mutation of the object.
	//
	// Returns:
	//   - uint64: the current version
	Version() uint64

	// Shape returns how the object is represented in the compiled scene.
	Shape() Shape

	// Model returns the Model associated with this object, or nil if not set.
	// A ShapeMesh object without a Model is a configuration error surfaced at compile time.
	//
	// Returns:
	//   - model.Model: the associated model or nil
	Model() model.Model

	// SetModel assigns a Model to this object and switches it to ShapeMesh.
	//
	// Parameters:
	//   - m: the Model to associate
	SetModel(m model.Model)

	// Radius returns the local-space sphere radius for ShapeSphere objects.
	Radius() float32

	// SetSphere switches the object to ShapeSphere with the given local radius.
	//
	// Parameters:
	//   - radius: the local-space radius
	SetSphere(radius float32)

	// Material returns a copy of the object's material.
	Material() material.Material

	// SetMaterial replaces the object's material.
	//
	// Parameters:
	//   - m: the new material
	SetMaterial(m material.Material)

	// Position returns the object's world position.
	//
	// Returns:
	//   - x, y, z: position components
	Position() (x, y, z float32)

	// SetPosition sets the object's world position.
	//
	// Parameters:
	//   - x, y, z: new position components
	SetPosition(x, y, z float32)

	// Rotation returns the object's Euler rotation in radians.
	//
	// Returns:
	//   - rx, ry, rz: rotation angles
	Rotation() (rx, ry, rz float32)

	// SetRotation sets the object's Euler rotation in radians.
	//
	// Parameters:
	//   - rx, ry, rz: new rotation angles
	SetRotation(rx, ry, rz float32)

	// RotationSpeed returns the angular velocity applied by Advance, in radians per second.
	//
	// Returns:
	//   - rx, ry, rz: rotation speed values
	RotationSpeed() (rx, ry, rz float32)

	// SetRotationSpeed sets the angular velocity applied by Advance.
	//
	// Parameters:
	//   - rx, ry, rz: new rotation speed values
	SetRotationSpeed(rx, ry, rz float32)

	// Scale returns the object's per-axis scale.
	//
	// Returns:
	//   - sx, sy, sz: scale components
	Scale() (sx, sy, sz float32)

	// SetScale sets the object's per-axis scale.
	//
	// Parameters:
	//   - sx, sy, sz: new scale factors
	SetScale(sx, sy, sz float32)

	// Advance integrates the rotation speed over deltaTime seconds.
	// Objects with zero rotation speed are left untouched and keep their version.
	//
	// Parameters:
	//   - deltaTime: elapsed time in seconds
	Advance(deltaTime float32)

	// LocalToWorld returns the object's transform as T * Ry * Rx * Rz * S.
	//
	// Returns:
	//   - mgl32.Mat4: the local-to-world matrix
	LocalToWorld() mgl32.Mat4
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options.
// Objects default to enabled, unit scale and a white diffuse material.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		mu:    &sync.Mutex{},
		scale: mgl32.Vec3{1, 1, 1},
		mat:   material.NewMaterial(),
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	if g.enabled.Swap(enabled) != enabled {
		g.version.Add(1)
	}
}

func (g *gameObject) Version() uint64 {
	return g.version.Load()
}

func (g *gameObject) Shape() Shape {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.shape
}

func (g *gameObject) Model() model.Model {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mdl
}

func (g *gameObject) SetModel(m model.Model) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mdl = m
	g.shape = ShapeMesh
	g.version.Add(1)
}

func (g *gameObject) Radius() float32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.radius
}

func (g *gameObject) SetSphere(radius float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.radius = radius
	g.shape = ShapeSphere
	g.version.Add(1)
}

func (g *gameObject) Material() material.Material {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mat
}

func (g *gameObject) SetMaterial(m material.Material) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mat = m.Clamped()
	g.version.Add(1)
}

func (g *gameObject) Position() (x, y, z float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.position.Elem()
}

func (g *gameObject) SetPosition(x, y, z float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = mgl32.Vec3{x, y, z}
	g.version.Add(1)
}

func (g *gameObject) Rotation() (rx, ry, rz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rotation.Elem()
}

func (g *gameObject) SetRotation(rx, ry, rz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotation = mgl32.Vec3{rx, ry, rz}
	g.version.Add(1)
}

func (g *gameObject) RotationSpeed() (rx, ry, rz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rotationSpeed.Elem()
}

func (g *gameObject) SetRotationSpeed(rx, ry, rz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotationSpeed = mgl32.Vec3{rx, ry, rz}
}

func (g *gameObject) Scale() (sx, sy, sz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scale.Elem()
}

func (g *gameObject) SetScale(sx, sy, sz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scale = mgl32.Vec3{sx, sy, sz}
	g.version.Add(1)
}

func (g *gameObject) Advance(deltaTime float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.rotationSpeed == (mgl32.Vec3{}) || deltaTime == 0 {
		return
	}
	g.rotation = g.rotation.Add(g.rotationSpeed.Mul(deltaTime))
	g.version.Add(1)
}

func (g *gameObject) LocalToWorld() mgl32.Mat4 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return common.BuildModelMatrix(g.position, g.rotation, g.scale)
}
