package camera

import (
	"sync"
	"sync/atomic"

	"github.com/A-Imbert/Ray-Tracer/common"
	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu *sync.Mutex

	up [3]float32

	fov    float32 // vertical, degrees
	aspect float32 // 0 = follow the output resolution
	near   float32

	controller CameraController
	version    atomic.Uint64
}

// Camera defines the interface for the ray tracing camera.
// The camera holds lens settings; its pose comes from the attached CameraController.
// The camera looks down its local -Z axis with +Y up.
type Camera interface {
	// Up returns the camera's up vector.
	//
	// Returns:
	//   - x, y, z: up vector components
	Up() (x, y, z float32)

	// Fov returns the vertical field of view in degrees.
	//
	// Returns:
	//   - float32: field of view in degrees
	Fov() float32

	// Aspect returns the fixed aspect ratio (width / height), or 0 when the
	// camera follows the output resolution.
	//
	// Returns:
	//   - float32: the aspect ratio or 0
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// SetUp sets the camera's up vector.
	//
	// Parameters:
	//   - x, y, z: up vector components
	SetUp(x, y, z float32)

	// SetFov sets the vertical field of view in degrees.
	//
	// Parameters:
	//   - fov: field of view in degrees
	SetFov(fov float32)

	// SetAspect fixes the aspect ratio. Pass 0 to follow the output resolution.
	//
	// Parameters:
	//   - aspect: width / height, or 0
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// Controller returns the attached controller.
	Controller() CameraController

	// SetController replaces the attached controller.
	//
	// Parameters:
	//   - ctrl: the new controller, must not be nil
	SetController(ctrl CameraController)

	// LocalToWorld returns the camera-to-world matrix built from the controller pose.
	//
	// Returns:
	//   - mgl32.Mat4: the local-to-world matrix
	LocalToWorld() mgl32.Mat4

	// Footprint returns the near-plane frustum footprint for an output of the given size.
	// The camera's fixed aspect is used when set, otherwise width / height.
	//
	// Parameters:
	//   - width, height: output resolution in pixels
	//
	// Returns:
	//   - common.FrustumFootprint: the footprint at the near plane
	Footprint(width, height int) common.FrustumFootprint

	// Version returns a counter that increases whenever lens settings or the pose change.
	//
	// Returns:
	//   - uint64: the combined camera and controller version
	Version() uint64
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new camera with the provided options.
// Defaults: 60 degree vertical FOV, aspect following the output, near plane 0.1 and an
// orbit controller 5 units from the origin.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:   &sync.Mutex{},
		up:   [3]float32{0, 1, 0},
		fov:  60.0,
		near: 0.1,
	}
	for _, option := range options {
		option(c)
	}
	if c.controller == nil {
		c.controller = NewOrbitController()
	}
	return c
}

func (c *cameraImpl) Up() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up[0], c.up[1], c.up[2]
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) SetUp(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.up = [3]float32{x, y, z}
	c.version.Add(1)
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.version.Add(1)
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.version.Add(1)
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.version.Add(1)
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	if ctrl == nil {
		panic("camera: controller must not be nil")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.controller != nil && c.controller != ctrl {
		c.version.Add(c.controller.Version())
	}
	c.controller = ctrl
	c.version.Add(1)
}

func (c *cameraImpl) LocalToWorld() mgl32.Mat4 {
	c.mu.Lock()
	ctrl, up := c.controller, c.up
	c.mu.Unlock()

	px, py, pz := ctrl.Position()
	tx, ty, tz := ctrl.Target()
	return common.LookAtLocalToWorld(mgl32.Vec3{px, py, pz}, mgl32.Vec3{tx, ty, tz}, mgl32.Vec3(up))
}

func (c *cameraImpl) Footprint(width, height int) common.FrustumFootprint {
	c.mu.Lock()
	defer c.mu.Unlock()
	aspect := c.aspect
	if aspect <= 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	return common.NewFrustumFootprint(c.fov, aspect, c.near)
}

func (c *cameraImpl) Version() uint64 {
	c.mu.Lock()
	ctrl := c.controller
	c.mu.Unlock()
	return c.version.Load() + ctrl.Version()
}
