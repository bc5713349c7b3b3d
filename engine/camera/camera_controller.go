package camera

import (
	"math"
	"sync"
	"sync/atomic"
)

// cameraControllerImpl is the orbit implementation of CameraController.
// Position is always derived from target + spherical coordinates.
type cameraControllerImpl struct {
	mu *sync.Mutex

	position [3]float32
	target   [3]float32

	radius    float32
	azimuth   float32 // horizontal angle around Y, 0 = +Z
	elevation float32 // vertical angle from the horizontal plane

	minElevation float32
	maxElevation float32

	// orbitSpeed is applied by Advance, in radians of azimuth per second.
	orbitSpeed float32

	version atomic.Uint64
}

// CameraController owns the camera's positional state.
// The Camera reads Position and Target each frame to build its local-to-world matrix.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)

	// Target returns the look-at point.
	//
	// Returns:
	//   - x, y, z: world-space target position
	Target() (x, y, z float32)

	// SetTarget sets the look-at/pivot point and recomputes position from spherical coordinates.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetTarget(x, y, z float32)

	// Radius returns the current orbit radius (distance from target).
	Radius() float32

	// SetRadius sets the orbit radius. Non-positive values are ignored.
	//
	// Parameters:
	//   - radius: new distance from target
	SetRadius(radius float32)

	// Azimuth returns the horizontal orbit angle in radians.
	Azimuth() float32

	// SetAzimuth sets the horizontal orbit angle in radians.
	//
	// Parameters:
	//   - azimuth: the new angle
	SetAzimuth(azimuth float32)

	// Elevation returns the vertical orbit angle in radians.
	Elevation() float32

	// SetElevation sets the vertical orbit angle, clamped to the configured limits.
	//
	// Parameters:
	//   - elevation: the new angle in radians
	SetElevation(elevation float32)

	// Orbit rotates the camera around the target by the given deltas.
	//
	// Parameters:
	//   - deltaAzimuth: horizontal rotation in radians
	//   - deltaElevation: vertical rotation in radians, result clamped to limits
	Orbit(deltaAzimuth, deltaElevation float32)

	// Advance applies the configured orbit speed over deltaTime seconds.
	// A zero orbit speed leaves the controller (and its version) untouched.
	//
	// Parameters:
	//   - deltaTime: elapsed time in seconds
	Advance(deltaTime float32)

	// Version returns a counter that increases whenever the camera pose changes.
	Version() uint64
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewOrbitController creates an orbit controller looking at the origin from +Z.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewOrbitController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:           &sync.Mutex{},
		radius:       5.0,
		minElevation: float32(-math.Pi/2 + 0.01),
		maxElevation: float32(math.Pi/2 - 0.01),
	}
	for _, option := range options {
		option(cc)
	}
	cc.elevation = clampElevation(cc.elevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
	return cc
}

// updatePosition recomputes the camera position from spherical coordinates.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	cosElev := float32(math.Cos(float64(cc.elevation)))
	sinElev := float32(math.Sin(float64(cc.elevation)))
	cosAzim := float32(math.Cos(float64(cc.azimuth)))
	sinAzim := float32(math.Sin(float64(cc.azimuth)))

	cc.position[0] = cc.target[0] + cc.radius*cosElev*sinAzim
	cc.position[1] = cc.target[1] + cc.radius*sinElev
	cc.position[2] = cc.target[2] + cc.radius*cosElev*cosAzim
	cc.version.Add(1)
}

func clampElevation(e, lo, hi float32) float32 {
	return min(max(e, lo), hi)
}

func (cc *cameraControllerImpl) Position() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position[0], cc.position[1], cc.position[2]
}

func (cc *cameraControllerImpl) Target() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target[0], cc.target[1], cc.target[2]
}

func (cc *cameraControllerImpl) SetTarget(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = [3]float32{x, y, z}
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) SetRadius(radius float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if radius <= 0 {
		return
	}
	cc.radius = radius
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) SetAzimuth(azimuth float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth = azimuth
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}

func (cc *cameraControllerImpl) SetElevation(elevation float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.elevation = clampElevation(elevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Orbit(deltaAzimuth, deltaElevation float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth += deltaAzimuth
	cc.elevation = clampElevation(cc.elevation+deltaElevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Advance(deltaTime float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.orbitSpeed == 0 || deltaTime == 0 {
		return
	}
	cc.azimuth += cc.orbitSpeed * deltaTime
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Version() uint64 {
	return cc.version.Load()
}
