package renderer

import (
	"github.com/A-Imbert/Ray-Tracer/engine/camera"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/compiler"
)

// FrameParams is the immutable per-frame parameter set handed to a backend.
// A new value is built for every frame; WithAccumulatedFrames returns a modified copy.
type FrameParams struct {
	camera     camera.GPUCameraUniform
	settings   Settings
	frameIndex uint32
	width      int
	height     int

	numObjects   int
	numTriangles int
	numSpheres   int

	accumulatedFrames int
}

// NewFrameParams captures the camera pose and footprint, the trace settings and the
// compiled scene counts for one frame.
//
// Parameters:
//   - cam: the scene camera
//   - settings: ray tracing settings, sanitized on capture
//   - frameIndex: the monotonically increasing frame number used to seed sampling
//   - width, height: output resolution in pixels
//   - bindings: the compiled scene
//
// Returns:
//   - FrameParams: the captured parameters
func NewFrameParams(cam camera.Camera, settings Settings, frameIndex uint32, width, height int, bindings compiler.SceneBindings) FrameParams {
	return FrameParams{
		camera:       camera.NewGPUCameraUniform(cam.LocalToWorld(), cam.Footprint(width, height)),
		settings:     settings.Sanitized(),
		frameIndex:   frameIndex,
		width:        width,
		height:       height,
		numObjects:   bindings.ObjectCount,
		numTriangles: bindings.TriangleCount,
		numSpheres:   bindings.SphereCount,
	}
}

// WithAccumulatedFrames returns a copy with the accumulated frame count set.
//
// Parameters:
//   - n: number of samples already folded into the history
//
// Returns:
//   - FrameParams: the modified copy
func (p FrameParams) WithAccumulatedFrames(n int) FrameParams {
	p.accumulatedFrames = n
	return p
}

// Camera returns the packed camera transform and near-plane footprint.
func (p FrameParams) Camera() camera.GPUCameraUniform { return p.camera }

// Settings returns the sanitized trace settings.
func (p FrameParams) Settings() Settings { return p.settings }

// FrameIndex returns the frame number.
func (p FrameParams) FrameIndex() uint32 { return p.frameIndex }

// Width returns the output width in pixels.
func (p FrameParams) Width() int { return p.width }

// Height returns the output height in pixels.
func (p FrameParams) Height() int { return p.height }

// Counts returns the number of mesh objects, triangles and spheres in the compiled scene.
func (p FrameParams) Counts() (objects, triangles, spheres int) {
	return p.numObjects, p.numTriangles, p.numSpheres
}

// AccumulatedFrames returns the number of samples already in the history.
func (p FrameParams) AccumulatedFrames() int { return p.accumulatedFrames }

// GPU packs the parameters into the frame uniform layout read by the kernels.
//
// Returns:
//   - GPUFrameUniform: the packed uniform
func (p FrameParams) GPU() GPUFrameUniform {
	return GPUFrameUniform{
		LocalToWorld:      p.camera.LocalToWorld,
		Plane:             p.camera.PlaneParams,
		FrameIndex:        p.frameIndex,
		Resolution:        [2]uint32{uint32(p.width), uint32(p.height)},
		MaxBounceCount:    uint32(p.settings.MaxBounceCount),
		RaysPerPixel:      uint32(p.settings.RaysPerPixel),
		DivergeStrength:   p.settings.DivergeStrength,
		NumObjects:        uint32(p.numObjects),
		NumTriangles:      uint32(p.numTriangles),
		NumSpheres:        uint32(p.numSpheres),
		AccumulatedFrames: uint32(p.accumulatedFrames),
	}
}
