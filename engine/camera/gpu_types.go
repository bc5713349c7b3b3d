package camera

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/A-Imbert/Ray-Tracer/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUCameraUniform is the GPU-aligned camera block consumed by the trace pass.
// Size: 80 bytes (std140 / WGSL uniform aligned).
type GPUCameraUniform struct {
	LocalToWorld [16]float32 // offset  0: camera-to-world matrix, column-major (mat4x4<f32>)
	PlaneParams  [3]float32  // offset 64: near-plane footprint width, height, near distance (vec3<f32>)
	_pad         float32     // offset 76: padding to 80 bytes
}

// NewGPUCameraUniform packs a camera transform and footprint.
//
// Parameters:
//   - localToWorld: the camera-to-world matrix
//   - footprint: the near-plane footprint
//
// Returns:
//   - GPUCameraUniform: the packed uniform
func NewGPUCameraUniform(localToWorld mgl32.Mat4, footprint common.FrustumFootprint) GPUCameraUniform {
	return GPUCameraUniform{
		LocalToWorld: localToWorld,
		PlaneParams:  [3]float32{footprint.Width, footprint.Height, footprint.Near},
	}
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	g.MarshalTo(buf)
	return buf
}

// MarshalTo writes the packed uniform into buf, which must hold at least Size() bytes.
//
// Parameters:
//   - buf: destination slice
func (g *GPUCameraUniform) MarshalTo(buf []byte) {
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.LocalToWorld[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.PlaneParams[i]))
	}
	binary.LittleEndian.PutUint32(buf[76:], 0) // _pad
}
