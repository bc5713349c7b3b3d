package renderer

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUFrameUniform is the per-frame uniform block shared by the trace and blend kernels.
// Size: 128 bytes (WGSL uniform aligned).
type GPUFrameUniform struct {
	LocalToWorld      [16]float32 // offset   0: camera-to-world matrix, column-major (mat4x4<f32>)
	Plane             [3]float32  // offset  64: near-plane width, height, distance (vec3<f32>)
	FrameIndex        uint32      // offset  76: frame number for RNG seeding
	Resolution        [2]uint32   // offset  80: output width, height (vec2<u32>)
	MaxBounceCount    uint32      // offset  88
	RaysPerPixel      uint32      // offset  92
	DivergeStrength   float32     // offset  96
	NumObjects        uint32      // offset 100
	NumTriangles      uint32      // offset 104
	NumSpheres        uint32      // offset 108
	AccumulatedFrames uint32      // offset 112: samples already in the history
	_pad              [3]uint32   // offset 116: padding to 128 bytes
}

// Size returns the size of the GPUFrameUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (128)
func (g *GPUFrameUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUFrameUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUFrameUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	g.MarshalTo(buf)
	return buf
}

// MarshalTo writes the packed uniform into buf, which must hold at least Size() bytes.
//
// Parameters:
//   - buf: destination slice
func (g *GPUFrameUniform) MarshalTo(buf []byte) {
	le := binary.LittleEndian
	for i := range 16 {
		le.PutUint32(buf[i*4:], math.Float32bits(g.LocalToWorld[i]))
	}
	for i := range 3 {
		le.PutUint32(buf[64+i*4:], math.Float32bits(g.Plane[i]))
	}
	le.PutUint32(buf[76:], g.FrameIndex)
	le.PutUint32(buf[80:], g.Resolution[0])
	le.PutUint32(buf[84:], g.Resolution[1])
	le.PutUint32(buf[88:], g.MaxBounceCount)
	le.PutUint32(buf[92:], g.RaysPerPixel)
	le.PutUint32(buf[96:], math.Float32bits(g.DivergeStrength))
	le.PutUint32(buf[100:], g.NumObjects)
	le.PutUint32(buf[104:], g.NumTriangles)
	le.PutUint32(buf[108:], g.NumSpheres)
	le.PutUint32(buf[112:], g.AccumulatedFrames)
	for i := range 3 {
		le.PutUint32(buf[116+i*4:], 0) // _pad
	}
}
