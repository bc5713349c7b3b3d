package model

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/A-Imbert/Ray-Tracer/engine/renderer/material"
)

// GPUTriangle is the packed world-space triangle record consumed by the tracer.
// Fields are tightly packed vec3s (no std430 vec3 padding); the tracer reads the buffer as array<f32>.
// Size: 72 bytes.
type GPUTriangle struct {
	PosA    [3]float32 // offset  0: first vertex position (12 bytes)
	PosB    [3]float32 // offset 12: second vertex position (12 bytes)
	PosC    [3]float32 // offset 24: third vertex position (12 bytes)
	NormalA [3]float32 // offset 36: first vertex normal, not renormalized (12 bytes)
	NormalB [3]float32 // offset 48: second vertex normal (12 bytes)
	NormalC [3]float32 // offset 60: third vertex normal (12 bytes)
}

// Size returns the size of the GPUTriangle struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUTriangle) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUTriangle struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 72-byte buffer ready for GPU upload.
func (g *GPUTriangle) Marshal() []byte {
	buf := make([]byte, g.Size())
	g.MarshalTo(buf)
	return buf
}

// MarshalTo writes the packed triangle into buf, which must hold at least Size() bytes.
//
// Parameters:
//   - buf: destination slice
func (g *GPUTriangle) MarshalTo(buf []byte) {
	putVec3(buf[0:12], g.PosA)
	putVec3(buf[12:24], g.PosB)
	putVec3(buf[24:36], g.PosC)
	putVec3(buf[36:48], g.NormalA)
	putVec3(buf[48:60], g.NormalB)
	putVec3(buf[60:72], g.NormalC)
}

// Unmarshal reads a packed triangle from buf, which must hold at least Size() bytes.
//
// Parameters:
//   - buf: source slice
func (g *GPUTriangle) Unmarshal(buf []byte) {
	g.PosA = getVec3(buf[0:12])
	g.PosB = getVec3(buf[12:24])
	g.PosC = getVec3(buf[24:36])
	g.NormalA = getVec3(buf[36:48])
	g.NormalB = getVec3(buf[48:60])
	g.NormalC = getVec3(buf[60:72])
}

// GPUObjectInfo is the packed per-object record for mesh renderables.
// FirstTriIndex and NumTriangles select the object's contiguous range in the triangle buffer.
// Size: 68 bytes.
type GPUObjectInfo struct {
	FirstTriIndex uint32               // offset  0: index of the object's first triangle (4 bytes)
	NumTriangles  uint32               // offset  4: number of triangles owned by the object (4 bytes)
	Material      material.GPUMaterial // offset  8: surface material (36 bytes)
	BoundsMin     [3]float32           // offset 44: world-space AABB minimum (12 bytes)
	BoundsMax     [3]float32           // offset 56: world-space AABB maximum (12 bytes)
}

// Size returns the size of the GPUObjectInfo struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUObjectInfo) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUObjectInfo struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 68-byte buffer ready for GPU upload.
func (g *GPUObjectInfo) Marshal() []byte {
	buf := make([]byte, g.Size())
	g.MarshalTo(buf)
	return buf
}

// MarshalTo writes the packed record into buf, which must hold at least Size() bytes.
//
// Parameters:
//   - buf: destination slice
func (g *GPUObjectInfo) MarshalTo(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], g.FirstTriIndex)
	binary.LittleEndian.PutUint32(buf[4:8], g.NumTriangles)
	g.Material.MarshalTo(buf[8:44])
	putVec3(buf[44:56], g.BoundsMin)
	putVec3(buf[56:68], g.BoundsMax)
}

// Unmarshal reads a packed record from buf, which must hold at least Size() bytes.
//
// Parameters:
//   - buf: source slice
func (g *GPUObjectInfo) Unmarshal(buf []byte) {
	g.FirstTriIndex = binary.LittleEndian.Uint32(buf[0:4])
	g.NumTriangles = binary.LittleEndian.Uint32(buf[4:8])
	g.Material.Unmarshal(buf[8:44])
	g.BoundsMin = getVec3(buf[44:56])
	g.BoundsMax = getVec3(buf[56:68])
}

// GPUSphere is the packed analytic sphere record.
// Size: 52 bytes.
type GPUSphere struct {
	Position [3]float32           // offset  0: world-space center (12 bytes)
	Radius   float32              // offset 12: world-space radius (4 bytes)
	Material material.GPUMaterial // offset 16: surface material (36 bytes)
}

// Size returns the size of the GPUSphere struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUSphere) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUSphere struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 52-byte buffer ready for GPU upload.
func (g *GPUSphere) Marshal() []byte {
	buf := make([]byte, g.Size())
	g.MarshalTo(buf)
	return buf
}

// MarshalTo writes the packed record into buf, which must hold at least Size() bytes.
//
// Parameters:
//   - buf: destination slice
func (g *GPUSphere) MarshalTo(buf []byte) {
	putVec3(buf[0:12], g.Position)
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.Radius))
	g.Material.MarshalTo(buf[16:52])
}

// Unmarshal reads a packed record from buf, which must hold at least Size() bytes.
//
// Parameters:
//   - buf: source slice
func (g *GPUSphere) Unmarshal(buf []byte) {
	g.Position = getVec3(buf[0:12])
	g.Radius = math.Float32frombits(binary.LittleEndian.Uint32(buf[12:16]))
	g.Material.Unmarshal(buf[16:52])
}

// record is satisfied by every packed GPU record in this package.
type record interface {
	Size() int
	MarshalTo(buf []byte)
}

// MarshalSlice packs records back to back into a single buffer. The stride is the record's Size().
//
// Parameters:
//   - records: the records to pack
//
// Returns:
//   - []byte: len(records) * stride bytes
func MarshalSlice[T any, P interface {
	*T
	record
}](records []T) []byte {
	var zero T
	stride := P(&zero).Size()
	buf := make([]byte, stride*len(records))
	for i := range records {
		P(&records[i]).MarshalTo(buf[i*stride : (i+1)*stride])
	}
	return buf
}

func putVec3(buf []byte, v [3]float32) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v[2]))
}

func getVec3(buf []byte) [3]float32 {
	return [3]float32{
		math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4])),
		math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8])),
		math.Float32frombits(binary.LittleEndian.Uint32(buf[8:12])),
	}
}
