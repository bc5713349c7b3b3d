package material

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUMaterial is the packed GPU representation of a Material, embedded in every object and sphere record.
// All fields are 4-byte aligned and tightly packed; the tracer reads it as 9 consecutive f32 values.
// Size: 36 bytes.
type GPUMaterial struct {
	Colour           [4]float32 // offset  0: base RGBA colour (16 bytes)
	EmissionColour   [3]float32 // offset 16: emitted RGB colour (12 bytes)
	EmissionStrength float32    // offset 28: emission multiplier (4 bytes)
	Smoothness       float32    // offset 32: diffuse/specular blend (4 bytes)
}

// Size returns the size of the GPUMaterial struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUMaterial) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterial struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 36-byte buffer ready for GPU upload.
func (g *GPUMaterial) Marshal() []byte {
	buf := make([]byte, g.Size())
	g.MarshalTo(buf)
	return buf
}

// MarshalTo writes the packed material into buf, which must hold at least Size() bytes.
//
// Parameters:
//   - buf: destination slice
func (g *GPUMaterial) MarshalTo(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Colour[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Colour[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Colour[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.Colour[3]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.EmissionColour[0]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.EmissionColour[1]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.EmissionColour[2]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.EmissionStrength))
	binary.LittleEndian.PutUint32(buf[32:36], math.Float32bits(g.Smoothness))
}

// Unmarshal reads a packed material from buf, which must hold at least Size() bytes.
//
// Parameters:
//   - buf: source slice
func (g *GPUMaterial) Unmarshal(buf []byte) {
	f := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[off : off+4])) }
	g.Colour = [4]float32{f(0), f(4), f(8), f(12)}
	g.EmissionColour = [3]float32{f(16), f(20), f(24)}
	g.EmissionStrength = f(28)
	g.Smoothness = f(32)
}
