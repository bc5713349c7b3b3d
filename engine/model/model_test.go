package model

import (
	"errors"
	"testing"

	"github.com/A-Imbert/Ray-Tracer/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

func TestPrimitiveTriangleCounts(t *testing.T) {
	tests := []struct {
		name string
		m    Model
		want int
	}{
		{"quad", NewQuad(), 2},
		{"cube", NewCube(), 12},
		{"sphere 8x4", NewUVSphere(8, 4), 2 * 8 * 3},
		{"sphere clamped", NewUVSphere(1, 1), 2 * 3 * 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.TriangleCount(); got != tt.want {
				t.Fatalf("TriangleCount = %d, want %d", got, tt.want)
			}
			if err := tt.m.Validate(); err != nil {
				t.Fatalf("Validate: %v", err)
			}
		})
	}
}

func TestCubeBounds(t *testing.T) {
	b := NewCube().Bounds()
	if !b.Center.ApproxEqualThreshold(mgl32.Vec3{}, 1e-6) {
		t.Fatalf("center = %v, want origin", b.Center)
	}
	if !b.Extents.ApproxEqualThreshold(mgl32.Vec3{0.5, 0.5, 0.5}, 1e-6) {
		t.Fatalf("extents = %v, want 0.5", b.Extents)
	}
}

func TestValidate(t *testing.T) {
	verts := []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	norms := []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}}
	tests := []struct {
		name string
		m    Model
		want error
	}{
		{"valid", NewModel(WithVertices(verts), WithNormals(norms), WithIndices([]uint32{0, 1, 2})), nil},
		{"partial triangle", NewModel(WithVertices(verts), WithNormals(norms), WithIndices([]uint32{0, 1})), ErrIndexCount},
		{"out of range", NewModel(WithVertices(verts), WithNormals(norms), WithIndices([]uint32{0, 1, 3})), ErrIndexRange},
		{"missing normals", NewModel(WithVertices(verts), WithIndices([]uint32{0, 1, 2})), ErrNormalCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate()
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRecordSizes(t *testing.T) {
	var tri GPUTriangle
	var obj GPUObjectInfo
	var sph GPUSphere
	tests := []struct {
		name string
		size int
		enc  []byte
		want int
	}{
		{"triangle", tri.Size(), tri.Marshal(), 72},
		{"object", obj.Size(), obj.Marshal(), 68},
		{"sphere", sph.Size(), sph.Marshal(), 52},
	}
	for _, tt := range tests {
		if tt.size != tt.want || len(tt.enc) != tt.want {
			t.Fatalf("%s: Size()=%d len(Marshal())=%d, want %d", tt.name, tt.size, len(tt.enc), tt.want)
		}
	}
}

func TestObjectInfoFieldOffsets(t *testing.T) {
	info := GPUObjectInfo{
		FirstTriIndex: 7,
		NumTriangles:  3,
		Material:      material.NewMaterial(material.WithSmoothness(0.25)).GPU(),
		BoundsMin:     [3]float32{-1, -2, -3},
		BoundsMax:     [3]float32{4, 5, 6},
	}
	buf := info.Marshal()
	if buf[0] != 7 || buf[4] != 3 {
		t.Fatalf("unexpected header bytes %v", buf[:8])
	}

	var got GPUObjectInfo
	got.Unmarshal(buf)
	if got != info {
		t.Fatalf("decoded %+v, want %+v", got, info)
	}
}

func TestMarshalSlice(t *testing.T) {
	spheres := []GPUSphere{
		{Position: [3]float32{1, 2, 3}, Radius: 0.5},
		{Position: [3]float32{4, 5, 6}, Radius: 2},
	}
	buf := MarshalSlice(spheres)
	if len(buf) != 2*52 {
		t.Fatalf("len = %d, want %d", len(buf), 2*52)
	}
	var second GPUSphere
	second.Unmarshal(buf[52:])
	if second != spheres[1] {
		t.Fatalf("second record = %+v, want %+v", second, spheres[1])
	}
	if MarshalSlice([]GPUTriangle(nil)) == nil {
		// empty input still yields a non-nil, zero-length slice
		t.Fatal("expected empty slice, got nil")
	}
}
