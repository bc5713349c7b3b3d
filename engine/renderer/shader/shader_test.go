package shader

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestRayTraceShaderLayout(t *testing.T) {
	s := NewRayTraceShader()

	if got := s.EntryPoints(); len(got) != 2 || got[0] != EntryBlend || got[1] != EntryTrace {
		t.Fatalf("entry points = %v, want [blend trace]", got)
	}
	if size, ok := s.WorkgroupSize(EntryTrace); !ok || size != [3]uint32{8, 8, 1} {
		t.Fatalf("trace workgroup = %v ok=%v, want [8 8 1]", size, ok)
	}

	err := s.Require([]string{EntryTrace, EntryBlend}, map[int]BindingKind{
		0: BindingUniform,
		1: BindingReadOnlyStorage,
		2: BindingReadOnlyStorage,
		3: BindingReadOnlyStorage,
		4: BindingStorageTexture,
		5: BindingTexture,
		6: BindingTexture,
	})
	if err != nil {
		t.Fatal(err)
	}

	out, _ := s.Binding(0, 4)
	if out.Layout.StorageTexture.Format != wgpu.TextureFormatRGBA32Float || out.Layout.StorageTexture.Access != wgpu.StorageTextureAccessWriteOnly {
		t.Fatalf("output binding = %+v", out.Layout.StorageTexture)
	}
	hist, _ := s.Binding(0, 6)
	if hist.Layout.Texture.SampleType != wgpu.TextureSampleTypeUnfilterableFloat {
		t.Fatalf("history sample type = %v, want unfilterable float", hist.Layout.Texture.SampleType)
	}
	if desc := s.BindGroupLayoutDescriptor(0); len(desc.Entries) != 7 || desc.Entries[6].Binding != 6 {
		t.Fatalf("layout entries = %d", len(desc.Entries))
	}
}

func TestParseIgnoresComments(t *testing.T) {
	src := `
// @group(0) @binding(9) var<uniform> ghost: f32;
/* @compute @workgroup_size(4) fn hidden() {} /* nested */ */
@group(0) @binding(0) var<storage, read_write> data: array<u32>;
@compute @workgroup_size(64)
fn main() {}
`
	s := NewShader("test", src)
	if _, ok := s.Binding(0, 9); ok {
		t.Fatal("commented-out binding should be ignored")
	}
	if _, ok := s.WorkgroupSize("hidden"); ok {
		t.Fatal("commented-out entry point should be ignored")
	}
	if size, _ := s.WorkgroupSize("main"); size != [3]uint32{64, 1, 1} {
		t.Fatalf("main workgroup = %v, want [64 1 1]", size)
	}
	if b, _ := s.Binding(0, 0); b.Kind != BindingStorage || b.Name != "data" {
		t.Fatalf("binding 0 = %+v", b)
	}
}

func TestRequireReportsMismatch(t *testing.T) {
	s := NewShader("test", `@group(0) @binding(0) var<uniform> u: f32; @compute fn main() {}`)

	tests := []struct {
		name    string
		entries []string
		kinds   map[int]BindingKind
		want    error
	}{
		{"ok", []string{"main"}, map[int]BindingKind{0: BindingUniform}, nil},
		{"missing entry", []string{"trace"}, nil, ErrMissingEntryPoint},
		{"wrong kind", nil, map[int]BindingKind{0: BindingReadOnlyStorage}, ErrBindingMismatch},
		{"missing binding", nil, map[int]BindingKind{1: BindingTexture}, ErrBindingMismatch},
	}
	for _, tt := range tests {
		if err := s.Require(tt.entries, tt.kinds); !errors.Is(err, tt.want) {
			t.Fatalf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}
}
