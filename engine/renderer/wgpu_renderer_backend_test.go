package renderer

import (
	"errors"
	"testing"

	"github.com/A-Imbert/Ray-Tracer/engine/renderer/shader"
)

func TestBuiltInKernelMeetsBindingContract(t *testing.T) {
	s := shader.NewRayTraceShader()
	if err := ValidateKernel(s); err != nil {
		t.Fatal(err)
	}
	out, _ := s.Binding(0, BindingOutput)
	if out.Layout.StorageTexture.Format != SurfaceFormat {
		t.Fatalf("output format = %v, want %v", out.Layout.StorageTexture.Format, SurfaceFormat)
	}
}

func TestKernelWithoutBlendIsRejected(t *testing.T) {
	s := shader.NewShader("partial", `
@group(0) @binding(0) var<uniform> frame: vec4<f32>;
@compute @workgroup_size(8, 8) fn trace() {}
`)
	_, err := NewWGPURendererBackend(WithShader(s))
	if !errors.Is(err, shader.ErrMissingEntryPoint) {
		t.Fatalf("err = %v, want ErrMissingEntryPoint", err)
	}
}

func TestKernelWithWrongBindingKindIsRejected(t *testing.T) {
	s := shader.NewShader("wrong", `
@group(0) @binding(0) var<storage, read> frame: array<f32>;
@compute @workgroup_size(8, 8) fn trace() {}
@compute @workgroup_size(8, 8) fn blend() {}
`)
	if err := ValidateKernel(s); !errors.Is(err, shader.ErrBindingMismatch) {
		t.Fatalf("err = %v, want ErrBindingMismatch", err)
	}
}

func TestDeviceSurfacesChecks(t *testing.T) {
	a := &wgpuSurface{label: "a", width: 2, height: 2}
	if _, _, err := deviceSurfaces(a); !errors.Is(err, ErrSurfaceReleased) {
		t.Fatalf("err = %v, want ErrSurfaceReleased", err)
	}
	if _, _, err := deviceSurfaces(NewSoftwareSurface("host", 2, 2)); !errors.Is(err, ErrForeignSurface) {
		t.Fatalf("err = %v, want ErrForeignSurface", err)
	}
}
