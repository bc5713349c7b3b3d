package pipeline

import (
	"testing"

	"github.com/A-Imbert/Ray-Tracer/engine/renderer/shader"
)

func TestWorkgroupCount(t *testing.T) {
	p := NewComputePipeline("trace", shader.NewRayTraceShader())

	tests := []struct {
		width, height int
		want          [3]uint32
	}{
		{8, 8, [3]uint32{1, 1, 1}},
		{9, 8, [3]uint32{2, 1, 1}},
		{1920, 1080, [3]uint32{240, 135, 1}},
		{1, 1, [3]uint32{1, 1, 1}},
	}
	for _, tt := range tests {
		if got := p.WorkgroupCount(tt.width, tt.height); got != tt.want {
			t.Fatalf("%dx%d: got %v, want %v", tt.width, tt.height, got, tt.want)
		}
	}
}

func TestEntryPointOption(t *testing.T) {
	p := NewComputePipeline("accumulate", shader.NewRayTraceShader(), WithEntryPoint(shader.EntryBlend))
	if p.EntryPoint() != "blend" || p.PipelineKey() != "accumulate" {
		t.Fatalf("entry=%s key=%s", p.EntryPoint(), p.PipelineKey())
	}
	p.Release()
	if p.ComputePipeline() != nil {
		t.Fatal("pipeline should be nil before registration and after release")
	}
}

func TestMissingEntryPointPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewComputePipeline("nope", shader.NewRayTraceShader())
}
