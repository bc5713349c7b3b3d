package main

import (
	"testing"

	"github.com/A-Imbert/Ray-Tracer/engine/renderer/extractor"
	"github.com/A-Imbert/Ray-Tracer/engine/scene"
)

func TestBuiltinScenesCompile(t *testing.T) {
	tests := []struct {
		name          string
		wantObjects   int
		wantTriangles int
		wantSpheres   int
	}{
		{"cornell", 6, 12, 2},
		{"spheres", 1, 12, 7},
		{"empty", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder, ok := builtinScenes[tt.name]
			if !ok {
				t.Fatalf("scene %q is not registered", tt.name)
			}
			sc := scene.NewScene(scene.WithName(tt.name))
			cam := builder.build(sc)
			if cam == nil {
				t.Fatal("builder returned no camera")
			}
			sc.SetCamera(cam)

			c, bindings, err := compileScene(sc, 2, extractor.SphereScaleUniform)
			if err != nil {
				t.Fatalf("compileScene: %v", err)
			}
			defer c.Release()

			if bindings.ObjectCount != tt.wantObjects || bindings.TriangleCount != tt.wantTriangles || bindings.SphereCount != tt.wantSpheres {
				t.Fatalf("counts = %d objects, %d triangles, %d spheres; want %d, %d, %d",
					bindings.ObjectCount, bindings.TriangleCount, bindings.SphereCount,
					tt.wantObjects, tt.wantTriangles, tt.wantSpheres)
			}
		})
	}
}

func TestEveryBuiltinSceneIsListed(t *testing.T) {
	for name, builder := range builtinScenes {
		if builder.description == "" {
			t.Errorf("scene %q has no description", name)
		}
		if builder.build == nil {
			t.Errorf("scene %q has no builder", name)
		}
	}
}

func TestParseSpherePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    extractor.SpherePolicy
		wantErr bool
	}{
		{"uniform", extractor.SphereScaleUniform, false},
		{"max-axis", extractor.SphereScaleMaxAxis, false},
		{"largest", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseSpherePolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseSpherePolicy(%q) err = %v, wantErr %t", tt.in, err, tt.wantErr)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("parseSpherePolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
