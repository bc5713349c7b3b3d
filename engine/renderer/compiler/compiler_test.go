package compiler

import (
	"errors"
	"testing"

	"github.com/A-Imbert/Ray-Tracer/engine/game_object"
	"github.com/A-Imbert/Ray-Tracer/engine/model"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/bind_group_provider"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/extractor"
)

func TestCompileReusesBuffersOnSameCounts(t *testing.T) {
	c := NewCompiler()
	meshes := []game_object.GameObject{game_object.NewGameObject(game_object.WithModel(model.NewCube()))}
	spheres := []game_object.GameObject{game_object.NewGameObject(game_object.WithSphere(1))}

	first, err := c.CompileObjects(meshes, spheres)
	if err != nil {
		t.Fatal(err)
	}
	meshes[0].SetPosition(0, 1, 0)
	second, err := c.CompileObjects(meshes, spheres)
	if err != nil {
		t.Fatal(err)
	}

	if first.Triangles != second.Triangles || first.Objects != second.Objects || first.Spheres != second.Spheres {
		t.Fatal("same counts should reuse buffers")
	}
	if second.TriangleCount != 12 || second.ObjectCount != 1 || second.SphereCount != 1 {
		t.Fatalf("counts = %d/%d/%d, want 12/1/1", second.TriangleCount, second.ObjectCount, second.SphereCount)
	}
	if s := c.Stats(); s.Reallocations != 0 || s.Compiles != 2 || s.TriangleBytes != 12*72 {
		t.Fatalf("stats = %+v", s)
	}

	// The uploaded bytes reflect the moved object.
	var tri model.GPUTriangle
	tri.Unmarshal(second.Triangles.(bind_group_provider.HostBuffer).Bytes())
	if tri.PosA[1] < 0.5-1e-6 {
		t.Fatalf("triangle not at moved position: %v", tri.PosA)
	}
}

func TestCompileReallocatesOnCountChange(t *testing.T) {
	c := NewCompiler()
	one := []game_object.GameObject{game_object.NewGameObject(game_object.WithModel(model.NewQuad()))}
	first, err := c.CompileObjects(one, nil)
	if err != nil {
		t.Fatal(err)
	}

	two := append(one, game_object.NewGameObject(game_object.WithModel(model.NewQuad())))
	second, err := c.CompileObjects(two, nil)
	if err != nil {
		t.Fatal(err)
	}
	if first.Triangles == second.Triangles {
		t.Fatal("triangle buffer should be recreated when the count changes")
	}
	if first.Spheres != second.Spheres {
		t.Fatal("sphere placeholder should be reused")
	}
	if s := c.Stats(); s.Reallocations != 2 || s.Released != 2 {
		t.Fatalf("reallocations=%d released=%d, want 2/2", s.Reallocations, s.Released)
	}

	c.Release()
	c.Release()
	if got := c.Stats().Released; got != 5 {
		t.Fatalf("released = %d, want 5", got)
	}
}

func TestCompileEmptySceneUsesPlaceholders(t *testing.T) {
	c := NewCompiler()
	b, err := c.Compile(nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if b.TriangleCount != 0 || b.ObjectCount != 0 || b.SphereCount != 0 {
		t.Fatalf("counts = %d/%d/%d, want zero", b.TriangleCount, b.ObjectCount, b.SphereCount)
	}
	if b.Triangles.Size() != 72 || b.Objects.Size() != 68 || b.Spheres.Size() != 52 {
		t.Fatalf("placeholder sizes = %d/%d/%d", b.Triangles.Size(), b.Objects.Size(), b.Spheres.Size())
	}
}

func TestCompileAbortsOnMissingMesh(t *testing.T) {
	c := NewCompiler(WithExtractor(extractor.NewExtractor()))
	_, err := c.CompileObjects([]game_object.GameObject{game_object.NewGameObject()}, nil)
	if !errors.Is(err, extractor.ErrMissingMesh) {
		t.Fatalf("err = %v, want ErrMissingMesh", err)
	}
	if len(c.Provider().Bindings()) != 0 {
		t.Fatal("no buffers should be allocated when extraction fails")
	}
}

// closeCountingExtractor records Close calls on top of a real extractor.
type closeCountingExtractor struct {
	extractor.Extractor
	closes int
}

func (c *closeCountingExtractor) Close() {
	c.closes++
	c.Extractor.Close()
}

func TestReleaseClosesExtractor(t *testing.T) {
	ext := &closeCountingExtractor{Extractor: extractor.NewExtractor(extractor.WithWorkers(2))}
	c := NewCompiler(WithExtractor(ext))
	if _, err := c.CompileObjects([]game_object.GameObject{game_object.NewGameObject(game_object.WithModel(model.NewQuad()))}, nil); err != nil {
		t.Fatal(err)
	}
	c.Release()
	if ext.closes != 1 {
		t.Fatalf("extractor closed %d times, want 1", ext.closes)
	}
}
