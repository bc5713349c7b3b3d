package tracer

import (
	"errors"
	"testing"

	"github.com/A-Imbert/Ray-Tracer/engine/camera"
	"github.com/A-Imbert/Ray-Tracer/engine/game_object"
	"github.com/A-Imbert/Ray-Tracer/engine/model"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/compiler"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

func compileScene(t *testing.T, meshes, spheres []game_object.GameObject) compiler.SceneBindings {
	t.Helper()
	c := compiler.NewCompiler()
	t.Cleanup(c.Release)
	b, err := c.CompileObjects(meshes, spheres)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func render(t *testing.T, tr Tracer, bindings compiler.SceneBindings, w, h int) *renderer.Image {
	t.Helper()
	img := renderer.NewImage(w, h)
	params := renderer.NewFrameParams(camera.NewCamera(), renderer.DefaultSettings(), 3, w, h, bindings)
	if err := tr.Trace(img, bindings, params); err != nil {
		t.Fatal(err)
	}
	return img
}

func TestEmissiveSphereFillsCentre(t *testing.T) {
	light := game_object.NewGameObject(
		game_object.WithSphere(2),
		game_object.WithMaterial(material.NewMaterial(
			material.WithColour(0, 0, 0, 1),
			material.WithEmission(1, 0.5, 0.25, 2),
		)),
	)
	img := render(t, NewTracer(), compileScene(t, nil, []game_object.GameObject{light}), 9, 9)

	centre := img.At(4, 4)
	want := [4]float32{2, 1, 0.5, 1}
	if centre != want {
		t.Fatalf("centre = %v, want %v", centre, want)
	}
	if corner := img.At(0, 0); corner[0] >= 1 {
		t.Fatalf("corner should see the dim sky, got %v", corner)
	}
}

func TestEmptySceneSeesEnvironment(t *testing.T) {
	img := render(t, NewTracer(), compileScene(t, nil, nil), 4, 6)

	bottom := img.At(1, 5)
	want := ground.Mul(0.2)
	if got := (mgl32.Vec3{bottom[0], bottom[1], bottom[2]}); !got.ApproxEqual(want) {
		t.Fatalf("bottom = %v, want ground %v", bottom, want)
	}
	top := img.At(1, 0)
	if top == bottom || top[3] != 1 {
		t.Fatalf("top = %v should be sky", top)
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	meshes := []game_object.GameObject{
		game_object.NewGameObject(game_object.WithModel(model.NewCube()), game_object.WithID(1),
			game_object.WithRotation(0.3, 0.6, 0)),
		game_object.NewGameObject(game_object.WithModel(model.NewQuad()), game_object.WithID(2),
			game_object.WithPosition(0, -1, 0), game_object.WithScale(10, 1, 10),
			game_object.WithMaterial(material.NewMaterial(material.WithSmoothness(0.5)))),
	}
	spheres := []game_object.GameObject{
		game_object.NewGameObject(game_object.WithSphere(0.5), game_object.WithID(3),
			game_object.WithPosition(1.5, 0, 0),
			game_object.WithMaterial(material.NewMaterial(material.WithEmission(1, 1, 1, 4)))),
	}
	bindings := compileScene(t, meshes, spheres)

	serial := render(t, NewTracer(), bindings, 16, 12)
	parallel := render(t, NewTracer(WithWorkers(4)), bindings, 16, 12)
	for i := range serial.Pix {
		if serial.Pix[i] != parallel.Pix[i] {
			t.Fatalf("pixel component %d differs: serial %v parallel %v", i, serial.Pix[i], parallel.Pix[i])
		}
	}
}

func TestIntersectTriangleIsSingleSided(t *testing.T) {
	tri := &model.GPUTriangle{
		PosA: [3]float32{-1, -1, 0},
		PosB: [3]float32{1, -1, 0},
		PosC: [3]float32{0, 1, 0},
	}
	tests := []struct {
		name     string
		origin   mgl32.Vec3
		dir      mgl32.Vec3
		wantHit  bool
		wantDist float32
	}{
		{"front", mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}, true, 5},
		{"back", mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0, 0, 1}, false, 0},
		{"outside", mgl32.Vec3{3, 0, 5}, mgl32.Vec3{0, 0, -1}, false, 0},
		{"behind origin", mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 1}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, _, _, ok := intersectTriangle(tt.origin, tt.dir, tri)
			if ok != tt.wantHit {
				t.Fatalf("hit = %v, want %v", ok, tt.wantHit)
			}
			if ok && dist != tt.wantDist {
				t.Fatalf("dist = %v, want %v", dist, tt.wantDist)
			}
		})
	}
}

func TestRNGMatchesAcrossCalls(t *testing.T) {
	a, b := newRNG(3, 2, 10, 5), newRNG(3, 2, 10, 5)
	for range 8 {
		x, y := a.next(), b.next()
		if x != y || x < 0 || x > 1 {
			t.Fatalf("rng diverged or out of range: %v %v", x, y)
		}
	}
}

type opaqueBuffer struct{}

func (opaqueBuffer) Label() string { return "opaque" }

func (opaqueBuffer) Size() uint64 { return 72 }

func (opaqueBuffer) Write(uint64, []byte) error { return nil }

func (opaqueBuffer) Release() {}

func TestTraceRejectsDeviceBuffers(t *testing.T) {
	bindings := compiler.SceneBindings{Triangles: opaqueBuffer{}, Objects: opaqueBuffer{}, Spheres: opaqueBuffer{}, TriangleCount: 1}
	img := renderer.NewImage(2, 2)
	params := renderer.NewFrameParams(camera.NewCamera(), renderer.DefaultSettings(), 0, 2, 2, bindings)
	if err := NewTracer().Trace(img, bindings, params); !errors.Is(err, ErrNotHostBuffer) {
		t.Fatalf("err = %v, want ErrNotHostBuffer", err)
	}
}

func TestCloseStopsRowWorkers(t *testing.T) {
	spheres := []game_object.GameObject{
		game_object.NewGameObject(game_object.WithSphere(0.5), game_object.WithID(1),
			game_object.WithMaterial(material.NewMaterial(material.WithEmission(1, 1, 1, 2)))),
	}
	bindings := compileScene(t, nil, spheres)
	want := render(t, NewTracer(), bindings, 8, 6)

	tr := NewTracer(WithWorkers(3))
	tr.Close()
	tr.Close()
	if tr.(*tracer).pool != nil {
		t.Fatal("pool still set after Close")
	}
	got := render(t, tr, bindings, 8, 6)
	for i := range want.Pix {
		if want.Pix[i] != got.Pix[i] {
			t.Fatalf("pixel component %d after Close = %v, want %v", i, got.Pix[i], want.Pix[i])
		}
	}
}

func TestBackendReleaseClosesTracer(t *testing.T) {
	tr := NewTracer(WithWorkers(2))
	backend := renderer.NewSoftwareBackend(tr)
	backend.Release()
	backend.Release()
	if tr.(*tracer).pool != nil {
		t.Fatal("backend Release left the tracer's workers running")
	}
}
