package scene

import (
	"testing"

	"github.com/A-Imbert/Ray-Tracer/engine/camera"
	"github.com/A-Imbert/Ray-Tracer/engine/game_object"
	"github.com/A-Imbert/Ray-Tracer/engine/model"
)

func TestAddAssignsIDsInOrder(t *testing.T) {
	s := NewScene(WithName("test"))
	a := game_object.NewGameObject(game_object.WithModel(model.NewQuad()))
	b := game_object.NewGameObject(game_object.WithSphere(1))
	c := game_object.NewGameObject(game_object.WithModel(model.NewCube()))

	ids := []uint64{s.Add(a), s.Add(b), s.Add(c)}
	for i, id := range ids {
		if id != uint64(i+1) {
			t.Fatalf("ids = %v, want 1..3", ids)
		}
	}
	if s.Count() != 3 {
		t.Fatalf("count = %d, want 3", s.Count())
	}
	if s.Get(2) != b {
		t.Fatal("Get(2) should return the sphere")
	}

	meshes := s.MeshObjects()
	if len(meshes) != 2 || meshes[0] != a || meshes[1] != c {
		t.Fatalf("mesh objects out of registration order: %v", meshes)
	}
	if spheres := s.SphereObjects(); len(spheres) != 1 || spheres[0] != b {
		t.Fatalf("sphere objects = %v", spheres)
	}
}

func TestDisabledObjectsAreFiltered(t *testing.T) {
	obj := game_object.NewGameObject(game_object.WithModel(model.NewQuad()), game_object.WithEnabled(false))
	s := NewScene(WithObjects(obj))
	if s.Count() != 1 {
		t.Fatalf("count = %d, want 1", s.Count())
	}
	if got := len(s.MeshObjects()); got != 0 {
		t.Fatalf("mesh objects = %d, want 0", got)
	}
}

func TestVersionDetectsChanges(t *testing.T) {
	s := NewScene()
	obj := game_object.NewGameObject(game_object.WithModel(model.NewCube()))

	tests := []struct {
		name   string
		mutate func()
		bumps  bool
	}{
		{"add", func() { s.Add(obj) }, true},
		{"no-op", func() {}, false},
		{"move", func() { obj.SetPosition(1, 0, 0) }, true},
		{"camera", func() { s.Camera().SetFov(30) }, false},
		{"remove unknown", func() { s.Remove(99) }, false},
		{"remove", func() { s.Remove(obj.ID()) }, true},
		{"clear", func() { s.Clear() }, true},
	}
	for _, tt := range tests {
		before := s.Version()
		tt.mutate()
		after := s.Version()
		if tt.bumps && after <= before {
			t.Fatalf("%s: version %d -> %d, want increase", tt.name, before, after)
		}
		if !tt.bumps && after != before {
			t.Fatalf("%s: version %d -> %d, want unchanged", tt.name, before, after)
		}
	}
}

func TestTickAdvancesObjectsAndCamera(t *testing.T) {
	ctrl := camera.NewOrbitController(camera.WithOrbitSpeed(1))
	spinner := game_object.NewGameObject(game_object.WithModel(model.NewCube()), game_object.WithRotationSpeed(0, 1, 0))
	s := NewScene(WithCamera(camera.NewCamera(camera.WithController(ctrl))), WithObjects(spinner))

	v := s.Version()
	s.Tick(0.25)
	if s.Version() == v {
		t.Fatal("spinning object should change the registry version")
	}
	if ctrl.Azimuth() != 0.25 {
		t.Fatalf("azimuth = %v, want 0.25", ctrl.Azimuth())
	}
}

func TestAddNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewScene().Add(nil)
}

func TestReplacingAnObjectNeverRewindsVersion(t *testing.T) {
	s := NewScene()
	quad := game_object.NewGameObject(game_object.WithModel(model.NewQuad()))
	id := s.Add(quad)
	for i := range 3 {
		quad.SetPosition(float32(i+1), 0, 0)
	}
	before := s.Version()

	cube := game_object.NewGameObject(game_object.WithID(id), game_object.WithModel(model.NewCube()))
	s.Add(cube)
	if after := s.Version(); after <= before {
		t.Fatalf("version after replace = %d, want > %d", after, before)
	}
	cube.SetPosition(0, 1, 0)
	cube.SetPosition(0, 2, 0)
	if after := s.Version(); after <= before {
		t.Fatalf("version after editing the replacement = %d, want > %d", after, before)
	}
	if s.Count() != 1 || s.Get(id) != cube {
		t.Fatalf("registry holds %d objects, Get(%d) = %v", s.Count(), id, s.Get(id))
	}

	v := s.Version()
	s.Add(cube)
	if s.Version() <= v {
		t.Fatal("re-adding the same object should still bump the version")
	}
}
