package game_object

import (
	"math"
	"testing"

	"github.com/A-Imbert/Ray-Tracer/engine/model"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

func TestDefaults(t *testing.T) {
	obj := NewGameObject()
	if !obj.Enabled() {
		t.Fatal("objects should default to enabled")
	}
	if sx, sy, sz := obj.Scale(); sx != 1 || sy != 1 || sz != 1 {
		t.Fatalf("scale = (%v,%v,%v), want unit", sx, sy, sz)
	}
	if obj.Shape() != ShapeMesh {
		t.Fatalf("shape = %v, want mesh", obj.Shape())
	}
	if obj.LocalToWorld() != mgl32.Ident4() {
		t.Fatal("expected identity transform")
	}
}

func TestMutationsBumpVersion(t *testing.T) {
	obj := NewGameObject(WithModel(model.NewCube()))
	tests := []struct {
		name   string
		mutate func()
		bumps  bool
	}{
		{"position", func() { obj.SetPosition(1, 2, 3) }, true},
		{"rotation", func() { obj.SetRotation(0, 1, 0) }, true},
		{"scale", func() { obj.SetScale(2, 2, 2) }, true},
		{"material", func() { obj.SetMaterial(material.NewMaterial(material.WithSmoothness(1))) }, true},
		{"model", func() { obj.SetModel(model.NewQuad()) }, true},
		{"sphere", func() { obj.SetSphere(1) }, true},
		{"disable", func() { obj.SetEnabled(false) }, true},
		{"disable again", func() { obj.SetEnabled(false) }, false},
		{"rotation speed", func() { obj.SetRotationSpeed(0, 1, 0) }, false},
		{"advance", func() { obj.Advance(0.5) }, true},
		{"advance zero", func() { obj.Advance(0) }, false},
	}
	for _, tt := range tests {
		before := obj.Version()
		tt.mutate()
		if changed := obj.Version() != before; changed != tt.bumps {
			t.Fatalf("%s: version changed = %v, want %v", tt.name, changed, tt.bumps)
		}
	}
}

func TestAdvanceIntegratesRotation(t *testing.T) {
	obj := NewGameObject(WithRotationSpeed(0, math.Pi, 0))
	obj.Advance(0.5)
	_, ry, _ := obj.Rotation()
	if !mgl32.FloatEqualThreshold(ry, math.Pi/2, 1e-6) {
		t.Fatalf("ry = %v, want pi/2", ry)
	}
}

func TestSetMaterialClamps(t *testing.T) {
	obj := NewGameObject()
	obj.SetMaterial(material.Material{Smoothness: 3, EmissionStrength: -1})
	m := obj.Material()
	if m.Smoothness != 1 || m.EmissionStrength != 0 {
		t.Fatalf("material not clamped: %+v", m)
	}
}

func TestLocalToWorld(t *testing.T) {
	obj := NewGameObject(WithPosition(0, 1, 0), WithScale(2, 1, 1))
	m := obj.LocalToWorld()
	got := m.Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	if !got.ApproxEqualThreshold(mgl32.Vec3{2, 1, 0}, 1e-6) {
		t.Fatalf("transformed point = %v, want (2,1,0)", got)
	}
}
