package material

import "testing"

func TestNewMaterialClampsRanges(t *testing.T) {
	tests := []struct {
		name           string
		opts           []MaterialBuilderOption
		wantSmoothness float32
		wantStrength   float32
	}{
		{"defaults", nil, 0, 0},
		{"in range", []MaterialBuilderOption{WithSmoothness(0.4), WithEmission(1, 1, 1, 3)}, 0.4, 3},
		{"smoothness above one", []MaterialBuilderOption{WithSmoothness(1.7)}, 1, 0},
		{"negative values", []MaterialBuilderOption{WithSmoothness(-2), WithEmission(1, 0, 0, -5)}, 0, 0},
		{"strength unbounded above", []MaterialBuilderOption{WithEmission(1, 0, 0, 250)}, 0, 250},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMaterial(tt.opts...)
			if m.Smoothness != tt.wantSmoothness {
				t.Fatalf("smoothness = %v, want %v", m.Smoothness, tt.wantSmoothness)
			}
			if m.EmissionStrength != tt.wantStrength {
				t.Fatalf("emission strength = %v, want %v", m.EmissionStrength, tt.wantStrength)
			}
		})
	}
}

func TestMaterialEmissive(t *testing.T) {
	if NewMaterial().Emissive() {
		t.Fatal("default material should not be emissive")
	}
	if !NewMaterial(WithEmission(1, 0.5, 0, 2)).Emissive() {
		t.Fatal("expected emissive material")
	}
	if NewMaterial(WithEmission(0, 0, 0, 2)).Emissive() {
		t.Fatal("black emission should not count as emissive")
	}
}

func TestGPUMaterialLayout(t *testing.T) {
	m := NewMaterial(WithColour(0.1, 0.2, 0.3, 1), WithEmission(4, 5, 6, 7), WithSmoothness(0.5)).GPU()

	buf := m.Marshal()
	if len(buf) != m.Size() || m.Size() != 36 {
		t.Fatalf("marshal length %d, size %d, want 36", len(buf), m.Size())
	}

	var got GPUMaterial
	got.Unmarshal(buf)
	if got != m {
		t.Fatalf("decoded %+v, want %+v", got, m)
	}
}
