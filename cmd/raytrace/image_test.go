package main

import (
	"errors"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/A-Imbert/Ray-Tracer/engine/renderer"
)

func TestEncodeChannel(t *testing.T) {
	tests := []struct {
		name string
		in   float32
		want uint8
	}{
		{"black", 0, 0},
		{"negative", -2, 0},
		{"nan", float32(math.NaN()), 0},
		{"white", 1, 255},
		{"overexposed", 40, 255},
		{"mid grey is gamma encoded", 0.5, 186},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := encodeChannel(tt.in); got != tt.want {
				t.Fatalf("encodeChannel(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestToneMapAppliesExposureAndOpaqueAlpha(t *testing.T) {
	img := renderer.NewImage(2, 1)
	img.Set(0, 0, [4]float32{0.5, 0.25, 0, 0})
	img.Set(1, 0, [4]float32{2, 2, 2, 1})

	out := toneMap(img, 2)
	if got := out.RGBAAt(0, 0); got.R != 255 || got.G != 186 || got.B != 0 || got.A != 255 {
		t.Fatalf("pixel 0 = %+v, want {255 186 0 255}", got)
	}
	if got := out.RGBAAt(1, 0); got.R != 255 || got.A != 255 {
		t.Fatalf("pixel 1 = %+v, want clamped white", got)
	}
}

func TestSavePNG(t *testing.T) {
	img := renderer.NewImage(3, 2)
	img.Set(2, 1, [4]float32{1, 0, 0, 1})
	path := filepath.Join(t.TempDir(), "frame.png")

	if err := savePNG(path, toneMap(img, 1)); err != nil {
		t.Fatalf("savePNG: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("bounds = %v, want 3x2", b)
	}
	if r, g, _, _ := decoded.At(2, 1).RGBA(); r != 0xffff || g != 0 {
		t.Fatalf("pixel (2,1) = r %d g %d, want red", r, g)
	}

	if err := savePNG(filepath.Join(t.TempDir(), "missing", "frame.png"), toneMap(img, 1)); err == nil {
		t.Fatal("savePNG into a missing directory succeeded")
	}
}

// failingCloser accepts writes and fails on Close.
type failingCloser struct {
	written int
	closed  bool
}

func (f *failingCloser) Write(p []byte) (int, error) {
	f.written += len(p)
	return len(p), nil
}

func (f *failingCloser) Close() error {
	f.closed = true
	return errCloseFailed
}

var errCloseFailed = errors.New("disk full")

func TestWritePNGReportsCloseError(t *testing.T) {
	w := &failingCloser{}
	err := writePNG("frame.png", w, toneMap(renderer.NewImage(2, 2), 1))
	if !errors.Is(err, errCloseFailed) {
		t.Fatalf("writePNG err = %v, want the close error", err)
	}
	if !w.closed || w.written == 0 {
		t.Fatalf("writer closed=%t written=%d, want closed after encoding", w.closed, w.written)
	}
}
