package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/A-Imbert/Ray-Tracer/engine/game_object"
	"github.com/A-Imbert/Ray-Tracer/engine/model"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/compiler"
	"github.com/A-Imbert/Ray-Tracer/engine/scene"
)

// constantTracer writes value into every channel and can be told to panic.
type constantTracer struct {
	value float32
	panic bool
}

func (c *constantTracer) Trace(dst *renderer.Image, _ compiler.SceneBindings, _ renderer.FrameParams) error {
	if c.panic {
		panic("tracer exploded")
	}
	for i := range dst.Pix {
		dst.Pix[i] = c.value
	}
	return nil
}

func newTestEngine(t *testing.T, tracer *constantTracer, spinning bool, options ...EngineBuilderOption) (Engine, game_object.GameObject) {
	t.Helper()
	obj := game_object.NewGameObject(game_object.WithModel(model.NewCube()))
	if spinning {
		obj.SetRotationSpeed(0, 90, 0)
	}
	sc := scene.NewScene(scene.WithObjects(obj))
	r := renderer.NewRenderer(sc, renderer.NewSoftwareBackend(tracer))
	e, err := NewEngine(sc, r, 4, 2, options...)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e, obj
}

func TestStepTicksThenRenders(t *testing.T) {
	tests := []struct {
		name       string
		spinning   bool
		paused     bool
		wantCounts []int
		wantRotY   float32
	}{
		{"static scene accumulates", false, false, []int{1, 2, 3}, 0},
		{"moving scene resets every frame", true, false, []int{1, 1, 1}, 270},
		{"paused moving scene accumulates", true, true, []int{1, 2, 3}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, obj := newTestEngine(t, &constantTracer{value: 0.5}, tt.spinning, WithTickRate(1), WithPaused(tt.paused))
			for i, want := range tt.wantCounts {
				if err := e.Step(); err != nil {
					t.Fatalf("Step %d: %v", i, err)
				}
				if got := e.Renderer().FrameCount(); got != want {
					t.Fatalf("frame %d: FrameCount = %d, want %d", i, got, want)
				}
			}
			if _, ry, _ := obj.Rotation(); ry != tt.wantRotY {
				t.Fatalf("rotation y = %v, want %v", ry, tt.wantRotY)
			}
			if e.Frames() != len(tt.wantCounts) {
				t.Fatalf("Frames = %d, want %d", e.Frames(), len(tt.wantCounts))
			}
		})
	}
}

func TestRunStopsAtFrameBudget(t *testing.T) {
	var seen []int
	e, _ := newTestEngine(t, &constantTracer{value: 1}, false, WithFrameCallback(func(frame int, target renderer.Surface) error {
		seen = append(seen, frame)
		if got := target.(renderer.SoftwareSurface).Image().At(1, 1)[0]; got != 1 {
			t.Errorf("frame %d pixel = %v, want 1", frame, got)
		}
		return nil
	}))

	if err := e.Run(context.Background(), 5); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(seen) != 5 || seen[0] != 1 || seen[4] != 5 {
		t.Fatalf("callback frames = %v, want 1..5", seen)
	}
}

func TestRunStopsOnCallbackError(t *testing.T) {
	stop := errors.New("stop")
	e, _ := newTestEngine(t, &constantTracer{}, false)
	e.SetFrameCallback(func(frame int, _ renderer.Surface) error {
		if frame == 3 {
			return stop
		}
		return nil
	})
	if err := e.Run(context.Background(), 0); !errors.Is(err, stop) {
		t.Fatalf("Run err = %v, want stop", err)
	}
	if e.Frames() != 3 {
		t.Fatalf("Frames = %d, want 3", e.Frames())
	}
}

func TestRunHonoursQuitAndContext(t *testing.T) {
	e, _ := newTestEngine(t, &constantTracer{}, false)
	e.Quit()
	e.Quit()
	if err := e.Run(context.Background(), 10); err != nil || e.Frames() != 0 {
		t.Fatalf("Run after Quit = %v with %d frames, want nil and 0", err, e.Frames())
	}

	e2, _ := newTestEngine(t, &constantTracer{}, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e2.Run(ctx, 10); err != nil || e2.Frames() != 0 {
		t.Fatalf("Run with cancelled ctx = %v with %d frames, want nil and 0", err, e2.Frames())
	}
}

func TestRunRecoversFromPanic(t *testing.T) {
	e, _ := newTestEngine(t, &constantTracer{panic: true}, false)
	if err := e.Run(context.Background(), 1); !errors.Is(err, ErrRenderPanic) {
		t.Fatalf("Run err = %v, want ErrRenderPanic", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close after panic: %v", err)
	}
}

func TestResize(t *testing.T) {
	e, _ := newTestEngine(t, &constantTracer{value: 1}, false)
	if err := e.Step(); err != nil {
		t.Fatal(err)
	}
	old := e.Target()

	if err := e.Resize(8, 6); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if tgt := e.Target(); tgt.Width() != 8 || tgt.Height() != 6 || tgt == old {
		t.Fatalf("target = %dx%d, want a new 8x6 surface", tgt.Width(), tgt.Height())
	}
	if err := e.Step(); err != nil {
		t.Fatal(err)
	}
	if got := e.Renderer().FrameCount(); got != 1 {
		t.Fatalf("FrameCount after resize = %d, want 1", got)
	}

	if err := e.Resize(0, 6); !errors.Is(err, renderer.ErrInvalidSize) {
		t.Fatalf("Resize(0, 6) err = %v, want ErrInvalidSize", err)
	}
}

func TestStepAfterClose(t *testing.T) {
	e, _ := newTestEngine(t, &constantTracer{}, false)
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := e.Step(); !errors.Is(err, renderer.ErrClosed) {
		t.Fatalf("Step after Close = %v, want ErrClosed", err)
	}
}
