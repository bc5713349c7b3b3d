package renderer

import (
	"errors"
	"math"
	"testing"

	"github.com/A-Imbert/Ray-Tracer/engine/camera"
	"github.com/A-Imbert/Ray-Tracer/engine/game_object"
	"github.com/A-Imbert/Ray-Tracer/engine/model"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/compiler"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/extractor"
	"github.com/A-Imbert/Ray-Tracer/engine/scene"
)

// sequenceTracer fills every pixel with samples[call], repeating the last value once exhausted.
type sequenceTracer struct {
	samples []float32
	calls   int
	params  []FrameParams
}

func (s *sequenceTracer) Trace(dst *Image, _ compiler.SceneBindings, params FrameParams) error {
	v := s.samples[min(s.calls, len(s.samples)-1)]
	for i := range dst.Pix {
		dst.Pix[i] = v
	}
	s.calls++
	s.params = append(s.params, params)
	return nil
}

func newTestRenderer(t *testing.T, tracer *sequenceTracer, options ...RendererBuilderOption) (Renderer, scene.Scene, *softwareBackend) {
	t.Helper()
	sc := scene.NewScene(scene.WithObjects(
		game_object.NewGameObject(game_object.WithModel(model.NewCube())),
		game_object.NewGameObject(game_object.WithSphere(0.5), game_object.WithPosition(2, 0, 0)),
	))
	backend := NewSoftwareBackend(tracer).(*softwareBackend)
	r := NewRenderer(sc, backend, options...)
	t.Cleanup(func() { r.Close() })
	return r, sc, backend
}

func pixel(t *testing.T, s SoftwareSurface) float32 {
	t.Helper()
	return s.Image().At(0, 0)[0]
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestProgressiveAccumulation(t *testing.T) {
	tests := []struct {
		name    string
		samples []float32
		want    []float32
	}{
		{"constant colour", []float32{0.25}, []float32{0.25, 0.25, 0.25, 0.25}},
		{"running mean", []float32{0, 1, 2, 3}, []float32{0, 0.5, 1, 1.5}},
		{"single bright sample", []float32{4, 0, 0, 0}, []float32{4, 2, 4.0 / 3, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer := &sequenceTracer{samples: tt.samples}
			r, _, _ := newTestRenderer(t, tracer)
			dst := NewSoftwareSurface("dst", 4, 3)

			for frame, want := range tt.want {
				if err := r.Render(nil, dst); err != nil {
					t.Fatalf("frame %d: %v", frame, err)
				}
				if got := pixel(t, dst); !near(got, want) {
					t.Fatalf("frame %d: pixel = %v, want %v", frame, got, want)
				}
				if r.FrameCount() != frame+1 {
					t.Fatalf("frame %d: counter = %d", frame, r.FrameCount())
				}
				if got := tracer.params[frame].AccumulatedFrames(); got != frame {
					t.Fatalf("frame %d: accumulated frames = %d", frame, got)
				}
			}
		})
	}
}

func TestResolutionChangeRestartsHistory(t *testing.T) {
	tracer := &sequenceTracer{samples: []float32{1, 3, 5, 9}}
	r, _, backend := newTestRenderer(t, tracer)

	small := NewSoftwareSurface("small", 4, 4)
	for range 3 {
		if err := r.Render(nil, small); err != nil {
			t.Fatal(err)
		}
	}
	if r.FrameCount() != 3 {
		t.Fatalf("counter = %d, want 3", r.FrameCount())
	}

	large := NewSoftwareSurface("large", 8, 6)
	if err := r.Render(nil, large); err != nil {
		t.Fatal(err)
	}
	if r.FrameCount() != 1 {
		t.Fatalf("counter after resize = %d, want 1", r.FrameCount())
	}
	if got := pixel(t, large); got != 9 {
		t.Fatalf("first frame after resize should be copied unblended, got %v", got)
	}
	if h := r.(*renderer).history; h.Width() != 8 || h.Height() != 6 {
		t.Fatalf("history is %dx%d", h.Width(), h.Height())
	}
	if idle := len(r.(*renderer).temporaries.idle); idle != 1 {
		t.Fatalf("idle temporaries = %d, want 1 of the new size", idle)
	}
	if backend.created == 0 {
		t.Fatal("backend never allocated surfaces")
	}
}

func TestDirectModeLeavesHistoryAlone(t *testing.T) {
	tracer := &sequenceTracer{samples: []float32{0.75}}
	settings := DefaultSettings()
	settings.Progressive = false
	r, _, backend := newTestRenderer(t, tracer, WithSettings(settings))

	dst := NewSoftwareSurface("dst", 5, 5)
	for range 2 {
		if err := r.Render(nil, dst); err != nil {
			t.Fatal(err)
		}
	}
	if got := pixel(t, dst); got != 0.75 {
		t.Fatalf("pixel = %v, want 0.75", got)
	}
	if r.FrameCount() != 0 {
		t.Fatalf("counter = %d, want 0", r.FrameCount())
	}
	if r.(*renderer).history != nil || backend.created != 0 {
		t.Fatal("direct mode must not allocate history or temporaries")
	}
	if tracer.params[1].FrameIndex() != 1 {
		t.Fatalf("frame index = %d, want 1", tracer.params[1].FrameIndex())
	}
}

func TestDisabledCopiesSource(t *testing.T) {
	tracer := &sequenceTracer{samples: []float32{1}}
	settings := DefaultSettings()
	settings.Enabled = false
	r, _, _ := newTestRenderer(t, tracer, WithSettings(settings))

	src := NewSoftwareSurface("src", 2, 2)
	src.Image().Set(0, 0, [4]float32{7, 7, 7, 1})
	dst := NewSoftwareSurface("dst", 2, 2)

	if err := r.Render(src, dst); err != nil {
		t.Fatal(err)
	}
	if got := pixel(t, dst); got != 7 {
		t.Fatalf("pixel = %v, want 7", got)
	}
	if tracer.calls != 0 {
		t.Fatalf("tracer called %d times", tracer.calls)
	}
	if err := r.Render(nil, dst); !errors.Is(err, ErrNilSurface) {
		t.Fatalf("err = %v, want ErrNilSurface", err)
	}
}

func TestSceneChangeRecompilesAndResets(t *testing.T) {
	tracer := &sequenceTracer{samples: []float32{1}}
	r, sc, _ := newTestRenderer(t, tracer)
	dst := NewSoftwareSurface("dst", 2, 2)

	for range 3 {
		if err := r.Render(nil, dst); err != nil {
			t.Fatal(err)
		}
	}
	if got := r.Compiler().Stats().Compiles; got != 1 {
		t.Fatalf("compiles = %d, want 1", got)
	}
	if b := r.Bindings(); b.ObjectCount != 1 || b.SphereCount != 1 || b.TriangleCount != 12 {
		t.Fatalf("bindings = %+v", b)
	}

	sc.Add(game_object.NewGameObject(game_object.WithModel(model.NewQuad())))
	if err := r.Render(nil, dst); err != nil {
		t.Fatal(err)
	}
	if got := r.Compiler().Stats().Compiles; got != 2 {
		t.Fatalf("compiles = %d, want 2", got)
	}
	if r.FrameCount() != 1 {
		t.Fatalf("counter = %d, want 1 after recompile", r.FrameCount())
	}
	if objects, triangles, _ := tracer.params[3].Counts(); objects != 2 || triangles != 14 {
		t.Fatalf("counts = %d objects %d triangles", objects, triangles)
	}
}

func TestCompileErrorAbortsFrame(t *testing.T) {
	tracer := &sequenceTracer{samples: []float32{1}}
	r, sc, _ := newTestRenderer(t, tracer)
	sc.Add(game_object.NewGameObject())

	err := r.Render(nil, NewSoftwareSurface("dst", 2, 2))
	if !errors.Is(err, extractor.ErrMissingMesh) {
		t.Fatalf("err = %v, want ErrMissingMesh", err)
	}
	if tracer.calls != 0 {
		t.Fatal("tracer ran on a failed compile")
	}
}

func TestCameraChangeResetsAccumulation(t *testing.T) {
	tracer := &sequenceTracer{samples: []float32{1}}
	r, sc, _ := newTestRenderer(t, tracer)
	dst := NewSoftwareSurface("dst", 2, 2)

	for range 2 {
		if err := r.Render(nil, dst); err != nil {
			t.Fatal(err)
		}
	}
	sc.Camera().Controller().Orbit(0.1, 0)
	if err := r.Render(nil, dst); err != nil {
		t.Fatal(err)
	}
	if r.FrameCount() != 1 {
		t.Fatalf("counter = %d, want 1 after camera move", r.FrameCount())
	}
}

func TestReplacedObjectIsRecompiled(t *testing.T) {
	tracer := &sequenceTracer{samples: []float32{1}}
	sc := scene.NewScene()
	quad := game_object.NewGameObject(game_object.WithModel(model.NewQuad()))
	id := sc.Add(quad)
	for i := range 3 {
		quad.SetPosition(float32(i), 0, 0)
	}
	r := NewRenderer(sc, NewSoftwareBackend(tracer))
	t.Cleanup(func() { r.Close() })
	dst := NewSoftwareSurface("dst", 2, 2)

	if err := r.Render(nil, dst); err != nil {
		t.Fatal(err)
	}
	if got := r.Bindings().TriangleCount; got != 2 {
		t.Fatalf("triangles = %d, want 2", got)
	}

	cube := game_object.NewGameObject(game_object.WithID(id), game_object.WithModel(model.NewCube()))
	sc.Add(cube)
	cube.SetPosition(0, 1, 0)
	cube.SetPosition(0, 2, 0)
	if err := r.Render(nil, dst); err != nil {
		t.Fatal(err)
	}
	if got := r.Bindings().TriangleCount; got != 12 {
		t.Fatalf("triangles after replace = %d, want 12", got)
	}
	if r.FrameCount() != 1 {
		t.Fatalf("counter = %d, want 1 after recompile", r.FrameCount())
	}
}

func TestNewCameraStartsFreshHistory(t *testing.T) {
	tests := []struct {
		name   string
		change func(sc scene.Scene)
	}{
		{"scene camera replaced", func(sc scene.Scene) {
			sc.SetCamera(camera.NewCamera(
				camera.WithFov(20),
				camera.WithController(camera.NewOrbitController(camera.WithAzimuth(2), camera.WithRadius(9))),
			))
		}},
		{"controller replaced", func(sc scene.Scene) {
			sc.Camera().SetController(camera.NewOrbitController(camera.WithAzimuth(2), camera.WithRadius(9)))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer := &sequenceTracer{samples: []float32{1}}
			r, sc, _ := newTestRenderer(t, tracer)
			dst := NewSoftwareSurface("dst", 2, 2)

			for range 3 {
				if err := r.Render(nil, dst); err != nil {
					t.Fatal(err)
				}
			}
			tt.change(sc)
			if err := r.Render(nil, dst); err != nil {
				t.Fatal(err)
			}
			if r.FrameCount() != 1 {
				t.Fatalf("counter = %d, want 1 with the new view", r.FrameCount())
			}
		})
	}
}

func TestSetSettingsResetsOnSampleChange(t *testing.T) {
	tracer := &sequenceTracer{samples: []float32{1}}
	r, _, _ := newTestRenderer(t, tracer)
	dst := NewSoftwareSurface("dst", 2, 2)
	if err := r.Render(nil, dst); err != nil {
		t.Fatal(err)
	}

	s := r.Settings()
	s.Enabled = true
	r.SetSettings(s)
	if r.FrameCount() != 1 {
		t.Fatal("unchanged settings should keep the history")
	}

	s.RaysPerPixel = 0
	s.MaxBounceCount = 8
	r.SetSettings(s)
	if r.FrameCount() != 0 {
		t.Fatal("bounce change should reset the history")
	}
	if got := r.Settings().RaysPerPixel; got != 1 {
		t.Fatalf("rays per pixel = %d, want sanitized 1", got)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	tracer := &sequenceTracer{samples: []float32{1}}
	r, _, backend := newTestRenderer(t, tracer)
	if err := r.Render(nil, NewSoftwareSurface("dst", 2, 2)); err != nil {
		t.Fatal(err)
	}

	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if !backend.released {
		t.Fatal("backend not released")
	}
	if p := r.Compiler().Provider(); p.Released() != 3 || len(p.Bindings()) != 0 {
		t.Fatalf("scene buffers released = %d, want 3", p.Released())
	}
	if err := r.Render(nil, NewSoftwareSurface("dst", 2, 2)); !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
}

func TestTemporaryPoolKeepsFourIdle(t *testing.T) {
	backend := NewSoftwareBackend(&sequenceTracer{samples: []float32{0}})
	pool := newTemporaryPool(backend)

	var surfaces []Surface
	var releases []func()
	for range 6 {
		s, release, err := pool.acquire(3, 3)
		if err != nil {
			t.Fatal(err)
		}
		surfaces = append(surfaces, s)
		releases = append(releases, release)
	}
	for _, release := range releases {
		release()
		release()
	}
	if len(pool.idle) != maxIdleTemporaries {
		t.Fatalf("idle = %d, want %d", len(pool.idle), maxIdleTemporaries)
	}
	if surfaces[5].(SoftwareSurface).Image() != nil {
		t.Fatal("surface beyond the idle cap should be released")
	}

	s, release, err := pool.acquire(3, 3)
	if err != nil {
		t.Fatal(err)
	}
	defer release()
	if s != surfaces[0] || pool.created != 6 {
		t.Fatal("acquire should reuse an idle surface")
	}

	pool.purge()
	if len(pool.idle) != 0 || surfaces[1].(SoftwareSurface).Image() != nil {
		t.Fatal("purge should release idle surfaces")
	}
}

func TestFrameUniformLayout(t *testing.T) {
	var u GPUFrameUniform
	if u.Size() != 128 {
		t.Fatalf("size = %d, want 128", u.Size())
	}
	u.FrameIndex = 7
	u.AccumulatedFrames = 3
	buf := u.Marshal()
	if len(buf) != u.Size() || buf[76] != 7 || buf[112] != 3 {
		t.Fatalf("unexpected layout: frameIndex byte %d, accumulated byte %d", buf[76], buf[112])
	}
}

func TestSoftwareBackendRejectsForeignAndMismatched(t *testing.T) {
	backend := NewSoftwareBackend(&sequenceTracer{samples: []float32{0}})
	a := NewSoftwareSurface("a", 2, 2)
	b := NewSoftwareSurface("b", 3, 2)

	if err := backend.Copy(a, b); !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("err = %v, want ErrSizeMismatch", err)
	}
	if _, err := backend.CreateSurface("zero", 0, 4); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("err = %v, want ErrInvalidSize", err)
	}
	b.Release()
	b.Release()
	if err := backend.Copy(b, b); !errors.Is(err, ErrSurfaceReleased) {
		t.Fatalf("err = %v, want ErrSurfaceReleased", err)
	}
}
