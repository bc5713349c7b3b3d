package renderer

import (
	"fmt"
	"sync"

	"github.com/A-Imbert/Ray-Tracer/engine/camera"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/bind_group_provider"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/compiler"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/extractor"
	"github.com/A-Imbert/Ray-Tracer/engine/scene"
	"github.com/A-Imbert/Ray-Tracer/log"
)

var logger = log.New("renderer")

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	scene    scene.Scene
	backend  RendererBackend
	compiler compiler.Compiler
	settings Settings

	// Pre-creation config collected from builder options
	workers      int
	spherePolicy extractor.SpherePolicy

	bindings        compiler.SceneBindings
	compiled        bool
	compiledVersion uint64
	camera          camera.Camera
	cameraVersion   uint64

	history     Surface
	temporaries *temporaryPool
	frameIndex  uint32
	frameCount  int

	closed bool
}

// Renderer defines the interface for the progressive ray tracing render loop.
//
// The Renderer keeps the compiled scene in sync with the registry, traces one sample per
// frame through its backend and folds samples into a running-mean history surface.
// All methods are safe for concurrent use; frames are rendered one at a time.
type Renderer interface {
	// Render produces one frame into dst.
	// With ray tracing disabled src is copied into dst. Otherwise the scene is recompiled
	// if the registry changed, then traced directly into dst or accumulated into the history
	// and presented, depending on Settings.Progressive.
	//
	// Parameters:
	//   - src: the rasterized frame, only read when ray tracing is disabled (may be nil otherwise)
	//   - dst: the destination surface
	//
	// Returns:
	//   - error: a compile, allocation or backend error; the frame is abandoned
	Render(src, dst Surface) error

	// Settings returns the current ray tracing settings.
	//
	// Returns:
	//   - Settings: the active settings
	Settings() Settings

	// SetSettings replaces the settings. Changing anything that alters the samples
	// (mode, bounces, rays, diverge strength) resets accumulation.
	//
	// Parameters:
	//   - s: the new settings
	SetSettings(s Settings)

	// ResetAccumulation discards the accumulated samples. The next progressive frame
	// starts a fresh history.
	ResetAccumulation()

	// FrameCount returns the number of samples folded into the current history.
	//
	// Returns:
	//   - int: the accumulated frame counter
	FrameCount() int

	// Bindings returns the most recently compiled scene.
	//
	// Returns:
	//   - compiler.SceneBindings: the scene buffers and counts
	Bindings() compiler.SceneBindings

	// Compiler returns the scene compiler, for stats.
	//
	// Returns:
	//   - compiler.Compiler: the compiler owning the scene buffers
	Compiler() compiler.Compiler

	// Backend returns the backend the renderer traces with.
	//
	// Returns:
	//   - RendererBackend: the backend
	Backend() RendererBackend

	// Close releases the history, pooled temporaries, scene buffers and the backend.
	// Safe to call more than once.
	//
	// Returns:
	//   - error: always nil, kept for io.Closer compatibility
	Close() error
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer that draws sc with backend.
// The scene buffers are allocated through the backend's allocator.
//
// Parameters:
//   - sc: the scene registry, must not be nil
//   - backend: the tracer backend, must not be nil; owned by the renderer from here on
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the newly created renderer
func NewRenderer(sc scene.Scene, backend RendererBackend, options ...RendererBuilderOption) Renderer {
	if sc == nil {
		panic("renderer: scene must not be nil")
	}
	if backend == nil {
		panic("renderer: backend must not be nil")
	}

	r := &renderer{
		mu:       &sync.Mutex{},
		scene:    sc,
		backend:  backend,
		settings: DefaultSettings(),
		workers:  1,
	}
	for _, option := range options {
		option(r)
	}
	r.settings = r.settings.Sanitized()

	if r.compiler == nil {
		r.compiler = compiler.NewCompiler(
			compiler.WithProvider(bind_group_provider.NewBindGroupProvider("Scene",
				bind_group_provider.WithAllocator(backend.Allocator()))),
			compiler.WithExtractor(extractor.NewExtractor(
				extractor.WithWorkers(r.workers),
				extractor.WithSpherePolicy(r.spherePolicy))),
		)
	}
	r.temporaries = newTemporaryPool(backend)

	logger.Infof("renderer created: backend=%s %s", backend.Type(), r.settings)
	return r
}

func (r *renderer) Render(src, dst Surface) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if dst == nil {
		return ErrNilSurface
	}
	if !r.settings.Enabled {
		if src == nil {
			return ErrNilSurface
		}
		return r.backend.Copy(dst, src)
	}

	if err := r.ensureCompiled(); err != nil {
		return err
	}

	cam := r.scene.Camera()
	if v := cam.Version(); cam != r.camera || v != r.cameraVersion {
		r.camera, r.cameraVersion = cam, v
		r.resetLocked("camera changed")
	}

	width, height := dst.Width(), dst.Height()
	params := NewFrameParams(cam, r.settings, r.frameIndex, width, height, r.bindings)
	r.frameIndex++

	if !r.settings.Progressive {
		return r.backend.Trace(dst, r.bindings, params)
	}
	return r.accumulate(dst, params)
}

// accumulate runs one progressive frame: trace a sample, fold it into the history and
// present the history into dst.
func (r *renderer) accumulate(dst Surface, params FrameParams) error {
	width, height := dst.Width(), dst.Height()
	if err := r.ensureHistory(width, height); err != nil {
		return err
	}

	current, releaseCurrent, err := r.temporaries.acquire(width, height)
	if err != nil {
		return fmt.Errorf("renderer: acquire current: %w", err)
	}
	defer releaseCurrent()

	if err := r.backend.Trace(current, r.bindings, params.WithAccumulatedFrames(r.frameCount)); err != nil {
		return err
	}

	if r.frameCount < 1 {
		if err := r.backend.Copy(r.history, current); err != nil {
			return err
		}
	} else {
		previous, releasePrevious, err := r.temporaries.acquire(width, height)
		if err != nil {
			return fmt.Errorf("renderer: acquire previous: %w", err)
		}
		defer releasePrevious()

		if err := r.backend.Copy(previous, r.history); err != nil {
			return err
		}
		if err := r.backend.Blend(r.history, current, previous, r.frameCount); err != nil {
			return err
		}
	}

	if err := r.backend.Copy(dst, r.history); err != nil {
		return err
	}
	r.frameCount++
	return nil
}

// ensureCompiled recompiles the scene when the registry version moved since the last
// successful compile. A failed compile leaves the previous scene untouched and is retried
// on the next frame.
func (r *renderer) ensureCompiled() error {
	version := r.scene.Version()
	if r.compiled && version == r.compiledVersion {
		return nil
	}

	bindings, err := r.compiler.CompileObjects(r.scene.MeshObjects(), r.scene.SphereObjects())
	if err != nil {
		return fmt.Errorf("renderer: compile scene: %w", err)
	}
	r.bindings = bindings
	r.compiledVersion = version
	if r.compiled {
		r.resetLocked("scene changed")
	}
	r.compiled = true
	return nil
}

// ensureHistory (re)creates the history surface when it is missing or the output
// resolution changed. Pooled temporaries of the old size are dropped with it.
func (r *renderer) ensureHistory(width, height int) error {
	if r.history != nil && r.history.Width() == width && r.history.Height() == height {
		return nil
	}
	if r.history != nil {
		r.history.Release()
		r.history = nil
		r.temporaries.purge()
	}

	history, err := r.backend.CreateSurface("Accumulation History", width, height)
	if err != nil {
		return fmt.Errorf("renderer: create history: %w", err)
	}
	r.history = history
	r.frameCount = 0
	logger.Infof("accumulation history allocated at %dx%d", width, height)
	return nil
}

func (r *renderer) resetLocked(reason string) {
	if r.frameCount > 0 && log.Enabled(log.Debug) {
		logger.Debugf("accumulation reset after %d frames: %s", r.frameCount, reason)
	}
	r.frameCount = 0
}

func (r *renderer) Settings() Settings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settings
}

func (r *renderer) SetSettings(s Settings) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s = s.Sanitized()
	if !s.sameSamples(r.settings) {
		r.resetLocked("settings changed")
	}
	r.settings = s
}

func (r *renderer) ResetAccumulation() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resetLocked("requested")
}

func (r *renderer) FrameCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameCount
}

func (r *renderer) Bindings() compiler.SceneBindings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bindings
}

func (r *renderer) Compiler() compiler.Compiler {
	return r.compiler
}

func (r *renderer) Backend() RendererBackend {
	return r.backend
}

func (r *renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	if r.history != nil {
		r.history.Release()
		r.history = nil
	}
	r.temporaries.purge()
	r.compiler.Release()
	r.backend.Release()
	r.bindings = compiler.SceneBindings{}
	logger.Infof("renderer closed after %d frames", r.frameIndex)
	return nil
}
