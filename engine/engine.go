package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/A-Imbert/Ray-Tracer/engine/profiler"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer"
	"github.com/A-Imbert/Ray-Tracer/engine/scene"
	"github.com/A-Imbert/Ray-Tracer/log"
)

var logger = log.New("engine")

// ErrRenderPanic is returned by Run when a frame panicked.
var ErrRenderPanic = errors.New("engine: render panicked")

// engine is the implementation of the Engine interface.
type engine struct {
	mu *sync.Mutex

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	scene    scene.Scene
	renderer renderer.Renderer

	source renderer.Surface
	target renderer.Surface
	width  int
	height int

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickDelta      float32
	paused         bool
	frameCallback  func(frame int, target renderer.Surface) error
	renderFrameLim time.Duration // minimum frame duration; 0 = uncapped
	frames         int
}

// Engine is the headless frame driver. Each frame it advances the scene by the fixed tick
// delta and then renders into its target surface, strictly in that order, so a frame never
// observes a half-applied update.
type Engine interface {
	// Scene returns the driven scene.
	//
	// Returns:
	//   - scene.Scene: the scene
	Scene() scene.Scene

	// Renderer returns the renderer frames are drawn with.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// Target returns the surface each frame is presented into. It is replaced when Resize
	// changes the size.
	//
	// Returns:
	//   - renderer.Surface: the current target
	Target() renderer.Surface

	// Profiler returns the engine's profiler.
	//
	// Returns:
	//   - *profiler.Profiler: the profiler
	Profiler() *profiler.Profiler

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the simulated tick rate. Each frame advances the scene by 1/fps
	// seconds. Values <= 0 are ignored.
	//
	// Parameters:
	//   - fps: ticks per second
	SetTickRate(fps float64)

	// SetPaused stops or resumes scene ticking. A paused engine keeps rendering, so a static
	// scene keeps accumulating samples.
	//
	// Parameters:
	//   - paused: true to stop ticking
	SetPaused(paused bool)

	// SetFrameCallback sets a callback run after every frame with the frame number (from 1)
	// and the target. A non-nil error stops Run and is returned from it.
	//
	// Parameters:
	//   - callback: the per-frame callback, may be nil
	SetFrameCallback(callback func(frame int, target renderer.Surface) error)

	// SetRenderFrameLimit caps the frame rate. Values <= 0 remove the cap.
	//
	// Parameters:
	//   - fps: maximum frames per second
	SetRenderFrameLimit(fps float64)

	// Resize replaces the source and target surfaces with ones of the new size. The renderer
	// notices the new size on the next frame and restarts accumulation.
	//
	// Parameters:
	//   - width, height: the new size in pixels
	//
	// Returns:
	//   - error: renderer.ErrInvalidSize or a surface allocation error
	Resize(width, height int) error

	// Step ticks the scene once (unless paused) and renders one frame.
	//
	// Returns:
	//   - error: the render error; the frame is abandoned
	Step() error

	// Run steps until ctx is done, Quit is called, maxFrames frames have rendered
	// (maxFrames <= 0 means no limit) or a frame fails.
	//
	// Parameters:
	//   - ctx: cancels the loop
	//   - maxFrames: the frame budget
	//
	// Returns:
	//   - error: the first frame or callback error, ErrRenderPanic, or nil on a normal stop
	Run(ctx context.Context, maxFrames int) error

	// Frames returns the number of frames rendered so far.
	//
	// Returns:
	//   - int: the frame count
	Frames() int

	// Quit signals Run to stop after the current frame.
	// Safe to call multiple times and from any goroutine.
	Quit()

	// Close releases the engine's surfaces and closes the renderer. Safe to call more
	// than once.
	//
	// Returns:
	//   - error: the renderer close error
	Close() error
}

var _ Engine = &engine{}

// NewEngine creates a headless engine that renders sc with r into a width x height target.
// Panics if sc or r is nil.
//
// Parameters:
//   - sc: the scene to tick
//   - r: the renderer drawing sc; owned by the engine from here on
//   - width, height: the initial target size
//   - options: functional options to configure the engine
//
// Returns:
//   - Engine: the new engine
//   - error: the surface allocation error
func NewEngine(sc scene.Scene, r renderer.Renderer, width, height int, options ...EngineBuilderOption) (Engine, error) {
	if sc == nil {
		panic("engine: scene must not be nil")
	}
	if r == nil {
		panic("engine: renderer must not be nil")
	}

	e := &engine{
		mu:          &sync.Mutex{},
		quitChannel: make(chan struct{}),
		scene:       sc,
		renderer:    r,
		tickDelta:   1.0 / 60,
	}
	for _, opt := range options {
		opt(e)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler()
	}

	if err := e.Resize(width, height); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Target() renderer.Surface {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.target
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickDelta = float32(1 / fps)
}

func (e *engine) SetPaused(paused bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = paused
}

func (e *engine) SetFrameCallback(callback func(frame int, target renderer.Surface) error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frameCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if fps <= 0 {
		e.renderFrameLim = 0
		return
	}
	e.renderFrameLim = time.Duration(float64(time.Second) / fps)
}

func (e *engine) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", renderer.ErrInvalidSize, width, height)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.target != nil && e.width == width && e.height == height {
		return nil
	}

	backend := e.renderer.Backend()
	source, err := backend.CreateSurface("Engine Source", width, height)
	if err != nil {
		return fmt.Errorf("engine: create source: %w", err)
	}
	target, err := backend.CreateSurface("Engine Target", width, height)
	if err != nil {
		source.Release()
		return fmt.Errorf("engine: create target: %w", err)
	}

	e.releaseSurfaces()
	e.source, e.target = source, target
	e.width, e.height = width, height
	logger.Debugf("target resized to %dx%d", width, height)
	return nil
}

func (e *engine) Step() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.step()
}

// step runs one frame. Callers hold e.mu.
func (e *engine) step() error {
	if e.target == nil {
		return renderer.ErrClosed
	}
	if !e.paused {
		e.scene.Tick(e.tickDelta)
	}
	if err := e.renderer.Render(e.source, e.target); err != nil {
		return err
	}
	e.frames++

	if e.profilingEnabled {
		e.profiler.Tick(e.renderer.FrameCount())
	}
	if e.frameCallback != nil {
		if err := e.frameCallback(e.frames, e.target); err != nil {
			return err
		}
	}
	return nil
}

func (e *engine) Run(ctx context.Context, maxFrames int) (err error) {
	// Recover from panics inside a frame so the caller can still Close the engine.
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("render loop recovered from panic: %v", r)
			err = fmt.Errorf("%w: %v", ErrRenderPanic, r)
		}
	}()

	start := e.Frames()
	for maxFrames <= 0 || e.Frames()-start < maxFrames {
		select {
		case <-ctx.Done():
			return nil
		case <-e.quitChannel:
			return nil
		default:
		}

		frameStart := time.Now()
		limit, stepErr := e.frame()
		if stepErr != nil {
			logger.Errorf("frame %d failed: %v", e.Frames()+1, stepErr)
			return stepErr
		}

		// Frame rate limiting
		if limit > 0 {
			if remaining := limit - time.Since(frameStart); remaining > 0 {
				select {
				case <-time.After(remaining):
				case <-ctx.Done():
					return nil
				case <-e.quitChannel:
					return nil
				}
			}
		}
	}
	return nil
}

// frame runs one locked step and returns the frame limit to honour afterwards.
func (e *engine) frame() (time.Duration, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.renderFrameLim, e.step()
}

func (e *engine) Frames() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

// Quit signals the render loop to exit.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) Close() error {
	e.Quit()
	e.mu.Lock()
	e.releaseSurfaces()
	e.mu.Unlock()
	return e.renderer.Close()
}

// releaseSurfaces releases the source and target. Callers hold e.mu.
func (e *engine) releaseSurfaces() {
	if e.source != nil {
		e.source.Release()
		e.source = nil
	}
	if e.target != nil {
		e.target.Release()
		e.target = nil
	}
}
