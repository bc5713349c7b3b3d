package tracer

import (
	"runtime"
	"sync"
	"time"

	"github.com/A-Imbert/Ray-Tracer/engine/renderer"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/compiler"
	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// surfaceOffset lifts bounce origins off the surface they left.
const surfaceOffset = 1e-4

// Tracer is the CPU implementation of the trace pass. It decodes the compiled scene from
// host buffers and path traces one sample per pixel, with rows split across a worker pool.
type Tracer interface {
	renderer.SoftwareTracer

	// Workers returns the number of rows traced concurrently.
	Workers() int

	// Close stops the row worker pool. Later frames are traced serially. Safe to call
	// more than once.
	Close()
}

type tracer struct {
	mu      *sync.Mutex
	workers int
	pool    worker.DynamicWorkerPool
}

var _ Tracer = &tracer{}

// NewTracer creates a CPU tracer with the provided options.
// By default rows are traced serially.
//
// Parameters:
//   - options: functional options to configure the tracer
//
// Returns:
//   - Tracer: the newly created tracer
func NewTracer(options ...TracerBuilderOption) Tracer {
	t := &tracer{mu: &sync.Mutex{}, workers: 1}
	for _, option := range options {
		option(t)
	}
	if t.workers < 1 {
		t.workers = runtime.NumCPU()
	}
	if t.workers > 1 {
		t.pool = worker.NewDynamicWorkerPool(t.workers, 256, 1*time.Second)
	}
	return t
}

func (t *tracer) Workers() int {
	return t.workers
}

func (t *tracer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pool != nil {
		t.pool.Stop()
		t.pool = nil
	}
}

func (t *tracer) Trace(dst *renderer.Image, bindings compiler.SceneBindings, params renderer.FrameParams) error {
	objects, triangles, spheres := params.Counts()
	scene, err := decodeScene(bindings, objects, triangles, spheres)
	if err != nil {
		return err
	}

	f := newFrame(scene, dst, params)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pool == nil || dst.Height < 2 {
		for y := range dst.Height {
			f.row(y)
		}
		return nil
	}

	var wg sync.WaitGroup
	for y := range dst.Height {
		wg.Add(1)
		row := y
		t.pool.SubmitTask(worker.Task{
			ID: row,
			Do: func() (any, error) {
				defer wg.Done()
				f.row(row)
				return nil, nil
			},
		})
	}
	wg.Wait()
	return nil
}

// frame holds everything a row needs. Rows write disjoint ranges of dst.
type frame struct {
	scene *sceneData
	dst   *renderer.Image

	localToWorld mgl32.Mat4
	origin       mgl32.Vec3
	right, up    mgl32.Vec3
	plane        [3]float32

	frameIndex uint32
	bounces    int
	rays       int
	diverge    float32
}

func newFrame(scene *sceneData, dst *renderer.Image, params renderer.FrameParams) *frame {
	cam := params.Camera()
	m := mgl32.Mat4(cam.LocalToWorld)
	settings := params.Settings()
	return &frame{
		scene:        scene,
		dst:          dst,
		localToWorld: m,
		origin:       m.Col(3).Vec3(),
		right:        m.Col(0).Vec3(),
		up:           m.Col(1).Vec3(),
		plane:        cam.PlaneParams,
		frameIndex:   params.FrameIndex(),
		bounces:      settings.MaxBounceCount,
		rays:         max(settings.RaysPerPixel, 1),
		diverge:      settings.DivergeStrength,
	}
}

func (f *frame) row(y int) {
	w, h := f.dst.Width, f.dst.Height
	for x := range w {
		r := newRNG(x, y, w, f.frameIndex)

		u := (float32(x) + 0.5) / float32(w)
		v := (float32(y) + 0.5) / float32(h)
		local := mgl32.Vec4{(u - 0.5) * f.plane[0], (0.5 - v) * f.plane[1], -f.plane[2], 1}
		focus := f.localToWorld.Mul4x1(local).Vec3()

		var total mgl32.Vec3
		for range f.rays {
			jx, jy := r.pointInCircle()
			scale := f.diverge / float32(w)
			origin := f.origin.Add(f.right.Mul(jx * scale)).Add(f.up.Mul(jy * scale))
			total = total.Add(f.radiance(origin, focus.Sub(origin).Normalize(), &r))
		}
		total = total.Mul(1 / float32(f.rays))
		f.dst.Set(x, y, [4]float32{total[0], total[1], total[2], 1})
	}
}

// radiance follows one path for up to bounces+1 segments, gathering emission tinted by the
// surface colours along the way.
func (f *frame) radiance(origin, dir mgl32.Vec3, r *rng) mgl32.Vec3 {
	var light mgl32.Vec3
	colour := mgl32.Vec3{1, 1, 1}
	for range f.bounces + 1 {
		h := f.scene.closestHit(origin, dir)
		if !h.ok {
			light = light.Add(mulElem(environment(dir), colour))
			break
		}
		m := h.material
		origin = h.point.Add(h.normal.Mul(surfaceOffset))
		diffuse := h.normal.Add(r.direction()).Normalize()
		specular := reflect(dir, h.normal)
		dir = lerp(diffuse, specular, m.Smoothness).Normalize()

		emitted := mgl32.Vec3(m.EmissionColour).Mul(m.EmissionStrength)
		light = light.Add(mulElem(emitted, colour))
		colour = mulElem(colour, mgl32.Vec3{m.Colour[0], m.Colour[1], m.Colour[2]})
	}
	return light
}

var (
	skyHorizon = mgl32.Vec3{1, 1, 1}
	skyZenith  = mgl32.Vec3{0.08, 0.37, 0.73}
	ground     = mgl32.Vec3{0.35, 0.3, 0.35}
)

// environment is the dim gradient sky seen by rays that leave the scene.
func environment(dir mgl32.Vec3) mgl32.Vec3 {
	t := math32.Pow(smoothstep(0, 0.4, dir[1]), 0.35)
	sky := lerp(skyHorizon, skyZenith, t)
	if dir[1] <= 0 {
		sky = ground
	}
	return sky.Mul(0.2)
}

func mulElem(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func reflect(dir, normal mgl32.Vec3) mgl32.Vec3 {
	return dir.Sub(normal.Mul(2 * dir.Dot(normal)))
}

func smoothstep(edge0, edge1, x float32) float32 {
	t := min(max((x-edge0)/(edge1-edge0), 0), 1)
	return t * t * (3 - 2*t)
}
