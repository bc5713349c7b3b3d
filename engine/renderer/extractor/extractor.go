package extractor

import (
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/A-Imbert/Ray-Tracer/common"
	"github.com/A-Imbert/Ray-Tracer/engine/game_object"
	"github.com/A-Imbert/Ray-Tracer/engine/model"
	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/go-gl/mathgl/mgl32"
)

// SpherePolicy decides how an object's scale affects a sphere's world radius.
type SpherePolicy int

const (
	// SphereScaleUniform requires |sx|, |sy| and |sz| to agree within a relative tolerance
	// of 1e-4 and multiplies the radius by |sx|.
	SphereScaleUniform SpherePolicy = iota
	// SphereScaleMaxAxis multiplies the radius by the largest absolute axis scale,
	// giving a sphere that bounds the scaled ellipsoid.
	SphereScaleMaxAxis
)

// String returns the policy name.
func (p SpherePolicy) String() string {
	switch p {
	case SphereScaleUniform:
		return "uniform"
	case SphereScaleMaxAxis:
		return "max-axis"
	default:
		return fmt.Sprintf("SpherePolicy(%d)", int(p))
	}
}

const uniformScaleTolerance = 1e-4

// minParallelTriangles is the triangle count below which the fill pass stays serial.
const minParallelTriangles = 4096

// Result is the flattened mesh geometry of one extraction.
// Objects, ObjectIDs and each object's triangle range are in input order.
type Result struct {
	Objects   []model.GPUObjectInfo
	ObjectIDs []uint64
	Triangles []model.GPUTriangle
}

// Extractor flattens renderable objects into packed world-space records.
type Extractor interface {
	// Extract converts mesh renderables into object records and one flat triangle array.
	// Each object's triangles occupy the contiguous range
	// [FirstTriIndex, FirstTriIndex+NumTriangles) and ranges follow input order.
	// Sphere renderables in objects are skipped.
	//
	// Parameters:
	//   - objects: the mesh renderables, in the order their triangles should appear
	//
	// Returns:
	//   - *Result: the extracted records
	//   - error: ErrMissingMesh or ErrMalformedMesh wrapped with the object id
	Extract(objects []game_object.GameObject) (*Result, error)

	// ExtractSpheres converts sphere renderables into sphere records according to the
	// configured SpherePolicy. Mesh renderables in objects are skipped.
	//
	// Parameters:
	//   - objects: the sphere renderables
	//
	// Returns:
	//   - []model.GPUSphere: one record per sphere, in input order
	//   - error: ErrNonUniformSphereScale wrapped with the object id
	ExtractSpheres(objects []game_object.GameObject) ([]model.GPUSphere, error)

	// SpherePolicy returns the configured sphere scale policy.
	SpherePolicy() SpherePolicy

	// Close stops the fill worker pool. Later extractions run serially. Safe to call
	// more than once.
	Close()
}

type extractor struct {
	mu           *sync.Mutex
	workers      int
	spherePolicy SpherePolicy
	pool         worker.DynamicWorkerPool
}

var _ Extractor = &extractor{}

// NewExtractor creates a new Extractor with the provided options.
// By default the fill pass runs serially and spheres use SphereScaleUniform.
//
// Parameters:
//   - options: functional options to configure the extractor
//
// Returns:
//   - Extractor: the newly created extractor
func NewExtractor(options ...ExtractorBuilderOption) Extractor {
	e := &extractor{mu: &sync.Mutex{}, workers: 1}
	for _, option := range options {
		option(e)
	}
	if e.workers < 1 {
		e.workers = max(runtime.NumCPU()-1, 1)
	}
	if e.workers > 1 {
		e.pool = worker.NewDynamicWorkerPool(e.workers, 256, 1*time.Second)
	}
	return e
}

// meshJob is one object's slice of the fill pass.
type meshJob struct {
	obj   game_object.GameObject
	mdl   model.Model
	xform mgl32.Mat4
	first int
}

func (e *extractor) SpherePolicy() SpherePolicy {
	return e.spherePolicy
}

func (e *extractor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pool != nil {
		e.pool.Stop()
		e.pool = nil
	}
}

func (e *extractor) Extract(objects []game_object.GameObject) (*Result, error) {
	// Pass 1: validate, count, assign offsets.
	jobs := make([]meshJob, 0, len(objects))
	total := 0
	for _, obj := range objects {
		if obj.Shape() != game_object.ShapeMesh {
			continue
		}
		mdl := obj.Model()
		if mdl == nil {
			return nil, fmt.Errorf("%w: object %d", ErrMissingMesh, obj.ID())
		}
		if err := mdl.Validate(); err != nil {
			return nil, fmt.Errorf("%w: object %d: %w", ErrMalformedMesh, obj.ID(), err)
		}
		jobs = append(jobs, meshJob{obj: obj, mdl: mdl, xform: obj.LocalToWorld(), first: total})
		total += mdl.TriangleCount()
	}

	res := &Result{
		Objects:   make([]model.GPUObjectInfo, len(jobs)),
		ObjectIDs: make([]uint64, len(jobs)),
		Triangles: make([]model.GPUTriangle, total),
	}

	// Pass 2: fill disjoint ranges.
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pool == nil || len(jobs) < 2 || total < minParallelTriangles {
		for i := range jobs {
			fillObject(res, i, &jobs[i])
		}
		return res, nil
	}

	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		idx := i
		e.pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				fillObject(res, idx, &jobs[idx])
				return nil, nil
			},
		})
	}
	wg.Wait()
	return res, nil
}

// fillObject writes job's triangles and object record. Each call touches only its own
// range of res.Triangles and its own index in res.Objects.
func fillObject(res *Result, idx int, job *meshJob) {
	verts := job.mdl.Vertices()
	norms := job.mdl.Normals()
	indices := job.mdl.Indices()
	count := len(indices) / 3

	tris := res.Triangles[job.first : job.first+count]
	for t := range tris {
		a, b, c := indices[t*3], indices[t*3+1], indices[t*3+2]
		tris[t] = model.GPUTriangle{
			PosA:    common.TransformPoint(job.xform, verts[a]),
			PosB:    common.TransformPoint(job.xform, verts[b]),
			PosC:    common.TransformPoint(job.xform, verts[c]),
			NormalA: common.TransformDirection(job.xform, norms[a]),
			NormalB: common.TransformDirection(job.xform, norms[b]),
			NormalC: common.TransformDirection(job.xform, norms[c]),
		}
	}

	bounds := WorldBounds(job.xform, job.mdl.Bounds())
	res.Objects[idx] = model.GPUObjectInfo{
		FirstTriIndex: uint32(job.first),
		NumTriangles:  uint32(count),
		Material:      job.obj.Material().GPU(),
		BoundsMin:     bounds.Min,
		BoundsMax:     bounds.Max,
	}
	res.ObjectIDs[idx] = job.obj.ID()
}

func (e *extractor) ExtractSpheres(objects []game_object.GameObject) ([]model.GPUSphere, error) {
	out := make([]model.GPUSphere, 0, len(objects))
	for _, obj := range objects {
		if obj.Shape() != game_object.ShapeSphere {
			continue
		}
		m := obj.LocalToWorld()
		scale, err := e.sphereScale(common.AxisScale(m))
		if err != nil {
			return nil, fmt.Errorf("%w: object %d", err, obj.ID())
		}
		mat := obj.Material()
		mat.Colour[3] = 1
		out = append(out, model.GPUSphere{
			Position: m.Col(3).Vec3(),
			Radius:   obj.Radius() * scale,
			Material: mat.GPU(),
		})
	}
	return out, nil
}

func (e *extractor) sphereScale(s mgl32.Vec3) (float32, error) {
	ax, ay, az := abs32(s[0]), abs32(s[1]), abs32(s[2])
	largest := max(ax, ay, az)
	if e.spherePolicy == SphereScaleMaxAxis {
		return largest, nil
	}
	smallest := min(ax, ay, az)
	if largest-smallest > uniformScaleTolerance*largest {
		return 0, ErrNonUniformSphereScale
	}
	return ax, nil
}

func abs32(v float32) float32 {
	return float32(math.Abs(float64(v)))
}

// WorldBounds transforms the eight corners of a local bounding box and returns their
// component-wise min and max. The result contains every transformed vertex of a mesh
// whose vertices lie inside local.
//
// Parameters:
//   - m: local-to-world matrix
//   - local: local-space bounds
//
// Returns:
//   - common.AABB: the world-space box
func WorldBounds(m mgl32.Mat4, local common.LocalBounds) common.AABB {
	box := common.EmptyAABB()
	for _, corner := range local.Corners() {
		box.Expand(common.TransformPoint(m, corner))
	}
	return box
}
