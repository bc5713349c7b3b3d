package compiler

import (
	"fmt"
	"sync"
	"time"

	"github.com/A-Imbert/Ray-Tracer/engine/game_object"
	"github.com/A-Imbert/Ray-Tracer/engine/model"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/bind_group_provider"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/extractor"
	"github.com/A-Imbert/Ray-Tracer/log"
)

// Binding indices of the scene buffers in bind group 0.
const (
	BindingTriangles = 1
	BindingObjects   = 2
	BindingSpheres   = 3
)

// debugTriangleLimit caps how many triangles are dumped at Debug level per compile.
const debugTriangleLimit = 10

var logger = log.New("compiler")

// SceneBindings is the compiled scene handed to a tracer backend.
// Buffers always hold at least one element; the counts are the real element counts.
type SceneBindings struct {
	Triangles bind_group_provider.Buffer
	Objects   bind_group_provider.Buffer
	Spheres   bind_group_provider.Buffer

	TriangleCount int
	ObjectCount   int
	SphereCount   int
}

// Stats summarises the most recent compilation.
type Stats struct {
	Objects   int
	Triangles int
	Spheres   int

	ObjectBytes   uint64
	TriangleBytes uint64
	SphereBytes   uint64

	Compiles      int
	Reallocations int
	Released      int
	Duration      time.Duration
}

// Compiler packs extracted scene records into device buffers owned by its BindGroupProvider.
type Compiler interface {
	// Compile uploads the records into the triangle, object and sphere buffers. A buffer
	// is recreated only when its element count differs from the previous compile.
	//
	// Parameters:
	//   - objects: per-object records
	//   - triangles: flat world-space triangles
	//   - spheres: sphere records
	//
	// Returns:
	//   - SceneBindings: the buffers and counts
	//   - error: allocation or upload error
	Compile(objects []model.GPUObjectInfo, triangles []model.GPUTriangle, spheres []model.GPUSphere) (SceneBindings, error)

	// CompileObjects runs the extractor over meshes and spheres, then Compile.
	// An extraction error aborts before any buffer is touched.
	//
	// Parameters:
	//   - meshes: enabled mesh renderables in registration order
	//   - spheres: enabled sphere renderables in registration order
	//
	// Returns:
	//   - SceneBindings: the buffers and counts
	//   - error: extraction, allocation or upload error
	CompileObjects(meshes, spheres []game_object.GameObject) (SceneBindings, error)

	// Stats returns counts and sizes from the most recent compile.
	Stats() Stats

	// Provider returns the BindGroupProvider owning the scene buffers.
	Provider() bind_group_provider.BindGroupProvider

	// Release releases every scene buffer exactly once and stops the extractor's workers.
	// Safe to call more than once.
	Release()
}

type compiler struct {
	mu *sync.Mutex

	provider  bind_group_provider.BindGroupProvider
	extractor extractor.Extractor

	stats Stats
}

var _ Compiler = &compiler{}

// NewCompiler creates a new Compiler with the provided options.
// Defaults to a host-memory provider and a serial extractor.
//
// Parameters:
//   - options: functional options to configure the compiler
//
// Returns:
//   - Compiler: the newly created compiler
func NewCompiler(options ...CompilerBuilderOption) Compiler {
	c := &compiler{mu: &sync.Mutex{}}
	for _, option := range options {
		option(c)
	}
	if c.provider == nil {
		c.provider = bind_group_provider.NewBindGroupProvider("Scene")
	}
	if c.extractor == nil {
		c.extractor = extractor.NewExtractor()
	}
	return c
}

func (c *compiler) Provider() bind_group_provider.BindGroupProvider {
	return c.provider
}

func (c *compiler) CompileObjects(meshes, spheres []game_object.GameObject) (SceneBindings, error) {
	res, err := c.extractor.Extract(meshes)
	if err != nil {
		return SceneBindings{}, err
	}
	sphereRecords, err := c.extractor.ExtractSpheres(spheres)
	if err != nil {
		return SceneBindings{}, err
	}
	if log.Enabled(log.Debug) {
		for i, obj := range res.Objects {
			logger.Debugf("object %d (id %d): first=%d count=%d bounds=%v..%v", i, res.ObjectIDs[i], obj.FirstTriIndex, obj.NumTriangles, obj.BoundsMin, obj.BoundsMax)
		}
	}
	return c.Compile(res.Objects, res.Triangles, sphereRecords)
}

func (c *compiler) Compile(objects []model.GPUObjectInfo, triangles []model.GPUTriangle, spheres []model.GPUSphere) (SceneBindings, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()

	var (
		tri model.GPUTriangle
		obj model.GPUObjectInfo
		sph model.GPUSphere
	)
	uploads := []struct {
		binding int
		stride  int
		count   int
		data    []byte
	}{
		{BindingTriangles, tri.Size(), len(triangles), model.MarshalSlice(triangles)},
		{BindingObjects, obj.Size(), len(objects), model.MarshalSlice(objects)},
		{BindingSpheres, sph.Size(), len(spheres), model.MarshalSlice(spheres)},
	}

	writes := make([]bind_group_provider.BufferWrite, 0, len(uploads))
	for _, u := range uploads {
		if _, _, err := c.provider.EnsureBuffer(u.binding, u.stride, u.count); err != nil {
			return SceneBindings{}, fmt.Errorf("compiler: binding %d: %w", u.binding, err)
		}
		if len(u.data) > 0 {
			writes = append(writes, bind_group_provider.BufferWrite{Binding: u.binding, Offset: 0, Data: u.data})
		}
	}
	if err := c.provider.Write(writes...); err != nil {
		return SceneBindings{}, fmt.Errorf("compiler: upload: %w", err)
	}

	bindings := SceneBindings{
		Triangles:     c.provider.Buffer(BindingTriangles),
		Objects:       c.provider.Buffer(BindingObjects),
		Spheres:       c.provider.Buffer(BindingSpheres),
		TriangleCount: len(triangles),
		ObjectCount:   len(objects),
		SphereCount:   len(spheres),
	}

	c.stats = Stats{
		Objects:       len(objects),
		Triangles:     len(triangles),
		Spheres:       len(spheres),
		ObjectBytes:   bindings.Objects.Size(),
		TriangleBytes: bindings.Triangles.Size(),
		SphereBytes:   bindings.Spheres.Size(),
		Compiles:      c.stats.Compiles + 1,
		Reallocations: c.provider.Reallocations(),
		Released:      c.provider.Released(),
		Duration:      time.Since(start),
	}

	logger.Noticef("compiled scene: %d objects, %d triangles, %d spheres in %s", len(objects), len(triangles), len(spheres), c.stats.Duration)
	if log.Enabled(log.Debug) {
		for i := range min(len(triangles), debugTriangleLimit) {
			t := triangles[i]
			logger.Debugf("triangle %d: a=%v b=%v c=%v", i, t.PosA, t.PosB, t.PosC)
		}
	}

	return bindings, nil
}

func (c *compiler) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Released = c.provider.Released()
	return s
}

func (c *compiler) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.provider.Release()
	c.extractor.Close()
}
