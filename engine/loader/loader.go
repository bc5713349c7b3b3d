package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/A-Imbert/Ray-Tracer/engine/game_object"
	"github.com/A-Imbert/Ray-Tracer/engine/model"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/material"
	"github.com/A-Imbert/Ray-Tracer/log"
)

var logger = log.New("loader")

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// Mesh is one triangle primitive of an asset with its node transform already applied.
type Mesh struct {
	Name     string
	Model    model.Model
	Material material.Material
}

// Asset is the ray-traceable content of one model file.
type Asset struct {
	Name   string
	Meshes []Mesh
}

// TriangleCount returns the total triangle count over every mesh.
//
// Returns:
//   - int: the triangle count
func (a *Asset) TriangleCount() int {
	total := 0
	for _, m := range a.Meshes {
		total += m.Model.TriangleCount()
	}
	return total
}

// Objects creates one mesh game object per asset mesh, carrying the mesh's model and
// material. The options are applied to every object after the model and material, so a
// shared position, scale or rotation places the whole asset.
//
// Parameters:
//   - options: game object options applied to every object
//
// Returns:
//   - []game_object.GameObject: the new objects, in mesh order
func (a *Asset) Objects(options ...game_object.GameObjectBuilderOption) []game_object.GameObject {
	out := make([]game_object.GameObject, len(a.Meshes))
	for i, m := range a.Meshes {
		opts := make([]game_object.GameObjectBuilderOption, 0, len(options)+2)
		opts = append(opts, game_object.WithModel(m.Model), game_object.WithMaterial(m.Material))
		opts = append(opts, options...)
		out[i] = game_object.NewGameObject(opts...)
	}
	return out
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	defaultMaterial material.Material

	assetCache map[string]*Asset

	backend loaderBackend
}

// Loader loads model files into ray-traceable Assets and caches them by path or name.
// The file format is abstracted behind a backend.
type Loader interface {
	// Load imports a model file and caches the result.
	// If the asset is already cached (by file path), the cached version is returned.
	// The backend is selected based on the file extension (.gltf/.glb → glTF backend).
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - *Asset: the loaded and cached asset
	//   - error: error if loading fails
	Load(path string) (*Asset, error)

	// LoadReader imports a model from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded asset
	//   - r: the reader providing model data
	//   - isGLB: true if the reader provides GLB binary data
	//
	// Returns:
	//   - *Asset: the loaded asset
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader, isGLB bool) (*Asset, error)

	// Get retrieves a cached asset by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - *Asset: the cached asset or nil
	Get(name string) *Asset

	// Assets returns a copy of the asset cache.
	//
	// Returns:
	//   - map[string]*Asset: all cached assets keyed by name
	Assets() map[string]*Asset
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
// Primitives without a material use a plain white diffuse material unless
// WithDefaultMaterial says otherwise.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:              sync.RWMutex{},
		defaultMaterial: material.NewMaterial(),
		assetCache:      make(map[string]*Asset),
	}

	for _, option := range options {
		option(l)
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend(l.defaultMaterial)
	}
	return l
}

func (l *loader) Load(path string) (*Asset, error) {
	if cached := l.Get(path); cached != nil {
		return cached, nil
	}

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	asset, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loader: load %s: %w", path, err)
	}
	asset.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	return l.store(path, asset), nil
}

func (l *loader) LoadReader(name string, r io.Reader, isGLB bool) (*Asset, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}
	if l.backend == nil {
		return nil, fmt.Errorf("%w: no loader backend configured", ErrUnsupported)
	}

	asset, err := l.backend.LoadReader(r, isGLB)
	if err != nil {
		return nil, fmt.Errorf("loader: load %q from reader: %w", name, err)
	}
	asset.Name = name

	return l.store(name, asset), nil
}

// store caches asset under key unless a concurrent load got there first, in which case
// the earlier asset wins.
func (l *loader) store(key string, asset *Asset) *Asset {
	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.assetCache[key]; ok {
		return existing
	}
	l.assetCache[key] = asset
	logger.Infof("loaded %s: %d meshes, %d triangles", key, len(asset.Meshes), asset.TriangleCount())
	return asset
}

func (l *loader) Get(name string) *Asset {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.assetCache[name]
}

func (l *loader) Assets() map[string]*Asset {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]*Asset, len(l.assetCache))
	for k, v := range l.assetCache {
		result[k] = v
	}
	return result
}

// resolveBackend selects an appropriate loader backend based on the file extension.
// Currently only glTF/GLB is supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
		if l.backend != nil {
			return l.backend, nil
		}
	}
	return nil, fmt.Errorf("%w: model format %q", ErrUnsupported, ext)
}
