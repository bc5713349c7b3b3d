package loader

import (
	"fmt"
	"io"
	"slices"

	"github.com/A-Imbert/Ray-Tracer/engine/renderer/material"
)

// supportedExtensions lists the required extensions a document may declare.
var supportedExtensions = []string{"KHR_materials_emissive_strength"}

// gltfLoaderBackendImpl is the implementation of gltfLoaderBackend.
type gltfLoaderBackendImpl struct {
	fallback material.Material
}

// gltfLoaderBackend is a loaderBackend implementation for glTF/GLB files. Each load parses
// into a fresh parser, so one backend serves concurrent loads.
type gltfLoaderBackend interface {
	loaderBackend
}

var _ gltfLoaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new glTF loader backend.
//
// Parameters:
//   - fallback: the material for primitives that reference none
//
// Returns:
//   - gltfLoaderBackend: the loader backend for glTF/GLB files
func newGLTFLoaderBackend(fallback material.Material) gltfLoaderBackend {
	return &gltfLoaderBackendImpl{fallback: fallback}
}

func (b *gltfLoaderBackendImpl) Load(path string) (*Asset, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, err
	}
	return b.extract(parser)
}

func (b *gltfLoaderBackendImpl) LoadReader(r io.Reader, isGLB bool) (*Asset, error) {
	parser := newGLTFParser()
	if err := parser.ParseReader(r, isGLB); err != nil {
		return nil, err
	}
	return b.extract(parser)
}

func (b *gltfLoaderBackendImpl) extract(parser gltfParser) (*Asset, error) {
	for _, ext := range parser.Document().ExtensionsRequired {
		if !slices.Contains(supportedExtensions, ext) {
			return nil, fmt.Errorf("%w: required extension %s", ErrUnsupported, ext)
		}
	}

	materials := newGLTFMaterialExtractor(parser, b.fallback)
	meshes, err := newGLTFMeshExtractor(parser, materials).ExtractScene()
	if err != nil {
		return nil, err
	}
	return &Asset{Meshes: meshes}, nil
}
