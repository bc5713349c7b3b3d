package loader

import (
	"fmt"

	"github.com/A-Imbert/Ray-Tracer/engine/renderer/material"
)

// gltfMaterialExtractorImpl is the implementation of the gltfMaterialExtractor interface.
type gltfMaterialExtractorImpl struct {
	parser   gltfParser
	fallback material.Material
	cache    map[int]material.Material
}

// gltfMaterialExtractor maps glTF metallic-roughness materials onto tracer materials.
//
// The mapping reads constant factors only:
//   - baseColorFactor becomes Colour
//   - emissiveFactor becomes the emission colour, with KHR_materials_emissive_strength
//     (default 1) as its strength
//   - 1 - roughnessFactor becomes Smoothness
type gltfMaterialExtractor interface {
	// Extract returns the material at index, or the fallback material when index is nil.
	//
	// Parameters:
	//   - index: the primitive's material index, may be nil
	//
	// Returns:
	//   - material.Material: the converted material
	//   - error: ErrMalformed if index is out of range
	Extract(index *int) (material.Material, error)
}

var _ gltfMaterialExtractor = &gltfMaterialExtractorImpl{}

// newGLTFMaterialExtractor creates a new material extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//   - fallback: the material used by primitives without a material
//
// Returns:
//   - gltfMaterialExtractor: the material extractor
func newGLTFMaterialExtractor(parser gltfParser, fallback material.Material) gltfMaterialExtractor {
	return &gltfMaterialExtractorImpl{
		parser:   parser,
		fallback: fallback,
		cache:    make(map[int]material.Material),
	}
}

func (e *gltfMaterialExtractorImpl) Extract(index *int) (material.Material, error) {
	if index == nil {
		return e.fallback, nil
	}
	if cached, ok := e.cache[*index]; ok {
		return cached, nil
	}

	doc := e.parser.Document()
	if doc == nil {
		return material.Material{}, errNoDocument
	}
	if *index < 0 || *index >= len(doc.Materials) {
		return material.Material{}, fmt.Errorf("%w: material %d of %d", ErrMalformed, *index, len(doc.Materials))
	}

	mat := convertMaterial(&doc.Materials[*index])
	e.cache[*index] = mat
	return mat, nil
}

func convertMaterial(src *gltfMaterial) material.Material {
	colour := [4]float32{1, 1, 1, 1}
	roughness := float32(1)
	if pbr := src.PbrMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			colour = *pbr.BaseColorFactor
		}
		if pbr.RoughnessFactor != nil {
			roughness = *pbr.RoughnessFactor
		}
	}

	options := []material.MaterialBuilderOption{
		material.WithColour(colour[0], colour[1], colour[2], colour[3]),
		material.WithSmoothness(1 - roughness),
	}

	if ef := src.EmissiveFactor; ef != nil && (ef[0] > 0 || ef[1] > 0 || ef[2] > 0) {
		strength := float32(1)
		if ext := src.Extensions; ext != nil && ext.EmissiveStrength != nil && ext.EmissiveStrength.EmissiveStrength != nil {
			strength = *ext.EmissiveStrength.EmissiveStrength
		}
		options = append(options, material.WithEmission(ef[0], ef[1], ef[2], strength))
	}

	return material.NewMaterial(options...)
}
