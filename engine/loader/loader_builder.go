package loader

import (
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/material"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithDefaultMaterial sets the material given to primitives that reference no material.
//
// Parameters:
//   - m: the fallback material
//
// Returns:
//   - LoaderBuilderOption: a function that applies the material option to a loader
func WithDefaultMaterial(m material.Material) LoaderBuilderOption {
	return func(l *loader) {
		l.defaultMaterial = m
	}
}

// WithAsset is an option builder that pre-populates the asset cache.
//
// Parameters:
//   - key: the cache key for the asset
//   - asset: the asset to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the asset option to a loader
func WithAsset(key string, asset *Asset) LoaderBuilderOption {
	return func(l *loader) {
		l.assetCache[key] = asset
	}
}
