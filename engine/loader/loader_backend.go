package loader

import (
	"io"
)

// loaderBackend defines the generic interface for loading assets from files or streams.
// Concrete implementations (e.g., gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load imports the asset at the given file path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *Asset: the imported meshes and materials
	//   - error: error if loading fails
	Load(path string) (*Asset, error)

	// LoadReader imports an asset from a reader stream. External buffer URIs are resolved
	// relative to the working directory.
	//
	// Parameters:
	//   - r: the reader providing model data
	//   - isGLB: true if the reader provides GLB binary data, false for text-based formats
	//
	// Returns:
	//   - *Asset: the imported meshes and materials
	//   - error: error if loading fails
	LoadReader(r io.Reader, isGLB bool) (*Asset, error)
}
