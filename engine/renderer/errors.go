package renderer

import "errors"

var (
	// ErrClosed is returned by Render after Close.
	ErrClosed = errors.New("renderer: closed")
	// ErrNilSurface is returned when Render is given a nil surface it needs.
	ErrNilSurface = errors.New("renderer: nil surface")
	// ErrForeignSurface is returned when a backend receives a surface it did not create.
	ErrForeignSurface = errors.New("renderer: surface belongs to another backend")
	// ErrSizeMismatch is returned when surfaces passed to Copy or Blend differ in size.
	ErrSizeMismatch = errors.New("renderer: surface size mismatch")
	// ErrInvalidSize is returned when a surface is requested with a non-positive dimension.
	ErrInvalidSize = errors.New("renderer: invalid surface size")
	// ErrSurfaceReleased is returned when a released surface is used.
	ErrSurfaceReleased = errors.New("renderer: surface released")
)
