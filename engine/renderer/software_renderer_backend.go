package renderer

import (
	"fmt"
	"sync"

	"github.com/A-Imbert/Ray-Tracer/engine/renderer/bind_group_provider"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/compiler"
)

// Image is a host-memory RGBA32F image, row-major from the top-left pixel.
type Image struct {
	Width  int
	Height int
	Pix    []float32
}

// NewImage allocates a zeroed image.
//
// Parameters:
//   - width, height: size in pixels
//
// Returns:
//   - *Image: the new image
func NewImage(width, height int) *Image {
	return &Image{Width: width, Height: height, Pix: make([]float32, width*height*4)}
}

// At returns the RGBA value at (x, y).
func (img *Image) At(x, y int) [4]float32 {
	i := (y*img.Width + x) * 4
	return [4]float32{img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]}
}

// Set writes the RGBA value at (x, y).
func (img *Image) Set(x, y int, c [4]float32) {
	i := (y*img.Width + x) * 4
	copy(img.Pix[i:i+4], c[:])
}

// SoftwareTracer renders one sample of a compiled scene into a host image.
// Scene buffers handed to it were created by the host allocator and implement
// bind_group_provider.HostBuffer.
type SoftwareTracer interface {
	// Trace writes one sample per pixel into dst.
	//
	// Parameters:
	//   - dst: destination image, sized params.Width() x params.Height()
	//   - bindings: the compiled scene
	//   - params: per-frame parameters
	//
	// Returns:
	//   - error: decode error or nil
	Trace(dst *Image, bindings compiler.SceneBindings, params FrameParams) error
}

// SoftwareSurface is a Surface backed by a host Image.
type SoftwareSurface interface {
	Surface

	// Label returns the debug label.
	Label() string

	// Image returns the backing image, or nil after Release.
	Image() *Image
}

type softwareSurface struct {
	label string
	img   *Image
	w, h  int
}

var _ SoftwareSurface = &softwareSurface{}

// NewSoftwareSurface creates a host surface usable as a Render source or destination with
// the software backend.
//
// Parameters:
//   - label: debug label
//   - width, height: size in pixels
//
// Returns:
//   - SoftwareSurface: the new surface
func NewSoftwareSurface(label string, width, height int) SoftwareSurface {
	return &softwareSurface{label: label, img: NewImage(width, height), w: width, h: height}
}

func (s *softwareSurface) Label() string {
	return s.label
}

func (s *softwareSurface) Width() int {
	return s.w
}

func (s *softwareSurface) Height() int {
	return s.h
}

func (s *softwareSurface) Image() *Image {
	return s.img
}

func (s *softwareSurface) Release() {
	s.img = nil
}

type softwareBackend struct {
	mu        *sync.Mutex
	tracer    SoftwareTracer
	allocator bind_group_provider.BufferAllocator

	created  int
	released bool
}

var _ RendererBackend = &softwareBackend{}

// NewSoftwareBackend creates a CPU backend that runs tracer for the trace pass and blends
// on the host.
//
// Parameters:
//   - tracer: the CPU tracer, must not be nil; closed by Release when it has a Close method
//
// Returns:
//   - RendererBackend: the software backend
func NewSoftwareBackend(tracer SoftwareTracer) RendererBackend {
	if tracer == nil {
		panic("renderer: software backend requires a tracer")
	}
	return &softwareBackend{
		mu:        &sync.Mutex{},
		tracer:    tracer,
		allocator: bind_group_provider.NewHostBufferAllocator(),
	}
}

func (b *softwareBackend) Type() RendererBackendType {
	return BackendTypeSoftware
}

func (b *softwareBackend) Allocator() bind_group_provider.BufferAllocator {
	return b.allocator
}

func (b *softwareBackend) CreateSurface(label string, width, height int) (Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %s %dx%d", ErrInvalidSize, label, width, height)
	}
	b.mu.Lock()
	b.created++
	b.mu.Unlock()
	return NewSoftwareSurface(label, width, height), nil
}

func (b *softwareBackend) Copy(dst, src Surface) error {
	d, s, err := hostImages(dst, src)
	if err != nil {
		return err
	}
	copy(d.Pix, s[0].Pix)
	return nil
}

func (b *softwareBackend) Trace(dst Surface, bindings compiler.SceneBindings, params FrameParams) error {
	d, _, err := hostImages(dst)
	if err != nil {
		return err
	}
	return b.tracer.Trace(d, bindings, params)
}

func (b *softwareBackend) Blend(dst, current, history Surface, frameCount int) error {
	d, s, err := hostImages(dst, current, history)
	if err != nil {
		return err
	}
	w := blendWeight(frameCount)
	out, cur, prev := d.Pix, s[0].Pix, s[1].Pix
	for i := range out {
		out[i] = prev[i]*(1-w) + cur[i]*w
	}
	return nil
}

func (b *softwareBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return
	}
	b.released = true
	if c, ok := b.tracer.(interface{ Close() }); ok {
		c.Close()
	}
}

// hostImages resolves dst and srcs to their images, checking ownership, liveness and size.
func hostImages(dst Surface, srcs ...Surface) (*Image, []*Image, error) {
	resolve := func(s Surface) (*Image, error) {
		ss, ok := s.(*softwareSurface)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrForeignSurface, s)
		}
		if ss.img == nil {
			return nil, fmt.Errorf("%w: %s", ErrSurfaceReleased, ss.label)
		}
		return ss.img, nil
	}

	d, err := resolve(dst)
	if err != nil {
		return nil, nil, err
	}
	out := make([]*Image, 0, len(srcs))
	for _, s := range srcs {
		img, err := resolve(s)
		if err != nil {
			return nil, nil, err
		}
		if img.Width != d.Width || img.Height != d.Height {
			return nil, nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrSizeMismatch, img.Width, img.Height, d.Width, d.Height)
		}
		out = append(out, img)
	}
	return d, out, nil
}
