package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/A-Imbert/Ray-Tracer/engine/renderer/bind_group_provider"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/compiler"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/pipeline"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Binding indices of the non-scene resources in bind group 0.
const (
	BindingFrame   = 0
	BindingOutput  = 4
	BindingCurrent = 5
	BindingHistory = 6
)

// SurfaceFormat is the texel format of every surface the wgpu backend creates.
const SurfaceFormat = wgpu.TextureFormatRGBA32Float

// ErrForeignBuffer is returned when the wgpu backend receives scene buffers it did not allocate.
var ErrForeignBuffer = errors.New("renderer: scene buffer is not a wgpu buffer")

// requiredBindings is the bind group 0 contract every tracer kernel must declare.
var requiredBindings = map[int]shader.BindingKind{
	BindingFrame:               shader.BindingUniform,
	compiler.BindingTriangles:  shader.BindingReadOnlyStorage,
	compiler.BindingObjects:    shader.BindingReadOnlyStorage,
	compiler.BindingSpheres:    shader.BindingReadOnlyStorage,
	BindingOutput:              shader.BindingStorageTexture,
	BindingCurrent:             shader.BindingTexture,
	BindingHistory:             shader.BindingTexture,
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	shader               shader.Shader

	allocator      bind_group_provider.BufferAllocator
	pipelineCache  map[string]pipeline.Pipeline
	module         *wgpu.ShaderModule
	layout         *wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout
	frameUniform   *wgpu.Buffer

	// Placeholders bound where a pass does not read a resource
	dummySurface *wgpuSurface
	dummyBuffer  bind_group_provider.Buffer

	// The last traced scene and frame, reused by Blend for its uniform and bindings
	lastBindings compiler.SceneBindings
	lastParams   FrameParams

	released bool
}

// WGPURendererBackend is the WebGPU compute implementation of RendererBackend.
// It runs the trace and blend entry points of a WGSL kernel over RGBA32F storage textures.
type WGPURendererBackend interface {
	RendererBackend

	// Device returns the wgpu device.
	Device() *wgpu.Device

	// Queue returns the device queue.
	Queue() *wgpu.Queue

	// Pipeline retrieves the registered Pipeline for the given entry point key.
	//
	// Parameters:
	//   - key: shader.EntryTrace or shader.EntryBlend
	//
	// Returns:
	//   - pipeline.Pipeline: the pipeline, or nil if not registered
	Pipeline(key string) pipeline.Pipeline

	// WrapTexture adapts an externally owned texture into a Surface, e.g. a presentation
	// target. The texture must use SurfaceFormat with StorageBinding, CopySrc and CopyDst
	// usage. Releasing the Surface releases only the view it created.
	//
	// Parameters:
	//   - label: debug label
	//   - texture: the texture to wrap
	//
	// Returns:
	//   - Surface: the wrapped texture
	//   - error: view creation error
	WrapTexture(label string, texture *wgpu.Texture) (Surface, error)
}

var _ WGPURendererBackend = &wgpuRendererBackendImpl{}

// ValidateKernel checks that s declares the trace and blend entry points and the bind group 0
// layout the wgpu backend binds. It needs no device.
//
// Parameters:
//   - s: the tracer kernel
//
// Returns:
//   - error: shader.ErrMissingEntryPoint or shader.ErrBindingMismatch wrapped with details
func ValidateKernel(s shader.Shader) error {
	return s.Require([]string{shader.EntryTrace, shader.EntryBlend}, requiredBindings)
}

// NewWGPURendererBackend requests a headless adapter and device, compiles the tracer kernel
// and registers its trace and blend pipelines.
//
// Parameters:
//   - options: functional options to configure the backend
//
// Returns:
//   - WGPURendererBackend: the ready backend
//   - error: adapter, device, shader contract or pipeline creation error
func NewWGPURendererBackend(options ...WGPURendererBackendOption) (WGPURendererBackend, error) {
	b := &wgpuRendererBackendImpl{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
	}
	for _, option := range options {
		option(b)
	}
	if b.shader == nil {
		b.shader = shader.NewRayTraceShader()
	}
	if err := ValidateKernel(b.shader); err != nil {
		return nil, err
	}

	if err := b.init(); err != nil {
		b.Release()
		return nil, err
	}
	logger.Infof("wgpu backend ready: shader=%s fallback=%t", b.shader.Key(), b.forceFallbackAdapter)
	return b, nil
}

func (b *wgpuRendererBackendImpl) init() error {
	b.instance = wgpu.CreateInstance(nil)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: b.forceFallbackAdapter,
	})
	if err != nil {
		return fmt.Errorf("renderer: request adapter: %w", err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Ray Tracer Device",
	})
	if err != nil {
		return fmt.Errorf("renderer: request device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()
	b.allocator = bind_group_provider.NewWGPUBufferAllocator(b.device, b.queue)

	if err := b.registerPipelines(); err != nil {
		return err
	}

	var frame GPUFrameUniform
	b.frameUniform, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            "Frame Uniform Buffer",
		Size:             uint64(frame.Size()),
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return fmt.Errorf("renderer: create frame uniform: %w", err)
	}

	b.dummySurface, err = b.createSurface("Placeholder Texture", 1, 1)
	if err != nil {
		return err
	}
	b.dummyBuffer, err = b.allocator.CreateBuffer("Placeholder Buffer", 4)
	if err != nil {
		return fmt.Errorf("renderer: create placeholder buffer: %w", err)
	}
	return nil
}

// registerPipelines creates the shared module and layout, then one compute pipeline per
// entry point.
func (b *wgpuRendererBackendImpl) registerPipelines() error {
	module, err := b.device.CreateShaderModule(b.shader.Module())
	if err != nil {
		return fmt.Errorf("renderer: compile %s: %w", b.shader.Key(), err)
	}
	b.module = module

	desc := b.shader.BindGroupLayoutDescriptor(0)
	b.layout, err = b.device.CreateBindGroupLayout(&desc)
	if err != nil {
		return fmt.Errorf("renderer: create bind group layout: %w", err)
	}

	b.pipelineLayout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            b.shader.Key() + " Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.layout},
	})
	if err != nil {
		return fmt.Errorf("renderer: create pipeline layout: %w", err)
	}

	for _, entry := range []string{shader.EntryTrace, shader.EntryBlend} {
		p := pipeline.NewComputePipeline(entry, b.shader)
		created, err := b.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
			Label:  p.PipelineKey() + " Compute Pipeline",
			Layout: b.pipelineLayout,
			Compute: wgpu.ProgrammableStageDescriptor{
				Module:     b.module,
				EntryPoint: p.EntryPoint(),
			},
		})
		if err != nil {
			return fmt.Errorf("renderer: create %s pipeline: %w", entry, err)
		}
		p.SetComputePipeline(created)
		b.pipelineCache[p.PipelineKey()] = p
	}
	return nil
}

func (b *wgpuRendererBackendImpl) Type() RendererBackendType {
	return BackendTypeWGPU
}

func (b *wgpuRendererBackendImpl) Allocator() bind_group_provider.BufferAllocator {
	return b.allocator
}

func (b *wgpuRendererBackendImpl) Device() *wgpu.Device {
	return b.device
}

func (b *wgpuRendererBackendImpl) Queue() *wgpu.Queue {
	return b.queue
}

func (b *wgpuRendererBackendImpl) Pipeline(key string) pipeline.Pipeline {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pipelineCache[key]
}

func (b *wgpuRendererBackendImpl) CreateSurface(label string, width, height int) (Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %s %dx%d", ErrInvalidSize, label, width, height)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.createSurface(label, width, height)
}

func (b *wgpuRendererBackendImpl) createSurface(label string, width, height int) (*wgpuSurface, error) {
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        SurfaceFormat,
		Usage: wgpu.TextureUsageStorageBinding | wgpu.TextureUsageTextureBinding |
			wgpu.TextureUsageCopySrc | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: create texture %s: %w", label, err)
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("renderer: create texture view %s: %w", label, err)
	}
	return &wgpuSurface{label: label, width: width, height: height, texture: tex, view: view, owned: true}, nil
}

func (b *wgpuRendererBackendImpl) WrapTexture(label string, texture *wgpu.Texture) (Surface, error) {
	view, err := texture.CreateView(nil)
	if err != nil {
		return nil, fmt.Errorf("renderer: create texture view %s: %w", label, err)
	}
	return &wgpuSurface{
		label:   label,
		width:   int(texture.GetWidth()),
		height:  int(texture.GetHeight()),
		texture: texture,
		view:    view,
	}, nil
}

func (b *wgpuRendererBackendImpl) Copy(dst, src Surface) error {
	d, s, err := deviceSurfaces(dst, src)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	err = encoder.CopyTextureToTexture(
		&wgpu.ImageCopyTexture{Texture: s[0].texture, MipLevel: 0, Origin: wgpu.Origin3D{}, Aspect: wgpu.TextureAspectAll},
		&wgpu.ImageCopyTexture{Texture: d.texture, MipLevel: 0, Origin: wgpu.Origin3D{}, Aspect: wgpu.TextureAspectAll},
		&wgpu.Extent3D{Width: uint32(d.width), Height: uint32(d.height), DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("renderer: copy %s to %s: %w", s[0].label, d.label, err)
	}
	return b.submit(encoder)
}

func (b *wgpuRendererBackendImpl) Trace(dst Surface, bindings compiler.SceneBindings, params FrameParams) error {
	d, _, err := deviceSurfaces(dst)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastBindings, b.lastParams = bindings, params
	frame := params.GPU()
	b.queue.WriteBuffer(b.frameUniform, 0, frame.Marshal())

	return b.dispatch(shader.EntryTrace, bindings, d, b.dummySurface, b.dummySurface)
}

func (b *wgpuRendererBackendImpl) Blend(dst, current, history Surface, frameCount int) error {
	d, s, err := deviceSurfaces(dst, current, history)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	frame := b.lastParams.WithAccumulatedFrames(frameCount).GPU()
	frame.Resolution = [2]uint32{uint32(d.width), uint32(d.height)}
	b.queue.WriteBuffer(b.frameUniform, 0, frame.Marshal())

	return b.dispatch(shader.EntryBlend, b.lastBindings, d, s[0], s[1])
}

// dispatch binds the frame uniform, scene buffers and textures, then runs one compute pass
// of the given entry point over the output.
func (b *wgpuRendererBackendImpl) dispatch(entry string, bindings compiler.SceneBindings, output, current, history *wgpuSurface) error {
	p := b.pipelineCache[entry]

	scene := make([]*wgpu.Buffer, 0, 3)
	for _, buf := range []bind_group_provider.Buffer{bindings.Triangles, bindings.Objects, bindings.Spheres} {
		if buf == nil {
			buf = b.dummyBuffer
		}
		wb, ok := buf.(bind_group_provider.WGPUBuffer)
		if !ok || wb.Raw() == nil {
			return fmt.Errorf("%w: %s", ErrForeignBuffer, buf.Label())
		}
		scene = append(scene, wb.Raw())
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  p.PipelineKey() + " Bind Group",
		Layout: b.layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: BindingFrame, Buffer: b.frameUniform, Offset: 0, Size: wgpu.WholeSize},
			{Binding: compiler.BindingTriangles, Buffer: scene[0], Offset: 0, Size: wgpu.WholeSize},
			{Binding: compiler.BindingObjects, Buffer: scene[1], Offset: 0, Size: wgpu.WholeSize},
			{Binding: compiler.BindingSpheres, Buffer: scene[2], Offset: 0, Size: wgpu.WholeSize},
			{Binding: BindingOutput, TextureView: output.view},
			{Binding: BindingCurrent, TextureView: current.view},
			{Binding: BindingHistory, TextureView: history.view},
		},
	})
	if err != nil {
		return fmt.Errorf("renderer: create %s bind group: %w", entry, err)
	}
	defer bindGroup.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	groups := p.WorkgroupCount(output.width, output.height)
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(p.ComputePipeline())
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(groups[0], groups[1], groups[2])
	pass.End()

	return b.submit(encoder)
}

func (b *wgpuRendererBackendImpl) submit(encoder *wgpu.CommandEncoder) error {
	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	return nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return
	}
	b.released = true

	for key, p := range b.pipelineCache {
		p.Release()
		delete(b.pipelineCache, key)
	}
	if b.dummySurface != nil {
		b.dummySurface.Release()
		b.dummySurface = nil
	}
	if b.dummyBuffer != nil {
		b.dummyBuffer.Release()
		b.dummyBuffer = nil
	}
	if b.frameUniform != nil {
		b.frameUniform.Release()
		b.frameUniform = nil
	}
	if b.pipelineLayout != nil {
		b.pipelineLayout.Release()
		b.pipelineLayout = nil
	}
	if b.layout != nil {
		b.layout.Release()
		b.layout = nil
	}
	if b.module != nil {
		b.module.Release()
		b.module = nil
	}
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

// wgpuSurface is an RGBA32F texture and its default view.
type wgpuSurface struct {
	label   string
	width   int
	height  int
	texture *wgpu.Texture
	view    *wgpu.TextureView
	// owned surfaces release their texture, wrapped ones only the view
	owned bool
}

func (s *wgpuSurface) Width() int {
	return s.width
}

func (s *wgpuSurface) Height() int {
	return s.height
}

func (s *wgpuSurface) Release() {
	if s.view != nil {
		s.view.Release()
		s.view = nil
	}
	if s.texture != nil {
		if s.owned {
			s.texture.Release()
		}
		s.texture = nil
	}
}

// deviceSurfaces resolves dst and srcs to wgpu surfaces, checking ownership, liveness and size.
func deviceSurfaces(dst Surface, srcs ...Surface) (*wgpuSurface, []*wgpuSurface, error) {
	resolve := func(s Surface) (*wgpuSurface, error) {
		ws, ok := s.(*wgpuSurface)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrForeignSurface, s)
		}
		if ws.view == nil {
			return nil, fmt.Errorf("%w: %s", ErrSurfaceReleased, ws.label)
		}
		return ws, nil
	}

	d, err := resolve(dst)
	if err != nil {
		return nil, nil, err
	}
	out := make([]*wgpuSurface, 0, len(srcs))
	for _, s := range srcs {
		ws, err := resolve(s)
		if err != nil {
			return nil, nil, err
		}
		if ws.width != d.width || ws.height != d.height {
			return nil, nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrSizeMismatch, ws.width, ws.height, d.width, d.height)
		}
		out = append(out, ws)
	}
	return d, out, nil
}
