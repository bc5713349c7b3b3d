package pipeline

import (
	"fmt"

	"github.com/A-Imbert/Ray-Tracer/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for labels and lookups
	pipelineKey string

	computeShader shader.Shader
	entryPoint    string

	// computePipeline is set once the backend has created the GPU object
	computePipeline *wgpu.ComputePipeline
}

// Pipeline describes one compute pass of the tracer: a shader module, the entry point to
// run and, once registered with a backend, the GPU pipeline object.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader returns the compute shader module.
	//
	// Returns:
	//   - shader.Shader: the shader
	Shader() shader.Shader

	// EntryPoint returns the compute entry point run by this pipeline.
	//
	// Returns:
	//   - string: the entry point name
	EntryPoint() string

	// WorkgroupCount returns the dispatch size covering a width x height grid with one
	// invocation per pixel.
	//
	// Parameters:
	//   - width, height: grid size in pixels
	//
	// Returns:
	//   - [3]uint32: workgroup counts for DispatchWorkgroups
	WorkgroupCount(width, height int) [3]uint32

	// ComputePipeline returns the GPU pipeline, or nil before registration.
	//
	// Returns:
	//   - *wgpu.ComputePipeline: the pipeline or nil
	ComputePipeline() *wgpu.ComputePipeline

	// SetComputePipeline stores the GPU pipeline created by the backend.
	//
	// Parameters:
	//   - p: the created compute pipeline
	SetComputePipeline(p *wgpu.ComputePipeline)

	// Release releases the GPU pipeline. Safe to call more than once.
	Release()
}

var _ Pipeline = &pipeline{}

// NewComputePipeline creates a Pipeline for one entry point of s.
// Panics if s has no such entry point.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - s: the compute shader
//   - opts: builder options
//
// Returns:
//   - Pipeline: the new pipeline descriptor
func NewComputePipeline(pipelineKey string, s shader.Shader, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:   pipelineKey,
		computeShader: s,
		entryPoint:    pipelineKey,
	}
	for _, opt := range opts {
		opt(p)
	}
	if _, ok := s.WorkgroupSize(p.entryPoint); !ok {
		panic(fmt.Sprintf("pipeline: shader %s has no compute entry point %q", s.Key(), p.entryPoint))
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader() shader.Shader {
	return p.computeShader
}

func (p *pipeline) EntryPoint() string {
	return p.entryPoint
}

func (p *pipeline) WorkgroupCount(width, height int) [3]uint32 {
	size, _ := p.computeShader.WorkgroupSize(p.entryPoint)
	return [3]uint32{
		(uint32(width) + size[0] - 1) / size[0],
		(uint32(height) + size[1] - 1) / size[1],
		1,
	}
}

func (p *pipeline) ComputePipeline() *wgpu.ComputePipeline {
	return p.computePipeline
}

func (p *pipeline) SetComputePipeline(cp *wgpu.ComputePipeline) {
	p.computePipeline = cp
}

func (p *pipeline) Release() {
	if p.computePipeline != nil {
		p.computePipeline.Release()
		p.computePipeline = nil
	}
}
