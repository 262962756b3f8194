// Package pipeline describes compute and full-screen render pipelines and the shaders they are built from.
package pipeline

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineType identifies whether a pipeline is a compute pipeline or a render pipeline.
type PipelineType int

const (
	// PipelineTypeCompute indicates a compute pipeline with a single compute shader entry point.
	PipelineTypeCompute PipelineType = iota

	// PipelineTypeRender indicates a render pipeline with vertex and fragment shader entry points.
	PipelineTypeRender
)

var (
	// ErrMissingComputeShader is returned when a compute pipeline has no compute shader.
	ErrMissingComputeShader = errors.New("compute pipeline requires a compute shader")

	// ErrMissingRenderShaders is returned when a render pipeline lacks its vertex or fragment shader.
	ErrMissingRenderShaders = errors.New("render pipeline requires vertex and fragment shaders")
)

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	pipelineType PipelineType
	pipelineKey  string

	vertexShader, fragmentShader, computeShader shader.Shader

	renderPipeline  *wgpu.RenderPipeline
	computePipeline *wgpu.ComputePipeline

	// Render-only state. Compute pipelines carry the defaults but never read them.
	colorFormat  wgpu.TextureFormat
	blendEnabled bool
	blendState   *wgpu.BlendState
	topology     wgpu.PrimitiveTopology
	writeMask    wgpu.ColorWriteMask
}

// Pipeline wraps a GPU compute pipeline or a single-target render pipeline together with the
// shaders and fixed-function state it is created from. The renderer creates the GPU object
// on registration and stores it back via SetRenderPipeline / SetComputePipeline.
type Pipeline interface {
	// Type returns the type of the pipeline.
	//
	// Returns:
	//   - PipelineType: the type of the pipeline (render or compute)
	Type() PipelineType

	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the shader for a stage, or nil if not set.
	//
	// Parameters:
	//   - shaderType: the stage to retrieve
	//
	// Returns:
	//   - shader.Shader: the shader for the stage, or nil
	Shader(shaderType shader.ShaderType) shader.Shader

	// Pipeline returns the underlying *wgpu.RenderPipeline or *wgpu.ComputePipeline.
	//
	// Returns:
	//   - any: the underlying pipeline object, or nil before registration
	Pipeline() any

	// ColorFormat returns the render target format. TextureFormatUndefined means the surface format.
	//
	// Returns:
	//   - wgpu.TextureFormat: the color target format
	ColorFormat() wgpu.TextureFormat

	// BlendState returns the blend state, or nil when blending is disabled.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state or nil
	BlendState() *wgpu.BlendState

	Topology() wgpu.PrimitiveTopology
	WriteMask() wgpu.ColorWriteMask

	// Validate reports whether the shaders required by the pipeline type are present.
	//
	// Returns:
	//   - error: ErrMissingComputeShader, ErrMissingRenderShaders, or nil
	Validate() error

	SetRenderPipeline(p *wgpu.RenderPipeline)
	SetComputePipeline(p *wgpu.ComputePipeline)

	// Release releases the GPU pipeline object, if created.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a new Pipeline of the given type.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - pipelineType: the type of pipeline to create (render or compute)
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified type and configuration
func NewPipeline(pipelineKey string, pipelineType PipelineType, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:  pipelineKey,
		pipelineType: pipelineType,
		colorFormat:  wgpu.TextureFormatUndefined,
		topology:     wgpu.PrimitiveTopologyTriangleList,
		writeMask:    wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) Type() PipelineType {
	return p.pipelineType
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	case shader.ShaderTypeCompute:
		return p.computeShader
	}
	return nil
}

func (p *pipeline) Pipeline() any {
	switch p.pipelineType {
	case PipelineTypeRender:
		return p.renderPipeline
	case PipelineTypeCompute:
		return p.computePipeline
	}
	return nil
}

func (p *pipeline) ColorFormat() wgpu.TextureFormat {
	return p.colorFormat
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	if !p.blendEnabled {
		return nil
	}
	return p.blendState
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) Validate() error {
	switch p.pipelineType {
	case PipelineTypeCompute:
		if p.computeShader == nil {
			return ErrMissingComputeShader
		}
	case PipelineTypeRender:
		if p.vertexShader == nil || p.fragmentShader == nil {
			return ErrMissingRenderShaders
		}
	}
	return nil
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) SetComputePipeline(cp *wgpu.ComputePipeline) {
	p.computePipeline = cp
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
	if p.computePipeline != nil {
		p.computePipeline.Release()
		p.computePipeline = nil
	}
}
