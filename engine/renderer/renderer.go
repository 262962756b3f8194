package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-rt/common"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrPipelineNotFound is returned when a draw or dispatch names a pipeline key that was never registered.
var ErrPipelineNotFound = errors.New("pipeline not found")

// SurfaceSource is anything that can hand the renderer a presentable surface and its size.
type SurfaceSource interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend
	logger      *slog.Logger

	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
}

// Renderer is the high-level GPU API used by the ray tracer.
//
// It owns a cache of pipelines keyed by PipelineKey and forwards resource creation, compute dispatch and
// fullscreen draws to an API-specific backend.
type Renderer interface {
	// Pipeline retrieves the registered Pipeline for key, or nil.
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines creates GPU objects for each pipeline and caches them by PipelineKey.
	// Keys that are already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: the first creation failure, wrapped with the pipeline key
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize reconfigures the surface. Zero dimensions are ignored.
	Resize(width, height int)

	// SetPresentMode changes the present mode. It takes effect on the next Resize.
	SetPresentMode(mode PresentMode)

	// SurfaceFormat returns the swapchain texture format chosen when the surface was configured.
	SurfaceFormat() wgpu.TextureFormat

	// MaxTextureDimension2D returns the largest width or height a 2D texture may have on this device.
	MaxTextureDimension2D() uint32

	// CreateRenderTexture creates a single-mip 2D texture and a default view over it.
	//
	// Parameters:
	//   - label: debug label
	//   - width, height: texture size in pixels
	//   - format: texel format
	//   - usage: texture usage flags
	//
	// Returns:
	//   - *wgpu.Texture: the texture, owned by the caller
	//   - *wgpu.TextureView: a view over the whole texture, owned by the caller
	//   - error: an error if creation fails
	CreateRenderTexture(label string, width, height uint32, format wgpu.TextureFormat, usage wgpu.TextureUsage) (*wgpu.Texture, *wgpu.TextureView, error)

	// CreateBuffer creates a GPU buffer. The size is rounded up to a multiple of 16 bytes.
	//
	// Parameters:
	//   - label: debug label
	//   - size: the minimum size in bytes
	//   - usage: buffer usage flags
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer, owned by the caller
	//   - error: an error if creation fails
	CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (*wgpu.Buffer, error)

	// InitBindGroup builds the provider's bind group from a reflected layout descriptor. Buffers the provider
	// does not already hold are created, sized by MinBindingSize unless bufferSizeOverrides names the binding.
	// Texture, storage texture and sampler bindings must already be set on the provider.
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error

	// InitTextureView uploads RGBA8 sRGB pixels into a new texture and stores its view on the provider.
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error

	// InitSampler creates a sampler from staging data, zero fields taking defaults, and stores it on the provider.
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// WriteBuffers queues buffer writes. Writes naming a missing buffer are skipped.
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginComputeFrame opens a command encoder shared by all DispatchCompute calls until EndComputeFrame.
	BeginComputeFrame() error

	// DispatchCompute records a compute pass for the pipeline registered under key.
	//
	// Parameters:
	//   - key: the compute pipeline key
	//   - bindGroups: providers bound at group indices 0..n-1
	//   - workGroupCount: the dispatch size in work groups
	//
	// Returns:
	//   - error: ErrPipelineNotFound, or an error if no compute frame is open
	DispatchCompute(key string, bindGroups []bind_group_provider.BindGroupProvider, workGroupCount [3]uint32) error

	// EndComputeFrame submits the recorded dispatches.
	EndComputeFrame() error

	// DrawOffscreen renders a fullscreen triangle with the pipeline registered under key into target and
	// submits immediately.
	DrawOffscreen(key string, target *wgpu.TextureView, loadOp wgpu.LoadOp, bindGroups []bind_group_provider.BindGroupProvider) error

	// BeginFrame acquires the next surface texture and opens a render pass that clears it.
	BeginFrame() error

	// DrawFullscreen records a fullscreen triangle into the open surface pass.
	DrawFullscreen(key string, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame ends the surface pass and submits it.
	EndFrame() error

	// Present shows the surface texture acquired by BeginFrame.
	Present()

	// Release destroys the device and surface. Pipelines are released first.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer over the given surface source.
//
// Parameters:
//   - backendType: the backend API to use
//   - source: the window (or other surface source) to render into
//   - options: optional configuration
//
// Returns:
//   - Renderer: the renderer
//   - error: an error if no adapter or device could be acquired
func NewRenderer(backendType RendererBackendType, source SurfaceSource, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		logger:        slog.Default(),
	}
	// Options go first so forceFallbackAdapter is known before the adapter request.
	for _, opt := range options {
		opt(r)
	}

	var err error
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend, err = newWGPURendererBackend(source.SurfaceDescriptor(), r.forceFallbackAdapter)
	}
	if err != nil {
		return nil, err
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.backend.ConfigureSurface(source.Width(), source.Height())
	return r, nil
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}

		for _, st := range []shader.ShaderType{shader.ShaderTypeCompute, shader.ShaderTypeVertex, shader.ShaderTypeFragment} {
			s := p.Shader(st)
			if s == nil {
				continue
			}
			if err := shader.Validate(s.Key(), s.Source()); err != nil {
				r.logger.Warn("shader failed front-end validation", "pipeline", key, "shader", s.Key(), "error", err)
			}
		}

		var err error
		if p.Type() == pipeline.PipelineTypeCompute {
			err = r.backend.RegisterComputePipeline(p)
		} else {
			err = r.backend.RegisterRenderPipeline(p)
		}
		if err != nil {
			return fmt.Errorf("register pipeline %s: %w", key, err)
		}
		r.pipelineCache[key] = p
		r.logger.Debug("registered pipeline", "pipeline", key)
	}
	return nil
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SurfaceFormat() wgpu.TextureFormat {
	return r.backend.SurfaceFormat()
}

func (r *renderer) MaxTextureDimension2D() uint32 {
	return r.backend.Limits().MaxTextureDimension2D
}

func (r *renderer) CreateRenderTexture(label string, width, height uint32, format wgpu.TextureFormat, usage wgpu.TextureUsage) (*wgpu.Texture, *wgpu.TextureView, error) {
	return r.backend.CreateRenderTexture(label, width, height, format, usage)
}

func (r *renderer) CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	return r.backend.CreateBuffer(label, size, usage)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error {
	return r.backend.InitBindGroup(provider, descriptor, bufferSizeOverrides)
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	return r.backend.InitTextureView(provider, bindingKey, stagingData)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	return r.backend.InitSampler(provider, bindingKey, samplerStagingData)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginComputeFrame() error {
	return r.backend.BeginComputeFrame()
}

func (r *renderer) DispatchCompute(key string, bindGroups []bind_group_provider.BindGroupProvider, workGroupCount [3]uint32) error {
	p := r.Pipeline(key)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrPipelineNotFound, key)
	}
	return r.backend.DispatchCompute(p, bindGroups, workGroupCount)
}

func (r *renderer) EndComputeFrame() error {
	return r.backend.EndComputeFrame()
}

func (r *renderer) DrawOffscreen(key string, target *wgpu.TextureView, loadOp wgpu.LoadOp, bindGroups []bind_group_provider.BindGroupProvider) error {
	p := r.Pipeline(key)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrPipelineNotFound, key)
	}
	return r.backend.DrawOffscreen(p, target, loadOp, bindGroups)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawFullscreen(key string, bindGroups []bind_group_provider.BindGroupProvider) error {
	p := r.Pipeline(key)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrPipelineNotFound, key)
	}
	return r.backend.DrawFullscreen(p, bindGroups)
}

func (r *renderer) EndFrame() error {
	return r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	r.mu.Unlock()
	r.backend.Release()
}
