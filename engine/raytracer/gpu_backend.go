package raytracer

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-rt/common"
	"github.com/Carmen-Shannon/oxy-rt/engine/frame"
	"github.com/Carmen-Shannon/oxy-rt/engine/loader"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-rt/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/raytrace.wgsl
var raytraceSource string

//go:embed assets/fullscreen.wgsl
var fullscreenSource string

//go:embed assets/blend.wgsl
var blendSource string

//go:embed assets/present.wgsl
var presentSource string

// Pipeline keys registered by the GPU backend.
const (
	KernelPipelineKey  = "raytrace_kernel"
	BlendPipelineKey   = "progressive_blend"
	PresentPipelineKey = "present"
)

// TargetFormat is the texel format of both the kernel output and the accumulation texture.
const TargetFormat = wgpu.TextureFormatRGBA16Float

// GPUBackend is the WebGPU implementation of the kernel, the render target owner and the compositor.
//
// Each frame the kernel writes a noisy sample into the result texture. Composite blends it into a persistent
// accumulation texture with alpha = weight and then presents the accumulation texture to the surface.
type GPUBackend interface {
	Kernel
	TargetProvider
	Compositor
	SkyboxLoader
}

// gpuTarget is the per-size pair of textures. The accumulation texture lives exactly as long as the result texture,
// so a resize discards the accumulated history along with it.
type gpuTarget struct {
	width, height int

	resultTex  *wgpu.Texture
	resultView *wgpu.TextureView
	accumTex   *wgpu.Texture
	accumView  *wgpu.TextureView
}

func (t *gpuTarget) Width() int  { return t.width }
func (t *gpuTarget) Height() int { return t.height }

func (t *gpuTarget) release() {
	for _, v := range []*wgpu.TextureView{t.resultView, t.accumView} {
		if v != nil {
			v.Release()
		}
	}
	for _, tex := range []*wgpu.Texture{t.resultTex, t.accumTex} {
		if tex != nil {
			tex.Release()
		}
	}
}

// kernelBindings are the kernel's group 0 binding numbers, resolved from its annotations.
type kernelBindings struct {
	result, skyboxTexture, skyboxSampler, spheres, frame int
}

type gpuBackend struct {
	mu *sync.Mutex

	renderer renderer.Renderer
	loader   loader.Loader
	logger   *slog.Logger

	skyboxPath string
	exposure   float32
	tonemap    uint32

	kernelShader  shader.Shader
	blendShader   shader.Shader
	presentShader shader.Shader
	bindings      kernelBindings
	blendResult   int
	blendParamsAt int
	presentAccum  int
	presentAt     int

	kernelProvider bind_group_provider.BindGroupProvider
	skyboxProvider bind_group_provider.BindGroupProvider
	blend          material.Material
	present        material.Material
	blendParams    *material.GPUBlendParams
	presentParams  *material.GPUPresentParams

	target      *gpuTarget
	boundTarget *gpuTarget
	kernelDirty bool
	sampleIndex uint32
	released    bool
}

var _ GPUBackend = &gpuBackend{}

// NewGPUBackend compiles and registers the kernel, blend and present pipelines on r and uploads the skybox.
//
// Parameters:
//   - r: the renderer that owns the device and the surface
//   - options: variadic list of GPUBackendBuilderOption functions
//
// Returns:
//   - GPUBackend: the backend, ready for UploadScene and EnsureTarget
//   - error: an error if a shader, a pipeline or the skybox cannot be created
func NewGPUBackend(r renderer.Renderer, options ...GPUBackendBuilderOption) (GPUBackend, error) {
	b := &gpuBackend{
		mu:       &sync.Mutex{},
		renderer: r,
		logger:   slog.Default(),
		exposure: 1,
		tonemap:  material.TonemapACES,
	}
	for _, opt := range options {
		opt(b)
	}
	if b.loader == nil {
		b.loader = loader.NewLoader(loader.BackendTypeImage, loader.WithMaxDimension(r.MaxTextureDimension2D()))
	}

	if err := b.initPipelines(); err != nil {
		return nil, err
	}

	b.kernelProvider = bind_group_provider.NewBindGroupProvider("Ray Trace Kernel")
	b.blendParams = &material.GPUBlendParams{Weight: 1}
	b.presentParams = &material.GPUPresentParams{}
	var err error
	if b.blend, err = b.newPassMaterial("Progressive Blend", BlendPipelineKey, b.blendParams, b.blendParamsAt); err != nil {
		return nil, err
	}
	if b.present, err = b.newPassMaterial("Present", PresentPipelineKey, b.presentParams, b.presentAt); err != nil {
		return nil, err
	}

	if err := b.uploadSkybox(b.skyboxPath); err != nil {
		b.logger.Warn("skybox unavailable, using procedural sky", "path", b.skyboxPath, "error", err)
		if err := b.uploadSkybox(""); err != nil {
			return nil, fmt.Errorf("procedural skybox: %w", err)
		}
	}
	return b, nil
}

// newPassMaterial creates a fullscreen pass material whose provider owns a uniform buffer sized for params.
func (b *gpuBackend) newPassMaterial(name, key string, params material.Params, paramsBinding int) (material.Material, error) {
	buf, err := b.renderer.CreateBuffer(name+" Params", uint64(params.Size()), wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	if err != nil {
		return nil, fmt.Errorf("%s params: %w", name, err)
	}
	m := material.NewMaterial(
		material.WithName(name),
		material.WithPipelineKey(key),
		material.WithParams(params),
	)
	m.SetBindGroupProvider(bind_group_provider.NewBindGroupProvider(name, bind_group_provider.WithBuffer(paramsBinding, buf)))
	return m, nil
}

func (b *gpuBackend) initPipelines() error {
	vertexShader, err := b.compileShaders()
	if err != nil {
		return err
	}

	return b.renderer.RegisterPipelines(b.pipelines(vertexShader)...)
}

// progressiveBlend mixes a new sample into the accumulation texture with alpha = weight.
// Only RGB is written, so the accumulation alpha never drifts.
var progressiveBlend = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorZero,
		DstFactor: wgpu.BlendFactorOne,
		Operation: wgpu.BlendOperationAdd,
	},
}

func (b *gpuBackend) pipelines(vertexShader shader.Shader) []pipeline.Pipeline {
	blend := progressiveBlend
	return []pipeline.Pipeline{
		pipeline.NewPipeline(KernelPipelineKey, pipeline.PipelineTypeCompute,
			pipeline.WithComputeShader(b.kernelShader),
		),
		pipeline.NewPipeline(BlendPipelineKey, pipeline.PipelineTypeRender,
			pipeline.WithVertexShader(vertexShader),
			pipeline.WithFragmentShader(b.blendShader),
			pipeline.WithColorFormat(TargetFormat),
			pipeline.WithBlendEnabled(true),
			pipeline.WithBlendState(&blend),
			pipeline.WithWriteMask(wgpu.ColorWriteMaskRed|wgpu.ColorWriteMaskGreen|wgpu.ColorWriteMaskBlue),
		),
		pipeline.NewPipeline(PresentPipelineKey, pipeline.PipelineTypeRender,
			pipeline.WithVertexShader(vertexShader),
			pipeline.WithFragmentShader(b.presentShader),
		),
	}
}

// compileShaders builds the embedded shaders and resolves the bindings the backend writes to.
// It returns the shared fullscreen vertex shader.
func (b *gpuBackend) compileShaders() (shader.Shader, error) {
	var err error
	if b.kernelShader, err = shader.NewShader(KernelPipelineKey, shader.ShaderTypeCompute, raytraceSource); err != nil {
		return nil, err
	}
	vertexShader, err := shader.NewShader("fullscreen", shader.ShaderTypeVertex, fullscreenSource)
	if err != nil {
		return nil, err
	}
	if b.blendShader, err = shader.NewShader(BlendPipelineKey, shader.ShaderTypeFragment, blendSource); err != nil {
		return nil, err
	}
	if b.presentShader, err = shader.NewShader(PresentPipelineKey, shader.ShaderTypeFragment, presentSource); err != nil {
		return nil, err
	}

	lookups := []struct {
		s        shader.Shader
		identity shader.AnnotationArg
		role     shader.AnnotationArg
		dst      *int
	}{
		{b.kernelShader, shader.AnnotationArgResult, "", &b.bindings.result},
		{b.kernelShader, shader.AnnotationArgSkybox, shader.AnnotationArgTexture, &b.bindings.skyboxTexture},
		{b.kernelShader, shader.AnnotationArgSkybox, shader.AnnotationArgSampler, &b.bindings.skyboxSampler},
		{b.kernelShader, shader.AnnotationArgSpheres, "", &b.bindings.spheres},
		{b.kernelShader, shader.AnnotationArgFrameUniform, "", &b.bindings.frame},
		{b.blendShader, shader.AnnotationArgResult, "", &b.blendResult},
		{b.blendShader, shader.AnnotationArgBlendParams, "", &b.blendParamsAt},
		{b.presentShader, shader.AnnotationArgAccumulation, "", &b.presentAccum},
		{b.presentShader, shader.AnnotationArgPresentParams, "", &b.presentAt},
	}
	for _, l := range lookups {
		group, binding, ok := l.s.Binding(l.identity, l.role)
		if !ok || group != 0 {
			return nil, fmt.Errorf("shader %s declares no group 0 %s binding", l.s.Key(), l.identity)
		}
		*l.dst = binding
	}
	return vertexShader, nil
}

// uploadSkybox swaps in a new environment texture. The kernel bind group is rebuilt on the next Bind.
// Caller must hold the mutex or be the constructor.
func (b *gpuBackend) uploadSkybox(path string) error {
	tex, err := b.loader.Skybox(path)
	if err != nil {
		return err
	}

	provider := bind_group_provider.NewBindGroupProvider("Skybox")
	if err := b.renderer.InitTextureView(provider, b.bindings.skyboxTexture, tex); err != nil {
		provider.Release()
		return err
	}
	// Equirectangular: wrap around the horizon, clamp at the poles.
	if err := b.renderer.InitSampler(provider, b.bindings.skyboxSampler, common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeRepeat,
		AddressModeV: wgpu.AddressModeClampToEdge,
	}); err != nil {
		provider.Release()
		return err
	}

	b.kernelProvider.SetTextureView(b.bindings.skyboxTexture, provider.TextureView(b.bindings.skyboxTexture), true)
	b.kernelProvider.SetSampler(b.bindings.skyboxSampler, provider.Sampler(b.bindings.skyboxSampler), true)
	b.kernelDirty = true

	if b.skyboxProvider != nil {
		b.skyboxProvider.Release()
	}
	b.skyboxProvider = provider
	b.skyboxPath = path
	b.logger.Info("skybox uploaded", "path", path, "width", tex.Width, "height", tex.Height)
	return nil
}

func (b *gpuBackend) LoadSkybox(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.uploadSkybox(path)
}

func (b *gpuBackend) UploadScene(buffer *scene.Buffer) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if buffer == nil {
		b.kernelProvider.SetBuffer(b.bindings.spheres, nil)
		b.kernelDirty = true
		return nil
	}

	data := buffer.Marshal()
	buf, err := b.renderer.CreateBuffer("Spheres", uint64(len(data)), wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst)
	if err != nil {
		return fmt.Errorf("sphere buffer: %w", err)
	}
	b.kernelProvider.SetBuffer(b.bindings.spheres, buf)
	b.renderer.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: b.kernelProvider,
		Binding:  b.bindings.spheres,
		Data:     data,
	}})
	b.kernelDirty = true
	return nil
}

func (b *gpuBackend) EnsureTarget(width, height int) (RenderTarget, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.target != nil && b.target.width == width && b.target.height == height {
		return b.target, false, nil
	}

	t := &gpuTarget{width: width, height: height}
	var err error
	t.resultTex, t.resultView, err = b.renderer.CreateRenderTexture("Ray Trace Result", uint32(width), uint32(height),
		TargetFormat, wgpu.TextureUsageStorageBinding|wgpu.TextureUsageTextureBinding)
	if err != nil {
		return nil, false, fmt.Errorf("result texture: %w", err)
	}
	t.accumTex, t.accumView, err = b.renderer.CreateRenderTexture("Accumulation", uint32(width), uint32(height),
		TargetFormat, wgpu.TextureUsageRenderAttachment|wgpu.TextureUsageTextureBinding)
	if err != nil {
		t.release()
		return nil, false, fmt.Errorf("accumulation texture: %w", err)
	}

	b.renderer.Resize(width, height)

	blendProvider := b.blend.BindGroupProvider()
	blendProvider.ReleaseBindGroup()
	blendProvider.SetTextureView(b.blendResult, t.resultView, true)
	if err := b.renderer.InitBindGroup(blendProvider, b.blendShader.BindGroupLayoutDescriptors()[0], nil); err != nil {
		t.release()
		return nil, false, fmt.Errorf("blend bind group: %w", err)
	}

	presentProvider := b.present.BindGroupProvider()
	presentProvider.ReleaseBindGroup()
	presentProvider.SetTextureView(b.presentAccum, t.accumView, true)
	if err := b.renderer.InitBindGroup(presentProvider, b.presentShader.BindGroupLayoutDescriptors()[0], nil); err != nil {
		t.release()
		return nil, false, fmt.Errorf("present bind group: %w", err)
	}

	b.presentParams.Exposure = b.exposure
	b.presentParams.Tonemap = b.tonemap
	b.presentParams.EncodeSRGB = 1
	if isSRGB(b.renderer.SurfaceFormat()) {
		b.presentParams.EncodeSRGB = 0
	}
	b.writeParams(b.present, b.presentAt)

	if b.target != nil {
		b.target.release()
	}
	b.target = t
	return t, true, nil
}

func (b *gpuBackend) Bind(target RenderTarget, params frame.Parameters) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := target.(*gpuTarget)
	if !ok || t != b.target {
		return errors.New("render target was not created by this backend")
	}
	if b.kernelProvider.Buffer(b.bindings.spheres) == nil {
		return ErrSceneNotReady
	}

	if t != b.boundTarget {
		b.kernelProvider.SetTextureView(b.bindings.result, t.resultView, true)
		b.boundTarget = t
		b.kernelDirty = true
	}
	if b.kernelDirty || b.kernelProvider.BindGroup() == nil {
		b.kernelProvider.ReleaseBindGroup()
		if err := b.renderer.InitBindGroup(b.kernelProvider, b.kernelShader.BindGroupLayoutDescriptors()[0], nil); err != nil {
			return fmt.Errorf("kernel bind group: %w", err)
		}
		b.kernelDirty = false
	}

	uniform := params.Uniform()
	b.renderer.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: b.kernelProvider,
		Binding:  b.bindings.frame,
		Data:     uniform.Marshal(),
	}})
	b.sampleIndex = params.SampleIndex
	return nil
}

func (b *gpuBackend) Dispatch(groups [3]uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.renderer.BeginComputeFrame(); err != nil {
		return err
	}
	err := b.renderer.DispatchCompute(KernelPipelineKey, []bind_group_provider.BindGroupProvider{b.kernelProvider}, groups)
	return errors.Join(err, b.renderer.EndComputeFrame())
}

func (b *gpuBackend) Composite(target RenderTarget, weight float32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := target.(*gpuTarget)
	if !ok || t != b.target {
		return errors.New("render target was not created by this backend")
	}

	b.blendParams.Weight = weight
	b.blendParams.SampleIndex = b.sampleIndex
	b.writeParams(b.blend, b.blendParamsAt)

	if err := b.renderer.DrawOffscreen(b.blend.PipelineKey(), t.accumView, wgpu.LoadOpLoad,
		[]bind_group_provider.BindGroupProvider{b.blend.BindGroupProvider()}); err != nil {
		return fmt.Errorf("blend: %w", err)
	}

	if err := b.renderer.BeginFrame(); err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}
	drawErr := b.renderer.DrawFullscreen(b.present.PipelineKey(), []bind_group_provider.BindGroupProvider{b.present.BindGroupProvider()})
	endErr := b.renderer.EndFrame()
	b.renderer.Present()
	return errors.Join(drawErr, endErr)
}

// writeParams uploads a material's uniform to the buffer its provider created for the binding.
func (b *gpuBackend) writeParams(m material.Material, binding int) {
	b.renderer.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: m.BindGroupProvider(),
		Binding:  binding,
		Data:     m.Params().Marshal(),
	}})
}

func (b *gpuBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return
	}
	b.released = true

	b.kernelProvider.Release()
	b.blend.BindGroupProvider().Release()
	b.present.BindGroupProvider().Release()
	if b.skyboxProvider != nil {
		b.skyboxProvider.Release()
	}
	if b.target != nil {
		b.target.release()
		b.target = nil
	}
	b.boundTarget = nil
}

func isSRGB(format wgpu.TextureFormat) bool {
	return format == wgpu.TextureFormatBGRA8UnormSrgb || format == wgpu.TextureFormatRGBA8UnormSrgb
}
