package raytracer

import (
	"fmt"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestEmbeddedShadersCompile(t *testing.T) {
	b := &gpuBackend{}
	vertex, err := b.compileShaders()
	if err != nil {
		t.Fatalf("compileShaders: %v", err)
	}
	if vertex.ShaderType() != shader.ShaderTypeVertex {
		t.Errorf("vertex shader type = %v", vertex.ShaderType())
	}

	want := kernelBindings{result: 0, skyboxTexture: 1, skyboxSampler: 2, spheres: 3, frame: 4}
	if b.bindings != want {
		t.Errorf("kernel bindings = %+v, want %+v", b.bindings, want)
	}
	if got := b.kernelShader.WorkgroupSize(); got != [3]uint32{KernelTileSize, KernelTileSize, 1} {
		t.Errorf("kernel workgroup size = %v, want tile %d", got, KernelTileSize)
	}
	if b.blendResult != 0 || b.blendParamsAt != 1 || b.presentAccum != 0 || b.presentAt != 1 {
		t.Errorf("composite bindings = blend(%d, %d) present(%d, %d)", b.blendResult, b.blendParamsAt, b.presentAccum, b.presentAt)
	}
}

func TestKernelLayout(t *testing.T) {
	b := &gpuBackend{}
	if _, err := b.compileShaders(); err != nil {
		t.Fatalf("compileShaders: %v", err)
	}
	entries := map[uint32]wgpu.BindGroupLayoutEntry{}
	for _, e := range b.kernelShader.BindGroupLayoutDescriptors()[0].Entries {
		entries[e.Binding] = e
	}

	if got := entries[0].StorageTexture.Format; got != TargetFormat {
		t.Errorf("result format = %v, want %v", got, TargetFormat)
	}
	if got := entries[3].Buffer.Type; got != wgpu.BufferBindingTypeReadOnlyStorage {
		t.Errorf("spheres binding type = %v, want read-only storage", got)
	}
	if got := entries[4].Buffer.Type; got != wgpu.BufferBindingTypeUniform {
		t.Errorf("frame binding type = %v, want uniform", got)
	}
}

func TestIsSRGB(t *testing.T) {
	tests := []struct {
		format wgpu.TextureFormat
		want   bool
	}{
		{wgpu.TextureFormatBGRA8UnormSrgb, true},
		{wgpu.TextureFormatRGBA8UnormSrgb, true},
		{wgpu.TextureFormatBGRA8Unorm, false},
		{wgpu.TextureFormatRGBA16Float, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.format), func(t *testing.T) {
			if got := isSRGB(tt.format); got != tt.want {
				t.Errorf("isSRGB(%v) = %v, want %v", tt.format, got, tt.want)
			}
		})
	}
}

func TestTargetOwnershipChecks(t *testing.T) {
	b := &gpuBackend{mu: &sync.Mutex{}, target: &gpuTarget{width: 4, height: 4}}
	foreign := &gpuTarget{width: 4, height: 4}

	if err := b.Composite(foreign, 1); err == nil {
		t.Error("Composite accepted a target from another backend")
	}
	if got := b.target.Width() * b.target.Height(); got != 16 {
		t.Errorf("target area = %d, want 16", got)
	}
}

func TestBlendPipelineKeepsAccumulationAlpha(t *testing.T) {
	b := &gpuBackend{}
	vertex, err := b.compileShaders()
	if err != nil {
		t.Fatalf("compileShaders: %v", err)
	}

	byKey := map[string]pipeline.Pipeline{}
	for _, p := range b.pipelines(vertex) {
		byKey[p.PipelineKey()] = p
	}
	if len(byKey) != 3 {
		t.Fatalf("got %d pipelines, want 3", len(byKey))
	}

	blend := byKey[BlendPipelineKey]
	if blend.ColorFormat() != TargetFormat {
		t.Errorf("blend target = %v, want %v", blend.ColorFormat(), TargetFormat)
	}
	if got := blend.WriteMask(); got&wgpu.ColorWriteMaskAlpha != 0 {
		t.Errorf("blend write mask %v includes alpha", got)
	}
	bs := blend.BlendState()
	if bs == nil || bs.Color.SrcFactor != wgpu.BlendFactorSrcAlpha || bs.Color.DstFactor != wgpu.BlendFactorOneMinusSrcAlpha {
		t.Errorf("blend state = %+v, want alpha = weight mixing", bs)
	}

	if present := byKey[PresentPipelineKey]; present.BlendState() != nil || present.ColorFormat() != wgpu.TextureFormatUndefined {
		t.Error("present pipeline must draw opaque into the surface")
	}
}
