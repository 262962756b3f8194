package pipeline

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

const testCompute = `
@compute @workgroup_size(8, 8)
fn main(@builtin(global_invocation_id) id: vec3<u32>) {
}
`

const testVertex = `
@vertex
fn vs_main(@builtin(vertex_index) i: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`

func mustShader(t *testing.T, key string, st shader.ShaderType, src string) shader.Shader {
	t.Helper()
	s, err := shader.NewShader(key, st, src)
	if err != nil {
		t.Fatalf("NewShader(%s): %v", key, err)
	}
	return s
}

func TestValidate(t *testing.T) {
	cs := mustShader(t, "cs", shader.ShaderTypeCompute, testCompute)
	vs := mustShader(t, "vs", shader.ShaderTypeVertex, testVertex)

	tests := []struct {
		name string
		p    Pipeline
		want error
	}{
		{name: "compute ok", p: NewPipeline("k", PipelineTypeCompute, WithComputeShader(cs)), want: nil},
		{name: "compute missing", p: NewPipeline("k", PipelineTypeCompute), want: ErrMissingComputeShader},
		{name: "render missing fragment", p: NewPipeline("r", PipelineTypeRender, WithVertexShader(vs)), want: ErrMissingRenderShaders},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.p.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBlendStateOnlyWhenEnabled(t *testing.T) {
	if NewPipeline("a", PipelineTypeRender).BlendState() != nil {
		t.Fatal("BlendState() should be nil when blending is disabled")
	}
	p := NewPipeline("b", PipelineTypeRender, WithBlendEnabled(true), WithColorFormat(wgpu.TextureFormatRGBA16Float))
	bs := p.BlendState()
	if bs == nil {
		t.Fatal("BlendState() = nil with blending enabled")
	}
	if bs.Color.SrcFactor != wgpu.BlendFactorSrcAlpha || bs.Color.DstFactor != wgpu.BlendFactorOneMinusSrcAlpha {
		t.Fatalf("unexpected default color blend %+v", bs.Color)
	}
	if p.ColorFormat() != wgpu.TextureFormatRGBA16Float {
		t.Fatalf("ColorFormat() = %v", p.ColorFormat())
	}
}

func TestRenderStateOptions(t *testing.T) {
	custom := &wgpu.BlendState{
		Color: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorOne, DstFactor: wgpu.BlendFactorOne, Operation: wgpu.BlendOperationAdd},
	}
	rgb := wgpu.ColorWriteMaskRed | wgpu.ColorWriteMaskGreen | wgpu.ColorWriteMaskBlue

	tests := []struct {
		name      string
		opts      []PipelineBuilderOption
		wantBlend *wgpu.BlendState
		wantMask  wgpu.ColorWriteMask
	}{
		{name: "custom blend", opts: []PipelineBuilderOption{WithBlendEnabled(true), WithBlendState(custom)}, wantBlend: custom, wantMask: wgpu.ColorWriteMaskAll},
		{name: "custom blend disabled", opts: []PipelineBuilderOption{WithBlendState(custom)}, wantBlend: nil, wantMask: wgpu.ColorWriteMaskAll},
		{name: "rgb mask", opts: []PipelineBuilderOption{WithWriteMask(rgb)}, wantBlend: nil, wantMask: rgb},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPipeline("r", PipelineTypeRender, tt.opts...)
			if got := p.BlendState(); got != tt.wantBlend {
				t.Errorf("BlendState() = %+v, want %+v", got, tt.wantBlend)
			}
			if got := p.WriteMask(); got != tt.wantMask {
				t.Errorf("WriteMask() = %v, want %v", got, tt.wantMask)
			}
			if got := p.Topology(); got != wgpu.PrimitiveTopologyTriangleList {
				t.Errorf("Topology() = %v, want triangle list", got)
			}
		})
	}
}
