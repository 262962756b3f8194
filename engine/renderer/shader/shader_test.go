package shader

import (
	"errors"
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

const kernelSource = `//@oxy:include frame_uniform

//@oxy:provider 0 0 result
@group(0) @binding(0) var result: texture_storage_2d<rgba16float, write>;
//@oxy:provider 0 1 skybox texture
@group(0) @binding(1) var skybox_tex: texture_2d<f32>;
//@oxy:provider 0 2 skybox sampler
@group(0) @binding(2) var skybox_sampler: sampler;
//@oxy:provider 0 3 spheres
@group(0) @binding(3) var<storage, read> spheres: array<f32>;
//@oxy:group 0 4 storage_uniform frame frame_uniform

/* block comment with @group(3) @binding(9) var ghost: sampler; */
@compute @workgroup_size(8, 8)
fn main(@builtin(global_invocation_id) id: vec3<u32>) {
    let dims = textureDimensions(result);
    if (id.x >= dims.x || id.y >= dims.y) {
        return;
    }
    textureStore(result, vec2<i32>(id.xy), vec4<f32>(frame.directional_light.xyz, 1.0));
}
`

func TestParseAnnotation(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantNil bool
		wantErr bool
		want    AnnotationType
	}{
		{name: "plain line", line: "let x = 1;", wantNil: true},
		{name: "include", line: "//@oxy:include blend_params", want: annotationTypeInclude},
		{name: "group", line: "//@oxy:group 1 0 storage_uniform params present_params", want: AnnotationTypeBindingGroup},
		{name: "provider with role", line: "//@oxy:provider 0 2 skybox sampler", want: AnnotationTypeProvider},
		{name: "empty", line: "//@oxy:", wantErr: true},
		{name: "unknown type", line: "//@oxy:bogus x", wantErr: true},
		{name: "unknown struct", line: "//@oxy:include camera", wantErr: true},
		{name: "bad group number", line: "//@oxy:group a 0 storage_uniform frame frame_uniform", wantErr: true},
		{name: "bad address space", line: "//@oxy:group 0 0 private frame frame_uniform", wantErr: true},
		{name: "unknown provider", line: "//@oxy:provider 0 0 mesh", wantErr: true},
		{name: "unknown role", line: "//@oxy:provider 0 0 skybox depth", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := parseAnnotation(tt.line, 7)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseAnnotation(%q) succeeded, want error", tt.line)
				}
				if !strings.Contains(err.Error(), "line 7") {
					t.Errorf("error %q does not name the line", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAnnotation(%q): %v", tt.line, err)
			}
			if tt.wantNil {
				if a != nil {
					t.Fatalf("parseAnnotation(%q) = %+v, want nil", tt.line, a)
				}
				return
			}
			if a.Type != tt.want {
				t.Errorf("Type = %q, want %q", a.Type, tt.want)
			}
		})
	}
}

func TestPreProcessorExpandsIncludesOnceAndGroups(t *testing.T) {
	src := "//@oxy:include blend_params\n//@oxy:include blend_params\n//@oxy:group 1 2 storage_uniform params blend_params\n"
	pp := NewPreProcessor()
	out, err := pp.Process(src)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if n := strings.Count(out, "struct BlendParams"); n != 1 {
		t.Errorf("struct BlendParams emitted %d times, want 1", n)
	}
	if !strings.Contains(out, "@group(1) @binding(2) var<uniform> params: BlendParams;") {
		t.Errorf("missing generated declaration in:\n%s", out)
	}
	if len(pp.Declarations()) != 1 {
		t.Errorf("Declarations() = %d entries, want 1", len(pp.Declarations()))
	}
}

func TestNewShaderReflectsKernelBindings(t *testing.T) {
	s, err := NewShader("kernel", ShaderTypeCompute, kernelSource)
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	if s.EntryPoint() != "main" {
		t.Errorf("EntryPoint() = %q, want main", s.EntryPoint())
	}
	if got := s.WorkgroupSize(); got != [3]uint32{8, 8, 1} {
		t.Errorf("WorkgroupSize() = %v, want [8 8 1]", got)
	}

	layouts := s.BindGroupLayoutDescriptors()
	if len(layouts) != 1 {
		t.Fatalf("got %d groups, want 1 (commented declarations must be ignored)", len(layouts))
	}
	entries := layouts[0].Entries
	if len(entries) != 5 {
		t.Fatalf("got %d entries, want 5", len(entries))
	}
	for i, e := range entries {
		if e.Binding != uint32(i) {
			t.Errorf("entry %d has binding %d", i, e.Binding)
		}
		if e.Visibility != wgpu.ShaderStageCompute {
			t.Errorf("entry %d visibility = %v, want compute", i, e.Visibility)
		}
	}

	if entries[0].StorageTexture.Format != wgpu.TextureFormatRGBA16Float ||
		entries[0].StorageTexture.Access != wgpu.StorageTextureAccessWriteOnly {
		t.Errorf("result entry = %+v, want rgba16float write-only storage texture", entries[0].StorageTexture)
	}
	if entries[1].Texture.SampleType != wgpu.TextureSampleTypeFloat ||
		entries[1].Texture.ViewDimension != wgpu.TextureViewDimension2D {
		t.Errorf("skybox entry = %+v, want float 2D texture", entries[1].Texture)
	}
	if entries[2].Sampler.Type != wgpu.SamplerBindingTypeFiltering {
		t.Errorf("sampler entry type = %v, want filtering", entries[2].Sampler.Type)
	}
	if entries[3].Buffer.Type != wgpu.BufferBindingTypeReadOnlyStorage || entries[3].Buffer.MinBindingSize != 4 {
		t.Errorf("spheres entry = %+v, want read-only storage with 4-byte stride", entries[3].Buffer)
	}
	if entries[4].Buffer.Type != wgpu.BufferBindingTypeUniform || entries[4].Buffer.MinBindingSize != 176 {
		t.Errorf("frame entry = %+v, want 176-byte uniform", entries[4].Buffer)
	}
	if s.BindGroupVarName(0, 4) != "frame" {
		t.Errorf("BindGroupVarName(0, 4) = %q, want frame", s.BindGroupVarName(0, 4))
	}
}

func TestShaderBindingLookup(t *testing.T) {
	s, err := NewShader("kernel", ShaderTypeCompute, kernelSource)
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	tests := []struct {
		name        string
		identity    AnnotationArg
		role        AnnotationArg
		wantBinding int
		wantOK      bool
	}{
		{name: "result", identity: AnnotationArgResult, wantBinding: 0, wantOK: true},
		{name: "skybox texture", identity: AnnotationArgSkybox, role: AnnotationArgTexture, wantBinding: 1, wantOK: true},
		{name: "skybox sampler", identity: AnnotationArgSkybox, role: AnnotationArgSampler, wantBinding: 2, wantOK: true},
		{name: "spheres", identity: AnnotationArgSpheres, wantBinding: 3, wantOK: true},
		{name: "frame uniform by type", identity: AnnotationArgFrameUniform, wantBinding: 4, wantOK: true},
		{name: "absent", identity: AnnotationArgAccumulation, wantBinding: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, b, ok := s.Binding(tt.identity, tt.role)
			if ok != tt.wantOK || b != tt.wantBinding {
				t.Fatalf("Binding(%s, %s) = (%d, %d, %v), want binding %d ok %v", tt.identity, tt.role, g, b, ok, tt.wantBinding, tt.wantOK)
			}
		})
	}
}

func TestNewShaderErrors(t *testing.T) {
	tests := []struct {
		name   string
		st     ShaderType
		source string
	}{
		{name: "empty", st: ShaderTypeCompute, source: ""},
		{name: "bad annotation", st: ShaderTypeCompute, source: "//@oxy:include nope\n@compute @workgroup_size(1) fn main() {}"},
		{name: "wrong stage", st: ShaderTypeFragment, source: "@compute @workgroup_size(1) fn main() {}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewShader("bad", tt.st, tt.source); err == nil {
				t.Fatal("NewShader succeeded, want error")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	if err := Validate("ok", "@compute @workgroup_size(1)\nfn main() {\n}\n"); err != nil {
		t.Errorf("Validate(valid) = %v", err)
	}
	err := Validate("garbage", "fn {{{ this is not wgsl")
	if !errors.Is(err, ErrInvalidSource) {
		t.Errorf("Validate(garbage) = %v, want ErrInvalidSource", err)
	}
}

func TestStripCommentsKeepsLineStructure(t *testing.T) {
	in := "a // one\nb /* two /* nested */ still */ c\nd"
	want := "a \nb  c\nd"
	if got := stripComments(in); got != want {
		t.Errorf("stripComments() = %q, want %q", got, want)
	}
}
