package material

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestBlendParamsLayout(t *testing.T) {
	p := &GPUBlendParams{Weight: 0.25, SampleIndex: 3}
	if p.Size() != 16 {
		t.Fatalf("Size() = %d, want 16", p.Size())
	}
	buf := p.Marshal()
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4])); got != 0.25 {
		t.Errorf("weight = %v, want 0.25", got)
	}
	if got := binary.LittleEndian.Uint32(buf[4:8]); got != 3 {
		t.Errorf("sample_index = %d, want 3", got)
	}
}

func TestPresentParamsLayout(t *testing.T) {
	p := &GPUPresentParams{Exposure: 1.5, Tonemap: TonemapACES, EncodeSRGB: 1}
	if p.Size() != 16 {
		t.Fatalf("Size() = %d, want 16", p.Size())
	}
	buf := p.Marshal()
	tests := []struct {
		name   string
		offset int
		want   uint32
	}{
		{name: "exposure", offset: 0, want: math.Float32bits(1.5)},
		{name: "tonemap", offset: 4, want: TonemapACES},
		{name: "encode_srgb", offset: 8, want: 1},
		{name: "pad", offset: 12, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := binary.LittleEndian.Uint32(buf[tt.offset:]); got != tt.want {
				t.Fatalf("word at %d = %d, want %d", tt.offset, got, tt.want)
			}
		})
	}
}

func TestMaterialOptions(t *testing.T) {
	params := &GPUBlendParams{Weight: 1}
	m := NewMaterial(WithName("blend"), WithPipelineKey("progressive_blend"), WithParams(params))
	if m.Name() != "blend" || m.PipelineKey() != "progressive_blend" {
		t.Fatalf("got name %q key %q", m.Name(), m.PipelineKey())
	}
	if m.Params() != params {
		t.Fatal("Params() did not return the configured params")
	}
	if m.BindGroupProvider() != nil {
		t.Fatal("BindGroupProvider() should start nil")
	}
}
