package material

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUBlendParamsSource is the canonical WGSL definition of the BlendParams struct.
// Matches GPUBlendParams layout exactly (16 bytes).
//
//go:embed assets/blend_params.wgsl
var GPUBlendParamsSource string

// GPUBlendParams is the uniform for the progressive blend pass. The fragment writes the kernel
// result with alpha = Weight so the fixed-function blend computes lerp(accumulated, result, Weight).
// Size: 16 bytes.
type GPUBlendParams struct {
	Weight      float32   // offset 0
	SampleIndex uint32    // offset 4
	_pad        [2]uint32 // offset 8
}

// Size returns the size of the GPUBlendParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUBlendParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUBlendParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload.
func (g *GPUBlendParams) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Weight))
	binary.LittleEndian.PutUint32(buf[4:8], g.SampleIndex)
	return buf
}

// Tonemap operators understood by the present shader.
const (
	TonemapNone uint32 = iota
	TonemapACES
)

// GPUPresentParamsSource is the canonical WGSL definition of the PresentParams struct.
// Matches GPUPresentParams layout exactly (16 bytes).
//
//go:embed assets/present_params.wgsl
var GPUPresentParamsSource string

// GPUPresentParams is the uniform for the present pass that maps the HDR accumulation to the swapchain.
// EncodeSRGB is set when the surface format is linear and the shader must gamma-encode itself.
// Size: 16 bytes.
type GPUPresentParams struct {
	Exposure   float32 // offset 0
	Tonemap    uint32  // offset 4
	EncodeSRGB uint32  // offset 8
	_pad       uint32  // offset 12
}

// Size returns the size of the GPUPresentParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUPresentParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUPresentParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload.
func (g *GPUPresentParams) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Exposure))
	binary.LittleEndian.PutUint32(buf[4:8], g.Tonemap)
	binary.LittleEndian.PutUint32(buf[8:12], g.EncodeSRGB)
	return buf
}
