package frame

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUFrameUniformSource is the canonical WGSL definition of the FrameUniform struct.
// Matches GPUFrameUniform layout exactly (176 bytes, WGSL uniform aligned).
//
//go:embed assets/frame_uniform.wgsl
var GPUFrameUniformSource string

// GPUFrameUniform is the GPU-aligned representation of the kernel's frame uniform buffer.
// Matches the WGSL FrameUniform struct layout exactly (see GPUFrameUniformSource).
// Size: 176 bytes.
type GPUFrameUniform struct {
	CameraToWorld     [16]float32 // offset   0: camera-to-world matrix (mat4x4<f32>, column-major)
	InverseProjection [16]float32 // offset  64: inverse projection matrix (mat4x4<f32>, column-major)
	PixelOffset       [2]float32  // offset 128: sub-pixel jitter (vec2<f32>)
	SampleIndex       uint32      // offset 136: accumulation sample index
	_pad0             uint32      // offset 140
	DirectionalLight  [4]float32  // offset 144: xyz = direction, w = intensity (vec4<f32>)
	SphereCount       uint32      // offset 160: number of spheres in the scene buffer
	_pad1             [3]uint32   // offset 164: padding to 176 bytes
}

// Size returns the size of the GPUFrameUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (176)
func (g *GPUFrameUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUFrameUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUFrameUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.CameraToWorld[i]))
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.InverseProjection[i]))
	}
	binary.LittleEndian.PutUint32(buf[128:], math.Float32bits(g.PixelOffset[0]))
	binary.LittleEndian.PutUint32(buf[132:], math.Float32bits(g.PixelOffset[1]))
	binary.LittleEndian.PutUint32(buf[136:], g.SampleIndex)
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[144+i*4:], math.Float32bits(g.DirectionalLight[i]))
	}
	binary.LittleEndian.PutUint32(buf[160:], g.SphereCount)
	return buf
}
