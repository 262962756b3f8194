package shader

import (
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// memLayout is the byte size and alignment of a host-shareable WGSL type.
type memLayout struct {
	size  uint64
	align uint64
}

// primitiveLayouts covers the scalar, vector and matrix types the engine's shaders bind.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var primitiveLayouts = map[string]memLayout{
	"f32": {4, 4}, "i32": {4, 4}, "u32": {4, 4},
	"vec2<f32>": {8, 8}, "vec2f": {8, 8}, "vec2<u32>": {8, 8}, "vec2u": {8, 8},
	"vec3<f32>": {12, 16}, "vec3f": {12, 16}, "vec3<u32>": {12, 16}, "vec3u": {12, 16},
	"vec4<f32>": {16, 16}, "vec4f": {16, 16}, "vec4<u32>": {16, 16}, "vec4u": {16, 16},
	"mat3x3<f32>": {48, 16}, "mat4x4<f32>": {64, 16},
}

var sampledTextureDims = map[string]wgpu.TextureViewDimension{
	"texture_2d":       wgpu.TextureViewDimension2D,
	"texture_2d_array": wgpu.TextureViewDimension2DArray,
	"texture_cube":     wgpu.TextureViewDimensionCube,
	"texture_3d":       wgpu.TextureViewDimension3D,
}

var sampleTypes = map[string]wgpu.TextureSampleType{
	"f32": wgpu.TextureSampleTypeFloat,
	"i32": wgpu.TextureSampleTypeSint,
	"u32": wgpu.TextureSampleTypeUint,
}

var storageTexelFormats = map[string]wgpu.TextureFormat{
	"rgba8unorm":  wgpu.TextureFormatRGBA8Unorm,
	"rgba16float": wgpu.TextureFormatRGBA16Float,
	"rgba32float": wgpu.TextureFormatRGBA32Float,
	"r32float":    wgpu.TextureFormatR32Float,
}

var storageAccess = map[string]wgpu.StorageTextureAccess{
	"write":      wgpu.StorageTextureAccessWriteOnly,
	"read":       wgpu.StorageTextureAccessReadOnly,
	"read_write": wgpu.StorageTextureAccessReadWrite,
}

func alignUp(align, v uint64) uint64 {
	if align == 0 {
		return v
	}
	return (v + align - 1) &^ (align - 1)
}

// typeLayout resolves a type from primitives, known structs, and arrays of either.
// A runtime-sized array resolves to a single element stride.
func typeLayout(typeName string, known map[string]memLayout) (memLayout, bool) {
	if l, ok := primitiveLayouts[typeName]; ok {
		return l, true
	}
	if l, ok := known[typeName]; ok {
		return l, true
	}
	inner, ok := strings.CutPrefix(typeName, "array<")
	if !ok || !strings.HasSuffix(inner, ">") {
		return memLayout{}, false
	}
	elemName, countStr, fixed := strings.Cut(strings.TrimSuffix(inner, ">"), ",")
	elem, ok := typeLayout(strings.TrimSpace(elemName), known)
	if !ok {
		return memLayout{}, false
	}
	stride := alignUp(elem.align, elem.size)
	if !fixed {
		return memLayout{stride, elem.align}, true
	}
	count, err := strconv.ParseUint(strings.TrimSpace(countStr), 10, 64)
	if err != nil {
		return memLayout{}, false
	}
	return memLayout{count * stride, elem.align}, true
}

// structLayouts resolves struct sizes, iterating until nested struct references settle.
func structLayouts(decls []structDecl) map[string]memLayout {
	known := make(map[string]memLayout, len(decls))
	pending := decls
	for len(pending) > 0 {
		var next []structDecl
		for _, d := range pending {
			if l, ok := layoutOf(d, known); ok {
				known[d.name] = l
			} else {
				next = append(next, d)
			}
		}
		if len(next) == len(pending) {
			break
		}
		pending = next
	}
	return known
}

func layoutOf(d structDecl, known map[string]memLayout) (memLayout, bool) {
	var offset uint64
	maxAlign := uint64(1)
	for _, f := range d.fields {
		l, ok := typeLayout(f.typeName, known)
		if !ok {
			return memLayout{}, false
		}
		offset = alignUp(l.align, offset) + l.size
		maxAlign = max(maxAlign, l.align)
	}
	return memLayout{alignUp(maxAlign, offset), maxAlign}, true
}

// classifyResource builds the layout entry for one declaration. A non-empty address space means a buffer;
// otherwise the type names a texture, storage texture or sampler.
func classifyResource(binding uint32, visibility wgpu.ShaderStage, addressSpace, typeName string) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: visibility}

	switch {
	case addressSpace == "uniform":
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	case strings.HasPrefix(addressSpace, "storage"):
		entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		if strings.Contains(addressSpace, "read_write") {
			entry.Buffer.Type = wgpu.BufferBindingTypeStorage
		}
	case typeName == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case strings.HasPrefix(typeName, "texture_storage_"):
		base, params := splitTypeParams(typeName)
		entry.StorageTexture.ViewDimension = wgpu.TextureViewDimension2D
		if base == "texture_storage_3d" {
			entry.StorageTexture.ViewDimension = wgpu.TextureViewDimension3D
		}
		format, access, _ := strings.Cut(params, ",")
		entry.StorageTexture.Format = storageTexelFormats[strings.TrimSpace(format)]
		entry.StorageTexture.Access = storageAccess[strings.TrimSpace(access)]
	case strings.HasPrefix(typeName, "texture_"):
		base, param := splitTypeParams(typeName)
		entry.Texture.ViewDimension = sampledTextureDims[base]
		entry.Texture.SampleType = sampleTypes[param]
	}
	return entry
}

// splitTypeParams splits "texture_2d<f32>" into ("texture_2d", "f32").
func splitTypeParams(typeName string) (string, string) {
	base, params, ok := strings.Cut(typeName, "<")
	if !ok {
		return typeName, ""
	}
	return base, strings.TrimSpace(strings.TrimSuffix(params, ">"))
}
