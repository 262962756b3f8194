// Package shader pre-processes and reflects WGSL sources so pipelines and bind groups can be
// created from the shader text alone.
package shader

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader is built for.
type ShaderType int

const (
	// ShaderTypeCompute indicates a shader containing a @compute entry point.
	ShaderTypeCompute ShaderType = iota

	// ShaderTypeVertex indicates a shader containing a @vertex entry point.
	ShaderTypeVertex

	// ShaderTypeFragment indicates a shader containing a @fragment entry point.
	ShaderTypeFragment
)

type shader struct {
	key          string
	source       string
	shaderType   ShaderType
	module       *wgpu.ShaderModuleDescriptor
	reflection   reflection
	declarations []Annotation
}

// Shader is a pre-processed WGSL shader together with the metadata reflected from its source.
type Shader interface {
	// Key returns the unique identifier for this shader.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source returns the expanded WGSL source.
	//
	// Returns:
	//   - string: the WGSL source after annotation processing
	Source() string

	// ShaderType returns the stage this shader was built for.
	//
	// Returns:
	//   - ShaderType: the shader stage
	ShaderType() ShaderType

	// EntryPoint returns the entry point name for this shader's stage.
	//
	// Returns:
	//   - string: the entry point name, or empty if none was found
	EntryPoint() string

	// WorkgroupSize returns the compute workgroup size. Non-compute shaders return [0, 0, 0].
	//
	// Returns:
	//   - [3]uint32: the workgroup size as [x, y, z]
	WorkgroupSize() [3]uint32

	// BindGroupLayoutDescriptors returns the reflected layout descriptors keyed by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName returns the WGSL variable name bound at group/binding, or empty if none.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name
	BindGroupVarName(group, binding int) string

	// Binding resolves the slot declared for a provider identity, optionally narrowed to a role.
	// Struct bindings generated by @oxy:group are matched by their type argument instead.
	//
	// Parameters:
	//   - identity: a provider identity or struct type argument
	//   - role: the binding role, or empty to match any
	//
	// Returns:
	//   - group: the bind group index
	//   - binding: the binding index
	//   - ok: true if a matching declaration exists
	Binding(identity, role AnnotationArg) (group, binding int, ok bool)

	// Declarations returns the group and provider annotations found in the source.
	//
	// Returns:
	//   - []Annotation: declarations in source order
	Declarations() []Annotation

	// Module returns the module descriptor used to create the GPU shader module.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader pre-processes a WGSL source and reflects its bindings for the given stage.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage the shader is built for
//   - source: the raw WGSL source, usually embedded alongside the caller
//
// Returns:
//   - Shader: the processed shader
//   - error: an error if the source is empty, an annotation is malformed, or the stage has no entry point
func NewShader(key string, shaderType ShaderType, source string) (Shader, error) {
	if source == "" {
		return nil, fmt.Errorf("shader %s: empty source", key)
	}
	pp := NewPreProcessor()
	expanded, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	s := &shader{
		key:          key,
		source:       expanded,
		shaderType:   shaderType,
		reflection:   reflectSource(expanded, shaderType),
		declarations: append([]Annotation(nil), pp.Declarations()...),
		module: &wgpu.ShaderModuleDescriptor{
			Label:          key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: expanded},
		},
	}
	if s.reflection.entryPoint == "" {
		return nil, fmt.Errorf("shader %s: no entry point for stage %d", key, shaderType)
	}
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.reflection.entryPoint
}

func (s *shader) WorkgroupSize() [3]uint32 {
	return s.reflection.workgroupSize
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.reflection.layouts
}

func (s *shader) BindGroupVarName(group, binding int) string {
	return s.reflection.varNames[group][binding]
}

func (s *shader) Binding(identity, role AnnotationArg) (int, int, bool) {
	for _, d := range s.declarations {
		switch d.Type {
		case AnnotationTypeProvider:
			if d.Args[0] != identity {
				continue
			}
			if role != "" && (len(d.Args) < 2 || d.Args[1] != role) {
				continue
			}
		case AnnotationTypeBindingGroup:
			if d.Args[2] != identity {
				continue
			}
		default:
			continue
		}
		return *d.Group, *d.Binding, true
	}
	return -1, -1, false
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}
