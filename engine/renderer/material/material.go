// Package material describes the full-screen passes that turn kernel output into the displayed image.
package material

import (
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/bind_group_provider"
)

// Params is a GPU uniform that can be uploaded into a material's parameter buffer.
type Params interface {
	Size() int
	Marshal() []byte
}

// material is the implementation of the Material interface.
type material struct {
	name              string
	pipelineKey       string
	params            Params
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Material binds a full-screen pass to its pipeline, its GPU resources and its uniform parameters.
//
// The pipeline key and params are set at construction. The bind group provider is mutable
// because it is rebuilt whenever the textures it references are reallocated.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// PipelineKey retrieves the key identifying the render pipeline this material uses.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// Params retrieves the uniform parameters uploaded before each draw, or nil if the pass has none.
	//
	// Returns:
	//   - Params: the uniform parameters
	Params() Params

	// SetParams replaces the uniform parameters.
	//
	// Parameters:
	//   - params: the new uniform parameters
	SetParams(params Params)

	// BindGroupProvider retrieves the bind group provider holding GPU-side resources for this material.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider, or nil if not yet initialized
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetBindGroupProvider sets the bind group provider for this material.
	//
	// Parameters:
	//   - provider: the bind group provider containing GPU resources for this material
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) PipelineKey() string {
	return m.pipelineKey
}

func (m *material) Params() Params {
	return m.params
}

func (m *material) SetParams(params Params) {
	m.params = params
}

func (m *material) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return m.bindGroupProvider
}

func (m *material) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	m.bindGroupProvider = provider
}
