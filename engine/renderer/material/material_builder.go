package material

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithPipelineKey is an option builder that sets the render pipeline the material draws with.
//
// Parameters:
//   - key: the pipeline key
//
// Returns:
//   - MaterialBuilderOption: a function that applies the pipeline key option to a material
func WithPipelineKey(key string) MaterialBuilderOption {
	return func(m *material) {
		m.pipelineKey = key
	}
}

// WithParams is an option builder that sets the uniform parameters of the material.
//
// Parameters:
//   - params: the uniform parameters
//
// Returns:
//   - MaterialBuilderOption: a function that applies the params option to a material
func WithParams(params Params) MaterialBuilderOption {
	return func(m *material) {
		m.params = params
	}
}
