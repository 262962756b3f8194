package accumulation

// ControllerBuilderOption is a functional option for configuring a Controller.
// Use the With* functions to create options.
type ControllerBuilderOption func(c *controller)

// WithEnabled sets whether progressive sampling starts enabled.
//
// Parameters:
//   - enabled: whether progressive sampling is on
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithEnabled(enabled bool) ControllerBuilderOption {
	return func(c *controller) {
		c.enabled = enabled
	}
}

// WithMaxSamples sets the sample count at which accumulation saturates.
//
// Parameters:
//   - n: the maximum sample count
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithMaxSamples(n uint32) ControllerBuilderOption {
	return func(c *controller) {
		c.maxSamples = n
	}
}
