// Package accumulation tracks how many progressive samples have been blended into the accumulated image
// and derives the blend weight for the next one.
package accumulation

import (
	"math"
)

// State is the phase of progressive accumulation.
type State int

const (
	// StateAccumulating means each new sample still moves the accumulated image.
	StateAccumulating State = iota
	// StateSaturated means the configured maximum was reached; the blend weight no longer changes until Reset.
	StateSaturated
)

// String returns a readable name for the state.
func (s State) String() string {
	switch s {
	case StateAccumulating:
		return "accumulating"
	case StateSaturated:
		return "saturated"
	default:
		return "unknown"
	}
}

// SaturatedSampleIndex is the sample index handed to the blend pass once accumulation saturates.
const SaturatedSampleIndex = math.MaxUint32

// Controller is the progressive sampling state machine. It is owned by a single render loop and is not safe for concurrent use.
type Controller interface {
	// Reset discards accumulated history and returns to sample 0.
	Reset()

	// Advance records that one more sample was composited. It does nothing while progressive sampling is disabled
	// or after saturation.
	Advance()

	// Count returns the number of accumulated samples, pinned at MaxSamples once saturated.
	//
	// Returns:
	//   - uint32: the sample count
	Count() uint32

	// SampleIndex returns the index fed to the blend pass: Count while accumulating, SaturatedSampleIndex once saturated.
	//
	// Returns:
	//   - uint32: the blend sample index
	SampleIndex() uint32

	// BlendWeight returns 1/(SampleIndex+1), or exactly 1 while progressive sampling is disabled.
	//
	// Returns:
	//   - float32: the weight of the next sample
	BlendWeight() float32

	// State returns the current phase.
	//
	// Returns:
	//   - State: accumulating or saturated
	State() State

	// Enabled reports whether progressive sampling is on.
	//
	// Returns:
	//   - bool: true if progressive sampling is enabled
	Enabled() bool

	// SetEnabled toggles progressive sampling. Toggling resets the history.
	//
	// Parameters:
	//   - enabled: whether progressive sampling is on
	SetEnabled(enabled bool)

	// MaxSamples returns the sample count at which accumulation saturates.
	//
	// Returns:
	//   - uint32: the maximum sample count
	MaxSamples() uint32

	// SetMaxSamples changes the saturation point. Changing it resets the history.
	//
	// Parameters:
	//   - n: the new maximum sample count
	SetMaxSamples(n uint32)
}

type controller struct {
	count      uint32
	state      State
	enabled    bool
	maxSamples uint32
}

var _ Controller = &controller{}

// NewController creates a new Controller with the provided options.
// Defaults to progressive sampling enabled with 1024 maximum samples.
//
// Parameters:
//   - options: variadic list of ControllerBuilderOption functions
//
// Returns:
//   - Controller: the newly created Controller in the accumulating state at sample 0
func NewController(options ...ControllerBuilderOption) Controller {
	c := &controller{
		enabled:    true,
		maxSamples: 1024,
		state:      StateAccumulating,
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

func (c *controller) Reset() {
	c.count = 0
	c.state = StateAccumulating
}

func (c *controller) Advance() {
	if !c.enabled || c.state == StateSaturated {
		return
	}
	if c.count < c.maxSamples {
		c.count++
		return
	}
	c.state = StateSaturated
}

func (c *controller) Count() uint32 {
	return c.count
}

func (c *controller) SampleIndex() uint32 {
	if c.state == StateSaturated {
		return SaturatedSampleIndex
	}
	return c.count
}

func (c *controller) BlendWeight() float32 {
	if !c.enabled {
		return 1
	}
	return float32(1 / (float64(c.SampleIndex()) + 1))
}

func (c *controller) State() State {
	return c.state
}

func (c *controller) Enabled() bool {
	return c.enabled
}

func (c *controller) SetEnabled(enabled bool) {
	if c.enabled != enabled {
		c.enabled = enabled
		c.Reset()
	}
}

func (c *controller) MaxSamples() uint32 {
	return c.maxSamples
}

func (c *controller) SetMaxSamples(n uint32) {
	if c.maxSamples != n {
		c.maxSamples = n
		c.Reset()
	}
}
