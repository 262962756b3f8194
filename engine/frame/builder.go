package frame

import (
	"math/rand/v2"
	"time"

	"github.com/Carmen-Shannon/oxy-rt/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// Builder assembles Parameters from the camera, the light and the current scene buffer.
// Build has no side effects on its inputs; the only state it advances is its own jitter stream.
type Builder interface {
	// Build assembles the parameters for one frame, drawing a fresh jitter offset.
	//
	// Parameters:
	//   - camera: the camera transform source
	//   - light: the directional light source
	//   - buffer: the current scene buffer, may be nil
	//
	// Returns:
	//   - Parameters: the assembled frame parameters
	Build(camera CameraSource, light LightSource, buffer *scene.Buffer) Parameters
}

type builder struct {
	jitter scene.RandomSource
}

var _ Builder = &builder{}

// NewBuilder creates a new Builder with the provided options.
// Defaults to a time-seeded jitter stream.
//
// Parameters:
//   - options: variadic list of BuilderOption functions
//
// Returns:
//   - Builder: the newly created Builder
func NewBuilder(options ...BuilderOption) Builder {
	b := &builder{}

	for _, opt := range options {
		opt(b)
	}

	if b.jitter == nil {
		seed := uint64(time.Now().UnixNano())
		b.jitter = rand.New(rand.NewPCG(seed, seed>>1))
	}

	return b
}

func (b *builder) Build(camera CameraSource, light LightSource, buffer *scene.Buffer) Parameters {
	dir := light.Direction()
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}

	return Parameters{
		CameraToWorld:     camera.CameraToWorld(),
		InverseProjection: camera.InverseProjection(),
		Jitter:            mgl32.Vec2{b.jitter.Float32(), b.jitter.Float32()},
		Light:             dir.Vec4(light.Intensity()),
		Scene:             buffer,
	}
}

// BuilderOption is a functional option for configuring a Builder.
type BuilderOption func(b *builder)

// WithJitterSource sets the random source jitter offsets are drawn from.
//
// Parameters:
//   - rng: a source of uniform samples in [0, 1)
//
// Returns:
//   - BuilderOption: option function to apply
func WithJitterSource(rng scene.RandomSource) BuilderOption {
	return func(b *builder) {
		b.jitter = rng
	}
}
