package scene

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-rt/engine/config"
)

// GeneratorBuilderOption is a functional option for configuring a Generator.
// Use the With* functions to create options.
type GeneratorBuilderOption func(g *generator)

// WithCapacity sets the number of placement trials, which bounds the sphere count.
//
// Parameters:
//   - capacity: the number of trials
//
// Returns:
//   - GeneratorBuilderOption: option function to apply
func WithCapacity(capacity uint32) GeneratorBuilderOption {
	return func(g *generator) {
		g.capacity = capacity
	}
}

// WithRadiusRange sets the [min, max] range sphere radii are drawn from.
//
// Parameters:
//   - minRadius: the smallest radius
//   - maxRadius: the largest radius
//
// Returns:
//   - GeneratorBuilderOption: option function to apply
func WithRadiusRange(minRadius, maxRadius float32) GeneratorBuilderOption {
	return func(g *generator) {
		g.radiusRange = [2]float32{minRadius, maxRadius}
	}
}

// WithPlacementRadius sets the radius of the disk sphere centers are placed in.
//
// Parameters:
//   - radius: the placement disk radius
//
// Returns:
//   - GeneratorBuilderOption: option function to apply
func WithPlacementRadius(radius float32) GeneratorBuilderOption {
	return func(g *generator) {
		g.placementRadius = radius
	}
}

// WithSeed fixes the seed so every Generate call produces the same scene. A zero seed keeps the time-based default.
//
// Parameters:
//   - seed: the generation seed
//
// Returns:
//   - GeneratorBuilderOption: option function to apply
func WithSeed(seed int64) GeneratorBuilderOption {
	return func(g *generator) {
		g.seed = seed
	}
}

// WithRandomSource makes every Generate call draw from rng instead of a freshly seeded stream.
//
// Parameters:
//   - rng: the random source
//
// Returns:
//   - GeneratorBuilderOption: option function to apply
func WithRandomSource(rng RandomSource) GeneratorBuilderOption {
	return func(g *generator) {
		g.rng = rng
	}
}

// WithLogger sets the structured logger generation results are reported to.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - GeneratorBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) GeneratorBuilderOption {
	return func(g *generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithConfig applies the generation fields of a config.Config.
//
// Parameters:
//   - cfg: the configuration to read the sphere radius range, count, placement radius and seed from
//
// Returns:
//   - GeneratorBuilderOption: option function to apply
func WithConfig(cfg config.Config) GeneratorBuilderOption {
	return func(g *generator) {
		g.capacity = cfg.SpheresMax
		g.radiusRange = cfg.SphereRadius
		g.placementRadius = cfg.SpherePlacementRadius
		g.seed = cfg.Seed
	}
}
