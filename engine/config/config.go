// Package config holds the user-facing configuration surface of the ray tracer: the scene
// generation parameters and the progressive sampling switches. Values are read at scene
// generation and accumulation reset time.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Config is the configuration surface exposed to hosts.
type Config struct {
	// SphereRadius is the [min, max] range sphere radii are drawn from.
	SphereRadius [2]float32 `json:"sphere_radius"`
	// SpheresMax is the number of placement attempts, and so the upper bound on the sphere count.
	SpheresMax uint32 `json:"spheres_max"`
	// SpherePlacementRadius is the radius of the disk on the ground plane sphere centers are drawn from.
	SpherePlacementRadius float32 `json:"sphere_placement_radius"`

	// ProgressiveSampling enables accumulation of successive samples.
	ProgressiveSampling bool `json:"progressive_sampling"`
	// ProgressiveSamplingMaxSamples is the sample count at which accumulation saturates.
	ProgressiveSamplingMaxSamples uint32 `json:"progressive_sampling_max_samples"`

	// Seed seeds scene generation. Zero picks a time-based seed on every re-seed.
	Seed int64 `json:"seed"`
	// SkyboxPath is an optional image file sampled by the kernel for rays that escape the scene.
	SkyboxPath string `json:"skybox_path"`
}

// Default returns the configuration the ray tracer starts with when no file is supplied.
//
// Returns:
//   - Config: radius range [3, 8], 100 spheres, placement radius 100, progressive sampling on with 1024 samples
func Default() Config {
	return Config{
		SphereRadius:                  [2]float32{3, 8},
		SpheresMax:                    100,
		SpherePlacementRadius:         100,
		ProgressiveSampling:           true,
		ProgressiveSamplingMaxSamples: 1024,
	}
}

// Load reads a JSON configuration file. Fields absent from the file keep their Default values.
//
// Parameters:
//   - path: the path to the JSON file
//
// Returns:
//   - Config: the loaded configuration
//   - error: error if the file cannot be read or parsed
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

var (
	// ErrRadiusRange reports a sphere radius range whose minimum exceeds its maximum.
	ErrRadiusRange = errors.New("sphere radius min exceeds max")
	// ErrRadiusNonPositive reports a sphere radius range that can produce radii <= 0.
	ErrRadiusNonPositive = errors.New("sphere radius min must be positive")
	// ErrPlacementRadius reports a negative placement disk radius.
	ErrPlacementRadius = errors.New("sphere placement radius is negative")
)

// Validate reports configuration errors. None of them are fatal: the scene generator degrades
// to an empty or reduced scene instead. Hosts use the result to warn.
//
// Returns:
//   - error: the joined configuration errors, or nil
func (c Config) Validate() error {
	var errs []error
	if c.SphereRadius[0] > c.SphereRadius[1] {
		errs = append(errs, fmt.Errorf("%w: [%g, %g]", ErrRadiusRange, c.SphereRadius[0], c.SphereRadius[1]))
	}
	if c.SphereRadius[0] <= 0 {
		errs = append(errs, fmt.Errorf("%w: %g", ErrRadiusNonPositive, c.SphereRadius[0]))
	}
	if c.SpherePlacementRadius < 0 {
		errs = append(errs, fmt.Errorf("%w: %g", ErrPlacementRadius, c.SpherePlacementRadius))
	}
	return errors.Join(errs...)
}

// GenerationChanged reports whether any parameter that shapes the generated scene differs
// between c and other, meaning the scene must be re-seeded.
//
// Parameters:
//   - other: the configuration to compare against
//
// Returns:
//   - bool: true if a re-seed is required
func (c Config) GenerationChanged(other Config) bool {
	return c.SphereRadius != other.SphereRadius ||
		c.SpheresMax != other.SpheresMax ||
		c.SpherePlacementRadius != other.SpherePlacementRadius ||
		c.Seed != other.Seed
}
