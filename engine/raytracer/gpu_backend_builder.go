package raytracer

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-rt/engine/loader"
)

// GPUBackendBuilderOption is a functional option for configuring a GPUBackend.
type GPUBackendBuilderOption func(*gpuBackend)

// WithLoader sets the texture loader used for the skybox.
//
// Parameters:
//   - l: the loader
//
// Returns:
//   - GPUBackendBuilderOption: the option function
func WithLoader(l loader.Loader) GPUBackendBuilderOption {
	return func(b *gpuBackend) {
		b.loader = l
	}
}

// WithSkyboxPath sets the equirectangular image loaded at construction. An empty path selects the procedural sky.
//
// Parameters:
//   - path: the image path
//
// Returns:
//   - GPUBackendBuilderOption: the option function
func WithSkyboxPath(path string) GPUBackendBuilderOption {
	return func(b *gpuBackend) {
		b.skyboxPath = path
	}
}

// WithExposure sets the linear exposure multiplier applied before tonemapping.
//
// Parameters:
//   - exposure: the multiplier, non-positive values are ignored
//
// Returns:
//   - GPUBackendBuilderOption: the option function
func WithExposure(exposure float32) GPUBackendBuilderOption {
	return func(b *gpuBackend) {
		if exposure > 0 {
			b.exposure = exposure
		}
	}
}

// WithTonemap selects the tonemapping operator, material.TonemapNone or material.TonemapACES.
func WithTonemap(tonemap uint32) GPUBackendBuilderOption {
	return func(b *gpuBackend) {
		b.tonemap = tonemap
	}
}

// WithBackendLogger sets the logger for the GPU backend.
func WithBackendLogger(logger *slog.Logger) GPUBackendBuilderOption {
	return func(b *gpuBackend) {
		if logger != nil {
			b.logger = logger
		}
	}
}
