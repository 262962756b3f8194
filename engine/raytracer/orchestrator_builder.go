package raytracer

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-rt/engine/config"
	"github.com/Carmen-Shannon/oxy-rt/engine/frame"
	"github.com/Carmen-Shannon/oxy-rt/engine/scene"
)

// OrchestratorBuilderOption is a functional option for configuring an Orchestrator via NewOrchestrator.
type OrchestratorBuilderOption func(o *orchestrator)

// WithKernel sets the ray tracing kernel.
//
// Parameters:
//   - k: the Kernel
//
// Returns:
//   - OrchestratorBuilderOption: a function that applies the kernel option to an orchestrator
func WithKernel(k Kernel) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.kernel = k
	}
}

// WithTargetProvider sets the owner of the render target.
//
// Parameters:
//   - t: the TargetProvider
//
// Returns:
//   - OrchestratorBuilderOption: a function that applies the target provider option to an orchestrator
func WithTargetProvider(t TargetProvider) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.targets = t
	}
}

// WithCompositor sets the blend and display stage.
//
// Parameters:
//   - c: the Compositor
//
// Returns:
//   - OrchestratorBuilderOption: a function that applies the compositor option to an orchestrator
func WithCompositor(c Compositor) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.compositor = c
	}
}

// WithBackend sets kernel, target provider and compositor from one value implementing all three, such as GPUBackend.
func WithBackend(b interface {
	Kernel
	TargetProvider
	Compositor
}) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.kernel = b
		o.targets = b
		o.compositor = b
	}
}

// WithOutput sets where the output size is read from each tick.
func WithOutput(out OutputSize) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.output = out
	}
}

// WithCamera sets the camera. A camera that is also an InvalidationSource is polled for motion.
func WithCamera(c frame.CameraSource) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.camera = c
	}
}

// WithLight sets the directional light. A light that is also an InvalidationSource is polled for changes.
func WithLight(l frame.LightSource) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.light = l
	}
}

// WithInvalidationSources adds extra sources whose change resets the accumulation.
//
// Parameters:
//   - sources: the additional InvalidationSources
//
// Returns:
//   - OrchestratorBuilderOption: a function that appends the sources to an orchestrator
func WithInvalidationSources(sources ...InvalidationSource) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.sources = append(o.sources, sources...)
	}
}

// WithConfig sets the initial configuration. Defaults to config.Default().
func WithConfig(cfg config.Config) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.cfg = cfg
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithFrameBuilder replaces the frame parameter builder, mainly to fix the jitter stream.
func WithFrameBuilder(b frame.Builder) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.frameBuilder = b
	}
}

// WithGenerator sets how a scene generator is built from a configuration. It is called at construction and
// again whenever a generation parameter changes.
//
// Parameters:
//   - factory: builds a Generator for a configuration
//
// Returns:
//   - OrchestratorBuilderOption: a function that applies the generator factory to an orchestrator
func WithGenerator(factory func(config.Config) scene.Generator) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.generatorFactory = factory
	}
}
