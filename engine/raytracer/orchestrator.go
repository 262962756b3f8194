// Package raytracer drives the progressive ray tracer frame by frame. The Orchestrator owns the scene buffer and
// the accumulation state and talks to the GPU only through the Kernel, TargetProvider and Compositor interfaces.
package raytracer

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-rt/common"
	"github.com/Carmen-Shannon/oxy-rt/engine/accumulation"
	"github.com/Carmen-Shannon/oxy-rt/engine/config"
	"github.com/Carmen-Shannon/oxy-rt/engine/frame"
	"github.com/Carmen-Shannon/oxy-rt/engine/scene"
)

// KernelTileSize is the kernel's workgroup edge length in pixels.
const KernelTileSize = 8

var (
	// ErrNotEnabled is returned by OnTick before OnEnable or after OnDisable.
	ErrNotEnabled = errors.New("ray tracer is not enabled")

	// ErrSceneNotReady is returned by OnTick while a failed scene upload is still pending.
	ErrSceneNotReady = errors.New("scene not uploaded")
)

// Orchestrator runs the per-frame sequence of the progressive ray tracer.
type Orchestrator interface {
	// OnEnable resets the accumulation and generates and uploads a new scene.
	//
	// Returns:
	//   - error: a wrapped upload error. The orchestrator stays enabled and retries the upload on the next tick.
	OnEnable() error

	// OnDisable stops rendering and releases the scene buffer.
	OnDisable()

	// OnTick renders one frame: poll invalidation, ensure the target, bind, dispatch, composite, advance.
	// A failure in any step skips the rest of the frame without advancing the accumulation.
	//
	// Returns:
	//   - error: ErrNotEnabled, ErrSceneNotReady, or the wrapped failure of a frame step
	OnTick() error

	// OnConfigChanged applies a new configuration. The accumulation always resets. The scene is re-seeded when
	// a generation parameter changed.
	//
	// Parameters:
	//   - cfg: the new configuration
	//
	// Returns:
	//   - error: a wrapped scene upload or skybox error
	OnConfigChanged(cfg config.Config) error

	// Reseed generates a new scene with the current configuration.
	Reseed() error

	// Config returns the active configuration.
	Config() config.Config

	// SampleCount returns the number of accumulated samples.
	SampleCount() uint32

	// Scene returns the current scene buffer, nil while disabled.
	Scene() *scene.Buffer

	// Enabled reports whether OnEnable has been called without a matching OnDisable.
	Enabled() bool

	// Release disables the orchestrator and tears down the kernel and the render target.
	Release()
}

type orchestrator struct {
	mu *sync.Mutex

	cfg              config.Config
	generatorFactory func(config.Config) scene.Generator
	generator        scene.Generator
	accumulation     accumulation.Controller
	frameBuilder     frame.Builder

	kernel     Kernel
	targets    TargetProvider
	compositor Compositor
	output     OutputSize

	camera  frame.CameraSource
	light   frame.LightSource
	sources []InvalidationSource

	logger *slog.Logger

	enabled      bool
	scene        *scene.Buffer
	scenePending bool
}

var _ Orchestrator = &orchestrator{}

// NewOrchestrator creates an Orchestrator. WithKernel, WithTargetProvider, WithCompositor, WithOutput,
// WithCamera and WithLight are required.
//
// Parameters:
//   - options: variadic list of OrchestratorBuilderOption functions
//
// Returns:
//   - Orchestrator: the orchestrator, disabled until OnEnable
func NewOrchestrator(options ...OrchestratorBuilderOption) Orchestrator {
	o := &orchestrator{
		mu:     &sync.Mutex{},
		cfg:    config.Default(),
		logger: slog.Default(),
	}

	for _, opt := range options {
		opt(o)
	}

	if o.kernel == nil || o.targets == nil || o.compositor == nil || o.output == nil || o.camera == nil || o.light == nil {
		panic("raytracer: NewOrchestrator requires a kernel, target provider, compositor, output, camera and light")
	}

	if o.generatorFactory == nil {
		o.generatorFactory = func(cfg config.Config) scene.Generator {
			return scene.NewGenerator(scene.WithConfig(cfg), scene.WithLogger(o.logger))
		}
	}
	if o.generator == nil {
		o.generator = o.generatorFactory(o.cfg)
	}
	if o.frameBuilder == nil {
		o.frameBuilder = frame.NewBuilder()
	}
	o.accumulation = accumulation.NewController(
		accumulation.WithEnabled(o.cfg.ProgressiveSampling),
		accumulation.WithMaxSamples(o.cfg.ProgressiveSamplingMaxSamples),
	)

	// Camera and light usually carry their own changed flags.
	for _, src := range []any{o.camera, o.light} {
		if is, ok := src.(InvalidationSource); ok && !o.hasSource(is) {
			o.sources = append(o.sources, is)
		}
	}

	if err := o.cfg.Validate(); err != nil {
		o.logger.Warn("configuration degraded", "error", err)
	}
	return o
}

func (o *orchestrator) hasSource(s InvalidationSource) bool {
	for _, existing := range o.sources {
		if existing == s {
			return true
		}
	}
	return false
}

func (o *orchestrator) OnEnable() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.enabled = true
	o.accumulation.Reset()
	return o.regenerate()
}

func (o *orchestrator) OnDisable() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.enabled = false
	o.releaseScene()
}

func (o *orchestrator) OnTick() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.enabled {
		return ErrNotEnabled
	}
	if o.scenePending {
		if err := o.upload(); err != nil {
			return err
		}
	}

	// 1. invalidation
	fired := false
	for _, src := range o.sources {
		if src.HasChanged() {
			fired = true
			src.ClearChanged()
		}
	}
	if fired {
		o.logger.Debug("accumulation reset", "trigger", "invalidation")
		o.accumulation.Reset()
	}

	// 2. target
	width, height := o.output.Width(), o.output.Height()
	if width <= 0 || height <= 0 {
		return nil
	}
	target, reallocated, err := o.targets.EnsureTarget(width, height)
	if err != nil {
		return o.skipFrame("ensure target", err)
	}
	if reallocated {
		o.logger.Debug("accumulation reset", "trigger", "resize", "width", width, "height", height)
		o.accumulation.Reset()
	}

	// 3. parameters
	params := o.frameBuilder.Build(o.camera, o.light, o.scene)
	params.SampleIndex = o.accumulation.SampleIndex()
	if err := o.kernel.Bind(target, params); err != nil {
		return o.skipFrame("bind", err)
	}

	// 4. dispatch
	groups := [3]uint32{
		common.WorkGroupCount(uint32(target.Width()), KernelTileSize),
		common.WorkGroupCount(uint32(target.Height()), KernelTileSize),
		1,
	}
	if err := o.kernel.Dispatch(groups); err != nil {
		return o.skipFrame("dispatch", err)
	}

	// 5. composite
	if err := o.compositor.Composite(target, o.accumulation.BlendWeight()); err != nil {
		return o.skipFrame("composite", err)
	}

	// 6. advance
	o.accumulation.Advance()
	return nil
}

func (o *orchestrator) skipFrame(step string, err error) error {
	o.logger.Warn("frame skipped", "step", step, "error", err)
	return fmt.Errorf("%s: %w", step, err)
}

func (o *orchestrator) OnConfigChanged(cfg config.Config) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := cfg.Validate(); err != nil {
		o.logger.Warn("configuration degraded", "error", err)
	}

	prev := o.cfg
	o.cfg = cfg

	o.accumulation.SetEnabled(cfg.ProgressiveSampling)
	o.accumulation.SetMaxSamples(cfg.ProgressiveSamplingMaxSamples)
	o.accumulation.Reset()
	o.logger.Debug("accumulation reset", "trigger", "config")

	var errs []error
	if prev.SkyboxPath != cfg.SkyboxPath {
		if sl, ok := o.kernel.(SkyboxLoader); ok {
			if err := sl.LoadSkybox(cfg.SkyboxPath); err != nil {
				errs = append(errs, fmt.Errorf("skybox: %w", err))
			}
		}
	}
	if prev.GenerationChanged(cfg) {
		o.generator = o.generatorFactory(cfg)
		if o.enabled {
			errs = append(errs, o.regenerate())
		}
	}
	return errors.Join(errs...)
}

func (o *orchestrator) Reseed() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.accumulation.Reset()
	if !o.enabled {
		return nil
	}
	return o.regenerate()
}

// regenerate builds a new scene and uploads it. Caller must hold the mutex.
func (o *orchestrator) regenerate() error {
	o.scene = o.generator.Generate()
	return o.upload()
}

// upload sends the current scene to the kernel, leaving it pending on failure. Caller must hold the mutex.
func (o *orchestrator) upload() error {
	if err := o.kernel.UploadScene(o.scene); err != nil {
		o.scenePending = true
		o.logger.Warn("scene upload failed", "spheres", o.scene.Len(), "error", err)
		return fmt.Errorf("%w: %w", ErrSceneNotReady, err)
	}
	o.scenePending = false
	return nil
}

// releaseScene drops the scene and its GPU copy. Caller must hold the mutex.
func (o *orchestrator) releaseScene() {
	if o.scene == nil && !o.scenePending {
		return
	}
	o.scene = nil
	o.scenePending = false
	if err := o.kernel.UploadScene(nil); err != nil {
		o.logger.Warn("scene release failed", "error", err)
	}
}

func (o *orchestrator) Config() config.Config {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cfg
}

func (o *orchestrator) SampleCount() uint32 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.accumulation.Count()
}

func (o *orchestrator) Scene() *scene.Buffer {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.scene
}

func (o *orchestrator) Enabled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.enabled
}

func (o *orchestrator) Release() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.enabled = false
	o.scene = nil
	o.scenePending = false
	o.kernel.Release()
	o.targets.Release()
}
