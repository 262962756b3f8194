// Package engine drives the window message loop, a fixed-rate logic tick and the render loop that calls frame
// handlers such as the ray tracing orchestrator.
package engine

import (
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-rt/engine/profiler"
	"github.com/Carmen-Shannon/oxy-rt/engine/raytracer"
	"github.com/Carmen-Shannon/oxy-rt/engine/window"
)

// FrameHandler is called once per render loop iteration.
// A raytracer.Orchestrator satisfies it.
type FrameHandler interface {
	OnTick() error
}

type engine struct {
	mu *sync.Mutex

	tickRateChannel chan time.Duration
	running         atomic.Bool
	wg              sync.WaitGroup
	quitChannel     chan struct{}
	quitOnce        sync.Once

	window window.Window
	logger *slog.Logger

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	engineTickRate   time.Duration
	renderFrameLimit time.Duration // 0 = uncapped
	tickCallback     func(deltaTime float32)
	renderCallback   func(deltaTime float32)

	handlers        map[int]FrameHandler
	resizeCallbacks []func(width, height int)
}

// Engine is the main entry point for the application.
// It orchestrates the logic tick loop, the render loop and the window message loop.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance, nil for a headless engine
	Window() window.Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the logic tick rate in ticks per second.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each logic tick.
	// Use this for input processing and camera or light movement.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after the frame handlers each render frame.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap. Pass 0 to uncap the render loop (default).
	SetRenderFrameLimit(fps float64)

	// AddFrameHandler registers a frame handler at the given key.
	// Handlers are called in ascending key order during the render loop.
	//
	// Parameters:
	//   - key: the ordering key (lower runs first)
	//   - h: the FrameHandler to register
	AddFrameHandler(key int, h FrameHandler)

	// RemoveFrameHandler removes the frame handler at the given key.
	RemoveFrameHandler(key int)

	// OnResize registers a function called with the new framebuffer size whenever the window is resized.
	OnResize(callback func(width, height int))

	// Run starts the logic and render goroutines and runs the window message loop on the calling goroutine.
	// Blocks until the window closes or Quit is called, then waits for both goroutines to exit.
	Run()

	// Quit signals all engine goroutines to stop. Safe to call multiple times.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (window, profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:              &sync.Mutex{},
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		handlers:        make(map[int]FrameHandler),
		logger:          slog.Default(),
		engineTickRate:  time.Second / 60,
	}
	for _, opt := range options {
		opt(e)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			e.mu.Lock()
			callbacks := slices.Clone(e.resizeCallbacks)
			e.mu.Unlock()
			for _, cb := range callbacks {
				cb(width, height)
			}
		})
	}
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Run() {
	e.running.Store(true)
	e.handle()
	if e.window != nil {
		e.window.SetUpdateCallback(func() {
			select {
			case <-e.quitChannel:
				_ = e.window.Close()
			default:
			}
		})
		e.window.ProcessMessages()
	}
	e.signalQuit()
	e.wg.Wait()
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel exactly once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running.Store(false)
		close(e.quitChannel)
	})
}

func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleRender()
}

// handleEngine runs the fixed-rate logic tick loop and applies tick rate changes from tickRateChannel.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()
	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now
			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleRender runs the render loop. A panic in a frame handler stops the engine instead of the process.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("render goroutine recovered from panic", "panic", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()
	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		now := time.Now()
		dt := float32(now.Sub(lastRender).Seconds())
		lastRender = now

		e.renderFrame(dt)

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(now); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

// renderFrame runs every frame handler in key order, then the render callback and the profiler.
func (e *engine) renderFrame(dt float32) {
	e.mu.Lock()
	keys := make([]int, 0, len(e.handlers))
	for k := range e.handlers {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	handlers := make([]FrameHandler, len(keys))
	for i, k := range keys {
		handlers[i] = e.handlers[k]
	}
	e.mu.Unlock()

	for i, h := range handlers {
		// Handlers log their own skipped frames; disabled ones are expected to be idle.
		if err := h.OnTick(); err != nil && !errors.Is(err, raytracer.ErrNotEnabled) {
			e.logger.Debug("frame handler failed", "key", keys[i], "error", err)
		}
	}

	if e.renderCallback != nil {
		e.renderCallback(dt)
	}
	if e.profilingEnabled.Load() {
		e.profiler.Tick()
	}
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetTickRate takes effect immediately on a running engine.
func (e *engine) SetTickRate(fps float64) {
	newRate := tickInterval(fps)
	if !e.running.Load() {
		e.engineTickRate = newRate
		return
	}
	// Replace any pending update rather than block.
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameLimit(fps)
}

func (e *engine) AddFrameHandler(key int, h FrameHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[key] = h
}

func (e *engine) RemoveFrameHandler(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.handlers, key)
}

func (e *engine) OnResize(callback func(width, height int)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resizeCallbacks = append(e.resizeCallbacks, callback)
}

func tickInterval(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}

func frameLimit(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
