package raytracer

import (
	"github.com/Carmen-Shannon/oxy-rt/engine/frame"
	"github.com/Carmen-Shannon/oxy-rt/engine/scene"
)

// RenderTarget is the per-frame image the kernel writes into.
type RenderTarget interface {
	Width() int
	Height() int
}

// Kernel runs the ray tracing routine.
type Kernel interface {
	// UploadScene replaces the GPU copy of the sphere buffer. A nil buffer releases it.
	UploadScene(buffer *scene.Buffer) error

	// Bind prepares the kernel to write target using params.
	Bind(target RenderTarget, params frame.Parameters) error

	// Dispatch runs the kernel over groups work groups.
	Dispatch(groups [3]uint32) error

	Release()
}

// TargetProvider owns the render target and reallocates it when the output size changes.
type TargetProvider interface {
	// EnsureTarget returns a target of the given size. The bool reports whether the target was (re)allocated,
	// which discards all accumulated history.
	EnsureTarget(width, height int) (RenderTarget, bool, error)

	Release()
}

// Compositor blends a freshly rendered target into the accumulated image and displays it.
type Compositor interface {
	// Composite blends target with the given weight. A weight of 1 replaces the accumulated image.
	Composite(target RenderTarget, weight float32) error
}

// InvalidationSource is anything whose change discards the accumulated image, such as a moving camera or light.
type InvalidationSource interface {
	HasChanged() bool
	ClearChanged()
}

// OutputSize reports the size of the displayed image, usually the window.
type OutputSize interface {
	Width() int
	Height() int
}

// SkyboxLoader is optionally implemented by a Kernel that can swap its environment texture at runtime.
type SkyboxLoader interface {
	LoadSkybox(path string) error
}
