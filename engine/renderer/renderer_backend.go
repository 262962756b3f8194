package renderer

// RendererBackendType selects the GPU API implementation behind a Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU renders through wgpu-native.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how frames are queued to the display.
type PresentMode int

const (
	// PresentModeVSync waits for vertical blank (FIFO).
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents immediately and may tear.
	PresentModeUncapped
)

// RendererBackend is the API-specific half of a Renderer.
type RendererBackend interface {
	wgpuRendererBackend
}
