// Package frame assembles the per-frame state the ray tracing kernel consumes.
package frame

import (
	"github.com/Carmen-Shannon/oxy-rt/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraSource supplies the camera transforms for a frame.
type CameraSource interface {
	// CameraToWorld returns the inverse of the view matrix.
	CameraToWorld() mgl32.Mat4
	// InverseProjection returns the inverse of the projection matrix.
	InverseProjection() mgl32.Mat4
}

// LightSource supplies the directional light for a frame.
type LightSource interface {
	// Direction returns the direction the light travels in world space.
	Direction() mgl32.Vec3
	// Intensity returns the light's scalar intensity.
	Intensity() float32
}

// Parameters is the ephemeral state handed to the kernel for one frame. It is rebuilt every frame and never persisted.
type Parameters struct {
	CameraToWorld     mgl32.Mat4
	InverseProjection mgl32.Mat4
	// Jitter is the sub-pixel offset in [0, 1)^2.
	Jitter mgl32.Vec2
	// Light holds the normalized direction in xyz and the intensity in w.
	Light mgl32.Vec4
	// SampleIndex is the accumulation sample index, filled in by the caller. The kernel seeds its random streams with it.
	SampleIndex uint32
	// Scene is the read-only sphere buffer for the frame.
	Scene *scene.Buffer
}

// Uniform converts the parameters into the kernel's uniform layout.
//
// Returns:
//   - GPUFrameUniform: the GPU-aligned uniform
func (p Parameters) Uniform() GPUFrameUniform {
	return GPUFrameUniform{
		CameraToWorld:     p.CameraToWorld,
		InverseProjection: p.InverseProjection,
		PixelOffset:       [2]float32(p.Jitter),
		SampleIndex:       p.SampleIndex,
		DirectionalLight:  [4]float32(p.Light),
		SphereCount:       uint32(p.Scene.Len()),
	}
}
