package camera

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu *sync.Mutex

	up mgl32.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix              mgl32.Mat4
	projectionMatrix        mgl32.Mat4
	cameraToWorld           mgl32.Mat4
	inverseProjectionMatrix mgl32.Mat4

	controller CameraController

	// changed is raised whenever a recompute produces different transforms and cleared by the consumer.
	changed atomic.Bool
}

// Camera defines the interface for the ray tracer's perspective camera.
// The camera holds perspective settings and derives the transforms the kernel needs
// (camera-to-world and inverse projection) from an attached CameraController via Update().
// Every change to the resulting transforms raises a changed flag that is polled and cleared once per frame.
type Camera interface {
	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// Position returns the world-space eye position.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Position() mgl32.Vec3

	// ViewMatrix returns the current world-to-camera matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the current projection matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// CameraToWorld returns the inverse of the view matrix. The kernel uses it to move primary rays into world space.
	//
	// Returns:
	//   - mgl32.Mat4: the camera-to-world matrix
	CameraToWorld() mgl32.Mat4

	// InverseProjection returns the inverse of the projection matrix. The kernel uses it to unproject pixel coordinates.
	//
	// Returns:
	//   - mgl32.Mat4: the inverse projection matrix
	InverseProjection() mgl32.Mat4

	// Controller returns the attached CameraController.
	// Returns nil if no controller is attached.
	//
	// Returns:
	//   - CameraController: the attached controller or nil
	Controller() CameraController

	// Update reads position/target from the controller and recomputes the matrices.
	// Should be called once per logic tick. If no controller is attached, this method does nothing.
	Update()

	// SetFov sets the field of view in radians and recomputes matrices.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// SetController attaches a CameraController to the camera and recomputes matrices.
	//
	// Parameters:
	//   - ctrl: the controller to attach
	SetController(ctrl CameraController)

	// HasChanged reports whether the transforms changed since the last ClearChanged.
	//
	// Returns:
	//   - bool: true if the camera moved
	HasChanged() bool

	// ClearChanged lowers the changed flag.
	ClearChanged()
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with default perspective settings: 60 degree field of view,
// aspect 1, near 0.3 and far 1000. A controller must be attached via SetController or the
// WithController option before the camera tracks a position.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:                      &sync.Mutex{},
		up:                      mgl32.Vec3{0, 1, 0},
		fov:                     60.0 * (math.Pi / 180.0),
		aspect:                  1.0,
		near:                    0.3,
		far:                     1000.0,
		viewMatrix:              mgl32.Ident4(),
		projectionMatrix:        mgl32.Ident4(),
		cameraToWorld:           mgl32.Ident4(),
		inverseProjectionMatrix: mgl32.Ident4(),
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cameraToWorld.Col(3).Vec3()
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) CameraToWorld() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cameraToWorld
}

func (c *cameraImpl) InverseProjection() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inverseProjectionMatrix
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.controller == nil {
		return
	}
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.updateMatrices()
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
	c.updateMatrices()
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
	c.updateMatrices()
}

func (c *cameraImpl) HasChanged() bool {
	return c.changed.Load()
}

func (c *cameraImpl) ClearChanged() {
	c.changed.Store(false)
}

// updateMatrices recalculates the view, projection and their inverses, raising the changed flag when any of
// the kernel-facing transforms differ from the previous values. The view is left untouched without a controller.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	view := c.viewMatrix
	if c.controller != nil {
		eye, target := c.controller.Position(), c.controller.Target()
		if eye.Sub(target).Len() > 1e-6 {
			view = mgl32.LookAtV(eye, target, c.up)
		}
	}
	proj := mgl32.Perspective(c.fov, c.aspect, c.near, c.far)

	toWorld := view.Inv()
	invProj := proj.Inv()
	if toWorld != c.cameraToWorld || invProj != c.inverseProjectionMatrix {
		c.changed.Store(true)
	}

	c.viewMatrix = view
	c.projectionMatrix = proj
	c.cameraToWorld = toWorld
	c.inverseProjectionMatrix = invProj
}
