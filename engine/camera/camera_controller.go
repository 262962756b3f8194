package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController defines the orbit-and-pan control surface for the camera.
// Controllers own positional state (position, target). Camera reads from the controller
// and derives its transforms. Orbit methods move along spherical coordinates around the
// target; pan methods translate both position and target along the camera's local axes.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - mgl32.Vec3: world-space target position
	Target() mgl32.Vec3

	// SetTarget sets the look-at point and recomputes position from spherical coordinates.
	//
	// Parameters:
	//   - target: world-space coordinates
	SetTarget(target mgl32.Vec3)

	// Zoom adjusts the orbit radius. Positive delta moves closer to the target.
	//
	// Parameters:
	//   - delta: zoom amount scaled by the zoom speed
	Zoom(delta float32)

	// Orbit rotates around the target by mouse deltas scaled by the mouse sensitivity.
	//
	// Parameters:
	//   - dx: horizontal delta in pixels
	//   - dy: vertical delta in pixels
	Orbit(dx, dy float32)

	// OrbitLeft rotates the camera left around the target by one orbit speed step.
	OrbitLeft()

	// OrbitRight rotates the camera right around the target by one orbit speed step.
	OrbitRight()

	// OrbitUp tilts the camera upward by one orbit speed step, clamped to the max elevation.
	OrbitUp()

	// OrbitDown tilts the camera downward by one orbit speed step, clamped to the min elevation.
	OrbitDown()

	Radius() float32
	SetRadius(radius float32)
	Azimuth() float32
	SetAzimuth(azimuth float32)
	Elevation() float32
	SetElevation(elevation float32)

	// PanRight moves position and target along the camera's right axis.
	//
	// Parameters:
	//   - delta: distance scaled by the pan speed
	PanRight(delta float32)

	// PanUp moves position and target along the camera's up axis.
	//
	// Parameters:
	//   - delta: distance scaled by the pan speed
	PanUp(delta float32)

	// PanForward moves position and target along the camera's forward axis.
	//
	// Parameters:
	//   - delta: distance scaled by the pan speed
	PanForward(delta float32)
}
