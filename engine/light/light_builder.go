package light

import "github.com/go-gl/mathgl/mgl32"

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithDirection sets the direction of travel. The direction is normalized before storing;
// zero-length vectors leave the default in place.
//
// Parameters:
//   - direction: the direction of travel
//
// Returns:
//   - LightBuilderOption: a function that applies the direction option to a lightImpl
func WithDirection(direction mgl32.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		if direction.Len() == 0 {
			return
		}
		l.direction = direction.Normalize()
		l.pitch = asin(-l.direction.Y())
		l.yaw = atan2(l.direction.X(), l.direction.Z())
	}
}

// WithRotation sets the direction from pitch and yaw in radians.
//
// Parameters:
//   - pitch: angle below the horizon
//   - yaw: angle around the Y axis
//
// Returns:
//   - LightBuilderOption: a function that applies the rotation option to a lightImpl
func WithRotation(pitch, yaw float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.pitch, l.yaw = pitch, yaw
		l.direction = directionFromRotation(pitch, yaw)
	}
}

// WithIntensity sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a lightImpl
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}
