// Package light provides the directional light that illuminates the ray traced scene.
package light

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu *sync.Mutex

	// pitch tilts below the horizon, yaw turns around Y. Both in radians.
	pitch float32
	yaw   float32

	direction mgl32.Vec3
	intensity float32

	changed atomic.Bool
}

// Light defines the interface for the scene's single directional light.
//
// The direction is the way the light travels (from the light toward the scene) and is always
// normalized. The light can be driven either by an explicit direction or by pitch/yaw rotation.
// Any change to direction or intensity raises a changed flag that the render loop polls to
// discard accumulated samples.
type Light interface {
	// Direction returns the normalized direction of travel.
	//
	// Returns:
	//   - mgl32.Vec3: normalized direction
	Direction() mgl32.Vec3

	// Intensity returns the scalar intensity multiplier.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Rotation returns the current pitch and yaw in radians.
	//
	// Returns:
	//   - pitch: angle below the horizon
	//   - yaw: angle around the Y axis
	Rotation() (pitch, yaw float32)

	// SetDirection sets the direction of travel. Zero-length vectors are ignored.
	//
	// Parameters:
	//   - direction: direction (will be normalized)
	SetDirection(direction mgl32.Vec3)

	// SetRotation sets the direction from pitch and yaw.
	//
	// Parameters:
	//   - pitch: angle below the horizon in radians
	//   - yaw: angle around the Y axis in radians
	SetRotation(pitch, yaw float32)

	// Rotate adds deltas to the current pitch and yaw.
	//
	// Parameters:
	//   - dPitch: pitch delta in radians
	//   - dYaw: yaw delta in radians
	Rotate(dPitch, dYaw float32)

	// SetIntensity sets the scalar intensity multiplier.
	//
	// Parameters:
	//   - intensity: the intensity value
	SetIntensity(intensity float32)

	// HasChanged reports whether direction or intensity changed since the last ClearChanged.
	//
	// Returns:
	//   - bool: true if the light changed
	HasChanged() bool

	// ClearChanged lowers the changed flag.
	ClearChanged()
}

var _ Light = &lightImpl{}

// NewLight creates a directional light tilted 50 degrees below the horizon and turned -30 degrees,
// with intensity 1 and any provided options applied.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(opts ...LightBuilderOption) Light {
	l := &lightImpl{
		mu:        &sync.Mutex{},
		pitch:     mgl32.DegToRad(50),
		yaw:       mgl32.DegToRad(-30),
		intensity: 1,
	}
	l.direction = directionFromRotation(l.pitch, l.yaw)
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Direction() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.direction
}

func (l *lightImpl) Intensity() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.intensity
}

func (l *lightImpl) Rotation() (pitch, yaw float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pitch, l.yaw
}

func (l *lightImpl) SetDirection(direction mgl32.Vec3) {
	if direction.Len() == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	d := direction.Normalize()
	l.pitch = asin(-d.Y())
	l.yaw = atan2(d.X(), d.Z())
	l.setDirection(d)
}

func (l *lightImpl) SetRotation(pitch, yaw float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pitch, l.yaw = pitch, yaw
	l.setDirection(directionFromRotation(pitch, yaw))
}

func (l *lightImpl) Rotate(dPitch, dYaw float32) {
	if dPitch == 0 && dYaw == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pitch += dPitch
	l.yaw += dYaw
	l.setDirection(directionFromRotation(l.pitch, l.yaw))
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.intensity != intensity {
		l.intensity = intensity
		l.changed.Store(true)
	}
}

func (l *lightImpl) HasChanged() bool {
	return l.changed.Load()
}

func (l *lightImpl) ClearChanged() {
	l.changed.Store(false)
}

// setDirection stores d and raises the changed flag if it differs. Caller must hold the mutex.
func (l *lightImpl) setDirection(d mgl32.Vec3) {
	if l.direction != d {
		l.direction = d
		l.changed.Store(true)
	}
}

func directionFromRotation(pitch, yaw float32) mgl32.Vec3 {
	cp := float32(math.Cos(float64(pitch)))
	sp := float32(math.Sin(float64(pitch)))
	cy := float32(math.Cos(float64(yaw)))
	sy := float32(math.Sin(float64(yaw)))
	return mgl32.Vec3{cp * sy, -sp, cp * cy}.Normalize()
}

func asin(v float32) float32 {
	return float32(math.Asin(float64(v)))
}

func atan2(y, x float32) float32 {
	return float32(math.Atan2(float64(y), float64(x)))
}
