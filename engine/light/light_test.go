package light

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestDirectionIsNormalized(t *testing.T) {
	tests := []struct {
		name string
		opts []LightBuilderOption
	}{
		{name: "default"},
		{name: "explicit direction", opts: []LightBuilderOption{WithDirection(mgl32.Vec3{3, -4, 0})}},
		{name: "rotation", opts: []LightBuilderOption{WithRotation(1.1, -2.3)}},
		{name: "zero direction keeps default", opts: []LightBuilderOption{WithDirection(mgl32.Vec3{})}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLight(tt.opts...)
			if got := l.Direction().Len(); math.Abs(float64(got-1)) > 1e-5 {
				t.Fatalf("|Direction()| = %v, want 1", got)
			}
		})
	}
}

func TestSetDirectionRoundTripsRotation(t *testing.T) {
	l := NewLight()
	l.SetDirection(mgl32.Vec3{0, -1, 1})
	pitch, yaw := l.Rotation()
	if math.Abs(float64(pitch)-math.Pi/4) > 1e-5 || math.Abs(float64(yaw)) > 1e-5 {
		t.Fatalf("Rotation() = (%v, %v), want (pi/4, 0)", pitch, yaw)
	}
	want := mgl32.Vec3{0, -1, 1}.Normalize()
	if got := l.Direction(); !got.ApproxEqualThreshold(want, 1e-5) {
		t.Fatalf("Direction() = %v, want %v", got, want)
	}
}

func TestChangedFlag(t *testing.T) {
	l := NewLight()
	tests := []struct {
		name    string
		mutate  func()
		changed bool
	}{
		{name: "rotate", mutate: func() { l.Rotate(0.1, 0) }, changed: true},
		{name: "zero rotate", mutate: func() { l.Rotate(0, 0) }, changed: false},
		{name: "intensity", mutate: func() { l.SetIntensity(2) }, changed: true},
		{name: "same intensity", mutate: func() { l.SetIntensity(2) }, changed: false},
		{name: "set direction", mutate: func() { l.SetDirection(mgl32.Vec3{1, -1, 0}) }, changed: true},
		{name: "same direction", mutate: func() { l.SetDirection(mgl32.Vec3{2, -2, 0}) }, changed: false},
		{name: "zero direction", mutate: func() { l.SetDirection(mgl32.Vec3{}) }, changed: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l.ClearChanged()
			tt.mutate()
			if got := l.HasChanged(); got != tt.changed {
				t.Fatalf("HasChanged() = %v, want %v", got, tt.changed)
			}
		})
	}
}
