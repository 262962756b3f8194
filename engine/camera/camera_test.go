package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCameraToWorldTracksController(t *testing.T) {
	ctrl := NewCameraController(WithRadius(100), WithElevation(0), WithAzimuth(0))
	cam := NewCamera(WithController(ctrl))

	want := mgl32.Vec3{0, 0, 100}
	if got := cam.Position(); !got.ApproxEqualThreshold(want, 1e-3) {
		t.Fatalf("Position() = %v, want %v", got, want)
	}

	// Camera looks down -Z in camera space; in world space that must point at the target.
	forward := cam.CameraToWorld().Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
	if !forward.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-4) {
		t.Fatalf("forward = %v, want (0,0,-1)", forward)
	}
}

func TestInverseProjection(t *testing.T) {
	cam := NewCamera(WithAspect(16.0/9.0), WithClipPlanes(0.1, 500))
	product := cam.ProjectionMatrix().Mul4(cam.InverseProjection())
	if !product.ApproxEqualThreshold(mgl32.Ident4(), 1e-4) {
		t.Fatalf("projection * inverse = %v, want identity", product)
	}
}

func TestChangedFlag(t *testing.T) {
	ctrl := NewCameraController()
	cam := NewCamera(WithController(ctrl))
	if !cam.HasChanged() {
		t.Fatal("new camera should start changed")
	}
	cam.ClearChanged()

	tests := []struct {
		name    string
		mutate  func()
		changed bool
	}{
		{name: "idle update", mutate: func() { cam.Update() }, changed: false},
		{name: "orbit", mutate: func() { ctrl.OrbitLeft(); cam.Update() }, changed: true},
		{name: "zoom", mutate: func() { ctrl.Zoom(1); cam.Update() }, changed: true},
		{name: "pan", mutate: func() { ctrl.PanRight(5); cam.Update() }, changed: true},
		{name: "aspect", mutate: func() { cam.SetAspect(2) }, changed: true},
		{name: "same aspect", mutate: func() { cam.SetAspect(2) }, changed: false},
		{name: "fov", mutate: func() { cam.SetFov(float32(math.Pi / 4)) }, changed: true},
		{name: "controller moved without update", mutate: func() { ctrl.OrbitUp() }, changed: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam.ClearChanged()
			tt.mutate()
			if got := cam.HasChanged(); got != tt.changed {
				t.Fatalf("HasChanged() = %v, want %v", got, tt.changed)
			}
		})
	}
}

func TestControllerClamps(t *testing.T) {
	ctrl := NewCameraController(WithRadiusBounds(10, 50), WithRadius(30), WithZoomSpeed(100))
	ctrl.Zoom(1)
	if got := ctrl.Radius(); got != 10 {
		t.Fatalf("Radius() after zoom in = %v, want 10", got)
	}
	ctrl.Zoom(-1)
	if got := ctrl.Radius(); got != 50 {
		t.Fatalf("Radius() after zoom out = %v, want 50", got)
	}

	ctrl.SetElevation(10)
	if got := ctrl.Elevation(); got >= float32(math.Pi/2) {
		t.Fatalf("Elevation() = %v, want below pi/2", got)
	}
}

func TestPanKeepsOrbitOffset(t *testing.T) {
	ctrl := NewCameraController()
	before := ctrl.Position().Sub(ctrl.Target())
	ctrl.PanRight(10)
	ctrl.PanUp(-3)
	ctrl.PanForward(7)
	after := ctrl.Position().Sub(ctrl.Target())
	if !before.ApproxEqualThreshold(after, 1e-3) {
		t.Fatalf("offset changed from %v to %v", before, after)
	}
	if ctrl.Target() == (mgl32.Vec3{}) {
		t.Fatal("target did not move")
	}
}
