package frame

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-rt/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

type fakeCamera struct {
	toWorld, invProj mgl32.Mat4
	reads            int
}

func (c *fakeCamera) CameraToWorld() mgl32.Mat4 {
	c.reads++
	return c.toWorld
}

func (c *fakeCamera) InverseProjection() mgl32.Mat4 {
	c.reads++
	return c.invProj
}

type fakeLight struct {
	dir       mgl32.Vec3
	intensity float32
}

func (l fakeLight) Direction() mgl32.Vec3 { return l.dir }
func (l fakeLight) Intensity() float32    { return l.intensity }

type seqSource struct {
	vals []float32
	i    int
}

func (s *seqSource) Float32() float32 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func TestBuildAssemblesParameters(t *testing.T) {
	cam := &fakeCamera{
		toWorld: mgl32.Translate3D(1, 2, 3),
		invProj: mgl32.Perspective(mgl32.DegToRad(60), 16.0/9.0, 0.3, 1000).Inv(),
	}
	light := fakeLight{dir: mgl32.Vec3{0, -2, 0}, intensity: 0.8}
	buf := scene.NewBuffer(1, []scene.Sphere{{Radius: 1}, {Radius: 2}})

	b := NewBuilder(WithJitterSource(&seqSource{vals: []float32{0.25, 0.75}}))
	p := b.Build(cam, light, buf)

	if p.CameraToWorld != cam.toWorld || p.InverseProjection != cam.invProj {
		t.Error("camera transforms not copied")
	}
	if p.Jitter != (mgl32.Vec2{0.25, 0.75}) {
		t.Errorf("Jitter = %v, want [0.25 0.75]", p.Jitter)
	}
	if p.Light != (mgl32.Vec4{0, -1, 0, 0.8}) {
		t.Errorf("Light = %v, want normalized direction with intensity", p.Light)
	}
	if p.Scene != buf {
		t.Error("scene buffer reference not passed through")
	}
	if light.dir != (mgl32.Vec3{0, -2, 0}) {
		t.Error("Build mutated the light")
	}
}

func TestBuildDrawsFreshJitter(t *testing.T) {
	cam := &fakeCamera{toWorld: mgl32.Ident4(), invProj: mgl32.Ident4()}
	light := fakeLight{dir: mgl32.Vec3{0, -1, 0}, intensity: 1}
	b := NewBuilder()

	seen := make(map[mgl32.Vec2]bool)
	for range 64 {
		p := b.Build(cam, light, nil)
		for _, c := range p.Jitter {
			if c < 0 || c >= 1 {
				t.Fatalf("jitter component %v outside [0, 1)", c)
			}
		}
		seen[p.Jitter] = true
	}
	if len(seen) < 60 {
		t.Errorf("only %d distinct jitter offsets in 64 frames", len(seen))
	}
}

func TestBuildZeroLightDirection(t *testing.T) {
	cam := &fakeCamera{toWorld: mgl32.Ident4(), invProj: mgl32.Ident4()}
	p := NewBuilder().Build(cam, fakeLight{intensity: 2}, nil)
	for i, c := range p.Light {
		if math.IsNaN(float64(c)) {
			t.Fatalf("Light[%d] is NaN", i)
		}
	}
	if p.Light.W() != 2 {
		t.Errorf("intensity = %v, want 2", p.Light.W())
	}
}

func TestGPUFrameUniformLayout(t *testing.T) {
	params := Parameters{
		CameraToWorld:     mgl32.Translate3D(4, 5, 6),
		InverseProjection: mgl32.Scale3D(2, 3, 4),
		Jitter:            mgl32.Vec2{0.5, 0.125},
		Light:             mgl32.Vec4{0, -1, 0, 1.5},
		SampleIndex:       9,
		Scene:             scene.NewBuffer(0, make([]scene.Sphere, 3)),
	}
	u := params.Uniform()
	data := u.Marshal()

	if u.Size() != 176 || len(data) != 176 {
		t.Fatalf("Size() = %d, len(Marshal()) = %d, want 176", u.Size(), len(data))
	}

	f32 := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(data[off:])) }
	u32 := func(off int) uint32 { return binary.LittleEndian.Uint32(data[off:]) }

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"camera_to_world translation x", f32(48), float32(4)},
		{"camera_to_world translation z", f32(56), float32(6)},
		{"inverse_projection[1][1]", f32(64 + 20), float32(3)},
		{"pixel_offset.x", f32(128), float32(0.5)},
		{"pixel_offset.y", f32(132), float32(0.125)},
		{"sample_index", u32(136), uint32(9)},
		{"light.y", f32(148), float32(-1)},
		{"light.w", f32(156), float32(1.5)},
		{"sphere_count", u32(160), uint32(3)},
		{"tail padding", u32(172), uint32(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}
