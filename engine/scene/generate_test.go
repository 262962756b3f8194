package scene

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// constSource always returns the same value. Values near 0.5 keep insideUnitDisk from looping.
type constSource float32

func (c constSource) Float32() float32 { return float32(c) }

// seqSource replays a fixed sequence and then repeats its last value.
type seqSource struct {
	vals []float32
	i    int
}

func (s *seqSource) Float32() float32 {
	v := s.vals[min(s.i, len(s.vals)-1)]
	s.i++
	return v
}

func TestGenerateNeverOverlaps(t *testing.T) {
	tests := []struct {
		name            string
		capacity        uint32
		radiusRange     [2]float32
		placementRadius float32
	}{
		{"defaults", 100, [2]float32{3, 8}, 100},
		{"dense", 500, [2]float32{2, 10}, 40},
		{"unit radius", 3, [2]float32{1, 1}, 100},
		{"tiny disk", 50, [2]float32{0.5, 1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := int64(1); seed <= 20; seed++ {
				spheres := Generate(tt.capacity, tt.radiusRange, tt.placementRadius, NewRandomSource(seed))
				if uint32(len(spheres)) > tt.capacity {
					t.Fatalf("seed %d: got %d spheres, capacity %d", seed, len(spheres), tt.capacity)
				}
				for i := range spheres {
					for j := i + 1; j < len(spheres); j++ {
						a, b := spheres[i], spheres[j]
						if a.Position.Sub(b.Position).Len() < a.Radius+b.Radius-1e-4 {
							t.Fatalf("seed %d: spheres %d and %d overlap: %+v %+v", seed, i, j, a, b)
						}
					}
				}
			}
		})
	}
}

func TestGenerateSphereProperties(t *testing.T) {
	spheres := Generate(200, [2]float32{3, 8}, 100, NewRandomSource(42))
	if len(spheres) == 0 {
		t.Fatal("expected some spheres")
	}

	inUnit := func(v mgl32.Vec3) bool {
		for _, c := range v {
			if c < 0 || c > 1 {
				return false
			}
		}
		return true
	}

	for i, s := range spheres {
		if s.Position.Y() != s.Radius {
			t.Errorf("sphere %d: y = %v, want radius %v", i, s.Position.Y(), s.Radius)
		}
		if s.Radius < 3 || s.Radius > 8 {
			t.Errorf("sphere %d: radius %v outside [3, 8]", i, s.Radius)
		}
		if h := (mgl32.Vec2{s.Position.X(), s.Position.Z()}).Len(); h > 100+1e-3 {
			t.Errorf("sphere %d: horizontal distance %v outside placement radius", i, h)
		}
		if !inUnit(s.Albedo) || !inUnit(s.Specular) {
			t.Errorf("sphere %d: color out of range: albedo %v specular %v", i, s.Albedo, s.Specular)
		}
		if s.Roughness < 0 || s.Roughness > 1 {
			t.Errorf("sphere %d: roughness %v outside [0, 1]", i, s.Roughness)
		}
		if !s.Metallic() {
			want := mgl32.Vec3{DielectricSpecular, DielectricSpecular, DielectricSpecular}
			if s.Specular != want {
				t.Errorf("sphere %d: dielectric specular %v, want %v", i, s.Specular, want)
			}
		}
	}
}

func TestGenerateEdgeCases(t *testing.T) {
	tests := []struct {
		name            string
		capacity        uint32
		radiusRange     [2]float32
		placementRadius float32
		want            int
	}{
		{"zero capacity", 0, [2]float32{3, 8}, 100, 0},
		{"inverted radius range", 10, [2]float32{8, 3}, 100, 0},
		{"zero placement radius", 25, [2]float32{2, 2}, 0, 1},
		{"negative placement radius", 25, [2]float32{2, 2}, -5, 1},
		{"non-positive radius", 10, [2]float32{0, 0}, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.capacity, tt.radiusRange, tt.placementRadius, NewRandomSource(7))
			if got == nil {
				t.Fatal("Generate() returned nil, want empty slice")
			}
			if len(got) != tt.want {
				t.Errorf("len(Generate()) = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestGenerateSkipsWithoutRetry(t *testing.T) {
	// Every trial draws the same candidate, so only the first is accepted and the rest are skipped.
	spheres := Generate(10, [2]float32{1, 1}, 50, constSource(0.5))
	if len(spheres) != 1 {
		t.Fatalf("len = %d, want 1", len(spheres))
	}
}

func TestGenerateMaterialClassification(t *testing.T) {
	// radius, disk x, disk y, hue, sat, val, metallic draw, roughness
	metal := &seqSource{vals: []float32{0.5, 0.5, 0.5, 0, 1, 1, 0.1, 0.25}}
	spheres := Generate(1, [2]float32{1, 2}, 10, metal)
	if len(spheres) != 1 {
		t.Fatalf("len = %d, want 1", len(spheres))
	}
	s := spheres[0]
	if !s.Metallic() || s.Specular != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("metallic sphere = %+v, want albedo 0 and red specular", s)
	}
	if s.Roughness != 0.25 {
		t.Errorf("roughness = %v, want 0.25", s.Roughness)
	}
	if s.Radius != 1.5 {
		t.Errorf("radius = %v, want 1.5", s.Radius)
	}

	dielectric := &seqSource{vals: []float32{0.5, 0.5, 0.5, 0, 1, 1, 0.9, 0.75}}
	s = Generate(1, [2]float32{1, 2}, 10, dielectric)[0]
	if s.Metallic() || s.Albedo != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("dielectric sphere = %+v, want red albedo", s)
	}

	// A black dielectric has a zero albedo like a metal, but keeps its class.
	black := &seqSource{vals: []float32{0.5, 0.5, 0.5, 0, 1, 0, 0.9, 0.75}}
	s = Generate(1, [2]float32{1, 2}, 10, black)[0]
	if s.Albedo != (mgl32.Vec3{}) {
		t.Fatalf("albedo = %v, want black", s.Albedo)
	}
	if s.Metallic() {
		t.Errorf("black dielectric reported as metallic: %+v", s)
	}
	want := mgl32.Vec3{DielectricSpecular, DielectricSpecular, DielectricSpecular}
	if s.Specular != want {
		t.Errorf("black dielectric specular = %v, want %v", s.Specular, want)
	}
}

func TestGenerateDeterministicPerSeed(t *testing.T) {
	a := Generate(100, [2]float32{3, 8}, 100, NewRandomSource(99))
	b := Generate(100, [2]float32{3, 8}, 100, NewRandomSource(99))
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sphere %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestThreeUnitSpheresWideDisk(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		spheres := Generate(3, [2]float32{1, 1}, 100, NewRandomSource(seed))
		if len(spheres) < 1 || len(spheres) > 3 {
			t.Fatalf("seed %d: len = %d, want 1..3", seed, len(spheres))
		}
		if n := CountOverlaps(spheres); n != 0 {
			t.Fatalf("seed %d: %d overlapping pairs", seed, n)
		}
	}
}

func TestBufferMarshal(t *testing.T) {
	spheres := []Sphere{
		{Position: mgl32.Vec3{1, 2, 3}, Radius: 2, Albedo: mgl32.Vec3{0.1, 0.2, 0.3}, Specular: mgl32.Vec3{0.04, 0.04, 0.04}, Roughness: 0.5},
		{Position: mgl32.Vec3{-4, 5, 6}, Radius: 5, Specular: mgl32.Vec3{0.7, 0.8, 0.9}, Roughness: 1},
	}
	buf := NewBuffer(1, spheres)

	data := buf.Marshal()
	if len(data) != 2*GPUSphereSize || uint64(len(data)) != buf.Size() {
		t.Fatalf("len(Marshal()) = %d, want %d", len(data), 2*GPUSphereSize)
	}

	read := func(i int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	want := []float32{
		1, 2, 3, 2, 0.1, 0.2, 0.3, 0.04, 0.04, 0.04, 0.5,
		-4, 5, 6, 5, 0, 0, 0, 0.7, 0.8, 0.9, 1,
	}
	for i, w := range want {
		if got := read(i); got != w {
			t.Errorf("float %d = %v, want %v", i, got, w)
		}
	}
}

func TestBufferEmptyAndImmutable(t *testing.T) {
	var nilBuf *Buffer
	if nilBuf.Len() != 0 || nilBuf.Size() != GPUSphereSize {
		t.Errorf("nil buffer: Len %d Size %d", nilBuf.Len(), nilBuf.Size())
	}

	empty := NewBuffer(0, nil)
	if len(empty.Marshal()) != GPUSphereSize {
		t.Errorf("empty buffer marshals %d bytes, want %d", len(empty.Marshal()), GPUSphereSize)
	}

	src := []Sphere{{Radius: 1}}
	buf := NewBuffer(3, src)
	src[0].Radius = 9
	got := buf.Spheres()
	got[0].Radius = 7
	if buf.Spheres()[0].Radius != 1 {
		t.Error("buffer contents changed through an external slice")
	}
	if buf.Seed() != 3 {
		t.Errorf("Seed() = %d, want 3", buf.Seed())
	}
}

func TestGeneratorOptions(t *testing.T) {
	g := NewGenerator(
		WithCapacity(40),
		WithRadiusRange(1, 2),
		WithPlacementRadius(30),
		WithSeed(5),
	)
	if g.Capacity() != 40 || g.RadiusRange() != [2]float32{1, 2} || g.PlacementRadius() != 30 {
		t.Fatalf("options not applied: %d %v %v", g.Capacity(), g.RadiusRange(), g.PlacementRadius())
	}

	a, b := g.Generate(), g.Generate()
	if a.Len() != b.Len() || a.Seed() != 5 {
		t.Errorf("seeded generator not deterministic: %d vs %d, seed %d", a.Len(), b.Len(), a.Seed())
	}
}
