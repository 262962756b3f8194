package scene

import (
	"encoding/binary"
	"math"
)

// GPUSphereSize is the packed size of one sphere in the kernel's storage buffer: 11 float32 values.
const GPUSphereSize = 44

// Buffer is an immutable, ordered set of spheres shared read-only between the orchestrator, the frame builder and the kernel.
// A re-seed produces a new Buffer; an existing one is never mutated.
type Buffer struct {
	spheres []Sphere
	seed    int64
}

// NewBuffer creates a Buffer holding a copy of spheres.
//
// Parameters:
//   - seed: the seed the spheres were generated with, kept for diagnostics
//   - spheres: the spheres to hold
//
// Returns:
//   - *Buffer: the new buffer
func NewBuffer(seed int64, spheres []Sphere) *Buffer {
	cp := make([]Sphere, len(spheres))
	copy(cp, spheres)
	return &Buffer{spheres: cp, seed: seed}
}

// Len returns the number of spheres. A nil Buffer holds zero spheres.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.spheres)
}

// Seed returns the seed the buffer was generated with.
func (b *Buffer) Seed() int64 {
	if b == nil {
		return 0
	}
	return b.seed
}

// Spheres returns a copy of the held spheres.
func (b *Buffer) Spheres() []Sphere {
	if b == nil {
		return nil
	}
	cp := make([]Sphere, len(b.spheres))
	copy(cp, b.spheres)
	return cp
}

// Size returns the byte size of the packed GPU representation.
// Empty buffers report the size of one sphere since zero-sized storage buffers cannot be bound.
func (b *Buffer) Size() uint64 {
	return uint64(max(b.Len(), 1)) * GPUSphereSize
}

// Marshal packs the spheres into the kernel's storage layout: position.xyz, radius, albedo.xyz, specular.xyz,
// roughness as little-endian float32, 44 bytes per sphere. Empty buffers produce one zeroed sphere.
//
// Returns:
//   - []byte: the packed data, Size() bytes long
func (b *Buffer) Marshal() []byte {
	buf := make([]byte, b.Size())
	for i := range b.Len() {
		s := b.spheres[i]
		fields := [11]float32{
			s.Position[0], s.Position[1], s.Position[2],
			s.Radius,
			s.Albedo[0], s.Albedo[1], s.Albedo[2],
			s.Specular[0], s.Specular[1], s.Specular[2],
			s.Roughness,
		}
		off := i * GPUSphereSize
		for j, f := range fields {
			binary.LittleEndian.PutUint32(buf[off+j*4:], math.Float32bits(f))
		}
	}
	return buf
}
