package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// MetallicProbability is the chance an accepted sphere is classified as metallic.
	MetallicProbability float32 = 0.5
	// DielectricSpecular is the specular reflectance of every non-metallic sphere.
	DielectricSpecular float32 = 0.04
)

// Sphere is a single spherical primitive resting on the ground plane.
// Spheres are created in a batch by Generate and are never modified afterwards.
type Sphere struct {
	// Position is the world-space center. Position.Y() always equals Radius.
	Position mgl32.Vec3
	// Radius is strictly positive.
	Radius float32
	// Albedo is the diffuse color, zero for metallic spheres.
	Albedo mgl32.Vec3
	// Specular is the specular color, DielectricSpecular gray for non-metallic spheres.
	Specular mgl32.Vec3
	// Roughness is in [0, 1].
	Roughness float32

	metallic bool
}

// Overlaps reports whether s and other intersect, using squared distances so that touching spheres do not overlap.
//
// Parameters:
//   - other: the sphere to test against
//
// Returns:
//   - bool: true if the squared center distance is less than the squared sum of radii
func (s Sphere) Overlaps(other Sphere) bool {
	d := s.Position.Sub(other.Position)
	r := s.Radius + other.Radius
	return d.Dot(d) < r*r
}

// Metallic reports whether the sphere was classified as metallic during generation.
func (s Sphere) Metallic() bool {
	return s.metallic
}
