package scene

import (
	"github.com/Carmen-Shannon/oxy-rt/common"
	"github.com/go-gl/mathgl/mgl32"
)

// RandomSource yields uniform samples in [0, 1). *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	Float32() float32
}

// Generate places up to capacity non-overlapping spheres on the ground plane in a single pass of independent trials.
// Each trial draws a radius in radiusRange and a center inside a disk of placementRadius. A trial whose sphere
// overlaps an already accepted sphere is skipped; it is not retried, so the result may hold fewer than capacity spheres.
//
// Degenerate inputs never fail: an inverted radius range yields an empty result, a negative placement radius is
// treated as 0, and a trial drawing a radius <= 0 is skipped.
//
// Parameters:
//   - capacity: the number of placement trials
//   - radiusRange: the [min, max] radius range
//   - placementRadius: the radius of the placement disk centered at the origin
//   - rng: the random source
//
// Returns:
//   - []Sphere: the accepted spheres in acceptance order
func Generate(capacity uint32, radiusRange [2]float32, placementRadius float32, rng RandomSource) []Sphere {
	minR, maxR := radiusRange[0], radiusRange[1]
	if capacity == 0 || minR > maxR {
		return []Sphere{}
	}
	placementRadius = max(placementRadius, 0)

	spheres := make([]Sphere, 0, capacity)
	for range capacity {
		radius := minR + rng.Float32()*(maxR-minR)
		disk := insideUnitDisk(rng).Mul(placementRadius)

		candidate := Sphere{
			Position: mgl32.Vec3{disk.X(), radius, disk.Y()},
			Radius:   radius,
		}
		if radius <= 0 || overlapsAny(candidate, spheres) {
			continue
		}

		color := common.HSVToRGB(rng.Float32(), rng.Float32(), rng.Float32())
		if rng.Float32() < MetallicProbability {
			candidate.Albedo = mgl32.Vec3{}
			candidate.Specular = color
			candidate.metallic = true
		} else {
			candidate.Albedo = color
			candidate.Specular = mgl32.Vec3{DielectricSpecular, DielectricSpecular, DielectricSpecular}
		}
		candidate.Roughness = rng.Float32()

		spheres = append(spheres, candidate)
	}
	return spheres
}

func overlapsAny(candidate Sphere, accepted []Sphere) bool {
	for _, other := range accepted {
		if candidate.Overlaps(other) {
			return true
		}
	}
	return false
}

// insideUnitDisk draws a point uniformly inside the unit disk by rejection from the enclosing square.
func insideUnitDisk(rng RandomSource) mgl32.Vec2 {
	for {
		p := mgl32.Vec2{rng.Float32()*2 - 1, rng.Float32()*2 - 1}
		if p.Dot(p) <= 1 {
			return p
		}
	}
}
