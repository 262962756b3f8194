package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// HSVToRGB converts a hue/saturation/value triple to linear RGB.
// All inputs are expected in [0, 1]; hue wraps, saturation and value are clamped.
//
// Parameters:
//   - h: hue, where 0 and 1 are both red
//   - s: saturation
//   - v: value (brightness)
//
// Returns:
//   - mgl32.Vec3: the RGB color with components in [0, 1]
func HSVToRGB(h, s, v float32) mgl32.Vec3 {
	s = Clamp01(s)
	v = Clamp01(v)
	if s == 0 {
		return mgl32.Vec3{v, v, v}
	}

	h = h - float32(math.Floor(float64(h)))
	sector := h * 6
	i := int(sector) % 6
	f := sector - float32(int(sector))

	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	switch i {
	case 0:
		return mgl32.Vec3{v, t, p}
	case 1:
		return mgl32.Vec3{q, v, p}
	case 2:
		return mgl32.Vec3{p, v, t}
	case 3:
		return mgl32.Vec3{p, q, v}
	case 4:
		return mgl32.Vec3{t, p, v}
	default:
		return mgl32.Vec3{v, p, q}
	}
}
