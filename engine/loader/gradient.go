package loader

import (
	"math"

	"github.com/Carmen-Shannon/oxy-rt/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Default sky colors in linear RGB, blue overhead fading to white at the nadir.
var (
	DefaultSkyTop    = mgl32.Vec3{0.5, 0.7, 1.0}
	DefaultSkyBottom = mgl32.Vec3{1.0, 1.0, 1.0}
)

// GradientSky builds an equirectangular sky whose color depends only on the view direction's height.
// Row v maps to polar angle pi*(v+0.5)/height, which matches the kernel's equirectangular lookup.
// Colors are linear and are encoded to sRGB bytes since the skybox texture is sampled as sRGB.
//
// Parameters:
//   - width, height: the texture size in pixels
//   - top: the linear color straight up
//   - bottom: the linear color straight down
//
// Returns:
//   - common.TextureStagingData: RGBA8 sRGB pixels
func GradientSky(width, height uint32, top, bottom mgl32.Vec3) common.TextureStagingData {
	pixels := make([]byte, int(width)*int(height)*4)
	for v := range height {
		theta := math.Pi * (float64(v) + 0.5) / float64(height)
		t := float32(0.5 * (math.Cos(theta) + 1))
		c := bottom.Mul(1 - t).Add(top.Mul(t))
		r, g, b := encodeSRGB(c[0]), encodeSRGB(c[1]), encodeSRGB(c[2])

		row := int(v) * int(width) * 4
		for u := range int(width) {
			i := row + u*4
			pixels[i+0] = r
			pixels[i+1] = g
			pixels[i+2] = b
			pixels[i+3] = 255
		}
	}
	return common.TextureStagingData{Pixels: pixels, Width: width, Height: height}
}

// encodeSRGB applies the sRGB transfer function to a linear channel in [0, 1].
func encodeSRGB(linear float32) byte {
	c := float64(common.Clamp01(linear))
	if c <= 0.0031308 {
		c *= 12.92
	} else {
		c = 1.055*math.Pow(c, 1/2.4) - 0.055
	}
	return byte(math.Round(c * 255))
}
