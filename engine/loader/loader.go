// Package loader turns environment images into RGBA8 staging data for the skybox binding of the ray tracing
// kernel. PNG, JPEG, BMP, TIFF and WebP are understood. Images larger than the device's 2D texture limit are
// downscaled, and a procedural sky stands in when no image is configured.
package loader

import (
	"fmt"
	"image"
	"io"
	"os"
	"sync"

	"github.com/Carmen-Shannon/oxy-rt/common"
	xdraw "golang.org/x/image/draw"
)

// LoaderBackendType identifies the decoder backend to use.
type LoaderBackendType int

const (
	// BackendTypeImage decodes through the standard image registry extended with x/image formats.
	BackendTypeImage LoaderBackendType = iota
)

// ProceduralSkyKey is the cache key of the generated sky returned by Skybox("").
const ProceduralSkyKey = "procedural-sky"

// defaultMaxDimension is the WebGPU default limit for maxTextureDimension2D.
const defaultMaxDimension = 8192

type loader struct {
	mu sync.RWMutex

	maxDimension uint32
	skyWidth     uint32
	skyHeight    uint32

	textureCache map[string]common.TextureStagingData

	backend loaderBackend
}

// Loader decodes and caches skybox textures.
type Loader interface {
	// Load decodes an image file and caches the result by path. A cached path is not read again.
	//
	// Parameters:
	//   - path: the image file to load
	//
	// Returns:
	//   - common.TextureStagingData: RGBA8 pixels no larger than MaxDimension on either axis
	//   - error: error if the file cannot be opened or decoded
	Load(path string) (common.TextureStagingData, error)

	// LoadReader decodes an image stream and caches it under name.
	//
	// Parameters:
	//   - name: the cache key for the decoded texture
	//   - r: the reader providing encoded image data
	//
	// Returns:
	//   - common.TextureStagingData: RGBA8 pixels no larger than MaxDimension on either axis
	//   - error: error if decoding fails
	LoadReader(name string, r io.Reader) (common.TextureStagingData, error)

	// Skybox loads the environment texture at path, or returns the procedural sky when path is empty.
	Skybox(path string) (common.TextureStagingData, error)

	// Get retrieves a cached texture by key.
	Get(name string) (common.TextureStagingData, bool)

	// MaxDimension returns the largest width or height a loaded texture may have.
	MaxDimension() uint32
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the decoder backend to use (e.g., BackendTypeImage)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new Loader instance
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		maxDimension: defaultMaxDimension,
		skyWidth:     512,
		skyHeight:    256,
		textureCache: make(map[string]common.TextureStagingData),
	}

	switch backendType {
	case BackendTypeImage:
		fallthrough
	default:
		l.backend = newImageLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (common.TextureStagingData, error) {
	if tex, ok := l.Get(path); ok {
		return tex, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("failed to open skybox %s: %w", path, err)
	}
	defer file.Close()

	return l.LoadReader(path, file)
}

func (l *loader) LoadReader(name string, r io.Reader) (common.TextureStagingData, error) {
	img, _, err := l.backend.Decode(r)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("skybox %s: %w", name, err)
	}

	tex := toStagingData(img, l.MaxDimension())

	l.mu.Lock()
	l.textureCache[name] = tex
	l.mu.Unlock()
	return tex, nil
}

func (l *loader) Skybox(path string) (common.TextureStagingData, error) {
	if path != "" {
		return l.Load(path)
	}
	if tex, ok := l.Get(ProceduralSkyKey); ok {
		return tex, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	tex := GradientSky(l.skyWidth, l.skyHeight, DefaultSkyTop, DefaultSkyBottom)
	l.textureCache[ProceduralSkyKey] = tex
	return tex, nil
}

func (l *loader) Get(name string) (common.TextureStagingData, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	tex, ok := l.textureCache[name]
	return tex, ok
}

func (l *loader) MaxDimension() uint32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.maxDimension
}

// fitWithin scales (w, h) down uniformly so neither side exceeds limit. Sizes already inside are returned as is.
func fitWithin(w, h int, limit uint32) (int, int) {
	longest := max(w, h)
	if limit == 0 || longest <= int(limit) {
		return w, h
	}
	scale := float64(limit) / float64(longest)
	return max(1, int(float64(w)*scale)), max(1, int(float64(h)*scale))
}

// toStagingData converts any decoded image to tightly packed RGBA8, resampling with Catmull-Rom when it
// exceeds limit.
func toStagingData(img image.Image, limit uint32) common.TextureStagingData {
	bounds := img.Bounds()
	w, h := fitWithin(bounds.Dx(), bounds.Dy(), limit)

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == bounds.Dx() && h == bounds.Dy() {
		xdraw.Draw(rgba, rgba.Bounds(), img, bounds.Min, xdraw.Src)
	} else {
		xdraw.CatmullRom.Scale(rgba, rgba.Bounds(), img, bounds, xdraw.Src, nil)
	}

	return common.TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(w),
		Height: uint32(h),
	}
}
