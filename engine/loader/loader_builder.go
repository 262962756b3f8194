package loader

import "github.com/Carmen-Shannon/oxy-rt/common"

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithMaxDimension caps the width and height of loaded textures, usually at the device's maxTextureDimension2D.
// Zero leaves the default of 8192.
//
// Parameters:
//   - limit: the largest allowed side in pixels
//
// Returns:
//   - LoaderBuilderOption: a function that applies the limit to a loader
func WithMaxDimension(limit uint32) LoaderBuilderOption {
	return func(l *loader) {
		if limit > 0 {
			l.maxDimension = limit
		}
	}
}

// WithProceduralSkySize sets the equirectangular size of the generated sky.
func WithProceduralSkySize(width, height uint32) LoaderBuilderOption {
	return func(l *loader) {
		if width > 0 && height > 0 {
			l.skyWidth = width
			l.skyHeight = height
		}
	}
}

// WithTexture pre-populates the texture cache.
//
// Parameters:
//   - key: the cache key, a path or ProceduralSkyKey
//   - tex: the staging data to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the texture option to a loader
func WithTexture(key string, tex common.TextureStagingData) LoaderBuilderOption {
	return func(l *loader) {
		l.textureCache[key] = tex
	}
}
