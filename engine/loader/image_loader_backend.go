package loader

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type imageLoaderBackendImpl struct{}

var _ loaderBackend = &imageLoaderBackendImpl{}

func newImageLoaderBackend() loaderBackend {
	return &imageLoaderBackendImpl{}
}

func (b *imageLoaderBackendImpl) Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}
