package loader

import (
	"image"
	"io"
)

// loaderBackend decodes an encoded image stream. Concrete implementations
// (e.g., imageLoaderBackend) decide which formats are understood.
type loaderBackend interface {
	// Decode reads one image from r.
	//
	// Parameters:
	//   - r: the reader providing encoded image data
	//
	// Returns:
	//   - image.Image: the decoded image
	//   - string: the format name the decoder matched
	//   - error: error if the stream is not a supported image
	Decode(r io.Reader) (image.Image, string, error)
}
