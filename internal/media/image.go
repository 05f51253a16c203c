package media

import (
	"fmt"
	"image"
	"io"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp" // WebP format support
)

const (
	// DefaultThumbnailSize caps the shorter side of thumbnails.
	DefaultThumbnailSize = 256

	// DefaultPictureSize bounds the width of standard full images.
	DefaultPictureSize = 1024

	// DefaultPanoramaSize bounds the height of panoramas.
	DefaultPanoramaSize = 1024

	// DefaultJPEGQuality is used when encoding jpeg outputs.
	DefaultJPEGQuality = 90
)

// Limits are the size bounds applied by the transformer.
type Limits struct {
	ThumbnailSize int
	PictureSize   int
	PanoramaSize  int
	JPEGQuality   int
}

// DefaultLimits returns the standard output bounds.
func DefaultLimits() Limits {
	return Limits{
		ThumbnailSize: DefaultThumbnailSize,
		PictureSize:   DefaultPictureSize,
		PanoramaSize:  DefaultPanoramaSize,
		JPEGQuality:   DefaultJPEGQuality,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.ThumbnailSize <= 0 {
		l.ThumbnailSize = d.ThumbnailSize
	}
	if l.PictureSize <= 0 {
		l.PictureSize = d.PictureSize
	}
	if l.PanoramaSize <= 0 {
		l.PanoramaSize = d.PanoramaSize
	}
	if l.JPEGQuality <= 0 || l.JPEGQuality > 100 {
		l.JPEGQuality = d.JPEGQuality
	}
	return l
}

// IsPanorama reports whether width >= 2.73 * height. Integer arithmetic
// keeps the threshold exact.
func IsPanorama(width, height int) bool {
	return width*100 >= height*273
}

// ThumbnailSize returns the thumbnail dimensions. The shorter side is capped
// at bound and the image is never enlarged. Portrait images are bounded by
// width, everything else by height.
func ThumbnailSize(width, height, bound int) (int, int) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	if width < height {
		w := min(bound, width)
		return w, scaleSide(height, w, width)
	}
	h := min(bound, height)
	return scaleSide(width, h, height), h
}

// FullSize returns the dimensions of the full image and whether a resize is
// needed. Panoramas are bounded by height, other images by width. The result
// is never larger than the source.
func FullSize(width, height int, l Limits) (int, int, bool) {
	l = l.withDefaults()

	if IsPanorama(width, height) {
		if height <= l.PanoramaSize {
			return width, height, false
		}
		return scaleSide(width, l.PanoramaSize, height), l.PanoramaSize, true
	}

	if width <= l.PictureSize {
		return width, height, false
	}
	return l.PictureSize, scaleSide(height, l.PictureSize, width), true
}

// scaleSide scales side by num/den, rounding down and never returning zero.
func scaleSide(side, num, den int) int {
	if den <= 0 {
		return side
	}
	v := side * num / den
	if v < 1 {
		return 1
	}
	return v
}

// Dimensions holds image width and height
type Dimensions struct {
	Width  int
	Height int
}

// DecodeDimensions reads only the image header from r.
func DecodeDimensions(r io.Reader) (Dimensions, string, error) {
	config, format, err := image.DecodeConfig(r)
	if err != nil {
		return Dimensions{}, "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return Dimensions{Width: config.Width, Height: config.Height}, format, nil
}
