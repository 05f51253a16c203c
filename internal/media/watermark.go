package media

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"

	"timeline-media/internal/filesystem"

	"github.com/disintegration/imaging"
)

const (
	// DefaultWatermarkScale is applied to the watermark's native size.
	DefaultWatermarkScale = 0.2

	// watermarkInset is the gap between the watermark and the right edge.
	watermarkInset = 5
)

// bundledWatermark is used when no watermark file is configured.
//
//go:embed assets/watermark.png
var bundledWatermark []byte

// Watermark is a pre-scaled overlay composited onto full images.
type Watermark struct {
	img image.Image
}

// LoadWatermark reads and scales the watermark image at path. It is meant
// to be called once per run.
func LoadWatermark(path string, scale float64) (*Watermark, error) {
	data, err := filesystem.ReadFileWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, fmt.Errorf("read watermark: %w", err)
	}
	return decodeWatermark(data, path, scale)
}

// DefaultWatermark returns the bundled watermark scaled by scale.
func DefaultWatermark(scale float64) (*Watermark, error) {
	return decodeWatermark(bundledWatermark, "bundled watermark", scale)
}

func decodeWatermark(data []byte, name string, scale float64) (*Watermark, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode watermark %s: %w", name, err)
	}
	return NewWatermark(img, scale), nil
}

// NewWatermark scales img by scale, rounding each side down.
func NewWatermark(img image.Image, scale float64) *Watermark {
	if scale <= 0 {
		scale = DefaultWatermarkScale
	}
	b := img.Bounds()
	w := max(1, int(float64(b.Dx())*scale))
	h := max(1, int(float64(b.Dy())*scale))
	return &Watermark{img: imaging.Resize(img, w, h, imaging.Lanczos)}
}

// Size returns the scaled watermark dimensions.
func (wm *Watermark) Size() (int, int) {
	if wm == nil {
		return 0, 0
	}
	b := wm.img.Bounds()
	return b.Dx(), b.Dy()
}

// Position returns the top-left corner of the watermark on a frame of the
// given size: vertically centred, inset from the right edge.
func (wm *Watermark) Position(width, height int) image.Point {
	ww, wh := wm.Size()
	return image.Pt(max(0, width-ww-watermarkInset), max(0, (height-wh)/2))
}

// Apply composites the watermark onto img. A nil watermark leaves the image
// untouched.
func (wm *Watermark) Apply(img image.Image) image.Image {
	if wm == nil {
		return img
	}
	b := img.Bounds()
	return imaging.Overlay(img, wm.img, wm.Position(b.Dx(), b.Dy()), 1.0)
}
