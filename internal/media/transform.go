package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"time"

	"timeline-media/internal/filesystem"
	"timeline-media/internal/logging"
	"timeline-media/internal/metrics"

	"github.com/disintegration/imaging"
)

// Transformer renders local images into their thumbnail and full image.
type Transformer struct {
	Limits    Limits
	Watermark *Watermark

	// UseVips shrinks oversized sources with libvips before resampling.
	// InitVips must have succeeded.
	UseVips bool
}

// Transformed describes a completed transform.
type Transformed struct {
	// Width and Height are the oriented source dimensions.
	Width, Height int
	CapturedAt    time.Time
	Panorama      bool

	Thumbnail Dimensions
	Full      Dimensions

	BytesWritten int64
}

// Transform decodes data and writes the thumbnail to thumbPath and the
// bounded, watermarked full image to imagePath. ext selects the output
// encoding. Errors wrapping ErrDecode concern the source only; any other
// error means an output could not be produced.
func (t *Transformer) Transform(ctx context.Context, data []byte, ext, imagePath, thumbPath string) (*Transformed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	limits := t.Limits.withDefaults()

	start := time.Now()
	src, full, err := t.decode(data, limits)
	if err != nil {
		return nil, err
	}
	metrics.MediaTransformDuration.WithLabelValues("decode").Observe(time.Since(start).Seconds())

	out := &Transformed{
		Width:    src.Width,
		Height:   src.Height,
		Panorama: IsPanorama(src.Width, src.Height),
	}
	if format == imaging.JPEG {
		out.CapturedAt = t.captureTime(data, imagePath)
	}

	start = time.Now()
	tw, th := ThumbnailSize(src.Width, src.Height, limits.ThumbnailSize)
	thumb := resizeTo(full, tw, th)
	n, err := t.write(thumb, format, limits, thumbPath)
	if err != nil {
		return nil, err
	}
	out.Thumbnail = Dimensions{Width: tw, Height: th}
	out.BytesWritten += n
	metrics.MediaTransformDuration.WithLabelValues("thumbnail").Observe(time.Since(start).Seconds())

	start = time.Now()
	fw, fh, _ := FullSize(src.Width, src.Height, limits)
	full = t.Watermark.Apply(resizeTo(full, fw, fh))
	n, err = t.write(full, format, limits, imagePath)
	if err != nil {
		return nil, err
	}
	out.Full = Dimensions{Width: fw, Height: fh}
	out.BytesWritten += n
	metrics.MediaTransformDuration.WithLabelValues("full").Observe(time.Since(start).Seconds())

	return out, nil
}

// decode returns the oriented source dimensions and an image at least as
// large as the full output.
func (t *Transformer) decode(data []byte, limits Limits) (Dimensions, image.Image, error) {
	if t.UseVips && IsVipsAvailable() && needsShrink(data, limits) {
		img, src, err := ShrinkWithVips(data, func(w, h int) (int, int) {
			fw, fh, _ := FullSize(w, h, limits)
			return fw, fh
		})
		if err == nil {
			return src, img, nil
		}
		if errors.Is(err, ErrDecode) {
			return Dimensions{}, nil, err
		}
		logging.Warn("vips shrink failed, falling back to full decode: %v", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Dimensions{}, nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	b := img.Bounds()
	return Dimensions{Width: b.Dx(), Height: b.Dy()}, img, nil
}

// needsShrink reports whether the source is larger than its full output,
// judged from the header alone.
func needsShrink(data []byte, limits Limits) bool {
	dims, _, err := DecodeDimensions(bytes.NewReader(data))
	if err != nil {
		return false
	}
	_, _, resize := FullSize(dims.Width, dims.Height, limits)
	return resize
}

func (t *Transformer) captureTime(data []byte, imagePath string) time.Time {
	captured, err := CaptureTime(data)
	switch {
	case err == nil:
		return captured
	case errors.Is(err, ErrNoCaptureTime):
		logging.Debug("no capture time for %s", imagePath)
	default:
		logging.Info("[i] no exif metadata for %s: %v", imagePath, err)
	}
	return time.Time{}
}

func (t *Transformer) write(img image.Image, format imaging.Format, limits Limits, path string) (int64, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(limits.JPEGQuality)); err != nil {
		return 0, fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := filesystem.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}

	metrics.MediaFilesWritten.Inc()
	metrics.MediaBytesWritten.Add(float64(buf.Len()))
	return int64(buf.Len()), nil
}

// resizeTo resamples img to exactly w x h unless it already has that size.
func resizeTo(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}
