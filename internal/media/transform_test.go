package media

import (
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
)

func decodeFile(t *testing.T, path string) (int, int) {
	t.Helper()
	img, err := imaging.Open(path)
	if err != nil {
		t.Fatalf("Open(%s) failed: %v", path, err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestTransform(t *testing.T) {
	tests := []struct {
		name         string
		width        int
		height       int
		format       string
		wantThumb    Dimensions
		wantFull     Dimensions
		wantPanorama bool
	}{
		{
			name: "large landscape jpeg", width: 2000, height: 1500, format: "jpg",
			wantThumb: Dimensions{341, 256}, wantFull: Dimensions{1024, 768},
		},
		{
			name: "small png kept", width: 300, height: 200, format: "png",
			wantThumb: Dimensions{300, 200}, wantFull: Dimensions{300, 200},
		},
		{
			name: "portrait jpeg", width: 1200, height: 1600, format: "jpg",
			wantThumb: Dimensions{256, 341}, wantFull: Dimensions{1024, 1365},
		},
		{
			name: "panorama within height bound", width: 2730, height: 1000, format: "jpg",
			wantThumb: Dimensions{698, 256}, wantFull: Dimensions{2730, 1000}, wantPanorama: true,
		},
	}

	wm := NewWatermark(imaging.New(100, 400, color.NRGBA{R: 255, A: 128}), DefaultWatermarkScale)
	tr := &Transformer{Limits: DefaultLimits(), Watermark: wm}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			imagePath := filepath.Join(dir, "out."+tt.format)
			thumbPath := filepath.Join(dir, "out.thumbnail."+tt.format)

			data := encodeTestImage(t, tt.width, tt.height, tt.format)
			got, err := tr.Transform(context.Background(), data, tt.format, imagePath, thumbPath)
			if err != nil {
				t.Fatalf("Transform failed: %v", err)
			}

			if got.Width != tt.width || got.Height != tt.height {
				t.Errorf("source = %dx%d, want %dx%d", got.Width, got.Height, tt.width, tt.height)
			}
			if got.Panorama != tt.wantPanorama {
				t.Errorf("Panorama = %v, want %v", got.Panorama, tt.wantPanorama)
			}
			if got.Thumbnail != tt.wantThumb || got.Full != tt.wantFull {
				t.Errorf("Thumbnail, Full = %v, %v; want %v, %v", got.Thumbnail, got.Full, tt.wantThumb, tt.wantFull)
			}

			if w, h := decodeFile(t, thumbPath); w != tt.wantThumb.Width || h != tt.wantThumb.Height {
				t.Errorf("thumbnail file = %dx%d, want %v", w, h, tt.wantThumb)
			}
			if w, h := decodeFile(t, imagePath); w != tt.wantFull.Width || h != tt.wantFull.Height {
				t.Errorf("image file = %dx%d, want %v", w, h, tt.wantFull)
			}

			if got.BytesWritten <= 0 {
				t.Error("BytesWritten should be positive")
			}
		})
	}
}

func TestTransformCaptureTime(t *testing.T) {
	dir := t.TempDir()
	data := withExif(t, encodeTestImage(t, 64, 48, "jpeg"), map[uint16]string{
		tagDateTimeOriginal: "2018:07:14 09:15:00",
	})

	tr := &Transformer{}
	got, err := tr.Transform(context.Background(), data, "jpeg",
		filepath.Join(dir, "a.jpeg"), filepath.Join(dir, "a.thumbnail.jpeg"))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	want := time.Date(2018, 7, 14, 9, 15, 0, 0, time.UTC)
	if !got.CapturedAt.Equal(want) {
		t.Errorf("CapturedAt = %v, want %v", got.CapturedAt, want)
	}
}

func TestTransformAppliesOrientation(t *testing.T) {
	dir := t.TempDir()
	data := withOrientation(t, encodeTestImage(t, 300, 200, "jpeg"), 6)

	got, err := (&Transformer{}).Transform(context.Background(), data, "jpg",
		filepath.Join(dir, "a.jpg"), filepath.Join(dir, "a.thumbnail.jpg"))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if got.Width != 200 || got.Height != 300 {
		t.Errorf("source = %dx%d, want 200x300", got.Width, got.Height)
	}
	if w, h := decodeFile(t, filepath.Join(dir, "a.jpg")); w != 200 || h != 300 {
		t.Errorf("image file = %dx%d, want 200x300", w, h)
	}
}

func TestTransformWithoutExifContinues(t *testing.T) {
	dir := t.TempDir()
	tr := &Transformer{}

	got, err := tr.Transform(context.Background(), encodeTestImage(t, 64, 48, "jpeg"), "jpg",
		filepath.Join(dir, "a.jpg"), filepath.Join(dir, "a.thumbnail.jpg"))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if !got.CapturedAt.IsZero() {
		t.Errorf("CapturedAt = %v, want zero", got.CapturedAt)
	}
}

func TestTransformDecodeError(t *testing.T) {
	dir := t.TempDir()
	tr := &Transformer{}

	_, err := tr.Transform(context.Background(), []byte("not an image"), "jpg",
		filepath.Join(dir, "a.jpg"), filepath.Join(dir, "a.thumbnail.jpg"))
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("Transform error = %v, want ErrDecode", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("decode failure wrote %d files", len(entries))
	}
}

func TestTransformWriteErrorIsNotDecodeError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	tr := &Transformer{}

	_, err := tr.Transform(context.Background(), encodeTestImage(t, 20, 20, "png"), "png",
		filepath.Join(missing, "a.png"), filepath.Join(missing, "a.thumbnail.png"))
	if err == nil {
		t.Fatal("expected write error")
	}
	if errors.Is(err, ErrDecode) {
		t.Errorf("write failure reported as decode error: %v", err)
	}
}

func TestTransformCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := &Transformer{}
	_, err := tr.Transform(ctx, encodeTestImage(t, 20, 20, "png"), "png", "unused.png", "unused.thumbnail.png")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Transform error = %v, want context.Canceled", err)
	}
}
