package media

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func solidImage(w, h int, c color.Color) *image.NRGBA {
	return imaging.New(w, h, c)
}

func TestNewWatermarkScalesDown(t *testing.T) {
	wm := NewWatermark(solidImage(251, 1003, color.White), 0.2)

	w, h := wm.Size()
	if w != 50 || h != 200 {
		t.Errorf("Size() = %dx%d, want 50x200", w, h)
	}

	wm = NewWatermark(solidImage(100, 100, color.White), 0)
	if w, h := wm.Size(); w != 20 || h != 20 {
		t.Errorf("default scale Size() = %dx%d, want 20x20", w, h)
	}
}

func TestWatermarkPosition(t *testing.T) {
	wm := NewWatermark(solidImage(200, 500, color.White), 0.2) // 40x100

	tests := []struct {
		name          string
		width, height int
		want          image.Point
	}{
		{name: "regular frame", width: 1024, height: 768, want: image.Pt(1024-40-5, (768-100)/2)},
		{name: "narrow frame clamps left", width: 30, height: 768, want: image.Pt(0, 334)},
		{name: "short frame clamps top", width: 1024, height: 50, want: image.Pt(979, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wm.Position(tt.width, tt.height); got != tt.want {
				t.Errorf("Position(%d, %d) = %v, want %v", tt.width, tt.height, got, tt.want)
			}
		})
	}
}

func TestWatermarkApply(t *testing.T) {
	wm := NewWatermark(solidImage(50, 50, color.NRGBA{R: 255, A: 255}), 0.2) // 10x10 red
	base := solidImage(100, 60, color.NRGBA{B: 255, A: 255})

	out := wm.Apply(base)
	if b := out.Bounds(); b.Dx() != 100 || b.Dy() != 60 {
		t.Fatalf("Apply changed size to %dx%d", b.Dx(), b.Dy())
	}

	// Watermark spans x 85..94, y 25..34.
	r, _, b, _ := out.At(90, 30).RGBA()
	if r>>8 != 255 || b>>8 != 0 {
		t.Errorf("pixel under watermark = r%d b%d, want red", r>>8, b>>8)
	}
	r, _, b, _ = out.At(97, 30).RGBA()
	if r>>8 != 0 || b>>8 != 255 {
		t.Errorf("pixel in right inset = r%d b%d, want blue", r>>8, b>>8)
	}
	r, _, b, _ = out.At(10, 10).RGBA()
	if r>>8 != 0 || b>>8 != 255 {
		t.Errorf("pixel outside watermark = r%d b%d, want blue", r>>8, b>>8)
	}
}

func TestNilWatermark(t *testing.T) {
	var wm *Watermark
	base := solidImage(10, 10, color.White)

	if out := wm.Apply(base); out != image.Image(base) {
		t.Error("nil watermark should return the input image")
	}
	if w, h := wm.Size(); w != 0 || h != 0 {
		t.Errorf("nil Size() = %dx%d", w, h)
	}
}

func TestLoadWatermark(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watermark.png")
	createTestImage(t, path, 300, 120, "png")

	wm, err := LoadWatermark(path, DefaultWatermarkScale)
	if err != nil {
		t.Fatalf("LoadWatermark failed: %v", err)
	}
	if w, h := wm.Size(); w != 60 || h != 24 {
		t.Errorf("Size() = %dx%d, want 60x24", w, h)
	}

	if _, err := LoadWatermark(filepath.Join(t.TempDir(), "missing.png"), 0.2); err == nil {
		t.Error("expected error for missing watermark")
	}
}

func TestDefaultWatermark(t *testing.T) {
	wm, err := DefaultWatermark(DefaultWatermarkScale)
	if err != nil {
		t.Fatalf("DefaultWatermark failed: %v", err)
	}
	if w, h := wm.Size(); w != 30 || h != 120 {
		t.Errorf("Size() = %dx%d, want 30x120", w, h)
	}
}
