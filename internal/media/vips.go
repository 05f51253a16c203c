package media

import (
	"bytes"
	"fmt"
	"image"
	"sync"

	"timeline-media/internal/logging"

	"github.com/davidbyttow/govips/v2/vips"
	"github.com/disintegration/imaging"
)

var (
	vipsInitialized bool
	vipsInitMutex   sync.Mutex
	vipsAvailable   bool
)

// vipsLogging maps the application log level onto a libvips level and a
// handler forwarding libvips messages to our logger.
func vipsLogging(appLevel logging.LogLevel) (vips.LogLevel, func(string, vips.LogLevel, string)) {
	forward := func(min vips.LogLevel) func(string, vips.LogLevel, string) {
		return func(domain string, level vips.LogLevel, msg string) {
			if level > min {
				return
			}
			switch {
			case level <= vips.LogLevelCritical:
				logging.Error("[%s] %s", domain, msg)
			case level == vips.LogLevelWarning:
				logging.Warn("[%s] %s", domain, msg)
			default:
				logging.Debug("[%s] %s", domain, msg)
			}
		}
	}

	switch appLevel {
	case logging.LevelDebug:
		return vips.LogLevelInfo, forward(vips.LogLevelDebug)
	case logging.LevelWarn:
		return vips.LogLevelError, forward(vips.LogLevelError)
	case logging.LevelError:
		return vips.LogLevelCritical, forward(vips.LogLevelCritical)
	default:
		return vips.LogLevelWarning, forward(vips.LogLevelWarning)
	}
}

// InitVips initializes the libvips library. Call it once at startup; the
// transformer only uses libvips after a successful InitVips.
func InitVips() error {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		return nil
	}

	level, handler := vipsLogging(logging.GetLevel())
	vips.LoggingSettings(handler, level)

	// Conservative settings; the gate already bounds parallel transforms.
	vips.Startup(&vips.Config{
		ConcurrencyLevel: 1,
		MaxCacheMem:      50 * 1024 * 1024,
		MaxCacheSize:     100,
	})

	vipsInitialized = true
	vipsAvailable = true
	logging.Info("libvips initialized successfully (version: %s)", vips.Version)
	return nil
}

// ShutdownVips cleans up libvips resources
func ShutdownVips() {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		vips.Shutdown()
		vipsInitialized = false
		vipsAvailable = false
		logging.Info("libvips shutdown complete")
	}
}

// IsVipsAvailable returns whether libvips is initialized and available
func IsVipsAvailable() bool {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()
	return vipsAvailable
}

// ShrinkWithVips decodes data with libvips, auto-orients it and shrinks it
// to the box returned by target for the oriented source size. JPEG sources
// benefit from decode-time shrinking, which keeps peak memory far below a
// full decode. The oriented source dimensions are returned alongside.
func ShrinkWithVips(data []byte, target func(width, height int) (int, int)) (image.Image, Dimensions, error) {
	if !IsVipsAvailable() {
		return nil, Dimensions{}, fmt.Errorf("libvips not available")
	}

	params := vips.NewImportParams()
	params.AutoRotate.Set(true)
	ref, err := vips.LoadImageFromBuffer(data, params)
	if err != nil {
		return nil, Dimensions{}, fmt.Errorf("%w: vips: %w", ErrDecode, err)
	}
	defer ref.Close()

	src := Dimensions{Width: ref.Width(), Height: ref.Height()}
	width, height := target(src.Width, src.Height)

	logging.Debug("vips shrinking %dx%d source to %dx%d", src.Width, src.Height, width, height)

	if err := ref.Thumbnail(width, height, vips.InterestingNone); err != nil {
		return nil, src, fmt.Errorf("vips resize failed: %w", err)
	}

	var out []byte
	if ref.HasAlpha() {
		out, _, err = ref.ExportPng(vips.NewPngExportParams())
	} else {
		out, _, err = ref.ExportJpeg(&vips.JpegExportParams{Quality: 95, OptimizeCoding: true})
	}
	if err != nil {
		return nil, src, fmt.Errorf("vips export failed: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, src, fmt.Errorf("failed to decode vips output: %w", err)
	}
	return img, src, nil
}
