package config

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"timeline-media/internal/logging"
	"timeline-media/internal/memory"
)

// PrintBanner writes the application banner and build information.
func PrintBanner(w io.Writer) {
	banner := `
------------------------------------------------------------
  _   _                _ _                                  _ _
 | |_(_)_ __ ___   ___| (_)_ __   ___   _ __ ___   ___  __| (_) __ _
 | __| | '_ ' _ \ / _ \ | | '_ \ / _ \ | '_ ' _ \ / _ \/ _' | |/ _' |
 | |_| | | | | | |  __/ | | | | |  __/ | | | | | |  __/ (_| | | (_| |
  \__|_|_| |_| |_|\___|_|_|_| |_|\___| |_| |_| |_|\___|\__,_|_|\__,_|

------------------------------------------------------------`
	fmt.Fprintln(w, banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

// LogSystemInfo logs runtime information relevant to image processing.
func LogSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if logging.IsDebugEnabled() {
		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}
	}

	logging.Info("")
}

// Log writes the effective configuration.
func (c *Config) Log() {
	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  CONTENT_DIR:         %s", c.ContentDir)
	logging.Info("  DEST_DIR:            %s", c.DestDir)
	logging.Info("  DEST_DIR_CLIENT:     %s", c.DestDirClient)
	logging.Info("  DATA_FILE:           %s", c.DataFile)
	logging.Info("  REFERENCED_ONLY:     %v", c.ReferencedOnly)
	logging.Info("  WATERMARK_PATH:      %s", valueOr(c.WatermarkPath, "(bundled)"))
	logging.Info("  SOURCE:              %s", valueOr(c.Source, "(none)"))
	logging.Info("  MAX_CONCURRENT:      %d", c.MaxConcurrent)
	logging.Info("  SIZES:               thumbnail %dpx, picture %dpx, panorama %dpx",
		c.ThumbnailSize, c.PictureSize, c.PanoramaSize)
	logging.Info("  JPEG_QUALITY:        %d", c.JPEGQuality)
	logging.Info("  USE_VIPS:            %v", c.UseVips)
	logging.Info("  FETCH:               timeout %v, %.1f req/s per host", c.FetchTimeout, c.FetchRate)
	logging.Info("  METRICS_FILE:        %s", valueOr(c.MetricsFile, "(none)"))
	if c.MemoryLimit > 0 {
		logging.Info("  MEMORY_LIMIT:        %s (ratio %.2f)", memory.FormatBytes(c.MemoryLimit), c.MemoryRatio)
	}
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())
	logging.Info("")
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
