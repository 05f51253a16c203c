package memory

import (
	"math"
	"os"
	"runtime/debug"
	"strconv"

	"timeline-media/internal/logging"
)

// DefaultMemoryRatio is the share of the memory limit handed to the Go heap.
// The rest is left for libvips buffers and decoded image data outside the heap.
const DefaultMemoryRatio = 0.85

// ConfigResult describes what Configure did.
type ConfigResult struct {
	Configured bool
	Source     string // "GOMEMLIMIT", "config", or "none"
	Limit      int64  // configured container/process limit in bytes
	GoMemLimit int64  // resulting soft heap limit in bytes
	Ratio      float64
}

// Configure sets the Go soft memory limit to ratio × limit bytes.
// An explicit GOMEMLIMIT environment variable always wins; limit <= 0 leaves
// the runtime default in place. Ratios outside (0, 1] fall back to
// DefaultMemoryRatio.
func Configure(limit int64, ratio float64) ConfigResult {
	if env := os.Getenv("GOMEMLIMIT"); env != "" {
		result := ConfigResult{Source: "GOMEMLIMIT"}
		if current := debug.SetMemoryLimit(-1); current > 0 && current < math.MaxInt64 {
			result.Configured = true
			result.GoMemLimit = current
		}
		logging.Info("GOMEMLIMIT set via environment: %s", env)
		return result
	}

	if limit <= 0 {
		logging.Debug("No memory limit configured, leaving GOMEMLIMIT unset")
		return ConfigResult{Source: "none"}
	}

	if ratio <= 0 || ratio > 1 {
		if ratio != 0 {
			logging.Warn("Memory ratio %.2f out of range (0.0-1.0], using default %.2f", ratio, DefaultMemoryRatio)
		}
		ratio = DefaultMemoryRatio
	}

	goMemLimit := int64(float64(limit) * ratio)
	debug.SetMemoryLimit(goMemLimit)

	logging.Info("Configured GOMEMLIMIT: %s (%.1f%% of %s)",
		FormatBytes(goMemLimit), ratio*100, FormatBytes(limit))

	return ConfigResult{
		Configured: true,
		Source:     "config",
		Limit:      limit,
		GoMemLimit: goMemLimit,
		Ratio:      ratio,
	}
}

// FormatBytes formats bytes into a human-readable string using binary units.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return strconv.FormatFloat(float64(b)/float64(div), 'f', 1, 64) + " " + string("KMGTPE"[exp]) + "iB"
}
