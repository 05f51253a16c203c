package workers

import (
	"runtime"
)

// Count returns a worker count for a given task type.
// It respects container CPU limits via GOMAXPROCS (Go 1.19+).
//
// The multiplier adjusts for task characteristics:
//   - 1.0 for CPU-bound tasks
//   - 2.0 for I/O-bound tasks
//   - 1.5 for mixed tasks
//
// The limit parameter caps the worker count. Use 0 for no limit.
func Count(multiplier float64, limit int) int {
	available := runtime.GOMAXPROCS(0)

	workers := int(float64(available) * multiplier)

	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}

	return workers
}

// ForCPU returns worker count for CPU-bound tasks (1 per CPU).
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

// ForMixed returns worker count for mixed tasks (1.5 per CPU).
func ForMixed(limit int) int {
	return Count(1.5, limit)
}

// GateSize turns a configured concurrency limit into a gate size.
// Zero means "auto": one slot per CPU, since image transforms are CPU-bound.
// Negative values are clamped to 1.
func GateSize(configured int) int {
	switch {
	case configured == 0:
		return ForCPU(0)
	case configured < 0:
		return 1
	default:
		return configured
	}
}
