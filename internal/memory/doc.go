// Package memory configures the Go soft memory limit before image decoding starts.
//
// Decoded photos are large (a 24MP RGBA frame is ~96MB), and a CI runner usually has a
// hard container limit. Configure sets GOMEMLIMIT to a ratio of the configured limit so
// the garbage collector works harder before the container is OOM-killed. An explicit
// GOMEMLIMIT environment variable always takes precedence.
package memory
