/*
Package filesystem provides resilient filesystem operations with automatic retry logic
for NFS stale file handle errors.

# Purpose

Event content directories are frequently checked out onto network storage by CI
runners. This package wraps the standard filesystem operations used by the scanner and
the content-addressed cache (os.Stat, os.Open, os.ReadFile, os.ReadDir) with retry logic
for ESTALE (stale file handle) errors.

# Key Features

  - Automatic retry with exponential backoff for NFS ESTALE errors (errno 116)
  - Transparent fallback to standard os operations for all other errors
  - Atomic writes (temp file + rename) so a crash never leaves a half-written cache entry
  - Metrics through the Observer interface, labelled by volume ("content", "output")

# Usage

	data, err := filesystem.ReadFileWithRetry(path, filesystem.DefaultRetryConfig())

	ok, err := filesystem.Exists(dest, filesystem.DefaultRetryConfig())

	err = filesystem.WriteFileAtomic(dest, encoded, 0o644)

# Retry Behavior

Defaults:
  - MaxRetries: 3 attempts
  - InitialBackoff: 50ms
  - MaxBackoff: 500ms

Only ESTALE triggers retries. All other errors fail immediately.
*/
package filesystem
