package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every series is present in the first textfile write, even when zero.
func InitializeMetrics() {
	for _, status := range []string{"success", "error"} {
		PipelineRunsTotal.WithLabelValues(status)
	}

	for _, variant := range []string{"local", "youtube", "remote", "unrecognized"} {
		for _, status := range []string{"processed", "cached", "failed"} {
			MediaResolvedTotal.WithLabelValues(variant, status)
		}
	}

	for _, phase := range []string{"decode", "thumbnail", "full"} {
		MediaTransformDuration.WithLabelValues(phase)
	}

	volumes := []string{"content", "output", "unknown"}
	ops := []string{"stat", "read", "readdir", "write"}
	for _, vol := range volumes {
		for _, op := range ops {
			FilesystemOperationDuration.WithLabelValues(vol, op)
			FilesystemOperationErrors.WithLabelValues(vol, op)
			FilesystemRetryAttempts.WithLabelValues(op, vol)
			FilesystemRetrySuccess.WithLabelValues(op, vol)
			FilesystemRetryFailures.WithLabelValues(op, vol)
			FilesystemStaleErrors.WithLabelValues(op, vol)
		}
	}
}
