package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline run metrics
var (
	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timeline_media_pipeline_runs_total",
			Help: "Total number of pipeline runs",
		},
		[]string{"status"},
	)

	PipelineLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "timeline_media_pipeline_last_run_duration_seconds",
			Help: "Duration of the last pipeline run in seconds",
		},
	)

	PipelineLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "timeline_media_pipeline_last_run_timestamp",
			Help: "Timestamp of the last completed pipeline run",
		},
	)

	PipelineEvents = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "timeline_media_pipeline_events",
			Help: "Number of timeline entries produced by the last run",
		},
	)

	PipelineUnresolvedMedia = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "timeline_media_pipeline_unresolved_media",
			Help: "Number of media references left unresolved by the last run",
		},
	)
)

// Media resolution metrics
var (
	MediaResolvedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timeline_media_media_resolved_total",
			Help: "Total number of media references resolved, by variant and outcome",
		},
		[]string{"variant", "status"}, // status: processed, cached, failed
	)

	MediaTransformDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "timeline_media_transform_duration_seconds",
			Help:    "Duration of local image transforms by phase",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"phase"}, // decode, thumbnail, full, encode
	)

	MediaFilesWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "timeline_media_files_written_total",
			Help: "Total number of image and thumbnail files written",
		},
	)

	MediaBytesWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "timeline_media_bytes_written_total",
			Help: "Total bytes of image and thumbnail files written",
		},
	)

	RemoteFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "timeline_media_remote_fetch_duration_seconds",
			Help:    "Duration of remote dimension probes",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"host", "status"},
	)
)

// Concurrency gate metrics
var (
	GateInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "timeline_media_gate_in_flight",
			Help: "Number of media items currently inside the processing gate",
		},
	)

	GateWaitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "timeline_media_gate_wait_duration_seconds",
			Help:    "Time spent waiting for a processing slot",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 60},
		},
	)
)

// Filesystem metrics
var (
	FilesystemOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "timeline_media_filesystem_operation_duration_seconds",
			Help:    "Duration of filesystem operations by volume and operation",
			Buckets: []float64{0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"volume", "operation"},
	)

	FilesystemOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timeline_media_filesystem_operation_errors_total",
			Help: "Total number of failed filesystem operations",
		},
		[]string{"volume", "operation"},
	)

	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timeline_media_filesystem_retry_attempts_total",
			Help: "Total number of filesystem retry attempts for NFS stale errors",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timeline_media_filesystem_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retry",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timeline_media_filesystem_retry_failures_total",
			Help: "Total number of filesystem operations that failed after all retries",
		},
		[]string{"operation", "volume"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timeline_media_filesystem_stale_errors_total",
			Help: "Total number of NFS stale file handle errors encountered",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "timeline_media_filesystem_retry_duration_seconds",
			Help:    "Total duration of filesystem operations that needed retries",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"operation", "volume"},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "timeline_media_app_info",
			Help: "Application information",
		},
		[]string{"version", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, goVersion string) {
	AppInfo.WithLabelValues(version, goVersion).Set(1)
}

// WriteTextfile writes every registered metric to path in the Prometheus text
// exposition format, for pickup by a node_exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
