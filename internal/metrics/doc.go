// Package metrics provides Prometheus instrumentation for the timeline media builder.
//
// All metrics are prefixed with "timeline_media_". The builder is a batch job, so
// there is no scrape endpoint: WriteTextfile dumps the default registry in the text
// exposition format for a node_exporter textfile collector.
//
// # Metric Categories
//
// ## Pipeline
//   - PipelineRunsTotal, PipelineLastRunDuration, PipelineLastRunTimestamp
//   - PipelineEvents, PipelineUnresolvedMedia
//
// ## Media
//   - MediaResolvedTotal by variant (local, youtube, remote, unrecognized) and
//     status (processed, cached, failed)
//   - MediaTransformDuration by phase (decode, thumbnail, full, encode)
//   - MediaFilesWritten, MediaBytesWritten
//   - RemoteFetchDuration by host and status
//
// ## Concurrency gate
//   - GateInFlight, GateWaitDuration
//
// ## Filesystem
//   - Operation duration/errors per volume, NFS retry counters. These are fed through
//     the filesystem.Observer returned by NewFilesystemObserver.
package metrics
