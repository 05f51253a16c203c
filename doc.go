// Command timeline-media turns a directory of markdown event folders into
// the timeline data file of a static site, rendering the referenced images
// on the way.
//
// # Commands
//
//	timeline-media build    process media once and update the data file
//	timeline-media watch    build, then rebuild when the content changes
//	timeline-media version  print build information
//
// # Build Sequence
//
//  1. Configuration: YAML file and environment via internal/config, then flags
//  2. Runtime setup: GOMEMLIMIT, filesystem metrics observer, optional libvips
//  3. Previous timeline: read from the data file for cache lookups
//  4. Pipeline run: scan, resolve and render media (internal/pipeline)
//  5. Merge: entries of the configured source replace their previous
//     versions; without a source the new timeline replaces the old one
//  6. Data file: timeline, visitedAreas and lastUpdateAt are written back,
//     other keys are kept
//  7. Metrics: optionally written as a Prometheus textfile
//
// Media that could not be processed is listed once at the end of the run.
// Filesystem errors abort the run with a non-zero exit status.
//
// # Build Requirements
//
// libvips is used through CGO for decode-time shrinking of large photos.
// Without it, pass --no-vips or set USE_VIPS=false.
package main
