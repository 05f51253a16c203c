// Package pipeline runs one media ingestion pass over a content tree.
//
// # Flow
//
// Run scans the content root for event directories and loads each event's
// markdown document concurrently. Every media reference of every event then
// becomes a job. A single dispatcher admits jobs to a bounded gate in scan
// order, so with the default of one slot the work is strictly sequential
// and the log reads top to bottom.
//
// Each job is resolved by a Resolver:
//
//   - local images are hashed, and skipped when both output files for that
//     hash already exist; otherwise they are transformed into a thumbnail
//     and a bounded, watermarked full image
//   - YouTube links are normalised to embed URLs and measured through their
//     provider thumbnail
//   - remote images are measured by fetching only enough of the body to
//     read the header
//
// Items found in the previous run's timeline are reused so that unchanged
// media costs no decoding or network traffic.
//
// # Failures
//
// A media reference that cannot be classified, decoded or fetched is
// reported as timeline.Unresolved and the run continues. Filesystem errors
// on the content tree or the destination stop the run.
//
// # Progress
//
// Progress prints "[n/total ~ Xmin Ysec] status name" lines. On a terminal
// the CLI asks for in-place updates.
package pipeline
