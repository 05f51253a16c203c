// Package timeline assembles processed events into the client timeline.
//
// An Entry is one event: its frontmatter attributes, rendered HTML and
// resolved media. Entries serialise to the flat JSON objects stored in the
// site's data file, with dates as unix milliseconds.
//
// Aggregate sorts entries newest first, collects the union of tags and the
// visited areas, and carries the list of media references that could not
// be resolved so they can be reported once at the end of a run.
package timeline
