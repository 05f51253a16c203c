// Package content reads the timeline content tree.
//
// The tree has a fixed two-level layout: root/<event>/<file>. Each immediate
// subdirectory of the root is one event; its files are grouped without
// descending further. An event's markdown file carries a frontmatter block
// (YAML or TOML) with the event attributes, followed by the body rendered to
// HTML for the client.
package content
