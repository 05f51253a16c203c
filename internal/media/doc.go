// Package media classifies timeline media references and produces the
// derived image assets for them.
//
// A reference from an event's frontmatter is one of:
//   - a local image stored next to the event's markdown file
//   - a YouTube video link
//   - a remote https image URL
//
// Classify decides the variant without touching the filesystem or network.
// Transformer renders local images into a thumbnail and a size-bounded,
// watermarked full image. Prober measures remote images and YouTube
// thumbnails, rate limited per host.
//
// Decoding uses the standard library decoders plus WebP. When libvips has
// been initialised with InitVips the transformer shrinks large sources with
// it before handing them to imaging.
package media
