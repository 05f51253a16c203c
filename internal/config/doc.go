// Package config loads and validates the build configuration and logs it
// at startup.
//
// # Sources
//
// [Load] reads an optional YAML file and then the environment; environment
// variables win. Command line flags are applied by the caller afterwards,
// and [Config.Validate] is run on the final values.
//
//   - CONTENT_DIR: event directories (default: content/timeline)
//   - DEST_DIR: output directory for rendered images (default: build/img/auto)
//   - DEST_DIR_CLIENT: prefix of image URLs in the timeline (default: /img/auto)
//   - REFERENCED_ONLY: only process media listed in frontmatter (default: true)
//   - DATA_FILE: JSON data file holding the timeline (default: docs/data.json)
//   - WATERMARK_PATH: image stamped onto full-size outputs (default: bundled watermark)
//   - SOURCE: tag for selective re-processing (default: none)
//   - MAX_CONCURRENT_IMAGE_PROCESSES: gate size, 0 for one per CPU (default: 1)
//   - MAX_THUMBNAIL_SIZE_PX, MAX_PICTURE_SIZE_PX, MAX_PANORAMA_SIZE_PX:
//     output bounds (defaults: 256, 1024, 1024)
//   - JPEG_QUALITY: output JPEG quality (default: 90)
//   - USE_VIPS: shrink large sources with libvips when available (default: true)
//   - FETCH_TIMEOUT: per remote probe (default: 20s)
//   - FETCH_RATE: remote requests per second per host, 0 for unlimited (default: 4)
//   - WATCH_DEBOUNCE: quiet period before a watch rebuild (default: 500ms)
//   - METRICS_FILE: Prometheus textfile written after each build (default: none)
//   - MEMORY_LIMIT, MEMORY_RATIO: GOMEMLIMIT sizing in bytes and heap share
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo].
package config
