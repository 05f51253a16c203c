package media

import "errors"

var (
	// ErrUnrecognized is returned for references that match no known media variant.
	ErrUnrecognized = errors.New("unrecognized media or not found")

	// ErrNoVideoID is returned when a YouTube reference has no extractable video id.
	ErrNoVideoID = errors.New("no video id in youtube reference")

	// ErrFetch wraps failures of remote dimension probes.
	ErrFetch = errors.New("remote fetch failed")

	// ErrDecode wraps failures decoding a local source image.
	ErrDecode = errors.New("image decode failed")
)
