package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// DigestLength is the number of hex characters kept from the SHA-256 sum.
const DigestLength = 16

// Digest returns the content identity of data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:DigestLength]
}

// Destination holds the on-disk and client paths of a local image's outputs.
type Destination struct {
	Name string // digest without extension

	Image     string // on-disk full image
	Thumbnail string // on-disk thumbnail

	ClientImage     string // full image as referenced by the client
	ClientThumbnail string // thumbnail as referenced by the client
}

// NewDestination builds the output paths for a digest and extension.
// ext is used as written, without the leading dot.
func NewDestination(digest, ext, destDir, destDirClient string) Destination {
	image := digest + "." + ext
	thumb := digest + ".thumbnail." + ext
	return Destination{
		Name:            digest,
		Image:           joinPath(destDir, image),
		Thumbnail:       joinPath(destDir, thumb),
		ClientImage:     joinPath(destDirClient, image),
		ClientThumbnail: joinPath(destDirClient, thumb),
	}
}

// joinPath appends name to dir with a single slash. Client prefixes may be
// URLs, so path.Join is not an option.
func joinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return strings.TrimSuffix(dir, "/") + "/" + name
}
