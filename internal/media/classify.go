package media

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// Kind identifies which variant a media reference resolved to.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindLocalImage
	KindYouTube
	KindRemoteImage
)

func (k Kind) String() string {
	switch k {
	case KindLocalImage:
		return "local"
	case KindYouTube:
		return "youtube"
	case KindRemoteImage:
		return "remote"
	default:
		return "unrecognized"
	}
}

var (
	youTubePattern   = regexp.MustCompile(`youtu(?:be\.com|\.be)/`)
	youTubeIDPattern = regexp.MustCompile(`youtu(?:be\.com|\.be)/(?:embed/|watch\?v=)?([^/&?]+)`)
	remotePattern    = regexp.MustCompile(`^https://.*\.(?:jpe?g|png|gif)(?:\?.*)?$`)
)

// Classification is the outcome of Classify. Exactly one of the variant
// fields is meaningful, selected by Kind.
type Classification struct {
	Kind Kind
	Src  string // the reference as written

	// LocalImage
	Name string // cleaned file name inside the event directory
	Ext  string // original extension without the dot

	// YouTube
	VideoID string

	// Err explains an unrecognized reference.
	Err error
}

// Classify decides the variant of src. localImages is the set of image file
// names present in the event directory; local files take precedence over
// URL patterns.
func Classify(src string, localImages map[string]bool) Classification {
	c := Classification{Src: src}

	if name := path.Clean(src); localImages[name] {
		c.Kind = KindLocalImage
		c.Name = name
		c.Ext = strings.TrimPrefix(filepath.Ext(name), ".")
		return c
	}

	if youTubePattern.MatchString(src) {
		m := youTubeIDPattern.FindStringSubmatch(src)
		if m == nil {
			c.Err = ErrNoVideoID
			return c
		}
		c.Kind = KindYouTube
		c.VideoID = m[1]
		return c
	}

	if remotePattern.MatchString(src) {
		c.Kind = KindRemoteImage
		return c
	}

	c.Err = ErrUnrecognized
	return c
}

// IsImageFile reports whether name has one of the transformable image
// extensions, ignoring case.
func IsImageFile(name string) bool {
	return ImageExtensions[strings.ToLower(filepath.Ext(name))]
}

// YouTubeEmbedURL is the privacy-enhanced embed URL used as the item src.
func YouTubeEmbedURL(id string) string {
	return "https://www.youtube-nocookie.com/embed/" + id
}

// YouTubeThumbnailURL is the provider's medium quality thumbnail.
func YouTubeThumbnailURL(id string) string {
	return "https://img.youtube.com/vi/" + id + "/mqdefault.jpg"
}

// YouTubeWatchURL is the canonical watch page link.
func YouTubeWatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
