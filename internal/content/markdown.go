package content

import (
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

var captionPrefix = regexp.MustCompile(`^\s*#*\s*`)

// RenderHTML renders a markdown body. Links open in a new tab. An empty body
// renders to "".
func RenderHTML(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}

	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.CommonHTMLFlags | blackfriday.HrefTargetBlank,
	})
	out := blackfriday.Run([]byte(body), blackfriday.WithRenderer(renderer))
	return string(out)
}

// Caption returns the first line of body without leading whitespace and
// heading markers. It is the default caption of the event's local images.
func Caption(body string) string {
	s := captionPrefix.ReplaceAllString(body, "")
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimRight(s, " \t")
}
