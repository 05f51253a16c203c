package timeline

import (
	"fmt"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// hintThreshold is the minimum similarity for a "did you mean" hint.
const hintThreshold = 0.6

// Unresolved is a media reference that produced no item.
type Unresolved struct {
	Path   string // event directory
	Src    string // reference as written
	Reason string
	Hint   string // closest local file name, if any
}

// Suggest returns the candidate most similar to src, or "" when none is
// close enough.
func Suggest(src string, candidates []string) string {
	if src == "" || len(candidates) == 0 {
		return ""
	}

	lev := metrics.NewLevenshtein()
	lev.CaseSensitive = false

	best, bestScore := "", 0.0
	for _, c := range candidates {
		score := strutil.Similarity(src, c, lev)
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	if bestScore < hintThreshold {
		return ""
	}
	return best
}

// FormatReport renders the unresolved list as one block of lines.
func FormatReport(unresolved []Unresolved) string {
	if len(unresolved) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("These media entries were not processed:")
	for _, u := range unresolved {
		fmt.Fprintf(&b, "\n - %s at %s (%s)", u.Src, u.Path, u.Reason)
		if u.Hint != "" {
			fmt.Fprintf(&b, ", did you mean %q?", u.Hint)
		}
	}
	return b.String()
}
