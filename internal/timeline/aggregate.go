package timeline

import (
	"sort"
	"time"
)

// Result is the aggregated outcome of a run.
type Result struct {
	Entries      []Entry
	Tags         []string
	VisitedAreas []Area
	Unresolved   []Unresolved
}

// Aggregate sorts entries and collects tags and visited areas. The
// unresolved list is carried through in the given order.
func Aggregate(entries []Entry, unresolved []Unresolved) Result {
	Sort(entries)
	return Result{
		Entries:      entries,
		Tags:         AllTags(entries),
		VisitedAreas: VisitedAreas(entries),
		Unresolved:   unresolved,
	}
}

// Sort orders entries by effective date, newest first. Entries without a
// date count as the Unix epoch. Equal dates keep their relative order.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return sortKey(entries[i]).After(sortKey(entries[j]))
	})
}

func sortKey(e Entry) time.Time {
	if d, ok := e.Date(); ok {
		return d
	}
	return time.Unix(0, 0)
}

// AllTags returns the sorted union of every entry's tags.
func AllTags(entries []Entry) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, e := range entries {
		for _, tag := range e.Tags() {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	sort.Strings(tags)
	return tags
}

// Merge combines a previous timeline with freshly built entries. With a
// source, only previous entries attributed to that source are replaced;
// without one the fresh entries replace the whole timeline. The result is
// sorted.
func Merge(previous, fresh []Entry, source string) []Entry {
	var merged []Entry
	if source != "" {
		for _, e := range previous {
			if e.Source != source {
				merged = append(merged, e)
			}
		}
	}
	merged = append(merged, fresh...)
	Sort(merged)
	return merged
}
