package content

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateAttributes are parsed into timestamps by NormalizeAttributes.
var DateAttributes = []string{"date", "date-start", "date-end"}

// dateLayouts are tried in order. Values without a zone are read as UTC.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01",
	"2006",
}

var tagSeparator = regexp.MustCompile(`,\s*`)

// NormalizeAttributes parses date attributes into time.Time, dropping the
// ones that do not parse, and splits tags into a deduplicated []string.
// Other attributes are left as they are.
func NormalizeAttributes(attrs map[string]interface{}) map[string]interface{} {
	for _, key := range DateAttributes {
		v, ok := attrs[key]
		if !ok {
			continue
		}
		t, ok := ParseDate(v)
		if !ok {
			delete(attrs, key)
			continue
		}
		attrs[key] = t
	}

	if v, ok := attrs["tags"]; ok {
		if tags := ParseTags(v); len(tags) > 0 {
			attrs["tags"] = tags
		} else {
			delete(attrs, "tags")
		}
	}

	return attrs
}

// ParseDate reads a date attribute. Strings are tried against the accepted
// layouts with a trailing " UTC" ignored; YAML timestamps and bare years
// are accepted as well.
func ParseDate(v interface{}) (time.Time, bool) {
	var s string
	switch val := v.(type) {
	case time.Time:
		return val.UTC(), true
	case string:
		s = val
	case int, int64, uint64:
		s = fmt.Sprint(val)
	default:
		return time.Time{}, false
	}

	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), " UTC"))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ParseTags splits a comma separated tag string. Lists of strings are
// accepted too. Empty and repeated tags are dropped; order is kept.
func ParseTags(v interface{}) []string {
	var parts []string
	switch val := v.(type) {
	case string:
		parts = tagSeparator.Split(val, -1)
	case []string:
		parts = val
	case []interface{}:
		for _, p := range val {
			parts = append(parts, fmt.Sprint(p))
		}
	default:
		return nil
	}

	seen := make(map[string]bool, len(parts))
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		tags = append(tags, p)
	}
	return tags
}
