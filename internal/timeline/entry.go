package timeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"timeline-media/internal/content"
	"timeline-media/internal/media"
)

// Entry is one timeline event.
type Entry struct {
	// Attributes holds the frontmatter attributes except media. Dates are
	// time.Time and tags are []string.
	Attributes map[string]interface{}
	HTML       string
	Media      []media.Item
	Source     string
}

// reserved keys are owned by Entry fields rather than Attributes.
var reserved = map[string]bool{"media": true, "html": true, "source": true}

// NewEntry builds an entry from normalised attributes. Any raw media list in
// attrs is discarded in favour of items.
func NewEntry(attrs map[string]interface{}, html string, items []media.Item, source string) Entry {
	clean := make(map[string]interface{}, len(attrs))
	for k, v := range attrs {
		if !reserved[k] {
			clean[k] = v
		}
	}
	e := Entry{Attributes: clean, HTML: html, Source: source}
	if len(items) > 0 {
		e.Media = items
	}
	return e
}

// Date returns the effective date: date, or date-start when date is absent.
func (e Entry) Date() (time.Time, bool) {
	for _, key := range []string{"date", "date-start"} {
		if t, ok := e.Attributes[key].(time.Time); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// Tags returns the entry's tags.
func (e Entry) Tags() []string {
	tags, _ := e.Attributes["tags"].([]string)
	return tags
}

// MarshalJSON spreads the attributes at the top level next to media, html
// and source.
func (e Entry) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(e.Attributes)+3)
	for k, v := range e.Attributes {
		if t, ok := v.(time.Time); ok {
			out[k] = t.UnixMilli()
			continue
		}
		out[k] = v
	}
	if len(e.Media) > 0 {
		out["media"] = e.Media
	}
	if e.HTML != "" {
		out["html"] = e.HTML
	}
	if e.Source != "" {
		out["source"] = e.Source
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads an entry written by MarshalJSON.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode timeline entry: %w", err)
	}

	*e = Entry{Attributes: make(map[string]interface{}, len(raw))}
	for k, msg := range raw {
		var err error
		switch k {
		case "media":
			err = json.Unmarshal(msg, &e.Media)
		case "html":
			err = json.Unmarshal(msg, &e.HTML)
		case "source":
			err = json.Unmarshal(msg, &e.Source)
		default:
			var v interface{}
			dec := json.NewDecoder(bytes.NewReader(msg))
			dec.UseNumber()
			err = dec.Decode(&v)
			e.Attributes[k] = v
		}
		if err != nil {
			return fmt.Errorf("decode timeline entry field %q: %w", k, err)
		}
	}

	for _, key := range content.DateAttributes {
		n, ok := e.Attributes[key].(json.Number)
		if !ok {
			continue
		}
		ms, err := n.Int64()
		if err != nil {
			continue
		}
		e.Attributes[key] = time.UnixMilli(ms).UTC()
	}
	if tags, ok := e.Attributes["tags"]; ok {
		e.Attributes["tags"] = content.ParseTags(tags)
	}
	return nil
}

// MediaItems flattens the media of all entries, in order.
func MediaItems(entries []Entry) []media.Item {
	var items []media.Item
	for _, e := range entries {
		items = append(items, e.Media...)
	}
	return items
}
