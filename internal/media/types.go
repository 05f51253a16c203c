package media

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Type is the client-facing media type written to the timeline.
type Type string

const (
	// TypeImage is used for local and remote images.
	TypeImage Type = "image"
	// TypeYouTube is used for embedded YouTube videos.
	TypeYouTube Type = "youtube"
)

// Item is one resolved media entry of a timeline event.
//
// Known fields are typed; any other keys carried by the frontmatter entry or
// by the previous run's record are kept in Extra and written back unchanged.
type Item struct {
	Src        string    // resolved destination reference, unique per item
	Type       Type      // image or youtube
	Thumbnail  string    // local thumbnail path or provider thumbnail URL
	Link       string    // canonical watch URL for videos
	Width      int       // pixel width of the source
	Height     int       // pixel height of the source
	Caption    string    // optional caption
	CapturedAt time.Time // EXIF capture time of local images
	Source     string    // content source tag for selective re-processing

	Extra map[string]interface{}
}

var itemKeys = map[string]bool{
	"src": true, "type": true, "thumbnail": true, "link": true,
	"w": true, "h": true, "d": true, "caption": true, "source": true,
}

// MarshalJSON flattens Extra next to the typed fields. Set typed fields win
// on key collisions.
func (it Item) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(it.Extra)+len(itemKeys))
	for k, v := range it.Extra {
		out[k] = v
	}

	out["src"] = it.Src
	out["type"] = it.Type
	if it.Thumbnail != "" {
		out["thumbnail"] = it.Thumbnail
	}
	if it.Link != "" {
		out["link"] = it.Link
	}
	if it.Width > 0 {
		out["w"] = it.Width
	}
	if it.Height > 0 {
		out["h"] = it.Height
	}
	if !it.CapturedAt.IsZero() {
		out["d"] = it.CapturedAt.UnixMilli()
	}
	if it.Caption != "" {
		out["caption"] = it.Caption
	}
	if it.Source != "" {
		out["source"] = it.Source
	}

	return json.Marshal(out)
}

// UnmarshalJSON reads the flattened form produced by MarshalJSON.
func (it *Item) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode media item: %w", err)
	}

	*it = Item{}
	it.Apply(raw)
	return nil
}

// Apply overlays fields onto the item. Known keys are converted into the
// typed fields; values that do not convert, and unknown keys, land in Extra
// unchanged.
func (it *Item) Apply(fields map[string]interface{}) {
	for k, v := range fields {
		if !it.applyKnown(k, v) {
			if it.Extra == nil {
				it.Extra = make(map[string]interface{})
			}
			it.Extra[k] = v
			continue
		}
		delete(it.Extra, k)
	}
}

func (it *Item) applyKnown(key string, v interface{}) bool {
	if !itemKeys[key] {
		return false
	}

	switch key {
	case "w", "h", "d":
		var n int64
		if err := mapstructure.WeakDecode(v, &n); err != nil {
			return false
		}
		switch key {
		case "w":
			it.Width = int(n)
		case "h":
			it.Height = int(n)
		case "d":
			it.CapturedAt = time.Time{}
			if n != 0 {
				it.CapturedAt = time.UnixMilli(n).UTC()
			}
		}
		return true
	}

	s, ok := v.(string)
	if !ok {
		return false
	}
	switch key {
	case "src":
		it.Src = s
	case "type":
		it.Type = Type(s)
	case "thumbnail":
		it.Thumbnail = s
	case "link":
		it.Link = s
	case "caption":
		it.Caption = s
	case "source":
		it.Source = s
	}
	return true
}

// Clone returns a copy of the item with its own Extra map.
func (it Item) Clone() Item {
	if it.Extra != nil {
		extra := make(map[string]interface{}, len(it.Extra))
		for k, v := range it.Extra {
			extra[k] = v
		}
		it.Extra = extra
	}
	return it
}

// ImageExtensions lists the local image extensions the pipeline transforms.
var ImageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
}
