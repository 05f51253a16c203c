package media

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Ref is one entry of an event's frontmatter media list.
type Ref struct {
	Src string `mapstructure:"src"`

	// Fields holds every other key of the entry. They are overlaid onto the
	// resolved item.
	Fields map[string]interface{} `mapstructure:",remain"`
}

// DecodeRef converts a raw frontmatter media entry into a Ref. A bare string
// is shorthand for {src: <string>}.
func DecodeRef(raw interface{}) (Ref, error) {
	switch v := raw.(type) {
	case nil:
		return Ref{}, nil
	case string:
		return Ref{Src: v}, nil
	case Ref:
		return v, nil
	}

	var ref Ref
	if err := mapstructure.WeakDecode(raw, &ref); err != nil {
		return Ref{}, fmt.Errorf("decode media entry %v: %w", raw, err)
	}
	delete(ref.Fields, "src")
	return ref, nil
}

// DecodeRefs decodes a frontmatter media list. Entries that fail to decode
// are returned in bad with the decode error; they do not stop the others.
func DecodeRefs(raw interface{}) (refs []Ref, bad []error) {
	if raw == nil {
		return nil, nil
	}

	list, ok := raw.([]interface{})
	if !ok {
		return nil, []error{fmt.Errorf("media must be a list, got %T", raw)}
	}

	refs = make([]Ref, 0, len(list))
	for _, entry := range list {
		ref, err := DecodeRef(entry)
		if err != nil {
			bad = append(bad, err)
			continue
		}
		refs = append(refs, ref)
	}
	return refs, bad
}
