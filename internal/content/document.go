package content

import (
	"bytes"
	"fmt"

	"timeline-media/internal/logging"

	"github.com/adrg/frontmatter"
)

// Document is a parsed markdown file.
type Document struct {
	Attributes map[string]interface{}
	Body       string
}

// ParseDocument splits the leading frontmatter block from the body. Input
// without a block, or with one that fails to parse, yields empty attributes
// and the whole input as body.
func ParseDocument(content []byte) Document {
	var raw map[string]interface{}
	body, err := frontmatter.Parse(bytes.NewReader(content), &raw)
	if err != nil {
		logging.Debug("frontmatter parse failed, using whole file as body: %v", err)
		return Document{Attributes: map[string]interface{}{}, Body: string(content)}
	}

	attrs := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		attrs[k] = normalize(v)
	}
	return Document{Attributes: attrs, Body: string(body)}
}

// normalize converts YAML decoder output into JSON-friendly values: maps get
// string keys and nested values are normalized too.
func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, inner := range val {
			m[fmt.Sprint(k)] = normalize(inner)
		}
		return m
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, inner := range val {
			m[k] = normalize(inner)
		}
		return m
	case []interface{}:
		list := make([]interface{}, len(val))
		for i, inner := range val {
			list[i] = normalize(inner)
		}
		return list
	case []map[string]interface{}:
		list := make([]interface{}, len(val))
		for i, inner := range val {
			list[i] = normalize(inner)
		}
		return list
	default:
		return val
	}
}
