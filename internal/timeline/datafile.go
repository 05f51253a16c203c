package timeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"timeline-media/internal/filesystem"
)

// DataFile is the site data document holding the timeline. Keys other than
// the ones written here are preserved.
type DataFile struct {
	path string
	doc  map[string]json.RawMessage
}

// ReadDataFile loads path. A missing file yields an empty document.
func ReadDataFile(path string) (*DataFile, error) {
	d := &DataFile{path: path, doc: map[string]json.RawMessage{}}

	data, err := filesystem.ReadFileWithRetry(path, filesystem.DefaultRetryConfig())
	if errors.Is(err, fs.ErrNotExist) {
		return d, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}

	if err := json.Unmarshal(data, &d.doc); err != nil {
		return nil, fmt.Errorf("parse data file %s: %w", path, err)
	}
	return d, nil
}

// Path returns the file location.
func (d *DataFile) Path() string {
	return d.path
}

// Len returns the number of top-level properties.
func (d *DataFile) Len() int {
	return len(d.doc)
}

// Timeline decodes the stored timeline array, if any.
func (d *DataFile) Timeline() ([]Entry, error) {
	raw, ok := d.doc["timeline"]
	if !ok {
		return nil, nil
	}
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode timeline: %w", err)
	}
	return entries, nil
}

// Update stores the timeline, visited areas and update time.
func (d *DataFile) Update(entries []Entry, areas []Area, updatedAt time.Time) error {
	if entries == nil {
		entries = []Entry{}
	}
	if areas == nil {
		areas = []Area{}
	}

	for key, v := range map[string]interface{}{
		"timeline":     entries,
		"visitedAreas": areas,
		"lastUpdateAt": updatedAt.UnixMilli(),
	} {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		d.doc[key] = raw
	}
	return nil
}

// Write stores the document atomically with two-space indentation.
func (d *DataFile) Write() error {
	data, err := json.MarshalIndent(d.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode data file: %w", err)
	}
	if err := filesystem.WriteFileAtomic(d.path, data, 0o644); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	return nil
}
