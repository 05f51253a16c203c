package cache

import (
	"fmt"

	"timeline-media/internal/filesystem"
	"timeline-media/internal/media"
)

// Store checks the output directory for previously rendered files.
type Store struct {
	Retry filesystem.RetryConfig
}

// NewStore returns a store using the default retry policy.
func NewStore() *Store {
	return &Store{Retry: filesystem.DefaultRetryConfig()}
}

// Complete reports whether both outputs of dest are on disk.
func (s *Store) Complete(dest Destination) (bool, error) {
	for _, p := range []string{dest.Image, dest.Thumbnail} {
		ok, err := filesystem.Exists(p, s.Retry)
		if err != nil {
			return false, fmt.Errorf("check cached output %s: %w", p, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// PreviousIndex looks up items of a previous run by their src.
type PreviousIndex struct {
	bySrc map[string]media.Item
}

// NewPreviousIndex indexes items. When several items share a src the first
// one wins.
func NewPreviousIndex(items []media.Item) *PreviousIndex {
	idx := &PreviousIndex{bySrc: make(map[string]media.Item, len(items))}
	for _, it := range items {
		if it.Src == "" {
			continue
		}
		if _, exists := idx.bySrc[it.Src]; !exists {
			idx.bySrc[it.Src] = it
		}
	}
	return idx
}

// Lookup returns a copy of the previous item with the given src.
func (p *PreviousIndex) Lookup(src string) (media.Item, bool) {
	if p == nil {
		return media.Item{}, false
	}
	it, ok := p.bySrc[src]
	if !ok {
		return media.Item{}, false
	}
	return it.Clone(), true
}

// Len returns the number of indexed items.
func (p *PreviousIndex) Len() int {
	if p == nil {
		return 0
	}
	return len(p.bySrc)
}
