package content

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"timeline-media/internal/filesystem"
	"timeline-media/internal/logging"
	"timeline-media/internal/media"
)

// ErrNotDirectory is returned when the content root is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Event is one event directory and the files directly inside it.
type Event struct {
	Name  string   // directory name
	Dir   string   // directory path
	Files []string // file names in directory order, hidden files skipped
}

// Markdown returns the name of the event's markdown file, or "" if it has
// none. The first one in directory order wins.
func (e Event) Markdown() string {
	for _, f := range e.Files {
		if strings.EqualFold(filepath.Ext(f), ".md") {
			return f
		}
	}
	return ""
}

// ImageFiles returns the transformable image files in directory order.
func (e Event) ImageFiles() []string {
	var images []string
	for _, f := range e.Files {
		if media.IsImageFile(f) {
			images = append(images, f)
		}
	}
	return images
}

// ImageSet returns the image file names as a lookup set.
func (e Event) ImageSet() map[string]bool {
	set := make(map[string]bool)
	for _, f := range e.ImageFiles() {
		set[f] = true
	}
	return set
}

// Path joins name onto the event directory.
func (e Event) Path(name string) string {
	return filepath.Join(e.Dir, filepath.FromSlash(name))
}

// Scanner enumerates event directories under a content root.
type Scanner struct {
	root  string
	retry filesystem.RetryConfig
}

// NewScanner creates a new Scanner instance.
func NewScanner(root string) *Scanner {
	return &Scanner{
		root:  root,
		retry: filesystem.DefaultRetryConfig(),
	}
}

// Root returns the content root.
func (s *Scanner) Root() string {
	return s.root
}

// Scan lists every immediate subdirectory of the root as an event, in
// directory order. Top-level files are ignored.
func (s *Scanner) Scan() ([]Event, error) {
	info, err := filesystem.StatWithRetry(s.root, s.retry)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan %s: %w", s.root, ErrNotDirectory)
	}

	entries, err := filesystem.ReadDirWithRetry(s.root, s.retry)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.root, err)
	}

	var events []Event
	for _, entry := range entries {
		if !entry.IsDir() || isHidden(entry.Name()) {
			continue
		}

		ev, err := s.readEvent(entry.Name())
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	logging.Debug("scanned %d event directories under %s", len(events), s.root)
	return events, nil
}

func (s *Scanner) readEvent(name string) (Event, error) {
	dir := filepath.Join(s.root, name)
	entries, err := filesystem.ReadDirWithRetry(dir, s.retry)
	if err != nil {
		return Event{}, fmt.Errorf("read event %s: %w", dir, err)
	}

	ev := Event{Name: name, Dir: dir}
	for _, entry := range entries {
		if entry.IsDir() || isHidden(entry.Name()) {
			continue
		}
		ev.Files = append(ev.Files, entry.Name())
	}
	return ev, nil
}

// ReadDocument reads and parses the event's markdown file. An event without
// one yields an empty document.
func (s *Scanner) ReadDocument(ev Event) (Document, error) {
	md := ev.Markdown()
	if md == "" {
		return Document{Attributes: map[string]interface{}{}}, nil
	}

	data, err := filesystem.ReadFileWithRetry(ev.Path(md), s.retry)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", ev.Path(md), err)
	}
	return ParseDocument(data), nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
