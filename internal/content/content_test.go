package content

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func TestScannerScan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "2020-trip", "index.md"), "---\ntitle: Trip\n---\n")
	writeFile(t, filepath.Join(root, "2020-trip", "b.JPG"), "x")
	writeFile(t, filepath.Join(root, "2020-trip", "a.png"), "x")
	writeFile(t, filepath.Join(root, "2020-trip", "notes.txt"), "x")
	writeFile(t, filepath.Join(root, "2020-trip", ".DS_Store"), "x")
	writeFile(t, filepath.Join(root, "2020-trip", "nested", "deep.jpg"), "x")
	writeFile(t, filepath.Join(root, "2019-home", "photo.jpeg"), "x")
	writeFile(t, filepath.Join(root, "README.md"), "top-level files are ignored")
	writeFile(t, filepath.Join(root, ".git", "HEAD"), "x")

	events, err := NewScanner(root).Scan()
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2: %+v", len(events), events)
	}
	if events[0].Name != "2019-home" || events[1].Name != "2020-trip" {
		t.Errorf("event order = %s, %s", events[0].Name, events[1].Name)
	}

	trip := events[1]
	wantFiles := []string{"a.png", "b.JPG", "index.md", "notes.txt"}
	if !reflect.DeepEqual(trip.Files, wantFiles) {
		t.Errorf("Files = %v, want %v", trip.Files, wantFiles)
	}
	if trip.Markdown() != "index.md" {
		t.Errorf("Markdown() = %q", trip.Markdown())
	}
	if got := trip.ImageFiles(); !reflect.DeepEqual(got, []string{"a.png", "b.JPG"}) {
		t.Errorf("ImageFiles() = %v", got)
	}
	if set := trip.ImageSet(); !set["b.JPG"] || set["notes.txt"] {
		t.Errorf("ImageSet() = %v", set)
	}
	if events[0].Markdown() != "" {
		t.Errorf("event without markdown reported %q", events[0].Markdown())
	}
	if got := trip.Path("a.png"); got != filepath.Join(root, "2020-trip", "a.png") {
		t.Errorf("Path() = %q", got)
	}
}

func TestScannerErrors(t *testing.T) {
	root := t.TempDir()

	if _, err := NewScanner(filepath.Join(root, "missing")).Scan(); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Scan(missing) error = %v, want ErrNotExist", err)
	}

	file := filepath.Join(root, "file")
	writeFile(t, file, "x")
	if _, err := NewScanner(file).Scan(); !errors.Is(err, ErrNotDirectory) {
		t.Errorf("Scan(file) error = %v, want ErrNotDirectory", err)
	}
}

func TestScannerEmptyRoot(t *testing.T) {
	events, err := NewScanner(t.TempDir()).Scan()
	if err != nil || len(events) != 0 {
		t.Errorf("Scan(empty) = %v, %v", events, err)
	}
}

func TestReadDocument(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ev", "index.md"), "---\ntitle: Hello\n---\n# Heading\n")
	writeFile(t, filepath.Join(root, "bare", "a.jpg"), "x")

	s := NewScanner(root)
	events, err := s.Scan()
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	bare, err := s.ReadDocument(events[0])
	if err != nil || len(bare.Attributes) != 0 || bare.Body != "" {
		t.Errorf("ReadDocument(bare) = %+v, %v", bare, err)
	}

	doc, err := s.ReadDocument(events[1])
	if err != nil {
		t.Fatalf("ReadDocument failed: %v", err)
	}
	if doc.Attributes["title"] != "Hello" {
		t.Errorf("title = %v", doc.Attributes["title"])
	}
}

func TestParseDocument(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantAttrs map[string]interface{}
		wantBody  string
	}{
		{
			name:      "yaml frontmatter",
			input:     "---\ntitle: Trip\ntags: a, b\n---\nBody text\n",
			wantAttrs: map[string]interface{}{"title": "Trip", "tags": "a, b"},
			wantBody:  "Body text\n",
		},
		{
			name:      "no frontmatter",
			input:     "# Just a body\n",
			wantAttrs: map[string]interface{}{},
			wantBody:  "# Just a body\n",
		},
		{
			name:      "broken yaml falls back to body",
			input:     "---\ntitle: [unclosed\n---\nbody\n",
			wantAttrs: map[string]interface{}{},
			wantBody:  "---\ntitle: [unclosed\n---\nbody\n",
		},
		{
			name:      "empty input",
			input:     "",
			wantAttrs: map[string]interface{}{},
			wantBody:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := ParseDocument([]byte(tt.input))
			if !reflect.DeepEqual(doc.Attributes, tt.wantAttrs) {
				t.Errorf("Attributes = %#v, want %#v", doc.Attributes, tt.wantAttrs)
			}
			if doc.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", doc.Body, tt.wantBody)
			}
		})
	}
}

func TestParseDocumentNormalizesNestedMaps(t *testing.T) {
	doc := ParseDocument([]byte("---\nlocation:\n  name: Oslo\n  code: NOR\nmedia:\n  - src: a.jpg\n    caption: First\n  - b.jpg\n---\n"))

	loc, ok := doc.Attributes["location"].(map[string]interface{})
	if !ok {
		t.Fatalf("location = %#v, want map[string]interface{}", doc.Attributes["location"])
	}
	if loc["name"] != "Oslo" || loc["code"] != "NOR" {
		t.Errorf("location = %v", loc)
	}

	list, ok := doc.Attributes["media"].([]interface{})
	if !ok || len(list) != 2 {
		t.Fatalf("media = %#v", doc.Attributes["media"])
	}
	first, ok := list[0].(map[string]interface{})
	if !ok || first["src"] != "a.jpg" || first["caption"] != "First" {
		t.Errorf("media[0] = %#v", list[0])
	}
	if list[1] != "b.jpg" {
		t.Errorf("media[1] = %#v", list[1])
	}
}

func TestNormalizeAttributes(t *testing.T) {
	attrs := NormalizeAttributes(map[string]interface{}{
		"title":      "Trip",
		"date":       "2020-01-01",
		"date-start": "not a date",
		"date-end":   "2020-01-05 18:30 UTC",
		"tags":       "hiking, food,travel, food",
	})

	if attrs["title"] != "Trip" {
		t.Errorf("title = %v", attrs["title"])
	}
	if got, want := attrs["date"], time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC); !isTime(got, want) {
		t.Errorf("date = %v, want %v", got, want)
	}
	if _, ok := attrs["date-start"]; ok {
		t.Error("unparseable date-start should be dropped")
	}
	if got, want := attrs["date-end"], time.Date(2020, 1, 5, 18, 30, 0, 0, time.UTC); !isTime(got, want) {
		t.Errorf("date-end = %v, want %v", got, want)
	}
	if got := attrs["tags"]; !reflect.DeepEqual(got, []string{"hiking", "food", "travel"}) {
		t.Errorf("tags = %#v", got)
	}
}

func TestNormalizeAttributesEmptyTags(t *testing.T) {
	attrs := NormalizeAttributes(map[string]interface{}{"tags": " , "})
	if _, ok := attrs["tags"]; ok {
		t.Errorf("empty tags should be dropped, got %v", attrs["tags"])
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  time.Time
		ok    bool
	}{
		{name: "date", input: "2019-06-01", want: time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "datetime", input: "2019-06-01 10:20:30", want: time.Date(2019, 6, 1, 10, 20, 30, 0, time.UTC), ok: true},
		{name: "iso minutes", input: "2019-06-01T10:20", want: time.Date(2019, 6, 1, 10, 20, 0, 0, time.UTC), ok: true},
		{name: "rfc3339 with zone", input: "2019-06-01T10:00:00+02:00", want: time.Date(2019, 6, 1, 8, 0, 0, 0, time.UTC), ok: true},
		{name: "month", input: "2019-06", want: time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "year string", input: "2019", want: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "year number", input: 2019, want: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "explicit UTC suffix", input: "2019-06-01 UTC", want: time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "time value", input: time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC), want: time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "garbage", input: "soon", ok: false},
		{name: "empty", input: "", ok: false},
		{name: "bool", input: true, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseDate(%v) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseDate(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  []string
	}{
		{name: "comma separated", input: "a, b", want: []string{"a", "b"}},
		{name: "no spaces", input: "a,b,c", want: []string{"a", "b", "c"}},
		{name: "duplicates", input: "a, a, b", want: []string{"a", "b"}},
		{name: "yaml list", input: []interface{}{"x", "y", "x"}, want: []string{"x", "y"}},
		{name: "string slice", input: []string{"x"}, want: []string{"x"}},
		{name: "unsupported", input: 42, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseTags(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseTags(%v) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRenderHTML(t *testing.T) {
	html := RenderHTML("Visit [the site](https://example.com).\n")
	if !strings.Contains(html, `href="https://example.com"`) {
		t.Errorf("RenderHTML() missing link: %q", html)
	}
	if !strings.Contains(html, `target="_blank"`) {
		t.Errorf("RenderHTML() links should open in a new tab: %q", html)
	}
	if !strings.HasPrefix(html, "<p>") {
		t.Errorf("RenderHTML() = %q, want a paragraph", html)
	}

	if got := RenderHTML("  \n"); got != "" {
		t.Errorf("RenderHTML(blank) = %q, want empty", got)
	}
}

func TestCaption(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{body: "# Sunset over the bay\n\nMore text", want: "Sunset over the bay"},
		{body: "\n\n  ## Two\r\nthree", want: "Two"},
		{body: "Plain first line\nsecond", want: "Plain first line"},
		{body: "   \n", want: ""},
		{body: "", want: ""},
	}

	for _, tt := range tests {
		if got := Caption(tt.body); got != tt.want {
			t.Errorf("Caption(%q) = %q, want %q", tt.body, got, tt.want)
		}
	}
}

func isTime(v interface{}, want time.Time) bool {
	t, ok := v.(time.Time)
	return ok && t.Equal(want)
}
