package filesystem

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"
)

func TestDefaultRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()

	if config.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", config.MaxRetries)
	}
	if config.InitialBackoff != 50*time.Millisecond {
		t.Errorf("InitialBackoff = %v, want 50ms", config.InitialBackoff)
	}
	if config.MaxBackoff != 500*time.Millisecond {
		t.Errorf("MaxBackoff = %v, want 500ms", config.MaxBackoff)
	}
	if config.VolumeResolver != nil {
		t.Error("VolumeResolver should be nil by default")
	}
}

func TestIsNFSStaleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "ESTALE error", err: syscall.ESTALE, want: true},
		{name: "wrapped ESTALE", err: &os.PathError{Op: "stat", Path: "/x", Err: syscall.ESTALE}, want: true},
		{name: "ENOENT error", err: syscall.ENOENT, want: false},
		{name: "generic error", err: os.ErrNotExist, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isNFSStaleError(tt.err)
			if got != tt.want {
				t.Errorf("isNFSStaleError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVolumeResolver_Resolve(t *testing.T) {
	vr := NewVolumeResolver(map[string]string{
		"content": "/srv/content",
		"output":  "/srv/build/img",
	})

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "content root", path: "/srv/content", want: "content"},
		{name: "event file", path: "/srv/content/2020-trip/index.md", want: "content"},
		{name: "output file", path: "/srv/build/img/abc.jpg", want: "output"},
		{name: "sibling prefix is not a match", path: "/srv/contents/x", want: "unknown"},
		{name: "unknown path", path: "/etc/hosts", want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := vr.Resolve(tt.path)
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestVolumeResolver_Resolve_LongestPrefixWins(t *testing.T) {
	vr := NewVolumeResolver(map[string]string{
		"build":  "/srv/build",
		"output": "/srv/build/img",
	})

	if got := vr.Resolve("/srv/build/data.json"); got != "build" {
		t.Errorf("Resolve(data.json) = %q, want %q", got, "build")
	}
	if got := vr.Resolve("/srv/build/img/a.jpg"); got != "output" {
		t.Errorf("Resolve(a.jpg) = %q, want %q", got, "output")
	}
}

func TestVolumeResolver_Resolve_NilResolver(t *testing.T) {
	var vr *VolumeResolver
	if got := vr.Resolve("/srv/content/a.jpg"); got != "unknown" {
		t.Errorf("nil resolver Resolve() = %q, want %q", got, "unknown")
	}
}

func TestRetryConfig_ResolveVolume(t *testing.T) {
	original := defaultResolver
	defer func() { defaultResolver = original }()

	SetDefaultVolumeResolver(NewVolumeResolver(map[string]string{"default": "/srv"}))

	withOverride := RetryConfig{VolumeResolver: NewVolumeResolver(map[string]string{"override": "/srv"})}
	if got := withOverride.resolveVolume("/srv/a"); got != "override" {
		t.Errorf("resolveVolume() = %q, want %q", got, "override")
	}

	fallback := RetryConfig{}
	if got := fallback.resolveVolume("/srv/a"); got != "default" {
		t.Errorf("resolveVolume() = %q, want %q", got, "default")
	}
}

func TestReadFileWithRetry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.md")
	want := []byte("---\ntitle: x\n---\nbody")
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := ReadFileWithRetry(path, DefaultRetryConfig())
	if err != nil {
		t.Fatalf("ReadFileWithRetry failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("ReadFileWithRetry() = %q, want %q", got, want)
	}

	start := time.Now()
	_, err = ReadFileWithRetry(filepath.Join(dir, "missing.md"), DefaultRetryConfig())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFileWithRetry(missing) error = %v, want ErrNotExist", err)
	}
	if elapsed := time.Since(start); elapsed > 40*time.Millisecond {
		t.Errorf("non-ESTALE error should not back off, took %v", elapsed)
	}
}

func TestReadDirWithRetry(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.jpg", "a.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}

	entries, err := ReadDirWithRetry(dir, DefaultRetryConfig())
	if err != nil {
		t.Fatalf("ReadDirWithRetry failed: %v", err)
	}
	if len(entries) != 2 || entries[0].Name() != "a.md" || entries[1].Name() != "b.jpg" {
		t.Errorf("ReadDirWithRetry() returned unexpected entries: %v", entries)
	}
}

func TestStatWithRetry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.jpg")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	info, err := StatWithRetry(path, DefaultRetryConfig())
	if err != nil {
		t.Fatalf("StatWithRetry failed: %v", err)
	}
	if info.Size() != 1 {
		t.Errorf("Size = %d, want 1", info.Size())
	}

}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present.jpg")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	ok, err := Exists(path, DefaultRetryConfig())
	if err != nil || !ok {
		t.Errorf("Exists(present) = %v, %v; want true, nil", ok, err)
	}

	ok, err = Exists(filepath.Join(dir, "absent.jpg"), DefaultRetryConfig())
	if err != nil || ok {
		t.Errorf("Exists(absent) = %v, %v; want false, nil", ok, err)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.jpg")

	if err := WriteFileAtomic(path, []byte("first"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("second"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic overwrite failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the target file, found %d entries", len(entries))
	}
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.jpg")
	if err := WriteFileAtomic(path, []byte("x"), 0o644); err == nil {
		t.Error("expected error writing into a missing directory")
	}
}

type countingObserver struct {
	operations map[string]int
	errors     int
}

func (o *countingObserver) ObserveOperation(volume, operation string, _ float64, err error) {
	o.operations[operation]++
	if err != nil {
		o.errors++
	}
}
func (o *countingObserver) ObserveRetryAttempt(string, string)           {}
func (o *countingObserver) ObserveRetrySuccess(string, string)           {}
func (o *countingObserver) ObserveRetryFailure(string, string)           {}
func (o *countingObserver) ObserveRetryDuration(string, string, float64) {}
func (o *countingObserver) ObserveStaleError(string, string)             {}

func TestObserverReceivesOperations(t *testing.T) {
	original := defaultObserver
	defer SetObserver(original)

	obs := &countingObserver{operations: map[string]int{}}
	SetObserver(obs)

	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := WriteFileAtomic(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}
	if _, err := ReadFileWithRetry(path, DefaultRetryConfig()); err != nil {
		t.Fatalf("ReadFileWithRetry failed: %v", err)
	}
	_, _ = StatWithRetry(filepath.Join(dir, "missing"), DefaultRetryConfig())

	if obs.operations["write"] != 1 || obs.operations["read"] != 1 || obs.operations["stat"] != 1 {
		t.Errorf("unexpected operation counts: %v", obs.operations)
	}
	if obs.errors != 1 {
		t.Errorf("errors = %d, want 1", obs.errors)
	}
}
