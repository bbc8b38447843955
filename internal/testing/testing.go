// package testing contains shared testing utilities
package testing

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/desertthunder/labelgrid/internal/models"
)

// MockJournal is a test double for workspace.Journal that keeps records in memory.
type MockJournal struct {
	mu     sync.Mutex
	Moves  []*models.Move
	Labels []string
	Err    error // returned from every call when set
}

func (m *MockJournal) RecordMove(move *models.Move) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Moves = append(m.Moves, move)
	return nil
}

func (m *MockJournal) RecordLabel(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Labels = append(m.Labels, path)
	return nil
}

// ErrJournal is a ready-made failure for [MockJournal.Err].
var ErrJournal = errors.New("journal unavailable")

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// Fixture builds a workspace folder on disk. Paths are slash-separated and relative to Root.
type Fixture struct {
	t    *testing.T
	Root string
}

// NewFixture creates an empty workspace folder in a temp dir.
func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	return &Fixture{t: t, Root: filepath.Join(t.TempDir(), "workspace")}
}

// Dir creates the folders rel.
func (f *Fixture) Dir(rel ...string) *Fixture {
	f.t.Helper()
	for _, r := range rel {
		if err := os.MkdirAll(f.Path(r), 0755); err != nil {
			f.t.Fatalf("Failed to create folder %s: %v", r, err)
		}
	}
	return f
}

// Image writes a valid w x h PNG at rel regardless of its extension.
func (f *Fixture) Image(rel string, w, h int) *Fixture {
	f.t.Helper()
	WriteImage(f.t, f.Path(rel), w, h)
	return f
}

// Images writes a small PNG for every rel.
func (f *Fixture) Images(rel ...string) *Fixture {
	f.t.Helper()
	for _, r := range rel {
		f.Image(r, 4, 2)
	}
	return f
}

// File writes arbitrary bytes at rel.
func (f *Fixture) File(rel, content string) *Fixture {
	f.t.Helper()
	path := f.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		f.t.Fatalf("Failed to create folder for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		f.t.Fatalf("Failed to write %s: %v", rel, err)
	}
	return f
}

// Path returns the absolute path of rel inside the fixture.
func (f *Fixture) Path(rel string) string {
	return filepath.Join(f.Root, filepath.FromSlash(rel))
}

// WriteImage encodes a w x h gradient PNG at path, creating parent folders.
func WriteImage(t *testing.T, path string, w, h int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create folder for %s: %v", path, err)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / max(1, w)), G: uint8(y * 255 / max(1, h)), B: 128, A: 255})
		}
	}

	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		t.Fatalf("Failed to encode %s: %v", path, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("Expected %s to be absent", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
