package workspace

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// ThumbnailURLPrefix is the URL path thumbnails are served under.
const ThumbnailURLPrefix = "/thumbnails/"

// Thumbnailer scales images down to fit a square box and caches the result on disk.
//
// Cache files are named after the image's relative path (see [Thumbnailer.Name]),
// so a thumbnail is created once and reused until the image moves.
type Thumbnailer struct {
	dir  string
	size int
	mu   sync.Mutex
}

// NewThumbnailer creates the cache directory and returns a [Thumbnailer] producing size x size thumbnails.
func NewThumbnailer(dir string, size int) (*Thumbnailer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("thumbnail size must be positive, got %d", size)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create thumbnail directory: %w", err)
	}
	return &Thumbnailer{dir: dir, size: size}, nil
}

// Dir returns the cache directory.
func (t *Thumbnailer) Dir() string { return t.dir }

// nameEscaper flattens a relative path into one URL-safe file name. "~" and "_" are escaped
// first, so distinct paths such as "a/b.png" and "a_b.png" never share a name.
var nameEscaper = strings.NewReplacer("~", "~~", "_", "~u", "/", "_")

// Name returns the cache file name for an image's relative path.
func (t *Thumbnailer) Name(rel string) string {
	return nameEscaper.Replace(rel)
}

// Ensure creates the thumbnail for src (relative path rel) unless it is cached, and returns its URL.
func (t *Thumbnailer) Ensure(src, rel string) (string, error) {
	name := t.Name(rel)
	target := filepath.Join(t.dir, name)

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := os.Stat(target); err == nil {
		return ThumbnailURLPrefix + name, nil
	}

	if err := t.generate(src, target); err != nil {
		return "", fmt.Errorf("failed to create thumbnail for %s: %w", rel, err)
	}
	return ThumbnailURLPrefix + name, nil
}

// Remove deletes the cached thumbnail of rel. A missing thumbnail is not an error.
func (t *Thumbnailer) Remove(rel string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	err := os.Remove(filepath.Join(t.dir, t.Name(rel)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (t *Thumbnailer) generate(src, target string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := scaleToFit(img, t.size)

	tmp, err := os.CreateTemp(t.dir, ".thumb-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := encode(tmp, thumb, filepath.Ext(target)); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}

// scaleToFit shrinks img so its longer side is at most size. Smaller images are returned as is.
func scaleToFit(img image.Image, size int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= size && h <= size {
		return img
	}

	if w >= h {
		h = max(1, h*size/w)
		w = size
	} else {
		w = max(1, w*size/h)
		h = size
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func encode(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 85})
	case ".gif":
		return gif.Encode(w, img, nil)
	case ".bmp":
		return bmp.Encode(w, img)
	default:
		return png.Encode(w, img)
	}
}
