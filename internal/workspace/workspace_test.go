package workspace

import (
	"context"
	"errors"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/labelgrid/internal/models"
	tu "github.com/desertthunder/labelgrid/internal/testing"
)

func newWorkspace(t *testing.T, f *tu.Fixture, opts Options) *Workspace {
	t.Helper()
	w, err := New(f.Root, opts)
	if err != nil {
		t.Fatalf("failed to open workspace: %v", err)
	}
	return w
}

func imagePaths(images []models.Image) []string {
	paths := make([]string, len(images))
	for i, img := range images {
		paths[i] = img.Path
	}
	return paths
}

func TestWorkspace(t *testing.T) {
	t.Run("New creates missing root", func(t *testing.T) {
		f := tu.NewFixture(t)
		newWorkspace(t, f, Options{})
		tu.AssertDirExists(t, f.Root)
	})

	t.Run("Resolve", func(t *testing.T) {
		f := tu.NewFixture(t).Dir("cats").Images("cats/a.png")
		w := newWorkspace(t, f, Options{})

		tc := []struct {
			name    string
			rel     string
			wantErr error
		}{
			{name: "root", rel: ""},
			{name: "nested file", rel: "cats/a.png"},
			{name: "parent escape", rel: "../outside", wantErr: ErrInvalidPath},
			{name: "sneaky escape", rel: "cats/../../outside", wantErr: ErrInvalidPath},
			{name: "missing", rel: "dogs", wantErr: ErrPathNotFound},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				_, err := w.Resolve(tt.rel)
				if tt.wantErr == nil && err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
			})
		}
	})

	t.Run("Resolve rejects symlink escape", func(t *testing.T) {
		f := tu.NewFixture(t).Dir("cats")
		outside := t.TempDir()
		if err := os.Symlink(outside, f.Path("cats/link")); err != nil {
			t.Skipf("symlinks unavailable: %v", err)
		}
		w := newWorkspace(t, f, Options{})

		if _, err := w.Resolve("cats/link"); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("expected ErrInvalidPath, got %v", err)
		}
	})

	t.Run("Content", func(t *testing.T) {
		f := tu.NewFixture(t).
			Dir("cats/tabby", "dogs").
			Images("cats/b.jpg", "cats/a.PNG", "cats/c.gif").
			File("cats/notes.txt", "not an image").
			File("cats/README", "no extension")
		w := newWorkspace(t, f, Options{})

		content, err := w.Content("cats")
		if err != nil {
			t.Fatalf("failed to list content: %v", err)
		}

		if got, want := imagePaths(content.Images), []string{"cats/a.PNG", "cats/b.jpg", "cats/c.gif"}; !reflect.DeepEqual(got, want) {
			t.Errorf("expected images %v, got %v", want, got)
		}
		if want := []models.Label{{Name: "tabby", Path: "cats/tabby"}}; !reflect.DeepEqual(content.Labels, want) {
			t.Errorf("expected labels %v, got %v", want, content.Labels)
		}
		if want := []models.Breadcrumb{{Name: "cats", Path: "cats"}}; !reflect.DeepEqual(content.Breadcrumbs, want) {
			t.Errorf("expected breadcrumbs %v, got %v", want, content.Breadcrumbs)
		}
		if content.Images[0].Thumbnail != "" {
			t.Errorf("expected no thumbnail without a thumbnailer, got %q", content.Images[0].Thumbnail)
		}
	})

	t.Run("Content of root", func(t *testing.T) {
		f := tu.NewFixture(t).Dir("cats", "dogs").Images("x.bmp")
		w := newWorkspace(t, f, Options{})

		content, err := w.Content("")
		if err != nil {
			t.Fatalf("failed to list content: %v", err)
		}
		if content.Path != "" || len(content.Breadcrumbs) != 0 {
			t.Errorf("expected root listing, got path %q crumbs %v", content.Path, content.Breadcrumbs)
		}
		if len(content.Labels) != 2 || len(content.Images) != 1 {
			t.Errorf("expected 2 labels and 1 image, got %d and %d", len(content.Labels), len(content.Images))
		}
	})

	t.Run("Content honours configured extensions", func(t *testing.T) {
		f := tu.NewFixture(t).Images("a.png", "b.webp")
		w := newWorkspace(t, f, Options{Extensions: []string{".webp"}})

		content, err := w.Content("")
		if err != nil {
			t.Fatalf("failed to list content: %v", err)
		}
		if got := imagePaths(content.Images); !reflect.DeepEqual(got, []string{"b.webp"}) {
			t.Errorf("expected only b.webp, got %v", got)
		}
	})

	t.Run("Content of a file", func(t *testing.T) {
		f := tu.NewFixture(t).Images("a.png")
		w := newWorkspace(t, f, Options{})

		if _, err := w.Content("a.png"); !errors.Is(err, ErrNotFolder) {
			t.Errorf("expected ErrNotFolder, got %v", err)
		}
	})

	t.Run("Content with thumbnails skips undecodable images", func(t *testing.T) {
		f := tu.NewFixture(t).Images("good.png").File("broken.png", "garbage")
		thumbs, err := NewThumbnailer(filepath.Join(t.TempDir(), "thumbs"), 2)
		if err != nil {
			t.Fatalf("failed to create thumbnailer: %v", err)
		}
		w := newWorkspace(t, f, Options{Thumbnails: thumbs})

		content, err := w.Content("")
		if err != nil {
			t.Fatalf("failed to list content: %v", err)
		}
		if len(content.Images) != 1 || content.Images[0].Path != "good.png" {
			t.Fatalf("expected only good.png, got %v", imagePaths(content.Images))
		}
		if content.Images[0].Thumbnail != "/thumbnails/good.png" {
			t.Errorf("unexpected thumbnail url %q", content.Images[0].Thumbnail)
		}
	})

	t.Run("Tree", func(t *testing.T) {
		f := tu.NewFixture(t).Dir("animals/cats", "animals/dogs", "plants").Images("animals/a.png")
		w := newWorkspace(t, f, Options{})

		tree := w.Tree()
		if !tree.IsRoot || tree.Name != "Workspace" || tree.Path != "" {
			t.Fatalf("unexpected root node %+v", tree)
		}
		if len(tree.Children) != 2 {
			t.Fatalf("expected 2 top-level folders, got %d", len(tree.Children))
		}

		animals := tree.Children[0]
		if animals.Path != "animals" || len(animals.Children) != 2 {
			t.Errorf("unexpected animals node %+v", animals)
		}
		if animals.Children[1].Path != "animals/dogs" {
			t.Errorf("expected nested slash path, got %q", animals.Children[1].Path)
		}
	})

	t.Run("Tree is cached until a label is created", func(t *testing.T) {
		f := tu.NewFixture(t).Dir("cats")
		w := newWorkspace(t, f, Options{})

		if n := len(w.Tree().Children); n != 1 {
			t.Fatalf("expected 1 folder, got %d", n)
		}

		f.Dir("outside-change")
		if n := len(w.Tree().Children); n != 1 {
			t.Errorf("expected cached tree with 1 folder, got %d", n)
		}

		if _, err := w.CreateLabel("", "dogs"); err != nil {
			t.Fatalf("failed to create label: %v", err)
		}
		if n := len(w.Tree().Children); n != 3 {
			t.Errorf("expected rebuilt tree with 3 folders, got %d", n)
		}
	})

	t.Run("CreateLabel", func(t *testing.T) {
		f := tu.NewFixture(t).Dir("cats")
		journal := &tu.MockJournal{}
		w := newWorkspace(t, f, Options{Journal: journal})

		label, err := w.CreateLabel("cats", "  tabby ")
		if err != nil {
			t.Fatalf("failed to create label: %v", err)
		}
		if label.Name != "tabby" || label.Path != "cats/tabby" {
			t.Errorf("unexpected label %+v", label)
		}
		tu.AssertDirExists(t, f.Path("cats/tabby"))

		if !reflect.DeepEqual(journal.Labels, []string{"cats/tabby"}) {
			t.Errorf("expected journaled label, got %v", journal.Labels)
		}

		if _, err := w.CreateLabel("cats", "tabby"); !errors.Is(err, ErrLabelExists) {
			t.Errorf("expected ErrLabelExists, got %v", err)
		}
	})

	t.Run("CreateLabel rejects invalid names", func(t *testing.T) {
		f := tu.NewFixture(t)
		w := newWorkspace(t, f, Options{})

		for _, name := range []string{"", "   ", "a/b", `a\b`, "..", "."} {
			if _, err := w.CreateLabel("", name); !errors.Is(err, ErrInvalidLabel) {
				t.Errorf("name %q: expected ErrInvalidLabel, got %v", name, err)
			}
		}
		if _, err := w.CreateLabel("missing", "x"); !errors.Is(err, ErrPathNotFound) {
			t.Errorf("expected ErrPathNotFound for missing parent, got %v", err)
		}
	})

	t.Run("CreateLabel ignores journal failures", func(t *testing.T) {
		f := tu.NewFixture(t)
		w := newWorkspace(t, f, Options{Journal: &tu.MockJournal{Err: tu.ErrJournal}})

		if _, err := w.CreateLabel("", "cats"); err != nil {
			t.Errorf("expected journal failure to be ignored, got %v", err)
		}
	})
}

func TestAssign(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty selection", func(t *testing.T) {
		f := tu.NewFixture(t).Dir("cats")
		w := newWorkspace(t, f, Options{})

		result, err := w.Assign(ctx, nil, "cats")
		if !errors.Is(err, ErrNoSelection) {
			t.Fatalf("expected ErrNoSelection, got %v", err)
		}
		if result != nil {
			t.Errorf("expected no result, got %+v", result)
		}
		if err.Error() != "no images selected" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("rejects invalid destination", func(t *testing.T) {
		f := tu.NewFixture(t).Images("a.png")
		w := newWorkspace(t, f, Options{})

		for _, dest := range []string{"missing", "a.png", "../elsewhere"} {
			if _, err := w.Assign(ctx, []string{"a.png"}, dest); !errors.Is(err, ErrInvalidDestination) {
				t.Errorf("dest %q: expected ErrInvalidDestination, got %v", dest, err)
			}
		}
		tu.AssertFileExists(t, f.Path("a.png"))
	})

	t.Run("concurrent batches never overwrite a moved file", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			f := tu.NewFixture(t).Dir("cats").Images("a/x.png", "b/x.png")
			w := newWorkspace(t, f, Options{})

			var wg sync.WaitGroup
			results := make([]*models.AssignResult, 2)
			for j, src := range []string{"a/x.png", "b/x.png"} {
				wg.Add(1)
				go func() {
					defer wg.Done()
					results[j], _ = w.Assign(ctx, []string{src}, "cats")
				}()
			}
			wg.Wait()

			if moved := results[0].Moved + results[1].Moved; moved != 1 {
				t.Fatalf("iteration %d: expected exactly one move, got %d", i, moved)
			}
			tu.AssertFileExists(t, f.Path("cats/x.png"))
			_, errA := os.Stat(f.Path("a/x.png"))
			_, errB := os.Stat(f.Path("b/x.png"))
			if (errA == nil) == (errB == nil) {
				t.Fatalf("iteration %d: expected exactly one source left behind", i)
			}
		}
	})

	t.Run("moves all files", func(t *testing.T) {
		f := tu.NewFixture(t).Dir("cats").Images("a.png", "b.png")
		journal := &tu.MockJournal{}
		w := newWorkspace(t, f, Options{Journal: journal})

		result, err := w.Assign(ctx, []string{"a.png", "b.png"}, "cats")
		if err != nil {
			t.Fatalf("assign failed: %v", err)
		}
		if result.Moved != 2 || result.Failed() {
			t.Errorf("expected 2 moved without errors, got %+v", result)
		}
		if result.BatchID == "" {
			t.Error("expected batch id")
		}

		tu.AssertFileExists(t, f.Path("cats/a.png"))
		tu.AssertFileExists(t, f.Path("cats/b.png"))
		tu.AssertNotExists(t, f.Path("a.png"))

		if len(journal.Moves) != 2 {
			t.Fatalf("expected 2 journaled moves, got %d", len(journal.Moves))
		}
		if m := journal.Moves[0]; m.Destination() != "cats/a.png" || !m.Succeeded() || m.BatchID() != result.BatchID {
			t.Errorf("unexpected journaled move %+v", m)
		}
	})

	t.Run("reports partial failures verbatim", func(t *testing.T) {
		f := tu.NewFixture(t).Dir("cats").Images("a.png", "b.png", "cats/b.png")
		journal := &tu.MockJournal{}
		w := newWorkspace(t, f, Options{Journal: journal})

		result, err := w.Assign(ctx, []string{"a.png", "b.png", "ghost.png", "../escape.png"}, "cats")
		if err != nil {
			t.Fatalf("assign failed: %v", err)
		}

		if result.Moved != 1 {
			t.Errorf("expected 1 moved, got %d", result.Moved)
		}
		if len(result.Errors) != 3 {
			t.Fatalf("expected 3 errors, got %v", result.Errors)
		}
		if result.Errors[0] != "File 'b.png' already exists in the destination folder." {
			t.Errorf("unexpected conflict message %q", result.Errors[0])
		}
		if !strings.Contains(result.Errors[1], "ghost.png") || !strings.Contains(result.Errors[2], "escape.png") {
			t.Errorf("expected failures to name their files, got %v", result.Errors)
		}

		tu.AssertFileExists(t, f.Path("b.png"))
		if len(journal.Moves) != 4 || journal.Moves[1].Succeeded() {
			t.Errorf("expected every outcome journaled, got %d", len(journal.Moves))
		}
	})

	t.Run("removes thumbnails of moved files", func(t *testing.T) {
		f := tu.NewFixture(t).Dir("cats").Images("a.png")
		thumbs, err := NewThumbnailer(filepath.Join(t.TempDir(), "thumbs"), 2)
		if err != nil {
			t.Fatalf("failed to create thumbnailer: %v", err)
		}
		w := newWorkspace(t, f, Options{Thumbnails: thumbs})

		if _, err := w.Content(""); err != nil {
			t.Fatalf("failed to list content: %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(thumbs.Dir(), "a.png"))

		if _, err := w.Assign(ctx, []string{"a.png"}, "cats"); err != nil {
			t.Fatalf("assign failed: %v", err)
		}
		tu.AssertNotExists(t, filepath.Join(thumbs.Dir(), "a.png"))
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		f := tu.NewFixture(t).Dir("cats").Images("a.png")
		w := newWorkspace(t, f, Options{})

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		result, err := w.Assign(cancelled, []string{"a.png"}, "cats")
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if result == nil || result.Moved != 0 {
			t.Errorf("expected empty partial result, got %+v", result)
		}
		tu.AssertFileExists(t, f.Path("a.png"))
	})

	t.Run("journal failures do not fail the batch", func(t *testing.T) {
		f := tu.NewFixture(t).Dir("cats").Images("a.png")
		w := newWorkspace(t, f, Options{Journal: &tu.MockJournal{Err: tu.ErrJournal}})

		result, err := w.Assign(ctx, []string{"a.png"}, "cats")
		if err != nil || result.Moved != 1 {
			t.Errorf("expected move to succeed, got %+v, %v", result, err)
		}
	})
}

func TestThumbnailer(t *testing.T) {
	t.Run("scales to fit and caches", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "thumbs")
		thumbs, err := NewThumbnailer(dir, 10)
		if err != nil {
			t.Fatalf("failed to create thumbnailer: %v", err)
		}

		src := filepath.Join(t.TempDir(), "wide.png")
		tu.WriteImage(t, src, 40, 20)

		url, err := thumbs.Ensure(src, "cats/wide.png")
		if err != nil {
			t.Fatalf("failed to create thumbnail: %v", err)
		}
		if url != "/thumbnails/cats_wide.png" {
			t.Errorf("unexpected url %q", url)
		}

		file, err := os.Open(filepath.Join(dir, "cats_wide.png"))
		if err != nil {
			t.Fatalf("thumbnail not written: %v", err)
		}
		defer file.Close()

		cfg, _, err := image.DecodeConfig(file)
		if err != nil {
			t.Fatalf("failed to decode thumbnail: %v", err)
		}
		if cfg.Width != 10 || cfg.Height != 5 {
			t.Errorf("expected 10x5 thumbnail, got %dx%d", cfg.Width, cfg.Height)
		}

		if err := os.Remove(src); err != nil {
			t.Fatalf("failed to remove source: %v", err)
		}
		if _, err := thumbs.Ensure(src, "cats/wide.png"); err != nil {
			t.Errorf("expected cached thumbnail to be reused, got %v", err)
		}
	})

	t.Run("does not upscale", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 3, 7))
		if got := scaleToFit(img, 10); got != image.Image(img) {
			t.Error("expected small image to be returned unchanged")
		}

		tall := scaleToFit(image.NewRGBA(image.Rect(0, 0, 20, 40)), 10)
		if b := tall.Bounds(); b.Dx() != 5 || b.Dy() != 10 {
			t.Errorf("expected 5x10, got %dx%d", b.Dx(), b.Dy())
		}
	})

	t.Run("nested and underscored paths keep separate thumbnails", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "thumbs")
		thumbs, err := NewThumbnailer(dir, 10)
		if err != nil {
			t.Fatalf("failed to create thumbnailer: %v", err)
		}
		if thumbs.Name("a/b.png") == thumbs.Name("a_b.png") {
			t.Fatalf("expected distinct names, both are %q", thumbs.Name("a/b.png"))
		}
		if got := thumbs.Name("a~/b_c.png"); got != "a~~_b~uc.png" {
			t.Errorf("unexpected name %q", got)
		}

		nested := filepath.Join(t.TempDir(), "nested.png")
		tu.WriteImage(t, nested, 20, 20)
		flat := filepath.Join(t.TempDir(), "flat.png")
		tu.WriteImage(t, flat, 40, 20)

		nestedURL, err := thumbs.Ensure(nested, "a/b.png")
		if err != nil {
			t.Fatalf("failed to create thumbnail: %v", err)
		}
		flatURL, err := thumbs.Ensure(flat, "a_b.png")
		if err != nil {
			t.Fatalf("failed to create thumbnail: %v", err)
		}
		if nestedURL == flatURL {
			t.Fatalf("expected distinct urls, both are %q", nestedURL)
		}

		if err := thumbs.Remove("a_b.png"); err != nil {
			t.Fatalf("failed to remove thumbnail: %v", err)
		}
		file, err := os.Open(filepath.Join(dir, thumbs.Name("a/b.png")))
		if err != nil {
			t.Fatalf("expected nested thumbnail to survive: %v", err)
		}
		defer file.Close()
		cfg, _, err := image.DecodeConfig(file)
		if err != nil {
			t.Fatalf("failed to decode thumbnail: %v", err)
		}
		if cfg.Width != 10 || cfg.Height != 10 {
			t.Errorf("expected 10x10 thumbnail of the nested image, got %dx%d", cfg.Width, cfg.Height)
		}
	})

	t.Run("Remove tolerates missing thumbnails", func(t *testing.T) {
		thumbs, err := NewThumbnailer(filepath.Join(t.TempDir(), "thumbs"), 10)
		if err != nil {
			t.Fatalf("failed to create thumbnailer: %v", err)
		}
		if err := thumbs.Remove("never/made.png"); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("rejects non-positive size", func(t *testing.T) {
		if _, err := NewThumbnailer(t.TempDir(), 0); err == nil {
			t.Error("expected error for size 0")
		}
	})
}

func TestFilterImages(t *testing.T) {
	images := []models.Image{
		{Path: "cat_01.png", Name: "cat_01.png"},
		{Path: "dog_01.png", Name: "dog_01.png"},
		{Path: "cat_02.png", Name: "cat_02.png"},
		{Path: "bird.png", Name: "bird.png"},
	}

	tc := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query", "", []string{"cat_01.png", "dog_01.png", "cat_02.png", "bird.png"}},
		{"prefix", "cat", []string{"cat_01.png", "cat_02.png"}},
		{"fuzzy", "dg1", []string{"dog_01.png"}},
		{"no match", "zebra", []string{}},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := imagePaths(FilterImages(images, tt.query))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FilterImages(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestPathHelpers(t *testing.T) {
	t.Run("Breadcrumbs", func(t *testing.T) {
		got := Breadcrumbs("a/b/c")
		want := []models.Breadcrumb{{Name: "a", Path: "a"}, {Name: "b", Path: "a/b"}, {Name: "c", Path: "a/b/c"}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("Parent", func(t *testing.T) {
		for rel, want := range map[string]string{"": "", "a": "", "a/b": "a", "a/b/c": "a/b"} {
			if got := Parent(rel); got != want {
				t.Errorf("Parent(%q) = %q, want %q", rel, got, want)
			}
		}
	})
}
