package workspace

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/labelgrid/internal/models"
)

// DefaultExtensions are the image types listed when [Options.Extensions] is empty.
var DefaultExtensions = []string{"png", "jpg", "jpeg", "gif", "bmp"}

const rootName = "Workspace"

// Journal receives workspace mutations for the history log.
//
// Implemented by repositories.JournalAdapter.
type Journal interface {
	RecordMove(move *models.Move) error
	RecordLabel(path string) error
}

// Options configures a [Workspace]. All fields are optional.
type Options struct {
	Extensions []string
	Thumbnails *Thumbnailer
	Journal    Journal
	Logger     *log.Logger
}

// Workspace is a folder of images whose subfolders act as labels.
//
// Safe for concurrent use by HTTP handlers.
type Workspace struct {
	root       string
	extensions map[string]struct{}
	thumbs     *Thumbnailer
	journal    Journal
	logger     *log.Logger

	mu   sync.Mutex
	tree *models.TreeNode

	// moveMu makes the exists check and rename of one file atomic across batches.
	moveMu sync.Mutex
}

// New opens the workspace at root, creating the folder if it does not exist.
func New(root string, opts Options) (*Workspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workspace root: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	extensions := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		extensions[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Workspace{
		root:       resolved,
		extensions: extensions,
		thumbs:     opts.Thumbnails,
		journal:    opts.Journal,
		logger:     logger,
	}, nil
}

// Root returns the absolute path of the workspace folder.
func (w *Workspace) Root() string { return w.root }

// Resolve maps a relative slash path to an absolute filesystem path inside the workspace.
//
// Returns [ErrInvalidPath] for paths escaping the root and [ErrPathNotFound] for missing ones.
func (w *Workspace) Resolve(rel string) (string, error) {
	if rel == "" {
		return w.root, nil
	}

	joined := filepath.Join(w.root, filepath.FromSlash(rel))
	if !w.contains(joined) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, rel)
	}

	resolved, err := filepath.EvalSymlinks(joined)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s", ErrPathNotFound, rel)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidPath, rel, err)
	}
	if !w.contains(resolved) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, rel)
	}

	return resolved, nil
}

// Relative converts an absolute path inside the workspace into its slash-separated relative form.
func (w *Workspace) Relative(abs string) string {
	rel, err := filepath.Rel(w.root, abs)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

func (w *Workspace) contains(abs string) bool {
	rel, err := filepath.Rel(w.root, abs)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// IsImage reports whether name has one of the configured image extensions.
func (w *Workspace) IsImage(name string) bool {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return false
	}
	_, ok := w.extensions[strings.ToLower(ext)]
	return ok
}

// Content lists the images, label folders and breadcrumbs of the folder at rel.
func (w *Workspace) Content(rel string) (*models.Content, error) {
	dir, err := w.Resolve(rel)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
			return nil, fmt.Errorf("%w: %s", ErrNotFolder, rel)
		}
		return nil, fmt.Errorf("failed to read folder %s: %w", rel, err)
	}

	rel = w.Relative(dir)
	content := &models.Content{
		Path:        rel,
		Images:      []models.Image{},
		Labels:      []models.Label{},
		Breadcrumbs: Breadcrumbs(rel),
	}

	for _, entry := range entries {
		childRel := joinRel(rel, entry.Name())

		if entry.IsDir() {
			content.Labels = append(content.Labels, models.Label{Name: entry.Name(), Path: childRel})
			continue
		}
		if !entry.Type().IsRegular() || !w.IsImage(entry.Name()) {
			continue
		}

		img := models.Image{Path: childRel, Name: entry.Name()}
		if w.thumbs != nil {
			url, err := w.thumbs.Ensure(filepath.Join(dir, entry.Name()), childRel)
			if err != nil {
				w.logger.Warn("skipping image without thumbnail", "path", childRel, "error", err)
				continue
			}
			img.Thumbnail = url
		}
		content.Images = append(content.Images, img)
	}

	return content, nil
}

// Breadcrumbs returns one crumb per segment of rel, each pointing at the path up to that segment.
func Breadcrumbs(rel string) []models.Breadcrumb {
	crumbs := []models.Breadcrumb{}
	if rel == "" {
		return crumbs
	}

	parts := strings.Split(rel, "/")
	for i, part := range parts {
		crumbs = append(crumbs, models.Breadcrumb{Name: part, Path: strings.Join(parts[:i+1], "/")})
	}
	return crumbs
}

// Parent returns the folder containing rel, or "" at the root.
func Parent(rel string) string {
	parent := path.Dir(rel)
	if parent == "." || parent == "/" {
		return ""
	}
	return parent
}

// Tree returns the folder tree rooted at the workspace. The result is cached until
// [Workspace.CreateLabel] or [Workspace.Invalidate].
func (w *Workspace) Tree() models.TreeNode {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.tree == nil {
		w.tree = &models.TreeNode{
			Name:     rootName,
			Path:     "",
			Children: w.buildTree(w.root),
			IsRoot:   true,
		}
	}
	return *w.tree
}

// Invalidate drops the cached folder tree.
func (w *Workspace) Invalidate() {
	w.mu.Lock()
	w.tree = nil
	w.mu.Unlock()
}

// buildTree lists the subfolders of dir recursively. Unreadable folders have no children.
func (w *Workspace) buildTree(dir string) []models.TreeNode {
	nodes := []models.TreeNode{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.logger.Debug("unreadable folder in tree", "dir", dir, "error", err)
		return nodes
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		child := filepath.Join(dir, entry.Name())
		nodes = append(nodes, models.TreeNode{
			Name:     entry.Name(),
			Path:     w.Relative(child),
			Children: w.buildTree(child),
		})
	}
	return nodes
}

// CreateLabel creates the label folder name under parent.
func (w *Workspace) CreateLabel(parent, name string) (*models.Label, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLabel, name)
	}

	dir, err := w.Resolve(parent)
	if err != nil {
		return nil, err
	}

	target := filepath.Join(dir, name)
	if _, err := os.Stat(target); err == nil {
		return nil, fmt.Errorf("%w: %q", ErrLabelExists, name)
	}
	if err := os.Mkdir(target, 0755); err != nil {
		return nil, fmt.Errorf("failed to create label %q: %w", name, err)
	}

	w.Invalidate()

	label := &models.Label{Name: name, Path: w.Relative(target)}
	if w.journal != nil {
		if err := w.journal.RecordLabel(label.Path); err != nil {
			w.logger.Warn("failed to record label", "path", label.Path, "error", err)
		}
	}

	w.logger.Info("label created", "path", label.Path)
	return label, nil
}

func joinRel(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}
