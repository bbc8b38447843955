package workspace

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/desertthunder/labelgrid/internal/models"
	"github.com/desertthunder/labelgrid/internal/shared"
)

// Assign moves every file in files into the label folder labelPath.
//
// An empty selection fails with [ErrNoSelection] and a destination that is not a folder with
// [ErrInvalidDestination]. Otherwise the batch always runs to the end: files that cannot be moved
// are reported in the result's Errors and the rest are moved. If ctx is cancelled mid-batch the
// partial result is returned together with the context error.
func (w *Workspace) Assign(ctx context.Context, files []string, labelPath string) (*models.AssignResult, error) {
	if len(files) == 0 {
		return nil, ErrNoSelection
	}

	dest, err := w.Resolve(labelPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDestination, err)
	}
	if info, err := os.Stat(dest); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDestination, labelPath)
	}

	result := &models.AssignResult{BatchID: shared.GenerateID(), Errors: []string{}}
	logger := w.logger.With("batch", result.BatchID, "label", labelPath)

	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			logger.Warn("assign interrupted", "moved", result.Moved, "error", err)
			return result, err
		}

		target := joinRel(w.Relative(dest), path.Base(rel))
		failure := w.moveOne(rel, dest)
		if failure != "" {
			result.Errors = append(result.Errors, failure)
		} else {
			result.Moved++
		}

		w.record(models.NewMove(result.BatchID, rel, target, failure))
	}

	w.Invalidate()
	logger.Info("assign finished", "moved", result.Moved, "failed", len(result.Errors))
	return result, nil
}

// moveOne moves a single file and returns a user facing failure message, or "" on success.
func (w *Workspace) moveOne(rel, dest string) string {
	src, err := w.Resolve(rel)
	if err != nil {
		return fmt.Sprintf("Failed to move %s: %v", rel, err)
	}

	info, err := os.Stat(src)
	if err != nil {
		return fmt.Sprintf("Failed to move %s: %v", rel, err)
	}
	if info.IsDir() {
		return fmt.Sprintf("Failed to move %s: %v", rel, ErrNotFolder)
	}

	name := filepath.Base(src)
	target := filepath.Join(dest, name)

	w.moveMu.Lock()
	defer w.moveMu.Unlock()
	if _, err := os.Lstat(target); err == nil {
		return fmt.Sprintf("File '%s' already exists in the destination folder.", name)
	}

	if err := os.Rename(src, target); err != nil {
		return fmt.Sprintf("Failed to move %s: %v", rel, err)
	}

	if w.thumbs != nil {
		if err := w.thumbs.Remove(rel); err != nil {
			w.logger.Warn("failed to remove thumbnail", "path", rel, "error", err)
		}
	}
	return ""
}

func (w *Workspace) record(move *models.Move) {
	if w.journal == nil {
		return
	}
	if err := w.journal.RecordMove(move); err != nil {
		w.logger.Warn("failed to record move", "source", move.Source(), "error", err)
	}
}
