package main

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/desertthunder/labelgrid/internal/models"
	"github.com/desertthunder/labelgrid/internal/repositories"
	"github.com/desertthunder/labelgrid/internal/shared"
	"github.com/desertthunder/labelgrid/internal/workspace"
	"github.com/urfave/cli/v3"
)

// Tree prints the folder tree, one label per line indented by depth.
func (r *Runner) Tree(ctx context.Context, cmd *cli.Command) error {
	s, err := r.openWorkspace(false)
	if err != nil {
		return err
	}
	defer s.Close()

	root := s.ws.Tree()
	if cmd.Bool("json") {
		return r.writeJSON(root, true)
	}

	var write func(node models.TreeNode, depth int) error
	write = func(node models.TreeNode, depth int) error {
		if err := r.writePlainln("%s%s", strings.Repeat("  ", depth), node.Name); err != nil {
			return err
		}
		for _, child := range node.Children {
			if err := write(child, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return write(root, 0)
}

// List prints the images and labels of a folder, optionally narrowed by --match.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	s, err := r.openWorkspace(false)
	if err != nil {
		return err
	}
	defer s.Close()

	content, err := s.ws.Content(cmd.StringArg("path"))
	if err != nil {
		return err
	}
	content.Images = workspace.FilterImages(content.Images, cmd.String("match"))

	if cmd.Bool("json") {
		return r.writeJSON(content, cmd.Bool("pretty"))
	}

	where := content.Path
	if where == "" {
		where = "/"
	}
	r.writePlainln("%s: %d image(s), %d label(s)", where, len(content.Images), len(content.Labels))
	for _, l := range content.Labels {
		r.writePlainln("  [%s]", l.Path)
	}
	for _, img := range content.Images {
		if err := r.writePlainln("  %s", img.Path); err != nil {
			return err
		}
	}
	return nil
}

// CreateLabel creates a label folder under --path.
func (r *Runner) CreateLabel(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: label name", shared.ErrMissingArgument)
	}

	s, err := r.openWorkspace(false)
	if err != nil {
		return err
	}
	defer s.Close()

	label, err := s.ws.CreateLabel(cmd.String("path"), name)
	if err != nil {
		return err
	}
	return r.writePlainln("Label '%s' created at %s", label.Name, label.Path)
}

// ListLabels prints the labels recorded in the journal.
func (r *Runner) ListLabels(ctx context.Context, cmd *cli.Command) error {
	s, err := r.openWorkspace(false)
	if err != nil {
		return err
	}
	defer s.Close()
	if s.db == nil {
		return fmt.Errorf("%w: database.path is not set", shared.ErrMissingConfig)
	}

	records, err := repositories.NewLabelRepository(s.db).List()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		labels := make([]models.Label, len(records))
		for i, rec := range records {
			labels[i] = models.Label{Name: path.Base(rec.Path()), Path: rec.Path()}
		}
		return r.writeJSON(labels, true)
	}

	for _, rec := range records {
		if err := r.writePlainln("%s  %s", rec.CreatedAt().Local().Format("2006-01-02 15:04"), rec.Path()); err != nil {
			return err
		}
	}
	return nil
}

// Assign moves the files given as arguments into --label and prints the summary.
//
// Per-file failures are reported, not returned: the command only fails when nothing could run.
func (r *Runner) Assign(ctx context.Context, cmd *cli.Command) error {
	files := cmd.Args().Slice()

	s, err := r.openWorkspace(false)
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := s.ws.Assign(ctx, files, cmd.String("label"))
	if result == nil {
		return err
	}
	if err != nil {
		r.logger.Warn("assign stopped early", "error", err)
	}

	if cmd.Bool("json") {
		if werr := r.writeJSON(result, true); werr != nil {
			return werr
		}
		return err
	}
	if werr := r.writePlainln("%s", result.Summary()); werr != nil {
		return werr
	}
	return err
}

// History prints recent assign batches, or the moves of one batch with --batch.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	if r.config.Database.Path == "" {
		return fmt.Errorf("%w: database.path is not set", shared.ErrMissingConfig)
	}
	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewMoveRepository(db)

	if batch := cmd.String("batch"); batch != "" {
		moves, err := repo.ListByBatch(batch)
		if err != nil {
			return err
		}
		if len(moves) == 0 {
			return fmt.Errorf("%w: batch %s", shared.ErrNotFound, batch)
		}
		if cmd.Bool("json") {
			return r.writeJSON(moveViews(moves), true)
		}
		for _, m := range moves {
			status := "ok"
			if !m.Succeeded() {
				status = m.Error()
			}
			if err := r.writePlainln("%s -> %s  %s", m.Source(), m.Destination(), status); err != nil {
				return err
			}
		}
		return nil
	}

	batches, err := repo.Batches(int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(batches, true)
	}
	if len(batches) == 0 {
		return r.writePlainln("No assign batches yet.")
	}
	for _, b := range batches {
		label := b.Label
		if label == "" {
			label = "/"
		}
		err := r.writePlainln("%s  %s  moved %d, failed %d  -> %s",
			b.StartedAt.Local().Format("2006-01-02 15:04"), b.BatchID, b.Moved, b.Failed, label)
		if err != nil {
			return err
		}
	}
	return nil
}

// moveView is the JSON shape of a journaled move.
type moveView struct {
	Sequence    int    `json:"sequence"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Error       string `json:"error,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

func moveViews(moves []*models.Move) []moveView {
	views := make([]moveView, len(moves))
	for i, m := range moves {
		views[i] = moveView{
			Sequence:    m.Sequence(),
			Source:      m.Source(),
			Destination: m.Destination(),
			Error:       m.Error(),
			CreatedAt:   m.CreatedAt().Format(time.RFC3339),
		}
	}
	return views
}
