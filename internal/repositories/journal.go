package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/labelgrid/internal/models"
	"github.com/desertthunder/labelgrid/internal/workspace"
)

// JournalAdapter implements [workspace.Journal] on top of the move and label repositories.
type JournalAdapter struct {
	moves  *MoveRepository
	labels *LabelRepository
}

// NewJournalAdapter creates a [JournalAdapter] writing to db.
func NewJournalAdapter(db *sql.DB) *JournalAdapter {
	return &JournalAdapter{
		moves:  NewMoveRepository(db),
		labels: NewLabelRepository(db),
	}
}

// RecordMove stores one assign outcome.
func (a *JournalAdapter) RecordMove(move *models.Move) error {
	if err := a.moves.Create(move); err != nil {
		return fmt.Errorf("failed to record move: %w", err)
	}
	return nil
}

// RecordLabel stores a newly created label folder.
func (a *JournalAdapter) RecordLabel(path string) error {
	if err := a.labels.Create(models.NewLabelRecord(path)); err != nil {
		return fmt.Errorf("failed to record label: %w", err)
	}
	return nil
}

var _ workspace.Journal = (*JournalAdapter)(nil)
