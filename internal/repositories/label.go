package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/labelgrid/internal/models"
	"github.com/desertthunder/labelgrid/internal/shared"
)

// LabelRepository persists [models.LabelRecord] rows keyed by label path.
type LabelRepository struct {
	db *sql.DB
}

// NewLabelRepository creates a new [LabelRepository] with the given database connection
func NewLabelRepository(db *sql.DB) *LabelRepository {
	return &LabelRepository{db: db}
}

// Create records a label. Recording a path again (a label deleted on disk and created anew)
// refreshes its timestamp.
func (r *LabelRepository) Create(label *models.LabelRecord) error {
	if err := label.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO labels (path, created_at) VALUES (?, ?)
		ON CONFLICT(path) DO UPDATE SET created_at = excluded.created_at
	`

	if _, err := r.db.Exec(query, label.Path(), label.CreatedAt()); err != nil {
		return fmt.Errorf("failed to insert label: %w", err)
	}
	return nil
}

// Get retrieves a label by path
func (r *LabelRepository) Get(path string) (*models.LabelRecord, error) {
	var createdAt time.Time
	err := r.db.QueryRow(`SELECT created_at FROM labels WHERE path = ?`, path).Scan(&createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: label %s", shared.ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query label: %w", err)
	}

	label := models.NewLabelRecord(path)
	label.SetCreatedAt(createdAt)
	return label, nil
}

// List returns every recorded label ordered by path
func (r *LabelRepository) List() ([]*models.LabelRecord, error) {
	rows, err := r.db.Query(`SELECT path, created_at FROM labels ORDER BY path ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query labels: %w", err)
	}
	defer rows.Close()

	labels := []*models.LabelRecord{}
	for rows.Next() {
		var (
			path      string
			createdAt time.Time
		)
		if err := rows.Scan(&path, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		label := models.NewLabelRecord(path)
		label.SetCreatedAt(createdAt)
		labels = append(labels, label)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return labels, nil
}
