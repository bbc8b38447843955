package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/desertthunder/labelgrid/internal/models"
	"github.com/desertthunder/labelgrid/internal/shared"
)

// BatchSummary aggregates the moves of one assign batch.
type BatchSummary struct {
	BatchID   string    `json:"batchId"`
	Label     string    `json:"label"`
	Moved     int       `json:"moved"`
	Failed    int       `json:"failed"`
	StartedAt time.Time `json:"startedAt"`
}

// MoveRepository persists [models.Move] rows. Moves are never updated or deleted.
type MoveRepository struct {
	db *sql.DB
}

// NewMoveRepository creates a new [MoveRepository] with the given database connection
func NewMoveRepository(db *sql.DB) *MoveRepository {
	return &MoveRepository{db: db}
}

// Create inserts a move with a generated ID and sequence
func (r *MoveRepository) Create(move *models.Move) error {
	if err := move.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "moves")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	var failure sql.NullString
	if !move.Succeeded() {
		failure = sql.NullString{String: move.Error(), Valid: true}
	}

	query := `
		INSERT INTO moves (id, sequence, batch_id, source, destination, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, move.BatchID(), move.Source(), move.Destination(), failure, move.CreatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert move: %w", err)
	}

	move.SetID(id)
	move.SetSequence(sequence)
	return nil
}

// Get retrieves a move by ID
func (r *MoveRepository) Get(id string) (*models.Move, error) {
	query := `
		SELECT id, sequence, batch_id, source, destination, error, created_at
		FROM moves
		WHERE id = ?
	`

	move, err := scanMove(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: move %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query move: %w", err)
	}
	return move, nil
}

// ListRecent returns up to limit moves, newest first. A non-positive limit returns every move.
func (r *MoveRepository) ListRecent(limit int) ([]*models.Move, error) {
	query := `
		SELECT id, sequence, batch_id, source, destination, error, created_at
		FROM moves
		ORDER BY sequence DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	return r.list(query, args...)
}

// ListByBatch returns the moves of one batch in the order they were attempted
func (r *MoveRepository) ListByBatch(batchID string) ([]*models.Move, error) {
	query := `
		SELECT id, sequence, batch_id, source, destination, error, created_at
		FROM moves
		WHERE batch_id = ?
		ORDER BY sequence ASC
	`
	return r.list(query, batchID)
}

// Batches summarises up to limit batches, newest first.
func (r *MoveRepository) Batches(limit int) ([]BatchSummary, error) {
	query := `
		SELECT m.batch_id, m.destination, m.created_at, agg.moved, agg.failed
		FROM moves m
		JOIN (
			SELECT batch_id,
				MIN(sequence) AS first_sequence,
				SUM(CASE WHEN error IS NULL THEN 1 ELSE 0 END) AS moved,
				COUNT(error) AS failed
			FROM moves
			GROUP BY batch_id
		) agg ON m.sequence = agg.first_sequence
		ORDER BY m.sequence DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query batches: %w", err)
	}
	defer rows.Close()

	batches := []BatchSummary{}
	for rows.Next() {
		var (
			b           BatchSummary
			destination string
		)
		if err := rows.Scan(&b.BatchID, &destination, &b.StartedAt, &b.Moved, &b.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		if label := path.Dir(destination); label != "." {
			b.Label = label
		}
		batches = append(batches, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return batches, nil
}

func (r *MoveRepository) list(query string, args ...any) ([]*models.Move, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query moves: %w", err)
	}
	defer rows.Close()

	moves := []*models.Move{}
	for rows.Next() {
		move, err := scanMove(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan move: %w", err)
		}
		moves = append(moves, move)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return moves, nil
}

func scanMove(s scanner) (*models.Move, error) {
	var (
		id          string
		sequence    int
		batchID     string
		source      string
		destination string
		failure     sql.NullString
		createdAt   time.Time
	)

	if err := s.Scan(&id, &sequence, &batchID, &source, &destination, &failure, &createdAt); err != nil {
		return nil, err
	}

	move := models.NewMove(batchID, source, destination, failure.String)
	move.SetID(id)
	move.SetSequence(sequence)
	move.SetCreatedAt(createdAt)
	return move, nil
}
