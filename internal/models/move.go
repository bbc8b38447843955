package models

import (
	"errors"
	"time"
)

// Move records one file handled by an assign batch.
type Move struct {
	id          string
	sequence    int
	batchID     string
	source      string
	destination string
	err         string
	createdAt   time.Time
}

// NewMove creates an unsaved [Move]. A non-empty failure marks the move as failed.
func NewMove(batchID, source, destination, failure string) *Move {
	return &Move{
		batchID:     batchID,
		source:      source,
		destination: destination,
		err:         failure,
		createdAt:   time.Now().UTC(),
	}
}

func (m *Move) ID() string           { return m.id }
func (m *Move) Sequence() int        { return m.sequence }
func (m *Move) BatchID() string      { return m.batchID }
func (m *Move) Source() string       { return m.source }
func (m *Move) Destination() string  { return m.destination }
func (m *Move) Error() string        { return m.err }
func (m *Move) Succeeded() bool      { return m.err == "" }
func (m *Move) CreatedAt() time.Time { return m.createdAt }

func (m *Move) SetID(id string)          { m.id = id }
func (m *Move) SetSequence(seq int)      { m.sequence = seq }
func (m *Move) SetCreatedAt(t time.Time) { m.createdAt = t }

// Validate checks the fields the journal requires.
func (m *Move) Validate() error {
	if m.batchID == "" {
		return errors.New("batch id is required")
	}
	if m.source == "" {
		return errors.New("source is required")
	}
	if m.destination == "" {
		return errors.New("destination is required")
	}
	return nil
}

// LabelRecord records a label folder created through labelgrid.
type LabelRecord struct {
	path      string
	createdAt time.Time
}

func NewLabelRecord(path string) *LabelRecord {
	return &LabelRecord{path: path, createdAt: time.Now().UTC()}
}

// ID is the label path; labels are unique by path.
func (l *LabelRecord) ID() string           { return l.path }
func (l *LabelRecord) Path() string         { return l.path }
func (l *LabelRecord) CreatedAt() time.Time { return l.createdAt }

func (l *LabelRecord) SetCreatedAt(t time.Time) { l.createdAt = t }

func (l *LabelRecord) Validate() error {
	if l.path == "" {
		return errors.New("label path is required")
	}
	return nil
}

var (
	_ Model = (*Move)(nil)
	_ Model = (*LabelRecord)(nil)
)
