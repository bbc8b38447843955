package repositories

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/desertthunder/labelgrid/internal/models"
	"github.com/desertthunder/labelgrid/internal/shared"
	tu "github.com/desertthunder/labelgrid/internal/testing"
	"github.com/desertthunder/labelgrid/internal/workspace"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func sources(moves []*models.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.Source()
	}
	return out
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "moves")
		if err != nil {
			t.Fatalf("failed to get sequence: %v", err)
		}
		if got != want {
			t.Errorf("expected sequence %d, got %d", want, got)
		}
	}

	if _, err := NextSequence(db, "missing"); err == nil {
		t.Error("expected error for table without sequence")
	}
}

func TestMoveRepository(t *testing.T) {
	t.Run("Create & Get", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewMoveRepository(db)

		move := models.NewMove("batch-1", "a.png", "cats/a.png", "")
		if err := repo.Create(move); err != nil {
			t.Fatalf("failed to create move: %v", err)
		}
		if move.ID() == "" || move.Sequence() != 1 {
			t.Fatalf("expected id and sequence 1, got %q %d", move.ID(), move.Sequence())
		}

		retrieved, err := repo.Get(move.ID())
		if err != nil {
			t.Fatalf("failed to get move: %v", err)
		}
		if retrieved.Destination() != "cats/a.png" || !retrieved.Succeeded() {
			t.Errorf("unexpected move %+v", retrieved)
		}
		if !retrieved.CreatedAt().Equal(move.CreatedAt()) {
			t.Errorf("expected created_at %v, got %v", move.CreatedAt(), retrieved.CreatedAt())
		}
	})

	t.Run("keeps failure messages", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewMoveRepository(db)

		msg := "File 'b.png' already exists in the destination folder."
		move := models.NewMove("batch-1", "b.png", "cats/b.png", msg)
		if err := repo.Create(move); err != nil {
			t.Fatalf("failed to create move: %v", err)
		}

		retrieved, err := repo.Get(move.ID())
		if err != nil {
			t.Fatalf("failed to get move: %v", err)
		}
		if retrieved.Succeeded() || retrieved.Error() != msg {
			t.Errorf("expected failure %q, got %q", msg, retrieved.Error())
		}
	})

	t.Run("ValidationError", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewMoveRepository(db)

		if err := repo.Create(models.NewMove("", "a.png", "cats/a.png", "")); err == nil {
			t.Fatal("expected validation error for empty batch id")
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewMoveRepository(db)

		if _, err := repo.Get("nonexistent-id"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListRecent", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewMoveRepository(db)

		for _, src := range []string{"1.png", "2.png", "3.png"} {
			if err := repo.Create(models.NewMove("b", src, "cats/"+src, "")); err != nil {
				t.Fatalf("failed to create move: %v", err)
			}
		}

		all, err := repo.ListRecent(0)
		if err != nil {
			t.Fatalf("failed to list moves: %v", err)
		}
		if got := sources(all); !reflect.DeepEqual(got, []string{"3.png", "2.png", "1.png"}) {
			t.Errorf("expected newest first, got %v", got)
		}

		limited, err := repo.ListRecent(2)
		if err != nil {
			t.Fatalf("failed to list moves: %v", err)
		}
		if len(limited) != 2 {
			t.Errorf("expected 2 moves, got %d", len(limited))
		}
	})

	t.Run("ListByBatch & Batches", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewMoveRepository(db)

		moves := []*models.Move{
			models.NewMove("first", "a.png", "cats/a.png", ""),
			models.NewMove("first", "b.png", "cats/b.png", "File 'b.png' already exists in the destination folder."),
			models.NewMove("second", "c.png", "dogs/c.png", ""),
			models.NewMove("first", "d.png", "cats/d.png", ""),
			models.NewMove("third", "e.png", "e.png", ""),
		}
		for _, m := range moves {
			if err := repo.Create(m); err != nil {
				t.Fatalf("failed to create move: %v", err)
			}
		}

		first, err := repo.ListByBatch("first")
		if err != nil {
			t.Fatalf("failed to list batch: %v", err)
		}
		if got := sources(first); !reflect.DeepEqual(got, []string{"a.png", "b.png", "d.png"}) {
			t.Errorf("expected attempt order, got %v", got)
		}

		batches, err := repo.Batches(0)
		if err != nil {
			t.Fatalf("failed to summarise batches: %v", err)
		}
		if len(batches) != 3 {
			t.Fatalf("expected 3 batches, got %d", len(batches))
		}

		want := []struct {
			id, label     string
			moved, failed int
		}{
			{"third", "", 1, 0},
			{"second", "dogs", 1, 0},
			{"first", "cats", 2, 1},
		}
		for i, w := range want {
			b := batches[i]
			if b.BatchID != w.id || b.Label != w.label || b.Moved != w.moved || b.Failed != w.failed {
				t.Errorf("batch %d: expected %+v, got %+v", i, w, b)
			}
		}
		if batches[2].StartedAt.IsZero() {
			t.Error("expected batch start time")
		}

		limited, err := repo.Batches(1)
		if err != nil {
			t.Fatalf("failed to summarise batches: %v", err)
		}
		if len(limited) != 1 || limited[0].BatchID != "third" {
			t.Errorf("expected only the newest batch, got %+v", limited)
		}
	})
}

func TestLabelRepository(t *testing.T) {
	t.Run("Create & Get", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewLabelRepository(db)

		if err := repo.Create(models.NewLabelRecord("cats")); err != nil {
			t.Fatalf("failed to create label: %v", err)
		}

		label, err := repo.Get("cats")
		if err != nil {
			t.Fatalf("failed to get label: %v", err)
		}
		if label.Path() != "cats" || label.CreatedAt().IsZero() {
			t.Errorf("unexpected label %+v", label)
		}
	})

	t.Run("re-creating refreshes", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewLabelRepository(db)

		first := models.NewLabelRecord("cats")
		second := models.NewLabelRecord("cats")
		second.SetCreatedAt(first.CreatedAt().Add(time.Second))

		if err := repo.Create(first); err != nil {
			t.Fatalf("failed to create label: %v", err)
		}
		if err := repo.Create(second); err != nil {
			t.Fatalf("expected duplicate path to be accepted, got %v", err)
		}

		labels, err := repo.List()
		if err != nil {
			t.Fatalf("failed to list labels: %v", err)
		}
		if len(labels) != 1 || !labels[0].CreatedAt().Equal(second.CreatedAt()) {
			t.Errorf("expected one refreshed label, got %d", len(labels))
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewLabelRepository(db)

		for _, p := range []string{"dogs", "cats/tabby", "cats"} {
			if err := repo.Create(models.NewLabelRecord(p)); err != nil {
				t.Fatalf("failed to create label: %v", err)
			}
		}

		labels, err := repo.List()
		if err != nil {
			t.Fatalf("failed to list labels: %v", err)
		}
		got := make([]string, len(labels))
		for i, l := range labels {
			got[i] = l.Path()
		}
		if !reflect.DeepEqual(got, []string{"cats", "cats/tabby", "dogs"}) {
			t.Errorf("expected labels ordered by path, got %v", got)
		}
	})

	t.Run("errors", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewLabelRepository(db)

		if err := repo.Create(models.NewLabelRecord("")); err == nil {
			t.Error("expected validation error for empty path")
		}
		if _, err := repo.Get("missing"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestJournalAdapter(t *testing.T) {
	db := setupTestDB(t)
	journal := NewJournalAdapter(db)

	f := tu.NewFixture(t).Dir("cats").Images("a.png", "b.png", "cats/b.png")
	w, err := workspace.New(f.Root, workspace.Options{Journal: journal})
	if err != nil {
		t.Fatalf("failed to open workspace: %v", err)
	}

	if _, err := w.CreateLabel("", "dogs"); err != nil {
		t.Fatalf("failed to create label: %v", err)
	}
	result, err := w.Assign(context.Background(), []string{"a.png", "b.png"}, "cats")
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	moves, err := NewMoveRepository(db).ListByBatch(result.BatchID)
	if err != nil {
		t.Fatalf("failed to list batch: %v", err)
	}
	if len(moves) != 2 {
		t.Fatalf("expected 2 journaled moves, got %d", len(moves))
	}
	if !moves[0].Succeeded() || moves[1].Error() != result.Errors[0] {
		t.Errorf("expected journal to mirror result %+v", result)
	}

	if _, err := NewLabelRepository(db).Get("dogs"); err != nil {
		t.Errorf("expected label to be journaled: %v", err)
	}
}
