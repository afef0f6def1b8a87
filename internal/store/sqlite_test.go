package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/amishk599/matchdeck/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func fullRec(id int64) model.Recommendation {
	title := "Backend Engineer"
	company := "Acme"
	stack := "Go, SQL"
	sim := 0.87
	return model.Recommendation{ID: &id, Title: &title, Company: &company, TechStack: &stack, Similarity: &sim}
}

func TestSaveThenList(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save(fullRec(42)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	saved, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(saved) != 1 {
		t.Fatalf("expected 1 saved job, got %d", len(saved))
	}

	got := saved[0]
	if *got.ID != 42 {
		t.Errorf("expected ID 42, got %d", *got.ID)
	}
	if got.Title == nil || *got.Title != "Backend Engineer" {
		t.Errorf("unexpected title %v", got.Title)
	}
	if got.Similarity == nil || *got.Similarity != 0.87 {
		t.Errorf("unexpected similarity %v", got.Similarity)
	}
	if got.SavedAt.IsZero() {
		t.Error("expected SavedAt to be set")
	}
}

func TestSavePartialRecordKeepsAbsentFields(t *testing.T) {
	s := newTestStore(t)

	id := int64(7)
	title := "X"
	if err := s.Save(model.Recommendation{ID: &id, Title: &title}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	saved, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	got := saved[0]
	if got.Company != nil || got.TechStack != nil || got.Similarity != nil {
		t.Errorf("expected absent fields to stay absent, got %+v", got.Recommendation)
	}
}

func TestSaveWithoutIDFails(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save(model.Recommendation{}); err == nil {
		t.Error("expected error saving a record without an id")
	}
}

func TestSaveTwiceUpdates(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save(fullRec(42)); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	updated := fullRec(42)
	newTitle := "Staff Engineer"
	updated.Title = &newTitle
	if err := s.Save(updated); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	saved, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(saved) != 1 {
		t.Fatalf("expected 1 saved job after resave, got %d", len(saved))
	}
	if *saved[0].Title != "Staff Engineer" {
		t.Errorf("expected updated title, got %q", *saved[0].Title)
	}
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save(fullRec(42)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Remove(42); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	saved, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(saved) != 0 {
		t.Errorf("expected empty list after Remove, got %d", len(saved))
	}

	// Removing an unknown id is a no-op.
	if err := s.Remove(999); err != nil {
		t.Errorf("Remove unknown id: %v", err)
	}
}

func TestCleanupRemovesOldKeepsFresh(t *testing.T) {
	s := newTestStore(t)

	// Insert an "old" entry by writing directly with a past timestamp.
	_, err := s.db.Exec(
		"INSERT INTO saved_jobs (job_id, saved_at) VALUES (?, ?)",
		1, time.Now().Add(-30*24*time.Hour),
	)
	if err != nil {
		t.Fatalf("inserting old job: %v", err)
	}

	if err := s.Save(fullRec(2)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := s.Cleanup(7 * 24 * time.Hour); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	saved, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(saved) != 1 || *saved[0].ID != 2 {
		t.Errorf("expected only the fresh job to survive, got %+v", saved)
	}
}
