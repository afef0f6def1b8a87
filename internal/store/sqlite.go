package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/matchdeck/internal/model"
)

// Ensure SQLiteStore implements model.SavedStore.
var _ model.SavedStore = (*SQLiteStore)(nil)

// SQLiteStore persists recommendations the user saved for later. The
// first-page cache itself is memory-only; this database outlives the session
// on purpose.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the saved_jobs table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS saved_jobs (
		job_id     INTEGER PRIMARY KEY,
		title      TEXT,
		company    TEXT,
		tech_stack TEXT,
		similarity REAL,
		saved_at   DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating saved_jobs table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save records a recommendation. Saving the same job twice refreshes its
// fields. Records without an id cannot be saved.
func (s *SQLiteStore) Save(rec model.Recommendation) error {
	if rec.ID == nil {
		return fmt.Errorf("saving recommendation: record has no id")
	}

	_, err := s.db.Exec(
		`INSERT INTO saved_jobs (job_id, title, company, tech_stack, similarity)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(job_id) DO UPDATE SET
		   title = excluded.title,
		   company = excluded.company,
		   tech_stack = excluded.tech_stack,
		   similarity = excluded.similarity`,
		*rec.ID, rec.Title, rec.Company, rec.TechStack, rec.Similarity,
	)
	if err != nil {
		return fmt.Errorf("saving job %d: %w", *rec.ID, err)
	}
	return nil
}

// List returns all saved recommendations, most recently saved first.
func (s *SQLiteStore) List() ([]model.SavedRecommendation, error) {
	rows, err := s.db.Query(
		`SELECT job_id, title, company, tech_stack, similarity, saved_at
		 FROM saved_jobs ORDER BY saved_at DESC, job_id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing saved jobs: %w", err)
	}
	defer rows.Close()

	var saved []model.SavedRecommendation
	for rows.Next() {
		var (
			id         int64
			title      sql.NullString
			company    sql.NullString
			techStack  sql.NullString
			similarity sql.NullFloat64
			savedAt    time.Time
		)
		if err := rows.Scan(&id, &title, &company, &techStack, &similarity, &savedAt); err != nil {
			return nil, fmt.Errorf("scanning saved job: %w", err)
		}

		rec := model.Recommendation{ID: &id}
		if title.Valid {
			rec.Title = &title.String
		}
		if company.Valid {
			rec.Company = &company.String
		}
		if techStack.Valid {
			rec.TechStack = &techStack.String
		}
		if similarity.Valid {
			rec.Similarity = &similarity.Float64
		}

		saved = append(saved, model.SavedRecommendation{Recommendation: rec, SavedAt: savedAt})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing saved jobs: %w", err)
	}
	return saved, nil
}

// Remove deletes a saved job. Removing an unknown id is a no-op.
func (s *SQLiteStore) Remove(jobID int64) error {
	_, err := s.db.Exec("DELETE FROM saved_jobs WHERE job_id = ?", jobID)
	if err != nil {
		return fmt.Errorf("removing saved job %d: %w", jobID, err)
	}
	return nil
}

// Cleanup deletes saved jobs older than the given duration.
func (s *SQLiteStore) Cleanup(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	_, err := s.db.Exec("DELETE FROM saved_jobs WHERE saved_at < ?", cutoff)
	if err != nil {
		return fmt.Errorf("cleaning up saved jobs older than %v: %w", olderThan, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
