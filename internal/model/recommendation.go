package model

import (
	"context"
	"time"
)

// Recommendation is the canonical, normalized form of one recommended job.
// Every field is optional: the backend sometimes returns incomplete records
// and those must survive normalization rather than be dropped. A record with
// all fields nil is valid but inert (rendered as an empty board row).
type Recommendation struct {
	ID         *int64   // unique within a result set; nil records cannot be navigation targets
	Title      *string  // job title
	Company    *string  // company name
	TechStack  *string  // raw comma-ish text; splitting is a presentation concern
	Similarity *float64 // match confidence in [0,1], clamped by the backend
}

// Inert reports whether the record carries no usable fields.
func (r Recommendation) Inert() bool {
	return r.ID == nil && r.Title == nil && r.Company == nil &&
		r.TechStack == nil && r.Similarity == nil
}

// SavedRecommendation is a recommendation the user saved for later, as stored locally.
type SavedRecommendation struct {
	Recommendation
	SavedAt time.Time
}

// BestMatchFetcher fetches the curated "best matches" first page.
// forceRefresh asks the backend to bypass its own server-side cache.
type BestMatchFetcher interface {
	FetchBestMatches(ctx context.Context, forceRefresh bool) ([]Recommendation, error)
}

// PageFetcher fetches one offset page of recommendations and reports the
// backend's total job count.
type PageFetcher interface {
	FetchPage(ctx context.Context, page, perPage int) ([]Recommendation, int, error)
}

// ExplanationFetcher fetches the "why this match" text for a single job on demand.
type ExplanationFetcher interface {
	FetchExplanation(ctx context.Context, jobID int64) (string, error)
}

// SavedStore persists recommendations the user saved for later.
type SavedStore interface {
	Save(rec Recommendation) error
	List() ([]SavedRecommendation, error)
	Remove(jobID int64) error
	Cleanup(olderThan time.Duration) error
}
