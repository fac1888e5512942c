package store

import (
	"context"
	"time"
)

// QueryOpts configures completion queries.
type QueryOpts struct {
	Limit      int    // max results (0 = unlimited)
	ActivityID string // only this activity when set
}

// CompletionRecord is one finished attempt at an activity.
type CompletionRecord struct {
	ID            string
	Sequence      int64
	MountID       string
	ActivityID    string
	Verb          string
	DurationToken string
	Elapsed       string
	// CorrectAnswers is nil for activities that are not scored.
	CorrectAnswers *int
	RecordedAt     time.Time
	// Statement is the raw xAPI payload the completion was derived from.
	Statement string
}

// CompletionRepo stores completion records.
type CompletionRepo interface {
	// Append records a completion. ID and RecordedAt are filled in when empty.
	Append(ctx context.Context, rec CompletionRecord) error

	// Query returns completions newest first.
	Query(ctx context.Context, opts QueryOpts) ([]CompletionRecord, error)
}
