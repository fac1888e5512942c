package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "h5play.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func intPtr(n int) *int { return &n }

func mustAppend(t *testing.T, repo CompletionRepo, rec CompletionRecord) {
	t.Helper()
	if err := repo.Append(context.Background(), rec); err != nil {
		t.Fatalf("append: %v", err)
	}
}

func mustQuery(t *testing.T, repo CompletionRepo, opts QueryOpts) []CompletionRecord {
	t.Helper()
	recs, err := repo.Query(context.Background(), opts)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	return recs
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestCompletionAppendAndQuery(t *testing.T) {
	repo := openTestStore(t).CompletionRepo()

	if recs := mustQuery(t, repo, QueryOpts{}); len(recs) != 0 {
		t.Fatalf("expected empty history, got %d records", len(recs))
	}

	at := time.Now().Truncate(time.Millisecond)
	mustAppend(t, repo, CompletionRecord{
		MountID:       "m1",
		ActivityID:    "memory-game",
		Verb:          "completed",
		DurationToken: "PT42S",
		Elapsed:       "00:42",
		RecordedAt:    at,
	})
	mustAppend(t, repo, CompletionRecord{
		MountID:        "m2",
		ActivityID:     "vocabulary",
		Verb:           "answered",
		DurationToken:  "PT95S",
		Elapsed:        "01:35",
		CorrectAnswers: intPtr(2),
		Statement:      `{"statement":{"result":{"duration":"PT95S"}}}`,
	})

	recs := mustQuery(t, repo, QueryOpts{})
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}

	// Newest first.
	newest, oldest := recs[0], recs[1]
	if newest.ActivityID != "vocabulary" {
		t.Errorf("expected vocabulary first, got %q", newest.ActivityID)
	}
	if newest.CorrectAnswers == nil || *newest.CorrectAnswers != 2 {
		t.Errorf("expected 2 correct answers, got %v", newest.CorrectAnswers)
	}
	if newest.ID == "" {
		t.Error("expected generated id")
	}
	if newest.RecordedAt.IsZero() {
		t.Error("expected recorded time to default to now")
	}
	if newest.Statement != `{"statement":{"result":{"duration":"PT95S"}}}` {
		t.Errorf("raw statement not round-tripped: %q", newest.Statement)
	}

	if oldest.ActivityID != "memory-game" || oldest.Elapsed != "00:42" {
		t.Errorf("unexpected oldest record %+v", oldest)
	}
	if oldest.CorrectAnswers != nil {
		t.Errorf("expected no correct answers, got %d", *oldest.CorrectAnswers)
	}
	if oldest.Statement != "" {
		t.Errorf("expected empty statement, got %q", oldest.Statement)
	}
	if !at.Equal(oldest.RecordedAt) {
		t.Errorf("recorded at = %v, want %v", oldest.RecordedAt, at)
	}
	if newest.Sequence <= oldest.Sequence {
		t.Errorf("sequence not increasing: %d <= %d", newest.Sequence, oldest.Sequence)
	}
}

func TestCompletionQueryFilters(t *testing.T) {
	repo := openTestStore(t).CompletionRepo()

	for i := 0; i < 5; i++ {
		activityID := "memory-game"
		if i%2 == 1 {
			activityID = "vocabulary"
		}
		mustAppend(t, repo, CompletionRecord{
			MountID:       "m",
			ActivityID:    activityID,
			Verb:          "completed",
			DurationToken: "PT1S",
			Elapsed:       "00:01",
		})
	}

	if recs := mustQuery(t, repo, QueryOpts{Limit: 2}); len(recs) != 2 {
		t.Errorf("limit 2: got %d records", len(recs))
	}

	recs := mustQuery(t, repo, QueryOpts{ActivityID: "vocabulary"})
	if len(recs) != 2 {
		t.Errorf("vocabulary filter: got %d records", len(recs))
	}
	for _, r := range recs {
		if r.ActivityID != "vocabulary" {
			t.Errorf("filter leaked %q", r.ActivityID)
		}
	}
}

func TestCompletionDuplicateID(t *testing.T) {
	repo := openTestStore(t).CompletionRepo()

	rec := CompletionRecord{ID: "fixed", MountID: "m", ActivityID: "vocabulary",
		Verb: "answered", DurationToken: "PT1S", Elapsed: "00:01"}
	mustAppend(t, repo, rec)
	if err := repo.Append(context.Background(), rec); err == nil {
		t.Error("expected duplicate id to fail")
	}
}

func TestDefaultDBPath_Env(t *testing.T) {
	want := filepath.Join(t.TempDir(), "nested", "h5play.db")
	t.Setenv("H5PLAY_DB", want)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if got != want {
		t.Errorf("DefaultDBPath() = %q, want %q", got, want)
	}
	if fi, err := os.Stat(filepath.Dir(want)); err != nil || !fi.IsDir() {
		t.Errorf("expected %s to be created: %v", filepath.Dir(want), err)
	}
}

func TestDefaultDBPath_XDG(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("H5PLAY_DB", "")
	t.Setenv("XDG_DATA_HOME", dataHome)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if want := filepath.Join(dataHome, "h5play", "h5play.db"); got != want {
		t.Errorf("DefaultDBPath() = %q, want %q", got, want)
	}
}
