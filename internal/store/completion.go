package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type completionRepo struct {
	db *sql.DB
}

func (r *completionRepo) Append(ctx context.Context, rec CompletionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now()
	}

	var correct sql.NullInt64
	if rec.CorrectAnswers != nil {
		correct = sql.NullInt64{Int64: int64(*rec.CorrectAnswers), Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO completions
			(id, mount_id, activity_id, verb, duration_token, elapsed, correct_answers, recorded_at, statement)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.MountID, rec.ActivityID, rec.Verb, rec.DurationToken,
		rec.Elapsed, correct, rec.RecordedAt.UnixMilli(), rec.Statement,
	)
	if err != nil {
		return fmt.Errorf("save completion: %w", err)
	}
	return nil
}

func (r *completionRepo) Query(ctx context.Context, opts QueryOpts) ([]CompletionRecord, error) {
	var (
		b    strings.Builder
		args []any
	)
	b.WriteString(`SELECT sequence, id, mount_id, activity_id, verb, duration_token,
		elapsed, correct_answers, recorded_at, statement FROM completions`)
	if opts.ActivityID != "" {
		b.WriteString(` WHERE activity_id = ?`)
		args = append(args, opts.ActivityID)
	}
	b.WriteString(` ORDER BY sequence DESC`)
	if opts.Limit > 0 {
		b.WriteString(` LIMIT ?`)
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query completions: %w", err)
	}
	defer rows.Close()

	var out []CompletionRecord
	for rows.Next() {
		var (
			rec        CompletionRecord
			correct    sql.NullInt64
			recordedAt int64
		)
		if err := rows.Scan(&rec.Sequence, &rec.ID, &rec.MountID, &rec.ActivityID,
			&rec.Verb, &rec.DurationToken, &rec.Elapsed, &correct, &recordedAt, &rec.Statement); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		if correct.Valid {
			n := int(correct.Int64)
			rec.CorrectAnswers = &n
		}
		rec.RecordedAt = time.UnixMilli(recordedAt)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completions: %w", err)
	}
	return out, nil
}
