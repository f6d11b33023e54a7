package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/phapdien/internal/core/domain"
	"github.com/custodia-labs/phapdien/internal/core/ports/driven"
)

// jobStore implements driven.JobStore.
type jobStore struct {
	store *Store
}

var _ driven.JobStore = (*jobStore)(nil)

// SaveJob persists a run summary. Creates or updates based on ID.
func (s *jobStore) SaveJob(ctx context.Context, job domain.JobRecord) error {
	if job.ID == "" {
		return fmt.Errorf("%w: job without ID", domain.ErrInvalidInput)
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO ingest_jobs (id, document, collection, mode, units, inserted, updated, skipped, failed,
			error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document = excluded.document,
			collection = excluded.collection,
			mode = excluded.mode,
			units = excluded.units,
			inserted = excluded.inserted,
			updated = excluded.updated,
			skipped = excluded.skipped,
			failed = excluded.failed,
			error = excluded.error,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at
	`, job.ID, job.Document, job.Collection, string(job.Mode), job.Units, job.Inserted, job.Updated,
		job.Skipped, job.Failed, nullString(job.Error), job.StartedAt.UTC(), job.FinishedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving job: %w", err)
	}
	return nil
}

// ListJobs returns runs ordered by start time, newest first.
func (s *jobStore) ListJobs(ctx context.Context, limit int) ([]domain.JobRecord, error) {
	query := `
		SELECT id, document, collection, mode, units, inserted, updated, skipped, failed,
			error, started_at, finished_at
		FROM ingest_jobs ORDER BY started_at DESC, id
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.JobRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var job domain.JobRecord
		var mode string
		var jobErr sql.NullString
		if err := rows.Scan(&job.ID, &job.Document, &job.Collection, &mode, &job.Units, &job.Inserted,
			&job.Updated, &job.Skipped, &job.Failed, &jobErr, &job.StartedAt, &job.FinishedAt); err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		job.Mode = domain.AcquisitionMode(mode)
		job.Error = jobErr.String
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating jobs: %w", err)
	}
	return jobs, nil
}

// nullString converts an empty string to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
