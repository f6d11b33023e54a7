package driven

import (
	"context"

	"github.com/custodia-labs/phapdien/internal/core/domain"
)

// JobStore keeps a history of ingestion runs.
type JobStore interface {
	// SaveJob records a finished run. Saving an existing ID overwrites it.
	SaveJob(ctx context.Context, job domain.JobRecord) error

	// ListJobs returns up to limit runs, most recent first.
	// A limit of zero or less returns all runs.
	ListJobs(ctx context.Context, limit int) ([]domain.JobRecord, error)
}
