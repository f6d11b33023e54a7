package driving

import (
	"context"

	"github.com/custodia-labs/phapdien/internal/core/domain"
)

// IngestRequest carries one document and its call parameters.
type IngestRequest struct {
	Document domain.SourceDocument

	// Collection overrides the configured collection when set.
	Collection string

	// MinWord overrides the configured length threshold when positive.
	MinWord int
}

// IngestService turns a PDF into reconciled legal units.
type IngestService interface {
	// Ingest acquires, segments, filters, normalises and reconciles the
	// document, then applies the decisions to the unit store.
	//
	// On a mid-batch failure the returned report is non-nil and its Results
	// say which units were applied, which failed and which were not attempted.
	Ingest(ctx context.Context, req IngestRequest) (*domain.IngestReport, error)

	// Plan runs the same steps but stops before writing anything.
	Plan(ctx context.Context, req IngestRequest) (*domain.IngestReport, error)

	// History returns up to limit past runs, most recent first.
	// It is empty when no job store is configured.
	History(ctx context.Context, limit int) ([]domain.JobRecord, error)
}
