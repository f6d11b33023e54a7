package mcp

import (
	"context"

	"github.com/custodia-labs/phapdien/internal/core/domain"
	"github.com/custodia-labs/phapdien/internal/core/ports/driving"
)

// mockUnitService is a mock implementation of driving.UnitService.
type mockUnitService struct {
	snapshot   domain.CorpusSnapshot
	hits       []domain.UnitHit
	err        error
	collection string
	limit      int
}

func (m *mockUnitService) List(_ context.Context, collection string) (domain.CorpusSnapshot, error) {
	m.collection = collection
	return m.snapshot, m.err
}

func (m *mockUnitService) Nearest(_ context.Context, collection, _ string, limit int) ([]domain.UnitHit, error) {
	m.collection, m.limit = collection, limit
	return m.hits, m.err
}

func (m *mockUnitService) Delete(_ context.Context, _ string, _ int) error {
	return m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	report  *domain.IngestReport
	jobs    []domain.JobRecord
	err     error
	last    driving.IngestRequest
	planned bool
}

func (m *mockIngestService) Ingest(_ context.Context, req driving.IngestRequest) (*domain.IngestReport, error) {
	m.last = req
	return m.report, m.err
}

func (m *mockIngestService) Plan(_ context.Context, req driving.IngestRequest) (*domain.IngestReport, error) {
	m.last, m.planned = req, true
	return m.report, m.err
}

func (m *mockIngestService) History(_ context.Context, _ int) ([]domain.JobRecord, error) {
	return m.jobs, m.err
}
