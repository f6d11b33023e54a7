package cli

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/phapdien/internal/core/domain"
	"github.com/custodia-labs/phapdien/internal/core/ports/driving"
)

// --- Mock implementations for CLI tests ---

type cliMockIngestService struct {
	mu       sync.Mutex
	requests []driving.IngestRequest
	planned  int
	report   *domain.IngestReport
	err      error
	jobs     []domain.JobRecord
	done     chan string
}

func (m *cliMockIngestService) Ingest(_ context.Context, req driving.IngestRequest) (*domain.IngestReport, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.done != nil {
		defer func() { m.done <- req.Document.Name }()
	}
	return m.reportFor(req), m.err
}

func (m *cliMockIngestService) Plan(_ context.Context, req driving.IngestRequest) (*domain.IngestReport, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.planned++
	m.mu.Unlock()
	return m.reportFor(req), m.err
}

func (m *cliMockIngestService) History(_ context.Context, limit int) ([]domain.JobRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit > 0 && len(m.jobs) > limit {
		return m.jobs[:limit], nil
	}
	return m.jobs, nil
}

func (m *cliMockIngestService) reportFor(req driving.IngestRequest) *domain.IngestReport {
	if m.report == nil {
		return nil
	}
	r := *m.report
	r.Document = req.Document.Name
	return &r
}

func (m *cliMockIngestService) lastRequest() driving.IngestRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[len(m.requests)-1]
}

type cliMockUnitService struct {
	snapshot   domain.CorpusSnapshot
	hits       []domain.UnitHit
	err        error
	collection string
	query      string
	limit      int
	deleted    []int
}

func (m *cliMockUnitService) List(_ context.Context, collection string) (domain.CorpusSnapshot, error) {
	m.collection = collection
	return m.snapshot, m.err
}

func (m *cliMockUnitService) Nearest(_ context.Context, collection, query string, limit int) ([]domain.UnitHit, error) {
	m.collection, m.query, m.limit = collection, query, limit
	return m.hits, m.err
}

func (m *cliMockUnitService) Delete(_ context.Context, collection string, lawNumber int) error {
	m.collection = collection
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, lawNumber)
	return nil
}

type cliMockSettingsService struct {
	settings     domain.AppSettings
	validateErr  error
	saved        int
	provider     domain.AIProvider
	providerArgs [2]string
	backend      domain.StoreBackend
}

func (m *cliMockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *cliMockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	m.saved++
	return nil
}

func (m *cliMockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return domain.ErrInvalidInput
	}
	m.provider = provider
	m.providerArgs = [2]string{model, apiKey}
	m.settings.Embedding.Provider = provider
	return nil
}

func (m *cliMockSettingsService) SetStoreBackend(backend domain.StoreBackend) error {
	if !backend.IsValid() {
		return domain.ErrInvalidInput
	}
	m.backend = backend
	m.settings.Store.Backend = backend
	return nil
}

func (m *cliMockSettingsService) Validate() error { return m.validateErr }
func (m *cliMockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }
func (m *cliMockSettingsService) GetPipelineConfig() domain.PipelineConfig {
	return domain.DefaultPipelineConfig()
}

var errCLIMock = errors.New("mock failure")

// setupTestServices installs fresh mocks and returns a cleanup func that
// restores the previous services.
func setupTestServices() (*cliMockIngestService, *cliMockUnitService, *cliMockSettingsService, func()) {
	oldIngest, oldUnit, oldSettings := ingestService, unitService, settingsService

	ingest := &cliMockIngestService{report: &domain.IngestReport{
		JobID:      "job-1",
		Collection: domain.DefaultCollection,
		Mode:       domain.ModeDigital,
		Units:      []domain.LegalUnit{{LawNumber: 1}, {LawNumber: 2}},
		Decisions: []domain.Decision{
			{LawNumber: 1, Action: domain.ActionInsert},
			{LawNumber: 2, Action: domain.ActionSkip, Similarity: 0.97},
		},
		Results: []domain.UnitResult{
			{LawNumber: 1, Action: domain.ActionInsert, Status: domain.StatusApplied},
			{LawNumber: 2, Action: domain.ActionSkip, Status: domain.StatusSkipped},
		},
	}}
	units := &cliMockUnitService{}
	settings := &cliMockSettingsService{settings: domain.DefaultAppSettings()}

	ingestService, unitService, settingsService = ingest, units, settings

	return ingest, units, settings, func() {
		ingestService, unitService, settingsService = oldIngest, oldUnit, oldSettings
	}
}
