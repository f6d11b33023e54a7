package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/phapdien/internal/core/domain"
	"github.com/custodia-labs/phapdien/internal/core/ports/driven"
	"github.com/custodia-labs/phapdien/internal/core/ports/driving"
	"github.com/custodia-labs/phapdien/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// PipelineFactory builds the post-processor pipeline for one ingestion.
// minWord is the length threshold to apply.
type PipelineFactory func(minWord int) (driven.PostProcessorPipeline, error)

// IngestService runs documents through acquisition, the post-processor
// pipeline and reconciliation.
type IngestService struct {
	acquirer    *Acquirer
	newPipeline PipelineFactory
	engine      *ReconciliationEngine
	store       driven.UnitStore
	jobs        driven.JobStore
	locks       *KeyLock

	collection string
	minWord    int
}

// IngestOption configures an IngestService.
type IngestOption func(*IngestService)

// WithDefaultCollection sets the collection used when a request names none.
func WithDefaultCollection(collection string) IngestOption {
	return func(s *IngestService) {
		if collection != "" {
			s.collection = collection
		}
	}
}

// WithDefaultMinWord sets the length threshold used when a request gives none.
func WithDefaultMinWord(minWord int) IngestOption {
	return func(s *IngestService) {
		if minWord > 0 {
			s.minWord = minWord
		}
	}
}

// WithKeyLock shares a key lock between services writing the same store.
func WithKeyLock(locks *KeyLock) IngestOption {
	return func(s *IngestService) {
		if locks != nil {
			s.locks = locks
		}
	}
}

// WithJobStore records every Ingest run in jobs.
func WithJobStore(jobs driven.JobStore) IngestOption {
	return func(s *IngestService) {
		s.jobs = jobs
	}
}

// NewIngestService creates an ingestion service.
func NewIngestService(
	acquirer *Acquirer,
	newPipeline PipelineFactory,
	engine *ReconciliationEngine,
	store driven.UnitStore,
	opts ...IngestOption,
) *IngestService {
	s := &IngestService{
		acquirer:    acquirer,
		newPipeline: newPipeline,
		engine:      engine,
		store:       store,
		locks:       NewKeyLock(),
		collection:  domain.DefaultCollection,
		minWord:     domain.DefaultMinWord,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest acquires the document, derives its units, reconciles them against
// the store and applies the decisions. When applying fails part way the
// report is still returned with per-unit results.
func (s *IngestService) Ingest(ctx context.Context, req driving.IngestRequest) (*domain.IngestReport, error) {
	started := time.Now()
	report, err := s.run(ctx, req, true)
	s.recordJob(ctx, report, started, err)

	if err != nil && report.Results == nil {
		return nil, err
	}
	return report, err
}

// Plan does everything Ingest does except write to the store.
func (s *IngestService) Plan(ctx context.Context, req driving.IngestRequest) (*domain.IngestReport, error) {
	report, err := s.run(ctx, req, false)
	if err != nil {
		return nil, err
	}
	return report, nil
}

// History returns past runs, most recent first.
func (s *IngestService) History(ctx context.Context, limit int) ([]domain.JobRecord, error) {
	if s.jobs == nil {
		return nil, nil
	}
	jobs, err := s.jobs.ListJobs(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

func (s *IngestService) recordJob(ctx context.Context, report *domain.IngestReport, started time.Time, runErr error) {
	if s.jobs == nil {
		return
	}
	rec := domain.NewJobRecord(report, started, time.Now(), runErr)
	// Recorded even when ctx was cancelled mid-run.
	if err := s.jobs.SaveJob(context.WithoutCancel(ctx), rec); err != nil {
		logger.Warn("failed to record job %s: %v", rec.ID, err)
	}
}

// run always returns a non-nil report describing how far the run got.
func (s *IngestService) run(ctx context.Context, req driving.IngestRequest, apply bool) (*domain.IngestReport, error) {
	collection := req.Collection
	if collection == "" {
		collection = s.collection
	}
	minWord := req.MinWord
	if minWord <= 0 {
		minWord = s.minWord
	}

	report := &domain.IngestReport{
		JobID:      uuid.NewString(),
		Document:   req.Document.Name,
		Collection: collection,
		Mode:       req.Document.Hint,
	}
	logger.Section("Ingest " + req.Document.Name)
	logger.Debug("job %s, collection %s, min_word %d", report.JobID, collection, minWord)

	text, mode, err := s.acquirer.Acquire(ctx, req.Document)
	report.Mode = mode
	if err != nil {
		return report, fmt.Errorf("acquire %s: %w", req.Document.Name, err)
	}

	pipeline, err := s.newPipeline(minWord)
	if err != nil {
		return report, fmt.Errorf("build pipeline: %w", err)
	}
	units, err := pipeline.Process(ctx, text)
	if err != nil {
		return report, fmt.Errorf("process %s: %w", req.Document.Name, err)
	}
	report.Units = units
	if len(units) == 0 {
		logger.Info("%s: no article reached %d words", req.Document.Name, minWord)
		return report, nil
	}

	keys := make([]int, len(units))
	for i, u := range units {
		keys[i] = u.LawNumber
	}

	unlock := s.locks.Lock(collection, keys)
	defer unlock()

	existing, err := s.store.Snapshot(ctx, collection, keys)
	if err != nil {
		return report, fmt.Errorf("%w: snapshot: %w", domain.ErrStoreFailure, err)
	}

	report.Decisions = s.engine.Plan(units, existing)
	logger.Info("%s: %d insert, %d update, %d skip",
		req.Document.Name,
		report.Count(domain.ActionInsert),
		report.Count(domain.ActionUpdate),
		report.Count(domain.ActionSkip))

	if !apply {
		return report, nil
	}

	results, err := s.engine.Apply(ctx, collection, report.Decisions)
	report.Results = results
	return report, err
}
