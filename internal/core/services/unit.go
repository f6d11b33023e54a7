package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/phapdien/internal/core/domain"
	"github.com/custodia-labs/phapdien/internal/core/ports/driven"
	"github.com/custodia-labs/phapdien/internal/core/ports/driving"
)

// Ensure UnitService implements the interface.
var _ driving.UnitService = (*UnitService)(nil)

// defaultNearestLimit is used when a caller asks for zero results.
const defaultNearestLimit = 5

// UnitService reads and removes stored units.
type UnitService struct {
	store    driven.UnitStore
	embedder driven.EmbeddingService
	locks    *KeyLock
}

// NewUnitService creates a unit service. embedder may be nil, in which
// case Nearest returns ErrEmbeddingUnavailable. locks may be shared with
// an IngestService so deletes never interleave with an ingestion.
func NewUnitService(store driven.UnitStore, embedder driven.EmbeddingService, locks *KeyLock) *UnitService {
	if locks == nil {
		locks = NewKeyLock()
	}
	return &UnitService{
		store:    store,
		embedder: embedder,
		locks:    locks,
	}
}

// List returns every stored unit in the collection.
func (s *UnitService) List(ctx context.Context, collection string) (domain.CorpusSnapshot, error) {
	snapshot, err := s.store.Snapshot(ctx, collection, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
	}
	return snapshot, nil
}

// Nearest embeds query and returns up to limit of the closest units.
func (s *UnitService) Nearest(ctx context.Context, collection, query string, limit int) ([]domain.UnitHit, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if limit <= 0 {
		limit = defaultNearestLimit
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingFailure, err)
	}
	hits, err := s.store.QueryNearest(ctx, collection, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
	}
	return hits, nil
}

// Delete removes every object stored under lawNumber.
func (s *UnitService) Delete(ctx context.Context, collection string, lawNumber int) error {
	if lawNumber <= 0 {
		return fmt.Errorf("%w: law number %d", domain.ErrInvalidInput, lawNumber)
	}
	unlock := s.locks.Lock(collection, []int{lawNumber})
	defer unlock()

	if err := s.store.DeleteByKey(ctx, collection, lawNumber); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
	}
	return nil
}
