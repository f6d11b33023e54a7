package driven

import (
	"context"

	"github.com/custodia-labs/phapdien/internal/core/domain"
)

// UnitStore persists legal units and their embeddings per collection.
// Units are keyed by law number; a store may hold several objects under
// one key, and DeleteByKey removes all of them.
type UnitStore interface {
	// Upsert writes units with their vectors. units and vectors must have
	// the same length.
	Upsert(ctx context.Context, collection string, units []domain.LegalUnit, vectors [][]float32) error

	// Replace swaps every stored object under unit.LawNumber for unit.
	// Implementations guarantee the key is never left empty: either the
	// delete and insert commit together, or the new object is written
	// before the old ones are removed.
	Replace(ctx context.Context, collection string, unit domain.LegalUnit, vector []float32) error

	// DeleteByKey removes every object stored under lawNumber.
	DeleteByKey(ctx context.Context, collection string, lawNumber int) error

	// QueryNearest returns up to limit units ordered by similarity to vector.
	QueryNearest(ctx context.Context, collection string, vector []float32, limit int) ([]domain.UnitHit, error)

	// Snapshot returns the stored text for the given keys. Keys with no
	// stored object are absent from the result. A nil keys slice returns
	// the whole collection.
	Snapshot(ctx context.Context, collection string, keys []int) (domain.CorpusSnapshot, error)

	// Close releases resources.
	Close() error
}
