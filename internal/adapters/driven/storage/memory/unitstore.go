package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/phapdien/internal/core/domain"
	"github.com/custodia-labs/phapdien/internal/core/ports/driven"
)

// Ensure UnitStore implements the interface.
var _ driven.UnitStore = (*UnitStore)(nil)

type unitEntry struct {
	id     string
	text   string
	vector []float32
}

// UnitStore is an in-memory implementation of driven.UnitStore.
// Objects under a key are kept in write order; the last one is current.
type UnitStore struct {
	mu          sync.RWMutex
	collections map[string]map[int][]unitEntry
}

// NewUnitStore creates a new in-memory unit store.
func NewUnitStore() *UnitStore {
	return &UnitStore{
		collections: make(map[string]map[int][]unitEntry),
	}
}

// Upsert adds one object per unit under its law number.
func (s *UnitStore) Upsert(_ context.Context, collection string, units []domain.LegalUnit, vectors [][]float32) error {
	if len(units) != len(vectors) {
		return fmt.Errorf("%w: %d units, %d vectors", domain.ErrInvalidInput, len(units), len(vectors))
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := s.collection(collection)
	for i, unit := range units {
		keys[unit.LawNumber] = append(keys[unit.LawNumber], newEntry(unit, vectors[i]))
	}
	return nil
}

// Replace swaps every object under the unit's key for a single new one.
// The swap happens under the write lock so readers never see an empty key.
func (s *UnitStore) Replace(_ context.Context, collection string, unit domain.LegalUnit, vector []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collection(collection)[unit.LawNumber] = []unitEntry{newEntry(unit, vector)}
	return nil
}

// DeleteByKey removes every object under lawNumber.
func (s *UnitStore) DeleteByKey(_ context.Context, collection string, lawNumber int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keys, ok := s.collections[collection]; ok {
		delete(keys, lawNumber)
	}
	return nil
}

// QueryNearest scores every stored object by cosine similarity.
func (s *UnitStore) QueryNearest(
	_ context.Context,
	collection string,
	vector []float32,
	limit int,
) ([]domain.UnitHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hits []domain.UnitHit
	for lawNumber, entries := range s.collections[collection] {
		for _, e := range entries {
			hits = append(hits, domain.UnitHit{
				StoredUnit: domain.StoredUnit{ID: e.id, LawNumber: lawNumber, Text: e.text},
				Score:      cosineSimilarity(vector, e.vector),
			})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].LawNumber < hits[j].LawNumber
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Snapshot returns the current text for each requested key.
func (s *UnitStore) Snapshot(_ context.Context, collection string, keys []int) (domain.CorpusSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.collections[collection]
	snapshot := make(domain.CorpusSnapshot)
	if keys == nil {
		for lawNumber, entries := range stored {
			if len(entries) > 0 {
				snapshot[lawNumber] = entries[len(entries)-1].text
			}
		}
		return snapshot, nil
	}
	for _, lawNumber := range keys {
		if entries := stored[lawNumber]; len(entries) > 0 {
			snapshot[lawNumber] = entries[len(entries)-1].text
		}
	}
	return snapshot, nil
}

// Count returns the number of objects stored under lawNumber.
func (s *UnitStore) Count(collection string, lawNumber int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection][lawNumber])
}

// Close is a no-op for the memory store.
func (s *UnitStore) Close() error {
	return nil
}

// collection returns the key map for name, creating it. Caller holds the write lock.
func (s *UnitStore) collection(name string) map[int][]unitEntry {
	keys, ok := s.collections[name]
	if !ok {
		keys = make(map[int][]unitEntry)
		s.collections[name] = keys
	}
	return keys
}

func newEntry(unit domain.LegalUnit, vector []float32) unitEntry {
	v := make([]float32, len(vector))
	copy(v, vector)
	return unitEntry{id: uuid.NewString(), text: unit.Text(), vector: v}
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
