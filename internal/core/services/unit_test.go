package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/phapdien/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/phapdien/internal/core/domain"
)

func seededUnitStore(t *testing.T) *memory.UnitStore {
	t.Helper()
	store := memory.NewUnitStore()
	require.NoError(t, store.Upsert(context.Background(), "c",
		[]domain.LegalUnit{normUnit(1, "ab"), normUnit(2, "abcdef")},
		[][]float32{{2, 1}, {6, 1}}))
	return store
}

func TestUnitService_List(t *testing.T) {
	service := NewUnitService(seededUnitStore(t), nil, nil)

	snap, err := service.List(context.Background(), "c")

	require.NoError(t, err)
	assert.Equal(t, domain.CorpusSnapshot{1: "ab", 2: "abcdef"}, snap)
}

func TestUnitService_Nearest(t *testing.T) {
	service := NewUnitService(seededUnitStore(t), newMockEmbedder(), nil)

	hits, err := service.Nearest(context.Background(), "c", "abcdef", 1)

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 2, hits[0].LawNumber)
}

func TestUnitService_Nearest_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewUnitService(seededUnitStore(t), nil, nil).Nearest(ctx, "c", "q", 1)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	_, err = NewUnitService(seededUnitStore(t), newMockEmbedder(), nil).Nearest(ctx, "c", "", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewUnitService(seededUnitStore(t), newMockEmbedder("q"), nil).Nearest(ctx, "c", "q", 1)
	assert.ErrorIs(t, err, domain.ErrEmbeddingFailure)
}

func TestUnitService_Delete(t *testing.T) {
	store := seededUnitStore(t)
	service := NewUnitService(store, nil, NewKeyLock())
	ctx := context.Background()

	require.NoError(t, service.Delete(ctx, "c", 1))
	assert.ErrorIs(t, service.Delete(ctx, "c", 0), domain.ErrInvalidInput)

	snap, _ := store.Snapshot(ctx, "c", nil)
	assert.Equal(t, []int{2}, snap.Keys())
}
