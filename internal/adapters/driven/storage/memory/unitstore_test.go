package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/phapdien/internal/core/domain"
)

func unit(n int, text string) domain.LegalUnit {
	return domain.LegalUnit{LawNumber: n, NormalizedText: text}
}

func TestUnitStore_UpsertAndSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewUnitStore()

	err := store.Upsert(ctx, "c", []domain.LegalUnit{unit(1, "one"), unit(2, "two")},
		[][]float32{{1, 0}, {0, 1}})
	require.NoError(t, err)

	snap, err := store.Snapshot(ctx, "c", []int{1, 3})
	require.NoError(t, err)
	assert.Equal(t, domain.CorpusSnapshot{1: "one"}, snap)

	all, err := store.Snapshot(ctx, "c", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.CorpusSnapshot{1: "one", 2: "two"}, all)
}

func TestUnitStore_Upsert_LengthMismatch(t *testing.T) {
	err := NewUnitStore().Upsert(context.Background(), "c", []domain.LegalUnit{unit(1, "x")}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUnitStore_Replace_CollapsesKey(t *testing.T) {
	ctx := context.Background()
	store := NewUnitStore()
	require.NoError(t, store.Upsert(ctx, "c", []domain.LegalUnit{unit(1, "a")}, [][]float32{{1}}))
	require.NoError(t, store.Upsert(ctx, "c", []domain.LegalUnit{unit(1, "b")}, [][]float32{{1}}))
	assert.Equal(t, 2, store.Count("c", 1))

	require.NoError(t, store.Replace(ctx, "c", unit(1, "c"), []float32{1}))

	assert.Equal(t, 1, store.Count("c", 1))
	snap, err := store.Snapshot(ctx, "c", []int{1})
	require.NoError(t, err)
	assert.Equal(t, "c", snap[1])
}

func TestUnitStore_DeleteByKey(t *testing.T) {
	ctx := context.Background()
	store := NewUnitStore()
	require.NoError(t, store.Upsert(ctx, "c", []domain.LegalUnit{unit(1, "a"), unit(2, "b")},
		[][]float32{{1}, {1}}))

	require.NoError(t, store.DeleteByKey(ctx, "c", 1))
	require.NoError(t, store.DeleteByKey(ctx, "missing", 1))

	snap, err := store.Snapshot(ctx, "c", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.CorpusSnapshot{2: "b"}, snap)
}

func TestUnitStore_CollectionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewUnitStore()
	require.NoError(t, store.Upsert(ctx, "a", []domain.LegalUnit{unit(1, "x")}, [][]float32{{1}}))

	snap, err := store.Snapshot(ctx, "b", []int{1})
	require.NoError(t, err)
	assert.Empty(t, snap)
}

func TestUnitStore_QueryNearest(t *testing.T) {
	ctx := context.Background()
	store := NewUnitStore()
	require.NoError(t, store.Upsert(ctx, "c",
		[]domain.LegalUnit{unit(1, "east"), unit(2, "north"), unit(3, "northeast")},
		[][]float32{{1, 0}, {0, 1}, {1, 1}}))

	hits, err := store.QueryNearest(ctx, "c", []float32{0, 2}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, 2, hits[0].LawNumber)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
	assert.Equal(t, 3, hits[1].LawNumber)
	assert.NotEmpty(t, hits[0].ID)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Zero(t, cosineSimilarity([]float32{1}, []float32{1, 2}))
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 2}))
}
