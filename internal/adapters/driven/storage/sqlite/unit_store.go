package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/phapdien/internal/core/domain"
	"github.com/custodia-labs/phapdien/internal/core/ports/driven"
)

// unitStore implements driven.UnitStore.
type unitStore struct {
	store *Store
}

var _ driven.UnitStore = (*unitStore)(nil)

const insertUnitSQL = `
	INSERT INTO units (id, collection, law_number, content, embedding, dimensions, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
`

// Upsert writes one new row per unit in a single transaction.
func (s *unitStore) Upsert(ctx context.Context, collection string, units []domain.LegalUnit, vectors [][]float32) error {
	if len(units) != len(vectors) {
		return fmt.Errorf("%w: %d units, %d vectors", domain.ErrInvalidInput, len(units), len(vectors))
	}
	if len(units) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, insertUnitSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i, unit := range units {
		if _, err := stmt.ExecContext(ctx, uuid.NewString(), collection, unit.LawNumber, unit.Text(),
			float32SliceToBytes(vectors[i]), len(vectors[i]), now); err != nil {
			return fmt.Errorf("saving unit %d: %w", unit.LawNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Replace deletes every row under the key and inserts the new one in the
// same transaction, so readers see either the old rows or the new one.
func (s *unitStore) Replace(ctx context.Context, collection string, unit domain.LegalUnit, vector []float32) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM units WHERE collection = ? AND law_number = ?", collection, unit.LawNumber); err != nil {
		return fmt.Errorf("deleting unit %d: %w", unit.LawNumber, err)
	}
	if _, err := tx.ExecContext(ctx, insertUnitSQL, uuid.NewString(), collection, unit.LawNumber, unit.Text(),
		float32SliceToBytes(vector), len(vector), time.Now().UTC()); err != nil {
		return fmt.Errorf("saving unit %d: %w", unit.LawNumber, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// DeleteByKey removes every row under lawNumber.
func (s *unitStore) DeleteByKey(ctx context.Context, collection string, lawNumber int) error {
	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM units WHERE collection = ? AND law_number = ?", collection, lawNumber)
	if err != nil {
		return fmt.Errorf("deleting unit %d: %w", lawNumber, err)
	}
	return nil
}

// QueryNearest scores every row of the collection by cosine similarity.
// Rows whose dimensions differ from the query are ignored.
func (s *unitStore) QueryNearest(
	ctx context.Context,
	collection string,
	vector []float32,
	limit int,
) ([]domain.UnitHit, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, law_number, content, embedding
		FROM units WHERE collection = ? AND dimensions = ?
	`, collection, len(vector))
	if err != nil {
		return nil, fmt.Errorf("querying units: %w", err)
	}
	defer rows.Close()

	var hits []domain.UnitHit //nolint:prealloc // size unknown from query
	for rows.Next() {
		var hit domain.UnitHit
		var blob []byte
		if err := rows.Scan(&hit.ID, &hit.LawNumber, &hit.Text, &blob); err != nil {
			return nil, fmt.Errorf("scanning unit: %w", err)
		}
		hit.Score = cosineSimilarity(vector, bytesToFloat32Slice(blob))
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating units: %w", err)
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

// Snapshot returns the most recently written text for each key.
func (s *unitStore) Snapshot(ctx context.Context, collection string, keys []int) (domain.CorpusSnapshot, error) {
	snapshot := make(domain.CorpusSnapshot)
	if keys != nil && len(keys) == 0 {
		return snapshot, nil
	}

	query := "SELECT law_number, content FROM units WHERE collection = ?"
	args := []any{collection}
	if keys != nil {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
		query += " AND law_number IN (" + placeholders + ")"
		for _, k := range keys {
			args = append(args, k)
		}
	}
	// rowid follows insertion order, so the last row per key wins.
	query += " ORDER BY law_number, rowid"

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var lawNumber int
		var content string
		if err := rows.Scan(&lawNumber, &content); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		snapshot[lawNumber] = content
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshot: %w", err)
	}
	return snapshot, nil
}

// Close closes the underlying database.
func (s *unitStore) Close() error {
	return s.store.Close()
}

// countKey returns the number of rows under a key.
func (s *unitStore) countKey(ctx context.Context, collection string, lawNumber int) (int, error) {
	var n int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM units WHERE collection = ? AND law_number = ?", collection, lawNumber).Scan(&n)
	if err != nil && err != sql.ErrNoRows {
		return 0, err
	}
	return n, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
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
