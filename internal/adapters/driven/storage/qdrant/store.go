// Package qdrant provides a UnitStore backed by a Qdrant server over its REST API.
//
// Each stored object is a point with a random UUID and the payload
// {"law_number": N, "text": "...", "written_at": unix-micros}. Collections are
// created on first write with cosine distance and an integer index on law_number.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/phapdien/internal/core/domain"
	"github.com/custodia-labs/phapdien/internal/core/ports/driven"
)

// Ensure UnitStore implements the interface.
var _ driven.UnitStore = (*UnitStore)(nil)

const (
	defaultTimeout = 15 * time.Second
	scrollPageSize = 256

	payloadLawNumber = "law_number"
	payloadText      = "text"
	payloadWrittenAt = "written_at"
)

// Config configures the Qdrant client.
type Config struct {
	// URL is the REST endpoint, e.g. http://localhost:6333.
	URL string

	// APIKey is sent as the api-key header when set.
	APIKey string

	// Timeout bounds each HTTP request. Zero uses 15s.
	Timeout time.Duration

	// HTTPClient overrides the default client.
	HTTPClient *http.Client
}

// UnitStore is a minimal REST client to Qdrant implementing driven.UnitStore.
type UnitStore struct {
	baseURL string
	apiKey  string
	client  *http.Client

	mu        sync.Mutex
	ensured   map[string]bool
	now       func() time.Time
	lastStamp int64
}

// NewUnitStore creates a Qdrant-backed unit store.
func NewUnitStore(cfg Config) (*UnitStore, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: qdrant URL is required", domain.ErrInvalidInput)
	}
	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, fmt.Errorf("%w: qdrant URL: %w", domain.ErrInvalidInput, err)
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return &UnitStore{
		baseURL: strings.TrimSuffix(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		client:  client,
		ensured: make(map[string]bool),
		now:     time.Now,
	}, nil
}

type point struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

// Upsert writes one new point per unit.
func (s *UnitStore) Upsert(ctx context.Context, collection string, units []domain.LegalUnit, vectors [][]float32) error {
	if len(units) != len(vectors) {
		return fmt.Errorf("%w: %d units, %d vectors", domain.ErrInvalidInput, len(units), len(vectors))
	}
	if len(units) == 0 {
		return nil
	}
	if err := s.ensureCollection(ctx, collection, len(vectors[0])); err != nil {
		return err
	}

	points := make([]point, len(units))
	for i, unit := range units {
		points[i] = s.newPoint(unit, vectors[i])
	}
	return s.upsertPoints(ctx, collection, points)
}

// Replace writes the new point first and then deletes every other point
// under the key, so the key is never empty. If the delete fails the key
// holds both; Snapshot still reports the new text.
func (s *UnitStore) Replace(ctx context.Context, collection string, unit domain.LegalUnit, vector []float32) error {
	if err := s.ensureCollection(ctx, collection, len(vector)); err != nil {
		return err
	}

	p := s.newPoint(unit, vector)
	if err := s.upsertPoints(ctx, collection, []point{p}); err != nil {
		return err
	}

	f := keyFilter(unit.LawNumber)
	f["must_not"] = []any{map[string]any{"has_id": []string{p.ID}}}
	if err := s.deletePoints(ctx, collection, f); err != nil {
		return fmt.Errorf("removing previous points for %d: %w", unit.LawNumber, err)
	}
	return nil
}

// DeleteByKey removes every point under lawNumber. A missing collection is not an error.
func (s *UnitStore) DeleteByKey(ctx context.Context, collection string, lawNumber int) error {
	err := s.deletePoints(ctx, collection, keyFilter(lawNumber))
	if isNotFound(err) {
		return nil
	}
	return err
}

// QueryNearest runs a vector search. A missing collection returns no hits.
func (s *UnitStore) QueryNearest(
	ctx context.Context,
	collection string,
	vector []float32,
	limit int,
) ([]domain.UnitHit, error) {
	if limit <= 0 {
		limit = 5
	}
	body := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			ID      any            `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	err := s.do(ctx, http.MethodPost, collectionPath(collection, "points/search"), body, &resp)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	hits := make([]domain.UnitHit, 0, len(resp.Result))
	for _, r := range resp.Result {
		lawNumber, text, _ := decodePayload(r.Payload)
		hits = append(hits, domain.UnitHit{
			StoredUnit: domain.StoredUnit{ID: fmt.Sprint(r.ID), LawNumber: lawNumber, Text: text},
			Score:      r.Score,
		})
	}
	return hits, nil
}

// Snapshot scrolls the points under keys (or the whole collection when keys
// is nil) and keeps the most recently written text per key.
func (s *UnitStore) Snapshot(ctx context.Context, collection string, keys []int) (domain.CorpusSnapshot, error) {
	snapshot := make(domain.CorpusSnapshot)
	if keys != nil && len(keys) == 0 {
		return snapshot, nil
	}

	body := map[string]any{
		"limit":        scrollPageSize,
		"with_payload": true,
		"with_vector":  false,
	}
	if keys != nil {
		body["filter"] = map[string]any{
			"must": []any{map[string]any{
				"key":   payloadLawNumber,
				"match": map[string]any{"any": keys},
			}},
		}
	}

	latest := make(map[int]int64)
	for {
		var resp struct {
			Result struct {
				Points []struct {
					Payload map[string]any `json:"payload"`
				} `json:"points"`
				NextPageOffset any `json:"next_page_offset"`
			} `json:"result"`
		}
		err := s.do(ctx, http.MethodPost, collectionPath(collection, "points/scroll"), body, &resp)
		if isNotFound(err) {
			return snapshot, nil
		}
		if err != nil {
			return nil, err
		}

		for _, p := range resp.Result.Points {
			lawNumber, text, writtenAt := decodePayload(p.Payload)
			if prev, seen := latest[lawNumber]; seen && prev > writtenAt {
				continue
			}
			latest[lawNumber] = writtenAt
			snapshot[lawNumber] = text
		}

		if resp.Result.NextPageOffset == nil {
			return snapshot, nil
		}
		body["offset"] = resp.Result.NextPageOffset
	}
}

// Close releases idle connections.
func (s *UnitStore) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func (s *UnitStore) newPoint(unit domain.LegalUnit, vector []float32) point {
	return point{
		ID:     uuid.NewString(),
		Vector: vector,
		Payload: map[string]any{
			payloadLawNumber: unit.LawNumber,
			payloadText:      unit.Text(),
			payloadWrittenAt: s.nextStamp(),
		},
	}
}

// nextStamp returns a strictly increasing microsecond timestamp. Microseconds
// survive the float64 round trip through JSON payloads.
func (s *UnitStore) nextStamp() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp := s.now().UnixMicro()
	if stamp <= s.lastStamp {
		stamp = s.lastStamp + 1
	}
	s.lastStamp = stamp
	return stamp
}

// ensureCollection creates the collection and its law_number index once per process.
func (s *UnitStore) ensureCollection(ctx context.Context, collection string, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("%w: vector dimension %d", domain.ErrInvalidInput, dimensions)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ensured[collection] {
		return nil
	}

	err := s.do(ctx, http.MethodGet, collectionPath(collection, ""), nil, nil)
	switch {
	case err == nil:
	case isNotFound(err):
		create := map[string]any{
			"vectors": map[string]any{"size": dimensions, "distance": "Cosine"},
		}
		if err := s.do(ctx, http.MethodPut, collectionPath(collection, ""), create, nil); err != nil {
			return fmt.Errorf("creating collection %s: %w", collection, err)
		}
		index := map[string]any{"field_name": payloadLawNumber, "field_schema": "integer"}
		if err := s.do(ctx, http.MethodPut, collectionPath(collection, "index?wait=true"), index, nil); err != nil {
			return fmt.Errorf("indexing collection %s: %w", collection, err)
		}
	default:
		return fmt.Errorf("checking collection %s: %w", collection, err)
	}

	s.ensured[collection] = true
	return nil
}

func (s *UnitStore) upsertPoints(ctx context.Context, collection string, points []point) error {
	body := map[string]any{"points": points}
	if err := s.do(ctx, http.MethodPut, collectionPath(collection, "points?wait=true"), body, nil); err != nil {
		return fmt.Errorf("upserting points: %w", err)
	}
	return nil
}

func (s *UnitStore) deletePoints(ctx context.Context, collection string, filter map[string]any) error {
	body := map[string]any{"filter": filter}
	return s.do(ctx, http.MethodPost, collectionPath(collection, "points/delete?wait=true"), body, nil)
}

// statusError is a non-2xx response.
type statusError struct {
	method string
	path   string
	code   int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("qdrant %s %s: %d %s", e.method, e.path, e.code, e.body)
}

func isNotFound(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.code == http.StatusNotFound
}

func (s *UnitStore) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &statusError{method: method, path: path, code: resp.StatusCode, body: strings.TrimSpace(string(snippet))}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding qdrant response: %w", err)
		}
	}
	return nil
}

func collectionPath(collection, suffix string) string {
	p := "/collections/" + url.PathEscape(collection)
	if suffix != "" {
		p += "/" + suffix
	}
	return p
}

func keyFilter(lawNumber int) map[string]any {
	return map[string]any{
		"must": []any{map[string]any{
			"key":   payloadLawNumber,
			"match": map[string]any{"value": lawNumber},
		}},
	}
}

// decodePayload reads a point payload. JSON numbers arrive as float64.
func decodePayload(payload map[string]any) (lawNumber int, text string, writtenAt int64) {
	if v, ok := payload[payloadLawNumber].(float64); ok {
		lawNumber = int(v)
	}
	if v, ok := payload[payloadText].(string); ok {
		text = v
	}
	if v, ok := payload[payloadWrittenAt].(float64); ok {
		writtenAt = int64(v)
	}
	return lawNumber, text, writtenAt
}
