package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/phapdien/internal/core/domain"
	"github.com/custodia-labs/phapdien/internal/core/ports/driven"
)

// --- Mock implementations shared by service tests ---

var errMock = errors.New("mock failure")

// mockEmbedder returns a two-dimensional vector derived from the text.
// Texts listed in failOn return errMock.
type mockEmbedder struct {
	mu     sync.Mutex
	failOn map[string]bool
	calls  []string
}

func newMockEmbedder(failOn ...string) *mockEmbedder {
	m := &mockEmbedder{failOn: make(map[string]bool)}
	for _, text := range failOn {
		m.failOn[text] = true
	}
	return m
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, text)
	if m.failOn[text] {
		return nil, errMock
	}
	return []float32{float32(len(text)), 1}, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int { return 2 }
func (m *mockEmbedder) ModelName() string { return "mock" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error { return nil }

func (m *mockEmbedder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

var _ driven.EmbeddingService = (*mockEmbedder)(nil)

// failingUnitStore wraps a store and fails writes for chosen law numbers.
type failingUnitStore struct {
	driven.UnitStore
	failOn      map[int]bool
	snapshotErr error
}

func (s *failingUnitStore) Upsert(ctx context.Context, collection string, units []domain.LegalUnit, vectors [][]float32) error {
	for _, u := range units {
		if s.failOn[u.LawNumber] {
			return errMock
		}
	}
	return s.UnitStore.Upsert(ctx, collection, units, vectors)
}

func (s *failingUnitStore) Replace(ctx context.Context, collection string, unit domain.LegalUnit, vector []float32) error {
	if s.failOn[unit.LawNumber] {
		return errMock
	}
	return s.UnitStore.Replace(ctx, collection, unit, vector)
}

func (s *failingUnitStore) Snapshot(ctx context.Context, collection string, keys []int) (domain.CorpusSnapshot, error) {
	if s.snapshotErr != nil {
		return nil, s.snapshotErr
	}
	return s.UnitStore.Snapshot(ctx, collection, keys)
}

// mockExtractor returns whole-document text, or per-window text when set.
type mockExtractor struct {
	whole    string
	windowed string
	err      error
	windows  []*domain.PageWindow
	paths    []string
}

func (m *mockExtractor) ExtractText(_ context.Context, pdfPath string, window *domain.PageWindow) (string, error) {
	m.paths = append(m.paths, pdfPath)
	m.windows = append(m.windows, window)
	if m.err != nil {
		return "", m.err
	}
	if window != nil && m.windowed != "" {
		return m.windowed, nil
	}
	return m.whole, nil
}

// mockRenderer writes one placeholder image per page into outDir.
type mockRenderer struct {
	pages   int
	err     error
	gotDPI  int
	gotDir  string
	gotPath string
}

func (m *mockRenderer) RenderPages(
	_ context.Context,
	pdfPath string,
	window *domain.PageWindow,
	dpi int,
	outDir string,
) ([]domain.PageImage, error) {
	m.gotDPI, m.gotDir, m.gotPath = dpi, outDir, pdfPath
	if m.err != nil {
		return nil, m.err
	}
	first, last := 1, m.pages
	if window != nil {
		first, last = window.Start, window.End
	}
	var images []domain.PageImage
	for p := first; p <= last; p++ {
		path := filepath.Join(outDir, fmt.Sprintf("page-%d.jpg", p))
		if err := os.WriteFile(path, []byte("img"), 0o600); err != nil {
			return nil, err
		}
		images = append(images, domain.PageImage{Page: p, Path: path})
	}
	return images, nil
}

// mockOCR returns "page N" for each page, or a configured text per page.
type mockOCR struct {
	texts    map[int]string
	failPage int

	mu       sync.Mutex
	opts     []domain.OCROptions
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (m *mockOCR) Recognize(_ context.Context, page domain.PageImage, opts domain.OCROptions) (string, error) {
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		p := m.peak.Load()
		if n <= p || m.peak.CompareAndSwap(p, n) {
			break
		}
	}

	m.mu.Lock()
	m.opts = append(m.opts, opts)
	m.mu.Unlock()

	if page.Page == m.failPage {
		return "", errMock
	}
	if text, ok := m.texts[page.Page]; ok {
		return text, nil
	}
	return fmt.Sprintf("page %d", page.Page), nil
}

// article builds "Điều n." followed by words filler words.
func article(n, words int, filler string) string {
	parts := make([]string, words)
	for i := range parts {
		parts[i] = filler
	}
	return fmt.Sprintf("Điều %d. %s", n, strings.Join(parts, " "))
}
