package poppler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/phapdien/internal/core/domain"
)

// --- Mock implementations ---

// popplerMockRunner records the last call and, for pdftoppm, writes the
// requested pages next to the output prefix.
type popplerMockRunner struct {
	name   string
	args   []string
	output []byte
	err    error
	pages  []int
}

func (m *popplerMockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	m.name = name
	m.args = args
	if m.err != nil {
		return nil, m.err
	}
	if name == RenderTool {
		prefix := args[len(args)-1]
		for _, p := range m.pages {
			if err := os.WriteFile(fmt.Sprintf("%s-%02d.jpg", prefix, p), []byte("jpeg"), 0600); err != nil {
				return nil, err
			}
		}
	}
	return m.output, nil
}

// --- Extractor ---

func TestExtractText_WholeDocument(t *testing.T) {
	runner := &popplerMockRunner{output: []byte("Điều 1. Phạm vi\n")}

	text, err := NewExtractorWithRunner(runner).ExtractText(context.Background(), "/tmp/doc.pdf", nil)
	require.NoError(t, err)

	assert.Equal(t, "Điều 1. Phạm vi\n", text)
	assert.Equal(t, TextTool, runner.name)
	assert.Equal(t, []string{"-enc", "UTF-8", "/tmp/doc.pdf", "-"}, runner.args)
}

func TestExtractText_Window(t *testing.T) {
	runner := &popplerMockRunner{}

	_, err := NewExtractorWithRunner(runner).ExtractText(context.Background(), "doc.pdf", &domain.PageWindow{Start: 3, End: 7})
	require.NoError(t, err)

	assert.Equal(t, []string{"-enc", "UTF-8", "-f", "3", "-l", "7", "doc.pdf", "-"}, runner.args)
}

func TestExtractText_InvalidWindow(t *testing.T) {
	runner := &popplerMockRunner{}

	_, err := NewExtractorWithRunner(runner).ExtractText(context.Background(), "doc.pdf", &domain.PageWindow{Start: 5, End: 2})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, runner.name)
}

func TestExtractText_RunnerError(t *testing.T) {
	runner := &popplerMockRunner{err: errors.New("pdftotext failed: exit status 1")}

	_, err := NewExtractorWithRunner(runner).ExtractText(context.Background(), "doc.pdf", nil)
	assert.ErrorContains(t, err, "pdftotext failed")
}

// --- Renderer ---

func TestRenderPages_SortedByPage(t *testing.T) {
	dir := t.TempDir()
	runner := &popplerMockRunner{pages: []int{10, 9, 11}}

	pages, err := NewRendererWithRunner(runner).RenderPages(context.Background(), "doc.pdf",
		&domain.PageWindow{Start: 9, End: 11}, 500, dir)
	require.NoError(t, err)

	require.Len(t, pages, 3)
	assert.Equal(t, []int{9, 10, 11}, []int{pages[0].Page, pages[1].Page, pages[2].Page})
	assert.Equal(t, filepath.Join(dir, "page-09.jpg"), pages[0].Path)
	assert.Equal(t, RenderTool, runner.name)
	assert.Equal(t, []string{"-r", "500", "-jpeg", "-f", "9", "-l", "11", "doc.pdf", filepath.Join(dir, "page")}, runner.args)
}

func TestRenderPages_CreatesOutDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pages")
	runner := &popplerMockRunner{pages: []int{1}}

	pages, err := NewRendererWithRunner(runner).RenderPages(context.Background(), "doc.pdf", nil, 300, dir)
	require.NoError(t, err)

	require.Len(t, pages, 1)
	assert.Equal(t, []string{"-r", "300", "-jpeg", "doc.pdf", filepath.Join(dir, "page")}, runner.args)
}

func TestRenderPages_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "source.pdf"), nil, 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page-x.jpg"), nil, 0600))
	runner := &popplerMockRunner{pages: []int{2}}

	pages, err := NewRendererWithRunner(runner).RenderPages(context.Background(), "doc.pdf", nil, 500, dir)
	require.NoError(t, err)
	assert.Equal(t, []domain.PageImage{{Page: 2, Path: filepath.Join(dir, "page-02.jpg")}}, pages)
}

func TestRenderPages_InvalidInput(t *testing.T) {
	r := NewRendererWithRunner(&popplerMockRunner{})

	_, err := r.RenderPages(context.Background(), "doc.pdf", nil, 0, t.TempDir())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = r.RenderPages(context.Background(), "doc.pdf", &domain.PageWindow{Start: 0, End: 1}, 500, t.TempDir())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRenderPages_RunnerError(t *testing.T) {
	runner := &popplerMockRunner{err: errors.New("boom")}

	_, err := NewRendererWithRunner(runner).RenderPages(context.Background(), "doc.pdf", nil, 500, t.TempDir())
	assert.ErrorContains(t, err, "boom")
}

func TestPageNumber(t *testing.T) {
	tests := []struct {
		name string
		want int
		ok   bool
	}{
		{"page-1.jpg", 1, true},
		{"page-007.jpg", 7, true},
		{"page-0.jpg", 0, false},
		{"page-1.png", 0, false},
		{"cover-1.jpg", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := pageNumber(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, n)
		})
	}
}

// --- Runner ---

func TestExecRunner_MissingTool(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), "phapdien-no-such-tool")
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftoppm")
	assert.Contains(t, instructions, "brew install poppler")
	assert.Contains(t, instructions, "apt install poppler-utils")
	assert.Contains(t, instructions, "tesseract-ocr-vie")
}

// Integration test - only runs if poppler is available.
func TestExtractText_Integration(t *testing.T) {
	if err := CheckAvailable(); err != nil {
		t.Skip("poppler not available, skipping integration test")
	}

	_, err := NewExtractor().ExtractText(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"), nil)
	assert.ErrorContains(t, err, "pdftotext failed")
}
