package poppler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/phapdien/internal/core/domain"
	"github.com/custodia-labs/phapdien/internal/core/ports/driven"
)

// Ensure Renderer implements the interface.
var _ driven.PageRenderer = (*Renderer)(nil)

// pagePrefix names rendered files: page-1.jpg, page-01.jpg, ... depending on
// the document's page count.
const pagePrefix = "page"

// Renderer rasterises pages to JPEG with pdftoppm.
type Renderer struct {
	runner CommandRunner
}

// NewRenderer creates a renderer that shells out to pdftoppm.
func NewRenderer() *Renderer {
	return NewRendererWithRunner(ExecRunner{})
}

// NewRendererWithRunner creates a renderer with a custom runner.
func NewRendererWithRunner(runner CommandRunner) *Renderer {
	return &Renderer{runner: runner}
}

// RenderPages writes one JPEG per page into outDir and returns them by page number.
func (r *Renderer) RenderPages(ctx context.Context, pdfPath string, window *domain.PageWindow, dpi int, outDir string) ([]domain.PageImage, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	if dpi <= 0 {
		return nil, fmt.Errorf("%w: dpi %d", domain.ErrInvalidInput, dpi)
	}
	if err := os.MkdirAll(outDir, 0700); err != nil {
		return nil, fmt.Errorf("creating page directory: %w", err)
	}

	args := []string{"-r", strconv.Itoa(dpi), "-jpeg"}
	if window != nil {
		args = append(args, windowArgs(window.Start, window.End)...)
	}
	args = append(args, pdfPath, filepath.Join(outDir, pagePrefix))

	if _, err := r.runner.Run(ctx, RenderTool, args...); err != nil {
		return nil, fmt.Errorf("render %s: %w", window, err)
	}
	return listPages(outDir)
}

// listPages collects page-N.jpg files from dir sorted by N.
func listPages(dir string) ([]domain.PageImage, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}

	var pages []domain.PageImage
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		n, ok := pageNumber(entry.Name())
		if !ok {
			continue
		}
		pages = append(pages, domain.PageImage{Page: n, Path: filepath.Join(dir, entry.Name())})
	}
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].Page < pages[j].Page
	})
	return pages, nil
}

// pageNumber parses N from "page-N.jpg".
func pageNumber(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, pagePrefix+"-")
	if !ok {
		return 0, false
	}
	digits, ok := strings.CutSuffix(rest, ".jpg")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
