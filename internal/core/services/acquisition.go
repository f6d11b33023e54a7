package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/phapdien/internal/core/domain"
	"github.com/custodia-labs/phapdien/internal/core/ports/driven"
	"github.com/custodia-labs/phapdien/internal/logger"
)

// sourceFileName is the name the submitted PDF is written under inside a job directory.
const sourceFileName = "source.pdf"

// Acquirer turns a submitted PDF into plain text, either from its embedded
// text layer or by rendering and recognising each page.
type Acquirer struct {
	extractor driven.TextExtractor
	renderer  driven.PageRenderer
	ocr       driven.OCREngine

	language string
	dpi      int
	workers  int
	workDir  string
}

// AcquirerOption configures an Acquirer.
type AcquirerOption func(*Acquirer)

// WithOCRLanguage sets the OCR language code.
func WithOCRLanguage(language string) AcquirerOption {
	return func(a *Acquirer) {
		if language != "" {
			a.language = language
		}
	}
}

// WithDPI sets the render resolution for scanned pages.
func WithDPI(dpi int) AcquirerOption {
	return func(a *Acquirer) {
		if dpi > 0 {
			a.dpi = dpi
		}
	}
}

// WithOCRWorkers bounds how many pages are recognised at once.
func WithOCRWorkers(workers int) AcquirerOption {
	return func(a *Acquirer) {
		if workers > 0 {
			a.workers = workers
		}
	}
}

// WithWorkDir sets the parent directory for per-job scratch directories.
// Empty uses the system temporary directory.
func WithWorkDir(dir string) AcquirerOption {
	return func(a *Acquirer) {
		a.workDir = dir
	}
}

// NewAcquirer creates an acquirer. renderer and ocr may be nil when only
// digital documents are expected; scanned documents then fail with ErrOCRFailure.
func NewAcquirer(
	extractor driven.TextExtractor,
	renderer driven.PageRenderer,
	ocr driven.OCREngine,
	opts ...AcquirerOption,
) *Acquirer {
	a := &Acquirer{
		extractor: extractor,
		renderer:  renderer,
		ocr:       ocr,
		language:  domain.DefaultOCRLanguage,
		dpi:       domain.DefaultDPI,
		workers:   domain.DefaultOCRWorkers,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Acquire writes doc to a private job directory, picks the acquisition mode
// and returns the document text with the mode that produced it. The job
// directory is removed before Acquire returns, on every path.
func (a *Acquirer) Acquire(ctx context.Context, doc domain.SourceDocument) (string, domain.AcquisitionMode, error) {
	if len(doc.Content) == 0 {
		return "", doc.Hint, fmt.Errorf("%w: document %q is empty", domain.ErrInvalidInput, doc.Name)
	}
	if err := doc.Window.Validate(); err != nil {
		return "", doc.Hint, err
	}
	if !doc.Hint.IsValid() {
		return "", doc.Hint, fmt.Errorf("%w: acquisition mode %q", domain.ErrInvalidInput, doc.Hint)
	}

	jobDir, err := os.MkdirTemp(a.workDir, "phapdien-job-*")
	if err != nil {
		return "", doc.Hint, fmt.Errorf("create job directory: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(jobDir); rmErr != nil {
			logger.Warn("failed to remove job directory %s: %v", jobDir, rmErr)
		}
	}()

	pdfPath := filepath.Join(jobDir, sourceFileName)
	if err := os.WriteFile(pdfPath, doc.Content, 0o600); err != nil {
		return "", doc.Hint, fmt.Errorf("write source document: %w", err)
	}

	mode := doc.Hint
	var wholeText string
	if mode == domain.ModeAuto {
		mode, wholeText, err = a.decide(ctx, pdfPath)
		if err != nil {
			return "", mode, err
		}
	}
	logger.Info("%s: %s acquisition, %s", doc.Name, mode, doc.Window)

	switch mode {
	case domain.ModeDigital:
		if doc.Window == nil && wholeText != "" {
			return wholeText, mode, nil
		}
		text, err := a.ExtractDigital(ctx, pdfPath, doc.Window)
		return text, mode, err
	default:
		text, err := a.RunScanned(ctx, pdfPath, doc.Window, filepath.Join(jobDir, "pages"))
		return text, mode, err
	}
}

// Decide reports whether the PDF at pdfPath carries a text layer.
// A document whose whole-document extraction is empty after trimming
// whitespace is scanned.
func (a *Acquirer) Decide(ctx context.Context, pdfPath string) (domain.AcquisitionMode, error) {
	mode, _, err := a.decide(ctx, pdfPath)
	return mode, err
}

func (a *Acquirer) decide(ctx context.Context, pdfPath string) (domain.AcquisitionMode, string, error) {
	text, err := a.extractor.ExtractText(ctx, pdfPath, nil)
	if err != nil {
		return domain.ModeAuto, "", fmt.Errorf("%w: %w", domain.ErrExtraction, err)
	}
	if strings.TrimSpace(text) == "" {
		return domain.ModeScanned, "", nil
	}
	return domain.ModeDigital, text, nil
}

// ExtractDigital returns the embedded text of the pages in window.
// A nil window extracts the whole document.
func (a *Acquirer) ExtractDigital(ctx context.Context, pdfPath string, window *domain.PageWindow) (string, error) {
	if err := window.Validate(); err != nil {
		return "", err
	}
	text, err := a.extractor.ExtractText(ctx, pdfPath, window)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrExtraction, err)
	}
	return text, nil
}

// RunScanned renders the pages in window into outDir and recognises them
// with a bounded number of workers. Page texts are joined with "\n" in
// page order. Any page that fails or yields no text fails the document.
func (a *Acquirer) RunScanned(
	ctx context.Context,
	pdfPath string,
	window *domain.PageWindow,
	outDir string,
) (string, error) {
	if err := window.Validate(); err != nil {
		return "", err
	}
	if a.renderer == nil || a.ocr == nil {
		return "", fmt.Errorf("%w: no OCR engine configured", domain.ErrOCRFailure)
	}
	if err := os.MkdirAll(outDir, 0o700); err != nil {
		return "", fmt.Errorf("create page directory: %w", err)
	}

	done := logger.Timed("render pages")
	pages, err := a.renderer.RenderPages(ctx, pdfPath, window, a.dpi, outDir)
	done()
	if err != nil {
		return "", fmt.Errorf("%w: render: %w", domain.ErrOCRFailure, err)
	}
	if len(pages) == 0 {
		return "", fmt.Errorf("%w: no pages rendered", domain.ErrOCRFailure)
	}

	opts := domain.OCROptions{
		Language:    a.language,
		PageSegMode: domain.DefaultPageSegMode,
		DPI:         a.dpi,
	}
	texts := make([]string, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, page := range pages {
		g.Go(func() error {
			text, err := a.ocr.Recognize(gctx, page, opts)
			if err != nil {
				return fmt.Errorf("%w: page %d: %w", domain.ErrOCRFailure, page.Page, err)
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("%w: page %d produced no text", domain.ErrOCRFailure, page.Page)
			}
			texts[i] = text
			logger.Debug("recognised page %d (%d bytes)", page.Page, len(text))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", err
	}

	return strings.Join(texts, "\n"), nil
}
