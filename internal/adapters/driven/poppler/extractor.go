package poppler

import (
	"context"
	"fmt"

	"github.com/custodia-labs/phapdien/internal/core/domain"
	"github.com/custodia-labs/phapdien/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor reads the text layer with pdftotext.
type Extractor struct {
	runner CommandRunner
}

// NewExtractor creates an extractor that shells out to pdftotext.
func NewExtractor() *Extractor {
	return NewExtractorWithRunner(ExecRunner{})
}

// NewExtractorWithRunner creates an extractor with a custom runner.
func NewExtractorWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// ExtractText returns the UTF-8 text of window, or of every page when window is nil.
func (e *Extractor) ExtractText(ctx context.Context, pdfPath string, window *domain.PageWindow) (string, error) {
	if err := window.Validate(); err != nil {
		return "", err
	}

	args := []string{"-enc", "UTF-8"}
	if window != nil {
		args = append(args, windowArgs(window.Start, window.End)...)
	}
	args = append(args, pdfPath, "-")

	out, err := e.runner.Run(ctx, TextTool, args...)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", window, err)
	}
	return string(out), nil
}
