//go:build !cgo

package tesseract

import (
	"context"

	"github.com/custodia-labs/phapdien/internal/core/domain"
	"github.com/custodia-labs/phapdien/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.OCREngine = (*Engine)(nil)

// Engine recognises page images with Tesseract.
// This is a stub for builds without CGO.
type Engine struct{}

// New creates a Tesseract engine.
// This is a stub for builds without CGO.
func New() *Engine {
	return &Engine{}
}

// Available reports whether OCR is compiled into this build.
func Available() bool {
	return false
}

// Version returns an empty string without CGO.
func Version() string {
	return ""
}

// Recognize always fails without CGO.
func (e *Engine) Recognize(_ context.Context, _ domain.PageImage, _ domain.OCROptions) (string, error) {
	return "", domain.ErrNotImplemented
}
