//go:build cgo

package tesseract

import (
	"context"
	"fmt"
	"strconv"

	"github.com/otiai10/gosseract/v2"

	"github.com/custodia-labs/phapdien/internal/core/domain"
	"github.com/custodia-labs/phapdien/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.OCREngine = (*Engine)(nil)

// Engine recognises page images with Tesseract.
// A gosseract client is not safe for concurrent use, so each call gets its own.
type Engine struct {
	newClient func() *gosseract.Client
}

// New creates a Tesseract engine.
func New() *Engine {
	return &Engine{newClient: gosseract.NewClient}
}

// Available reports whether OCR is compiled into this build.
func Available() bool {
	return true
}

// Version returns the linked Tesseract version.
func Version() string {
	c := gosseract.NewClient()
	defer c.Close()
	return c.Version()
}

// Recognize runs OCR on page.Path with the given language, layout and DPI.
func (e *Engine) Recognize(ctx context.Context, page domain.PageImage, opts domain.OCROptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := e.newClient()
	defer c.Close()

	if err := c.SetImage(page.Path); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	if opts.Language != "" {
		if err := c.SetLanguage(opts.Language); err != nil {
			return "", fmt.Errorf("set language %s: %w", opts.Language, err)
		}
	}
	if opts.PageSegMode > 0 {
		if err := c.SetPageSegMode(gosseract.PageSegMode(opts.PageSegMode)); err != nil {
			return "", fmt.Errorf("set page segmentation mode: %w", err)
		}
	}
	if opts.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), strconv.Itoa(opts.DPI)); err != nil {
			return "", fmt.Errorf("set dpi: %w", err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize page %d: %w", page.Page, err)
	}
	return text, nil
}
