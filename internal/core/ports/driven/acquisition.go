package driven

import (
	"context"

	"github.com/custodia-labs/phapdien/internal/core/domain"
)

// TextExtractor reads the embedded text layer of a PDF.
type TextExtractor interface {
	// ExtractText returns the text of the pages in window, or of the whole
	// document when window is nil. A PDF without a text layer yields an
	// empty string and no error.
	ExtractText(ctx context.Context, pdfPath string, window *domain.PageWindow) (string, error)
}

// PageRenderer rasterises PDF pages.
type PageRenderer interface {
	// RenderPages writes one image per page of window (all pages when nil)
	// into outDir and returns them in page order.
	RenderPages(ctx context.Context, pdfPath string, window *domain.PageWindow, dpi int, outDir string) ([]domain.PageImage, error)
}

// OCREngine recognises text in a page image.
// Implementations must be safe for concurrent use.
type OCREngine interface {
	// Recognize returns the text found in the page image.
	Recognize(ctx context.Context, page domain.PageImage, opts domain.OCROptions) (string, error)
}
