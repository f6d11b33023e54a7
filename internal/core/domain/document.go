package domain

import "fmt"

// AcquisitionMode describes how raw text is obtained from a PDF.
type AcquisitionMode string

// Available acquisition modes.
const (
	// ModeAuto lets the decider inspect the embedded text layer.
	ModeAuto AcquisitionMode = ""

	// ModeDigital reads the embedded text layer.
	ModeDigital AcquisitionMode = "digital"

	// ModeScanned renders pages to images and runs OCR.
	ModeScanned AcquisitionMode = "scanned"
)

// IsValid returns true if the mode is recognised.
func (m AcquisitionMode) IsValid() bool {
	switch m {
	case ModeAuto, ModeDigital, ModeScanned:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m AcquisitionMode) String() string {
	if m == ModeAuto {
		return "auto"
	}
	return string(m)
}

// ParseAcquisitionMode converts user input into a mode.
// Both "" and "auto" select ModeAuto.
func ParseAcquisitionMode(s string) (AcquisitionMode, error) {
	if s == "auto" {
		return ModeAuto, nil
	}
	m := AcquisitionMode(s)
	if !m.IsValid() {
		return ModeAuto, fmt.Errorf("%w: acquisition mode %q", ErrInvalidInput, s)
	}
	return m, nil
}

// PageWindow is a 1-indexed inclusive page range.
// A nil *PageWindow means the whole document.
type PageWindow struct {
	Start int
	End   int
}

// PageWindowFromBounds builds a window from raw bounds as they arrive from
// callers. A zero bound on either side selects the whole document, so
// (0, 5) and (3, 0) both return nil.
func PageWindowFromBounds(start, end int) *PageWindow {
	if start == 0 || end == 0 {
		return nil
	}
	return &PageWindow{Start: start, End: end}
}

// Validate checks the window bounds. A nil window is always valid.
func (w *PageWindow) Validate() error {
	if w == nil {
		return nil
	}
	if w.Start < 1 {
		return fmt.Errorf("%w: start page %d must be >= 1", ErrInvalidInput, w.Start)
	}
	if w.End < w.Start {
		return fmt.Errorf("%w: end page %d before start page %d", ErrInvalidInput, w.End, w.Start)
	}
	return nil
}

// String renders the window for logs.
func (w *PageWindow) String() string {
	if w == nil {
		return "all pages"
	}
	return fmt.Sprintf("pages %d-%d", w.Start, w.End)
}

// SourceDocument is a PDF submitted for ingestion.
type SourceDocument struct {
	// Name identifies the document in logs and reports (usually the file name).
	Name string

	// Content holds the raw PDF bytes.
	Content []byte

	// Window restricts extraction to a page range. Nil means all pages.
	Window *PageWindow

	// Hint forces an acquisition mode. ModeAuto lets the decider choose.
	Hint AcquisitionMode
}

// PageImage is one rendered page on disk.
type PageImage struct {
	// Page is the 1-indexed page number in the source PDF.
	Page int

	// Path is the image file location inside the job working directory.
	Path string
}

// OCROptions configures recognition of a single page.
type OCROptions struct {
	// Language is the Tesseract language code (e.g. "vie").
	Language string

	// PageSegMode is the Tesseract page segmentation mode.
	// 6 assumes a single uniform block of text.
	PageSegMode int

	// DPI is the resolution the page was rendered at.
	DPI int
}
