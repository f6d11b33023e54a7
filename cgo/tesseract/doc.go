// Package tesseract provides Tesseract OCR through gosseract.
// It implements the driven.OCREngine interface.
//
// Build requires:
//   - libtesseract and libleptonica development headers
//   - the traineddata for each language used (vie by default)
//
// Builds without CGO get a stub that reports domain.ErrNotImplemented.
package tesseract
