package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not available in this build.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown processor, provider or backend.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Units cannot be written to the store without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// Ingestion Errors.

	// ErrExtraction indicates the PDF text layer could not be read,
	// either while deciding the acquisition mode or during digital extraction.
	ErrExtraction = errors.New("text extraction failed")

	// ErrSegmentationEmpty indicates the text contains no "Điều N." marker.
	ErrSegmentationEmpty = errors.New("no article markers found")

	// ErrOCRFailure indicates page rendering or recognition failed,
	// or a page produced no text.
	ErrOCRFailure = errors.New("ocr failed")

	// ErrEmbeddingFailure indicates the embedding service returned an error
	// while a unit was being written.
	ErrEmbeddingFailure = errors.New("embedding failed")

	// ErrStoreFailure indicates a unit store read or write failed.
	ErrStoreFailure = errors.New("store operation failed")
)
