package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrNotImplemented", ErrNotImplemented},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrExtraction", ErrExtraction},
		{"ErrSegmentationEmpty", ErrSegmentationEmpty},
		{"ErrOCRFailure", ErrOCRFailure},
		{"ErrEmbeddingFailure", ErrEmbeddingFailure},
		{"ErrStoreFailure", ErrStoreFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestErrors_Distinct tests that ingestion errors do not match each other
func TestErrors_Distinct(t *testing.T) {
	all := []error{ErrExtraction, ErrSegmentationEmpty, ErrOCRFailure, ErrEmbeddingFailure, ErrStoreFailure}
	for i, a := range all {
		for j, b := range all {
			assert.Equal(t, i == j, errors.Is(a, b), "%v vs %v", a, b)
		}
	}
}

// TestErrors_WrappedKeepsCause tests the sentinel-plus-cause wrapping used by services
func TestErrors_WrappedKeepsCause(t *testing.T) {
	cause := errors.New("pdftotext exited 1")
	err := fmt.Errorf("%w: %w", ErrExtraction, cause)

	assert.ErrorIs(t, err, ErrExtraction)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrOCRFailure)
}
