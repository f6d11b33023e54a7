//go:build cgo

package tesseract

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/phapdien/internal/core/domain"
)

func TestRecognize_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Recognize(ctx, domain.PageImage{Page: 1, Path: "page-1.jpg"}, domain.OCROptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecognize_MissingImage(t *testing.T) {
	page := domain.PageImage{Page: 3, Path: filepath.Join(t.TempDir(), "missing.jpg")}

	_, err := New().Recognize(context.Background(), page, domain.OCROptions{Language: "eng", PageSegMode: 6})
	assert.Error(t, err)
}

func TestAvailable(t *testing.T) {
	assert.True(t, Available())
}
