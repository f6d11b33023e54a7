package driven

import (
	"context"

	"github.com/custodia-labs/phapdien/internal/core/domain"
)

// PostProcessor turns acquired text into legal units.
// PostProcessors are chained in a pipeline (segmenting, filtering, normalising).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes the acquired text and the units produced so far.
	// If the processor creates units (e.g., segmenter), it receives nil and returns new units.
	// If the processor modifies units (e.g., normaliser), it receives and returns units.
	Process(ctx context.Context, text string, units []domain.LegalUnit) ([]domain.LegalUnit, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the text through all processors in order.
	// Returns the final units after all processing.
	Process(ctx context.Context, text string) ([]domain.LegalUnit, error)
}
