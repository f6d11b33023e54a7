// Package normaliser canonicalises the text of each article.
package normaliser

import (
	"context"

	"github.com/custodia-labs/phapdien/internal/core/domain"
	"github.com/custodia-labs/phapdien/internal/core/ports/driven"
	"github.com/custodia-labs/phapdien/internal/vntext"
)

// Name is the registry name of the processor.
const Name = "normaliser"

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// Processor fills NormalizedText for every unit.
type Processor struct{}

// New creates a new normalising processor.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return Name
}

// Process normalises the raw text of each unit. RawText and WordCount are
// left untouched.
func (p *Processor) Process(ctx context.Context, _ string, units []domain.LegalUnit) ([]domain.LegalUnit, error) {
	out := make([]domain.LegalUnit, len(units))
	for i, u := range units {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		u.NormalizedText = vntext.Normalize(u.RawText)
		out[i] = u
	}
	return out, nil
}
