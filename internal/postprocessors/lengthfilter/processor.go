// Package lengthfilter drops articles that are too short to be worth indexing.
package lengthfilter

import (
	"context"
	"strings"

	"github.com/custodia-labs/phapdien/internal/core/domain"
	"github.com/custodia-labs/phapdien/internal/core/ports/driven"
)

// Name is the registry name of the processor.
const Name = "lengthfilter"

// DefaultMinWord is the default minimum word count.
const DefaultMinWord = domain.DefaultMinWord

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// Processor keeps units whose raw text has at least minWord words.
// It implements the PostProcessor interface.
type Processor struct {
	minWord int
}

// Option configures the length filter.
type Option func(*Processor)

// WithMinWord sets the minimum word count.
func WithMinWord(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.minWord = n
		}
	}
}

// New creates a new length filter with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		minWord: DefaultMinWord,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return Name
}

// MinWord returns the configured threshold.
func (p *Processor) MinWord() int {
	return p.minWord
}

// Process drops units below the threshold. Words are whitespace-separated
// tokens of the raw text, so the filter must run before normalisation.
func (p *Processor) Process(_ context.Context, _ string, units []domain.LegalUnit) ([]domain.LegalUnit, error) {
	kept := make([]domain.LegalUnit, 0, len(units))
	for _, u := range units {
		u.WordCount = len(strings.Fields(u.RawText))
		if u.WordCount >= p.minWord {
			kept = append(kept, u)
		}
	}
	return kept, nil
}
