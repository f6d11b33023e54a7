package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/custodia-labs/phapdien/internal/core/domain"
	"github.com/custodia-labs/phapdien/internal/core/ports/driven"
	"github.com/custodia-labs/phapdien/internal/logger"
)

// ReconciliationEngine decides how new articles relate to the stored corpus
// and applies those decisions to a unit store.
// Every engine uses domain.SimilarityThreshold.
type ReconciliationEngine struct {
	embedder driven.EmbeddingService
	store    driven.UnitStore
}

// NewReconciliationEngine creates an engine writing through embedder and store.
// embedder may be nil when the engine is only used for planning.
func NewReconciliationEngine(
	embedder driven.EmbeddingService,
	store driven.UnitStore,
) *ReconciliationEngine {
	return &ReconciliationEngine{
		embedder: embedder,
		store:    store,
	}
}

// Plan produces one decision per unit. It performs no I/O.
func (e *ReconciliationEngine) Plan(units []domain.LegalUnit, existing domain.CorpusSnapshot) []domain.Decision {
	return PlanDecisions(units, existing)
}

// PlanDecisions compares each unit with the stored text under the same law
// number. Absent keys are inserted; a similarity at or below
// domain.SimilarityThreshold is an update and above it a skip. Stored keys absent from units get no decision.
// Decisions are returned in ascending law-number order.
func PlanDecisions(units []domain.LegalUnit, existing domain.CorpusSnapshot) []domain.Decision {
	decisions := make([]domain.Decision, 0, len(units))
	for _, unit := range units {
		content := unit.Text()
		stored, ok := existing[unit.LawNumber]
		if !ok {
			decisions = append(decisions, domain.Decision{
				LawNumber: unit.LawNumber,
				Action:    domain.ActionInsert,
				Content:   content,
			})
			continue
		}

		score := Similarity(content, stored)
		d := domain.Decision{
			LawNumber:  unit.LawNumber,
			Action:     domain.ActionSkip,
			Similarity: score,
		}
		if score <= domain.SimilarityThreshold {
			d.Action = domain.ActionUpdate
			d.Content = content
		}
		decisions = append(decisions, d)
	}

	sort.SliceStable(decisions, func(i, j int) bool {
		return decisions[i].LawNumber < decisions[j].LawNumber
	})
	return decisions
}

// Apply executes decisions in order and reports the outcome of each.
// Skips never touch the store. On the first failure the failing unit is
// marked Failed, every later write is NotAttempted and the error is
// returned alongside the full result list.
func (e *ReconciliationEngine) Apply(
	ctx context.Context,
	collection string,
	decisions []domain.Decision,
) ([]domain.UnitResult, error) {
	results := make([]domain.UnitResult, len(decisions))
	for i, d := range decisions {
		results[i] = domain.UnitResult{
			LawNumber: d.LawNumber,
			Action:    d.Action,
			Status:    domain.StatusNotAttempted,
		}
		if d.Action == domain.ActionSkip {
			results[i].Status = domain.StatusSkipped
		}
	}

	for i, d := range decisions {
		if d.Action == domain.ActionSkip {
			continue
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}

		if err := e.applyOne(ctx, collection, d); err != nil {
			results[i].Status = domain.StatusFailed
			results[i].Err = err
			logger.Warn("%s law %d failed: %v", d.Action, d.LawNumber, err)
			return results, fmt.Errorf("apply law %d: %w", d.LawNumber, err)
		}
		results[i].Status = domain.StatusApplied
		logger.Debug("%s law %d", d.Action, d.LawNumber)
	}

	return results, nil
}

func (e *ReconciliationEngine) applyOne(ctx context.Context, collection string, d domain.Decision) error {
	if e.embedder == nil {
		return domain.ErrEmbeddingUnavailable
	}

	vector, err := e.embedder.Embed(ctx, d.Content)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.ErrEmbeddingFailure, err)
	}

	unit := domain.LegalUnit{LawNumber: d.LawNumber, NormalizedText: d.Content}
	switch d.Action {
	case domain.ActionInsert:
		err = e.store.Upsert(ctx, collection, []domain.LegalUnit{unit}, [][]float32{vector})
	case domain.ActionUpdate:
		err = e.store.Replace(ctx, collection, unit, vector)
	default:
		return fmt.Errorf("%w: action %q", domain.ErrInvalidInput, d.Action)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
	}
	return nil
}
