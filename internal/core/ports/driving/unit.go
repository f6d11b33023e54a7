package driving

import (
	"context"

	"github.com/custodia-labs/phapdien/internal/core/domain"
)

// UnitService gives read access to stored units.
type UnitService interface {
	// List returns the stored text of every unit in the collection.
	List(ctx context.Context, collection string) (domain.CorpusSnapshot, error)

	// Nearest embeds query and returns the closest stored units.
	Nearest(ctx context.Context, collection, query string, limit int) ([]domain.UnitHit, error)

	// Delete removes every object stored under lawNumber.
	Delete(ctx context.Context, collection string, lawNumber int) error
}
