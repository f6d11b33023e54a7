// Package storage opens the unit and job stores selected in settings.
package storage

import (
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/phapdien/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/phapdien/internal/adapters/driven/storage/qdrant"
	"github.com/custodia-labs/phapdien/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/phapdien/internal/core/domain"
	"github.com/custodia-labs/phapdien/internal/core/ports/driven"
)

// Backend bundles the stores for one configured backend.
type Backend struct {
	Units driven.UnitStore
	Jobs  driven.JobStore

	closers []io.Closer
}

// Open builds the stores for settings.Backend. Job history lives in SQLite
// for both the sqlite and qdrant backends and in memory for the memory backend.
func Open(settings domain.StoreSettings) (*Backend, error) {
	switch settings.Backend {
	case domain.StoreBackendMemory:
		return &Backend{Units: memory.NewUnitStore(), Jobs: memory.NewJobStore()}, nil

	case domain.StoreBackendSQLite, "":
		store, err := sqlite.NewStore(settings.DataDir)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
		}
		return &Backend{
			Units:   store.UnitStore(),
			Jobs:    store.JobStore(),
			closers: []io.Closer{store},
		}, nil

	case domain.StoreBackendQdrant:
		units, err := qdrant.NewUnitStore(qdrant.Config{URL: settings.QdrantURL, APIKey: settings.QdrantAPIKey})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
		}
		history, err := sqlite.NewStore(settings.DataDir)
		if err != nil {
			units.Close()
			return nil, fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
		}
		return &Backend{
			Units:   units,
			Jobs:    history.JobStore(),
			closers: []io.Closer{units, history},
		}, nil

	default:
		return nil, fmt.Errorf("%w: unknown store backend %q", domain.ErrInvalidInput, settings.Backend)
	}
}

// Close releases every store the backend opened.
func (b *Backend) Close() error {
	var errs []error
	for _, c := range b.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(b.closers) == 0 && b.Units != nil {
		errs = append(errs, b.Units.Close())
	}
	return errors.Join(errs...)
}
