package mcp

import (
	"github.com/custodia-labs/phapdien/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server calls.
type Ports struct {
	// Units gives read access to stored articles.
	Units driving.UnitService

	// Ingest runs documents into the store. Optional; without it the
	// ingest tool and job resource are not registered.
	Ingest driving.IngestService

	// DefaultCollection is used when a call names no collection.
	DefaultCollection string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Units == nil {
		return ErrMissingUnitService
	}
	return nil
}

func (p *Ports) collection(name string) string {
	if name != "" {
		return name
	}
	return p.DefaultCollection
}
