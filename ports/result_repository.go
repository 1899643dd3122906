package ports

import (
	"context"

	"teasim/domain/core"
	"teasim/domain/montecarlo"
)

// ResultRepository defines the interface for simulation run storage
type ResultRepository interface {
	// Save persists a completed run, result payload included
	Save(ctx context.Context, rec *montecarlo.RunRecord) error

	// GetByID loads a single run by its identifier
	GetByID(ctx context.Context, id core.RunID) (*montecarlo.RunRecord, error)

	// List returns runs newest-first
	List(ctx context.Context, limit, offset int) ([]*montecarlo.RunRecord, error)

	// Delete removes a run permanently
	Delete(ctx context.Context, id core.RunID) error
}
