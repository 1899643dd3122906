// Package app wires the Monte Carlo engine to its collaborators: the
// injected evaluator, optional run persistence, and run identity.
package app

import (
	"context"
	"time"

	"teasim/domain/core"
	"teasim/domain/montecarlo"
	"teasim/domain/params"
	"teasim/domain/scenario"
	"teasim/internal"
	"teasim/internal/errors"
	"teasim/internal/simulation"
	"teasim/ports"
)

// RunRequest is one complete simulation submission as it arrives from the
// API, CLI, or a test.
type RunRequest struct {
	Label      string                      `json:"label,omitempty"`
	Config     montecarlo.SimulationConfig `json:"config"`
	Parameters []params.UncertainParameter `json:"parameters"`
	BaseInputs scenario.Inputs             `json:"base_inputs"`
}

// SimulationService executes simulation runs and manages their records.
// The repository is optional: without one, runs execute and return but are
// not retrievable afterwards.
type SimulationService struct {
	engine    *simulation.Engine
	evaluator ports.Evaluator
	repo      ports.ResultRepository
	log       *internal.Logger

	defaultIterations int
	defaultParallel   int
}

// Option configures the service.
type Option func(*SimulationService)

// WithRunDefaults sets the deployment-level defaults applied to requests
// that leave iterations or the parallel batch count unset. Zero values
// keep the built-in fallbacks.
func WithRunDefaults(iterations, parallelBatches int) Option {
	return func(s *SimulationService) {
		if iterations > 0 {
			s.defaultIterations = iterations
		}
		if parallelBatches > 0 {
			s.defaultParallel = parallelBatches
		}
	}
}

// NewSimulationService creates the service. repo may be nil.
func NewSimulationService(engine *simulation.Engine, evaluator ports.Evaluator, repo ports.ResultRepository, opts ...Option) *SimulationService {
	s := &SimulationService{
		engine:            engine,
		evaluator:         evaluator,
		repo:              repo,
		log:               internal.DefaultLogger.Named("simulation-service"),
		defaultIterations: montecarlo.DefaultIterations,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one simulation and returns its record. Engine errors pass
// through unchanged (they already carry the config/statistics taxonomy);
// a failed save is logged but does not fail the run, since the caller
// already holds the complete result.
func (s *SimulationService) Run(ctx context.Context, req RunRequest) (*montecarlo.RunRecord, error) {
	if req.Config.Iterations == 0 {
		req.Config.Iterations = s.defaultIterations
	}
	if req.Config.ParallelBatches == 0 {
		req.Config.ParallelBatches = s.defaultParallel
	}

	result, err := s.engine.Run(ctx, req.Config, req.Parameters, req.BaseInputs, s.evaluator)
	if err != nil {
		return nil, err
	}

	rec := &montecarlo.RunRecord{
		ID:          core.NewRunID(),
		Label:       req.Label,
		Fingerprint: fingerprintRun(result.Config, req.Parameters),
		CreatedAt:   time.Now().UTC(),
		Result:      *result,
	}

	if s.repo != nil {
		if err := s.repo.Save(ctx, rec); err != nil {
			s.log.Error("failed to persist run %s: %v", rec.ID, err)
		}
	}
	return rec, nil
}

// Get loads one stored run.
func (s *SimulationService) Get(ctx context.Context, id core.RunID) (*montecarlo.RunRecord, error) {
	if s.repo == nil {
		return nil, errors.NotFound("run " + id.String())
	}
	return s.repo.GetByID(ctx, id)
}

// List returns stored runs newest-first.
func (s *SimulationService) List(ctx context.Context, limit, offset int) ([]*montecarlo.RunRecord, error) {
	if s.repo == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	return s.repo.List(ctx, limit, offset)
}

// fingerprintRun derives the record's reproducibility identity from the
// engine's echoed config (so time-derived seeds fingerprint the seed that
// actually ran) and the complete parameter declarations. The distribution
// tag is folded into the key: a normal and a uniform over the same fields
// are different runs.
func fingerprintRun(cfg montecarlo.SimulationConfig, list []params.UncertainParameter) core.RunFingerprint {
	desc := make(map[string]map[string]float64, len(list))
	for _, p := range list {
		fields := make(map[string]float64, len(p.DistributionParams)+1)
		for k, v := range p.DistributionParams {
			fields[k] = v
		}
		fields["base"] = p.BaseValue
		desc[p.Name.String()+"/"+string(p.Distribution)] = fields
	}
	return core.ComputeRunFingerprint(cfg.Seed, cfg.Iterations, desc)
}

// Delete removes a stored run.
func (s *SimulationService) Delete(ctx context.Context, id core.RunID) error {
	if s.repo == nil {
		return errors.NotFound("run " + id.String())
	}
	return s.repo.Delete(ctx, id)
}
