// Package simulation orchestrates Monte Carlo runs: it partitions the
// requested iterations into seeded blocks, drives sampling and evaluation,
// and assembles the aggregated result.
//
// Determinism contract: the same seed and iteration count produce the same
// result regardless of ParallelBatches. Blocks are the unit of execution —
// block b always draws from a generator seeded derive(baseSeed, b), and
// block results are concatenated in block order whether blocks ran one at a
// time or concurrently.
package simulation

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/semaphore"

	"teasim/domain/core"
	"teasim/domain/montecarlo"
	"teasim/domain/params"
	"teasim/domain/scenario"
	"teasim/internal"
	"teasim/internal/aggregate"
	"teasim/internal/errors"
	"teasim/internal/random"
	"teasim/internal/risk"
	"teasim/internal/sampling"
	"teasim/internal/sensitivity"
	"teasim/ports"
)

// BlockSize is the fixed execution granularity. It is part of the
// reproducibility contract: changing it reshuffles which generator serves
// which iteration and therefore changes every seeded run's output.
const BlockSize = 1000

// convergenceFraction is the completed-iterations share below which a run is
// flagged as not converged.
const convergenceFraction = 0.95

// ProgressFunc receives cumulative progress after each finished block. The
// callback runs on the engine's collection path and must not block for long
// or mutate run state; processed counts both successful and failed
// iterations.
type ProgressFunc func(processed, total int)

// Engine runs Monte Carlo simulations. It is stateless across runs and safe
// to share; per-run state lives on the stack of Run.
type Engine struct {
	log      *internal.Logger
	progress ProgressFunc
	riskOpts []risk.Option
}

// Option configures an Engine.
type Option func(*Engine)

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) { e.progress = fn }
}

// WithLogger replaces the default logger.
func WithLogger(l *internal.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithRiskOptions forwards options to the risk analyzer, e.g. a custom
// downside threshold.
func WithRiskOptions(opts ...risk.Option) Option {
	return func(e *Engine) { e.riskOpts = opts }
}

// NewEngine creates an engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{log: internal.DefaultLogger.Named("engine")}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes one simulation: cfg.Iterations scenarios sampled from
// parameters around base, each priced by evaluator.
//
// Hard failures happen only before the loop (invalid config) or after it
// (no successful iterations to aggregate). Inside the loop, evaluator
// errors, evaluator panics and non-finite metric values fail the single
// iteration and the run continues. Cancelling ctx stops between iterations
// and returns the partial result with Metadata.Cancelled set.
func (e *Engine) Run(
	ctx context.Context,
	cfg montecarlo.SimulationConfig,
	parameters []params.UncertainParameter,
	base scenario.Inputs,
	evaluator ports.Evaluator,
) (*montecarlo.MonteCarloResult, error) {
	started := time.Now()

	if err := validateConfig(cfg, parameters); err != nil {
		return nil, err
	}
	if evaluator == nil {
		return nil, errors.ConfigInvalid("evaluator is required")
	}

	// Seed 0 means the caller does not care about replay; pick one from the
	// clock and echo it in the result so the run is replayable after all.
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if len(cfg.ConfidenceLevels) == 0 {
		cfg.ConfidenceLevels = append([]float64(nil), montecarlo.DefaultConfidenceLevels...)
	}
	if cfg.EnableCorrelations {
		e.log.Warn("correlated sampling requested but not supported; parameters sample independently")
	}

	blocks := partition(cfg.Iterations)
	e.log.Info("starting run: %d iterations in %d blocks, %d parameters, seed %d, parallel %d",
		cfg.Iterations, len(blocks), len(parameters), cfg.Seed, cfg.ParallelBatches)

	var outcomes []blockOutcome
	if cfg.ParallelBatches > 1 {
		outcomes = e.runParallel(ctx, cfg, parameters, base, evaluator, blocks)
	} else {
		outcomes = e.runSequential(ctx, cfg, parameters, base, evaluator, blocks)
	}

	merged := mergeOutcomes(parameters, outcomes)
	completed := merged.processed - merged.failed
	if completed == 0 {
		return nil, errors.Newf(errors.CodeStatisticsEmpty,
			"no successful iterations out of %d attempted", merged.processed)
	}

	agg := aggregate.New(cfg.ConfidenceLevels)
	stats := make(map[core.MetricKey]montecarlo.MetricStatistics, len(merged.metrics))
	for key, values := range merged.metrics {
		ms, err := agg.Aggregate(string(key), values)
		if err != nil {
			return nil, err
		}
		stats[key] = ms
	}

	npv := merged.metrics[scenario.MetricNPV]
	result := &montecarlo.MonteCarloResult{
		Config:        cfg,
		Iterations:    merged.processed,
		ExecutionTime: time.Since(started),
		Metrics:       stats,
		Risk:          risk.NewAnalyzer(e.riskOpts...).Analyze(npv),
		Sensitivity:   sensitivity.Rank(merged.samples, npv),
		Metadata: montecarlo.RunMetadata{
			CompletedIterations: completed,
			FailedIterations:    merged.failed,
			ConvergenceAchieved: float64(completed) >= convergenceFraction*float64(cfg.Iterations),
			ParametersUsed:      len(parameters),
			Cancelled:           merged.cancelled,
		},
	}

	e.log.Info("run complete: %d/%d iterations in %v (failed %d, converged %v)",
		completed, cfg.Iterations, result.ExecutionTime, merged.failed,
		result.Metadata.ConvergenceAchieved)
	return result, nil
}

func validateConfig(cfg montecarlo.SimulationConfig, parameters []params.UncertainParameter) error {
	if cfg.Iterations <= 0 {
		return errors.ConfigInvalidf("iterations must be positive, got %d", cfg.Iterations)
	}
	if cfg.ParallelBatches < 0 {
		return errors.ConfigInvalidf("parallel batches cannot be negative, got %d", cfg.ParallelBatches)
	}
	if len(parameters) == 0 {
		return errors.ConfigInvalid("at least one uncertain parameter is required")
	}
	if err := params.ValidateAll(parameters); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	for _, level := range cfg.ConfidenceLevels {
		if level <= 0 || level >= 1 {
			return errors.ConfigInvalidf("confidence level %v outside (0, 1)", level)
		}
	}
	return nil
}

// block is one seeded slice of the run. index doubles as the seed stream.
type block struct {
	index int
	count int
}

func partition(iterations int) []block {
	blocks := make([]block, 0, (iterations+BlockSize-1)/BlockSize)
	for remaining, i := iterations, 0; remaining > 0; i++ {
		n := BlockSize
		if remaining < n {
			n = remaining
		}
		blocks = append(blocks, block{index: i, count: n})
		remaining -= n
	}
	return blocks
}

// blockOutcome is one block's contribution. Metric slices and per-parameter
// sample slices stay aligned: an iteration either lands in all of them or in
// none.
type blockOutcome struct {
	index     int
	metrics   map[core.MetricKey][]float64
	samples   [][]float64 // per parameter, declaration order
	processed int
	failed    int
	cancelled bool
}

func (e *Engine) runSequential(
	ctx context.Context,
	cfg montecarlo.SimulationConfig,
	parameters []params.UncertainParameter,
	base scenario.Inputs,
	evaluator ports.Evaluator,
	blocks []block,
) []blockOutcome {
	builder := sampling.NewScenarioBuilder(base)
	outcomes := make([]blockOutcome, 0, len(blocks))
	processed := 0
	for _, b := range blocks {
		out := e.runBlock(ctx, b, cfg, parameters, builder, evaluator)
		outcomes = append(outcomes, out)
		processed += out.processed
		e.reportProgress(processed, cfg.Iterations)
		if out.cancelled {
			break
		}
	}
	return outcomes
}

// runParallel executes the same blocks as the sequential path under a
// weighted semaphore. Each block goroutine sends exactly one outcome, so the
// collector loop always terminates; cancellation surfaces as cancelled
// outcomes, never as abandoned goroutines.
func (e *Engine) runParallel(
	ctx context.Context,
	cfg montecarlo.SimulationConfig,
	parameters []params.UncertainParameter,
	base scenario.Inputs,
	evaluator ports.Evaluator,
	blocks []block,
) []blockOutcome {
	builder := sampling.NewScenarioBuilder(base)
	sem := semaphore.NewWeighted(int64(cfg.ParallelBatches))
	outcomeChan := make(chan blockOutcome, len(blocks))

	for _, b := range blocks {
		go func(b block) {
			if err := sem.Acquire(ctx, 1); err != nil {
				// Cancelled while waiting for a slot; nothing ran.
				outcomeChan <- blockOutcome{index: b.index, cancelled: true}
				return
			}
			defer sem.Release(1)
			outcomeChan <- e.runBlock(ctx, b, cfg, parameters, builder, evaluator)
		}(b)
	}

	outcomes := make([]blockOutcome, 0, len(blocks))
	processed := 0
	for range blocks {
		out := <-outcomeChan
		outcomes = append(outcomes, out)
		processed += out.processed
		e.reportProgress(processed, cfg.Iterations)
	}
	return outcomes
}

func (e *Engine) runBlock(
	ctx context.Context,
	b block,
	cfg montecarlo.SimulationConfig,
	parameters []params.UncertainParameter,
	builder *sampling.ScenarioBuilder,
	evaluator ports.Evaluator,
) blockOutcome {
	gen := random.New(random.DeriveSeed(cfg.Seed, b.index))
	sampler := sampling.NewSampler(gen)

	out := blockOutcome{
		index:   b.index,
		metrics: make(map[core.MetricKey][]float64),
		samples: make([][]float64, len(parameters)),
	}

	for i := 0; i < b.count; i++ {
		if ctx.Err() != nil {
			out.cancelled = true
			break
		}

		draws := sampler.SampleAll(parameters)
		inputs := builder.Build(parameters, draws)

		metrics, err := safeEvaluate(ctx, evaluator, inputs)
		out.processed++
		if err != nil || !allFinite(metrics) {
			out.failed++
			continue
		}

		for key, v := range metrics {
			out.metrics[key] = append(out.metrics[key], v)
		}
		for j := range draws {
			out.samples[j] = append(out.samples[j], draws[j])
		}
	}
	return out
}

// safeEvaluate shields the run from a panicking evaluator; the panic becomes
// an iteration failure like any other evaluation error.
func safeEvaluate(ctx context.Context, evaluator ports.Evaluator, inputs scenario.Inputs) (m scenario.Metrics, err error) {
	defer func() {
		if r := recover(); r != nil {
			m = nil
			err = errors.EvaluationFailed(fmt.Errorf("evaluator panic: %v", r))
		}
	}()
	return evaluator.Evaluate(ctx, inputs)
}

// allFinite rejects iterations whose output contains NaN or ±Inf. Letting a
// single non-finite value through would poison every downstream statistic of
// that metric.
func allFinite(m scenario.Metrics) bool {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type mergedRun struct {
	metrics   map[core.MetricKey][]float64
	samples   []sensitivity.ParameterSamples
	processed int
	failed    int
	cancelled bool
}

// mergeOutcomes concatenates block results in block index order, which makes
// the merged arrays independent of execution interleaving.
func mergeOutcomes(parameters []params.UncertainParameter, outcomes []blockOutcome) mergedRun {
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].index < outcomes[j].index })

	merged := mergedRun{metrics: make(map[core.MetricKey][]float64)}
	perParam := make([][]float64, len(parameters))
	for _, out := range outcomes {
		merged.processed += out.processed
		merged.failed += out.failed
		merged.cancelled = merged.cancelled || out.cancelled
		for key, vals := range out.metrics {
			merged.metrics[key] = append(merged.metrics[key], vals...)
		}
		for j := range out.samples {
			perParam[j] = append(perParam[j], out.samples[j]...)
		}
	}

	merged.samples = make([]sensitivity.ParameterSamples, len(parameters))
	for i := range parameters {
		merged.samples[i] = sensitivity.ParameterSamples{
			Name:   parameters[i].Name,
			Values: perParam[i],
		}
	}
	return merged
}

func (e *Engine) reportProgress(processed, total int) {
	if e.progress != nil {
		e.progress(processed, total)
	}
}
