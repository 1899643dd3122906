package ports

import (
	"context"

	"teasim/domain/scenario"
)

// Evaluator turns one fully-resolved scenario into its financial metrics.
// Implementations must be pure: same inputs, same metrics, no shared mutable
// state. The engine calls Evaluate once per iteration, possibly from several
// goroutines at once.
type Evaluator interface {
	Evaluate(ctx context.Context, inputs scenario.Inputs) (scenario.Metrics, error)
}

// EvaluatorFunc adapts a plain function to the Evaluator interface.
type EvaluatorFunc func(ctx context.Context, inputs scenario.Inputs) (scenario.Metrics, error)

// Evaluate implements Evaluator.
func (f EvaluatorFunc) Evaluate(ctx context.Context, inputs scenario.Inputs) (scenario.Metrics, error) {
	return f(ctx, inputs)
}
