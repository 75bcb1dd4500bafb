package pipeline

import (
	"context"
	"gatebot/internal/core/domain"

	"github.com/rs/zerolog/log"
)

// Next continues the pipeline. A stage calls it at most once; returning
// without calling it short-circuits the dispatch.
type Next func(ctx context.Context) error

// Stage is one step of the dispatch pipeline. Denials are ordinary
// returns after a user-facing message; only genuine faults travel the
// error channel.
type Stage struct {
	Name string
	Run  func(ctx context.Context, dc *domain.DispatchContext, next Next) error
}

// Pipeline is an ordered middleware chain wrapped around command
// execution.
type Pipeline struct {
	stages []Stage
}

func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Execute runs the stages in order, ending with handler. An error from
// any stage aborts the remainder and is returned to the caller after
// logging the failing stage's name.
func (p *Pipeline) Execute(ctx context.Context, dc *domain.DispatchContext, handler Next) error {
	var run func(ctx context.Context, i int) error

	run = func(ctx context.Context, i int) error {
		if i == len(p.stages) {
			return handler(ctx)
		}

		stage := p.stages[i]
		err := stage.Run(ctx, dc, func(ctx context.Context) error {
			return run(ctx, i+1)
		})
		if err != nil {
			log.Error().
				Str("stage", stage.Name).
				Str("command", dc.Descriptor.Name).
				Err(err).
				Msg("pipeline stage failed")
			return err
		}

		return nil
	}

	return run(ctx, 0)
}
