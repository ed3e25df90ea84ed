package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"matchprep/internal/config"
)

// Runner executes the preparation steps of one run in order. Steps run
// strictly sequentially; the first failure aborts the run.
type Runner struct {
	logger *slog.Logger
	steps  []Step
}

// NewRunner creates a runner over the given steps
func NewRunner(logger *slog.Logger, steps ...Step) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		logger: logger,
		steps:  steps,
	}
}

// NewPreparationRunner wires the standard aggregate and scale steps over a
// CSV store
func NewPreparationRunner(logger *slog.Logger, cfg *config.Config) *Runner {
	store := NewCSVStore(cfg)
	return NewRunner(logger,
		NewAggregateStep(logger, cfg, store),
		NewScaleStep(logger, cfg, store),
	)
}

// Run executes every step for the given mode and returns the final run state
func (r *Runner) Run(ctx context.Context, mode config.Mode) (*State, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown mode %q", mode)
	}

	state := &State{
		RunID: uuid.NewString(),
		Mode:  mode,
	}

	r.logger.InfoContext(ctx, "starting preparation run",
		slog.String("run_id", state.RunID),
		slog.String("mode", string(mode)),
		slog.Int("step_count", len(r.steps)))

	for _, step := range r.steps {
		stepState := NewStepState(step.ID(), step.Name())
		state.steps = append(state.steps, stepState)
		stepState.Start()

		r.logger.InfoContext(ctx, "step started",
			slog.String("run_id", state.RunID),
			slog.String("step", step.ID()))

		if err := ctx.Err(); err != nil {
			stepState.Fail(err)
			return state, fmt.Errorf("run cancelled before step %s: %w", step.ID(), err)
		}

		if err := step.Execute(ctx, state); err != nil {
			stepState.Fail(err)
			r.logger.ErrorContext(ctx, "step failed",
				slog.String("run_id", state.RunID),
				slog.String("step", step.ID()),
				slog.String("error", err.Error()))
			return state, fmt.Errorf("step %s failed: %w", step.ID(), err)
		}

		stepState.Complete()
		r.logger.InfoContext(ctx, "step completed",
			slog.String("run_id", state.RunID),
			slog.String("step", step.ID()),
			slog.Duration("duration", stepState.Duration()))
	}

	r.logger.InfoContext(ctx, "preparation run completed",
		slog.String("run_id", state.RunID),
		slog.String("mode", string(mode)))

	return state, nil
}
