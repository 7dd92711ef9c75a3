// Package provision runs the step sequence: one sequential pass, skipping
// steps whose probe or sentinel says they are done, aborting on the first
// failure. The single exception is a WarnOnly step, whose failure is
// logged and ignored.
package provision

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/geonode-contrib/geostack/pkg/errors"
	"github.com/geonode-contrib/geostack/pkg/logging"
	"github.com/geonode-contrib/geostack/pkg/state"
	"github.com/geonode-contrib/geostack/pkg/steps"
)

// StepStatus is the outcome of one step in a run.
type StepStatus string

const (
	// StatusRan means the step executed successfully.
	StatusRan StepStatus = "ran"
	// StatusSkipped means the step's probe found its effect present.
	StatusSkipped StepStatus = "skipped"
	// StatusAlreadyRun means the step's sentinel was recorded earlier.
	StatusAlreadyRun StepStatus = "already-run"
	// StatusWarned means the step failed but is WarnOnly.
	StatusWarned StepStatus = "warned"
	// StatusFailed means the step failed and aborted the run.
	StatusFailed StepStatus = "failed"
	// StatusWouldRun is reported in dry-run mode.
	StatusWouldRun StepStatus = "would-run"
	// StatusPending is used by Status for steps that have not run.
	StatusPending StepStatus = "pending"
	// StatusAlways is used by Status for steps that run on every pass.
	StatusAlways StepStatus = "always"
)

// StepResult is one step's outcome.
type StepResult struct {
	Name        string
	Description string
	Status      StepStatus
	Err         error
}

// RunResult collects the whole pass.
type RunResult struct {
	Steps []StepResult
}

// Failed reports whether the pass aborted.
func (r *RunResult) Failed() bool {
	for _, s := range r.Steps {
		if s.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Engine executes step sequences against the sentinel store.
type Engine struct {
	store  state.Store
	logger zerolog.Logger
	dryRun bool
	force  bool
	report func(StepResult)
}

// NewEngine creates an engine. With force set, sentinels are ignored (but
// probes still skip satisfied steps).
func NewEngine(store state.Store, dryRun, force bool) *Engine {
	return &Engine{
		store:  store,
		logger: logging.GetLogger("provision"),
		dryRun: dryRun,
		force:  force,
	}
}

// OnStep registers a callback invoked after every step outcome, used for
// console progress.
func (e *Engine) OnStep(fn func(StepResult)) {
	e.report = fn
}

// Run executes the sequence in order. It returns the collected results and
// the error that aborted the pass, if any.
func (e *Engine) Run(ctx context.Context, sequence []steps.Step) (*RunResult, error) {
	result := &RunResult{}

	for _, step := range sequence {
		outcome, err := e.runStep(ctx, step)
		result.Steps = append(result.Steps, outcome)
		if e.report != nil {
			e.report(outcome)
		}
		if err != nil {
			return result, err
		}
	}

	return result, nil
}

func (e *Engine) runStep(ctx context.Context, step steps.Step) (StepResult, error) {
	outcome := StepResult{Name: step.Name, Description: step.Description}
	log := e.logger.With().Str("step", step.Name).Logger()

	if step.Probe != nil {
		satisfied, err := step.Probe(ctx)
		if err != nil {
			outcome.Status = StatusFailed
			outcome.Err = errors.Wrapf(err, errors.ErrStepProbe, "probe for %s failed", step.Name)
			return outcome, outcome.Err
		}
		if satisfied {
			log.Debug().Msg("Step already satisfied, skipping")
			outcome.Status = StatusSkipped
			return outcome, nil
		}
	}

	if step.RunOnce && !e.force {
		done, err := e.store.HasStep(step.Name)
		if err != nil {
			outcome.Status = StatusFailed
			outcome.Err = err
			return outcome, err
		}
		if done {
			log.Debug().Msg("Step recorded as complete, skipping")
			outcome.Status = StatusAlreadyRun
			return outcome, nil
		}
	}

	if e.dryRun {
		log.Info().Msg("Dry run mode - step would run")
		outcome.Status = StatusWouldRun
		return outcome, nil
	}

	log.Info().Str("description", step.Description).Msg("Running step")
	if err := step.Run(ctx); err != nil {
		if step.WarnOnly {
			log.Warn().Err(err).Msg("Step failed, continuing")
			outcome.Status = StatusWarned
			outcome.Err = err
			return outcome, nil
		}
		outcome.Status = StatusFailed
		outcome.Err = errors.Wrapf(err, errors.ErrStepRun, "step %s failed", step.Name)
		return outcome, outcome.Err
	}

	if step.RunOnce {
		if err := e.store.RecordStep(step.Name); err != nil {
			outcome.Status = StatusFailed
			outcome.Err = err
			return outcome, err
		}
	}

	outcome.Status = StatusRan
	return outcome, nil
}

// Status evaluates every step's probe and sentinel without running
// anything.
func (e *Engine) Status(ctx context.Context, sequence []steps.Step) ([]StepResult, error) {
	var results []StepResult
	for _, step := range sequence {
		outcome := StepResult{Name: step.Name, Description: step.Description}

		switch {
		case step.Probe != nil:
			satisfied, err := step.Probe(ctx)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrStepProbe, "probe for %s failed", step.Name)
			}
			if satisfied {
				outcome.Status = StatusSkipped
			} else {
				outcome.Status = StatusPending
			}
		case step.RunOnce:
			done, err := e.store.HasStep(step.Name)
			if err != nil {
				return nil, err
			}
			if done {
				outcome.Status = StatusAlreadyRun
			} else {
				outcome.Status = StatusPending
			}
		default:
			outcome.Status = StatusAlways
		}

		results = append(results, outcome)
	}
	return results, nil
}
