package commands

import (
	"context"

	"github.com/geonode-contrib/geostack/pkg/config"
	"github.com/geonode-contrib/geostack/pkg/execute"
	"github.com/geonode-contrib/geostack/pkg/logging"
	"github.com/geonode-contrib/geostack/pkg/provision"
	"github.com/geonode-contrib/geostack/pkg/state"
	"github.com/geonode-contrib/geostack/pkg/steps"
)

// UpOptions defines the options for the Up command.
type UpOptions struct {
	Config *config.Config
	Runner execute.Runner
	Store  state.Store

	// DryRun reports what would run without touching the host.
	DryRun bool
	// Force re-runs steps whose sentinel is already recorded.
	Force bool
	// SkipClient omits the mapstore client checkout and asset build.
	SkipClient bool
	// WithEditor installs the editor at the end of the run.
	WithEditor bool

	// SudoUser is the invoking user behind sudo.
	SudoUser string

	// OnStep, when set, is called after every step outcome.
	OnStep func(provision.StepResult)
}

// Up runs the full provisioning sequence.
func Up(ctx context.Context, opts UpOptions) (*provision.RunResult, error) {
	log := logging.GetLogger("commands.up")
	log.Debug().
		Bool("dryRun", opts.DryRun).
		Bool("force", opts.Force).
		Bool("skipClient", opts.SkipClient).
		Bool("withEditor", opts.WithEditor).
		Msg("Executing command")

	deps := buildDeps(opts.Config, opts.Runner, opts.SudoUser, opts.DryRun)
	sequence := steps.BuildAll(deps, steps.Options{
		SkipClient: opts.SkipClient,
		WithEditor: opts.WithEditor,
	})

	engine := provision.NewEngine(opts.Store, opts.DryRun, opts.Force)
	if opts.OnStep != nil {
		engine.OnStep(opts.OnStep)
	}

	result, err := engine.Run(ctx, sequence)
	log.Info().Int("steps", len(result.Steps)).Bool("failed", result.Failed()).Msg("Command finished")
	return result, err
}
