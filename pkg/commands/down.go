package commands

import (
	"context"

	"github.com/geonode-contrib/geostack/pkg/config"
	"github.com/geonode-contrib/geostack/pkg/docker"
	"github.com/geonode-contrib/geostack/pkg/execute"
	"github.com/geonode-contrib/geostack/pkg/logging"
	"github.com/geonode-contrib/geostack/pkg/state"
)

// DownOptions defines the options for the Down command.
type DownOptions struct {
	Config *config.Config
	Runner execute.Runner
	Store  state.Store

	// ClearState also forgets the run-once sentinels, so the next up
	// repeats the one-shot steps.
	ClearState bool
}

// DownResult reports what Down did.
type DownResult struct {
	StackStopped bool
	StateCleared bool
}

// Down stops the compose stack and optionally clears the sentinel store.
func Down(ctx context.Context, opts DownOptions) (*DownResult, error) {
	log := logging.GetLogger("commands.down")
	log.Debug().Bool("clearState", opts.ClearState).Msg("Executing command")

	result := &DownResult{}
	client := docker.NewClient(opts.Runner, opts.Config.CheckoutDir())

	if client.EngineInstalled() && client.HasComposeFile() {
		if err := client.ComposeDown(ctx); err != nil {
			return result, err
		}
		result.StackStopped = true
	} else {
		log.Info().Msg("No compose stack to stop")
	}

	if opts.ClearState {
		if err := opts.Store.ClearAll(); err != nil {
			return result, err
		}
		result.StateCleared = true
	}

	log.Info().Bool("stopped", result.StackStopped).Bool("cleared", result.StateCleared).Msg("Command finished")
	return result, nil
}
