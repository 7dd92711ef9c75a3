package commands

import (
	"context"

	"github.com/geonode-contrib/geostack/pkg/config"
	"github.com/geonode-contrib/geostack/pkg/docker"
	"github.com/geonode-contrib/geostack/pkg/execute"
	"github.com/geonode-contrib/geostack/pkg/logging"
	"github.com/geonode-contrib/geostack/pkg/provision"
	"github.com/geonode-contrib/geostack/pkg/state"
	"github.com/geonode-contrib/geostack/pkg/steps"
)

// StatusOptions defines the options for the Status command.
type StatusOptions struct {
	Config *config.Config
	Runner execute.Runner
	Store  state.Store

	SkipClient bool
	WithEditor bool
	SudoUser   string
}

// StatusResult reports the state of every step plus the compose services.
type StatusResult struct {
	Steps []provision.StepResult
	// Services is empty when the stack has not been brought up yet.
	Services []docker.ServiceState
}

// Status evaluates every step's probe and sentinel without running
// anything, and lists the compose services when the stack exists.
func Status(ctx context.Context, opts StatusOptions) (*StatusResult, error) {
	log := logging.GetLogger("commands.status")
	log.Debug().Msg("Executing command")

	deps := buildDeps(opts.Config, opts.Runner, opts.SudoUser, false)
	sequence := steps.BuildAll(deps, steps.Options{
		SkipClient: opts.SkipClient,
		WithEditor: opts.WithEditor,
	})

	engine := provision.NewEngine(opts.Store, false, false)
	stepResults, err := engine.Status(ctx, sequence)
	if err != nil {
		return nil, err
	}

	result := &StatusResult{Steps: stepResults}

	if deps.Docker.HasComposeFile() {
		services, err := composeServices(ctx, deps.Docker)
		if err != nil {
			log.Warn().Err(err).Msg("Could not list compose services")
		} else {
			result.Services = services
		}
	}

	log.Info().Int("steps", len(result.Steps)).Int("services", len(result.Services)).Msg("Command finished")
	return result, nil
}

// composeServices lists the services the compose file defines, annotated
// with container state for those that exist. Services with no container
// yet report a "not created" state.
func composeServices(ctx context.Context, client *docker.Client) ([]docker.ServiceState, error) {
	defined, err := client.Services()
	if err != nil {
		return nil, err
	}

	running := make(map[string]docker.ServiceState)
	if client.EngineInstalled() {
		states, err := client.PS(ctx)
		if err != nil {
			return nil, err
		}
		for _, state := range states {
			running[state.Service] = state
		}
	}

	services := make([]docker.ServiceState, 0, len(defined))
	for _, name := range defined {
		if state, ok := running[name]; ok {
			services = append(services, state)
			continue
		}
		services = append(services, docker.ServiceState{Service: name, State: "not created"})
	}
	return services, nil
}
