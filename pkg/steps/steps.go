// Package steps defines the provisioning steps geostack runs, in order.
// Each step is guarded either by a probe (the effect is observably present
// on the host) or by a sentinel (the step ran before), so re-running the
// provisioner after a partial run repeats no completed work.
package steps

import (
	"context"

	"github.com/geonode-contrib/geostack/pkg/apt"
	"github.com/geonode-contrib/geostack/pkg/config"
	"github.com/geonode-contrib/geostack/pkg/docker"
	"github.com/geonode-contrib/geostack/pkg/execute"
	"github.com/geonode-contrib/geostack/pkg/git"
	"github.com/geonode-contrib/geostack/pkg/readiness"
)

// Step is a single provisioning action.
type Step struct {
	// Name identifies the step in logs, sentinels and status output.
	Name string
	// Description is the one-line human summary shown while running.
	Description string
	// Probe reports whether the step's effect is already present on the
	// host. A nil Probe means the step cannot be detected up front.
	Probe func(ctx context.Context) (bool, error)
	// Run performs the step.
	Run func(ctx context.Context) error
	// RunOnce marks steps tracked by a sentinel instead of a probe.
	RunOnce bool
	// WarnOnly downgrades a failure to a warning instead of aborting.
	WarnOnly bool
	// Optional steps are only built when their flag is set; kept here so
	// status can explain why a step is absent.
	Optional bool
}

// Deps carries the collaborators the steps drive.
type Deps struct {
	Config *config.Config
	Runner execute.Runner
	Apt    *apt.Manager
	Docker *docker.Client
	Git    *git.Cloner
	Poller *readiness.Poller
	// SudoUser is the invoking user behind sudo, owner of the checkouts.
	SudoUser string
}

// Options selects the optional tail of the sequence.
type Options struct {
	// SkipClient omits the mapstore client checkout and asset build.
	SkipClient bool
	// WithEditor installs the editor at the end of the run.
	WithEditor bool
}

// BuildAll assembles the full provisioning sequence.
func BuildAll(deps Deps, opts Options) []Step {
	steps := []Step{
		Privilege(deps),
		BasePackages(deps),
		DockerEngine(deps),
		ComposePlugin(deps),
		CloneGeonode(deps),
		EnvFile(deps),
		ComposeBuild(deps),
		ComposeUp(deps),
		WaitWeb(deps),
		WaitGeoserver(deps),
		DatabaseCredentials(deps),
		GeoserverPassword(deps),
	}
	if !opts.SkipClient {
		steps = append(steps, ClientCheckout(deps))
	}
	if opts.WithEditor {
		steps = append(steps, Editor(deps))
	}
	return steps
}
