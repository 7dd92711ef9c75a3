// Package commands provides the high-level command implementations behind
// the geostack CLI. Each command takes an Options struct and returns a
// Result, leaving rendering and exit codes to the cmd layer.
package commands

import (
	"time"

	"github.com/geonode-contrib/geostack/pkg/apt"
	"github.com/geonode-contrib/geostack/pkg/config"
	"github.com/geonode-contrib/geostack/pkg/docker"
	"github.com/geonode-contrib/geostack/pkg/execute"
	"github.com/geonode-contrib/geostack/pkg/git"
	"github.com/geonode-contrib/geostack/pkg/readiness"
	"github.com/geonode-contrib/geostack/pkg/steps"
)

// buildDeps assembles the step collaborators from a resolved config.
func buildDeps(cfg *config.Config, runner execute.Runner, sudoUser string, dryRun bool) steps.Deps {
	return steps.Deps{
		Config: cfg,
		Runner: runner,
		Apt:    apt.NewManager(runner, dryRun),
		Docker: docker.NewClient(runner, cfg.CheckoutDir()),
		Git:    git.NewCloner(runner),
		Poller: readiness.NewPoller(
			time.Duration(cfg.Readiness.IntervalSeconds)*time.Second,
			cfg.Readiness.MaxAttempts,
		),
		SudoUser: sudoUser,
	}
}
