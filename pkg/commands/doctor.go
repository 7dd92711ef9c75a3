package commands

import (
	"context"
	"os"

	"github.com/geonode-contrib/geostack/pkg/config"
	"github.com/geonode-contrib/geostack/pkg/docker"
	"github.com/geonode-contrib/geostack/pkg/doctor"
	"github.com/geonode-contrib/geostack/pkg/execute"
	"github.com/geonode-contrib/geostack/pkg/logging"
)

// DoctorOptions defines the options for the Doctor command.
type DoctorOptions struct {
	Config *config.Config
	Runner execute.Runner

	// Euid and SudoUser default to the current process when zero-valued.
	Euid     int
	SudoUser string
}

// Doctor runs the preflight checks and returns their results.
func Doctor(ctx context.Context, opts DoctorOptions) ([]doctor.Result, error) {
	log := logging.GetLogger("commands.doctor")
	log.Debug().Msg("Executing command")

	euid := opts.Euid
	sudoUser := opts.SudoUser
	if euid == 0 && sudoUser == "" {
		euid = os.Geteuid()
		sudoUser = os.Getenv("SUDO_USER")
	}

	checker := &doctor.Checker{
		Config:   opts.Config,
		Runner:   opts.Runner,
		Docker:   docker.NewClient(opts.Runner, opts.Config.CheckoutDir()),
		Euid:     euid,
		SudoUser: sudoUser,
	}

	results := checker.Run(ctx)
	log.Info().Int("checks", len(results)).Bool("failures", doctor.HasFailures(results)).Msg("Command finished")
	return results, nil
}
