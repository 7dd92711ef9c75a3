package main

import (
	"fmt"
	"os"

	"github.com/geonode-contrib/geostack/pkg/config"
	"github.com/geonode-contrib/geostack/pkg/doctor"
	"github.com/geonode-contrib/geostack/pkg/execute"
	"github.com/geonode-contrib/geostack/pkg/provision"
	"github.com/geonode-contrib/geostack/pkg/state"
	"github.com/geonode-contrib/geostack/pkg/style"
)

// loadConfig resolves the configuration for a command invocation.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}
	return cfg, nil
}

// newRuntime builds the shared command collaborators.
func newRuntime(dryRun bool) (execute.Runner, state.Store) {
	return execute.NewOSRunner(dryRun), state.New("")
}

// stepStyle maps a step outcome to its terminal status.
func stepStyle(status provision.StepStatus) style.Status {
	switch status {
	case provision.StatusRan:
		return style.StatusSuccess
	case provision.StatusSkipped, provision.StatusAlreadyRun:
		return style.StatusSkipped
	case provision.StatusWarned:
		return style.StatusWarning
	case provision.StatusFailed:
		return style.StatusError
	case provision.StatusWouldRun, provision.StatusPending, provision.StatusAlways:
		return style.StatusPending
	default:
		return style.StatusInfo
	}
}

// checkStyle maps a doctor check outcome to its terminal status.
func checkStyle(status doctor.Status) style.Status {
	switch status {
	case doctor.StatusOK:
		return style.StatusSuccess
	case doctor.StatusWarn:
		return style.StatusWarning
	case doctor.StatusFail:
		return style.StatusError
	default:
		return style.StatusInfo
	}
}

// printStep renders one step outcome line.
func printStep(result provision.StepResult) {
	line := fmt.Sprintf("%-20s %s (%s)", result.Name, result.Description, result.Status)
	if result.Err != nil {
		line += ": " + result.Err.Error()
	}
	fmt.Fprintln(os.Stdout, style.StatusLine(stepStyle(result.Status), line))
}
