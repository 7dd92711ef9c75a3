package steps

import (
	"context"
	"os"

	"github.com/geonode-contrib/geostack/pkg/errors"
)

// CheckPrivilege validates that the process runs as root under sudo. The
// sudo user is needed later to hand the checkouts back to the developer.
func CheckPrivilege(euid int, sudoUser string) error {
	if euid != 0 {
		return errors.New(errors.ErrNotRoot, "geostack must run as root (sudo geostack up)")
	}
	if sudoUser == "" {
		return errors.New(errors.ErrNoSudoUser, "SUDO_USER is not set; run through sudo, not as a root login")
	}
	return nil
}

// Privilege is the first step: abort early when not running as root under
// sudo.
func Privilege(deps Deps) Step {
	return Step{
		Name:        "privilege",
		Description: "Check root privilege and SUDO_USER",
		Run: func(ctx context.Context) error {
			return CheckPrivilege(os.Geteuid(), deps.SudoUser)
		},
	}
}

// BasePackages installs the fixed OS package list, probing each package
// first so the step is a no-op on a provisioned host.
func BasePackages(deps Deps) Step {
	return Step{
		Name:        "base-packages",
		Description: "Install base OS packages",
		Probe: func(ctx context.Context) (bool, error) {
			missing, err := deps.Apt.Missing(ctx, deps.Config.Packages.Names)
			if err != nil {
				return false, err
			}
			return len(missing) == 0, nil
		},
		Run: func(ctx context.Context) error {
			missing, err := deps.Apt.Missing(ctx, deps.Config.Packages.Names)
			if err != nil {
				return err
			}
			if len(missing) == 0 {
				return nil
			}
			if err := deps.Apt.Update(ctx); err != nil {
				return err
			}
			return deps.Apt.Install(ctx, missing...)
		},
	}
}
