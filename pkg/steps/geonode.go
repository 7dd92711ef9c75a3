package steps

import (
	"context"
	"os"
	"path/filepath"

	"github.com/geonode-contrib/geostack/pkg/envfile"
	"github.com/geonode-contrib/geostack/pkg/errors"
	"github.com/geonode-contrib/geostack/pkg/execute"
)

// CloneGeonode clones the main geonode repository into the install dir and
// hands it to the sudo user. Skipped when the checkout exists.
func CloneGeonode(deps Deps) Step {
	dest := deps.Config.CheckoutDir()
	return Step{
		Name:        "clone-geonode",
		Description: "Clone the geonode repository",
		Probe: func(ctx context.Context) (bool, error) {
			return deps.Git.IsCloned(dest), nil
		},
		Run: func(ctx context.Context) error {
			if err := os.MkdirAll(deps.Config.Install.Dir, 0755); err != nil {
				return errors.Wrap(err, errors.ErrDirCreate, "failed to create install directory")
			}
			cfg := deps.Config.Geonode
			if err := deps.Git.Clone(ctx, cfg.RepoURL, cfg.Branch, dest); err != nil {
				return err
			}
			return deps.Git.ChownTree(ctx, dest, deps.SudoUser)
		},
	}
}

// EnvFile generates the checkout's .env through the upstream helper script
// and patches the database password fields into the result. A missing
// helper is a hard error; the provisioner cannot invent the file's layout.
func EnvFile(deps Deps) Step {
	cfg := deps.Config
	envPath := cfg.EnvFilePath()
	return Step{
		Name:        "env-file",
		Description: "Generate the .env file",
		Probe: func(ctx context.Context) (bool, error) {
			_, err := os.Stat(envPath)
			return err == nil, nil
		},
		Run: func(ctx context.Context) error {
			helper := filepath.Join(cfg.CheckoutDir(), cfg.Geonode.EnvHelper)
			if _, err := os.Stat(helper); err != nil {
				return errors.Newf(errors.ErrEnvHelperMissing,
					"env helper %s not found in checkout", cfg.Geonode.EnvHelper)
			}

			_, err := deps.Runner.Run(ctx, execute.Spec{
				Command: "python3",
				Args:    []string{helper, "--hostname", cfg.Geonode.Hostname},
				Dir:     cfg.CheckoutDir(),
			})
			if err != nil {
				return errors.Wrap(err, errors.ErrEnvWrite, "env helper failed")
			}

			updates := make(map[string]string, len(cfg.Database.PasswordKeys))
			for _, key := range cfg.Database.PasswordKeys {
				updates[key] = cfg.Database.Password
			}
			return envfile.PatchFile(envPath, updates)
		},
	}
}
