package steps

import (
	"context"
	"path/filepath"

	"github.com/geonode-contrib/geostack/pkg/apt"
	"github.com/geonode-contrib/geostack/pkg/execute"
)

// ClientCheckout clones the mapstore client and compiles its assets with
// npm. Skipped when the checkout exists.
func ClientCheckout(deps Deps) Step {
	cfg := deps.Config
	dest := cfg.ClientCheckoutDir()
	return Step{
		Name:        "client-checkout",
		Description: "Clone and build the mapstore client",
		Optional:    true,
		Probe: func(ctx context.Context) (bool, error) {
			return deps.Git.IsCloned(dest), nil
		},
		Run: func(ctx context.Context) error {
			if err := deps.Git.Clone(ctx, cfg.Client.RepoURL, cfg.Client.Branch, dest); err != nil {
				return err
			}
			if err := deps.Git.ChownTree(ctx, dest, deps.SudoUser); err != nil {
				return err
			}

			clientDir := filepath.Join(dest, cfg.Client.ClientDir)
			if _, err := deps.Runner.Run(ctx, execute.Spec{
				Command: "npm",
				Args:    []string{"install"},
				Dir:     clientDir,
			}); err != nil {
				return err
			}
			_, err := deps.Runner.Run(ctx, execute.Spec{
				Command: "npm",
				Args:    []string{"run", "compile"},
				Dir:     clientDir,
			})
			return err
		},
	}
}

// Editor installs the editor from its vendor apt repository. Skipped when
// the package is already installed.
func Editor(deps Deps) Step {
	cfg := deps.Config.Editor
	return Step{
		Name:        "editor",
		Description: "Install the editor",
		Optional:    true,
		Probe: func(ctx context.Context) (bool, error) {
			return deps.Apt.IsInstalled(ctx, cfg.Package)
		},
		Run: func(ctx context.Context) error {
			arch, err := deps.Apt.HostArch(ctx)
			if err != nil {
				return err
			}
			repo := apt.Repository{
				Name:        "editor",
				GPGKeyURL:   cfg.GPGKeyURL,
				KeyringPath: cfg.KeyringPath,
				SourcePath:  cfg.AptSourcePath,
				SourceLine:  apt.EditorSourceLine(arch, cfg.KeyringPath),
			}
			if !deps.Apt.HasSource(repo) {
				if err := deps.Apt.AddRepository(ctx, repo); err != nil {
					return err
				}
			}
			if err := deps.Apt.Update(ctx); err != nil {
				return err
			}
			return deps.Apt.Install(ctx, cfg.Package)
		},
	}
}
