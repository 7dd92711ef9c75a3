package steps

import (
	"context"

	"github.com/geonode-contrib/geostack/pkg/apt"
)

// dockerRepository describes the Docker apt repository from config; the
// source line needs the host's architecture and codename, resolved at run
// time.
func dockerRepository(ctx context.Context, deps Deps) (apt.Repository, error) {
	arch, err := deps.Apt.HostArch(ctx)
	if err != nil {
		return apt.Repository{}, err
	}
	codename, err := deps.Apt.HostCodename(ctx)
	if err != nil {
		return apt.Repository{}, err
	}

	cfg := deps.Config.Docker
	return apt.Repository{
		Name:        "docker",
		GPGKeyURL:   cfg.GPGKeyURL,
		KeyringPath: cfg.KeyringPath,
		SourcePath:  cfg.AptSourcePath,
		SourceLine:  apt.DockerSourceLine(arch, codename, cfg.KeyringPath),
	}, nil
}

// DockerEngine sets up the Docker apt repository and installs the engine.
// Skipped when the docker binary is already on PATH.
func DockerEngine(deps Deps) Step {
	return Step{
		Name:        "docker-engine",
		Description: "Install Docker Engine",
		Probe: func(ctx context.Context) (bool, error) {
			return deps.Docker.EngineInstalled(), nil
		},
		Run: func(ctx context.Context) error {
			repo, err := dockerRepository(ctx, deps)
			if err != nil {
				return err
			}
			if !deps.Apt.HasSource(repo) {
				if err := deps.Apt.AddRepository(ctx, repo); err != nil {
					return err
				}
			}
			if err := deps.Apt.Update(ctx); err != nil {
				return err
			}
			return deps.Apt.Install(ctx, deps.Config.Docker.Packages...)
		},
	}
}

// ComposePlugin installs the Compose plugin. Skipped when `docker compose`
// already answers.
func ComposePlugin(deps Deps) Step {
	return Step{
		Name:        "compose-plugin",
		Description: "Install Docker Compose plugin",
		Probe: func(ctx context.Context) (bool, error) {
			return deps.Docker.EngineInstalled() && deps.Docker.ComposeAvailable(ctx), nil
		},
		Run: func(ctx context.Context) error {
			return deps.Apt.Install(ctx, deps.Config.Docker.ComposePackages...)
		},
	}
}
