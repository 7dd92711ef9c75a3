// Package docker wraps the Docker CLI and the Compose plugin for the
// provisioned geonode checkout. All invocations run `docker compose` with
// the checkout as the project directory, matching the upstream
// docker-compose.yml the project ships.
package docker

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/geonode-contrib/geostack/pkg/errors"
	"github.com/geonode-contrib/geostack/pkg/execute"
	"github.com/geonode-contrib/geostack/pkg/logging"
)

// Client drives docker and docker compose through a command runner.
type Client struct {
	runner     execute.Runner
	logger     zerolog.Logger
	projectDir string
}

// NewClient creates a Client for the compose project at projectDir.
func NewClient(runner execute.Runner, projectDir string) *Client {
	return &Client{
		runner:     runner,
		logger:     logging.GetLogger("docker"),
		projectDir: projectDir,
	}
}

// EngineInstalled reports whether the docker binary is on PATH.
func (c *Client) EngineInstalled() bool {
	_, err := c.runner.LookPath("docker")
	return err == nil
}

// ComposeAvailable reports whether the compose plugin responds.
func (c *Client) ComposeAvailable(ctx context.Context) bool {
	_, err := c.runner.Run(ctx, execute.Spec{
		Command: "docker",
		Args:    []string{"compose", "version"},
	})
	return err == nil
}

// DaemonRunning reports whether the docker daemon answers.
func (c *Client) DaemonRunning(ctx context.Context) bool {
	_, err := c.runner.Run(ctx, execute.Spec{
		Command: "docker",
		Args:    []string{"info"},
	})
	return err == nil
}

// ComposeBuild builds the project images.
func (c *Client) ComposeBuild(ctx context.Context) error {
	c.logger.Info().Str("projectDir", c.projectDir).Msg("Building compose project")

	if _, err := c.runner.Run(ctx, c.composeSpec("build")); err != nil {
		return errors.Wrap(err, errors.ErrComposeBuild, "docker compose build failed")
	}
	return nil
}

// ComposeUp starts the project detached.
func (c *Client) ComposeUp(ctx context.Context) error {
	c.logger.Info().Str("projectDir", c.projectDir).Msg("Starting compose project")

	if _, err := c.runner.Run(ctx, c.composeSpec("up", "-d")); err != nil {
		return errors.Wrap(err, errors.ErrComposeUp, "docker compose up failed")
	}
	return nil
}

// ComposeDown stops the project and removes its containers.
func (c *Client) ComposeDown(ctx context.Context) error {
	c.logger.Info().Str("projectDir", c.projectDir).Msg("Stopping compose project")

	if _, err := c.runner.Run(ctx, c.composeSpec("down")); err != nil {
		return errors.Wrap(err, errors.ErrComposeDown, "docker compose down failed")
	}
	return nil
}

// ComposeRestart restarts the named services, or the whole project when
// none are given.
func (c *Client) ComposeRestart(ctx context.Context, services ...string) error {
	c.logger.Info().Strs("services", services).Msg("Restarting compose services")

	args := append([]string{"restart"}, services...)
	if _, err := c.runner.Run(ctx, c.composeSpec(args...)); err != nil {
		return errors.Wrap(err, errors.ErrComposeRestart, "docker compose restart failed")
	}
	return nil
}

// ComposeExec runs a command inside a service container, optionally piping
// stdin into it (used to feed SQL to psql).
func (c *Client) ComposeExec(ctx context.Context, service, stdin string, cmd ...string) (execute.Result, error) {
	args := append([]string{"exec", "-T", service}, cmd...)
	spec := c.composeSpec(args...)
	spec.Stdin = stdin

	result, err := c.runner.Run(ctx, spec)
	if err != nil {
		return result, errors.Wrapf(err, errors.ErrComposeExec, "docker compose exec %s failed", service)
	}
	return result, nil
}

// ComposeCopyTo copies a local file into a service container.
func (c *Client) ComposeCopyTo(ctx context.Context, localPath, service, containerPath string) error {
	if _, err := c.runner.Run(ctx, c.composeSpec("cp", localPath, service+":"+containerPath)); err != nil {
		return errors.Wrapf(err, errors.ErrComposeExec, "docker compose cp to %s failed", service)
	}
	return nil
}

// ServiceState describes one running compose service.
type ServiceState struct {
	Name    string
	Service string
	State   string
}

// PS lists the project's containers via `docker compose ps`.
func (c *Client) PS(ctx context.Context) ([]ServiceState, error) {
	result, err := c.runner.Run(ctx, c.composeSpec("ps", "--all", "--format", "{{.Name}}\t{{.Service}}\t{{.State}}"))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrComposeExec, "docker compose ps failed")
	}

	var states []ServiceState
	for _, line := range strings.Split(strings.TrimSpace(result.Stdout), "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			continue
		}
		states = append(states, ServiceState{
			Name:    fields[0],
			Service: fields[1],
			State:   fields[2],
		})
	}
	return states, nil
}

func (c *Client) composeSpec(args ...string) execute.Spec {
	return execute.Spec{
		Command: "docker",
		Args:    append([]string{"compose"}, args...),
		Dir:     c.projectDir,
	}
}
