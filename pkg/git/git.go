// Package git clones the geonode repositories. Clones are idempotent: a
// directory that already exists is left alone so partial runs can resume.
package git

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/geonode-contrib/geostack/pkg/errors"
	"github.com/geonode-contrib/geostack/pkg/execute"
	"github.com/geonode-contrib/geostack/pkg/logging"
)

// Cloner performs git clones through a command runner.
type Cloner struct {
	runner execute.Runner
	logger zerolog.Logger
}

// NewCloner creates a Cloner on top of the given runner.
func NewCloner(runner execute.Runner) *Cloner {
	return &Cloner{
		runner: runner,
		logger: logging.GetLogger("git"),
	}
}

// IsCloned reports whether dest already holds a checkout.
func (c *Cloner) IsCloned(dest string) bool {
	info, err := os.Stat(dest)
	return err == nil && info.IsDir()
}

// Clone clones url at branch into dest. When dest exists the clone is
// skipped.
func (c *Cloner) Clone(ctx context.Context, url, branch, dest string) error {
	if c.IsCloned(dest) {
		c.logger.Debug().Str("dest", dest).Msg("Checkout already present, skipping clone")
		return nil
	}

	c.logger.Info().Str("url", url).Str("branch", branch).Str("dest", dest).Msg("Cloning repository")

	args := []string{"clone"}
	if branch != "" {
		args = append(args, "--branch", branch)
	}
	args = append(args, url, dest)

	if _, err := c.runner.Run(ctx, execute.Spec{Command: "git", Args: args}); err != nil {
		return errors.Wrapf(err, errors.ErrGitClone, "failed to clone %s", url)
	}
	return nil
}

// ChownTree hands a checkout back to the invoking sudo user so the
// developer can work in it without root.
func (c *Cloner) ChownTree(ctx context.Context, path, owner string) error {
	if owner == "" {
		return errors.New(errors.ErrNoSudoUser, "no owner to chown to")
	}

	_, err := c.runner.Run(ctx, execute.Spec{
		Command: "chown",
		Args:    []string{"-R", owner + ":" + owner, path},
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrChown, "failed to chown %s to %s", path, owner)
	}
	return nil
}
