// Package execute runs external commands (apt, git, docker, npm) on behalf
// of the provisioning steps. All process invocations in geostack go through
// a Runner so steps can be tested without touching the host.
package execute

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/geonode-contrib/geostack/pkg/errors"
	"github.com/geonode-contrib/geostack/pkg/logging"
)

// DefaultTimeout bounds a single external command. Compose builds are slow,
// so this is generous.
const DefaultTimeout = 30 * time.Minute

// Spec describes a single external command invocation.
type Spec struct {
	Command string
	Args    []string
	// Dir is the working directory; empty means inherit.
	Dir string
	// Env entries are appended to the current environment.
	Env map[string]string
	// Stdin, when non-empty, is piped to the process (used for SQL).
	Stdin string
	// Timeout overrides DefaultTimeout when positive.
	Timeout time.Duration
}

// Result carries the captured output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner abstracts process execution for the provisioning steps.
type Runner interface {
	// Run executes the command and returns its captured output.
	// A non-zero exit status yields an ErrCommandExit error alongside
	// the captured Result.
	Run(ctx context.Context, spec Spec) (Result, error)
	// LookPath reports whether an executable is available on PATH.
	LookPath(name string) (string, error)
}

// OSRunner executes commands on the host via os/exec.
type OSRunner struct {
	logger zerolog.Logger
	dryRun bool
}

// NewOSRunner creates a runner. With dryRun set, commands are logged but
// never executed.
func NewOSRunner(dryRun bool) *OSRunner {
	return &OSRunner{
		logger: logging.GetLogger("execute"),
		dryRun: dryRun,
	}
}

// Run implements Runner.
func (r *OSRunner) Run(ctx context.Context, spec Spec) (Result, error) {
	if spec.Command == "" {
		return Result{}, errors.New(errors.ErrInvalidInput, "command must not be empty")
	}

	logging.LogCommand(spec.Command, spec.Args)

	if r.dryRun {
		r.logger.Info().
			Str("command", spec.Command).
			Strs("args", spec.Args).
			Msg("Dry run mode - command would be executed")
		return Result{}, nil
	}

	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, spec.Command, spec.Args...)
	if spec.Dir != "" {
		if _, err := os.Stat(spec.Dir); os.IsNotExist(err) {
			return Result{}, errors.Newf(errors.ErrFileAccess,
				"working directory does not exist: %s", spec.Dir)
		}
		cmd.Dir = spec.Dir
	}

	cmd.Env = os.Environ()
	for key, value := range spec.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
	}

	if spec.Stdin != "" {
		cmd.Stdin = strings.NewReader(spec.Stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	logging.LogDuration(start, spec.Command)

	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			if stderrTail := tail(result.Stderr); stderrTail != "" {
				return result, errors.Wrapf(err, errors.ErrCommandExit,
					"%s exited with status %d: %s", spec.Command, result.ExitCode, stderrTail)
			}
			return result, errors.Wrapf(err, errors.ErrCommandExit,
				"%s exited with status %d", spec.Command, result.ExitCode)
		}
		return result, errors.Wrapf(err, errors.ErrCommandStart,
			"failed to start %s", spec.Command)
	}

	return result, nil
}

// LookPath implements Runner.
func (r *OSRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// tail returns the last non-empty line of s, trimmed.
func tail(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
