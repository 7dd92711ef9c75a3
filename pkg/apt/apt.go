// Package apt wraps the Debian package tooling used by the provisioning
// steps: per-package presence probes, apt-get installs, and the keyring +
// sources.list.d entries needed for the Docker and editor repositories.
package apt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/geonode-contrib/geostack/pkg/errors"
	"github.com/geonode-contrib/geostack/pkg/execute"
	"github.com/geonode-contrib/geostack/pkg/logging"
)

// Manager drives apt-get and dpkg through a command runner.
type Manager struct {
	runner execute.Runner
	logger zerolog.Logger
	dryRun bool
}

// NewManager creates a Manager on top of the given runner.
func NewManager(runner execute.Runner, dryRun bool) *Manager {
	return &Manager{
		runner: runner,
		logger: logging.GetLogger("apt"),
		dryRun: dryRun,
	}
}

// IsInstalled probes a single package with dpkg-query.
func (m *Manager) IsInstalled(ctx context.Context, pkg string) (bool, error) {
	result, err := m.runner.Run(ctx, execute.Spec{
		Command: "dpkg-query",
		Args:    []string{"-W", "-f", "${Status}", pkg},
	})
	if err != nil {
		// dpkg-query exits non-zero for unknown packages
		if errors.IsErrorCode(err, errors.ErrCommandExit) {
			return false, nil
		}
		return false, err
	}
	return strings.Contains(result.Stdout, "install ok installed"), nil
}

// Missing filters the given package list down to those not installed.
func (m *Manager) Missing(ctx context.Context, pkgs []string) ([]string, error) {
	var missing []string
	for _, pkg := range pkgs {
		installed, err := m.IsInstalled(ctx, pkg)
		if err != nil {
			return nil, err
		}
		if !installed {
			missing = append(missing, pkg)
		}
	}
	return missing, nil
}

// Update refreshes the package index.
func (m *Manager) Update(ctx context.Context) error {
	_, err := m.runner.Run(ctx, execute.Spec{
		Command: "apt-get",
		Args:    []string{"update", "-qq"},
		Env:     map[string]string{"DEBIAN_FRONTEND": "noninteractive"},
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrAptInstall, "apt-get update failed")
	}
	return nil
}

// Install installs the given packages non-interactively.
func (m *Manager) Install(ctx context.Context, pkgs ...string) error {
	if len(pkgs) == 0 {
		return nil
	}

	m.logger.Info().Strs("packages", pkgs).Msg("Installing packages")

	args := append([]string{"install", "-y", "-qq"}, pkgs...)
	_, err := m.runner.Run(ctx, execute.Spec{
		Command: "apt-get",
		Args:    args,
		Env:     map[string]string{"DEBIAN_FRONTEND": "noninteractive"},
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrAptInstall, "failed to install %s", strings.Join(pkgs, " "))
	}
	return nil
}

// Repository describes an external apt repository: where its signing key
// comes from, where the key and source entry are written, and the deb line.
type Repository struct {
	Name        string
	GPGKeyURL   string
	KeyringPath string
	SourcePath  string
	SourceLine  string
}

// HasSource reports whether the repository's sources.list.d entry exists.
func (m *Manager) HasSource(repo Repository) bool {
	_, err := os.Stat(repo.SourcePath)
	return err == nil
}

// AddRepository downloads the signing key, writes it to the keyring path
// and creates the sources.list.d entry. Both writes are skipped in dry-run.
func (m *Manager) AddRepository(ctx context.Context, repo Repository) error {
	m.logger.Info().
		Str("repository", repo.Name).
		Str("source", repo.SourcePath).
		Msg("Adding apt repository")

	key, err := m.runner.Run(ctx, execute.Spec{
		Command: "curl",
		Args:    []string{"-fsSL", repo.GPGKeyURL},
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrAptSource, "failed to download signing key for %s", repo.Name)
	}

	if m.dryRun {
		m.logger.Info().Str("repository", repo.Name).Msg("Dry run mode - repository files would be written")
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(repo.KeyringPath), 0755); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "failed to create keyring directory")
	}
	if err := os.WriteFile(repo.KeyringPath, []byte(key.Stdout), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrAptSource, "failed to write keyring %s", repo.KeyringPath)
	}

	if err := os.MkdirAll(filepath.Dir(repo.SourcePath), 0755); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "failed to create sources.list.d")
	}
	line := repo.SourceLine
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	if err := os.WriteFile(repo.SourcePath, []byte(line), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrAptSource, "failed to write source %s", repo.SourcePath)
	}

	return nil
}

// DockerSourceLine builds the deb entry for the Docker repository on the
// host's architecture and release codename.
func DockerSourceLine(arch, codename, keyringPath string) string {
	return fmt.Sprintf("deb [arch=%s signed-by=%s] https://download.docker.com/linux/ubuntu %s stable",
		arch, keyringPath, codename)
}

// EditorSourceLine builds the deb entry for the VS Code repository.
func EditorSourceLine(arch, keyringPath string) string {
	return fmt.Sprintf("deb [arch=%s signed-by=%s] https://packages.microsoft.com/repos/code stable main",
		arch, keyringPath)
}

// HostArch returns the dpkg architecture of the host.
func (m *Manager) HostArch(ctx context.Context) (string, error) {
	result, err := m.runner.Run(ctx, execute.Spec{
		Command: "dpkg",
		Args:    []string{"--print-architecture"},
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrAptSource, "failed to detect architecture")
	}
	return strings.TrimSpace(result.Stdout), nil
}

// HostCodename returns the release codename from lsb_release.
func (m *Manager) HostCodename(ctx context.Context) (string, error) {
	result, err := m.runner.Run(ctx, execute.Spec{
		Command: "lsb_release",
		Args:    []string{"-cs"},
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrAptSource, "failed to detect release codename")
	}
	return strings.TrimSpace(result.Stdout), nil
}
