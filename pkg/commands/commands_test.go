package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geonode-contrib/geostack/pkg/config"
	"github.com/geonode-contrib/geostack/pkg/doctor"
	"github.com/geonode-contrib/geostack/pkg/execute"
	"github.com/geonode-contrib/geostack/pkg/provision"
	"github.com/geonode-contrib/geostack/pkg/state"
	"github.com/geonode-contrib/geostack/pkg/testutil"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Install.Dir = t.TempDir()
	return cfg
}

func TestUpDryRunReportsEveryStep(t *testing.T) {
	cfg := newTestConfig(t)
	runner := testutil.NewFakeRunner()
	store := state.New(filepath.Join(t.TempDir(), "sentinels"))

	var seen []string
	result, err := Up(context.Background(), UpOptions{
		Config:   cfg,
		Runner:   runner,
		Store:    store,
		DryRun:   true,
		SudoUser: "dev",
		OnStep: func(r provision.StepResult) {
			seen = append(seen, r.Name)
		},
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.Failed())
	assert.Len(t, seen, len(result.Steps))
	for _, step := range result.Steps {
		assert.Equal(t, provision.StatusWouldRun, step.Status, "step %s", step.Name)
	}
}

func TestUpOptionalSteps(t *testing.T) {
	cfg := newTestConfig(t)
	runner := testutil.NewFakeRunner()
	store := state.New(filepath.Join(t.TempDir(), "sentinels"))

	base, err := Up(context.Background(), UpOptions{
		Config: cfg, Runner: runner, Store: store,
		DryRun: true, SkipClient: true, SudoUser: "dev",
	})
	require.NoError(t, err)

	full, err := Up(context.Background(), UpOptions{
		Config: cfg, Runner: runner, Store: store,
		DryRun: true, WithEditor: true, SudoUser: "dev",
	})
	require.NoError(t, err)

	assert.Len(t, full.Steps, len(base.Steps)+2, "client checkout and editor extend the sequence")
}

func TestStatusWithoutStack(t *testing.T) {
	cfg := newTestConfig(t)
	runner := testutil.NewFakeRunner()
	store := state.New(filepath.Join(t.TempDir(), "sentinels"))

	result, err := Status(context.Background(), StatusOptions{
		Config: cfg, Runner: runner, Store: store, SudoUser: "dev",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Steps)
	assert.Empty(t, result.Services, "no compose stack, no services")
	assert.False(t, runner.CalledWith("docker compose ps"))
}

func TestStatusListsServices(t *testing.T) {
	cfg := newTestConfig(t)
	runner := testutil.NewFakeRunner()
	runner.Paths["docker"] = "/usr/bin/docker"
	store := state.New(filepath.Join(t.TempDir(), "sentinels"))

	checkout := cfg.CheckoutDir()
	require.NoError(t, os.MkdirAll(checkout, 0o755))
	testutil.CreateFile(t, checkout, "docker-compose.yml", "services:\n  db: {}\n  django: {}\n")
	runner.Respond("docker compose ps",
		execute.Result{Stdout: "geonode-db-1\tdb\trunning\ngeonode-django-1\tdjango\trunning\n"}, nil)

	result, err := Status(context.Background(), StatusOptions{
		Config: cfg, Runner: runner, Store: store, SudoUser: "dev",
	})

	require.NoError(t, err)
	require.Len(t, result.Services, 2)
	assert.Equal(t, "db", result.Services[0].Service)
}

func TestStatusListsDefinedServicesBeforeFirstUp(t *testing.T) {
	cfg := newTestConfig(t)
	runner := testutil.NewFakeRunner()
	store := state.New(filepath.Join(t.TempDir(), "sentinels"))

	checkout := cfg.CheckoutDir()
	require.NoError(t, os.MkdirAll(checkout, 0o755))
	testutil.CreateFile(t, checkout, "docker-compose.yml", "services:\n  db: {}\n  django: {}\n  geoserver: {}\n")

	result, err := Status(context.Background(), StatusOptions{
		Config: cfg, Runner: runner, Store: store, SudoUser: "dev",
	})

	require.NoError(t, err)
	require.Len(t, result.Services, 3)
	for _, svc := range result.Services {
		assert.Equal(t, "not created", svc.State, "service %s", svc.Service)
	}
	assert.False(t, runner.CalledWith("docker compose ps"), "no engine, no ps call")
}

func TestStatusMergesRunningState(t *testing.T) {
	cfg := newTestConfig(t)
	runner := testutil.NewFakeRunner()
	runner.Paths["docker"] = "/usr/bin/docker"
	store := state.New(filepath.Join(t.TempDir(), "sentinels"))

	checkout := cfg.CheckoutDir()
	require.NoError(t, os.MkdirAll(checkout, 0o755))
	testutil.CreateFile(t, checkout, "docker-compose.yml", "services:\n  db: {}\n  django: {}\n")
	runner.Respond("docker compose ps",
		execute.Result{Stdout: "geonode-db-1\tdb\trunning\n"}, nil)

	result, err := Status(context.Background(), StatusOptions{
		Config: cfg, Runner: runner, Store: store, SudoUser: "dev",
	})

	require.NoError(t, err)
	require.Len(t, result.Services, 2)
	assert.Equal(t, "running", result.Services[0].State)
	assert.Equal(t, "geonode-db-1", result.Services[0].Name)
	assert.Equal(t, "not created", result.Services[1].State)
}

func TestDownWithoutStack(t *testing.T) {
	cfg := newTestConfig(t)
	runner := testutil.NewFakeRunner()
	store := state.New(filepath.Join(t.TempDir(), "sentinels"))

	result, err := Down(context.Background(), DownOptions{
		Config: cfg, Runner: runner, Store: store,
	})

	require.NoError(t, err)
	assert.False(t, result.StackStopped)
	assert.False(t, runner.CalledWith("docker compose"))
}

func TestDownStopsStackAndClearsState(t *testing.T) {
	cfg := newTestConfig(t)
	runner := testutil.NewFakeRunner()
	runner.Paths["docker"] = "/usr/bin/docker"
	store := state.New(filepath.Join(t.TempDir(), "sentinels"))
	require.NoError(t, store.RecordStep("compose-build"))

	checkout := cfg.CheckoutDir()
	require.NoError(t, os.MkdirAll(checkout, 0o755))
	testutil.CreateFile(t, checkout, "docker-compose.yml", "services:\n  db: {}\n")

	result, err := Down(context.Background(), DownOptions{
		Config: cfg, Runner: runner, Store: store, ClearState: true,
	})

	require.NoError(t, err)
	assert.True(t, result.StackStopped)
	assert.True(t, result.StateCleared)
	assert.True(t, runner.CalledWith("docker compose down"))

	done, err := store.HasStep("compose-build")
	require.NoError(t, err)
	assert.False(t, done, "sentinels cleared")
}

func TestDoctorReportsChecks(t *testing.T) {
	cfg := newTestConfig(t)
	runner := testutil.NewFakeRunner()

	results, err := Doctor(context.Background(), DoctorOptions{
		Config: cfg, Runner: runner, Euid: 1000, SudoUser: "",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, results)
	assert.True(t, doctor.HasFailures(results), "no tools on PATH fails the checks")
}

func TestGenConfigContent(t *testing.T) {
	result, err := GenConfig(GenConfigOptions{})
	require.NoError(t, err)

	assert.Contains(t, result.Content, "[install]")
	assert.Contains(t, result.Content, "[geoserver]")
	assert.False(t, result.Written)

	var cfg config.Config
	require.NoError(t, toml.Unmarshal([]byte(result.Content), &cfg))
	want, err := config.Default()
	require.NoError(t, err)
	assert.Equal(t, *want, cfg, "rendered config round-trips to the defaults")
}

func TestGenConfigWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geostack.toml")

	result, err := GenConfig(GenConfigOptions{Write: true, Path: path})
	require.NoError(t, err)
	assert.True(t, result.Written)
	assert.FileExists(t, path)

	// A second write never clobbers the existing file.
	require.NoError(t, os.WriteFile(path, []byte("# edited\n"), 0o644))
	again, err := GenConfig(GenConfigOptions{Write: true, Path: path})
	require.NoError(t, err)
	assert.False(t, again.Written)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# edited\n", string(content))
}
