package doctor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geonode-contrib/geostack/pkg/config"
	"github.com/geonode-contrib/geostack/pkg/docker"
	"github.com/geonode-contrib/geostack/pkg/testutil"
)

func newTestChecker(t *testing.T) (*Checker, *testutil.FakeRunner) {
	t.Helper()

	runner := testutil.NewFakeRunner()
	for _, tool := range requiredTools {
		runner.Paths[tool] = "/usr/bin/" + tool
	}
	runner.Paths["docker"] = "/usr/bin/docker"

	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Install.Dir = t.TempDir()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	cfg.Docker.GPGKeyURL = server.URL

	return &Checker{
		Config:     cfg,
		Runner:     runner,
		Docker:     docker.NewClient(runner, cfg.Install.Dir),
		Euid:       0,
		SudoUser:   "dev",
		HTTPClient: server.Client(),
	}, runner
}

func findResult(t *testing.T, results []Result, name string) Result {
	t.Helper()
	for _, r := range results {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("no result named %q", name)
	return Result{}
}

func TestRunAllHealthy(t *testing.T) {
	checker, _ := newTestChecker(t)

	checkout := checker.Config.CheckoutDir()
	require.NoError(t, os.MkdirAll(checkout, 0o755))
	testutil.CreateFile(t, checkout, ".env", "GEONODE_DATABASE_PASSWORD=x\n")

	results := checker.Run(context.Background())

	assert.False(t, HasFailures(results))
	for _, r := range results {
		assert.Equal(t, StatusOK, r.Status, "check %s", r.Name)
	}
}

func TestRunNotRoot(t *testing.T) {
	checker, _ := newTestChecker(t)
	checker.Euid = 1000

	results := checker.Run(context.Background())

	priv := findResult(t, results, "privilege")
	assert.Equal(t, StatusWarn, priv.Status)
	assert.Contains(t, priv.Recommendation, "sudo geostack up")
	assert.False(t, HasFailures(results), "missing privilege is a warning, not a failure")
}

func TestRunMissingTool(t *testing.T) {
	checker, runner := newTestChecker(t)
	delete(runner.Paths, "curl")

	results := checker.Run(context.Background())

	curl := findResult(t, results, "tool:curl")
	assert.Equal(t, StatusFail, curl.Status)
	assert.True(t, HasFailures(results))
}

func TestRunDockerNotInstalled(t *testing.T) {
	checker, runner := newTestChecker(t)
	delete(runner.Paths, "docker")

	results := checker.Run(context.Background())

	dockerRes := findResult(t, results, "docker")
	assert.Equal(t, StatusWarn, dockerRes.Status)
	assert.Contains(t, dockerRes.Recommendation, "install Docker Engine")
}

func TestRunDaemonDown(t *testing.T) {
	checker, runner := newTestChecker(t)
	runner.RespondError("docker info", 1, "Cannot connect to the Docker daemon")

	results := checker.Run(context.Background())

	daemon := findResult(t, results, "docker-daemon")
	assert.Equal(t, StatusFail, daemon.Status)
	assert.True(t, HasFailures(results))
}

func TestRunComposeMissing(t *testing.T) {
	checker, runner := newTestChecker(t)
	runner.RespondError("docker compose version", 1, "unknown command")

	results := checker.Run(context.Background())

	compose := findResult(t, results, "compose")
	assert.Equal(t, StatusWarn, compose.Status)
}

func TestRunNetworkUnreachable(t *testing.T) {
	checker, _ := newTestChecker(t)
	checker.Config.Docker.GPGKeyURL = "http://127.0.0.1:1/docker.asc"

	results := checker.Run(context.Background())

	network := findResult(t, results, "network")
	assert.Equal(t, StatusWarn, network.Status)
	assert.False(t, HasFailures(results), "an unreachable repository warns, it does not fail")
}

func TestRunCheckoutMissing(t *testing.T) {
	checker, _ := newTestChecker(t)

	results := checker.Run(context.Background())

	checkout := findResult(t, results, "checkout")
	assert.Equal(t, StatusWarn, checkout.Status)
	for _, r := range results {
		assert.NotEqual(t, "env-file", r.Name, "env-file check is skipped without a checkout")
	}
}

func TestRunEnvFileMissing(t *testing.T) {
	checker, _ := newTestChecker(t)
	require.NoError(t, os.MkdirAll(checker.Config.CheckoutDir(), 0o755))

	results := checker.Run(context.Background())

	env := findResult(t, results, "env-file")
	assert.Equal(t, StatusWarn, env.Status)
	assert.NoFileExists(t, filepath.Join(checker.Config.CheckoutDir(), ".env"))
}
