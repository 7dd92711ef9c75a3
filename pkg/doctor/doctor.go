// Package doctor implements preflight checks for the provisioner: the
// privileges, host tools and daemon state an `up` run is about to depend
// on. Checks never mutate the host.
package doctor

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/geonode-contrib/geostack/pkg/config"
	"github.com/geonode-contrib/geostack/pkg/docker"
	"github.com/geonode-contrib/geostack/pkg/execute"
	"github.com/geonode-contrib/geostack/pkg/steps"
)

// Status classifies a single check outcome.
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// Result is one check's outcome.
type Result struct {
	Name           string
	Status         Status
	Message        string
	Recommendation string
}

// Checker runs the preflight checks.
type Checker struct {
	Config   *config.Config
	Runner   execute.Runner
	Docker   *docker.Client
	Euid     int
	SudoUser string

	// HTTPClient is used for the network check. Defaults to a client with
	// a short timeout.
	HTTPClient *http.Client
}

// requiredTools must exist before provisioning starts; docker and npm are
// installed by the run itself and only warrant warnings.
var requiredTools = []string{"apt-get", "dpkg-query", "curl", "git", "python3"}

// Run executes every check and returns the results in order.
func (c *Checker) Run(ctx context.Context) []Result {
	var results []Result
	results = append(results, c.checkPrivilege())
	results = append(results, c.checkTools()...)
	results = append(results, c.checkDocker(ctx)...)
	results = append(results, c.checkNetwork(ctx))
	results = append(results, c.checkCheckout()...)
	return results
}

// HasFailures reports whether any check failed outright.
func HasFailures(results []Result) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}

func (c *Checker) checkPrivilege() Result {
	if err := steps.CheckPrivilege(c.Euid, c.SudoUser); err != nil {
		return Result{
			Name:           "privilege",
			Status:         StatusWarn,
			Message:        err.Error(),
			Recommendation: "run provisioning with: sudo geostack up",
		}
	}
	return Result{
		Name:    "privilege",
		Status:  StatusOK,
		Message: fmt.Sprintf("running as root for user %s", c.SudoUser),
	}
}

func (c *Checker) checkTools() []Result {
	var results []Result
	for _, tool := range requiredTools {
		if _, err := c.Runner.LookPath(tool); err != nil {
			results = append(results, Result{
				Name:           "tool:" + tool,
				Status:         StatusFail,
				Message:        tool + " is not on PATH",
				Recommendation: "install it with apt before provisioning",
			})
			continue
		}
		results = append(results, Result{
			Name:    "tool:" + tool,
			Status:  StatusOK,
			Message: tool + " is available",
		})
	}
	return results
}

func (c *Checker) checkDocker(ctx context.Context) []Result {
	if !c.Docker.EngineInstalled() {
		return []Result{{
			Name:           "docker",
			Status:         StatusWarn,
			Message:        "docker is not installed",
			Recommendation: "geostack up will install Docker Engine",
		}}
	}

	results := []Result{{
		Name:    "docker",
		Status:  StatusOK,
		Message: "docker is installed",
	}}

	if !c.Docker.DaemonRunning(ctx) {
		results = append(results, Result{
			Name:           "docker-daemon",
			Status:         StatusFail,
			Message:        "docker daemon is not answering",
			Recommendation: "start it with: systemctl start docker",
		})
	} else {
		results = append(results, Result{
			Name:    "docker-daemon",
			Status:  StatusOK,
			Message: "docker daemon is running",
		})
	}

	if !c.Docker.ComposeAvailable(ctx) {
		results = append(results, Result{
			Name:           "compose",
			Status:         StatusWarn,
			Message:        "compose plugin is not available",
			Recommendation: "geostack up will install the Compose plugin",
		})
	} else {
		results = append(results, Result{
			Name:    "compose",
			Status:  StatusOK,
			Message: "compose plugin is available",
		})
	}

	return results
}

// checkNetwork probes the Docker apt repository host, the first thing an
// unprovisioned run downloads from.
func (c *Checker) checkNetwork(ctx context.Context) Result {
	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.Config.Docker.GPGKeyURL, nil)
	if err != nil {
		return Result{
			Name:    "network",
			Status:  StatusWarn,
			Message: "invalid Docker repository URL: " + err.Error(),
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return Result{
			Name:           "network",
			Status:         StatusWarn,
			Message:        "cannot reach the Docker apt repository",
			Recommendation: "check network connectivity before provisioning",
		}
	}
	defer func() { _ = resp.Body.Close() }()

	return Result{
		Name:    "network",
		Status:  StatusOK,
		Message: "Docker apt repository is reachable",
	}
}

func (c *Checker) checkCheckout() []Result {
	var results []Result

	checkout := c.Config.CheckoutDir()
	if _, err := os.Stat(checkout); err != nil {
		results = append(results, Result{
			Name:    "checkout",
			Status:  StatusWarn,
			Message: fmt.Sprintf("geonode checkout missing at %s", checkout),
		})
		return results
	}
	results = append(results, Result{
		Name:    "checkout",
		Status:  StatusOK,
		Message: "geonode checkout present at " + checkout,
	})

	if _, err := os.Stat(c.Config.EnvFilePath()); err != nil {
		results = append(results, Result{
			Name:    "env-file",
			Status:  StatusWarn,
			Message: ".env not generated yet",
		})
	} else {
		results = append(results, Result{
			Name:    "env-file",
			Status:  StatusOK,
			Message: ".env present",
		})
	}

	return results
}
