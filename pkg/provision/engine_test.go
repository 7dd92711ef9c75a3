package provision

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geonode-contrib/geostack/pkg/errors"
	"github.com/geonode-contrib/geostack/pkg/state"
	"github.com/geonode-contrib/geostack/pkg/steps"
)

func newTestEngine(t *testing.T, dryRun, force bool) *Engine {
	t.Helper()
	store := state.New(filepath.Join(t.TempDir(), "sentinels"))
	return NewEngine(store, dryRun, force)
}

func runStep(name string, ran *[]string) steps.Step {
	return steps.Step{
		Name: name,
		Run: func(context.Context) error {
			*ran = append(*ran, name)
			return nil
		},
	}
}

func TestRunExecutesInOrder(t *testing.T) {
	e := newTestEngine(t, false, false)

	var ran []string
	sequence := []steps.Step{runStep("one", &ran), runStep("two", &ran), runStep("three", &ran)}

	result, err := e.Run(context.Background(), sequence)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, ran)
	assert.False(t, result.Failed())
	for _, s := range result.Steps {
		assert.Equal(t, StatusRan, s.Status)
	}
}

func TestRunAbortsOnFirstFailure(t *testing.T) {
	e := newTestEngine(t, false, false)

	var ran []string
	sequence := []steps.Step{
		runStep("one", &ran),
		{
			Name: "boom",
			Run:  func(context.Context) error { return fmt.Errorf("exploded") },
		},
		runStep("never", &ran),
	}

	result, err := e.Run(context.Background(), sequence)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStepRun))
	assert.Equal(t, []string{"one"}, ran)
	assert.True(t, result.Failed())
	require.Len(t, result.Steps, 2)
	assert.Equal(t, StatusFailed, result.Steps[1].Status)
}

func TestRunWarnOnlyContinues(t *testing.T) {
	e := newTestEngine(t, false, false)

	var ran []string
	sequence := []steps.Step{
		{
			Name:     "compose-up",
			WarnOnly: true,
			Run:      func(context.Context) error { return fmt.Errorf("startup flake") },
		},
		runStep("after", &ran),
	}

	result, err := e.Run(context.Background(), sequence)
	require.NoError(t, err)
	assert.Equal(t, []string{"after"}, ran)
	assert.False(t, result.Failed())
	assert.Equal(t, StatusWarned, result.Steps[0].Status)
	assert.Error(t, result.Steps[0].Err)
}

func TestRunSkipsSatisfiedProbe(t *testing.T) {
	e := newTestEngine(t, false, false)

	runs := 0
	sequence := []steps.Step{{
		Name:  "docker-engine",
		Probe: func(context.Context) (bool, error) { return true, nil },
		Run:   func(context.Context) error { runs++; return nil },
	}}

	result, err := e.Run(context.Background(), sequence)
	require.NoError(t, err)
	assert.Equal(t, 0, runs)
	assert.Equal(t, StatusSkipped, result.Steps[0].Status)
}

func TestRunProbeErrorAborts(t *testing.T) {
	e := newTestEngine(t, false, false)

	sequence := []steps.Step{{
		Name:  "docker-engine",
		Probe: func(context.Context) (bool, error) { return false, fmt.Errorf("dpkg broken") },
		Run:   func(context.Context) error { return nil },
	}}

	_, err := e.Run(context.Background(), sequence)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStepProbe))
}

func TestRunOnceSentinel(t *testing.T) {
	store := state.New(filepath.Join(t.TempDir(), "sentinels"))
	e := NewEngine(store, false, false)

	runs := 0
	sequence := []steps.Step{{
		Name:    "compose-build",
		RunOnce: true,
		Run:     func(context.Context) error { runs++; return nil },
	}}

	// First pass runs and records
	result, err := e.Run(context.Background(), sequence)
	require.NoError(t, err)
	assert.Equal(t, 1, runs)
	assert.Equal(t, StatusRan, result.Steps[0].Status)

	// Second pass is skipped via sentinel
	result, err = e.Run(context.Background(), sequence)
	require.NoError(t, err)
	assert.Equal(t, 1, runs)
	assert.Equal(t, StatusAlreadyRun, result.Steps[0].Status)
}

func TestForceIgnoresSentinelButNotProbe(t *testing.T) {
	store := state.New(filepath.Join(t.TempDir(), "sentinels"))
	require.NoError(t, store.RecordStep("compose-build"))

	e := NewEngine(store, false, true)

	runs := 0
	sequence := []steps.Step{
		{
			Name:    "compose-build",
			RunOnce: true,
			Run:     func(context.Context) error { runs++; return nil },
		},
		{
			Name:  "docker-engine",
			Probe: func(context.Context) (bool, error) { return true, nil },
			Run:   func(context.Context) error { runs++; return nil },
		},
	}

	result, err := e.Run(context.Background(), sequence)
	require.NoError(t, err)
	// sentinel ignored, probe respected
	assert.Equal(t, 1, runs)
	assert.Equal(t, StatusRan, result.Steps[0].Status)
	assert.Equal(t, StatusSkipped, result.Steps[1].Status)
}

func TestDryRunRunsNothing(t *testing.T) {
	e := newTestEngine(t, true, false)

	runs := 0
	sequence := []steps.Step{{
		Name: "clone-geonode",
		Run:  func(context.Context) error { runs++; return nil },
	}}

	result, err := e.Run(context.Background(), sequence)
	require.NoError(t, err)
	assert.Equal(t, 0, runs)
	assert.Equal(t, StatusWouldRun, result.Steps[0].Status)
}

func TestOnStepCallback(t *testing.T) {
	e := newTestEngine(t, false, false)

	var seen []string
	e.OnStep(func(r StepResult) { seen = append(seen, r.Name+":"+string(r.Status)) })

	var ran []string
	sequence := []steps.Step{
		runStep("one", &ran),
		{
			Name: "boom",
			Run:  func(context.Context) error { return fmt.Errorf("nope") },
		},
	}

	_, err := e.Run(context.Background(), sequence)
	require.Error(t, err)
	assert.Equal(t, []string{"one:ran", "boom:failed"}, seen)
}

func TestStatus(t *testing.T) {
	store := state.New(filepath.Join(t.TempDir(), "sentinels"))
	require.NoError(t, store.RecordStep("compose-build"))

	e := NewEngine(store, false, false)

	sequence := []steps.Step{
		{
			Name:  "docker-engine",
			Probe: func(context.Context) (bool, error) { return true, nil },
		},
		{
			Name:  "clone-geonode",
			Probe: func(context.Context) (bool, error) { return false, nil },
		},
		{Name: "compose-build", RunOnce: true},
		{Name: "db-credentials", RunOnce: true},
		{Name: "wait-web"},
	}

	results, err := e.Status(context.Background(), sequence)
	require.NoError(t, err)
	require.Len(t, results, 5)
	assert.Equal(t, StatusSkipped, results[0].Status)
	assert.Equal(t, StatusPending, results[1].Status)
	assert.Equal(t, StatusAlreadyRun, results[2].Status)
	assert.Equal(t, StatusPending, results[3].Status)
	assert.Equal(t, StatusAlways, results[4].Status)
}
