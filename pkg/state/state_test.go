package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndHasStep(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "sentinels"))

	has, err := store.HasStep("docker-engine")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, store.RecordStep("docker-engine"))

	has, err = store.HasStep("docker-engine")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestSentinelPayloadHasTimestamp(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sentinels")
	store := New(dir)

	require.NoError(t, store.RecordStep("env-file"))

	content, err := os.ReadFile(filepath.Join(dir, "env-file"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "completed=")
}

func TestClearStep(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "sentinels"))

	require.NoError(t, store.RecordStep("geoserver-password"))
	require.NoError(t, store.ClearStep("geoserver-password"))

	has, err := store.HasStep("geoserver-password")
	require.NoError(t, err)
	assert.False(t, has)

	// Clearing a missing sentinel is not an error
	require.NoError(t, store.ClearStep("geoserver-password"))
}

func TestClearAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sentinels")
	store := New(dir)

	require.NoError(t, store.RecordStep("a"))
	require.NoError(t, store.RecordStep("b"))
	require.NoError(t, store.ClearAll())

	for _, name := range []string{"a", "b"} {
		has, err := store.HasStep(name)
		require.NoError(t, err)
		assert.False(t, has)
	}
}

func TestRecordStepIsIdempotent(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "sentinels"))

	require.NoError(t, store.RecordStep("clone-geonode"))
	require.NoError(t, store.RecordStep("clone-geonode"))

	has, err := store.HasStep("clone-geonode")
	require.NoError(t, err)
	assert.True(t, has)
}
