package steps

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geonode-contrib/geostack/pkg/execute"
)

func TestDatabaseCredentialsRun(t *testing.T) {
	deps, runner := newTestDeps(t)

	step := DatabaseCredentials(deps)
	require.NoError(t, step.Run(context.Background()))

	require.Len(t, runner.Calls, 1)
	call := runner.Calls[0]
	assert.Equal(t, "docker", call.Command)
	assert.Equal(t, []string{"compose", "exec", "-T", "db",
		"psql", "-U", "postgres", "-v", "ON_ERROR_STOP=1"}, call.Args)
	assert.Contains(t, call.Stdin, "ALTER USER geonode WITH PASSWORD 'geonode';")
	assert.Contains(t, call.Stdin, "ALTER USER geonode_data WITH PASSWORD 'geonode';")
}

func TestDatabaseCredentialsFailure(t *testing.T) {
	deps, runner := newTestDeps(t)
	runner.RespondError("docker compose exec -T db", 1, `psql: error: connection refused`)

	step := DatabaseCredentials(deps)
	assert.Error(t, step.Run(context.Background()))
}

func TestGeoserverPasswordRun(t *testing.T) {
	deps, runner := newTestDeps(t)

	step := GeoserverPassword(deps)
	require.NoError(t, step.Run(context.Background()))

	lines := runner.CommandLines()
	require.Len(t, lines, 3)
	assert.Equal(t, "docker compose exec -T geoserver cat "+
		"/geoserver_data/data/security/usergroup/default/users.xml", lines[0])
	assert.Contains(t, lines[1], "docker compose cp ")
	assert.Contains(t, lines[1],
		"geoserver:/geoserver_data/data/security/usergroup/default/users.xml")
	assert.Equal(t, "docker compose restart geoserver", lines[2])
}

func TestGeoserverPasswordPatchesExistingRegistry(t *testing.T) {
	deps, runner := newTestDeps(t)
	registry := `<?xml version="1.0" encoding="UTF-8"?>
<userRegistry xmlns="http://www.geoserver.org/security/users" version="1.0">
    <users>
        <user enabled="true" name="admin" password="crypt1:old"/>
        <user enabled="true" name="reader" password="plain:reader"/>
    </users>
    <groups/>
</userRegistry>`
	runner.Respond("docker compose exec -T geoserver cat",
		execute.Result{Stdout: registry}, nil)

	content := patchedUsersXML(context.Background(), deps, deps.Config.Geoserver)

	assert.Contains(t, content, `name="admin" password="plain:geoserver"`)
	assert.Contains(t, content, `name="reader" password="plain:reader"`,
		"other users survive the patch")
}

func TestGeoserverPasswordFallsBackToFreshRegistry(t *testing.T) {
	deps, runner := newTestDeps(t)
	runner.RespondError("docker compose exec -T geoserver cat", 1, "No such file or directory")

	content := patchedUsersXML(context.Background(), deps, deps.Config.Geoserver)
	assert.Contains(t, content, `name="admin"`)
	assert.Contains(t, content, `password="plain:geoserver"`)

	step := GeoserverPassword(deps)
	require.NoError(t, step.Run(context.Background()))
	assert.True(t, runner.CalledWith("docker compose cp"))
	assert.True(t, runner.CalledWith("docker compose restart geoserver"))
}

func TestGeoserverPasswordCopyFailureSkipsRestart(t *testing.T) {
	deps, runner := newTestDeps(t)
	runner.RespondError("docker compose cp", 1, "no such container")

	step := GeoserverPassword(deps)
	require.Error(t, step.Run(context.Background()))
	assert.False(t, runner.CalledWith("docker compose restart"))
}
