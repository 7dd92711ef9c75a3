package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/geonode-contrib/geostack/pkg/config"
	"github.com/geonode-contrib/geostack/pkg/errors"
	"github.com/geonode-contrib/geostack/pkg/geoserver"
)

// DatabaseCredentials pipes ALTER USER statements into the db container so
// the database passwords match what the .env file promises the app.
func DatabaseCredentials(deps Deps) Step {
	cfg := deps.Config.Database
	return Step{
		Name:        "db-credentials",
		Description: "Set database passwords",
		RunOnce:     true,
		Run: func(ctx context.Context) error {
			sql := fmt.Sprintf(
				"ALTER USER %s WITH PASSWORD '%s';\nALTER USER %s WITH PASSWORD '%s';\n",
				cfg.GeonodeUser, cfg.Password,
				cfg.GeodataUser, cfg.Password,
			)
			_, err := deps.Docker.ComposeExec(ctx, cfg.Service, sql,
				"psql", "-U", cfg.Superuser, "-v", "ON_ERROR_STOP=1")
			return err
		},
	}
}

// GeoserverPassword rewrites the admin password in the container's user
// registry, copies the patched users.xml back in and restarts the service
// so the registry is re-read. When the container's registry cannot be read
// or does not list the admin user, a fresh minimal registry is written
// instead.
func GeoserverPassword(deps Deps) Step {
	cfg := deps.Config.Geoserver
	return Step{
		Name:        "geoserver-password",
		Description: "Set the GeoServer admin password",
		RunOnce:     true,
		Run: func(ctx context.Context) error {
			content := patchedUsersXML(ctx, deps, cfg)

			tmpDir, err := os.MkdirTemp("", "geostack-users-")
			if err != nil {
				return errors.Wrap(err, errors.ErrFileWrite, "failed to create temp dir")
			}
			defer os.RemoveAll(tmpDir)

			localPath := filepath.Join(tmpDir, "users.xml")
			if err := os.WriteFile(localPath, []byte(content), 0644); err != nil {
				return errors.Wrap(err, errors.ErrFileWrite, "failed to write users.xml")
			}

			if err := deps.Docker.ComposeCopyTo(ctx, localPath, cfg.Service, cfg.UsersXMLPath); err != nil {
				return err
			}
			return deps.Docker.ComposeRestart(ctx, cfg.Service)
		},
	}
}

// patchedUsersXML patches the existing in-container registry when it is
// readable, falling back to a freshly generated one.
func patchedUsersXML(ctx context.Context, deps Deps, cfg config.GeoserverConfig) string {
	result, err := deps.Docker.ComposeExec(ctx, cfg.Service, "", "cat", cfg.UsersXMLPath)
	if err == nil {
		patched, perr := geoserver.SetPassword(result.Stdout, cfg.AdminUser, cfg.AdminPassword)
		if perr == nil {
			return patched
		}
	}
	return geoserver.GenerateUsersXML(cfg.AdminUser, cfg.AdminPassword)
}
