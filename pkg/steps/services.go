package steps

import (
	"context"

	"github.com/geonode-contrib/geostack/pkg/readiness"
)

// ComposeBuild builds the project images. Tracked by a sentinel: compose
// itself caches layers, but a full rebuild on every rerun is what the
// sentinel avoids.
func ComposeBuild(deps Deps) Step {
	return Step{
		Name:        "compose-build",
		Description: "Build container images",
		RunOnce:     true,
		Run: func(ctx context.Context) error {
			return deps.Docker.ComposeBuild(ctx)
		},
	}
}

// ComposeUp starts the stack detached. A failure here is downgraded to a
// warning: the containers often need another restart cycle before the
// stack settles, and the readiness polls below catch a stack that never
// comes up.
func ComposeUp(deps Deps) Step {
	return Step{
		Name:        "compose-up",
		Description: "Start containers",
		WarnOnly:    true,
		Run: func(ctx context.Context) error {
			return deps.Docker.ComposeUp(ctx)
		},
	}
}

// WaitWeb blocks until the web frontend answers.
func WaitWeb(deps Deps) Step {
	return Step{
		Name:        "wait-web",
		Description: "Wait for the web frontend",
		Run: func(ctx context.Context) error {
			probe := readiness.HTTPProbe(nil, deps.Config.Web.Endpoint)
			return deps.Poller.Wait(ctx, deps.Config.Web.Service, probe)
		},
	}
}

// WaitGeoserver blocks until GeoServer answers.
func WaitGeoserver(deps Deps) Step {
	return Step{
		Name:        "wait-geoserver",
		Description: "Wait for GeoServer",
		Run: func(ctx context.Context) error {
			probe := readiness.HTTPProbe(nil, deps.Config.Geoserver.Endpoint)
			return deps.Poller.Wait(ctx, deps.Config.Geoserver.Service, probe)
		},
	}
}
