// Package readiness implements the fixed-interval polls the provisioner
// blocks on while the containers come up. No backoff, no jitter: the
// installer waits the same interval between attempts until the service
// answers or the attempt budget runs out.
package readiness

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/geonode-contrib/geostack/pkg/errors"
	"github.com/geonode-contrib/geostack/pkg/logging"
)

// Probe reports whether the service is up. Returning an error means "not
// yet", not a hard failure.
type Probe func(ctx context.Context) error

// Poller repeats a probe at a fixed interval.
type Poller struct {
	Interval    time.Duration
	MaxAttempts int

	logger zerolog.Logger
	// sleep is swapped out in tests
	sleep func(time.Duration)
}

// NewPoller creates a poller with the given interval and attempt budget.
func NewPoller(interval time.Duration, maxAttempts int) *Poller {
	return &Poller{
		Interval:    interval,
		MaxAttempts: maxAttempts,
		logger:      logging.GetLogger("readiness"),
		sleep:       time.Sleep,
	}
}

// Wait blocks until the probe succeeds, the attempt budget is exhausted, or
// the context is cancelled.
func (p *Poller) Wait(ctx context.Context, name string, probe Probe) error {
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, errors.ErrNotReady, "wait for %s cancelled", name)
		}

		if err := probe(ctx); err == nil {
			p.logger.Info().Str("service", name).Int("attempt", attempt).Msg("Service is ready")
			return nil
		} else {
			lastErr = err
			p.logger.Debug().
				Str("service", name).
				Int("attempt", attempt).
				Int("maxAttempts", p.MaxAttempts).
				Err(err).
				Msg("Service not ready yet")
		}

		if attempt < p.MaxAttempts {
			p.sleep(p.Interval)
		}
	}

	if lastErr != nil {
		return errors.Wrapf(lastErr, errors.ErrNotReady,
			"%s did not become ready after %d attempts", name, p.MaxAttempts)
	}
	return errors.Newf(errors.ErrNotReady,
		"%s did not become ready after %d attempts", name, p.MaxAttempts)
}

// HTTPProbe builds a probe that treats any response below 500 as up. The
// web frontend answers redirects and auth challenges long before the app
// is fully migrated, which is exactly the signal the installer waits for.
func HTTPProbe(client *http.Client, url string) Probe {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return errors.Newf(errors.ErrNotReady, "%s answered %d", url, resp.StatusCode)
		}
		return nil
	}
}
