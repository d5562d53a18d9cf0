package cli

import (
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/semmy-space/credstore/internal/errors"
)

var (
	retryInitialInterval = 250 * time.Millisecond
	retryMaxInterval     = 4 * time.Second
)

// retry runs fn up to n extra times while it fails with
// BackendUnavailable. Any other outcome is returned as is.
func retry(n int, log *slog.Logger, fn func() error) error {
	if n <= 0 {
		return fn()
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = retryInitialInterval
	b.MaxInterval = retryMaxInterval

	op := func() error {
		err := fn()
		if err != nil && !errors.Is(err, errors.CodeBackendUnavailable) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		log.Warn("backend unavailable, retrying", "error", err, "wait", wait)
	}
	return backoff.RetryNotify(op, backoff.WithMaxRetries(b, uint64(n)), notify)
}
