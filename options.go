package tandemsync

// This file defines the functional options applied during construction in
// New. Keeping them in a standalone file makes every available knob
// discoverable at a glance.

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Option configures an App during construction in New.
//
// Options are applied before the bearer-token transport wrapper is
// installed, so transport-related options (like debug logging) end up
// underneath the auth wrapper. Options must be deterministic and
// side-effect free.
type Option func(*App) error

// WithHTTPTimeout overrides the http.Client timeout used for backend
// requests. Prefer per-request context deadlines where possible; this is a
// coarse safety net bounding a single request end to end. Must be greater
// than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(a *App) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		a.http.Timeout = d
		return nil
	}
}

// WithDebugLogging wraps the transport so each request and response is
// dumped to the log when enabled is true. Not for production.
func WithDebugLogging(enabled bool) Option {
	return func(a *App) error {
		if enabled {
			base := a.http.Transport
			if base == nil {
				base = defaultTransport()
			}
			a.http.Transport = &debugTransport{base: base}
		}
		return nil
	}
}

// WithLogger replaces the default stderr logger.
func WithLogger(log zerolog.Logger) Option {
	return func(a *App) error {
		a.log = log
		return nil
	}
}

// WithStore supplies the durable store directly, bypassing Config.DBPath.
// The caller keeps ownership: Close will not close a store injected here.
// NewMemoryStore is handy for tests and throwaway sessions.
func WithStore(s Store) Option {
	return func(a *App) error {
		if s == nil {
			return fmt.Errorf("store must not be nil")
		}
		a.store = s
		return nil
	}
}
