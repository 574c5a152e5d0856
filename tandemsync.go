// Package tandemsync is the offline-first sync core for a two-person shared
// space. Every entity collection (notes, moments, countdowns, ...) lives in
// memory, persists locally on each mutation, and syncs with the backend
// through a durable FIFO queue: writes land locally first and are pushed
// when connectivity allows, while remote changes stream in over the change
// feed and merge last-writer-wins.
//
// Construct an App, call Start once a session and shared space exist, and
// mutate through the typed collection accessors (Notes, Tasks, ...). SignOut
// clears all local state; Close just stops background work.
package tandemsync

import (
	"context"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/tandemapp/tandemsync/internal/coordinator"
	"github.com/tandemapp/tandemsync/internal/kv"
	"github.com/tandemapp/tandemsync/internal/netmon"
	"github.com/tandemapp/tandemsync/internal/queue"
	"github.com/tandemapp/tandemsync/internal/registry"
	"github.com/tandemapp/tandemsync/internal/remote"
)

// App owns one local replica of the shared space: the durable store, the
// collections, the pending queue, and the sync machinery that keeps them
// converged with the backend.
type App struct {
	cfg  Config
	log  zerolog.Logger
	http *http.Client

	store    kv.Store
	ownStore bool
	queue    *queue.Queue
	registry *registry.Registry
	backend  remote.Backend
	monitor  *netmon.Monitor
	coord    *coordinator.Coordinator
	cols     collections

	closedOnce uint32
}

// New constructs an App. The store opens (or is injected) here, so local
// reads and writes work immediately; nothing touches the network until
// Start.
func New(cfg Config, opts ...Option) (*App, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	cfg.setDefaults()

	a := &App{
		cfg:  cfg,
		log:  zerolog.New(os.Stderr).With().Timestamp().Str("service", "tandemsync").Logger(),
		http: &http.Client{Timeout: cfg.HTTPTimeout},
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	if a.store == nil {
		s, err := kv.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		a.store = s
		a.ownStore = true
	}

	a.wrapTransportWithToken()

	a.queue = queue.Open(a.store, a.log)
	a.registry = registry.New(a.log)
	a.cols = newCollections(a.store, a.queue, a.registry, a.log)

	a.backend = remote.NewREST(cfg.BaseURL, cfg.SpaceID, a.http)
	a.monitor = netmon.New(a.backend.Healthy, cfg.ProbeInterval, a.log)
	a.coord = coordinator.New(a.backend, a.queue, a.registry, a.monitor,
		func(handler func(remote.ChangeEvent)) coordinator.Subscription {
			return remote.Subscribe(cfg.BaseURL, cfg.SpaceID, cfg.AuthToken, handler, a.log)
		},
		coordinator.Config{FlushInterval: cfg.FlushInterval}, a.log)
	return a, nil
}

// Start brings sync up: initial pull, realtime feed, connectivity watch,
// and the periodic flush timer. Without a session token and a shared space
// it does nothing; local reads and writes keep working either way, and
// queued writes push once a later session starts. Calling Start twice is a
// no-op.
func (a *App) Start(ctx context.Context) {
	if a.cfg.AuthToken == "" || a.cfg.SpaceID == "" {
		a.log.Info().Msg("no session or shared space, sync idle")
		return
	}
	a.coord.Start(ctx)
}

// Flush pushes pending operations now, if any and if the backend looks
// reachable. Failures stay queued for the next trigger.
func (a *App) Flush(ctx context.Context) { a.coord.Flush(ctx) }

// Foreground tells the core the app returned to the foreground; it always
// attempts a flush, even without an observed reconnect.
func (a *App) Foreground(ctx context.Context) { a.coord.Foreground(ctx) }

// SetOnline feeds an explicit connectivity hint from the platform. The
// periodic probe works without it; the hint just reacts faster.
func (a *App) SetOnline(online bool) { a.monitor.SetOnline(online) }

// Pending reports how many local operations still await backend
// acknowledgment, for "N changes waiting to sync" UI.
func (a *App) Pending() int { return a.coord.Pending() }

// PendingOps returns a copy of the queued operations, oldest first.
func (a *App) PendingOps() []PendingOp { return a.queue.Snapshot() }

// Online reports the current connectivity belief, for "offline" UI.
func (a *App) Online() bool { return a.monitor.Online() }

// SignOut runs the teardown protocol: stop sync, clear every collection,
// and drop the pending queue. Unsynced changes are lost, which is the
// documented cost of signing out while offline. The App is done after this;
// construct a new one on the next sign-in.
func (a *App) SignOut(ctx context.Context) {
	a.coord.Teardown(ctx)
}

// Close stops background work without touching local state, so the next
// launch resumes from the persisted replica. Safe to call multiple times.
func (a *App) Close() error {
	if !atomic.CompareAndSwapUint32(&a.closedOnce, 0, 1) {
		return nil
	}
	a.coord.Stop()
	if a.ownStore {
		return a.store.Close()
	}
	return nil
}

// wrapTransportWithToken wraps the HTTP transport so every backend request
// carries the session bearer token.
func (a *App) wrapTransportWithToken() {
	if a.cfg.AuthToken == "" {
		return
	}
	base := a.http.Transport
	if base == nil {
		base = defaultTransport()
	}
	a.http.Transport = &tokenTransport{base: base, token: a.cfg.AuthToken}
}

func defaultTransport() http.RoundTripper { return http.DefaultTransport }

// tokenTransport wraps an http.RoundTripper to add the Authorization header.
type tokenTransport struct {
	base  http.RoundTripper
	token string
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone so the caller's request is never mutated.
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+t.token)
	return t.base.RoundTrip(cloned)
}
