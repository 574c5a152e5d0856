// Package netmon tracks whether the remote backend is reachable. It folds
// two signals into one boolean: a periodic health probe, and explicit hints
// from the platform (the app host knows when the radio comes back before
// any probe does). Subscribers are notified on transitions only.
package netmon

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Probe reports whether the backend answered a reachability check.
type Probe func(ctx context.Context) bool

// Monitor owns the probe loop. Construct with New, register listeners with
// Watch, then Start. Stop is idempotent.
type Monitor struct {
	probe    Probe
	interval time.Duration
	log      zerolog.Logger

	mu       sync.Mutex
	online   bool
	watchers []func(online bool)

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// New builds a Monitor that begins in the offline state; the first
// successful probe (or an explicit hint) flips it online.
func New(probe Probe, interval time.Duration, log zerolog.Logger) *Monitor {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Monitor{
		probe:    probe,
		interval: interval,
		log:      log.With().Str("component", "netmon").Logger(),
	}
}

// Watch registers fn to run on every online/offline transition. Must be
// called before Start.
func (m *Monitor) Watch(fn func(online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watchers = append(m.watchers, fn)
}

// Online returns the current connectivity belief.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// SetOnline feeds an explicit platform hint, firing watchers on change.
func (m *Monitor) SetOnline(online bool) {
	m.transition(online)
}

// Start probes immediately and then on every interval tick until Stop.
func (m *Monitor) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})

	go func() {
		defer close(m.done)
		m.transition(m.probe(ctx))

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.transition(m.probe(ctx))
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the probe loop. Watchers never fire after Stop returns.
func (m *Monitor) Stop() {
	m.once.Do(func() {
		if m.cancel != nil {
			m.cancel()
			<-m.done
		}
	})
}

func (m *Monitor) transition(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	watchers := make([]func(bool), len(m.watchers))
	copy(watchers, m.watchers)
	m.mu.Unlock()

	if online {
		m.log.Info().Msg("backend reachable")
	} else {
		m.log.Info().Msg("backend unreachable")
	}
	for _, fn := range watchers {
		fn(online)
	}
}
