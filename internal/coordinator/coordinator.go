// Package coordinator orchestrates the sync lifecycle: the initial pull at
// session start, realtime event routing into collections, queue flushes on
// reconnect / foreground / timer, and the sign-out teardown. It is the one
// place where network errors stop: nothing below the facade ever sees them.
package coordinator

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tandemapp/tandemsync/internal/netmon"
	"github.com/tandemapp/tandemsync/internal/queue"
	"github.com/tandemapp/tandemsync/internal/registry"
	"github.com/tandemapp/tandemsync/internal/remote"
)

// Subscription is an active realtime feed hookup.
type Subscription interface {
	Close()
}

// SubscribeFunc opens the realtime feed, delivering every event to handler.
// Injected so tests can feed events without a websocket.
type SubscribeFunc func(handler func(remote.ChangeEvent)) Subscription

// Config tunes the coordinator's timers.
type Config struct {
	// FlushInterval is the safety-net cadence for retrying the pending
	// queue even without a reconnect or foreground trigger.
	FlushInterval time.Duration
}

// Coordinator wires backend, queue, registry, and network monitor together
// for the life of one signed-in session.
type Coordinator struct {
	backend   remote.Backend
	queue     *queue.Queue
	registry  *registry.Registry
	monitor   *netmon.Monitor
	subscribe SubscribeFunc
	cfg       Config
	log       zerolog.Logger

	mu      sync.Mutex
	sub     Subscription
	cancel  context.CancelFunc
	started bool
	stopped bool
	wg      sync.WaitGroup
}

// New builds a Coordinator. Nothing runs until Start.
func New(b remote.Backend, q *queue.Queue, reg *registry.Registry, mon *netmon.Monitor, sub SubscribeFunc, cfg Config, log zerolog.Logger) *Coordinator {
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 30 * time.Second
	}
	return &Coordinator{
		backend:   b,
		queue:     q,
		registry:  reg,
		monitor:   mon,
		subscribe: sub,
		cfg:       cfg,
		log:       log.With().Str("component", "coordinator").Logger(),
	}
}

// Start brings the session up: initial pull into every collection, realtime
// subscription, connectivity watch, periodic flush timer, and one immediate
// flush to drain anything queued while signed out. Calling Start twice is a
// no-op.
func (c *Coordinator) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started || c.stopped {
		c.mu.Unlock()
		return
	}
	c.started = true
	runCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	c.initialPull(ctx)

	c.mu.Lock()
	if !c.stopped {
		c.sub = c.subscribe(c.handleEvent)
	}
	c.mu.Unlock()

	c.monitor.Watch(func(online bool) {
		if online {
			c.log.Debug().Msg("reconnected, flushing queue")
			c.Flush(runCtx)
		}
	})
	c.monitor.Start()

	c.wg.Add(1)
	go c.flushLoop(runCtx)

	c.Flush(ctx)
}

// Flush drains the pending queue once, if there is anything to push and the
// backend is believed reachable. Errors stay here: they are already counted
// and logged by the queue, and retry is the periodic timer's job.
func (c *Coordinator) Flush(ctx context.Context) {
	if c.queue.Pending() == 0 {
		return
	}
	if !c.monitor.Online() {
		c.log.Debug().Int("pending", c.queue.Pending()).Msg("offline, flush skipped")
		return
	}
	// Failures are logged and counted inside the queue; the next trigger
	// retries from the same head.
	acked, _ := c.queue.Flush(ctx, c.backend.Push)
	if acked > 0 {
		c.log.Info().Int("acked", acked).Int("pending", c.queue.Pending()).Msg("queue flushed")
	}
}

// Foreground is the app-foregrounded safety net: always try a flush, even
// if no connectivity transition was observed while backgrounded.
func (c *Coordinator) Foreground(ctx context.Context) {
	c.Flush(ctx)
}

// Pending exposes the queued-operation count for "N changes waiting" UI.
func (c *Coordinator) Pending() int { return c.queue.Pending() }

// Online exposes the connectivity belief for "offline" UI.
func (c *Coordinator) Online() bool { return c.monitor.Online() }

// Stop halts the feed, timers, and probe loop without touching local
// state. Used when the process shuts down but the user stays signed in.
// Idempotent; nothing fires after it returns.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	sub := c.sub
	c.sub = nil
	cancel := c.cancel
	c.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
	if cancel != nil {
		cancel()
	}
	c.monitor.Stop()
	c.wg.Wait()
}

// Teardown is the sign-out protocol: Stop, then clear every collection and
// the pending queue. Idempotent, and each collection resets independently.
func (c *Coordinator) Teardown(ctx context.Context) {
	c.Stop()

	if err := c.registry.ResetAll(ctx); err != nil {
		c.log.Error().Err(err).Msg("collection reset incomplete")
	}
	if err := c.queue.Reset(); err != nil {
		c.log.Error().Err(err).Msg("queue reset failed")
	}
	c.log.Info().Msg("session torn down")
}

// ------------------------- internals -------------------------

// initialPull loads the full remote state of every registered collection.
// A collection whose pull fails keeps its persisted local state; the next
// session start will try again.
func (c *Coordinator) initialPull(ctx context.Context) {
	for _, name := range c.registry.Names() {
		col, _ := c.registry.Lookup(name)
		records, err := c.backend.PullAll(ctx, name)
		if err != nil {
			c.log.Warn().Err(err).Str("collection", name).Msg("initial pull failed, keeping local state")
			continue
		}
		if err := col.LoadFromRemote(ctx, records); err != nil {
			c.log.Error().Err(err).Str("collection", name).Msg("load from remote")
			continue
		}
		c.log.Debug().Str("collection", name).Int("records", len(records)).Msg("collection loaded")
	}
}

// handleEvent routes one realtime event to its collection. Our own echoes
// arrive here too and are absorbed by the collection's idempotent insert,
// LWW update, and unconditional delete.
func (c *Coordinator) handleEvent(ev remote.ChangeEvent) {
	col, ok := c.registry.Lookup(ev.EntityType)
	if !ok {
		c.log.Debug().Str("entity", ev.EntityType).Msg("event for unknown collection dropped")
		return
	}
	ctx := context.Background()
	var err error
	switch ev.Op {
	case remote.OpInsert:
		err = col.ApplyRemoteInsert(ctx, ev.Record)
	case remote.OpUpdate:
		err = col.ApplyRemoteUpdate(ctx, ev.Record)
	case remote.OpDelete:
		err = col.ApplyRemoteDelete(ctx, ev.RecordID())
	default:
		c.log.Debug().Str("op", string(ev.Op)).Msg("unknown event op dropped")
		return
	}
	if err != nil {
		c.log.Error().Err(err).Str("entity", ev.EntityType).Str("op", string(ev.Op)).Msg("apply remote event")
	}
}

func (c *Coordinator) flushLoop(ctx context.Context) {
	defer c.wg.Done()
	ticker := time.NewTicker(c.cfg.FlushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.Flush(ctx)
		case <-ctx.Done():
			return
		}
	}
}
