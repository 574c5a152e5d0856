// Package collection implements the local authoritative copy of one entity
// type: an insertion-ordered, mutex-guarded map of records persisted as a
// single blob in the durable store. Local mutations apply optimistically and
// enqueue pending operations; remote events reconcile through idempotent
// insert, last-write-wins update, and unconditional delete.
package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tandemapp/tandemsync/internal/conflict"
	"github.com/tandemapp/tandemsync/internal/kv"
	"github.com/tandemapp/tandemsync/internal/queue"
	"github.com/tandemapp/tandemsync/internal/types"
)

// Synced is the entity-type-erased face of a Collection. The coordinator
// routes pulls, realtime events, and the reset protocol through it without
// knowing record shapes.
type Synced interface {
	EntityType() string
	LoadFromRemote(ctx context.Context, records []json.RawMessage) error
	ApplyRemoteInsert(ctx context.Context, record json.RawMessage) error
	ApplyRemoteUpdate(ctx context.Context, record json.RawMessage) error
	ApplyRemoteDelete(ctx context.Context, id string) error
	Reset(ctx context.Context) error
}

// Mutable is satisfied by *T when T embeds types.Meta.
type Mutable interface {
	SetID(string)
	SetCreatedAt(time.Time)
	SetUpdatedAt(time.Time)
}

// Collection is the generic syncable collection. T is the record struct;
// the second parameter ties *T to the Meta setters so Add can stamp
// identity and clocks without reflection.
type Collection[T types.Stamped, PT interface {
	*T
	Mutable
}] struct {
	entity string
	store  kv.Store
	queue  *queue.Queue
	log    zerolog.Logger
	now    func() time.Time
	newID  func() string

	mu    sync.Mutex
	items map[string]T
	order []string
}

// New constructs the collection and loads its persisted blob. A missing
// blob means first run; a corrupt one is logged and discarded so the
// collection starts empty instead of failing the app.
func New[T types.Stamped, PT interface {
	*T
	Mutable
}](entity string, store kv.Store, q *queue.Queue, log zerolog.Logger) *Collection[T, PT] {
	c := &Collection[T, PT]{
		entity: entity,
		store:  store,
		queue:  q,
		log:    log.With().Str("collection", entity).Logger(),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
		items:  make(map[string]T),
	}

	raw, err := store.Get(c.storeKey())
	switch {
	case err == kv.ErrNotFound:
	case err != nil:
		c.log.Error().Err(err).Msg("load collection")
	default:
		var recs []T
		if err := json.Unmarshal(raw, &recs); err != nil {
			c.log.Error().Err(err).Msg("collection blob corrupt, starting empty")
			break
		}
		for _, rec := range recs {
			id := rec.RecordID()
			if _, dup := c.items[id]; dup {
				continue
			}
			c.items[id] = rec
			c.order = append(c.order, id)
		}
	}
	return c
}

// EntityType returns the wire name of this collection's entity type.
func (c *Collection[T, PT]) EntityType() string { return c.entity }

// Add stamps rec with a fresh id and current timestamps, inserts it,
// persists, and enqueues an insert operation. Local success is
// unconditional: persistence or enqueue failures are logged, never
// surfaced, so the UI is never blocked on storage or network.
func (c *Collection[T, PT]) Add(ctx context.Context, rec T) T {
	now := c.now()
	p := PT(&rec)
	p.SetID(c.newID())
	p.SetCreatedAt(now)
	p.SetUpdatedAt(now)

	c.mu.Lock()
	id := rec.RecordID()
	c.items[id] = rec
	c.order = append(c.order, id)
	c.persistLocked()
	c.mu.Unlock()

	mutationsTotal.WithLabelValues(c.entity, "add").Inc()
	c.enqueue(queue.OpInsert, id, rec)
	return rec
}

// Update applies mutate to the record under id, bumps UpdatedAt, persists,
// and enqueues an update operation. Absent ids are a no-op.
func (c *Collection[T, PT]) Update(ctx context.Context, id string, mutate func(*T)) {
	c.mu.Lock()
	rec, ok := c.items[id]
	if !ok {
		c.mu.Unlock()
		return
	}
	mutate(&rec)
	PT(&rec).SetUpdatedAt(c.now())
	c.items[id] = rec
	c.persistLocked()
	c.mu.Unlock()

	mutationsTotal.WithLabelValues(c.entity, "update").Inc()
	c.enqueue(queue.OpUpdate, id, rec)
}

// Remove deletes the record locally, persists, and enqueues a delete
// operation. Absent ids are a no-op.
func (c *Collection[T, PT]) Remove(ctx context.Context, id string) {
	c.mu.Lock()
	if _, ok := c.items[id]; !ok {
		c.mu.Unlock()
		return
	}
	c.deleteLocked(id)
	c.persistLocked()
	c.mu.Unlock()

	mutationsTotal.WithLabelValues(c.entity, "remove").Inc()
	c.enqueueDelete(id)
}

// Get returns the record under id.
func (c *Collection[T, PT]) Get(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.items[id]
	return rec, ok
}

// List returns every record in insertion order.
func (c *Collection[T, PT]) List() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

// Len returns the number of records.
func (c *Collection[T, PT]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// LoadFromRemote replaces the collection's entire contents with records,
// in the given order. Called once per session, right after the initial pull.
func (c *Collection[T, PT]) LoadFromRemote(ctx context.Context, records []json.RawMessage) error {
	recs := make([]T, 0, len(records))
	for _, raw := range records {
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			return fmt.Errorf("%s: decode remote record: %w", c.entity, err)
		}
		recs = append(recs, rec)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]T, len(recs))
	c.order = c.order[:0]
	for _, rec := range recs {
		id := rec.RecordID()
		if _, dup := c.items[id]; dup {
			continue
		}
		c.items[id] = rec
		c.order = append(c.order, id)
	}
	c.persistLocked()
	return nil
}

// ApplyRemoteInsert adds the record unless its id is already present, which
// makes duplicate delivery and the echo of our own insert harmless.
func (c *Collection[T, PT]) ApplyRemoteInsert(ctx context.Context, record json.RawMessage) error {
	var rec T
	if err := json.Unmarshal(record, &rec); err != nil {
		return fmt.Errorf("%s: decode remote insert: %w", c.entity, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	id := rec.RecordID()
	if _, exists := c.items[id]; exists {
		return nil
	}
	c.items[id] = rec
	c.order = append(c.order, id)
	c.persistLocked()
	return nil
}

// ApplyRemoteUpdate replaces the local record only when the resolver says
// the incoming one is not older. An update for an id we have never seen is
// stored as an insert.
func (c *Collection[T, PT]) ApplyRemoteUpdate(ctx context.Context, record json.RawMessage) error {
	var rec T
	if err := json.Unmarshal(record, &rec); err != nil {
		return fmt.Errorf("%s: decode remote update: %w", c.entity, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	id := rec.RecordID()
	existing, ok := c.items[id]
	if !ok {
		c.items[id] = rec
		c.order = append(c.order, id)
		c.persistLocked()
		return nil
	}
	if !conflict.RemoteWins(existing, rec) {
		conflictsTotal.WithLabelValues(c.entity, "local").Inc()
		return nil
	}
	conflictsTotal.WithLabelValues(c.entity, "remote").Inc()
	c.items[id] = rec
	c.persistLocked()
	return nil
}

// ApplyRemoteDelete removes the record unconditionally: deletes are not
// subject to last-write-wins because there is no delete timestamp to
// compare.
func (c *Collection[T, PT]) ApplyRemoteDelete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		return nil
	}
	c.deleteLocked(id)
	c.persistLocked()
	return nil
}

// Reset clears the collection back to empty and re-persists. Idempotent:
// resetting an empty collection only rewrites empty state.
func (c *Collection[T, PT]) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]T)
	c.order = c.order[:0]
	raw, err := json.Marshal([]T{})
	if err != nil {
		return err
	}
	if err := c.store.Put(c.storeKey(), raw); err != nil {
		return fmt.Errorf("%s: persist reset: %w", c.entity, err)
	}
	return nil
}

// ------------------------- internals -------------------------

func (c *Collection[T, PT]) storeKey() string { return "collection/" + c.entity }

func (c *Collection[T, PT]) deleteLocked(id string) {
	delete(c.items, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// persistLocked writes the whole collection blob. Failures are logged, not
// returned: local state is already updated and the app must keep working.
func (c *Collection[T, PT]) persistLocked() {
	recs := make([]T, 0, len(c.order))
	for _, id := range c.order {
		recs = append(recs, c.items[id])
	}
	raw, err := json.Marshal(recs)
	if err != nil {
		c.log.Error().Err(err).Msg("marshal collection")
		return
	}
	if err := c.store.Put(c.storeKey(), raw); err != nil {
		c.log.Error().Err(err).Msg("persist collection")
	}
}

func (c *Collection[T, PT]) enqueue(op queue.Op, id string, rec T) {
	snapshot, err := json.Marshal(rec)
	if err != nil {
		c.log.Error().Err(err).Str("record_id", id).Msg("marshal pending snapshot")
		return
	}
	if err := c.queue.Enqueue(queue.PendingOp{
		EntityType: c.entity,
		Op:         op,
		Record:     snapshot,
		RecordID:   id,
	}); err != nil {
		c.log.Error().Err(err).Str("record_id", id).Msg("enqueue pending operation")
	}
}

func (c *Collection[T, PT]) enqueueDelete(id string) {
	snapshot, _ := json.Marshal(map[string]string{"id": id})
	if err := c.queue.Enqueue(queue.PendingOp{
		EntityType: c.entity,
		Op:         queue.OpDelete,
		Record:     snapshot,
		RecordID:   id,
	}); err != nil {
		c.log.Error().Err(err).Str("record_id", id).Msg("enqueue pending delete")
	}
}
