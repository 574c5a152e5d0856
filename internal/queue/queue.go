// Package queue holds local mutations that the remote backend has not yet
// acknowledged. The queue is global across entity types, strictly FIFO, and
// persisted to the durable store on every change so that nothing is lost
// between a crash and the next flush.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tandemapp/tandemsync/internal/kv"
	"github.com/tandemapp/tandemsync/internal/syncerr"
)

// storeKey is the single durable-store key the queue persists under.
const storeKey = "queue/pending"

// Op is the kind of local mutation awaiting acknowledgment.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// PendingOp is one unacknowledged local mutation. Record holds the full
// record snapshot for inserts and updates; for deletes it holds only
// {"id": ...}.
type PendingOp struct {
	EntityType string          `json:"entityType"`
	Op         Op              `json:"op"`
	Record     json.RawMessage `json:"record"`
	RecordID   string          `json:"recordId"`
	EnqueuedAt time.Time       `json:"enqueuedAt"`
	RetryCount int             `json:"retryCount"`
}

// PushFunc delivers one operation to the remote backend. A nil error is the
// backend's acknowledgment.
type PushFunc func(ctx context.Context, op PendingOp) error

// Queue is the durable pending-operation queue. All methods are safe for
// concurrent use; Flush additionally serializes against itself so two
// triggers (reconnect + foreground) cannot interleave pushes.
type Queue struct {
	mu       sync.Mutex
	ops      []PendingOp
	store    kv.Store
	log      zerolog.Logger
	flushing bool
}

// Open loads any persisted operations from store. A corrupt blob is logged
// and discarded: the queue falls back to empty rather than failing the app.
func Open(store kv.Store, log zerolog.Logger) *Queue {
	q := &Queue{store: store, log: log.With().Str("component", "queue").Logger()}

	raw, err := store.Get(storeKey)
	switch {
	case err == kv.ErrNotFound:
		// First run.
	case err != nil:
		q.log.Error().Err(err).Msg("load pending queue")
	default:
		if err := json.Unmarshal(raw, &q.ops); err != nil {
			q.log.Error().Err(err).Msg("pending queue blob corrupt, starting empty")
			q.ops = nil
		}
	}
	pendingOps.Set(float64(len(q.ops)))
	return q
}

// Enqueue appends op and persists immediately.
func (q *Queue) Enqueue(op PendingOp) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if op.EnqueuedAt.IsZero() {
		op.EnqueuedAt = time.Now().UTC()
	}
	q.ops = append(q.ops, op)
	if err := q.persistLocked(); err != nil {
		return err
	}
	enqueuedTotal.WithLabelValues(op.EntityType, string(op.Op)).Inc()
	q.log.Debug().
		Str("entity", op.EntityType).
		Str("op", string(op.Op)).
		Str("record_id", op.RecordID).
		Int("pending", len(q.ops)).
		Msg("operation queued")
	return nil
}

// Pending returns the number of unacknowledged operations. It drives the
// user-visible "N changes queued" indicator.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ops)
}

// Snapshot returns a copy of the queued operations in FIFO order.
func (q *Queue) Snapshot() []PendingOp {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]PendingOp, len(q.ops))
	copy(out, q.ops)
	return out
}

// Flush pushes queued operations one at a time in FIFO order, awaiting each
// acknowledgment before starting the next. The first failure increments the
// head's retry count, persists, and aborts the pass (fail-stop, never
// fail-skip) so that an update can never race ahead of its own insert.
//
// Returns the number of operations acknowledged in this pass.
func (q *Queue) Flush(ctx context.Context, push PushFunc) (int, error) {
	q.mu.Lock()
	if q.flushing {
		q.mu.Unlock()
		return 0, nil
	}
	q.flushing = true
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.flushing = false
		q.mu.Unlock()
	}()

	acked := 0
	for {
		if err := ctx.Err(); err != nil {
			return acked, err
		}

		q.mu.Lock()
		if len(q.ops) == 0 {
			q.mu.Unlock()
			return acked, nil
		}
		head := q.ops[0]
		q.mu.Unlock()

		if err := push(ctx, head); err != nil {
			q.mu.Lock()
			// Head cannot have moved: only Flush removes, and we hold
			// the flushing flag.
			q.ops[0].RetryCount++
			retries := q.ops[0].RetryCount
			perr := q.persistLocked()
			q.mu.Unlock()

			flushFailedTotal.WithLabelValues(head.EntityType).Inc()
			ev := q.log.Info()
			if syncerr.IsRejected(err) {
				ev = q.log.Warn()
			}
			ev.Err(err).
				Str("entity", head.EntityType).
				Str("op", string(head.Op)).
				Int("retry_count", retries).
				Msg("push failed, flush pass aborted")
			if perr != nil {
				return acked, perr
			}
			return acked, err
		}

		q.mu.Lock()
		q.ops = q.ops[1:]
		perr := q.persistLocked()
		q.mu.Unlock()

		acked++
		flushAckedTotal.WithLabelValues(head.EntityType).Inc()
		if perr != nil {
			return acked, perr
		}
	}
}

// Reset discards every queued operation. Used by the sign-out protocol.
func (q *Queue) Reset() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ops = nil
	return q.persistLocked()
}

func (q *Queue) persistLocked() error {
	raw, err := json.Marshal(q.ops)
	if err != nil {
		return fmt.Errorf("queue: marshal: %w", err)
	}
	if err := q.store.Put(storeKey, raw); err != nil {
		return fmt.Errorf("queue: persist: %w", err)
	}
	pendingOps.Set(float64(len(q.ops)))
	return nil
}
