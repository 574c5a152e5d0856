package coordinator

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tandemapp/tandemsync/internal/collection"
	"github.com/tandemapp/tandemsync/internal/kv"
	"github.com/tandemapp/tandemsync/internal/netmon"
	"github.com/tandemapp/tandemsync/internal/queue"
	"github.com/tandemapp/tandemsync/internal/registry"
	"github.com/tandemapp/tandemsync/internal/remote"
	"github.com/tandemapp/tandemsync/internal/syncerr"
	"github.com/tandemapp/tandemsync/internal/types"
)

type fakeBackend struct {
	mu      sync.Mutex
	pulls   map[string][]json.RawMessage
	pushed  []queue.PendingOp
	pushErr error
}

func (f *fakeBackend) PullAll(_ context.Context, entity string) ([]json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pulls[entity], nil
}

func (f *fakeBackend) Push(_ context.Context, op queue.PendingOp) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pushErr != nil {
		return f.pushErr
	}
	f.pushed = append(f.pushed, op)
	return nil
}

func (f *fakeBackend) Healthy(context.Context) bool { return true }

func (f *fakeBackend) pushCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pushed)
}

func (f *fakeBackend) setPushErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushErr = err
}

type fakeSub struct {
	mu     sync.Mutex
	closed bool
}

func (f *fakeSub) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

type harness struct {
	backend *fakeBackend
	queue   *queue.Queue
	notes   *collection.Collection[types.Note, *types.Note]
	tasks   *collection.Collection[types.Task, *types.Task]
	monitor *netmon.Monitor
	sub     *fakeSub
	deliver func(remote.ChangeEvent)
	coord   *Coordinator
}

func newHarness(t *testing.T, backend *fakeBackend) *harness {
	t.Helper()
	store := kv.NewMemoryStore()
	q := queue.Open(store, zerolog.Nop())
	notes := collection.New[types.Note, *types.Note](types.EntityNotes, store, q, zerolog.Nop())
	tasks := collection.New[types.Task, *types.Task](types.EntityTasks, store, q, zerolog.Nop())

	reg := registry.New(zerolog.Nop())
	reg.Register(notes)
	reg.Register(tasks)

	h := &harness{backend: backend, queue: q, notes: notes, tasks: tasks, sub: &fakeSub{}}
	// Probe never fires on its own; connectivity is driven via SetOnline.
	h.monitor = netmon.New(func(context.Context) bool { return false }, time.Hour, zerolog.Nop())
	h.coord = New(backend, q, reg, h.monitor,
		func(handler func(remote.ChangeEvent)) Subscription {
			h.deliver = handler
			return h.sub
		},
		Config{FlushInterval: time.Hour}, zerolog.Nop())
	t.Cleanup(func() { h.coord.Teardown(context.Background()) })
	return h
}

func rawNote(t *testing.T, n types.Note) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(n)
	require.NoError(t, err)
	return raw
}

func TestStartPullsEveryCollection(t *testing.T) {
	backend := &fakeBackend{pulls: map[string][]json.RawMessage{
		types.EntityNotes: {
			json.RawMessage(`{"id":"n1","content":"hi"}`),
		},
		types.EntityTasks: {
			json.RawMessage(`{"id":"t1","title":"dishes"}`),
			json.RawMessage(`{"id":"t2","title":"flowers"}`),
		},
	}}
	h := newHarness(t, backend)
	h.coord.Start(context.Background())

	require.Equal(t, 1, h.notes.Len())
	require.Equal(t, 2, h.tasks.Len())
	got, ok := h.notes.Get("n1")
	require.True(t, ok)
	require.Equal(t, "hi", got.Content)
}

func TestRealtimeRouting(t *testing.T) {
	h := newHarness(t, &fakeBackend{})
	h.coord.Start(context.Background())
	require.NotNil(t, h.deliver)

	t10 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	insert := types.Note{Content: "hi", Meta: types.Meta{ID: "n1", UpdatedAt: t10}}
	h.deliver(remote.ChangeEvent{Op: remote.OpInsert, EntityType: types.EntityNotes, Record: rawNote(t, insert)})
	require.Equal(t, 1, h.notes.Len())

	// Duplicate delivery of the same insert stays idempotent.
	h.deliver(remote.ChangeEvent{Op: remote.OpInsert, EntityType: types.EntityNotes, Record: rawNote(t, insert)})
	require.Equal(t, 1, h.notes.Len())

	// Older update is ignored, newer applied.
	older := types.Note{Content: "old", Meta: types.Meta{ID: "n1", UpdatedAt: t10.Add(-time.Hour)}}
	h.deliver(remote.ChangeEvent{Op: remote.OpUpdate, EntityType: types.EntityNotes, Record: rawNote(t, older)})
	got, _ := h.notes.Get("n1")
	require.Equal(t, "hi", got.Content)

	newer := types.Note{Content: "new", Meta: types.Meta{ID: "n1", UpdatedAt: t10.Add(time.Hour)}}
	h.deliver(remote.ChangeEvent{Op: remote.OpUpdate, EntityType: types.EntityNotes, Record: rawNote(t, newer)})
	got, _ = h.notes.Get("n1")
	require.Equal(t, "new", got.Content)

	h.deliver(remote.ChangeEvent{Op: remote.OpDelete, EntityType: types.EntityNotes, Record: json.RawMessage(`{"id":"n1"}`)})
	require.Equal(t, 0, h.notes.Len())

	// Unknown entity types are dropped without effect.
	h.deliver(remote.ChangeEvent{Op: remote.OpInsert, EntityType: "martians", Record: json.RawMessage(`{"id":"m1"}`)})
}

func TestOfflineAddThenReconnectFlush(t *testing.T) {
	backend := &fakeBackend{}
	h := newHarness(t, backend)
	h.coord.Start(context.Background())

	// Offline: the write lands locally and queues.
	added := h.notes.Add(context.Background(), types.Note{Content: "hi"})
	require.Equal(t, 1, h.coord.Pending())
	_, ok := h.notes.Get(added.ID)
	require.True(t, ok, "optimistic write must be visible immediately")
	require.Zero(t, backend.pushCount(), "nothing pushes while offline")

	// Reconnect: the watcher flush drains the queue.
	h.monitor.SetOnline(true)
	require.Eventually(t, func() bool { return h.coord.Pending() == 0 }, 2*time.Second, 10*time.Millisecond)
	require.Equal(t, 1, backend.pushCount())
}

func TestForegroundFlushesAfterFailure(t *testing.T) {
	backend := &fakeBackend{}
	backend.setPushErr(syncerr.FromStatus("push", 503, "maintenance"))
	h := newHarness(t, backend)
	h.coord.Start(context.Background())
	h.monitor.SetOnline(true)

	h.notes.Add(context.Background(), types.Note{Content: "hi"})
	h.coord.Flush(context.Background())
	require.Equal(t, 1, h.coord.Pending(), "failed push stays queued")

	backend.setPushErr(nil)
	h.coord.Foreground(context.Background())
	require.Equal(t, 0, h.coord.Pending())
	require.Equal(t, 1, backend.pushCount())
}

func TestTeardownResetsAndStops(t *testing.T) {
	backend := &fakeBackend{}
	h := newHarness(t, backend)
	ctx := context.Background()
	h.coord.Start(ctx)

	h.notes.Add(ctx, types.Note{Content: "hi"})
	require.Equal(t, 1, h.coord.Pending())

	h.coord.Teardown(ctx)
	require.True(t, h.sub.closed)
	require.Equal(t, 0, h.notes.Len())
	require.Equal(t, 0, h.coord.Pending())

	// Idempotent.
	h.coord.Teardown(ctx)
}
