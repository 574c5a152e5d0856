package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tandemapp/tandemsync/internal/queue"
	"github.com/tandemapp/tandemsync/internal/syncerr"
)

func TestPullAll(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/spaces/s1/notes" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"records":[{"id":"n1","content":"hi"},{"id":"n2","content":"yo"}]}`))
	}))
	defer srv.Close()

	b := NewREST(srv.URL, "s1", nil)
	recs, err := b.PullAll(context.Background(), "notes")
	if err != nil {
		t.Fatalf("PullAll: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records", len(recs))
	}
	var first struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(recs[0], &first); err != nil || first.ID != "n1" {
		t.Fatalf("first record %s err=%v", recs[0], err)
	}
}

func TestPushRoutes(t *testing.T) {
	t.Parallel()

	type seen struct{ method, path string }
	var got seen
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = seen{r.Method, r.URL.Path}
		switch r.Method {
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	b := NewREST(srv.URL, "s1", nil)
	ctx := context.Background()
	rec := json.RawMessage(`{"id":"n1","content":"hi"}`)

	cases := []struct {
		op   queue.PendingOp
		want seen
	}{
		{queue.PendingOp{EntityType: "notes", Op: queue.OpInsert, Record: rec, RecordID: "n1"},
			seen{http.MethodPost, "/api/spaces/s1/notes"}},
		{queue.PendingOp{EntityType: "notes", Op: queue.OpUpdate, Record: rec, RecordID: "n1"},
			seen{http.MethodPut, "/api/spaces/s1/notes/n1"}},
		{queue.PendingOp{EntityType: "notes", Op: queue.OpDelete, Record: json.RawMessage(`{"id":"n1"}`), RecordID: "n1"},
			seen{http.MethodDelete, "/api/spaces/s1/notes/n1"}},
	}
	for _, tc := range cases {
		if err := b.Push(ctx, tc.op); err != nil {
			t.Fatalf("push %s: %v", tc.op.Op, err)
		}
		if got != tc.want {
			t.Fatalf("push %s hit %+v, want %+v", tc.op.Op, got, tc.want)
		}
	}
}

func TestPushReplaysAreAcks(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			w.WriteHeader(http.StatusConflict) // row already exists
		case http.MethodDelete:
			w.WriteHeader(http.StatusNotFound) // row already gone
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	b := NewREST(srv.URL, "s1", nil)
	ctx := context.Background()

	ins := queue.PendingOp{EntityType: "notes", Op: queue.OpInsert, Record: json.RawMessage(`{"id":"n1"}`), RecordID: "n1"}
	if err := b.Push(ctx, ins); err != nil {
		t.Fatalf("replayed insert should ack, got %v", err)
	}
	del := queue.PendingOp{EntityType: "notes", Op: queue.OpDelete, RecordID: "n1"}
	if err := b.Push(ctx, del); err != nil {
		t.Fatalf("replayed delete should ack, got %v", err)
	}
}

func TestPushClassifiesFailures(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	b := NewREST(srv.URL, "s1", nil)
	op := queue.PendingOp{EntityType: "notes", Op: queue.OpUpdate, Record: json.RawMessage(`{}`), RecordID: "n1"}
	err := b.Push(context.Background(), op)
	if !syncerr.IsRejected(err) {
		t.Fatalf("400 should classify as rejection, got %v", err)
	}

	srv.Close() // connection refused from here on
	err = b.Push(context.Background(), op)
	var pe *syncerr.PushError
	if !errors.As(err, &pe) || pe.Category != syncerr.Transient {
		t.Fatalf("network failure should be transient, got %v", err)
	}
}

func TestHealthy(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	b := NewREST(srv.URL, "s1", nil)
	if !b.Healthy(context.Background()) {
		t.Fatal("expected healthy")
	}
	srv.Close()
	if b.Healthy(context.Background()) {
		t.Fatal("expected unhealthy after close")
	}
}
