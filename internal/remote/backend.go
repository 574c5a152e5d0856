// Package remote talks to the shared-space backend: REST pull/push per
// entity type and a websocket change feed. Everything is scoped to one
// space; the backend emits realtime events to both members, including the
// echo of a device's own pushes.
package remote

import (
	"context"
	"encoding/json"

	"github.com/tandemapp/tandemsync/internal/queue"
)

// Op mirrors the backend's change-feed operation names.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// ChangeEvent is one realtime message from the per-space feed. For deletes
// Record carries only {"id": ...}.
type ChangeEvent struct {
	Op         Op              `json:"op"`
	EntityType string          `json:"entityType"`
	Record     json.RawMessage `json:"record"`
}

// RecordID extracts the record identifier from the event payload.
func (e ChangeEvent) RecordID() string {
	var probe struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(e.Record, &probe)
	return probe.ID
}

// Backend is the coordinator's view of the remote data backend.
type Backend interface {
	// PullAll returns every row of one entity type in the active space.
	PullAll(ctx context.Context, entityType string) ([]json.RawMessage, error)
	// Push delivers one pending operation. A nil error is the
	// acknowledgment that lets the queue drop the operation.
	Push(ctx context.Context, op queue.PendingOp) error
	// Healthy reports whether the backend is currently reachable.
	Healthy(ctx context.Context) bool
}
