package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tandemapp/tandemsync/internal/queue"
	"github.com/tandemapp/tandemsync/internal/syncerr"
)

// REST is the HTTP implementation of Backend.
//
// Routes, per entity type:
//
//	GET    /api/spaces/{space}/{entity}        pull all rows
//	POST   /api/spaces/{space}/{entity}        insert
//	PUT    /api/spaces/{space}/{entity}/{id}   update
//	DELETE /api/spaces/{space}/{entity}/{id}   delete
type REST struct {
	baseURL string
	spaceID string
	http    *http.Client
}

// NewREST builds a REST backend. httpClient carries the bearer-token
// transport installed by the facade; pass nil for a default client.
func NewREST(baseURL, spaceID string, httpClient *http.Client) *REST {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &REST{baseURL: baseURL, spaceID: spaceID, http: httpClient}
}

func (r *REST) PullAll(ctx context.Context, entityType string) ([]json.RawMessage, error) {
	url := fmt.Sprintf("%s/api/spaces/%s/%s", r.baseURL, r.spaceID, entityType)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return nil, syncerr.FromNetwork("pull "+entityType, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, syncerr.FromStatus("pull "+entityType, resp.StatusCode, readBody(resp))
	}
	var out struct {
		Records []json.RawMessage `json:"records"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("pull %s: decode: %w", entityType, err)
	}
	return out.Records, nil
}

func (r *REST) Push(ctx context.Context, op queue.PendingOp) error {
	name := fmt.Sprintf("push %s %s", op.EntityType, op.Op)

	var (
		method string
		url    string
		body   io.Reader
	)
	base := fmt.Sprintf("%s/api/spaces/%s/%s", r.baseURL, r.spaceID, op.EntityType)
	switch op.Op {
	case queue.OpInsert:
		method, url, body = http.MethodPost, base, bytes.NewReader(op.Record)
	case queue.OpUpdate:
		method, url, body = http.MethodPut, base+"/"+op.RecordID, bytes.NewReader(op.Record)
	case queue.OpDelete:
		method, url = http.MethodDelete, base+"/"+op.RecordID
	default:
		return fmt.Errorf("%s: unknown operation", name)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return syncerr.FromNetwork(name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if acknowledged(op.Op, resp.StatusCode) {
		return nil
	}
	return syncerr.FromStatus(name, resp.StatusCode, readBody(resp))
}

// Healthy probes the backend health endpoint. Used by the network monitor.
func (r *REST) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK
}

// acknowledged maps status codes to "the backend has this operation".
// Replays are acks, not errors: a 409 insert means the row already landed
// before a crash, and a 404 delete means the other device got there first.
func acknowledged(op queue.Op, status int) bool {
	if status >= 200 && status < 300 {
		return true
	}
	switch op {
	case queue.OpInsert:
		return status == http.StatusConflict
	case queue.OpDelete:
		return status == http.StatusNotFound
	}
	return false
}

func readBody(resp *http.Response) string {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return string(b)
}
