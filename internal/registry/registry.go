// Package registry enumerates every entity collection so the sign-out
// protocol can tear them all down without the auth side importing a single
// feature type. Collections register themselves at construction; reset
// walks the registrations sequentially.
package registry

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tandemapp/tandemsync/internal/collection"
)

// Registry maps entity-type names to their collections. It is filled once
// during app construction and read-only afterwards, so lookups take no
// lock.
type Registry struct {
	order  []string
	byName map[string]collection.Synced
	log    zerolog.Logger
}

// New returns an empty registry.
func New(log zerolog.Logger) *Registry {
	return &Registry{
		byName: make(map[string]collection.Synced),
		log:    log.With().Str("component", "registry").Logger(),
	}
}

// Register adds c under its entity type. Registering the same type twice is
// a programming error and panics at startup rather than shadowing silently.
func (r *Registry) Register(c collection.Synced) {
	name := c.EntityType()
	if _, dup := r.byName[name]; dup {
		panic(fmt.Sprintf("registry: duplicate collection %q", name))
	}
	r.byName[name] = c
	r.order = append(r.order, name)
}

// Lookup returns the collection for an entity-type name.
func (r *Registry) Lookup(name string) (collection.Synced, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Names returns every registered entity type in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// All returns every registered collection in registration order.
func (r *Registry) All() []collection.Synced {
	out := make([]collection.Synced, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// ResetAll clears every collection, sequentially and independently: one
// failing reset is logged and the walk continues, so sign-out always
// finishes. Returns the first error for the caller's records.
func (r *Registry) ResetAll(ctx context.Context) error {
	var first error
	for _, name := range r.order {
		if err := r.byName[name].Reset(ctx); err != nil {
			r.log.Error().Err(err).Str("collection", name).Msg("reset failed")
			if first == nil {
				first = err
			}
		}
	}
	return first
}
