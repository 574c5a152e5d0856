package tandemsync

import (
	"errors"

	"github.com/tandemapp/tandemsync/internal/kv"
)

// ErrMissingBaseURL is returned by New when Config.BaseURL is empty.
var ErrMissingBaseURL = errors.New("tandemsync: base URL required")

// ErrNotFound is the sentinel custom Store implementations must return from
// Get for keys that were never written. Re-exported so embedders compare
// against a single symbol.
var ErrNotFound = kv.ErrNotFound
