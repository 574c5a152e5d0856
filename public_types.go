package tandemsync

import (
	"github.com/tandemapp/tandemsync/internal/kv"
	"github.com/tandemapp/tandemsync/internal/queue"
	"github.com/tandemapp/tandemsync/internal/types"
)

// Public type aliases so embedders import only the tandemsync package.
type (
	// Meta is the identity and clock block embedded in every record.
	Meta = types.Meta
	// Partner identifies which of the two space members owns a record.
	Partner = types.Partner

	// Domain records, one per collection.
	Note           = types.Note
	Moment         = types.Moment
	Countdown      = types.Countdown
	Milestone      = types.Milestone
	WishItem       = types.WishItem
	ImportantDate  = types.ImportantDate
	MoodEntry      = types.MoodEntry
	Letter         = types.Letter
	BucketItem     = types.BucketItem
	GratitudeEntry = types.GratitudeEntry
	Task           = types.Task
	GroceryItem    = types.GroceryItem
	PhotoEntry     = types.PhotoEntry
	Place          = types.Place
	DailyAnswer    = types.DailyAnswer
	WatchItem      = types.WatchItem
	DateIdea       = types.DateIdea
	Anniversary    = types.Anniversary
	Habit          = types.Habit
	Gift           = types.Gift

	// PendingOp is one queued local operation, as returned by PendingOps.
	PendingOp = queue.PendingOp

	// Store is the durable blob store the core persists into. Supply a
	// custom implementation with WithStore; Get must return ErrNotFound
	// for unknown keys.
	Store = kv.Store
)

// Partner values.
const (
	PartnerA = types.PartnerA
	PartnerB = types.PartnerB
)

// NewMemoryStore returns an in-memory Store for tests and throwaway
// sessions. Contents vanish when the process exits.
func NewMemoryStore() Store { return kv.NewMemoryStore() }
