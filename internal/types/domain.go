package types

import "time"

// Partner identifies which of the two space members authored a record.
// The empty value means "unattributed" and is legal everywhere.
type Partner string

const (
	PartnerA Partner = "a"
	PartnerB Partner = "b"
)

// Meta carries the identity and clock fields shared by every synced record.
// Zero timestamps marshal away and are a legal wire value; the conflict
// resolver treats an absent clock as "remote wins".
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
	Owner     Partner   `json:"owner,omitempty"`
}

// RecordID returns the stable client-generated identifier.
func (m Meta) RecordID() string { return m.ID }

// CreatedTime returns the immutable creation timestamp (may be zero).
func (m Meta) CreatedTime() time.Time { return m.CreatedAt }

// UpdatedTime returns the last-mutation timestamp (may be zero).
func (m Meta) UpdatedTime() time.Time { return m.UpdatedAt }

// SetID stamps the identifier. Used once, at local insert.
func (m *Meta) SetID(id string) { m.ID = id }

// SetCreatedAt stamps the creation time. Used once, at local insert.
func (m *Meta) SetCreatedAt(t time.Time) { m.CreatedAt = t }

// SetUpdatedAt bumps the mutation clock.
func (m *Meta) SetUpdatedAt(t time.Time) { m.UpdatedAt = t }

// ------------------------------
// Domain records
// ------------------------------
//
// One struct per entity collection. Payload fields are deliberately plain;
// the sync core only ever reads Meta.

// Note is a free-form shared note.
type Note struct {
	Meta
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
	Pinned  bool   `json:"pinned,omitempty"`
}

// Moment is a journal entry for something the couple did together.
type Moment struct {
	Meta
	Title      string    `json:"title"`
	Caption    string    `json:"caption,omitempty"`
	PhotoKey   string    `json:"photoKey,omitempty"`
	HappenedAt time.Time `json:"happenedAt,omitzero"`
}

// Countdown counts down to a future shared event.
type Countdown struct {
	Meta
	Title    string    `json:"title"`
	TargetAt time.Time `json:"targetAt"`
	Emoji    string    `json:"emoji,omitempty"`
}

// Milestone is a timeline entry for the relationship.
type Milestone struct {
	Meta
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// WishItem is something one partner would like to receive or do.
type WishItem struct {
	Meta
	Title    string `json:"title"`
	URL      string `json:"url,omitempty"`
	Claimed  bool   `json:"claimed,omitempty"`
	Priority int    `json:"priority,omitempty"`
}

// ImportantDate is a recurring date both partners should remember.
type ImportantDate struct {
	Meta
	Title  string `json:"title"`
	Month  int    `json:"month"`
	Day    int    `json:"day"`
	Yearly bool   `json:"yearly"`
}

// MoodEntry records how one partner felt on a given day.
type MoodEntry struct {
	Meta
	Mood string `json:"mood"`
	Note string `json:"note,omitempty"`
	Day  string `json:"day"` // YYYY-MM-DD
}

// Letter is a longer-form message written for the other partner.
type Letter struct {
	Meta
	Subject  string    `json:"subject,omitempty"`
	Body     string    `json:"body"`
	SealedTo time.Time `json:"sealedTo,omitzero"` // unopenable before this time
}

// BucketItem is a shared bucket-list entry.
type BucketItem struct {
	Meta
	Title  string    `json:"title"`
	Done   bool      `json:"done,omitempty"`
	DoneAt time.Time `json:"doneAt,omitzero"`
}

// GratitudeEntry is a small daily thank-you.
type GratitudeEntry struct {
	Meta
	Text string `json:"text"`
	Day  string `json:"day"` // YYYY-MM-DD
}

// Task is a shared to-do.
type Task struct {
	Meta
	Title    string    `json:"title"`
	Done     bool      `json:"done,omitempty"`
	DueAt    time.Time `json:"dueAt,omitzero"`
	Assignee Partner   `json:"assignee,omitempty"`
}

// GroceryItem is a shared shopping-list entry.
type GroceryItem struct {
	Meta
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
	Checked  bool   `json:"checked,omitempty"`
}

// PhotoEntry is metadata for a shared photo; the binary lives elsewhere.
type PhotoEntry struct {
	Meta
	StorageKey string    `json:"storageKey"`
	Caption    string    `json:"caption,omitempty"`
	TakenAt    time.Time `json:"takenAt,omitzero"`
}

// Place is a location that matters to the couple.
type Place struct {
	Meta
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	Note      string  `json:"note,omitempty"`
}

// DailyAnswer is one partner's answer to the daily question.
type DailyAnswer struct {
	Meta
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Day      string `json:"day"` // YYYY-MM-DD
}

// WatchItem is a film or show on the shared watchlist.
type WatchItem struct {
	Meta
	Title   string `json:"title"`
	Kind    string `json:"kind,omitempty"` // movie, series, ...
	Watched bool   `json:"watched,omitempty"`
	Rating  int    `json:"rating,omitempty"`
}

// DateIdea is a saved idea for a future date.
type DateIdea struct {
	Meta
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
	Tried    bool   `json:"tried,omitempty"`
}

// Anniversary marks a yearly celebration with its origin date.
type Anniversary struct {
	Meta
	Title    string    `json:"title"`
	FirstAt  time.Time `json:"firstAt"`
	Reminder bool      `json:"reminder,omitempty"`
}

// Habit is a small routine the couple tracks together.
type Habit struct {
	Meta
	Title   string `json:"title"`
	Streak  int    `json:"streak,omitempty"`
	Cadence string `json:"cadence,omitempty"` // daily, weekly
}

// Gift tracks a gift idea or a gift given.
type Gift struct {
	Meta
	Title     string    `json:"title"`
	For       Partner   `json:"for,omitempty"`
	Purchased bool      `json:"purchased,omitempty"`
	GivenAt   time.Time `json:"givenAt,omitzero"`
}
