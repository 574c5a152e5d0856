package types

import "time"

// Entity-type names. These are wire values: they appear in REST paths,
// realtime change events, pending-operation snapshots, and durable-store
// keys, so they must stay stable across releases.
const (
	EntityNotes          = "notes"
	EntityMoments        = "moments"
	EntityCountdowns     = "countdowns"
	EntityMilestones     = "milestones"
	EntityWishItems      = "wish_items"
	EntityImportantDates = "important_dates"
	EntityMoodEntries    = "mood_entries"
	EntityLetters        = "letters"
	EntityBucketItems    = "bucket_items"
	EntityGratitude      = "gratitude_entries"
	EntityTasks          = "tasks"
	EntityGroceryItems   = "grocery_items"
	EntityPhotos         = "photos"
	EntityPlaces         = "places"
	EntityDailyAnswers   = "daily_answers"
	EntityWatchItems     = "watch_items"
	EntityDateIdeas      = "date_ideas"
	EntityAnniversaries  = "anniversaries"
	EntityHabits         = "habits"
	EntityGifts          = "gifts"
)

// Stamped is the read side of Meta: anything with an identity and optional
// clocks. The conflict resolver and the collection operate against it.
type Stamped interface {
	RecordID() string
	CreatedTime() time.Time
	UpdatedTime() time.Time
}
