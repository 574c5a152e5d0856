package tandemsync

import (
	"github.com/rs/zerolog"

	"github.com/tandemapp/tandemsync/internal/collection"
	"github.com/tandemapp/tandemsync/internal/kv"
	"github.com/tandemapp/tandemsync/internal/queue"
	"github.com/tandemapp/tandemsync/internal/registry"
	"github.com/tandemapp/tandemsync/internal/types"
)

// Typed collection aliases so embedders never name the generic type.
type (
	NoteCollection          = collection.Collection[types.Note, *types.Note]
	MomentCollection        = collection.Collection[types.Moment, *types.Moment]
	CountdownCollection     = collection.Collection[types.Countdown, *types.Countdown]
	MilestoneCollection     = collection.Collection[types.Milestone, *types.Milestone]
	WishItemCollection      = collection.Collection[types.WishItem, *types.WishItem]
	ImportantDateCollection = collection.Collection[types.ImportantDate, *types.ImportantDate]
	MoodEntryCollection     = collection.Collection[types.MoodEntry, *types.MoodEntry]
	LetterCollection        = collection.Collection[types.Letter, *types.Letter]
	BucketItemCollection    = collection.Collection[types.BucketItem, *types.BucketItem]
	GratitudeCollection     = collection.Collection[types.GratitudeEntry, *types.GratitudeEntry]
	TaskCollection          = collection.Collection[types.Task, *types.Task]
	GroceryItemCollection   = collection.Collection[types.GroceryItem, *types.GroceryItem]
	PhotoCollection         = collection.Collection[types.PhotoEntry, *types.PhotoEntry]
	PlaceCollection         = collection.Collection[types.Place, *types.Place]
	DailyAnswerCollection   = collection.Collection[types.DailyAnswer, *types.DailyAnswer]
	WatchItemCollection     = collection.Collection[types.WatchItem, *types.WatchItem]
	DateIdeaCollection      = collection.Collection[types.DateIdea, *types.DateIdea]
	AnniversaryCollection   = collection.Collection[types.Anniversary, *types.Anniversary]
	HabitCollection         = collection.Collection[types.Habit, *types.Habit]
	GiftCollection          = collection.Collection[types.Gift, *types.Gift]
)

// collections holds every entity collection of the shared space. All of
// them are built, persisted, and registered together: the registry walk at
// sign-out must see each one.
type collections struct {
	notes          *NoteCollection
	moments        *MomentCollection
	countdowns     *CountdownCollection
	milestones     *MilestoneCollection
	wishItems      *WishItemCollection
	importantDates *ImportantDateCollection
	moodEntries    *MoodEntryCollection
	letters        *LetterCollection
	bucketItems    *BucketItemCollection
	gratitude      *GratitudeCollection
	tasks          *TaskCollection
	groceryItems   *GroceryItemCollection
	photos         *PhotoCollection
	places         *PlaceCollection
	dailyAnswers   *DailyAnswerCollection
	watchItems     *WatchItemCollection
	dateIdeas      *DateIdeaCollection
	anniversaries  *AnniversaryCollection
	habits         *HabitCollection
	gifts          *GiftCollection
}

// newCollections loads every collection from the store and registers each
// with the registry, in a fixed order so pulls and resets are
// deterministic.
func newCollections(store kv.Store, q *queue.Queue, reg *registry.Registry, log zerolog.Logger) collections {
	c := collections{
		notes:          collection.New[types.Note, *types.Note](types.EntityNotes, store, q, log),
		moments:        collection.New[types.Moment, *types.Moment](types.EntityMoments, store, q, log),
		countdowns:     collection.New[types.Countdown, *types.Countdown](types.EntityCountdowns, store, q, log),
		milestones:     collection.New[types.Milestone, *types.Milestone](types.EntityMilestones, store, q, log),
		wishItems:      collection.New[types.WishItem, *types.WishItem](types.EntityWishItems, store, q, log),
		importantDates: collection.New[types.ImportantDate, *types.ImportantDate](types.EntityImportantDates, store, q, log),
		moodEntries:    collection.New[types.MoodEntry, *types.MoodEntry](types.EntityMoodEntries, store, q, log),
		letters:        collection.New[types.Letter, *types.Letter](types.EntityLetters, store, q, log),
		bucketItems:    collection.New[types.BucketItem, *types.BucketItem](types.EntityBucketItems, store, q, log),
		gratitude:      collection.New[types.GratitudeEntry, *types.GratitudeEntry](types.EntityGratitude, store, q, log),
		tasks:          collection.New[types.Task, *types.Task](types.EntityTasks, store, q, log),
		groceryItems:   collection.New[types.GroceryItem, *types.GroceryItem](types.EntityGroceryItems, store, q, log),
		photos:         collection.New[types.PhotoEntry, *types.PhotoEntry](types.EntityPhotos, store, q, log),
		places:         collection.New[types.Place, *types.Place](types.EntityPlaces, store, q, log),
		dailyAnswers:   collection.New[types.DailyAnswer, *types.DailyAnswer](types.EntityDailyAnswers, store, q, log),
		watchItems:     collection.New[types.WatchItem, *types.WatchItem](types.EntityWatchItems, store, q, log),
		dateIdeas:      collection.New[types.DateIdea, *types.DateIdea](types.EntityDateIdeas, store, q, log),
		anniversaries:  collection.New[types.Anniversary, *types.Anniversary](types.EntityAnniversaries, store, q, log),
		habits:         collection.New[types.Habit, *types.Habit](types.EntityHabits, store, q, log),
		gifts:          collection.New[types.Gift, *types.Gift](types.EntityGifts, store, q, log),
	}
	for _, synced := range []collection.Synced{
		c.notes, c.moments, c.countdowns, c.milestones, c.wishItems,
		c.importantDates, c.moodEntries, c.letters, c.bucketItems,
		c.gratitude, c.tasks, c.groceryItems, c.photos, c.places,
		c.dailyAnswers, c.watchItems, c.dateIdeas, c.anniversaries,
		c.habits, c.gifts,
	} {
		reg.Register(synced)
	}
	return c
}

// Notes holds shared free-form notes.
func (a *App) Notes() *NoteCollection { return a.cols.notes }

// Moments holds captured memories of the relationship timeline.
func (a *App) Moments() *MomentCollection { return a.cols.moments }

// Countdowns holds events the couple counts down to.
func (a *App) Countdowns() *CountdownCollection { return a.cols.countdowns }

// Milestones holds relationship milestones.
func (a *App) Milestones() *MilestoneCollection { return a.cols.milestones }

// WishItems holds the shared wishlist.
func (a *App) WishItems() *WishItemCollection { return a.cols.wishItems }

// ImportantDates holds birthdays and other dates to remember.
func (a *App) ImportantDates() *ImportantDateCollection { return a.cols.importantDates }

// MoodEntries holds per-partner mood check-ins.
func (a *App) MoodEntries() *MoodEntryCollection { return a.cols.moodEntries }

// Letters holds letters written to the partner, optionally sealed until a
// future date.
func (a *App) Letters() *LetterCollection { return a.cols.letters }

// BucketItems holds the couple's bucket list.
func (a *App) BucketItems() *BucketItemCollection { return a.cols.bucketItems }

// Gratitude holds gratitude journal entries.
func (a *App) Gratitude() *GratitudeCollection { return a.cols.gratitude }

// Tasks holds the shared to-do list.
func (a *App) Tasks() *TaskCollection { return a.cols.tasks }

// GroceryItems holds the shared grocery list.
func (a *App) GroceryItems() *GroceryItemCollection { return a.cols.groceryItems }

// Photos holds shared photo album entries.
func (a *App) Photos() *PhotoCollection { return a.cols.photos }

// Places holds saved places on the shared map.
func (a *App) Places() *PlaceCollection { return a.cols.places }

// DailyAnswers holds answers to the daily couple question.
func (a *App) DailyAnswers() *DailyAnswerCollection { return a.cols.dailyAnswers }

// WatchItems holds the shared watchlist of movies and shows.
func (a *App) WatchItems() *WatchItemCollection { return a.cols.watchItems }

// DateIdeas holds collected date ideas.
func (a *App) DateIdeas() *DateIdeaCollection { return a.cols.dateIdeas }

// Anniversaries holds recurring anniversaries.
func (a *App) Anniversaries() *AnniversaryCollection { return a.cols.anniversaries }

// Habits holds habits the couple tracks together.
func (a *App) Habits() *HabitCollection { return a.cols.habits }

// Gifts holds gift ideas and purchases.
func (a *App) Gifts() *GiftCollection { return a.cols.gifts }
