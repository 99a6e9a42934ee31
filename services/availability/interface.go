package availability

import (
	"context"
	"time"

	"gatherly/models"
)

// SearchWindow is the date range a slot search operates over.
type SearchWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IsZero reports whether the window was left unset by the caller.
func (w SearchWindow) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// SearchOptions tunes slot generation. Zero values fall back to the defaults
// from DefaultSearchOptions.
type SearchOptions struct {
	SlotDuration time.Duration // fixed width of every candidate slot
	WorkingStart int           // minutes from midnight, start of the working window
	WorkingEnd   int           // minutes from midnight, end of the working window
	Step         time.Duration // distance between consecutive candidate starts
	MaxResults   int           // result cap after chronological sort
}

// DefaultSearchOptions returns the standard tuning: 2h slots stepped every
// 2h across a 10:00-22:00 working window, capped at 5 results.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		SlotDuration: 2 * time.Hour,
		WorkingStart: 10 * 60,
		WorkingEnd:   22 * 60,
		Step:         2 * time.Hour,
		MaxResults:   5,
	}
}

// DefaultSearchWindow returns the standard window: tomorrow through 90 days out.
func DefaultSearchWindow(now time.Time) SearchWindow {
	start := dateOnly(now).AddDate(0, 0, 1)
	return SearchWindow{Start: start, End: start.AddDate(0, 0, models.BlockedWindowDays)}
}

// BlockedDateStore tracks each user's self-declared unavailable days inside
// the rolling window.
type BlockedDateStore interface {
	BlockDate(ctx context.Context, userID string, date time.Time) error
	UnblockDate(ctx context.Context, userID string, date time.Time) error
	IsBlocked(ctx context.Context, userID string, date time.Time) (bool, error)
	GetBlockedDates(ctx context.Context, userID string) ([]time.Time, error)
	BlockRange(ctx context.Context, userID string, start, end time.Time) error
	// Rollover advances the user's record to the current period anchor,
	// carrying forward any still-in-window bits.
	Rollover(ctx context.Context, userID string) error
}

// CalendarIntervalProvider yields a user's busy intervals from all of their
// registered calendar sources inside the window. Implementations must
// recover per-source failures internally and return whatever they could get.
type CalendarIntervalProvider interface {
	BusyIntervals(ctx context.Context, userID string, window SearchWindow) ([]models.BusyInterval, error)
}

// AvailabilityService computes merged busy intervals, scored free slots and
// dual (with/without a candidate) recommendations for participant sets.
type AvailabilityService interface {
	GetMergedBusyIntervals(ctx context.Context, participantIDs []string, window SearchWindow) ([]models.BusyInterval, error)
	FindAvailableSlots(ctx context.Context, participantIDs []string, window SearchWindow) ([]models.RecommendedSlot, error)
	GetDualRecommendation(ctx context.Context, eventID, candidateUserID string) (*models.DualRecommendation, error)
}

// ResultInvalidator drops cached recommendation results affected by a
// mutation. Staleness after a join/leave/block/unblock/sync is a correctness
// defect, so time-based expiry alone is not enough.
type ResultInvalidator interface {
	InvalidateEvent(ctx context.Context, eventID string) error
	InvalidateUser(ctx context.Context, userID string) error
}
