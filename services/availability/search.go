package availability

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	eventRepo "gatherly/database/repository/event"
	"gatherly/models"
	"gatherly/utils"
)

// DefaultAvailabilityService is the production availability engine. It is
// stateless and read-mostly: concurrent calls across events and users are
// safe, and results reflect a possibly slightly stale blocked-date snapshot.
type DefaultAvailabilityService struct {
	BlockedStore BlockedDateStore
	Calendar     CalendarIntervalProvider
	EventRepo    eventRepo.EventRepository
	Cache        *ResultCache
	Opts         SearchOptions
	// WorkerCap bounds fan-out parallelism; 0 means min(NumCPU, 8).
	WorkerCap int
	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time
}

func (s *DefaultAvailabilityService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultAvailabilityService) opts() SearchOptions {
	o := s.Opts
	def := DefaultSearchOptions()
	if o.SlotDuration <= 0 {
		o.SlotDuration = def.SlotDuration
	}
	if o.WorkingStart <= 0 && o.WorkingEnd <= 0 {
		o.WorkingStart, o.WorkingEnd = def.WorkingStart, def.WorkingEnd
	}
	if o.Step <= 0 {
		o.Step = def.Step
	}
	if o.MaxResults <= 0 {
		o.MaxResults = def.MaxResults
	}
	return o
}

func (s *DefaultAvailabilityService) workerCap() int {
	if s.WorkerCap > 0 {
		return s.WorkerCap
	}
	cap := runtime.NumCPU()
	if cap > 8 {
		cap = 8
	}
	if cap < 1 {
		cap = 1
	}
	return cap
}

// participantBusy is the per-roster snapshot a slot search runs against.
type participantBusy struct {
	merged      []models.BusyInterval
	blockedDays map[string]struct{} // union across participants, keyed yyyy-mm-dd
}

// gatherBusy fans out per participant: calendar intervals from every active
// source plus blocked days as whole-day intervals. Source failures are
// recovered per participant so one broken feed cannot abort the gather.
func (s *DefaultAvailabilityService) gatherBusy(ctx context.Context, participantIDs []string, window SearchWindow) (*participantBusy, error) {
	logger := utils.GetLogger()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		all      []models.BusyInterval
		blocked  = make(map[string]struct{})
		workerCh = make(chan struct{}, s.workerCap())
	)

	for _, userID := range participantIDs {
		wg.Add(1)
		workerCh <- struct{}{}
		go func(userID string) {
			defer wg.Done()
			defer func() { <-workerCh }()
			defer func() {
				if r := recover(); r != nil {
					logger.Error("busy-interval gather panicked",
						zap.String("userID", userID), zap.Any("panic", r))
				}
			}()

			var local []models.BusyInterval
			if s.Calendar != nil {
				intervals, err := s.Calendar.BusyIntervals(ctx, userID, window)
				if err != nil {
					// Sync failures degrade to "no calendar data" for this
					// participant; the merge proceeds with the rest.
					logger.Warn("calendar intervals unavailable",
						zap.String("userID", userID), zap.Error(err))
				} else {
					local = append(local, intervals...)
				}
			}

			dates, err := s.BlockedStore.GetBlockedDates(ctx, userID)
			if err != nil {
				logger.Warn("blocked dates unavailable",
					zap.String("userID", userID), zap.Error(err))
			}
			var days []string
			for _, d := range dates {
				local = append(local, blockedDayInterval(userID, d))
				days = append(days, d.Format("2006-01-02"))
			}

			mu.Lock()
			all = append(all, local...)
			for _, day := range days {
				blocked[day] = struct{}{}
			}
			mu.Unlock()
		}(userID)
	}
	wg.Wait()

	// Merge sorts, so the result is deterministic regardless of completion order.
	return &participantBusy{merged: Merge(all), blockedDays: blocked}, nil
}

// GetMergedBusyIntervals returns the minimal disjoint busy set for the
// participant set inside the window.
func (s *DefaultAvailabilityService) GetMergedBusyIntervals(ctx context.Context, participantIDs []string, window SearchWindow) ([]models.BusyInterval, error) {
	if len(participantIDs) == 0 {
		return nil, NewValidationError("participant set must not be empty")
	}
	if window.IsZero() {
		window = DefaultSearchWindow(s.now())
	}
	if window.End.Before(window.Start) {
		return nil, NewValidationError("window end precedes window start")
	}

	busy, err := s.gatherBusy(ctx, participantIDs, window)
	if err != nil {
		return nil, err
	}
	return busy.merged, nil
}

// FindAvailableSlots enumerates fixed-width candidate slots across the
// window's working hours, drops any slot overlapping the merged busy set,
// scores the survivors and returns the top candidates in chronological
// order.
func (s *DefaultAvailabilityService) FindAvailableSlots(ctx context.Context, participantIDs []string, window SearchWindow) ([]models.RecommendedSlot, error) {
	if len(participantIDs) == 0 {
		return nil, NewValidationError("participant set must not be empty")
	}
	now := s.now()
	if window.IsZero() {
		window = DefaultSearchWindow(now)
	}
	if window.End.Before(window.Start) {
		return nil, NewValidationError("window end precedes window start")
	}

	busy, err := s.gatherBusy(ctx, participantIDs, window)
	if err != nil {
		return nil, err
	}

	opts := s.opts()
	count := len(participantIDs)

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		slots    []models.RecommendedSlot
		workerCh = make(chan struct{}, s.workerCap())
	)

	for day := dateOnly(window.Start); day.Before(window.End); day = day.AddDate(0, 0, 1) {
		// Whole-day short-circuit before any interval math.
		if _, isBlocked := busy.blockedDays[day.Format("2006-01-02")]; isBlocked {
			continue
		}

		wg.Add(1)
		workerCh <- struct{}{}
		go func(day time.Time) {
			defer wg.Done()
			defer func() { <-workerCh }()

			daySlots := searchDay(day, window, busy.merged, opts, count, now)
			if len(daySlots) == 0 {
				return
			}
			mu.Lock()
			slots = append(slots, daySlots...)
			mu.Unlock()
		}(day)
	}
	wg.Wait()

	// Deterministic ordering regardless of completion order: nearest first.
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})
	if len(slots) > opts.MaxResults {
		slots = slots[:opts.MaxResults]
	}
	return slots, nil
}

// searchDay enumerates candidate slots for one day. A slot survives iff it
// overlaps no merged busy interval, however short the interval.
func searchDay(day time.Time, window SearchWindow, merged []models.BusyInterval, opts SearchOptions, participantCount int, now time.Time) []models.RecommendedSlot {
	workStart := day.Add(time.Duration(opts.WorkingStart) * time.Minute)
	workEnd := day.Add(time.Duration(opts.WorkingEnd) * time.Minute)

	var out []models.RecommendedSlot
	for start := workStart; !start.Add(opts.SlotDuration).After(workEnd); start = start.Add(opts.Step) {
		end := start.Add(opts.SlotDuration)
		if start.Before(window.Start) || end.After(window.End) {
			continue
		}
		if overlaps(merged, start, end) {
			continue
		}
		out = append(out, models.RecommendedSlot{
			Start:            start,
			End:              end,
			ParticipantCount: participantCount,
			Score:            scoreSlot(start, participantCount, now),
		})
	}
	return out
}
