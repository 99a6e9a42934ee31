package availability

import (
	"context"
	"time"

	"go.uber.org/zap"

	blockedRepo "gatherly/database/repository/blocked"
	"gatherly/models"
	"gatherly/utils"
)

// DefaultBlockedDateStore keeps each user's blocked days in a single
// 90-day bitmap record anchored to the first of the current month. The
// fixed footprint is deliberate: history outside the window is not
// retrievable.
type DefaultBlockedDateStore struct {
	Repo        blockedRepo.BlockedPeriodRepository
	Invalidator ResultInvalidator
	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time
}

func (s *DefaultBlockedDateStore) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// dateOnly normalizes t to UTC midnight of its calendar day.
func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// periodAnchor returns the first day of t's month, the bitmap anchor.
func periodAnchor(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole days from a to b, both at UTC midnight.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}

// BlockDate marks a single day as unavailable. Dates outside the current
// rolling window are silently ignored.
func (s *DefaultBlockedDateStore) BlockDate(ctx context.Context, userID string, date time.Time) error {
	anchor := periodAnchor(s.now())
	idx := daysBetween(anchor, dateOnly(date))
	if idx < 0 || idx >= models.BlockedWindowDays {
		utils.GetLogger().Debug("block request outside rolling window ignored",
			zap.String("userID", userID), zap.Time("date", date))
		return nil
	}

	period, err := s.Repo.Get(ctx, userID, anchor)
	if err != nil {
		return err
	}
	if period == nil {
		period = models.NewBlockedPeriod(userID, anchor)
	}
	if period.Bit(idx) {
		return nil
	}
	period.SetBit(idx)
	if err := s.Repo.Upsert(ctx, period); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

// UnblockDate clears a blocked day. A missing record or out-of-window date
// is a no-op.
func (s *DefaultBlockedDateStore) UnblockDate(ctx context.Context, userID string, date time.Time) error {
	anchor := periodAnchor(s.now())
	idx := daysBetween(anchor, dateOnly(date))
	if idx < 0 || idx >= models.BlockedWindowDays {
		return nil
	}

	period, err := s.Repo.Get(ctx, userID, anchor)
	if err != nil {
		return err
	}
	if period == nil || !period.Bit(idx) {
		return nil
	}
	period.ClearBit(idx)
	if err := s.Repo.Upsert(ctx, period); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

// IsBlocked reports whether the user blocked the given day. Out-of-window
// dates are always free.
func (s *DefaultBlockedDateStore) IsBlocked(ctx context.Context, userID string, date time.Time) (bool, error) {
	anchor := periodAnchor(s.now())
	idx := daysBetween(anchor, dateOnly(date))
	if idx < 0 || idx >= models.BlockedWindowDays {
		return false, nil
	}

	period, err := s.Repo.Get(ctx, userID, anchor)
	if err != nil {
		return false, err
	}
	if period == nil {
		return false, nil
	}
	return period.Bit(idx), nil
}

// GetBlockedDates decodes the bitmap into the set of blocked days.
func (s *DefaultBlockedDateStore) GetBlockedDates(ctx context.Context, userID string) ([]time.Time, error) {
	anchor := periodAnchor(s.now())
	period, err := s.Repo.Get(ctx, userID, anchor)
	if err != nil {
		return nil, err
	}
	if period == nil {
		return nil, nil
	}

	var dates []time.Time
	for i := 0; i < models.BlockedWindowDays; i++ {
		if period.Bit(i) {
			dates = append(dates, anchor.AddDate(0, 0, i))
		}
	}
	return dates, nil
}

// BlockRange blocks every day in [start, end]. Reversed ranges are
// normalized; iteration is capped at the window length to bound cost.
func (s *DefaultBlockedDateStore) BlockRange(ctx context.Context, userID string, start, end time.Time) error {
	start, end = dateOnly(start), dateOnly(end)
	if end.Before(start) {
		start, end = end, start
	}

	for d, n := start, 0; !d.After(end) && n < models.BlockedWindowDays; d, n = d.AddDate(0, 0, 1), n+1 {
		if err := s.BlockDate(ctx, userID, d); err != nil {
			return err
		}
	}
	return nil
}

// Rollover migrates the user's record to the current period anchor: bits
// still inside the new window are copied forward, old records discarded.
// Invoked monthly by the scheduler.
func (s *DefaultBlockedDateStore) Rollover(ctx context.Context, userID string) error {
	anchor := periodAnchor(s.now())
	periods, err := s.Repo.GetAllForUser(ctx, userID)
	if err != nil {
		return err
	}

	current := models.NewBlockedPeriod(userID, anchor)
	var stale []time.Time
	for i := range periods {
		p := &periods[i]
		if p.PeriodStart.Equal(anchor) {
			// OR, not copy: a stale record iterated earlier may already
			// have carried bits into current, and repository order is
			// unspecified.
			for j := range current.Bitmap {
				if j < len(p.Bitmap) {
					current.Bitmap[j] |= p.Bitmap[j]
				}
			}
			continue
		}
		stale = append(stale, p.PeriodStart)
		for i := 0; i < models.BlockedWindowDays; i++ {
			if !p.Bit(i) {
				continue
			}
			current.SetBit(daysBetween(anchor, p.PeriodStart.AddDate(0, 0, i)))
		}
	}
	if len(stale) == 0 {
		return nil
	}

	if err := s.Repo.Upsert(ctx, current); err != nil {
		return err
	}
	for _, old := range stale {
		if err := s.Repo.Delete(ctx, userID, old); err != nil {
			return err
		}
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *DefaultBlockedDateStore) invalidate(ctx context.Context, userID string) {
	if s.Invalidator == nil {
		return
	}
	if err := s.Invalidator.InvalidateUser(ctx, userID); err != nil {
		utils.GetLogger().Warn("failed to invalidate cached results",
			zap.String("userID", userID), zap.Error(err))
	}
}
