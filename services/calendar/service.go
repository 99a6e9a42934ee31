package calendar

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	calendarsourceRepo "gatherly/database/repository/calendarsource"
	"gatherly/models"
	"gatherly/services/availability"
	"gatherly/utils"
)

// SyncResult is the outcome of one sync attempt against one source. Fetch
// and parse failures are carried here as data, never as an error escaping
// the sync boundary.
type SyncResult struct {
	SourceID    string            `json:"sourceId"`
	Status      models.SyncStatus `json:"status"`
	DisplayName string            `json:"displayName,omitempty"`
	EventCount  int               `json:"eventCount"`
	Error       string            `json:"error,omitempty"`
}

// CalendarService manages registered calendar feeds and turns them into
// busy intervals for the availability engine.
type CalendarService interface {
	RegisterSource(ctx context.Context, userID, url, displayName string) (*models.CalendarSource, error)
	ListSources(ctx context.Context, userID string) ([]models.CalendarSource, error)
	DeleteSource(ctx context.Context, userID, sourceID string) error
	Sync(ctx context.Context, source models.CalendarSource) SyncResult
	SyncAllForUser(ctx context.Context, userID string) []SyncResult
	BusyIntervals(ctx context.Context, userID string, window availability.SearchWindow) ([]models.BusyInterval, error)
}

// DefaultCalendarService is the production implementation.
type DefaultCalendarService struct {
	Repo        calendarsourceRepo.CalendarSourceRepository
	Invalidator availability.ResultInvalidator
	// Client is the HTTP client used for feed fetches; nil means a client
	// with FetchTimeout.
	Client       *http.Client
	FetchTimeout time.Duration
	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time
}

func (s *DefaultCalendarService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultCalendarService) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	timeout := s.FetchTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// Sync fetches and parses one source and records the outcome on the source
// record. It never returns an error: unreachable hosts, non-2xx responses
// and malformed bodies all produce an ERROR result.
func (s *DefaultCalendarService) Sync(ctx context.Context, source models.CalendarSource) SyncResult {
	logger := utils.GetLogger()
	now := s.now()

	body, err := s.fetch(ctx, source.URL)
	if err != nil {
		logger.Warn("calendar fetch failed",
			zap.String("sourceID", source.ID), zap.Error(err))
		s.recordOutcome(ctx, source.ID, models.SyncStatusError, err.Error(), now)
		return SyncResult{SourceID: source.ID, Status: models.SyncStatusError, Error: err.Error()}
	}

	events, displayName, err := parseICS(body)
	if err != nil {
		logger.Warn("calendar parse failed",
			zap.String("sourceID", source.ID), zap.Error(err))
		s.recordOutcome(ctx, source.ID, models.SyncStatusError, err.Error(), now)
		return SyncResult{SourceID: source.ID, Status: models.SyncStatusError, Error: err.Error()}
	}

	s.recordOutcome(ctx, source.ID, models.SyncStatusSuccess, "", now)
	return SyncResult{
		SourceID:    source.ID,
		Status:      models.SyncStatusSuccess,
		DisplayName: displayName,
		EventCount:  len(events),
	}
}

func (s *DefaultCalendarService) recordOutcome(ctx context.Context, sourceID string, status models.SyncStatus, msg string, at time.Time) {
	if err := s.Repo.UpdateSyncStatus(ctx, sourceID, status, msg, at); err != nil {
		utils.GetLogger().Warn("failed to record sync outcome",
			zap.String("sourceID", sourceID), zap.Error(err))
	}
}

// SyncAllForUser syncs every active source of the user concurrently. One
// bad source never aborts the others.
func (s *DefaultCalendarService) SyncAllForUser(ctx context.Context, userID string) []SyncResult {
	sources, err := s.Repo.GetActiveByUser(ctx, userID)
	if err != nil {
		utils.GetLogger().Warn("failed to load sources for sync",
			zap.String("userID", userID), zap.Error(err))
		return nil
	}

	results := make([]SyncResult, len(sources))
	var wg sync.WaitGroup
	for i, source := range sources {
		wg.Add(1)
		go func(i int, source models.CalendarSource) {
			defer wg.Done()
			results[i] = s.Sync(ctx, source)
		}(i, source)
	}
	wg.Wait()

	if s.Invalidator != nil {
		if err := s.Invalidator.InvalidateUser(ctx, userID); err != nil {
			utils.GetLogger().Warn("failed to invalidate cached results after sync",
				zap.String("userID", userID), zap.Error(err))
		}
	}
	return results
}

// BusyIntervals fetches, parses and expands every active source of the user
// into busy intervals inside the window. Per-source failures are recorded on
// the source and otherwise skipped, so one unreachable feed cannot stall the
// rest.
func (s *DefaultCalendarService) BusyIntervals(ctx context.Context, userID string, window availability.SearchWindow) ([]models.BusyInterval, error) {
	sources, err := s.Repo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		all []models.BusyInterval
	)
	for _, source := range sources {
		wg.Add(1)
		go func(source models.CalendarSource) {
			defer wg.Done()

			body, err := s.fetch(ctx, source.URL)
			if err != nil {
				s.recordOutcome(ctx, source.ID, models.SyncStatusError, err.Error(), s.now())
				return
			}
			events, _, err := parseICS(body)
			if err != nil {
				s.recordOutcome(ctx, source.ID, models.SyncStatusError, err.Error(), s.now())
				return
			}
			s.recordOutcome(ctx, source.ID, models.SyncStatusSuccess, "", s.now())

			intervals := expandBusyIntervals(events, userID, source.ID, window)
			mu.Lock()
			all = append(all, intervals...)
			mu.Unlock()
		}(source)
	}
	wg.Wait()
	return all, nil
}
