package calendar

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"gatherly/models"
	"gatherly/services/availability"
)

// colorPaletteSize is the number of distinct source colors the clients
// render. Indexes are assigned modulo the palette and never reclaimed from
// deletions.
const colorPaletteSize = 8

// RegisterSource validates and stores a new calendar feed for the user. The
// first sync runs inline so the source carries a status and, when the user
// gave no name, an extracted display name.
func (s *DefaultCalendarService) RegisterSource(ctx context.Context, userID, feedURL, displayName string) (*models.CalendarSource, error) {
	feedURL = strings.TrimSpace(feedURL)
	parsed, err := url.Parse(feedURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, availability.NewValidationError("calendar source URL must be a valid http(s) URL")
	}

	existing, err := s.Repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	source := &models.CalendarSource{
		ID:          uuid.New().String(),
		UserID:      userID,
		URL:         feedURL,
		DisplayName: displayName,
		ColorIndex:  int(existing) % colorPaletteSize,
		SyncStatus:  models.SyncStatusPending,
		CreatedAt:   s.now(),
	}
	if err := s.Repo.Create(ctx, source); err != nil {
		return nil, err
	}

	result := s.Sync(ctx, *source)
	source.SyncStatus = result.Status
	source.SyncError = result.Error
	if source.DisplayName == "" && result.DisplayName != "" {
		source.DisplayName = result.DisplayName
		if err := s.Repo.UpdateDisplayName(ctx, source.ID, result.DisplayName); err != nil {
			return nil, err
		}
	}
	return source, nil
}

// ListSources returns the user's registered feeds.
func (s *DefaultCalendarService) ListSources(ctx context.Context, userID string) ([]models.CalendarSource, error) {
	return s.Repo.GetActiveByUser(ctx, userID)
}

// DeleteSource removes a feed and drops cached results that depended on it.
func (s *DefaultCalendarService) DeleteSource(ctx context.Context, userID, sourceID string) error {
	if err := s.Repo.Delete(ctx, sourceID, userID); err != nil {
		return err
	}
	if s.Invalidator != nil {
		return s.Invalidator.InvalidateUser(ctx, userID)
	}
	return nil
}
