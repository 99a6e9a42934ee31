package calendarsourceRepo

import (
	"context"
	"time"

	"gatherly/models"
)

// CalendarSourceRepository persists registered external calendar feeds.
type CalendarSourceRepository interface {
	Create(ctx context.Context, source *models.CalendarSource) error
	GetByID(ctx context.Context, id string) (*models.CalendarSource, error)
	GetActiveByUser(ctx context.Context, userID string) ([]models.CalendarSource, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	UpdateSyncStatus(ctx context.Context, id string, status models.SyncStatus, syncErr string, syncedAt time.Time) error
	UpdateDisplayName(ctx context.Context, id, displayName string) error
	Delete(ctx context.Context, id, userID string) error
}
