package blockedRepo

import (
	"context"
	"time"

	"gatherly/models"
)

// BlockedPeriodRepository persists per-user rolling-window blocked-date
// bitmaps. Get returns (nil, nil) when no record exists for the key.
type BlockedPeriodRepository interface {
	Get(ctx context.Context, userID string, periodStart time.Time) (*models.BlockedPeriod, error)
	GetAllForUser(ctx context.Context, userID string) ([]models.BlockedPeriod, error)
	Upsert(ctx context.Context, period *models.BlockedPeriod) error
	Delete(ctx context.Context, userID string, periodStart time.Time) error
	// ListUserIDs returns the distinct users holding at least one record,
	// used by the monthly rollover job.
	ListUserIDs(ctx context.Context) ([]string, error)
}
