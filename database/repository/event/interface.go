package eventRepo

import (
	"context"
	"time"

	"gatherly/models"
)

// EventRepository persists events and their participant join history.
// Participant rows are soft-closed via leftAt, never hard-deleted.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	UpdateStatus(ctx context.Context, id string, status models.EventStatus) error

	AddParticipant(ctx context.Context, participant *models.EventParticipant) error
	MarkLeft(ctx context.Context, eventID, userID string, leftAt time.Time) error
	GetActiveParticipants(ctx context.Context, eventID string) ([]models.EventParticipant, error)
	CountActiveParticipants(ctx context.Context, eventID string) (int64, error)
	GetActiveParticipant(ctx context.Context, eventID, userID string) (*models.EventParticipant, error)

	// ListFlexibleEventIDs returns the ids of FLEXIBLE events still open to
	// scheduling, used by the periodic refresh job.
	ListFlexibleEventIDs(ctx context.Context) ([]string, error)
}
