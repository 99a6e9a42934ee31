package event

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	eventRepo "gatherly/database/repository/event"
	"gatherly/models"
	"gatherly/services/availability"
	"gatherly/utils"
)

// EventService orchestrates event lifecycle and roster changes. Join and
// leave serialize per event around the count-then-transition sequence.
type EventService interface {
	Create(ctx context.Context, input CreateEventInput) (*models.Event, error)
	Get(ctx context.Context, eventID string) (*models.Event, error)
	Join(ctx context.Context, eventID, userID, password string) (*models.Event, error)
	Leave(ctx context.Context, eventID, userID string) (*models.Event, error)
	Complete(ctx context.Context, eventID string) (*models.Event, error)
	Cancel(ctx context.Context, eventID string) (*models.Event, error)
	UpdateStatusAfterJoin(ctx context.Context, event *models.Event, activeCount int) error
	UpdateStatusAfterLeave(ctx context.Context, event *models.Event, activeCount int) error
	SweepLocks(maxIdle time.Duration) int
}

// CreateEventInput is the payload for creating an event.
type CreateEventInput struct {
	CreatorID       string
	Title           string
	Type            models.EventType
	MinParticipants int
	MaxParticipants int
	// JoinPassword gates the event when non-empty.
	JoinPassword string
}

// DefaultEventService is the production implementation.
type DefaultEventService struct {
	Repo        eventRepo.EventRepository
	Invalidator availability.ResultInvalidator
	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time

	initOnce sync.Once
	locks    *lockRegistry
}

func (s *DefaultEventService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultEventService) registry() *lockRegistry {
	s.initOnce.Do(func() {
		s.locks = newLockRegistry(s.Now)
	})
	return s.locks
}

// Create validates and stores a new event. The creator joins immediately.
func (s *DefaultEventService) Create(ctx context.Context, input CreateEventInput) (*models.Event, error) {
	if input.CreatorID == "" {
		return nil, NewValidationError("creator is required")
	}
	if input.Type != models.EventTypeFixed && input.Type != models.EventTypeFlexible {
		return nil, NewValidationError("event type must be FIXED or FLEXIBLE")
	}
	if input.MinParticipants < 1 || input.MaxParticipants < input.MinParticipants {
		return nil, NewValidationError("participant bounds must satisfy 1 <= min <= max")
	}

	event := &models.Event{
		ID:              uuid.New().String(),
		CreatorID:       input.CreatorID,
		Title:           input.Title,
		Type:            input.Type,
		Status:          models.StatusRecruiting,
		MinParticipants: input.MinParticipants,
		MaxParticipants: input.MaxParticipants,
	}
	if input.JoinPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.JoinPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		event.JoinPasswordHash = string(hash)
	}
	if err := s.Repo.Create(ctx, event); err != nil {
		return nil, err
	}

	participant := &models.EventParticipant{
		EventID:  event.ID,
		UserID:   input.CreatorID,
		JoinedAt: s.now(),
	}
	if err := s.Repo.AddParticipant(ctx, participant); err != nil {
		return nil, err
	}

	// A min of 1 is already satisfied by the creator.
	if err := s.recompute(ctx, event, TriggerJoin); err != nil {
		return nil, err
	}
	return event, nil
}

// Get loads an event by id.
func (s *DefaultEventService) Get(ctx context.Context, eventID string) (*models.Event, error) {
	event, err := s.Repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, NewValidationError("unknown event: " + eventID)
	}
	return event, nil
}

// Join adds the user to the roster. Serialized per event: without the lock,
// concurrent joins can overshoot maxParticipants or compute a wrong status.
func (s *DefaultEventService) Join(ctx context.Context, eventID, userID, password string) (*models.Event, error) {
	lock := s.registry().acquire(eventID)
	lock.Lock()
	defer lock.Unlock()

	event, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.Status != models.StatusRecruiting && event.Status != models.StatusCancelled {
		return nil, NewConflictError("event is not recruiting")
	}
	if event.JoinPasswordHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(event.JoinPasswordHash), []byte(password)) != nil {
			return nil, NewConflictError("join password mismatch")
		}
	}

	active, err := s.Repo.GetActiveParticipant(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, NewConflictError("user already joined this event")
	}

	count, err := s.Repo.CountActiveParticipants(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if int(count) >= event.MaxParticipants {
		return nil, NewConflictError("event is at capacity")
	}

	participant := &models.EventParticipant{
		EventID:  eventID,
		UserID:   userID,
		JoinedAt: s.now(),
	}
	if err := s.Repo.AddParticipant(ctx, participant); err != nil {
		return nil, err
	}

	if err := s.recompute(ctx, event, TriggerJoin); err != nil {
		return nil, err
	}
	s.invalidate(ctx, eventID, userID)
	return event, nil
}

// Leave closes the user's participant row. The creator cannot leave.
func (s *DefaultEventService) Leave(ctx context.Context, eventID, userID string) (*models.Event, error) {
	lock := s.registry().acquire(eventID)
	lock.Lock()
	defer lock.Unlock()

	event, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.CreatorID == userID {
		return nil, NewConflictError("the creator cannot leave their own event")
	}

	active, err := s.Repo.GetActiveParticipant(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, NewConflictError("user is not an active participant")
	}

	if err := s.Repo.MarkLeft(ctx, eventID, userID, s.now()); err != nil {
		return nil, err
	}

	if err := s.recompute(ctx, event, TriggerLeave); err != nil {
		return nil, err
	}
	s.invalidate(ctx, eventID, userID)
	return event, nil
}

// Complete is the administrative override into COMPLETED.
func (s *DefaultEventService) Complete(ctx context.Context, eventID string) (*models.Event, error) {
	return s.force(ctx, eventID, TriggerManualComplete)
}

// Cancel is the administrative override into CANCELLED.
func (s *DefaultEventService) Cancel(ctx context.Context, eventID string) (*models.Event, error) {
	return s.force(ctx, eventID, TriggerManualCancel)
}

func (s *DefaultEventService) force(ctx context.Context, eventID string, trigger Trigger) (*models.Event, error) {
	lock := s.registry().acquire(eventID)
	lock.Lock()
	defer lock.Unlock()

	event, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	status, ok := ForceStatus(trigger)
	if !ok {
		return nil, NewValidationError("unsupported manual trigger")
	}
	if event.Status != status {
		if err := s.Repo.UpdateStatus(ctx, eventID, status); err != nil {
			return nil, err
		}
		event.Status = status
	}
	s.invalidate(ctx, eventID, "")
	return event, nil
}

// UpdateStatusAfterJoin recomputes status for an externally observed join.
func (s *DefaultEventService) UpdateStatusAfterJoin(ctx context.Context, event *models.Event, activeCount int) error {
	return s.applyTrigger(ctx, event, TriggerJoin, activeCount)
}

// UpdateStatusAfterLeave recomputes status for an externally observed leave.
func (s *DefaultEventService) UpdateStatusAfterLeave(ctx context.Context, event *models.Event, activeCount int) error {
	return s.applyTrigger(ctx, event, TriggerLeave, activeCount)
}

// SweepLocks drops per-event locks idle longer than maxIdle.
func (s *DefaultEventService) SweepLocks(maxIdle time.Duration) int {
	return s.registry().sweep(maxIdle)
}

func (s *DefaultEventService) recompute(ctx context.Context, event *models.Event, trigger Trigger) error {
	count, err := s.Repo.CountActiveParticipants(ctx, event.ID)
	if err != nil {
		return err
	}
	return s.applyTrigger(ctx, event, trigger, int(count))
}

func (s *DefaultEventService) applyTrigger(ctx context.Context, event *models.Event, trigger Trigger, activeCount int) error {
	// FIXED events never auto-transition.
	if event.Type == models.EventTypeFixed {
		return nil
	}
	sc := StatusContext{ActiveCount: activeCount, MinParticipants: event.MinParticipants}
	next, changed := NextStatus(event.Status, trigger, sc)
	if !changed {
		return nil
	}
	if err := s.Repo.UpdateStatus(ctx, event.ID, next); err != nil {
		return err
	}
	event.Status = next
	return nil
}

func (s *DefaultEventService) invalidate(ctx context.Context, eventID, userID string) {
	if s.Invalidator == nil {
		return
	}
	if err := s.Invalidator.InvalidateEvent(ctx, eventID); err != nil {
		utils.GetLogger().Warn("failed to invalidate cached results for event",
			zap.String("eventID", eventID), zap.Error(err))
	}
	if userID == "" {
		return
	}
	if err := s.Invalidator.InvalidateUser(ctx, userID); err != nil {
		utils.GetLogger().Warn("failed to invalidate cached results for user",
			zap.String("userID", userID), zap.Error(err))
	}
}
