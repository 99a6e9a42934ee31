package availability

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"gatherly/models"
	"gatherly/utils"
)

const legFailureNote = "availability could not be computed for this roster"

// GetDualRecommendation runs two slot searches concurrently, one for the
// event's current active roster and one for the roster plus the candidate,
// and synthesizes a comparison. FIXED events short-circuit to an explicit
// not-applicable result. A failure in either leg degrades that leg to an
// empty result with a note; it never fails the sibling leg or the request.
func (s *DefaultAvailabilityService) GetDualRecommendation(ctx context.Context, eventID, candidateUserID string) (*models.DualRecommendation, error) {
	event, err := s.EventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, NewValidationError("unknown event: " + eventID)
	}

	if event.Type == models.EventTypeFixed {
		return &models.DualRecommendation{
			EventID:         eventID,
			CandidateUserID: candidateUserID,
			Applicable:      false,
			Summary:         "event time is fixed; availability recommendations do not apply",
		}, nil
	}

	if cached, ok := s.Cache.GetDual(ctx, eventID, candidateUserID); ok {
		return cached, nil
	}

	participants, err := s.EventRepo.GetActiveParticipants(ctx, eventID)
	if err != nil {
		return nil, err
	}
	current := make([]string, 0, len(participants))
	alreadyMember := false
	for _, p := range participants {
		current = append(current, p.UserID)
		if p.UserID == candidateUserID {
			alreadyMember = true
		}
	}
	withCandidate := current
	if !alreadyMember {
		withCandidate = append(append([]string{}, current...), candidateUserID)
	}

	window := DefaultSearchWindow(s.now())

	var wg sync.WaitGroup
	var currentLeg, candidateLeg models.RecommendationLeg
	wg.Add(2)
	go func() {
		defer wg.Done()
		currentLeg = s.runLeg(ctx, current, window)
	}()
	go func() {
		defer wg.Done()
		candidateLeg = s.runLeg(ctx, withCandidate, window)
	}()
	wg.Wait()

	rec := &models.DualRecommendation{
		EventID:            eventID,
		CandidateUserID:    candidateUserID,
		Applicable:         true,
		Summary:            synthesize(currentLeg, candidateLeg),
		Current:            currentLeg,
		IncludingCandidate: candidateLeg,
	}

	users := append(append([]string{}, withCandidate...), current...)
	s.Cache.PutDual(ctx, rec, users)
	return rec, nil
}

// runLeg executes one search, converting any error or panic into an empty
// degraded leg.
func (s *DefaultAvailabilityService) runLeg(ctx context.Context, participantIDs []string, window SearchWindow) (leg models.RecommendationLeg) {
	defer func() {
		if r := recover(); r != nil {
			utils.GetLogger().Error("recommendation leg panicked", zap.Any("panic", r))
			leg = models.RecommendationLeg{Note: legFailureNote}
		}
	}()

	slots, err := s.FindAvailableSlots(ctx, participantIDs, window)
	if err != nil {
		utils.GetLogger().Warn("recommendation leg degraded",
			zap.Strings("participants", participantIDs), zap.Error(err))
		return models.RecommendationLeg{Note: legFailureNote}
	}
	return models.RecommendationLeg{Slots: slots}
}

func synthesize(current, candidate models.RecommendationLeg) string {
	curN, candN := len(current.Slots), len(candidate.Slots)
	switch {
	case curN == 0 && candN == 0:
		return "no shared availability with or without the candidate"
	case curN == 0:
		return fmt.Sprintf("the candidate's join would unlock %d slot(s) for a roster that currently has none", candN)
	case candN == 0:
		return "the candidate joining would eliminate all currently available slots"
	default:
		return fmt.Sprintf("%d slot(s) available now, %d slot(s) with the candidate included", curN, candN)
	}
}
