package availability

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gatherly/models"
)

// stubEventRepo serves a fixed event and roster.
type stubEventRepo struct {
	event        *models.Event
	participants []models.EventParticipant
}

func (r *stubEventRepo) Create(ctx context.Context, event *models.Event) error { return nil }

func (r *stubEventRepo) GetByID(ctx context.Context, id string) (*models.Event, error) {
	if r.event != nil && r.event.ID == id {
		cp := *r.event
		return &cp, nil
	}
	return nil, nil
}

func (r *stubEventRepo) UpdateStatus(ctx context.Context, id string, status models.EventStatus) error {
	return nil
}

func (r *stubEventRepo) AddParticipant(ctx context.Context, p *models.EventParticipant) error {
	return nil
}

func (r *stubEventRepo) MarkLeft(ctx context.Context, eventID, userID string, leftAt time.Time) error {
	return nil
}

func (r *stubEventRepo) GetActiveParticipants(ctx context.Context, eventID string) ([]models.EventParticipant, error) {
	var out []models.EventParticipant
	for _, p := range r.participants {
		if p.EventID == eventID && p.LeftAt == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubEventRepo) CountActiveParticipants(ctx context.Context, eventID string) (int64, error) {
	active, _ := r.GetActiveParticipants(ctx, eventID)
	return int64(len(active)), nil
}

func (r *stubEventRepo) GetActiveParticipant(ctx context.Context, eventID, userID string) (*models.EventParticipant, error) {
	active, _ := r.GetActiveParticipants(ctx, eventID)
	for _, p := range active {
		if p.UserID == userID {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubEventRepo) ListFlexibleEventIDs(ctx context.Context) ([]string, error) {
	return nil, nil
}

func roster(eventID string, userIDs ...string) []models.EventParticipant {
	out := make([]models.EventParticipant, 0, len(userIDs))
	for _, id := range userIDs {
		out = append(out, models.EventParticipant{EventID: eventID, UserID: id})
	}
	return out
}

func newDualService(repo *stubEventRepo, cal CalendarIntervalProvider, blocked *stubBlockedStore) *DefaultAvailabilityService {
	svc := newSearchService(cal, blocked)
	svc.EventRepo = repo
	return svc
}

// allDaysBlocked marks every day of the default window for the user.
func allDaysBlocked(userID string) *stubBlockedStore {
	var days []time.Time
	w := DefaultSearchWindow(fixedNow())
	for d := w.Start; d.Before(w.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return &stubBlockedStore{blocked: map[string][]time.Time{userID: days}}
}

func TestDualRecommendationUnknownEvent(t *testing.T) {
	svc := newDualService(&stubEventRepo{}, &stubCalendar{}, nil)

	var ve *ValidationError
	_, err := svc.GetDualRecommendation(context.Background(), "missing", "candidate")
	if !errors.As(err, &ve) {
		t.Errorf("unknown event error = %v, want ValidationError", err)
	}
}

func TestDualRecommendationFixedEventShortCircuits(t *testing.T) {
	repo := &stubEventRepo{
		event:        &models.Event{ID: "ev-1", Type: models.EventTypeFixed, Status: models.StatusRecruiting},
		participants: roster("ev-1", "u1"),
	}
	// A calendar that panics proves no search leg runs for FIXED events.
	svc := newDualService(repo, panicCalendar{}, nil)

	rec, err := svc.GetDualRecommendation(context.Background(), "ev-1", "candidate")
	if err != nil {
		t.Fatalf("GetDualRecommendation: %v", err)
	}
	if rec.Applicable {
		t.Error("FIXED event reported applicable")
	}
	if rec.Summary == "" {
		t.Error("FIXED event result has no explanatory summary")
	}
	if len(rec.Current.Slots) != 0 || len(rec.IncludingCandidate.Slots) != 0 {
		t.Error("FIXED event result carries slots")
	}
}

type panicCalendar struct{}

func (panicCalendar) BusyIntervals(ctx context.Context, userID string, window SearchWindow) ([]models.BusyInterval, error) {
	panic("calendar must not be consulted")
}

func TestDualRecommendationBothLegsPopulated(t *testing.T) {
	repo := &stubEventRepo{
		event:        &models.Event{ID: "ev-1", Type: models.EventTypeFlexible, Status: models.StatusRecruiting},
		participants: roster("ev-1", "u1", "u2"),
	}
	svc := newDualService(repo, &stubCalendar{}, nil)

	rec, err := svc.GetDualRecommendation(context.Background(), "ev-1", "candidate")
	if err != nil {
		t.Fatalf("GetDualRecommendation: %v", err)
	}
	if !rec.Applicable {
		t.Fatal("flexible event reported not applicable")
	}
	if len(rec.Current.Slots) == 0 || len(rec.IncludingCandidate.Slots) == 0 {
		t.Fatalf("expected both legs populated, got %d and %d slots",
			len(rec.Current.Slots), len(rec.IncludingCandidate.Slots))
	}
	if rec.Current.Slots[0].ParticipantCount != 2 {
		t.Errorf("current leg participant count = %d, want 2", rec.Current.Slots[0].ParticipantCount)
	}
	if rec.IncludingCandidate.Slots[0].ParticipantCount != 3 {
		t.Errorf("candidate leg participant count = %d, want 3", rec.IncludingCandidate.Slots[0].ParticipantCount)
	}
	if !strings.Contains(rec.Summary, "slot(s)") {
		t.Errorf("summary %q does not report slot counts", rec.Summary)
	}
}

func TestDualRecommendationCandidateEliminatesSlots(t *testing.T) {
	repo := &stubEventRepo{
		event:        &models.Event{ID: "ev-1", Type: models.EventTypeFlexible, Status: models.StatusRecruiting},
		participants: roster("ev-1", "u1"),
	}
	svc := newDualService(repo, &stubCalendar{}, allDaysBlocked("candidate"))

	rec, err := svc.GetDualRecommendation(context.Background(), "ev-1", "candidate")
	if err != nil {
		t.Fatalf("GetDualRecommendation: %v", err)
	}
	if len(rec.Current.Slots) == 0 {
		t.Fatal("current roster should have availability")
	}
	if len(rec.IncludingCandidate.Slots) != 0 {
		t.Fatal("fully blocked candidate should leave no shared slots")
	}
	if !strings.Contains(rec.Summary, "eliminate") {
		t.Errorf("summary = %q, want the elimination wording", rec.Summary)
	}
}

func TestDualRecommendationAlreadyMemberCandidate(t *testing.T) {
	repo := &stubEventRepo{
		event:        &models.Event{ID: "ev-1", Type: models.EventTypeFlexible, Status: models.StatusRecruiting},
		participants: roster("ev-1", "u1", "u2"),
	}
	svc := newDualService(repo, &stubCalendar{}, nil)

	rec, err := svc.GetDualRecommendation(context.Background(), "ev-1", "u2")
	if err != nil {
		t.Fatalf("GetDualRecommendation: %v", err)
	}
	// The candidate is already on the roster, so both legs run the same set.
	if len(rec.Current.Slots) != len(rec.IncludingCandidate.Slots) {
		t.Errorf("legs differ for a member candidate: %d vs %d",
			len(rec.Current.Slots), len(rec.IncludingCandidate.Slots))
	}
	if rec.IncludingCandidate.Slots[0].ParticipantCount != 2 {
		t.Errorf("candidate leg count = %d, want the unchanged roster size 2",
			rec.IncludingCandidate.Slots[0].ParticipantCount)
	}
}

func TestDualRecommendationEmptyRosterLegDegrades(t *testing.T) {
	// No active participants: the current leg fails validation and degrades
	// to an empty result while the candidate leg still runs.
	repo := &stubEventRepo{
		event: &models.Event{ID: "ev-1", Type: models.EventTypeFlexible, Status: models.StatusRecruiting},
	}
	svc := newDualService(repo, &stubCalendar{}, nil)

	rec, err := svc.GetDualRecommendation(context.Background(), "ev-1", "candidate")
	if err != nil {
		t.Fatalf("a degraded leg must not fail the request: %v", err)
	}
	if rec.Current.Note == "" {
		t.Error("degraded leg carries no note")
	}
	if len(rec.Current.Slots) != 0 {
		t.Error("degraded leg carries slots")
	}
	if len(rec.IncludingCandidate.Slots) == 0 {
		t.Error("healthy sibling leg was dragged down")
	}
	if !strings.Contains(rec.Summary, "unlock") {
		t.Errorf("summary = %q, want the unlock wording", rec.Summary)
	}
}

func TestSynthesize(t *testing.T) {
	slot := models.RecommendedSlot{}
	some := models.RecommendationLeg{Slots: []models.RecommendedSlot{slot, slot}}
	none := models.RecommendationLeg{}

	tests := []struct {
		name      string
		current   models.RecommendationLeg
		candidate models.RecommendationLeg
		contains  string
	}{
		{"both empty", none, none, "no shared availability"},
		{"only current empty", none, some, "unlock"},
		{"only candidate empty", some, none, "eliminate"},
		{"both populated", some, some, "2 slot(s)"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := synthesize(tc.current, tc.candidate)
			if !strings.Contains(got, tc.contains) {
				t.Errorf("synthesize = %q, want it to mention %q", got, tc.contains)
			}
		})
	}
}
