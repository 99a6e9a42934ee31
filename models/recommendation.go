package models

import "time"

// RecommendedSlot is one scored candidate meeting window. Derived data,
// cacheable but never authoritative.
type RecommendedSlot struct {
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	ParticipantCount int       `json:"participantCount"`
	Score            int       `json:"score"`
}

// RecommendationLeg is the result of one availability search within a dual
// recommendation. Note is set when the leg degraded to an empty result
// instead of failing the whole request.
type RecommendationLeg struct {
	Slots []RecommendedSlot `json:"slots"`
	Note  string            `json:"note,omitempty"`
}

// DualRecommendation compares availability for an event's current roster
// against the roster plus a candidate participant.
type DualRecommendation struct {
	EventID         string            `json:"eventId"`
	CandidateUserID string            `json:"candidateUserId"`
	// Applicable is false for FIXED events, which never compute
	// recommendations.
	Applicable         bool              `json:"applicable"`
	Summary            string            `json:"summary"`
	Current            RecommendationLeg `json:"current"`
	IncludingCandidate RecommendationLeg `json:"includingCandidate"`
}
