package models

import "time"

// EventType distinguishes events with a locked time from events whose
// time is still being negotiated.
type EventType string

const (
	EventTypeFixed    EventType = "FIXED"
	EventTypeFlexible EventType = "FLEXIBLE"
)

// EventStatus is the recruitment lifecycle state of an event.
type EventStatus string

const (
	StatusRecruiting          EventStatus = "RECRUITING"
	StatusRecruitmentComplete EventStatus = "RECRUITMENT_COMPLETE"
	StatusCompleted           EventStatus = "COMPLETED"
	StatusCancelled           EventStatus = "CANCELLED"
)

// Event represents a planned gathering whose roster is assembled over time.
type Event struct {
	ID              string      `bson:"id" json:"id"`
	CreatorID       string      `bson:"creatorId" json:"creatorId"`
	Title           string      `bson:"title" json:"title"`
	Type            EventType   `bson:"type" json:"type"`
	Status          EventStatus `bson:"status" json:"status"`
	MinParticipants int         `bson:"minParticipants" json:"minParticipants"`
	MaxParticipants int         `bson:"maxParticipants" json:"maxParticipants"`
	// JoinPasswordHash is set only for gated events (bcrypt).
	JoinPasswordHash string    `bson:"joinPasswordHash,omitempty" json:"-"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt"`
}

// EventParticipant is one join record for an event. Rows are never hard
// deleted; leaving closes the row by setting LeftAt. A user who rejoins
// gets a fresh row, so the full join history is preserved.
type EventParticipant struct {
	EventID  string     `bson:"eventId" json:"eventId"`
	UserID   string     `bson:"userId" json:"userId"`
	JoinedAt time.Time  `bson:"joinedAt" json:"joinedAt"`
	LeftAt   *time.Time `bson:"leftAt,omitempty" json:"leftAt,omitempty"`
}

// Active reports whether the participant record is still open.
func (p EventParticipant) Active() bool {
	return p.LeftAt == nil
}
