package models

import "time"

// BusyInterval is a time span a participant is already committed to, taken
// from an external calendar event or a blocked day. Intervals are transient:
// they are computed fresh per request and never persisted.
type BusyInterval struct {
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	OriginUserID   string    `json:"originUserId,omitempty"`
	OriginSourceID string    `json:"originSourceId,omitempty"`
}

// Overlaps reports whether the half-open span [Start, End) shares any time
// with [start, end). Spans that only touch do not overlap.
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return b.Start.Before(end) && b.End.After(start)
}
