package models

import "time"

// SyncStatus is the outcome of the most recent sync attempt for a source.
type SyncStatus string

const (
	SyncStatusPending SyncStatus = "PENDING"
	SyncStatusSuccess SyncStatus = "SUCCESS"
	SyncStatusError   SyncStatus = "ERROR"
)

// CalendarSource is one externally hosted calendar feed registered by a user.
type CalendarSource struct {
	ID          string     `bson:"id" json:"id"`
	UserID      string     `bson:"userId" json:"userId"`
	URL         string     `bson:"url" json:"url"`
	DisplayName string     `bson:"displayName" json:"displayName"`
	// ColorIndex is assigned at registration from the user's active source
	// count and is never reclaimed when sources are deleted.
	ColorIndex   int        `bson:"colorIndex" json:"colorIndex"`
	SyncStatus   SyncStatus `bson:"syncStatus" json:"syncStatus"`
	SyncError    string     `bson:"syncError,omitempty" json:"syncError,omitempty"`
	LastSyncedAt *time.Time `bson:"lastSyncedAt,omitempty" json:"lastSyncedAt,omitempty"`
	CreatedAt    time.Time  `bson:"createdAt" json:"createdAt"`
}
