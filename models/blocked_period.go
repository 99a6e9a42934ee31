package models

import "time"

const (
	// BlockedWindowDays is the length of the rolling window tracked per user.
	BlockedWindowDays = 90
	// BlockedBitmapBytes holds BlockedWindowDays bits rounded up to whole bytes.
	BlockedBitmapBytes = 12
)

// BlockedPeriod is the compact per-user record of self-declared unavailable
// days. Bit i of Bitmap corresponds to the date PeriodStart + i days; dates
// outside [PeriodStart, PeriodStart+BlockedWindowDays) are never represented.
// There is at most one record per (user, periodStart).
type BlockedPeriod struct {
	UserID      string    `bson:"userId" json:"userId"`
	PeriodStart time.Time `bson:"periodStart" json:"periodStart"`
	Bitmap      []byte    `bson:"bitmap" json:"bitmap"`
}

// NewBlockedPeriod returns an empty record anchored at periodStart.
func NewBlockedPeriod(userID string, periodStart time.Time) *BlockedPeriod {
	return &BlockedPeriod{
		UserID:      userID,
		PeriodStart: periodStart,
		Bitmap:      make([]byte, BlockedBitmapBytes),
	}
}

// SetBit marks day index i as blocked. Out-of-window indexes are ignored.
func (b *BlockedPeriod) SetBit(i int) {
	if i < 0 || i >= BlockedWindowDays {
		return
	}
	b.Bitmap[i/8] |= 1 << uint(i%8)
}

// ClearBit marks day index i as free. Out-of-window indexes are ignored.
func (b *BlockedPeriod) ClearBit(i int) {
	if i < 0 || i >= BlockedWindowDays {
		return
	}
	b.Bitmap[i/8] &^= 1 << uint(i%8)
}

// Bit reports whether day index i is blocked. Out-of-window indexes are free.
func (b *BlockedPeriod) Bit(i int) bool {
	if i < 0 || i >= BlockedWindowDays {
		return false
	}
	return b.Bitmap[i/8]&(1<<uint(i%8)) != 0
}
