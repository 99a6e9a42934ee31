package availability

import (
	"sort"
	"time"

	"gatherly/models"
)

// Merge unions overlapping and touching intervals into a minimal disjoint
// set, sorted by start. Touching intervals (next.Start == current.End) are
// merged into one. Zero-length intervals are absorbed by any interval that
// covers or touches their start.
func Merge(intervals []models.BusyInterval) []models.BusyInterval {
	if len(intervals) == 0 {
		return nil
	}

	sorted := make([]models.BusyInterval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].Start.Before(sorted[j].Start)
		}
		return sorted[i].End.Before(sorted[j].End)
	})

	merged := make([]models.BusyInterval, 0, len(sorted))
	merged = append(merged, sorted[0])
	for _, iv := range sorted[1:] {
		cur := &merged[len(merged)-1]
		if iv.Start.After(cur.End) {
			merged = append(merged, iv)
			continue
		}
		if iv.End.After(cur.End) {
			cur.End = iv.End
		}
	}
	return merged
}

// blockedDayInterval converts a blocked day into a whole-day busy span
// [00:00, 24:00).
func blockedDayInterval(userID string, day time.Time) models.BusyInterval {
	day = dateOnly(day)
	return models.BusyInterval{
		Start:        day,
		End:          day.AddDate(0, 0, 1),
		OriginUserID: userID,
	}
}

// overlaps reports whether [start, end) intersects any interval of a merged
// (sorted, disjoint) busy set. Touching intervals do not intersect.
func overlaps(merged []models.BusyInterval, start, end time.Time) bool {
	// First interval ending after start; if it also begins before end the
	// two spans share time.
	i := sort.Search(len(merged), func(i int) bool {
		return merged[i].End.After(start)
	})
	return i < len(merged) && merged[i].Overlaps(start, end)
}
