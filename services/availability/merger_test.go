package availability

import (
	"testing"
	"time"

	"gatherly/models"
)

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad timestamp %q: %v", value, err)
	}
	return ts.UTC()
}

func iv(t *testing.T, start, end string) models.BusyInterval {
	t.Helper()
	return models.BusyInterval{Start: at(t, start), End: at(t, end)}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name  string
		input []models.BusyInterval
		want  []models.BusyInterval
	}{
		{
			name:  "empty input",
			input: nil,
			want:  nil,
		},
		{
			name: "touching intervals merge into one",
			input: []models.BusyInterval{
				iv(t, "2025-10-02T09:00:00Z", "2025-10-02T10:00:00Z"),
				iv(t, "2025-10-02T10:00:00Z", "2025-10-02T11:00:00Z"),
			},
			want: []models.BusyInterval{
				iv(t, "2025-10-02T09:00:00Z", "2025-10-02T11:00:00Z"),
			},
		},
		{
			name: "overlapping intervals merge",
			input: []models.BusyInterval{
				iv(t, "2025-10-02T09:00:00Z", "2025-10-02T11:00:00Z"),
				iv(t, "2025-10-02T10:00:00Z", "2025-10-02T12:00:00Z"),
			},
			want: []models.BusyInterval{
				iv(t, "2025-10-02T09:00:00Z", "2025-10-02T12:00:00Z"),
			},
		},
		{
			name: "contained interval is absorbed",
			input: []models.BusyInterval{
				iv(t, "2025-10-02T09:00:00Z", "2025-10-02T15:00:00Z"),
				iv(t, "2025-10-02T10:00:00Z", "2025-10-02T11:00:00Z"),
			},
			want: []models.BusyInterval{
				iv(t, "2025-10-02T09:00:00Z", "2025-10-02T15:00:00Z"),
			},
		},
		{
			name: "disjoint intervals stay separate",
			input: []models.BusyInterval{
				iv(t, "2025-10-02T14:00:00Z", "2025-10-02T15:00:00Z"),
				iv(t, "2025-10-02T09:00:00Z", "2025-10-02T10:00:00Z"),
				iv(t, "2025-10-03T09:00:00Z", "2025-10-03T10:00:00Z"),
			},
			want: []models.BusyInterval{
				iv(t, "2025-10-02T09:00:00Z", "2025-10-02T10:00:00Z"),
				iv(t, "2025-10-02T14:00:00Z", "2025-10-02T15:00:00Z"),
				iv(t, "2025-10-03T09:00:00Z", "2025-10-03T10:00:00Z"),
			},
		},
		{
			name: "zero-length interval absorbed at a boundary",
			input: []models.BusyInterval{
				iv(t, "2025-10-02T09:00:00Z", "2025-10-02T10:00:00Z"),
				iv(t, "2025-10-02T10:00:00Z", "2025-10-02T10:00:00Z"),
			},
			want: []models.BusyInterval{
				iv(t, "2025-10-02T09:00:00Z", "2025-10-02T10:00:00Z"),
			},
		},
		{
			name: "standalone zero-length interval survives",
			input: []models.BusyInterval{
				iv(t, "2025-10-02T09:00:00Z", "2025-10-02T09:00:00Z"),
				iv(t, "2025-10-02T12:00:00Z", "2025-10-02T13:00:00Z"),
			},
			want: []models.BusyInterval{
				iv(t, "2025-10-02T09:00:00Z", "2025-10-02T09:00:00Z"),
				iv(t, "2025-10-02T12:00:00Z", "2025-10-02T13:00:00Z"),
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Merge(tc.input)
			if len(got) != len(tc.want) {
				t.Fatalf("Merge() returned %d intervals, want %d: %+v", len(got), len(tc.want), got)
			}
			for i := range got {
				if !got[i].Start.Equal(tc.want[i].Start) || !got[i].End.Equal(tc.want[i].End) {
					t.Errorf("interval %d = [%v, %v), want [%v, %v)",
						i, got[i].Start, got[i].End, tc.want[i].Start, tc.want[i].End)
				}
			}
		})
	}
}

func TestMergeDoesNotMutateInput(t *testing.T) {
	input := []models.BusyInterval{
		iv(t, "2025-10-02T14:00:00Z", "2025-10-02T15:00:00Z"),
		iv(t, "2025-10-02T09:00:00Z", "2025-10-02T10:00:00Z"),
	}
	Merge(input)
	if !input[0].Start.Equal(at(t, "2025-10-02T14:00:00Z")) {
		t.Error("Merge reordered the caller's slice")
	}
}

func TestOverlaps(t *testing.T) {
	merged := Merge([]models.BusyInterval{
		iv(t, "2025-10-02T09:00:00Z", "2025-10-02T10:00:00Z"),
		iv(t, "2025-10-02T14:00:00Z", "2025-10-02T16:00:00Z"),
	})

	tests := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"entirely before", "2025-10-02T07:00:00Z", "2025-10-02T09:00:00Z", false}, // touching does not overlap
		{"entirely after", "2025-10-02T16:00:00Z", "2025-10-02T18:00:00Z", false},
		{"in the gap", "2025-10-02T10:00:00Z", "2025-10-02T14:00:00Z", false},
		{"straddles a start", "2025-10-02T08:30:00Z", "2025-10-02T09:30:00Z", true},
		{"straddles an end", "2025-10-02T15:30:00Z", "2025-10-02T17:00:00Z", true},
		{"contains an interval", "2025-10-02T08:00:00Z", "2025-10-02T11:00:00Z", true},
		{"contained in an interval", "2025-10-02T14:30:00Z", "2025-10-02T15:00:00Z", true},
		{"busy strictly inside the span", "2025-10-02T13:00:00Z", "2025-10-02T17:00:00Z", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := overlaps(merged, at(t, tc.start), at(t, tc.end)); got != tc.want {
				t.Errorf("overlaps([%s, %s)) = %v, want %v", tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestBlockedDayInterval(t *testing.T) {
	got := blockedDayInterval("u1", at(t, "2025-10-02T17:45:00Z"))
	if !got.Start.Equal(at(t, "2025-10-02T00:00:00Z")) || !got.End.Equal(at(t, "2025-10-03T00:00:00Z")) {
		t.Errorf("blockedDayInterval = [%v, %v), want the whole day", got.Start, got.End)
	}
	if got.OriginUserID != "u1" {
		t.Errorf("OriginUserID = %q, want u1", got.OriginUserID)
	}
}
