package calendar

import (
	"testing"
	"time"

	"gatherly/services/availability"
)

func expandWindow(start, end time.Time) availability.SearchWindow {
	return availability.SearchWindow{Start: start, End: end}
}

func utc(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestExpandNonRecurring(t *testing.T) {
	window := expandWindow(utc(2025, 10, 1, 0, 0), utc(2025, 11, 1, 0, 0))

	events := []parsedEvent{
		{Title: "inside", Start: utc(2025, 10, 5, 9, 0), End: utc(2025, 10, 5, 10, 0)},
		{Title: "before", Start: utc(2025, 9, 20, 9, 0), End: utc(2025, 9, 20, 10, 0)},
		{Title: "after", Start: utc(2025, 11, 2, 9, 0), End: utc(2025, 11, 2, 10, 0)},
		{Title: "straddles start", Start: utc(2025, 9, 30, 22, 0), End: utc(2025, 10, 1, 2, 0)},
	}

	got := expandBusyIntervals(events, "u1", "src-1", window)
	if len(got) != 2 {
		t.Fatalf("expanded %d intervals, want 2: %+v", len(got), got)
	}
	if !got[0].Start.Equal(utc(2025, 10, 5, 9, 0)) {
		t.Errorf("got[0].Start = %v", got[0].Start)
	}
	if !got[1].Start.Equal(utc(2025, 9, 30, 22, 0)) {
		t.Errorf("got[1].Start = %v, want the straddling event kept", got[1].Start)
	}
	for _, ivl := range got {
		if ivl.OriginUserID != "u1" || ivl.OriginSourceID != "src-1" {
			t.Errorf("interval missing origin attribution: %+v", ivl)
		}
	}
}

func TestExpandWeeklyRecurrence(t *testing.T) {
	window := expandWindow(utc(2025, 10, 1, 0, 0), utc(2025, 11, 1, 0, 0))

	ev := parsedEvent{
		Title: "weekly sync",
		Start: utc(2025, 10, 2, 9, 0),
		End:   utc(2025, 10, 2, 10, 0),
		RRule: "FREQ=WEEKLY;COUNT=4",
	}

	got := expandBusyIntervals([]parsedEvent{ev}, "u1", "src-1", window)
	if len(got) != 4 {
		t.Fatalf("expanded %d occurrences, want 4: %+v", len(got), got)
	}
	for i, ivl := range got {
		wantStart := utc(2025, 10, 2, 9, 0).AddDate(0, 0, 7*i)
		if !ivl.Start.Equal(wantStart) {
			t.Errorf("occurrence %d starts %v, want %v", i, ivl.Start, wantStart)
		}
		if ivl.End.Sub(ivl.Start) != time.Hour {
			t.Errorf("occurrence %d duration = %v, want 1h", i, ivl.End.Sub(ivl.Start))
		}
	}
}

func TestExpandHonorsExdates(t *testing.T) {
	window := expandWindow(utc(2025, 10, 1, 0, 0), utc(2025, 11, 1, 0, 0))

	ev := parsedEvent{
		Start:   utc(2025, 10, 2, 9, 0),
		End:     utc(2025, 10, 2, 10, 0),
		RRule:   "FREQ=WEEKLY;COUNT=4",
		ExDates: []time.Time{utc(2025, 10, 9, 9, 0)},
	}

	got := expandBusyIntervals([]parsedEvent{ev}, "u1", "src-1", window)
	if len(got) != 3 {
		t.Fatalf("expanded %d occurrences, want 3 after exclusion: %+v", len(got), got)
	}
	for _, ivl := range got {
		if ivl.Start.Equal(utc(2025, 10, 9, 9, 0)) {
			t.Error("excluded occurrence was expanded anyway")
		}
	}
}

func TestExpandClipsRecurrenceToWindow(t *testing.T) {
	// A narrow window sees only the occurrences inside it.
	window := expandWindow(utc(2025, 10, 1, 0, 0), utc(2025, 10, 15, 0, 0))

	ev := parsedEvent{
		Start: utc(2025, 10, 2, 9, 0),
		End:   utc(2025, 10, 2, 10, 0),
		RRule: "FREQ=WEEKLY;COUNT=52",
	}

	got := expandBusyIntervals([]parsedEvent{ev}, "u1", "src-1", window)
	if len(got) != 2 {
		t.Fatalf("expanded %d occurrences, want 2 (10-02 and 10-09): %+v", len(got), got)
	}
}

func TestExpandSkipsMalformedRRule(t *testing.T) {
	window := expandWindow(utc(2025, 10, 1, 0, 0), utc(2025, 11, 1, 0, 0))

	ev := parsedEvent{
		Start: utc(2025, 10, 2, 9, 0),
		End:   utc(2025, 10, 2, 10, 0),
		RRule: "FREQ=SOMETIMES",
	}

	if got := expandBusyIntervals([]parsedEvent{ev}, "u1", "src-1", window); len(got) != 0 {
		t.Errorf("malformed rule expanded to %d intervals, want 0", len(got))
	}
}
