package calendar

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

// fallbackDisplayName is used when neither the calendar-name property nor
// the producer heuristic yields anything.
const fallbackDisplayName = "Calendar"

// parsedEvent is the normalized form of one VEVENT. Recurrence is recorded
// raw and expanded later against a concrete window.
type parsedEvent struct {
	Title   string
	Start   time.Time
	End     time.Time
	AllDay  bool
	RRule   string
	ExDates []time.Time
}

// fetch retrieves the raw feed body. Unreachable hosts and non-2xx
// responses surface as plain errors for the caller to fold into a sync
// result.
func (s *DefaultCalendarService) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/calendar")

	resp, err := s.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("calendar fetch returned %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// parseICS extracts events and a display name from an ICS payload. Events
// missing a usable start or end are skipped, not failed.
func parseICS(body []byte) ([]parsedEvent, string, error) {
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, "", err
	}

	var events []parsedEvent
	for _, ve := range cal.Events() {
		ev, ok := parseVEvent(ve)
		if !ok {
			continue
		}
		events = append(events, ev)
	}
	return events, displayName(cal), nil
}

// displayName resolves the feed's label: the explicit calendar-name
// property wins, then a producer signature heuristic, then a generic
// fallback.
func displayName(cal *ical.Calendar) string {
	var prodID string
	for _, prop := range cal.CalendarProperties {
		switch strings.ToUpper(prop.IANAToken) {
		case "X-WR-CALNAME":
			if prop.Value != "" {
				return prop.Value
			}
		case "PRODID":
			prodID = prop.Value
		}
	}
	if name := producerName(prodID); name != "" {
		return name
	}
	return fallbackDisplayName
}

// producerName recognizes well-known calendar producers by their PRODID
// signature.
func producerName(prodID string) string {
	p := strings.ToLower(prodID)
	switch {
	case strings.Contains(p, "google"):
		return "Google Calendar"
	case strings.Contains(p, "apple") || strings.Contains(p, "ical"):
		return "Apple Calendar"
	case strings.Contains(p, "microsoft") || strings.Contains(p, "outlook"):
		return "Outlook Calendar"
	case strings.Contains(p, "mozilla"):
		return "Thunderbird"
	case strings.Contains(p, "naver"):
		return "Naver Calendar"
	default:
		return ""
	}
}

func parseVEvent(ve *ical.VEvent) (parsedEvent, bool) {
	var ev parsedEvent

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		ev.Title = p.Value
	}

	start, end, allDay, ok := eventSpan(ve)
	if !ok {
		return ev, false
	}
	ev.Start, ev.End, ev.AllDay = start, end, allDay

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		ev.RRule = p.Value
	}
	ev.ExDates = exDates(ve)

	return ev, true
}

// eventSpan resolves the event's concrete start and end. All-day events
// (VALUE=DATE or a date-only DTSTART) span whole days; an all-day event
// without DTEND spans one day. Timed events without a usable start or end
// are unusable.
func eventSpan(ve *ical.VEvent) (start, end time.Time, allDay, ok bool) {
	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil || dtStart.Value == "" {
		return start, end, false, false
	}

	if params := dtStart.ICalParameters; params != nil {
		if vs, has := params["VALUE"]; has && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			allDay = true
		}
	}
	if !strings.Contains(dtStart.Value, "T") {
		allDay = true
	}

	if allDay {
		day, err := time.ParseInLocation("20060102", dtStart.Value, time.UTC)
		if err != nil {
			return start, end, true, false
		}
		start = day
		end = day.AddDate(0, 0, 1)
		if dtEnd := ve.GetProperty(ical.ComponentPropertyDtEnd); dtEnd != nil {
			// DTEND of an all-day event is exclusive already.
			if e, err := time.ParseInLocation("20060102", dtEnd.Value, time.UTC); err == nil && e.After(start) {
				end = e
			}
		}
		return start, end, true, true
	}

	start, err := ve.GetStartAt()
	if err != nil || start.IsZero() {
		return start, end, false, false
	}
	end, err = ve.GetEndAt()
	if err != nil || end.IsZero() {
		return start, end, false, false
	}
	return start, end, false, true
}

func exDates(ve *ical.VEvent) []time.Time {
	var out []time.Time
	for _, prop := range ve.Properties {
		if !strings.EqualFold(prop.IANAToken, "EXDATE") {
			continue
		}
		for _, raw := range strings.Split(prop.Value, ",") {
			if t, err := parseICSTime(strings.TrimSpace(raw)); err == nil {
				out = append(out, t)
			}
		}
	}
	return out
}

func parseICSTime(raw string) (time.Time, error) {
	layouts := []string{"20060102T150405Z", "20060102T150405", "20060102"}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized ICS time %q", raw)
}
