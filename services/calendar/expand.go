package calendar

import (
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"gatherly/models"
	"gatherly/services/availability"
	"gatherly/utils"
)

// maxOccurrencesPerEvent caps recurrence expansion so a pathological RRULE
// cannot blow up a request.
const maxOccurrencesPerEvent = 500

// expandBusyIntervals turns parsed events into concrete busy intervals
// inside the window, expanding recurring events and honoring EXDATE
// exclusions. Events that fail to expand are skipped.
func expandBusyIntervals(events []parsedEvent, userID, sourceID string, window availability.SearchWindow) []models.BusyInterval {
	var out []models.BusyInterval
	for _, ev := range events {
		if ev.RRule == "" {
			if ev.End.After(window.Start) && ev.Start.Before(window.End) {
				out = append(out, models.BusyInterval{
					Start:          ev.Start,
					End:            ev.End,
					OriginUserID:   userID,
					OriginSourceID: sourceID,
				})
			}
			continue
		}
		out = append(out, expandRecurring(ev, userID, sourceID, window)...)
	}
	return out
}

func expandRecurring(ev parsedEvent, userID, sourceID string, window availability.SearchWindow) []models.BusyInterval {
	opt, err := rrule.StrToROption(ev.RRule)
	if err != nil {
		utils.GetLogger().Warn("skipping event with malformed RRULE",
			zap.String("sourceID", sourceID), zap.Error(err))
		return nil
	}
	opt.Dtstart = ev.Start
	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		utils.GetLogger().Warn("skipping event with unexpandable RRULE",
			zap.String("sourceID", sourceID), zap.Error(err))
		return nil
	}

	excluded := make(map[int64]struct{}, len(ev.ExDates))
	for _, ex := range ev.ExDates {
		excluded[ex.Unix()] = struct{}{}
	}

	duration := ev.End.Sub(ev.Start)
	occurrences := rule.Between(window.Start.Add(-duration), window.End, true)
	if len(occurrences) > maxOccurrencesPerEvent {
		occurrences = occurrences[:maxOccurrencesPerEvent]
	}

	var out []models.BusyInterval
	for _, occ := range occurrences {
		if _, skip := excluded[occ.Unix()]; skip {
			continue
		}
		end := occ.Add(duration)
		if !end.After(window.Start) || !occ.Before(window.End) {
			continue
		}
		out = append(out, models.BusyInterval{
			Start:          occ,
			End:            end,
			OriginUserID:   userID,
			OriginSourceID: sourceID,
		})
	}
	return out
}
