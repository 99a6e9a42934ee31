package availability

import "time"

// Scoring constants. Scores rank candidates; they never filter them.
const (
	scoreBase           = 100
	scoreAfternoonBonus = 20
	scoreMorningBonus   = 10
	scoreWeekendBonus   = 15
	scoreFridayBonus    = 10
	scoreCrowdPenalty   = 5
	scoreRecencyMax     = 14
	recencyHorizonDays  = 7
	crowdThreshold      = 5

	morningBandStart   = 10 * 60 // minutes from midnight
	morningBandEnd     = 12 * 60
	afternoonBandStart = 14 * 60
	afternoonBandEnd   = 18 * 60
)

// scoreSlot ranks a candidate start time. Base 100, preferred-band and
// weekend bonuses, a small penalty for large groups, and a recency bonus
// decreasing linearly across the first week. Floored at zero.
func scoreSlot(start time.Time, participantCount int, now time.Time) int {
	score := scoreBase

	minute := start.Hour()*60 + start.Minute()
	switch {
	case minute >= afternoonBandStart && minute < afternoonBandEnd:
		score += scoreAfternoonBonus
	case minute >= morningBandStart && minute < morningBandEnd:
		score += scoreMorningBonus
	}

	switch start.Weekday() {
	case time.Saturday, time.Sunday:
		score += scoreWeekendBonus
	case time.Friday:
		score += scoreFridayBonus
	}

	if participantCount > crowdThreshold {
		score -= scoreCrowdPenalty
	}

	if days := daysBetween(dateOnly(now), dateOnly(start)); days >= 0 && days < recencyHorizonDays {
		score += scoreRecencyMax * (recencyHorizonDays - days) / recencyHorizonDays
	}

	if score < 0 {
		score = 0
	}
	return score
}
