package event

import "gatherly/models"

// Trigger is what happened to the event's roster or lifecycle.
type Trigger string

const (
	TriggerJoin           Trigger = "join"
	TriggerLeave          Trigger = "leave"
	TriggerManualComplete Trigger = "manualComplete"
	TriggerManualCancel   Trigger = "manualCancel"
)

// StatusContext carries the inputs the transition predicates branch on.
type StatusContext struct {
	ActiveCount     int
	MinParticipants int
}

func clearsMinimum(sc StatusContext) bool {
	return sc.ActiveCount >= sc.MinParticipants
}

func belowMinimum(sc StatusContext) bool {
	return sc.ActiveCount < sc.MinParticipants
}

// transition is one row of the status machine: (currentState, trigger,
// predicate) -> newState. A nil predicate always fires.
type transition struct {
	from    models.EventStatus
	trigger Trigger
	when    func(StatusContext) bool
	to      models.EventStatus
}

// transitions is the exhaustive automatic machine. States and triggers not
// listed here do not transition: RECRUITMENT_COMPLETE and COMPLETED ignore
// joins, RECRUITING ignores leaves, COMPLETED and CANCELLED are terminal
// with respect to leave triggers. Manual overrides are handled by
// ForceStatus, not this table.
var transitions = []transition{
	{models.StatusRecruiting, TriggerJoin, clearsMinimum, models.StatusRecruitmentComplete},
	{models.StatusCancelled, TriggerJoin, clearsMinimum, models.StatusRecruitmentComplete},
	{models.StatusCancelled, TriggerJoin, belowMinimum, models.StatusRecruiting},
	{models.StatusRecruitmentComplete, TriggerLeave, belowMinimum, models.StatusRecruiting},
}

// NextStatus applies the transition table. It returns the resulting status
// and whether it differs from current; recomputation with an unchanged
// count yields (current, false) so callers can skip the write.
func NextStatus(current models.EventStatus, trigger Trigger, sc StatusContext) (models.EventStatus, bool) {
	for _, t := range transitions {
		if t.from != current || t.trigger != trigger {
			continue
		}
		if t.when != nil && !t.when(sc) {
			continue
		}
		return t.to, t.to != current
	}
	return current, false
}

// ForceStatus is the administrative override: it maps a manual trigger to
// its target state unconditionally, terminal against the automatic machine.
func ForceStatus(trigger Trigger) (models.EventStatus, bool) {
	switch trigger {
	case TriggerManualComplete:
		return models.StatusCompleted, true
	case TriggerManualCancel:
		return models.StatusCancelled, true
	default:
		return "", false
	}
}
