package event

import (
	"testing"

	"gatherly/models"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name        string
		current     models.EventStatus
		trigger     Trigger
		activeCount int
		min         int
		want        models.EventStatus
		wantChanged bool
	}{
		{
			name:        "recruiting join below minimum stays recruiting",
			current:     models.StatusRecruiting,
			trigger:     TriggerJoin,
			activeCount: 2,
			min:         3,
			want:        models.StatusRecruiting,
			wantChanged: false,
		},
		{
			name:        "recruiting join clearing minimum completes recruitment",
			current:     models.StatusRecruiting,
			trigger:     TriggerJoin,
			activeCount: 3,
			min:         3,
			want:        models.StatusRecruitmentComplete,
			wantChanged: true,
		},
		{
			name:        "recruiting join above minimum completes recruitment",
			current:     models.StatusRecruiting,
			trigger:     TriggerJoin,
			activeCount: 5,
			min:         3,
			want:        models.StatusRecruitmentComplete,
			wantChanged: true,
		},
		{
			name:        "recruitment complete leave below minimum reopens",
			current:     models.StatusRecruitmentComplete,
			trigger:     TriggerLeave,
			activeCount: 2,
			min:         3,
			want:        models.StatusRecruiting,
			wantChanged: true,
		},
		{
			name:        "recruitment complete leave still at minimum holds",
			current:     models.StatusRecruitmentComplete,
			trigger:     TriggerLeave,
			activeCount: 3,
			min:         3,
			want:        models.StatusRecruitmentComplete,
			wantChanged: false,
		},
		{
			name:        "recruitment complete ignores further joins",
			current:     models.StatusRecruitmentComplete,
			trigger:     TriggerJoin,
			activeCount: 4,
			min:         3,
			want:        models.StatusRecruitmentComplete,
			wantChanged: false,
		},
		{
			name:        "recruiting ignores leaves",
			current:     models.StatusRecruiting,
			trigger:     TriggerLeave,
			activeCount: 1,
			min:         3,
			want:        models.StatusRecruiting,
			wantChanged: false,
		},
		{
			name:        "cancelled join below minimum revives to recruiting",
			current:     models.StatusCancelled,
			trigger:     TriggerJoin,
			activeCount: 1,
			min:         3,
			want:        models.StatusRecruiting,
			wantChanged: true,
		},
		{
			name:        "cancelled join clearing minimum revives to complete",
			current:     models.StatusCancelled,
			trigger:     TriggerJoin,
			activeCount: 3,
			min:         3,
			want:        models.StatusRecruitmentComplete,
			wantChanged: true,
		},
		{
			name:        "cancelled leave is terminal",
			current:     models.StatusCancelled,
			trigger:     TriggerLeave,
			activeCount: 0,
			min:         3,
			want:        models.StatusCancelled,
			wantChanged: false,
		},
		{
			name:        "completed ignores joins",
			current:     models.StatusCompleted,
			trigger:     TriggerJoin,
			activeCount: 5,
			min:         3,
			want:        models.StatusCompleted,
			wantChanged: false,
		},
		{
			name:        "completed ignores leaves",
			current:     models.StatusCompleted,
			trigger:     TriggerLeave,
			activeCount: 1,
			min:         3,
			want:        models.StatusCompleted,
			wantChanged: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sc := StatusContext{ActiveCount: tc.activeCount, MinParticipants: tc.min}
			got, changed := NextStatus(tc.current, tc.trigger, sc)
			if got != tc.want || changed != tc.wantChanged {
				t.Errorf("NextStatus(%s, %s, count=%d min=%d) = (%s, %v), want (%s, %v)",
					tc.current, tc.trigger, tc.activeCount, tc.min, got, changed, tc.want, tc.wantChanged)
			}
		})
	}
}

func TestForceStatus(t *testing.T) {
	if got, ok := ForceStatus(TriggerManualComplete); !ok || got != models.StatusCompleted {
		t.Errorf("ForceStatus(manualComplete) = (%s, %v), want (COMPLETED, true)", got, ok)
	}
	if got, ok := ForceStatus(TriggerManualCancel); !ok || got != models.StatusCancelled {
		t.Errorf("ForceStatus(manualCancel) = (%s, %v), want (CANCELLED, true)", got, ok)
	}
	if _, ok := ForceStatus(TriggerJoin); ok {
		t.Error("ForceStatus(join) should not map to a status")
	}
}
