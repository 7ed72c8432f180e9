package nudge

import (
	"fmt"

	"github.com/abhisek/learnpulse/internal/learner"
)

// Urgent thresholds. These are independent of the catalogue.
const (
	UrgentAttendanceBelow = 0.6
	UrgentEngagementBelow = 30.0
	UrgentDropoutAbove    = 0.8
	UrgentPassRateBelow   = 0.4
	UrgentGradeBelow      = 8.0 // out of 20
)

type urgentCheck struct {
	kind   UrgentKind
	reason string
	fire   func(s learner.State) (message string, ok bool)
}

var urgentChecks = []urgentCheck{
	{
		kind:   UrgentAttendance,
		reason: "Low attendance detected",
		fire: func(s learner.State) (string, bool) {
			rate := s.Attendance()
			if rate >= UrgentAttendanceBelow {
				return "", false
			}
			return fmt.Sprintf("Your attendance is only %.0f%%. Missing more classes puts you at risk of failing!", rate*100), true
		},
	},
	{
		kind:   UrgentEngagement,
		reason: "Critical engagement drop",
		fire: func(s learner.State) (string, bool) {
			score := s.Engagement()
			if score >= UrgentEngagementBelow {
				return "", false
			}
			return fmt.Sprintf("Your engagement has dropped to %.0f%%. Immediate action needed to avoid dropout!", score), true
		},
	},
	{
		kind:   UrgentDropoutRisk,
		reason: "Extremely high dropout risk detected",
		fire: func(s learner.State) (string, bool) {
			if s.Risk() <= UrgentDropoutAbove {
				return "", false
			}
			return "You're at high risk of dropping out. Please contact your mentor or advisor immediately!", true
		},
	},
	{
		kind:   UrgentEvaluations,
		reason: "Multiple evaluation failures",
		fire: func(s learner.State) (string, bool) {
			rate, ok := s.PassRate()
			if !ok || rate >= UrgentPassRateBelow {
				return "", false
			}
			return fmt.Sprintf("You've only passed %d/%d evaluations. Get help before it's too late!",
				s.EvaluationsPassed, s.EvaluationsAttempted), true
		},
	},
	{
		kind:   UrgentGrades,
		reason: "Very low academic performance",
		fire: func(s learner.State) (string, bool) {
			avg := s.AverageGrade()
			if avg >= UrgentGradeBelow {
				return "", false
			}
			return fmt.Sprintf("Your average grade is %.1f/20. Schedule tutoring sessions now!", avg), true
		},
	},
}

// EvaluateUrgent runs the five urgent checks against s in fixed order.
// Every returned nudge is high priority with status urgent. Missing
// metrics fall back to values that never fire.
func (e *Engine) EvaluateUrgent(s learner.State) ([]Nudge, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var out []Nudge
	for _, c := range urgentChecks {
		msg, ok := c.fire(s)
		if !ok {
			continue
		}
		out = append(out, Nudge{
			User:          s.Name,
			UserID:        s.ID,
			Type:          string(c.kind),
			Message:       msg,
			Priority:      PriorityHigh,
			TriggerReason: c.reason,
			CreatedAt:     e.now(),
			Status:        StatusUrgent,
			IsUrgent:      true,
		})
	}

	if len(out) > 0 {
		e.log.Debug("urgent nudges fired", "user_id", s.ID, "count", len(out))
	}
	return out, nil
}
